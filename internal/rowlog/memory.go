package rowlog

import (
	"context"
	"fmt"
	"sync"

	"calorie-log/internal/cal"
)

// MemoryRowLog is an in-memory implementation of the RowLog interface.
// It keeps rows in a slice in append order, which makes it useful for tests
// and for trying the webhook without a spreadsheet.
// This implementation is safe for concurrent use.
type MemoryRowLog struct {
	name string
	rows []cal.Row
	mu   sync.RWMutex
}

// NewMemoryRowLog creates an empty in-memory log with the given name.
func NewMemoryRowLog(name string) *MemoryRowLog {
	return &MemoryRowLog{name: name}
}

// ListRows returns a copy of every row in order.
func (m *MemoryRowLog) ListRows(_ context.Context) ([]cal.Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := make([]cal.Row, len(m.rows))
	for i, row := range m.rows {
		rows[i] = append(cal.Row(nil), row...)
	}
	return rows, nil
}

// AppendRow adds a copy of row at the end.
func (m *MemoryRowLog) AppendRow(_ context.Context, row cal.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = append(m.rows, append(cal.Row(nil), row...))
	return nil
}

// UpdateCell overwrites one cell, widening the row if it is short.
func (m *MemoryRowLog) UpdateCell(_ context.Context, index int, col cal.Column, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.rows) {
		return fmt.Errorf("row %d out of range (have %d)", index, len(m.rows))
	}
	if col < 0 || int(col) >= cal.NumColumns {
		return fmt.Errorf("column %d out of range", col)
	}

	row := m.rows[index]
	for len(row) <= int(col) {
		row = append(row, "")
	}
	row[col] = value
	m.rows[index] = row
	return nil
}

// DeleteRow removes the row at index; later rows shift up.
func (m *MemoryRowLog) DeleteRow(_ context.Context, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.rows) {
		return fmt.Errorf("row %d out of range (have %d)", index, len(m.rows))
	}
	m.rows = append(m.rows[:index], m.rows[index+1:]...)
	return nil
}

// Close is a no-op for the in-memory log.
func (m *MemoryRowLog) Close() error {
	return nil
}

// Compile-time check that MemoryRowLog implements cal.RowLog interface
var _ cal.RowLog = (*MemoryRowLog)(nil)
