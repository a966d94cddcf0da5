package testutil

import (
	"context"
	"sync"
	"testing"

	"calorie-log/internal/cal"
	"calorie-log/internal/rowlog"
)

// NewTestRowLog creates a new in-memory row log for testing.
func NewTestRowLog() *rowlog.MemoryRowLog {
	return rowlog.NewMemoryRowLog("test-log")
}

// SeedRows appends rows to log, failing the test on error.
func SeedRows(t testing.TB, log cal.RowLog, rows ...cal.Row) {
	t.Helper()
	for _, row := range rows {
		if err := log.AppendRow(context.Background(), row); err != nil {
			t.Fatalf("seeding row %v: %v", row, err)
		}
	}
}

// FailingRowLog wraps a RowLog and returns Err from the operations switched
// on by the Fail* fields.
type FailingRowLog struct {
	cal.RowLog

	mu         sync.Mutex
	Err        error
	FailList   bool
	FailAppend bool
	FailUpdate bool
	FailDelete bool
	Updates    int // successful UpdateCell calls
}

func (f *FailingRowLog) ListRows(ctx context.Context) ([]cal.Row, error) {
	if f.FailList {
		return nil, f.Err
	}
	return f.RowLog.ListRows(ctx)
}

func (f *FailingRowLog) AppendRow(ctx context.Context, row cal.Row) error {
	if f.FailAppend {
		return f.Err
	}
	return f.RowLog.AppendRow(ctx, row)
}

func (f *FailingRowLog) UpdateCell(ctx context.Context, index int, col cal.Column, value string) error {
	if f.FailUpdate {
		return f.Err
	}
	if err := f.RowLog.UpdateCell(ctx, index, col, value); err != nil {
		return err
	}
	f.mu.Lock()
	f.Updates++
	f.mu.Unlock()
	return nil
}

func (f *FailingRowLog) DeleteRow(ctx context.Context, index int) error {
	if f.FailDelete {
		return f.Err
	}
	return f.RowLog.DeleteRow(ctx, index)
}
