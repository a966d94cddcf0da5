package rowlog

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sync"

	"calorie-log/internal/cal"
)

// blobStore reads and writes the whole log as one object.
// Read reports found=false when nothing has been written yet.
type blobStore interface {
	Read(ctx context.Context) (data []byte, found bool, err error)
	Write(ctx context.Context, data []byte) error
}

// BlobRowLog keeps the log as a CSV document with a header row inside a
// blobStore. Every mutation rewrites the whole document. Writers in this
// process are serialized; concurrent processes sharing the blob are not.
type BlobRowLog struct {
	store blobStore
	codec cal.Codec
	mu    sync.Mutex
}

func newBlobRowLog(store blobStore, codec cal.Codec) *BlobRowLog {
	return &BlobRowLog{store: store, codec: codec}
}

// ListRows returns the data rows in file order.
func (b *BlobRowLog) ListRows(ctx context.Context) ([]cal.Row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load(ctx)
}

// AppendRow adds row at the end of the document.
func (b *BlobRowLog) AppendRow(ctx context.Context, row cal.Row) error {
	return b.mutate(ctx, func(rows []cal.Row) ([]cal.Row, error) {
		return append(rows, row), nil
	})
}

// UpdateCell overwrites one cell of the row at index.
func (b *BlobRowLog) UpdateCell(ctx context.Context, index int, col cal.Column, value string) error {
	return b.mutate(ctx, func(rows []cal.Row) ([]cal.Row, error) {
		if index < 0 || index >= len(rows) {
			return nil, fmt.Errorf("row index %d out of range (%d rows)", index, len(rows))
		}
		if col < 0 || int(col) >= cal.NumColumns {
			return nil, fmt.Errorf("column %d out of range", col)
		}
		row := rows[index]
		for len(row) <= int(col) {
			row = append(row, "")
		}
		row[col] = value
		rows[index] = row
		return rows, nil
	})
}

// DeleteRow removes the row at index, shifting later rows up.
func (b *BlobRowLog) DeleteRow(ctx context.Context, index int) error {
	return b.mutate(ctx, func(rows []cal.Row) ([]cal.Row, error) {
		if index < 0 || index >= len(rows) {
			return nil, fmt.Errorf("row index %d out of range (%d rows)", index, len(rows))
		}
		return append(rows[:index], rows[index+1:]...), nil
	})
}

// Close is a no-op; every mutation is already persisted.
func (b *BlobRowLog) Close() error { return nil }

func (b *BlobRowLog) mutate(ctx context.Context, fn func([]cal.Row) ([]cal.Row, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows, err := b.load(ctx)
	if err != nil {
		return err
	}
	rows, err = fn(rows)
	if err != nil {
		return err
	}
	return b.save(ctx, rows)
}

func (b *BlobRowLog) load(ctx context.Context) ([]cal.Row, error) {
	data, found, err := b.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	if !found {
		return nil, nil
	}
	if b.codec != nil {
		if data, err = b.codec.Open(data); err != nil {
			return nil, fmt.Errorf("opening log: %w", err)
		}
	}
	return decodeCSV(data)
}

func (b *BlobRowLog) save(ctx context.Context, rows []cal.Row) error {
	data, err := encodeCSV(rows)
	if err != nil {
		return err
	}
	if b.codec != nil {
		if data, err = b.codec.Seal(data); err != nil {
			return fmt.Errorf("sealing log: %w", err)
		}
	}
	if err := b.store.Write(ctx, data); err != nil {
		return fmt.Errorf("writing log: %w", err)
	}
	return nil
}

// decodeCSV parses a document written by encodeCSV. The first record is the
// header and is dropped.
func decodeCSV(data []byte) ([]cal.Row, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]cal.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, cal.Row(rec))
	}
	return rows, nil
}

func encodeCSV(rows []cal.Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(cal.Header); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

var _ cal.RowLog = (*BlobRowLog)(nil)
