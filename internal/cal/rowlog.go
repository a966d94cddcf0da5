package cal

import "context"

// Column identifies a cell within a backing log row. Columns are laid out in
// the order they appear in the sheet, starting at 0.
type Column int

const (
	ColDate        Column = iota // YYYY-MM-DD
	ColTime                      // hh:mm AM/PM
	ColDescription               // what the user typed, or the corrected description
	ColItems                     // "name (cal), name (cal)"
	ColCalories                  // calories for this entry
	ColDailyTotal                // running total for the day, recalculated
)

// NumColumns is the width of a backing log row.
const NumColumns = 6

// Header is the header row every backing log carries above its data rows.
var Header = Row{"date", "time", "description", "items", "calories", "daily_total"}

// Row is a single data row of the backing log, one string per Column.
type Row []string

// Cell returns the value of col, or "" when the row is shorter than col.
func (r Row) Cell(col Column) string {
	if int(col) < 0 || int(col) >= len(r) {
		return ""
	}
	return r[col]
}

// RowLog is the ordered-row store holding every logged entry. Rows are
// addressed by their 0-based position among data rows (the header is not
// counted). Append order is chronological order; there is no ID column, so a
// row's position is its only identity and shifts when an earlier row is
// deleted.
//
// Implementations provide no transactions. Every failure must be returned;
// callers treat any error as the log being unavailable.
type RowLog interface {
	// ListRows returns every data row in physical order.
	ListRows(ctx context.Context) ([]Row, error)

	// AppendRow adds a row after the last data row.
	AppendRow(ctx context.Context, row Row) error

	// UpdateCell overwrites a single cell of the row at index.
	UpdateCell(ctx context.Context, index int, col Column, value string) error

	// DeleteRow removes the row at index. All later rows move up by one.
	DeleteRow(ctx context.Context, index int) error

	// Close releases any connection held by the log.
	Close() error
}
