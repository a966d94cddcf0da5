package rowlog

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"calorie-log/internal/cal"
)

// SheetsRowLog implements cal.RowLog on one tab of a Google Sheets
// spreadsheet. Row 1 of the tab is the header; data index i lives on sheet
// row i+2.
//
// Every call goes straight to the Sheets API. Nothing is cached, so edits
// made by hand in the spreadsheet are picked up on the next request.
type SheetsRowLog struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	sheetGID      int64
}

// NewSheetsRowLog creates a log on the tab sheetName of spreadsheetID.
// The tab's numeric id, needed to delete rows, is looked up by name so that
// every call addresses the same tab. Callers pass the credentials option,
// e.g. option.WithCredentialsJSON.
func NewSheetsRowLog(ctx context.Context, spreadsheetID, sheetName string, opts ...option.ClientOption) (*SheetsRowLog, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheets row log requires a spreadsheet id")
	}
	if sheetName == "" {
		sheetName = "Sheet1"
	}

	opts = append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}, opts...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	gid, err := lookupSheetID(ctx, svc, spreadsheetID, sheetName)
	if err != nil {
		return nil, err
	}

	return &SheetsRowLog{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		sheetGID:      gid,
	}, nil
}

func lookupSheetID(ctx context.Context, svc *sheets.Service, spreadsheetID, sheetName string) (int64, error) {
	ss, err := svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("reading spreadsheet %s: %w", spreadsheetID, err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == sheetName {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("spreadsheet %s has no tab named %q", spreadsheetID, sheetName)
}

// ListRows reads every data row below the header. Numbers come back
// unformatted so that "1,200" typed by hand reads as 1200; dates stay as
// their displayed text.
func (s *SheetsRowLog) ListRows(ctx context.Context) ([]cal.Row, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeOf("A2:F")).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("reading values: %w", err)
	}

	rows := make([]cal.Row, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make(cal.Row, len(values))
		for i, v := range values {
			row[i] = cellString(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AppendRow adds row after the last non-empty row of the tab.
func (s *SheetsRowLog) AppendRow(ctx context.Context, row cal.Row) error {
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.rangeOf("A:F"), &sheets.ValueRange{
		Values: [][]interface{}{values},
	}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending row: %w", err)
	}
	return nil
}

// UpdateCell writes a single cell of the data row at index.
func (s *SheetsRowLog) UpdateCell(ctx context.Context, index int, col cal.Column, value string) error {
	if index < 0 {
		return fmt.Errorf("row index %d out of range", index)
	}
	if col < 0 || int(col) >= cal.NumColumns {
		return fmt.Errorf("column %d out of range", col)
	}
	cell := s.rangeOf(fmt.Sprintf("%s%d", columnLetter(col), index+2))

	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, cell, &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("updating %s: %w", cell, err)
	}
	return nil
}

// DeleteRow removes the data row at index, shifting later rows up.
func (s *SheetsRowLog) DeleteRow(ctx context.Context, index int) error {
	if index < 0 {
		return fmt.Errorf("row index %d out of range", index)
	}
	start := int64(index + 1) // zero-based sheet row, header is 0

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    s.sheetGID,
					Dimension:  "ROWS",
					StartIndex: start,
					EndIndex:   start + 1,
					// SheetId 0 is the first tab and would otherwise be omitted.
					ForceSendFields: []string{"SheetId"},
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("deleting row %d: %w", index, err)
	}
	return nil
}

// Close is a no-op.
func (s *SheetsRowLog) Close() error { return nil }

func (s *SheetsRowLog) rangeOf(a1 string) string {
	return fmt.Sprintf("'%s'!%s", s.sheetName, a1)
}

// cellString renders a decoded JSON cell. Numbers are float64 and must not
// pick up an exponent.
func cellString(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func columnLetter(col cal.Column) string {
	return string(rune('A' + int(col)))
}

var _ cal.RowLog = (*SheetsRowLog)(nil)
