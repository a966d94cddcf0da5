package rowlog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"calorie-log/internal/cal"
)

// fakeSheets serves the subset of the Sheets v4 API SheetsRowLog uses,
// backed by a grid whose first row is the header. tabs maps tab titles to
// sheet ids. When values is set, reads return it instead of the grid.
type fakeSheets struct {
	mu           sync.Mutex
	tabs         map[string]int64
	grid         [][]string
	values       [][]any
	inputOption  []string
	renderOption []string
	deletes      []map[string]any
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	const prefix = "/v4/spreadsheets/sheet-123"
	path, ok := strings.CutPrefix(r.URL.Path, prefix)
	if !ok {
		http.Error(w, "unknown spreadsheet", http.StatusNotFound)
		return
	}

	switch {
	case path == "" && r.Method == http.MethodGet:
		var props []map[string]any
		for title, id := range f.tabs {
			props = append(props, map[string]any{
				"properties": map[string]any{"title": title, "sheetId": id},
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"sheets": props})

	case path == ":batchUpdate" && r.Method == http.MethodPost:
		var body struct {
			Requests []struct {
				DeleteDimension struct {
					Range map[string]any `json:"range"`
				} `json:"deleteDimension"`
			} `json:"requests"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		for _, req := range body.Requests {
			rng := req.DeleteDimension.Range
			f.deletes = append(f.deletes, rng)
			start := int(rng["startIndex"].(float64))
			f.grid = append(f.grid[:start], f.grid[start+1:]...)
		}
		w.Write([]byte(`{}`))

	case strings.HasSuffix(path, ":append") && r.Method == http.MethodPost:
		f.inputOption = append(f.inputOption, r.URL.Query().Get("valueInputOption"))
		var vr sheets.ValueRange
		json.NewDecoder(r.Body).Decode(&vr)
		for _, values := range vr.Values {
			row := make([]string, len(values))
			for i, v := range values {
				row[i] = v.(string)
			}
			f.grid = append(f.grid, row)
		}
		w.Write([]byte(`{}`))

	case strings.HasPrefix(path, "/values/") && r.Method == http.MethodPut:
		f.inputOption = append(f.inputOption, r.URL.Query().Get("valueInputOption"))
		_, a1, _ := strings.Cut(path, "!")
		col := int(a1[0] - 'A')
		rowNum, _ := strconv.Atoi(a1[1:])
		var vr sheets.ValueRange
		json.NewDecoder(r.Body).Decode(&vr)
		row := f.grid[rowNum-1]
		for len(row) <= col {
			row = append(row, "")
		}
		row[col] = vr.Values[0][0].(string)
		f.grid[rowNum-1] = row
		w.Write([]byte(`{}`))

	case strings.HasPrefix(path, "/values/") && r.Method == http.MethodGet:
		f.renderOption = append(f.renderOption, r.URL.Query().Get("valueRenderOption"))
		var values any = f.grid[1:]
		if f.values != nil {
			values = f.values
		}
		json.NewEncoder(w).Encode(map[string]any{
			"range":  strings.TrimPrefix(path, "/values/"),
			"values": values,
		})

	default:
		http.Error(w, "unexpected "+r.Method+" "+path, http.StatusBadRequest)
	}
}

func newFakeSheets(t *testing.T, gid int64) (*fakeSheets, []option.ClientOption) {
	t.Helper()
	fake := &fakeSheets{
		tabs: map[string]int64{"Sheet1": 0, "Log": gid},
		grid: [][]string{cal.Header},
	}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return fake, []option.ClientOption{
		option.WithEndpoint(srv.URL + "/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	}
}

// newFakeSheetsLog opens the "Log" tab, whose sheet id is gid.
func newFakeSheetsLog(t *testing.T, gid int64) (*SheetsRowLog, *fakeSheets) {
	t.Helper()
	fake, opts := newFakeSheets(t, gid)
	log, err := NewSheetsRowLog(context.Background(), "sheet-123", "Log", opts...)
	if err != nil {
		t.Fatalf("NewSheetsRowLog() error = %v", err)
	}
	return log, fake
}

func TestSheetsRowLog(t *testing.T) {
	ctx := context.Background()
	breakfast := cal.Row{"2024-01-15", "08:30 AM", "two eggs", "Eggs (140)", "140", "140"}
	lunch := cal.Row{"2024-01-15", "12:10 PM", "salad", "Salad (300)", "300", "440"}

	t.Run("append then list", func(t *testing.T) {
		log, fake := newFakeSheetsLog(t, 0)
		for _, row := range []cal.Row{breakfast, lunch} {
			if err := log.AppendRow(ctx, row); err != nil {
				t.Fatalf("AppendRow() error = %v", err)
			}
		}

		rows, err := log.ListRows(ctx)
		if err != nil {
			t.Fatalf("ListRows() error = %v", err)
		}
		if want := []cal.Row{breakfast, lunch}; !reflect.DeepEqual(rows, want) {
			t.Errorf("ListRows() = %v, want %v", rows, want)
		}
		for _, opt := range fake.inputOption {
			if opt != "RAW" {
				t.Errorf("valueInputOption = %q, want RAW", opt)
			}
		}
	})

	t.Run("update writes the offset cell", func(t *testing.T) {
		log, fake := newFakeSheetsLog(t, 0)
		fake.grid = append(fake.grid, append([]string(nil), breakfast...), append([]string(nil), lunch...))

		if err := log.UpdateCell(ctx, 1, cal.ColDailyTotal, "300"); err != nil {
			t.Fatalf("UpdateCell() error = %v", err)
		}
		if got := fake.grid[2][cal.ColDailyTotal]; got != "300" {
			t.Errorf("sheet row 3 daily total = %q, want 300", got)
		}
		if got := fake.grid[1][cal.ColDailyTotal]; got != "140" {
			t.Errorf("sheet row 2 daily total = %q, want unchanged", got)
		}
	})

	t.Run("delete sends sheet id and offset", func(t *testing.T) {
		log, fake := newFakeSheetsLog(t, 0)
		fake.grid = append(fake.grid, append([]string(nil), breakfast...), append([]string(nil), lunch...))

		if err := log.DeleteRow(ctx, 0); err != nil {
			t.Fatalf("DeleteRow() error = %v", err)
		}
		if len(fake.deletes) != 1 {
			t.Fatalf("deletes = %d, want 1", len(fake.deletes))
		}
		rng := fake.deletes[0]
		if _, ok := rng["sheetId"]; !ok {
			t.Error("deleteDimension range omits sheetId for the first tab")
		}
		if rng["startIndex"] != float64(1) || rng["endIndex"] != float64(2) {
			t.Errorf("range = %v, want rows [1, 2)", rng)
		}
		if !reflect.DeepEqual(cal.Row(fake.grid[1]), lunch) {
			t.Errorf("remaining row = %v, want lunch", fake.grid[1])
		}
	})

	t.Run("delete addresses the named tab", func(t *testing.T) {
		log, fake := newFakeSheetsLog(t, 123456)
		fake.grid = append(fake.grid, append([]string(nil), breakfast...), append([]string(nil), lunch...))

		if err := log.DeleteRow(ctx, 1); err != nil {
			t.Fatalf("DeleteRow() error = %v", err)
		}
		if len(fake.deletes) != 1 {
			t.Fatalf("deletes = %d, want 1", len(fake.deletes))
		}
		if got := fake.deletes[0]["sheetId"]; got != float64(123456) {
			t.Errorf("sheetId = %v, want 123456", got)
		}
	})

	t.Run("list reads unformatted numbers", func(t *testing.T) {
		log, fake := newFakeSheetsLog(t, 0)
		fake.values = [][]any{
			{"2024-01-15", "08:30 AM", "big lunch", "Pasta (1200)", 1200, 1200.5},
		}

		rows, err := log.ListRows(ctx)
		if err != nil {
			t.Fatalf("ListRows() error = %v", err)
		}
		want := []cal.Row{{"2024-01-15", "08:30 AM", "big lunch", "Pasta (1200)", "1200", "1200.5"}}
		if !reflect.DeepEqual(rows, want) {
			t.Errorf("ListRows() = %v, want %v", rows, want)
		}
		if len(fake.renderOption) != 1 || fake.renderOption[0] != "UNFORMATTED_VALUE" {
			t.Errorf("valueRenderOption = %v, want UNFORMATTED_VALUE", fake.renderOption)
		}
	})

	t.Run("negative index", func(t *testing.T) {
		log, _ := newFakeSheetsLog(t, 0)
		if err := log.DeleteRow(ctx, -1); err == nil {
			t.Error("DeleteRow(-1) expected error, got nil")
		}
		if err := log.UpdateCell(ctx, -1, cal.ColTime, "x"); err == nil {
			t.Error("UpdateCell(-1) expected error, got nil")
		}
	})
}

func TestNewSheetsRowLog(t *testing.T) {
	t.Run("requires spreadsheet id", func(t *testing.T) {
		if _, err := NewSheetsRowLog(context.Background(), "", "Log", option.WithoutAuthentication()); err == nil {
			t.Error("NewSheetsRowLog() expected error for empty id, got nil")
		}
	})

	t.Run("unknown tab", func(t *testing.T) {
		_, opts := newFakeSheets(t, 7)
		if _, err := NewSheetsRowLog(context.Background(), "sheet-123", "Meals", opts...); err == nil {
			t.Error("NewSheetsRowLog() expected error for missing tab, got nil")
		}
	})

	t.Run("default tab name", func(t *testing.T) {
		_, opts := newFakeSheets(t, 7)
		log, err := NewSheetsRowLog(context.Background(), "sheet-123", "", opts...)
		if err != nil {
			t.Fatalf("NewSheetsRowLog() error = %v", err)
		}
		if log.sheetName != "Sheet1" || log.sheetGID != 0 {
			t.Errorf("tab = %q (%d), want Sheet1 (0)", log.sheetName, log.sheetGID)
		}
	})
}

func TestCellString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"08:30 AM", "08:30 AM"},
		{float64(1200), "1200"},
		{float64(1e21), "1000000000000000000000"},
		{12.5, "12.5"},
		{nil, ""},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := cellString(tt.in); got != tt.want {
			t.Errorf("cellString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColumnLetter(t *testing.T) {
	tests := map[cal.Column]string{
		cal.ColDate:       "A",
		cal.ColCalories:   "E",
		cal.ColDailyTotal: "F",
	}
	for col, want := range tests {
		if got := columnLetter(col); got != want {
			t.Errorf("columnLetter(%d) = %q, want %q", col, got, want)
		}
	}
}
