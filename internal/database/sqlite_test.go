package database

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"calorie-log/internal/cal"
)

// newTestLog creates a new in-memory row log with the schema applied.
func newTestLog(t *testing.T) *SQLiteRowLog {
	t.Helper()

	log, err := NewSQLiteRowLog(":memory:")
	if err != nil {
		t.Fatalf("failed to create row log: %v", err)
	}
	t.Cleanup(func() {
		log.Close()
	})
	return log
}

func seed(t *testing.T, log *SQLiteRowLog, rows ...cal.Row) {
	t.Helper()
	for _, row := range rows {
		if err := log.AppendRow(context.Background(), row); err != nil {
			t.Fatalf("AppendRow() error = %v", err)
		}
	}
}

func listRows(t *testing.T, log *SQLiteRowLog) []cal.Row {
	t.Helper()
	rows, err := log.ListRows(context.Background())
	if err != nil {
		t.Fatalf("ListRows() error = %v", err)
	}
	return rows
}

var (
	breakfast = cal.Row{"2024-01-15", "08:30 AM", "two eggs", "Eggs (140)", "140", "140"}
	lunch     = cal.Row{"2024-01-15", "12:10 PM", "salad", "Salad (300)", "300", "440"}
	dinner    = cal.Row{"2024-01-15", "07:00 PM", "pasta", "Pasta (650)", "650", "1090"}
)

func TestSQLiteRowLog_AppendAndList(t *testing.T) {
	t.Run("empty log lists nothing", func(t *testing.T) {
		log := newTestLog(t)
		if rows := listRows(t, log); len(rows) != 0 {
			t.Errorf("ListRows() = %v, want empty", rows)
		}
	})

	t.Run("rows come back in insertion order", func(t *testing.T) {
		log := newTestLog(t)
		seed(t, log, breakfast, lunch, dinner)

		got := listRows(t, log)
		want := []cal.Row{breakfast, lunch, dinner}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ListRows() = %v, want %v", got, want)
		}
	})

	t.Run("short rows are padded", func(t *testing.T) {
		log := newTestLog(t)
		seed(t, log, cal.Row{"2024-01-15", "08:30 AM"})

		got := listRows(t, log)
		want := []cal.Row{{"2024-01-15", "08:30 AM", "", "", "", ""}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ListRows() = %v, want %v", got, want)
		}
	})
}

func TestSQLiteRowLog_UpdateCell(t *testing.T) {
	t.Run("updates the row at index", func(t *testing.T) {
		log := newTestLog(t)
		seed(t, log, breakfast, lunch)

		if err := log.UpdateCell(context.Background(), 1, cal.ColCalories, "250"); err != nil {
			t.Fatalf("UpdateCell() error = %v", err)
		}

		rows := listRows(t, log)
		if got := rows[1].Cell(cal.ColCalories); got != "250" {
			t.Errorf("calories = %q, want 250", got)
		}
		if got := rows[0].Cell(cal.ColCalories); got != "140" {
			t.Errorf("other row calories = %q, want 140", got)
		}
	})

	t.Run("index follows deletions", func(t *testing.T) {
		log := newTestLog(t)
		seed(t, log, breakfast, lunch, dinner)

		if err := log.DeleteRow(context.Background(), 0); err != nil {
			t.Fatalf("DeleteRow() error = %v", err)
		}
		if err := log.UpdateCell(context.Background(), 0, cal.ColDailyTotal, "300"); err != nil {
			t.Fatalf("UpdateCell() error = %v", err)
		}

		rows := listRows(t, log)
		if rows[0].Cell(cal.ColDescription) != "salad" || rows[0].Cell(cal.ColDailyTotal) != "300" {
			t.Errorf("row 0 = %v, want salad with total 300", rows[0])
		}
	})

	t.Run("out of range", func(t *testing.T) {
		log := newTestLog(t)
		seed(t, log, breakfast)

		for _, index := range []int{-1, 1, 5} {
			if err := log.UpdateCell(context.Background(), index, cal.ColCalories, "1"); err == nil {
				t.Errorf("UpdateCell(%d) expected error, got nil", index)
			}
		}
	})

	t.Run("unknown column", func(t *testing.T) {
		log := newTestLog(t)
		seed(t, log, breakfast)

		if err := log.UpdateCell(context.Background(), 0, cal.Column(17), "x"); err == nil {
			t.Error("UpdateCell() expected error for unknown column, got nil")
		}
	})
}

func TestSQLiteRowLog_DeleteRow(t *testing.T) {
	t.Run("removes row and shifts later rows", func(t *testing.T) {
		log := newTestLog(t)
		seed(t, log, breakfast, lunch, dinner)

		if err := log.DeleteRow(context.Background(), 1); err != nil {
			t.Fatalf("DeleteRow() error = %v", err)
		}

		got := listRows(t, log)
		want := []cal.Row{breakfast, dinner}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ListRows() = %v, want %v", got, want)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		log := newTestLog(t)
		seed(t, log, breakfast)

		if err := log.DeleteRow(context.Background(), 1); err == nil {
			t.Error("DeleteRow() expected error, got nil")
		}
		if rows := listRows(t, log); len(rows) != 1 {
			t.Errorf("len(rows) = %d, want 1", len(rows))
		}
	})
}

func TestSQLiteRowLog_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.db")

	log, err := NewSQLiteRowLog(path)
	if err != nil {
		t.Fatalf("NewSQLiteRowLog() error = %v", err)
	}
	seed(t, log, breakfast, lunch)
	if err := log.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLiteRowLog(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer reopened.Close()

	got := listRows(t, reopened)
	want := []cal.Row{breakfast, lunch}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListRows() after reopen = %v, want %v", got, want)
	}
}
