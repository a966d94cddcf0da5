package database

import (
	"context"
	"database/sql"
	"fmt"

	"calorie-log/internal/cal"
	"calorie-log/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// columnNames maps log columns to log_rows columns.
var columnNames = map[cal.Column]string{
	cal.ColDate:        "date",
	cal.ColTime:        "time",
	cal.ColDescription: "description",
	cal.ColItems:       "items",
	cal.ColCalories:    "calories",
	cal.ColDailyTotal:  "daily_total",
}

// SQLiteRowLog implements cal.RowLog on a SQLite table. Row order is insertion
// order (the autoincrement id); a row's index is its position in that order.
type SQLiteRowLog struct {
	db   *sql.DB
	path string
}

// NewSQLiteRowLog opens the database at path and applies pending migrations.
// path can be a file path or ":memory:".
func NewSQLiteRowLog(path string) (*SQLiteRowLog, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}
	if _, dirty, err := migrations.SchemaVersion(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("reading schema version of %s: %w", path, err)
	} else if dirty {
		db.Close()
		return nil, fmt.Errorf("database %s has a dirty schema; fix it by hand and retry", path)
	}
	return &SQLiteRowLog{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	return db, nil
}

// ListRows returns every row in insertion order.
func (s *SQLiteRowLog) ListRows(ctx context.Context) ([]cal.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, time, description, items, calories, daily_total FROM log_rows ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing rows: %w", err)
	}
	defer rows.Close()

	var out []cal.Row
	for rows.Next() {
		row := make(cal.Row, cal.NumColumns)
		if err := rows.Scan(&row[0], &row[1], &row[2], &row[3], &row[4], &row[5]); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing rows: %w", err)
	}
	return out, nil
}

// AppendRow inserts row after all existing rows. Missing cells are stored
// empty; extra cells are dropped.
func (s *SQLiteRowLog) AppendRow(ctx context.Context, row cal.Row) error {
	cells := make([]any, cal.NumColumns)
	for i := range cells {
		cells[i] = row.Cell(cal.Column(i))
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO log_rows (date, time, description, items, calories, daily_total) VALUES (?, ?, ?, ?, ?, ?)`,
		cells...)
	if err != nil {
		return fmt.Errorf("inserting row: %w", err)
	}
	return nil
}

// UpdateCell sets one column of the row at index.
func (s *SQLiteRowLog) UpdateCell(ctx context.Context, index int, col cal.Column, value string) error {
	if index < 0 {
		return fmt.Errorf("row index %d out of range", index)
	}
	name, ok := columnNames[col]
	if !ok {
		return fmt.Errorf("unknown column %d", col)
	}

	query := fmt.Sprintf(
		`UPDATE log_rows SET %s = ? WHERE id = (SELECT id FROM log_rows ORDER BY id LIMIT 1 OFFSET ?)`, name)
	res, err := s.db.ExecContext(ctx, query, value, index)
	if err != nil {
		return fmt.Errorf("updating row %d: %w", index, err)
	}
	return checkAffected(res, index)
}

// DeleteRow removes the row at index.
func (s *SQLiteRowLog) DeleteRow(ctx context.Context, index int) error {
	if index < 0 {
		return fmt.Errorf("row index %d out of range", index)
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM log_rows WHERE id = (SELECT id FROM log_rows ORDER BY id LIMIT 1 OFFSET ?)`, index)
	if err != nil {
		return fmt.Errorf("deleting row %d: %w", index, err)
	}
	return checkAffected(res, index)
}

// Close closes the database connection.
func (s *SQLiteRowLog) Close() error {
	return s.db.Close()
}

func checkAffected(res sql.Result, index int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("row index %d out of range", index)
	}
	return nil
}

var _ cal.RowLog = (*SQLiteRowLog)(nil)
