package database

import (
	"fmt"
	"os"
	"path/filepath"

	"calorie-log/internal/config"
)

// NewRowLogFromConfig creates the SQLite row log described by cfg.
// The database file is <data_dir>/calorielog.db.
func NewRowLogFromConfig(cfg config.RowLogConfig) (*SQLiteRowLog, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data_dir required for sqlite row log")
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return NewSQLiteRowLog(filepath.Join(cfg.DataDir, "calorielog.db"))
}
