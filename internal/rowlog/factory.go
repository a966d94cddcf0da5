package rowlog

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"

	"calorie-log/internal/cal"
	"calorie-log/internal/config"
	"calorie-log/internal/database"
)

// NewRowLogFromConfig creates a RowLog implementation based on the row log
// config type. codec applies to the blob-backed types (csv, s3) and may be nil.
func NewRowLogFromConfig(ctx context.Context, cfg config.RowLogConfig, codec cal.Codec) (cal.RowLog, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryRowLog("memory"), nil
	case "sheets":
		return newSheetsFromConfig(ctx, cfg)
	case "sqlite":
		log, err := database.NewRowLogFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return log, nil
	case "csv":
		if cfg.CSVPath == "" {
			return nil, fmt.Errorf("csv row log requires csv_path to be set")
		}
		return blobOrNil(NewCSVFileRowLog(cfg.CSVPath, codec))
	case "s3":
		return blobOrNil(NewS3RowLog(ctx, S3Options{
			Bucket:   cfg.S3Bucket,
			Key:      cfg.S3Key,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		}, codec))
	default:
		return nil, fmt.Errorf("unknown row log type: %s", cfg.Type)
	}
}

// newSheetsFromConfig reads the service account JSON from the variable named
// by credentials_env (GOOGLE_CREDENTIALS by default). An empty spreadsheet_id
// falls back to GOOGLE_SHEET_ID.
func newSheetsFromConfig(ctx context.Context, cfg config.RowLogConfig) (cal.RowLog, error) {
	credsEnv := cfg.CredentialsEnv
	if credsEnv == "" {
		credsEnv = "GOOGLE_CREDENTIALS"
	}
	creds := os.Getenv(credsEnv)
	if creds == "" {
		return nil, fmt.Errorf("environment variable %s is not set", credsEnv)
	}

	spreadsheetID := cfg.SpreadsheetID
	if spreadsheetID == "" {
		spreadsheetID = os.Getenv("GOOGLE_SHEET_ID")
	}

	log, err := NewSheetsRowLog(ctx, spreadsheetID, cfg.SheetName,
		option.WithCredentialsJSON([]byte(creds)))
	if err != nil {
		return nil, err
	}
	return log, nil
}

// blobOrNil keeps a failed constructor from yielding a non-nil RowLog that
// wraps a nil pointer.
func blobOrNil(log *BlobRowLog, err error) (cal.RowLog, error) {
	if err != nil {
		return nil, err
	}
	return log, nil
}
