package rowlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"calorie-log/internal/cal"
)

// fileBlob stores the log in a single local file.
type fileBlob struct {
	path string
}

func (f *fileBlob) Read(_ context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Write replaces the file atomically via a temp file in the same directory.
func (f *fileBlob) Write(_ context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".calorielog-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// NewCSVFileRowLog creates a log stored as a CSV file at path. The parent
// directory is created if needed. A nil codec stores plain CSV.
func NewCSVFileRowLog(path string, codec cal.Codec) (*BlobRowLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return newBlobRowLog(&fileBlob{path: path}, codec), nil
}
