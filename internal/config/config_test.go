package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		TimeZone:    "America/Chicago",
		DailyTarget: 2200,
		LogDir:      "/var/log/calorielog",
		LogLevel:    "debug",
		Server:      ServerConfig{Host: "127.0.0.1", Port: 9000, Path: "/sms"},
		Estimator: EstimatorConfig{
			Type:           "openai",
			Model:          "gpt-4o-mini",
			BaseURL:        "https://example.test/v1",
			APIKeyEnv:      "LLM_API_KEY",
			MaxTokens:      512,
			TimeoutSeconds: 30,
		},
		RowLog: RowLogConfig{
			Type:           "sheets",
			SpreadsheetID:  "sheet-123",
			SheetName:      "Log",
			CredentialsEnv: "GOOGLE_CREDENTIALS",
		},
		Encryption: EncryptionConfig{Type: "age", IdentityPath: "/keys/cal.key", PassphraseEnv: "CAL_AGE_PASSPHRASE"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if *got != *original {
		t.Errorf("round trip = %+v, want %+v", *got, *original)
	}
}

func TestManager_Read(t *testing.T) {
	t.Run("decodes hand-written config", func(t *testing.T) {
		input := `
timezone = "America/New_York"
daily_target = 2600

[estimator]
type = "anthropic"
api_key_env = "ANTHROPIC_API_KEY"

[row_log]
type = "csv"
csv_path = "/data/log.csv"
`
		m := &Manager{}
		cfg, err := m.Read(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if cfg.DailyTarget != 2600 {
			t.Errorf("DailyTarget = %d, want 2600", cfg.DailyTarget)
		}
		if cfg.RowLog.Type != "csv" || cfg.RowLog.CSVPath != "/data/log.csv" {
			t.Errorf("RowLog = %+v", cfg.RowLog)
		}
	})

	t.Run("rejects invalid toml", func(t *testing.T) {
		m := &Manager{}
		if _, err := m.Read(strings.NewReader("daily_target = = 1")); err == nil {
			t.Fatal("Read() expected error for invalid toml")
		}
	})
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/cal")

	if cfg.TimeZone != DefaultTimeZone {
		t.Errorf("TimeZone = %q, want %q", cfg.TimeZone, DefaultTimeZone)
	}
	if cfg.DailyTarget != DefaultDailyTarget {
		t.Errorf("DailyTarget = %d, want %d", cfg.DailyTarget, DefaultDailyTarget)
	}
	if cfg.LogDir != "/data/cal/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/cal/log")
	}
	if cfg.RowLog.DataDir != "/data/cal/db" {
		t.Errorf("RowLog.DataDir = %q, want %q", cfg.RowLog.DataDir, "/data/cal/db")
	}
	if cfg.Encryption.IdentityPath != "/data/cal/keys/calorielog.key" {
		t.Errorf("Encryption.IdentityPath = %q", cfg.Encryption.IdentityPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero target", func(c *Config) { c.DailyTarget = 0 }, true},
		{"no row log", func(c *Config) { c.RowLog.Type = "" }, true},
		{"no timezone", func(c *Config) { c.TimeZone = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig("/data/cal")
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "calorielog.toml")

		if err := Init(path, NewConfig(dir)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "calorielog.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "calorielog.toml")
		cfg := NewConfig(dir)
		cfg.DailyTarget = 1800

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.DailyTarget != 1800 {
			t.Errorf("DailyTarget = %d, want 1800", got.DailyTarget)
		}
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "calorielog.toml")
		if err := os.WriteFile(path, []byte("daily_target = -5\n[row_log]\ntype = \"memory\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadFromFile(path); err == nil {
			t.Fatal("ReadFromFile() expected error for negative target")
		}
	})

	t.Run("missing timezone falls back to default", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "calorielog.toml")
		if err := os.WriteFile(path, []byte("daily_target = 2000\n[row_log]\ntype = \"sheets\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.TimeZone != DefaultTimeZone {
			t.Errorf("TimeZone = %q, want %q", got.TimeZone, DefaultTimeZone)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		if _, err := ReadFromFile("/nonexistent/path/calorielog.toml"); err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
