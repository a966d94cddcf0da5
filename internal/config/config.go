package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Defaults applied by NewConfig.
const (
	DefaultTimeZone    = "America/New_York"
	DefaultDailyTarget = 2600
	DefaultModel       = "claude-sonnet-4-20250514"
)

// Config represents the main configuration for calorielog.
// Secrets never live here: the estimator and row log name the environment
// variables that hold them.
type Config struct {
	TimeZone    string           `toml:"timezone"`
	DailyTarget int              `toml:"daily_target"`
	LogDir      string           `toml:"log_dir"`
	LogLevel    string           `toml:"log_level"` // debug, info, warn or error
	Server      ServerConfig     `toml:"server"`
	Estimator   EstimatorConfig  `toml:"estimator"`
	RowLog      RowLogConfig     `toml:"row_log"`
	Encryption  EncryptionConfig `toml:"encryption"`
}

// ServerConfig holds the webhook listener settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	Path string `toml:"path"` // webhook route, e.g. "/api/webhook"
}

// EstimatorConfig selects the model backend used for calorie estimates.
type EstimatorConfig struct {
	Type           string `toml:"type"` // "anthropic" (default) or "openai"
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url,omitempty"`
	APIKeyEnv      string `toml:"api_key_env"`
	MaxTokens      int    `toml:"max_tokens"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// RowLogConfig represents configuration for the backing log.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type RowLogConfig struct {
	Type string `toml:"type"` // "sheets", "sqlite", "csv", "s3" or "memory"

	// Sheets-specific fields (only used when Type == "sheets")
	SpreadsheetID  string `toml:"spreadsheet_id,omitempty"`
	SheetName      string `toml:"sheet_name,omitempty"`
	CredentialsEnv string `toml:"credentials_env,omitempty"` // env var holding service account JSON

	// SQLite-specific fields (only used when Type == "sqlite")
	DataDir string `toml:"data_dir,omitempty"`

	// CSV-specific fields (only used when Type == "csv")
	CSVPath string `toml:"csv_path,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket string `toml:"s3_bucket,omitempty"`
	S3Key    string `toml:"s3_key,omitempty"`
	S3Region string `toml:"s3_region,omitempty"`
	// S3Endpoint points at an S3-compatible store. Static keys are then read
	// from AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.
	S3Endpoint string `toml:"s3_endpoint,omitempty"`
}

// EncryptionConfig controls encryption at rest for the csv and s3 logs.
type EncryptionConfig struct {
	Type         string `toml:"type"` // "none" (default) or "age"
	IdentityPath string `toml:"identity_path,omitempty"`
	// PassphraseEnv names the variable holding the identity's passphrase,
	// if keygen protected it with one.
	PassphraseEnv string `toml:"passphrase_env,omitempty"`
}

// NewConfig creates a new Config rooted at baseDir with default values.
func NewConfig(baseDir string) *Config {
	return &Config{
		TimeZone:    DefaultTimeZone,
		DailyTarget: DefaultDailyTarget,
		LogDir:      filepath.Join(baseDir, "log"),
		LogLevel:    "info",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Path: "/api/webhook",
		},
		Estimator: EstimatorConfig{
			Type:           "anthropic",
			Model:          DefaultModel,
			APIKeyEnv:      "ANTHROPIC_API_KEY",
			MaxTokens:      1024,
			TimeoutSeconds: 60,
		},
		RowLog: RowLogConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Encryption: EncryptionConfig{
			Type:         "none",
			IdentityPath: filepath.Join(baseDir, "keys", "calorielog.key"),
		},
	}
}

// Validate checks the fields every command relies on.
func (c *Config) Validate() error {
	if c.TimeZone == "" {
		return fmt.Errorf("timezone is required")
	}
	if c.DailyTarget <= 0 {
		return fmt.Errorf("daily_target must be positive, got %d", c.DailyTarget)
	}
	if c.RowLog.Type == "" {
		return fmt.Errorf("row_log.type is required")
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	// The day boundary follows timezone, so a missing key must not mean UTC.
	if cfg.TimeZone == "" {
		cfg.TimeZone = DefaultTimeZone
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
