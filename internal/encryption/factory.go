package encryption

import (
	"fmt"
	"os"

	"calorie-log/internal/cal"
	"calorie-log/internal/config"
)

// NewCodecFromConfig creates a Codec based on the configuration type.
// It returns nil for "none", which blob-backed logs treat as plain CSV.
func NewCodecFromConfig(cfg config.EncryptionConfig) (cal.Codec, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "age":
		if cfg.IdentityPath == "" {
			return nil, fmt.Errorf("identity_path required for age encryption")
		}
		var passphrase string
		if cfg.PassphraseEnv != "" {
			passphrase = os.Getenv(cfg.PassphraseEnv)
		}
		codec, err := LoadAgeCodec(cfg.IdentityPath, passphrase)
		if err != nil {
			return nil, err
		}
		return codec, nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
