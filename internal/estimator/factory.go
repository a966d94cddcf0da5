package estimator

import (
	"fmt"
	"os"
	"time"

	"calorie-log/internal/cal"
	"calorie-log/internal/config"
)

// NewEstimatorFromConfig creates an Estimator based on the estimator config type.
// The API key is read from the environment variable named by api_key_env,
// falling back to ANTHROPIC_API_KEY or OPENAI_API_KEY.
func NewEstimatorFromConfig(cfg config.EstimatorConfig, logger cal.Logger) (cal.Estimator, error) {
	keyEnv := cfg.APIKeyEnv
	if keyEnv == "" {
		keyEnv = "ANTHROPIC_API_KEY"
		if cfg.Type == "openai" {
			keyEnv = "OPENAI_API_KEY"
		}
	}
	apiKey := os.Getenv(keyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("environment variable %s is not set", keyEnv)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	var completer Completer
	switch cfg.Type {
	case "anthropic", "":
		model := cfg.Model
		if model == "" {
			model = config.DefaultModel
		}
		completer = NewAnthropicCompleter(apiKey, model, cfg.BaseURL, maxTokens, timeout)
	case "openai":
		if cfg.Model == "" {
			return nil, fmt.Errorf("model required for openai estimator")
		}
		completer = NewOpenAICompleter(apiKey, cfg.Model, cfg.BaseURL, maxTokens, timeout)
	default:
		return nil, fmt.Errorf("unknown estimator type: %s", cfg.Type)
	}

	return NewClient(completer, logger), nil
}
