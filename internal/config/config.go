package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the service.
type Config struct {
	DatabasePath string `env:"SHAQYRU_DB_PATH" envDefault:"shaqyru.db"`

	// Generative providers. A key left empty disables that provider.
	DefaultProvider string `env:"SHAQYRU_PROVIDER" envDefault:"anthropic"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicModel  string `env:"SHAQYRU_ANTHROPIC_MODEL" envDefault:"claude-sonnet-4-20250514"`
	GeminiModel     string `env:"SHAQYRU_GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	OpenAIModel     string `env:"SHAQYRU_OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Metering.
	FreeEditCap int `env:"SHAQYRU_FREE_EDIT_CAP" envDefault:"5"`

	// Autosave debounce windows.
	FirstSaveDelay  time.Duration `env:"SHAQYRU_FIRST_SAVE_DELAY" envDefault:"500ms"`
	SteadySaveDelay time.Duration `env:"SHAQYRU_SAVE_DELAY" envDefault:"3s"`

	LogLevel string `env:"SHAQYRU_LOG_LEVEL" envDefault:"info"`
}

// Load reads .env from the project root if present, then parses the
// environment into a Config.
func Load() (*Config, error) {
	if root, err := findProjectRoot(); err == nil {
		_ = godotenv.Load(filepath.Join(root, ".env"))
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}
