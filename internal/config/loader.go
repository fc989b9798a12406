package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables consulted outside the EXAMPREP_ prefix.
const (
	envPrefix     = "EXAMPREP_"
	envConfigFile = "EXAMPREP_CONFIG"
	envDotEnvFile = "EXAMPREP_ENV_FILE"
	defaultDotEnv = ".env"
)

// providerKeyEnv maps providers to their conventional credential variable.
var providerKeyEnv = map[string]string{
	ProviderGroq:      "GROQ_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// Load builds a Config by layering defaults, optional files, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. .env file (EXAMPREP_ENV_FILE or ./.env if present); never overrides the process env
//  3. YAML file if EXAMPREP_CONFIG is set
//  4. env (prefix EXAMPREP_)
func Load(_ context.Context) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// EXAMPREP_LLM_MODEL -> llm_model (flat keys, underscores preserved).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv(providerKeyEnv[cfg.LLMProvider])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields the server cannot start without.
// A missing API key is not an error: agent calls fail at first use instead.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StorageDriver != DriverJSON && c.StorageDriver != DriverSQLite:
		return fmt.Errorf("%w: unknown storage_driver %q", ErrInvalidConfig, c.StorageDriver)
	case c.StoragePath() == "":
		return fmt.Errorf("%w: storage path must not be empty", ErrInvalidConfig)
	}
	if _, ok := providerKeyEnv[c.LLMProvider]; !ok {
		return fmt.Errorf("%w: unknown llm_provider %q", ErrInvalidConfig, c.LLMProvider)
	}
	return nil
}

// loadDotEnv reads KEY=VALUE pairs into the process env without overriding
// variables that are already set. A missing default .env is not an error.
func loadDotEnv() error {
	path := os.Getenv(envDotEnvFile)
	explicit := path != ""
	if !explicit {
		path = defaultDotEnv
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
