// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional .env file, an optional YAML file and
//   EXAMPREP_* environment variables, in that order.
package config

import (
	"time"
)

// Storage drivers.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// LLM providers.
const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8501".
	Addr string `koanf:"addr"`

	// StorageDriver selects the persistence backend: json or sqlite.
	StorageDriver string `koanf:"storage_driver"`

	// DataFile is the JSON file holding performance records.
	DataFile string `koanf:"data_file"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `koanf:"sqlite_path"`

	// LLMProvider selects the completion backend: groq, openai or anthropic.
	LLMProvider string `koanf:"llm_provider"`

	// LLMModel is the fixed model identifier used for every agent call.
	// Empty means the provider default.
	LLMModel string `koanf:"llm_model"`

	// LLMBaseURL overrides the provider endpoint.
	LLMBaseURL string `koanf:"llm_base_url"`

	// LLMAPIKey is the provider credential. When empty, the provider's
	// conventional variable (GROQ_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY) is used.
	LLMAPIKey string `koanf:"llm_api_key"`

	// LLMMaxTokens bounds completion length where the provider requires it.
	LLMMaxTokens int `koanf:"llm_max_tokens"`

	// SessionTTLMinutes expires idle interactive sessions.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`

	// CookieSecure marks the session cookie Secure (serve over TLS).
	CookieSecure bool `koanf:"cookie_secure"`

	// MetricsEnabled turns Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8501",
		StorageDriver:     DriverJSON,
		DataFile:          "progress_data.json",
		SQLitePath:        "progress_data.db",
		LLMProvider:       ProviderGroq,
		LLMMaxTokens:      4096,
		SessionTTLMinutes: 120,
		MetricsEnabled:    true,
	}
}

// SessionTTL returns the session idle timeout.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// StoragePath returns the file used by the selected driver.
func (c *Config) StoragePath() string {
	if c.StorageDriver == DriverSQLite {
		return c.SQLitePath
	}
	return c.DataFile
}
