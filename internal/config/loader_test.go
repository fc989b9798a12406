package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/examprep/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars(t)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8501")
				convey.So(cfg.LLMProvider, convey.ShouldEqual, "groq")
				convey.So(cfg.LLMAPIKey, convey.ShouldEqual, "")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			t.Setenv("EXAMPREP_ADDR", ":9090")
			t.Setenv("EXAMPREP_STORAGE_DRIVER", "SQLite")
			t.Setenv("EXAMPREP_SESSION_TTL_MINUTES", "15")
			t.Setenv("EXAMPREP_COOKIE_SECURE", "true")
			t.Setenv("EXAMPREP_LLM_MODEL", "llama-3.1-8b-instant")
			t.Setenv("EXAMPREP_METRICS_ENABLED", "false")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.StorageDriver, convey.ShouldEqual, config.DriverSQLite)
				convey.So(cfg.SessionTTLMinutes, convey.ShouldEqual, 15)
				convey.So(cfg.CookieSecure, convey.ShouldBeTrue)
				convey.So(cfg.LLMModel, convey.ShouldEqual, "llama-3.1-8b-instant")
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When only the provider's conventional key is set", func() {
			t.Setenv("GROQ_API_KEY", "gsk-test")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it is used as the credential", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LLMAPIKey, convey.ShouldEqual, "gsk-test")
			})
		})

		convey.Convey("When both an explicit and a conventional key are set", func() {
			t.Setenv("GROQ_API_KEY", "gsk-test")
			t.Setenv("EXAMPREP_LLM_API_KEY", "explicit")

			cfg, err := config.Load(ctx)

			convey.Convey("Then the explicit key wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LLMAPIKey, convey.ShouldEqual, "explicit")
			})
		})

		convey.Convey("When the anthropic provider is selected", func() {
			t.Setenv("EXAMPREP_LLM_PROVIDER", "anthropic")
			t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
			t.Setenv("GROQ_API_KEY", "gsk-test")

			cfg, err := config.Load(ctx)

			convey.Convey("Then the anthropic key is picked", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LLMAPIKey, convey.ShouldEqual, "sk-ant")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":7000"
data_file: "/tmp/history.json"
llm_provider: openai
llm_max_tokens: 1024
`)
			t.Setenv("EXAMPREP_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
				convey.So(cfg.DataFile, convey.ShouldEqual, "/tmp/history.json")
				convey.So(cfg.LLMProvider, convey.ShouldEqual, config.ProviderOpenAI)
				convey.So(cfg.LLMMaxTokens, convey.ShouldEqual, 1024)
				convey.So(cfg.SessionTTLMinutes, convey.ShouldEqual, 120) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":7000"
data_file: "/tmp/history.json"
`)
			t.Setenv("EXAMPREP_CONFIG", tmpFile)
			t.Setenv("EXAMPREP_ADDR", ":7001")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7001")
				convey.So(cfg.DataFile, convey.ShouldEqual, "/tmp/history.json")
			})
		})

		convey.Convey("When a .env file is provided", func() {
			dotenv := filepath.Join(t.TempDir(), "test.env")
			convey.So(os.WriteFile(dotenv, []byte("EXAMPREP_ADDR=:6000\nGROQ_API_KEY=from-dotenv\n"), 0o600), convey.ShouldBeNil)
			t.Setenv("EXAMPREP_ENV_FILE", dotenv)
			// Registered so t.Setenv restores the unset state afterwards.
			t.Setenv("EXAMPREP_ADDR", "")
			_ = os.Unsetenv("EXAMPREP_ADDR")
			t.Setenv("GROQ_API_KEY", "from-env")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it fills unset variables without overriding the process env", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6000")
				convey.So(cfg.LLMAPIKey, convey.ShouldEqual, "from-env")
			})
		})

		convey.Convey("When an explicit .env file is missing", func() {
			t.Setenv("EXAMPREP_ENV_FILE", "/non/existent/.env")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			t.Setenv("EXAMPREP_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			t.Setenv("EXAMPREP_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the YAML file empties addr", func() {
			tmpFile := createTempConfigFile(t, `addr: ""`)
			t.Setenv("EXAMPREP_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the storage driver is unknown", func() {
			t.Setenv("EXAMPREP_STORAGE_DRIVER", "postgres")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the provider is unknown", func() {
			t.Setenv("EXAMPREP_LLM_PROVIDER", "mystery")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "unknown llm_provider")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a numeric variable is not a number", func() {
			t.Setenv("EXAMPREP_SESSION_TTL_MINUTES", "soon")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, envVar := range []string{
		"EXAMPREP_CONFIG",
		"EXAMPREP_ENV_FILE",
		"EXAMPREP_ADDR",
		"EXAMPREP_STORAGE_DRIVER",
		"EXAMPREP_SESSION_TTL_MINUTES",
		"EXAMPREP_COOKIE_SECURE",
		"EXAMPREP_LLM_MODEL",
		"EXAMPREP_METRICS_ENABLED",
		"EXAMPREP_LLM_PROVIDER",
		"EXAMPREP_LLM_API_KEY",
		"GROQ_API_KEY",
		"OPENAI_API_KEY",
		"ANTHROPIC_API_KEY",
	} {
		t.Setenv(envVar, "")
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "examprep-config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
