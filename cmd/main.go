package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/examprep/internal/adapters/http/api"
	"github.com/okian/examprep/internal/adapters/http/site"
	"github.com/okian/examprep/internal/adapters/http/swagger"
	"github.com/okian/examprep/internal/adapters/llm"
	"github.com/okian/examprep/internal/adapters/repository"
	app "github.com/okian/examprep/internal/app"
	"github.com/okian/examprep/internal/config"
	"github.com/okian/examprep/internal/session"
	"github.com/okian/examprep/pkg/logger"
	"github.com/okian/examprep/pkg/metrics"
)

// HTTP server timeout constants. Writes wait on LLM round-trips, so the
// write timeout is far larger than the read side.
const (
	readTimeout       = 30 * time.Second
	writeTimeout      = 3 * time.Minute
	idleTimeout       = 120 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		stop()
		os.Exit(1)
	}

	// Apply configured log format and level (fallback to defaults on invalid input)
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		loggerInstance.Warn(ctx, "invalid log_format; falling back to text", logger.String("log_format", cfg.LogFormat), logger.Error(err))
		_ = logger.SetFormat("text")
	}
	loggerInstance = logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	handler, svc, err := buildServer(ctx, cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		stop()
		os.Exit(1)
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildServer wires store, invoker, service and routes from cfg. The
// returned service is started; callers must Stop it.
func buildServer(ctx context.Context, cfg *config.Config, log logger.Logger) (http.Handler, *app.Service, error) {
	metrics.SetEnabled(cfg.MetricsEnabled)

	store, err := repository.Open(ctx, cfg.StorageDriver, cfg.StoragePath(),
		repository.WithLogger(log.Named("repository")),
	)
	if err != nil {
		return nil, nil, err
	}

	invoker, err := llm.New(cfg.LLMProvider,
		llm.WithAPIKey(cfg.LLMAPIKey),
		llm.WithModel(cfg.LLMModel),
		llm.WithBaseURL(cfg.LLMBaseURL),
		llm.WithMaxTokens(cfg.LLMMaxTokens),
		llm.WithLogger(log.Named("llm")),
	)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	if cfg.LLMAPIKey == "" {
		log.Warn(ctx, "no llm api key configured; agent calls will fail",
			logger.String("provider", cfg.LLMProvider),
		)
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithStore(store),
		app.WithInvoker(invoker),
	)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	sessions := session.NewManager(
		session.WithTTL(cfg.SessionTTL()),
		session.WithSecureCookie(cfg.CookieSecure),
	)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register API reference under /api-docs
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, sessions, svc, api.WithLogger(log.Named("api")))
	apiServer.Register(ctx, mux)

	// The page owns every remaining path.
	site.Register(ctx, mux)

	log.Info(ctx, "exam prep server configured",
		logger.String("storage", cfg.StorageDriver),
		logger.String("path", cfg.StoragePath()),
		logger.String("provider", cfg.LLMProvider),
		logger.Duration("sessionTTL", cfg.SessionTTL()),
	)
	return mux, svc, nil
}
