package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/examprep/internal/domain/types"
	"github.com/okian/examprep/internal/studyctl"
)

// Default configuration constants.
const (
	defaultTimeout = 2 * time.Minute
	exitFailure    = 1
	exitUsage      = 2
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8501", "Base URL of the service")
		topic    = flag.String("topic", "", "Topic for plan and quiz")
		duration = flag.String("duration", types.DefaultDuration, "Plan duration")
		answers  = flag.String("answers", "", "Answers for quiz (read from stdin when empty)")
		filter   = flag.String("filter", "", "Fuzzy topic filter for history")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile  = flag.String("log", "", "Also write logs to this file")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		studyctl.ShowHelp(os.Stdout)
		return
	}

	closeLog, err := studyctl.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(exitFailure)
	}
	defer func() { _ = closeLog() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &studyctl.Config{
		BaseURL:  *baseURL,
		Command:  flag.Arg(0),
		Topic:    *topic,
		Duration: *duration,
		Answers:  *answers,
		Filter:   *filter,
		Timeout:  *timeout,
		LogFile:  *logFile,
		Verbose:  *verbose,
	}

	if err := studyctl.Run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		if errors.Is(err, studyctl.ErrUsage) {
			studyctl.ShowHelp(os.Stderr)
			stop()
			os.Exit(exitUsage)
		}
		stop()
		os.Exit(exitFailure)
	}
}
