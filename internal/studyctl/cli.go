// Package studyctl is a terminal client for the exam preparation API.
package studyctl

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/examprep/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging routes log output to stderr and, when logFile is set, to
// that file as well. Command output goes to stdout untouched.
func SetupLogging(logFile string, verbose bool) (func() error, error) {
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			return nil, err
		}
	}

	if logFile == "" {
		logger.SetOutput(os.Stderr)
		return func() error { return nil }, nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, file))
	logger.Get().Debug(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file.Close, nil
}

// ShowHelp prints usage information for studyctl.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `studyctl - exam preparation assistant client
============================================

Usage:
  studyctl [options] <command>

Commands:
  plan       Generate a study plan (-topic, -duration)
  quiz       Generate a quiz, read answers from stdin and evaluate them (-topic)
  history    List performance records (-filter)
  analyze    Analyze weak topics across the history

Options:
  -url string
        Base URL of the service (default "http://localhost:8501")
  -topic string
        Topic for plan and quiz
  -duration string
        Plan duration (default "1 Week")
  -answers string
        Answers for quiz; when empty they are read from stdin
  -filter string
        Fuzzy topic filter for history
  -timeout duration
        HTTP request timeout (default 2m)
  -log string
        Also write logs to this file
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  studyctl -topic "Linear Algebra" -duration "2 Week" plan
  echo "1-A 2-C 3-B 4-D 5-A" | studyctl -topic Thermodynamics quiz
  studyctl -filter calc history
`)
}
