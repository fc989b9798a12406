package studyctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/examprep/internal/domain/scoring"
	"github.com/okian/examprep/pkg/logger"
)

// ErrUsage reports an unknown command or missing argument.
var ErrUsage = errors.New("usage error")

// Run executes cfg.Command, printing results to out. The quiz command reads
// answers from in when cfg.Answers is empty.
func Run(ctx context.Context, cfg *Config, in io.Reader, out io.Writer) error {
	client, err := NewClient(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return err
	}

	logger.Get().Debug(ctx, "running command",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("command", cfg.Command),
		logger.Duration("timeout", cfg.Timeout),
	)

	switch cfg.Command {
	case CommandPlan:
		return runPlan(ctx, client, cfg, out)
	case CommandQuiz:
		return runQuiz(ctx, client, cfg, in, out)
	case CommandHistory:
		return runHistory(ctx, client, cfg, out)
	case CommandAnalyze:
		return runAnalyze(ctx, client, out)
	case "":
		return fmt.Errorf("%w: no command given", ErrUsage)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cfg.Command)
	}
}

func runPlan(ctx context.Context, client *Client, cfg *Config, out io.Writer) error {
	resp, err := client.Plan(ctx, cfg.Topic, cfg.Duration)
	if err != nil {
		return err
	}
	printNotice(out, resp.Notice)
	fmt.Fprintln(out, resp.Plan)
	return nil
}

func runQuiz(ctx context.Context, client *Client, cfg *Config, in io.Reader, out io.Writer) error {
	quiz, err := client.Quiz(ctx, cfg.Topic)
	if err != nil {
		return err
	}
	printNotice(out, quiz.Notice)
	fmt.Fprintln(out, quiz.Quiz)

	answers := cfg.Answers
	if answers == "" {
		fmt.Fprintln(out, "\nEnter your answers, then end input (Ctrl-D):")
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read answers: %w", err)
		}
		answers = strings.TrimSpace(string(data))
	}

	eval, err := client.Evaluate(ctx, answers)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Evaluation != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, apiErr.Evaluation)
		}
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, eval.Evaluation)
	printNotice(out, eval.Notice)
	if eval.Score != nil && !eval.Saved {
		logger.Get().Warn(ctx, "score extracted but not saved", logger.Float64("score", *eval.Score))
	}
	return nil
}

func runHistory(ctx context.Context, client *Client, cfg *Config, out io.Writer) error {
	resp, err := client.History(ctx, cfg.Filter)
	if err != nil {
		return err
	}
	if len(resp.Records) == 0 {
		printNotice(out, resp.Notice)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTOPIC\tSCORE")
	for _, r := range resp.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s/10\n", r.Date, r.Topic, scoring.Format(r.Score))
	}
	return tw.Flush()
}

func runAnalyze(ctx context.Context, client *Client, out io.Writer) error {
	resp, err := client.Analyze(ctx)
	if err != nil {
		return err
	}
	printNotice(out, resp.Notice)
	fmt.Fprintln(out, resp.Analysis)
	return nil
}

func printNotice(out io.Writer, n *Notice) {
	if n == nil || n.Message == "" {
		return
	}
	fmt.Fprintf(out, "[%s] %s\n", strings.ToUpper(n.Level), n.Message)
}
