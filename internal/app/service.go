// Package service provides the exam preparation workflow behind the HTTP
// API: study plans, quizzes, answer evaluation and weak-topic analysis.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"

	"github.com/okian/examprep/internal/adapters/llm"
	"github.com/okian/examprep/internal/adapters/repository"
	"github.com/okian/examprep/internal/domain/model"
	"github.com/okian/examprep/internal/domain/prompts"
	"github.com/okian/examprep/internal/domain/scoring"
	"github.com/okian/examprep/internal/domain/types"
	"github.com/okian/examprep/internal/session"
	"github.com/okian/examprep/pkg/logger"
	"github.com/okian/examprep/pkg/metrics"
)

// User-facing notice texts.
const (
	MsgPlanTopicRequired  = "Please enter a topic for study plan."
	MsgPlanGenerated      = "Study Plan Generated"
	MsgQuizTopicRequired  = "Please enter a quiz topic."
	MsgQuizGenerated      = "Quiz Generated"
	MsgAnswersRequired    = "Generate a quiz and enter answers first."
	MsgScoreSavedFmt      = "Score saved: %s/10"
	MsgNoHistory          = "No performance data yet."
	MsgNotEnoughData      = "Not enough data for analysis."
	MsgAgentFailedFmt     = "The %s agent could not complete the request."
	MsgStorageFailed      = "Could not save the score."
	MsgHistoryUnavailable = "Could not load performance data."
	MsgUnknownDurationFmt = "Unknown duration %q."
)

// Service implements the API dependencies for the exam preparation tool.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	invoker llm.Invoker
	now     func() time.Time

	// Serializes load-append-save so concurrent evaluations never lose a record.
	recordMu sync.Mutex

	// Counters
	plans       atomic.Int64
	quizzes     atomic.Int64
	evaluations atomic.Int64
	scoresSaved atomic.Int64
	analyses    atomic.Int64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithInvoker sets the language model client used by every agent.
func WithInvoker(invoker llm.Invoker) Option {
	return func(s *Service) {
		if invoker != nil {
			s.invoker = invoker
		}
	}
}

// WithClock sets the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service.
func New(opts ...Option) *Service {
	s := &Service{
		now:    time.Now,
		logger: nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start checks the dependencies and readies the service.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		return fmt.Errorf("%w: store", ErrNotConfigured)
	}
	if s.invoker == nil {
		return fmt.Errorf("%w: invoker", ErrNotConfigured)
	}

	records, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	s.started = true
	s.logger.Info(ctx, "exam prep service started",
		logger.Int("records", len(records)),
	)

	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "failed to close store", logger.Error(err))
	}

	s.started = false
	s.logger.Info(context.Background(), "exam prep service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// GeneratePlan asks the planner for a schedule covering topic over duration.
// An empty duration selects the default.
func (s *Service) GeneratePlan(ctx context.Context, sess *session.Session, topic, duration string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	sess.ClearNotice()

	topic = strings.TrimSpace(topic)
	if topic == "" {
		sess.Notify(session.LevelWarning, MsgPlanTopicRequired)
		return "", fmt.Errorf("%w: %s", ErrMissingInput, MsgPlanTopicRequired)
	}
	if duration == "" {
		duration = types.DefaultDuration
	}
	if !types.ValidDuration(duration) {
		msg := fmt.Sprintf(MsgUnknownDurationFmt, duration)
		sess.Notify(session.LevelWarning, msg)
		return "", fmt.Errorf("%w: %s", ErrBadRequest, msg)
	}

	plan, err := s.invoke(ctx, sess, prompts.Planner, prompts.PlanRequest(topic, duration))
	if err != nil {
		return "", err
	}

	s.plans.Add(1)
	sess.Notify(session.LevelSuccess, MsgPlanGenerated)
	return plan, nil
}

// GenerateQuiz asks the quiz generator for five questions on topic and
// makes the result the session's active quiz.
func (s *Service) GenerateQuiz(ctx context.Context, sess *session.Session, topic string) (model.ActiveQuiz, error) {
	if err := s.ready(); err != nil {
		return model.ActiveQuiz{}, err
	}
	sess.ClearNotice()

	topic = strings.TrimSpace(topic)
	if topic == "" {
		sess.Notify(session.LevelWarning, MsgQuizTopicRequired)
		return model.ActiveQuiz{}, fmt.Errorf("%w: %s", ErrMissingInput, MsgQuizTopicRequired)
	}

	text, err := s.invoke(ctx, sess, prompts.QuizGenerator, prompts.QuizRequest(topic))
	if err != nil {
		return model.ActiveQuiz{}, err
	}

	if shape := prompts.InspectQuiz(text); !shape.WellFormed() {
		metrics.RecordQuizMalformed()
		s.logger.Warn(ctx, "quiz does not have the requested shape",
			logger.String("topic", topic),
			logger.Int("questions", shape.Questions),
			logger.Int("options", shape.Options),
		)
	}

	quiz := model.ActiveQuiz{Text: text, Topic: topic}
	sess.SetQuiz(quiz)
	s.quizzes.Add(1)
	sess.Notify(session.LevelSuccess, MsgQuizGenerated)
	return quiz, nil
}

// Evaluate grades answers against the session's active quiz. A record is
// appended only when the evaluation text contains a score.
func (s *Service) Evaluate(ctx context.Context, sess *session.Session, answers string) (model.Evaluation, error) {
	if err := s.ready(); err != nil {
		return model.Evaluation{}, err
	}
	sess.ClearNotice()

	quiz := sess.Quiz()
	if quiz.Empty() || strings.TrimSpace(answers) == "" {
		sess.Notify(session.LevelWarning, MsgAnswersRequired)
		return model.Evaluation{}, fmt.Errorf("%w: %s", ErrMissingInput, MsgAnswersRequired)
	}

	topic := quiz.Topic
	if topic == "" {
		topic = model.DefaultTopic
	}

	text, err := s.invoke(ctx, sess, prompts.Evaluator, prompts.EvaluationRequest(topic, quiz.Text, answers))
	if err != nil {
		return model.Evaluation{}, err
	}
	s.evaluations.Add(1)

	eval := model.Evaluation{Text: text}
	score, ok := scoring.Extract(text)
	if !ok {
		metrics.RecordScoreMissing()
		s.logger.Info(ctx, "evaluation without score", logger.String("topic", topic))
		return eval, nil
	}
	metrics.RecordScoreExtracted()
	eval.Score, eval.Found = score, true

	rec := model.NewRecord(topic, score, s.now())
	if err := s.appendRecord(ctx, rec); err != nil {
		sess.Notify(session.LevelError, MsgStorageFailed)
		s.logger.Error(ctx, "failed to persist record",
			logger.String("topic", topic),
			logger.Error(err),
		)
		return eval, err
	}

	eval.Saved, eval.Record = true, &rec
	s.scoresSaved.Add(1)
	metrics.RecordRecordPersisted()
	sess.Notify(session.LevelSuccess, fmt.Sprintf(MsgScoreSavedFmt, scoring.Format(score)))
	return eval, nil
}

func (s *Service) appendRecord(ctx context.Context, rec model.Record) error {
	s.recordMu.Lock()
	defer s.recordMu.Unlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, append(records, rec))
}

// History returns every record sorted by date ascending. A non-empty
// filter keeps records whose topic fuzzily matches it, ignoring case.
func (s *Service) History(ctx context.Context, topicFilter string) ([]model.Record, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if filter := strings.TrimSpace(topicFilter); filter != "" {
		records = lo.Filter(records, func(r model.Record, _ int) bool {
			return fuzzy.MatchFold(filter, r.Topic)
		})
	}
	return model.SortByDate(records), nil
}

// AnalyzeWeakAreas sends the full history to the weak-topic analyzer.
func (s *Service) AnalyzeWeakAreas(ctx context.Context, sess *session.Session) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	sess.ClearNotice()

	records, err := s.store.Load(ctx)
	if err != nil {
		sess.Notify(session.LevelError, MsgHistoryUnavailable)
		return "", err
	}
	if len(records) == 0 {
		sess.Notify(session.LevelInfo, MsgNotEnoughData)
		return "", fmt.Errorf("%w: %s", ErrMissingInput, MsgNotEnoughData)
	}

	analysis, err := s.invoke(ctx, sess, prompts.WeakTopicAnalyzer, prompts.HistoryRequest(records))
	if err != nil {
		return "", err
	}
	s.analyses.Add(1)
	return analysis, nil
}

// invoke runs one agent call with metrics and logging. Every failure
// wraps llm.ErrInvoke.
func (s *Service) invoke(ctx context.Context, sess *session.Session, agent prompts.Agent, user string) (string, error) {
	start := time.Now()
	out, err := s.invoker.Invoke(ctx, agent.Instructions, user)
	elapsed := time.Since(start)
	metrics.RecordAgentLatency(agent.Name, float64(elapsed.Milliseconds()))

	if err != nil {
		metrics.RecordAgentInvocation(agent.Name, "error")
		if !errors.Is(err, llm.ErrInvoke) {
			err = fmt.Errorf("%w: %w", llm.ErrInvoke, err)
		}
		sess.Notify(session.LevelError, fmt.Sprintf(MsgAgentFailedFmt, agent.Name))
		s.logger.Error(ctx, "agent call failed",
			logger.String("agent", agent.Name),
			logger.Duration("latency", elapsed),
			logger.Error(err),
		)
		return "", err
	}

	metrics.RecordAgentInvocation(agent.Name, "ok")
	s.logger.Debug(ctx, "agent call completed",
		logger.String("agent", agent.Name),
		logger.Duration("latency", elapsed),
		logger.Int("chars", len(out)),
	)
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"plansGenerated":   s.plans.Load(),
		"quizzesGenerated": s.quizzes.Load(),
		"evaluations":      s.evaluations.Load(),
		"scoresSaved":      s.scoresSaved.Load(),
		"analyses":         s.analyses.Load(),
	}

	if s.started {
		if records, err := s.store.Load(context.Background()); err == nil {
			stats["totalRecords"] = len(records)
		}
	}

	return stats
}
