// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/examprep/internal/adapters/llm"
	"github.com/okian/examprep/internal/adapters/repository"
	service "github.com/okian/examprep/internal/app"
	"github.com/okian/examprep/internal/session"
	"github.com/okian/examprep/pkg/logger"
)

// maxBodyBytes caps request bodies; answers are free text but never large.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PlanDependencies
	QuizDependencies
	EvaluateDependencies
	HistoryDependencies
	AnalyzeDependencies
}

// Sessions resolves the per-visitor session of a request.
type Sessions interface {
	Resolve(r *http.Request) (*session.Session, bool)
	Cookie(s *session.Session) *http.Cookie
	Count() int
}

// Server wires HTTP routes for the business API.
type Server struct {
	sessions Sessions
	log      logger.Logger

	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	planHandler      *PlanHandler
	quizHandler      *QuizHandler
	evaluateHandler  *EvaluateHandler
	historyHandler   *HistoryHandler
	analyzeHandler   *AnalyzeHandler
	sessionHandler   *SessionHandler
	durationsHandler *DurationsHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithLogger logs server-side failures.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, sessions Sessions, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		sessions:         sessions,
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(withSessionCount(statsProvider, sessions)),
		planHandler:      NewPlanHandler(deps),
		quizHandler:      NewQuizHandler(deps),
		evaluateHandler:  NewEvaluateHandler(deps),
		historyHandler:   NewHistoryHandler(deps),
		analyzeHandler:   NewAnalyzeHandler(deps),
		sessionHandler:   NewSessionHandler(),
		durationsHandler: NewDurationsHandler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/durations", MetricsMiddleware(s.durationsHandler.HandleGetDurations, "durations"))

	mux.HandleFunc("/api/plan", s.route(s.planHandler.HandlePostPlan, "plan"))
	mux.HandleFunc("/api/quiz", s.route(s.quizHandler.HandlePostQuiz, "quiz"))
	mux.HandleFunc("/api/evaluate", s.route(s.evaluateHandler.HandlePostEvaluate, "evaluate"))
	// History is shared across sessions and never starts one.
	mux.HandleFunc("/api/history", MetricsMiddleware(s.logFailures(s.historyHandler.HandleGetHistory, "history"), "history"))
	mux.HandleFunc("/api/analyze", s.route(s.analyzeHandler.HandlePostAnalyze, "analyze"))
	mux.HandleFunc("/api/session", s.route(s.sessionHandler.HandleGetSession, "session"))
}

// route stacks the metrics, session and error-logging wrappers.
func (s *Server) route(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return MetricsMiddleware(SessionMiddleware(s.sessions, s.logFailures(next, endpoint)), endpoint)
}

func (s *Server) logFailures(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	if s.log == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		if wrapped.statusCode >= http.StatusInternalServerError {
			s.log.Warn(r.Context(), "request failed",
				logger.String("endpoint", endpoint),
				logger.Int("status", wrapped.statusCode),
			)
		}
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Level   string `json:"level,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, Level: session.LevelError})
}

// writeServiceError maps a service failure to a status and error code. The
// session's notice, when set, supplies the user-facing message and level.
func writeServiceError(w http.ResponseWriter, sess *session.Session, err error) {
	status, body := serviceError(sess, err)
	writeJSON(w, status, body)
}

func serviceError(sess *session.Session, err error) (int, errorResponse) {
	status, code, level := http.StatusInternalServerError, "internal_error", session.LevelError
	switch {
	case errors.Is(err, service.ErrMissingInput):
		status, code, level = http.StatusBadRequest, "missing_input", session.LevelWarning
	case errors.Is(err, service.ErrBadRequest), errors.Is(err, ErrBadRequest):
		status, code, level = http.StatusBadRequest, "bad_request", session.LevelWarning
	case errors.Is(err, llm.ErrInvoke), errors.Is(err, llm.ErrMissingCredential):
		status, code = http.StatusBadGateway, "agent_failed"
	case errors.Is(err, repository.ErrStorage):
		status, code = http.StatusInternalServerError, "storage_failed"
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, ErrUnavailable):
		status, code = http.StatusServiceUnavailable, "unavailable"
	}

	msg := err.Error()
	if sess != nil {
		if n := sess.Notice(); n != nil {
			msg, level = n.Message, n.Level
		}
	}
	return status, errorResponse{Code: code, Message: msg, Level: level}
}

// decodeBody reads a JSON body into v. An empty body leaves v unchanged.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
