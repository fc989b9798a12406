package api

import (
	"net/http"

	"github.com/okian/examprep/internal/domain/types"
	"github.com/okian/examprep/internal/session"
)

// SessionHandler exposes the caller's session state so a reloaded page can
// restore the active quiz.
type SessionHandler struct{}

// NewSessionHandler creates a new session handler.
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

type sessionResponse struct {
	QuizTopic string          `json:"quiz_topic"`
	Quiz      string          `json:"quiz"`
	Notice    *session.Notice `json:"notice"`
}

// HandleGetSession handles GET /api/session requests.
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_session"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sess, ok := SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "unavailable", NewKind(op, ErrUnavailable))
		return
	}
	quiz := sess.Quiz()
	writeJSON(w, http.StatusOK, sessionResponse{QuizTopic: quiz.Topic, Quiz: quiz.Text, Notice: sess.Notice()})
}

// DurationsHandler lists the study plan durations.
type DurationsHandler struct{}

// NewDurationsHandler creates a new durations handler.
func NewDurationsHandler() *DurationsHandler {
	return &DurationsHandler{}
}

type durationsResponse struct {
	Durations []string `json:"durations"`
	Default   string   `json:"default"`
}

// HandleGetDurations handles GET /api/durations requests.
func (h *DurationsHandler) HandleGetDurations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, durationsResponse{Durations: types.Durations, Default: types.DefaultDuration})
}
