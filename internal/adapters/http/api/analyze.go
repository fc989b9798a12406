package api

import (
	"context"
	"net/http"

	"github.com/okian/examprep/internal/session"
)

// AnalyzeDependencies defines the interface for weak-topic analysis.
type AnalyzeDependencies interface {
	AnalyzeWeakAreas(ctx context.Context, sess *session.Session) (string, error)
}

// AnalyzeHandler handles analysis requests.
type AnalyzeHandler struct {
	deps AnalyzeDependencies
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps}
}

type analyzeResponse struct {
	Analysis string          `json:"analysis"`
	Notice   *session.Notice `json:"notice"`
}

// HandlePostAnalyze handles POST /api/analyze requests.
func (h *AnalyzeHandler) HandlePostAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_analyze"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	sess, ok := SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "unavailable", NewKind(op, ErrUnavailable))
		return
	}

	analysis, err := h.deps.AnalyzeWeakAreas(r.Context(), sess)
	if err != nil {
		writeServiceError(w, sess, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Analysis: analysis, Notice: sess.Notice()})
}
