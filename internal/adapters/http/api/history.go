package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	service "github.com/okian/examprep/internal/app"
	"github.com/okian/examprep/internal/domain/model"
	"github.com/okian/examprep/internal/session"
)

// HistoryDependencies defines the interface for reading performance history.
type HistoryDependencies interface {
	History(ctx context.Context, topicFilter string) ([]model.Record, error)
}

// HistoryHandler handles history requests.
type HistoryHandler struct {
	deps HistoryDependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

type historyResponse struct {
	Records []model.Record  `json:"records"`
	Notice  *session.Notice `json:"notice"`
}

// HandleGetHistory handles GET /api/history?topic= requests. Records are
// ordered by date ascending.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	filter := strings.TrimSpace(r.URL.Query().Get("topic"))
	records, err := h.deps.History(r.Context(), filter)
	if err != nil {
		writeServiceError(w, nil, Wrap(op, err))
		return
	}

	resp := historyResponse{Records: records}
	if len(records) == 0 {
		resp.Records = []model.Record{}
		msg := service.MsgNoHistory
		if filter != "" {
			msg = fmt.Sprintf("No performance data matches %q.", filter)
		}
		resp.Notice = &session.Notice{Level: session.LevelInfo, Message: msg}
	}
	writeJSON(w, http.StatusOK, resp)
}
