package api

import (
	"context"
	"net/http"

	"github.com/okian/examprep/internal/session"
)

// PlanDependencies defines the interface for study plan generation.
type PlanDependencies interface {
	GeneratePlan(ctx context.Context, sess *session.Session, topic, duration string) (string, error)
}

// PlanHandler handles study plan requests.
type PlanHandler struct {
	deps PlanDependencies
}

// NewPlanHandler creates a new plan handler.
func NewPlanHandler(deps PlanDependencies) *PlanHandler {
	return &PlanHandler{deps: deps}
}

type planRequest struct {
	Topic    string `json:"topic"`
	Duration string `json:"duration"`
}

type planResponse struct {
	Plan   string          `json:"plan"`
	Notice *session.Notice `json:"notice"`
}

// HandlePostPlan handles POST /api/plan requests.
func (h *PlanHandler) HandlePostPlan(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_plan"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	sess, ok := SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "unavailable", NewKind(op, ErrUnavailable))
		return
	}

	var req planRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	plan, err := h.deps.GeneratePlan(r.Context(), sess, req.Topic, req.Duration)
	if err != nil {
		writeServiceError(w, sess, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, planResponse{Plan: plan, Notice: sess.Notice()})
}
