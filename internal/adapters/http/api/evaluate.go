package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/examprep/internal/adapters/repository"
	"github.com/okian/examprep/internal/domain/model"
	"github.com/okian/examprep/internal/session"
)

// EvaluateDependencies defines the interface for answer evaluation.
type EvaluateDependencies interface {
	Evaluate(ctx context.Context, sess *session.Session, answers string) (model.Evaluation, error)
}

// EvaluateHandler handles evaluation requests.
type EvaluateHandler struct {
	deps EvaluateDependencies
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(deps EvaluateDependencies) *EvaluateHandler {
	return &EvaluateHandler{deps: deps}
}

type evaluateRequest struct {
	Answers string `json:"answers"`
}

type evaluateResponse struct {
	Evaluation string          `json:"evaluation"`
	Score      *float64        `json:"score"`
	Saved      bool            `json:"saved"`
	Record     *model.Record   `json:"record"`
	Notice     *session.Notice `json:"notice"`
}

// evaluateErrorResponse carries the evaluation alongside a failed save.
type evaluateErrorResponse struct {
	errorResponse
	Evaluation string   `json:"evaluation"`
	Score      *float64 `json:"score"`
}

func scoreOf(eval model.Evaluation) *float64 {
	if !eval.Found {
		return nil
	}
	score := eval.Score
	return &score
}

// HandlePostEvaluate handles POST /api/evaluate requests. Score and record
// are null when the evaluation carried no score.
func (h *EvaluateHandler) HandlePostEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_evaluate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	sess, ok := SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "unavailable", NewKind(op, ErrUnavailable))
		return
	}

	var req evaluateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	eval, err := h.deps.Evaluate(r.Context(), sess, req.Answers)
	if err != nil {
		err = Wrap(op, err)
		if errors.Is(err, repository.ErrStorage) && eval.Text != "" {
			status, body := serviceError(sess, err)
			writeJSON(w, status, evaluateErrorResponse{errorResponse: body, Evaluation: eval.Text, Score: scoreOf(eval)})
			return
		}
		writeServiceError(w, sess, err)
		return
	}

	writeJSON(w, http.StatusOK, evaluateResponse{
		Evaluation: eval.Text,
		Score:      scoreOf(eval),
		Saved:      eval.Saved,
		Record:     eval.Record,
		Notice:     sess.Notice(),
	})
}
