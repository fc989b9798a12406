package api

import (
	"context"
	"net/http"

	"github.com/okian/examprep/internal/domain/model"
	"github.com/okian/examprep/internal/session"
)

// QuizDependencies defines the interface for quiz generation.
type QuizDependencies interface {
	GenerateQuiz(ctx context.Context, sess *session.Session, topic string) (model.ActiveQuiz, error)
}

// QuizHandler handles quiz requests.
type QuizHandler struct {
	deps QuizDependencies
}

// NewQuizHandler creates a new quiz handler.
func NewQuizHandler(deps QuizDependencies) *QuizHandler {
	return &QuizHandler{deps: deps}
}

type quizRequest struct {
	Topic string `json:"topic"`
}

type quizResponse struct {
	Topic  string          `json:"topic"`
	Quiz   string          `json:"quiz"`
	Notice *session.Notice `json:"notice"`
}

// HandlePostQuiz handles POST /api/quiz requests.
func (h *QuizHandler) HandlePostQuiz(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_quiz"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	sess, ok := SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "unavailable", NewKind(op, ErrUnavailable))
		return
	}

	var req quizRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	quiz, err := h.deps.GenerateQuiz(r.Context(), sess, req.Topic)
	if err != nil {
		writeServiceError(w, sess, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, quizResponse{Topic: quiz.Topic, Quiz: quiz.Text, Notice: sess.Notice()})
}
