package studyctl

import "time"

// Commands.
const (
	CommandPlan    = "plan"
	CommandQuiz    = "quiz"
	CommandHistory = "history"
	CommandAnalyze = "analyze"
)

// Config holds configuration for one studyctl invocation.
type Config struct {
	BaseURL  string        // Base URL of the service
	Command  string        // One of the Command* constants
	Topic    string        // Plan or quiz topic
	Duration string        // Plan duration
	Answers  string        // Answers for quiz; read from stdin when empty
	Filter   string        // History topic filter
	Timeout  time.Duration // HTTP request timeout
	LogFile  string        // Optional log file
	Verbose  bool          // Enable debug logging
}

// Notice mirrors the status message returned by the API.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Record mirrors a stored performance record.
type Record struct {
	Topic string  `json:"topic"`
	Score float64 `json:"score"`
	Date  string  `json:"date"`
}

// PlanResponse is the reply of POST /api/plan.
type PlanResponse struct {
	Plan   string  `json:"plan"`
	Notice *Notice `json:"notice"`
}

// QuizResponse is the reply of POST /api/quiz.
type QuizResponse struct {
	Topic  string  `json:"topic"`
	Quiz   string  `json:"quiz"`
	Notice *Notice `json:"notice"`
}

// EvaluateResponse is the reply of POST /api/evaluate.
type EvaluateResponse struct {
	Evaluation string   `json:"evaluation"`
	Score      *float64 `json:"score"`
	Saved      bool     `json:"saved"`
	Record     *Record  `json:"record"`
	Notice     *Notice  `json:"notice"`
}

// HistoryResponse is the reply of GET /api/history.
type HistoryResponse struct {
	Records []Record `json:"records"`
	Notice  *Notice  `json:"notice"`
}

// AnalyzeResponse is the reply of POST /api/analyze.
type AnalyzeResponse struct {
	Analysis string  `json:"analysis"`
	Notice   *Notice `json:"notice"`
}
