// Package prompts holds the instruction templates of the four agents and the
// builders that turn user input into the user message sent alongside them.
package prompts

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/okian/examprep/internal/domain/model"
	"github.com/okian/examprep/internal/domain/scoring"
)

// Agent pairs a name with the system instructions that define its behavior.
type Agent struct {
	Name         string
	Instructions string
}

// The four agents.
var (
	Planner = Agent{
		Name: "planner",
		Instructions: `You are a Planner Agent in an Agentic AI system.
Create a structured study plan based on:
- Topic
- Duration (1 Week, 2 Week, 3 Week, 1 Month, 2 Months, 3 Months, 4 Months, 5 Months, 6 Months)
Rules:
- 1 Week → Daily breakdown
- 1 Month → Weekly breakdown
- 3 Months+ → Monthly focus + weekly milestones
- Include objectives, time allocation, resources, and practice strategy
`,
	}

	QuizGenerator = Agent{
		Name: "quiz",
		Instructions: `You are a Quiz Agent.
Generate 5 multiple-choice questions (MCQs).
Rules:
- Provide only questions
- Each question must have 4 options (A, B, C, D)
- Do NOT provide answers
- Clear formatting
`,
	}

	Evaluator = Agent{
		Name: "evaluator",
		Instructions: `You are an Evaluator Agent.
Evaluate the student's answers.
Provide:
1. Correct answers
2. Score out of 10 (e.g., 8/10 or 8.5/10)
3. Brief explanation for wrong answers
`,
	}

	WeakTopicAnalyzer = Agent{
		Name: "analyzer",
		Instructions: `You are a Weak Topic Analyzer Agent.
Analyze performance history.
Identify weak topics and suggest improvement strategies.
`,
	}
)

// Agents lists every agent, used to pre-register per-agent metrics.
var Agents = []Agent{Planner, QuizGenerator, Evaluator, WeakTopicAnalyzer}

// PlanRequest builds the planner's user message.
func PlanRequest(topic, duration string) string {
	return fmt.Sprintf("Topic: %s\nDuration: %s", topic, duration)
}

// QuizRequest builds the quiz generator's user message: the topic itself.
func QuizRequest(topic string) string {
	return topic
}

// EvaluationRequest builds the evaluator's user message. Answers are passed
// through verbatim.
func EvaluationRequest(topic, quiz, answers string) string {
	return fmt.Sprintf("\nTopic: %s\nQuiz:\n%s\nStudent Answers:\n%s\n", topic, quiz, answers)
}

// HistoryRequest renders one "<topic> - <score>/10" line per record in
// stored order.
func HistoryRequest(records []model.Record) string {
	lines := lo.Map(records, func(r model.Record, _ int) string {
		return HistoryLine(r)
	})
	return strings.Join(lines, "\n")
}

// HistoryLine renders a single record as "<topic> - <score>/10".
func HistoryLine(r model.Record) string {
	return r.Topic + " - " + scoring.Format(r.Score) + "/10"
}

// Expected quiz shape requested from the quiz generator.
const (
	ExpectedQuestions = 5
	ExpectedOptions   = 4
)

var (
	questionLine = regexp.MustCompile(`(?m)^\s*(?:\*\*)?(?:Q(?:uestion)?\s*)?\d+\s*[.):]`)
	optionLine   = regexp.MustCompile(`(?m)^\s*(?:[-*]\s*)?\(?[A-Da-d]\s*[).:]`)
)

// QuizShape is a best-effort count of the questions and options in a quiz.
type QuizShape struct {
	Questions int
	Options   int
}

// WellFormed reports whether the quiz looks like 5 questions with 4 options each.
func (s QuizShape) WellFormed() bool {
	return s.Questions == ExpectedQuestions && s.Options == ExpectedQuestions*ExpectedOptions
}

// InspectQuiz counts numbered question lines and A-D option lines.
// It never rejects anything; the generated text is used as-is.
func InspectQuiz(text string) QuizShape {
	return QuizShape{
		Questions: len(questionLine.FindAllStringIndex(text, -1)),
		Options:   len(optionLine.FindAllStringIndex(text, -1)),
	}
}
