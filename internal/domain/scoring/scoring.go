// Package scoring extracts the "<n>/10" score from free-form evaluator text.
package scoring

import (
	"math"
	"regexp"
	"strconv"
)

// scorePattern matches an integer or decimal immediately followed by "/10".
var scorePattern = regexp.MustCompile(`(\d+(\.\d+)?)/10`)

// Extract returns the first "<n>/10" number found in text.
// The match is purely syntactic: values above 10 are returned unchanged.
func Extract(text string) (float64, bool) {
	m := scorePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	score, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return score, true
}

// Format renders a score with at least one decimal place (4 -> "4.0").
func Format(score float64) string {
	if score == math.Trunc(score) && !math.IsInf(score, 0) {
		return strconv.FormatFloat(score, 'f', 1, 64)
	}
	return strconv.FormatFloat(score, 'f', -1, 64)
}
