// Package types contains common types used across the application
package types

import "github.com/samber/lo"

// Durations lists the study durations offered by the planner, shortest first.
var Durations = []string{
	"1 Week", "2 Week", "3 Week",
	"1 Month", "2 Months", "3 Months",
	"4 Months", "5 Months", "6 Months",
}

// DefaultDuration is preselected in the UI.
const DefaultDuration = "1 Week"

// ValidDuration reports whether d is one of Durations.
func ValidDuration(d string) bool {
	return lo.Contains(Durations, d)
}
