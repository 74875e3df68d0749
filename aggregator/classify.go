package aggregator

import (
	"strings"
)

// Outcome is the classification of a single answer
type Outcome int

const (
	// Incorrect is the default for any label that does not look correct
	Incorrect Outcome = iota
	// Correct marks an answer counted as right
	Correct
)

// Classify maps a raw outcome label to an Outcome. The labels arrive
// in the deployment language ("Correto", "Correct", "Correcto"), so
// the check is a case-insensitive prefix match on the configured
// letter; anything that does not match counts as incorrect.
func Classify(label string, correctPrefix string) Outcome {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return Incorrect
	}

	if strings.HasPrefix(strings.ToLower(trimmed), strings.ToLower(correctPrefix)) {
		return Correct
	}

	return Incorrect
}
