package scoring

import "fmt"

// ConfigurationError means the component or period configuration cannot
// produce a valid score. It is always surfaced before any score is
// returned, never silently corrected.
type ConfigurationError struct {
	Reason    string
	WeightSum float64
}

func (e *ConfigurationError) Error() string {
	if e.WeightSum != 0 {
		return fmt.Sprintf("configuration error: %s (weight sum: %.2f)", e.Reason, e.WeightSum)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// InputDataError marks a single malformed raw record, e.g. a grade
// outside the declared scale. The record is excluded from the
// computation and counted in the breakdown; it never blocks a report.
type InputDataError struct {
	Reason string
}

func (e *InputDataError) Error() string {
	return fmt.Sprintf("input data error: %s", e.Reason)
}

// ClassificationError means no grade band matched a valid total score.
// The band invariants should make this impossible, so it is fatal
// rather than defaulted to some grade.
type ClassificationError struct {
	Score float64
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("no grade band matches score %.2f", e.Score)
}
