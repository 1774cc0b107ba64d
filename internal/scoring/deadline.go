package scoring

const secondsPerDay = 24 * 60 * 60

// ResolveDeadlineMultiplier maps a submission's timing relative to its
// deadline into a grade-degradation multiplier.
//
// On time (or no deadline at all) keeps the full grade. Anything inside
// the soft window of softDays after the deadline earns softPenalty,
// anything later earns hardPenalty. A nil submittedAt means the work
// was never handed in: it contributes nothing to the numerator but
// still sits in the required-count denominator.
func ResolveDeadlineMultiplier(submittedAt, deadline *int64, softDays int, softPenalty, hardPenalty float64) float64 {
	if submittedAt == nil {
		return 0
	}
	if deadline == nil {
		return 1
	}

	if *submittedAt <= *deadline {
		return 1
	}
	if *submittedAt <= *deadline+int64(softDays)*secondsPerDay {
		return softPenalty
	}
	return hardPenalty
}
