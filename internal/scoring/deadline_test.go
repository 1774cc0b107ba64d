package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveDeadlineMultiplier(t *testing.T) {

	deadline := time.Date(2024, 4, 1, 23, 59, 59, 0, time.UTC).Unix()
	softDays := 7
	softPenalty := 0.7
	hardPenalty := 0.3

	ts := func(offset time.Duration) *int64 {
		v := deadline + int64(offset.Seconds())
		return &v
	}

	testCases := []struct {
		name         string
		submittedAt  *int64
		deadline     *int64
		expectedMult float64
	}{
		{
			name:         "Early submission keeps full grade",
			submittedAt:  ts(-6 * time.Hour),
			deadline:     &deadline,
			expectedMult: 1,
		},
		{
			name:         "Submission exactly at the deadline is timely",
			submittedAt:  ts(0),
			deadline:     &deadline,
			expectedMult: 1,
		},
		{
			name:         "One second late lands in the soft window",
			submittedAt:  ts(1 * time.Second),
			deadline:     &deadline,
			expectedMult: 0.7,
		},
		{
			name:         "One day late is still soft",
			submittedAt:  ts(24 * time.Hour),
			deadline:     &deadline,
			expectedMult: 0.7,
		},
		{
			name:         "Last second of the soft window is still soft",
			submittedAt:  ts(7 * 24 * time.Hour),
			deadline:     &deadline,
			expectedMult: 0.7,
		},
		{
			name:         "One day past the soft window is hard-penalized",
			submittedAt:  ts(8 * 24 * time.Hour),
			deadline:     &deadline,
			expectedMult: 0.3,
		},
		{
			name:         "No deadline means no penalty",
			submittedAt:  ts(100 * 24 * time.Hour),
			deadline:     nil,
			expectedMult: 1,
		},
		{
			name:         "Not yet submitted counts for nothing",
			submittedAt:  nil,
			deadline:     &deadline,
			expectedMult: 0,
		},
		{
			name:         "Graded before a future deadline is timely",
			submittedAt:  ts(-30 * 24 * time.Hour),
			deadline:     &deadline,
			expectedMult: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mult := ResolveDeadlineMultiplier(
				tc.submittedAt,
				tc.deadline,
				softDays,
				softPenalty,
				hardPenalty,
			)
			assert.Equal(t, tc.expectedMult, mult)
		})
	}
}
