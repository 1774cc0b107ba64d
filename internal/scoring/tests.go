package scoring

import (
	"errors"
	"math"
	"sort"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

// TestsScorer scores the optional test component. Attempts of the same
// test compete against each other: each retake carries a cumulative
// retake_penalty multiplier and the best surviving value wins. With
// best_of configured, only the top N test values enter the ratio.
type TestsScorer struct {
	Config TestsConfig
}

func (s *TestsScorer) Kind() models.ComponentKind {
	return models.ComponentTests
}

func (s *TestsScorer) Score(in StudentInput, sctx ScoreContext) (models.ComponentBreakdown, error) {
	var b models.ComponentBreakdown

	if s.Config.RequiredCount <= 0 {
		return b, &ConfigurationError{Reason: "tests required_count must be positive"}
	}
	if _, err := normalizeGrade(0, s.Config.GradingScale); err != nil {
		return b, err
	}

	best := map[string]float64{}
	for _, entry := range in.Tests {
		if entry.Grade == nil {
			continue
		}

		attempt := entry.Attempt
		if attempt < 1 {
			attempt = 1
		}
		if attempt > 1 {
			if !s.Config.RetakesAllowed || attempt > 1+s.Config.MaxRetakes {
				b.Excluded++
				continue
			}
		}

		norm, err := normalizeGrade(*entry.Grade, s.Config.GradingScale)
		if err != nil {
			var dataErr *InputDataError
			if errors.As(err, &dataErr) {
				b.Excluded++
				continue
			}
			return b, err
		}

		// no soft window for tests: past the deadline an attempt is void
		mult := ResolveDeadlineMultiplier(&entry.Timestamp, entry.Deadline, 0, 0, 0)

		retakePenalty := s.Config.RetakePenalty
		if retakePenalty == 0 {
			retakePenalty = 1
		}
		value := norm * mult * math.Pow(retakePenalty, float64(attempt-1))

		if value > best[entry.Test] {
			best[entry.Test] = value
		}
	}

	values := make([]float64, 0, len(best))
	for _, v := range best {
		values = append(values, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))

	if s.Config.BestOf > 0 && len(values) > s.Config.BestOf {
		values = values[:s.Config.BestOf]
	}

	counted := len(values)
	if counted > s.Config.RequiredCount {
		counted = s.Config.RequiredCount
	}

	var sum float64
	for _, v := range values[:counted] {
		sum += v
	}

	b.Submitted = len(best)
	b.Required = s.Config.RequiredCount
	b.Raw = clamp(sum/float64(s.Config.RequiredCount), 0, 1)

	capPoints := s.Config.Weight / 100 * sctx.PeriodMax
	b.Weighted = clamp(b.Raw*capPoints, 0, capPoints)
	b.MaxPossible = capPoints

	return b, nil
}
