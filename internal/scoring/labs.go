package scoring

import (
	"errors"
	"sort"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

// LabsScorer scores the lab component. Each graded submission is worth
// its normalized grade degraded by the deadline multiplier; the first
// required_count submissions (highest-first in graded mode) form the
// raw ratio, everything past required_count earns bonus_per_extra
// points on top.
type LabsScorer struct {
	Config LabsConfig
}

func (s *LabsScorer) Kind() models.ComponentKind {
	return models.ComponentLabs
}

func (s *LabsScorer) Score(in StudentInput, sctx ScoreContext) (models.ComponentBreakdown, error) {
	var b models.ComponentBreakdown

	if s.Config.RequiredCount <= 0 {
		return b, &ConfigurationError{Reason: "labs required_count must be positive"}
	}
	if _, err := normalizeGrade(0, s.Config.GradingScale); err != nil {
		return b, err
	}

	var values []float64
	for _, entry := range in.Labs {
		if entry.Grade == nil {
			continue
		}

		mult := ResolveDeadlineMultiplier(
			&entry.Timestamp,
			entry.Deadline,
			s.Config.SoftDeadlineDays,
			s.Config.SoftDeadlinePenalty,
			s.Config.HardDeadlinePenalty,
		)

		if s.Config.GradingMode == GradingModeBinary {
			values = append(values, mult)
			continue
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
		values = append(values, norm*mult)
	}

	if s.Config.GradingMode == GradingModeGraded {
		sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	}

	var sum float64
	counted := len(values)
	if counted > s.Config.RequiredCount {
		counted = s.Config.RequiredCount
	}
	for _, v := range values[:counted] {
		sum += v
	}

	b.Submitted = len(values)
	b.Required = s.Config.RequiredCount
	b.Raw = clamp(sum/float64(s.Config.RequiredCount), 0, 1)

	capPoints := s.Config.Weight / 100 * sctx.PeriodMax
	weighted := clamp(b.Raw*capPoints, 0, capPoints)

	if extras := len(values) - s.Config.RequiredCount; extras > 0 {
		b.ExtraBonus = float64(extras) * s.Config.BonusPerExtra
	}

	b.Weighted = weighted + b.ExtraBonus
	b.MaxPossible = capPoints

	return b, nil
}
