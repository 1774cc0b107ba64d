package scoring

import (
	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

// ActivityScorer sums ad-hoc bonus and penalty entries. It must run
// after every other component: a bonus only fits into the reserve left
// below the period ceiling, while a penalty ignores the ceiling and is
// bounded by negative_limit instead.
type ActivityScorer struct {
	Config ActivityConfig
}

func (s *ActivityScorer) Kind() models.ComponentKind {
	return models.ComponentActivity
}

func (s *ActivityScorer) Score(in StudentInput, sctx ScoreContext) (models.ComponentBreakdown, error) {
	var b models.ComponentBreakdown

	var raw float64
	for _, entry := range in.Activity {
		points := entry.Points
		if points == 0 {
			points = s.Config.PointsPerEntry
		}
		raw += points
	}
	b.Raw = raw
	b.Submitted = len(in.Activity)
	b.MaxPossible = s.Config.MaxPoints

	switch {
	case raw > 0:
		bonus := raw
		if s.Config.MaxPoints > 0 && bonus > s.Config.MaxPoints {
			bonus = s.Config.MaxPoints
		}
		reserve := sctx.PeriodMax - sctx.OtherTotal
		if reserve <= 0 {
			b.BonusBlocked = true
			bonus = 0
		} else if bonus > reserve {
			bonus = reserve
		}
		b.Weighted = bonus

	case raw < 0:
		if !s.Config.AllowNegative {
			b.Weighted = 0
			break
		}
		penalty := raw
		if penalty < -s.Config.NegativeLimit {
			penalty = -s.Config.NegativeLimit
		}
		b.Weighted = penalty
	}

	return b, nil
}
