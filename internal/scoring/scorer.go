package scoring

import (
	"fmt"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

// StudentInput bundles one student's raw records for a period, already
// fetched by the caller. TotalClasses comes from the schedule; the
// engine never infers it.
type StudentInput struct {
	Labs         []models.LabEntry
	Attendance   []models.AttendanceMark
	Activity     []models.ActivityEntry
	Tests        []models.TestEntry
	TotalClasses int
}

// ScoreContext carries the period ceiling and the running sum of the
// components scored so far. Activity runs last and uses OtherTotal for
// its reserve check; the other scorers ignore it.
type ScoreContext struct {
	PeriodMax  float64
	OtherTotal float64
}

// ComponentScorer turns one component's raw records into a breakdown.
// One implementation per component kind, dispatched by tag.
type ComponentScorer interface {
	Kind() models.ComponentKind
	Score(in StudentInput, sctx ScoreContext) (models.ComponentBreakdown, error)
}

// EnabledScorers returns scorers for the enabled components in scoring
// order: labs, attendance, tests, then activity last.
func EnabledScorers(cfg ComponentsConfig) []ComponentScorer {
	var scorers []ComponentScorer
	for _, kind := range models.ScoringOrder {
		if !cfg.componentEnabled(kind) {
			continue
		}
		switch kind {
		case models.ComponentLabs:
			scorers = append(scorers, &LabsScorer{Config: cfg.Labs})
		case models.ComponentAttendance:
			scorers = append(scorers, &AttendanceScorer{Config: cfg.Attendance})
		case models.ComponentTests:
			scorers = append(scorers, &TestsScorer{Config: cfg.Tests})
		case models.ComponentActivity:
			scorers = append(scorers, &ActivityScorer{Config: cfg.Activity})
		}
	}
	return scorers
}

// normalizeGrade maps a grade on the institution's scale (5, 10 or
// 100-point) onto [0, 1]. A grade outside the scale is an input data
// error: the record gets excluded, not the whole report.
func normalizeGrade(grade, scale int) (float64, error) {
	switch scale {
	case 5, 10, 100:
	default:
		return 0, &ConfigurationError{Reason: fmt.Sprintf("unsupported grading scale: %d", scale)}
	}

	if grade < 0 || grade > scale {
		return 0, &InputDataError{Reason: fmt.Sprintf("grade %d outside scale %d", grade, scale)}
	}

	return float64(grade) / float64(scale), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
