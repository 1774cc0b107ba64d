package scoring

import (
	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

// AttendanceScorer scores presence marks. Attendance is not a penalty
// channel: whatever the absence penalties add up to, the component
// never goes below zero. Only activity may.
type AttendanceScorer struct {
	Config AttendanceConfig
}

func (s *AttendanceScorer) Kind() models.ComponentKind {
	return models.ComponentAttendance
}

func (s *AttendanceScorer) Score(in StudentInput, sctx ScoreContext) (models.ComponentBreakdown, error) {
	var b models.ComponentBreakdown

	switch s.Config.Mode {
	case AttendanceModePerClass, AttendanceModePercentage:
	default:
		return b, &ConfigurationError{Reason: "attendance mode must be per_class or percentage"}
	}

	for _, mark := range in.Attendance {
		switch mark.Status {
		case models.AttendancePresent:
			b.Present++
		case models.AttendanceLate:
			b.Late++
		case models.AttendanceExcused:
			b.Excused++
		case models.AttendanceAbsent:
			b.Absent++
		default:
			b.Excluded++
		}
	}

	credit := float64(b.Present) + float64(b.Late)*s.Config.LateWeight

	switch s.Config.Mode {
	case AttendanceModePerClass:
		if s.Config.ExcusedCounts {
			credit += float64(b.Excused)
		}
		weighted := credit * s.Config.PointsPerClass
		if s.Config.PenaltyEnabled {
			weighted -= float64(b.Absent) * s.Config.PenaltyPerAbsence
		}
		if s.Config.MaxPoints > 0 && weighted > s.Config.MaxPoints {
			weighted = s.Config.MaxPoints
		}
		if weighted < 0 {
			weighted = 0
		}
		b.Weighted = weighted

	case AttendanceModePercentage:
		credit += float64(b.Excused) * s.Config.ExcusedWeight
		if in.TotalClasses > 0 {
			b.Weighted = credit / float64(in.TotalClasses) * s.Config.MaxPoints
		}
	}

	if in.TotalClasses > 0 {
		b.Raw = clamp((float64(b.Present)+float64(b.Late))/float64(in.TotalClasses), 0, 1)
	}
	b.MaxPossible = s.Config.MaxPoints

	return b, nil
}
