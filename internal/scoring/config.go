package scoring

import (
	"math"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

// weightEpsilon absorbs float noise when checking that enabled weights
// sum to exactly 100.
const weightEpsilon = 0.01

// GradeBand maps a contiguous score range to a discrete grade label.
// Bounds are inclusive on both ends; classification checks bands in
// descending order so a shared boundary resolves to the higher band.
type GradeBand struct {
	Label string  `toml:"label"`
	Lower float64 `toml:"lower"`
	Upper float64 `toml:"upper"`
}

// PeriodConfig describes one attestation window of a course.
type PeriodConfig struct {
	Period           models.Period `toml:"period"`
	MaxPoints        float64       `toml:"max_points"`
	MinPassingPoints float64       `toml:"min_passing_points"`
	GradeBands       []GradeBand   `toml:"grade_bands"`
}

const (
	GradingModeBinary = "binary"
	GradingModeGraded = "graded"
)

type LabsConfig struct {
	Enabled              bool    `toml:"enabled"`
	Weight               float64 `toml:"weight"`
	GradingMode          string  `toml:"grading_mode"`
	GradingScale         int     `toml:"grading_scale"`
	RequiredCount        int     `toml:"required_count"`
	BonusPerExtra        float64 `toml:"bonus_per_extra"`
	SoftDeadlineDays     int     `toml:"soft_deadline_days"`
	SoftDeadlinePenalty  float64 `toml:"soft_deadline_penalty"`
	HardDeadlinePenalty  float64 `toml:"hard_deadline_penalty"`
	BonusCappedByReserve bool    `toml:"bonus_capped_by_reserve"`
}

const (
	AttendanceModePerClass   = "per_class"
	AttendanceModePercentage = "percentage"
)

type AttendanceConfig struct {
	Enabled           bool    `toml:"enabled"`
	Weight            float64 `toml:"weight"`
	Mode              string  `toml:"mode"`
	PointsPerClass    float64 `toml:"points_per_class"`
	MaxPoints         float64 `toml:"max_points"`
	PenaltyEnabled    bool    `toml:"penalty_enabled"`
	PenaltyPerAbsence float64 `toml:"penalty_per_absence"`
	ExcusedCounts     bool    `toml:"excused_counts"`
	// The source policy for late arrivals varies per institution, so
	// the fraction of presence a late mark earns is explicit config.
	LateWeight    float64 `toml:"late_weight"`
	ExcusedWeight float64 `toml:"excused_weight"`
}

type ActivityConfig struct {
	Enabled        bool    `toml:"enabled"`
	Weight         float64 `toml:"weight"`
	MaxPoints      float64 `toml:"max_points"`
	AllowNegative  bool    `toml:"allow_negative"`
	NegativeLimit  float64 `toml:"negative_limit"`
	PointsPerEntry float64 `toml:"points_per_entry"`
}

type TestsConfig struct {
	Enabled        bool    `toml:"enabled"`
	Weight         float64 `toml:"weight"`
	GradingScale   int     `toml:"grading_scale"`
	RequiredCount  int     `toml:"required_count"`
	RetakesAllowed bool    `toml:"retakes_allowed"`
	MaxRetakes     int     `toml:"max_retakes"`
	RetakePenalty  float64 `toml:"retake_penalty"`
	BestOf         int     `toml:"best_of"`
}

// ComponentsConfig is the full per-period weighting scheme. The engine
// never reads it from anywhere ambient: callers load it and pass it
// into every call.
type ComponentsConfig struct {
	Labs       LabsConfig       `toml:"labs"`
	Attendance AttendanceConfig `toml:"attendance"`
	Activity   ActivityConfig   `toml:"activity"`
	Tests      TestsConfig      `toml:"tests"`
}

func (c ComponentsConfig) enabledWeightSum() float64 {
	var sum float64
	if c.Labs.Enabled {
		sum += c.Labs.Weight
	}
	if c.Attendance.Enabled {
		sum += c.Attendance.Weight
	}
	if c.Activity.Enabled {
		sum += c.Activity.Weight
	}
	if c.Tests.Enabled {
		sum += c.Tests.Weight
	}
	return sum
}

func (c ComponentsConfig) componentEnabled(kind models.ComponentKind) bool {
	switch kind {
	case models.ComponentLabs:
		return c.Labs.Enabled
	case models.ComponentAttendance:
		return c.Attendance.Enabled
	case models.ComponentActivity:
		return c.Activity.Enabled
	case models.ComponentTests:
		return c.Tests.Enabled
	}
	return false
}

// ValidateWeights rejects a weighting scheme whose enabled components
// do not sum to 100%. Pure check, runs before every aggregate pass.
func ValidateWeights(cfg ComponentsConfig) error {
	sum := cfg.enabledWeightSum()
	if math.Abs(sum-100) >= weightEpsilon {
		return &ConfigurationError{
			Reason:    "enabled component weights must sum to 100",
			WeightSum: sum,
		}
	}
	return nil
}

// ValidatePeriod checks the band partition invariant: bands cover
// [0, max_points] with no gaps or overlaps.
func ValidatePeriod(cfg PeriodConfig) error {
	if cfg.MaxPoints <= 0 {
		return &ConfigurationError{Reason: "max_points must be positive"}
	}
	if len(cfg.GradeBands) == 0 {
		return &ConfigurationError{Reason: "no grade bands configured"}
	}

	bands := sortedBandsAscending(cfg.GradeBands)
	if math.Abs(bands[0].Lower) >= weightEpsilon {
		return &ConfigurationError{Reason: "lowest grade band must start at 0"}
	}
	for i := 1; i < len(bands); i++ {
		if math.Abs(bands[i].Lower-bands[i-1].Upper) >= weightEpsilon {
			return &ConfigurationError{Reason: "grade bands must be contiguous"}
		}
	}
	last := bands[len(bands)-1]
	if math.Abs(last.Upper-cfg.MaxPoints) >= weightEpsilon {
		return &ConfigurationError{Reason: "highest grade band must end at max_points"}
	}

	for _, b := range bands {
		if b.Upper < b.Lower {
			return &ConfigurationError{Reason: "grade band upper bound below lower bound"}
		}
	}

	return nil
}
