package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

func marks(present, late, excused, absent int) []models.AttendanceMark {
	var out []models.AttendanceMark
	add := func(status string, n int) {
		for i := 0; i < n; i++ {
			out = append(out, models.AttendanceMark{Status: status})
		}
	}
	add(models.AttendancePresent, present)
	add(models.AttendanceLate, late)
	add(models.AttendanceExcused, excused)
	add(models.AttendanceAbsent, absent)
	return out
}

func TestAttendanceScorer_PerClassWithPenalty(t *testing.T) {
	cfg := AttendanceConfig{
		Enabled:           true,
		Weight:            20,
		Mode:              AttendanceModePerClass,
		PointsPerClass:    1,
		MaxPoints:         20,
		PenaltyEnabled:    true,
		PenaltyPerAbsence: 0.5,
		LateWeight:        1,
	}

	scorer := &AttendanceScorer{Config: cfg}
	b, err := scorer.Score(StudentInput{
		Attendance:   marks(18, 0, 0, 2),
		TotalClasses: 20,
	}, ScoreContext{PeriodMax: 100})

	require.NoError(t, err)
	// 18×1 − 2×0.5
	assert.InDelta(t, 17.0, b.Weighted, 1e-9)
	assert.Equal(t, 18, b.Present)
	assert.Equal(t, 2, b.Absent)
}

func TestAttendanceScorer_PenaltyNeverGoesNegative(t *testing.T) {
	cfg := AttendanceConfig{
		Enabled:           true,
		Mode:              AttendanceModePerClass,
		PointsPerClass:    1,
		MaxPoints:         20,
		PenaltyEnabled:    true,
		PenaltyPerAbsence: 5,
		LateWeight:        1,
	}

	scorer := &AttendanceScorer{Config: cfg}
	b, err := scorer.Score(StudentInput{
		Attendance:   marks(1, 0, 0, 19),
		TotalClasses: 20,
	}, ScoreContext{PeriodMax: 100})

	require.NoError(t, err)
	// attendance is not a penalty channel, only activity may go below zero
	assert.Equal(t, 0.0, b.Weighted)
}

func TestAttendanceScorer_LateWeightIsPolicy(t *testing.T) {
	testCases := []struct {
		name       string
		lateWeight float64
		expected   float64
	}{
		{"late counts in full", 1.0, 10.0},
		{"late counts half", 0.5, 7.5},
		{"late counts for nothing", 0, 5.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := AttendanceConfig{
				Enabled:        true,
				Mode:           AttendanceModePerClass,
				PointsPerClass: 1,
				MaxPoints:      20,
				LateWeight:     tc.lateWeight,
			}

			scorer := &AttendanceScorer{Config: cfg}
			b, err := scorer.Score(StudentInput{
				Attendance:   marks(5, 5, 0, 0),
				TotalClasses: 10,
			}, ScoreContext{PeriodMax: 100})

			require.NoError(t, err)
			assert.InDelta(t, tc.expected, b.Weighted, 1e-9)
		})
	}
}

func TestAttendanceScorer_ExcusedAbsences(t *testing.T) {
	cfg := AttendanceConfig{
		Enabled:        true,
		Mode:           AttendanceModePerClass,
		PointsPerClass: 2,
		MaxPoints:      40,
		LateWeight:     1,
	}

	scorer := &AttendanceScorer{Config: cfg}

	t.Run("excused does not count by default", func(t *testing.T) {
		b, err := scorer.Score(StudentInput{
			Attendance:   marks(8, 0, 2, 0),
			TotalClasses: 10,
		}, ScoreContext{PeriodMax: 100})
		require.NoError(t, err)
		assert.InDelta(t, 16.0, b.Weighted, 1e-9)
	})

	t.Run("excused counts when configured", func(t *testing.T) {
		counting := cfg
		counting.ExcusedCounts = true
		s := &AttendanceScorer{Config: counting}
		b, err := s.Score(StudentInput{
			Attendance:   marks(8, 0, 2, 0),
			TotalClasses: 10,
		}, ScoreContext{PeriodMax: 100})
		require.NoError(t, err)
		assert.InDelta(t, 20.0, b.Weighted, 1e-9)
	})
}

func TestAttendanceScorer_PercentageMode(t *testing.T) {
	cfg := AttendanceConfig{
		Enabled:       true,
		Mode:          AttendanceModePercentage,
		MaxPoints:     20,
		LateWeight:    0.5,
		ExcusedWeight: 1,
	}

	scorer := &AttendanceScorer{Config: cfg}
	b, err := scorer.Score(StudentInput{
		Attendance:   marks(10, 4, 2, 4),
		TotalClasses: 20,
	}, ScoreContext{PeriodMax: 100})

	require.NoError(t, err)
	// (10 + 4×0.5 + 2×1) / 20 × 20
	assert.InDelta(t, 14.0, b.Weighted, 1e-9)
}

func TestAttendanceScorer_CapAtMaxPoints(t *testing.T) {
	cfg := AttendanceConfig{
		Enabled:        true,
		Mode:           AttendanceModePerClass,
		PointsPerClass: 3,
		MaxPoints:      20,
		LateWeight:     1,
	}

	scorer := &AttendanceScorer{Config: cfg}
	b, err := scorer.Score(StudentInput{
		Attendance:   marks(10, 0, 0, 0),
		TotalClasses: 10,
	}, ScoreContext{PeriodMax: 100})

	require.NoError(t, err)
	assert.Equal(t, 20.0, b.Weighted)
}

func TestAttendanceScorer_UnknownModeFails(t *testing.T) {
	scorer := &AttendanceScorer{Config: AttendanceConfig{Mode: "vibes"}}
	_, err := scorer.Score(StudentInput{}, ScoreContext{PeriodMax: 100})

	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
}
