package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

func labsConfig() LabsConfig {
	return LabsConfig{
		Enabled:             true,
		Weight:              60,
		GradingMode:         GradingModeGraded,
		GradingScale:        5,
		RequiredCount:       5,
		BonusPerExtra:       1,
		SoftDeadlineDays:    7,
		SoftDeadlinePenalty: 0.7,
		HardDeadlinePenalty: 0.3,
	}
}

func labEntry(grade int, submittedAt int64, deadline *int64) models.LabEntry {
	return models.LabEntry{
		Timestamp: submittedAt,
		Grade:     &grade,
		Deadline:  deadline,
	}
}

func TestLabsScorer_FiveOnTimePerfectLabs(t *testing.T) {
	deadline := time.Date(2024, 4, 1, 23, 59, 59, 0, time.UTC).Unix()

	var entries []models.LabEntry
	for i := 0; i < 5; i++ {
		entries = append(entries, labEntry(5, deadline-3600, &deadline))
	}

	scorer := &LabsScorer{Config: labsConfig()}
	b, err := scorer.Score(StudentInput{Labs: entries}, ScoreContext{PeriodMax: 100})

	require.NoError(t, err)
	assert.Equal(t, 1.0, b.Raw)
	assert.Equal(t, 60.0, b.Weighted)
	assert.Equal(t, 5, b.Submitted)
	assert.Equal(t, 5, b.Required)
}

func TestLabsScorer_PartialAndLate(t *testing.T) {
	deadline := time.Date(2024, 4, 1, 23, 59, 59, 0, time.UTC).Unix()

	entries := []models.LabEntry{
		labEntry(5, deadline-3600, &deadline),            // on time, 1.0
		labEntry(5, deadline+24*60*60, &deadline),        // soft late, 0.7
		labEntry(5, deadline+30*24*60*60, &deadline),     // hard late, 0.3
	}

	scorer := &LabsScorer{Config: labsConfig()}
	b, err := scorer.Score(StudentInput{Labs: entries}, ScoreContext{PeriodMax: 100})

	require.NoError(t, err)
	// (1.0 + 0.7 + 0.3) / 5 required
	assert.InDelta(t, 0.4, b.Raw, 1e-9)
	assert.InDelta(t, 24.0, b.Weighted, 1e-9)
}

func TestLabsScorer_GradedModeTakesHighestFirst(t *testing.T) {
	cfg := labsConfig()
	cfg.RequiredCount = 2
	cfg.BonusPerExtra = 0

	entries := []models.LabEntry{
		labEntry(2, 100, nil),
		labEntry(5, 100, nil),
		labEntry(4, 100, nil),
	}

	scorer := &LabsScorer{Config: cfg}
	b, err := scorer.Score(StudentInput{Labs: entries}, ScoreContext{PeriodMax: 100})

	require.NoError(t, err)
	// top two of 1.0, 0.8, 0.4 → (1.0+0.8)/2
	assert.InDelta(t, 0.9, b.Raw, 1e-9)
}

func TestLabsScorer_ExtraSubmissionsEarnBonus(t *testing.T) {
	cfg := labsConfig()
	cfg.RequiredCount = 2
	cfg.BonusPerExtra = 1.5

	entries := []models.LabEntry{
		labEntry(5, 100, nil),
		labEntry(5, 100, nil),
		labEntry(5, 100, nil),
		labEntry(5, 100, nil),
	}

	scorer := &LabsScorer{Config: cfg}
	b, err := scorer.Score(StudentInput{Labs: entries}, ScoreContext{PeriodMax: 100})

	require.NoError(t, err)
	assert.Equal(t, 1.0, b.Raw)
	assert.Equal(t, 3.0, b.ExtraBonus)
	// raw portion capped at weight points, bonus additive on top
	assert.Equal(t, 63.0, b.Weighted)
}

func TestLabsScorer_BinaryModeCountsSubmissions(t *testing.T) {
	cfg := labsConfig()
	cfg.GradingMode = GradingModeBinary
	cfg.RequiredCount = 4
	cfg.BonusPerExtra = 0

	entries := []models.LabEntry{
		labEntry(1, 100, nil),
		labEntry(1, 100, nil),
	}

	scorer := &LabsScorer{Config: cfg}
	b, err := scorer.Score(StudentInput{Labs: entries}, ScoreContext{PeriodMax: 100})

	require.NoError(t, err)
	assert.InDelta(t, 0.5, b.Raw, 1e-9)
	assert.InDelta(t, 30.0, b.Weighted, 1e-9)
}

func TestLabsScorer_UngradedSubmissionStaysInDenominator(t *testing.T) {
	entries := []models.LabEntry{
		labEntry(5, 100, nil),
		{Timestamp: 100}, // submitted but ungraded
	}

	scorer := &LabsScorer{Config: labsConfig()}
	b, err := scorer.Score(StudentInput{Labs: entries}, ScoreContext{PeriodMax: 100})

	require.NoError(t, err)
	assert.Equal(t, 1, b.Submitted)
	assert.InDelta(t, 0.2, b.Raw, 1e-9)
}

func TestLabsScorer_GradeOutsideScaleIsExcluded(t *testing.T) {
	entries := []models.LabEntry{
		labEntry(5, 100, nil),
		labEntry(42, 100, nil), // garbage grade on a 5-point scale
	}

	scorer := &LabsScorer{Config: labsConfig()}
	b, err := scorer.Score(StudentInput{Labs: entries}, ScoreContext{PeriodMax: 100})

	require.NoError(t, err)
	assert.Equal(t, 1, b.Excluded)
	assert.Equal(t, 1, b.Submitted)
	assert.InDelta(t, 0.2, b.Raw, 1e-9)
}

func TestLabsScorer_ConfigErrors(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*LabsConfig)
	}{
		{
			name:   "required_count zero",
			mutate: func(c *LabsConfig) { c.RequiredCount = 0 },
		},
		{
			name:   "required_count negative",
			mutate: func(c *LabsConfig) { c.RequiredCount = -3 },
		},
		{
			name:   "unsupported grading scale",
			mutate: func(c *LabsConfig) { c.GradingScale = 12 },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := labsConfig()
			tc.mutate(&cfg)

			scorer := &LabsScorer{Config: cfg}
			_, err := scorer.Score(StudentInput{}, ScoreContext{PeriodMax: 100})

			var confErr *ConfigurationError
			require.ErrorAs(t, err, &confErr)
		})
	}
}

func TestLabsScorer_HigherGradeNeverLowersScore(t *testing.T) {
	cfg := labsConfig()
	cfg.RequiredCount = 3

	base := []models.LabEntry{
		labEntry(3, 100, nil),
		labEntry(4, 100, nil),
	}

	scorer := &LabsScorer{Config: cfg}

	prev := -1.0
	for grade := 0; grade <= 5; grade++ {
		entries := append([]models.LabEntry{labEntry(grade, 100, nil)}, base...)
		b, err := scorer.Score(StudentInput{Labs: entries}, ScoreContext{PeriodMax: 100})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, b.Weighted, prev, "grade %d", grade)
		prev = b.Weighted
	}
}
