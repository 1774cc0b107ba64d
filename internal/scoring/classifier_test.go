package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardBands() []GradeBand {
	return []GradeBand{
		{Label: "fail", Lower: 0, Upper: 60},
		{Label: "pass", Lower: 60, Upper: 75},
		{Label: "good", Lower: 75, Upper: 90},
		{Label: "excellent", Lower: 90, Upper: 100},
	}
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		score    float64
		expected string
	}{
		{"floor of the scale", 0, "fail"},
		{"inside a band", 68.5, "pass"},
		{"shared boundary takes higher band", 75, "good"},
		{"passing boundary", 60, "pass"},
		{"top of the scale", 100, "excellent"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			label, err := Classify(tc.score, standardBands())
			require.NoError(t, err)
			assert.Equal(t, tc.expected, label)
		})
	}
}

func TestClassify_OrderOfBandsDoesNotMatter(t *testing.T) {
	shuffled := []GradeBand{
		{Label: "excellent", Lower: 90, Upper: 100},
		{Label: "fail", Lower: 0, Upper: 60},
		{Label: "good", Lower: 75, Upper: 90},
		{Label: "pass", Lower: 60, Upper: 75},
	}

	label, err := Classify(75, shuffled)
	require.NoError(t, err)
	assert.Equal(t, "good", label)
}

func TestClassify_OutsideAllBands(t *testing.T) {
	for _, score := range []float64{-1, 100.5} {
		_, err := Classify(score, standardBands())

		var classErr *ClassificationError
		require.ErrorAs(t, err, &classErr)
		assert.Equal(t, score, classErr.Score)
	}
}

func TestValidateWeights(t *testing.T) {
	base := func() ComponentsConfig {
		return ComponentsConfig{
			Labs:       LabsConfig{Enabled: true, Weight: 60},
			Attendance: AttendanceConfig{Enabled: true, Weight: 20},
			Activity:   ActivityConfig{Enabled: true, Weight: 20},
		}
	}

	t.Run("enabled weights sum to 100", func(t *testing.T) {
		assert.NoError(t, ValidateWeights(base()))
	})

	t.Run("float noise within epsilon passes", func(t *testing.T) {
		cfg := base()
		cfg.Labs.Weight = 60.005
		assert.NoError(t, ValidateWeights(cfg))
	})

	t.Run("disabled component weight ignored", func(t *testing.T) {
		cfg := base()
		cfg.Tests = TestsConfig{Enabled: false, Weight: 40}
		assert.NoError(t, ValidateWeights(cfg))
	})

	t.Run("sum off by one rejected", func(t *testing.T) {
		cfg := base()
		cfg.Activity.Weight = 21

		err := ValidateWeights(cfg)
		var confErr *ConfigurationError
		require.ErrorAs(t, err, &confErr)
		assert.InDelta(t, 101, confErr.WeightSum, 1e-9)
	})
}

func TestValidatePeriod(t *testing.T) {
	valid := PeriodConfig{
		Period:           "first",
		MaxPoints:        100,
		MinPassingPoints: 60,
		GradeBands:       standardBands(),
	}

	t.Run("contiguous bands pass", func(t *testing.T) {
		assert.NoError(t, ValidatePeriod(valid))
	})

	broken := []struct {
		name   string
		mutate func(cfg *PeriodConfig)
	}{
		{"no bands", func(cfg *PeriodConfig) { cfg.GradeBands = nil }},
		{"zero max_points", func(cfg *PeriodConfig) { cfg.MaxPoints = 0 }},
		{"gap between bands", func(cfg *PeriodConfig) { cfg.GradeBands[1].Lower = 62 }},
		{"lowest band starts above zero", func(cfg *PeriodConfig) { cfg.GradeBands[0].Lower = 5 }},
		{"highest band below max_points", func(cfg *PeriodConfig) { cfg.GradeBands[3].Upper = 95 }},
	}

	for _, tc := range broken {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			cfg.GradeBands = standardBands()
			tc.mutate(&cfg)

			err := ValidatePeriod(cfg)
			var confErr *ConfigurationError
			require.ErrorAs(t, err, &confErr)
		})
	}
}
