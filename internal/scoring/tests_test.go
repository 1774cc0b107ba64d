package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

func testsConfig() TestsConfig {
	return TestsConfig{
		Enabled:       true,
		Weight:        20,
		GradingScale:  100,
		RequiredCount: 2,
	}
}

func testEntry(test string, grade int, attempt int, submitted int64, deadline *int64) models.TestEntry {
	return models.TestEntry{
		Timestamp: submitted,
		Test:      test,
		Student:   "ada.lovelace",
		Course:    "go101",
		Period:    "first",
		Grade:     &grade,
		Deadline:  deadline,
		Attempt:   attempt,
	}
}

func TestTestsScorer_TwoFullMarksFillTheComponent(t *testing.T) {
	scorer := &TestsScorer{Config: testsConfig()}

	b, err := scorer.Score(StudentInput{Tests: []models.TestEntry{
		testEntry("midterm", 100, 1, 1000, nil),
		testEntry("final", 100, 1, 2000, nil),
	}}, ScoreContext{PeriodMax: 100})

	require.NoError(t, err)
	assert.InDelta(t, 1.0, b.Raw, 1e-9)
	assert.InDelta(t, 20.0, b.Weighted, 1e-9)
	assert.Equal(t, 2, b.Submitted)
}

func TestTestsScorer_LateAttemptIsVoid(t *testing.T) {
	deadline := int64(5000)
	scorer := &TestsScorer{Config: testsConfig()}

	b, err := scorer.Score(StudentInput{Tests: []models.TestEntry{
		testEntry("midterm", 100, 1, 6000, &deadline),
		testEntry("final", 80, 1, 4000, &deadline),
	}}, ScoreContext{PeriodMax: 100})

	require.NoError(t, err)
	// only the timely final counts: 0.8 / 2
	assert.InDelta(t, 0.4, b.Raw, 1e-9)
	assert.InDelta(t, 8.0, b.Weighted, 1e-9)
}

func TestTestsScorer_RetakePolicy(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      func(c TestsConfig) TestsConfig
		entries  []models.TestEntry
		expected float64
		excluded int
	}{
		{
			name: "retake disallowed, second attempt dropped",
			cfg:  func(c TestsConfig) TestsConfig { return c },
			entries: []models.TestEntry{
				testEntry("midterm", 60, 1, 1000, nil),
				testEntry("midterm", 100, 2, 2000, nil),
			},
			expected: 0.6 / 2,
			excluded: 1,
		},
		{
			name: "retake allowed, best value wins",
			cfg: func(c TestsConfig) TestsConfig {
				c.RetakesAllowed = true
				c.MaxRetakes = 1
				return c
			},
			entries: []models.TestEntry{
				testEntry("midterm", 60, 1, 1000, nil),
				testEntry("midterm", 100, 2, 2000, nil),
			},
			expected: 1.0 / 2,
			excluded: 0,
		},
		{
			name: "retake penalty discounts the retake",
			cfg: func(c TestsConfig) TestsConfig {
				c.RetakesAllowed = true
				c.MaxRetakes = 2
				c.RetakePenalty = 0.8
				return c
			},
			entries: []models.TestEntry{
				testEntry("midterm", 60, 1, 1000, nil),
				testEntry("midterm", 100, 2, 2000, nil),
			},
			// max(0.6, 1.0×0.8) / 2
			expected: 0.8 / 2,
			excluded: 0,
		},
		{
			name: "attempts beyond max_retakes dropped",
			cfg: func(c TestsConfig) TestsConfig {
				c.RetakesAllowed = true
				c.MaxRetakes = 1
				return c
			},
			entries: []models.TestEntry{
				testEntry("midterm", 40, 1, 1000, nil),
				testEntry("midterm", 100, 3, 3000, nil),
			},
			expected: 0.4 / 2,
			excluded: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			scorer := &TestsScorer{Config: tc.cfg(testsConfig())}
			b, err := scorer.Score(StudentInput{Tests: tc.entries}, ScoreContext{PeriodMax: 100})

			require.NoError(t, err)
			assert.InDelta(t, tc.expected, b.Raw, 1e-9)
			assert.Equal(t, tc.excluded, b.Excluded)
		})
	}
}

func TestTestsScorer_BestOfTrimsWeakResults(t *testing.T) {
	cfg := testsConfig()
	cfg.BestOf = 2
	scorer := &TestsScorer{Config: cfg}

	b, err := scorer.Score(StudentInput{Tests: []models.TestEntry{
		testEntry("quiz1", 40, 1, 1000, nil),
		testEntry("quiz2", 90, 1, 2000, nil),
		testEntry("quiz3", 100, 1, 3000, nil),
	}}, ScoreContext{PeriodMax: 100})

	require.NoError(t, err)
	// quiz1 trimmed: (1.0 + 0.9) / 2
	assert.InDelta(t, 0.95, b.Raw, 1e-9)
}

func TestTestsScorer_UngradedAttemptIgnored(t *testing.T) {
	scorer := &TestsScorer{Config: testsConfig()}

	entry := testEntry("midterm", 0, 1, 1000, nil)
	entry.Grade = nil

	b, err := scorer.Score(StudentInput{Tests: []models.TestEntry{
		entry,
		testEntry("final", 100, 1, 2000, nil),
	}}, ScoreContext{PeriodMax: 100})

	require.NoError(t, err)
	assert.Equal(t, 1, b.Submitted)
	assert.InDelta(t, 0.5, b.Raw, 1e-9)
}

func TestTestsScorer_ConfigErrors(t *testing.T) {
	testCases := []struct {
		name string
		cfg  TestsConfig
	}{
		{"required_count zero", TestsConfig{GradingScale: 100}},
		{"unsupported scale", TestsConfig{RequiredCount: 2, GradingScale: 7}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			scorer := &TestsScorer{Config: tc.cfg}
			_, err := scorer.Score(StudentInput{}, ScoreContext{PeriodMax: 100})

			var confErr *ConfigurationError
			require.ErrorAs(t, err, &confErr)
		})
	}
}
