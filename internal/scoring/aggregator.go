package scoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
	"github.com/shrimpsizemoose/lussekatt/internal/store"
)

// Aggregator orchestrates the component scorers for one student or a
// whole scope. It is a pure computation over fetched records: identical
// inputs and config always give identical output. Results are never
// stored, every read recomputes — except snapshots, which are frozen
// forever at transfer time.
type Aggregator struct {
	store store.AttestStore

	// Now stamps snapshots; swapped out in tests.
	Now func() int64
}

func NewAggregator(attestStore store.AttestStore) *Aggregator {
	return &Aggregator{
		store: attestStore,
		Now:   func() int64 { return time.Now().UTC().Unix() },
	}
}

func (a *Aggregator) loadInput(course, student string, period models.Period, cfg ComponentsConfig) (StudentInput, error) {
	var in StudentInput
	var err error

	if cfg.Labs.Enabled {
		in.Labs, err = a.store.ListLabEntries(course, student, string(period))
		if err != nil {
			return in, fmt.Errorf("failed to load lab entries: %w", err)
		}
	}
	if cfg.Attendance.Enabled {
		in.Attendance, err = a.store.ListAttendanceMarks(course, student, string(period))
		if err != nil {
			return in, fmt.Errorf("failed to load attendance: %w", err)
		}
		in.TotalClasses, err = a.store.CountScheduledClasses(course, string(period))
		if err != nil {
			return in, fmt.Errorf("failed to load schedule size: %w", err)
		}
	}
	if cfg.Activity.Enabled {
		in.Activity, err = a.store.ListActivityEntries(course, student, string(period))
		if err != nil {
			return in, fmt.Errorf("failed to load activity entries: %w", err)
		}
	}
	if cfg.Tests.Enabled {
		in.Tests, err = a.store.ListTestEntries(course, student, string(period))
		if err != nil {
			return in, fmt.Errorf("failed to load test entries: %w", err)
		}
	}

	return in, nil
}

// ComputeOne scores a single student for a period. Scorers run in the
// fixed order labs, attendance, tests, activity; activity last because
// its bonus cap needs the running total. A manual override replaces a
// component's scorer entirely and is flagged in the breakdown.
func (a *Aggregator) ComputeOne(course, student string, period models.Period, pcfg PeriodConfig, ccfg ComponentsConfig) (*models.AttestationResult, error) {
	if err := ValidateWeights(ccfg); err != nil {
		return nil, err
	}
	if err := ValidatePeriod(pcfg); err != nil {
		return nil, err
	}

	in, err := a.loadInput(course, student, period, ccfg)
	if err != nil {
		return nil, err
	}

	breakdown := make(map[models.ComponentKind]models.ComponentBreakdown)
	var total float64

	for _, scorer := range EnabledScorers(ccfg) {
		kind := scorer.Kind()

		override, err := a.store.GetScoreOverride(course, student, string(period), string(kind))
		if err != nil {
			return nil, err
		}
		if override != nil {
			b := models.ComponentBreakdown{
				Raw:        override.Score,
				Weighted:   override.Score,
				Overridden: true,
			}
			breakdown[kind] = b
			total += b.Weighted
			continue
		}

		b, err := scorer.Score(in, ScoreContext{
			PeriodMax:  pcfg.MaxPoints,
			OtherTotal: total,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to score %s: %w", kind, err)
		}

		breakdown[kind] = b
		total += b.Weighted
	}

	// Lab extra bonus is uncapped by default; with the reserve flag on
	// it obeys the same ceiling activity bonuses do.
	if ccfg.Labs.Enabled && ccfg.Labs.BonusCappedByReserve {
		if overflow := total - pcfg.MaxPoints; overflow > 0 {
			labs := breakdown[models.ComponentLabs]
			trim := labs.ExtraBonus
			if overflow < trim {
				trim = overflow
			}
			if trim > 0 {
				labs.Weighted -= trim
				labs.ExtraBonus -= trim
				breakdown[models.ComponentLabs] = labs
				total -= trim
			}
		}
	}

	total = clamp(total, 0, pcfg.MaxPoints)

	label, err := Classify(total, pcfg.GradeBands)
	if err != nil {
		return nil, err
	}

	return &models.AttestationResult{
		Student:    student,
		Course:     course,
		Period:     period,
		TotalScore: total,
		GradeLabel: label,
		IsPassing:  total >= pcfg.MinPassingPoints,
		Breakdown:  breakdown,
	}, nil
}

// ComputeGroup fans ComputeOne out over the scope and folds the results.
// groupID "" means the whole course. The per-student computations share
// nothing mutable, so they run concurrently; the fold is commutative, so
// completion order never changes the outcome.
func (a *Aggregator) ComputeGroup(course, groupID string, period models.Period, pcfg PeriodConfig, ccfg ComponentsConfig) (*models.GroupAttestationResult, error) {
	if err := ValidateWeights(ccfg); err != nil {
		return nil, err
	}
	if err := ValidatePeriod(pcfg); err != nil {
		return nil, err
	}

	var students []string
	var err error
	if groupID == "" {
		students, err = a.store.AllStudents(course)
	} else {
		students, err = a.store.GroupMembers(course, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scope: %w", err)
	}

	results := make([]*models.AttestationResult, len(students))
	errs := make([]error, len(students))

	var wg sync.WaitGroup
	for i, student := range students {
		wg.Add(1)
		go func(i int, student string) {
			defer wg.Done()
			results[i], errs[i] = a.ComputeOne(course, student, period, pcfg, ccfg)
		}(i, student)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return FoldGroup(course, groupID, period, results), nil
}

// FoldGroup reduces per-student results into group statistics. An empty
// scope folds to identity values, not an error.
func FoldGroup(course, groupID string, period models.Period, results []*models.AttestationResult) *models.GroupAttestationResult {
	group := &models.GroupAttestationResult{
		Scope:          groupID,
		Course:         course,
		Period:         period,
		Count:          len(results),
		GradeHistogram: make(map[string]int),
		PerStudent:     make([]models.AttestationResult, 0, len(results)),
	}

	var sum float64
	for i, res := range results {
		group.PerStudent = append(group.PerStudent, *res)
		group.GradeHistogram[res.GradeLabel]++

		sum += res.TotalScore
		if i == 0 || res.TotalScore < group.Min {
			group.Min = res.TotalScore
		}
		if res.TotalScore > group.Max {
			group.Max = res.TotalScore
		}

		if res.IsPassing {
			group.PassingCount++
		} else {
			group.FailingCount++
		}
	}

	if group.Count > 0 {
		group.Average = sum / float64(group.Count)
	}

	return group
}

// Snapshot freezes a student's result at group-transfer time. Idempotent
// per (student, period, group): a repeat call, or a concurrent one that
// loses the insert race, returns the row that already exists instead of
// recomputing anything.
func (a *Aggregator) Snapshot(course, student, groupID string, period models.Period, pcfg PeriodConfig, ccfg ComponentsConfig) (*models.ScoreSnapshot, error) {
	existing, err := a.store.FindSnapshot(course, student, string(period), groupID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	result, err := a.ComputeOne(course, student, period, pcfg, ccfg)
	if err != nil {
		return nil, err
	}

	snapshot, err := models.NewScoreSnapshot(result, groupID, a.Now())
	if err != nil {
		return nil, err
	}

	if err := a.store.SaveSnapshot(snapshot); err != nil {
		return nil, err
	}

	// Re-read so a lost insert race still hands back the winner's row.
	saved, err := a.store.FindSnapshot(course, student, string(period), groupID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("snapshot for %s/%s/%s vanished after save", course, student, period)
	}
	return saved, nil
}
