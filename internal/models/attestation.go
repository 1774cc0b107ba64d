package models

// Period identifies an attestation window within a course.
type Period string

const (
	PeriodFirst  Period = "first"
	PeriodSecond Period = "second"
)

func (p Period) Valid() bool {
	return p == PeriodFirst || p == PeriodSecond
}

// ComponentKind tags one scored dimension of student performance.
type ComponentKind string

const (
	ComponentLabs       ComponentKind = "labs"
	ComponentAttendance ComponentKind = "attendance"
	ComponentActivity   ComponentKind = "activity"
	ComponentTests      ComponentKind = "tests"
)

// ScoringOrder is the sequence components are scored in. Activity goes
// last: its bonus cap needs the sum of everything else.
var ScoringOrder = []ComponentKind{
	ComponentLabs,
	ComponentAttendance,
	ComponentTests,
	ComponentActivity,
}

// ComponentBreakdown is what one scorer produced for one student.
type ComponentBreakdown struct {
	Raw          float64 `json:"raw_score"`
	Weighted     float64 `json:"weighted_score"`
	MaxPossible  float64 `json:"max_possible"`
	ExtraBonus   float64 `json:"extra_bonus,omitempty"`
	Submitted    int     `json:"submitted,omitempty"`
	Required     int     `json:"required,omitempty"`
	Present      int     `json:"present,omitempty"`
	Absent       int     `json:"absent,omitempty"`
	Excused      int     `json:"excused,omitempty"`
	Late         int     `json:"late,omitempty"`
	Excluded     int     `json:"excluded,omitempty"`
	BonusBlocked bool    `json:"bonus_blocked,omitempty"`
	Overridden   bool    `json:"overridden,omitempty"`
}

type AttestationResult struct {
	Student    string                               `json:"student"`
	Course     string                               `json:"course"`
	Period     Period                               `json:"period"`
	TotalScore float64                              `json:"total_score"`
	GradeLabel string                               `json:"grade_label"`
	IsPassing  bool                                 `json:"is_passing"`
	Breakdown  map[ComponentKind]ComponentBreakdown `json:"breakdown"`
}

type GroupAttestationResult struct {
	Scope          string              `json:"scope"`
	Course         string              `json:"course"`
	Period         Period              `json:"period"`
	Count          int                 `json:"count"`
	Average        float64             `json:"average"`
	Min            float64             `json:"min"`
	Max            float64             `json:"max"`
	PassingCount   int                 `json:"passing_count"`
	FailingCount   int                 `json:"failing_count"`
	GradeHistogram map[string]int      `json:"grade_histogram"`
	PerStudent     []AttestationResult `json:"per_student"`
}
