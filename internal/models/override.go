package models

// ScoreOverride pins a component's weighted score for one student,
// bypassing the scorer. Reason is for the audit trail.
type ScoreOverride struct {
	Student   string  `db:"student" json:"student" validate:"required,regexp=^[\\w-]+\\..+$"`
	Course    string  `db:"course" json:"course" validate:"required,max=6"`
	Period    string  `db:"period" json:"period" validate:"required,oneof=first second"`
	Component string  `db:"component" json:"component" validate:"required,oneof=labs attendance activity tests"`
	Score     float64 `db:"score" json:"score"`
	Reason    string  `db:"reason" json:"reason"`
}

// unique_together should be handled on DB level:
/*
CREATE TABLE score_overrides (
    student TEXT NOT NULL,
    course VARCHAR(6) NOT NULL,
    period TEXT NOT NULL,
    component TEXT NOT NULL,
    score DOUBLE PRECISION NOT NULL,
    reason TEXT,
    CONSTRAINT score_overrides_pkey PRIMARY KEY (course, period, component, student)
);
*/
