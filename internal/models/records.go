package models

import (
	"github.com/go-playground/validator/v10"
)

// LabEntry is one graded lab submission. Grade is nil while the work sits
// in the queue ungraded; Deadline is nil for labs without one.
type LabEntry struct {
	Timestamp int64  `db:"timestamp" json:"timestamp"`
	Lab       string `db:"lab" json:"lab" validate:"required,max=3"`
	Student   string `db:"student" json:"student" validate:"required,regexp=^[\\w-]+\\..+$"`
	Course    string `db:"course" json:"course" validate:"required,max=6"`
	Period    string `db:"period" json:"period" validate:"required,oneof=first second"`
	Grade     *int   `db:"grade" json:"grade"`
	Deadline  *int64 `db:"deadline" json:"deadline"`
	Comment   string `db:"comment" json:"comment"`
}

const (
	AttendancePresent = "present"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
	AttendanceAbsent  = "absent"
)

// AttendanceMark is one student's status for one scheduled class.
type AttendanceMark struct {
	ClassDate int64  `db:"class_date" json:"class_date"`
	Student   string `db:"student" json:"student" validate:"required,regexp=^[\\w-]+\\..+$"`
	Course    string `db:"course" json:"course" validate:"required,max=6"`
	Period    string `db:"period" json:"period" validate:"required,oneof=first second"`
	Status    string `db:"status" json:"status" validate:"required,oneof=present late excused absent"`
}

// ActivityEntry is an ad-hoc bonus or penalty, points signed.
type ActivityEntry struct {
	Timestamp   int64   `db:"timestamp" json:"timestamp"`
	Student     string  `db:"student" json:"student" validate:"required,regexp=^[\\w-]+\\..+$"`
	Course      string  `db:"course" json:"course" validate:"required,max=6"`
	Period      string  `db:"period" json:"period" validate:"required,oneof=first second"`
	Points      float64 `db:"points" json:"points"`
	Description string  `db:"description" json:"description"`
}

// TestEntry is one attempt at a test. Attempt starts at 1; retakes
// increment it.
type TestEntry struct {
	Timestamp int64  `db:"timestamp" json:"timestamp"`
	Test      string `db:"test" json:"test" validate:"required,max=8"`
	Student   string `db:"student" json:"student" validate:"required,regexp=^[\\w-]+\\..+$"`
	Course    string `db:"course" json:"course" validate:"required,max=6"`
	Period    string `db:"period" json:"period" validate:"required,oneof=first second"`
	Grade     *int   `db:"grade" json:"grade"`
	Deadline  *int64 `db:"deadline" json:"deadline"`
	Attempt   int    `db:"attempt" json:"attempt"`
}

func (e *LabEntry) Validate() error {
	validate := validator.New()
	return validate.Struct(e)
}

func (m *AttendanceMark) Validate() error {
	validate := validator.New()
	return validate.Struct(m)
}

func (a *ActivityEntry) Validate() error {
	validate := validator.New()
	return validate.Struct(a)
}

func (t *TestEntry) Validate() error {
	validate := validator.New()
	return validate.Struct(t)
}
