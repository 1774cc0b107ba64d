package models

import (
	"encoding/json"
	"fmt"
)

// ScoreSnapshot is an AttestationResult frozen at group-transfer time.
// Once written it is never recomputed; historical reports read the row
// as-is. Breakdown is the result's breakdown serialized to JSON.
type ScoreSnapshot struct {
	Student    string  `db:"student" json:"student"`
	Course     string  `db:"course" json:"course"`
	Period     string  `db:"period" json:"period"`
	GroupID    string  `db:"group_id" json:"group_id"`
	TakenAt    int64   `db:"taken_at" json:"taken_at"`
	TotalScore float64 `db:"total_score" json:"total_score"`
	GradeLabel string  `db:"grade_label" json:"grade_label"`
	IsPassing  bool    `db:"is_passing" json:"is_passing"`
	Breakdown  string  `db:"breakdown" json:"breakdown"`
}

// NewScoreSnapshot freezes a computed result for the given group.
func NewScoreSnapshot(res *AttestationResult, groupID string, takenAt int64) (*ScoreSnapshot, error) {
	breakdown, err := json.Marshal(res.Breakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize breakdown: %w", err)
	}

	return &ScoreSnapshot{
		Student:    res.Student,
		Course:     res.Course,
		Period:     string(res.Period),
		GroupID:    groupID,
		TakenAt:    takenAt,
		TotalScore: res.TotalScore,
		GradeLabel: res.GradeLabel,
		IsPassing:  res.IsPassing,
		Breakdown:  string(breakdown),
	}, nil
}

// Result reconstructs the frozen AttestationResult from the row.
func (s *ScoreSnapshot) Result() (*AttestationResult, error) {
	breakdown := map[ComponentKind]ComponentBreakdown{}
	if s.Breakdown != "" {
		if err := json.Unmarshal([]byte(s.Breakdown), &breakdown); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot breakdown: %w", err)
		}
	}

	return &AttestationResult{
		Student:    s.Student,
		Course:     s.Course,
		Period:     Period(s.Period),
		TotalScore: s.TotalScore,
		GradeLabel: s.GradeLabel,
		IsPassing:  s.IsPassing,
		Breakdown:  breakdown,
	}, nil
}
