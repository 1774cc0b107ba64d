package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

// AttestStore is everything the attestation engine and its callers need
// from persistence: raw student records, group membership, the schedule
// size, manual overrides and frozen snapshots.
type AttestStore interface {
	Close() error
	ApplyMigrations(dir string) error

	CreateLabEntry(entry *models.LabEntry) error
	ListLabEntries(course, student, period string) ([]models.LabEntry, error)

	CreateAttendanceMark(mark *models.AttendanceMark) error
	ListAttendanceMarks(course, student, period string) ([]models.AttendanceMark, error)

	CreateActivityEntry(entry *models.ActivityEntry) error
	ListActivityEntries(course, student, period string) ([]models.ActivityEntry, error)

	CreateTestEntry(entry *models.TestEntry) error
	ListTestEntries(course, student, period string) ([]models.TestEntry, error)

	CountScheduledClasses(course, period string) (int, error)

	GroupMembers(course, groupID string) ([]string, error)
	AllStudents(course string) ([]string, error)

	GetScoreOverride(course, student, period, component string) (*models.ScoreOverride, error)
	CreateScoreOverride(override models.ScoreOverride) error
	ListScoreOverrides(course string) ([]models.ScoreOverride, error)

	SaveSnapshot(snapshot *models.ScoreSnapshot) error
	FindSnapshot(course, student, period, groupID string) (*models.ScoreSnapshot, error)
	ListGroupSnapshots(course, groupID, period string) ([]models.ScoreSnapshot, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) CreateLabEntry(entry *models.LabEntry) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO lab_entries (timestamp, lab, student, course, period, grade, deadline, comment)
		VALUES (:timestamp, :lab, :student, :course, :period, :grade, :deadline, :comment)
	`, entry)
	if err != nil {
		return fmt.Errorf("failed to create lab entry: %w", err)
	}
	return nil
}

func (s *BaseStore) ListLabEntries(course, student, period string) ([]models.LabEntry, error) {
	var entries []models.LabEntry
	query := s.Converter(`
		SELECT timestamp, lab, student, course, period, grade, deadline, comment
		FROM lab_entries
		WHERE course = ?
		AND student = ?
		AND period = ?
		ORDER BY lab, timestamp ASC
	`)

	err := s.DB.Select(&entries, query, course, student, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list lab entries: %w", err)
	}

	return entries, nil
}

func (s *BaseStore) CreateAttendanceMark(mark *models.AttendanceMark) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO attendance_marks (class_date, student, course, period, status)
		VALUES (:class_date, :student, :course, :period, :status)
		ON CONFLICT(course, period, class_date, student) DO UPDATE SET
		status = :status
	`, mark)
	if err != nil {
		return fmt.Errorf("failed to create attendance mark: %w", err)
	}
	return nil
}

func (s *BaseStore) ListAttendanceMarks(course, student, period string) ([]models.AttendanceMark, error) {
	var marks []models.AttendanceMark
	query := s.Converter(`
		SELECT class_date, student, course, period, status
		FROM attendance_marks
		WHERE course = ?
		AND student = ?
		AND period = ?
		ORDER BY class_date ASC
	`)

	err := s.DB.Select(&marks, query, course, student, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance marks: %w", err)
	}

	return marks, nil
}

func (s *BaseStore) CreateActivityEntry(entry *models.ActivityEntry) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO activity_entries (timestamp, student, course, period, points, description)
		VALUES (:timestamp, :student, :course, :period, :points, :description)
	`, entry)
	if err != nil {
		return fmt.Errorf("failed to create activity entry: %w", err)
	}
	return nil
}

func (s *BaseStore) ListActivityEntries(course, student, period string) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	query := s.Converter(`
		SELECT timestamp, student, course, period, points, description
		FROM activity_entries
		WHERE course = ?
		AND student = ?
		AND period = ?
		ORDER BY timestamp ASC
	`)

	err := s.DB.Select(&entries, query, course, student, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity entries: %w", err)
	}

	return entries, nil
}

func (s *BaseStore) CreateTestEntry(entry *models.TestEntry) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO test_entries (timestamp, test, student, course, period, grade, deadline, attempt)
		VALUES (:timestamp, :test, :student, :course, :period, :grade, :deadline, :attempt)
	`, entry)
	if err != nil {
		return fmt.Errorf("failed to create test entry: %w", err)
	}
	return nil
}

func (s *BaseStore) ListTestEntries(course, student, period string) ([]models.TestEntry, error) {
	var entries []models.TestEntry
	query := s.Converter(`
		SELECT timestamp, test, student, course, period, grade, deadline, attempt
		FROM test_entries
		WHERE course = ?
		AND student = ?
		AND period = ?
		ORDER BY test, attempt ASC
	`)

	err := s.DB.Select(&entries, query, course, student, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list test entries: %w", err)
	}

	return entries, nil
}

func (s *BaseStore) CountScheduledClasses(course, period string) (int, error) {
	var count int
	query := s.Converter(`
		SELECT COUNT(*)
		FROM scheduled_classes
		WHERE course = ?
		AND period = ?
	`)

	err := s.DB.Get(&count, query, course, period)
	if err != nil {
		return 0, fmt.Errorf("failed to count scheduled classes: %w", err)
	}
	return count, nil
}

func (s *BaseStore) GroupMembers(course, groupID string) ([]string, error) {
	var students []string
	query := s.Converter(`
		SELECT student
		FROM group_members
		WHERE course = ?
		AND group_id = ?
		ORDER BY student
	`)

	err := s.DB.Select(&students, query, course, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	return students, nil
}

func (s *BaseStore) AllStudents(course string) ([]string, error) {
	var students []string
	query := s.Converter(`
		SELECT DISTINCT student
		FROM group_members
		WHERE course = ?
		ORDER BY student
	`)

	err := s.DB.Select(&students, query, course)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *BaseStore) GetScoreOverride(course, student, period, component string) (*models.ScoreOverride, error) {
	var override models.ScoreOverride
	query := s.Converter(`
		SELECT student, course, period, component, score, reason
		FROM score_overrides
		WHERE course = ?
		AND student = ?
		AND period = ?
		AND component = ?
	`)

	err := s.DB.Get(&override, query, course, student, period, component)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get score override: %w", err)
	}
	return &override, nil
}

func (s *BaseStore) CreateScoreOverride(override models.ScoreOverride) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO score_overrides (student, course, period, component, score, reason)
		VALUES (:student, :course, :period, :component, :score, :reason)
		ON CONFLICT(course, period, component, student) DO UPDATE SET
		score = :score,
		reason = :reason
	`, override)
	if err != nil {
		return fmt.Errorf("failed to create score override: %w", err)
	}
	return nil
}

func (s *BaseStore) ListScoreOverrides(course string) ([]models.ScoreOverride, error) {
	var overrides []models.ScoreOverride
	query := s.Converter(`
		SELECT student, course, period, component, score, reason
		FROM score_overrides
		WHERE course = ?
		ORDER BY period, component, student
	`)
	err := s.DB.Select(&overrides, query, course)
	if err != nil {
		return nil, fmt.Errorf("failed to list score overrides: %w", err)
	}
	return overrides, nil
}

// SaveSnapshot inserts a frozen result. The primary key on
// (course, period, group_id, student) makes concurrent transfer
// requests safe: the second writer hits DO NOTHING and the caller
// re-reads the row that won.
func (s *BaseStore) SaveSnapshot(snapshot *models.ScoreSnapshot) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO score_snapshots (student, course, period, group_id, taken_at, total_score, grade_label, is_passing, breakdown)
		VALUES (:student, :course, :period, :group_id, :taken_at, :total_score, :grade_label, :is_passing, :breakdown)
		ON CONFLICT(course, period, group_id, student) DO NOTHING
	`, snapshot)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *BaseStore) FindSnapshot(course, student, period, groupID string) (*models.ScoreSnapshot, error) {
	var snapshot models.ScoreSnapshot
	query := s.Converter(`
		SELECT student, course, period, group_id, taken_at, total_score, grade_label, is_passing, breakdown
		FROM score_snapshots
		WHERE course = ?
		AND student = ?
		AND period = ?
		AND group_id = ?
	`)

	err := s.DB.Get(&snapshot, query, course, student, period, groupID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find snapshot: %w", err)
	}
	return &snapshot, nil
}

func (s *BaseStore) ListGroupSnapshots(course, groupID, period string) ([]models.ScoreSnapshot, error) {
	var snapshots []models.ScoreSnapshot
	query := s.Converter(`
		SELECT student, course, period, group_id, taken_at, total_score, grade_label, is_passing, breakdown
		FROM score_snapshots
		WHERE course = ?
		AND group_id = ?
		AND period = ?
		ORDER BY student
	`)

	err := s.DB.Select(&snapshots, query, course, groupID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list group snapshots: %w", err)
	}
	return snapshots, nil
}
