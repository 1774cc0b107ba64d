package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
	"github.com/shrimpsizemoose/lussekatt/internal/scoring"
	"github.com/shrimpsizemoose/lussekatt/internal/store"
)

// Service wires config, storage, auth and the scoring engine together.
// It owns the config lifecycle: every engine call gets the period and
// component configs passed in explicitly.
type Service struct {
	Config     *Config
	Store      store.AttestStore
	Auth       *Auth
	Aggregator *scoring.Aggregator
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	attestStore, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	return &Service{
		Config:     config,
		Store:      attestStore,
		Auth:       auth,
		Aggregator: scoring.NewAggregator(attestStore),
	}, nil
}

func (s *Service) ValidateAuthAndStudent(r *http.Request, course, student string) error {
	if !s.Config.Server.EnableAuth {
		return nil
	}

	authHeader := r.Header.Get(s.Auth.tokenHeader)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return fmt.Errorf("Invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	return s.Auth.ValidateToken(r.Context(), course, student, token)
}

func (s *Service) ValidateHeaders(headers map[string][]string) bool {
	for _, required := range s.Config.API.RequiredHeaders {
		value := headers[http.CanonicalHeaderKey(required.Name)]
		if len(value) == 0 || !strings.EqualFold(value[0], required.Value) {
			return false
		}
	}
	return true
}

// GetAttestation recomputes one student's result from current records.
func (s *Service) GetAttestation(course, student string, period models.Period) (*models.AttestationResult, error) {
	pcfg, err := s.Config.PeriodConfig(period)
	if err != nil {
		return nil, err
	}

	return s.Aggregator.ComputeOne(course, student, period, pcfg, s.Config.Components)
}

// GetGroupReport recomputes a whole scope; groupID "" means the course.
func (s *Service) GetGroupReport(course, groupID string, period models.Period) (*models.GroupAttestationResult, error) {
	pcfg, err := s.Config.PeriodConfig(period)
	if err != nil {
		return nil, err
	}

	return s.Aggregator.ComputeGroup(course, groupID, period, pcfg, s.Config.Components)
}

// SnapshotOnTransfer freezes a student's current result before they
// move to another group.
func (s *Service) SnapshotOnTransfer(course, student, groupID string, period models.Period) (*models.ScoreSnapshot, error) {
	pcfg, err := s.Config.PeriodConfig(period)
	if err != nil {
		return nil, err
	}

	return s.Aggregator.Snapshot(course, student, groupID, period, pcfg, s.Config.Components)
}

// GetHistoricalGroupReport folds the frozen snapshots of a group, for
// reporting that must not shift under later recomputation.
func (s *Service) GetHistoricalGroupReport(course, groupID string, period models.Period) (*models.GroupAttestationResult, error) {
	snapshots, err := s.Store.ListGroupSnapshots(course, groupID, string(period))
	if err != nil {
		return nil, fmt.Errorf("failed to load group snapshots: %w", err)
	}

	results := make([]*models.AttestationResult, 0, len(snapshots))
	for _, snap := range snapshots {
		res, err := snap.Result()
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	return scoring.FoldGroup(course, groupID, period, results), nil
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Auth.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
