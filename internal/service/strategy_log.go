package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/model"
)

// Effectiveness rating bounds
const (
	minEffectivenessRating = 1
	maxEffectivenessRating = 5
)

// StrategyLogRepository defines the interface for strategy log storage
type StrategyLogRepository interface {
	Create(ctx context.Context, log *model.StrategyLog) error
	GetByID(ctx context.Context, id string) (*model.StrategyLog, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
}

// StrategyLogService records strategy usage and its outcome
type StrategyLogService struct {
	repo     StrategyLogRepository
	sessions *SessionService
	catalog  *CatalogService
	now      func() time.Time
}

// StrategyLogServiceConfig holds configuration for the strategy log service
type StrategyLogServiceConfig struct {
	Repo     StrategyLogRepository
	Sessions *SessionService
	Catalog  *CatalogService
	Now      func() time.Time
}

// NewStrategyLogService creates a new strategy log service
func NewStrategyLogService(cfg StrategyLogServiceConfig) *StrategyLogService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &StrategyLogService{
		repo:     cfg.Repo,
		sessions: cfg.Sessions,
		catalog:  cfg.Catalog,
		now:      now,
	}
}

// Create logs that a rider started a strategy during a session
func (s *StrategyLogService) Create(ctx context.Context, req *model.CreateStrategyLogRequest) (*model.StrategyLog, error) {
	if err := validateScale("trigger_anxiety", req.TriggerAnxiety); err != nil {
		return nil, err
	}
	if err := validateScale("trigger_confidence", req.TriggerConfidence); err != nil {
		return nil, err
	}

	if _, err := s.catalog.Get(req.StrategyID); err != nil {
		return nil, err
	}
	if _, err := s.sessions.GetRiderSession(ctx, req.RiderID, req.SessionID); err != nil {
		return nil, err
	}

	log := &model.StrategyLog{
		ID:                uuid.New().String(),
		RiderID:           req.RiderID,
		SessionID:         req.SessionID,
		StrategyID:        req.StrategyID,
		TriggerAnxiety:    req.TriggerAnxiety,
		TriggerConfidence: req.TriggerConfidence,
		UsedAt:            s.now().UTC(),
	}

	if err := s.repo.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to log strategy: %w", err)
	}
	return log, nil
}

// Get retrieves a strategy log by ID
func (s *StrategyLogService) Get(ctx context.Context, id string) (*model.StrategyLog, error) {
	log, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, ErrStrategyLogNotFound
	}
	return log, nil
}

// Update marks a log completed and/or rates it. Only the rider who created the
// log may update it, and each of completion and rating can be set once.
// Completing a log adds the strategy to the session's completed exercises.
func (s *StrategyLogService) Update(ctx context.Context, riderID, logID string, req *model.UpdateStrategyLogRequest) (*model.StrategyLog, error) {
	if req.EffectivenessRating != nil {
		r := *req.EffectivenessRating
		if err := validateBetween("effectiveness_rating", float64(r), minEffectivenessRating, maxEffectivenessRating); err != nil {
			return nil, err
		}
	}

	log, err := s.Get(ctx, logID)
	if err != nil {
		return nil, err
	}
	if log.RiderID != riderID {
		return nil, ErrNotStrategyLogOwner
	}

	fields := make(map[string]interface{})
	completing := false

	if req.Completed != nil {
		if log.Completed {
			return nil, ErrStrategyLogAlreadyCompleted
		}
		if *req.Completed {
			log.Completed = true
			fields["completed"] = true
			completing = true
		}
	}
	if req.EffectivenessRating != nil {
		if log.EffectivenessRating != nil {
			return nil, ErrStrategyLogAlreadyRated
		}
		rating := *req.EffectivenessRating
		log.EffectivenessRating = &rating
		fields["effectiveness_rating"] = rating
	}

	if len(fields) == 0 {
		return log, nil
	}

	// Union into the session before closing the log so a failed session
	// write leaves the log open for retry
	if completing && s.sessions != nil {
		_, err := s.sessions.UpdateProgress(ctx, log.RiderID, log.SessionID, &model.UpdateSessionProgressRequest{
			CompletedExercises: []string{log.StrategyID},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record completed strategy on session: %w", err)
		}
	}

	if err := s.repo.UpdateFields(ctx, logID, fields); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrStrategyLogNotFound
		}
		return nil, fmt.Errorf("failed to update strategy log: %w", err)
	}
	return log, nil
}
