package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/equimind/api/internal/model"
)

// HorseObservationRepository defines the interface for horse observation storage
type HorseObservationRepository interface {
	Create(ctx context.Context, observation *model.HorseObservation) error
	GetByID(ctx context.Context, id string) (*model.HorseObservation, error)
}

// HorseService records horse observations
type HorseService struct {
	repo     HorseObservationRepository
	sessions *SessionService
	now      func() time.Time
}

// HorseServiceConfig holds configuration for the horse service
type HorseServiceConfig struct {
	Repo     HorseObservationRepository
	Sessions *SessionService
	Now      func() time.Time
}

// NewHorseService creates a new horse service
func NewHorseService(cfg HorseServiceConfig) *HorseService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &HorseService{repo: cfg.Repo, sessions: cfg.Sessions, now: now}
}

// Record stores an observation. Energy and responsiveness must be within [1,10].
func (s *HorseService) Record(ctx context.Context, req *model.CreateHorseObservationRequest) (*model.HorseObservation, error) {
	if err := validateBetween("energy_level", float64(req.EnergyLevel), model.MinHorseScale, model.MaxHorseScale); err != nil {
		return nil, err
	}
	if err := validateBetween("responsiveness", float64(req.Responsiveness), model.MinHorseScale, model.MaxHorseScale); err != nil {
		return nil, err
	}

	if _, err := s.sessions.GetRiderSession(ctx, req.RiderID, req.SessionID); err != nil {
		return nil, err
	}

	moods := req.MoodIndicators
	if moods == nil {
		moods = []string{}
	}

	observation := &model.HorseObservation{
		ID:                uuid.New().String(),
		RiderID:           req.RiderID,
		SessionID:         req.SessionID,
		HorseName:         req.HorseName,
		EnergyLevel:       req.EnergyLevel,
		Responsiveness:    req.Responsiveness,
		MoodIndicators:    moods,
		PhysicalCondition: req.PhysicalCondition,
		Notes:             req.Notes,
		Timestamp:         s.now().UTC(),
	}

	if err := s.repo.Create(ctx, observation); err != nil {
		return nil, fmt.Errorf("failed to record horse observation: %w", err)
	}
	return observation, nil
}
