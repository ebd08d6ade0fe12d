package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/equimind/api/internal/model"
)

// EmergencyEventRepository defines the interface for emergency event storage
type EmergencyEventRepository interface {
	Create(ctx context.Context, event *model.EmergencyEvent) error
	CountByRider(ctx context.Context, riderID string) (int, error)
}

// EmergencyService records emergency events and serves emergency techniques
type EmergencyService struct {
	repo     EmergencyEventRepository
	sessions *SessionService
	now      func() time.Time
}

// EmergencyServiceConfig holds configuration for the emergency service
type EmergencyServiceConfig struct {
	Repo     EmergencyEventRepository
	Sessions *SessionService
	Now      func() time.Time
}

// NewEmergencyService creates a new emergency service
func NewEmergencyService(cfg EmergencyServiceConfig) *EmergencyService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &EmergencyService{repo: cfg.Repo, sessions: cfg.Sessions, now: now}
}

// Record flags the session as having used emergency support and appends an
// emergency event
func (s *EmergencyService) Record(ctx context.Context, req *model.CreateEmergencyEventRequest) (*model.EmergencyEvent, error) {
	if req.ResolutionTimeMinutes != nil && *req.ResolutionTimeMinutes < 0 {
		return nil, &RangeError{Field: "resolution_time_minutes", Value: float64(*req.ResolutionTimeMinutes), Min: 0, Max: 240}
	}

	if _, err := s.sessions.GetRiderSession(ctx, req.RiderID, req.SessionID); err != nil {
		return nil, err
	}

	event := &model.EmergencyEvent{
		ID:                    uuid.New().String(),
		RiderID:               req.RiderID,
		SessionID:             req.SessionID,
		TriggerReason:         req.TriggerReason,
		InterventionUsed:      req.InterventionUsed,
		ResolutionTimeMinutes: req.ResolutionTimeMinutes,
		Notes:                 req.Notes,
		Timestamp:             s.now().UTC(),
	}

	// The flag is idempotent and the append is not, so flag first
	if err := s.sessions.MarkEmergencySupportUsed(ctx, req.SessionID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record emergency event: %w", err)
	}

	slog.Warn("emergency support used",
		slog.String("rider_id", event.RiderID),
		slog.String("session_id", event.SessionID),
		slog.String("intervention", event.InterventionUsed),
	)
	return event, nil
}

// CountForRider returns how many emergency events a rider has recorded
func (s *EmergencyService) CountForRider(ctx context.Context, riderID string) (int, error) {
	return s.repo.CountByRider(ctx, riderID)
}

// Techniques returns the emergency reference sheet
func (s *EmergencyService) Techniques() model.EmergencyTechniques {
	return DefaultEmergencyTechniques()
}

// DefaultEmergencyTechniques returns the built-in emergency reference sheet
func DefaultEmergencyTechniques() model.EmergencyTechniques {
	return model.EmergencyTechniques{
		BreathingExercises: []model.Technique{
			{
				Name:        "Emergency 4-7-8",
				Description: "Quick anxiety relief",
				Steps:       []string{"Inhale 4", "Hold 7", "Exhale 8", "Repeat 4 times"},
			},
		},
		GroundingTechniques: []model.Technique{
			{
				Name:        "5-4-3-2-1 Technique",
				Description: "Sensory grounding exercise",
				Steps: []string{
					"5 things you can see",
					"4 things you can touch",
					"3 things you can hear",
					"2 things you can smell",
					"1 thing you can taste",
				},
			},
		},
		ImmediateActions: []model.Technique{
			{
				Name:        "Safe Dismount",
				Description: "If currently riding",
				Steps:       []string{"Stop your horse", "Dismount safely", "Move to safe area", "Begin breathing exercise"},
			},
		},
	}
}
