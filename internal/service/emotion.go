package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/equimind/api/internal/model"
)

// EmotionRepository defines the interface for emotion reading storage
type EmotionRepository interface {
	Create(ctx context.Context, assessment *model.EmotionAssessment) error
	ListByRider(ctx context.Context, riderID string, limit int) ([]*model.EmotionAssessment, error)
}

// EmotionService records emotion readings and recommends strategies for them
type EmotionService struct {
	repo     EmotionRepository
	sessions *SessionService
	catalog  *CatalogService
	now      func() time.Time
}

// EmotionServiceConfig holds configuration for the emotion service
type EmotionServiceConfig struct {
	Repo     EmotionRepository
	Sessions *SessionService
	Catalog  *CatalogService
	Now      func() time.Time
}

// NewEmotionService creates a new emotion service
func NewEmotionService(cfg EmotionServiceConfig) *EmotionService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &EmotionService{
		repo:     cfg.Repo,
		sessions: cfg.Sessions,
		catalog:  cfg.Catalog,
		now:      now,
	}
}

// Record validates, classifies and stores a reading, then matches strategies
// against its anxiety and confidence. When nothing matches the grounding
// fallback is recommended.
func (s *EmotionService) Record(ctx context.Context, req *model.CreateEmotionAssessmentRequest) (*model.EmotionAssessmentResult, error) {
	if err := ValidateEmotionLevel(req.EmotionLevel); err != nil {
		return nil, err
	}
	if err := validateScale("anxiety_level", req.AnxietyLevel); err != nil {
		return nil, err
	}
	if err := validateScale("confidence_level", req.ConfidenceLevel); err != nil {
		return nil, err
	}

	if _, err := s.sessions.GetRiderSession(ctx, req.RiderID, req.SessionID); err != nil {
		return nil, err
	}

	assessment := &model.EmotionAssessment{
		ID:              uuid.New().String(),
		RiderID:         req.RiderID,
		SessionID:       req.SessionID,
		EmotionLevel:    req.EmotionLevel,
		EmotionalState:  ClassifyEmotion(req.EmotionLevel),
		AnxietyLevel:    req.AnxietyLevel,
		ConfidenceLevel: req.ConfidenceLevel,
		Notes:           req.Notes,
		Timestamp:       s.now().UTC(),
	}

	if err := s.repo.Create(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to record emotion: %w", err)
	}

	match, err := s.catalog.Match(assessment.AnxietyLevel, assessment.ConfidenceLevel)
	if err != nil {
		return nil, err
	}
	recommendations := match.Strategies
	if match.Fallback != nil {
		recommendations = []model.Strategy{*match.Fallback}
	}

	return &model.EmotionAssessmentResult{
		Assessment:      assessment,
		Recommendations: recommendations,
	}, nil
}

// ListForRider returns a rider's readings, newest first
func (s *EmotionService) ListForRider(ctx context.Context, riderID string, limit int) ([]*model.EmotionAssessment, error) {
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if limit == 0 {
		limit = model.DefaultSessionListLimit
	}
	return s.repo.ListByRider(ctx, riderID, limit)
}
