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

// SessionRepository defines the interface for session storage
type SessionRepository interface {
	Create(ctx context.Context, session *model.RidingSession) error
	GetByID(ctx context.Context, id string) (*model.RidingSession, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	ListByRider(ctx context.Context, riderID string, limit int) ([]*model.RidingSession, error)
}

// SessionService tracks the lifecycle of riding sessions
type SessionService struct {
	repo      SessionRepository
	riderRepo RiderRepository
	now       func() time.Time
}

// SessionServiceConfig holds configuration for the session service
type SessionServiceConfig struct {
	Repo      SessionRepository
	RiderRepo RiderRepository // optional; when set, CreateSession checks the rider exists
	Now       func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(cfg SessionServiceConfig) *SessionService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &SessionService{
		repo:      cfg.Repo,
		riderRepo: cfg.RiderRepo,
		now:       now,
	}
}

// SessionStateOf derives the lifecycle state from a session's fields. The
// StartedAt and CompletedAt stamps are never cleared, so the state only moves
// forward even when progress is corrected downwards.
func SessionStateOf(s *model.RidingSession) model.SessionState {
	switch {
	case s.CompletedAt != nil:
		return model.SessionStateCompleted
	case s.StartedAt != nil,
		s.ProgressPercentage > 0,
		s.EmotionAssessmentID != nil,
		s.HorseObservationID != nil,
		len(s.CompletedExercises) > 0:
		return model.SessionStateInProgress
	default:
		return model.SessionStateCreated
	}
}

// View pairs a session with its derived state
func View(s *model.RidingSession) *model.SessionView {
	return &model.SessionView{RidingSession: s, State: SessionStateOf(s)}
}

// CreateSession starts a new session with no progress
func (s *SessionService) CreateSession(ctx context.Context, req *model.CreateSessionRequest) (*model.RidingSession, error) {
	if s.riderRepo != nil {
		rider, err := s.riderRepo.GetByID(ctx, req.RiderID)
		if err != nil {
			return nil, err
		}
		if rider == nil {
			return nil, ErrRiderNotFound
		}
	}

	session := &model.RidingSession{
		ID:                 uuid.New().String(),
		RiderID:            req.RiderID,
		SessionType:        req.SessionType,
		RideType:           req.RideType,
		PlannedDuration:    req.PlannedDuration,
		CompletedExercises: []string{},
		ProgressPercentage: 0,
		CreatedAt:          s.now().UTC(),
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSession retrieves a session by ID
func (s *SessionService) GetSession(ctx context.Context, id string) (*model.RidingSession, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetRiderSession retrieves a session and checks it belongs to riderID
func (s *SessionService) GetRiderSession(ctx context.Context, riderID, sessionID string) (*model.RidingSession, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.RiderID != riderID {
		return nil, ErrSessionRiderMatch
	}
	return session, nil
}

// UpdateProgress applies the fields present in req to one of riderID's
// sessions. Completed exercises are unioned with those already recorded.
// Progress may move down as a correction but StartedAt and CompletedAt, once
// stamped, are never cleared. Only changed fields are written.
func (s *SessionService) UpdateProgress(ctx context.Context, riderID, sessionID string, req *model.UpdateSessionProgressRequest) (*model.RidingSession, error) {
	if req.ProgressPercentage != nil {
		if err := validateBetween("progress_percentage", *req.ProgressPercentage, model.MinProgress, model.MaxProgress); err != nil {
			return nil, err
		}
	}

	session, err := s.GetRiderSession(ctx, riderID, sessionID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})

	if req.EmotionAssessmentID != nil && !equalStringPtr(session.EmotionAssessmentID, req.EmotionAssessmentID) {
		session.EmotionAssessmentID = req.EmotionAssessmentID
		fields["emotion_assessment_id"] = *req.EmotionAssessmentID
	}
	if req.HorseObservationID != nil && !equalStringPtr(session.HorseObservationID, req.HorseObservationID) {
		session.HorseObservationID = req.HorseObservationID
		fields["horse_observation_id"] = *req.HorseObservationID
	}
	if req.VoiceMemoURL != nil && !equalStringPtr(session.VoiceMemoURL, req.VoiceMemoURL) {
		session.VoiceMemoURL = req.VoiceMemoURL
		fields["voice_memo_url"] = *req.VoiceMemoURL
	}
	if req.AIInsights != nil && !equalStringPtr(session.AIInsights, req.AIInsights) {
		session.AIInsights = req.AIInsights
		fields["ai_insights"] = *req.AIInsights
	}
	if merged, changed := unionExercises(session.CompletedExercises, req.CompletedExercises); changed {
		session.CompletedExercises = merged
		fields["completed_exercises"] = merged
	}
	if req.ProgressPercentage != nil {
		progress := *req.ProgressPercentage
		if progress != session.ProgressPercentage {
			session.ProgressPercentage = progress
			fields["progress_percentage"] = progress
		}
		if progress >= model.MaxProgress && session.CompletedAt == nil {
			completedAt := s.now().UTC()
			session.CompletedAt = &completedAt
			fields["completed_at"] = completedAt
		}
	}

	if len(fields) == 0 {
		return session, nil
	}
	s.stampStarted(session, fields)
	if err := s.write(ctx, sessionID, fields); err != nil {
		return nil, err
	}
	return session, nil
}

// CompleteSession marks one of riderID's sessions finished: progress 100,
// CompletedAt stamped if unset, and the optional actual duration and
// performance score recorded
func (s *SessionService) CompleteSession(ctx context.Context, riderID, sessionID string, req *model.CompleteSessionRequest) (*model.RidingSession, error) {
	if req.PerformanceScore != nil {
		if err := validateScale("performance_score", *req.PerformanceScore); err != nil {
			return nil, err
		}
	}

	session, err := s.GetRiderSession(ctx, riderID, sessionID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if session.ProgressPercentage != model.MaxProgress {
		session.ProgressPercentage = model.MaxProgress
		fields["progress_percentage"] = model.MaxProgress
	}
	if session.CompletedAt == nil {
		completedAt := s.now().UTC()
		session.CompletedAt = &completedAt
		fields["completed_at"] = completedAt
	}
	if req.ActualDuration != nil {
		session.ActualDuration = req.ActualDuration
		fields["actual_duration"] = *req.ActualDuration
	}
	if req.PerformanceScore != nil {
		session.PerformanceScore = req.PerformanceScore
		fields["performance_score"] = *req.PerformanceScore
	}

	if len(fields) == 0 {
		return session, nil
	}
	s.stampStarted(session, fields)
	if err := s.write(ctx, sessionID, fields); err != nil {
		return nil, err
	}
	return session, nil
}

// stampStarted adds started_at to fields the first time a session is written
func (s *SessionService) stampStarted(session *model.RidingSession, fields map[string]interface{}) {
	if session.StartedAt != nil {
		return
	}
	startedAt := s.now().UTC()
	session.StartedAt = &startedAt
	fields["started_at"] = startedAt
}

// MarkEmergencySupportUsed flags that emergency support was used in the session
func (s *SessionService) MarkEmergencySupportUsed(ctx context.Context, sessionID string) error {
	return s.write(ctx, sessionID, map[string]interface{}{"emergency_support_used": true})
}

// ListSessionsForRider returns a rider's sessions, newest first. A zero limit
// means the default; negative limits are rejected.
func (s *SessionService) ListSessionsForRider(ctx context.Context, riderID string, limit int) ([]*model.RidingSession, error) {
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if limit == 0 {
		limit = model.DefaultSessionListLimit
	}
	return s.repo.ListByRider(ctx, riderID, limit)
}

func (s *SessionService) write(ctx context.Context, sessionID string, fields map[string]interface{}) error {
	if err := s.repo.UpdateFields(ctx, sessionID, fields); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// unionExercises appends ids from add that are not already in existing,
// preserving first-seen order
func unionExercises(existing, add []string) ([]string, bool) {
	if len(add) == 0 {
		return existing, false
	}

	seen := make(map[string]bool, len(existing)+len(add))
	merged := make([]string, 0, len(existing)+len(add))
	for _, id := range existing {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}

	changed := false
	for _, id := range add {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
			changed = true
		}
	}
	if !changed {
		return existing, false
	}
	return merged, true
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
