// Package fixtures provides test data factories for repository tests.
//
// Each factory method creates a document with sensible defaults, applies
// option functions, and inserts it through the matching repository.
//
// Usage:
//
//	f := fixtures.New(tdb.Store)
//	rider := f.CreateRider(t)
//	session := f.CreateSession(t, rider)
//	f.CreateStrategyLog(t, session, "mindful-body-scan")
package fixtures

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/model"
	"github.com/forgo/equimind/api/internal/repository"
)

// Factory creates test documents in a store
type Factory struct {
	db database.Store
	// Now is the timestamp given to the next document; each create advances
	// it by one minute so newest-first ordering is deterministic.
	Now time.Time
}

// New creates a new fixture factory
func New(db database.Store) *Factory {
	return &Factory{
		db:  db,
		Now: time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC),
	}
}

func (f *Factory) tick() time.Time {
	ts := f.Now
	f.Now = f.Now.Add(time.Minute)
	return ts
}

// ctx returns a context bounded by the test's lifetime
func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// ============================================================================
// Rider Fixtures
// ============================================================================

// CreateRider creates a rider with optional customizations
func (f *Factory) CreateRider(t *testing.T, opts ...func(*model.Rider)) *model.Rider {
	t.Helper()

	id := uuid.NewString()
	rider := &model.Rider{
		ID:                   id,
		Name:                 "Rider " + id[:8],
		Email:                fmt.Sprintf("rider_%s@test.local", id[:8]),
		ExperienceLevel:      "Intermediate",
		PreferredDisciplines: []model.RideType{model.RideTypeDressage},
		CreatedAt:            f.tick(),
	}
	for _, fn := range opts {
		fn(rider)
	}

	if err := repository.NewRiderRepository(f.db).Create(ctx(t), rider); err != nil {
		t.Fatalf("fixtures: failed to create rider: %v", err)
	}
	return rider
}

// WithEmail sets a rider's email
func WithEmail(email string) func(*model.Rider) {
	return func(r *model.Rider) { r.Email = email }
}

// ============================================================================
// Session Fixtures
// ============================================================================

// CreateSession creates an open pre-ride session for rider
func (f *Factory) CreateSession(t *testing.T, rider *model.Rider, opts ...func(*model.RidingSession)) *model.RidingSession {
	t.Helper()

	session := &model.RidingSession{
		ID:                 uuid.NewString(),
		RiderID:            rider.ID,
		SessionType:        model.SessionTypePreRide,
		RideType:           model.RideTypeDressage,
		CompletedExercises: []string{},
		CreatedAt:          f.tick(),
	}
	for _, fn := range opts {
		fn(session)
	}

	if err := repository.NewSessionRepository(f.db).Create(ctx(t), session); err != nil {
		t.Fatalf("fixtures: failed to create session: %v", err)
	}
	return session
}

// WithScore marks a session completed with the given performance score
func WithScore(score float64) func(*model.RidingSession) {
	return func(s *model.RidingSession) {
		s.PerformanceScore = &score
		s.ProgressPercentage = model.MaxProgress
		started := s.CreatedAt.Add(5 * time.Minute)
		completed := s.CreatedAt.Add(45 * time.Minute)
		s.StartedAt = &started
		s.CompletedAt = &completed
	}
}

// WithExercises sets a session's completed exercises
func WithExercises(ids ...string) func(*model.RidingSession) {
	return func(s *model.RidingSession) { s.CompletedExercises = ids }
}

// ============================================================================
// Session Record Fixtures
// ============================================================================

// CreateEmotionAssessment records an assessment for session
func (f *Factory) CreateEmotionAssessment(t *testing.T, session *model.RidingSession, anxiety, confidence float64) *model.EmotionAssessment {
	t.Helper()

	assessment := &model.EmotionAssessment{
		ID:              uuid.NewString(),
		RiderID:         session.RiderID,
		SessionID:       session.ID,
		EmotionLevel:    5,
		EmotionalState:  model.EmotionalStateNeutral,
		AnxietyLevel:    anxiety,
		ConfidenceLevel: confidence,
		Timestamp:       f.tick(),
	}

	if err := repository.NewEmotionRepository(f.db).Create(ctx(t), assessment); err != nil {
		t.Fatalf("fixtures: failed to create emotion assessment: %v", err)
	}
	return assessment
}

// CreateStrategyLog records an open strategy use within session
func (f *Factory) CreateStrategyLog(t *testing.T, session *model.RidingSession, strategyID string) *model.StrategyLog {
	t.Helper()

	log := &model.StrategyLog{
		ID:                uuid.NewString(),
		RiderID:           session.RiderID,
		SessionID:         session.ID,
		StrategyID:        strategyID,
		TriggerAnxiety:    7,
		TriggerConfidence: 3,
		UsedAt:            f.tick(),
	}

	if err := repository.NewStrategyLogRepository(f.db).Create(ctx(t), log); err != nil {
		t.Fatalf("fixtures: failed to create strategy log: %v", err)
	}
	return log
}

// CreateEmergencyEvent records an emergency event within session
func (f *Factory) CreateEmergencyEvent(t *testing.T, session *model.RidingSession, reason string) *model.EmergencyEvent {
	t.Helper()

	event := &model.EmergencyEvent{
		ID:               uuid.NewString(),
		RiderID:          session.RiderID,
		SessionID:        session.ID,
		TriggerReason:    reason,
		InterventionUsed: "grounding-5-4-3-2-1",
		Timestamp:        f.tick(),
	}

	if err := repository.NewEmergencyEventRepository(f.db).Create(ctx(t), event); err != nil {
		t.Fatalf("fixtures: failed to create emergency event: %v", err)
	}
	return event
}
