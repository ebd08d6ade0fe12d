package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockRiderRepo struct {
	createFunc     func(ctx context.Context, rider *model.Rider) error
	getByIDFunc    func(ctx context.Context, id string) (*model.Rider, error)
	getByEmailFunc func(ctx context.Context, email string) (*model.Rider, error)
}

func (m *mockRiderRepo) Create(ctx context.Context, rider *model.Rider) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, rider)
	}
	return nil
}

func (m *mockRiderRepo) GetByID(ctx context.Context, id string) (*model.Rider, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockRiderRepo) GetByEmail(ctx context.Context, email string) (*model.Rider, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

type mockEmotionRepo struct {
	createFunc      func(ctx context.Context, assessment *model.EmotionAssessment) error
	listByRiderFunc func(ctx context.Context, riderID string, limit int) ([]*model.EmotionAssessment, error)
}

func (m *mockEmotionRepo) Create(ctx context.Context, assessment *model.EmotionAssessment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, assessment)
	}
	return nil
}

func (m *mockEmotionRepo) ListByRider(ctx context.Context, riderID string, limit int) ([]*model.EmotionAssessment, error) {
	if m.listByRiderFunc != nil {
		return m.listByRiderFunc(ctx, riderID, limit)
	}
	return nil, nil
}

type mockEmergencyRepo struct {
	createFunc       func(ctx context.Context, event *model.EmergencyEvent) error
	countByRiderFunc func(ctx context.Context, riderID string) (int, error)
}

func (m *mockEmergencyRepo) Create(ctx context.Context, event *model.EmergencyEvent) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, event)
	}
	return nil
}

func (m *mockEmergencyRepo) CountByRider(ctx context.Context, riderID string) (int, error) {
	if m.countByRiderFunc != nil {
		return m.countByRiderFunc(ctx, riderID)
	}
	return 0, nil
}

type mockStrategyRepo struct {
	mu         sync.Mutex
	strategies []*model.Strategy
	listErr    error
	createErr  error
}

func (m *mockStrategyRepo) List(ctx context.Context) ([]*model.Strategy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*model.Strategy, len(m.strategies))
	copy(out, m.strategies)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStrategyRepo) Create(ctx context.Context, strategy *model.Strategy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, s := range m.strategies {
		if s.ID == strategy.ID {
			return database.ErrDuplicate
		}
	}
	cp := strategy.Clone()
	m.strategies = append(m.strategies, &cp)
	return nil
}

type mockStrategyLogRepo struct {
	mu     sync.Mutex
	logs   map[string]*model.StrategyLog
	writes int
}

func newMockStrategyLogRepo() *mockStrategyLogRepo {
	return &mockStrategyLogRepo{logs: make(map[string]*model.StrategyLog)}
}

func (m *mockStrategyLogRepo) Create(ctx context.Context, log *model.StrategyLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *log
	m.logs[log.ID] = &cp
	return nil
}

func (m *mockStrategyLogRepo) GetByID(ctx context.Context, id string) (*model.StrategyLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	log, ok := m.logs[id]
	if !ok {
		return nil, nil
	}
	cp := *log
	return &cp, nil
}

func (m *mockStrategyLogRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	log, ok := m.logs[id]
	if !ok {
		return database.ErrNotFound
	}
	m.writes++
	if v, ok := fields["completed"].(bool); ok {
		log.Completed = v
	}
	if v, ok := fields["effectiveness_rating"].(int); ok {
		log.EffectivenessRating = &v
	}
	return nil
}

// memSessionRepo keeps sessions in a map and records every write. While
// writeErr is set every UpdateFields call fails with it.
type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.RidingSession
	writes   []map[string]interface{}
	writeErr error
}

func newMemSessionRepo(sessions ...*model.RidingSession) *memSessionRepo {
	r := &memSessionRepo{sessions: make(map[string]*model.RidingSession)}
	for _, s := range sessions {
		r.sessions[s.ID] = s
	}
	return r
}

func (r *memSessionRepo) Create(ctx context.Context, session *model.RidingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; ok {
		return database.ErrDuplicate
	}
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *memSessionRepo) GetByID(ctx context.Context, id string) (*model.RidingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	cp.CompletedExercises = append([]string{}, s.CompletedExercises...)
	return &cp, nil
}

func (r *memSessionRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	s, ok := r.sessions[id]
	if !ok {
		return database.ErrNotFound
	}
	r.writes = append(r.writes, fields)
	for k, v := range fields {
		switch k {
		case "completed_exercises":
			s.CompletedExercises = v.([]string)
		case "progress_percentage":
			s.ProgressPercentage = v.(float64)
		case "performance_score":
			f := v.(float64)
			s.PerformanceScore = &f
		case "emergency_support_used":
			s.EmergencySupportUsed = v.(bool)
		case "completed_at":
			ts := v.(time.Time)
			s.CompletedAt = &ts
		case "started_at":
			ts := v.(time.Time)
			s.StartedAt = &ts
		case "emotion_assessment_id":
			id := v.(string)
			s.EmotionAssessmentID = &id
		case "actual_duration":
			d := v.(int)
			s.ActualDuration = &d
		}
	}
	return nil
}

func (r *memSessionRepo) ListByRider(ctx context.Context, riderID string, limit int) ([]*model.RidingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.RidingSession
	for _, s := range r.sessions {
		if s.RiderID == riderID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memSessionRepo) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes)
}

func (r *memSessionRepo) failWrites(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeErr = err
}
