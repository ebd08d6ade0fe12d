package repository

import (
	"context"

	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/model"
)

// SessionRepository handles riding session data access
type SessionRepository struct {
	db database.Store
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db database.Store) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a new session
func (r *SessionRepository) Create(ctx context.Context, session *model.RidingSession) error {
	return insert(ctx, r.db, CollectionSessions, session.ID, session)
}

// GetByID retrieves a session by ID, or nil if there is none
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*model.RidingSession, error) {
	session, err := findOne[model.RidingSession](ctx, r.db, CollectionSessions, id)
	if session != nil && session.CompletedExercises == nil {
		session.CompletedExercises = []string{}
	}
	return session, err
}

// UpdateFields sets only the named fields. Returns database.ErrNotFound (wrapped)
// if the session does not exist.
func (r *SessionRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return updateFields(ctx, r.db, CollectionSessions, id, fields)
}

// ListByRider returns a rider's sessions newest first. A zero limit returns all.
func (r *SessionRepository) ListByRider(ctx context.Context, riderID string, limit int) ([]*model.RidingSession, error) {
	sessions, err := findMany[model.RidingSession](ctx, r.db, CollectionSessions, database.Query{
		Filter: database.Filter{"rider_id": riderID},
		Sort:   database.SortDesc("created_at"),
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	for _, s := range sessions {
		if s.CompletedExercises == nil {
			s.CompletedExercises = []string{}
		}
	}
	return sessions, nil
}
