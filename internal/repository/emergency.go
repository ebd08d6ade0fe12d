package repository

import (
	"context"
	"fmt"

	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/model"
)

// EmergencyEventRepository handles emergency event data access. Events are
// append-only.
type EmergencyEventRepository struct {
	db database.Store
}

// NewEmergencyEventRepository creates a new emergency event repository
func NewEmergencyEventRepository(db database.Store) *EmergencyEventRepository {
	return &EmergencyEventRepository{db: db}
}

// Create stores a new event
func (r *EmergencyEventRepository) Create(ctx context.Context, event *model.EmergencyEvent) error {
	return insert(ctx, r.db, CollectionEmergencyEvents, event.ID, event)
}

// CountByRider returns how many events a rider has recorded
func (r *EmergencyEventRepository) CountByRider(ctx context.Context, riderID string) (int, error) {
	n, err := r.db.Count(ctx, CollectionEmergencyEvents, database.Filter{"rider_id": riderID})
	if err != nil {
		return 0, fmt.Errorf("failed to count emergency events: %w", err)
	}
	return n, nil
}

// ListByRider returns a rider's events newest first. A zero limit returns all.
func (r *EmergencyEventRepository) ListByRider(ctx context.Context, riderID string, limit int) ([]*model.EmergencyEvent, error) {
	return findMany[model.EmergencyEvent](ctx, r.db, CollectionEmergencyEvents, database.Query{
		Filter: database.Filter{"rider_id": riderID},
		Sort:   database.SortDesc("timestamp"),
		Limit:  limit,
	})
}
