package repository

import (
	"context"

	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/model"
)

// EmotionRepository handles emotion reading data access
type EmotionRepository struct {
	db database.Store
}

// NewEmotionRepository creates a new emotion repository
func NewEmotionRepository(db database.Store) *EmotionRepository {
	return &EmotionRepository{db: db}
}

// Create stores a new reading
func (r *EmotionRepository) Create(ctx context.Context, assessment *model.EmotionAssessment) error {
	return insert(ctx, r.db, CollectionEmotions, assessment.ID, assessment)
}

// GetByID retrieves a reading by ID, or nil if there is none
func (r *EmotionRepository) GetByID(ctx context.Context, id string) (*model.EmotionAssessment, error) {
	return findOne[model.EmotionAssessment](ctx, r.db, CollectionEmotions, id)
}

// ListByRider returns a rider's readings newest first. A zero limit returns all.
func (r *EmotionRepository) ListByRider(ctx context.Context, riderID string, limit int) ([]*model.EmotionAssessment, error) {
	return findMany[model.EmotionAssessment](ctx, r.db, CollectionEmotions, database.Query{
		Filter: database.Filter{"rider_id": riderID},
		Sort:   database.SortDesc("timestamp"),
		Limit:  limit,
	})
}
