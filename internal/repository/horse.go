package repository

import (
	"context"

	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/model"
)

// HorseObservationRepository handles horse observation data access
type HorseObservationRepository struct {
	db database.Store
}

// NewHorseObservationRepository creates a new horse observation repository
func NewHorseObservationRepository(db database.Store) *HorseObservationRepository {
	return &HorseObservationRepository{db: db}
}

// Create stores a new observation
func (r *HorseObservationRepository) Create(ctx context.Context, observation *model.HorseObservation) error {
	return insert(ctx, r.db, CollectionHorseObservations, observation.ID, observation)
}

// GetByID retrieves an observation by ID, or nil if there is none
func (r *HorseObservationRepository) GetByID(ctx context.Context, id string) (*model.HorseObservation, error) {
	return findOne[model.HorseObservation](ctx, r.db, CollectionHorseObservations, id)
}
