package repository

import (
	"context"

	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/model"
)

// RiderRepository handles rider data access
type RiderRepository struct {
	db database.Store
}

// NewRiderRepository creates a new rider repository
func NewRiderRepository(db database.Store) *RiderRepository {
	return &RiderRepository{db: db}
}

// Create stores a new rider
func (r *RiderRepository) Create(ctx context.Context, rider *model.Rider) error {
	return insert(ctx, r.db, CollectionRiders, rider.ID, rider)
}

// GetByID retrieves a rider by ID, or nil if there is none
func (r *RiderRepository) GetByID(ctx context.Context, id string) (*model.Rider, error) {
	return findOne[model.Rider](ctx, r.db, CollectionRiders, id)
}

// GetByEmail retrieves a rider by email, or nil if there is none
func (r *RiderRepository) GetByEmail(ctx context.Context, email string) (*model.Rider, error) {
	return findFirst[model.Rider](ctx, r.db, CollectionRiders, database.Filter{"email": email})
}
