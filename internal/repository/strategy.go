package repository

import (
	"context"

	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/model"
)

// StrategyRepository handles strategy catalog data access
type StrategyRepository struct {
	db database.Store
}

// NewStrategyRepository creates a new strategy repository
func NewStrategyRepository(db database.Store) *StrategyRepository {
	return &StrategyRepository{db: db}
}

// List returns every stored strategy sorted by id
func (r *StrategyRepository) List(ctx context.Context) ([]*model.Strategy, error) {
	return findMany[model.Strategy](ctx, r.db, CollectionStrategies, database.Query{
		Sort: database.SortAsc("id"),
	})
}

// Create stores a new strategy. Returns database.ErrDuplicate (wrapped) if the
// id is taken.
func (r *StrategyRepository) Create(ctx context.Context, strategy *model.Strategy) error {
	return insert(ctx, r.db, CollectionStrategies, strategy.ID, strategy)
}
