package repository

import (
	"context"

	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/model"
)

// BreathingExerciseRepository handles breathing exercise data access
type BreathingExerciseRepository struct {
	db database.Store
}

// NewBreathingExerciseRepository creates a new breathing exercise repository
func NewBreathingExerciseRepository(db database.Store) *BreathingExerciseRepository {
	return &BreathingExerciseRepository{db: db}
}

// List returns every stored exercise sorted by id
func (r *BreathingExerciseRepository) List(ctx context.Context) ([]*model.BreathingExercise, error) {
	return findMany[model.BreathingExercise](ctx, r.db, CollectionBreathingExercises, database.Query{
		Sort: database.SortAsc("id"),
	})
}

// Create stores a new exercise
func (r *BreathingExerciseRepository) Create(ctx context.Context, exercise *model.BreathingExercise) error {
	return insert(ctx, r.db, CollectionBreathingExercises, exercise.ID, exercise)
}
