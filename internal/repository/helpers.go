package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/equimind/api/internal/database"
)

// Collection names
const (
	CollectionRiders             = "riders"
	CollectionSessions           = "sessions"
	CollectionEmotions           = "emotions"
	CollectionHorseObservations  = "horse_observations"
	CollectionStrategies         = "strategies"
	CollectionStrategyLogs       = "strategy_logs"
	CollectionEmergencyEvents    = "emergency_events"
	CollectionBreathingExercises = "breathing_exercises"
)

// findOne loads a document by id, returning nil (not an error) when missing
func findOne[T any](ctx context.Context, db database.Store, collection, id string) (*T, error) {
	var out T
	if err := db.FindByID(ctx, collection, id, &out); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s %s: %w", collection, id, err)
	}
	return &out, nil
}

// findFirst returns the first document matching filter, or nil
func findFirst[T any](ctx context.Context, db database.Store, collection string, filter database.Filter) (*T, error) {
	items, err := findMany[T](ctx, db, collection, database.Query{Filter: filter, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// findMany runs q and returns the decoded documents
func findMany[T any](ctx context.Context, db database.Store, collection string, q database.Query) ([]*T, error) {
	var out []T
	if err := db.Find(ctx, collection, q, &out); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}

	items := make([]*T, 0, len(out))
	for i := range out {
		items = append(items, &out[i])
	}
	return items, nil
}

// insert stores doc and keeps ErrDuplicate matchable by callers
func insert(ctx context.Context, db database.Store, collection, id string, doc interface{}) error {
	if err := db.Insert(ctx, collection, id, doc); err != nil {
		return fmt.Errorf("failed to insert %s %s: %w", collection, id, err)
	}
	return nil
}

// updateFields keeps ErrNotFound matchable by callers
func updateFields(ctx context.Context, db database.Store, collection, id string, fields map[string]interface{}) error {
	if err := db.UpdateFields(ctx, collection, id, fields); err != nil {
		return fmt.Errorf("failed to update %s %s: %w", collection, id, err)
	}
	return nil
}
