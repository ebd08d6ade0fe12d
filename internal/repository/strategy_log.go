package repository

import (
	"context"

	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/model"
)

// StrategyLogRepository handles strategy log data access
type StrategyLogRepository struct {
	db database.Store
}

// NewStrategyLogRepository creates a new strategy log repository
func NewStrategyLogRepository(db database.Store) *StrategyLogRepository {
	return &StrategyLogRepository{db: db}
}

// Create stores a new log entry
func (r *StrategyLogRepository) Create(ctx context.Context, log *model.StrategyLog) error {
	return insert(ctx, r.db, CollectionStrategyLogs, log.ID, log)
}

// GetByID retrieves a log entry by ID, or nil if there is none
func (r *StrategyLogRepository) GetByID(ctx context.Context, id string) (*model.StrategyLog, error) {
	return findOne[model.StrategyLog](ctx, r.db, CollectionStrategyLogs, id)
}

// UpdateFields sets only the named fields
func (r *StrategyLogRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return updateFields(ctx, r.db, CollectionStrategyLogs, id, fields)
}

// ListBySession returns a session's log entries, oldest first
func (r *StrategyLogRepository) ListBySession(ctx context.Context, sessionID string) ([]*model.StrategyLog, error) {
	return findMany[model.StrategyLog](ctx, r.db, CollectionStrategyLogs, database.Query{
		Filter: database.Filter{"session_id": sessionID},
		Sort:   database.SortAsc("used_at"),
	})
}
