// Package repository implements the data access layer for the EquiMind API.
//
// Each repository struct handles the documents of one collection: riders,
// sessions, emotion assessments, horse observations, strategies, strategy
// logs, emergency events and breathing exercises.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database.Store
//   - Methods implement specific data operations (Create, GetByID, UpdateFields, ListByXxx)
//   - Lookups return nil, nil when the document does not exist
//   - Store errors are wrapped with the collection and id
//
// # Store Backends
//
// Repositories only see the database.Store interface, so the same code runs
// on SurrealDB, MongoDB or the in-memory store used by tests.
//
// # Partial Updates
//
// UpdateFields writes only the named fields. Services use it so that a
// progress update never rewrites fields it did not touch.
//
// # Example Usage
//
//	repo := NewSessionRepository(store)
//	session, err := repo.GetByID(ctx, sessionID)
//	if err != nil {
//	    return err
//	}
//	if session == nil {
//	    // Handle not found
//	}
package repository
