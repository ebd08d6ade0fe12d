// Package database provides document storage for the EquiMind API.
//
// # Store Interface
//
// The Store interface defines the operations the repositories rely on:
//
//	type Store interface {
//	    FindByID(ctx context.Context, collection, id string, out interface{}) error
//	    Find(ctx context.Context, collection string, q Query, out interface{}) error
//	    Insert(ctx context.Context, collection, id string, doc interface{}) error
//	    UpdateFields(ctx context.Context, collection, id string, fields map[string]interface{}) error
//	    Count(ctx context.Context, collection string, filter Filter) (int, error)
//	}
//
// # Connection Management
//
// Pick a backend with the DB_DRIVER setting:
//
//	store, err := database.Open(database.Config{
//	    Driver:    "surrealdb",
//	    Host:      "localhost",
//	    Port:      "8000",
//	    Namespace: "equimind",
//	    Database:  "main",
//	    User:      "root",
//	    Password:  "secret",
//	})
//
// # Consistency
//
// UpdateFields is a field-level write with no version check, so two
// concurrent writers to the same document resolve last-writer-wins per field.
package database
