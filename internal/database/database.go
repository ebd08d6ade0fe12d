// Package database provides the document store abstraction for EquiMind.
//
// This package defines the Store interface that the repositories use for all
// persistence. The interface is deliberately small: lookup by id, filtered
// and sorted listing, insert, partial field update and counting. Any document
// database that can express those five operations can back the service.
//
// # Backends
//
//   - SurrealStore: SurrealDB over its websocket RPC (default)
//   - MongoStore: MongoDB via the official driver
//   - MemoryStore: process-local maps, used by tests and the "memory" driver
//
// # Documents
//
// Documents are Go structs with matching json and bson tags. The id field is
// tagged `json:"id" bson:"_id"` and is always a caller-generated string, so
// every backend addresses records the same way. Filter and sort keys use the
// snake_case field names from the tags.
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: Record does not exist
//   - ErrDuplicate: A record with the same id already exists
//   - ErrConnection: Database connection issues
//   - ErrQuery: Query execution failures
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // Handle missing record
//	}
//
// # Usage Example
//
//	store, err := database.Open(database.Config{Driver: "surrealdb", ...})
//	if err := store.Connect(ctx); err != nil { ... }
//	defer store.Close()
//
//	var sessions []model.RidingSession
//	err = store.Find(ctx, "sessions", database.Query{
//	    Filter: database.Filter{"rider_id": riderID},
//	    Sort:   database.SortDesc("created_at"),
//	    Limit:  20,
//	}, &sessions)
package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Standard errors for database operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a record with the same id already exists.
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")

	// ErrInvalidField indicates a filter or sort key that is not a plain field name.
	ErrInvalidField = errors.New("invalid field name")
)

// Store defines the document store operations used by the repositories
type Store interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// FindByID decodes the document with the given id into out (a struct pointer).
	// Returns ErrNotFound if there is no such document.
	FindByID(ctx context.Context, collection, id string, out interface{}) error

	// Find decodes the documents matching q into out (a pointer to a slice).
	Find(ctx context.Context, collection string, q Query, out interface{}) error

	// Insert stores doc under id. Returns ErrDuplicate if the id is taken.
	Insert(ctx context.Context, collection, id string, doc interface{}) error

	// UpdateFields sets the given top-level fields on an existing document.
	// Fields not named are left untouched. Returns ErrNotFound if missing.
	UpdateFields(ctx context.Context, collection, id string, fields map[string]interface{}) error

	// Count returns the number of documents matching filter.
	Count(ctx context.Context, collection string, filter Filter) (int, error)
}

// Filter is a conjunction of field equality conditions
type Filter map[string]interface{}

// Sort orders results by a single field
type Sort struct {
	Field      string
	Descending bool
}

// SortAsc orders by field ascending
func SortAsc(field string) *Sort {
	return &Sort{Field: field}
}

// SortDesc orders by field descending
func SortDesc(field string) *Sort {
	return &Sort{Field: field, Descending: true}
}

// Query describes a filtered, sorted, bounded listing
type Query struct {
	Filter Filter
	Sort   *Sort
	// Limit bounds the result size; zero means no bound
	Limit int
}

// Config holds database configuration
type Config struct {
	Driver    string
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
	MongoURI  string
}

// Supported drivers
const (
	DriverSurrealDB = "surrealdb"
	DriverMongo     = "mongo"
	DriverMemory    = "memory"
)

// Open returns an unconnected Store for the configured driver
func Open(cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverSurrealDB, "":
		return NewSurrealStore(cfg), nil
	case DriverMongo:
		return NewMongoStore(cfg), nil
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrConnection, cfg.Driver)
	}
}

var fieldNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// validateField guards field names that backends interpolate into queries
func validateField(name string) error {
	if !fieldNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	return nil
}

// validateQuery checks every field name referenced by q
func validateQuery(q Query) error {
	for k := range q.Filter {
		if err := validateField(k); err != nil {
			return err
		}
	}
	if q.Sort != nil {
		if err := validateField(q.Sort.Field); err != nil {
			return err
		}
	}
	return nil
}
