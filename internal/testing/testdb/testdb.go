// Package testdb opens isolated document stores for repository tests.
//
// By default every TestDB is backed by a fresh in-memory store, so tests run
// without any external service. Setting EQUIMIND_TEST_DB_DRIVER to "surrealdb"
// or "mongo" runs the same tests against a real database instead; each TestDB
// then gets its own namespace (SurrealDB) or database (MongoDB).
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    repo := repository.NewSessionRepository(tdb.Store)
//	    ...
//	}
package testdb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/forgo/equimind/api/internal/database"
)

// TestDB provides an isolated store for one test
type TestDB struct {
	Store     database.Store
	Driver    string
	Namespace string
	t         *testing.T
}

var (
	// counterMu protects the namespace counter
	counterMu sync.Mutex
	counter   int64
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getTestConfig returns database config from environment or defaults
func getTestConfig() database.Config {
	return database.Config{
		Driver:   envOr("EQUIMIND_TEST_DB_DRIVER", database.DriverMemory),
		Host:     envOr("TEST_DB_HOST", "localhost"),
		Port:     envOr("TEST_DB_PORT", "8000"),
		User:     envOr("TEST_DB_USER", "root"),
		Password: envOr("TEST_DB_PASSWORD", "root"),
		MongoURI: envOr("TEST_MONGO_URI", "mongodb://localhost:27017"),
	}
}

// uniqueNamespace generates a unique namespace for test isolation
func uniqueNamespace() string {
	counterMu.Lock()
	defer counterMu.Unlock()
	counter++
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), counter)
}

// New opens and connects an isolated store. The store is closed when the
// test finishes. A configured external database that cannot be reached
// skips the test rather than failing it.
func New(t *testing.T) *TestDB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := getTestConfig()
	namespace := uniqueNamespace()
	cfg.Namespace = namespace
	cfg.Database = namespace

	store, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("testdb: %v", err)
	}
	if err := store.Connect(ctx); err != nil {
		t.Skipf("testdb: %s unavailable: %v", cfg.Driver, err)
	}

	tdb := &TestDB{
		Store:     store,
		Driver:    cfg.Driver,
		Namespace: namespace,
		t:         t,
	}
	t.Cleanup(tdb.Close)
	return tdb
}

// Close releases the store connection
func (tdb *TestDB) Close() {
	if tdb.Store == nil {
		return
	}
	_ = tdb.Store.Close()
}

// Ctx returns a context with a reasonable timeout for test operations.
// The context is cancelled when the test finishes.
func (tdb *TestDB) Ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	tdb.t.Cleanup(cancel)
	return ctx
}

// MustCount counts documents and fails the test on error
func (tdb *TestDB) MustCount(collection string, filter database.Filter) int {
	tdb.t.Helper()
	n, err := tdb.Store.Count(tdb.Ctx(), collection, filter)
	if err != nil {
		tdb.t.Fatalf("testdb: count %s failed: %v", collection, err)
	}
	return n
}
