// Package testdb provides isolated store instances for EquiMind tests.
//
// # Drivers
//
// The driver comes from EQUIMIND_TEST_DB_DRIVER:
//
//   - memory (default): a fresh MemoryStore per test
//   - surrealdb: TEST_DB_HOST, TEST_DB_PORT, TEST_DB_USER, TEST_DB_PASSWORD
//   - mongo: TEST_MONGO_URI
//
// External drivers get a unique namespace per TestDB. Tests are skipped when
// the configured database cannot be reached.
//
// # Helpers
//
//	tdb := testdb.New(t)
//	ctx := tdb.Ctx()                          // per-test timeout
//	n := tdb.MustCount("sessions", nil)       // count or fail
package testdb
