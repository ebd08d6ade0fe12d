// Package jobs implements background jobs for the EquiMind API.
//
// Jobs run on a ticker independently of HTTP request handling and follow the
// same lifecycle: NewXxx, Start, Stop (waits for the loop to exit) and RunOnce
// for manual triggers and tests.
//
// # Available Jobs
//
//   - CatalogRefresher: reloads the strategy catalog from the store
//
// Jobs log errors and keep running; a failed reload leaves the previous
// catalog in place.
package jobs
