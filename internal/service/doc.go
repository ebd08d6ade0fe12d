// Package service implements the business logic layer for the EquiMind API.
//
// The service package holds the emotion classifier, the strategy catalog and
// matching engine, the session lifecycle, rider analytics and the coach.
// Services sit between the HTTP handlers and the repositories.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces, so tests can substitute
// in-memory fakes without a store.
//
// # Error Handling
//
// Services return domain-specific errors defined as package-level variables:
//
//	var (
//	    ErrSessionNotFound   = errors.New("session not found")
//	    ErrSessionRiderMatch = errors.New("session does not belong to this rider")
//	)
//
// Out-of-range numeric input is reported as *RangeError, which matches
// ErrInvalidRange under errors.Is.
//
// # Example Usage
//
//	sessions := NewSessionService(SessionServiceConfig{
//	    Repo:      sessionRepository,
//	    RiderRepo: riderRepository,
//	})
//	session, err := sessions.UpdateProgress(ctx, riderID, sessionID, &model.UpdateSessionProgressRequest{
//	    CompletedExercises: []string{"mindful-body-scan"},
//	})
package service
