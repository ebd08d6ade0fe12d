// Package model defines domain entities and data structures for the EquiMind API.
//
// The model package contains the stored documents, request types with their
// validation rules, and the RFC 9457 error type shared by all layers.
//
// # Domain Entities
//
//   - Rider: a rider profile with experience level and disciplines
//   - RidingSession: one training session and the progress recorded in it
//   - EmotionAssessment: an emotion, anxiety and confidence reading
//   - HorseObservation: the rider's notes on the horse for a session
//   - Strategy: a coping strategy with its trigger ranges
//   - StrategyLog: one use of a strategy within a session
//   - EmergencyEvent: an append-only record of an emergency intervention
//   - BreathingExercise: reference content for breathing drills
//
// # Serialization
//
// Stored documents carry matching json and bson tags, with the id tagged
// `json:"id" bson:"_id"`:
//
//	type Rider struct {
//	    ID    string `json:"id" bson:"_id"`
//	    Name  string `json:"name" bson:"name"`
//	}
//
// # Validation
//
// Request types declare rules in validate struct tags and expose a Validate
// method returning []FieldError with snake_case field paths.
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
