package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Rider Errors =====
var (
	ErrRiderNotFound    = errors.New("rider not found")
	ErrRiderEmailExists = errors.New("a rider with this email already exists")
)

// ===== Session Errors =====
var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionRiderMatch = errors.New("session does not belong to this rider")
)

// ===== Strategy Errors =====
var (
	ErrStrategyNotFound    = errors.New("strategy not found")
	ErrDuplicateStrategyID = errors.New("a strategy with this id already exists")
	ErrInvalidStrategy     = errors.New("invalid strategy")
)

// ===== Strategy Log Errors =====
var (
	ErrStrategyLogNotFound         = errors.New("strategy log not found")
	ErrNotStrategyLogOwner         = errors.New("only the rider who logged this strategy can update it")
	ErrStrategyLogAlreadyCompleted = errors.New("strategy log already marked completed")
	ErrStrategyLogAlreadyRated     = errors.New("strategy log already rated")
)

// ===== Coach Errors =====
var (
	ErrGenerationDisabled = errors.New("text generation disabled")
	ErrEmptyGeneration    = errors.New("empty response")
)

// ===== Input Errors =====
var (
	// ErrInvalidRange is returned for a numeric input outside its declared domain.
	// Wrapped errors name the offending field.
	ErrInvalidRange = errors.New("value out of range")
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)
