package handler

import (
	"errors"
	"log/slog"

	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/model"
	"github.com/forgo/equimind/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var rangeErr *service.RangeError

	switch {
	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotStrategyLogOwner),
		errors.Is(err, service.ErrSessionRiderMatch):
		pd := model.NewForbiddenError(err.Error())
		pd.Code = model.ErrCodeNotOwner
		return pd

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrRiderNotFound):
		return model.NewNotFoundError("rider")
	case errors.Is(err, service.ErrSessionNotFound):
		return model.NewNotFoundError("session")
	case errors.Is(err, service.ErrStrategyNotFound):
		return model.NewNotFoundError("strategy")
	case errors.Is(err, service.ErrStrategyLogNotFound):
		return model.NewNotFoundError("strategy log")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrDuplicateStrategyID):
		pd := model.NewConflictError(err.Error())
		pd.Code = model.ErrCodeAlreadyExists
		return pd
	case errors.Is(err, service.ErrRiderEmailExists):
		pd := model.NewConflictError(err.Error())
		pd.Code = model.ErrCodeAlreadyExists
		return pd
	case errors.Is(err, service.ErrStrategyLogAlreadyCompleted),
		errors.Is(err, service.ErrStrategyLogAlreadyRated):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 / 400 =====
	case errors.As(err, &rangeErr):
		return model.NewInvalidRangeError(rangeErr.Field, rangeErr.Error())
	case errors.Is(err, service.ErrInvalidRange):
		return model.NewInvalidRangeError("value", err.Error())
	case errors.Is(err, service.ErrInvalidStrategy):
		return model.NewValidationError([]model.FieldError{{Field: "strategy", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidLimit):
		return model.NewBadRequestError(err.Error())

	// ===== Store Errors → 503 =====
	case errors.Is(err, database.ErrConnection):
		return model.NewServiceUnavailableError("database unavailable")

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails response
// with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status >= 500 {
		slog.Error("request failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		if pd.Status == 500 {
			pd.Detail = operation + ": an unexpected error occurred"
		}
	}
	return pd
}
