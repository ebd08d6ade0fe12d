// Package handler provides HTTP request handlers for the EquiMind API.
//
// Each handler struct wraps the services for one feature area (riders,
// sessions, emotions, strategies, coach) and registers its own routes on a
// net/http ServeMux with RegisterRoutes.
//
// # Handler Pattern
//
//   - Constructor function (NewXxxHandler) takes the services it needs
//   - RegisterRoutes binds method-qualified patterns ("POST /v1/sessions")
//   - Request bodies go through decodeRequest, which writes 400/422 itself
//   - Service errors go through MapServiceError to RFC 9457 Problem Details
//
// # Response Format
//
//   - WriteData: single resource with optional HATEOAS links
//   - WriteCollection: list of resources with a count
//   - WriteJSON: raw JSON response
//   - WriteError: RFC 9457 Problem Details error response
//
// # Acting Rider
//
// There is no authentication. Ownership checks use the rider named in the
// X-Rider-ID header, read with middleware.GetRiderID.
//
// # Example Usage
//
//	mux := http.NewServeMux()
//	handler.NewSessionHandler(sessionService).RegisterRoutes(mux)
//	handler.NewStrategyHandler(catalogService).RegisterRoutes(mux)
package handler
