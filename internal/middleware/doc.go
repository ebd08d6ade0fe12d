// Package middleware provides HTTP middleware for the EquiMind API.
//
// # Available Middleware
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Logger: structured request logging via slog
//   - Recovery: converts panics into RFC 9457 500 responses
//   - CORS: origin allow-list and preflight handling
//   - RateLimit: token bucket per client IP
//   - ActingRider / RequireRider: X-Rider-ID ownership hint
//   - Idempotency: replays POST/PATCH responses for a repeated Idempotency-Key
//   - Compress: gzip when the client accepts it
//
// Middlewares compose with Chain, outermost first:
//
//	handler := middleware.Chain(mux,
//	    middleware.RequestID,
//	    middleware.Logger,
//	    middleware.Recovery,
//	)
//
// # Context Values
//
//   - GetRequestID(ctx): unique request identifier
//   - GetRiderID(ctx): acting rider from X-Rider-ID, if any
package middleware
