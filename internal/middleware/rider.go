package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/forgo/equimind/api/internal/model"
)

// RiderIDHeader names the acting rider on requests that change rider-owned data
const RiderIDHeader = "X-Rider-ID"

// maxRiderIDLength bounds the header value
const maxRiderIDLength = 64

// ActingRider copies the X-Rider-ID header into the request context. It is an
// ownership hint, not authentication.
func ActingRider(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		riderID := strings.TrimSpace(r.Header.Get(RiderIDHeader))
		if riderID == "" {
			next.ServeHTTP(w, r)
			return
		}
		if len(riderID) > maxRiderIDLength {
			model.NewBadRequestError("X-Rider-ID header is too long").WriteJSON(w)
			return
		}

		ctx := context.WithValue(r.Context(), RiderIDKey, riderID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRider rejects requests without an acting rider
func RequireRider(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetRiderID(r.Context()) == "" {
			model.NewForbiddenError("X-Rider-ID header is required").WriteJSON(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetRiderID extracts the acting rider ID from context
func GetRiderID(ctx context.Context) string {
	if id, ok := ctx.Value(RiderIDKey).(string); ok {
		return id
	}
	return ""
}
