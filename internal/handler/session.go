package handler

import (
	"net/http"

	"github.com/forgo/equimind/api/internal/middleware"
	"github.com/forgo/equimind/api/internal/model"
	"github.com/forgo/equimind/api/internal/service"
)

// SessionHandler handles riding session endpoints
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// RegisterRoutes registers session routes. Mutating a session requires the
// acting rider to own it.
func (h *SessionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/sessions", h.CreateSession)
	mux.HandleFunc("GET /v1/sessions/{sessionId}", h.GetSession)
	mux.Handle("PATCH /v1/sessions/{sessionId}/progress", middleware.RequireRider(http.HandlerFunc(h.UpdateProgress)))
	mux.Handle("POST /v1/sessions/{sessionId}/complete", middleware.RequireRider(http.HandlerFunc(h.CompleteSession)))
}

func sessionLinks(id string) map[string]string {
	return map[string]string{
		"self":     "/v1/sessions/" + id,
		"progress": "/v1/sessions/" + id + "/progress",
		"complete": "/v1/sessions/" + id + "/complete",
	}
}

// CreateSession handles POST /v1/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSessionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	session, err := h.sessionService.CreateSession(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "create session"))
		return
	}

	WriteData(w, http.StatusCreated, service.View(session), sessionLinks(session.ID))
}

// GetSession handles GET /v1/sessions/{sessionId}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")

	session, err := h.sessionService.GetSession(r.Context(), sessionID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get session"))
		return
	}

	WriteData(w, http.StatusOK, service.View(session), sessionLinks(sessionID))
}

// UpdateProgress handles PATCH /v1/sessions/{sessionId}/progress
func (h *SessionHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")

	var req model.UpdateSessionProgressRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	riderID := middleware.GetRiderID(r.Context())
	session, err := h.sessionService.UpdateProgress(r.Context(), riderID, sessionID, &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "update session progress"))
		return
	}

	WriteData(w, http.StatusOK, service.View(session), sessionLinks(sessionID))
}

// CompleteSession handles POST /v1/sessions/{sessionId}/complete
func (h *SessionHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")

	var req model.CompleteSessionRequest
	if r.ContentLength != 0 {
		if !decodeRequest(w, r, &req) {
			return
		}
	}

	riderID := middleware.GetRiderID(r.Context())
	session, err := h.sessionService.CompleteSession(r.Context(), riderID, sessionID, &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "complete session"))
		return
	}

	WriteData(w, http.StatusOK, service.View(session), sessionLinks(sessionID))
}
