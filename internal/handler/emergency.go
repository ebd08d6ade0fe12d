package handler

import (
	"net/http"

	"github.com/forgo/equimind/api/internal/model"
	"github.com/forgo/equimind/api/internal/service"
)

// EmergencyHandler handles emergency support events
type EmergencyHandler struct {
	emergencyService *service.EmergencyService
}

// NewEmergencyHandler creates a new emergency handler
func NewEmergencyHandler(emergencyService *service.EmergencyService) *EmergencyHandler {
	return &EmergencyHandler{emergencyService: emergencyService}
}

// RegisterRoutes registers emergency routes
func (h *EmergencyHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/emergency-events", h.RecordEvent)
}

// RecordEvent handles POST /v1/emergency-events
func (h *EmergencyHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEmergencyEventRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	event, err := h.emergencyService.Record(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "record emergency event"))
		return
	}

	WriteData(w, http.StatusCreated, event, map[string]string{
		"session":    "/v1/sessions/" + event.SessionID,
		"techniques": "/v1/emergency-techniques",
	})
}
