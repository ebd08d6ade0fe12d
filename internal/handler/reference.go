package handler

import (
	"net/http"

	"github.com/forgo/equimind/api/internal/model"
	"github.com/forgo/equimind/api/internal/service"
)

// ReferenceHandler serves static support content
type ReferenceHandler struct {
	referenceService *service.ReferenceService
	emergencyService *service.EmergencyService
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(referenceService *service.ReferenceService, emergencyService *service.EmergencyService) *ReferenceHandler {
	return &ReferenceHandler{
		referenceService: referenceService,
		emergencyService: emergencyService,
	}
}

// RegisterRoutes registers reference routes
func (h *ReferenceHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/breathing-exercises", h.ListBreathingExercises)
	mux.HandleFunc("GET /v1/emergency-techniques", h.GetEmergencyTechniques)
}

// ListBreathingExercises handles GET /v1/breathing-exercises?state=
func (h *ReferenceHandler) ListBreathingExercises(w http.ResponseWriter, r *http.Request) {
	state := model.EmotionalState(r.URL.Query().Get("state"))
	if state != "" && state.Rank() < 0 {
		WriteError(w, model.NewValidationError([]model.FieldError{{
			Field:   "state",
			Message: "must be one of anxious, nervous, neutral, confident, excited",
		}}))
		return
	}

	exercises, err := h.referenceService.BreathingExercises(r.Context(), state)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list breathing exercises"))
		return
	}

	WriteCollection(w, http.StatusOK, exercises, len(exercises), map[string]string{
		"self": "/v1/breathing-exercises",
	})
}

// GetEmergencyTechniques handles GET /v1/emergency-techniques
func (h *ReferenceHandler) GetEmergencyTechniques(w http.ResponseWriter, r *http.Request) {
	WriteData(w, http.StatusOK, h.emergencyService.Techniques(), map[string]string{
		"self":   "/v1/emergency-techniques",
		"record": "/v1/emergency-events",
	})
}
