package handler

import (
	"net/http"

	"github.com/forgo/equimind/api/internal/model"
	"github.com/forgo/equimind/api/internal/service"
)

// HorseHandler handles horse observation endpoints
type HorseHandler struct {
	horseService *service.HorseService
}

// NewHorseHandler creates a new horse handler
func NewHorseHandler(horseService *service.HorseService) *HorseHandler {
	return &HorseHandler{horseService: horseService}
}

// RegisterRoutes registers horse observation routes
func (h *HorseHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/horse-observations", h.RecordObservation)
}

// RecordObservation handles POST /v1/horse-observations
func (h *HorseHandler) RecordObservation(w http.ResponseWriter, r *http.Request) {
	var req model.CreateHorseObservationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	observation, err := h.horseService.Record(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "record horse observation"))
		return
	}

	WriteData(w, http.StatusCreated, observation, map[string]string{
		"session": "/v1/sessions/" + observation.SessionID,
	})
}
