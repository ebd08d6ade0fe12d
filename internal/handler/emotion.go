package handler

import (
	"net/http"

	"github.com/forgo/equimind/api/internal/model"
	"github.com/forgo/equimind/api/internal/service"
)

// EmotionHandler handles emotion reading endpoints
type EmotionHandler struct {
	emotionService *service.EmotionService
}

// NewEmotionHandler creates a new emotion handler
func NewEmotionHandler(emotionService *service.EmotionService) *EmotionHandler {
	return &EmotionHandler{emotionService: emotionService}
}

// RegisterRoutes registers emotion routes
func (h *EmotionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/emotions", h.RecordEmotion)
}

// RecordEmotion handles POST /v1/emotions. The response carries the classified
// reading and the strategies recommended for it.
func (h *EmotionHandler) RecordEmotion(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEmotionAssessmentRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.emotionService.Record(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "record emotion"))
		return
	}

	WriteData(w, http.StatusCreated, result, map[string]string{
		"session": "/v1/sessions/" + result.Assessment.SessionID,
		"history": "/v1/riders/" + result.Assessment.RiderID + "/emotions",
	})
}
