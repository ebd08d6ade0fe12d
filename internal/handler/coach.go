package handler

import (
	"net/http"

	"github.com/forgo/equimind/api/internal/model"
	"github.com/forgo/equimind/api/internal/service"
)

// CoachHandler handles coaching conversation endpoints. Responses are always
// 200; generator failures surface as fallback content.
type CoachHandler struct {
	coachService *service.CoachService
}

// NewCoachHandler creates a new coach handler
func NewCoachHandler(coachService *service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// RegisterRoutes registers coach routes
func (h *CoachHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/coach/initialize", h.Initialize)
	mux.HandleFunc("POST /v1/coach/chat", h.Chat)
	mux.HandleFunc("POST /v1/coach/competition-plan", h.CompetitionPlan)
}

// Initialize handles POST /v1/coach/initialize
func (h *CoachHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req model.CoachInitializeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	WriteData(w, http.StatusOK, h.coachService.Initialize(r.Context(), &req), nil)
}

// Chat handles POST /v1/coach/chat
func (h *CoachHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req model.CoachChatRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	WriteData(w, http.StatusOK, h.coachService.Chat(r.Context(), &req), nil)
}

// CompetitionPlan handles POST /v1/coach/competition-plan
func (h *CoachHandler) CompetitionPlan(w http.ResponseWriter, r *http.Request) {
	var req model.CompetitionPlanRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	WriteData(w, http.StatusOK, h.coachService.CompetitionPlan(r.Context(), &req), nil)
}
