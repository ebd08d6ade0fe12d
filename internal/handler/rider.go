package handler

import (
	"net/http"

	"github.com/forgo/equimind/api/internal/model"
	"github.com/forgo/equimind/api/internal/service"
)

// RiderHandler handles rider profile and per-rider read endpoints
type RiderHandler struct {
	riderService     *service.RiderService
	sessionService   *service.SessionService
	emotionService   *service.EmotionService
	analyticsService *service.AnalyticsService
}

// RiderHandlerConfig holds the services the rider handler uses
type RiderHandlerConfig struct {
	Riders    *service.RiderService
	Sessions  *service.SessionService
	Emotions  *service.EmotionService
	Analytics *service.AnalyticsService
}

// NewRiderHandler creates a new rider handler
func NewRiderHandler(cfg RiderHandlerConfig) *RiderHandler {
	return &RiderHandler{
		riderService:     cfg.Riders,
		sessionService:   cfg.Sessions,
		emotionService:   cfg.Emotions,
		analyticsService: cfg.Analytics,
	}
}

// RegisterRoutes registers rider routes
func (h *RiderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/riders", h.CreateRider)
	mux.HandleFunc("GET /v1/riders/{riderId}", h.GetRider)
	mux.HandleFunc("GET /v1/riders/{riderId}/sessions", h.ListSessions)
	mux.HandleFunc("GET /v1/riders/{riderId}/emotions", h.ListEmotions)
	mux.HandleFunc("GET /v1/riders/{riderId}/analytics", h.GetAnalytics)
}

// CreateRider handles POST /v1/riders
func (h *RiderHandler) CreateRider(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRiderRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	rider, err := h.riderService.Create(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "create rider"))
		return
	}

	WriteData(w, http.StatusCreated, rider, map[string]string{
		"self":      "/v1/riders/" + rider.ID,
		"sessions":  "/v1/riders/" + rider.ID + "/sessions",
		"analytics": "/v1/riders/" + rider.ID + "/analytics",
	})
}

// GetRider handles GET /v1/riders/{riderId}
func (h *RiderHandler) GetRider(w http.ResponseWriter, r *http.Request) {
	riderID := r.PathValue("riderId")

	rider, err := h.riderService.Get(r.Context(), riderID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get rider"))
		return
	}

	WriteData(w, http.StatusOK, rider, map[string]string{
		"self": "/v1/riders/" + riderID,
	})
}

// ListSessions handles GET /v1/riders/{riderId}/sessions?limit=
func (h *RiderHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	riderID := r.PathValue("riderId")

	limit, err := parseLimit(r)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	sessions, err := h.sessionService.ListSessionsForRider(r.Context(), riderID, limit)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list sessions"))
		return
	}

	views := make([]*model.SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, service.View(s))
	}

	WriteCollection(w, http.StatusOK, views, len(views), map[string]string{
		"self": "/v1/riders/" + riderID + "/sessions",
	})
}

// ListEmotions handles GET /v1/riders/{riderId}/emotions?limit=
func (h *RiderHandler) ListEmotions(w http.ResponseWriter, r *http.Request) {
	riderID := r.PathValue("riderId")

	limit, err := parseLimit(r)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	emotions, err := h.emotionService.ListForRider(r.Context(), riderID, limit)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list emotions"))
		return
	}

	WriteCollection(w, http.StatusOK, emotions, len(emotions), map[string]string{
		"self": "/v1/riders/" + riderID + "/emotions",
	})
}

// GetAnalytics handles GET /v1/riders/{riderId}/analytics
func (h *RiderHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	riderID := r.PathValue("riderId")

	snapshot, err := h.analyticsService.GetRiderAnalytics(r.Context(), riderID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get analytics"))
		return
	}

	WriteData(w, http.StatusOK, snapshot, map[string]string{
		"self": "/v1/riders/" + riderID + "/analytics",
	})
}
