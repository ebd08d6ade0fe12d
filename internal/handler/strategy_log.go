package handler

import (
	"net/http"

	"github.com/forgo/equimind/api/internal/middleware"
	"github.com/forgo/equimind/api/internal/model"
	"github.com/forgo/equimind/api/internal/service"
)

// StrategyLogHandler handles strategy usage log endpoints
type StrategyLogHandler struct {
	logService *service.StrategyLogService
}

// NewStrategyLogHandler creates a new strategy log handler
func NewStrategyLogHandler(logService *service.StrategyLogService) *StrategyLogHandler {
	return &StrategyLogHandler{logService: logService}
}

// RegisterRoutes registers strategy log routes. Updates need an acting rider.
func (h *StrategyLogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/strategy-logs", h.CreateLog)
	mux.HandleFunc("GET /v1/strategy-logs/{logId}", h.GetLog)
	mux.Handle("PATCH /v1/strategy-logs/{logId}", middleware.RequireRider(http.HandlerFunc(h.UpdateLog)))
}

func strategyLogLinks(log *model.StrategyLog) map[string]string {
	return map[string]string{
		"self":     "/v1/strategy-logs/" + log.ID,
		"session":  "/v1/sessions/" + log.SessionID,
		"strategy": "/v1/strategies/" + log.StrategyID,
	}
}

// CreateLog handles POST /v1/strategy-logs
func (h *StrategyLogHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	var req model.CreateStrategyLogRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	log, err := h.logService.Create(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "create strategy log"))
		return
	}

	WriteData(w, http.StatusCreated, log, strategyLogLinks(log))
}

// GetLog handles GET /v1/strategy-logs/{logId}
func (h *StrategyLogHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	log, err := h.logService.Get(r.Context(), r.PathValue("logId"))
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get strategy log"))
		return
	}

	WriteData(w, http.StatusOK, log, strategyLogLinks(log))
}

// UpdateLog handles PATCH /v1/strategy-logs/{logId}
func (h *StrategyLogHandler) UpdateLog(w http.ResponseWriter, r *http.Request) {
	riderID := middleware.GetRiderID(r.Context())

	var req model.UpdateStrategyLogRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	log, err := h.logService.Update(r.Context(), riderID, r.PathValue("logId"), &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "update strategy log"))
		return
	}

	WriteData(w, http.StatusOK, log, strategyLogLinks(log))
}
