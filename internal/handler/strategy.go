package handler

import (
	"net/http"

	"github.com/forgo/equimind/api/internal/model"
	"github.com/forgo/equimind/api/internal/service"
)

// StrategyHandler handles strategy catalog and matching endpoints
type StrategyHandler struct {
	catalogService *service.CatalogService
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(catalogService *service.CatalogService) *StrategyHandler {
	return &StrategyHandler{catalogService: catalogService}
}

// RegisterRoutes registers strategy routes. The match route is registered
// before the id route so the literal segment wins.
func (h *StrategyHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/strategies", h.ListStrategies)
	mux.HandleFunc("POST /v1/strategies", h.CreateStrategy)
	mux.HandleFunc("GET /v1/strategies/match", h.MatchStrategies)
	mux.HandleFunc("GET /v1/strategies/{strategyId}", h.GetStrategy)
}

// ListStrategies handles GET /v1/strategies
func (h *StrategyHandler) ListStrategies(w http.ResponseWriter, r *http.Request) {
	strategies := h.catalogService.List()
	WriteCollection(w, http.StatusOK, strategies, len(strategies), map[string]string{
		"self":  "/v1/strategies",
		"match": "/v1/strategies/match{?anxiety,confidence}",
	})
}

// GetStrategy handles GET /v1/strategies/{strategyId}
func (h *StrategyHandler) GetStrategy(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("strategyId")

	strategy, err := h.catalogService.Get(id)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get strategy"))
		return
	}

	WriteData(w, http.StatusOK, strategy, map[string]string{
		"self": "/v1/strategies/" + id,
	})
}

// CreateStrategy handles POST /v1/strategies
func (h *StrategyHandler) CreateStrategy(w http.ResponseWriter, r *http.Request) {
	var req model.Strategy
	if !decodeRequest(w, r, &req) {
		return
	}

	strategy, err := h.catalogService.Create(r.Context(), req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "create strategy"))
		return
	}

	WriteData(w, http.StatusCreated, strategy, map[string]string{
		"self": "/v1/strategies/" + strategy.ID,
	})
}

// MatchStrategies handles GET /v1/strategies/match?anxiety=&confidence=
func (h *StrategyHandler) MatchStrategies(w http.ResponseWriter, r *http.Request) {
	var fieldErrs []model.FieldError
	anxiety, err := parseLevel(r, "anxiety")
	if err != nil {
		fieldErrs = append(fieldErrs, model.FieldError{Field: "anxiety", Message: err.Error()})
	}
	confidence, err := parseLevel(r, "confidence")
	if err != nil {
		fieldErrs = append(fieldErrs, model.FieldError{Field: "confidence", Message: err.Error()})
	}
	if len(fieldErrs) > 0 {
		WriteError(w, model.NewValidationError(fieldErrs))
		return
	}

	result, err := h.catalogService.Match(anxiety, confidence)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "match strategies"))
		return
	}

	WriteData(w, http.StatusOK, result, map[string]string{
		"strategies": "/v1/strategies",
	})
}
