package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/middleware"
	"github.com/forgo/equimind/api/internal/model"
	"github.com/forgo/equimind/api/internal/repository"
	"github.com/forgo/equimind/api/internal/service"
)

// testAPI wires every handler over an in-memory store
type testAPI struct {
	handler http.Handler
	store   *database.MemoryStore
	catalog *service.CatalogService
}

func newTestAPI(t *testing.T, generator service.TextGenerator) *testAPI {
	t.Helper()

	store := database.NewMemoryStore()
	require.NoError(t, store.Connect(context.Background()))

	riderRepo := repository.NewRiderRepository(store)
	sessionRepo := repository.NewSessionRepository(store)
	emotionRepo := repository.NewEmotionRepository(store)
	emergencyRepo := repository.NewEmergencyEventRepository(store)

	catalogService := service.NewCatalogService(service.CatalogServiceConfig{
		Repo: repository.NewStrategyRepository(store),
	})
	require.NoError(t, catalogService.Reload(context.Background()))

	riderService := service.NewRiderService(service.RiderServiceConfig{Repo: riderRepo})
	sessionService := service.NewSessionService(service.SessionServiceConfig{
		Repo:      sessionRepo,
		RiderRepo: riderRepo,
	})
	emotionService := service.NewEmotionService(service.EmotionServiceConfig{
		Repo:     emotionRepo,
		Sessions: sessionService,
		Catalog:  catalogService,
	})
	horseService := service.NewHorseService(service.HorseServiceConfig{
		Repo:     repository.NewHorseObservationRepository(store),
		Sessions: sessionService,
	})
	logService := service.NewStrategyLogService(service.StrategyLogServiceConfig{
		Repo:     repository.NewStrategyLogRepository(store),
		Sessions: sessionService,
		Catalog:  catalogService,
	})
	emergencyService := service.NewEmergencyService(service.EmergencyServiceConfig{
		Repo:     emergencyRepo,
		Sessions: sessionService,
	})
	analyticsService := service.NewAnalyticsService(service.AnalyticsServiceConfig{
		RiderRepo:     riderRepo,
		SessionRepo:   sessionRepo,
		EmotionRepo:   emotionRepo,
		EmergencyRepo: emergencyRepo,
	})
	referenceService := service.NewReferenceService(service.ReferenceServiceConfig{
		BreathingRepo: repository.NewBreathingExerciseRepository(store),
	})
	coachService := service.NewCoachService(service.CoachServiceConfig{Generator: generator})

	mux := http.NewServeMux()
	NewHealthHandler(store, "test").RegisterRoutes(mux)
	NewRiderHandler(RiderHandlerConfig{
		Riders:    riderService,
		Sessions:  sessionService,
		Emotions:  emotionService,
		Analytics: analyticsService,
	}).RegisterRoutes(mux)
	NewSessionHandler(sessionService).RegisterRoutes(mux)
	NewEmotionHandler(emotionService).RegisterRoutes(mux)
	NewHorseHandler(horseService).RegisterRoutes(mux)
	NewStrategyHandler(catalogService).RegisterRoutes(mux)
	NewStrategyLogHandler(logService).RegisterRoutes(mux)
	NewReferenceHandler(referenceService, emergencyService).RegisterRoutes(mux)
	NewEmergencyHandler(emergencyService).RegisterRoutes(mux)
	NewCoachHandler(coachService).RegisterRoutes(mux)

	return &testAPI{
		handler: middleware.ActingRider(mux),
		store:   store,
		catalog: catalogService,
	}
}

// do sends a JSON request; riderID, when set, goes in X-Rider-ID
func (a *testAPI) do(t *testing.T, method, path string, body interface{}, riderID string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if riderID != "" {
		req.Header.Set(middleware.RiderIDHeader, riderID)
	}

	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

// decodeData unwraps a {"data": ...} envelope into out
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func decodeProblem(t *testing.T, rr *httptest.ResponseRecorder) model.ProblemDetails {
	t.Helper()

	var pd model.ProblemDetails
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pd))
	return pd
}

// createRider registers a rider and returns its id
func (a *testAPI) createRider(t *testing.T, email string) string {
	t.Helper()

	rr := a.do(t, http.MethodPost, "/v1/riders", model.CreateRiderRequest{
		Name:            "Test Rider",
		Email:           email,
		ExperienceLevel: "Intermediate",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var rider model.Rider
	decodeData(t, rr, &rider)
	return rider.ID
}

// createSession starts a session for riderID and returns its id
func (a *testAPI) createSession(t *testing.T, riderID string) string {
	t.Helper()

	rr := a.do(t, http.MethodPost, "/v1/sessions", model.CreateSessionRequest{
		RiderID:     riderID,
		SessionType: model.SessionTypePreRide,
		RideType:    model.RideTypeDressage,
	}, riderID)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var view model.SessionView
	decodeData(t, rr, &view)
	return view.ID
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }
