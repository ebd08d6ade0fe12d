package service

import (
	"context"
	"errors"
	"testing"

	"github.com/forgo/equimind/api/internal/model"
)

type strategyLogFixture struct {
	svc      *StrategyLogService
	logs     *mockStrategyLogRepo
	sessions *memSessionRepo
}

func newStrategyLogFixture() *strategyLogFixture {
	sessions := newMemSessionRepo(newTestSession("s1", "box-breathing"))
	logs := newMockStrategyLogRepo()
	sessionSvc := newTestSessionService(sessions)
	catalog := NewCatalogService(CatalogServiceConfig{
		Repo:    &mockStrategyRepo{},
		Catalog: NewCatalog(DefaultStrategies()),
	})

	return &strategyLogFixture{
		svc: NewStrategyLogService(StrategyLogServiceConfig{
			Repo:     logs,
			Sessions: sessionSvc,
			Catalog:  catalog,
			Now:      fixedClock(testNow),
		}),
		logs:     logs,
		sessions: sessions,
	}
}

func (f *strategyLogFixture) create(t *testing.T) *model.StrategyLog {
	t.Helper()
	log, err := f.svc.Create(context.Background(), &model.CreateStrategyLogRequest{
		RiderID:           "rider-1",
		SessionID:         "s1",
		StrategyID:        "cognitive-restructuring",
		TriggerAnxiety:    8,
		TriggerConfidence: 2,
	})
	if err != nil {
		t.Fatalf("create strategy log: %v", err)
	}
	return log
}

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func TestStrategyLogCreate(t *testing.T) {
	t.Parallel()

	f := newStrategyLogFixture()
	log := f.create(t)

	if log.Completed || log.EffectivenessRating != nil {
		t.Errorf("new log should be open and unrated: %+v", log)
	}
	if !log.UsedAt.Equal(testNow) {
		t.Errorf("UsedAt = %v, want %v", log.UsedAt, testNow)
	}
}

func TestStrategyLogCreate_Rejects(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newStrategyLogFixture()

	tests := []struct {
		name string
		req  model.CreateStrategyLogRequest
		want error
	}{
		{"unknown strategy", model.CreateStrategyLogRequest{RiderID: "rider-1", SessionID: "s1", StrategyID: "nope"}, ErrStrategyNotFound},
		{"unknown session", model.CreateStrategyLogRequest{RiderID: "rider-1", SessionID: "s9", StrategyID: "mindful-body-scan"}, ErrSessionNotFound},
		{"foreign session", model.CreateStrategyLogRequest{RiderID: "rider-2", SessionID: "s1", StrategyID: "mindful-body-scan"}, ErrSessionRiderMatch},
		{"anxiety out of range", model.CreateStrategyLogRequest{RiderID: "rider-1", SessionID: "s1", StrategyID: "mindful-body-scan", TriggerAnxiety: 12}, ErrInvalidRange},
	}

	for _, tt := range tests {
		req := tt.req
		if _, err := f.svc.Create(ctx, &req); !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestStrategyLogUpdate_CompleteAddsExerciseToSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newStrategyLogFixture()
	log := f.create(t)

	updated, err := f.svc.Update(ctx, "rider-1", log.ID, &model.UpdateStrategyLogRequest{
		Completed:           boolPtr(true),
		EffectivenessRating: intPtr(4),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Completed || updated.EffectivenessRating == nil || *updated.EffectivenessRating != 4 {
		t.Errorf("unexpected log: %+v", updated)
	}

	session, _ := f.sessions.GetByID(ctx, "s1")
	want := []string{"box-breathing", "cognitive-restructuring"}
	if !equalIDs(session.CompletedExercises, want) {
		t.Errorf("CompletedExercises = %v, want %v", session.CompletedExercises, want)
	}
}

func TestStrategyLogUpdate_OnlyOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newStrategyLogFixture()
	log := f.create(t)

	if _, err := f.svc.Update(ctx, "rider-1", log.ID, &model.UpdateStrategyLogRequest{Completed: boolPtr(true)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Update(ctx, "rider-1", log.ID, &model.UpdateStrategyLogRequest{Completed: boolPtr(true)}); !errors.Is(err, ErrStrategyLogAlreadyCompleted) {
		t.Errorf("expected ErrStrategyLogAlreadyCompleted, got %v", err)
	}

	if _, err := f.svc.Update(ctx, "rider-1", log.ID, &model.UpdateStrategyLogRequest{EffectivenessRating: intPtr(3)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Update(ctx, "rider-1", log.ID, &model.UpdateStrategyLogRequest{EffectivenessRating: intPtr(5)}); !errors.Is(err, ErrStrategyLogAlreadyRated) {
		t.Errorf("expected ErrStrategyLogAlreadyRated, got %v", err)
	}
}

func TestStrategyLogUpdate_OwnerOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newStrategyLogFixture()
	log := f.create(t)

	_, err := f.svc.Update(ctx, "rider-2", log.ID, &model.UpdateStrategyLogRequest{Completed: boolPtr(true)})
	if !errors.Is(err, ErrNotStrategyLogOwner) {
		t.Errorf("expected ErrNotStrategyLogOwner, got %v", err)
	}
	if f.logs.writes != 0 {
		t.Errorf("rejected update wrote %d times", f.logs.writes)
	}
}

func TestStrategyLogUpdate_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newStrategyLogFixture()
	log := f.create(t)

	if _, err := f.svc.Update(ctx, "rider-1", "missing", &model.UpdateStrategyLogRequest{Completed: boolPtr(true)}); !errors.Is(err, ErrStrategyLogNotFound) {
		t.Errorf("expected ErrStrategyLogNotFound, got %v", err)
	}
	for _, r := range []int{0, 6} {
		if _, err := f.svc.Update(ctx, "rider-1", log.ID, &model.UpdateStrategyLogRequest{EffectivenessRating: intPtr(r)}); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("rating %d: expected ErrInvalidRange, got %v", r, err)
		}
	}
}

func TestStrategyLogUpdate_SessionWriteFailureLeavesLogOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newStrategyLogFixture()
	log := f.create(t)

	storeDown := errors.New("session store unavailable")
	f.sessions.failWrites(storeDown)

	_, err := f.svc.Update(ctx, "rider-1", log.ID, &model.UpdateStrategyLogRequest{Completed: boolPtr(true)})
	if !errors.Is(err, storeDown) {
		t.Fatalf("expected the session store error, got %v", err)
	}
	stored, _ := f.logs.GetByID(ctx, log.ID)
	if stored.Completed {
		t.Fatal("log was closed although the session write failed")
	}

	f.sessions.failWrites(nil)
	updated, err := f.svc.Update(ctx, "rider-1", log.ID, &model.UpdateStrategyLogRequest{Completed: boolPtr(true)})
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if !updated.Completed {
		t.Error("retry should complete the log")
	}

	session, _ := f.sessions.GetByID(ctx, "s1")
	want := []string{"box-breathing", "cognitive-restructuring"}
	if !equalIDs(session.CompletedExercises, want) {
		t.Errorf("CompletedExercises = %v, want %v", session.CompletedExercises, want)
	}
}
