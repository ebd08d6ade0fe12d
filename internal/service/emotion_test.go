package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/forgo/equimind/api/internal/model"
)

func newTestEmotionService(repo EmotionRepository) *EmotionService {
	return NewEmotionService(EmotionServiceConfig{
		Repo:     repo,
		Sessions: newTestSessionService(newMemSessionRepo(newTestSession("s1"))),
		Catalog: NewCatalogService(CatalogServiceConfig{
			Repo:    &mockStrategyRepo{},
			Catalog: NewCatalog(DefaultStrategies()),
		}),
		Now: fixedClock(testNow),
	})
}

func TestEmotionRecord_ClassifiesAndRecommends(t *testing.T) {
	t.Parallel()

	var stored *model.EmotionAssessment
	svc := newTestEmotionService(&mockEmotionRepo{createFunc: func(ctx context.Context, a *model.EmotionAssessment) error {
		stored = a
		return nil
	}})

	result, err := svc.Record(context.Background(), &model.CreateEmotionAssessmentRequest{
		RiderID:         "rider-1",
		SessionID:       "s1",
		EmotionLevel:    3,
		AnxietyLevel:    8,
		ConfidenceLevel: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil || stored.EmotionalState != model.EmotionalStateNervous {
		t.Errorf("stored state = %+v, want nervous", stored)
	}
	want := []string{"cognitive-restructuring", "progressive-muscle-relaxation"}
	if ids := matchedIDs(result.Recommendations); !equalIDs(ids, want) {
		t.Errorf("recommendations = %v, want %v", ids, want)
	}
}

func TestEmotionRecord_FallbackRecommendation(t *testing.T) {
	t.Parallel()

	svc := newTestEmotionService(&mockEmotionRepo{})
	result, err := svc.Record(context.Background(), &model.CreateEmotionAssessmentRequest{
		RiderID:         "rider-1",
		SessionID:       "s1",
		EmotionLevel:    9,
		AnxietyLevel:    1,
		ConfidenceLevel: 9,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := matchedIDs(result.Recommendations); !equalIDs(ids, []string{"grounding-5-4-3-2-1"}) {
		t.Errorf("recommendations = %v, want grounding fallback", ids)
	}
	if result.Assessment.EmotionalState != model.EmotionalStateExcited {
		t.Errorf("state = %q, want excited", result.Assessment.EmotionalState)
	}
}

func TestEmotionRecord_RejectsBeforeStoring(t *testing.T) {
	t.Parallel()

	created := 0
	svc := newTestEmotionService(&mockEmotionRepo{createFunc: func(ctx context.Context, a *model.EmotionAssessment) error {
		created++
		return nil
	}})

	tests := []struct {
		name string
		req  model.CreateEmotionAssessmentRequest
		want error
	}{
		{"emotion nan", model.CreateEmotionAssessmentRequest{RiderID: "rider-1", SessionID: "s1", EmotionLevel: math.NaN()}, ErrInvalidRange},
		{"anxiety high", model.CreateEmotionAssessmentRequest{RiderID: "rider-1", SessionID: "s1", AnxietyLevel: 10.5}, ErrInvalidRange},
		{"confidence negative", model.CreateEmotionAssessmentRequest{RiderID: "rider-1", SessionID: "s1", ConfidenceLevel: -2}, ErrInvalidRange},
		{"foreign session", model.CreateEmotionAssessmentRequest{RiderID: "rider-2", SessionID: "s1"}, ErrSessionRiderMatch},
	}
	for _, tt := range tests {
		req := tt.req
		if _, err := svc.Record(context.Background(), &req); !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
	if created != 0 {
		t.Errorf("rejected readings were stored %d times", created)
	}
}

func TestEmotionListForRider_DefaultLimit(t *testing.T) {
	t.Parallel()

	var gotLimit int
	svc := newTestEmotionService(&mockEmotionRepo{listByRiderFunc: func(ctx context.Context, riderID string, limit int) ([]*model.EmotionAssessment, error) {
		gotLimit = limit
		return nil, nil
	}})

	if _, err := svc.ListForRider(context.Background(), "rider-1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != model.DefaultSessionListLimit {
		t.Errorf("limit = %d, want %d", gotLimit, model.DefaultSessionListLimit)
	}
	if _, err := svc.ListForRider(context.Background(), "rider-1", -5); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}
