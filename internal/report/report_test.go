package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/equimind/api/internal/model"
)

type mockSessions struct {
	listFunc func(ctx context.Context, riderID string, limit int) ([]*model.RidingSession, error)
}

func (m *mockSessions) ListByRider(ctx context.Context, riderID string, limit int) ([]*model.RidingSession, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, riderID, limit)
	}
	return nil, nil
}

type mockEmotions struct {
	listFunc func(ctx context.Context, riderID string, limit int) ([]*model.EmotionAssessment, error)
}

func (m *mockEmotions) ListByRider(ctx context.Context, riderID string, limit int) ([]*model.EmotionAssessment, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, riderID, limit)
	}
	return nil, nil
}

// Wednesday
var testNow = time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func newTestGenerator(t *testing.T, sessions []*model.RidingSession, emotions []*model.EmotionAssessment) *Generator {
	t.Helper()

	g, err := Open(Config{
		Sessions: &mockSessions{listFunc: func(ctx context.Context, riderID string, limit int) ([]*model.RidingSession, error) {
			return sessions, nil
		}},
		Emotions: &mockEmotions{listFunc: func(ctx context.Context, riderID string, limit int) ([]*model.EmotionAssessment, error) {
			return emotions, nil
		}},
		Now: func() time.Time { return testNow },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestWeekly_AggregatesByWeek(t *testing.T) {
	t.Parallel()

	thisWeek := time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC)
	lastWeek := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	longAgo := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	sessions := []*model.RidingSession{
		{ID: "s1", CreatedAt: thisWeek, CompletedAt: timePtr(thisWeek), PerformanceScore: floatPtr(8)},
		{ID: "s2", CreatedAt: thisWeek.Add(time.Hour)},
		{ID: "s3", CreatedAt: lastWeek, CompletedAt: timePtr(lastWeek), PerformanceScore: floatPtr(6)},
		{ID: "s4", CreatedAt: longAgo, CompletedAt: timePtr(longAgo), PerformanceScore: floatPtr(1)},
	}
	emotions := []*model.EmotionAssessment{
		{ID: "e1", Timestamp: thisWeek, AnxietyLevel: 3, ConfidenceLevel: 7},
		{ID: "e2", Timestamp: thisWeek, AnxietyLevel: 4, ConfidenceLevel: 8},
		{ID: "e3", Timestamp: lastWeek, AnxietyLevel: 6, ConfidenceLevel: 4},
	}

	g := newTestGenerator(t, sessions, emotions)

	weeks, err := g.Weekly(context.Background(), "rider-1", 4)
	require.NoError(t, err)
	require.Len(t, weeks, 2)

	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), weeks[0].WeekStart.UTC())
	assert.Equal(t, 1, weeks[0].Sessions)
	assert.Equal(t, 100.0, weeks[0].CompletionRate)
	require.NotNil(t, weeks[0].AvgAnxiety)
	assert.Equal(t, 6.0, *weeks[0].AvgAnxiety)

	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), weeks[1].WeekStart.UTC())
	assert.Equal(t, 2, weeks[1].Sessions)
	assert.Equal(t, 1, weeks[1].CompletedSessions)
	assert.Equal(t, 50.0, weeks[1].CompletionRate)
	require.NotNil(t, weeks[1].AvgPerformance)
	assert.Equal(t, 8.0, *weeks[1].AvgPerformance)
	assert.Equal(t, 2, weeks[1].Readings)
	require.NotNil(t, weeks[1].AvgAnxiety)
	assert.Equal(t, 3.5, *weeks[1].AvgAnxiety)
	require.NotNil(t, weeks[1].AvgConfidence)
	assert.Equal(t, 7.5, *weeks[1].AvgConfidence)
}

func TestWeekly_ReadingsWithoutSessions(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, nil, []*model.EmotionAssessment{
		{ID: "e1", Timestamp: testNow, AnxietyLevel: 2, ConfidenceLevel: 9},
	})

	weeks, err := g.Weekly(context.Background(), "rider-1", 1)
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.Equal(t, 0, weeks[0].Sessions)
	assert.Nil(t, weeks[0].AvgPerformance)
	assert.Equal(t, 1, weeks[0].Readings)
}

func TestWeekly_RestagesBetweenRuns(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, []*model.RidingSession{{ID: "s1", CreatedAt: testNow}}, nil)

	for i := 0; i < 2; i++ {
		weeks, err := g.Weekly(context.Background(), "rider-1", 1)
		require.NoError(t, err)
		require.Len(t, weeks, 1)
		assert.Equal(t, 1, weeks[0].Sessions)
	}
}

func TestWeekly_InvalidWeeks(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, nil, nil)

	for _, weeks := range []int{-1, MaxWeeks + 1} {
		_, err := g.Weekly(context.Background(), "rider-1", weeks)
		assert.ErrorIs(t, err, ErrInvalidWeeks)
	}
}

func TestWeekly_SourceError(t *testing.T) {
	t.Parallel()

	g, err := Open(Config{
		Sessions: &mockSessions{listFunc: func(ctx context.Context, riderID string, limit int) ([]*model.RidingSession, error) {
			return nil, errors.New("store down")
		}},
		Emotions: &mockEmotions{},
	})
	require.NoError(t, err)
	defer g.Close()

	_, err = g.Weekly(context.Background(), "rider-1", 2)
	assert.Error(t, err)
}

func TestWeekStart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{in: time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC), want: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)},
		{in: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), want: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)},
		{in: time.Date(2026, 3, 22, 23, 59, 0, 0, time.UTC), want: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, weekStart(tt.in), tt.in.String())
	}
}

func TestWriteTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteTable(&buf, []WeekSummary{{
		WeekStart:      time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		Sessions:       2,
		CompletionRate: 50,
		AvgAnxiety:     floatPtr(3.5),
	}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "WEEK")
	assert.Contains(t, out, "2026-03-16")
	assert.Contains(t, out, "3.5")
	assert.Contains(t, out, "-")
}
