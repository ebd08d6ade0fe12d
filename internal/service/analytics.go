package service

import (
	"context"
	"fmt"
	"math"

	"github.com/forgo/equimind/api/internal/model"
)

// trendThreshold is the minimum change in mean performance score, between the
// older and newer half of the window, that counts as a trend
const trendThreshold = 0.5

// ComputeSnapshot summarises a rider's recent sessions and readings. Both
// slices are expected newest first and already bounded by the caller.
// Averages over an empty slice are 0.
func ComputeSnapshot(riderID string, sessions []*model.RidingSession, emotions []*model.EmotionAssessment, emergencyCount int) *model.RiderAnalytics {
	snapshot := &model.RiderAnalytics{
		RiderID:                riderID,
		TotalSessions:          len(sessions),
		EmergencyEventsCount:   emergencyCount,
		RecentPerformanceTrend: RecentPerformanceTrend(sessions),
	}

	for _, s := range sessions {
		if s.CompletedAt != nil {
			snapshot.CompletedSessions++
		}
	}

	if len(emotions) > 0 {
		var anxiety, confidence float64
		for _, e := range emotions {
			anxiety += e.AnxietyLevel
			confidence += e.ConfidenceLevel
		}
		n := float64(len(emotions))
		snapshot.AvgAnxietyLevel = roundToTenth(anxiety / n)
		snapshot.AvgConfidenceLevel = roundToTenth(confidence / n)
	}

	return snapshot
}

// RecentPerformanceTrend compares the mean performance score of the older half
// of the scored sessions against the newer half. Sessions are newest first.
func RecentPerformanceTrend(sessions []*model.RidingSession) model.PerformanceTrend {
	// oldest first
	scores := make([]float64, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		if sessions[i].PerformanceScore != nil {
			scores = append(scores, *sessions[i].PerformanceScore)
		}
	}
	if len(scores) < 2 {
		return model.TrendInsufficientData
	}

	half := len(scores) / 2
	older := mean(scores[:half])
	newer := mean(scores[len(scores)-half:])

	switch diff := newer - older; {
	case diff >= trendThreshold:
		return model.TrendImproving
	case diff <= -trendThreshold:
		return model.TrendDeclining
	default:
		return model.TrendStable
	}
}

// roundToTenth rounds half away from zero to one decimal place
func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// AnalyticsService builds rolling analytics snapshots from the store
type AnalyticsService struct {
	riderRepo     RiderRepository
	sessionRepo   SessionRepository
	emotionRepo   EmotionRepository
	emergencyRepo EmergencyEventRepository
	window        int
}

// AnalyticsServiceConfig holds configuration for the analytics service
type AnalyticsServiceConfig struct {
	RiderRepo     RiderRepository // optional; when set, unknown riders are rejected
	SessionRepo   SessionRepository
	EmotionRepo   EmotionRepository
	EmergencyRepo EmergencyEventRepository
	Window        int // sessions and readings per snapshot (default 10)
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(cfg AnalyticsServiceConfig) *AnalyticsService {
	window := cfg.Window
	if window <= 0 {
		window = model.AnalyticsWindow
	}
	return &AnalyticsService{
		riderRepo:     cfg.RiderRepo,
		sessionRepo:   cfg.SessionRepo,
		emotionRepo:   cfg.EmotionRepo,
		emergencyRepo: cfg.EmergencyRepo,
		window:        window,
	}
}

// GetRiderAnalytics returns the snapshot over the rider's most recent window
func (s *AnalyticsService) GetRiderAnalytics(ctx context.Context, riderID string) (*model.RiderAnalytics, error) {
	if s.riderRepo != nil {
		rider, err := s.riderRepo.GetByID(ctx, riderID)
		if err != nil {
			return nil, err
		}
		if rider == nil {
			return nil, ErrRiderNotFound
		}
	}

	sessions, err := s.sessionRepo.ListByRider(ctx, riderID, s.window)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	emotions, err := s.emotionRepo.ListByRider(ctx, riderID, s.window)
	if err != nil {
		return nil, fmt.Errorf("failed to load emotions: %w", err)
	}
	emergencies, err := s.emergencyRepo.CountByRider(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("failed to count emergency events: %w", err)
	}

	return ComputeSnapshot(riderID, sessions, emotions, emergencies), nil
}
