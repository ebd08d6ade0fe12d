package model

// PerformanceTrend summarises the direction of recent performance scores
type PerformanceTrend string

const (
	TrendImproving        PerformanceTrend = "improving"
	TrendDeclining        PerformanceTrend = "declining"
	TrendStable           PerformanceTrend = "stable"
	TrendInsufficientData PerformanceTrend = "insufficient_data"
)

// AnalyticsWindow is how many recent sessions and readings a snapshot covers
const AnalyticsWindow = 10

// RiderAnalytics is a rolling snapshot over a rider's most recent activity.
// Computed on request, never stored.
type RiderAnalytics struct {
	RiderID                string           `json:"rider_id"`
	TotalSessions          int              `json:"total_sessions"`
	AvgConfidenceLevel     float64          `json:"avg_confidence_level"`
	AvgAnxietyLevel        float64          `json:"avg_anxiety_level"`
	RecentPerformanceTrend PerformanceTrend `json:"recent_performance_trend"`
	CompletedSessions      int              `json:"completed_sessions"`
	EmergencyEventsCount   int              `json:"emergency_events_count"`
}
