// Package report builds weekly trend reports for a rider by loading their
// sessions and emotion readings into an in-memory DuckDB database.
package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"sync"
	"text/tabwriter"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/forgo/equimind/api/internal/model"
)

// Week bounds
const (
	DefaultWeeks = 8
	MaxWeeks     = 52
)

// maxRows bounds how many sessions and readings are loaded per report
const maxRows = 5000

// ErrInvalidWeeks is returned for a week count outside 1..MaxWeeks
var ErrInvalidWeeks = errors.New("weeks must be between 1 and 52")

// SessionSource lists a rider's sessions, newest first
type SessionSource interface {
	ListByRider(ctx context.Context, riderID string, limit int) ([]*model.RidingSession, error)
}

// EmotionSource lists a rider's emotion readings, newest first
type EmotionSource interface {
	ListByRider(ctx context.Context, riderID string, limit int) ([]*model.EmotionAssessment, error)
}

// WeekSummary aggregates one calendar week (weeks start on Monday).
// Averages are nil when the week has nothing to average.
type WeekSummary struct {
	WeekStart         time.Time `json:"week_start"`
	Sessions          int       `json:"sessions"`
	CompletedSessions int       `json:"completed_sessions"`
	CompletionRate    float64   `json:"completion_rate"`
	AvgPerformance    *float64  `json:"avg_performance,omitempty"`
	Readings          int       `json:"readings"`
	AvgAnxiety        *float64  `json:"avg_anxiety,omitempty"`
	AvgConfidence     *float64  `json:"avg_confidence,omitempty"`
}

// Generator runs report queries against a private DuckDB instance
type Generator struct {
	db       *sql.DB
	sessions SessionSource
	emotions EmotionSource
	now      func() time.Time
	mu       sync.Mutex
}

// Config holds generator dependencies
type Config struct {
	Sessions SessionSource
	Emotions EmotionSource
	Now      func() time.Time
}

// Open starts an in-memory DuckDB and creates the staging tables
func Open(cfg Config) (*Generator, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range []string{
		`CREATE TABLE report_sessions (
			created_at TIMESTAMP NOT NULL,
			completed BOOLEAN NOT NULL,
			performance_score DOUBLE
		)`,
		`CREATE TABLE report_emotions (
			ts TIMESTAMP NOT NULL,
			anxiety DOUBLE NOT NULL,
			confidence DOUBLE NOT NULL
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create report tables: %w", err)
		}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Generator{
		db:       db,
		sessions: cfg.Sessions,
		emotions: cfg.Emotions,
		now:      now,
	}, nil
}

// Close releases the DuckDB instance
func (g *Generator) Close() error {
	return g.db.Close()
}

// Weekly returns one summary per week that has activity, oldest first,
// covering the last weeks weeks including the current one
func (g *Generator) Weekly(ctx context.Context, riderID string, weeks int) ([]WeekSummary, error) {
	if weeks == 0 {
		weeks = DefaultWeeks
	}
	if weeks < 1 || weeks > MaxWeeks {
		return nil, ErrInvalidWeeks
	}

	sessions, err := g.sessions.ListByRider(ctx, riderID, maxRows)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	emotions, err := g.emotions.ListByRider(ctx, riderID, maxRows)
	if err != nil {
		return nil, fmt.Errorf("failed to load emotions: %w", err)
	}

	since := weekStart(g.now().UTC()).AddDate(0, 0, -7*(weeks-1))

	// staging tables are shared, one report at a time
	g.mu.Lock()
	defer g.mu.Unlock()

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin report: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := stage(ctx, tx, sessions, emotions); err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, weeklyQuery, since, since)
	if err != nil {
		return nil, fmt.Errorf("failed to run weekly query: %w", err)
	}
	defer rows.Close()

	var out []WeekSummary
	for rows.Next() {
		var (
			ws                                WeekSummary
			sessionCount, completed, readings int64
			performance, anxiety, confidence  sql.NullFloat64
		)
		if err := rows.Scan(&ws.WeekStart, &sessionCount, &completed, &performance, &readings, &anxiety, &confidence); err != nil {
			return nil, fmt.Errorf("failed to scan week: %w", err)
		}
		ws.Sessions = int(sessionCount)
		ws.CompletedSessions = int(completed)
		ws.Readings = int(readings)
		if sessionCount > 0 {
			ws.CompletionRate = roundToTenth(100 * float64(completed) / float64(sessionCount))
		}
		ws.AvgPerformance = nullable(performance)
		ws.AvgAnxiety = nullable(anxiety)
		ws.AvgConfidence = nullable(confidence)
		out = append(out, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read weeks: %w", err)
	}
	return out, nil
}

const weeklyQuery = `
WITH s AS (
	SELECT date_trunc('week', created_at) AS week,
		count(*) AS sessions,
		count(*) FILTER (WHERE completed) AS completed,
		round(avg(performance_score), 1) AS avg_performance
	FROM report_sessions
	WHERE created_at >= ?
	GROUP BY 1
), e AS (
	SELECT date_trunc('week', ts) AS week,
		count(*) AS readings,
		round(avg(anxiety), 1) AS avg_anxiety,
		round(avg(confidence), 1) AS avg_confidence
	FROM report_emotions
	WHERE ts >= ?
	GROUP BY 1
)
SELECT CAST(coalesce(s.week, e.week) AS TIMESTAMP) AS week,
	coalesce(s.sessions, 0),
	coalesce(s.completed, 0),
	s.avg_performance,
	coalesce(e.readings, 0),
	e.avg_anxiety,
	e.avg_confidence
FROM s FULL OUTER JOIN e ON s.week = e.week
ORDER BY week`

// stage replaces the staging tables' contents with one rider's data
func stage(ctx context.Context, tx *sql.Tx, sessions []*model.RidingSession, emotions []*model.EmotionAssessment) error {
	for _, stmt := range []string{"DELETE FROM report_sessions", "DELETE FROM report_emotions"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear staging tables: %w", err)
		}
	}

	insertSession, err := tx.PrepareContext(ctx, "INSERT INTO report_sessions VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare session insert: %w", err)
	}
	defer insertSession.Close()

	for _, s := range sessions {
		var score interface{}
		if s.PerformanceScore != nil {
			score = *s.PerformanceScore
		}
		if _, err := insertSession.ExecContext(ctx, s.CreatedAt.UTC(), s.CompletedAt != nil, score); err != nil {
			return fmt.Errorf("failed to stage session %s: %w", s.ID, err)
		}
	}

	insertEmotion, err := tx.PrepareContext(ctx, "INSERT INTO report_emotions VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare emotion insert: %w", err)
	}
	defer insertEmotion.Close()

	for _, e := range emotions {
		if _, err := insertEmotion.ExecContext(ctx, e.Timestamp.UTC(), e.AnxietyLevel, e.ConfidenceLevel); err != nil {
			return fmt.Errorf("failed to stage emotion %s: %w", e.ID, err)
		}
	}
	return nil
}

// WriteTable prints summaries as an aligned text table
func WriteTable(w io.Writer, weeks []WeekSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WEEK\tSESSIONS\tCOMPLETED %\tPERFORMANCE\tREADINGS\tANXIETY\tCONFIDENCE")
	for _, ws := range weeks {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%s\t%d\t%s\t%s\n",
			ws.WeekStart.Format("2006-01-02"),
			ws.Sessions,
			ws.CompletionRate,
			formatAvg(ws.AvgPerformance),
			ws.Readings,
			formatAvg(ws.AvgAnxiety),
			formatAvg(ws.AvgConfidence),
		)
	}
	return tw.Flush()
}

// weekStart returns the Monday 00:00 UTC on or before t, matching DuckDB's
// date_trunc('week', ...)
func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func formatAvg(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
