package model

import "time"

// SessionType is the phase of a ride a session covers
type SessionType string

const (
	SessionTypePreRide    SessionType = "pre_ride"
	SessionTypeDuringRide SessionType = "during_ride"
	SessionTypePostRide   SessionType = "post_ride"
)

// SessionState is derived from a session's fields, never stored
type SessionState string

const (
	SessionStateCreated    SessionState = "created"
	SessionStateInProgress SessionState = "in_progress"
	SessionStateCompleted  SessionState = "completed"
)

// Progress bounds
const (
	MinProgress = 0.0
	MaxProgress = 100.0
)

// DefaultSessionListLimit is used when a caller does not pass a limit
const DefaultSessionListLimit = 20

// RidingSession is one training session and everything recorded during it
type RidingSession struct {
	ID                   string      `json:"id" bson:"_id"`
	RiderID              string      `json:"rider_id" bson:"rider_id"`
	SessionType          SessionType `json:"session_type" bson:"session_type"`
	RideType             RideType    `json:"ride_type" bson:"ride_type"`
	PlannedDuration      *int        `json:"planned_duration,omitempty" bson:"planned_duration,omitempty"`
	ActualDuration       *int        `json:"actual_duration,omitempty" bson:"actual_duration,omitempty"`
	EmotionAssessmentID  *string     `json:"emotion_assessment_id,omitempty" bson:"emotion_assessment_id,omitempty"`
	HorseObservationID   *string     `json:"horse_observation_id,omitempty" bson:"horse_observation_id,omitempty"`
	CompletedExercises   []string    `json:"completed_exercises" bson:"completed_exercises"`
	VoiceMemoURL         *string     `json:"voice_memo_url,omitempty" bson:"voice_memo_url,omitempty"`
	ProgressPercentage   float64     `json:"progress_percentage" bson:"progress_percentage"`
	PerformanceScore     *float64    `json:"performance_score,omitempty" bson:"performance_score,omitempty"`
	AIInsights           *string     `json:"ai_insights,omitempty" bson:"ai_insights,omitempty"`
	EmergencySupportUsed bool        `json:"emergency_support_used" bson:"emergency_support_used"`
	CreatedAt            time.Time   `json:"created_at" bson:"created_at"`
	StartedAt            *time.Time  `json:"started_at,omitempty" bson:"started_at,omitempty"`
	CompletedAt          *time.Time  `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// SessionView is a session with its derived lifecycle state
type SessionView struct {
	*RidingSession
	State SessionState `json:"state"`
}

// CreateSessionRequest represents a request to start a session
type CreateSessionRequest struct {
	RiderID         string      `json:"rider_id" validate:"required"`
	SessionType     SessionType `json:"session_type" validate:"required,oneof=pre_ride during_ride post_ride"`
	RideType        RideType    `json:"ride_type" validate:"required,oneof=show_jumping dressage general_training competition"`
	PlannedDuration *int        `json:"planned_duration,omitempty" validate:"omitempty,gte=1,lte=600"`
}

// Validate checks if the create request is valid
func (r *CreateSessionRequest) Validate() []FieldError {
	return validateStruct(r)
}

// UpdateSessionProgressRequest is a partial update. Nil fields are left unchanged.
// CompletedExercises is merged into the session's existing set.
type UpdateSessionProgressRequest struct {
	EmotionAssessmentID *string  `json:"emotion_assessment_id,omitempty" validate:"omitempty,max=64"`
	HorseObservationID  *string  `json:"horse_observation_id,omitempty" validate:"omitempty,max=64"`
	CompletedExercises  []string `json:"completed_exercises,omitempty" validate:"max=50,dive,required,max=64"`
	VoiceMemoURL        *string  `json:"voice_memo_url,omitempty" validate:"omitempty,url,max=2048"`
	ProgressPercentage  *float64 `json:"progress_percentage,omitempty"`
	AIInsights          *string  `json:"ai_insights,omitempty" validate:"omitempty,max=5000"`
}

// Validate checks the request shape; progress is range-checked by the service
func (r *UpdateSessionProgressRequest) Validate() []FieldError {
	return validateStruct(r)
}

// IsEmpty reports whether the update carries no fields at all
func (r *UpdateSessionProgressRequest) IsEmpty() bool {
	return r.EmotionAssessmentID == nil &&
		r.HorseObservationID == nil &&
		len(r.CompletedExercises) == 0 &&
		r.VoiceMemoURL == nil &&
		r.ProgressPercentage == nil &&
		r.AIInsights == nil
}

// CompleteSessionRequest closes out a session
type CompleteSessionRequest struct {
	ActualDuration   *int     `json:"actual_duration,omitempty" validate:"omitempty,gte=0,lte=600"`
	PerformanceScore *float64 `json:"performance_score,omitempty" validate:"omitempty,gte=0,lte=10"`
}

// Validate checks if the complete request is valid
func (r *CompleteSessionRequest) Validate() []FieldError {
	return validateStruct(r)
}
