package model

import "time"

// EmergencyEvent records a moment the rider needed emergency support. Append-only.
type EmergencyEvent struct {
	ID                    string    `json:"id" bson:"_id"`
	RiderID               string    `json:"rider_id" bson:"rider_id"`
	SessionID             string    `json:"session_id" bson:"session_id"`
	TriggerReason         string    `json:"trigger_reason" bson:"trigger_reason"`
	InterventionUsed      string    `json:"intervention_used" bson:"intervention_used"`
	ResolutionTimeMinutes *int      `json:"resolution_time_minutes,omitempty" bson:"resolution_time_minutes,omitempty"`
	Notes                 *string   `json:"notes,omitempty" bson:"notes,omitempty"`
	Timestamp             time.Time `json:"timestamp" bson:"timestamp"`
}

// CreateEmergencyEventRequest represents a request to record an emergency event
type CreateEmergencyEventRequest struct {
	RiderID               string  `json:"rider_id" validate:"required"`
	SessionID             string  `json:"session_id" validate:"required"`
	TriggerReason         string  `json:"trigger_reason" validate:"required,max=500"`
	InterventionUsed      string  `json:"intervention_used" validate:"required,max=200"`
	ResolutionTimeMinutes *int    `json:"resolution_time_minutes,omitempty" validate:"omitempty,gte=0,lte=240"`
	Notes                 *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// Validate checks if the create request is valid
func (r *CreateEmergencyEventRequest) Validate() []FieldError {
	return validateStruct(r)
}

// Technique is a short named routine with ordered steps
type Technique struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
}

// EmergencyTechniques is the static emergency reference sheet
type EmergencyTechniques struct {
	BreathingExercises  []Technique `json:"breathing_exercises"`
	GroundingTechniques []Technique `json:"grounding_techniques"`
	ImmediateActions    []Technique `json:"immediate_actions"`
}
