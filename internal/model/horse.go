package model

import "time"

// Horse observation scale bounds
const (
	MinHorseScale = 1
	MaxHorseScale = 10
)

// Mood indicators offered to riders when observing their horse
const (
	MoodAlert      = "Alert"
	MoodCalm       = "Calm"
	MoodEnergetic  = "Energetic"
	MoodResponsive = "Responsive"
	MoodNervous    = "Nervous"
	MoodPlayful    = "Playful"
	MoodFocused    = "Focused"
	MoodRelaxed    = "Relaxed"
)

// HorseObservation is the rider's read on their horse before or during a ride
type HorseObservation struct {
	ID                string    `json:"id" bson:"_id"`
	RiderID           string    `json:"rider_id" bson:"rider_id"`
	SessionID         string    `json:"session_id" bson:"session_id"`
	HorseName         string    `json:"horse_name" bson:"horse_name"`
	EnergyLevel       int       `json:"energy_level" bson:"energy_level"`
	Responsiveness    int       `json:"responsiveness" bson:"responsiveness"`
	MoodIndicators    []string  `json:"mood_indicators" bson:"mood_indicators"`
	PhysicalCondition string    `json:"physical_condition" bson:"physical_condition"`
	Notes             *string   `json:"notes,omitempty" bson:"notes,omitempty"`
	Timestamp         time.Time `json:"timestamp" bson:"timestamp"`
}

// CreateHorseObservationRequest represents a request to record a horse observation
type CreateHorseObservationRequest struct {
	RiderID           string   `json:"rider_id" validate:"required"`
	SessionID         string   `json:"session_id" validate:"required"`
	HorseName         string   `json:"horse_name" validate:"required,max=100"`
	EnergyLevel       int      `json:"energy_level"`
	Responsiveness    int      `json:"responsiveness"`
	MoodIndicators    []string `json:"mood_indicators" validate:"max=8,dive,oneof=Alert Calm Energetic Responsive Nervous Playful Focused Relaxed"`
	PhysicalCondition string   `json:"physical_condition" validate:"required,max=500"`
	Notes             *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// Validate checks the request shape. Energy and responsiveness are range-checked
// by the service, which reports them as invalid-range errors.
func (r *CreateHorseObservationRequest) Validate() []FieldError {
	return validateStruct(r)
}
