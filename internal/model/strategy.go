package model

import "time"

// StrategyCategory groups strategies by the skill they train
type StrategyCategory string

const (
	StrategyCategoryAnxietyReduction   StrategyCategory = "anxiety_reduction"
	StrategyCategoryThoughtManagement  StrategyCategory = "thought_management"
	StrategyCategoryMindfulness        StrategyCategory = "mindfulness"
	StrategyCategoryConfidenceBuilding StrategyCategory = "confidence_building"
	StrategyCategoryGrounding          StrategyCategory = "grounding"
)

// TriggerConditions are inclusive anxiety and confidence ranges
type TriggerConditions struct {
	AnxietyMin    float64 `json:"anxiety_min" bson:"anxiety_min" yaml:"anxiety_min" validate:"gte=0,lte=10"`
	AnxietyMax    float64 `json:"anxiety_max" bson:"anxiety_max" yaml:"anxiety_max" validate:"gte=0,lte=10,gtefield=AnxietyMin"`
	ConfidenceMin float64 `json:"confidence_min" bson:"confidence_min" yaml:"confidence_min" validate:"gte=0,lte=10"`
	ConfidenceMax float64 `json:"confidence_max" bson:"confidence_max" yaml:"confidence_max" validate:"gte=0,lte=10,gtefield=ConfidenceMin"`
}

// Contains reports whether both readings fall inside the trigger ranges
func (t TriggerConditions) Contains(anxiety, confidence float64) bool {
	return anxiety >= t.AnxietyMin && anxiety <= t.AnxietyMax &&
		confidence >= t.ConfidenceMin && confidence <= t.ConfidenceMax
}

// Strategy is a mental-training technique with the readings it applies to
type Strategy struct {
	ID                string            `json:"id" bson:"_id" yaml:"id" validate:"required,max=64"`
	Name              string            `json:"name" bson:"name" yaml:"name" validate:"required,max=100"`
	Category          StrategyCategory  `json:"category" bson:"category" yaml:"category" validate:"required,oneof=anxiety_reduction thought_management mindfulness confidence_building grounding"`
	DurationMinutes   int               `json:"duration_minutes" bson:"duration_minutes" yaml:"duration_minutes" validate:"gte=1,lte=120"`
	TriggerConditions TriggerConditions `json:"trigger_conditions" bson:"trigger_conditions" yaml:"trigger_conditions"`
	Instructions      []string          `json:"instructions" bson:"instructions" yaml:"instructions" validate:"required,min=1,max=20,dive,required,max=500"`
	SuitableFor       []string          `json:"suitable_for" bson:"suitable_for" yaml:"suitable_for" validate:"max=20,dive,required,max=50"`
}

// Validate checks that the strategy is well formed
func (s *Strategy) Validate() []FieldError {
	return validateStruct(s)
}

// Clone returns a deep copy so callers cannot mutate catalog entries. Nil and
// empty slices are kept distinct.
func (s Strategy) Clone() Strategy {
	out := s
	out.Instructions = cloneStrings(s.Instructions)
	out.SuitableFor = cloneStrings(s.SuitableFor)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// StrategyLog records one use of a strategy by a rider
type StrategyLog struct {
	ID                  string    `json:"id" bson:"_id"`
	RiderID             string    `json:"rider_id" bson:"rider_id"`
	SessionID           string    `json:"session_id" bson:"session_id"`
	StrategyID          string    `json:"strategy_id" bson:"strategy_id"`
	TriggerAnxiety      float64   `json:"trigger_anxiety" bson:"trigger_anxiety"`
	TriggerConfidence   float64   `json:"trigger_confidence" bson:"trigger_confidence"`
	UsedAt              time.Time `json:"used_at" bson:"used_at"`
	Completed           bool      `json:"completed" bson:"completed"`
	EffectivenessRating *int      `json:"effectiveness_rating,omitempty" bson:"effectiveness_rating,omitempty"`
}

// CreateStrategyLogRequest represents a request to log strategy usage
type CreateStrategyLogRequest struct {
	RiderID           string  `json:"rider_id" validate:"required"`
	SessionID         string  `json:"session_id" validate:"required"`
	StrategyID        string  `json:"strategy_id" validate:"required"`
	TriggerAnxiety    float64 `json:"trigger_anxiety"`
	TriggerConfidence float64 `json:"trigger_confidence"`
}

// Validate checks the request shape; trigger levels are range-checked by the service
func (r *CreateStrategyLogRequest) Validate() []FieldError {
	return validateStruct(r)
}

// UpdateStrategyLogRequest marks a logged strategy completed and/or rates it
type UpdateStrategyLogRequest struct {
	Completed           *bool `json:"completed,omitempty"`
	EffectivenessRating *int  `json:"effectiveness_rating,omitempty" validate:"omitempty,gte=1,lte=5"`
}

// Validate checks if the update request is valid
func (r *UpdateStrategyLogRequest) Validate() []FieldError {
	errs := validateStruct(r)
	if r.Completed == nil && r.EffectivenessRating == nil {
		errs = append(errs, FieldError{Field: "body", Message: "completed or effectiveness_rating is required"})
	}
	return errs
}

// StrategyMatchResult is the matching engine's answer for one pair of readings.
// Fallback is set when no catalog strategy matched.
type StrategyMatchResult struct {
	AnxietyLevel    float64    `json:"anxiety_level"`
	ConfidenceLevel float64    `json:"confidence_level"`
	Strategies      []Strategy `json:"strategies"`
	Fallback        *Strategy  `json:"fallback,omitempty"`
}
