package model

import "time"

// EmotionalState is the discrete band derived from a 0-10 emotion level
type EmotionalState string

const (
	EmotionalStateAnxious   EmotionalState = "anxious"
	EmotionalStateNervous   EmotionalState = "nervous"
	EmotionalStateNeutral   EmotionalState = "neutral"
	EmotionalStateConfident EmotionalState = "confident"
	EmotionalStateExcited   EmotionalState = "excited"
)

// EmotionalStates lists every state from least to most positive
var EmotionalStates = []EmotionalState{
	EmotionalStateAnxious,
	EmotionalStateNervous,
	EmotionalStateNeutral,
	EmotionalStateConfident,
	EmotionalStateExcited,
}

// Rank returns the state's position in EmotionalStates, or -1 if unknown
func (s EmotionalState) Rank() int {
	for i, st := range EmotionalStates {
		if st == s {
			return i
		}
	}
	return -1
}

// Scale bounds shared by emotion, anxiety and confidence readings
const (
	MinScaleLevel = 0.0
	MaxScaleLevel = 10.0
)

// EmotionAssessment is one emotion reading taken during a session.
// EmotionalState is derived from EmotionLevel when the reading is recorded.
type EmotionAssessment struct {
	ID              string         `json:"id" bson:"_id"`
	RiderID         string         `json:"rider_id" bson:"rider_id"`
	SessionID       string         `json:"session_id" bson:"session_id"`
	EmotionLevel    float64        `json:"emotion_level" bson:"emotion_level"`
	EmotionalState  EmotionalState `json:"emotional_state" bson:"emotional_state"`
	AnxietyLevel    float64        `json:"anxiety_level" bson:"anxiety_level"`
	ConfidenceLevel float64        `json:"confidence_level" bson:"confidence_level"`
	Notes           *string        `json:"notes,omitempty" bson:"notes,omitempty"`
	Timestamp       time.Time      `json:"timestamp" bson:"timestamp"`
}

// CreateEmotionAssessmentRequest represents a request to record an emotion reading
type CreateEmotionAssessmentRequest struct {
	RiderID         string  `json:"rider_id" validate:"required"`
	SessionID       string  `json:"session_id" validate:"required"`
	EmotionLevel    float64 `json:"emotion_level"`
	AnxietyLevel    float64 `json:"anxiety_level"`
	ConfidenceLevel float64 `json:"confidence_level"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// Validate checks the request shape. Level ranges are checked by the service,
// which reports them as invalid-range errors.
func (r *CreateEmotionAssessmentRequest) Validate() []FieldError {
	return validateStruct(r)
}

// EmotionAssessmentResult is returned when a reading is recorded
type EmotionAssessmentResult struct {
	Assessment      *EmotionAssessment `json:"assessment"`
	Recommendations []Strategy         `json:"recommendations"`
}
