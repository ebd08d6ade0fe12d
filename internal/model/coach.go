package model

// RiderContext is what the coach knows about the rider for a conversation
type RiderContext struct {
	Name                  string         `json:"name" validate:"max=100"`
	ExperienceLevel       string         `json:"experience_level" validate:"max=50"`
	PreferredDisciplines  []RideType     `json:"preferred_disciplines" validate:"max=4"`
	CurrentEmotionalState EmotionalState `json:"current_emotional_state" validate:"omitempty,oneof=anxious nervous neutral confident excited"`
	SessionType           string         `json:"session_type,omitempty" validate:"max=50"`
	RideType              string         `json:"ride_type,omitempty" validate:"max=50"`
}

// CoachInitializeRequest asks for an opening coaching message
type CoachInitializeRequest struct {
	RiderName             string         `json:"rider_name" validate:"max=100"`
	ExperienceLevel       string         `json:"experience_level" validate:"max=50"`
	PreferredDisciplines  []RideType     `json:"preferred_disciplines" validate:"max=4"`
	CurrentEmotionalState EmotionalState `json:"current_emotional_state" validate:"omitempty,oneof=anxious nervous neutral confident excited"`
	SessionType           string         `json:"session_type,omitempty" validate:"max=50"`
	RideType              string         `json:"ride_type,omitempty" validate:"max=50"`
}

// Validate checks if the request is valid
func (r *CoachInitializeRequest) Validate() []FieldError {
	return validateStruct(r)
}

// ChatMessage is one prior turn in a coaching conversation
type ChatMessage struct {
	Type    string `json:"type" validate:"oneof=user ai"`
	Content string `json:"content" validate:"max=4000"`
}

// CoachChatRequest carries the rider's message and recent history
type CoachChatRequest struct {
	Message             string        `json:"message" validate:"required,max=2000"`
	ConversationHistory []ChatMessage `json:"conversation_history" validate:"max=10,dive"`
	RiderContext        RiderContext  `json:"rider_context"`
}

// Validate checks if the request is valid
func (r *CoachChatRequest) Validate() []FieldError {
	return validateStruct(r)
}

// CoachMessage is the coach's reply. Fallback is set when the reply is pre-authored.
type CoachMessage struct {
	Message  string `json:"message"`
	Category string `json:"category"`
	Fallback bool   `json:"fallback"`
}

// CompetitionPlanRequest asks for a preparation plan ahead of a competition
type CompetitionPlanRequest struct {
	RiderID              string     `json:"rider_id" validate:"required"`
	CompetitionType      string     `json:"competition_type" validate:"required,max=100"`
	DaysUntilCompetition int        `json:"days_until_competition" validate:"gte=1,lte=365"`
	RiderExperience      string     `json:"rider_experience" validate:"max=50"`
	PreferredDisciplines []RideType `json:"preferred_disciplines" validate:"max=4"`
}

// Validate checks if the request is valid
func (r *CompetitionPlanRequest) Validate() []FieldError {
	return validateStruct(r)
}

// PlanPhase is one block of days in a preparation plan
type PlanPhase struct {
	Name         string   `json:"name"`
	DurationDays int      `json:"duration"`
	Tasks        []string `json:"tasks"`
}

// RoutineItem is one slot in the daily routine
type RoutineItem struct {
	Time            string `json:"time"`
	Activity        string `json:"activity"`
	DurationMinutes int    `json:"duration"`
}

// CompetitionPlan is a phased preparation plan
type CompetitionPlan struct {
	Phases              []PlanPhase   `json:"phases"`
	DailyRoutine        []RoutineItem `json:"daily_routine"`
	MentalStrategies    []string      `json:"mental_strategies"`
	EmergencyStrategies []string      `json:"emergency_strategies"`
	Summary             string        `json:"summary,omitempty"`
	Fallback            bool          `json:"fallback"`
}
