package model

// BreathingExercise is a guided breathing routine suited to some emotional states
type BreathingExercise struct {
	ID                string           `json:"id" bson:"_id"`
	Name              string           `json:"name" bson:"name"`
	Description       string           `json:"description" bson:"description"`
	DurationMinutes   int              `json:"duration_minutes" bson:"duration_minutes"`
	Instructions      []string         `json:"instructions" bson:"instructions"`
	SuitableForStates []EmotionalState `json:"suitable_for_states" bson:"suitable_for_states"`
}

// SuitableFor reports whether the exercise lists state
func (b BreathingExercise) SuitableFor(state EmotionalState) bool {
	for _, s := range b.SuitableForStates {
		if s == state {
			return true
		}
	}
	return false
}
