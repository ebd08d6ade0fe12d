package service

import (
	"context"
	"fmt"

	"github.com/forgo/equimind/api/internal/model"
)

// BreathingExerciseRepository defines the interface for breathing exercise storage
type BreathingExerciseRepository interface {
	List(ctx context.Context) ([]*model.BreathingExercise, error)
}

// ReferenceService serves read-only reference data
type ReferenceService struct {
	breathingRepo BreathingExerciseRepository
}

// ReferenceServiceConfig holds configuration for the reference service
type ReferenceServiceConfig struct {
	BreathingRepo BreathingExerciseRepository
}

// NewReferenceService creates a new reference service
func NewReferenceService(cfg ReferenceServiceConfig) *ReferenceService {
	return &ReferenceService{breathingRepo: cfg.BreathingRepo}
}

// BreathingExercises returns the stored exercises, or the built-in set when
// the store holds none. A non-empty state keeps only exercises suited to it.
func (s *ReferenceService) BreathingExercises(ctx context.Context, state model.EmotionalState) ([]model.BreathingExercise, error) {
	var exercises []model.BreathingExercise
	if s.breathingRepo != nil {
		stored, err := s.breathingRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load breathing exercises: %w", err)
		}
		for _, e := range stored {
			exercises = append(exercises, *e)
		}
	}
	if len(exercises) == 0 {
		exercises = DefaultBreathingExercises()
	}

	if state == "" {
		return exercises, nil
	}
	if state.Rank() < 0 {
		return nil, fmt.Errorf("%w: unknown emotional state %q", ErrInvalidRange, state)
	}

	filtered := make([]model.BreathingExercise, 0, len(exercises))
	for _, e := range exercises {
		if e.SuitableFor(state) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// DefaultBreathingExercises returns the built-in breathing exercises
func DefaultBreathingExercises() []model.BreathingExercise {
	return []model.BreathingExercise{
		{
			ID:              "4-7-8-breathing",
			Name:            "4-7-8 Breathing",
			Description:     "A calming technique to reduce anxiety and promote relaxation",
			DurationMinutes: 5,
			Instructions: []string{
				"Exhale completely through your mouth",
				"Close your mouth and inhale through your nose for 4 counts",
				"Hold your breath for 7 counts",
				"Exhale through your mouth for 8 counts",
				"Repeat 3-4 times",
			},
			SuitableForStates: []model.EmotionalState{model.EmotionalStateAnxious, model.EmotionalStateNervous},
		},
		{
			ID:              "box-breathing",
			Name:            "Box Breathing",
			Description:     "Equal count breathing for focus and concentration",
			DurationMinutes: 5,
			Instructions: []string{
				"Inhale for 4 counts",
				"Hold for 4 counts",
				"Exhale for 4 counts",
				"Hold empty for 4 counts",
				"Repeat for 5-10 cycles",
			},
			SuitableForStates: []model.EmotionalState{model.EmotionalStateNeutral, model.EmotionalStateConfident},
		},
		{
			ID:              "energizing-breath",
			Name:            "Energizing Breath",
			Description:     "Quick breathing technique to boost energy and confidence",
			DurationMinutes: 3,
			Instructions: []string{
				"Take rapid, short breaths through your nose",
				"Breathe in and out quickly for 30 seconds",
				"Take a deep breath and hold for 5 seconds",
				"Exhale slowly and completely",
				"Repeat 2-3 times",
			},
			SuitableForStates: []model.EmotionalState{model.EmotionalStateNervous, model.EmotionalStateNeutral},
		},
	}
}
