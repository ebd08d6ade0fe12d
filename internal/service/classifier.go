package service

import (
	"fmt"
	"math"

	"github.com/forgo/equimind/api/internal/model"
)

// Upper bounds (inclusive) of each emotional band. Anything above the last
// bound is excited.
var emotionBands = []struct {
	upper float64
	state model.EmotionalState
}{
	{2.0, model.EmotionalStateAnxious},
	{4.0, model.EmotionalStateNervous},
	{6.0, model.EmotionalStateNeutral},
	{8.0, model.EmotionalStateConfident},
}

// ClassifyEmotion maps an emotion level to its band. Boundary values belong to
// the lower band. Values outside [0,10] extrapolate by the same rule.
func ClassifyEmotion(level float64) model.EmotionalState {
	for _, b := range emotionBands {
		if level <= b.upper {
			return b.state
		}
	}
	return model.EmotionalStateExcited
}

// ValidateEmotionLevel rejects non-finite values and values outside [0,10]
func ValidateEmotionLevel(level float64) error {
	return validateScale("emotion_level", level)
}

// validateScale checks a 0-10 reading
func validateScale(field string, v float64) error {
	return validateBetween(field, v, model.MinScaleLevel, model.MaxScaleLevel)
}

func validateBetween(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &RangeError{Field: field, Value: v, Min: lo, Max: hi}
	}
	if v < lo || v > hi {
		return &RangeError{Field: field, Value: v, Min: lo, Max: hi}
	}
	return nil
}

// RangeError describes which field was out of range. It matches ErrInvalidRange.
type RangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %g and %g, got %g", e.Field, e.Min, e.Max, e.Value)
}

// Is lets errors.Is(err, ErrInvalidRange) match
func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidRange
}
