package service

import "github.com/forgo/equimind/api/internal/model"

// MatchStrategies returns the strategies whose trigger ranges contain both
// readings, in the order given (catalog order, ascending id). Both readings
// must be finite and within [0,10]. An empty result is not an error.
func MatchStrategies(anxiety, confidence float64, strategies []model.Strategy) ([]model.Strategy, error) {
	if err := validateScale("anxiety_level", anxiety); err != nil {
		return nil, err
	}
	if err := validateScale("confidence_level", confidence); err != nil {
		return nil, err
	}

	matched := make([]model.Strategy, 0)
	for _, s := range strategies {
		if s.TriggerConditions.Contains(anxiety, confidence) {
			matched = append(matched, s.Clone())
		}
	}
	return matched, nil
}

// Match runs the matching engine against the live catalog. Fallback is set
// when nothing matched.
func (s *CatalogService) Match(anxiety, confidence float64) (*model.StrategyMatchResult, error) {
	matched, err := MatchStrategies(anxiety, confidence, s.catalog.List())
	if err != nil {
		return nil, err
	}

	result := &model.StrategyMatchResult{
		AnxietyLevel:    anxiety,
		ConfidenceLevel: confidence,
		Strategies:      matched,
	}
	if len(matched) == 0 {
		fallback := FallbackStrategy()
		result.Fallback = &fallback
	}
	return result, nil
}
