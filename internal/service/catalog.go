package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/model"
)

// Catalog is the in-process set of strategies the matching engine runs against.
// Safe for concurrent use.
type Catalog struct {
	mu         sync.RWMutex
	strategies map[string]model.Strategy
}

// NewCatalog creates a catalog holding strategies. Later duplicates are ignored.
func NewCatalog(strategies []model.Strategy) *Catalog {
	c := &Catalog{strategies: make(map[string]model.Strategy, len(strategies))}
	for _, s := range strategies {
		if _, exists := c.strategies[s.ID]; exists {
			continue
		}
		c.strategies[s.ID] = s.Clone()
	}
	return c
}

// List returns every strategy sorted by id
func (c *Catalog) List() []model.Strategy {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Strategy, 0, len(c.strategies))
	for _, s := range c.strategies {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetByID returns the strategy with id
func (c *Catalog) GetByID(id string) (model.Strategy, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.strategies[id]
	if !ok {
		return model.Strategy{}, ErrStrategyNotFound
	}
	return s.Clone(), nil
}

// Add inserts s, failing if its id is already present
func (c *Catalog) Add(s model.Strategy) (model.Strategy, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.strategies[s.ID]; exists {
		return model.Strategy{}, ErrDuplicateStrategyID
	}
	c.strategies[s.ID] = s.Clone()
	return s.Clone(), nil
}

// Len returns the number of strategies
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.strategies)
}

// replace swaps the full contents, used by reloads
func (c *Catalog) replace(strategies []model.Strategy) {
	next := make(map[string]model.Strategy, len(strategies))
	for _, s := range strategies {
		if _, exists := next[s.ID]; exists {
			continue
		}
		next[s.ID] = s.Clone()
	}

	c.mu.Lock()
	c.strategies = next
	c.mu.Unlock()
}

// DefaultStrategies returns the built-in strategy set
func DefaultStrategies() []model.Strategy {
	return []model.Strategy{
		{
			ID:              "cognitive-restructuring",
			Name:            "Cognitive Restructuring",
			Category:        model.StrategyCategoryThoughtManagement,
			DurationMinutes: 10,
			TriggerConditions: model.TriggerConditions{
				AnxietyMin: 6, AnxietyMax: 10,
				ConfidenceMin: 0, ConfidenceMax: 5,
			},
			Instructions: []string{
				"Notice the worried thought and say it to yourself in words",
				"Ask what evidence supports it and what evidence does not",
				"Recall a recent ride where things went well",
				"Replace the thought with a balanced, specific statement",
				"Repeat the new statement as you prepare to mount",
			},
			SuitableFor: []string{"pre_ride", "competition", "negative_thoughts"},
		},
		{
			ID:              "mindful-body-scan",
			Name:            "Mindful Body Scan",
			Category:        model.StrategyCategoryMindfulness,
			DurationMinutes: 8,
			TriggerConditions: model.TriggerConditions{
				AnxietyMin: 3, AnxietyMax: 7,
				ConfidenceMin: 3, ConfidenceMax: 7,
			},
			Instructions: []string{
				"Sit or stand comfortably and close your eyes if safe",
				"Bring attention to your feet and notice any tension",
				"Move attention slowly up through legs, seat, back and shoulders",
				"Soften your hands and jaw as you reach them",
				"Finish with three slow breaths, noticing your whole body",
			},
			SuitableFor: []string{"pre_ride", "post_ride", "general_training"},
		},
		{
			ID:              "progressive-muscle-relaxation",
			Name:            "Progressive Muscle Relaxation",
			Category:        model.StrategyCategoryAnxietyReduction,
			DurationMinutes: 12,
			TriggerConditions: model.TriggerConditions{
				AnxietyMin: 7, AnxietyMax: 10,
				ConfidenceMin: 0, ConfidenceMax: 10,
			},
			Instructions: []string{
				"Tense the muscles in your feet for five seconds, then release",
				"Work upward through calves, thighs, seat and core",
				"Tense and release your hands, arms and shoulders",
				"Scrunch and release the muscles of your face",
				"Take a slow breath and notice the difference in your body",
			},
			SuitableFor: []string{"pre_ride", "high_anxiety", "competition"},
		},
		{
			ID:              "success-visualization",
			Name:            "Success Visualization",
			Category:        model.StrategyCategoryConfidenceBuilding,
			DurationMinutes: 10,
			TriggerConditions: model.TriggerConditions{
				AnxietyMin: 0, AnxietyMax: 6,
				ConfidenceMin: 3, ConfidenceMax: 6,
			},
			Instructions: []string{
				"Close your eyes and picture the arena in detail",
				"See yourself riding the course or test smoothly",
				"Feel the rhythm of your horse and your balanced position",
				"Picture finishing well and how that feels",
				"Open your eyes and carry that feeling into your warm-up",
			},
			SuitableFor: []string{"pre_ride", "competition", "show_jumping", "dressage"},
		},
	}
}

// FallbackStrategy is the generic grounding technique offered when no
// strategy matches
func FallbackStrategy() model.Strategy {
	return model.Strategy{
		ID:              "grounding-5-4-3-2-1",
		Name:            "5-4-3-2-1 Grounding",
		Category:        model.StrategyCategoryGrounding,
		DurationMinutes: 3,
		TriggerConditions: model.TriggerConditions{
			AnxietyMin: 0, AnxietyMax: 10,
			ConfidenceMin: 0, ConfidenceMax: 10,
		},
		Instructions: []string{
			"Name 5 things you can see",
			"Name 4 things you can touch",
			"Name 3 things you can hear",
			"Name 2 things you can smell",
			"Name 1 thing you can taste",
		},
		SuitableFor: []string{"any"},
	}
}

// LoadStrategiesYAML reads and validates a strategy list from YAML. The
// document is either a sequence of strategies or a mapping with a
// "strategies" key.
func LoadStrategiesYAML(r io.Reader) ([]model.Strategy, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read strategies: %w", err)
	}

	var wrapped struct {
		Strategies []model.Strategy `yaml:"strategies"`
	}
	var strategies []model.Strategy
	if err := yaml.Unmarshal(data, &strategies); err != nil {
		if werr := yaml.Unmarshal(data, &wrapped); werr != nil {
			return nil, fmt.Errorf("failed to parse strategies: %w", err)
		}
		strategies = wrapped.Strategies
	}

	seen := make(map[string]bool, len(strategies))
	for i := range strategies {
		s := &strategies[i]
		if errs := s.Validate(); len(errs) > 0 {
			return nil, fmt.Errorf("%w: strategy %d (%s): %s %s", ErrInvalidStrategy, i, s.ID, errs[0].Field, errs[0].Message)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStrategyID, s.ID)
		}
		seen[s.ID] = true
	}
	return strategies, nil
}

// WriteStrategiesYAML writes strategies in the format LoadStrategiesYAML reads
func WriteStrategiesYAML(w io.Writer, strategies []model.Strategy) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]interface{}{"strategies": strategies}); err != nil {
		return fmt.Errorf("failed to encode strategies: %w", err)
	}
	return enc.Close()
}

// StrategyRepository defines the interface for strategy storage
type StrategyRepository interface {
	List(ctx context.Context) ([]*model.Strategy, error)
	Create(ctx context.Context, strategy *model.Strategy) error
}

// CatalogService keeps the live catalog in step with the strategy store
type CatalogService struct {
	repo    StrategyRepository
	catalog *Catalog
}

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	Repo    StrategyRepository
	Catalog *Catalog
}

// NewCatalogService creates a new catalog service
func NewCatalogService(cfg CatalogServiceConfig) *CatalogService {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = NewCatalog(nil)
	}
	return &CatalogService{
		repo:    cfg.Repo,
		catalog: catalog,
	}
}

// Catalog returns the live catalog
func (s *CatalogService) Catalog() *Catalog {
	return s.catalog
}

// Reload replaces the live catalog with the store's strategies, or the
// defaults when the store holds none
func (s *CatalogService) Reload(ctx context.Context) error {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load strategies: %w", err)
	}

	if len(stored) == 0 {
		s.catalog.replace(DefaultStrategies())
		return nil
	}

	strategies := make([]model.Strategy, 0, len(stored))
	for _, st := range stored {
		strategies = append(strategies, *st)
	}
	s.catalog.replace(strategies)
	return nil
}

// List returns the effective catalog
func (s *CatalogService) List() []model.Strategy {
	return s.catalog.List()
}

// Get returns one strategy by id
func (s *CatalogService) Get(id string) (model.Strategy, error) {
	return s.catalog.GetByID(id)
}

// Create validates and stores a new strategy, then adds it to the live catalog
func (s *CatalogService) Create(ctx context.Context, strategy model.Strategy) (model.Strategy, error) {
	if errs := strategy.Validate(); len(errs) > 0 {
		return model.Strategy{}, fmt.Errorf("%w: %s %s", ErrInvalidStrategy, errs[0].Field, errs[0].Message)
	}
	if _, err := s.catalog.GetByID(strategy.ID); err == nil {
		return model.Strategy{}, ErrDuplicateStrategyID
	}

	// The first stored strategy replaces the defaults in the store, so seed
	// them alongside it to keep them available.
	if err := s.seedDefaultsIfEmpty(ctx); err != nil {
		return model.Strategy{}, err
	}

	if err := s.repo.Create(ctx, &strategy); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return model.Strategy{}, ErrDuplicateStrategyID
		}
		return model.Strategy{}, fmt.Errorf("failed to store strategy: %w", err)
	}

	added, err := s.catalog.Add(strategy)
	if errors.Is(err, ErrDuplicateStrategyID) {
		// a concurrent reload already picked it up from the store
		return strategy.Clone(), nil
	}
	return added, err
}

// Import stores every strategy not already present and returns the ids that
// were skipped as duplicates
func (s *CatalogService) Import(ctx context.Context, strategies []model.Strategy) (imported, skipped []string, err error) {
	for _, st := range strategies {
		if _, cerr := s.Create(ctx, st); cerr != nil {
			if errors.Is(cerr, ErrDuplicateStrategyID) {
				skipped = append(skipped, st.ID)
				continue
			}
			return imported, skipped, cerr
		}
		imported = append(imported, st.ID)
	}
	if len(imported) > 0 {
		slog.Info("strategies imported", slog.Int("imported", len(imported)), slog.Int("skipped", len(skipped)))
	}
	return imported, skipped, nil
}

func (s *CatalogService) seedDefaultsIfEmpty(ctx context.Context) error {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load strategies: %w", err)
	}
	if len(stored) > 0 {
		return nil
	}
	for _, d := range DefaultStrategies() {
		d := d
		if err := s.repo.Create(ctx, &d); err != nil && !errors.Is(err, database.ErrDuplicate) {
			return fmt.Errorf("failed to seed default strategy %s: %w", d.ID, err)
		}
	}
	return nil
}
