package service

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/forgo/equimind/api/internal/model"
)

func testStrategy(id string) model.Strategy {
	return model.Strategy{
		ID:              id,
		Name:            "Test " + id,
		Category:        model.StrategyCategoryMindfulness,
		DurationMinutes: 5,
		TriggerConditions: model.TriggerConditions{
			AnxietyMin: 0, AnxietyMax: 2,
			ConfidenceMin: 8, ConfidenceMax: 10,
		},
		Instructions: []string{"Breathe"},
		SuitableFor:  []string{"pre_ride"},
	}
}

func TestNewCatalog_IgnoresLaterDuplicates(t *testing.T) {
	t.Parallel()

	first := testStrategy("a")
	second := testStrategy("a")
	second.Name = "Second"

	c := NewCatalog([]model.Strategy{first, second})
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	got, err := c.GetByID("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != first.Name {
		t.Errorf("Name = %q, want %q", got.Name, first.Name)
	}
}

func TestCatalog_ListSortedAndIsolated(t *testing.T) {
	t.Parallel()

	c := NewCatalog([]model.Strategy{testStrategy("c"), testStrategy("a"), testStrategy("b")})
	list := c.List()
	if ids := matchedIDs(list); !equalIDs(ids, []string{"a", "b", "c"}) {
		t.Errorf("List() ids = %v, want [a b c]", ids)
	}

	list[0].Instructions[0] = "changed"
	list[0].Name = "changed"
	again, _ := c.GetByID("a")
	if again.Name == "changed" || again.Instructions[0] == "changed" {
		t.Error("mutating List() result changed the catalog")
	}
}

func TestCatalog_Add(t *testing.T) {
	t.Parallel()

	c := NewCatalog(nil)
	if _, err := c.Add(testStrategy("x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Add(testStrategy("x")); !errors.Is(err, ErrDuplicateStrategyID) {
		t.Errorf("expected ErrDuplicateStrategyID, got %v", err)
	}
	if _, err := c.GetByID("missing"); !errors.Is(err, ErrStrategyNotFound) {
		t.Errorf("expected ErrStrategyNotFound, got %v", err)
	}
}

func TestCatalog_AddThenGetByIDRoundTrip(t *testing.T) {
	t.Parallel()

	full := testStrategy("full")
	full.Instructions = []string{"Breathe in for four", "Hold for seven", "Out for eight"}
	full.SuitableFor = []string{"pre_ride", "competition"}
	full.TriggerConditions = model.TriggerConditions{AnxietyMin: 2.5, AnxietyMax: 7.5, ConfidenceMin: 1, ConfidenceMax: 9}

	emptySuitable := testStrategy("empty-suitable")
	emptySuitable.SuitableFor = []string{}

	nilSuitable := testStrategy("nil-suitable")
	nilSuitable.SuitableFor = nil

	c := NewCatalog(nil)
	for _, want := range []model.Strategy{full, emptySuitable, nilSuitable} {
		added, err := c.Add(want)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", want.ID, err)
		}
		if !reflect.DeepEqual(added, want) {
			t.Errorf("%s: Add returned %+v, want %+v", want.ID, added, want)
		}

		got, err := c.GetByID(want.ID)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", want.ID, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: GetByID returned %+v, want %+v", want.ID, got, want)
		}
	}
}

func TestDefaultStrategies_Valid(t *testing.T) {
	t.Parallel()

	for _, s := range append(DefaultStrategies(), FallbackStrategy()) {
		s := s
		if errs := s.Validate(); len(errs) > 0 {
			t.Errorf("strategy %s invalid: %+v", s.ID, errs)
		}
	}
}

func TestLoadStrategiesYAML_Forms(t *testing.T) {
	t.Parallel()

	sequence := `
- id: calm-hands
  name: Calm Hands
  category: mindfulness
  duration_minutes: 4
  trigger_conditions: {anxiety_min: 4, anxiety_max: 8, confidence_min: 0, confidence_max: 10}
  instructions: ["Open your fingers", "Soften your wrists"]
  suitable_for: [pre_ride]
`
	mapping := "strategies:\n" + indent(sequence, "  ")

	for name, doc := range map[string]string{"sequence": sequence, "mapping": mapping} {
		got, err := LoadStrategiesYAML(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if len(got) != 1 || got[0].ID != "calm-hands" {
			t.Fatalf("%s: got %+v", name, got)
		}
		if got[0].TriggerConditions.AnxietyMax != 8 {
			t.Errorf("%s: AnxietyMax = %v, want 8", name, got[0].TriggerConditions.AnxietyMax)
		}
	}
}

func TestLoadStrategiesYAML_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "missing name",
			doc:  "- id: x\n  category: mindfulness\n  duration_minutes: 3\n  instructions: [a]\n",
			want: ErrInvalidStrategy,
		},
		{
			name: "inverted range",
			doc:  "- id: x\n  name: X\n  category: mindfulness\n  duration_minutes: 3\n  trigger_conditions: {anxiety_min: 8, anxiety_max: 2}\n  instructions: [a]\n",
			want: ErrInvalidStrategy,
		},
		{
			name: "duplicate id",
			doc: "- id: x\n  name: X\n  category: mindfulness\n  duration_minutes: 3\n  instructions: [a]\n" +
				"- id: x\n  name: Y\n  category: mindfulness\n  duration_minutes: 3\n  instructions: [a]\n",
			want: ErrDuplicateStrategyID,
		},
	}

	for _, tt := range tests {
		_, err := LoadStrategiesYAML(strings.NewReader(tt.doc))
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}

	if _, err := LoadStrategiesYAML(strings.NewReader("{{ not yaml")); err == nil {
		t.Error("expected parse error")
	}
}

func TestWriteStrategiesYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteStrategiesYAML(&buf, DefaultStrategies()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := LoadStrategiesYAML(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := matchedIDs(got); !equalIDs(ids, matchedIDs(DefaultStrategies())) {
		t.Errorf("round trip ids = %v", ids)
	}
}

func TestCatalogService_ReloadUsesDefaultsWhenStoreEmpty(t *testing.T) {
	t.Parallel()

	svc := NewCatalogService(CatalogServiceConfig{Repo: &mockStrategyRepo{}})
	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Catalog().Len() != len(DefaultStrategies()) {
		t.Errorf("Len() = %d, want %d", svc.Catalog().Len(), len(DefaultStrategies()))
	}
}

func TestCatalogService_ReloadReplacesWithStored(t *testing.T) {
	t.Parallel()

	stored := testStrategy("only")
	repo := &mockStrategyRepo{strategies: []*model.Strategy{&stored}}
	svc := NewCatalogService(CatalogServiceConfig{Repo: repo, Catalog: NewCatalog(DefaultStrategies())})

	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := matchedIDs(svc.List()); !equalIDs(ids, []string{"only"}) {
		t.Errorf("List() ids = %v, want [only]", ids)
	}
}

func TestCatalogService_ReloadError(t *testing.T) {
	t.Parallel()

	repo := &mockStrategyRepo{listErr: errors.New("store down")}
	svc := NewCatalogService(CatalogServiceConfig{Repo: repo, Catalog: NewCatalog(DefaultStrategies())})

	if err := svc.Reload(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if svc.Catalog().Len() != len(DefaultStrategies()) {
		t.Error("failed reload should keep the previous catalog")
	}
}

func TestCatalogService_CreateSeedsDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := &mockStrategyRepo{}
	svc := NewCatalogService(CatalogServiceConfig{Repo: repo, Catalog: NewCatalog(DefaultStrategies())})

	created, err := svc.Create(ctx, testStrategy("new-one"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "new-one" {
		t.Errorf("ID = %q, want new-one", created.ID)
	}

	stored, _ := repo.List(ctx)
	if len(stored) != len(DefaultStrategies())+1 {
		t.Errorf("stored %d strategies, want %d", len(stored), len(DefaultStrategies())+1)
	}

	// a reload from the store keeps the defaults alongside the new strategy
	if err := svc.Reload(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get("cognitive-restructuring"); err != nil {
		t.Errorf("default strategy lost after reload: %v", err)
	}
	if _, err := svc.Get("new-one"); err != nil {
		t.Errorf("created strategy lost after reload: %v", err)
	}
}

func TestCatalogService_CreateRejects(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewCatalogService(CatalogServiceConfig{Repo: &mockStrategyRepo{}, Catalog: NewCatalog(DefaultStrategies())})

	if _, err := svc.Create(ctx, testStrategy("cognitive-restructuring")); !errors.Is(err, ErrDuplicateStrategyID) {
		t.Errorf("expected ErrDuplicateStrategyID, got %v", err)
	}

	invalid := testStrategy("bad")
	invalid.Instructions = nil
	if _, err := svc.Create(ctx, invalid); !errors.Is(err, ErrInvalidStrategy) {
		t.Errorf("expected ErrInvalidStrategy, got %v", err)
	}
}

func TestCatalogService_Import(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewCatalogService(CatalogServiceConfig{Repo: &mockStrategyRepo{}, Catalog: NewCatalog(DefaultStrategies())})

	imported, skipped, err := svc.Import(ctx, []model.Strategy{
		testStrategy("fresh"),
		testStrategy("mindful-body-scan"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(imported, []string{"fresh"}) {
		t.Errorf("imported = %v, want [fresh]", imported)
	}
	if !equalIDs(skipped, []string{"mindful-body-scan"}) {
		t.Errorf("skipped = %v, want [mindful-body-scan]", skipped)
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimPrefix(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
