package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"assessrec/config"
	"assessrec/internal/adapter/analyzer"
	"assessrec/internal/adapter/catalogue"
	"assessrec/internal/adapter/memstore"
	"assessrec/internal/adapter/retriever"
	"assessrec/internal/adapter/vectorizer"
	"assessrec/internal/domain"
	"assessrec/internal/port"
)

func testEntries() []domain.CatalogueEntry {
	return []domain.CatalogueEntry{
		{Row: 0, ID: "java-developer-test", Name: "Java Developer Test", Description: "Measures Java programming and Spring framework knowledge", Category: "Knowledge", Skills: "java,spring"},
		{Row: 1, ID: "leadership-simulation", Name: "Leadership Simulation", Description: "Assesses how candidates lead teams through realistic scenarios", Category: "Behavioral", Skills: "communication"},
		{Row: 2, ID: "generic-aptitude", Name: "Generic Aptitude", Description: "Numerical and verbal reasoning", Category: "Ability"},
	}
}

func newTestBuilder(cache port.VectorCache) *Builder {
	cfg := BuilderConfig{
		Normalizer: analyzer.NewNormalizer(nil),
		NewVectorizer: func() port.Vectorizer {
			return vectorizer.NewFrequency(vectorizer.FrequencyConfig{
				NgramMax:    2,
				MaxFeatures: 2000,
				ApplyLSA:    true,
				Components:  15,
			})
		},
		Text: catalogue.FrequencyText,
		Ranker: retriever.NewHybridRanker(
			retriever.NewSkillScorer(retriever.DefaultFuzzyThreshold),
			retriever.NewRuleBooster(config.DefaultBoostRules()),
			domain.Weights{Semantic: 0.5, Skill: 0.5},
		),
	}
	if cache != nil {
		cfg.OpenCache = func() (port.VectorCache, error) { return cache, nil }
	}
	return NewBuilder(cfg)
}

func ids(recs []domain.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Entry.ID
	}
	return out
}

func TestEngine_JavaQueryRanksJavaFirst(t *testing.T) {
	engine, err := newTestBuilder(nil).Build(context.Background(), testEntries())
	if err != nil {
		t.Fatal(err)
	}

	recs, err := engine.Recommend(context.Background(), domain.SearchRequest{
		Query:   "Senior Java Developer with Spring experience",
		Skills:  "java, spring",
		TopK:    2,
		Explain: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 results, got %d", len(recs))
	}
	if recs[0].Entry.ID != "java-developer-test" {
		t.Errorf("expected java test first, got %v", ids(recs))
	}
	if recs[0].Rank != 1 || recs[1].Rank != 2 {
		t.Errorf("expected ranks 1,2, got %d,%d", recs[0].Rank, recs[1].Rank)
	}
	if b := recs[0].Breakdown; b == nil || b.Skill != 1 {
		t.Errorf("expected full skill overlap for java test, got %+v", b)
	}
	if recs[0].Score <= recs[1].Score {
		t.Errorf("expected strictly higher score for first result: %f vs %f", recs[0].Score, recs[1].Score)
	}
}

func TestEngine_EmptyQueryKeepsCatalogueOrder(t *testing.T) {
	engine, err := newTestBuilder(nil).Build(context.Background(), testEntries())
	if err != nil {
		t.Fatal(err)
	}

	recs, err := engine.Recommend(context.Background(), domain.SearchRequest{TopK: 10})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"java-developer-test", "leadership-simulation", "generic-aptitude"}
	if diff := cmp.Diff(want, ids(recs)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	for _, r := range recs {
		if r.Score != 0 {
			t.Errorf("%s: expected zero score, got %f", r.Entry.ID, r.Score)
		}
	}
}

func TestEngine_Deterministic(t *testing.T) {
	req := domain.SearchRequest{Query: "team leadership manager", Skills: "communication", TopK: 3}

	var runs [][]domain.Recommendation
	for i := 0; i < 2; i++ {
		engine, err := newTestBuilder(nil).Build(context.Background(), testEntries())
		if err != nil {
			t.Fatal(err)
		}
		recs, err := engine.Recommend(context.Background(), req)
		if err != nil {
			t.Fatal(err)
		}
		runs = append(runs, recs)
	}
	if diff := cmp.Diff(runs[0], runs[1]); diff != "" {
		t.Errorf("rebuilds disagree (-first +second):\n%s", diff)
	}
	if runs[0][0].Entry.ID != "leadership-simulation" {
		t.Errorf("expected leadership simulation first, got %v", ids(runs[0]))
	}
}

func TestEngine_InvalidTopK(t *testing.T) {
	engine, err := newTestBuilder(nil).Build(context.Background(), testEntries())
	if err != nil {
		t.Fatal(err)
	}
	_, err = engine.Recommend(context.Background(), domain.SearchRequest{Query: "java", TopK: 0})
	if !errors.Is(err, domain.ErrInvalidTopK) {
		t.Errorf("expected ErrInvalidTopK, got %v", err)
	}
}

func TestBuilder_EmptyCatalogue(t *testing.T) {
	_, err := newTestBuilder(nil).Build(context.Background(), nil)
	if !errors.Is(err, domain.ErrMissingData) {
		t.Errorf("expected ErrMissingData, got %v", err)
	}
}

func TestBuilder_ReusesCachedVectors(t *testing.T) {
	cache := memstore.NewVectorCache()
	b := newTestBuilder(cache)
	ctx := context.Background()

	first, err := b.Build(ctx, testEntries())
	if err != nil {
		t.Fatal(err)
	}
	if first.Stats().FromCache {
		t.Error("first build cannot come from the cache")
	}
	if cache.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", cache.Saves())
	}

	second, err := b.Build(ctx, testEntries())
	if err != nil {
		t.Fatal(err)
	}
	if !second.Stats().FromCache {
		t.Error("second build should reuse the cache")
	}
	if cache.Saves() != 1 {
		t.Errorf("cache hit should not save, got %d saves", cache.Saves())
	}
	if diff := cmp.Diff(first.vectors, second.vectors); diff != "" {
		t.Errorf("cached vectors differ (-computed +cached):\n%s", diff)
	}

	grown := append(testEntries(), domain.CatalogueEntry{
		Row: 3, ID: "python-coding", Name: "Python Coding", Description: "Python coding exercise", Category: "Knowledge", Skills: "python",
	})
	third, err := b.Build(ctx, grown)
	if err != nil {
		t.Fatal(err)
	}
	if third.Stats().FromCache {
		t.Error("grown catalogue must not reuse the old vectors")
	}
	if cache.Saves() != 2 {
		t.Errorf("expected rebuild to save again, got %d saves", cache.Saves())
	}
	if third.Stats().Entries != 4 {
		t.Errorf("expected 4 entries, got %d", third.Stats().Entries)
	}
}

func TestBuilder_ChangedTextInvalidatesCache(t *testing.T) {
	cache := memstore.NewVectorCache()
	b := newTestBuilder(cache)
	ctx := context.Background()

	if _, err := b.Build(ctx, testEntries()); err != nil {
		t.Fatal(err)
	}
	edited := testEntries()
	edited[2].Description = "Numerical, verbal and inductive reasoning"

	e, err := b.Build(ctx, edited)
	if err != nil {
		t.Fatal(err)
	}
	if e.Stats().FromCache {
		t.Error("edited description must invalidate the cache")
	}
}

type failingCache struct{}

func (failingCache) Load() (*port.Snapshot, error) { return nil, errors.New("corrupt") }
func (failingCache) Save(*port.Snapshot) error     { return errors.New("read-only") }
func (failingCache) Close() error                  { return nil }

func TestBuilder_CacheFailuresFallBackToCompute(t *testing.T) {
	e, err := newTestBuilder(failingCache{}).Build(context.Background(), testEntries())
	if err != nil {
		t.Fatalf("cache errors should not fail the build: %v", err)
	}
	if e.Stats().FromCache {
		t.Error("expected computed vectors")
	}
	if len(e.vectors) != 3 {
		t.Errorf("expected 3 vectors, got %d", len(e.vectors))
	}
}
