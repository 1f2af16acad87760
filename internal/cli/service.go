package cli

import (
	"context"
	"fmt"

	"assessrec/config"
	"assessrec/internal/adapter/analyzer"
	"assessrec/internal/adapter/cache"
	"assessrec/internal/adapter/catalogue"
	"assessrec/internal/adapter/embedding"
	"assessrec/internal/adapter/memstore"
	"assessrec/internal/adapter/retriever"
	"assessrec/internal/adapter/store"
	"assessrec/internal/adapter/vectorizer"
	"assessrec/internal/domain"
	"assessrec/internal/port"
	"assessrec/internal/usecase"
)

// serviceOptions tweak the service built from the loaded config.
type serviceOptions struct {
	progress   vectorizer.ProgressFunc
	queryCache bool
}

// newService wires the recommender described by cfg. The returned service is
// not loaded yet.
func newService(ctx context.Context, cfg *config.Config, root string, opts serviceOptions) (*usecase.Service, error) {
	log := GetLogger()

	newVectorizer, text, err := vectorizerFactory(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ranker := retriever.NewHybridRanker(
		retriever.NewSkillScorer(cfg.Rank.FuzzyThreshold),
		retriever.NewRuleBooster(cfg.Boosts),
		domain.Weights{Semantic: cfg.Rank.SemanticWeight, Skill: cfg.Rank.SkillWeight},
	)

	bc := usecase.BuilderConfig{
		Normalizer:    analyzer.NewNormalizer(cfg.Normalize.Abbreviations),
		NewVectorizer: newVectorizer,
		Text:          text,
		Ranker:        ranker,
		Progress:      opts.progress,
		Logger:        log,
	}

	if cfg.Cache.Enabled {
		dbPath := cfg.CacheDBPath(root)
		if err := config.EnsureDataDir(dbPath); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		bc.OpenCache = func() (port.VectorCache, error) { return store.Open(dbPath) }
		bc.LockPath = dbPath + ".lock"
	} else {
		mem := memstore.NewVectorCache()
		bc.OpenCache = func() (port.VectorCache, error) { return mem, nil }
	}

	var qc *cache.QueryCache
	if opts.queryCache && cfg.Cache.QueryCacheMax > 0 {
		qc = cache.NewQueryCache(cfg.Cache.QueryCacheMax, cfg.Cache.QueryCacheTTL)
	}

	source := usecase.Source{Root: root, Patterns: cfg.Catalogue.Paths}
	return usecase.NewService(usecase.NewBuilder(bc), source, qc, log), nil
}

// vectorizerFactory returns a constructor for fresh vectorizers and the entry
// text that strategy is fitted on.
func vectorizerFactory(ctx context.Context, cfg *config.Config) (func() port.Vectorizer, func(domain.CatalogueEntry) string, error) {
	switch cfg.Vectorizer.Strategy {
	case "embedding":
		emb, err := embedding.New(ctx, cfg.Embedding)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create embedder: %w", err)
		}
		return func() port.Vectorizer {
			return vectorizer.NewPretrained(emb, cfg.Embedding.BatchSize, cfg.Embedding.Concurrency)
		}, catalogue.DocumentText, nil
	default:
		fc := vectorizer.FrequencyConfig{
			NgramMax:    cfg.Vectorizer.NgramMax,
			MaxFeatures: cfg.Vectorizer.MaxFeatures,
			ApplyLSA:    cfg.Vectorizer.ApplyLSA,
			Components:  cfg.Vectorizer.Components,
		}
		return func() port.Vectorizer {
			return vectorizer.NewFrequency(fc)
		}, catalogue.FrequencyText, nil
	}
}
