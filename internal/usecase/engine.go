package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"assessrec/internal/adapter/analyzer"
	"assessrec/internal/adapter/retriever"
	"assessrec/internal/adapter/vectorizer"
	"assessrec/internal/domain"
	"assessrec/internal/logger"
	"assessrec/internal/port"
)

// Engine ranks one loaded catalogue. It is immutable once built and safe for
// concurrent queries.
type Engine struct {
	entries []domain.CatalogueEntry
	vectors [][]float64

	normalizer *analyzer.Normalizer
	vectorizer port.Vectorizer
	scorer     *retriever.SemanticScorer
	ranker     *retriever.HybridRanker
	stats      domain.CatalogueStats
}

// BuilderConfig wires the parts an Engine is built from.
type BuilderConfig struct {
	Normalizer *analyzer.Normalizer
	// NewVectorizer returns a fresh, unfitted vectorizer for each build.
	NewVectorizer func() port.Vectorizer
	// Text selects the text of an entry that gets vectorized.
	Text   func(domain.CatalogueEntry) string
	Ranker *retriever.HybridRanker
	// OpenCache opens the vector cache; nil disables caching.
	OpenCache func() (port.VectorCache, error)
	// LockPath, when set, is locked while the cache is read and rebuilt.
	LockPath string
	Progress vectorizer.ProgressFunc
	Logger   *zap.Logger
}

// Builder builds engines from catalogue entries.
type Builder struct {
	cfg BuilderConfig
	log *zap.Logger
}

func NewBuilder(cfg BuilderConfig) *Builder {
	if cfg.Normalizer == nil {
		cfg.Normalizer = analyzer.NewNormalizer(nil)
	}
	if cfg.Ranker == nil {
		cfg.Ranker = retriever.NewHybridRanker(nil, nil, domain.Weights{Semantic: 0.5, Skill: 0.5})
	}
	return &Builder{cfg: cfg, log: logger.OrNop(cfg.Logger)}
}

type progressReporter interface {
	OnProgress(vectorizer.ProgressFunc)
}

// Build fits the vectorizer on entries and produces their vectors, reusing the
// cached snapshot when it still describes the same catalogue.
func (b *Builder) Build(ctx context.Context, entries []domain.CatalogueEntry) (*Engine, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: catalogue is empty", domain.ErrMissingData)
	}
	start := time.Now()

	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = b.cfg.Normalizer.Normalize(b.cfg.Text(e))
	}

	vz := b.cfg.NewVectorizer()
	if b.cfg.Progress != nil {
		if pr, ok := vz.(progressReporter); ok {
			pr.OnProgress(b.cfg.Progress)
		}
	}
	if err := vz.Fit(ctx, texts); err != nil {
		return nil, fmt.Errorf("failed to fit vectorizer: %w", err)
	}

	vectors, fromCache, err := b.vectorsFor(ctx, vz, texts)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		entries:    append([]domain.CatalogueEntry(nil), entries...),
		vectors:    vectors,
		normalizer: b.cfg.Normalizer,
		vectorizer: vz,
		scorer:     retriever.NewSemanticScorer(),
		ranker:     b.cfg.Ranker,
		stats: domain.CatalogueStats{
			Entries:   len(entries),
			Dimension: vz.Dimension(),
			Model:     vz.Fingerprint(),
			FromCache: fromCache,
			BuiltAt:   time.Now(),
		},
	}

	b.log.Info("engine built",
		zap.Int("entries", len(entries)),
		zap.Int("dimension", vz.Dimension()),
		zap.String("model", vz.Fingerprint()),
		zap.Bool("from_cache", fromCache),
		zap.Duration("took", time.Since(start)),
	)
	return e, nil
}

// vectorsFor returns the catalogue vectors from the cache, or computes and stores them.
func (b *Builder) vectorsFor(ctx context.Context, vz port.Vectorizer, texts []string) ([][]float64, bool, error) {
	if b.cfg.OpenCache == nil {
		vecs, err := b.transform(ctx, vz, texts)
		return vecs, false, err
	}

	if b.cfg.LockPath != "" {
		lock := flock.New(b.cfg.LockPath)
		locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
		if err != nil {
			return nil, false, fmt.Errorf("failed to lock vector cache: %w", err)
		}
		if locked {
			defer lock.Unlock()
		}
	}

	cache, err := b.cfg.OpenCache()
	if err != nil {
		b.log.Warn("vector cache unavailable, computing vectors", zap.Error(err))
		vecs, err := b.transform(ctx, vz, texts)
		return vecs, false, err
	}
	defer cache.Close()

	model := vz.Fingerprint()
	fingerprint := port.ContentFingerprint(texts)

	snap, err := cache.Load()
	switch {
	case errors.Is(err, port.ErrCacheMiss):
		b.log.Info("vector cache miss")
	case err != nil:
		b.log.Warn("vector cache unreadable, recomputing", zap.Error(err))
	default:
		if err := snap.Validate(len(texts), model, fingerprint); err != nil {
			b.log.Info("vector cache stale, recomputing", zap.Error(err))
		} else if dimsMatch(snap.Vectors, vz.Dimension()) {
			b.log.Info("vector cache hit", zap.Int("rows", len(snap.Vectors)))
			return snap.Vectors, true, nil
		} else {
			b.log.Info("vector cache dimension mismatch, recomputing")
		}
	}

	vecs, err := b.transform(ctx, vz, texts)
	if err != nil {
		return nil, false, err
	}
	err = cache.Save(&port.Snapshot{
		SchemaVersion: port.CacheSchemaVersion,
		Model:         model,
		Fingerprint:   fingerprint,
		Vectors:       vecs,
		Texts:         texts,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		b.log.Warn("failed to save vector cache", zap.Error(err))
	}
	return vecs, false, nil
}

func (b *Builder) transform(ctx context.Context, vz port.Vectorizer, texts []string) ([][]float64, error) {
	vecs, err := vz.TransformCorpus(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize catalogue: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("vectorizer returned %d rows for %d entries", len(vecs), len(texts))
	}
	if !dimsMatch(vecs, vz.Dimension()) {
		return nil, fmt.Errorf("vectorizer returned rows of unequal length")
	}
	return vecs, nil
}

func dimsMatch(vecs [][]float64, dim int) bool {
	for _, v := range vecs {
		if len(v) != dim {
			return false
		}
	}
	return true
}

// Recommend ranks the whole catalogue for req.
func (e *Engine) Recommend(ctx context.Context, req domain.SearchRequest) ([]domain.Recommendation, error) {
	if req.TopK < 1 {
		return nil, domain.ErrInvalidTopK
	}

	semantic, err := e.semanticScores(ctx, req)
	if err != nil {
		return nil, err
	}
	return e.ranker.Rank(semantic, req, e.entries)
}

// semanticScores embeds query and skills together and scores every row.
// An empty normalized query scores zero everywhere.
func (e *Engine) semanticScores(ctx context.Context, req domain.SearchRequest) ([]float64, error) {
	text := e.normalizer.Normalize(strings.TrimSpace(req.Query + " " + req.Skills))
	if text == "" {
		return make([]float64, len(e.vectors)), nil
	}
	qv, err := e.vectorizer.TransformOne(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize query: %w", err)
	}
	return e.scorer.Score(qv, e.vectors), nil
}

// Stats describes the engine.
func (e *Engine) Stats() domain.CatalogueStats {
	return e.stats
}
