package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"assessrec/internal/adapter/cache"
	"assessrec/internal/adapter/catalogue"
	"assessrec/internal/domain"
	"assessrec/internal/logger"
)

// Source locates the catalogue files.
type Source struct {
	Root     string
	Patterns []string
}

// Service answers queries against the current engine. Load and Reload build a
// new engine off to the side and publish it atomically.
type Service struct {
	engine  atomic.Pointer[Engine]
	builder *Builder
	source  Source
	cache   *cache.QueryCache
	log     *zap.Logger

	buildMu sync.Mutex
	files   []string
}

// NewService creates a service that is not ready until Load succeeds.
// queryCache may be nil.
func NewService(builder *Builder, source Source, queryCache *cache.QueryCache, log *zap.Logger) *Service {
	return &Service{
		builder: builder,
		source:  source,
		cache:   queryCache,
		log:     logger.OrNop(log),
	}
}

// Load reads the catalogue, builds an engine and publishes it.
// On failure the previously published engine, if any, keeps serving.
func (s *Service) Load(ctx context.Context) (domain.CatalogueStats, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	entries, files, err := catalogue.Load(s.source.Root, s.source.Patterns)
	if err != nil {
		return domain.CatalogueStats{}, fmt.Errorf("failed to load catalogue: %w", err)
	}

	engine, err := s.builder.Build(ctx, entries)
	if err != nil {
		return domain.CatalogueStats{}, err
	}

	s.Publish(engine)
	s.files = files
	return engine.Stats(), nil
}

// Reload is Load for a running service; failures are logged and the current engine stays.
func (s *Service) Reload(ctx context.Context) error {
	stats, err := s.Load(ctx)
	if err != nil {
		s.log.Error("catalogue reload failed, keeping current engine", zap.Error(err))
		return err
	}
	s.log.Info("catalogue reloaded", zap.Int("entries", stats.Entries), zap.Bool("from_cache", stats.FromCache))
	return nil
}

// Publish makes engine the one serving queries.
func (s *Service) Publish(engine *Engine) {
	s.engine.Store(engine)
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

// Ready reports whether an engine has been published.
func (s *Service) Ready() bool {
	return s.engine.Load() != nil
}

// Stats describes the serving engine.
func (s *Service) Stats() (domain.CatalogueStats, bool) {
	e := s.engine.Load()
	if e == nil {
		return domain.CatalogueStats{}, false
	}
	return e.Stats(), true
}

// Files returns the catalogue files of the last successful load.
func (s *Service) Files() []string {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	return append([]string(nil), s.files...)
}

// Recommend ranks the catalogue for req.
func (s *Service) Recommend(ctx context.Context, req domain.SearchRequest) ([]domain.Recommendation, error) {
	// Publish stores before it invalidates, so reading the generation first
	// means a stale engine can never be paired with a current generation.
	var gen uint64
	if s.cache != nil {
		gen = s.cache.Generation()
	}
	e := s.engine.Load()
	if e == nil {
		return nil, domain.ErrNotReady
	}
	if req.TopK < 1 {
		return nil, domain.ErrInvalidTopK
	}

	if s.cache != nil {
		if results, ok := s.cache.Get(req); ok {
			return results, nil
		}
	}

	results, err := e.Recommend(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.PutIfCurrent(req, results, gen)
	}
	s.log.Debug("recommend",
		zap.String("query", logger.Truncate(req.Query, 80)),
		zap.Int("top_k", req.TopK),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// Search returns the flat result form used by the HTTP API and UI.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]domain.SearchHit, error) {
	recs, err := s.Recommend(ctx, domain.SearchRequest{Query: query, TopK: topK})
	if err != nil {
		return nil, err
	}
	hits := make([]domain.SearchHit, len(recs))
	for i, r := range recs {
		hits[i] = r.Hit()
	}
	return hits, nil
}
