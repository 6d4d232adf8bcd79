package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/floportop/floportop/domain/feature"
	"github.com/floportop/floportop/domain/movie"
	"github.com/floportop/floportop/domain/search"
	"github.com/floportop/floportop/infrastructure/index"
	"github.com/floportop/floportop/internal/log"
)

// SimilarityService answers free-text similarity queries against the corpus
// index, building the index on first use.
type SimilarityService struct {
	engine   *index.Engine
	embedder search.Embedder
	store    movie.Store
	logger   *log.Logger
}

// NewSimilarityService creates a SimilarityService.
func NewSimilarityService(engine *index.Engine, embedder search.Embedder, store movie.Store, logger *log.Logger) *SimilarityService {
	if logger == nil {
		logger = log.Default()
	}
	return &SimilarityService{
		engine:   engine,
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Similar returns the k corpus movies most similar to the query text. The
// first call builds the index; concurrent calls share one build.
func (s *SimilarityService) Similar(ctx context.Context, query string, k int) ([]search.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, feature.NewValidationError("query", "must not be blank")
	}
	if k <= 0 {
		return nil, feature.NewValidationError("k", "must be positive, got %d", k)
	}

	idx, err := s.engine.Index(ctx)
	if err != nil {
		return nil, err
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, wrapEmbedderError(err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: got %d vectors for one text", ErrEmbedderUnavailable, len(vectors))
	}

	entries, err := idx.Search(vectors[0], k)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.MovieID
	}
	records, err := s.store.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]movie.Record, len(records))
	for _, r := range records {
		byID[r.ID()] = r
	}

	results := make([]search.Result, 0, len(entries))
	for _, e := range entries {
		record, ok := byID[e.MovieID]
		if !ok {
			// Indexed movie no longer in the corpus; the stale index
			// will be caught by the manifest on the next restart.
			s.logger.WarnContext(ctx, "indexed movie missing from corpus", "movie_id", e.MovieID)
			continue
		}
		results = append(results, search.Result{Record: record, Score: e.Score})
	}
	return results, nil
}

// Rebuild discards the persisted index and rebuilds it from the corpus.
func (s *SimilarityService) Rebuild(ctx context.Context) error {
	return s.engine.Rebuild(ctx)
}

// IndexState returns the engine lifecycle state.
func (s *SimilarityService) IndexState() index.State {
	return s.engine.State()
}

// IndexSize returns the number of indexed movies (0 when not ready).
func (s *SimilarityService) IndexSize() int {
	return s.engine.Size()
}
