package service

import (
	"context"

	"github.com/floportop/floportop/domain/movie"
	"github.com/floportop/floportop/domain/search"
	"github.com/floportop/floportop/infrastructure/index"
	"github.com/floportop/floportop/internal/log"
)

// Status is a point-in-time health snapshot.
type Status struct {
	Healthy       bool
	ModelVersion  string
	EmbedderID    string
	EmbedderReady bool
	IndexState    index.State
	IndexSize     int
	CorpusSize    int64
}

// availabilityProber is implemented by embedders that can report readiness
// without performing an inference.
type availabilityProber interface {
	Available() bool
}

// StatusService reports service health.
type StatusService struct {
	embedder     search.Embedder
	engine       *index.Engine
	store        movie.Store
	modelVersion string
	logger       *log.Logger
}

// NewStatusService creates a StatusService.
func NewStatusService(embedder search.Embedder, engine *index.Engine, store movie.Store, modelVersion string, logger *log.Logger) *StatusService {
	if logger == nil {
		logger = log.Default()
	}
	return &StatusService{
		embedder:     embedder,
		engine:       engine,
		store:        store,
		modelVersion: modelVersion,
		logger:       logger,
	}
}

// Check gathers the health snapshot. The service is healthy when the corpus
// is reachable and the index is not failed; an unbuilt index is healthy
// because the first query will build it.
func (s *StatusService) Check(ctx context.Context) Status {
	status := Status{
		ModelVersion:  s.modelVersion,
		EmbedderID:    s.embedder.ID(),
		EmbedderReady: true,
		IndexState:    s.engine.State(),
		IndexSize:     s.engine.Size(),
	}

	if prober, ok := s.embedder.(availabilityProber); ok {
		status.EmbedderReady = prober.Available()
	}

	corpusSize, err := s.store.Count(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "health check cannot reach corpus", "error", err)
		return status
	}
	status.CorpusSize = corpusSize

	status.Healthy = status.EmbedderReady && status.IndexState != index.StateFailed
	return status
}
