// Package floportop predicts movie ratings from metadata and plot text, and
// retrieves semantically similar movies from a pre-embedded corpus.
package floportop

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/floportop/floportop/application/service"
	"github.com/floportop/floportop/domain/movie"
	"github.com/floportop/floportop/domain/search"
	"github.com/floportop/floportop/infrastructure/artifact"
	"github.com/floportop/floportop/infrastructure/index"
	"github.com/floportop/floportop/infrastructure/persistence"
	"github.com/floportop/floportop/infrastructure/provider"
	"github.com/floportop/floportop/internal/config"
	"github.com/floportop/floportop/internal/database"
	"github.com/floportop/floportop/internal/log"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Client owns every service of the engine. Construct it with New, then use
// the service accessors. The similarity index builds lazily on first query;
// call Warmup to front-load the expensive initialization instead.
type Client struct {
	config config.AppConfig
	logger *log.Logger

	db       *database.Database
	store    movie.Store
	embedder search.Embedder
	engine   *index.Engine

	prediction    *service.PredictionService
	predictionErr error
	similarity    *service.SimilarityService
	status        *service.StatusService
}

// New constructs a Client from configuration. Missing prediction artifacts
// do not fail construction; the prediction service reports them unavailable
// while similarity search keeps working.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	o := newOptions(opts...)

	cfg := o.config
	logger := o.logger
	if logger == nil {
		logger = log.NewLogger(cfg)
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := cfg.EnsureCacheDir(); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	if err := cfg.EnsureModelsDir(); err != nil {
		return nil, fmt.Errorf("create models directory: %w", err)
	}

	c := &Client{config: cfg, logger: logger}

	if err := c.initStore(ctx, o); err != nil {
		return nil, err
	}
	c.initEmbedder(o)

	cache := index.NewCache(filepath.Join(cfg.CacheDir(), "index"))
	c.engine = index.NewEngine(c.store, c.embedder, cache, logger)

	modelVersion := ""
	bundle, err := artifact.LoadBundle(cfg.ModelsDir())
	if err != nil {
		c.predictionErr = err
		logger.Warn("prediction artifacts unavailable, predict endpoint will return 503", "error", err)
	} else {
		c.prediction = service.NewPredictionService(c.embedder, bundle.Reducer, bundle.Predictor, bundle.Medians, logger)
		modelVersion = bundle.Predictor.Version()
		logger.Info("prediction artifacts loaded",
			"model_version", modelVersion,
			"budget_decades", bundle.Medians.Decades(),
			"budget_fallback", bundle.Medians.Fallback(),
		)
	}

	c.similarity = service.NewSimilarityService(c.engine, c.embedder, c.store, logger)
	c.status = service.NewStatusService(c.embedder, c.engine, c.store, modelVersion, logger)
	return c, nil
}

func (c *Client) initStore(ctx context.Context, o options) error {
	if o.store != nil {
		c.store = o.store
		return nil
	}

	db, err := database.NewDatabase(ctx, c.config.DBURL())
	if err != nil {
		return err
	}
	c.db = db

	movieStore, err := persistence.NewMovieStore(db)
	if err != nil {
		return err
	}
	c.store = movieStore

	if path := c.config.CorpusCSV(); path != "" {
		importer := persistence.NewCSVImporter(movieStore, c.logger)
		if _, err := importer.ImportIfEmpty(ctx, path); err != nil {
			return fmt.Errorf("seed corpus: %w", err)
		}
	}
	return nil
}

func (c *Client) initEmbedder(o options) {
	if o.embedder != nil {
		c.embedder = o.embedder
		return
	}
	if endpoint := c.config.EmbeddingEndpoint(); endpoint != nil && endpoint.IsConfigured() {
		c.embedder = provider.NewRemoteEmbedder(*endpoint, c.config.HTTPCacheDir())
		return
	}
	c.embedder = provider.NewLocalEmbedder(c.config.ModelsDir())
}

// embedderWarmer is implemented by embedders with an explicit load step.
type embedderWarmer interface {
	Warmup(ctx context.Context) error
}

// Warmup performs the observable initialization phase: it loads the
// embedding model and touches the corpus so the first request doesn't pay
// those costs. The similarity index still builds lazily on first query.
func (c *Client) Warmup(ctx context.Context) error {
	if warmer, ok := c.embedder.(embedderWarmer); ok {
		if err := warmer.Warmup(ctx); err != nil {
			return fmt.Errorf("warm up embedder: %w", err)
		}
	}

	corpusSize, err := c.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("reach corpus: %w", err)
	}

	c.logger.InfoContext(ctx, "warmup complete",
		"corpus_size", corpusSize,
		"embedder", c.embedder.ID(),
		"prediction_ready", c.predictionErr == nil,
	)
	return nil
}

// Config returns the client configuration.
func (c *Client) Config() config.AppConfig {
	return c.config
}

// Logger returns the underlying slog logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger.Slog()
}

// Prediction returns the prediction service, or the artifact load error when
// the trained artifacts are unavailable.
func (c *Client) Prediction() (*service.PredictionService, error) {
	if c.predictionErr != nil {
		return nil, c.predictionErr
	}
	return c.prediction, nil
}

// Similarity returns the similarity search service.
func (c *Client) Similarity() *service.SimilarityService {
	return c.similarity
}

// Status returns the health service.
func (c *Client) Status() *service.StatusService {
	return c.status
}

// SearchLimit returns the default similar-movie result count.
func (c *Client) SearchLimit() int {
	return c.config.SearchLimit()
}

// Close releases the database connection.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
