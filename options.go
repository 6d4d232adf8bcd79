package floportop

import (
	"github.com/floportop/floportop/domain/movie"
	"github.com/floportop/floportop/domain/search"
	"github.com/floportop/floportop/internal/config"
	"github.com/floportop/floportop/internal/log"
)

type options struct {
	config   config.AppConfig
	logger   *log.Logger
	embedder search.Embedder
	store    movie.Store
}

// Option configures a Client.
type Option func(*options)

func newOptions(opts ...Option) options {
	o := options{config: config.NewAppConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithConfig sets the application configuration.
func WithConfig(cfg config.AppConfig) Option {
	return func(o *options) { o.config = cfg }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithEmbedder overrides the embedding provider. Useful for tests and for
// custom providers.
func WithEmbedder(embedder search.Embedder) Option {
	return func(o *options) { o.embedder = embedder }
}

// WithStore overrides the corpus store. When set, no database is opened and
// the corpus CSV is not imported.
func WithStore(store movie.Store) Option {
	return func(o *options) { o.store = store }
}
