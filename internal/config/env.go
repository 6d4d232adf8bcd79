package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds configuration from environment variables.
type EnvConfig struct {
	Host        string `envconfig:"HOST"`
	Port        int    `envconfig:"PORT"`
	DataDir     string `envconfig:"DATA_DIR"`
	CacheDir    string `envconfig:"CACHE_DIR"`
	ModelsDir   string `envconfig:"MODELS_DIR"`
	DBURL       string `envconfig:"DB_URL"`
	CorpusCSV   string `envconfig:"CORPUS_CSV"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
	LogFormat   string `envconfig:"LOG_FORMAT"`
	SearchLimit int    `envconfig:"SEARCH_LIMIT"`

	// Remote embedding endpoint. When EMBEDDING_MODEL is unset the server
	// runs the local ONNX embedder instead.
	EmbeddingBaseURL       string        `envconfig:"EMBEDDING_BASE_URL"`
	EmbeddingModel         string        `envconfig:"EMBEDDING_MODEL"`
	EmbeddingAPIKey        string        `envconfig:"EMBEDDING_API_KEY"`
	EmbeddingTimeout       time.Duration `envconfig:"EMBEDDING_TIMEOUT"`
	EmbeddingMaxRetries    int           `envconfig:"EMBEDDING_MAX_RETRIES"`
	EmbeddingBatchSize     int           `envconfig:"EMBEDDING_BATCH_SIZE"`
	EmbeddingHTTPCacheDir  string        `envconfig:"EMBEDDING_HTTP_CACHE_DIR"`
	EmbeddingInitialDelay  time.Duration `envconfig:"EMBEDDING_INITIAL_DELAY"`
	EmbeddingBackoffFactor float64       `envconfig:"EMBEDDING_BACKOFF_FACTOR"`
}

// LoadEnvConfig loads configuration from environment variables with the
// FLOPORTOP prefix.
func LoadEnvConfig() (*EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("FLOPORTOP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}

// ToAppConfig converts EnvConfig into an AppConfig, applying only the values
// that were actually set.
func (e *EnvConfig) ToAppConfig() AppConfig {
	opts := []AppConfigOption{}

	if e.Host != "" {
		opts = append(opts, WithHost(e.Host))
	}
	if e.Port != 0 {
		opts = append(opts, WithPort(e.Port))
	}
	if e.DataDir != "" {
		opts = append(opts, WithDataDir(e.DataDir))
	}
	if e.CacheDir != "" {
		opts = append(opts, WithCacheDir(e.CacheDir))
	}
	if e.ModelsDir != "" {
		opts = append(opts, WithModelsDir(e.ModelsDir))
	}
	if e.DBURL != "" {
		opts = append(opts, WithDBURL(e.DBURL))
	}
	if e.CorpusCSV != "" {
		opts = append(opts, WithCorpusCSV(e.CorpusCSV))
	}
	if e.LogLevel != "" {
		opts = append(opts, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		if f := strings.ToLower(e.LogFormat); f == string(LogFormatJSON) {
			opts = append(opts, WithLogFormat(LogFormatJSON))
		} else {
			opts = append(opts, WithLogFormat(LogFormatPretty))
		}
	}
	if e.SearchLimit > 0 {
		opts = append(opts, WithSearchLimit(e.SearchLimit))
	}
	if e.EmbeddingHTTPCacheDir != "" {
		opts = append(opts, WithHTTPCacheDir(e.EmbeddingHTTPCacheDir))
	}

	if e.EmbeddingModel != "" {
		endpointOpts := []EndpointOption{
			WithModel(e.EmbeddingModel),
		}
		if e.EmbeddingBaseURL != "" {
			endpointOpts = append(endpointOpts, WithBaseURL(e.EmbeddingBaseURL))
		}
		if e.EmbeddingAPIKey != "" {
			endpointOpts = append(endpointOpts, WithAPIKey(e.EmbeddingAPIKey))
		}
		if e.EmbeddingTimeout > 0 {
			endpointOpts = append(endpointOpts, WithTimeout(e.EmbeddingTimeout))
		}
		if e.EmbeddingMaxRetries > 0 {
			endpointOpts = append(endpointOpts, WithMaxRetries(e.EmbeddingMaxRetries))
		}
		if e.EmbeddingBatchSize > 0 {
			endpointOpts = append(endpointOpts, WithBatchSize(e.EmbeddingBatchSize))
		}
		if e.EmbeddingInitialDelay > 0 {
			endpointOpts = append(endpointOpts, WithInitialDelay(e.EmbeddingInitialDelay))
		}
		if e.EmbeddingBackoffFactor > 0 {
			endpointOpts = append(endpointOpts, WithBackoffFactor(e.EmbeddingBackoffFactor))
		}
		opts = append(opts, WithEmbeddingEndpoint(NewEndpointWithOptions(endpointOpts...)))
	}

	return NewAppConfigWithOptions(opts...)
}
