package provider

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/floportop/floportop/domain/search"
	"github.com/floportop/floportop/internal/config"
)

// errEmbeddingCountMismatch indicates the API returned fewer embedding
// vectors than requested. Retryable: transient upstream issues behind a 200
// status can produce partial responses.
var errEmbeddingCountMismatch = errors.New("embedding response count mismatch")

// errUpstreamFailure indicates the API returned HTTP 200 but an empty body
// with no model and zero usage. Routing providers do this when every
// upstream is down; retrying is futile.
var errUpstreamFailure = errors.New("upstream provider failure")

// RemoteEmbedder embeds text through an OpenAI-compatible endpoint. Vectors
// are L2-normalized before they are returned so that remote and local
// embeddings obey the same contract.
type RemoteEmbedder struct {
	client        *openai.Client
	model         string
	dimension     int
	batchSize     int
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// NewRemoteEmbedder creates a RemoteEmbedder from an endpoint config. When
// httpCacheDir is non-empty, responses are cached on disk through a
// CachingTransport.
func NewRemoteEmbedder(endpoint config.Endpoint, httpCacheDir string) *RemoteEmbedder {
	clientConfig := openai.DefaultConfig(endpoint.APIKey())
	if endpoint.BaseURL() != "" {
		clientConfig.BaseURL = endpoint.BaseURL()
	}

	httpClient := &http.Client{Timeout: endpoint.Timeout()}
	if httpCacheDir != "" {
		httpClient.Transport = NewCachingTransport(httpCacheDir, nil)
	}
	clientConfig.HTTPClient = httpClient

	return &RemoteEmbedder{
		client:        openai.NewClientWithConfig(clientConfig),
		model:         endpoint.Model(),
		dimension:     MiniLMDimension,
		batchSize:     endpoint.BatchSize(),
		maxRetries:    endpoint.MaxRetries(),
		initialDelay:  endpoint.InitialDelay(),
		backoffFactor: endpoint.BackoffFactor(),
	}
}

// ID returns the remote embedding model identifier.
func (r *RemoteEmbedder) ID() string { return r.model }

// Dimension returns the expected embedding width.
func (r *RemoteEmbedder) Dimension() int { return r.dimension }

// Capacity returns the maximum number of texts per Embed call.
func (r *RemoteEmbedder) Capacity() int { return r.batchSize }

// Embed generates embeddings for the given texts in a single API call.
func (r *RemoteEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}
	if len(texts) > r.batchSize {
		return nil, fmt.Errorf("embed: %d texts exceeds capacity %d", len(texts), r.batchSize)
	}

	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(r.model),
		Input: texts,
	}

	var resp openai.EmbeddingResponse
	err := r.withRetry(ctx, func() error {
		var callErr error
		resp, callErr = r.client.CreateEmbeddings(ctx, req)
		if callErr != nil {
			return callErr
		}
		// Routing providers can return HTTP 200 with an error body that
		// go-openai silently parses into an empty response.
		if len(resp.Data) == 0 && string(resp.Model) == "" && resp.Usage.TotalTokens == 0 {
			return fmt.Errorf("%w: HTTP 200 with no embedding data, no model, zero usage", errUpstreamFailure)
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("%w: got %d vectors for %d texts", errEmbeddingCountMismatch, len(resp.Data), len(texts))
		}
		return nil
	})
	if err != nil {
		return nil, r.wrapError("embedding", err)
	}

	embeddings := make([][]float64, len(resp.Data))
	for i, data := range resp.Data {
		if len(data.Embedding) != r.dimension {
			return nil, NewProviderError("embedding", 0,
				fmt.Sprintf("model %s returned %d-dim vector, expected %d", r.model, len(data.Embedding), r.dimension), nil)
		}
		vec := make([]float64, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float64(v)
		}
		embeddings[i] = normalize(vec)
	}
	return embeddings, nil
}

// Close is a no-op for the remote embedder.
func (r *RemoteEmbedder) Close() error {
	return nil
}

// normalize rescales a vector to unit L2 norm. Zero vectors pass through.
func normalize(vec []float64) []float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// withRetry executes the function with exponential backoff retry.
func (r *RemoteEmbedder) withRetry(ctx context.Context, fn func() error) error {
	delay := r.initialDelay
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}

		if attempt < r.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * r.backoffFactor)
			}
		}
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	if errors.Is(err, errEmbeddingCountMismatch) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return true
	}
	return false
}

func (r *RemoteEmbedder) wrapError(operation string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewProviderError(operation, apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewProviderError(operation, reqErr.HTTPStatusCode, reqErr.Error(), err)
	}
	return NewProviderError(operation, 0, err.Error(), err)
}

var _ search.Embedder = (*RemoteEmbedder)(nil)
