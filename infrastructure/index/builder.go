package index

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/floportop/floportop/domain/movie"
	"github.com/floportop/floportop/domain/search"
	"github.com/floportop/floportop/internal/log"
)

// buildParallelism bounds concurrent embedding batches. The local embedder
// serializes on the ORT mutex regardless; remote endpoints benefit.
const buildParallelism = 4

// Builder embeds the whole corpus and assembles a FlatIndex.
type Builder struct {
	store    movie.Store
	embedder search.Embedder
	logger   *log.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(store movie.Store, embedder search.Embedder, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{store: store, embedder: embedder, logger: logger}
}

// Build loads every corpus record, embeds its search text in batches and
// returns the assembled index together with the corpus fingerprint. Vector
// order follows corpus insertion order.
func (b *Builder) Build(ctx context.Context) (*FlatIndex, string, error) {
	started := time.Now()

	records, err := b.store.All(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("load corpus: %w", err)
	}
	if len(records) == 0 {
		return nil, "", fmt.Errorf("corpus is empty, nothing to index")
	}

	ids := make([]int64, len(records))
	texts := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID()
		texts[i] = r.EmbeddingText()
	}

	vectors, err := b.embedAll(ctx, texts)
	if err != nil {
		return nil, "", err
	}

	idx, err := NewFlatIndex(b.embedder.ID(), b.embedder.Dimension(), ids, vectors)
	if err != nil {
		return nil, "", fmt.Errorf("assemble index: %w", err)
	}

	b.logger.Info("index build finished",
		"vectors", idx.Size(),
		"dimension", idx.Dimension(),
		"embedder", idx.EmbedderID(),
		"duration", time.Since(started),
	)
	return idx, Fingerprint(ids), nil
}

// embedAll embeds texts in capacity-sized batches with bounded parallelism.
// Each batch writes into its own slot range of the result, so order is
// preserved regardless of completion order.
func (b *Builder) embedAll(ctx context.Context, texts []string) ([][]float64, error) {
	batchSize := b.embedder.Capacity()
	if batchSize <= 0 {
		batchSize = 1
	}

	vectors := make([][]float64, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(buildParallelism)

	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		g.Go(func() error {
			batch, err := b.embedder.Embed(gctx, texts[start:end])
			if err != nil {
				return fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
			}
			if len(batch) != end-start {
				return fmt.Errorf("embed batch [%d:%d]: got %d vectors", start, end, len(batch))
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
