// Package search contains the semantic similarity domain model.
package search

import "context"

// Embedder converts texts into fixed-length vectors. Implementations must be
// deterministic for a given ID: the same text always yields the same vector.
type Embedder interface {
	// ID identifies the embedding model and version. Vectors from
	// different IDs are never comparable.
	ID() string

	// Dimension returns the width of the vectors this embedder produces.
	Dimension() int

	// Capacity returns the maximum number of texts accepted per Embed call.
	Capacity() int

	// Embed converts a batch of texts into vectors, one per input text and
	// in input order.
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}
