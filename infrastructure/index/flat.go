// Package index implements the flat cosine similarity index: an immutable
// in-memory embedding matrix, a lazily building engine and a disk cache.
package index

import (
	"fmt"

	"github.com/floportop/floportop/domain/search"
)

// Entry is one similarity hit resolved to a corpus id.
type Entry struct {
	MovieID int64
	Score   float64
}

// FlatIndex is an immutable embedding matrix paired with corpus ids. For
// exhaustive cosine search the matrix is the whole index; once constructed
// it is never mutated, so it is safe for concurrent use.
type FlatIndex struct {
	embedderID string
	dimension  int
	ids        []int64
	vectors    [][]float64
}

// NewFlatIndex constructs a FlatIndex. The ids and vectors must be parallel
// slices in corpus insertion order and every vector must match dimension.
func NewFlatIndex(embedderID string, dimension int, ids []int64, vectors [][]float64) (*FlatIndex, error) {
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("index has %d ids but %d vectors", len(ids), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, fmt.Errorf("index vector %d has %d dims, expected %d", i, len(v), dimension)
		}
	}
	return &FlatIndex{
		embedderID: embedderID,
		dimension:  dimension,
		ids:        ids,
		vectors:    vectors,
	}, nil
}

// EmbedderID returns the id of the embedder that produced the vectors.
func (f *FlatIndex) EmbedderID() string { return f.embedderID }

// Dimension returns the vector width.
func (f *FlatIndex) Dimension() int { return f.dimension }

// Size returns the number of indexed movies.
func (f *FlatIndex) Size() int { return len(f.ids) }

// IDs returns the indexed corpus ids in insertion order.
func (f *FlatIndex) IDs() []int64 { return f.ids }

// Search returns the k entries most similar to the query vector, ordered by
// descending score with ties broken by insertion order.
func (f *FlatIndex) Search(query []float64, k int) ([]Entry, error) {
	if len(query) != f.dimension {
		return nil, fmt.Errorf("query has %d dims, index expects %d", len(query), f.dimension)
	}

	matches := search.TopK(query, f.vectors, k)
	entries := make([]Entry, len(matches))
	for i, m := range matches {
		entries[i] = Entry{MovieID: f.ids[m.Index], Score: m.Score}
	}
	return entries, nil
}
