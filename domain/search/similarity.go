package search

import (
	"math"
	"sort"

	"github.com/floportop/floportop/domain/movie"
)

// Match is one similarity hit against the in-memory vector set.
type Match struct {
	// Index is the position of the matched vector in the searched set.
	Index int
	// Score is the cosine similarity in [-1, 1].
	Score float64
}

// Result pairs a corpus record with its similarity score.
type Result struct {
	Record movie.Record
	Score  float64
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Mismatched lengths and zero vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// TopK returns the k vectors most similar to the query, ordered by
// descending score. Equal scores are ordered by ascending index so results
// are deterministic. k larger than the set is clamped; k <= 0 returns nil.
func TopK(query []float64, vectors [][]float64, k int) []Match {
	if k <= 0 || len(vectors) == 0 {
		return nil
	}
	if k > len(vectors) {
		k = len(vectors)
	}

	matches := make([]Match, len(vectors))
	for i, v := range vectors {
		matches[i] = Match{Index: i, Score: CosineSimilarity(query, v)}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Index < matches[j].Index
	})
	return matches[:k]
}
