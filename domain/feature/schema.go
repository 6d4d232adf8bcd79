// Package feature implements the trained feature schema: structured metadata
// features, PCA reduction of plot embeddings, and the rating regression.
package feature

import "fmt"

// SchemaVersion identifies the feature schema the trained artifacts expect.
const SchemaVersion = "v5"

// Schema constants shared with the trained artifacts.
const (
	// ReferenceYear anchors the movie_age feature. The model was trained
	// against this year and must not drift with the wall clock.
	ReferenceYear = 2026

	// RuntimeCap is the upper bound applied to runtime minutes.
	RuntimeCap = 300.0

	// EmbeddingDim is the plot embedding width the reducer was fit on.
	EmbeddingDim = 384

	// ComponentCount is the number of reduced plot components.
	ComponentCount = 20

	// DefaultLogBudget imputes log_budget when a movie has no budget and
	// its decade has no recorded median.
	DefaultLogBudget = 16.0
)

// Input validation bounds.
const (
	MinYear    = 1888
	MaxYear    = 2031
	MinRuntime = 1.0
	MaxRuntime = 1000.0
)

// GenreVocabulary lists the genres the model was trained on, in the one-hot
// column order of the schema. Order matters.
var GenreVocabulary = []string{
	"Drama", "Comedy", "Documentary", "Romance",
	"Action", "Crime", "Thriller", "Horror",
	"Adventure", "Mystery", "Family", "Biography",
	"Fantasy", "History", "Music", "Sci-Fi",
	"Musical", "War", "Animation", "Western",
	"Sport", "Adult",
}

// FeatureCount is the total width of a schema v5 feature vector.
const FeatureCount = 5 + 22 + ComponentCount + 2

// FeatureNames returns the schema v5 feature names in trained order.
func FeatureNames() []string {
	names := make([]string, 0, FeatureCount)
	names = append(names, "movie_age", "decade", "runtimeMinutes_capped", "genre_count", "isAdult")
	for _, g := range GenreVocabulary {
		names = append(names, "Genre_"+g)
	}
	for i := 0; i < ComponentCount; i++ {
		names = append(names, fmt.Sprintf("pca_%d", i))
	}
	names = append(names, "log_budget", "has_budget")
	return names
}

// genreIndex maps genre name to its one-hot column offset.
var genreIndex = func() map[string]int {
	m := make(map[string]int, len(GenreVocabulary))
	for i, g := range GenreVocabulary {
		m[g] = i
	}
	return m
}()

// KnownGenre reports whether the genre is part of the trained vocabulary.
func KnownGenre(name string) bool {
	_, ok := genreIndex[name]
	return ok
}
