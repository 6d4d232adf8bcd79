// Package movie contains the movie corpus domain model.
package movie

import (
	"fmt"
	"strings"
)

// Record is an immutable movie corpus record.
type Record struct {
	id          int64
	imdbID      string
	title       string
	year        int
	genres      []string
	keywords    []string
	cast        []string
	directors   []string
	overview    string
	voteAverage float64
	voteCount   int64
	runtime     float64
	budget      float64
	isAdult     bool
}

// NewRecord creates a Record with the identity fields validated.
func NewRecord(id int64, title string, year int) (Record, error) {
	if id < 0 {
		return Record{}, fmt.Errorf("movie id must not be negative, got %d", id)
	}
	if strings.TrimSpace(title) == "" {
		return Record{}, fmt.Errorf("movie %d has an empty title", id)
	}
	return Record{id: id, title: title, year: year}, nil
}

// ReconstructRecord recreates a Record from persisted values without
// validation. Intended for the persistence layer only.
func ReconstructRecord(
	id int64,
	imdbID string,
	title string,
	year int,
	genres []string,
	keywords []string,
	cast []string,
	directors []string,
	overview string,
	voteAverage float64,
	voteCount int64,
	runtime float64,
	budget float64,
	isAdult bool,
) Record {
	return Record{
		id:          id,
		imdbID:      imdbID,
		title:       title,
		year:        year,
		genres:      genres,
		keywords:    keywords,
		cast:        cast,
		directors:   directors,
		overview:    overview,
		voteAverage: voteAverage,
		voteCount:   voteCount,
		runtime:     runtime,
		budget:      budget,
		isAdult:     isAdult,
	}
}

// WithPlot returns a copy with overview and keywords set.
func (r Record) WithPlot(overview string, keywords []string) Record {
	r.overview = overview
	r.keywords = keywords
	return r
}

// WithCredits returns a copy with cast and directors set.
func (r Record) WithCredits(cast, directors []string) Record {
	r.cast = cast
	r.directors = directors
	return r
}

// WithGenres returns a copy with genres set.
func (r Record) WithGenres(genres []string) Record {
	r.genres = genres
	return r
}

// WithVotes returns a copy with the vote aggregates set.
func (r Record) WithVotes(average float64, count int64) Record {
	r.voteAverage = average
	r.voteCount = count
	return r
}

// WithProduction returns a copy with runtime, budget and the adult flag set.
func (r Record) WithProduction(runtime, budget float64, isAdult bool) Record {
	r.runtime = runtime
	r.budget = budget
	r.isAdult = isAdult
	return r
}

// WithImdbID returns a copy with the IMDb identifier set.
func (r Record) WithImdbID(imdbID string) Record {
	r.imdbID = imdbID
	return r
}

// ID returns the corpus identifier.
func (r Record) ID() int64 { return r.id }

// ImdbID returns the IMDb identifier (may be empty).
func (r Record) ImdbID() string { return r.imdbID }

// Title returns the movie title.
func (r Record) Title() string { return r.title }

// Year returns the release year.
func (r Record) Year() int { return r.year }

// Genres returns the genre names.
func (r Record) Genres() []string { return r.genres }

// Keywords returns the plot keywords.
func (r Record) Keywords() []string { return r.keywords }

// Cast returns the top-billed cast names.
func (r Record) Cast() []string { return r.cast }

// Directors returns the director names.
func (r Record) Directors() []string { return r.directors }

// Overview returns the plot overview.
func (r Record) Overview() string { return r.overview }

// VoteAverage returns the mean audience rating.
func (r Record) VoteAverage() float64 { return r.voteAverage }

// VoteCount returns the number of votes.
func (r Record) VoteCount() int64 { return r.voteCount }

// Runtime returns the runtime in minutes.
func (r Record) Runtime() float64 { return r.runtime }

// Budget returns the production budget in dollars (0 when unknown).
func (r Record) Budget() float64 { return r.budget }

// IsAdult reports whether the movie is flagged as adult.
func (r Record) IsAdult() bool { return r.isAdult }

// EmbeddingText renders the multi-line text that is embedded for similarity
// search. Empty fields keep their label so that the rendering is stable
// across corpus revisions.
func (r Record) EmbeddingText() string {
	return strings.Join([]string{
		"Title: " + r.title,
		"Overview: " + r.overview,
		"Genres: " + strings.Join(r.genres, ", "),
		"Keywords: " + strings.Join(r.keywords, ", "),
		"Cast: " + strings.Join(r.cast, ", "),
		"Director: " + strings.Join(r.directors, ", "),
	}, "\n")
}
