package feature

import (
	"math"
	"strings"
)

// DefaultGenres is assumed when a prediction request names no genres.
const DefaultGenres = "Drama"

// Metadata is a validated prediction input. Construction enforces the input
// bounds; accessors expose the derived structured features.
type Metadata struct {
	year          int
	runtime       float64
	overview      string
	genres        []string
	droppedGenres []string
	budget        float64
	isAdult       bool
}

// NewMetadata validates raw prediction inputs and derives the genre set.
// Genre names outside the trained vocabulary are dropped and reported via
// DroppedGenres; they never fail validation.
func NewMetadata(year int, runtime float64, overview, genres string, budget float64, isAdult bool) (Metadata, error) {
	if year < MinYear || year > MaxYear {
		return Metadata{}, NewValidationError("startYear", "must be between %d and %d, got %d", MinYear, MaxYear, year)
	}
	if runtime < MinRuntime || runtime > MaxRuntime {
		return Metadata{}, NewValidationError("runtimeMinutes", "must be between %g and %g, got %g", MinRuntime, MaxRuntime, runtime)
	}
	if strings.TrimSpace(overview) == "" {
		return Metadata{}, NewValidationError("overview", "must not be blank")
	}
	if budget < 0 {
		return Metadata{}, NewValidationError("budget", "must not be negative, got %g", budget)
	}

	if strings.TrimSpace(genres) == "" {
		genres = DefaultGenres
	}
	known, dropped := splitGenres(genres)

	return Metadata{
		year:          year,
		runtime:       runtime,
		overview:      overview,
		genres:        known,
		droppedGenres: dropped,
		budget:        budget,
		isAdult:       isAdult,
	}, nil
}

func splitGenres(raw string) (known, dropped []string) {
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if KnownGenre(name) {
			known = append(known, name)
		} else {
			dropped = append(dropped, name)
		}
	}
	return known, dropped
}

// Year returns the release year.
func (m Metadata) Year() int { return m.year }

// Overview returns the plot overview text.
func (m Metadata) Overview() string { return m.overview }

// Genres returns the genres that survived vocabulary filtering.
func (m Metadata) Genres() []string { return m.genres }

// DroppedGenres returns input genre names outside the trained vocabulary.
func (m Metadata) DroppedGenres() []string { return m.droppedGenres }

// Budget returns the production budget in dollars (0 when unknown).
func (m Metadata) Budget() float64 { return m.budget }

// IsAdult reports the adult flag.
func (m Metadata) IsAdult() bool { return m.isAdult }

// MovieAge returns the age relative to the schema reference year.
func (m Metadata) MovieAge() float64 { return float64(ReferenceYear - m.year) }

// Decade returns the release decade (e.g. 1994 -> 1990).
func (m Metadata) Decade() int { return (m.year / 10) * 10 }

// RuntimeCapped returns the runtime clipped at the schema cap.
func (m Metadata) RuntimeCapped() float64 { return math.Min(m.runtime, RuntimeCap) }

// GenreCount returns the number of surviving known genres.
func (m Metadata) GenreCount() int { return len(m.genres) }

// HasBudget reports whether a positive budget was supplied.
func (m Metadata) HasBudget() bool { return m.budget > 0 }

// LogBudget returns ln(1+budget) when a budget was supplied, otherwise the
// decade median from medians (falling back to DefaultLogBudget).
func (m Metadata) LogBudget(medians BudgetMedians) float64 {
	if m.HasBudget() {
		return math.Log1p(m.budget)
	}
	return medians.ForDecade(m.Decade())
}
