package feature

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestNewMetadataValidation(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		runtime   float64
		overview  string
		budget    float64
		wantField string
	}{
		{name: "valid", year: 1994, runtime: 120, overview: "A plot.", budget: 0},
		{name: "year at lower bound", year: 1888, runtime: 120, overview: "A plot."},
		{name: "year at upper bound", year: 2031, runtime: 120, overview: "A plot."},
		{name: "year too early", year: 1887, runtime: 120, overview: "A plot.", wantField: "startYear"},
		{name: "year too late", year: 2032, runtime: 120, overview: "A plot.", wantField: "startYear"},
		{name: "runtime too short", year: 1994, runtime: 0, overview: "A plot.", wantField: "runtimeMinutes"},
		{name: "runtime too long", year: 1994, runtime: 1001, overview: "A plot.", wantField: "runtimeMinutes"},
		{name: "blank overview", year: 1994, runtime: 120, overview: "   ", wantField: "overview"},
		{name: "negative budget", year: 1994, runtime: 120, overview: "A plot.", budget: -1, wantField: "budget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMetadata(tt.year, tt.runtime, tt.overview, "", tt.budget, false)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("NewMetadata() unexpected error: %v", err)
				}
				return
			}

			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("NewMetadata() error = %v, want ValidationError", err)
			}
			if validation.Field != tt.wantField {
				t.Errorf("ValidationError field = %q, want %q", validation.Field, tt.wantField)
			}
		})
	}
}

func TestNewMetadataGenres(t *testing.T) {
	tests := []struct {
		name        string
		genres      string
		wantKnown   []string
		wantDropped []string
	}{
		{name: "empty defaults to Drama", genres: "", wantKnown: []string{"Drama"}},
		{name: "blank defaults to Drama", genres: "  ", wantKnown: []string{"Drama"}},
		{name: "known genres kept", genres: "Action,Sci-Fi", wantKnown: []string{"Action", "Sci-Fi"}},
		{name: "whitespace trimmed", genres: " Action , Thriller ", wantKnown: []string{"Action", "Thriller"}},
		{
			name:        "unknown dropped",
			genres:      "Action,Telenovela,Sci-Fi",
			wantKnown:   []string{"Action", "Sci-Fi"},
			wantDropped: []string{"Telenovela"},
		},
		{name: "all unknown leaves none", genres: "Telenovela", wantDropped: []string{"Telenovela"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := NewMetadata(1994, 120, "A plot.", tt.genres, 0, false)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(meta.Genres(), tt.wantKnown) {
				t.Errorf("Genres() = %v, want %v", meta.Genres(), tt.wantKnown)
			}
			if !reflect.DeepEqual(meta.DroppedGenres(), tt.wantDropped) {
				t.Errorf("DroppedGenres() = %v, want %v", meta.DroppedGenres(), tt.wantDropped)
			}
			if meta.GenreCount() != len(tt.wantKnown) {
				t.Errorf("GenreCount() = %d, want %d", meta.GenreCount(), len(tt.wantKnown))
			}
		})
	}
}

func TestMetadataDerivedFeatures(t *testing.T) {
	meta, err := NewMetadata(1994, 450, "A plot.", "Drama", 0, false)
	if err != nil {
		t.Fatal(err)
	}

	if got := meta.MovieAge(); got != float64(ReferenceYear-1994) {
		t.Errorf("MovieAge() = %g, want %g", got, float64(ReferenceYear-1994))
	}
	if got := meta.Decade(); got != 1990 {
		t.Errorf("Decade() = %d, want 1990", got)
	}
	if got := meta.RuntimeCapped(); got != RuntimeCap {
		t.Errorf("RuntimeCapped() = %g, want %g", got, RuntimeCap)
	}
}

func TestMetadataLogBudget(t *testing.T) {
	medians := NewBudgetMedians(map[int]float64{1990: 17.5}, 16.0)

	withBudget, err := NewMetadata(1994, 120, "A plot.", "", 1_000_000, false)
	if err != nil {
		t.Fatal(err)
	}
	if !withBudget.HasBudget() {
		t.Error("HasBudget() = false, want true")
	}
	if got, want := withBudget.LogBudget(medians), math.Log1p(1_000_000); got != want {
		t.Errorf("LogBudget() = %g, want %g", got, want)
	}

	noBudget, err := NewMetadata(1994, 120, "A plot.", "", 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if noBudget.HasBudget() {
		t.Error("HasBudget() = true, want false")
	}
	if got := noBudget.LogBudget(medians); got != 17.5 {
		t.Errorf("LogBudget() = %g, want decade median 17.5", got)
	}

	unknownDecade, err := NewMetadata(1950, 120, "A plot.", "", 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := unknownDecade.LogBudget(medians); got != 16.0 {
		t.Errorf("LogBudget() = %g, want fallback 16.0", got)
	}
}
