package feature

import (
	"errors"
	"testing"
)

func testMedians() BudgetMedians {
	return NewBudgetMedians(map[int]float64{1990: 17.5}, 16.0)
}

func TestFeatureNamesOrder(t *testing.T) {
	names := FeatureNames()
	if len(names) != FeatureCount {
		t.Fatalf("FeatureNames() has %d names, want %d", len(names), FeatureCount)
	}

	checks := map[int]string{
		0:  "movie_age",
		1:  "decade",
		2:  "runtimeMinutes_capped",
		3:  "genre_count",
		4:  "isAdult",
		5:  "Genre_Drama",
		20: "Genre_Sci-Fi",
		26: "Genre_Adult",
		27: "pca_0",
		46: "pca_19",
		47: "log_budget",
		48: "has_budget",
	}
	for i, want := range checks {
		if names[i] != want {
			t.Errorf("FeatureNames()[%d] = %q, want %q", i, names[i], want)
		}
	}
}

func TestAssembleOrderAndValues(t *testing.T) {
	meta, err := NewMetadata(1994, 120, "A plot.", "Drama,Sci-Fi", 1_000_000, true)
	if err != nil {
		t.Fatal(err)
	}

	reduced := make([]float64, ComponentCount)
	for i := range reduced {
		reduced[i] = float64(i) / 10
	}

	features, err := NewAssembler(testMedians()).Assemble(meta, reduced)
	if err != nil {
		t.Fatal(err)
	}
	if len(features) != FeatureCount {
		t.Fatalf("Assemble() returned %d features, want %d", len(features), FeatureCount)
	}

	names := FeatureNames()
	byName := make(map[string]float64, len(names))
	for i, name := range names {
		byName[name] = features[i]
	}

	if byName["movie_age"] != float64(ReferenceYear-1994) {
		t.Errorf("movie_age = %g", byName["movie_age"])
	}
	if byName["decade"] != 1990 {
		t.Errorf("decade = %g, want 1990", byName["decade"])
	}
	if byName["runtimeMinutes_capped"] != 120 {
		t.Errorf("runtimeMinutes_capped = %g, want 120", byName["runtimeMinutes_capped"])
	}
	if byName["genre_count"] != 2 {
		t.Errorf("genre_count = %g, want 2", byName["genre_count"])
	}
	if byName["isAdult"] != 1 {
		t.Errorf("isAdult = %g, want 1", byName["isAdult"])
	}
	if byName["Genre_Drama"] != 1 || byName["Genre_Sci-Fi"] != 1 {
		t.Error("selected genre one-hots should be 1")
	}
	if byName["Genre_Comedy"] != 0 {
		t.Error("unselected genre one-hot should be 0")
	}
	if byName["pca_0"] != 0 || byName["pca_19"] != 1.9 {
		t.Errorf("pca components misplaced: pca_0=%g pca_19=%g", byName["pca_0"], byName["pca_19"])
	}
	if byName["has_budget"] != 1 {
		t.Errorf("has_budget = %g, want 1", byName["has_budget"])
	}
}

func TestAssembleComponentCountMismatch(t *testing.T) {
	meta, err := NewMetadata(1994, 120, "A plot.", "", 0, false)
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewAssembler(testMedians()).Assemble(meta, make([]float64, ComponentCount-1))
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Assemble() error = %v, want ErrSchemaMismatch", err)
	}
}
