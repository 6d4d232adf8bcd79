package artifact

import "github.com/floportop/floportop/domain/feature"

type reducerFile struct {
	Version    string      `json:"version"`
	Mean       []float64   `json:"mean"`
	Components [][]float64 `json:"components"`
}

// LoadReducer loads the fitted PCA transformer. The artifact must carry the
// expected schema version, a 384-wide mean vector and 20 component rows.
func LoadReducer(path string) (feature.Reducer, error) {
	var raw reducerFile
	if err := readArtifact(path, &raw); err != nil {
		return feature.Reducer{}, err
	}

	if raw.Version != feature.SchemaVersion {
		return feature.Reducer{}, feature.SchemaMismatchf(
			"reducer artifact version %q, expected %q", raw.Version, feature.SchemaVersion)
	}
	if len(raw.Mean) != feature.EmbeddingDim {
		return feature.Reducer{}, feature.SchemaMismatchf(
			"reducer artifact mean has %d values, expected %d", len(raw.Mean), feature.EmbeddingDim)
	}
	if len(raw.Components) != feature.ComponentCount {
		return feature.Reducer{}, feature.SchemaMismatchf(
			"reducer artifact has %d components, expected %d", len(raw.Components), feature.ComponentCount)
	}

	reducer, err := feature.NewReducer(raw.Mean, raw.Components)
	if err != nil {
		return feature.Reducer{}, feature.SchemaMismatchf("reducer artifact: %v", err)
	}
	return reducer, nil
}
