package artifact

import "github.com/floportop/floportop/domain/feature"

type modelFile struct {
	Version      string    `json:"version"`
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// LoadPredictor loads the trained rating regression. The artifact feature
// names must match the schema order exactly; a positional mismatch would
// silently scramble every prediction.
func LoadPredictor(path string) (feature.Predictor, error) {
	var raw modelFile
	if err := readArtifact(path, &raw); err != nil {
		return feature.Predictor{}, err
	}

	if raw.Version != feature.SchemaVersion {
		return feature.Predictor{}, feature.SchemaMismatchf(
			"model artifact version %q, expected %q", raw.Version, feature.SchemaVersion)
	}

	expected := feature.FeatureNames()
	if len(raw.FeatureNames) != len(expected) {
		return feature.Predictor{}, feature.SchemaMismatchf(
			"model artifact has %d features, expected %d", len(raw.FeatureNames), len(expected))
	}
	for i, name := range raw.FeatureNames {
		if name != expected[i] {
			return feature.Predictor{}, feature.SchemaMismatchf(
				"model artifact feature %d is %q, expected %q", i, name, expected[i])
		}
	}

	predictor, err := feature.NewPredictor(raw.FeatureNames, raw.Coefficients, raw.Intercept, raw.Version)
	if err != nil {
		return feature.Predictor{}, feature.SchemaMismatchf("model artifact: %v", err)
	}
	return predictor, nil
}
