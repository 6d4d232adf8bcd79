package feature

import (
	"fmt"
	"math"
)

// Rating output bounds.
const (
	RatingMin = 0.0
	RatingMax = 10.0
)

// Predictor applies the trained linear regression to a feature vector. The
// coefficients are positional and must line up with the schema order.
type Predictor struct {
	names        []string
	coefficients []float64
	intercept    float64
	version      string
}

// NewPredictor creates a Predictor from trained regression parameters. The
// coefficient count must match the feature name count.
func NewPredictor(names []string, coefficients []float64, intercept float64, version string) (Predictor, error) {
	if len(names) == 0 {
		return Predictor{}, fmt.Errorf("predictor has no feature names")
	}
	if len(names) != len(coefficients) {
		return Predictor{}, fmt.Errorf("predictor has %d feature names but %d coefficients", len(names), len(coefficients))
	}
	return Predictor{
		names:        names,
		coefficients: coefficients,
		intercept:    intercept,
		version:      version,
	}, nil
}

// FeatureNames returns the trained feature names in order.
func (p Predictor) FeatureNames() []string { return p.names }

// FeatureCount returns the expected feature vector width.
func (p Predictor) FeatureCount() int { return len(p.coefficients) }

// Version returns the artifact version string.
func (p Predictor) Version() string { return p.version }

// Predict computes the regression over the feature vector and clamps the
// result to the valid rating range.
func (p Predictor) Predict(features []float64) (float64, error) {
	if len(features) != len(p.coefficients) {
		return 0, SchemaMismatchf("predictor expects %d features, got %d", len(p.coefficients), len(features))
	}

	rating := p.intercept
	for i, c := range p.coefficients {
		rating += c * features[i]
	}
	return math.Min(RatingMax, math.Max(RatingMin, rating)), nil
}
