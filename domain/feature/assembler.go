package feature

// Assembler combines validated metadata and reduced plot components into the
// schema v5 feature vector, in the exact order the model was trained on.
type Assembler struct {
	medians BudgetMedians
}

// NewAssembler creates an Assembler with the budget imputation table.
func NewAssembler(medians BudgetMedians) Assembler {
	return Assembler{medians: medians}
}

// Assemble builds the feature vector. The reduced slice must have exactly
// ComponentCount values.
func (a Assembler) Assemble(m Metadata, reduced []float64) ([]float64, error) {
	if len(reduced) != ComponentCount {
		return nil, SchemaMismatchf("assembler expects %d reduced components, got %d", ComponentCount, len(reduced))
	}

	features := make([]float64, 0, FeatureCount)
	features = append(features,
		m.MovieAge(),
		float64(m.Decade()),
		m.RuntimeCapped(),
		float64(m.GenreCount()),
		boolFeature(m.IsAdult()),
	)

	oneHots := make([]float64, len(GenreVocabulary))
	for _, g := range m.Genres() {
		oneHots[genreIndex[g]] = 1
	}
	features = append(features, oneHots...)

	features = append(features, reduced...)
	features = append(features, m.LogBudget(a.medians), boolFeature(m.HasBudget()))
	return features, nil
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
