package artifact

import (
	"strconv"

	"github.com/floportop/floportop/domain/feature"
)

// LoadBudgetMedians loads the per-decade median log budgets. Keys are decade
// strings ("1990") plus an optional "default" fallback.
func LoadBudgetMedians(path string) (feature.BudgetMedians, error) {
	var raw map[string]float64
	if err := readArtifact(path, &raw); err != nil {
		return feature.BudgetMedians{}, err
	}

	byDecade := make(map[int]float64, len(raw))
	fallback := 0.0
	for key, value := range raw {
		if key == "default" {
			fallback = value
			continue
		}
		decade, err := strconv.Atoi(key)
		if err != nil {
			return feature.BudgetMedians{}, feature.SchemaMismatchf(
				"budget medians key %q is not a decade", key)
		}
		byDecade[decade] = value
	}
	return feature.NewBudgetMedians(byDecade, fallback), nil
}
