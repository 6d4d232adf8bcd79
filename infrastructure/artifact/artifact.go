// Package artifact loads the trained model artifacts from disk: the PCA
// transformer, the rating regression and the budget imputation medians.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/floportop/floportop/domain/feature"
)

// Artifact file names under the models directory.
const (
	ReducerFile = "pca_transformer.json"
	ModelFile   = "model_v5.json"
	MediansFile = "budget_medians.json"
)

// ErrUnavailable indicates an artifact file is missing or unreadable. The
// service cannot predict without it but may still serve other requests.
var ErrUnavailable = errors.New("artifact unavailable")

// Bundle holds every loaded prediction artifact.
type Bundle struct {
	Reducer   feature.Reducer
	Predictor feature.Predictor
	Medians   feature.BudgetMedians
}

// LoadBundle loads all prediction artifacts from modelsDir.
func LoadBundle(modelsDir string) (Bundle, error) {
	reducer, err := LoadReducer(filepath.Join(modelsDir, ReducerFile))
	if err != nil {
		return Bundle{}, err
	}
	predictor, err := LoadPredictor(filepath.Join(modelsDir, ModelFile))
	if err != nil {
		return Bundle{}, err
	}
	medians, err := LoadBudgetMedians(filepath.Join(modelsDir, MediansFile))
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{Reducer: reducer, Predictor: predictor, Medians: medians}, nil
}

func readArtifact(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s is not valid JSON: %v", ErrUnavailable, filepath.Base(path), err)
	}
	return nil
}
