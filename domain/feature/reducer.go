package feature

import "fmt"

// Reducer projects a plot embedding onto the pre-fit PCA components: each
// output is the dot product of a component row with the mean-centered input.
// The fit is frozen in the artifact; Reduce never re-fits anything.
type Reducer struct {
	mean       []float64
	components [][]float64
}

// NewReducer creates a Reducer from a fitted mean vector and component
// matrix. Rows of components must match the mean length.
func NewReducer(mean []float64, components [][]float64) (Reducer, error) {
	if len(mean) == 0 {
		return Reducer{}, fmt.Errorf("reducer mean vector is empty")
	}
	if len(components) == 0 {
		return Reducer{}, fmt.Errorf("reducer component matrix is empty")
	}
	for i, row := range components {
		if len(row) != len(mean) {
			return Reducer{}, fmt.Errorf("reducer component %d has %d values, mean has %d", i, len(row), len(mean))
		}
	}
	return Reducer{mean: mean, components: components}, nil
}

// InputDim returns the embedding width the reducer was fit on.
func (r Reducer) InputDim() int { return len(r.mean) }

// OutputDim returns the number of reduced components.
func (r Reducer) OutputDim() int { return len(r.components) }

// Reduce projects an embedding onto the fitted components.
func (r Reducer) Reduce(embedding []float64) ([]float64, error) {
	if len(embedding) != len(r.mean) {
		return nil, SchemaMismatchf("reducer expects %d-dim embedding, got %d", len(r.mean), len(embedding))
	}

	centered := make([]float64, len(embedding))
	for i, v := range embedding {
		centered[i] = v - r.mean[i]
	}

	reduced := make([]float64, len(r.components))
	for j, row := range r.components {
		var sum float64
		for i, w := range row {
			sum += w * centered[i]
		}
		reduced[j] = sum
	}
	return reduced, nil
}
