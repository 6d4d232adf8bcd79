package feature

import (
	"errors"
	"testing"
)

func TestNewPredictorValidation(t *testing.T) {
	names := []string{"a", "b"}

	tests := []struct {
		name         string
		featureNames []string
		coefficients []float64
		wantErr      bool
	}{
		{"valid", names, []float64{1, 2}, false},
		{"no names", nil, nil, true},
		{"count mismatch", names, []float64{1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPredictor(tt.featureNames, tt.coefficients, 0, "v5")
			if (err != nil) != tt.wantErr {
				t.Errorf("NewPredictor() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPredict(t *testing.T) {
	p, err := NewPredictor([]string{"a", "b", "c"}, []float64{1, 2, -1}, 0.5, "v5")
	if err != nil {
		t.Fatal(err)
	}

	// 0.5 + 1*1 + 2*2 - 1*0.5 = 5
	got, err := p.Predict([]float64{1, 2, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Errorf("Predict() = %g, want 5", got)
	}
}

func TestPredictClamps(t *testing.T) {
	tests := []struct {
		name      string
		intercept float64
		want      float64
	}{
		{"above max", 42, RatingMax},
		{"below min", -42, RatingMin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPredictor([]string{"a"}, []float64{0}, tt.intercept, "v5")
			if err != nil {
				t.Fatal(err)
			}
			got, err := p.Predict([]float64{1})
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Predict() = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestPredictWidthMismatch(t *testing.T) {
	p, err := NewPredictor([]string{"a", "b"}, []float64{1, 1}, 0, "v5")
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Predict([]float64{1})
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Predict() error = %v, want ErrSchemaMismatch", err)
	}
}
