package feature

import "testing"

func TestBudgetMedians(t *testing.T) {
	medians := NewBudgetMedians(map[int]float64{1990: 17.5, 2000: 17.9}, 16.0)

	if got := medians.ForDecade(1990); got != 17.5 {
		t.Errorf("ForDecade(1990) = %g, want 17.5", got)
	}
	if got := medians.ForDecade(1950); got != 16.0 {
		t.Errorf("ForDecade(1950) = %g, want the fallback 16.0", got)
	}
	if got := medians.Fallback(); got != 16.0 {
		t.Errorf("Fallback() = %g, want 16.0", got)
	}
	if got := medians.Decades(); got != 2 {
		t.Errorf("Decades() = %d, want 2", got)
	}
}

func TestBudgetMediansDefaultFallback(t *testing.T) {
	medians := NewBudgetMedians(nil, 0)
	if got := medians.Fallback(); got != DefaultLogBudget {
		t.Errorf("Fallback() = %g, want DefaultLogBudget %g", got, DefaultLogBudget)
	}
}
