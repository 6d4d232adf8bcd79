package feature

// BudgetMedians holds the per-decade median log budgets used to impute
// log_budget for movies without a known budget.
type BudgetMedians struct {
	byDecade map[int]float64
	fallback float64
}

// NewBudgetMedians creates a BudgetMedians table. A non-positive fallback is
// replaced with DefaultLogBudget.
func NewBudgetMedians(byDecade map[int]float64, fallback float64) BudgetMedians {
	if fallback <= 0 {
		fallback = DefaultLogBudget
	}
	copied := make(map[int]float64, len(byDecade))
	for k, v := range byDecade {
		copied[k] = v
	}
	return BudgetMedians{byDecade: copied, fallback: fallback}
}

// ForDecade returns the median log budget for a decade, or the fallback when
// the decade is unknown.
func (b BudgetMedians) ForDecade(decade int) float64 {
	if v, ok := b.byDecade[decade]; ok {
		return v
	}
	return b.fallback
}

// Fallback returns the default median log budget.
func (b BudgetMedians) Fallback() float64 {
	return b.fallback
}

// Decades returns the number of decades with a recorded median.
func (b BudgetMedians) Decades() int {
	return len(b.byDecade)
}
