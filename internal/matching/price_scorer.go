package matching

const priceDefaultScore = 0.5

// PriceScorer checks the RFQ budget against the supplier's price range.
type PriceScorer struct{}

// NewPriceScorer creates a new PriceScorer.
func NewPriceScorer() *PriceScorer {
	return &PriceScorer{}
}

// Name returns the scorer name.
func (s *PriceScorer) Name() string {
	return CriterionPrice
}

// Score returns 1.0 when the budget falls inside the supplier's range and tiers the
// distance otherwise. Budgets below the minimum score higher than budgets above the
// maximum since the supplier may still negotiate down.
func (s *PriceScorer) Score(ctx *ScoringContext) float64 {
	if ctx.RFQ.Budget == nil || *ctx.RFQ.Budget <= 0 {
		return priceDefaultScore
	}
	budget := *ctx.RFQ.Budget

	pr, ok := ParsePriceRange(string(ctx.Supplier.PriceRange))
	if !ok {
		return priceDefaultScore
	}

	if pr.Contains(budget) {
		return 1.0
	}

	if budget < pr.Min {
		ratio := budget / pr.Min
		switch {
		case ratio >= 0.8:
			return 0.8
		case ratio >= 0.6:
			return 0.6
		default:
			return 0.3
		}
	}

	ratio := pr.Max / budget
	switch {
	case ratio >= 0.8:
		return 0.7
	case ratio >= 0.6:
		return 0.5
	default:
		return 0.3
	}
}
