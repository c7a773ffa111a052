package matching

const successRateDefaultScore = 0.75

// SuccessRateScorer scores the supplier's historical order success rate.
type SuccessRateScorer struct{}

// NewSuccessRateScorer creates a new SuccessRateScorer.
func NewSuccessRateScorer() *SuccessRateScorer {
	return &SuccessRateScorer{}
}

// Name returns the scorer name.
func (s *SuccessRateScorer) Name() string {
	return CriterionSuccessRate
}

// Score maps a 0-100 success rate onto [0,1].
func (s *SuccessRateScorer) Score(ctx *ScoringContext) float64 {
	if ctx.Supplier.SuccessRate == nil {
		return successRateDefaultScore
	}
	return clamp01(*ctx.Supplier.SuccessRate / 100)
}
