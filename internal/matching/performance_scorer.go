package matching

const (
	defaultRating             = 3.0
	deliveryRatingWeight      = 0.4
	qualityRatingWeight       = 0.4
	communicationRatingWeight = 0.2
)

// PerformanceScorer scores a supplier's track record from its risk score or its ratings.
type PerformanceScorer struct{}

// NewPerformanceScorer creates a new PerformanceScorer.
func NewPerformanceScorer() *PerformanceScorer {
	return &PerformanceScorer{}
}

// Name returns the scorer name.
func (s *PerformanceScorer) Name() string {
	return CriterionPerformance
}

// Score uses 1 - riskScore/100 when a risk score exists. Otherwise it blends the
// delivery, quality and communication ratings (1-5 scale, missing ratings count as 3).
func (s *PerformanceScorer) Score(ctx *ScoringContext) float64 {
	sup := ctx.Supplier
	if sup.RiskScore != nil {
		return clamp01(1 - *sup.RiskScore/100)
	}

	score := deliveryRatingWeight*normalizeRating(sup.DeliveryRating) +
		qualityRatingWeight*normalizeRating(sup.QualityRating) +
		communicationRatingWeight*normalizeRating(sup.CommunicationRating)
	return clamp01(score)
}

// normalizeRating maps a 1-5 rating onto [0,1].
func normalizeRating(r *float64) float64 {
	v := defaultRating
	if r != nil {
		v = *r
	}
	return clamp01((v - 1) / 4)
}
