package matching

const deliveryDefaultScore = 0.5

// DeliveryScorer checks whether the supplier's usual lead time fits the RFQ deadline.
type DeliveryScorer struct{}

// NewDeliveryScorer creates a new DeliveryScorer.
func NewDeliveryScorer() *DeliveryScorer {
	return &DeliveryScorer{}
}

// Name returns the scorer name.
func (s *DeliveryScorer) Name() string {
	return CriterionDelivery
}

// Score compares the supplier's average delivery days with the days left until the deadline.
func (s *DeliveryScorer) Score(ctx *ScoringContext) float64 {
	deadline, ok := ParseDeadlineDays(string(ctx.RFQ.DeliveryDeadline), ctx.Now)
	if !ok {
		return deliveryDefaultScore
	}
	supplierDays, ok := ParseDays(string(ctx.Supplier.AverageDeliveryTime))
	if !ok {
		return deliveryDefaultScore
	}
	return scoreDeliveryDays(deadline, supplierDays)
}

func scoreDeliveryDays(deadline, supplierDays float64) float64 {
	if supplierDays <= 0.8*deadline {
		return 1.0
	}
	if supplierDays <= deadline {
		return 0.9
	}

	ratio := deadline / supplierDays
	switch {
	case ratio >= 0.9:
		return 0.8
	case ratio >= 0.7:
		return 0.6
	case ratio >= 0.5:
		return 0.4
	default:
		return 0.2
	}
}
