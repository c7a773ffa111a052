// Package matching scores and ranks candidate suppliers against an RFQ.
package matching

import (
	"time"

	"github.com/hyperjump/matchmaker/internal/models"
)

// Criterion names, also used as breakdown keys and metric labels.
const (
	CriterionCategory      = "category"
	CriterionLocation      = "location"
	CriterionPrice         = "price"
	CriterionPerformance   = "performance"
	CriterionDelivery      = "delivery"
	CriterionCertification = "certification"
	CriterionSuccessRate   = "success_rate"
)

// Criteria lists every criterion in weighting and explanation order.
var Criteria = []string{
	CriterionCategory,
	CriterionLocation,
	CriterionPrice,
	CriterionPerformance,
	CriterionDelivery,
	CriterionCertification,
	CriterionSuccessRate,
}

// ScoringContext provides everything a scorer needs for one (RFQ, supplier) pair.
type ScoringContext struct {
	// RFQ is the buyer request being matched.
	RFQ *models.RFQ
	// Supplier is the candidate being scored.
	Supplier *models.Supplier
	// Now is the reference time for date-based deadlines.
	Now time.Time
}

// NewScoringContext creates a ScoringContext. A zero now means time.Now().
func NewScoringContext(rfq *models.RFQ, supplier *models.Supplier, now time.Time) *ScoringContext {
	if now.IsZero() {
		now = time.Now()
	}
	if rfq == nil {
		rfq = &models.RFQ{}
	}
	if supplier == nil {
		supplier = &models.Supplier{}
	}
	return &ScoringContext{RFQ: rfq, Supplier: supplier, Now: now}
}

// Scorer is the interface for all criterion scorers.
// Score must return a value in [0,1] and fall back to a documented default when data is missing.
type Scorer interface {
	// Score calculates the criterion score for the pair in ctx.
	Score(ctx *ScoringContext) float64
	// Name returns the criterion name.
	Name() string
}

// ScoreBreakdown records every criterion score and the aggregated result.
type ScoreBreakdown struct {
	// FinalScore is the clamped weighted sum.
	FinalScore float64
	// Recommended is true when FinalScore reaches the recommendation threshold.
	Recommended bool

	Category      float64
	Location      float64
	Price         float64
	Performance   float64
	Delivery      float64
	Certification float64
	SuccessRate   float64
}

// Get returns the score recorded for the named criterion.
func (b *ScoreBreakdown) Get(criterion string) float64 {
	switch criterion {
	case CriterionCategory:
		return b.Category
	case CriterionLocation:
		return b.Location
	case CriterionPrice:
		return b.Price
	case CriterionPerformance:
		return b.Performance
	case CriterionDelivery:
		return b.Delivery
	case CriterionCertification:
		return b.Certification
	case CriterionSuccessRate:
		return b.SuccessRate
	default:
		return 0
	}
}

func (b *ScoreBreakdown) set(criterion string, score float64) {
	switch criterion {
	case CriterionCategory:
		b.Category = score
	case CriterionLocation:
		b.Location = score
	case CriterionPrice:
		b.Price = score
	case CriterionPerformance:
		b.Performance = score
	case CriterionDelivery:
		b.Delivery = score
	case CriterionCertification:
		b.Certification = score
	case CriterionSuccessRate:
		b.SuccessRate = score
	}
}

// Scores returns the criterion scores as a map, for JSON output.
func (b *ScoreBreakdown) Scores() models.CriterionScores {
	out := make(models.CriterionScores, len(Criteria)+1)
	for _, c := range Criteria {
		out[c] = b.Get(c)
	}
	out["final"] = b.FinalScore
	return out
}

// clamp01 bounds v to [0,1]. NaN maps to 0.
func clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
