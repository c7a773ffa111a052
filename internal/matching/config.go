package matching

import (
	"fmt"
	"math"
)

// WeightTolerance is how far the weight sum may drift from 1.0 before it is reported.
const WeightTolerance = 0.001

// Weights holds the coefficient of each criterion in the weighted sum.
type Weights struct {
	Category      float64 `yaml:"category" json:"category"`           // default: 0.25
	Location      float64 `yaml:"location" json:"location"`           // default: 0.10
	Price         float64 `yaml:"price" json:"price"`                 // default: 0.15
	Performance   float64 `yaml:"performance" json:"performance"`     // default: 0.15
	Delivery      float64 `yaml:"delivery" json:"delivery"`           // default: 0.15
	Certification float64 `yaml:"certification" json:"certification"` // default: 0.10
	SuccessRate   float64 `yaml:"success_rate" json:"success_rate"`   // default: 0.10
}

// DefaultWeights returns the standard weight distribution.
func DefaultWeights() Weights {
	return Weights{
		Category:      0.25,
		Location:      0.10,
		Price:         0.15,
		Performance:   0.15,
		Delivery:      0.15,
		Certification: 0.10,
		SuccessRate:   0.10,
	}
}

// For returns the weight of the named criterion.
func (w Weights) For(criterion string) float64 {
	switch criterion {
	case CriterionCategory:
		return w.Category
	case CriterionLocation:
		return w.Location
	case CriterionPrice:
		return w.Price
	case CriterionPerformance:
		return w.Performance
	case CriterionDelivery:
		return w.Delivery
	case CriterionCertification:
		return w.Certification
	case CriterionSuccessRate:
		return w.SuccessRate
	default:
		return 0
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	total := 0.0
	for _, c := range Criteria {
		total += w.For(c)
	}
	return total
}

// IsZero reports whether no weight has been set.
func (w Weights) IsZero() bool {
	return w == Weights{}
}

// Validate checks that no weight is negative and that the weights sum to 1.0.
func (w Weights) Validate() error {
	for _, c := range Criteria {
		if w.For(c) < 0 {
			return fmt.Errorf("negative weight for %s: %f", c, w.For(c))
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > WeightTolerance {
		return fmt.Errorf("weights sum to %.4f, expected 1.0", sum)
	}
	return nil
}

// Config holds all configuration for the matching engine's scoring.
type Config struct {
	Weights Weights `yaml:"weights"`
	// RecommendThreshold is the minimum final score flagged as recommended.
	RecommendThreshold float64 `yaml:"recommend_threshold"` // default: 0.7
}

// DefaultConfig returns the default matching configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights:            DefaultWeights(),
		RecommendThreshold: 0.7,
	}
}

// ApplyDefaults fills in unset values. Weights are only defaulted when none is set,
// so an explicit zero weight on one criterion is kept.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.Weights.IsZero() {
		c.Weights = defaults.Weights
	}
	if c.RecommendThreshold == 0 {
		c.RecommendThreshold = defaults.RecommendThreshold
	}
}
