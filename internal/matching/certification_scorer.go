package matching

import "strings"

const (
	certificationNotRequired = 0.8
	certificationNoneListed  = 0.3
	certificationBase        = 0.2
	certificationSpan        = 0.8
)

// CertificationScorer checks the supplier's certifications against the RFQ requirements.
type CertificationScorer struct{}

// NewCertificationScorer creates a new CertificationScorer.
func NewCertificationScorer() *CertificationScorer {
	return &CertificationScorer{}
}

// Name returns the scorer name.
func (s *CertificationScorer) Name() string {
	return CriterionCertification
}

// Score returns 0.2 + 0.8 * (fraction of required certifications the supplier holds).
func (s *CertificationScorer) Score(ctx *ScoringContext) float64 {
	required := ctx.RFQ.RequiredCertifications
	if len(required) == 0 {
		return certificationNotRequired
	}
	held := ctx.Supplier.Certifications
	if len(held) == 0 {
		return certificationNoneListed
	}

	matched := 0
	for _, r := range required {
		for _, h := range held {
			if strings.Contains(h, r) || strings.Contains(r, h) {
				matched++
				break
			}
		}
	}
	ratio := float64(matched) / float64(len(required))
	return clamp01(certificationBase + certificationSpan*ratio)
}
