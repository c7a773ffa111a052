package matching

import (
	"strconv"
	"strings"

	"github.com/hyperjump/matchmaker/internal/models"
)

const (
	strongScore          = 0.8
	partialScore         = 0.5
	highSuccessRate      = 80.0
	lowRiskScore         = 30.0
	goodOverallScore     = 0.7
	moderateOverallScore = 0.5
)

// Fallback rationales used when no single criterion stands out.
const (
	ReasonGoodOverall      = "Good overall match across multiple criteria"
	ReasonModerateOverall  = "Moderate match with some compatible criteria"
	ReasonLowCompatibility = "Low compatibility match"
)

// Explain turns an already computed breakdown into a human-readable rationale.
// Nothing is rescored; only the supplier's raw success rate and risk score are read.
func Explain(b *ScoreBreakdown, supplier *models.Supplier) string {
	reasons := Reasons(b, supplier)
	if len(reasons) == 0 {
		return fallbackReason(b.FinalScore)
	}
	return JoinReasons(reasons)
}

// Reasons lists the criteria that stand out for this supplier, in a fixed order.
func Reasons(b *ScoreBreakdown, supplier *models.Supplier) []string {
	var reasons []string

	switch {
	case b.Category >= strongScore:
		reasons = append(reasons, "Strong category match")
	case b.Category >= partialScore:
		reasons = append(reasons, "Partial category match")
	}
	if b.Location >= strongScore {
		reasons = append(reasons, "Location proximity")
	}
	if b.Price >= strongScore {
		reasons = append(reasons, "Budget compatibility")
	}
	if b.Delivery >= strongScore {
		reasons = append(reasons, "Can meet delivery deadline")
	}
	if supplier != nil && supplier.SuccessRate != nil && *supplier.SuccessRate >= highSuccessRate {
		reasons = append(reasons, strconv.FormatFloat(*supplier.SuccessRate, 'f', -1, 64)+"% success rate")
	}
	if b.Performance >= strongScore {
		reasons = append(reasons, "High performance rating")
	}
	if b.Certification >= strongScore {
		reasons = append(reasons, "Has required certifications")
	}
	if supplier != nil && supplier.RiskScore != nil && *supplier.RiskScore <= lowRiskScore {
		reasons = append(reasons, "Low risk score")
	}

	return reasons
}

// JoinReasons joins reasons as "A", "A and B" or "A, B, and C".
func JoinReasons(reasons []string) string {
	switch len(reasons) {
	case 0:
		return ""
	case 1:
		return reasons[0]
	case 2:
		return reasons[0] + " and " + reasons[1]
	default:
		return strings.Join(reasons[:len(reasons)-1], ", ") + ", and " + reasons[len(reasons)-1]
	}
}

func fallbackReason(score float64) string {
	switch {
	case score >= goodOverallScore:
		return ReasonGoodOverall
	case score >= moderateOverallScore:
		return ReasonModerateOverall
	default:
		return ReasonLowCompatibility
	}
}
