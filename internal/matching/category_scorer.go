package matching

import "strings"

const (
	categoryDefaultScore  = 0.3
	categoryExactWeight   = 1.0
	categoryPartialWeight = 0.4
)

// CategoryScorer scores how well supplier categories cover the RFQ categories.
type CategoryScorer struct{}

// NewCategoryScorer creates a new CategoryScorer.
func NewCategoryScorer() *CategoryScorer {
	return &CategoryScorer{}
}

// Name returns the scorer name.
func (s *CategoryScorer) Name() string {
	return CriterionCategory
}

// Score counts exact tag matches (1.0 each) and substring matches (0.4 each) for the
// RFQ tags not matched exactly, divided by the number of RFQ tags.
func (s *CategoryScorer) Score(ctx *ScoringContext) float64 {
	wanted := ctx.RFQ.Category
	offered := ctx.Supplier.Categories
	if len(wanted) == 0 || len(offered) == 0 {
		return categoryDefaultScore
	}

	exact, partial := CountCategoryMatches(wanted, offered)
	score := (float64(exact)*categoryExactWeight + float64(partial)*categoryPartialWeight) / float64(len(wanted))
	return clamp01(score)
}

// CountCategoryMatches returns how many wanted tags appear exactly in offered and how many
// of the remaining ones partially match (one contains the other).
func CountCategoryMatches(wanted, offered []string) (exact, partial int) {
	set := make(map[string]struct{}, len(offered))
	for _, o := range offered {
		set[o] = struct{}{}
	}
	for _, w := range wanted {
		if _, ok := set[w]; ok {
			exact++
			continue
		}
		for _, o := range offered {
			if strings.Contains(o, w) || strings.Contains(w, o) {
				partial++
				break
			}
		}
	}
	return exact, partial
}
