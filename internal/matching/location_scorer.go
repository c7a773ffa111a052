package matching

import "strings"

const (
	locationDefaultScore   = 0.5
	locationSameRegion     = 1.0
	locationAdjacentRegion = 0.8
	locationOtherRegion    = 0.5
	locationExactText      = 1.0
	locationContainedText  = 0.8
	locationSharedToken    = 0.7
	locationNoMatch        = 0.3
	// minSharedTokenLen is the shortest locality token counted as shared.
	minSharedTokenLen = 4
)

// LocationScorer grades geographic proximity between the buyer and the supplier.
type LocationScorer struct {
	graph *RegionGraph
}

// NewLocationScorer creates a LocationScorer. A nil graph uses DefaultRegionGraph.
func NewLocationScorer(graph *RegionGraph) *LocationScorer {
	if graph == nil {
		graph = DefaultRegionGraph()
	}
	return &LocationScorer{graph: graph}
}

// Name returns the scorer name.
func (s *LocationScorer) Name() string {
	return CriterionLocation
}

// Score compares regions when both can be extracted, otherwise compares the raw text.
func (s *LocationScorer) Score(ctx *ScoringContext) float64 {
	buyer := strings.TrimSpace(ctx.RFQ.Location)
	supplier := strings.TrimSpace(ctx.Supplier.Location)
	if buyer == "" || supplier == "" {
		return locationDefaultScore
	}

	buyerRegion, ok1 := ExtractRegion(buyer)
	supplierRegion, ok2 := ExtractRegion(supplier)
	if ok1 && ok2 {
		switch {
		case buyerRegion == supplierRegion:
			return locationSameRegion
		case s.graph.Adjacent(buyerRegion, supplierRegion):
			return locationAdjacentRegion
		default:
			return locationOtherRegion
		}
	}

	return scoreLocationText(buyer, supplier)
}

// scoreLocationText is the fallback when a region cannot be extracted from either side.
func scoreLocationText(a, b string) float64 {
	a = normalizePlace(a)
	b = normalizePlace(b)
	if a == b {
		return locationExactText
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return locationContainedText
	}
	words := make(map[string]struct{})
	for _, w := range placeWords(a) {
		if len(w) >= minSharedTokenLen {
			words[w] = struct{}{}
		}
	}
	for _, w := range placeWords(b) {
		if _, ok := words[w]; ok {
			return locationSharedToken
		}
	}
	return locationNoMatch
}
