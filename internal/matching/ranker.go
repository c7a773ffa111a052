package matching

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/matchmaker/internal/models"
)

// Ranker combines all criterion scorers into a weighted, clamped match score.
// It holds no mutable state after construction and is safe for concurrent use.
type Ranker struct {
	config  *Config
	scorers []Scorer
	now     func() time.Time
	logger  *zap.Logger
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithClock sets the clock used for date-based deadlines.
func WithClock(now func() time.Time) RankerOption {
	return func(r *Ranker) { r.now = now }
}

// WithLogger sets the logger used for configuration warnings.
func WithLogger(l *zap.Logger) RankerOption {
	return func(r *Ranker) { r.logger = l }
}

// WithRegionGraph replaces the region adjacency graph used by the location scorer.
func WithRegionGraph(g *RegionGraph) RankerOption {
	return func(r *Ranker) {
		for i, s := range r.scorers {
			if _, ok := s.(*LocationScorer); ok {
				r.scorers[i] = NewLocationScorer(g)
			}
		}
	}
}

// NewRanker creates a new Ranker with the given configuration. Weights that do not sum
// to 1.0 are logged as a warning and used as configured.
func NewRanker(config *Config, opts ...RankerOption) *Ranker {
	if config == nil {
		config = DefaultConfig()
	}
	config.ApplyDefaults()

	r := &Ranker{
		config:  config,
		scorers: DefaultScorers(),
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := config.Weights.Validate(); err != nil {
		r.logger.Warn("matching weights misconfigured, scores may drift outside the intended scale",
			zap.Error(err),
			zap.Float64("weight_sum", config.Weights.Sum()),
		)
	}
	return r
}

// DefaultScorers returns one scorer per criterion, in Criteria order.
func DefaultScorers() []Scorer {
	return []Scorer{
		NewCategoryScorer(),
		NewLocationScorer(nil),
		NewPriceScorer(),
		NewPerformanceScorer(),
		NewDeliveryScorer(),
		NewCertificationScorer(),
		NewSuccessRateScorer(),
	}
}

// GetConfig returns the matching configuration.
func (r *Ranker) GetConfig() *Config {
	return r.config
}

// WeightsValid reports whether the configured weights sum to 1.0.
func (r *Ranker) WeightsValid() bool {
	return r.config.Weights.Validate() == nil
}

// Score computes every criterion score and the weighted final score for one supplier.
func (r *Ranker) Score(rfq *models.RFQ, supplier *models.Supplier) *ScoreBreakdown {
	ctx := NewScoringContext(rfq, supplier, r.now())
	breakdown := &ScoreBreakdown{}

	total := 0.0
	for _, s := range r.scorers {
		score := clamp01(s.Score(ctx))
		breakdown.set(s.Name(), score)
		total += r.config.Weights.For(s.Name()) * score
	}

	breakdown.FinalScore = clamp01(total)
	breakdown.Recommended = breakdown.FinalScore >= r.config.RecommendThreshold
	return breakdown
}

// RankedSupplier holds a supplier with its computed score.
type RankedSupplier struct {
	Supplier  *models.Supplier
	Breakdown *ScoreBreakdown
	// Position is the supplier's index in the candidate list; it breaks score ties.
	Position int
}

// Score returns the final match score.
func (r *RankedSupplier) Score() float64 {
	return r.Breakdown.FinalScore
}

// RankSuppliers scores every supplier and returns them sorted by score, best first.
func (r *Ranker) RankSuppliers(rfq *models.RFQ, suppliers []*models.Supplier) []*RankedSupplier {
	results := make([]*RankedSupplier, 0, len(suppliers))
	for i, s := range suppliers {
		if s == nil {
			continue
		}
		results = append(results, &RankedSupplier{
			Supplier:  s,
			Breakdown: r.Score(rfq, s),
			Position:  i,
		})
	}
	SortRanked(results)
	return results
}

// SortRanked sorts by score descending. Equal scores keep candidate order.
func SortRanked(results []*RankedSupplier) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score() != results[j].Score() {
			return results[i].Score() > results[j].Score()
		}
		return results[i].Position < results[j].Position
	})
}

// TopN returns the top N results.
func TopN(results []*RankedSupplier, n int) []*RankedSupplier {
	if n < 0 {
		n = 0
	}
	if n >= len(results) {
		return results
	}
	return results[:n]
}
