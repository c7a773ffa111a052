// Package engine runs the supplier matching pipeline: score, rank, persist and explain.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/matchmaker/internal/matching"
	"github.com/hyperjump/matchmaker/internal/metrics"
	"github.com/hyperjump/matchmaker/internal/models"
	"github.com/hyperjump/matchmaker/internal/storage"
)

// CandidateSource supplies candidate suppliers for an RFQ when a request carries none.
type CandidateSource interface {
	Candidates(ctx context.Context, rfq *models.RFQ, limit int) ([]*models.Supplier, error)
}

// Engine matches RFQs against candidate suppliers. It keeps no per-request state and is
// safe for concurrent use; everything it remembers lives in the injected store.
type Engine struct {
	ranker  *matching.Ranker
	store   storage.RecommendationStore
	catalog CandidateSource
	metrics *metrics.Metrics
	logger  *zap.Logger

	workers      int
	timeout      time.Duration
	defaultLimit int
	maxLimit     int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithCandidateSource sets where Match draws candidates from when a request has none.
func WithCandidateSource(c CandidateSource) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithWorkers bounds concurrent scoring. Zero or less means runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithTimeout bounds every match call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithLimits sets the default and maximum number of recommendations per request.
func WithLimits(defaultLimit, maxLimit int) Option {
	return func(e *Engine) {
		if defaultLimit > 0 {
			e.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			e.maxLimit = maxLimit
		}
	}
}

// New creates an Engine scoring with ranker and persisting into store.
func New(ranker *matching.Ranker, store storage.RecommendationStore, opts ...Option) (*Engine, error) {
	if ranker == nil {
		return nil, fmt.Errorf("ranker is required")
	}
	if store == nil {
		return nil, fmt.Errorf("recommendation store is required")
	}
	e := &Engine{
		ranker:       ranker,
		store:        store,
		logger:       zap.NewNop(),
		defaultLimit: models.DefaultMatchLimit,
		maxLimit:     models.MaxMatchLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers <= 0 {
		e.workers = runtime.NumCPU()
	}
	return e, nil
}

// Ranker returns the ranker used for scoring.
func (e *Engine) Ranker() *matching.Ranker {
	return e.ranker
}

// FindMatchingSuppliers scores every candidate against rfq, keeps the best limit of them and
// returns their recommendations, best first. Pairs already stored are returned verbatim;
// the rest are created with a fresh score and rationale. It never fails: candidates whose
// recommendation cannot be stored are logged and left out.
func (e *Engine) FindMatchingSuppliers(ctx context.Context, rfq *models.RFQ, candidates []*models.Supplier, limit int) []*models.Recommendation {
	return e.run(ctx, rfq, candidates, limit).recommendations
}

// Match validates req, falls back to the candidate source when req has no candidates and
// reports the outcome with per-supplier score breakdowns.
func (e *Engine) Match(ctx context.Context, req *models.MatchRequest) (*models.MatchResponse, error) {
	start := time.Now()
	if req == nil {
		return nil, fmt.Errorf("match request is required")
	}
	if err := req.ValidateLimits(e.defaultLimit, e.maxLimit); err != nil {
		e.metrics.ObserveMatch("invalid", time.Since(start))
		return nil, err
	}

	candidates := req.Candidates
	if len(candidates) == 0 && e.catalog != nil {
		found, err := e.catalog.Candidates(ctx, req.RFQ, 0)
		if err != nil {
			e.logger.Warn("candidate lookup failed", zap.String("rfq_id", req.RFQ.ID), zap.Error(err))
		}
		candidates = found
	}

	res := e.run(ctx, req.RFQ, candidates, req.Limit)

	breakdowns := make(map[string]models.CriterionScores, len(res.recommendations))
	for _, rec := range res.recommendations {
		if b, ok := res.breakdowns[rec.SupplierID]; ok {
			breakdowns[rec.SupplierID] = b.Scores()
		}
	}

	elapsed := time.Since(start)
	outcome := "ok"
	if res.failed > 0 || res.dropped > 0 {
		outcome = "partial"
	}
	e.metrics.ObserveMatch(outcome, elapsed)

	return &models.MatchResponse{
		RFQID:           req.RFQ.ID,
		Recommendations: res.recommendations,
		Breakdowns:      breakdowns,
		TotalCandidates: len(candidates),
		Scored:          res.scored,
		Created:         res.created,
		Reused:          res.reused,
		Failed:          res.failed,
		QueryTime:       elapsed.Milliseconds(),
	}, nil
}

type runResult struct {
	recommendations []*models.Recommendation
	breakdowns      map[string]*matching.ScoreBreakdown
	scored          int
	created         int
	reused          int
	failed          int
	dropped         int
}

func (e *Engine) run(ctx context.Context, rfq *models.RFQ, candidates []*models.Supplier, limit int) *runResult {
	res := &runResult{
		recommendations: make([]*models.Recommendation, 0),
		breakdowns:      make(map[string]*matching.ScoreBreakdown),
	}
	if rfq == nil || rfq.ID == "" {
		e.logger.Warn("match skipped: rfq without id")
		return res
	}
	if limit <= 0 {
		limit = e.defaultLimit
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	ranked := e.score(ctx, rfq, candidates)
	res.scored = len(ranked)
	matching.SortRanked(ranked)
	top := matching.TopN(ranked, limit)
	for _, r := range top {
		res.breakdowns[r.Supplier.ID] = r.Breakdown
	}

	e.persist(ctx, rfq, top, res)

	e.logger.Debug("match finished",
		zap.String("rfq_id", rfq.ID),
		zap.Int("candidates", len(candidates)),
		zap.Int("scored", res.scored),
		zap.Int("returned", len(res.recommendations)),
		zap.Int("created", res.created),
		zap.Int("reused", res.reused),
		zap.Int("failed", res.failed),
	)
	return res
}

// score evaluates candidates on a bounded pool. Results land at their input index so the
// merge is deterministic. Candidates not started before ctx is done are dropped.
func (e *Engine) score(ctx context.Context, rfq *models.RFQ, candidates []*models.Supplier) []*matching.RankedSupplier {
	if len(candidates) == 0 {
		return nil
	}
	results := make([]*matching.RankedSupplier, len(candidates))

	var g errgroup.Group
	g.SetLimit(min(len(candidates), e.workers))

	seen := make(map[string]struct{}, len(candidates))
	for i, sup := range candidates {
		if ctx.Err() != nil {
			break
		}
		if sup == nil || sup.ID == "" {
			e.logger.Debug("candidate skipped: no id", zap.Int("position", i))
			continue
		}
		if _, dup := seen[sup.ID]; dup {
			e.logger.Debug("candidate skipped: duplicate id", zap.String("supplier_id", sup.ID))
			continue
		}
		seen[sup.ID] = struct{}{}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			b := e.ranker.Score(rfq, sup)
			results[i] = &matching.RankedSupplier{Supplier: sup, Breakdown: b, Position: i}
			e.metrics.ObserveScore(b.FinalScore)
			return nil
		})
	}
	_ = g.Wait()

	ranked := make([]*matching.RankedSupplier, 0, len(results))
	for _, r := range results {
		if r != nil {
			ranked = append(ranked, r)
		}
	}
	return ranked
}

// persist resolves each ranked supplier into a stored recommendation, in rank order.
func (e *Engine) persist(ctx context.Context, rfq *models.RFQ, top []*matching.RankedSupplier, res *runResult) {
	if len(top) == 0 {
		return
	}

	existing := make(map[string]*models.Recommendation)
	stored, err := e.store.GetSupplierRecommendations(ctx, rfq.ID)
	if err != nil {
		// Creates are idempotent; carry on without the lookup.
		e.logger.Warn("failed to load existing recommendations",
			zap.String("rfq_id", rfq.ID), zap.Error(err))
	}
	for _, rec := range stored {
		existing[rec.SupplierID] = rec
	}

	for i, r := range top {
		if ctx.Err() != nil {
			res.dropped = len(top) - i
			e.logger.Warn("match deadline reached, dropping remaining candidates",
				zap.String("rfq_id", rfq.ID), zap.Int("dropped", res.dropped), zap.Error(ctx.Err()))
			return
		}
		if rec, ok := existing[r.Supplier.ID]; ok {
			res.recommendations = append(res.recommendations, rec)
			res.reused++
			e.metrics.RecordStore(metrics.StoreReused)
			continue
		}

		rec, err := e.store.CreateSupplierRecommendation(ctx, &models.RecommendationInput{
			RFQID:       rfq.ID,
			SupplierID:  r.Supplier.ID,
			MatchScore:  r.Score(),
			MatchReason: matching.Explain(r.Breakdown, r.Supplier),
			Recommended: r.Breakdown.Recommended,
		})
		if err != nil {
			res.failed++
			e.metrics.RecordStore(metrics.StoreFailed)
			e.logger.Error("failed to store recommendation",
				zap.String("rfq_id", rfq.ID),
				zap.String("supplier_id", r.Supplier.ID),
				zap.Error(err),
			)
			continue
		}
		res.recommendations = append(res.recommendations, rec)
		res.created++
		e.metrics.RecordStore(metrics.StoreCreated)
	}
}
