package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hyperjump/matchmaker/internal/models"
)

type pairKey struct {
	rfqID      string
	supplierID string
}

// MemoryStorage is an in-memory Storage for tests and dry runs.
// Records are lost when the process exits.
type MemoryStorage struct {
	mu     sync.RWMutex
	byID   map[string]*models.Recommendation
	byPair map[pairKey]*models.Recommendation
	order  []string
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byID:   make(map[string]*models.Recommendation),
		byPair: make(map[pairKey]*models.Recommendation),
	}
}

// CreateSupplierRecommendation stores a new recommendation or returns the existing one for the pair.
func (m *MemoryStorage) CreateSupplierRecommendation(ctx context.Context, input *models.RecommendationInput) (*models.Recommendation, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := pairKey{input.RFQID, input.SupplierID}
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.byPair[key]; ok {
		return copyRecommendation(rec), nil
	}
	rec := &models.Recommendation{
		ID:          uuid.NewString(),
		RFQID:       input.RFQID,
		SupplierID:  input.SupplierID,
		MatchScore:  input.MatchScore,
		MatchReason: input.MatchReason,
		Recommended: input.Recommended,
		CreatedAt:   time.Now().UTC(),
	}
	m.byID[rec.ID] = rec
	m.byPair[key] = rec
	m.order = append(m.order, rec.ID)
	return copyRecommendation(rec), nil
}

// GetSupplierRecommendations returns every stored recommendation for an RFQ, best score first.
func (m *MemoryStorage) GetSupplierRecommendations(ctx context.Context, rfqID string) ([]*models.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	recs := make([]*models.Recommendation, 0)
	for _, id := range m.order {
		if rec := m.byID[id]; rec.RFQID == rfqID {
			recs = append(recs, copyRecommendation(rec))
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].MatchScore > recs[j].MatchScore })
	return recs, nil
}

// GetRecommendation returns a recommendation by ID.
func (m *MemoryStorage) GetRecommendation(ctx context.Context, id string) (*models.Recommendation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("recommendation %s: %w", id, ErrNotFound)
	}
	return copyRecommendation(rec), nil
}

// ListRecommendations returns recommendations with offset and limit, newest first.
func (m *MemoryStorage) ListRecommendations(ctx context.Context, offset, limit int) ([]*models.Recommendation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := make([]*models.Recommendation, 0)
	for i := len(m.order) - 1 - offset; i >= 0 && len(recs) < limit; i-- {
		recs = append(recs, copyRecommendation(m.byID[m.order[i]]))
	}
	return recs, nil
}

// CountRecommendations returns the total number of recommendations.
func (m *MemoryStorage) CountRecommendations(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.byID)), nil
}

// CountRFQs returns the number of distinct RFQs with at least one recommendation.
func (m *MemoryStorage) CountRFQs(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rfqs := make(map[string]struct{})
	for key := range m.byPair {
		rfqs[key.rfqID] = struct{}{}
	}
	return int64(len(rfqs)), nil
}

// Close is a no-op.
func (m *MemoryStorage) Close() error {
	return nil
}

func copyRecommendation(rec *models.Recommendation) *models.Recommendation {
	c := *rec
	return &c
}
