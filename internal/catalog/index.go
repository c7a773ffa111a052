package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/matchmaker/internal/models"
)

// locationBoost weights location hits below category and certification hits.
const locationBoost = 0.5

// supplierDoc is the searchable projection of a supplier.
type supplierDoc struct {
	Name           string `json:"name"`
	Categories     string `json:"categories"`
	Location       string `json:"location"`
	Certifications string `json:"certifications"`
}

// Index is an in-memory full-text index over the supplier catalog. It orders the catalog so
// suppliers sharing a category, certification or location term with an RFQ come first; the
// matching engine does the actual scoring.
type Index struct {
	mu        sync.RWMutex
	index     bleve.Index
	suppliers map[string]*models.Supplier
	order     []string
}

// NewIndex creates an empty index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(newSupplierMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &Index{index: idx, suppliers: make(map[string]*models.Supplier)}, nil
}

func newSupplierMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer: lower-case and tokenize without stemming, so "steel" does not match "steely".
	textFieldMapping.Analyzer = standard.Name
	for _, field := range []string{"name", "categories", "location", "certifications"} {
		docMapping.AddFieldMappingsAt(field, textFieldMapping)
	}
	im.AddDocumentMapping("supplier", docMapping)
	im.DefaultType = "supplier"
	im.DefaultMapping = docMapping
	return im
}

// Replace swaps the indexed catalog for suppliers. The old index stays queryable until the
// new one is fully built.
func (i *Index) Replace(suppliers []*models.Supplier) error {
	idx, err := bleve.NewMemOnly(newSupplierMapping())
	if err != nil {
		return fmt.Errorf("failed to create Bleve index: %w", err)
	}

	byID := make(map[string]*models.Supplier, len(suppliers))
	order := make([]string, 0, len(suppliers))
	batch := idx.NewBatch()
	for _, s := range suppliers {
		if s == nil || s.ID == "" {
			continue
		}
		if _, dup := byID[s.ID]; dup {
			continue
		}
		byID[s.ID] = s
		order = append(order, s.ID)
		if err := batch.Index(s.ID, toDoc(s)); err != nil {
			_ = idx.Close()
			return fmt.Errorf("failed to index supplier %s: %w", s.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return fmt.Errorf("failed to index suppliers: %w", err)
	}

	i.mu.Lock()
	old := i.index
	i.index = idx
	i.suppliers = byID
	i.order = order
	i.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

func toDoc(s *models.Supplier) *supplierDoc {
	return &supplierDoc{
		Name:           s.Name,
		Categories:     strings.Join(s.Categories, " "),
		Location:       s.Location,
		Certifications: strings.Join(s.Certifications, " "),
	}
}

// Len returns the number of indexed suppliers.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.order)
}

// Get returns a supplier by ID.
func (i *Index) Get(id string) (*models.Supplier, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	s, ok := i.suppliers[id]
	return s, ok
}

// Suppliers returns every indexed supplier in load order.
func (i *Index) Suppliers() []*models.Supplier {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]*models.Supplier, len(i.order))
	for n, id := range i.order {
		out[n] = i.suppliers[id]
	}
	return out
}

// Candidates returns the catalog ordered for scoring: suppliers sharing a category,
// certification or location term with rfq come first, best text match first, followed by
// the rest in load order. Nothing is filtered out. limit <= 0 means no limit.
func (i *Index) Candidates(ctx context.Context, rfq *models.RFQ, limit int) ([]*models.Supplier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i.mu.RLock()
	defer i.mu.RUnlock()

	total := len(i.order)
	if limit <= 0 || limit > total {
		limit = total
	}
	if total == 0 {
		return nil, nil
	}
	if i.index == nil {
		return nil, fmt.Errorf("catalog index is closed")
	}

	q := candidateQuery(rfq)
	if q == nil {
		return i.firstLocked(limit), nil
	}

	req := bleve.NewSearchRequestOptions(q, total, 0, false)
	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}

	out := make([]*models.Supplier, 0, limit)
	seen := make(map[string]struct{}, len(res.Hits))
	for _, hit := range res.Hits {
		if len(out) == limit {
			return out, nil
		}
		if s, ok := i.suppliers[hit.ID]; ok {
			out = append(out, s)
			seen[hit.ID] = struct{}{}
		}
	}
	for _, id := range i.order {
		if len(out) == limit {
			break
		}
		if _, ok := seen[id]; ok {
			continue
		}
		out = append(out, i.suppliers[id])
	}
	return out, nil
}

// candidateQuery ORs the RFQ's categories, certifications and location. Nil means nothing to search for.
func candidateQuery(rfq *models.RFQ) blevequery.Query {
	if rfq == nil {
		return nil
	}
	var queries []blevequery.Query
	for _, c := range rfq.Category {
		mq := bleve.NewMatchQuery(c)
		mq.SetField("categories")
		queries = append(queries, mq)
	}
	for _, c := range rfq.RequiredCertifications {
		mq := bleve.NewMatchQuery(c)
		mq.SetField("certifications")
		queries = append(queries, mq)
	}
	if loc := strings.TrimSpace(rfq.Location); loc != "" {
		mq := bleve.NewMatchQuery(loc)
		mq.SetField("location")
		mq.SetBoost(locationBoost)
		queries = append(queries, mq)
	}
	if len(queries) == 0 {
		return nil
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// Close releases the index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.index == nil {
		return nil
	}
	err := i.index.Close()
	i.index = nil
	return err
}
