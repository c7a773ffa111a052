// Package catalog loads the supplier catalog, indexes it for candidate retrieval and
// reloads it when the backing file changes.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/matchmaker/internal/metrics"
	"github.com/hyperjump/matchmaker/internal/models"
)

// Catalog is the supplier pool the service matches RFQs against when a request brings no
// candidates of its own. Supplier data is owned elsewhere; the catalog only reads it.
type Catalog struct {
	path    string
	index   *Index
	metrics *metrics.Metrics
	logger  *zap.Logger

	mu       sync.RWMutex
	loadedAt time.Time
	lastErr  error
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Catalog) { c.metrics = m }
}

// Open builds a catalog from the supplier file at path. An empty path yields an empty catalog.
func Open(path string, opts ...Option) (*Catalog, error) {
	index, err := NewIndex()
	if err != nil {
		return nil, err
	}
	c := &Catalog{path: path, index: index, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	if path == "" {
		return c, nil
	}
	if err := c.Reload(); err != nil {
		_ = index.Close()
		return nil, err
	}
	return c, nil
}

// Reload re-reads the supplier file. On failure the previous catalog stays in place.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return fmt.Errorf("catalog has no supplier file")
	}
	err := c.reload()
	c.metrics.RecordCatalogReload(err)

	c.mu.Lock()
	c.lastErr = err
	if err == nil {
		c.loadedAt = time.Now()
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("supplier catalog reload failed", zap.String("path", c.path), zap.Error(err))
		return err
	}
	c.metrics.SetCatalogSize(c.index.Len())
	c.logger.Info("supplier catalog loaded", zap.String("path", c.path), zap.Int("suppliers", c.index.Len()))
	return nil
}

func (c *Catalog) reload() error {
	suppliers, err := LoadSuppliers(c.path)
	if err != nil {
		return err
	}
	return c.index.Replace(suppliers)
}

// Watch starts reloading the catalog whenever its file changes, until ctx is done.
func (c *Catalog) Watch(ctx context.Context, opts ...WatcherOption) (*Watcher, error) {
	if c.path == "" {
		return nil, fmt.Errorf("catalog has no supplier file")
	}
	opts = append([]WatcherOption{WithWatcherLogger(c.logger)}, opts...)
	w := NewWatcher(c.path, func(string) { _ = c.Reload() }, opts...)
	if err := w.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to watch supplier file: %w", err)
	}
	return w, nil
}

// Candidates returns suppliers worth scoring for rfq. See Index.Candidates.
func (c *Catalog) Candidates(ctx context.Context, rfq *models.RFQ, limit int) ([]*models.Supplier, error) {
	return c.index.Candidates(ctx, rfq, limit)
}

// Replace loads suppliers directly, bypassing the file.
func (c *Catalog) Replace(suppliers []*models.Supplier) error {
	if err := c.index.Replace(suppliers); err != nil {
		return err
	}
	c.mu.Lock()
	c.loadedAt = time.Now()
	c.lastErr = nil
	c.mu.Unlock()
	c.metrics.SetCatalogSize(c.index.Len())
	return nil
}

// Index returns the underlying index.
func (c *Catalog) Index() *Index {
	return c.index
}

// Status describes the catalog for the status endpoint.
type Status struct {
	Path      string    `json:"path,omitempty"`
	Suppliers int       `json:"suppliers"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// Status returns the catalog's current state.
func (c *Catalog) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Status{Path: c.path, Suppliers: c.index.Len(), LoadedAt: c.loadedAt}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Error()
	}
	return s
}

// Close releases the index.
func (c *Catalog) Close() error {
	return c.index.Close()
}
