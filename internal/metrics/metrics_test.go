package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Recorded(t *testing.T) {
	m := New("test")

	m.ObserveMatch("ok", 120*time.Millisecond)
	m.ObserveScore(0.82)
	m.ObserveScore(0.31)
	m.RecordStore(StoreCreated)
	m.RecordStore(StoreReused)
	m.RecordStore(StoreFailed)
	m.SetCatalogSize(42)
	m.RecordCatalogReload(nil)
	m.RecordCatalogReload(errors.New("bad file"))
	m.ObserveHTTP(http.MethodPost, "/api/v1/match", http.StatusOK, 5*time.Millisecond)

	out := scrape(t, m)
	assert.Contains(t, out, `test_match_requests_total{outcome="ok"} 1`)
	assert.Contains(t, out, `test_candidates_scored_total 2`)
	assert.Contains(t, out, `test_match_score_count 2`)
	assert.Contains(t, out, `test_store_operations_total{result="created"} 1`)
	assert.Contains(t, out, `test_store_operations_total{result="failed"} 1`)
	assert.Contains(t, out, `test_catalog_suppliers 42`)
	assert.Contains(t, out, `test_catalog_reloads_total{result="error"} 1`)
	assert.Contains(t, out, `test_http_requests_total{method="POST",route="/api/v1/match",status_code="200"} 1`)
	assert.Contains(t, out, `go_goroutines`)
}

func TestMetrics_DefaultNamespace(t *testing.T) {
	m := New("")
	m.SetCatalogSize(1)
	assert.Contains(t, scrape(t, m), "matchmaker_catalog_suppliers 1")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveMatch("ok", time.Second)
		m.ObserveScore(1)
		m.RecordStore(StoreCreated)
		m.SetCatalogSize(3)
		m.RecordCatalogReload(nil)
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
