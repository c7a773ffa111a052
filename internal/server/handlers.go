package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/matchmaker/internal/models"
	"github.com/hyperjump/matchmaker/internal/storage"
)

const defaultPageSize = 50

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req models.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rfqID := ""
	if req.RFQ != nil {
		rfqID = req.RFQ.ID
	}
	s.logger.Debug("match request",
		zap.String("rfq_id", rfqID),
		zap.Int("candidates", len(req.Candidates)),
		zap.Int("limit", req.Limit),
	)
	resp, err := s.engine.Match(r.Context(), &req)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRFQRecommendations(w http.ResponseWriter, r *http.Request) {
	rfqID := chi.URLParam(r, "id")
	recs, err := s.storage.GetSupplierRecommendations(r.Context(), rfqID)
	if err != nil {
		s.logger.Error("get recommendations failed", zap.String("rfq_id", rfqID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []*models.Recommendation{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"rfqId":           rfqID,
		"recommendations": recs,
	})
}

func (s *Server) handleListRecommendations(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		s.respondError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil || limit <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if limit > models.MaxMatchLimit*10 {
		limit = models.MaxMatchLimit * 10
	}
	ctx := r.Context()
	recs, err := s.storage.ListRecommendations(ctx, offset, limit)
	if err != nil {
		s.logger.Error("list recommendations failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.storage.CountRecommendations(ctx)
	if err != nil {
		s.logger.Error("count recommendations failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []*models.Recommendation{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
		"offset":          offset,
		"limit":           limit,
		"total":           total,
	})
}

func (s *Server) handleGetRecommendation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.storage.GetRecommendation(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "recommendation not found")
		return
	}
	if err != nil {
		s.logger.Error("get recommendation failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCatalogReload(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil || s.catalog.Status().Path == "" {
		s.respondError(w, http.StatusNotImplemented, "catalog not configured")
		return
	}
	if err := s.catalog.Reload(); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, s.catalog.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recCount, err := s.storage.CountRecommendations(ctx)
	if err != nil {
		s.logger.Error("status: count recommendations failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rfqCount, err := s.storage.CountRFQs(ctx)
	if err != nil {
		s.logger.Error("status: count rfqs failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ranker := s.engine.Ranker()
	resp := map[string]interface{}{
		"recommendations": recCount,
		"rfqs":            rfqCount,
		"weights_valid":   ranker.WeightsValid(),
	}

	configInfo := map[string]interface{}{
		"weights":             ranker.GetConfig().Weights,
		"recommend_threshold": ranker.GetConfig().RecommendThreshold,
		"default_limit":       s.config.Matching.DefaultLimit,
		"max_limit":           s.config.Matching.MaxLimit,
		"storage_driver":      s.config.Storage.Driver,
	}
	if s.config.Storage.Driver == "sqlite" {
		configInfo["database_path"] = s.config.Storage.DatabasePath
		if size, err := storage.DatabaseSizeBytes(s.config.Storage.DatabasePath); err == nil {
			resp["database_size_bytes"] = size
		}
	}
	resp["config"] = configInfo

	if s.catalog != nil {
		resp["catalog"] = s.catalog.Status()
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
