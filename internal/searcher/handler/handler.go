package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/searcher/executor"
	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/middleware"
)

type SearchExecutor interface {
	Execute(ctx context.Context, query string, limit int) (*executor.SearchResult, error)
}

// Index is the read side of the indexer engine.
type Index interface {
	SiteString(host string) (string, error)
	Stats() indexer.Stats
	Generation() uint64
}

type Handler struct {
	executor     SearchExecutor
	cache        *cache.QueryCache
	index        Index
	metrics      *metrics.Metrics
	defaultLimit int
	maxResults   int
	logger       *slog.Logger
}

// New returns the search API. queryCache and m may be nil.
func New(exec SearchExecutor, queryCache *cache.QueryCache, idx Index, m *metrics.Metrics, defaultLimit, maxResults int) *Handler {
	return &Handler{
		executor:     exec,
		cache:        queryCache,
		index:        idx,
		metrics:      m,
		defaultLimit: defaultLimit,
		maxResults:   maxResults,
		logger:       slog.Default().With("component", "search-handler"),
	}
}

// Register mounts the search routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/sites/{host}", h.Site)
	mux.HandleFunc("GET /api/v1/index/stats", h.IndexStats)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

// Search handles GET /api/v1/search?q=<keyword>&k=<n>. With format=sites the
// response is the plain-text site listing of the ranked pages.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	params := r.URL.Query()
	query := params.Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	limit, err := h.parseLimit(params)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		result      *executor.SearchResult
		cacheStatus = "disabled"
	)
	if h.cache != nil {
		var hit bool
		result, hit, err = h.cache.GetOrCompute(ctx, query, limit, h.index.Generation(), func() (*executor.SearchResult, error) {
			return h.executor.Execute(ctx, query, limit)
		})
		cacheStatus = "miss"
		if hit {
			cacheStatus = "hit"
		}
	} else {
		result, err = h.executor.Execute(ctx, query, limit)
	}
	if err != nil {
		statusCode := apperrors.HTTPStatusCode(err)
		h.observe("error", cacheStatus, start, 0)
		log.Error("search execution failed",
			"query", query,
			"error", err,
			"status_code", statusCode,
			"request_id", middleware.GetRequestID(ctx),
		)
		msg := "search failed"
		if statusCode < http.StatusInternalServerError {
			msg = err.Error()
		}
		h.writeError(w, statusCode, msg)
		return
	}

	resultType := "hit"
	if result.TotalDocs == 0 {
		resultType = "miss"
	}
	h.observe(resultType, cacheStatus, start, len(result.Results))
	log.Info("search completed",
		"query", query,
		"term", result.Term,
		"total_docs", result.TotalDocs,
		"returned", len(result.Results),
		"cache", cacheStatus,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if params.Get("format") == "sites" {
		h.writeText(w, http.StatusOK, result.Sites)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) parseLimit(params map[string][]string) (int, error) {
	raw := ""
	for _, name := range []string{"k", "limit"} {
		if v := params[name]; len(v) > 0 && v[0] != "" {
			raw = v[0]
			break
		}
	}
	if raw == "" {
		return h.defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("k must be a non-negative integer")
	}
	if h.maxResults > 0 && limit > h.maxResults {
		limit = h.maxResults
	}
	return limit, nil
}

// Site handles GET /api/v1/sites/{host} and returns the site string.
func (h *Handler) Site(w http.ResponseWriter, r *http.Request) {
	out, err := h.index.SiteString(r.PathValue("host"))
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}
	h.writeText(w, http.StatusOK, out)
}

func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.index.Stats())
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}

	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) observe(resultType, cacheStatus string, start time.Time, returned int) {
	if h.metrics == nil {
		return
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
	if resultType != "error" {
		h.metrics.SearchResultsCount.Observe(float64(returned))
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
