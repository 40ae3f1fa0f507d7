package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/site"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/metrics"
)

// Hit is one ranked page for a term.
type Hit struct {
	Page  *site.Page
	Count int
}

// Stats describes the size of the index.
type Stats struct {
	Sites      int    `json:"sites"`
	Pages      int    `json:"pages"`
	Terms      int    `json:"terms"`
	Nodes      int    `json:"nodes"`
	Postings   int    `json:"postings"`
	Generation uint64 `json:"generation"`
}

// Engine owns the inverted index and the site hierarchies of every indexed
// page. Writers are serialized; searches run concurrently with each other and
// never observe a page half indexed. Site hierarchies are only read under the
// engine's lock, so they are never handed out.
type Engine struct {
	mu       sync.RWMutex
	index    *index.InvertedIndex[*site.Page]
	sites    map[string]*site.WebSite
	pages    map[string]*site.Page
	analyzer tokenizer.Analyzer
	cfg      config.IndexerConfig
	metrics  *metrics.Metrics
	logger   *slog.Logger

	generation atomic.Uint64
}

// NewEngine returns an empty engine. m may be nil.
func NewEngine(cfg config.IndexerConfig, m *metrics.Metrics) (*Engine, error) {
	analyzer, err := tokenizer.ParseAnalyzer(cfg.Analyzer)
	if err != nil {
		return nil, fmt.Errorf("configuring indexer: %w", err)
	}
	return &Engine{
		index:    index.New[*site.Page](),
		sites:    make(map[string]*site.WebSite),
		pages:    make(map[string]*site.Page),
		analyzer: analyzer,
		cfg:      cfg,
		metrics:  m,
		logger:   slog.Default().With("component", "indexer"),
	}, nil
}

// Analyzer returns the analyzer used for page content and queries.
func (e *Engine) Analyzer() tokenizer.Analyzer {
	return e.analyzer
}

// IndexPage adds the page at url to its website, creating the website on
// first use, and records every term of content against it. A url can be
// indexed only once.
func (e *Engine) IndexPage(url, content string) (*site.Page, error) {
	host := ingestion.Host(url)
	if host == "" {
		return nil, apperrors.Newf(apperrors.ErrInvalidURL, 400, "%q has no host", url)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.pages[url]; ok {
		return nil, apperrors.Newf(apperrors.ErrPageExists, 409, "%s is already indexed", url)
	}
	ws, known := e.sites[host]
	if !known {
		ws = site.New(host)
	}
	page, err := ws.InsertPage(url, content)
	if err != nil {
		return nil, err
	}
	if !known {
		e.sites[host] = ws
	}

	tokens := e.analyzer.Tokenize(content)
	n, err := e.index.AddTokens(tokens, page)
	if err != nil {
		// the analyzers never emit the sentinel, so this is a bug
		return nil, fmt.Errorf("indexing %s after %d terms: %w", url, n, err)
	}
	e.pages[url] = page
	gen := e.generation.Add(1)

	if e.metrics != nil {
		e.metrics.PagesIndexedTotal.Inc()
		e.metrics.IndexTerms.Set(float64(e.index.Terms()))
		e.metrics.IndexNodes.Set(float64(e.index.Nodes()))
		e.metrics.IndexPostings.Set(float64(e.index.Postings()))
	}
	e.logger.Debug("page indexed",
		"url", url,
		"token_count", n,
		"terms", e.index.Terms(),
		"generation", gen,
	)
	return page, nil
}

// QueryResult is the ranking of one term. Sites holds the site strings of
// the websites of Hits, in rank order, without repeats and without a
// trailing newline. Generation is the index generation the ranking was
// computed at.
type QueryResult struct {
	Term       string
	Hits       []Hit
	Total      int
	Sites      string
	Generation uint64
}

// Query normalizes term with the engine's analyzer, looks it up and ranks
// the top k pages. Total is the number of pages containing the term. k is
// capped at the configured maximum.
//
// On a miss the error wraps ErrTermNotFound and the result still carries the
// normalized Term and the Generation, with no hits.
func (e *Engine) Query(term string, k int) (*QueryResult, error) {
	if e.cfg.MaxResults > 0 && k > e.cfg.MaxResults {
		k = e.cfg.MaxResults
	}
	normalized := e.analyzer.Normalize(term)

	e.mu.RLock()
	defer e.mu.RUnlock()

	res := &QueryResult{
		Term:       normalized,
		Hits:       []Hit{},
		Generation: e.generation.Load(),
	}
	occ, err := e.index.Lookup(normalized)
	if errors.Is(err, apperrors.ErrTermNotFound) {
		return res, err
	}
	if err != nil {
		return nil, err
	}
	for _, r := range ranker.Rank(occ, k) {
		res.Hits = append(res.Hits, Hit{Page: r.Doc, Count: r.Count})
	}
	res.Total = occ.Len()
	// site hierarchies are mutated by IndexPage, render them under the lock
	res.Sites = siteStrings(res.Hits)
	return res, nil
}

// Search returns the k pages with the most occurrences of term, highest
// first.
func (e *Engine) Search(term string, k int) ([]Hit, error) {
	res, err := e.Query(term, k)
	if err != nil {
		return nil, err
	}
	return res.Hits, nil
}

// SearchSites ranks the top k pages for term and concatenates the site
// string of each page's website, in rank order, skipping websites already
// listed. The result has no trailing newline.
func (e *Engine) SearchSites(term string, k int) (string, error) {
	res, err := e.Query(term, k)
	if err != nil {
		return "", err
	}
	return res.Sites, nil
}

// siteStrings must be called with e.mu held.
func siteStrings(hits []Hit) string {
	var b strings.Builder
	seen := make(map[*site.WebSite]struct{}, len(hits))
	for _, hit := range hits {
		ws := hit.Page.Site()
		if _, ok := seen[ws]; ok {
			continue
		}
		seen[ws] = struct{}{}
		b.WriteString(ws.SiteString())
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// SiteString renders the hierarchy of the website of host.
func (e *Engine) SiteString(host string) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ws, ok := e.sites[host]
	if !ok {
		return "", fmt.Errorf("%s: %w", host, apperrors.ErrSiteNotFound)
	}
	return ws.SiteString(), nil
}

// Page returns the indexed page at url.
func (e *Engine) Page(url string) (*site.Page, error) {
	host := ingestion.Host(url)
	e.mu.RLock()
	defer e.mu.RUnlock()
	ws, ok := e.sites[host]
	if !ok {
		return nil, fmt.Errorf("%s: %w", host, apperrors.ErrSiteNotFound)
	}
	return ws.Page(url)
}

// Stats returns a snapshot of the index size.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Stats{
		Sites:      len(e.sites),
		Pages:      len(e.pages),
		Terms:      e.index.Terms(),
		Nodes:      e.index.Nodes(),
		Postings:   e.index.Postings(),
		Generation: e.generation.Load(),
	}
}

// Generation increases every time a page is indexed. Cached query results
// are keyed by it.
func (e *Engine) Generation() uint64 {
	return e.generation.Load()
}

// LoadSource indexes every page src yields and returns how many were
// indexed. Pages that are already indexed are skipped. Pages that cannot be
// indexed do not stop the load; their errors are returned together with any
// error of src.
func (e *Engine) LoadSource(ctx context.Context, src ingestion.Source) (int, error) {
	var (
		indexed int
		skipped int
		result  *multierror.Error
	)
	err := src.Pages(ctx, func(p ingestion.Page) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := e.IndexPage(p.URL, p.Content)
		switch {
		case err == nil:
			indexed++
		case errors.Is(err, apperrors.ErrPageExists):
			skipped++
		default:
			if e.metrics != nil {
				e.metrics.IngestErrorsTotal.WithLabelValues(sourceName(src)).Inc()
			}
			result = multierror.Append(result, err)
		}
		return nil
	})
	if err != nil {
		result = multierror.Append(result, err)
	}
	e.logger.Info("page source loaded",
		"indexed", indexed,
		"skipped", skipped,
		"failed", failures(result),
		"terms", e.Stats().Terms,
	)
	return indexed, result.ErrorOrNil()
}

func sourceName(src ingestion.Source) string {
	if named, ok := src.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "unknown"
}

func failures(err *multierror.Error) int {
	if err == nil {
		return 0
	}
	return len(err.Errors)
}
