package executor

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/indexer"
	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
)

// Result is one ranked page.
type Result struct {
	URL   string `json:"url"`
	Host  string `json:"host"`
	Count int    `json:"count"`
}

// SearchResult is the answer to one keyword query. Sites holds the site
// strings of the websites of Results, in rank order, without repeats.
type SearchResult struct {
	Query      string   `json:"query"`
	Term       string   `json:"term"`
	TotalDocs  int      `json:"total_docs"`
	Results    []Result `json:"results"`
	Sites      string   `json:"sites"`
	Generation uint64   `json:"generation"`
}

type Executor struct {
	engine *indexer.Engine
	logger *slog.Logger
}

func New(engine *indexer.Engine) *Executor {
	return &Executor{
		engine: engine,
		logger: slog.Default().With("component", "query-executor"),
	}
}

// Execute ranks the pages for a single keyword. A keyword that was never
// indexed yields an empty result, not an error.
func (e *Executor) Execute(ctx context.Context, query string, limit int) (*SearchResult, error) {
	keyword := strings.TrimSpace(query)
	res, err := e.engine.Query(keyword, limit)
	if err != nil && !errors.Is(err, apperrors.ErrTermNotFound) {
		return nil, err
	}

	result := &SearchResult{
		Query:      query,
		Term:       res.Term,
		TotalDocs:  res.Total,
		Results:    make([]Result, 0, len(res.Hits)),
		Sites:      res.Sites,
		Generation: res.Generation,
	}
	for _, hit := range res.Hits {
		result.Results = append(result.Results, Result{
			URL:   hit.Page.URL(),
			Host:  hit.Page.Host(),
			Count: hit.Count,
		})
	}

	e.logger.Debug("query executed",
		"query", query,
		"term", res.Term,
		"total_docs", res.Total,
		"results", len(result.Results),
		"generation", res.Generation,
	)
	return result, nil
}
