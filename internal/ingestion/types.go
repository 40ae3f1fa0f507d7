// Package ingestion defines the page types, request/response bodies and Kafka
// event schema used by the page ingestion pipeline.
package ingestion

import (
	"context"
	"strings"
	"time"
)

// Page is one web page as handed to the indexer: its URL (host followed by
// the path, no scheme) and its text content.
type Page struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Source yields pages to index. Pages calls fn once per page, in a stable
// order, and stops at the first error fn returns.
type Source interface {
	Pages(ctx context.Context, fn func(Page) error) error
}

// IngestRequest is the JSON body accepted by the ingestion HTTP endpoint.
type IngestRequest struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// IngestResponse is returned to the caller after a page is accepted.
type IngestResponse struct {
	URL    string `json:"url"`
	Host   string `json:"host"`
	Status string `json:"status"`
}

// Statuses reported in IngestResponse.
const (
	StatusQueued  = "QUEUED"
	StatusStored  = "STORED"
	StatusIndexed = "INDEXED"
)

// PageEvent is the Kafka message payload produced after a page is accepted
// and ready for indexing.
type PageEvent struct {
	URL        string    `json:"url"`
	Content    string    `json:"content"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Host returns the first path segment of url.
func Host(url string) string {
	host, _, _ := strings.Cut(url, "/")
	return host
}
