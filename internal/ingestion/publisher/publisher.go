// Package publisher stores accepted pages in PostgreSQL and publishes page
// events to Kafka for the search service to index. Events are keyed by host
// so that the pages of one site stay on one partition.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/ingestion"
	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/resilience"
)

// PageStore persists raw pages.
type PageStore interface {
	Save(ctx context.Context, page ingestion.Page) error
}

// EventPublisher writes one event to the page topic.
type EventPublisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// Publisher coordinates page persistence and Kafka event production.
type Publisher struct {
	store    PageStore
	producer EventPublisher
	retry    resilience.RetryConfig
	breaker  *resilience.Breaker
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New creates a Publisher. store and m may be nil.
func New(store PageStore, producer EventPublisher, m *metrics.Metrics) *Publisher {
	return &Publisher{
		store:    store,
		producer: producer,
		retry: resilience.RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
		},
		breaker: resilience.NewBreaker("kafka-publish", 5, 30*time.Second),
		timeout: 5 * time.Second,
		metrics: m,
		logger:  slog.Default().With("component", "publisher"),
	}
}

// Ingest stores the page, when a store is configured, and publishes a
// PageEvent. A page that was stored but could not be published is reported
// as STORED: the search service picks it up on its next bootstrap.
func (p *Publisher) Ingest(ctx context.Context, req *ingestion.IngestRequest) (*ingestion.IngestResponse, error) {
	page := ingestion.Page{URL: req.URL, Content: req.Content}
	resp := &ingestion.IngestResponse{
		URL:    req.URL,
		Host:   ingestion.Host(req.URL),
		Status: ingestion.StatusQueued,
	}
	if p.store != nil {
		if err := p.store.Save(ctx, page); err != nil {
			return nil, fmt.Errorf("storing page: %w", err)
		}
	}

	event := kafka.Event{
		Key: resp.Host,
		Value: ingestion.PageEvent{
			URL:        page.URL,
			Content:    page.Content,
			IngestedAt: time.Now().UTC(),
		},
	}
	err := resilience.Retry(ctx, "publish-page", p.retry, func() error {
		err := p.breaker.Do(func() error {
			return resilience.WithTimeout(ctx, p.timeout, "publish-page", func(ctx context.Context) error {
				return p.producer.Publish(ctx, event)
			})
		})
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return resilience.Permanent(err)
		}
		return err
	})
	if err != nil {
		p.observe("failed")
		if p.store == nil {
			return nil, apperrors.Newf(apperrors.ErrInternal, 503, "publishing %s: %v", page.URL, err)
		}
		p.logger.Error("failed to publish page event, page stays stored only",
			"url", page.URL,
			"error", err,
		)
		resp.Status = ingestion.StatusStored
		return resp, nil
	}
	p.observe("published")
	return resp, nil
}

func (p *Publisher) observe(status string) {
	if p.metrics != nil {
		p.metrics.PagesPublishedTotal.WithLabelValues(status).Inc()
	}
}
