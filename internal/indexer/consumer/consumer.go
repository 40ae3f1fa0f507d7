// Package consumer feeds pages into the indexer engine, either from page
// events read off Kafka or directly from the HTTP ingestion handler when the
// search service runs without Kafka.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/ingestion"
	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/kafka"
)

// HandleMessage returns a Kafka MessageHandler that indexes every page event.
// Events that can never be indexed (undecodable, duplicate or malformed URL)
// are logged and committed.
func HandleMessage(engine *indexer.Engine) kafka.MessageHandler {
	logger := slog.Default().With("component", "index-consumer")
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[ingestion.PageEvent](value)
		if err != nil {
			logger.Error("failed to decode page event",
				"error", err,
				"key", string(key),
			)
			return nil
		}
		page, err := engine.IndexPage(event.URL, event.Content)
		switch {
		case errors.Is(err, apperrors.ErrPageExists):
			logger.Debug("page already indexed", "url", event.URL)
			return nil
		case err != nil && apperrors.HTTPStatusCode(err) < 500:
			logger.Warn("dropping page event", "url", event.URL, "error", err)
			return nil
		case err != nil:
			return fmt.Errorf("indexing page %s: %w", event.URL, err)
		}
		logger.Info("page indexed",
			"url", page.URL(),
			"host", page.Host(),
			"ingested_at", event.IngestedAt,
		)
		return nil
	}
}

// Direct indexes ingestion requests synchronously.
type Direct struct {
	engine *indexer.Engine
}

func NewDirect(engine *indexer.Engine) *Direct {
	return &Direct{engine: engine}
}

func (d *Direct) Ingest(_ context.Context, req *ingestion.IngestRequest) (*ingestion.IngestResponse, error) {
	page, err := d.engine.IndexPage(req.URL, req.Content)
	if err != nil {
		return nil, err
	}
	return &ingestion.IngestResponse{
		URL:    page.URL(),
		Host:   page.Host(),
		Status: ingestion.StatusIndexed,
	}, nil
}
