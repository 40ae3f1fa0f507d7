// Package store keeps the raw pages accepted by the ingestion service in
// PostgreSQL so that a restarted search service can rebuild its index.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/ingestion"
	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	url        TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// uniqueViolation is the PostgreSQL SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// Pages is the pages table.
type Pages struct {
	db     *postgres.Client
	logger *slog.Logger
}

func NewPages(db *postgres.Client) *Pages {
	return &Pages{
		db:     db,
		logger: slog.Default().With("component", "page-store"),
	}
}

func (s *Pages) Name() string { return "postgres" }

// Migrate creates the pages table if it does not exist.
func (s *Pages) Migrate(ctx context.Context) error {
	if _, err := s.db.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating pages table: %w", err)
	}
	return nil
}

// Save inserts a page. Saving a url twice fails with ErrPageExists.
func (s *Pages) Save(ctx context.Context, page ingestion.Page) error {
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO pages (url, content) VALUES ($1, $2)`,
			page.URL, page.Content)
		return err
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperrors.Newf(apperrors.ErrPageExists, 409, "%s is already stored", page.URL)
		}
		return fmt.Errorf("saving page %s: %w", page.URL, err)
	}
	return nil
}

// Get returns the stored page at url.
func (s *Pages) Get(ctx context.Context, url string) (ingestion.Page, error) {
	page := ingestion.Page{URL: url}
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT content FROM pages WHERE url = $1`, url).Scan(&page.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return ingestion.Page{}, fmt.Errorf("%s: %w", url, apperrors.ErrPageNotFound)
	}
	if err != nil {
		return ingestion.Page{}, fmt.Errorf("loading page %s: %w", url, err)
	}
	return page, nil
}

// Pages streams every stored page to fn in insertion order.
func (s *Pages) Pages(ctx context.Context, fn func(ingestion.Page) error) error {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT url, content FROM pages ORDER BY created_at, url`)
	if err != nil {
		return fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var p ingestion.Page
		if err := rows.Scan(&p.URL, &p.Content); err != nil {
			return fmt.Errorf("scanning page row: %w", err)
		}
		if err := fn(p); err != nil {
			return err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating pages: %w", err)
	}
	s.logger.Info("stored pages read", "count", count)
	return nil
}
