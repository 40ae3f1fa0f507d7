//go:build integration

package store

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/postgres"
)

// Run with:
//
//	go test -tags=integration ./internal/ingestion/store/...
func skipIfNoPostgres(t *testing.T) *postgres.Client {
	t.Helper()
	port, err := strconv.Atoi(envOrDefault("TEST_POSTGRES_PORT", "5432"))
	require.NoError(t, err)
	cfg := config.PostgresConfig{
		Host:            envOrDefault("TEST_POSTGRES_HOST", "localhost"),
		Port:            port,
		Database:        envOrDefault("TEST_POSTGRES_DB", "radixsearch_test"),
		User:            envOrDefault("TEST_POSTGRES_USER", "radixsearch"),
		Password:        envOrDefault("TEST_POSTGRES_PASSWORD", "localdev"),
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, cfg)
	if err != nil {
		t.Skipf("skipping integration test: postgres unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func TestPagesRoundTrip(t *testing.T) {
	db := skipIfNoPostgres(t)
	ctx := context.Background()
	s := NewPages(db)
	require.NoError(t, s.Migrate(ctx))
	_, err := db.DB.ExecContext(ctx, `TRUNCATE pages`)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, ingestion.Page{URL: "a.com/index.html", Content: "alpha"}))
	require.NoError(t, s.Save(ctx, ingestion.Page{URL: "b.com/index.html", Content: "beta"}))

	err = s.Save(ctx, ingestion.Page{URL: "a.com/index.html", Content: "again"})
	assert.ErrorIs(t, err, apperrors.ErrPageExists)

	got, err := s.Get(ctx, "b.com/index.html")
	require.NoError(t, err)
	assert.Equal(t, "beta", got.Content)

	_, err = s.Get(ctx, "c.com/index.html")
	assert.ErrorIs(t, err, apperrors.ErrPageNotFound)

	var urls []string
	require.NoError(t, s.Pages(ctx, func(p ingestion.Page) error {
		urls = append(urls, p.URL)
		return nil
	}))
	assert.Equal(t, []string{"a.com/index.html", "b.com/index.html"}, urls)
}
