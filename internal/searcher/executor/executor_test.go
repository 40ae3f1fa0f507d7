package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/radix-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
)

func newExecutor(t *testing.T) (*Executor, *indexer.Engine) {
	t.Helper()
	e, err := indexer.NewEngine(config.IndexerConfig{}, nil)
	require.NoError(t, err)
	for _, p := range []struct{ url, content string }{
		{"www.unisa.it/index.html", "ingegneria ingegneria"},
		{"www.unina.it/index.html", "ingegneria"},
		{"www.unisa.it/diem/index.html", "ingegneria ingegneria ingegneria"},
	} {
		_, err := e.IndexPage(p.url, p.content)
		require.NoError(t, err)
	}
	return New(e), e
}

func TestExecute(t *testing.T) {
	ex, _ := newExecutor(t)

	res, err := ex.Execute(context.Background(), " ingegneria ", 2)
	require.NoError(t, err)
	assert.Equal(t, "ingegneria", res.Term)
	assert.Equal(t, 3, res.TotalDocs)
	assert.Equal(t, uint64(3), res.Generation)
	assert.Equal(t, []Result{
		{URL: "www.unisa.it/diem/index.html", Host: "www.unisa.it", Count: 3},
		{URL: "www.unisa.it/index.html", Host: "www.unisa.it", Count: 2},
	}, res.Results)
	assert.Equal(t, "www.unisa.it\n--- diem\n------ index.html\n--- index.html", res.Sites)
}

func TestExecuteMiss(t *testing.T) {
	ex, _ := newExecutor(t)

	res, err := ex.Execute(context.Background(), "architettura", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalDocs)
	assert.NotNil(t, res.Results)
	assert.Empty(t, res.Results)
	assert.Equal(t, "", res.Sites)
	assert.Equal(t, "architettura", res.Term)
	assert.Equal(t, uint64(3), res.Generation)
}

func TestExecuteInvalidTerm(t *testing.T) {
	ex, _ := newExecutor(t)

	_, err := ex.Execute(context.Background(), "bad\x00term", 5)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTerm)
}
