package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"term not found", fmt.Errorf("lookup %q: %w", "x", ErrTermNotFound), http.StatusNotFound},
		{"no home page", ErrNoHomePage, http.StatusNotFound},
		{"page exists", fmt.Errorf("wrapped: %w", ErrPageExists), http.StatusConflict},
		{"invalid term", ErrInvalidTerm, http.StatusBadRequest},
		{"invalid url", ErrInvalidURL, http.StatusBadRequest},
		{"not a directory", ErrNotADirectory, http.StatusBadRequest},
		{"timeout", ErrTimeout, http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"app error wins", New(ErrTermNotFound, http.StatusTeapot, "custom"), http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusCode(tt.err))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := Newf(ErrInvalidURL, http.StatusBadRequest, "host %q does not match", "example.org")
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Equal(t, `invalid url: host "example.org" does not match`, err.Error())
}
