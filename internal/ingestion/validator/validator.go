// Package validator provides input validation for ingestion requests. It
// enforces URL shape and content length constraints and returns per-field
// error details.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/ingestion"
	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
)

const (
	maxURLLength     = 2048
	maxContentLength = 1048576
)

// ValidationError holds per-field validation failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s:%s", field, msg))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// ValidateIngestRequest checks that the URL names a page below a host and
// that the content fits the size limit.
func ValidateIngestRequest(req *ingestion.IngestRequest) error {
	errs := make(map[string]string)

	if msg := checkURL(req.URL); msg != "" {
		errs["url"] = msg
	}
	if len(req.Content) > maxContentLength {
		errs["content"] = fmt.Sprintf("content must be at most %d bytes", maxContentLength)
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func checkURL(url string) string {
	switch {
	case strings.TrimSpace(url) == "":
		return "url is required"
	case len(url) > maxURLLength:
		return fmt.Sprintf("url must be at most %d characters", maxURLLength)
	case strings.Contains(url, "://"):
		return "url must not carry a scheme"
	case strings.ContainsAny(url, "\x00 \t\r\n"):
		return "url must not contain whitespace or NUL bytes"
	}
	segments := strings.Split(url, "/")
	if len(segments) < 2 {
		return "url must be host/path"
	}
	for _, seg := range segments {
		if seg == "" {
			return "url must not contain empty path segments"
		}
	}
	return ""
}
