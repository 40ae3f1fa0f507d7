package resilience

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
)

// WithTimeout runs fn with a context cancelled after timeout. An error caused
// by that deadline, and not by ctx itself, is reported as ErrTimeout.
func WithTimeout(ctx context.Context, timeout time.Duration, name string, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := fn(tctx)
	if err != nil && ctx.Err() == nil && errors.Is(tctx.Err(), context.DeadlineExceeded) {
		return apperrors.Newf(apperrors.ErrTimeout, 503, "%s exceeded %v: %v", name, timeout, err)
	}
	return err
}
