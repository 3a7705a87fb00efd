package services

import (
	"context"
	"errors"

	"github.com/diewo77/devconnect/internal/apperr"
	"github.com/diewo77/devconnect/internal/metrics"
	"github.com/diewo77/devconnect/internal/store"
)

// MaxWriteAttempts bounds the read-modify-write loop on version conflicts.
const MaxWriteAttempts = 3

// retryOnConflict runs attempt until it stops failing with store.ErrConflict
// or MaxWriteAttempts is reached. Each attempt must re-read the document.
func retryOnConflict(ctx context.Context, resource string, attempt func() error) error {
	var err error
	for i := 1; i <= MaxWriteAttempts; i++ {
		if err = ctx.Err(); err != nil {
			return apperr.Internal(err)
		}
		err = attempt()
		if !errors.Is(err, store.ErrConflict) {
			return err
		}
		metrics.RecordVersionConflict(resource, i < MaxWriteAttempts)
	}
	return apperr.Conflict("The "+resource+" was modified concurrently, please retry", err)
}

// storeErr turns a store failure into an apperr. ErrNotFound becomes a
// NotFound with msg; apperr values pass through; anything else is Internal.
func storeErr(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(notFoundMsg)
	}
	return apperr.Internal(err)
}
