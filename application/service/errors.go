// Package service wires the domain into the two user-facing operations:
// rating prediction and similarity search.
package service

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmbedderUnavailable indicates the embedding provider failed. The
// request can be retried once the provider recovers.
var ErrEmbedderUnavailable = errors.New("embedder unavailable")

// wrapEmbedderError classifies an embedding failure. Context cancellation
// passes through untouched so callers can tell a dead provider from an
// impatient client.
func wrapEmbedderError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrEmbedderUnavailable, err)
}
