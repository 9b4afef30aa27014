// Package retry implements the bounded Retry Harness (spec §4.1): run an
// asynchronous operation, retry up to a fixed total of attempts on
// failure, logging once between attempts, surfacing the last error on
// exhaustion. Per spec §5 this intentionally has no jitter or backoff —
// the platform's own throttling already provides global backoff and call
// volumes are low.
package retry

import (
	"context"

	"github.com/riverflow-io/riverflow/internal/obslog"
)

// MaxAttempts is the fixed total number of attempts (spec §4.1: "up to a
// fixed total of 3 attempts").
const MaxAttempts = 3

// Op is a retryable asynchronous operation.
type Op func(ctx context.Context) error

// Do runs op, retrying on failure up to MaxAttempts total attempts. label
// identifies the operation in the failure log between attempts. The
// number of attempts taken is not propagated to the caller (spec §4.1) —
// only the final success/failure matters.
func Do(ctx context.Context, log *obslog.Logger, label string, op Op) error {
	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt < MaxAttempts {
			log.WarnErr("retrying "+label, lastErr)
		}
	}
	return lastErr
}
