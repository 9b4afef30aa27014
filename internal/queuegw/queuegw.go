// Package queuegw implements the Queue Gateway (spec §4.2): a thin
// abstraction over a managed queue service supporting send, receive-one
// with visibility timeout and long-poll, delete-by-receipt, and
// approximate-depth. Every operation except delete goes through the Retry
// Harness; a failed delete is left for the message to reappear and be
// reprocessed (spec §4.2).
package queuegw

import (
	"context"
	"encoding/json"
	"time"

	"github.com/riverflow-io/riverflow/internal/obslog"
	"github.com/riverflow-io/riverflow/internal/retry"
)

// Message is one queue message: its decoded body and the opaque token
// needed to delete it once processed.
type Message struct {
	Body    string
	Receipt string
}

// Backend is the raw operation set a concrete queue implementation (SQS,
// or an in-memory fake) must provide. Gateway wraps a Backend with the
// retry harness and JSON encoding/decoding.
type Backend interface {
	Send(ctx context.Context, queue string, body string) error
	ReceiveOne(ctx context.Context, queue string, visibilityTimeout, waitTime time.Duration) (*Message, error)
	Delete(ctx context.Context, queue string, receipt string) error
	ApproximateDepth(ctx context.Context, queue string) (int, error)
}

// Gateway is the spec-facing Queue Gateway.
type Gateway struct {
	backend Backend
	log     *obslog.Logger
}

// New wraps a Backend with retry and logging.
func New(backend Backend) *Gateway {
	return &Gateway{backend: backend, log: obslog.For("queue-gateway")}
}

// Send marshals payload as JSON and sends it to queue, retried.
func (g *Gateway) Send(ctx context.Context, queue string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return retry.Do(ctx, g.log, "send:"+queue, func(ctx context.Context) error {
		return g.backend.Send(ctx, queue, string(body))
	})
}

// ReceiveOne receives a single message, retried. A nil, nil result means
// the long-poll elapsed with no message available — that is not an error
// (spec §4.2).
func (g *Gateway) ReceiveOne(ctx context.Context, queue string, visibilityTimeout, waitTime time.Duration) (*Message, error) {
	var msg *Message
	err := retry.Do(ctx, g.log, "receive:"+queue, func(ctx context.Context) error {
		m, err := g.backend.ReceiveOne(ctx, queue, visibilityTimeout, waitTime)
		if err != nil {
			return err
		}
		msg = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// Delete removes a message by its receipt token. Not retried: if it fails
// the message simply reappears after its visibility timeout expires and
// is reprocessed, which is the intended recovery (spec §4.2).
func (g *Gateway) Delete(ctx context.Context, queue string, receipt string) error {
	return g.backend.Delete(ctx, queue, receipt)
}

// ApproximateDepth returns the queue's approximate message count, retried.
func (g *Gateway) ApproximateDepth(ctx context.Context, queue string) (int, error) {
	var depth int
	err := retry.Do(ctx, g.log, "depth:"+queue, func(ctx context.Context) error {
		d, err := g.backend.ApproximateDepth(ctx, queue)
		if err != nil {
			return err
		}
		depth = d
		return nil
	})
	if err != nil {
		return 0, err
	}
	return depth, nil
}
