// Package ledger implements the Concurrency Ledger (spec §4.4): increment
// and decrement operations against a per-component queue whose
// approximate depth stands in for the live-worker count (spec §9,
// "Approximate concurrency via queue depth").
package ledger

import (
	"context"
	"time"

	"github.com/riverflow-io/riverflow/internal/obslog"
	"github.com/riverflow-io/riverflow/internal/queuegw"
)

// QueueNameFunc resolves a component name to its ledger queue identifier,
// normally backed by the ResourceMap.
type QueueNameFunc func(component string) (string, error)

// Ledger is the spec-facing Concurrency Ledger.
type Ledger struct {
	gw         *queuegw.Gateway
	queueNamer QueueNameFunc
	log        *obslog.Logger
}

// New builds a Ledger over the given Queue Gateway.
func New(gw *queuegw.Gateway, queueNamer QueueNameFunc) *Ledger {
	return &Ledger{gw: gw, queueNamer: queueNamer, log: obslog.For("ledger")}
}

// Increment sends an empty message to component's ledger queue, retried
// by the underlying Queue Gateway. An increment failure is logged by the
// caller (spec §4.5.4: logged, does not abort the worker) — this method
// just returns the error so the wrapper can record whether it succeeded.
func (l *Ledger) Increment(ctx context.Context, component string) error {
	queue, err := l.queueNamer(component)
	if err != nil {
		return err
	}
	return l.gw.Send(ctx, queue, map[string]any{})
}

// Decrement receives one message from component's ledger queue with the
// given long-poll wait and visibility timeout (which must be strictly
// positive per spec §4.4 — a zero value causes silent delete failures)
// and deletes it if one arrives. Absence of a message after the long-poll
// is a soft error: logged here and reported as success to the caller
// (spec §9 open question (b)).
func (l *Ledger) Decrement(ctx context.Context, component string, visibilityTimeout, waitTime time.Duration) error {
	queue, err := l.queueNamer(component)
	if err != nil {
		return err
	}
	msg, err := l.gw.ReceiveOne(ctx, queue, visibilityTimeout, waitTime)
	if err != nil {
		return err
	}
	if msg == nil {
		l.log.With(obslog.Fields{"component": component}).Warn("ledger decrement found no message")
		return nil
	}
	return l.gw.Delete(ctx, queue, msg.Receipt)
}

// ApproximateConcurrency returns component's current approximate
// concurrency, i.e. its ledger queue's approximate depth.
func (l *Ledger) ApproximateConcurrency(ctx context.Context, component string) (int, error) {
	queue, err := l.queueNamer(component)
	if err != nil {
		return 0, err
	}
	return l.gw.ApproximateDepth(ctx, queue)
}
