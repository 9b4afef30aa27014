// Package wrapper implements the Worker Wrapper (spec §4.5): the shim
// that sits between the platform's raw invocation entry point and a
// user-supplied handler, providing resource-map loading, ledger
// bracketing, input acquisition, and exactly-once finalization (routing,
// input deletion, ledger decrement, and forwarding to the original
// lifecycle context).
package wrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/riverflow-io/riverflow/internal/ledger"
	"github.com/riverflow-io/riverflow/internal/obslog"
	"github.com/riverflow-io/riverflow/internal/queuegw"
	"github.com/riverflow-io/riverflow/internal/resourcemap"
	"github.com/riverflow-io/riverflow/internal/routing"
	"github.com/riverflow-io/riverflow/internal/wfcore"
)

// Handler is the user-supplied worker function. It receives the decoded
// event and a LifecycleContext to report its outcome on; it must call
// exactly one of Done, Fail, or Succeed — extra calls are silently
// dropped and a missing call simply never finalizes (the platform's own
// invocation timeout is the backstop for that case).
type Handler func(ctx context.Context, event map[string]any, lc LifecycleContext)

// Wrapper holds everything one component's worker needs to run the
// entry/finalize pipeline. A fresh Wrapper is built per process (per
// deployed worker), not per invocation — state that is scoped to a
// single invocation lives on wfcore.InvocationContext instead (spec §9).
type Wrapper struct {
	Component  wfcore.Component
	Components map[string]wfcore.Component

	ResourceLoader *resourcemap.Loader
	ResourceMapKey string

	Queues  *queuegw.Gateway
	Ledger  *ledger.Ledger
	Routing *routing.Engine

	// DisableLastResortHandler skips the recover()-based last-resort
	// panic handler, used by tests that want panics to propagate.
	DisableLastResortHandler bool

	log *obslog.Logger
}

// New builds a Wrapper for one component.
func New(component wfcore.Component, components map[string]wfcore.Component, loader *resourcemap.Loader, resourceMapKey string, queues *queuegw.Gateway, ldgr *ledger.Ledger) *Wrapper {
	return &Wrapper{
		Component:      component,
		Components:     components,
		ResourceLoader: loader,
		ResourceMapKey: resourceMapKey,
		Queues:         queues,
		Ledger:         ldgr,
		log:            obslog.For("worker-wrapper"),
	}
}

// Handle runs the full entry/finalize pipeline for one invocation (spec
// §4.5.1-§4.5.4). rawEvent is the raw invocation payload; for
// FromInvocation components it is passed straight to handler, for
// FromMessage components it is ignored and the event is instead received
// from the component's input queue.
func (w *Wrapper) Handle(ctx context.Context, rawEvent map[string]any, handler Handler, original LifecycleContext) {
	// Step 1 (spec §4.5.1): load the resource map. Failure here is fatal
	// and unrecoverable — nothing downstream (routing, ledger, input
	// queues) can be resolved without it, so it is reported directly to
	// the original context rather than through finalize.
	rm, err := w.ResourceLoader.Load(ctx, w.ResourceMapKey)
	if err != nil {
		original.Fail(fmt.Errorf("worker wrapper entry: %w", err))
		return
	}
	resolver := resourcemap.NewResolver(rm)

	ic := wfcore.New(ctx, w.Components, rm)

	// Ledger bracketing (spec §4.5.4): increment before input
	// acquisition. A failed increment is logged and remembered so
	// finalize knows not to decrement.
	if err := w.Ledger.Increment(ctx, w.Component.Name); err != nil {
		w.log.WarnErr("ledger increment failed", err)
		ic.LedgerIncremented = false
	} else {
		ic.LedgerIncremented = true
	}

	// Step 3 (spec §4.5.1): wrap the lifecycle context's three completion
	// channels as guarded forwarders that fire finalize at most once.
	wctx := newGuardedContext(original, func(c completion) {
		w.finalize(ctx, ic, resolver, original, c)
	})

	run := func() {
		event, ferr := w.acquireInput(ctx, ic, resolver, rawEvent)
		if ferr != nil {
			wctx.Fail(ferr)
			return
		}
		handler(ctx, event, wctx)
	}

	if w.DisableLastResortHandler {
		run()
		return
	}

	// Step 2 (spec §4.5.1): register a last-resort handler for an
	// uncaught panic escaping the user handler, so it still drives
	// finalization instead of crashing the process mid-invocation.
	func() {
		defer func() {
			if r := recover(); r != nil {
				wctx.Fail(fmt.Errorf("worker panicked: %v", r))
			}
		}()
		run()
	}()
}

// acquireInput resolves the event a FromInvocation component receives
// verbatim, or receives and decodes one message for a FromMessage
// component (spec §4.5.2). A FromMessage component with no message
// available is wfcore.ErrNoInputMessage, not a silent no-op.
func (w *Wrapper) acquireInput(ctx context.Context, ic *wfcore.InvocationContext, resolver *resourcemap.Resolver, rawEvent map[string]any) (map[string]any, error) {
	if w.Component.Kind != wfcore.KindFromMessage {
		return rawEvent, nil
	}

	queue, err := resolver.InputQueue(w.Component.Name)
	if err != nil {
		return nil, err
	}
	msg, err := w.Queues.ReceiveOne(ctx, queue, w.Component.Timeout(), waitSeconds(w.Component))
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, wfcore.ErrNoInputMessage
	}
	ic.ReceiptToken = msg.Receipt

	var event map[string]any
	if err := json.Unmarshal([]byte(msg.Body), &event); err != nil {
		return nil, fmt.Errorf("decoding input message: %w", err)
	}
	return event, nil
}

// finalize is the exactly-once completion pipeline (spec §4.5.3): route
// the result, delete the input message on success only, decrement the
// ledger unconditionally (if it was incremented), and forward the
// outcome to the original lifecycle context — upgrading a non-failing
// outcome to failed if routing itself errored.
func (w *Wrapper) finalize(ctx context.Context, ic *wfcore.InvocationContext, resolver *resourcemap.Resolver, original LifecycleContext, c completion) {
	var workerErr error
	if c.mode != ModeSucceed {
		workerErr = c.err
	}

	routeErr := w.Routing.Dispatch(ctx, w.Components, w.Component.Routing, workerErr, c.result)
	if routeErr != nil {
		w.log.WarnErr("routing dispatch failed", routeErr)
	}

	succeeded := workerErr == nil && c.mode != ModeFail
	if succeeded && w.Component.Kind == wfcore.KindFromMessage && ic.ReceiptToken != "" {
		if queue, err := resolver.InputQueue(w.Component.Name); err != nil {
			w.log.WarnErr("resolving input queue for delete", err)
		} else if err := w.Queues.Delete(ctx, queue, ic.ReceiptToken); err != nil {
			w.log.WarnErr("deleting input message", err)
		}
	}

	if ic.LedgerIncremented {
		if err := w.Ledger.Decrement(ctx, w.Component.Name, w.Component.Timeout(), waitSeconds(w.Component)); err != nil {
			w.log.WarnErr("ledger decrement failed", err)
		}
	}

	mode, err, result := c.mode, c.err, c.result
	if routeErr != nil && mode != ModeFail {
		mode, err = ModeFail, routeErr
	}

	switch mode {
	case ModeFail:
		original.Fail(err)
	case ModeSucceed:
		original.Succeed(result)
	default:
		original.Done(err, result)
	}
}

func waitSeconds(c wfcore.Component) time.Duration {
	return time.Duration(c.QueueWaitSeconds) * time.Second
}
