// Package invoker implements the Invoker (spec §4.10): a pure fan-out
// amplifier that runs the same dispatch logic as the Coordinator against
// whatever bin of invocation counts it was handed. Every count in the bin
// is issued as direct worker invocations; a bin is not split again and no
// further Invoker calls are made, however large it is.
package invoker

import (
	"context"
	"fmt"
	"time"

	"github.com/riverflow-io/riverflow/internal/dispatch"
	"github.com/riverflow-io/riverflow/internal/invokegw"
	"github.com/riverflow-io/riverflow/internal/ledger"
	"github.com/riverflow-io/riverflow/internal/obslog"
	"github.com/riverflow-io/riverflow/internal/queuegw"
	"github.com/riverflow-io/riverflow/internal/resourcemap"
	"github.com/riverflow-io/riverflow/internal/wfcore"
)

// Event is the Invoker's invocation payload (spec §6: "for Invoker:
// {components: [{name, count}, ...]}").
type Event struct {
	Components []wfcore.InvocationCount `json:"components"`
}

// DoneFunc is the Invoker's original lifecycle context, reduced to its
// one completion channel.
type DoneFunc func(err error, components []wfcore.InvocationCount)

// Invoker fans an Event's component counts out to direct worker
// invocations, exactly like the Coordinator's own dispatch step, minus
// the measurement/planning/sleep/chain steps that only apply to the
// Coordinator.
type Invoker struct {
	ResourceLoader *resourcemap.Loader
	ResourceMapKey string

	Queues  *queuegw.Gateway
	Invokes *invokegw.Gateway

	MaxApiConcurrency int

	log *obslog.Logger
}

// New builds an Invoker.
func New(loader *resourcemap.Loader, resourceMapKey string, queues *queuegw.Gateway, invokes *invokegw.Gateway, maxApiConcurrency int) *Invoker {
	return &Invoker{
		ResourceLoader:    loader,
		ResourceMapKey:    resourceMapKey,
		Queues:            queues,
		Invokes:           invokes,
		MaxApiConcurrency: maxApiConcurrency,
		log:               obslog.For("invoker"),
	}
}

// Run executes one Invoker pass (spec §4.10).
func (v *Invoker) Run(ctx context.Context, event Event, done DoneFunc) {
	rm, err := v.ResourceLoader.Load(ctx, v.ResourceMapKey)
	if err != nil {
		done(fmt.Errorf("invoker entry: %w", err), nil)
		return
	}
	resolver := resourcemap.NewResolver(rm)
	ldgr := ledger.New(v.Queues, resolver.LedgerQueue)
	dispatcher := dispatch.New(v.Invokes, resolver)

	if err := ldgr.Increment(ctx, wfcore.InvokerName); err != nil {
		v.log.WarnErr("invoker ledger increment failed", err)
	}

	plan := wfcore.InvocationPlan{Local: event.Components}
	dispatchErr := dispatcher.Dispatch(ctx, plan, v.MaxApiConcurrency)
	if dispatchErr != nil {
		v.log.WarnErr("invoker dispatch had failures", dispatchErr)
	}

	if err := ldgr.Decrement(ctx, wfcore.InvokerName, wfcore.MaxTimeoutSeconds*time.Second, 0); err != nil {
		v.log.WarnErr("invoker ledger decrement failed", err)
	}

	done(dispatchErr, event.Components)
}
