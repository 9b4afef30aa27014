// Package dispatch implements Dispatching (spec §4.9): turning an
// InvocationPlan into direct worker invocations (local) and Invoker
// invocations (remote), fanned out with bounded concurrency. Individual
// invocation errors are logged and aggregated, never short-circuiting
// the remaining dispatches — the coordinator and invoker pipelines keep
// running even when some invocations fail.
package dispatch

import (
	"context"
	"sync"

	"github.com/riverflow-io/riverflow/internal/invokegw"
	"github.com/riverflow-io/riverflow/internal/obslog"
	"github.com/riverflow-io/riverflow/internal/resourcemap"
	"github.com/riverflow-io/riverflow/internal/wfcore"
)

// Dispatcher issues the direct and Invoker invocations an InvocationPlan
// calls for.
type Dispatcher struct {
	Invokes  *invokegw.Gateway
	Resolver *resourcemap.Resolver
	log      *obslog.Logger
}

// New builds a Dispatcher.
func New(invokes *invokegw.Gateway, resolver *resourcemap.Resolver) *Dispatcher {
	return &Dispatcher{Invokes: invokes, Resolver: resolver, log: obslog.For("dispatcher")}
}

// Dispatch issues every invocation plan calls for, capped at
// maxApiConcurrency concurrent API calls (spec §4.9). It returns the
// first error encountered, after every invocation has been attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, plan wfcore.InvocationPlan, maxApiConcurrency int) error {
	jobs := d.jobs(ctx, plan)
	if len(jobs) == 0 {
		return nil
	}
	if maxApiConcurrency < 1 {
		maxApiConcurrency = 1
	}

	sem := make(chan struct{}, maxApiConcurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, job := range jobs {
		job := job
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := job(); err != nil {
				d.log.WarnErr("dispatch invocation failed", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return firstErr
}

// jobs flattens a plan into one closure per individual invocation: one
// job per local unit of count (payload is empty, per spec §6), and one
// job per remote bin (payload {components: bin}, invoking the Invoker).
func (d *Dispatcher) jobs(ctx context.Context, plan wfcore.InvocationPlan) []func() error {
	var jobs []func() error

	for _, ic := range plan.Local {
		ic := ic
		for i := 0; i < ic.Count; i++ {
			jobs = append(jobs, func() error {
				fn, err := d.Resolver.Function(ic.Component)
				if err != nil {
					return err
				}
				return d.Invokes.InvokeAsync(ctx, fn, map[string]any{})
			})
		}
	}

	for _, bin := range plan.Remote {
		bin := bin
		jobs = append(jobs, func() error {
			fn, err := d.Resolver.Function(wfcore.InvokerName)
			if err != nil {
				return err
			}
			return d.Invokes.InvokeAsync(ctx, fn, binPayload(bin))
		})
	}

	return jobs
}

func binPayload(bin []wfcore.InvocationCount) map[string]any {
	components := make([]map[string]any, 0, len(bin))
	for _, ic := range bin {
		components = append(components, map[string]any{"name": ic.Component, "count": ic.Count})
	}
	return map[string]any{"components": components}
}
