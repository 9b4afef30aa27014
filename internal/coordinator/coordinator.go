// Package coordinator implements the Coordinator (spec §4.7): a
// self-chaining control loop that on each invocation measures the
// application's queue depths and live-worker counts, computes an
// invocation plan, dispatches it, sleeps out the remainder of its
// interval, and invokes its own successor to keep the loop running.
package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/riverflow-io/riverflow/internal/dispatch"
	"github.com/riverflow-io/riverflow/internal/invokegw"
	"github.com/riverflow-io/riverflow/internal/ledger"
	"github.com/riverflow-io/riverflow/internal/objectgw"
	"github.com/riverflow-io/riverflow/internal/obslog"
	"github.com/riverflow-io/riverflow/internal/planner"
	"github.com/riverflow-io/riverflow/internal/queuegw"
	"github.com/riverflow-io/riverflow/internal/resourcemap"
	"github.com/riverflow-io/riverflow/internal/wfcore"
)

// deadlineTail is the platform time budget reserved from the coordinator's
// sleep-to-interval step (spec §4.7 step 6).
const deadlineTail = 5 * time.Second

// DoneFunc is the coordinator's original lifecycle context, reduced to
// the single completion channel spec §4.7 step 8 actually uses.
type DoneFunc func(err error, status wfcore.ApplicationStatus)

// Coordinator holds everything needed to run one pass; a fresh instance
// (or a reused one, in this in-process simulation) rebuilds its
// ResourceMap-derived state on every Run call, since the design assumes
// no cross-invocation state survives between coordinator invocations
// (spec §5, "Shared resources").
type Coordinator struct {
	ResourceLoader *resourcemap.Loader
	ResourceMapKey string
	ConfirmationKey string

	Components map[string]wfcore.Component // includes CoordinatorName/InvokerName as Kind=Internal

	Queues  *queuegw.Gateway
	Objects *objectgw.Gateway
	Invokes *invokegw.Gateway

	CoordinatorConcurrency int
	MaxApiConcurrency      int
	MaxInvocationCount     int
	MinInterval            time.Duration

	// now and sleep are overridable for tests; they default to time.Now
	// and time.Sleep.
	now   func() time.Time
	sleep func(time.Duration)

	log *obslog.Logger
}

// New builds a Coordinator with production time behavior.
func New(loader *resourcemap.Loader, resourceMapKey, confirmationKey string, components map[string]wfcore.Component, queues *queuegw.Gateway, objects *objectgw.Gateway, invokes *invokegw.Gateway, coordinatorConcurrency, maxApiConcurrency, maxInvocationCount int, minInterval time.Duration) *Coordinator {
	return &Coordinator{
		ResourceLoader:         loader,
		ResourceMapKey:         resourceMapKey,
		ConfirmationKey:        confirmationKey,
		Components:             components,
		Queues:                 queues,
		Objects:                objects,
		Invokes:                invokes,
		CoordinatorConcurrency: coordinatorConcurrency,
		MaxApiConcurrency:      maxApiConcurrency,
		MaxInvocationCount:     maxInvocationCount,
		MinInterval:            minInterval,
		now:                    time.Now,
		sleep:                  time.Sleep,
		log:                    obslog.For("coordinator"),
	}
}

// Run executes one coordinator pass (spec §4.7's eight-step pipeline).
func (c *Coordinator) Run(ctx context.Context, event wfcore.CoordinatorEvent, done DoneFunc) {
	start := c.now()
	current := event.Generation

	// Step 1: fatal, no ledger touch, short-circuits everything.
	rm, err := c.ResourceLoader.Load(ctx, c.ResourceMapKey)
	if err != nil {
		done(fmt.Errorf("coordinator entry: %w", err), wfcore.ApplicationStatus{})
		return
	}
	resolver := resourcemap.NewResolver(rm)
	ldgr := ledger.New(c.Queues, resolver.LedgerQueue)
	dispatcher := dispatch.New(c.Invokes, resolver)

	// Step 2: fatal-class but non-short-circuiting (spec §7: "from the
	// increment step onward, every subsequent step runs").
	var pipelineErr error
	if err := ldgr.Increment(ctx, wfcore.CoordinatorName); err != nil {
		c.log.WarnErr("coordinator ledger increment failed", err)
		pipelineErr = err
	}
	incremented := pipelineErr == nil

	// Step 3: measure.
	status := c.measure(ctx, ldgr, resolver)

	// Step 4: ensure redundancy, skipped at generation 1.
	if current != 1 {
		c.ensureRedundancy(ctx, resolver, status, event)
	}

	// Step 5: plan + dispatch.
	plan := planner.Split(status, c.Components, c.CoordinatorConcurrency, c.MaxInvocationCount)
	if err := dispatcher.Dispatch(ctx, plan, c.MaxApiConcurrency); err != nil {
		c.log.WarnErr("coordinator dispatch had failures", err)
	}

	// Step 6: sleep to interval, reserving the deadline tail.
	c.sleepToInterval(ctx, start)

	// Step 7: decrement, skipped if increment failed.
	if incremented {
		if err := ldgr.Decrement(ctx, wfcore.CoordinatorName, wfcore.MaxTimeoutSeconds*time.Second, 0); err != nil {
			c.log.WarnErr("coordinator ledger decrement failed", err)
		}
	}

	// Step 8: chain.
	selfFn, err := resolver.Function(wfcore.CoordinatorName)
	var chainErr error
	if err != nil {
		chainErr = err
	} else {
		chainErr = c.Invokes.InvokeAsync(ctx, selfFn, wfcore.CoordinatorEvent{Generation: current + 1})
	}
	if chainErr != nil {
		chainErr = fmt.Errorf("%w: %w", wfcore.ErrChainInvocationFailed, chainErr)
		c.log.ErrorErr("coordinator self-chain failed", chainErr)
	}
	if pipelineErr == nil {
		pipelineErr = chainErr
	}

	if current == 1 && pipelineErr == nil {
		if err := c.Objects.PutText(ctx, c.ConfirmationKey, "ok", "text/plain"); err != nil {
			c.log.WarnErr("writing confirmation artifact failed", err)
		}
	}

	done(pipelineErr, status)
}

func (c *Coordinator) measure(ctx context.Context, ldgr *ledger.Ledger, resolver *resourcemap.Resolver) wfcore.ApplicationStatus {
	status := wfcore.ApplicationStatus{Components: make(map[string]wfcore.ComponentStatus, len(c.Components))}
	for name, comp := range c.Components {
		var cs wfcore.ComponentStatus
		if concurrency, err := ldgr.ApproximateConcurrency(ctx, name); err != nil {
			c.log.WarnErr("measuring concurrency for "+name, err)
		} else {
			cs.Concurrency = &concurrency
		}
		if comp.Kind == wfcore.KindFromMessage {
			if queue, err := resolver.InputQueue(name); err != nil {
				c.log.WarnErr("resolving input queue for "+name, err)
			} else if depth, err := c.Queues.ApproximateDepth(ctx, queue); err != nil {
				c.log.WarnErr("measuring queue depth for "+name, err)
			} else {
				cs.QueuedMessages = &depth
			}
		}
		status.Components[name] = cs
	}
	return status
}

func (c *Coordinator) ensureRedundancy(ctx context.Context, resolver *resourcemap.Resolver, status wfcore.ApplicationStatus, event wfcore.CoordinatorEvent) {
	observed := status.Components[wfcore.CoordinatorName].Concurrency
	if observed == nil || *observed >= c.CoordinatorConcurrency {
		return
	}
	need := c.CoordinatorConcurrency - *observed
	selfFn, err := resolver.Function(wfcore.CoordinatorName)
	if err != nil {
		c.log.WarnErr("resolving coordinator function for redundancy", err)
		return
	}
	for i := 0; i < need; i++ {
		if err := c.Invokes.InvokeAsync(ctx, selfFn, event); err != nil {
			c.log.WarnErr("coordinator redundancy invocation failed", err)
		}
	}
}

func (c *Coordinator) sleepToInterval(ctx context.Context, start time.Time) {
	elapsed := c.now().Sub(start)
	sleepFor := c.MinInterval - elapsed
	if sleepFor < 0 {
		sleepFor = 0
	}
	if deadline, ok := ctx.Deadline(); ok {
		budget := deadline.Sub(c.now()) - deadlineTail
		if budget < 0 {
			budget = 0
		}
		if sleepFor > budget {
			sleepFor = budget
		}
	}
	if sleepFor > 0 {
		c.sleep(sleepFor)
	}
}
