// Command workerwrapper is the Lambda entry point for the Worker Wrapper
// (spec §4.5). One deployed function per component reuses this same
// binary; RIVERFLOW_COMPONENT_NAME selects which component (and thus
// which registered handler) this particular deployment wraps, since the
// wrapper's own shape — resource-map load, ledger bracketing, input
// acquisition, finalize-once — is identical across every worker.
package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/riverflow-io/riverflow/examples/sampleworker"
	"github.com/riverflow-io/riverflow/internal/bootstrap"
	"github.com/riverflow-io/riverflow/internal/ledger"
	"github.com/riverflow-io/riverflow/internal/resourcemap"
	"github.com/riverflow-io/riverflow/internal/routing"
	"github.com/riverflow-io/riverflow/internal/wrapper"
)

// registry maps a component's configured worker.handler string to the
// compiled-in Go function that implements it. Every worker shipped in
// this binary must be registered here.
var registry = map[string]wrapper.Handler{
	"sampleworker.Handle": sampleworker.Handle,
}

func main() {
	ctx := context.Background()

	env, err := bootstrap.LoadEnv()
	if err != nil {
		panic(err)
	}
	gw, err := bootstrap.NewGateways(ctx, env.S3Bucket)
	if err != nil {
		panic(err)
	}
	components, _, err := bootstrap.LoadComponents(env.ConfigPath)
	if err != nil {
		panic(err)
	}

	componentName := os.Getenv("RIVERFLOW_COMPONENT_NAME")
	comp, ok := components[componentName]
	if !ok {
		panic(fmt.Errorf("unknown component %q", componentName))
	}
	handler, ok := registry[comp.Worker.Handler]
	if !ok {
		panic(fmt.Errorf("no registered handler %q for component %q", comp.Worker.Handler, componentName))
	}

	// The routing engine resolves its targets against the resource map
	// present at cold start; a fresh deploy recycles the container, so
	// this matches the ResourceMap's own "immutable per deployment"
	// framing (spec §3) closely enough for routing's purposes, even
	// though the wrapper's own entry/finalize path reloads it every call.
	loader := resourcemap.New(gw.Objects)
	rm, err := loader.Load(ctx, env.ResourceMapKey)
	if err != nil {
		panic(err)
	}
	resolver := resourcemap.NewResolver(rm)
	routingEngine := routing.New(gw.Queues, gw.Invokes, resolver)

	ldgr := ledger.New(gw.Queues, resolver.LedgerQueue)

	w := wrapper.New(comp, components, loader, env.ResourceMapKey, gw.Queues, ldgr)
	w.Routing = routingEngine

	lambda.Start(func(ctx context.Context, event map[string]any) (map[string]any, error) {
		deadline, _ := ctx.Deadline()
		lc := newLambdaLifecycle(deadline)
		go w.Handle(ctx, event, handler, lc)
		select {
		case <-lc.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if lc.mode == wrapper.ModeFail {
			return nil, lc.err
		}
		return lc.result, nil
	})
}

// lambdaLifecycle bridges the wrapper's callback-style LifecycleContext
// to aws-lambda-go's synchronous (result, error) handler contract: the
// handler may complete wctx from any goroutine, so the Lambda handler
// just waits on done (grounded on the ctx.Deadline()-aware timeout
// budgeting in other_examples/lizongti-test-fast-serverless's handler).
type lambdaLifecycle struct {
	deadline time.Time
	done     chan struct{}
	once     sync.Once

	mode   wrapper.Mode
	err    error
	result map[string]any
}

func newLambdaLifecycle(deadline time.Time) *lambdaLifecycle {
	return &lambdaLifecycle{deadline: deadline, done: make(chan struct{})}
}

func (l *lambdaLifecycle) finish(mode wrapper.Mode, err error, result map[string]any) {
	l.once.Do(func() {
		l.mode, l.err, l.result = mode, err, result
		close(l.done)
	})
}

func (l *lambdaLifecycle) Done(err error, result map[string]any) { l.finish(wrapper.ModeDone, err, result) }
func (l *lambdaLifecycle) Fail(err error)                        { l.finish(wrapper.ModeFail, err, nil) }
func (l *lambdaLifecycle) Succeed(result map[string]any)         { l.finish(wrapper.ModeSucceed, nil, result) }

func (l *lambdaLifecycle) TimeRemaining() time.Duration {
	if l.deadline.IsZero() {
		return 0
	}
	return time.Until(l.deadline)
}

var _ wrapper.LifecycleContext = (*lambdaLifecycle)(nil)
