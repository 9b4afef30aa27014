// Package routing implements the Routing Engine (spec §4.6): given the
// wrapped worker's (error, result), it evaluates the component's routing
// rule into a list of {target, payload} pairs and dispatches each
// concurrently to either a queue send (FromMessage target) or a direct
// async invocation (FromInvocation target).
package routing

import (
	"context"
	"fmt"
	"sync"

	"github.com/riverflow-io/riverflow/internal/invokegw"
	"github.com/riverflow-io/riverflow/internal/obslog"
	"github.com/riverflow-io/riverflow/internal/queuegw"
	"github.com/riverflow-io/riverflow/internal/resourcemap"
	"github.com/riverflow-io/riverflow/internal/wfcore"
)

// Engine dispatches routed results to their destinations.
type Engine struct {
	Queues   *queuegw.Gateway
	Invokes  *invokegw.Gateway
	Resolver *resourcemap.Resolver
	log      *obslog.Logger
}

// New builds a routing Engine.
func New(queues *queuegw.Gateway, invokes *invokegw.Gateway, resolver *resourcemap.Resolver) *Engine {
	return &Engine{Queues: queues, Invokes: invokes, Resolver: resolver, log: obslog.For("routing-engine")}
}

// Evaluate produces the route pairs for a rule given the worker's outcome
// (spec §4.6, §9 open question (a)): name-based routing (RoutingOne /
// RoutingMany) is skipped entirely when workerErr is non-nil, but
// expression routing is always invoked regardless of success/failure.
func Evaluate(rule wfcore.RoutingRule, workerErr error, result map[string]any) ([]wfcore.RoutePair, error) {
	switch rule.Kind {
	case wfcore.RoutingNone:
		return nil, nil

	case wfcore.RoutingOne:
		if workerErr != nil {
			return nil, nil
		}
		return []wfcore.RoutePair{{Target: rule.One, Payload: result}}, nil

	case wfcore.RoutingMany:
		if workerErr != nil {
			return nil, nil
		}
		pairs := make([]wfcore.RoutePair, 0, len(rule.Many))
		for _, name := range rule.Many {
			pairs = append(pairs, wfcore.RoutePair{Target: name, Payload: result})
		}
		return pairs, nil

	case wfcore.RoutingExpr:
		pairs, err := rule.Expr(workerErr, result)
		if err != nil {
			return nil, err
		}
		return dropMalformed(pairs), nil

	default:
		return nil, nil
	}
}

func dropMalformed(pairs []wfcore.RoutePair) []wfcore.RoutePair {
	out := make([]wfcore.RoutePair, 0, len(pairs))
	for _, p := range pairs {
		if p.Target == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Dispatch evaluates rule and fans the resulting pairs out concurrently.
// Any per-pair dispatch error is collected and returned as an aggregate;
// callers (the Worker Wrapper's finalization) upgrade a successful
// outcome to fail when this returns non-nil (spec §4.5.3 step 4).
func (e *Engine) Dispatch(ctx context.Context, components map[string]wfcore.Component, rule wfcore.RoutingRule, workerErr error, result map[string]any) error {
	pairs, err := Evaluate(rule, workerErr, result)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, pair := range pairs {
		pair := pair
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := e.dispatchOne(ctx, components, pair); err != nil {
				e.log.WarnErr("dispatch failed for target "+pair.Target, err)
				record(err)
			}
		}()
	}
	wg.Wait()
	return firstErr
}

func (e *Engine) dispatchOne(ctx context.Context, components map[string]wfcore.Component, pair wfcore.RoutePair) error {
	target, ok := components[pair.Target]
	if !ok {
		return fmt.Errorf("%w: %s", wfcore.ErrInvalidRoutingDestination, pair.Target)
	}
	switch target.Kind {
	case wfcore.KindFromMessage:
		queue, err := e.Resolver.InputQueue(pair.Target)
		if err != nil {
			return err
		}
		return e.Queues.Send(ctx, queue, pair.Payload)
	case wfcore.KindFromInvocation:
		fn, err := e.Resolver.Function(pair.Target)
		if err != nil {
			return err
		}
		return e.Invokes.InvokeAsync(ctx, fn, pair.Payload)
	default:
		return fmt.Errorf("%w: %s (kind=%s)", wfcore.ErrInvalidRoutingDestination, pair.Target, target.Kind)
	}
}
