package wfcore

import "context"

// InvocationContext carries the state that the original design kept at
// module scope (resourceMap, receiptToken, incremented); the wrapped
// lifecycle context is a local of the Worker Wrapper's Handle instead.
// Spec §9 calls for this to become an explicit per-invocation value passed
// through every step instead — there is no cross-invocation state, so the
// Worker Wrapper builds a fresh one at the top of every invocation.
type InvocationContext struct {
	ctx context.Context

	Components map[string]Component
	Resources  ResourceMap

	// ReceiptToken is set once an input message has been received, for
	// FromMessage components (spec §4.5.2).
	ReceiptToken string

	// LedgerIncremented records whether this invocation's entry-time
	// ledger increment succeeded (spec §4.5.4); only then does
	// finalization decrement.
	LedgerIncremented bool
}

// New builds a fresh InvocationContext for one invocation.
func New(ctx context.Context, components map[string]Component, resources ResourceMap) *InvocationContext {
	return &InvocationContext{ctx: ctx, Components: components, Resources: resources}
}

// Context returns the underlying context.Context.
func (ic *InvocationContext) Context() context.Context { return ic.ctx }

// Component looks up a component by name.
func (ic *InvocationContext) Component(name string) (Component, bool) {
	c, ok := ic.Components[name]
	return c, ok
}
