package invokegw

import (
	"context"
	"encoding/json"
	"sync"
)

// Invocation is one recorded fire-and-forget call.
type Invocation struct {
	Function string
	Payload  json.RawMessage
}

// MemBackend is an in-memory Backend fake that records invocations for
// assertions, generalized from the teacher's in-memory double pattern
// (infra.MemQueue, api.MemState) to this gateway's narrower shape.
type MemBackend struct {
	mu          sync.Mutex
	invocations []Invocation
	onInvoke    func(function string, payload []byte)
}

// NewMemBackend builds an empty in-memory invoke recorder.
func NewMemBackend() *MemBackend {
	return &MemBackend{}
}

// OnInvoke installs a callback fired synchronously for every recorded
// invocation, useful for wiring a fake worker/invoker chain in tests.
func (b *MemBackend) OnInvoke(fn func(function string, payload []byte)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onInvoke = fn
}

func (b *MemBackend) InvokeAsync(ctx context.Context, function string, payload []byte) error {
	b.mu.Lock()
	b.invocations = append(b.invocations, Invocation{Function: function, Payload: append(json.RawMessage(nil), payload...)})
	cb := b.onInvoke
	b.mu.Unlock()
	if cb != nil {
		cb(function, payload)
	}
	return nil
}

// Invocations returns a snapshot of every recorded invocation.
func (b *MemBackend) Invocations() []Invocation {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Invocation, len(b.invocations))
	copy(out, b.invocations)
	return out
}
