// Package invokegw implements fire-and-forget asynchronous function
// invocation, used by the Routing Engine (§4.6, FromInvocation targets),
// the Coordinator/Invoker dispatch path (§4.9), and the Coordinator's
// self-chain (§4.7 step 8).
package invokegw

import (
	"context"
	"encoding/json"

	"github.com/riverflow-io/riverflow/internal/obslog"
	"github.com/riverflow-io/riverflow/internal/retry"
)

// Backend is the raw invoke operation (Lambda, or an in-memory fake).
type Backend interface {
	InvokeAsync(ctx context.Context, function string, payload []byte) error
}

// Gateway is the spec-facing invocation gateway.
type Gateway struct {
	backend Backend
	log     *obslog.Logger
}

// New wraps a Backend with retry.
func New(backend Backend) *Gateway {
	return &Gateway{backend: backend, log: obslog.For("invoke-gateway")}
}

// InvokeAsync marshals payload as JSON and fires an event-style
// (fire-and-forget) invocation of function, retried.
func (g *Gateway) InvokeAsync(ctx context.Context, function string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return retry.Do(ctx, g.log, "invoke:"+function, func(ctx context.Context) error {
		return g.backend.InvokeAsync(ctx, function, body)
	})
}
