package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/riverflow-io/riverflow/internal/invokegw"
	"github.com/riverflow-io/riverflow/internal/resourcemap"
	"github.com/riverflow-io/riverflow/internal/wfcore"
	"github.com/stretchr/testify/require"
)

func TestDispatchLocalIssuesOneInvocationPerCount(t *testing.T) {
	backend := invokegw.NewMemBackend()
	igw := invokegw.New(backend)
	resolver := resourcemap.NewResolver(wfcore.ResourceMap{"a": "fn-a"})
	d := New(igw, resolver)

	plan := wfcore.InvocationPlan{Local: []wfcore.InvocationCount{{Component: "a", Count: 3}}}
	err := d.Dispatch(context.Background(), plan, 2)
	require.NoError(t, err)
	require.Len(t, backend.Invocations(), 3)
	for _, inv := range backend.Invocations() {
		require.Equal(t, "fn-a", inv.Function)
	}
}

func TestDispatchRemoteInvokesInvokerWithBinPayload(t *testing.T) {
	backend := invokegw.NewMemBackend()
	igw := invokegw.New(backend)
	resolver := resourcemap.NewResolver(wfcore.ResourceMap{wfcore.InvokerName: "fn-invoker"})
	d := New(igw, resolver)

	plan := wfcore.InvocationPlan{Remote: [][]wfcore.InvocationCount{
		{{Component: "a", Count: 6}},
		{{Component: "a", Count: 6}},
	}}
	err := d.Dispatch(context.Background(), plan, 4)
	require.NoError(t, err)

	invocations := backend.Invocations()
	require.Len(t, invocations, 2)
	for _, inv := range invocations {
		require.Equal(t, "fn-invoker", inv.Function)
		require.Contains(t, string(inv.Payload), `"name":"a"`)
		require.Contains(t, string(inv.Payload), `"count":6`)
	}
}

func TestDispatchUnresolvableComponentErrorsButDoesNotShortCircuit(t *testing.T) {
	backend := invokegw.NewMemBackend()
	igw := invokegw.New(backend)
	resolver := resourcemap.NewResolver(wfcore.ResourceMap{"b": "fn-b"})
	d := New(igw, resolver)

	plan := wfcore.InvocationPlan{Local: []wfcore.InvocationCount{
		{Component: "ghost", Count: 1},
		{Component: "b", Count: 2},
	}}
	err := d.Dispatch(context.Background(), plan, 2)
	require.Error(t, err)
	require.True(t, errors.Is(err, wfcore.ErrUnknownComponent))
	require.Len(t, backend.Invocations(), 2)
}

func TestDispatchEmptyPlanIsNoop(t *testing.T) {
	backend := invokegw.NewMemBackend()
	igw := invokegw.New(backend)
	resolver := resourcemap.NewResolver(wfcore.ResourceMap{})
	d := New(igw, resolver)

	err := d.Dispatch(context.Background(), wfcore.InvocationPlan{}, 2)
	require.NoError(t, err)
	require.Empty(t, backend.Invocations())
}
