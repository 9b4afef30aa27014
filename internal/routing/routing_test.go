package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/riverflow-io/riverflow/internal/invokegw"
	"github.com/riverflow-io/riverflow/internal/queuegw"
	"github.com/riverflow-io/riverflow/internal/resourcemap"
	"github.com/riverflow-io/riverflow/internal/wfcore"
	"github.com/stretchr/testify/require"
)

func TestEvaluateNoneIsEmpty(t *testing.T) {
	pairs, err := Evaluate(wfcore.NoRouting(), nil, map[string]any{"x": 1})
	require.NoError(t, err)
	require.Empty(t, pairs)
}

func TestEvaluateOneSkippedOnError(t *testing.T) {
	pairs, err := Evaluate(wfcore.RouteToOne("b"), errors.New("boom"), nil)
	require.NoError(t, err)
	require.Empty(t, pairs)
}

func TestEvaluateManyCarriesResultOnSuccess(t *testing.T) {
	pairs, err := Evaluate(wfcore.RouteToMany([]string{"a", "b"}), nil, map[string]any{"k": 2})
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	require.Equal(t, "a", pairs[0].Target)
	require.Equal(t, map[string]any{"k": 2}, pairs[0].Payload)
}

func TestEvaluateExprRunsEvenOnFailure(t *testing.T) {
	called := false
	rule := wfcore.RouteByExpr(func(workerErr error, result map[string]any) ([]wfcore.RoutePair, error) {
		called = true
		return []wfcore.RoutePair{{Target: "a", Payload: result}}, nil
	})
	_, err := Evaluate(rule, errors.New("boom"), nil)
	require.NoError(t, err)
	require.True(t, called)
}

func TestDispatchToFromMessageAndFromInvocation(t *testing.T) {
	qBackend := queuegw.NewMemBackend()
	qgw := queuegw.New(qBackend)
	iBackend := invokegw.NewMemBackend()
	igw := invokegw.New(iBackend)

	rm := wfcore.ResourceMap{
		resourcemap.InputSymbol("b"): "queue-b",
		"c":                          "fn-c",
	}
	resolver := resourcemap.NewResolver(rm)
	engine := New(qgw, igw, resolver)

	components := map[string]wfcore.Component{
		"b": {Name: "b", Kind: wfcore.KindFromMessage},
		"c": {Name: "c", Kind: wfcore.KindFromInvocation},
	}

	rule := wfcore.RouteToMany([]string{"b", "c"})
	err := engine.Dispatch(context.Background(), components, rule, nil, map[string]any{"x": 2})
	require.NoError(t, err)

	require.Len(t, qBackend.Peek("queue-b"), 1)
	require.Len(t, iBackend.Invocations(), 1)
	require.Equal(t, "fn-c", iBackend.Invocations()[0].Function)
}

func TestDispatchUnknownDestinationIsInvalid(t *testing.T) {
	qgw := queuegw.New(queuegw.NewMemBackend())
	igw := invokegw.New(invokegw.NewMemBackend())
	resolver := resourcemap.NewResolver(wfcore.ResourceMap{})
	engine := New(qgw, igw, resolver)

	err := engine.Dispatch(context.Background(), map[string]wfcore.Component{}, wfcore.RouteToOne("ghost"), nil, nil)
	require.ErrorIs(t, err, wfcore.ErrInvalidRoutingDestination)
}
