package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/riverflow-io/riverflow/internal/queuegw"
	"github.com/stretchr/testify/require"
)

func namer(component string) (string, error) { return "ledger-" + component, nil }

func TestIncrementThenDecrement(t *testing.T) {
	gw := queuegw.New(queuegw.NewMemBackend())
	l := New(gw, namer)
	ctx := context.Background()

	require.NoError(t, l.Increment(ctx, "a"))

	depth, err := l.ApproximateConcurrency(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 1, depth)

	require.NoError(t, l.Decrement(ctx, "a", 30*time.Second, 0))

	depth, err = l.ApproximateConcurrency(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 0, depth)
}

func TestDecrementWithNoMessageIsSoftError(t *testing.T) {
	gw := queuegw.New(queuegw.NewMemBackend())
	l := New(gw, namer)
	err := l.Decrement(context.Background(), "a", 30*time.Second, 0)
	require.NoError(t, err)
}
