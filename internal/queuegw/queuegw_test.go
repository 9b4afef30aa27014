package queuegw

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSendReceiveDelete(t *testing.T) {
	gw := New(NewMemBackend())
	ctx := context.Background()

	require.NoError(t, gw.Send(ctx, "q1", map[string]any{"x": 1}))

	msg, err := gw.ReceiveOne(ctx, "q1", time.Second, 0)
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.JSONEq(t, `{"x":1}`, msg.Body)

	require.NoError(t, gw.Delete(ctx, "q1", msg.Receipt))

	depth, err := gw.ApproximateDepth(ctx, "q1")
	require.NoError(t, err)
	require.Equal(t, 0, depth)
}

func TestReceiveOneEmptyIsNotAnError(t *testing.T) {
	gw := New(NewMemBackend())
	msg, err := gw.ReceiveOne(context.Background(), "empty", time.Second, 0)
	require.NoError(t, err)
	require.Nil(t, msg)
}

func TestMessageReappearsAfterVisibilityTimeout(t *testing.T) {
	backend := NewMemBackend()
	fixedNow := time.Now()
	backend.now = func() time.Time { return fixedNow }
	gw := New(backend)
	ctx := context.Background()

	require.NoError(t, gw.Send(ctx, "q1", map[string]any{"a": true}))
	msg, err := gw.ReceiveOne(ctx, "q1", 5*time.Second, 0)
	require.NoError(t, err)
	require.NotNil(t, msg)

	// Still within the visibility window: invisible to a second receive.
	again, err := gw.ReceiveOne(ctx, "q1", 5*time.Second, 0)
	require.NoError(t, err)
	require.Nil(t, again)

	// Simulate the visibility timeout expiring without a delete (crash).
	fixedNow = fixedNow.Add(6 * time.Second)
	reappeared, err := gw.ReceiveOne(ctx, "q1", 5*time.Second, 0)
	require.NoError(t, err)
	require.NotNil(t, reappeared)
}
