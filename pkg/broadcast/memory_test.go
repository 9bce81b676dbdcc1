package broadcast_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viralpost/authgate/pkg/broadcast"
)

func receiveOne[T any](t *testing.T, sub broadcast.Subscriber[T]) T {
	t.Helper()
	select {
	case msg, ok := <-sub.Receive(context.Background()):
		require.True(t, ok, "channel closed before message arrived")
		return msg.Data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		panic("unreachable")
	}
}

func TestBroadcastDelivery(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[string](4)
	defer b.Close()

	ctx := context.Background()
	sub1 := b.Subscribe(ctx)
	sub2 := b.Subscribe(ctx)

	require.NoError(t, b.Broadcast(ctx, broadcast.Message[string]{Data: "SIGNED_IN"}))

	assert.Equal(t, "SIGNED_IN", receiveOne(t, sub1))
	assert.Equal(t, "SIGNED_IN", receiveOne(t, sub2))
}

func TestSubscriberClose(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[int](1)
	defer b.Close()

	sub := b.Subscribe(context.Background())
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close()) // idempotent

	_, ok := <-sub.Receive(context.Background())
	assert.False(t, ok)
}

func TestContextCancellationReleasesSubscription(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[int](1)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub := b.Subscribe(ctx)
	cancel()

	// The receive channel eventually closes once cleanup runs.
	select {
	case _, ok := <-sub.Receive(context.Background()):
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription was not released on context cancellation")
	}
}

func TestBroadcastAfterClose(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[int](1)
	sub := b.Subscribe(context.Background())
	require.NoError(t, b.Close())
	require.NoError(t, b.Close()) // idempotent

	assert.NoError(t, b.Broadcast(context.Background(), broadcast.Message[int]{Data: 1}))

	_, ok := <-sub.Receive(context.Background())
	assert.False(t, ok)

	// Subscriptions created after Close are already closed.
	late := b.Subscribe(context.Background())
	_, ok = <-late.Receive(context.Background())
	assert.False(t, ok)
}

func TestSlowConsumerDropped(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[int](1)
	defer b.Close()

	ctx := context.Background()
	sub := b.Subscribe(ctx)

	// Fill the buffer, then overflow it.
	require.NoError(t, b.Broadcast(ctx, broadcast.Message[int]{Data: 1}))
	require.NoError(t, b.Broadcast(ctx, broadcast.Message[int]{Data: 2}))

	assert.Equal(t, 1, receiveOne(t, sub))
}
