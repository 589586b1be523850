package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker()
	ctx := context.Background()

	s1 := b.Subscribe()
	s2 := b.Subscribe()

	require.NoError(t, b.Publish(ctx, AssetEvent{ID: "ev-1"}))
	assert.Equal(t, "ev-1", (<-s1).ID)
	assert.Equal(t, "ev-1", (<-s2).ID)

	b.Unsubscribe(s1)
	b.Unsubscribe(s2)

	// Publishing with no subscribers is a no-op.
	assert.NoError(t, b.Publish(ctx, AssetEvent{ID: "ev-3"}))
}

func TestBrokerDropsWhenSubscriberIsFull(t *testing.T) {
	b := NewBroker()
	ctx := context.Background()

	ch := b.Subscribe()
	for i := 0; i < cap(ch)+5; i++ {
		require.NoError(t, b.Publish(ctx, AssetEvent{ID: "flood"}))
	}
	// The buffer is full but the publisher never blocked; overflow was
	// dropped on the floor.
	assert.Len(t, ch, cap(ch))
	b.Unsubscribe(ch)
}

func TestBrokerUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe()
	b.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)

	// Events published afterwards do not reach the closed channel.
	assert.NoError(t, b.Publish(context.Background(), AssetEvent{ID: "late"}))
}

func TestMultiPublisherAttemptsAll(t *testing.T) {
	good1 := &fakePublisher{}
	bad := failingPublisher{err: errors.New("queue down")}
	good2 := &fakePublisher{}

	m := MultiPublisher(good1, bad, good2)
	err := m.Publish(context.Background(), AssetEvent{ID: "ev-1"})

	// The failure surfaces, but every publisher saw the event.
	require.Error(t, err)
	assert.Len(t, good1.events, 1)
	assert.Len(t, good2.events, 1)
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, AssetEvent) error { return f.err }
