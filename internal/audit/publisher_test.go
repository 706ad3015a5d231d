package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_SyncEmit(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store)

	err := p.Emit(context.Background(), Event{
		Origin:   "https://site.example",
		Action:   ActionRequestSubmitted,
		Decision: "",
	})
	require.NoError(t, err)

	events, err := store.ListByOrigin(context.Background(), "https://site.example")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ActionRequestSubmitted, events[0].Action)
	assert.False(t, events[0].Timestamp.IsZero(), "emit must stamp missing timestamps")
}

func TestPublisher_AsyncEmitDrainsOnClose(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store, WithAsyncBuffer(8))

	for i := 0; i < 5; i++ {
		require.NoError(t, p.Emit(context.Background(), Event{
			Origin: "https://site.example",
			Action: ActionRequestResolved,
		}))
	}
	p.Close()

	events, err := store.ListByOrigin(context.Background(), "https://site.example")
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestPublisher_PreservesExplicitTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store)

	stamp := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, p.Emit(context.Background(), Event{
		Origin:    "https://site.example",
		Action:    ActionCredentialSaved,
		Timestamp: stamp,
	}))

	events, err := store.ListByOrigin(context.Background(), "https://site.example")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Timestamp.Equal(stamp))
}
