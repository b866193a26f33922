package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitSyncAppendsToStore(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store)
	ctx := context.Background()

	err := p.Emit(ctx, Event{
		Action:      string(EventApplicationSubmitted),
		ApplicantID: "100",
	})
	require.NoError(t, err)

	events, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "100", events[0].ApplicantID)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.NotEmpty(t, events[0].ID)
}

func TestEmitAsyncDrainsOnClose(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store, WithAsyncBuffer(16))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, p.Emit(ctx, Event{Action: string(EventApplicationApproved), ApplicantID: "100"}))
	}
	p.Close()

	events, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestRecentNewestFirstAndBounded(t *testing.T) {
	store := NewInMemoryStoreWithCapacity(3)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3", "4"} {
		require.NoError(t, store.Append(ctx, Event{Action: "a", ApplicantID: id}))
	}

	events, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	// Oldest event fell off the ring; newest comes first.
	assert.Equal(t, "4", events[0].ApplicantID)
	assert.Equal(t, "2", events[2].ApplicantID)

	two, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "4", two[0].ApplicantID)
}

func TestListByApplicant(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Event{Action: string(EventApplicationSubmitted), ApplicantID: "100"}))
	require.NoError(t, store.Append(ctx, Event{Action: string(EventApplicationRejected), ApplicantID: "100"}))
	require.NoError(t, store.Append(ctx, Event{Action: string(EventApplicationSubmitted), ApplicantID: "200"}))

	trail, err := store.ListByApplicant(ctx, "100")
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, string(EventApplicationSubmitted), trail[0].Action)
	assert.Equal(t, string(EventApplicationRejected), trail[1].Action)
}
