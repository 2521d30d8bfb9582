package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	boom := errors.New("boom")

	d.Subscribe(EventTicketsLoaded, func(_ context.Context, e Event) error {
		calls = append(calls, "first")
		return boom
	})
	d.Subscribe(EventTicketsLoaded, func(_ context.Context, e Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventTicketNoteRequested, func(_ context.Context, e Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventTicketsLoaded, "", TicketsLoadedPayload{Count: 3}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventTicketResolveRequested, "12", PlaceholderActionPayload{AckID: "a"})
	require.NotEmpty(t, e.ID)
	assert.Equal(t, EventTicketResolveRequested, e.Type)
	assert.Equal(t, "12", string(e.TicketID))
	assert.False(t, e.Timestamp.IsZero())
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), NewEvent(EventTicketsLoaded, "", nil)))
}
