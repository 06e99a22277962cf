package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_PublishInvokesAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventCleanupCompleted, func(_ context.Context, e Event) error {
		calls = append(calls, "first")
		return errors.New("webhook down")
	})
	d.Subscribe(EventCleanupCompleted, func(_ context.Context, e Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventReviewReminderDue, func(_ context.Context, e Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventCleanupCompleted, nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook down")
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDispatcher_PublishWithoutListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), NewEvent(EventReviewReminderDue, "payload")))
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventReviewReminderDue, 42)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, EventReviewReminderDue, e.Type)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, 42, e.Payload)
}
