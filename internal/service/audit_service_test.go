package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-blog-api/internal/event"
	"go-blog-api/internal/model"
)

func TestAuditService_RecordsBusEvents(t *testing.T) {
	t.Parallel()

	store := &memAudit{}
	svc := NewAuditService(store)
	bus := event.NewBus()

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx, bus)
	bus.Publish(event.Event{Type: event.TypeUserLoggedIn, ActorID: "u-1", Resource: "users/u-1"})

	require.Eventually(t, func() bool { return store.count() > 0 }, time.Second, 10*time.Millisecond)
	cancel()

	entries, meta, err := svc.List(context.Background(), "u-1", model.NewPage(1, 50))
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, string(event.TypeUserLoggedIn), entries[0].Action)
	assert.Equal(t, "users/u-1", entries[0].Resource)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].OccurredAt.IsZero())
	assert.Equal(t, len(entries), meta.Total)

	others, _, err := svc.List(context.Background(), "someone-else", model.NewPage(1, 50))
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestAuditService_StartSubscribesImmediately(t *testing.T) {
	t.Parallel()

	store := &memAudit{}
	bus := event.NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	NewAuditService(store).Start(ctx, bus)
	bus.Publish(event.Event{Type: event.TypeUserRegistered, ActorID: "u-3"})

	require.Eventually(t, func() bool { return store.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestAuditService_RecordFillsDefaults(t *testing.T) {
	t.Parallel()

	store := &memAudit{}
	require.NoError(t, NewAuditService(store).Record(context.Background(), event.Event{Type: event.TypePostCreated, ActorID: "u-2"}))
	require.Equal(t, 1, store.count())
	assert.NotEmpty(t, store.entries[0].ID)
	assert.False(t, store.entries[0].OccurredAt.IsZero())
}
