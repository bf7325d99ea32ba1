package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"go-blog-api/internal/event"
	"go-blog-api/internal/model"
)

// AuditService persists domain events published on the bus and serves a
// user's own trail.
type AuditService struct {
	store AuditStore
}

func NewAuditService(store AuditStore) *AuditService {
	return &AuditService{store: store}
}

// Start subscribes before returning, then records events in the background
// until ctx is done or the subscription closes.
func (s *AuditService) Start(ctx context.Context, bus event.Bus) {
	events, unsubscribe := bus.Subscribe()
	go s.consume(ctx, events, unsubscribe)
}

func (s *AuditService) consume(ctx context.Context, events <-chan event.Event, unsubscribe func()) {
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := s.Record(ctx, e); err != nil {
				slog.Error("audit entry not recorded", "type", e.Type, "actor_id", e.ActorID, "error", err)
			}
		}
	}
}

func (s *AuditService) Record(ctx context.Context, e event.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	return s.store.Insert(ctx, model.AuditEntry{
		ID:         e.ID,
		Action:     string(e.Type),
		ActorID:    e.ActorID,
		Resource:   e.Resource,
		OccurredAt: e.Timestamp,
	})
}

func (s *AuditService) List(ctx context.Context, actorID string, page model.Page) ([]model.AuditEntry, *model.Meta, error) {
	entries, total, err := s.store.ListByActor(ctx, actorID, page)
	if err != nil {
		return nil, nil, err
	}
	return entries, page.Meta(total), nil
}
