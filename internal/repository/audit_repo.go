package repository

import (
	"context"
	"fmt"

	"go-blog-api/internal/model"
)

type AuditRepository struct {
	db DBTX
}

func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, entry model.AuditEntry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO audit_entries (id, action, actor_id, resource, occurred_at) VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.Action, entry.ActorID, entry.Resource, entry.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListByActor(ctx context.Context, actorID string, page model.Page) ([]model.AuditEntry, int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, action, actor_id, resource, occurred_at, COUNT(*) OVER()
		 FROM audit_entries WHERE actor_id = $1
		 ORDER BY occurred_at DESC
		 LIMIT $2 OFFSET $3`, actorID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.AuditEntry, 0)
	total := 0
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.ActorID, &e.Resource, &e.OccurredAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}
	rows.Close()

	total, err = totalPastEnd(ctx, r.db, page, len(entries), total,
		`SELECT COUNT(*) FROM audit_entries WHERE actor_id = $1`, actorID)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
