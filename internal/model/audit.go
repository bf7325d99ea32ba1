package model

import "time"

type AuditEntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actorId,omitempty"`
	Resource   string    `json:"resource,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
