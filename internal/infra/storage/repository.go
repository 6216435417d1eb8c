// Package storage provides the persistence layer for the bakery server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// StoredEvent mirrors the domain event structure for persistence.
// The domain package should NOT import this; use interfaces instead.
type StoredEvent struct {
	ID        string         `json:"id" db:"id"`
	Seq       uint64         `json:"seq" db:"seq"`
	Timestamp time.Time      `json:"timestamp" db:"ts"`
	EventType string         `json:"event_type" db:"event_type"`
	ActorID   string         `json:"actor_id" db:"actor_id"`
	TargetID  string         `json:"target_id" db:"target_id"`
	Payload   map[string]any `json:"payload" db:"payload"`
}

// EventRepository defines the interface for the event ledger.
// The engine never sees it; the EventLedger adapter feeds it.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event StoredEvent) error

	// Recent retrieves up to limit of the newest events, oldest first.
	// An empty eventType matches every type.
	Recent(ctx context.Context, eventType string, limit int) ([]StoredEvent, error)

	// Since retrieves every event at or after t, oldest first.
	Since(ctx context.Context, t time.Time) ([]StoredEvent, error)

	// GetByActorID retrieves the newest events caused by an actor.
	GetByActorID(ctx context.Context, actorID string, limit int) ([]StoredEvent, error)
}
