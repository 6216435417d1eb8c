package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/biscoitoclicker/bakery/internal/events"
	"github.com/biscoitoclicker/bakery/internal/platform/metrics"
)

// ledgerWriteTimeout bounds a single event write.
const ledgerWriteTimeout = 2 * time.Second

// EventLedger adapts an EventRepository to events.EventPersister so the
// in-memory log writes through to the durable ledger.
type EventLedger struct {
	repo    EventRepository
	metrics *metrics.Collector
}

// NewEventLedger wraps repo. A nil collector selects the global one.
func NewEventLedger(repo EventRepository, collector *metrics.Collector) *EventLedger {
	if collector == nil {
		collector = metrics.Get()
	}
	return &EventLedger{repo: repo, metrics: collector}
}

// Append implements events.EventPersister.
func (l *EventLedger) Append(e events.GameEvent) error {
	stored, err := ToStored(e)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), ledgerWriteTimeout)
		err = l.repo.Append(ctx, stored)
		cancel()
	}
	l.metrics.RecordEventWrite(err)
	return err
}

// ToStored flattens a domain event; typed payloads become JSON objects.
func ToStored(e events.GameEvent) (StoredEvent, error) {
	stored := StoredEvent{
		ID:        e.ID,
		Seq:       e.Seq,
		Timestamp: e.Timestamp,
		EventType: string(e.Type),
		ActorID:   e.ActorID,
		TargetID:  e.TargetID,
	}
	if e.Payload == nil {
		return stored, nil
	}
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return StoredEvent{}, fmt.Errorf("failed to marshal payload of %s: %w", e.Type, err)
	}
	if err := json.Unmarshal(raw, &stored.Payload); err != nil {
		return StoredEvent{}, fmt.Errorf("payload of %s is not an object: %w", e.Type, err)
	}
	return stored, nil
}
