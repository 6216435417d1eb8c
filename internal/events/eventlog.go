// Package events provides the event log of the bakery.
// Every notable state change is appended here; bridges subscribe to it and the
// optional persister keeps a durable ledger for the history endpoint.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeAchievementUnlocked EventType = "ACHIEVEMENT_UNLOCKED"
	EventTypeGoldenCookieSpawned EventType = "GOLDEN_COOKIE_SPAWNED"
	EventTypeGoldenCookieClicked EventType = "GOLDEN_COOKIE_CLICKED"
	EventTypeGoldenCookieExpired EventType = "GOLDEN_COOKIE_EXPIRED"
	EventTypeEffectStarted       EventType = "EFFECT_STARTED"
	EventTypeEffectRefreshed     EventType = "EFFECT_REFRESHED"
	EventTypeEffectExpired       EventType = "EFFECT_EXPIRED"
	EventTypeBuildingPurchased   EventType = "BUILDING_PURCHASED"
	EventTypeUpgradePurchased    EventType = "UPGRADE_PURCHASED"
	EventTypeSkillPurchased      EventType = "SKILL_PURCHASED"
	EventTypeAscended            EventType = "ASCENDED"
	EventTypeGameSaved           EventType = "GAME_SAVED"
	EventTypeGameLoaded          EventType = "GAME_LOADED"
	EventTypeGameReset           EventType = "GAME_RESET"
	EventTypeBakeryRenamed       EventType = "BAKERY_RENAMED"
)

// Actors attached to events.
const (
	ActorPlayer = "PLAYER"
	ActorOven   = "SYSTEM_OVEN"
)

// DefaultRetention is how many events the in-memory log keeps.
const DefaultRetention = 1000

// GameEvent represents an immutable record of something that happened.
type GameEvent struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	ActorID   string    `json:"actor_id"`            // who caused it
	TargetID  string    `json:"target_id,omitempty"` // catalog id involved, if any
	Payload   any       `json:"payload,omitempty"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is a bounded in-memory log with fan-out subscriptions.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	retention int
	seq       uint64
	persister EventPersister
	onError   func(error)
	pending   sync.WaitGroup

	subs    map[int]chan GameEvent
	nextSub int
}

// NewEventLog creates a new event log with an optional persister. A
// non-positive retention selects DefaultRetention.
func NewEventLog(persister EventPersister, retention int) *EventLog {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &EventLog{
		events:    make([]GameEvent, 0, 64),
		retention: retention,
		persister: persister,
		subs:      make(map[int]chan GameEvent),
	}
}

// OnPersistError registers a callback for failed ledger writes.
func (el *EventLog) OnPersistError(fn func(error)) {
	el.mu.Lock()
	el.onError = fn
	el.mu.Unlock()
}

// Append stamps and records an event, notifies subscribers and writes it
// through to the persister. Slow subscribers miss events rather than block.
func (el *EventLog) Append(event GameEvent) GameEvent {
	el.mu.Lock()
	defer el.mu.Unlock()

	el.seq++
	event.Seq = el.seq
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	el.events = append(el.events, event)
	if over := len(el.events) - el.retention; over > 0 {
		el.events = append(el.events[:0:0], el.events[over:]...)
	}

	for _, ch := range el.subs {
		select {
		case ch <- event:
		default:
		}
	}

	if el.persister != nil {
		el.pending.Add(1)
		go func(e GameEvent, onError func(error)) {
			defer el.pending.Done()
			if err := el.persister.Append(e); err != nil && onError != nil {
				onError(err)
			}
		}(event, el.onError)
	}
	return event
}

// Subscribe returns a channel receiving every event appended after the call,
// and a function that cancels the subscription and closes the channel.
func (el *EventLog) Subscribe(buffer int) (<-chan GameEvent, func()) {
	el.mu.Lock()
	defer el.mu.Unlock()

	id := el.nextSub
	el.nextSub++
	ch := make(chan GameEvent, buffer)
	el.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			el.mu.Lock()
			delete(el.subs, id)
			el.mu.Unlock()
			close(ch)
		})
	}
}

// Replay returns a copy of the retained history, oldest first.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return append([]GameEvent(nil), el.events...)
}

// Recent returns up to limit of the newest events, oldest first, optionally
// filtered by type. A non-positive limit returns everything that matches.
func (el *EventLog) Recent(eventType EventType, limit int) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for i := len(el.events) - 1; i >= 0; i-- {
		e := el.events[i]
		if eventType != "" && e.Type != eventType {
			continue
		}
		result = append(result, e)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// GetByActor returns the retained events caused by an actor.
func (el *EventLog) GetByActor(actorID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.ActorID == actorID {
			result = append(result, e)
		}
	}
	return result
}

// Flush waits for in-flight persister writes.
func (el *EventLog) Flush() {
	el.pending.Wait()
}
