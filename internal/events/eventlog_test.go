package events

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPersister struct {
	mu     sync.Mutex
	events []GameEvent
	err    error
}

func (p *recordingPersister) Append(e GameEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func TestAppendStampsEvents(t *testing.T) {
	el := NewEventLog(nil, 0)

	e := el.Append(GameEvent{Type: EventTypeGameSaved})
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, uint64(1), e.Seq)

	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	e = el.Append(GameEvent{ID: "custom", Timestamp: fixed, Type: EventTypeGameLoaded})
	assert.Equal(t, "custom", e.ID)
	assert.Equal(t, fixed, e.Timestamp)
	assert.Equal(t, uint64(2), e.Seq)
}

func TestRetentionBound(t *testing.T) {
	el := NewEventLog(nil, 3)
	for i := 0; i < 5; i++ {
		el.Append(GameEvent{Type: EventTypeBuildingPurchased})
	}

	history := el.Replay()
	require.Len(t, history, 3)
	assert.Equal(t, uint64(3), history[0].Seq)
	assert.Equal(t, uint64(5), history[2].Seq)
}

func TestRecentFiltersAndOrders(t *testing.T) {
	el := NewEventLog(nil, 0)
	el.Append(GameEvent{Type: EventTypeBuildingPurchased, TargetID: "cursor"})
	el.Append(GameEvent{Type: EventTypeGameSaved})
	el.Append(GameEvent{Type: EventTypeBuildingPurchased, TargetID: "farm"})
	el.Append(GameEvent{Type: EventTypeBuildingPurchased, TargetID: "mine"})

	got := el.Recent(EventTypeBuildingPurchased, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "farm", got[0].TargetID)
	assert.Equal(t, "mine", got[1].TargetID)

	assert.Len(t, el.Recent("", 0), 4)
}

func TestSubscribeReceivesAndUnsubscribes(t *testing.T) {
	el := NewEventLog(nil, 0)
	ch, cancel := el.Subscribe(4)

	el.Append(GameEvent{Type: EventTypeAscended})
	select {
	case e := <-ch:
		assert.Equal(t, EventTypeAscended, e.Type)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive event")
	}

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)

	el.Append(GameEvent{Type: EventTypeAscended})
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	el := NewEventLog(nil, 0)
	_, cancel := el.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			el.Append(GameEvent{Type: EventTypeGameSaved})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("append blocked on a full subscriber")
	}
}

func TestPersisterWriteThrough(t *testing.T) {
	p := &recordingPersister{err: errors.New("disk full")}
	el := NewEventLog(p, 0)

	var mu sync.Mutex
	var failures int
	el.OnPersistError(func(error) {
		mu.Lock()
		failures++
		mu.Unlock()
	})

	el.Append(GameEvent{Type: EventTypeGameSaved})
	el.Append(GameEvent{Type: EventTypeGameReset})
	el.Flush()

	assert.Equal(t, 2, p.count())
	mu.Lock()
	assert.Equal(t, 2, failures)
	mu.Unlock()
}

func TestGetByActor(t *testing.T) {
	el := NewEventLog(nil, 0)
	el.Append(GameEvent{Type: EventTypeGameSaved, ActorID: ActorOven})
	el.Append(GameEvent{Type: EventTypeBuildingPurchased, ActorID: ActorPlayer})

	got := el.GetByActor(ActorPlayer)
	require.Len(t, got, 1)
	assert.Equal(t, EventTypeBuildingPurchased, got[0].Type)
}
