// Package engine contains the game loop and simulation logic.
// This is the heartbeat of the bakery.
//
// ARCHITECTURAL RULE: The Ticker does NOT touch the GameState. It only reads
// the clock and hands the time to the Engine, which owns every mutation.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/biscoitoclicker/bakery/internal/platform/logger"
)

// DefaultTickInterval is how often the bakery bakes.
const DefaultTickInterval = 100 * time.Millisecond

// Ticker manages the game loop heartbeat.
type Ticker struct {
	interval time.Duration
	clock    Clock
	onTick   func(now time.Time)
	logger   *logger.Logger
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewTicker creates a new game ticker. A non-positive interval selects DefaultTickInterval.
func NewTicker(interval time.Duration, clock Clock, onTick func(now time.Time), log *logger.Logger) *Ticker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Ticker{
		interval: interval,
		clock:    clock,
		onTick:   onTick,
		logger:   log,
		stopChan: make(chan struct{}),
	}
}

// Start runs the loop until the context ends or Stop is called. It blocks.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Infof("Engine Ticker started. Baking every %s.", t.interval)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Engine Ticker stopped by context.")
			return
		case <-t.stopChan:
			t.logger.Info("Engine Ticker stopped manually.")
			return
		case <-ticker.C:
			t.onTick(t.clock.Now())
		}
	}
}

// Stop gracefully stops the ticker. Safe to call more than once.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stopChan) })
}
