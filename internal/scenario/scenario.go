// Package scenario runs scripted, headless playthroughs of a bakery on a fake
// clock. Each scenario drives the public engine API only, the same surface
// the websocket bridge uses, and reports a pass/fail verdict.
package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
	"github.com/biscoitoclicker/bakery/internal/domain/rules"
	"github.com/biscoitoclicker/bakery/internal/engine"
	"github.com/biscoitoclicker/bakery/internal/events"
	"github.com/biscoitoclicker/bakery/internal/persistence"
	"github.com/biscoitoclicker/bakery/internal/platform/logger"
	"github.com/biscoitoclicker/bakery/internal/platform/metrics"
)

// Epoch is the fake wall clock every scenario starts from.
var Epoch = time.UnixMilli(1_700_000_000_000)

// Result captures the outcome of one scenario.
type Result struct {
	ScenarioName string        `json:"scenario"`
	Input        string        `json:"input"`
	Expected     string        `json:"expected"`
	Actual       string        `json:"actual"`
	Passed       bool          `json:"passed"`
	Reason       string        `json:"reason,omitempty"`
	Simulated    time.Duration `json:"simulated"`
}

// Scenario is one scripted playthrough.
type Scenario struct {
	Name     string
	Input    string
	Expected string
	Play     func(ctx context.Context, h *Harness) (actual string, err error)
}

// Harness owns an engine wired to a fake clock and an in-memory save slot.
type Harness struct {
	Clock   *engine.FakeClock
	Blobs   *persistence.MemoryBlobStore
	Events  *events.EventLog
	Engine  *engine.Engine
	Metrics *metrics.Collector

	cat *catalog.Catalog
	bal rules.Balance
	log *logger.Logger
	rng engine.Random
}

// NewHarness builds a fresh bakery at Epoch. A nil rng keeps golden cookies
// on their slowest schedule.
func NewHarness(rng engine.Random, log *logger.Logger) *Harness {
	if rng == nil {
		rng = engine.NewSequenceRandom(0.99)
	}
	if log == nil {
		log = logger.NewNop()
	}
	h := &Harness{
		Blobs: persistence.NewMemoryBlobStore(),
		cat:   catalog.Default(),
		bal:   rules.DefaultBalance(),
		log:   log,
		rng:   rng,
	}
	h.boot(Epoch)
	return h
}

// boot replaces the engine with a new one starting at now, sharing the save slot.
func (h *Harness) boot(now time.Time) {
	h.Clock = engine.NewFakeClock(now)
	h.Events = events.NewEventLog(nil, 0)
	h.Metrics = metrics.NewCollector()
	h.Engine = engine.NewEngine(engine.Options{
		Catalog:   h.cat,
		Balance:   &h.bal,
		Clock:     h.Clock,
		Random:    h.rng,
		Logger:    h.log,
		Events:    h.Events,
		Persister: persistence.NewBridge(h.Blobs, "", h.cat, h.bal, h.log),
		Metrics:   h.Metrics,
	})
}

// Advance moves the fake clock forward in one-second ticks.
func (h *Harness) Advance(d time.Duration) {
	for d > 0 {
		step := min(d, time.Second)
		h.Clock.Advance(step)
		h.Engine.Tick(h.Clock.Now())
		d -= step
	}
}

// Click performs n manual clicks.
func (h *Harness) Click(n int) {
	for range n {
		h.Engine.ManualClick()
	}
}

// State returns a copy of the bakery.
func (h *Harness) State() *bakery.GameState {
	return h.Engine.Snapshot().State
}

// Seed writes s to the save slot, as if a previous session had saved it.
func (h *Harness) Seed(ctx context.Context, s *bakery.GameState) error {
	blob, err := persistence.Encode(s)
	if err != nil {
		return err
	}
	return h.Blobs.Save(ctx, persistence.DefaultSaveKey, blob)
}

// Reopen closes the game and starts it again at now, loading the save slot.
func (h *Harness) Reopen(ctx context.Context, now time.Time) (persistence.LoadResult, error) {
	h.Engine.Stop()
	h.boot(now)
	return h.Engine.Load(ctx)
}

// Elapsed reports simulated time since Epoch.
func (h *Harness) Elapsed() time.Duration {
	return h.Clock.Now().Sub(Epoch)
}

// Run plays each scenario on its own harness.
func Run(ctx context.Context, scenarios []Scenario, newHarness func() *Harness) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, sc := range scenarios {
		h := newHarness()
		res := Result{ScenarioName: sc.Name, Input: sc.Input, Expected: sc.Expected}
		actual, err := sc.Play(ctx, h)
		res.Actual = actual
		res.Simulated = h.Elapsed()
		if err != nil {
			res.Reason = err.Error()
		} else {
			res.Passed = true
		}
		h.Engine.Stop()
		results = append(results, res)
	}
	return results
}

// check turns a failed expectation into an error.
func check(ok bool, format string, args ...any) error {
	if ok {
		return nil
	}
	return fmt.Errorf(format, args...)
}
