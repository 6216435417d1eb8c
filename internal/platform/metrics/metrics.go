// Package metrics provides observability for the bakery server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance and gameplay metrics.
type Collector struct {
	// Tick metrics
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	LastTickTime   time.Time

	// Save metrics
	SavesWritten   int64
	SaveLatencySum int64
	SaveLatencyMax int64
	SaveErrors     int64
	LastSaveBytes  int64

	// Event ledger metrics
	EventsPersisted  int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64
	WSRateLimited       int64

	// Gameplay
	ManualClicks        int64
	Purchases           int64
	GoldenSpawned       int64
	GoldenClicked       int64
	GoldenExpired       int64
	Ascensions          int64
	AchievementsUnlocks int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = NewCollector()

// NewCollector creates an empty collector. Tests use their own instance.
func NewCollector() *Collector {
	return &Collector{StartTime: time.Now()}
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

func storeMax(addr *int64, v int64) {
	for {
		cur := atomic.LoadInt64(addr)
		if v <= cur || atomic.CompareAndSwapInt64(addr, cur, v) {
			return
		}
	}
}

// RecordTick records a tick cycle completion.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))
	storeMax(&c.TickLatencyMax, int64(latency))

	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordSave records a save blob write.
func (c *Collector) RecordSave(latency time.Duration, bytes int, err error) {
	if err != nil {
		atomic.AddInt64(&c.SaveErrors, 1)
		return
	}
	atomic.AddInt64(&c.SavesWritten, 1)
	atomic.AddInt64(&c.SaveLatencySum, int64(latency))
	storeMax(&c.SaveLatencyMax, int64(latency))
	atomic.StoreInt64(&c.LastSaveBytes, int64(bytes))
}

// RecordEventWrite records an event ledger write.
func (c *Collector) RecordEventWrite(err error) {
	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
		return
	}
	atomic.AddInt64(&c.EventsPersisted, 1)
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// RecordWSRateLimited records an action dropped by the client limiter.
func (c *Collector) RecordWSRateLimited() {
	atomic.AddInt64(&c.WSRateLimited, 1)
}

// RecordClick records a manual click.
func (c *Collector) RecordClick() {
	atomic.AddInt64(&c.ManualClicks, 1)
}

// RecordPurchase records a successful building, upgrade or skill purchase.
func (c *Collector) RecordPurchase() {
	atomic.AddInt64(&c.Purchases, 1)
}

// GoldenOutcome is a golden cookie lifecycle step.
type GoldenOutcome int

const (
	GoldenSpawned GoldenOutcome = iota
	GoldenClicked
	GoldenExpired
)

// RecordGolden records a golden cookie lifecycle step.
func (c *Collector) RecordGolden(o GoldenOutcome) {
	switch o {
	case GoldenSpawned:
		atomic.AddInt64(&c.GoldenSpawned, 1)
	case GoldenClicked:
		atomic.AddInt64(&c.GoldenClicked, 1)
	case GoldenExpired:
		atomic.AddInt64(&c.GoldenExpired, 1)
	}
}

// RecordAscension records a successful ascension.
func (c *Collector) RecordAscension() {
	atomic.AddInt64(&c.Ascensions, 1)
}

// RecordAchievements records newly unlocked achievements.
func (c *Collector) RecordAchievements(n int) {
	atomic.AddInt64(&c.AchievementsUnlocks, int64(n))
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tickCount := atomic.LoadInt64(&c.TickCount)
	saves := atomic.LoadInt64(&c.SavesWritten)

	var tickAvg, saveAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6 // ms
	}
	if saves > 0 {
		saveAvg = float64(atomic.LoadInt64(&c.SaveLatencySum)) / float64(saves) / 1e6
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"last_tick":      c.LastTickTime.Format(time.RFC3339),
		},

		"saves": map[string]interface{}{
			"written":        saves,
			"avg_latency_ms": saveAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.SaveLatencyMax)) / 1e6,
			"errors":         atomic.LoadInt64(&c.SaveErrors),
			"last_bytes":     atomic.LoadInt64(&c.LastSaveBytes),
		},

		"events": map[string]interface{}{
			"persisted": atomic.LoadInt64(&c.EventsPersisted),
			"errors":    atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
			"rate_limited":       atomic.LoadInt64(&c.WSRateLimited),
		},

		"gameplay": map[string]interface{}{
			"manual_clicks":  atomic.LoadInt64(&c.ManualClicks),
			"purchases":      atomic.LoadInt64(&c.Purchases),
			"golden_spawned": atomic.LoadInt64(&c.GoldenSpawned),
			"golden_clicked": atomic.LoadInt64(&c.GoldenClicked),
			"golden_expired": atomic.LoadInt64(&c.GoldenExpired),
			"ascensions":     atomic.LoadInt64(&c.Ascensions),
			"achievements":   atomic.LoadInt64(&c.AchievementsUnlocks),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// PrometheusHandler returns metrics in Prometheus text format.
func (c *Collector) PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		counter := func(name, help string, v int64) {
			fmt.Fprintf(w, "# HELP bakery_%s %s\n", name, help)
			fmt.Fprintf(w, "# TYPE bakery_%s counter\n", name)
			fmt.Fprintf(w, "bakery_%s %d\n\n", name, v)
		}

		counter("tick_count", "Total tick cycles", atomic.LoadInt64(&c.TickCount))

		fmt.Fprintf(w, "# HELP bakery_tick_latency_max_ms Maximum tick latency\n")
		fmt.Fprintf(w, "# TYPE bakery_tick_latency_max_ms gauge\n")
		fmt.Fprintf(w, "bakery_tick_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TickLatencyMax))/1e6)

		counter("saves_written", "Total save blobs written", atomic.LoadInt64(&c.SavesWritten))
		counter("save_errors", "Total failed saves", atomic.LoadInt64(&c.SaveErrors))
		counter("events_persisted", "Total events written to the ledger", atomic.LoadInt64(&c.EventsPersisted))
		counter("event_write_errors", "Total ledger write errors", atomic.LoadInt64(&c.EventWriteErrors))

		fmt.Fprintf(w, "# HELP bakery_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE bakery_ws_connections gauge\n")
		fmt.Fprintf(w, "bakery_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP bakery_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE bakery_ws_messages_total counter\n")
		fmt.Fprintf(w, "bakery_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "bakery_ws_messages_total{direction=\"out\"} %d\n\n", atomic.LoadInt64(&c.WSMessagesOut))

		counter("manual_clicks", "Total manual clicks", atomic.LoadInt64(&c.ManualClicks))
		counter("purchases", "Total successful purchases", atomic.LoadInt64(&c.Purchases))

		fmt.Fprintf(w, "# HELP bakery_golden_cookies_total Golden cookie lifecycle steps\n")
		fmt.Fprintf(w, "# TYPE bakery_golden_cookies_total counter\n")
		fmt.Fprintf(w, "bakery_golden_cookies_total{outcome=\"spawned\"} %d\n", atomic.LoadInt64(&c.GoldenSpawned))
		fmt.Fprintf(w, "bakery_golden_cookies_total{outcome=\"clicked\"} %d\n", atomic.LoadInt64(&c.GoldenClicked))
		fmt.Fprintf(w, "bakery_golden_cookies_total{outcome=\"expired\"} %d\n\n", atomic.LoadInt64(&c.GoldenExpired))

		counter("ascensions", "Total ascensions", atomic.LoadInt64(&c.Ascensions))
	}
}
