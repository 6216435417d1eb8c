package metrics

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndSnapshot(t *testing.T) {
	c := NewCollector()

	c.RecordTick(2 * time.Millisecond)
	c.RecordTick(4 * time.Millisecond)
	c.RecordSave(10*time.Millisecond, 512, nil)
	c.RecordSave(0, 0, errors.New("disk full"))
	c.RecordGolden(GoldenSpawned)
	c.RecordGolden(GoldenClicked)
	c.RecordClick()
	c.RecordWSConnection(1)

	snap := c.Snapshot()
	tick := snap["tick"].(map[string]interface{})
	assert.Equal(t, int64(2), tick["count"])
	assert.InDelta(t, 3.0, tick["avg_latency_ms"], 1e-9)
	assert.InDelta(t, 4.0, tick["max_latency_ms"], 1e-9)

	saves := snap["saves"].(map[string]interface{})
	assert.Equal(t, int64(1), saves["written"])
	assert.Equal(t, int64(1), saves["errors"])
	assert.Equal(t, int64(512), saves["last_bytes"])

	game := snap["gameplay"].(map[string]interface{})
	assert.Equal(t, int64(1), game["golden_spawned"])
	assert.Equal(t, int64(1), game["manual_clicks"])
}

func TestHandlers(t *testing.T) {
	c := NewCollector()
	c.RecordTick(time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler()(rec, httptest.NewRequest("GET", "/metrics", nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "tick")

	rec = httptest.NewRecorder()
	c.PrometheusHandler()(rec, httptest.NewRequest("GET", "/metrics/prometheus", nil))
	assert.Contains(t, rec.Body.String(), "bakery_tick_count 1")
	assert.Contains(t, rec.Body.String(), `bakery_golden_cookies_total{outcome="spawned"} 0`)
}
