package optimization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForProfile(t *testing.T) {
	cfg, err := ForProfile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = ForProfile(ProfileStress)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.MaxClients)

	_, err = ForProfile("turbo")
	assert.Error(t, err)
}

func TestAnalyzeAndApply(t *testing.T) {
	snapshot := map[string]interface{}{
		"tick":      map[string]interface{}{"max_latency_ms": 80.0},
		"saves":     map[string]interface{}{"errors": int64(1), "max_latency_ms": 10.0},
		"events":    map[string]interface{}{"errors": int64(0)},
		"websocket": map[string]interface{}{"errors": int64(2), "rate_limited": int64(5)},
	}

	rec := Analyze(snapshot)
	assert.True(t, rec.SlowStatePush)
	assert.True(t, rec.IncreaseBroadcastBuffer)
	assert.True(t, rec.RaiseActionLimit)
	assert.False(t, rec.IncreaseSubscriptionBuffer)
	assert.Len(t, rec.Notes, 4)

	cfg := ApplyRecommendations(DefaultConfig(), rec)
	assert.Equal(t, 500*time.Millisecond, cfg.StatePushInterval)
	assert.Equal(t, 64, cfg.ClientSendBuffer)
	assert.Equal(t, 45.0, cfg.MaxActionsPerSecond)
}

func TestAnalyzeQuietMetrics(t *testing.T) {
	rec := Analyze(map[string]interface{}{})
	assert.Empty(t, rec.Notes)
}
