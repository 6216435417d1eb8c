// Package optimization provides concurrency tuning for the bridge and storage.
package optimization

import (
	"fmt"
	"time"
)

// Profile names accepted by ForProfile.
const (
	ProfileDefault     = "default"
	ProfileStress      = "stress"
	ProfileLowResource = "low"
)

// Config holds tuned parameters for the websocket bridge and SQLite.
type Config struct {
	// Channel buffer sizes
	EventSubscriptionBuffer int
	BroadcastChannelBuffer  int
	ClientSendBuffer        int

	// Connection pool; InitSQLite already pins SQLite to one open connection.
	DBMaxIdleConns int

	// Bridge pacing
	StatePushInterval time.Duration

	// Rate limiting
	MaxActionsPerSecond float64
	ActionBurst         int
	MaxClients          int
}

// DefaultConfig returns sensible defaults for a local bakery.
func DefaultConfig() *Config {
	return &Config{
		EventSubscriptionBuffer: 256,
		BroadcastChannelBuffer:  64,
		ClientSendBuffer:        32,

		DBMaxIdleConns: 1,

		StatePushInterval: 250 * time.Millisecond,

		MaxActionsPerSecond: 30, // faster than any human clicker
		ActionBurst:         60,
		MaxClients:          8,
	}
}

// StressTestConfig returns aggressive settings for the autoclicker load bot.
func StressTestConfig() *Config {
	return &Config{
		EventSubscriptionBuffer: 4096,
		BroadcastChannelBuffer:  512,
		ClientSendBuffer:        128,

		DBMaxIdleConns: 1,

		StatePushInterval: 100 * time.Millisecond,

		MaxActionsPerSecond: 1000,
		ActionBurst:         2000,
		MaxClients:          200,
	}
}

// LowResourceConfig returns minimal settings for development.
func LowResourceConfig() *Config {
	return &Config{
		EventSubscriptionBuffer: 32,
		BroadcastChannelBuffer:  8,
		ClientSendBuffer:        8,

		DBMaxIdleConns: 1,

		StatePushInterval: time.Second,

		MaxActionsPerSecond: 15,
		ActionBurst:         20,
		MaxClients:          2,
	}
}

// ForProfile resolves a profile name.
func ForProfile(name string) (*Config, error) {
	switch name {
	case "", ProfileDefault:
		return DefaultConfig(), nil
	case ProfileStress:
		return StressTestConfig(), nil
	case ProfileLowResource:
		return LowResourceConfig(), nil
	}
	return nil, fmt.Errorf("unknown tuning profile %q", name)
}

// Recommendations provides suggestions based on observed metrics.
type Recommendations struct {
	IncreaseSubscriptionBuffer bool
	IncreaseBroadcastBuffer    bool
	RaiseActionLimit           bool
	SlowStatePush              bool
	Notes                      []string
}

// Analyze examines a metrics snapshot and returns tuning recommendations.
func Analyze(metrics map[string]interface{}) *Recommendations {
	rec := &Recommendations{
		Notes: make([]string, 0),
	}

	if tick, ok := metrics["tick"].(map[string]interface{}); ok {
		if maxLat, ok := tick["max_latency_ms"].(float64); ok && maxLat > 50 {
			rec.SlowStatePush = true
			rec.Notes = append(rec.Notes, "Tick latency exceeds 50ms - push state less often")
		}
	}

	if saves, ok := metrics["saves"].(map[string]interface{}); ok {
		if errors, ok := saves["errors"].(int64); ok && errors > 0 {
			rec.Notes = append(rec.Notes, "Save errors detected - check the database path and disk")
		}
		if maxLat, ok := saves["max_latency_ms"].(float64); ok && maxLat > 200 {
			rec.Notes = append(rec.Notes, "Save latency exceeds 200ms - move the database to faster storage")
		}
	}

	if events, ok := metrics["events"].(map[string]interface{}); ok {
		if errors, ok := events["errors"].(int64); ok && errors > 0 {
			rec.IncreaseSubscriptionBuffer = true
			rec.Notes = append(rec.Notes, "Event ledger errors detected - history may have gaps")
		}
	}

	if ws, ok := metrics["websocket"].(map[string]interface{}); ok {
		if errors, ok := ws["errors"].(int64); ok && errors > 0 {
			rec.IncreaseBroadcastBuffer = true
			rec.Notes = append(rec.Notes, "WebSocket errors detected - increase client send buffer")
		}
		if limited, ok := ws["rate_limited"].(int64); ok && limited > 0 {
			rec.RaiseActionLimit = true
			rec.Notes = append(rec.Notes, "Client actions were rate limited - raise the action limit")
		}
	}

	return rec
}

// ApplyRecommendations modifies config based on recommendations.
func ApplyRecommendations(config *Config, rec *Recommendations) *Config {
	if rec.IncreaseSubscriptionBuffer {
		config.EventSubscriptionBuffer *= 2
	}
	if rec.IncreaseBroadcastBuffer {
		config.BroadcastChannelBuffer *= 2
		config.ClientSendBuffer *= 2
	}
	if rec.RaiseActionLimit {
		config.MaxActionsPerSecond *= 1.5
		config.ActionBurst *= 2
	}
	if rec.SlowStatePush {
		config.StatePushInterval *= 2
	}
	return config
}
