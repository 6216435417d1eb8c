// Package engine - effect_system.go
// Effect System: timed multipliers installed by golden cookies.
// One slot per kind; a refresh resets the end time and never compounds.
package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/rules"
	"github.com/biscoitoclicker/bakery/internal/events"
	"github.com/biscoitoclicker/bakery/internal/platform/format"
	"github.com/biscoitoclicker/bakery/internal/platform/logger"
)

// EffectSystem tracks active effects.
type EffectSystem struct {
	effects  map[bakery.EffectKind]bakery.ActiveEffect
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewEffectSystem creates an empty effect tracker.
func NewEffectSystem(eventLog *events.EventLog, log *logger.Logger) *EffectSystem {
	return &EffectSystem{
		effects:  make(map[bakery.EffectKind]bakery.ActiveEffect),
		eventLog: eventLog,
		logger:   log,
	}
}

// Apply installs an effect, or refreshes the existing one of the same kind:
// the multiplier stays the base value and the end time restarts from now.
func (es *EffectSystem) Apply(spec rules.EffectSpec, now time.Time) (bakery.ActiveEffect, bool) {
	_, refreshed := es.effects[spec.Kind]
	effect := bakery.ActiveEffect{
		Kind:       spec.Kind,
		Label:      fmt.Sprintf("%s (x%g)", spec.Label, spec.Multiplier),
		Multiplier: spec.Multiplier,
		StartTime:  now,
		EndTime:    now.Add(spec.Duration),
		Duration:   spec.Duration,
	}
	es.effects[spec.Kind] = effect

	eventType := events.EventTypeEffectStarted
	if refreshed {
		eventType = events.EventTypeEffectRefreshed
	}
	es.emit(now, eventType, effect)
	es.logger.Event(string(eventType), events.ActorOven, effect.Label+" for "+format.Duration(spec.Duration))
	return effect, refreshed
}

// Expire removes effects whose end time is at or before now.
func (es *EffectSystem) Expire(now time.Time) []bakery.ActiveEffect {
	var expired []bakery.ActiveEffect
	for kind, e := range es.effects {
		if e.Expired(now) {
			delete(es.effects, kind)
			expired = append(expired, e)
		}
	}
	slices.SortFunc(expired, func(a, b bakery.ActiveEffect) int {
		return compareKind(a.Kind, b.Kind)
	})
	for _, e := range expired {
		es.emit(now, events.EventTypeEffectExpired, e)
	}
	return expired
}

// Active returns the current effects ordered by kind.
func (es *EffectSystem) Active() []bakery.ActiveEffect {
	out := make([]bakery.ActiveEffect, 0, len(es.effects))
	for _, e := range es.effects {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b bakery.ActiveEffect) int {
		return compareKind(a.Kind, b.Kind)
	})
	return out
}

// Clear drops every effect without emitting events.
func (es *EffectSystem) Clear() {
	clear(es.effects)
}

func (es *EffectSystem) emit(now time.Time, t events.EventType, e bakery.ActiveEffect) {
	es.eventLog.Append(events.GameEvent{
		Timestamp: now,
		Type:      t,
		ActorID:   events.ActorOven,
		TargetID:  string(e.Kind),
		Payload: events.EffectPayload{
			Kind:       string(e.Kind),
			Label:      e.Label,
			Multiplier: e.Multiplier,
			EndTime:    e.EndTime,
			Duration:   e.Duration,
		},
	})
}

func compareKind(a, b bakery.EffectKind) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
