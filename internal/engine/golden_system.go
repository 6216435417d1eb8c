// Package engine - golden_system.go
// Golden Cookie System: the random event controller.
// Dormant -> Spawned -> (Clicked | Expired) -> Dormant.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
	"github.com/biscoitoclicker/bakery/internal/domain/rules"
	"github.com/biscoitoclicker/bakery/internal/events"
	"github.com/biscoitoclicker/bakery/internal/platform/format"
	"github.com/biscoitoclicker/bakery/internal/platform/logger"
)

// GoldenReward describes the outcome of clicking a golden cookie.
type GoldenReward struct {
	Kind    bakery.GoldenKind    `json:"kind"`
	Cookies float64              `json:"cookies,omitempty"`
	Effect  *bakery.ActiveEffect `json:"effect,omitempty"`
	Message string               `json:"message"`
}

// GoldenCookieSystem owns the spawn timer and the live cookie.
type GoldenCookieSystem struct {
	cat      *catalog.Catalog
	bal      rules.Balance
	rng      Random
	eventLog *events.EventLog
	logger   *logger.Logger

	live    *bakery.GoldenCookie
	elapsed time.Duration // since the last spawn
	roll    float64       // threshold draw for the current window
	rolled  bool
}

// NewGoldenCookieSystem creates a dormant controller.
func NewGoldenCookieSystem(cat *catalog.Catalog, bal rules.Balance, rng Random, eventLog *events.EventLog, log *logger.Logger) *GoldenCookieSystem {
	return &GoldenCookieSystem{
		cat:      cat,
		bal:      bal,
		rng:      rng,
		eventLog: eventLog,
		logger:   log,
	}
}

// Live returns a copy of the live cookie, or nil.
func (gs *GoldenCookieSystem) Live() *bakery.GoldenCookie {
	if gs.live == nil {
		return nil
	}
	c := *gs.live
	return &c
}

// Reset returns to dormant with a fresh window.
func (gs *GoldenCookieSystem) Reset() {
	gs.live = nil
	gs.elapsed = 0
	gs.rolled = false
}

// Decay shortens the live cookie's life. It returns the cookie if it vanished.
func (gs *GoldenCookieSystem) Decay(elapsed time.Duration, now time.Time) *bakery.GoldenCookie {
	if gs.live == nil {
		return nil
	}
	gs.live.Life -= elapsed.Seconds()
	if gs.live.Life > 0 {
		return nil
	}
	gone := *gs.live
	gs.live = nil
	gs.emit(now, events.EventTypeGoldenCookieExpired, &gone, nil)
	gs.logger.Event(string(events.EventTypeGoldenCookieExpired), events.ActorOven, "golden cookie "+gone.ID+" vanished")
	return &gone
}

// Advance runs the spawn timer. The threshold is drawn once per window in
// [window, 2·window); the window itself follows the skills owned right now.
// It returns the new cookie if one spawned.
func (gs *GoldenCookieSystem) Advance(elapsed time.Duration, s *bakery.GameState, now time.Time) *bakery.GoldenCookie {
	gs.elapsed += elapsed
	if !gs.rolled {
		gs.roll = gs.rng.Float64()
		gs.rolled = true
	}
	window := rules.SpawnWindow(gs.cat, gs.bal, s)
	threshold := time.Duration(float64(window) * (1 + gs.roll))
	if gs.elapsed < threshold || gs.live != nil {
		// a due cookie waits for the live one to go away
		return nil
	}
	gs.elapsed = 0
	gs.rolled = false

	gs.live = &bakery.GoldenCookie{
		ID:        uuid.NewString(),
		X:         rules.GoldenMinPosition + gs.rng.Float64()*rules.GoldenPositionSpan,
		Y:         rules.GoldenMinPosition + gs.rng.Float64()*rules.GoldenPositionSpan,
		Kind:      rules.PickGoldenKind(gs.bal, gs.rng.Float64()),
		Life:      rules.GoldenLifetime(gs.bal, s).Seconds(),
		SpawnedAt: now,
	}
	spawned := *gs.live
	gs.emit(now, events.EventTypeGoldenCookieSpawned, &spawned, nil)
	gs.logger.Event(string(events.EventTypeGoldenCookieSpawned), events.ActorOven,
		fmt.Sprintf("%s at (%.0f%%, %.0f%%)", spawned.Kind, spawned.X, spawned.Y))
	return &spawned
}

// Click consumes the live cookie and applies its reward. It reports false
// when no cookie is on screen.
func (gs *GoldenCookieSystem) Click(store *Store, effects *EffectSystem, stats rules.Stats, now time.Time) (GoldenReward, bool) {
	if gs.live == nil {
		return GoldenReward{}, false
	}
	cookie := *gs.live
	gs.live = nil

	reward := GoldenReward{Kind: cookie.Kind}
	if cookie.Kind == bakery.GoldenLucky {
		gain := rules.LuckyReward(gs.bal, store.State().Cookies, stats)
		store.Accrue(gain)
		reward.Cookies = gain
		reward.Message = "Sortudo! +" + format.Cookies(gain)
	} else if spec, ok := rules.FrenzyEffect(gs.bal, store.State(), cookie.Kind); ok {
		effect, refreshed := effects.Apply(spec, now)
		reward.Effect = &effect
		reward.Message = frenzyMessage(cookie.Kind, refreshed)
	}

	gs.emit(now, events.EventTypeGoldenCookieClicked, &cookie, &reward)
	return reward, true
}

func frenzyMessage(kind bakery.GoldenKind, refreshed bool) string {
	switch {
	case kind == bakery.GoldenProductionFrenzy && refreshed:
		return "Frenesi Renovado!"
	case kind == bakery.GoldenProductionFrenzy:
		return "Frenesi!"
	case refreshed:
		return "Poder Renovado!"
	default:
		return "Poder do Clique!"
	}
}

func (gs *GoldenCookieSystem) emit(now time.Time, t events.EventType, c *bakery.GoldenCookie, reward *GoldenReward) {
	var payload any = events.GoldenCookiePayload{
		CookieID: c.ID,
		Kind:     string(c.Kind),
		X:        c.X,
		Y:        c.Y,
		Life:     c.Life,
	}
	actor := events.ActorOven
	if reward != nil {
		actor = events.ActorPlayer
		payload = events.GoldenRewardPayload{
			CookieID: c.ID,
			Kind:     string(c.Kind),
			Cookies:  reward.Cookies,
			Message:  reward.Message,
		}
	}
	gs.eventLog.Append(events.GameEvent{
		Timestamp: now,
		Type:      t,
		ActorID:   actor,
		TargetID:  c.ID,
		Payload:   payload,
	})
}
