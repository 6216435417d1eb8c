package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
	"github.com/biscoitoclicker/bakery/internal/domain/rules"
	"github.com/biscoitoclicker/bakery/internal/events"
	"github.com/biscoitoclicker/bakery/internal/platform/logger"
)

func TestFrenzyRefreshDoesNotCompound(t *testing.T) {
	eventLog := events.NewEventLog(nil, 0)
	es := NewEffectSystem(eventLog, logger.NewNop())
	bal := rules.DefaultBalance()
	spec, ok := rules.FrenzyEffect(bal, bakery.New(epoch), bakery.GoldenProductionFrenzy)
	require.True(t, ok)

	_, refreshed := es.Apply(spec, epoch)
	assert.False(t, refreshed)
	later := epoch.Add(10 * time.Second)
	effect, refreshed := es.Apply(spec, later)
	assert.True(t, refreshed)

	assert.Equal(t, 7.0, effect.Multiplier)
	assert.Equal(t, later.Add(77*time.Second), effect.EndTime)
	require.Len(t, es.Active(), 1)

	s := bakery.New(epoch)
	s.Buildings[catalog.BuildingCursor] = 10
	stats := rules.ComputeStats(catalog.Default(), bal, s, es.Active())
	assert.InDelta(t, 7.0, stats.ProductionRate, 1e-9)

	assert.Len(t, eventLog.Recent(events.EventTypeEffectStarted, 0), 1)
	assert.Len(t, eventLog.Recent(events.EventTypeEffectRefreshed, 0), 1)
}

func TestEffectsStackAcrossKinds(t *testing.T) {
	es := NewEffectSystem(events.NewEventLog(nil, 0), logger.NewNop())
	bal := rules.DefaultBalance()
	s := bakery.New(epoch)

	frenzy, _ := rules.FrenzyEffect(bal, s, bakery.GoldenProductionFrenzy)
	click, _ := rules.FrenzyEffect(bal, s, bakery.GoldenClickFrenzy)
	es.Apply(frenzy, epoch)
	es.Apply(click, epoch)

	active := es.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "Click Power (x777)", active[0].Label)
	assert.Equal(t, "Frenesi (x7)", active[1].Label)

	stats := rules.ComputeStats(catalog.Default(), bal, s, active)
	assert.InDelta(t, 7*777.0, stats.ClickValue, 1e-9)

	expired := es.Expire(epoch.Add(13 * time.Second))
	require.Len(t, expired, 1)
	assert.Equal(t, bakery.EffectClickBoost, expired[0].Kind)
	assert.Len(t, es.Active(), 1)
}

func TestGoldenLongevityStretchesLifeAndEffects(t *testing.T) {
	cat := catalog.Default()
	bal := rules.DefaultBalance()
	log := logger.NewNop()
	eventLog := events.NewEventLog(nil, 0)
	s := bakery.New(epoch)
	s.PurchasedSkills[catalog.SkillGoldenLongevity] = struct{}{}

	// roll 0, x, y, kind 0.95 -> click frenzy
	gs := NewGoldenCookieSystem(cat, bal, NewSequenceRandom(0, 0, 0.999, 0.95), eventLog, log)
	spawned := gs.Advance(120*time.Second, s, epoch)
	require.NotNil(t, spawned)
	assert.Equal(t, bakery.GoldenClickFrenzy, spawned.Kind)
	assert.InDelta(t, 13*1.3, spawned.Life, 1e-9)
	assert.Equal(t, 10.0, spawned.X)
	assert.InDelta(t, 89.92, spawned.Y, 1e-9)

	store := NewStore(cat, bal, s, eventLog, log)
	es := NewEffectSystem(eventLog, log)
	reward, ok := gs.Click(store, es, rules.Stats{ClickValue: 1}, epoch)
	require.True(t, ok)
	require.NotNil(t, reward.Effect)
	assert.Equal(t, time.Duration(float64(13*time.Second)*1.3), reward.Effect.Duration)
	assert.Equal(t, "Poder do Clique!", reward.Message)
}

func TestGoldenSpawnWaitsForLiveCookie(t *testing.T) {
	cat := catalog.Default()
	bal := rules.DefaultBalance()
	s := bakery.New(epoch)
	gs := NewGoldenCookieSystem(cat, bal, NewSequenceRandom(0, 0.5, 0.5, 0.1), events.NewEventLog(nil, 0), logger.NewNop())

	first := gs.Advance(120*time.Second, s, epoch)
	require.NotNil(t, first)
	assert.Nil(t, gs.Advance(120*time.Second, s, epoch), "at most one cookie alive")
	assert.Equal(t, first.ID, gs.Live().ID)

	require.NotNil(t, gs.Decay(time.Hour, epoch))
	second := gs.Advance(0, s, epoch)
	require.NotNil(t, second, "the overdue spawn fires on the first tick after the live one leaves")
	assert.NotEqual(t, first.ID, second.ID)

	gs.Reset()
	assert.Nil(t, gs.Live())
}

func TestLuckTiersShortenSpawnWindow(t *testing.T) {
	cat := catalog.Default()
	bal := rules.DefaultBalance()
	s := bakery.New(epoch)
	s.PurchasedSkills[catalog.SkillLuckyStars] = struct{}{}
	s.PurchasedSkills[catalog.BranchSkillID(catalog.BranchLuck, 1)] = struct{}{}
	s.PurchasedSkills[catalog.BranchSkillID(catalog.BranchLuck, 2)] = struct{}{}

	// 96s / (1 + 0.15) ~= 83.48s
	gs := NewGoldenCookieSystem(cat, bal, NewSequenceRandom(0, 0.5, 0.5, 0.1), events.NewEventLog(nil, 0), logger.NewNop())
	assert.Nil(t, gs.Advance(83*time.Second, s, epoch))
	assert.NotNil(t, gs.Advance(time.Second, s, epoch))
}

func TestAchievementScanIsIdempotent(t *testing.T) {
	eventLog := events.NewEventLog(nil, 0)
	as := NewAchievementSystem(catalog.Default(), eventLog, logger.NewNop())
	s := bakery.New(epoch)
	s.TotalCookies = 1500
	s.LifetimeCookies = 1500
	s.Buildings[catalog.BuildingGrandma] = 50

	first := as.Scan(s, epoch)
	ids := make([]catalog.AchievementID, 0, len(first))
	for _, a := range first {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []catalog.AchievementID{"ach_cookie_0", "ach_cookie_1", "ach_grandma_1", "ach_grandma_50"}, ids)
	assert.Empty(t, as.Scan(s, epoch))
	assert.Len(t, eventLog.Recent(events.EventTypeAchievementUnlocked, 0), 4)
}

func TestTickerStopsOnce(t *testing.T) {
	ticks := make(chan time.Time, 16)
	tk := NewTicker(time.Millisecond, RealClock{}, func(now time.Time) {
		select {
		case ticks <- now:
		default:
		}
	}, logger.NewNop())

	done := make(chan struct{})
	go func() {
		tk.Start(t.Context())
		close(done)
	}()

	<-ticks
	tk.Stop()
	tk.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop")
	}
}
