package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
	"github.com/biscoitoclicker/bakery/internal/domain/rules"
	"github.com/biscoitoclicker/bakery/internal/events"
	"github.com/biscoitoclicker/bakery/internal/persistence"
	"github.com/biscoitoclicker/bakery/internal/platform/format"
	"github.com/biscoitoclicker/bakery/internal/platform/logger"
	"github.com/biscoitoclicker/bakery/internal/platform/metrics"
)

// ErrNoPersister is returned by Save, Load and ResetGame's delete step when
// the engine was built without storage.
var ErrNoPersister = errors.New("engine has no persister")

// Persister moves the bakery in and out of durable storage.
// *persistence.Bridge is the production implementation.
type Persister interface {
	Load(ctx context.Context, now time.Time) (persistence.LoadResult, error)
	Save(ctx context.Context, s *bakery.GameState) (int, error)
	Delete(ctx context.Context) error
}

// Options wires an Engine. Zero fields take production defaults.
type Options struct {
	Catalog      *catalog.Catalog
	Balance      *rules.Balance
	Clock        Clock
	Random       Random
	Logger       *logger.Logger
	Events       *events.EventLog
	Persister    Persister
	Metrics      *metrics.Collector
	TickInterval time.Duration
}

// View is a consistent, deep-copied read of everything a renderer shows.
type View struct {
	Time          time.Time             `json:"time"`
	State         *bakery.GameState     `json:"-"`
	Stats         rules.Stats           `json:"stats"`
	Effects       []bakery.ActiveEffect `json:"effects"`
	GoldenCookie  *bakery.GoldenCookie  `json:"goldenCookie,omitempty"`
	Prestige      rules.PrestigePreview `json:"prestige"`
	Notifications []catalog.Achievement `json:"notifications"`
}

// Engine is the central orchestrator: it owns the bakery and serializes every
// mutation, whether it comes from the ticker or from a player.
type Engine struct {
	mu sync.Mutex

	cat       *catalog.Catalog
	bal       rules.Balance
	clock     Clock
	eventLog  *events.EventLog
	logger    *logger.Logger
	persister Persister
	metrics   *metrics.Collector
	interval  time.Duration

	// Sub-systems
	store        *Store
	achievements *AchievementSystem
	effects      *EffectSystem
	golden       *GoldenCookieSystem

	// State
	notifications []catalog.Achievement
	lastTick      time.Time
	sinceSave     time.Duration
	saveGen       uint64 // bumped per snapshot handed to the persister
	stopped       bool
	ticker        *Ticker
	wg            sync.WaitGroup

	saveMu     sync.Mutex
	writtenGen uint64
}

// NewEngine builds an engine around a fresh bakery. Call Load to resume a save.
func NewEngine(opts Options) *Engine {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	bal := rules.DefaultBalance()
	if opts.Balance != nil {
		bal = *opts.Balance
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Random == nil {
		opts.Random = NewRandom(uint64(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Events == nil {
		opts.Events = events.NewEventLog(nil, events.DefaultRetention)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Get()
	}

	now := opts.Clock.Now()
	return &Engine{
		cat:       opts.Catalog,
		bal:       bal,
		clock:     opts.Clock,
		eventLog:  opts.Events,
		logger:    opts.Logger,
		persister: opts.Persister,
		metrics:   opts.Metrics,
		interval:  opts.TickInterval,

		store:        NewStore(opts.Catalog, bal, bakery.New(now), opts.Events, opts.Logger),
		achievements: NewAchievementSystem(opts.Catalog, opts.Events, opts.Logger),
		effects:      NewEffectSystem(opts.Events, opts.Logger),
		golden:       NewGoldenCookieSystem(opts.Catalog, bal, opts.Random, opts.Events, opts.Logger),

		lastTick: now,
	}
}

// Start spawns the ticker. It returns immediately; Stop waits for the loop.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.stopped || e.ticker != nil {
		e.mu.Unlock()
		return
	}
	e.lastTick = e.clock.Now()
	e.ticker = NewTicker(e.interval, e.clock, e.Tick, e.logger)
	ticker := e.ticker
	e.mu.Unlock()

	e.logger.Info("Starting bakery engine...")
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker.Start(ctx)
	}()
}

// Stop halts the ticker and waits for it. Later ticks are ignored.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.stopped = true
	ticker := e.ticker
	e.mu.Unlock()

	if ticker != nil {
		ticker.Stop()
	}
	e.wg.Wait()
}

// Tick advances the simulation to now. The ticker calls it; tests and
// scenarios call it directly with a fake clock.
func (e *Engine) Tick(now time.Time) {
	start := time.Now()

	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	elapsed := min(max(now.Sub(e.lastTick), 0), e.bal.TickCap)
	e.lastTick = now

	stats := e.computeStats(now)
	e.store.Accrue(stats.ProductionRate * elapsed.Seconds())
	e.scanAchievements(now)

	if e.golden.Decay(elapsed, now) != nil {
		e.metrics.RecordGolden(metrics.GoldenExpired)
	}
	if e.golden.Advance(elapsed, e.store.State(), now) != nil {
		e.metrics.RecordGolden(metrics.GoldenSpawned)
	}

	var snapshot *bakery.GameState
	var gen uint64
	e.sinceSave += elapsed
	if e.persister != nil && e.bal.AutosaveInterval > 0 && e.sinceSave >= e.bal.AutosaveInterval {
		snapshot, gen = e.snapshotForSave(now)
	}
	e.mu.Unlock()

	e.metrics.RecordTick(time.Since(start))
	if snapshot != nil {
		_ = e.persist(context.Background(), snapshot, gen, "autosave", events.ActorOven)
	}
}

// ManualClick bakes one click and returns the cookies it earned.
func (e *Engine) ManualClick() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	amount := e.store.ManualClick(e.computeStats(now).ClickValue)
	e.scanAchievements(now)
	e.metrics.RecordClick()
	return amount
}

// BuyBuilding buys quantity units of a building.
func (e *Engine) BuyBuilding(id catalog.BuildingID, quantity int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	if !e.store.BuyBuilding(id, quantity, now) {
		return false
	}
	e.afterPurchase(now)
	return true
}

// BuyUpgrade buys an upgrade by id.
func (e *Engine) BuyUpgrade(id catalog.UpgradeID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	if !e.store.BuyUpgrade(id, now) {
		return false
	}
	e.afterPurchase(now)
	return true
}

// BuySkill spends crystals on a skill.
func (e *Engine) BuySkill(id catalog.SkillID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	if !e.store.BuySkill(id, now) {
		return false
	}
	e.afterPurchase(now)
	return true
}

// Ascend resets the epoch for crystals, clears effects and the golden cookie,
// and saves. The returned error only reports the save.
func (e *Engine) Ascend(ctx context.Context) (int, bool, error) {
	e.mu.Lock()
	now := e.clock.Now()
	gain, ok := e.store.Ascend(now)
	if !ok {
		e.mu.Unlock()
		return 0, false, nil
	}
	e.effects.Clear()
	e.golden.Reset()
	e.scanAchievements(now)
	e.metrics.RecordAscension()

	var snapshot *bakery.GameState
	var gen uint64
	if e.persister != nil {
		snapshot, gen = e.snapshotForSave(now)
	}
	e.mu.Unlock()

	if snapshot == nil {
		return gain, true, nil
	}
	return gain, true, e.persist(ctx, snapshot, gen, "ascend", events.ActorPlayer)
}

// ClickGoldenCookie claims the live golden cookie, if any.
func (e *Engine) ClickGoldenCookie() (GoldenReward, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	reward, ok := e.golden.Click(e.store, e.effects, e.computeStats(now), now)
	if !ok {
		return GoldenReward{}, false
	}
	e.scanAchievements(now)
	e.metrics.RecordGolden(metrics.GoldenClicked)
	return reward, true
}

// UpdateBakeryName renames the bakery. Blank names are rejected.
func (e *Engine) UpdateBakeryName(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.UpdateBakeryName(name, e.clock.Now())
}

// Save writes the bakery now.
func (e *Engine) Save(ctx context.Context) error {
	if e.persister == nil {
		return ErrNoPersister
	}
	e.mu.Lock()
	snapshot, gen := e.snapshotForSave(e.clock.Now())
	e.mu.Unlock()
	return e.persist(ctx, snapshot, gen, "manual", events.ActorPlayer)
}

// Load replaces the bakery with the stored one, credited for time away.
// A missing or corrupt save leaves a fresh bakery in place.
func (e *Engine) Load(ctx context.Context) (persistence.LoadResult, error) {
	if e.persister == nil {
		return persistence.LoadResult{}, ErrNoPersister
	}
	res, err := e.persister.Load(ctx, e.clock.Now())
	if err != nil {
		return persistence.LoadResult{}, fmt.Errorf("failed to load game: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	e.store.Replace(res.State)
	e.effects.Clear()
	e.golden.Reset()
	e.notifications = nil
	e.lastTick = now
	e.sinceSave = 0
	e.scanAchievements(now)

	e.eventLog.Append(events.GameEvent{
		Timestamp: now,
		Type:      events.EventTypeGameLoaded,
		ActorID:   events.ActorOven,
		Payload: events.LoadPayload{
			Found:          res.Found,
			Corrupt:        res.Corrupt,
			OfflineSeconds: res.Offline.Credited.Seconds(),
			OfflineCookies: res.Offline.Cookies,
		},
	})
	e.logger.Event(string(events.EventTypeGameLoaded), events.ActorOven,
		fmt.Sprintf("%s with %s cookies, %s crystals", res.State.BakeryName,
			format.Cookies(res.State.Cookies), format.Crystals(res.State.PrestigeLevel)))
	return res, nil
}

// ResetGame wipes everything, prestige included, and deletes the stored save.
func (e *Engine) ResetGame(ctx context.Context) error {
	e.mu.Lock()
	now := e.clock.Now()
	e.store.Reset(now)
	e.effects.Clear()
	e.golden.Reset()
	e.notifications = nil
	e.sinceSave = 0
	e.saveGen++ // any save still in flight is now stale
	e.eventLog.Append(events.GameEvent{
		Timestamp: now,
		Type:      events.EventTypeGameReset,
		ActorID:   events.ActorPlayer,
	})
	gen := e.saveGen
	e.mu.Unlock()

	if e.persister == nil {
		return nil
	}
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	e.writtenGen = max(e.writtenGen, gen)
	if err := e.persister.Delete(ctx); err != nil {
		return fmt.Errorf("failed to reset game: %w", err)
	}
	return nil
}

// Snapshot returns a deep copy of the bakery and everything derived from it.
func (e *Engine) Snapshot() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	stats := e.computeStats(now)
	state := e.store.State()
	return View{
		Time:          now,
		State:         state.Clone(),
		Stats:         stats,
		Effects:       e.effects.Active(),
		GoldenCookie:  e.golden.Live(),
		Prestige:      rules.Preview(e.cat, e.bal, state),
		Notifications: slices.Clone(e.notifications),
	}
}

// Stats returns the current production rate and click value.
func (e *Engine) Stats() rules.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.computeStats(e.clock.Now())
}

// BuildingPrice is the cumulative price of the next quantity units.
func (e *Engine) BuildingPrice(id catalog.BuildingID, quantity int) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return rules.BuildingPrice(e.cat, e.bal, e.store.State(), id, quantity)
}

// UpgradePrice is the current price of an upgrade.
func (e *Engine) UpgradePrice(id catalog.UpgradeID) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return rules.UpgradePrice(e.cat, e.bal, e.store.State(), id)
}

// AvailableUpgrades lists unowned upgrades whose unlock predicate holds.
func (e *Engine) AvailableUpgrades() []catalog.Upgrade {
	e.mu.Lock()
	defer e.mu.Unlock()
	return rules.AvailableUpgrades(e.cat, e.store.State())
}

// PrestigePreview reports what ascending now would grant.
func (e *Engine) PrestigePreview() rules.PrestigePreview {
	e.mu.Lock()
	defer e.mu.Unlock()
	return rules.Preview(e.cat, e.bal, e.store.State())
}

// Notifications returns the queued achievement unlocks, oldest first.
func (e *Engine) Notifications() []catalog.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.notifications)
}

// DismissNotification drops a queued unlock.
func (e *Engine) DismissNotification(id catalog.AchievementID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := slices.IndexFunc(e.notifications, func(a catalog.Achievement) bool { return a.ID == id })
	if i < 0 {
		return false
	}
	e.notifications = slices.Delete(e.notifications, i, i+1)
	return true
}

// Catalog exposes the immutable content tables.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Balance exposes the tuning in effect.
func (e *Engine) Balance() rules.Balance {
	return e.bal
}

// GetEventLog exposes the event log for subscribers such as the bridge.
func (e *Engine) GetEventLog() *events.EventLog {
	return e.eventLog
}

// computeStats drops effects that ended at or before now, then derives the
// stats from what is left. Must be called with e.mu held.
func (e *Engine) computeStats(now time.Time) rules.Stats {
	e.effects.Expire(now)
	return rules.ComputeStats(e.cat, e.bal, e.store.State(), e.effects.Active())
}

// scanAchievements must be called with e.mu held.
func (e *Engine) scanAchievements(now time.Time) {
	unlocked := e.achievements.Scan(e.store.State(), now)
	if len(unlocked) == 0 {
		return
	}
	e.notifications = append(e.notifications, unlocked...)
	e.metrics.RecordAchievements(len(unlocked))
}

// afterPurchase must be called with e.mu held.
func (e *Engine) afterPurchase(now time.Time) {
	e.metrics.RecordPurchase()
	e.scanAchievements(now)
}

// snapshotForSave stamps the save time and copies the state. Must be called with e.mu held.
func (e *Engine) snapshotForSave(now time.Time) (*bakery.GameState, uint64) {
	e.sinceSave = 0
	e.saveGen++
	state := e.store.State()
	state.LastSaveTime = now
	return state.Clone(), e.saveGen
}

// persist writes a snapshot outside the engine lock. Snapshots older than
// one already written are dropped.
func (e *Engine) persist(ctx context.Context, snapshot *bakery.GameState, gen uint64, reason, actor string) error {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	if gen <= e.writtenGen {
		return nil
	}

	start := time.Now()
	n, err := e.persister.Save(ctx, snapshot)
	e.metrics.RecordSave(time.Since(start), n, err)
	if err != nil {
		e.logger.Errorf("%s failed: %v", reason, err)
		return fmt.Errorf("failed to save game: %w", err)
	}
	e.writtenGen = gen

	e.eventLog.Append(events.GameEvent{
		Timestamp: snapshot.LastSaveTime,
		Type:      events.EventTypeGameSaved,
		ActorID:   actor,
		Payload:   events.SavePayload{Reason: reason, Bytes: n},
	})
	e.logger.Event(string(events.EventTypeGameSaved), actor, reason+", "+format.Bytes(n))
	return nil
}
