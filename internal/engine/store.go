// Package engine - store.go
// Progression Store: validates and applies every player mutation to the
// GameState. Failing preconditions are silent no-ops reported as false.
//
// The Store is NOT safe for concurrent use; the Engine serializes access.
package engine

import (
	"fmt"
	"time"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
	"github.com/biscoitoclicker/bakery/internal/domain/rules"
	"github.com/biscoitoclicker/bakery/internal/events"
	"github.com/biscoitoclicker/bakery/internal/platform/format"
	"github.com/biscoitoclicker/bakery/internal/platform/logger"
)

// Store owns the live GameState.
type Store struct {
	cat      *catalog.Catalog
	bal      rules.Balance
	state    *bakery.GameState
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewStore wraps state. The Store takes ownership of it.
func NewStore(cat *catalog.Catalog, bal rules.Balance, state *bakery.GameState, eventLog *events.EventLog, log *logger.Logger) *Store {
	return &Store{
		cat:      cat,
		bal:      bal,
		state:    state,
		eventLog: eventLog,
		logger:   log,
	}
}

// State returns the live aggregate. Callers outside the engine get clones.
func (s *Store) State() *bakery.GameState {
	return s.state
}

// Replace swaps in a new aggregate, e.g. after a load.
func (s *Store) Replace(state *bakery.GameState) {
	s.state = state
}

// Reset wipes everything, including prestige and skills.
func (s *Store) Reset(now time.Time) {
	name := s.state.BakeryName
	s.state = bakery.New(now)
	s.logger.Event(string(events.EventTypeGameReset), events.ActorPlayer, "bakery "+name+" wiped")
}

// ManualClick credits one click worth of cookies and returns the amount.
func (s *Store) ManualClick(clickValue float64) float64 {
	s.state.Credit(clickValue)
	s.state.ManualClicks++
	return clickValue
}

// Accrue credits production earned over a tick.
func (s *Store) Accrue(amount float64) {
	s.state.Credit(amount)
}

// BuyBuilding buys quantity units if the cumulative price is affordable.
func (s *Store) BuyBuilding(id catalog.BuildingID, quantity int, now time.Time) bool {
	price, ok := rules.BuildingPriceWithin(s.cat, s.bal, s.state, id, quantity, s.state.Cookies)
	if !ok || !s.state.Debit(price) {
		return false
	}
	s.state.Buildings[id] += quantity

	s.emit(now, events.EventTypeBuildingPurchased, string(id), events.PurchasePayload{
		ItemID:   string(id),
		Quantity: quantity,
		Price:    price,
		Currency: "cookies",
	})
	s.logger.Event(string(events.EventTypeBuildingPurchased), events.ActorPlayer,
		fmt.Sprintf("%dx %s for %s (now %d)", quantity, id, format.Cookies(price), s.state.Buildings[id]))
	return true
}

// BuyUpgrade buys a not-yet-owned upgrade. The unlock predicate only gates
// listing, not purchase.
func (s *Store) BuyUpgrade(id catalog.UpgradeID, now time.Time) bool {
	if s.state.HasUpgrade(id) {
		return false
	}
	price, ok := rules.UpgradePrice(s.cat, s.bal, s.state, id)
	if !ok || !s.state.Debit(price) {
		return false
	}
	s.state.Upgrades[id] = struct{}{}

	s.emit(now, events.EventTypeUpgradePurchased, string(id), events.PurchasePayload{
		ItemID:   string(id),
		Quantity: 1,
		Price:    price,
		Currency: "cookies",
	})
	s.logger.Event(string(events.EventTypeUpgradePurchased), events.ActorPlayer, string(id)+" for "+format.Cookies(price))
	return true
}

// BuySkill spends crystals on a skill whose parent is owned.
func (s *Store) BuySkill(id catalog.SkillID, now time.Time) bool {
	skill, ok := s.cat.Skill(id)
	if !ok || s.state.HasSkill(id) || s.state.PrestigeLevel < skill.Cost {
		return false
	}
	if skill.HasParent() && !s.state.HasSkill(skill.Parent) {
		return false
	}
	s.state.PrestigeLevel -= skill.Cost
	s.state.PurchasedSkills[id] = struct{}{}

	s.emit(now, events.EventTypeSkillPurchased, string(id), events.PurchasePayload{
		ItemID:   string(id),
		Quantity: 1,
		Price:    float64(skill.Cost),
		Currency: "crystals",
	})
	s.logger.Event(string(events.EventTypeSkillPurchased), events.ActorPlayer,
		fmt.Sprintf("%s for %d crystals (%d left)", id, skill.Cost, s.state.PrestigeLevel))
	return true
}

// Ascend trades the epoch for crystals. It reports false when nothing would be gained.
func (s *Store) Ascend(now time.Time) (int, bool) {
	gain, ok := rules.Ascend(s.cat, s.bal, s.state)
	if !ok {
		return 0, false
	}
	s.emit(now, events.EventTypeAscended, "", events.AscendPayload{
		CrystalsGained:  gain,
		PrestigeLevel:   s.state.PrestigeLevel,
		LifetimeCookies: s.state.LifetimeCookies,
	})
	s.logger.Event(string(events.EventTypeAscended), events.ActorPlayer,
		fmt.Sprintf("+%s crystals, lifetime %s", format.Crystals(gain), format.Cookies(s.state.LifetimeCookies)))
	return gain, true
}

// UpdateBakeryName renames the bakery. Blank names are rejected.
func (s *Store) UpdateBakeryName(name string, now time.Time) bool {
	name, ok := bakery.NormalizeName(name)
	if !ok {
		return false
	}
	old := s.state.BakeryName
	s.state.BakeryName = name
	s.emit(now, events.EventTypeBakeryRenamed, "", events.RenamePayload{From: old, To: name})
	return true
}

func (s *Store) emit(now time.Time, t events.EventType, target string, payload any) {
	s.eventLog.Append(events.GameEvent{
		Timestamp: now,
		Type:      t,
		ActorID:   events.ActorPlayer,
		TargetID:  target,
		Payload:   payload,
	})
}
