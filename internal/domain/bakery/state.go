// Package bakery defines the player's aggregate: the game state of one bakery.
// This package is PURE and must NOT import any infrastructure packages (network, events, platform).
package bakery

import (
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
)

// DefaultName is the bakery name of a fresh game.
const DefaultName = "Padaria do Jogador"

// MaxNameLength bounds the bakery name, in runes.
const MaxNameLength = 48

// GameState is the whole persisted aggregate.
type GameState struct {
	// Currency
	Cookies         float64 // spendable balance
	TotalCookies    float64 // earned this epoch
	LifetimeCookies float64 // earned across all epochs
	ManualClicks    int64

	// Ownership
	Buildings       map[catalog.BuildingID]int
	Upgrades        map[catalog.UpgradeID]struct{}
	Achievements    map[catalog.AchievementID]struct{}
	PurchasedSkills map[catalog.SkillID]struct{}
	PrestigeLevel   int // unspent crystals

	// Meta
	BakeryName   string
	LastSaveTime time.Time
	StartTime    time.Time
}

// New returns the epoch-zero state.
func New(now time.Time) *GameState {
	return &GameState{
		Buildings:       make(map[catalog.BuildingID]int),
		Upgrades:        make(map[catalog.UpgradeID]struct{}),
		Achievements:    make(map[catalog.AchievementID]struct{}),
		PurchasedSkills: make(map[catalog.SkillID]struct{}),
		BakeryName:      DefaultName,
		LastSaveTime:    now,
		StartTime:       now,
	}
}

// Clone returns a deep copy.
func (s *GameState) Clone() *GameState {
	c := *s
	c.Buildings = make(map[catalog.BuildingID]int, len(s.Buildings))
	for k, v := range s.Buildings {
		c.Buildings[k] = v
	}
	c.Upgrades = cloneSet(s.Upgrades)
	c.Achievements = cloneSet(s.Achievements)
	c.PurchasedSkills = cloneSet(s.PurchasedSkills)
	return &c
}

func cloneSet[K comparable](in map[K]struct{}) map[K]struct{} {
	out := make(map[K]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

// Owned returns how many units of a building the player has.
func (s *GameState) Owned(id catalog.BuildingID) int {
	return s.Buildings[id]
}

func (s *GameState) HasUpgrade(id catalog.UpgradeID) bool {
	_, ok := s.Upgrades[id]
	return ok
}

func (s *GameState) HasAchievement(id catalog.AchievementID) bool {
	_, ok := s.Achievements[id]
	return ok
}

func (s *GameState) HasSkill(id catalog.SkillID) bool {
	_, ok := s.PurchasedSkills[id]
	return ok
}

// Credit adds earned cookies to the balance and both totals.
// Non-positive and non-finite amounts are ignored.
func (s *GameState) Credit(amount float64) {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return
	}
	s.Cookies += amount
	s.TotalCookies += amount
	s.LifetimeCookies += amount
}

// Debit spends cookies if the balance covers the amount.
func (s *GameState) Debit(amount float64) bool {
	if amount < 0 || math.IsNaN(amount) || s.Cookies < amount {
		return false
	}
	s.Cookies -= amount
	return true
}

// Facts exposes the fields unlock predicates read.
func (s *GameState) Facts() catalog.Facts {
	return catalog.Facts{
		TotalCookies:    s.TotalCookies,
		LifetimeCookies: s.LifetimeCookies,
		ManualClicks:    s.ManualClicks,
		Buildings:       s.Buildings,
	}
}

// NormalizeName trims a candidate bakery name and reports whether it is usable.
func NormalizeName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = strings.TrimSpace(string([]rune(name)[:MaxNameLength]))
	}
	return name, true
}

// SortedKeys returns the members of an id set in lexical order.
func SortedKeys[K ~string](set map[K]struct{}) []K {
	out := make([]K, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
