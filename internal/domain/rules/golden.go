package rules

import (
	"time"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
)

// Golden cookie placement bounds, in screen percent.
const (
	GoldenMinPosition  = 10.0
	GoldenPositionSpan = 80.0
)

// SpawnWindow is the base interval between golden cookies. The actual
// threshold is drawn uniformly from [window, 2·window).
func SpawnWindow(cat *catalog.Catalog, bal Balance, s *bakery.GameState) time.Duration {
	base := bal.Golden.SpawnWindow
	if s.HasSkill(catalog.SkillLuckyStars) {
		base = bal.Golden.SpawnWindowLuckyStars
	}
	speedup := 1 + float64(branchTierSum(cat, s, catalog.BranchLuck))*bal.Golden.LuckSpeedupPerTier
	return time.Duration(float64(base) / speedup)
}

// longevity is the duration factor granted by golden_longevity.
func longevity(bal Balance, s *bakery.GameState) float64 {
	if s.HasSkill(catalog.SkillGoldenLongevity) {
		return bal.Golden.LongevityFactor
	}
	return 1
}

// GoldenLifetime is how long a spawned cookie stays clickable.
func GoldenLifetime(bal Balance, s *bakery.GameState) time.Duration {
	return time.Duration(float64(bal.Golden.Lifetime) * longevity(bal, s))
}

// PickGoldenKind maps a uniform roll in [0,1) onto the weighted reward kinds.
func PickGoldenKind(bal Balance, roll float64) bakery.GoldenKind {
	g := bal.Golden
	total := g.WeightLucky + g.WeightFrenzy + g.WeightClickFrenzy
	if total <= 0 {
		return bakery.GoldenLucky
	}
	x := roll * total
	switch {
	case x < g.WeightLucky:
		return bakery.GoldenLucky
	case x < g.WeightLucky+g.WeightFrenzy:
		return bakery.GoldenProductionFrenzy
	default:
		return bakery.GoldenClickFrenzy
	}
}

// LuckyReward is the instant payout of a lucky golden cookie.
func LuckyReward(bal Balance, cookies float64, stats Stats) float64 {
	g := bal.Golden
	gain := min(cookies*g.LuckyBankFraction, stats.ProductionRate*g.LuckyRateSeconds) + g.LuckyFlatBonus
	return max(gain, stats.ClickValue*g.LuckyClickFloor)
}

// EffectSpec is the multiplier and duration a frenzy kind installs.
type EffectSpec struct {
	Kind       bakery.EffectKind
	Label      string
	Multiplier float64
	Duration   time.Duration
}

// FrenzyEffect returns the effect a non-lucky golden cookie installs.
func FrenzyEffect(bal Balance, s *bakery.GameState, kind bakery.GoldenKind) (EffectSpec, bool) {
	f := longevity(bal, s)
	switch kind {
	case bakery.GoldenProductionFrenzy:
		return EffectSpec{
			Kind:       bakery.EffectProductionBoost,
			Label:      "Frenesi",
			Multiplier: bal.Golden.FrenzyMultiplier,
			Duration:   time.Duration(float64(bal.Golden.FrenzyDuration) * f),
		}, true
	case bakery.GoldenClickFrenzy:
		return EffectSpec{
			Kind:       bakery.EffectClickBoost,
			Label:      "Click Power",
			Multiplier: bal.Golden.ClickFrenzyMultiplier,
			Duration:   time.Duration(float64(bal.Golden.ClickFrenzyDuration) * f),
		}, true
	}
	return EffectSpec{}, false
}
