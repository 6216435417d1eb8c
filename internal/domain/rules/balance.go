// Package rules contains the pure calculation logic for game mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import (
	"time"

	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
)

// Balance holds the tunable constants of the game. The zero value is not
// usable; start from DefaultBalance.
type Balance struct {
	CostGrowth              float64 `yaml:"cost_growth"`
	DivineDiscount          float64 `yaml:"divine_discount"`
	EconomyDiscountPerTier  float64 `yaml:"economy_discount_per_tier"`
	UpgradeDiscount         float64 `yaml:"upgrade_discount"`
	HeavenlyGatesMultiplier float64 `yaml:"heavenly_gates_multiplier"`
	ProductionBonusPerTier  float64 `yaml:"production_bonus_per_tier"`
	OmegaMultiplier         float64 `yaml:"omega_multiplier"`
	ClickFraction           float64 `yaml:"click_fraction"`
	ClickFractionMidas      float64 `yaml:"click_fraction_midas"`

	Prestige PrestigeBalance `yaml:"prestige"`
	Golden   GoldenBalance   `yaml:"golden"`
	Offline  OfflineBalance  `yaml:"offline"`

	TickCap          time.Duration `yaml:"tick_cap"`
	AutosaveInterval time.Duration `yaml:"autosave_interval"`
}

// PrestigeBalance covers ascension and the crystal multiplier.
type PrestigeBalance struct {
	Divisor          float64                    `yaml:"divisor"`
	CrystalRate      float64                    `yaml:"crystal_rate"`
	CrystalRateBoost float64                    `yaml:"crystal_rate_boost"`
	TimeWarpCookies  float64                    `yaml:"time_warp_cookies"`
	LegacyBuildings  map[catalog.BuildingID]int `yaml:"legacy_buildings"`
}

// GoldenBalance covers spawn timing and rewards of golden cookies.
type GoldenBalance struct {
	SpawnWindow           time.Duration `yaml:"spawn_window"`
	SpawnWindowLuckyStars time.Duration `yaml:"spawn_window_lucky_stars"`
	LuckSpeedupPerTier    float64       `yaml:"luck_speedup_per_tier"`
	Lifetime              time.Duration `yaml:"lifetime"`
	LongevityFactor       float64       `yaml:"longevity_factor"`

	WeightLucky       float64 `yaml:"weight_lucky"`
	WeightFrenzy      float64 `yaml:"weight_frenzy"`
	WeightClickFrenzy float64 `yaml:"weight_click_frenzy"`

	FrenzyMultiplier      float64       `yaml:"frenzy_multiplier"`
	FrenzyDuration        time.Duration `yaml:"frenzy_duration"`
	ClickFrenzyMultiplier float64       `yaml:"click_frenzy_multiplier"`
	ClickFrenzyDuration   time.Duration `yaml:"click_frenzy_duration"`

	LuckyBankFraction float64 `yaml:"lucky_bank_fraction"`
	LuckyRateSeconds  float64 `yaml:"lucky_rate_seconds"`
	LuckyFlatBonus    float64 `yaml:"lucky_flat_bonus"`
	LuckyClickFloor   float64 `yaml:"lucky_click_floor"`
}

// OfflineBalance covers progress credited on load.
type OfflineBalance struct {
	Threshold       time.Duration `yaml:"threshold"`
	Efficiency      float64       `yaml:"efficiency"`
	Cap             time.Duration `yaml:"cap"`
	AngelEfficiency float64       `yaml:"angel_efficiency"`
	AngelCap        time.Duration `yaml:"angel_cap"`
}

// DefaultBalance returns the shipped tuning.
func DefaultBalance() Balance {
	return Balance{
		CostGrowth:              1.15,
		DivineDiscount:          0.9,
		EconomyDiscountPerTier:  0.02,
		UpgradeDiscount:         0.8,
		HeavenlyGatesMultiplier: 1.10,
		ProductionBonusPerTier:  0.03,
		OmegaMultiplier:         2.0,
		ClickFraction:           0.01,
		ClickFractionMidas:      0.05,
		Prestige: PrestigeBalance{
			Divisor:          1e6,
			CrystalRate:      0.01,
			CrystalRateBoost: 0.02,
			TimeWarpCookies:  50000,
			LegacyBuildings: map[catalog.BuildingID]int{
				catalog.BuildingCursor:  10,
				catalog.BuildingGrandma: 5,
			},
		},
		Golden: GoldenBalance{
			SpawnWindow:           120 * time.Second,
			SpawnWindowLuckyStars: 96 * time.Second,
			LuckSpeedupPerTier:    0.05,
			Lifetime:              13 * time.Second,
			LongevityFactor:       1.3,
			WeightLucky:           0.5,
			WeightFrenzy:          0.4,
			WeightClickFrenzy:     0.1,
			FrenzyMultiplier:      7,
			FrenzyDuration:        77 * time.Second,
			ClickFrenzyMultiplier: 777,
			ClickFrenzyDuration:   13 * time.Second,
			LuckyBankFraction:     0.15,
			LuckyRateSeconds:      900,
			LuckyFlatBonus:        13,
			LuckyClickFloor:       13,
		},
		Offline: OfflineBalance{
			Threshold:       60 * time.Second,
			Efficiency:      0.5,
			Cap:             24 * time.Hour,
			AngelEfficiency: 0.9,
			AngelCap:        48 * time.Hour,
		},
		TickCap:          5 * time.Second,
		AutosaveInterval: 30 * time.Second,
	}
}
