package rules

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
)

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func fixture() (*catalog.Catalog, Balance, *bakery.GameState) {
	return catalog.Default(), DefaultBalance(), bakery.New(testNow)
}

func own(s *bakery.GameState, skills ...catalog.SkillID) {
	for _, id := range skills {
		s.PurchasedSkills[id] = struct{}{}
	}
}

func TestStatsEmptyBakery(t *testing.T) {
	cat, bal, s := fixture()

	st := ComputeStats(cat, bal, s, nil)
	assert.Zero(t, st.ProductionRate)
	assert.Equal(t, 1.0, st.ClickValue)
}

func TestStatsBuildingsAndUpgrades(t *testing.T) {
	cat, bal, s := fixture()
	s.Buildings["cursor"] = 10
	s.Buildings["grandma"] = 2
	s.Upgrades["cursor_upgrade_0"] = struct{}{}
	s.Upgrades["cursor_upgrade_1"] = struct{}{}

	st := ComputeStats(cat, bal, s, nil)
	// cursor 0.1×10×4 + grandma 1×2
	assert.InDelta(t, 6.0, st.ProductionRate, 1e-9)
	assert.InDelta(t, 1.06, st.ClickValue, 1e-9)

	s.Upgrades["click_upgrade_0"] = struct{}{}
	s.Upgrades[catalog.GlobalUpgradeID(0)] = struct{}{}
	st = ComputeStats(cat, bal, s, nil)
	assert.InDelta(t, 9.0, st.ProductionRate, 1e-9)
	assert.InDelta(t, (1+9.0*0.01)*2, st.ClickValue, 1e-9)
}

func TestStatsSkillsAndPrestige(t *testing.T) {
	cat, bal, s := fixture()
	s.Buildings["grandma"] = 100
	own(s, catalog.SkillHeavenlyGates, "prod_1", "prod_2")
	s.PrestigeLevel = 10

	st := ComputeStats(cat, bal, s, nil)
	want := 100 * 1.10 * (1 + 3*0.03) * 1.10
	assert.InDelta(t, want, st.ProductionRate, 1e-9)
	assert.InDelta(t, (1+want*0.01)*1.10, st.ClickValue, 1e-9)

	own(s, catalog.SkillClickGod, catalog.SkillCookieGalaxy, catalog.SkillOmega)
	st = ComputeStats(cat, bal, s, nil)
	want = 100 * 1.10 * (1 + 3*0.03) * 2 * 1.20
	assert.InDelta(t, want, st.ProductionRate, 1e-9)
	assert.InDelta(t, (1+want*0.05)*1.20, st.ClickValue, 1e-9)
}

func TestStatsEffects(t *testing.T) {
	cat, bal, s := fixture()
	s.Buildings["farm"] = 1
	base := ComputeStats(cat, bal, s, nil)

	frenzy := []bakery.ActiveEffect{{Kind: bakery.EffectProductionBoost, Multiplier: 7}}
	st := ComputeStats(cat, bal, s, frenzy)
	assert.InDelta(t, base.ProductionRate*7, st.ProductionRate, 1e-9)
	assert.InDelta(t, base.ClickValue*7, st.ClickValue, 1e-9)

	click := []bakery.ActiveEffect{{Kind: bakery.EffectClickBoost, Multiplier: 777}}
	st = ComputeStats(cat, bal, s, click)
	assert.Equal(t, base.ProductionRate, st.ProductionRate)
	assert.InDelta(t, base.ClickValue*777, st.ClickValue, 1e-9)
}

func TestStatsIsIdempotent(t *testing.T) {
	cat, bal, s := fixture()
	for i, b := range cat.Buildings {
		s.Buildings[b.ID] = i * 3
	}
	for _, u := range cat.Upgrades[:40] {
		s.Upgrades[u.ID] = struct{}{}
	}
	own(s, catalog.SkillHeavenlyGates, "prod_1", "prod_2", "prod_3")
	before := s.Clone()

	a := ComputeStats(cat, bal, s, nil)
	b := ComputeStats(cat, bal, s, nil)
	assert.Equal(t, a, b)
	assert.Equal(t, before, s, "stats must not mutate state")
}

func TestBuildingPriceProgression(t *testing.T) {
	cat, bal, s := fixture()

	p, ok := BuildingPrice(cat, bal, s, "cursor", 1)
	require.True(t, ok)
	assert.Equal(t, 15.0, p)

	s.Buildings["cursor"] = 1
	p, _ = BuildingPrice(cat, bal, s, "cursor", 1)
	assert.Equal(t, 17.0, p)

	s.Buildings["cursor"] = 0
	p, _ = BuildingPrice(cat, bal, s, "cursor", 2)
	assert.Equal(t, 32.0, p)

	_, ok = BuildingPrice(cat, bal, s, "cursor", 0)
	assert.False(t, ok)
	_, ok = BuildingPrice(cat, bal, s, "nope", 1)
	assert.False(t, ok)
}

func TestBuildingPriceWithinStopsPastBudget(t *testing.T) {
	cat, bal, s := fixture()

	p, ok := BuildingPriceWithin(cat, bal, s, "cursor", 2, 32)
	require.True(t, ok)
	assert.Equal(t, 32.0, p, "exact budget sums every unit")

	p, ok = BuildingPriceWithin(cat, bal, s, "cursor", 1<<40, 0)
	require.True(t, ok)
	assert.Equal(t, 15.0, p, "first unit already exceeds the budget")

	p, ok = BuildingPrice(cat, bal, s, "cursor", 1<<40)
	require.True(t, ok)
	assert.True(t, math.IsInf(p, 1), "huge quantities saturate instead of looping")
}

func TestBuildingPriceDiscounts(t *testing.T) {
	cat, bal, s := fixture()
	b, _ := cat.Building("grandma")

	own(s, catalog.SkillDivineDiscount)
	assert.Equal(t, 90.0, BuildingUnitPrice(cat, bal, s, b, 0))

	own(s, "eco_1", "eco_2")
	// floor(floor(100×0.9)×0.98×0.96)
	assert.Equal(t, math.Floor(90*0.98*0.96), BuildingUnitPrice(cat, bal, s, b, 0))
}

func TestUpgradePrice(t *testing.T) {
	cat, bal, s := fixture()

	p, ok := UpgradePrice(cat, bal, s, "click_upgrade_1")
	require.True(t, ok)
	assert.Equal(t, 7500.0, p)

	own(s, catalog.SkillPureMagic)
	p, _ = UpgradePrice(cat, bal, s, "click_upgrade_1")
	assert.Equal(t, 6000.0, p)

	_, ok = UpgradePrice(cat, bal, s, "nope")
	assert.False(t, ok)
}

func TestAvailableUpgrades(t *testing.T) {
	cat, _, s := fixture()
	assert.Empty(t, AvailableUpgrades(cat, s))

	s.TotalCookies = 150
	s.Buildings["cursor"] = 1
	got := AvailableUpgrades(cat, s)
	ids := make([]catalog.UpgradeID, 0, len(got))
	for _, u := range got {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []catalog.UpgradeID{"click_upgrade_0", "cursor_upgrade_0"}, ids)

	s.Upgrades["click_upgrade_0"] = struct{}{}
	assert.Len(t, AvailableUpgrades(cat, s), 1)
}

func TestPotentialLevel(t *testing.T) {
	bal := DefaultBalance()

	assert.Equal(t, 0, PotentialLevel(bal, 999_999))
	assert.Equal(t, 1, PotentialLevel(bal, 1e6))
	assert.Equal(t, 2, PotentialLevel(bal, 4e6))
	assert.Equal(t, 2, PotentialLevel(bal, 8.9e6))
	assert.Equal(t, 1000, PotentialLevel(bal, 1e12))
}

func TestAscendGrantsCrystals(t *testing.T) {
	cat, bal, s := fixture()
	s.Cookies = 3e6
	s.TotalCookies = 4e6
	s.LifetimeCookies = 4e6
	s.ManualClicks = 42
	s.Buildings["farm"] = 3
	s.Upgrades["farm_upgrade_0"] = struct{}{}
	s.Achievements["ach_cookie_0"] = struct{}{}
	s.BakeryName = "Minha Padaria"

	gain, ok := Ascend(cat, bal, s)
	require.True(t, ok)
	assert.Equal(t, 2, gain)
	assert.Equal(t, 2, s.PrestigeLevel)
	assert.Zero(t, s.Cookies)
	assert.Zero(t, s.TotalCookies)
	assert.Equal(t, 4e6, s.LifetimeCookies)
	assert.Equal(t, int64(42), s.ManualClicks)
	assert.Empty(t, s.Buildings)
	assert.Empty(t, s.Upgrades)
	assert.True(t, s.HasAchievement("ach_cookie_0"))
	assert.Equal(t, "Minha Padaria", s.BakeryName)

	_, ok = Ascend(cat, bal, s)
	assert.False(t, ok, "second ascension without new cookies grants nothing")
}

func TestAscendCountsSpentCrystals(t *testing.T) {
	cat, bal, s := fixture()
	s.LifetimeCookies = 25e6 // potential 5
	s.PrestigeLevel = 1
	own(s, catalog.SkillHeavenlyGates, catalog.SkillDivineDiscount) // 1 + 3

	assert.Equal(t, 5, CrystalsOwned(cat, s))
	_, ok := Ascend(cat, bal, s)
	assert.False(t, ok)

	s.LifetimeCookies = 36e6
	gain, ok := Ascend(cat, bal, s)
	require.True(t, ok)
	assert.Equal(t, 1, gain)
}

func TestAscendHeadStartSkills(t *testing.T) {
	cat, bal, s := fixture()
	s.LifetimeCookies = 1e12
	own(s, catalog.SkillTimeWarp, catalog.SkillLegacyStarter)

	_, ok := Ascend(cat, bal, s)
	require.True(t, ok)
	assert.Equal(t, 50000.0, s.Cookies)
	assert.Equal(t, 10, s.Owned(catalog.BuildingCursor))
	assert.Equal(t, 5, s.Owned(catalog.BuildingGrandma))
}

func TestPrestigePreview(t *testing.T) {
	cat, bal, s := fixture()
	s.LifetimeCookies = 6.5e6 // potential 2, next at 9e6, current at 4e6

	p := Preview(cat, bal, s)
	assert.Equal(t, 2, p.PotentialLevel)
	assert.Equal(t, 2, p.LevelsToGain)
	assert.Equal(t, 9e6, p.NextLevelCookies)
	assert.InDelta(t, 50.0, p.Progress, 1e-9)
	assert.Equal(t, 1.0, p.Multiplier)
}

func TestOfflineEarnings(t *testing.T) {
	cat, bal, s := fixture()
	s.Buildings["grandma"] = 10 // 10 cps

	g := OfflineEarnings(cat, bal, s, 60*time.Second)
	assert.Zero(t, g.Cookies, "a minute away earns nothing")

	g = OfflineEarnings(cat, bal, s, 2*time.Hour)
	assert.InDelta(t, 10*7200*0.5, g.Cookies, 1e-6)

	g = OfflineEarnings(cat, bal, s, 100*time.Hour)
	assert.Equal(t, 24*time.Hour, g.Credited)
	assert.InDelta(t, 10*86400*0.5, g.Cookies, 1e-6)

	own(s, catalog.SkillAngelInvestor)
	g = OfflineEarnings(cat, bal, s, 100*time.Hour)
	assert.Equal(t, 48*time.Hour, g.Credited)
	assert.InDelta(t, 10*172800*0.9, g.Cookies, 1e-6)

	g = OfflineEarnings(cat, bal, s, -time.Hour)
	assert.Zero(t, g.Away)
	assert.Zero(t, g.Cookies)
}

func TestSpawnWindow(t *testing.T) {
	cat, bal, s := fixture()
	assert.Equal(t, 120*time.Second, SpawnWindow(cat, bal, s))

	own(s, catalog.SkillLuckyStars)
	assert.Equal(t, 96*time.Second, SpawnWindow(cat, bal, s))

	own(s, "luck_1", "luck_2", "luck_3") // 1 + 0.3
	assert.InDelta(t, float64(96*time.Second)/1.3, float64(SpawnWindow(cat, bal, s)), 1)
}

func TestPickGoldenKind(t *testing.T) {
	bal := DefaultBalance()

	assert.Equal(t, bakery.GoldenLucky, PickGoldenKind(bal, 0))
	assert.Equal(t, bakery.GoldenLucky, PickGoldenKind(bal, 0.49))
	assert.Equal(t, bakery.GoldenProductionFrenzy, PickGoldenKind(bal, 0.5))
	assert.Equal(t, bakery.GoldenProductionFrenzy, PickGoldenKind(bal, 0.89))
	assert.Equal(t, bakery.GoldenClickFrenzy, PickGoldenKind(bal, 0.9))
	assert.Equal(t, bakery.GoldenClickFrenzy, PickGoldenKind(bal, 0.999))
}

func TestLuckyReward(t *testing.T) {
	bal := DefaultBalance()

	// bank-limited
	assert.InDelta(t, 0.15*1000+13, LuckyReward(bal, 1000, Stats{ProductionRate: 100, ClickValue: 1}), 1e-9)
	// rate-limited
	assert.InDelta(t, 900*1.0+13, LuckyReward(bal, 1e9, Stats{ProductionRate: 1, ClickValue: 1}), 1e-9)
	// click floor
	assert.InDelta(t, 13*50.0, LuckyReward(bal, 0, Stats{ProductionRate: 0, ClickValue: 50}), 1e-9)
}

func TestFrenzyEffect(t *testing.T) {
	_, bal, s := fixture()

	spec, ok := FrenzyEffect(bal, s, bakery.GoldenProductionFrenzy)
	require.True(t, ok)
	assert.Equal(t, 7.0, spec.Multiplier)
	assert.Equal(t, 77*time.Second, spec.Duration)

	own(s, catalog.SkillGoldenLongevity)
	spec, _ = FrenzyEffect(bal, s, bakery.GoldenClickFrenzy)
	assert.Equal(t, 777.0, spec.Multiplier)
	assert.Equal(t, time.Duration(float64(13*time.Second)*1.3), spec.Duration)
	assert.Equal(t, time.Duration(float64(13*time.Second)*1.3), GoldenLifetime(bal, s))

	_, ok = FrenzyEffect(bal, s, bakery.GoldenLucky)
	assert.False(t, ok)
}
