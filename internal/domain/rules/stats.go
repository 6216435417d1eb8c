package rules

import (
	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
)

// Stats are the derived per-second production and per-click value.
type Stats struct {
	ProductionRate float64 `json:"cps"`
	ClickValue     float64 `json:"clickValue"`
}

// ComputeStats derives Stats from state and the active effects. It is pure and
// walks the catalog in declaration order so repeated calls agree bit for bit.
func ComputeStats(cat *catalog.Catalog, bal Balance, s *bakery.GameState, effects []bakery.ActiveEffect) Stats {
	buildingMult := make(map[catalog.BuildingID]float64)
	globalMult := 1.0
	clickMult := 1.0
	for _, u := range cat.Upgrades {
		if !s.HasUpgrade(u.ID) {
			continue
		}
		switch u.Kind {
		case catalog.UpgradeKindBuilding:
			if m, seen := buildingMult[u.Target]; seen {
				buildingMult[u.Target] = m * u.Multiplier
			} else {
				buildingMult[u.Target] = u.Multiplier
			}
		case catalog.UpgradeKindGlobal:
			globalMult *= u.Multiplier
		case catalog.UpgradeKindClick:
			clickMult *= u.Multiplier
		}
	}

	rate := 0.0
	for _, b := range cat.Buildings {
		n := s.Owned(b.ID)
		if n <= 0 {
			continue
		}
		m, ok := buildingMult[b.ID]
		if !ok {
			m = 1
		}
		rate += b.BaseProduction * float64(n) * m
	}
	rate *= globalMult
	rate *= SkillProductionMultiplier(cat, bal, s)

	prestige := PrestigeMultiplier(bal, s)
	rate *= prestige

	fraction := bal.ClickFraction
	if s.HasSkill(catalog.SkillClickGod) {
		fraction = bal.ClickFractionMidas
	}
	click := (1 + rate*fraction) * clickMult * prestige

	for _, e := range effects {
		switch e.Kind {
		case bakery.EffectProductionBoost:
			rate *= e.Multiplier
			click *= e.Multiplier
		case bakery.EffectClickBoost:
			click *= e.Multiplier
		}
	}
	return Stats{ProductionRate: rate, ClickValue: click}
}

// SkillProductionMultiplier combines the production skills: the gates, the
// production branch and omega.
func SkillProductionMultiplier(cat *catalog.Catalog, bal Balance, s *bakery.GameState) float64 {
	m := 1.0
	if s.HasSkill(catalog.SkillHeavenlyGates) {
		m *= bal.HeavenlyGatesMultiplier
	}
	if bonus := branchTierSum(cat, s, catalog.BranchProduction); bonus > 0 {
		m *= 1 + float64(bonus)*bal.ProductionBonusPerTier
	}
	if s.HasSkill(catalog.SkillOmega) {
		m *= bal.OmegaMultiplier
	}
	return m
}

// PrestigeMultiplier is 1 + crystals × rate per crystal.
func PrestigeMultiplier(bal Balance, s *bakery.GameState) float64 {
	r := bal.Prestige.CrystalRate
	if s.HasSkill(catalog.SkillCookieGalaxy) {
		r = bal.Prestige.CrystalRateBoost
	}
	return 1 + float64(s.PrestigeLevel)*r
}

// branchTierSum adds up the tier numbers of the owned skills of a branch.
func branchTierSum(cat *catalog.Catalog, s *bakery.GameState, b catalog.Branch) int {
	sum := 0
	for id := range s.PurchasedSkills {
		sk, ok := cat.Skill(id)
		if ok && sk.Branch == b {
			sum += sk.Tier
		}
	}
	return sum
}
