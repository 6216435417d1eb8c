package rules

import (
	"math"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
)

// BuildingUnitPrice returns the price of the next unit when `owned` are held,
// after the economy discounts of the purchased skills.
func BuildingUnitPrice(cat *catalog.Catalog, bal Balance, s *bakery.GameState, b catalog.Building, owned int) float64 {
	cost := math.Floor(b.BaseCost * math.Pow(bal.CostGrowth, float64(owned)))
	if s.HasSkill(catalog.SkillDivineDiscount) {
		cost = math.Floor(cost * bal.DivineDiscount)
	}
	for _, sk := range cat.Skills {
		if sk.Branch == catalog.BranchEconomy && s.HasSkill(sk.ID) {
			cost *= 1 - float64(sk.Tier)*bal.EconomyDiscountPerTier
		}
	}
	return math.Floor(cost)
}

// BuildingPrice returns the cumulative price of buying quantity units of a
// building. It reports false for unknown buildings and non-positive quantities.
func BuildingPrice(cat *catalog.Catalog, bal Balance, s *bakery.GameState, id catalog.BuildingID, quantity int) (float64, bool) {
	return BuildingPriceWithin(cat, bal, s, id, quantity, math.Inf(1))
}

// BuildingPriceWithin is BuildingPrice that stops summing once the running
// total passes budget; the partial total returned is then above budget.
// Summing also stops once the total overflows to +Inf.
func BuildingPriceWithin(cat *catalog.Catalog, bal Balance, s *bakery.GameState, id catalog.BuildingID, quantity int, budget float64) (float64, bool) {
	b, ok := cat.Building(id)
	if !ok || quantity <= 0 {
		return 0, false
	}
	owned := s.Owned(id)
	total := 0.0
	for i := 0; i < quantity; i++ {
		total += BuildingUnitPrice(cat, bal, s, b, owned+i)
		if total > budget || math.IsInf(total, 1) {
			break
		}
	}
	return total, true
}

// UpgradePrice returns the effective cost of an upgrade.
func UpgradePrice(cat *catalog.Catalog, bal Balance, s *bakery.GameState, id catalog.UpgradeID) (float64, bool) {
	u, ok := cat.Upgrade(id)
	if !ok {
		return 0, false
	}
	cost := u.Cost
	if s.HasSkill(catalog.SkillPureMagic) {
		cost = math.Floor(cost * bal.UpgradeDiscount)
	}
	return cost, true
}

// AvailableUpgrades lists the unowned upgrades whose unlock predicate holds,
// in catalog order.
func AvailableUpgrades(cat *catalog.Catalog, s *bakery.GameState) []catalog.Upgrade {
	facts := s.Facts()
	var out []catalog.Upgrade
	for _, u := range cat.Upgrades {
		if !s.HasUpgrade(u.ID) && u.Unlock.Eval(facts) {
			out = append(out, u)
		}
	}
	return out
}
