package catalog

import (
	"fmt"
	"math"
)

// Upgrade track parameters.
const (
	clickUpgradeTiers      = 9
	clickUpgradeBaseCost   = 500.0
	clickUpgradeCostGrow   = 15.0
	clickUpgradeBaseGate   = 100.0
	clickUpgradeGateGrow   = 10.0
	clickUpgradeMultiplier = 2.0

	buildingUpgradeCostFactor = 10.0
	buildingUpgradeCostGrow   = 8.0

	globalUpgradeTiers      = 6
	globalUpgradeBaseCost   = 1e7
	globalUpgradeBaseGate   = 1e6
	globalUpgradeGrow       = 100.0
	globalUpgradeMultiplier = 1.5
)

var (
	buildingUpgradeCounts      = []int{1, 10, 25, 50, 100, 150, 200, 300}
	buildingUpgradeMultipliers = []float64{2, 2, 2, 2, 2, 2, 5, 10}
)

var globalUpgradeNames = []string{
	"Massa Caseira",
	"Fermento Secreto",
	"Receita da Família",
	"Forno Celestial",
	"Açúcar Cósmico",
	"Padaria Infinita",
}

var buildingUpgradeSuffixes = []string{
	"Básico",
	"Robusto",
	"Poderoso",
	"Mítico",
	"Lendário",
	"Divino",
	"Cósmico",
	"Absoluto",
}

// ClickUpgradeID returns the id of the i-th (0-based) click upgrade.
func ClickUpgradeID(i int) UpgradeID {
	return UpgradeID(fmt.Sprintf("click_upgrade_%d", i))
}

// BuildingUpgradeID returns the id of the i-th (0-based) upgrade of a building.
func BuildingUpgradeID(b BuildingID, i int) UpgradeID {
	return UpgradeID(fmt.Sprintf("%s_upgrade_%d", b, i))
}

// GlobalUpgradeID returns the id of the i-th (0-based) global upgrade.
func GlobalUpgradeID(i int) UpgradeID {
	return UpgradeID(fmt.Sprintf("global_upgrade_%d", i))
}

func buildUpgrades(buildings []Building) []Upgrade {
	out := make([]Upgrade, 0, clickUpgradeTiers+len(buildings)*len(buildingUpgradeCounts)+globalUpgradeTiers)

	for i := 0; i < clickUpgradeTiers; i++ {
		out = append(out, Upgrade{
			ID:          ClickUpgradeID(i),
			Name:        fmt.Sprintf("Clique Reforçado %d", i+1),
			Description: "Cliques manuais são 2x mais eficientes.",
			Cost:        clickUpgradeBaseCost * math.Pow(clickUpgradeCostGrow, float64(i)),
			Kind:        UpgradeKindClick,
			Multiplier:  clickUpgradeMultiplier,
			Unlock:      totalCookiesAtLeast(clickUpgradeBaseGate * math.Pow(clickUpgradeGateGrow, float64(i))),
		})
	}

	for _, b := range buildings {
		for i, count := range buildingUpgradeCounts {
			out = append(out, Upgrade{
				ID:          BuildingUpgradeID(b.ID, i),
				Name:        fmt.Sprintf("%s %s", b.Name, buildingUpgradeSuffixes[i]),
				Description: fmt.Sprintf("%ss são %gx mais eficientes.", b.Name, buildingUpgradeMultipliers[i]),
				Cost:        math.Floor(b.BaseCost * buildingUpgradeCostFactor * math.Pow(buildingUpgradeCostGrow, float64(i))),
				Kind:        UpgradeKindBuilding,
				Target:      b.ID,
				Multiplier:  buildingUpgradeMultipliers[i],
				Unlock:      buildingCountAtLeast(b.ID, count),
			})
		}
	}

	for i := 0; i < globalUpgradeTiers; i++ {
		out = append(out, Upgrade{
			ID:          GlobalUpgradeID(i),
			Name:        globalUpgradeNames[i],
			Description: "Toda a produção é 50% mais eficiente.",
			Cost:        globalUpgradeBaseCost * math.Pow(globalUpgradeGrow, float64(i)),
			Kind:        UpgradeKindGlobal,
			Multiplier:  globalUpgradeMultiplier,
			Unlock:      totalCookiesAtLeast(globalUpgradeBaseGate * math.Pow(globalUpgradeGrow, float64(i))),
		})
	}
	return out
}
