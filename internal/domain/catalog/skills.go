package catalog

import (
	"fmt"
	"math"
)

// Skills referenced by rules.
const (
	SkillHeavenlyGates   SkillID = "heavenly_gates"
	SkillDivineDiscount  SkillID = "divine_discount"
	SkillLuckyStars      SkillID = "lucky_stars"
	SkillPureMagic       SkillID = "pure_magic"
	SkillTimeWarp        SkillID = "time_warp"
	SkillClickGod        SkillID = "click_god"
	SkillGoldenLongevity SkillID = "golden_longevity"
	SkillLegacyStarter   SkillID = "legacy_starter"
	SkillAngelInvestor   SkillID = "angel_investor"
	SkillCookieGalaxy    SkillID = "cookie_galaxy"
	SkillOmega           SkillID = "omega"
)

// Tree layout. Coordinates are percentages, y=100 is the bottom.
const (
	branchLength   = 12
	branchStartY   = 88.0
	branchGapY     = 5.5
	curveIntensity = 30.0
	treeTopY       = 15.0
)

// BranchSkillID returns the id of tier (1-based) of a tiered branch.
func BranchSkillID(b Branch, tier int) SkillID {
	switch b {
	case BranchEconomy:
		return SkillID(fmt.Sprintf("eco_%d", tier))
	case BranchLuck:
		return SkillID(fmt.Sprintf("luck_%d", tier))
	case BranchProduction:
		return SkillID(fmt.Sprintf("prod_%d", tier))
	}
	return ""
}

func buildSkills() []Skill {
	skills := []Skill{{
		ID:          SkillHeavenlyGates,
		Name:        "Portões Celestiais",
		Description: "Desbloqueia o poder dos cristais. +10% CpS global.",
		Cost:        1,
		Branch:      BranchRoot,
		X:           50,
		Y:           95,
	}}

	for i := 1; i <= branchLength; i++ {
		progress := float64(i) / branchLength
		widthOffset := math.Sin(progress*math.Pi*0.8) * curveIntensity
		y := branchStartY - float64(i-1)*branchGapY

		skills = append(skills,
			Skill{
				ID:          BranchSkillID(BranchEconomy, i),
				Name:        fmt.Sprintf("Poder Econômico %d", i),
				Description: fmt.Sprintf("Reduz custos em %d%%.", i*2),
				Cost:        i * 5,
				Parent:      branchParent(BranchEconomy, i),
				Branch:      BranchEconomy,
				Tier:        i,
				X:           50 - 10 - widthOffset,
				Y:           y,
			},
			Skill{
				ID:          BranchSkillID(BranchLuck, i),
				Name:        fmt.Sprintf("Caminho da Sorte %d", i),
				Description: fmt.Sprintf("Aumenta spawn de Cookies Dourados em %d%%.", i*5),
				Cost:        i * 5,
				Parent:      branchParent(BranchLuck, i),
				Branch:      BranchLuck,
				Tier:        i,
				X:           50 + 10 + widthOffset,
				Y:           y,
			},
			Skill{
				ID:          BranchSkillID(BranchProduction, i),
				Name:        fmt.Sprintf("Fluxo Vital %d", i),
				Description: fmt.Sprintf("Aumenta produção global em +%d%%.", i*3),
				Cost:        i * 8,
				Parent:      branchParent(BranchProduction, i),
				Branch:      BranchProduction,
				Tier:        i,
				X:           50,
				Y:           y - 2,
			},
		)
	}

	skills = append(skills,
		special(SkillDivineDiscount, "Desconto Divino", "Prédios custam 10% menos.", 3, SkillHeavenlyGates, 38, 82),
		special(SkillLuckyStars, "Sorte Celestial", "Cookies Dourados 20% mais frequentes.", 3, SkillHeavenlyGates, 62, 82),
		special(SkillPureMagic, "Magia Pura", "Upgrades custam 20% menos.", 10, "eco_4", 30, 60),
		special(SkillTimeWarp, "Dobra Temporal", "Começa ascensões com 50k cookies.", 15, "luck_4", 70, 60),
		special(SkillClickGod, "Toque de Midas", "Cliques valem +5% do CpS.", 10, "eco_8", 35, 40),
		special(SkillGoldenLongevity, "Era Dourada", "Efeitos dourados +30% tempo.", 15, "luck_8", 65, 40),
		special(SkillLegacyStarter, "Herança da Padaria", "Começa ascensões com 10 cursores e 5 vovós.", 25, SkillTimeWarp, 78, 50),
		special(SkillAngelInvestor, "Investidor Anjo", "Offline 90% eficiente por 48h.", 50, "prod_12", 50, treeTopY+8),
		special(SkillCookieGalaxy, "Galáxia Doce", "Bônus de Cristais sobe de 1% para 2%.", 100, SkillAngelInvestor, 50, treeTopY),
		special(SkillOmega, "Ponto Ômega", "Produção global x2.0.", 500, SkillCookieGalaxy, 50, treeTopY-10),
	)
	return skills
}

func branchParent(b Branch, tier int) SkillID {
	if tier == 1 {
		return SkillHeavenlyGates
	}
	return BranchSkillID(b, tier-1)
}

func special(id SkillID, name, desc string, cost int, parent SkillID, x, y float64) Skill {
	return Skill{
		ID:          id,
		Name:        name,
		Description: desc,
		Cost:        cost,
		Parent:      parent,
		Branch:      BranchSpecial,
		X:           x,
		Y:           y,
	}
}
