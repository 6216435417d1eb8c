package rules

import (
	"math"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
)

// PotentialLevel is the total crystal count earned by a lifetime of cookies.
func PotentialLevel(bal Balance, lifetime float64) int {
	if lifetime < bal.Prestige.Divisor {
		return 0
	}
	return int(math.Floor(math.Sqrt(lifetime / bal.Prestige.Divisor)))
}

// CrystalsOwned counts unspent crystals plus the ones spent on skills.
func CrystalsOwned(cat *catalog.Catalog, s *bakery.GameState) int {
	owned := s.PrestigeLevel
	for id := range s.PurchasedSkills {
		if sk, ok := cat.Skill(id); ok {
			owned += sk.Cost
		}
	}
	return owned
}

// LevelsToGain is the number of crystals an ascension would grant now.
func LevelsToGain(cat *catalog.Catalog, bal Balance, s *bakery.GameState) int {
	gain := PotentialLevel(bal, s.LifetimeCookies) - CrystalsOwned(cat, s)
	if gain < 0 {
		return 0
	}
	return gain
}

// PrestigePreview summarizes ascension progress for display.
type PrestigePreview struct {
	PotentialLevel   int     `json:"potentialLevel"`
	CrystalsOwned    int     `json:"crystalsOwned"`
	LevelsToGain     int     `json:"levelsToGain"`
	NextLevelCookies float64 `json:"nextLevelCookies"` // lifetime cookies needed for the next crystal
	Progress         float64 `json:"progress"`         // 0-100 towards the next crystal
	Multiplier       float64 `json:"multiplier"`
}

// Preview computes the PrestigePreview for a state.
func Preview(cat *catalog.Catalog, bal Balance, s *bakery.GameState) PrestigePreview {
	potential := PotentialLevel(bal, s.LifetimeCookies)
	next := float64((potential+1)*(potential+1)) * bal.Prestige.Divisor
	current := float64(potential*potential) * bal.Prestige.Divisor

	progress := 0.0
	if den := next - current; den > 0 {
		progress = (s.LifetimeCookies - current) / den * 100
		progress = math.Max(0, math.Min(100, progress))
	}

	owned := CrystalsOwned(cat, s)
	gain := potential - owned
	if gain < 0 {
		gain = 0
	}
	return PrestigePreview{
		PotentialLevel:   potential,
		CrystalsOwned:    owned,
		LevelsToGain:     gain,
		NextLevelCookies: next,
		Progress:         progress,
		Multiplier:       PrestigeMultiplier(bal, s),
	}
}

// Ascend resets the epoch in place and grants the skill-based head start.
// Skills, achievements, lifetime cookies, clicks and the bakery name carry over.
// It reports false, leaving s untouched, when ascension would grant nothing.
func Ascend(cat *catalog.Catalog, bal Balance, s *bakery.GameState) (int, bool) {
	gain := LevelsToGain(cat, bal, s)
	if gain <= 0 {
		return 0, false
	}

	s.Cookies = 0
	if s.HasSkill(catalog.SkillTimeWarp) {
		s.Cookies = bal.Prestige.TimeWarpCookies
	}
	s.TotalCookies = 0
	s.Buildings = make(map[catalog.BuildingID]int)
	if s.HasSkill(catalog.SkillLegacyStarter) {
		for id, n := range bal.Prestige.LegacyBuildings {
			s.Buildings[id] = n
		}
	}
	s.Upgrades = make(map[catalog.UpgradeID]struct{})
	s.PrestigeLevel += gain
	return gain, true
}
