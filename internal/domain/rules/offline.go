package rules

import (
	"time"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
)

// OfflineGain describes progress credited for time away.
type OfflineGain struct {
	Away       time.Duration `json:"away"`
	Credited   time.Duration `json:"credited"` // away, capped
	Efficiency float64       `json:"efficiency"`
	Cookies    float64       `json:"cookies"`
}

// OfflineEarnings computes the cookies produced while the game was closed.
// Temporary effects never apply offline. Absences up to the threshold earn nothing.
func OfflineEarnings(cat *catalog.Catalog, bal Balance, s *bakery.GameState, away time.Duration) OfflineGain {
	if away < 0 {
		away = 0
	}
	gain := OfflineGain{Away: away}
	if away <= bal.Offline.Threshold {
		return gain
	}

	efficiency, limit := bal.Offline.Efficiency, bal.Offline.Cap
	if s.HasSkill(catalog.SkillAngelInvestor) {
		efficiency, limit = bal.Offline.AngelEfficiency, bal.Offline.AngelCap
	}
	credited := min(away, limit)

	stats := ComputeStats(cat, bal, s, nil)
	gain.Credited = credited
	gain.Efficiency = efficiency
	gain.Cookies = stats.ProductionRate * credited.Seconds() * efficiency
	return gain
}
