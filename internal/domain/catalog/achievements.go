package catalog

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	cookieMilestones   = []float64{1, 1e3, 1e6, 1e9, 1e12, 1e15, 1e18, 1e21}
	clickMilestones    = []int64{1, 100, 1000, 10000, 100000}
	ownershipMilestone = []int{1, 50, 100}
	lifetimeMilestones = []float64{1e6, 1e9, 1e12}
)

var cookieMilestoneNames = []string{
	"Primeira Fornada",
	"Confeiteiro Amador",
	"Padaria de Bairro",
	"Império do Açúcar",
	"Magnata da Massa",
	"Lenda do Forno",
	"Divindade Doce",
	"Fim dos Tempos Crocante",
}

var clickMilestoneNames = []string{
	"Primeiro Clique",
	"Dedo Ágil",
	"Clicador Dedicado",
	"Tendinite",
	"Mão Biônica",
}

var lifetimeMilestoneNames = []string{
	"Alma Antiga",
	"Reencarnado",
	"Eterno",
}

// printer renders grouped numbers in achievement descriptions.
var printer = message.NewPrinter(language.BrazilianPortuguese)

func buildAchievements(buildings []Building) []Achievement {
	out := make([]Achievement, 0, len(cookieMilestones)+len(clickMilestones)+len(buildings)*len(ownershipMilestone)+len(lifetimeMilestones))

	for i, v := range cookieMilestones {
		out = append(out, Achievement{
			ID:          AchievementID(fmt.Sprintf("ach_cookie_%d", i)),
			Name:        cookieMilestoneNames[i],
			Description: printer.Sprintf("Faça %.0f biscoitos.", v),
			Unlock:      totalCookiesAtLeast(v),
		})
	}

	for i, v := range clickMilestones {
		out = append(out, Achievement{
			ID:          AchievementID(fmt.Sprintf("ach_click_%d", i)),
			Name:        clickMilestoneNames[i],
			Description: printer.Sprintf("Clique no biscoito %d vezes.", v),
			Unlock:      manualClicksAtLeast(v),
		})
	}

	for _, b := range buildings {
		for _, n := range ownershipMilestone {
			out = append(out, Achievement{
				ID:          AchievementID(fmt.Sprintf("ach_%s_%d", b.ID, n)),
				Name:        fmt.Sprintf("%s x%d", b.Name, n),
				Description: printer.Sprintf("Tenha %d %s.", n, b.Name),
				Unlock:      buildingCountAtLeast(b.ID, n),
			})
		}
	}

	for i, v := range lifetimeMilestones {
		out = append(out, Achievement{
			ID:          AchievementID(fmt.Sprintf("ach_lifetime_%d", i)),
			Name:        lifetimeMilestoneNames[i],
			Description: printer.Sprintf("Asse %.0f biscoitos ao longo de todas as vidas.", v),
			Unlock:      lifetimeCookiesAtLeast(v),
		})
	}
	return out
}
