// Package storage - reconstructor.go
// Bakery Recap: rebuilds "what happened while you were away" from the ledger.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/biscoitoclicker/bakery/internal/events"
	"github.com/biscoitoclicker/bakery/internal/platform/format"
)

// Impact classifies a recap line.
const (
	ImpactPositive = "POSITIVE"
	ImpactNegative = "NEGATIVE"
	ImpactNeutral  = "NEUTRAL"
)

// Reconstructor turns ledger rows into a readable history.
type Reconstructor struct {
	eventRepo EventRepository
}

// NewReconstructor creates a new history reconstructor.
func NewReconstructor(eventRepo EventRepository) *Reconstructor {
	return &Reconstructor{eventRepo: eventRepo}
}

// RecapEvent is a simplified event for the history screen.
type RecapEvent struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	Summary   string    `json:"summary"` // Human-readable description
	Impact    string    `json:"impact"`
}

// Totals aggregates a span of the ledger.
type Totals struct {
	Purchases      int     `json:"purchases"`
	CookiesSpent   float64 `json:"cookiesSpent"`
	GoldenClicked  int     `json:"goldenClicked"`
	GoldenMissed   int     `json:"goldenMissed"`
	Achievements   int     `json:"achievements"`
	CrystalsGained int     `json:"crystalsGained"`
}

// GenerateRecap summarizes everything recorded at or after since.
func (r *Reconstructor) GenerateRecap(ctx context.Context, since time.Time) ([]RecapEvent, Totals, error) {
	stored, err := r.eventRepo.Since(ctx, since)
	if err != nil {
		return nil, Totals{}, fmt.Errorf("failed to read ledger: %w", err)
	}
	recap := make([]RecapEvent, 0, len(stored))
	var totals Totals
	for _, e := range stored {
		r.accumulate(&totals, e)
		recap = append(recap, Summarize(e))
	}
	return recap, totals, nil
}

// Summarize renders one ledger row.
func Summarize(e StoredEvent) RecapEvent {
	return RecapEvent{
		Timestamp: e.Timestamp,
		EventType: e.EventType,
		Summary:   summarizeEvent(e),
		Impact:    determineImpact(e),
	}
}

func (r *Reconstructor) accumulate(t *Totals, e StoredEvent) {
	switch events.EventType(e.EventType) {
	case events.EventTypeBuildingPurchased, events.EventTypeUpgradePurchased:
		t.Purchases++
		t.CookiesSpent += number(e.Payload, "price")
	case events.EventTypeGoldenCookieClicked:
		t.GoldenClicked++
	case events.EventTypeGoldenCookieExpired:
		t.GoldenMissed++
	case events.EventTypeAchievementUnlocked:
		t.Achievements++
	case events.EventTypeAscended:
		t.CrystalsGained += int(number(e.Payload, "crystalsGained"))
	}
}

// summarizeEvent creates a human-readable summary.
func summarizeEvent(e StoredEvent) string {
	switch events.EventType(e.EventType) {
	case events.EventTypeAchievementUnlocked:
		return "Conquista desbloqueada: " + text(e.Payload, "name")
	case events.EventTypeBuildingPurchased:
		return fmt.Sprintf("Comprou %dx %s por %s biscoitos.",
			int(number(e.Payload, "quantity")), e.TargetID, format.Cookies(number(e.Payload, "price")))
	case events.EventTypeUpgradePurchased:
		return fmt.Sprintf("Comprou a melhoria %s por %s biscoitos.", e.TargetID, format.Cookies(number(e.Payload, "price")))
	case events.EventTypeSkillPurchased:
		return fmt.Sprintf("Aprendeu %s por %s cristais.", e.TargetID, format.Crystals(int(number(e.Payload, "price"))))
	case events.EventTypeGoldenCookieSpawned:
		return "Um biscoito dourado apareceu."
	case events.EventTypeGoldenCookieClicked:
		return "Biscoito dourado: " + text(e.Payload, "message")
	case events.EventTypeGoldenCookieExpired:
		return "Um biscoito dourado sumiu."
	case events.EventTypeEffectStarted, events.EventTypeEffectRefreshed:
		return text(e.Payload, "label") + " ativo."
	case events.EventTypeEffectExpired:
		return text(e.Payload, "label") + " acabou."
	case events.EventTypeAscended:
		return fmt.Sprintf("Ascendeu e ganhou %s cristais.", format.Crystals(int(number(e.Payload, "crystalsGained"))))
	case events.EventTypeGameSaved:
		return "Jogo salvo (" + text(e.Payload, "reason") + ")."
	case events.EventTypeGameLoaded:
		return fmt.Sprintf("Jogo carregado, %s biscoitos offline.", format.Cookies(number(e.Payload, "offlineCookies")))
	case events.EventTypeGameReset:
		return "Todo o progresso foi apagado."
	case events.EventTypeBakeryRenamed:
		return "A padaria agora se chama " + text(e.Payload, "to") + "."
	default:
		return "Algo aconteceu na padaria."
	}
}

// determineImpact classifies the event impact.
func determineImpact(e StoredEvent) string {
	switch events.EventType(e.EventType) {
	case events.EventTypeGoldenCookieExpired, events.EventTypeGameReset:
		return ImpactNegative
	case events.EventTypeAchievementUnlocked, events.EventTypeGoldenCookieClicked,
		events.EventTypeAscended, events.EventTypeEffectStarted, events.EventTypeEffectRefreshed:
		return ImpactPositive
	default:
		return ImpactNeutral
	}
}

func number(payload map[string]any, key string) float64 {
	v, _ := payload[key].(float64)
	return v
}

func text(payload map[string]any, key string) string {
	v, _ := payload[key].(string)
	return v
}
