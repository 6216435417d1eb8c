// Package engine - achievement_system.go
// Achievement System: scans unlock predicates after every mutation and tick.
// Unlocks are permanent until a full reset.
package engine

import (
	"time"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
	"github.com/biscoitoclicker/bakery/internal/events"
	"github.com/biscoitoclicker/bakery/internal/platform/logger"
)

// AchievementSystem unlocks achievements whose predicates hold.
type AchievementSystem struct {
	cat      *catalog.Catalog
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewAchievementSystem creates the achievement scanner.
func NewAchievementSystem(cat *catalog.Catalog, eventLog *events.EventLog, log *logger.Logger) *AchievementSystem {
	return &AchievementSystem{
		cat:      cat,
		eventLog: eventLog,
		logger:   log,
	}
}

// Scan unlocks every newly satisfied achievement in catalog order and returns them.
func (as *AchievementSystem) Scan(s *bakery.GameState, now time.Time) []catalog.Achievement {
	facts := s.Facts()
	var unlocked []catalog.Achievement
	for _, a := range as.cat.Achievements {
		if s.HasAchievement(a.ID) || !a.Unlock.Eval(facts) {
			continue
		}
		s.Achievements[a.ID] = struct{}{}
		unlocked = append(unlocked, a)

		as.eventLog.Append(events.GameEvent{
			Timestamp: now,
			Type:      events.EventTypeAchievementUnlocked,
			ActorID:   events.ActorOven,
			TargetID:  string(a.ID),
			Payload: events.AchievementPayload{
				AchievementID: string(a.ID),
				Name:          a.Name,
				Description:   a.Description,
			},
		})
		as.logger.Event(string(events.EventTypeAchievementUnlocked), events.ActorPlayer, a.Name)
	}
	return unlocked
}
