package bakery

import "time"

// EffectKind identifies a temporary multiplier slot. At most one effect per kind is active.
type EffectKind string

const (
	EffectProductionBoost EffectKind = "frenzy"
	EffectClickBoost      EffectKind = "clickfrenzy"
)

// ActiveEffect is a timed multiplier started by a golden cookie.
type ActiveEffect struct {
	Kind       EffectKind    `json:"type"`
	Label      string        `json:"label"`
	Multiplier float64       `json:"multiplier"`
	StartTime  time.Time     `json:"startTime"`
	EndTime    time.Time     `json:"endTime"`
	Duration   time.Duration `json:"duration"`
}

// Expired reports whether the effect ended at or before now.
func (e ActiveEffect) Expired(now time.Time) bool {
	return !now.Before(e.EndTime)
}

// Remaining returns the time left, never negative.
func (e ActiveEffect) Remaining(now time.Time) time.Duration {
	if d := e.EndTime.Sub(now); d > 0 {
		return d
	}
	return 0
}

// GoldenKind is the reward a golden cookie grants when clicked.
type GoldenKind string

const (
	GoldenLucky            GoldenKind = "lucky"
	GoldenProductionFrenzy GoldenKind = "frenzy"
	GoldenClickFrenzy      GoldenKind = "clickfrenzy"
)

// GoldenCookie is the single live random event. X and Y are screen percentages.
type GoldenCookie struct {
	ID        string     `json:"id"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Kind      GoldenKind `json:"type"`
	Life      float64    `json:"life"` // seconds until it vanishes
	SpawnedAt time.Time  `json:"spawnedAt"`
}
