package events

import "time"

// AchievementPayload accompanies ACHIEVEMENT_UNLOCKED.
type AchievementPayload struct {
	AchievementID string `json:"achievementId"`
	Name          string `json:"name"`
	Description   string `json:"description"`
}

// GoldenCookiePayload accompanies GOLDEN_COOKIE_SPAWNED and GOLDEN_COOKIE_EXPIRED.
type GoldenCookiePayload struct {
	CookieID string  `json:"cookieId"`
	Kind     string  `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Life     float64 `json:"life"`
}

// GoldenRewardPayload accompanies GOLDEN_COOKIE_CLICKED.
type GoldenRewardPayload struct {
	CookieID string  `json:"cookieId"`
	Kind     string  `json:"kind"`
	Cookies  float64 `json:"cookies,omitempty"`
	Message  string  `json:"message"`
}

// EffectPayload accompanies the EFFECT_* events.
type EffectPayload struct {
	Kind       string        `json:"kind"`
	Label      string        `json:"label"`
	Multiplier float64       `json:"multiplier"`
	EndTime    time.Time     `json:"endTime"`
	Duration   time.Duration `json:"duration"`
}

// PurchasePayload accompanies building, upgrade and skill purchases.
type PurchasePayload struct {
	ItemID   string  `json:"itemId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"` // "cookies" or "crystals"
}

// AscendPayload accompanies ASCENDED.
type AscendPayload struct {
	CrystalsGained  int     `json:"crystalsGained"`
	PrestigeLevel   int     `json:"prestigeLevel"`
	LifetimeCookies float64 `json:"lifetimeCookies"`
}

// SavePayload accompanies GAME_SAVED.
type SavePayload struct {
	Reason string `json:"reason"`
	Bytes  int    `json:"bytes"`
}

// LoadPayload accompanies GAME_LOADED.
type LoadPayload struct {
	Found          bool    `json:"found"`
	Corrupt        bool    `json:"corrupt,omitempty"`
	OfflineSeconds float64 `json:"offlineSeconds"`
	OfflineCookies float64 `json:"offlineCookies"`
}

// RenamePayload accompanies BAKERY_RENAMED.
type RenamePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}
