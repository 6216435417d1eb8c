package network

import (
	"encoding/json"
	"time"

	"github.com/biscoitoclicker/bakery/internal/domain/bakery"
	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
	"github.com/biscoitoclicker/bakery/internal/domain/rules"
	"github.com/biscoitoclicker/bakery/internal/engine"
	"github.com/biscoitoclicker/bakery/internal/persistence"
	"github.com/biscoitoclicker/bakery/internal/platform/format"
)

// MessageType tags every frame the server pushes.
type MessageType string

const (
	MsgTypeState  MessageType = "state"
	MsgTypeEvent  MessageType = "event"
	MsgTypeResult MessageType = "result"
	MsgTypeError  MessageType = "error"
)

// Message is the envelope of every server frame.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp"` // Unix milliseconds
	Payload   any         `json:"payload"`
}

// NewMessage stamps a frame.
func NewMessage(t MessageType, payload any) Message {
	return Message{Type: t, Timestamp: time.Now().UnixMilli(), Payload: payload}
}

// ActionType names a player command.
type ActionType string

const (
	ActionClick       ActionType = "CLICK"
	ActionBuyBuilding ActionType = "BUY_BUILDING"
	ActionBuyUpgrade  ActionType = "BUY_UPGRADE"
	ActionBuySkill    ActionType = "BUY_SKILL"
	ActionClickGolden ActionType = "CLICK_GOLDEN"
	ActionAscend      ActionType = "ASCEND"
	ActionRename      ActionType = "RENAME"
	ActionSave        ActionType = "SAVE"
	ActionDismiss     ActionType = "DISMISS"
	ActionReset       ActionType = "RESET"
)

// PlayerAction represents an incoming command from the renderer.
type PlayerAction struct {
	Type    ActionType      `json:"type"`
	ID      string          `json:"id,omitempty"` // echoed back in the result
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ActionPayload is the union of action arguments.
type ActionPayload struct {
	BuildingID    string `json:"building_id,omitempty"`
	Quantity      int    `json:"quantity,omitempty"`
	UpgradeID     string `json:"upgrade_id,omitempty"`
	SkillID       string `json:"skill_id,omitempty"`
	AchievementID string `json:"achievement_id,omitempty"`
	Name          string `json:"name,omitempty"`
	Confirm       bool   `json:"confirm,omitempty"`
}

// ActionResult answers one PlayerAction.
type ActionResult struct {
	ID      string     `json:"id,omitempty"`
	Action  ActionType `json:"action"`
	OK      bool       `json:"ok"`
	Value   float64    `json:"value,omitempty"`
	Message string     `json:"message,omitempty"`
}

// StateFrame is the periodic snapshot a renderer draws from.
type StateFrame struct {
	Bakery        persistence.SaveFile  `json:"bakery"`
	Stats         rules.Stats           `json:"stats"`
	Effects       []EffectView          `json:"effects"`
	GoldenCookie  *bakery.GoldenCookie  `json:"goldenCookie,omitempty"`
	Prestige      rules.PrestigePreview `json:"prestige"`
	Notifications []catalog.Achievement `json:"notifications"`
	Display       Display               `json:"display"`
}

// EffectView is an active effect with its countdown.
type EffectView struct {
	bakery.ActiveEffect
	Remaining string `json:"remaining"`
}

// Display carries preformatted numbers.
type Display struct {
	Cookies    string `json:"cookies"`
	Rate       string `json:"rate"`
	ClickValue string `json:"clickValue"`
}

// NewStateFrame renders an engine view.
func NewStateFrame(v engine.View) StateFrame {
	effects := make([]EffectView, 0, len(v.Effects))
	for _, e := range v.Effects {
		effects = append(effects, EffectView{ActiveEffect: e, Remaining: format.Duration(e.Remaining(v.Time))})
	}
	notifications := v.Notifications
	if notifications == nil {
		notifications = []catalog.Achievement{}
	}
	return StateFrame{
		Bakery:        persistence.FromState(v.State),
		Stats:         v.Stats,
		Effects:       effects,
		GoldenCookie:  v.GoldenCookie,
		Prestige:      v.Prestige,
		Notifications: notifications,
		Display: Display{
			Cookies:    format.Cookies(v.State.Cookies),
			Rate:       format.Rate(v.Stats.ProductionRate),
			ClickValue: format.Cookies(v.Stats.ClickValue),
		},
	}
}
