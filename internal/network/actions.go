package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
	"github.com/biscoitoclicker/bakery/internal/domain/rules"
	"github.com/biscoitoclicker/bakery/internal/engine"
	"github.com/biscoitoclicker/bakery/internal/events"
	"github.com/biscoitoclicker/bakery/internal/platform/format"
)

// ErrUnknownAction is returned for action types Dispatch does not route.
var ErrUnknownAction = errors.New("unknown action")

// Game is the slice of the engine the transport drives. *engine.Engine
// implements it.
type Game interface {
	ManualClick() float64
	BuyBuilding(id catalog.BuildingID, quantity int) bool
	BuyUpgrade(id catalog.UpgradeID) bool
	BuySkill(id catalog.SkillID) bool
	ClickGoldenCookie() (engine.GoldenReward, bool)
	Ascend(ctx context.Context) (int, bool, error)
	UpdateBakeryName(name string) bool
	Save(ctx context.Context) error
	ResetGame(ctx context.Context) error
	DismissNotification(id catalog.AchievementID) bool

	Snapshot() engine.View
	Catalog() *catalog.Catalog
	AvailableUpgrades() []catalog.Upgrade
	PrestigePreview() rules.PrestigePreview
	GetEventLog() *events.EventLog
}

var _ Game = (*engine.Engine)(nil)

// Dispatch routes one action to the game. A rejected purchase is a result
// with OK false; only malformed input and storage failures are errors.
func Dispatch(ctx context.Context, g Game, action PlayerAction) (ActionResult, error) {
	res := ActionResult{ID: action.ID, Action: action.Type}

	var p ActionPayload
	if len(action.Payload) > 0 {
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return res, fmt.Errorf("bad payload for %s: %w", action.Type, err)
		}
	}

	switch action.Type {
	case ActionClick:
		res.Value = g.ManualClick()
		res.OK = true
		res.Message = "+" + format.Cookies(res.Value)
	case ActionBuyBuilding:
		qty := p.Quantity
		if qty == 0 {
			qty = 1
		}
		res.OK = g.BuyBuilding(catalog.BuildingID(p.BuildingID), qty)
		res.Value = float64(qty)
	case ActionBuyUpgrade:
		res.OK = g.BuyUpgrade(catalog.UpgradeID(p.UpgradeID))
	case ActionBuySkill:
		res.OK = g.BuySkill(catalog.SkillID(p.SkillID))
	case ActionClickGolden:
		reward, ok := g.ClickGoldenCookie()
		res.OK = ok
		res.Value = reward.Cookies
		res.Message = reward.Message
	case ActionAscend:
		crystals, ok, err := g.Ascend(ctx)
		res.OK = ok
		res.Value = float64(crystals)
		if err != nil {
			return res, err
		}
	case ActionRename:
		res.OK = g.UpdateBakeryName(p.Name)
	case ActionSave:
		if err := g.Save(ctx); err != nil {
			return res, err
		}
		res.OK = true
	case ActionDismiss:
		res.OK = g.DismissNotification(catalog.AchievementID(p.AchievementID))
	case ActionReset:
		if !p.Confirm {
			res.Message = "reset requires confirm"
			return res, nil
		}
		if err := g.ResetGame(ctx); err != nil {
			return res, err
		}
		res.OK = true
	default:
		return res, fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
	}
	return res, nil
}
