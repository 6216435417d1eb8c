// Package network - api.go
// BakeryAPI: REST surface for renderers that poll instead of holding a socket.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
	"github.com/biscoitoclicker/bakery/internal/platform/logger"
)

// BakeryAPI handles the REST routes.
type BakeryAPI struct {
	game   Game
	logger *logger.Logger
}

// NewBakeryAPI creates a new REST handler.
func NewBakeryAPI(game Game, log *logger.Logger) *BakeryAPI {
	return &BakeryAPI{game: game, logger: log}
}

// SkillView is a skill-tree node with its status for the current bakery.
type SkillView struct {
	catalog.Skill
	Owned      bool `json:"owned"`
	Unlocked   bool `json:"unlocked"` // parent owned, or a root
	Affordable bool `json:"affordable"`
}

// HandleState returns the current state frame.
// GET /api/state
func (a *BakeryAPI) HandleState(w http.ResponseWriter, r *http.Request) {
	jsonSuccess(w, NewStateFrame(a.game.Snapshot()))
}

// HandleSkills returns the skill tree in declaration order.
// GET /api/skills
func (a *BakeryAPI) HandleSkills(w http.ResponseWriter, r *http.Request) {
	state := a.game.Snapshot().State
	skills := a.game.Catalog().Skills
	out := make([]SkillView, 0, len(skills))
	for _, s := range skills {
		out = append(out, SkillView{
			Skill:      s,
			Owned:      state.HasSkill(s.ID),
			Unlocked:   !s.HasParent() || state.HasSkill(s.Parent),
			Affordable: state.PrestigeLevel >= s.Cost,
		})
	}
	jsonSuccess(w, map[string]any{
		"crystals": state.PrestigeLevel,
		"skills":   out,
	})
}

// HandleUpgrades returns the upgrades currently offered.
// GET /api/upgrades
func (a *BakeryAPI) HandleUpgrades(w http.ResponseWriter, r *http.Request) {
	upgrades := a.game.AvailableUpgrades()
	if upgrades == nil {
		upgrades = []catalog.Upgrade{}
	}
	jsonSuccess(w, upgrades)
}

// HandlePrestige returns the ascension preview.
// GET /api/prestige
func (a *BakeryAPI) HandlePrestige(w http.ResponseWriter, r *http.Request) {
	jsonSuccess(w, a.game.PrestigePreview())
}

// HandleAction runs any websocket action over HTTP.
// POST /api/action
func (a *BakeryAPI) HandleAction(w http.ResponseWriter, r *http.Request) {
	var action PlayerAction
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	a.run(r.Context(), w, action)
}

// HandleSave forces a manual save.
// POST /api/save
func (a *BakeryAPI) HandleSave(w http.ResponseWriter, r *http.Request) {
	a.run(r.Context(), w, PlayerAction{Type: ActionSave})
}

// HandleAscend converts lifetime cookies into crystals and starts a new epoch.
// POST /api/ascend
func (a *BakeryAPI) HandleAscend(w http.ResponseWriter, r *http.Request) {
	a.run(r.Context(), w, PlayerAction{Type: ActionAscend})
}

// HandleReset wipes all progress. The body must be {"confirm": true}.
// POST /api/reset
func (a *BakeryAPI) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Confirm {
		jsonError(w, "Reset requires {\"confirm\": true}", http.StatusBadRequest)
		return
	}
	payload, _ := json.Marshal(ActionPayload{Confirm: true})
	a.run(r.Context(), w, PlayerAction{Type: ActionReset, Payload: payload})
}

func (a *BakeryAPI) run(ctx context.Context, w http.ResponseWriter, action PlayerAction) {
	res, err := Dispatch(ctx, a.game, action)
	switch {
	case errors.Is(err, ErrUnknownAction):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil && res.OK:
		// Ascension happened; only its save failed.
		a.logger.Warnf("%s succeeded but did not persist: %v", action.Type, err)
	case err != nil:
		a.logger.Errorf("%s failed: %v", action.Type, err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	a.logger.Event("API_ACTION", "PLAYER", string(action.Type))
	jsonSuccess(w, res)
}

// RegisterRoutes sets up the bakery API routes.
func (a *BakeryAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/state", a.HandleState)
	mux.HandleFunc("GET /api/skills", a.HandleSkills)
	mux.HandleFunc("GET /api/upgrades", a.HandleUpgrades)
	mux.HandleFunc("GET /api/prestige", a.HandlePrestige)
	mux.HandleFunc("POST /api/action", a.HandleAction)
	mux.HandleFunc("POST /api/save", a.HandleSave)
	mux.HandleFunc("POST /api/ascend", a.HandleAscend)
	mux.HandleFunc("POST /api/reset", a.HandleReset)
}

// jsonError sends an error response.
func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonSuccess sends a success response.
func jsonSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}
