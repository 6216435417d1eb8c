package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
	"github.com/biscoitoclicker/bakery/internal/domain/rules"
	"github.com/biscoitoclicker/bakery/internal/engine"
	"github.com/biscoitoclicker/bakery/internal/events"
	"github.com/biscoitoclicker/bakery/internal/infra/storage"
	"github.com/biscoitoclicker/bakery/internal/persistence"
	"github.com/biscoitoclicker/bakery/internal/platform/logger"
	"github.com/biscoitoclicker/bakery/internal/platform/metrics"
	"github.com/biscoitoclicker/bakery/internal/platform/optimization"
)

var epoch = time.UnixMilli(1_700_000_000_000)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cat := catalog.Default()
	bal := rules.DefaultBalance()
	log := logger.NewNop()
	return engine.NewEngine(engine.Options{
		Catalog:   cat,
		Balance:   &bal,
		Clock:     engine.NewFakeClock(epoch),
		Random:    engine.NewSequenceRandom(0.99),
		Logger:    log,
		Events:    events.NewEventLog(nil, 0),
		Persister: persistence.NewBridge(persistence.NewMemoryBlobStore(), "", cat, bal, log),
		Metrics:   metrics.NewCollector(),
	})
}

func action(t *testing.T, typ ActionType, payload any) PlayerAction {
	t.Helper()
	a := PlayerAction{Type: typ, ID: "req-1"}
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		a.Payload = raw
	}
	return a
}

func TestDispatchRoutesActions(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	res, err := Dispatch(ctx, eng, action(t, ActionClick, nil))
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 1.0, res.Value)
	assert.Equal(t, "req-1", res.ID)

	res, err = Dispatch(ctx, eng, action(t, ActionBuyBuilding, ActionPayload{BuildingID: "cursor"}))
	require.NoError(t, err)
	assert.False(t, res.OK, "one cookie does not buy a cursor")

	res, err = Dispatch(ctx, eng, action(t, ActionRename, ActionPayload{Name: "  Forno Feliz  "}))
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "Forno Feliz", eng.Snapshot().State.BakeryName)

	res, err = Dispatch(ctx, eng, action(t, ActionDismiss, ActionPayload{AchievementID: "ach_click_0"}))
	require.NoError(t, err)
	assert.True(t, res.OK)

	res, err = Dispatch(ctx, eng, action(t, ActionClickGolden, nil))
	require.NoError(t, err)
	assert.False(t, res.OK, "no golden cookie on screen")

	res, err = Dispatch(ctx, eng, action(t, ActionAscend, nil))
	require.NoError(t, err)
	assert.False(t, res.OK, "a single cookie is not worth a crystal")
}

func TestDispatchRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	_, err := Dispatch(ctx, eng, PlayerAction{Type: "BAKE_CAKE"})
	require.ErrorIs(t, err, ErrUnknownAction)

	_, err = Dispatch(ctx, eng, PlayerAction{Type: ActionBuyBuilding, Payload: json.RawMessage(`[1,2]`)})
	require.Error(t, err)

	eng.ManualClick()
	res, err := Dispatch(ctx, eng, action(t, ActionReset, nil))
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, 1.0, eng.Snapshot().State.Cookies, "unconfirmed reset keeps progress")

	res, err = Dispatch(ctx, eng, action(t, ActionReset, ActionPayload{Confirm: true}))
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Zero(t, eng.Snapshot().State.Cookies)
}

func TestStateFrameCarriesDisplayStrings(t *testing.T) {
	eng := newTestEngine(t)
	for range 1500 {
		eng.ManualClick()
	}

	frame := NewStateFrame(eng.Snapshot())
	assert.Equal(t, "1.5k", frame.Display.Cookies)
	assert.Equal(t, 1500.0, frame.Bakery.Cookies)
	assert.NotNil(t, frame.Effects)
	assert.NotEmpty(t, frame.Notifications)

	raw, err := json.Marshal(frame)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"lifetimeCookies":1500`)
}

func newTestMux(t *testing.T, eng *engine.Engine, ledger storage.EventRepository) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewBakeryAPI(eng, logger.NewNop()).RegisterRoutes(mux)
	NewHistoryHandler(eng.GetEventLog(), ledger, logger.NewNop()).RegisterRoutes(mux)
	return mux
}

func doJSON(t *testing.T, mux http.Handler, method, path, body string, out any) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestRESTState(t *testing.T) {
	eng := newTestEngine(t)
	eng.ManualClick()
	mux := newTestMux(t, eng, nil)

	var frame StateFrame
	require.Equal(t, http.StatusOK, doJSON(t, mux, http.MethodGet, "/api/state", "", &frame))
	assert.Equal(t, 1.0, frame.Bakery.Cookies)
	assert.Equal(t, "Padaria do Jogador", frame.Bakery.BakeryName)

	var skills struct {
		Crystals int         `json:"crystals"`
		Skills   []SkillView `json:"skills"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, mux, http.MethodGet, "/api/skills", "", &skills))
	require.Len(t, skills.Skills, len(eng.Catalog().Skills))
	for _, s := range skills.Skills {
		assert.False(t, s.Owned)
		assert.Equal(t, !s.HasParent(), s.Unlocked, s.ID)
	}

	var upgrades []catalog.Upgrade
	require.Equal(t, http.StatusOK, doJSON(t, mux, http.MethodGet, "/api/upgrades", "", &upgrades))
	assert.NotNil(t, upgrades)
}

func TestRESTCommands(t *testing.T) {
	eng := newTestEngine(t)
	eng.ManualClick()
	mux := newTestMux(t, eng, nil)

	var res ActionResult
	require.Equal(t, http.StatusOK, doJSON(t, mux, http.MethodPost, "/api/save", "", &res))
	assert.True(t, res.OK)

	require.Equal(t, http.StatusOK, doJSON(t, mux, http.MethodPost, "/api/action", `{"type":"CLICK"}`, &res))
	assert.True(t, res.OK)
	assert.Equal(t, 2.0, eng.Snapshot().State.Cookies)

	require.Equal(t, http.StatusBadRequest, doJSON(t, mux, http.MethodPost, "/api/action", `{"type":"NOPE"}`, nil))
	require.Equal(t, http.StatusBadRequest, doJSON(t, mux, http.MethodPost, "/api/reset", `{}`, nil))
	assert.Equal(t, 2.0, eng.Snapshot().State.Cookies)

	require.Equal(t, http.StatusOK, doJSON(t, mux, http.MethodPost, "/api/reset", `{"confirm":true}`, &res))
	assert.True(t, res.OK)
	assert.Zero(t, eng.Snapshot().State.Cookies)

	require.Equal(t, http.StatusMethodNotAllowed, doJSON(t, mux, http.MethodGet, "/api/save", "", nil))
}

func TestHistoryFromMemory(t *testing.T) {
	eng := newTestEngine(t)
	eng.ManualClick()
	require.NoError(t, eng.Save(context.Background()))
	mux := newTestMux(t, eng, nil)

	var resp HistoryResponse
	require.Equal(t, http.StatusOK, doJSON(t, mux, http.MethodGet, "/api/history?type=GAME_SAVED", "", &resp))
	assert.Equal(t, "memory", resp.Source)
	require.Equal(t, 1, resp.TotalEvents)
	assert.Equal(t, "Jogo salvo (manual).", resp.Events[0].Summary)

	require.Equal(t, http.StatusOK, doJSON(t, mux, http.MethodGet, "/api/history?limit=1", "", &resp))
	assert.Len(t, resp.Events, 1)

	require.Equal(t, http.StatusBadRequest, doJSON(t, mux, http.MethodGet, "/api/history?limit=lots", "", nil))
	require.Equal(t, http.StatusNotFound, doJSON(t, mux, http.MethodGet, "/api/history?source=ledger", "", nil))
	require.Equal(t, http.StatusNotFound, doJSON(t, mux, http.MethodGet, "/api/history/recap", "", nil))

	var stats struct {
		Total  int            `json:"total_events"`
		ByType map[string]int `json:"by_type"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, mux, http.MethodGet, "/api/history/stats", "", &stats))
	assert.Equal(t, 1, stats.ByType["GAME_SAVED"])
	assert.Equal(t, len(eng.GetEventLog().Replay()), stats.Total)
}

func TestHistoryFromLedger(t *testing.T) {
	db, err := storage.InitSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := storage.NewSQLiteEventRepository(db)

	stored, err := storage.ToStored(events.GameEvent{
		ID: "e1", Seq: 1, Timestamp: time.Now(), Type: events.EventTypeAscended, ActorID: events.ActorPlayer,
		Payload: events.AscendPayload{CrystalsGained: 3, PrestigeLevel: 3, LifetimeCookies: 9e6},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Append(context.Background(), stored))

	mux := newTestMux(t, newTestEngine(t), repo)

	var resp HistoryResponse
	require.Equal(t, http.StatusOK, doJSON(t, mux, http.MethodGet, "/api/history?source=ledger", "", &resp))
	assert.Equal(t, "ledger", resp.Source)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "Ascendeu e ganhou 3 cristais.", resp.Events[0].Summary)

	var recap struct {
		Totals storage.Totals `json:"totals"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, mux, http.MethodGet, "/api/history/recap", "", &recap))
	assert.Equal(t, 3, recap.Totals.CrystalsGained)
	require.Equal(t, http.StatusBadRequest, doJSON(t, mux, http.MethodGet, "/api/history/recap?since=yesterday", "", nil))
}

// wsHarness runs a hub behind an httptest server.
type wsHarness struct {
	hub *Hub
	srv *httptest.Server
	url string
}

func newWSHarness(t *testing.T, cfg *optimization.Config) *wsHarness {
	t.Helper()
	hub := NewHub(newTestEngine(t), cfg, logger.NewNop(), metrics.NewCollector())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return &wsHarness{hub: hub, srv: srv, url: "ws" + strings.TrimPrefix(srv.URL, "http")}
}

func (h *wsHarness) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(h.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil returns the first frame of the given type.
func readUntil(t *testing.T, conn *websocket.Conn, typ MessageType) json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg struct {
			Type    MessageType     `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == typ {
			return msg.Payload
		}
	}
}

func TestWebSocketGreetsAndRunsActions(t *testing.T) {
	h := newWSHarness(t, nil)
	conn := h.dial(t)

	var frame StateFrame
	require.NoError(t, json.Unmarshal(readUntil(t, conn, MsgTypeState), &frame))
	assert.Zero(t, frame.Bakery.Cookies)

	require.NoError(t, conn.WriteJSON(PlayerAction{Type: ActionClick, ID: "c1"}))

	// The click unlocks achievements, which the event feed forwards; the
	// result and the events race each other.
	var res ActionResult
	var unlocked []events.GameEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for res.ID == "" || len(unlocked) == 0 {
		var msg struct {
			Type    MessageType     `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		require.NoError(t, conn.ReadJSON(&msg))
		switch msg.Type {
		case MsgTypeResult:
			require.NoError(t, json.Unmarshal(msg.Payload, &res))
		case MsgTypeEvent:
			var e events.GameEvent
			require.NoError(t, json.Unmarshal(msg.Payload, &e))
			if e.Type == events.EventTypeAchievementUnlocked {
				unlocked = append(unlocked, e)
			}
		}
	}
	assert.Equal(t, "c1", res.ID)
	assert.True(t, res.OK)
	assert.Equal(t, 1.0, res.Value)

	require.NoError(t, conn.WriteJSON(PlayerAction{Type: "DANCE", ID: "c2"}))
	require.NoError(t, json.Unmarshal(readUntil(t, conn, MsgTypeError), &res))
	assert.Equal(t, "c2", res.ID)
	assert.Contains(t, res.Message, "unknown action")
}

func TestWebSocketRateLimit(t *testing.T) {
	cfg := optimization.DefaultConfig()
	cfg.MaxActionsPerSecond = 0.001
	cfg.ActionBurst = 1
	h := newWSHarness(t, cfg)
	conn := h.dial(t)
	readUntil(t, conn, MsgTypeState)

	require.NoError(t, conn.WriteJSON(PlayerAction{Type: ActionClick, ID: "first"}))
	readUntil(t, conn, MsgTypeResult)

	require.NoError(t, conn.WriteJSON(PlayerAction{Type: ActionClick, ID: "second"}))
	var res ActionResult
	require.NoError(t, json.Unmarshal(readUntil(t, conn, MsgTypeError), &res))
	assert.Equal(t, "second", res.ID)
	assert.Equal(t, "rate limit exceeded", res.Message)
	assert.EqualValues(t, 1, h.hub.metrics.WSRateLimited)
}

func TestWebSocketMaxClients(t *testing.T) {
	cfg := optimization.DefaultConfig()
	cfg.MaxClients = 1
	h := newWSHarness(t, cfg)

	h.dial(t)
	require.Eventually(t, func() bool { return h.hub.ConnectedClients() == 1 }, 2*time.Second, 10*time.Millisecond)

	_, resp, err := websocket.DefaultDialer.Dial(h.url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWebSocketPushesState(t *testing.T) {
	cfg := optimization.DefaultConfig()
	cfg.StatePushInterval = 20 * time.Millisecond
	h := newWSHarness(t, cfg)
	conn := h.dial(t)

	readUntil(t, conn, MsgTypeState) // greeting
	readUntil(t, conn, MsgTypeState) // periodic push
}
