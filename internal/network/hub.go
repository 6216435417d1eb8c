package network

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/biscoitoclicker/bakery/internal/events"
	"github.com/biscoitoclicker/bakery/internal/platform/logger"
	"github.com/biscoitoclicker/bakery/internal/platform/metrics"
	"github.com/biscoitoclicker/bakery/internal/platform/optimization"
)

// Hub maintains the set of active renderers, pushes state frames to them and
// forwards every game event as it is appended.
type Hub struct {
	game     Game
	cfg      *optimization.Config
	logger   *logger.Logger
	metrics  *metrics.Collector
	upgrader websocket.Upgrader

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
}

// NewHub initializes a new WebSocket Hub. Nil cfg and collector select the
// defaults.
func NewHub(game Game, cfg *optimization.Config, log *logger.Logger, collector *metrics.Collector) *Hub {
	if cfg == nil {
		cfg = optimization.DefaultConfig()
	}
	if collector == nil {
		collector = metrics.Get()
	}
	return &Hub{
		game:    game,
		cfg:     cfg,
		logger:  log,
		metrics: collector,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The renderer is served from a different origin in development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, cfg.BroadcastChannelBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the Hub's main loop. It blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	feed, cancel := h.game.GetEventLog().Subscribe(h.cfg.EventSubscriptionBuffer)
	defer cancel()
	go h.forwardEvents(ctx, feed)
	go h.pushState(ctx)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.metrics.RecordWSConnection(1)
			h.logger.Infof("Renderer %s connected", client.id)
			client.Greet()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.metrics.RecordWSConnection(-1)
				h.logger.Infof("Renderer %s disconnected", client.id)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.metrics.RecordWSMessage(false)
				default:
					// Too slow to keep up; drop it.
					close(client.send)
					delete(h.clients, client)
					h.metrics.RecordWSConnection(-1)
					h.logger.Warnf("Renderer %s dropped: send buffer full", client.id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ConnectedClients reports the number of registered renderers.
func (h *Hub) ConnectedClients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastEvent serializes a GameEvent and sends it to every client.
func (h *Hub) BroadcastEvent(event events.GameEvent) {
	h.send(NewMessage(MsgTypeEvent, event))
}

// BroadcastState sends the current state frame to every client.
func (h *Hub) BroadcastState() {
	h.send(NewMessage(MsgTypeState, NewStateFrame(h.game.Snapshot())))
}

func (h *Hub) send(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorf("Failed to serialize %s frame: %v", msg.Type, err)
		return
	}
	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}

// forwardEvents relays the event log subscription to the clients.
func (h *Hub) forwardEvents(ctx context.Context, feed <-chan events.GameEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-feed:
			if !ok {
				return
			}
			h.BroadcastEvent(event)
		}
	}
}

// pushState sends a state frame every StatePushInterval while anyone listens.
func (h *Hub) pushState(ctx context.Context) {
	interval := h.cfg.StatePushInterval
	if interval <= 0 {
		interval = optimization.DefaultConfig().StatePushInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if h.ConnectedClients() > 0 {
				h.BroadcastState()
			}
		}
	}
}

// ServeWS upgrades the request and attaches a new renderer.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	if h.cfg.MaxClients > 0 && h.ConnectedClients() >= h.cfg.MaxClients {
		h.metrics.RecordWSError()
		http.Error(w, "too many renderers connected", http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.metrics.RecordWSError()
		h.logger.Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h, conn)
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}
	go client.WritePump()
	go client.ReadPump()
}
