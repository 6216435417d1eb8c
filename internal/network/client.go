package network

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Bound on storage work triggered by SAVE, ASCEND and RESET.
	actionTimeout = 5 * time.Second
)

// Client is one connected renderer.
type Client struct {
	id      string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

// NewClient wraps conn with a send buffer and an action rate limiter.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:      uuid.NewString(),
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, hub.cfg.ClientSendBuffer),
		limiter: rate.NewLimiter(rate.Limit(hub.cfg.MaxActionsPerSecond), hub.cfg.ActionBurst),
	}
}

// ID returns the connection id.
func (c *Client) ID() string { return c.id }

// Greet queues the current state so the renderer can draw immediately.
func (c *Client) Greet() {
	c.reply(NewMessage(MsgTypeState, NewStateFrame(c.hub.game.Snapshot())))
}

// ReadPump pumps actions from the websocket connection into the game.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.metrics.RecordWSError()
				c.hub.logger.Warnf("Renderer %s read error: %v", c.id, err)
			}
			break
		}
		c.hub.metrics.RecordWSMessage(true)

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Warn("Failed to parse PlayerAction from WebSocket. err: " + err.Error())
			c.replyError(action.ID, "malformed action")
			continue
		}
		c.handlePlayerAction(action)
	}
}

func (c *Client) handlePlayerAction(action PlayerAction) {
	if !c.limiter.Allow() {
		c.hub.metrics.RecordWSRateLimited()
		c.replyError(action.ID, "rate limit exceeded")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()
	res, err := Dispatch(ctx, c.hub.game, action)
	switch {
	case err != nil && res.OK:
		c.hub.logger.Warnf("%s from %s succeeded but did not persist: %v", action.Type, c.id, err)
	case err != nil:
		if !errors.Is(err, ErrUnknownAction) {
			c.hub.logger.Errorf("Action %s from %s failed: %v", action.Type, c.id, err)
		}
		c.replyError(action.ID, err.Error())
		return
	}
	c.reply(NewMessage(MsgTypeResult, res))
	if res.OK {
		c.reply(NewMessage(MsgTypeState, NewStateFrame(c.hub.game.Snapshot())))
	}
}

func (c *Client) replyError(id, msg string) {
	c.reply(NewMessage(MsgTypeError, ActionResult{ID: id, Message: msg}))
}

// reply queues a frame for this client only. A full buffer drops the frame;
// the next state push resynchronizes the renderer.
func (c *Client) reply(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Errorf("Failed to serialize reply: %v", err)
		return
	}
	// The hub closes send under mu once the client is gone.
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	if !c.hub.clients[c] {
		return
	}
	select {
	case c.send <- payload:
		c.hub.metrics.RecordWSMessage(false)
	default:
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
