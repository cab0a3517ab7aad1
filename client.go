package main

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 60
	maxNameLen        = 16
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	log        *zap.Logger
	send       chan []byte
	playerID   string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		log:        hub.log,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("ws read", zap.Error(err))
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.log.Warn("rate limit exceeded, disconnecting", zap.String("addr", c.remoteAddr))
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// 0xFF prefix marks a binary frame (full-state snapshot)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
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

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("marshal", zap.Error(err))
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF marker byte so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope).
// Malformed payloads are dropped with a log and no reply.
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Debug("bad envelope", zap.Error(err))
		return
	}

	switch env.T {
	case MsgJoin:
		c.handleJoin(env.D)
	case MsgUpdate:
		c.handleUpdate(env.D)
	case MsgFire:
		c.handleFire(env.D)
	case MsgImpact:
		c.handleImpact(env.D)
	case MsgCollect:
		c.handleCollect(env.D)
	case MsgCollectGun:
		c.handleCollectCannon(env.D)
	case MsgStructHit:
		c.handleStructHit(env.D)
	case MsgResync:
		c.handleResync()
	}
}

func (c *Client) handleJoin(data json.RawMessage) {
	if c.playerID != "" {
		return // already joined
	}
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		c.log.Debug("bad join payload", zap.Error(err))
		return
	}
	name := msg.Name
	if name == "" {
		name = "Pilot"
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	player := c.hub.game.AddPlayer(name)
	if player == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "arena full"}})
		return
	}
	c.playerID = player.ID
	c.hub.game.SetClient(player.ID, c)

	c.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{
		ID:      player.ID,
		MatchID: c.hub.game.MatchID(),
	}})
	if state := c.hub.game.FullState(); state != nil {
		c.SendBinary(state)
	}
}

func (c *Client) handleUpdate(data json.RawMessage) {
	if c.playerID == "" {
		return
	}
	var upd StateUpdate
	if err := json.Unmarshal(data, &upd); err != nil {
		c.log.Debug("bad update payload", zap.Error(err))
		return
	}
	c.hub.game.HandleStateUpdate(c.playerID, upd)
}

func (c *Client) handleFire(data json.RawMessage) {
	if c.playerID == "" {
		return
	}
	var req FireRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.log.Debug("bad fire payload", zap.Error(err))
		return
	}
	c.hub.game.HandleFire(c.playerID, req)
}

func (c *Client) handleImpact(data json.RawMessage) {
	if c.playerID == "" {
		return
	}
	var rep ImpactReport
	if err := json.Unmarshal(data, &rep); err != nil {
		c.log.Debug("bad impact payload", zap.Error(err))
		return
	}
	c.hub.game.HandleImpact(c.playerID, rep)
}

func (c *Client) handleCollect(data json.RawMessage) {
	if c.playerID == "" {
		return
	}
	var req CollectRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.log.Debug("bad collect payload", zap.Error(err))
		return
	}
	c.hub.game.HandleCollect(c.playerID, req.ID)
}

func (c *Client) handleCollectCannon(data json.RawMessage) {
	if c.playerID == "" {
		return
	}
	var req CollectRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.log.Debug("bad collect payload", zap.Error(err))
		return
	}
	c.hub.game.HandleCollectCannon(c.playerID, req.ID)
}

func (c *Client) handleStructHit(data json.RawMessage) {
	if c.playerID == "" {
		return
	}
	var req StructHitMsg
	if err := json.Unmarshal(data, &req); err != nil {
		c.log.Debug("bad structHit payload", zap.Error(err))
		return
	}
	c.hub.game.HandleStructHit(c.playerID, req)
}

func (c *Client) handleResync() {
	if c.playerID == "" {
		return
	}
	if state := c.hub.game.FullState(); state != nil {
		c.SendBinary(state)
	}
}
