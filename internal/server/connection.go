package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sri-shubham/Everclimb/internal/network"
	"github.com/sri-shubham/Everclimb/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Time allowed to produce one chunk for the peer
	chunkWait = 30 * time.Second
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	ws      *websocket.Conn
	server  *Server
	climber *models.Climber
	session *Session

	// Buffered channel for outbound messages
	send      chan []byte
	closeOnce sync.Once
	done      chan struct{}
}

// NewConnection creates a new connection for an authenticated climber
func NewConnection(ws *websocket.Conn, server *Server, climber *models.Climber) *Connection {
	return &Connection{
		ws:      ws,
		server:  server,
		climber: climber,
		session: NewSession(climber, server.chunks, server.cfg.Generator.Prefetch, server.log),
		send:    make(chan []byte, 16),
		done:    make(chan struct{}),
	}
}

// Handle manages the connection lifecycle
func (c *Connection) Handle() {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeWelcome,
		Payload: network.WelcomePayload{
			SessionID: c.session.ID,
			ClimberID: c.climber.ID,
			Username:  c.climber.Username,
		},
	})

	go c.writePump()
	c.readPump() // Blocking
}

// readPump pumps messages from the WebSocket connection to the server
func (c *Connection) readPump() {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.log.Warn("websocket read error", "error", err)
			}
			return
		}

		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			c.SendError(network.ErrCodeBadMessage, "Failed to parse message")
			continue
		}
		c.handleMessage(&clientMsg)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.server.log.Warn("websocket write error", "error", err)
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-c.server.ctx.Done():
			return
		}
	}
}

// handleMessage routes messages to appropriate handlers
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	switch msg.Type {
	case network.MsgTypeStart:
		c.handleStart(msg.Payload)

	case network.MsgTypeNext:
		c.handleNext()

	case network.MsgTypePing:
		c.SendMessage(&network.ServerMessage{
			Type:    network.MsgTypePong,
			Payload: map[string]interface{}{"timestamp": time.Now().Unix()},
		})

	default:
		c.SendError(network.ErrCodeBadMessage, "Unknown message type")
	}
}

func (c *Connection) handleStart(payload json.RawMessage) {
	var p network.StartPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			c.SendError(network.ErrCodeBadMessage, "Invalid start payload")
			return
		}
	}
	req, err := c.server.startRequest(p)
	if err != nil {
		c.SendError(network.ErrCodeBadMessage, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(c.server.ctx, chunkWait)
	defer cancel()

	first, err := c.server.chunks.Generate(ctx, req)
	if err != nil {
		c.SendError(network.ErrCodeUnavailable, err.Error())
		return
	}
	c.session.Start(first)
	c.server.log.Debug("climb started", "session", c.session.ID, "seed", first.Seed(), "level", first.Level())
	c.SendMessage(&network.ServerMessage{Type: network.MsgTypeChunk, Payload: network.ChunkPayload{Chunk: first}})
}

func (c *Connection) handleNext() {
	ctx, cancel := context.WithTimeout(c.server.ctx, chunkWait)
	defer cancel()

	next, err := c.session.Next(ctx)
	if errors.Is(err, errNotStarted) {
		c.SendError(network.ErrCodeNotStarted, "Send start before next")
		return
	}
	if err != nil {
		c.SendError(network.ErrCodeUnavailable, err.Error())
		return
	}
	c.SendMessage(&network.ServerMessage{Type: network.MsgTypeChunk, Payload: network.ChunkPayload{Chunk: next}})
}

// SendMessage queues a message for the client. It blocks while the client is
// behind so chunks are never dropped.
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.server.log.Error("failed to marshal message", "type", msg.Type, "error", err)
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	}
}

// SendError sends an error message to the client
func (c *Connection) SendError(code, message string) {
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypeError,
		Payload: network.ErrorPayload{Code: code, Message: message},
	})
}

// Close closes the connection
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.session.Close()
		close(c.done)
	})
}
