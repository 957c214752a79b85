package network

import (
	"encoding/json"

	"github.com/sri-shubham/Everclimb/internal/chunk"
	"github.com/sri-shubham/Everclimb/internal/difficulty"
)

// Message types - Client → Server
const (
	MsgTypeStart = "start"
	MsgTypeNext  = "next"
	MsgTypePing  = "ping"
)

// Message types - Server → Client
const (
	MsgTypeWelcome = "welcome"
	MsgTypeChunk   = "chunk"
	MsgTypeError   = "error"
	MsgTypePong    = "pong"
)

// Error codes
const (
	ErrCodeBadMessage  = "bad_message"
	ErrCodeNotStarted  = "not_started"
	ErrCodeUnavailable = "unavailable"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// --- Client Message Payloads ---

// StartPayload begins a climb. Zero values fall back to the server defaults.
type StartPayload struct {
	Seed    *uint32 `json:"seed,omitempty"`
	Level   int     `json:"level,omitempty"`
	HexSize float64 `json:"hex_size,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
}

// --- Server Message Payloads ---

// WelcomePayload is sent to client after successful connection
type WelcomePayload struct {
	SessionID string `json:"session_id"`
	ClimberID string `json:"climber_id"`
	Username  string `json:"username"`
}

// ChunkPayload delivers one chunk of the climb
type ChunkPayload struct {
	Chunk *chunk.Chunk `json:"chunk"`
}

// DifficultyPayload is the HTTP body for a level's knobs
type DifficultyPayload struct {
	Level  int               `json:"level"`
	Params difficulty.Params `json:"params"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
