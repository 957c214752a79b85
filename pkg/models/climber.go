package models

import "time"

// Climber is the client on the other end of a chunk feed connection
type Climber struct {
	// From JWT claims
	ID        string `json:"id"`        // subject claim
	Username  string `json:"username"`  // JWT claim
	Activated int64  `json:"activated"` // JWT claim: activation timestamp, -1 when banned

	// Connection state
	ConnectedAt time.Time `json:"connected_at"`
	LastSeen    time.Time `json:"last_seen"`
	SessionID   string    `json:"session_id"`

	// Climb state
	Seed  uint32 `json:"seed"`
	Level int    `json:"level"`
}

// Anonymous returns the climber used when authentication is not required.
func Anonymous() *Climber {
	return &Climber{ID: "anonymous", Username: "anonymous", Activated: 1}
}

// IsActive checks if the account is activated and not banned
func (c *Climber) IsActive() bool {
	return c.Activated > 0
}

// IsBanned checks if the account is banned
func (c *Climber) IsBanned() bool {
	return c.Activated == -1
}
