package model

import "time"

// PresenceEntry is one client's liveness record for a game. A client is
// "active" while its last beat is within the presence TTL window.
type PresenceEntry struct {
	ClientID string    `json:"client_id"`
	UserID   *string   `json:"user_id,omitempty"`
	LastBeat time.Time `json:"last_beat"`
}

type HeartbeatResult struct {
	Created     bool  `json:"created"` // false when the beat refreshed an existing entry
	ActiveCount int64 `json:"active_count"`
}
