package chat

import "time"

// Profile is the unvalidated identity captured at sign-in. It lives only as long as the session.
type Profile struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	FarmID string `json:"farmId,omitempty"`
}

// Session binds a conversation to the profile that opened it.
type Session struct {
	ID        string    `json:"id"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"createdAt"`
}

// Snapshot is a read-only view of a conversation handed to renderers.
// LatestID is the entry a client should scroll to.
type Snapshot struct {
	SessionID string    `json:"sessionId"`
	Messages  []Message `json:"messages"`
	Pending   bool      `json:"pending"`
	LatestID  string    `json:"latestId"`
}
