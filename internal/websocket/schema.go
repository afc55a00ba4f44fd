package websocket

import "time"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing      Action = "ping"
	ActionSubscribe Action = "subscribe"
)

// RequestEnvelope is every client message. Namespaces is only read for
// subscribe.
type RequestEnvelope struct {
	Action     Action   `json:"action"`
	Namespaces []string `json:"namespaces,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventReady      Event = "ready"
	EventInvalidate Event = "invalidate"
	EventPong       Event = "pong"
	EventError      Event = "error"
)

// ReadyResponse confirms the connection or a subscribe. An empty
// Namespaces list means every namespace.
type ReadyResponse struct {
	Event      Event    `json:"event"`
	Namespaces []string `json:"namespaces"`
}

// InvalidateEvent lists the query-key prefixes a dashboard should refetch.
type InvalidateEvent struct {
	Event Event      `json:"event"`
	Keys  [][]string `json:"keys"`
	At    time.Time  `json:"at"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
