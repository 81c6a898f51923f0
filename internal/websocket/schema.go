package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action sent by the client.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError  Event = "error"
	EventStatus Event = "status"
	EventPong   Event = "pong"
)

// StatusResponse carries the current application and fee status.
type StatusResponse struct {
	Event     Event  `json:"event"`
	StudentID string `json:"studentId"`
	Status    string `json:"status"`
	FeeStatus string `json:"feeStatus,omitempty"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
