package websocket

import "github.com/stemsi/course-registration/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing    Action = "ping"
	ActionRefresh Action = "refresh"
	ActionAdd     Action = "add"
	ActionDrop    Action = "drop"
)

// Request is any client message. Code is required for add and drop.
type Request struct {
	Action Action `json:"action"`
	Code   string `json:"code,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError     Event = "error"
	EventPong      Event = "pong"
	EventTimetable Event = "timetable"
	EventResult    Event = "result"
)

// TimetableResponse carries the current grid and credit summary. It is sent
// on connect, on refresh, and whenever the enrollment changes.
type TimetableResponse struct {
	Event     Event                   `json:"event"`
	Summary   model.EnrollmentSummary `json:"summary"`
	Timetable model.TimetableResponse `json:"timetable"`
}

// ResultResponse reports the outcome of an add or drop sent over the socket.
type ResultResponse struct {
	Event    Event  `json:"event"`
	Status   string `json:"status"`
	Code     string `json:"code"`
	Reason   string `json:"reason,omitempty"`
	Conflict string `json:"conflict,omitempty"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
