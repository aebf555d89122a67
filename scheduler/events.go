package scheduler

import "github.com/orgpulse/orgpulse/analyzer"

type EventType string

const (
	EventProgress EventType = "progress"
	EventResult   EventType = "result"
	EventError    EventType = "error"
	EventDone     EventType = "done"
)

// ProgressEvent is one frame on the per-connection output stream. Result,
// error and done events carry the settle counter; progress events carry only
// the company and message.
type ProgressEvent struct {
	Type      EventType               `json:"type"`
	Company   string                  `json:"company,omitempty"`
	Message   string                  `json:"message"`
	Result    *analyzer.CompanyResult `json:"result,omitempty"`
	Completed int                     `json:"completed,omitempty"`
	Total     int                     `json:"total,omitempty"`
}

// Emitter delivers one event to the consumer, best-effort. Implementations
// must never block indefinitely or fail loudly once the consumer is gone.
type Emitter func(ProgressEvent)
