package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventElementEnter   EventType = "element_enter"
	EventAnswerAccepted EventType = "answer_accepted"
	EventAnswerRejected EventType = "answer_rejected"
	EventActionFailed   EventType = "action_failed"
	EventSessionEnd     EventType = "session_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// ElementEvent represents entry into an element or an answer given to it.
type ElementEvent struct {
	EventBase
	ElementID string `json:"element_id"`
	Answer    any    `json:"answer,omitempty"`
}

// ActionEvent represents a failed side-effect.
type ActionEvent struct {
	EventBase
	ElementID string `json:"element_id"`
	Action    string `json:"action"`
	Err       error  `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnElementEnter   func(context.Context, *ElementEvent)
	OnAnswerAccepted func(context.Context, *ElementEvent)
	OnAnswerRejected func(context.Context, *ElementEvent)
	OnActionFailed   func(context.Context, *ActionEvent)
	OnSessionEnd     func(context.Context, *ElementEvent)
}

// NewElementEvent stamps an element event.
func NewElementEvent(typ EventType, sessionID, elementID string, answer any) *ElementEvent {
	return &ElementEvent{
		EventBase: EventBase{Timestamp: time.Now(), Type: typ, SessionID: sessionID},
		ElementID: elementID,
		Answer:    answer,
	}
}
