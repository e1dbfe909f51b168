// Package events re-exports the platform event bus for convenience and defines
// the domain events exchanged between modules.
package events

import (
	"github.com/google/uuid"

	platformevents "autoparts_backend/platform/events"
	"autoparts_backend/platform/logger"
)

// Bus is a type alias to the platform Bus interface.
type Bus = platformevents.Bus

// Handler is a type alias to the platform Handler interface.
type Handler = platformevents.Handler

// HandlerFunc is a type alias to the platform HandlerFunc adapter.
type HandlerFunc = platformevents.HandlerFunc

// Event is a type alias to the platform Event interface.
type Event = platformevents.Event

// BaseEvent is a type alias to the platform BaseEvent.
type BaseEvent = platformevents.BaseEvent

// NewBaseEvent creates a new base event with the current timestamp.
func NewBaseEvent() BaseEvent {
	return platformevents.NewBaseEvent()
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *platformevents.InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// LeadCreated fires when the orchestrator records a new lead for an inbound
// message, before resolution begins.
type LeadCreated struct {
	BaseEvent
	LeadID        uuid.UUID
	UserID        string
	Intent        string
	QueryText     string
	AssignedAgent string
}

// EventName returns the event identifier.
func (LeadCreated) EventName() string { return "lead.created" }

// MessageResponded fires after a reply has been produced and the lead has been
// transitioned to responded.
type MessageResponded struct {
	BaseEvent
	LeadID  uuid.UUID
	UserID  string
	Intent  string
	Results int
}

// EventName returns the event identifier.
func (MessageResponded) EventName() string { return "message.responded" }
