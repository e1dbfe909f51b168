// Package notify emails sales staff about newly captured leads.
package notify

import (
	"context"
	"time"

	"autoparts_backend/internal/events"
	"autoparts_backend/platform/logger"
)

// LeadSender sends lead notification emails.
type LeadSender interface {
	SendLeadNotification(ctx context.Context, toEmail, leadID, userID, intent, queryText, assignedAgent string) error
}

// Subscriber listens for lead events and sends notification emails.
type Subscriber struct {
	sender  LeadSender
	toEmail string
	log     *logger.Logger
}

func NewSubscriber(sender LeadSender, toEmail string, log *logger.Logger) *Subscriber {
	return &Subscriber{sender: sender, toEmail: toEmail, log: log}
}

// Register subscribes to lead.created on the bus.
func (s *Subscriber) Register(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(s.onLeadCreated))
}

func (s *Subscriber) onLeadCreated(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.LeadCreated)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := s.sender.SendLeadNotification(ctx, s.toEmail,
		evt.LeadID.String(), evt.UserID, evt.Intent, evt.QueryText, evt.AssignedAgent)
	if err != nil {
		s.log.Error("lead notification email failed", "lead_id", evt.LeadID, "error", err)
	}
	return nil
}
