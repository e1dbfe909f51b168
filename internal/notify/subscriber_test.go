package notify

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"autoparts_backend/internal/events"
	"autoparts_backend/platform/logger"
)

type recordingSender struct {
	done    chan struct{}
	toEmail string
	leadID  string
	intent  string
}

func (s *recordingSender) SendLeadNotification(_ context.Context, toEmail, leadID, _, intent, _, _ string) error {
	s.toEmail = toEmail
	s.leadID = leadID
	s.intent = intent
	close(s.done)
	return nil
}

func TestSubscriberEmailsOnLeadCreated(t *testing.T) {
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)
	sender := &recordingSender{done: make(chan struct{})}

	NewSubscriber(sender, "sales@example.com", log).Register(bus)

	leadID := uuid.New()
	bus.Publish(context.Background(), events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		UserID:    "971501234567",
		Intent:    "part_number",
		QueryText: "ABC-123",
	})

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the notification email")
	}

	if sender.toEmail != "sales@example.com" {
		t.Fatalf("unexpected recipient %q", sender.toEmail)
	}
	if sender.leadID != leadID.String() || sender.intent != "part_number" {
		t.Fatalf("unexpected notification content lead=%q intent=%q", sender.leadID, sender.intent)
	}
}

func TestSubscriberIgnoresOtherEvents(t *testing.T) {
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)
	sender := &recordingSender{done: make(chan struct{})}

	NewSubscriber(sender, "sales@example.com", log).Register(bus)

	if err := bus.PublishSync(context.Background(), events.MessageResponded{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-sender.done:
		t.Fatal("message.responded must not trigger an email")
	default:
	}
}
