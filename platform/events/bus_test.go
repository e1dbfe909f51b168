package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"autoparts_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishDeliversToSubscribersAsynchronously(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	received := make(chan Event, 2)
	handler := HandlerFunc(func(_ context.Context, e Event) error {
		received <- e
		return nil
	})
	bus.Subscribe("thing.happened", handler)
	bus.Subscribe("thing.happened", handler)

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "thing.happened"})

	for i := 0; i < 2; i++ {
		select {
		case <-received:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for handler delivery")
		}
	}
}

func TestPublishIgnoresUnsubscribedEvents(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	received := make(chan Event, 1)
	bus.Subscribe("thing.happened", HandlerFunc(func(_ context.Context, e Event) error {
		received <- e
		return nil
	}))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "other.thing"})

	select {
	case e := <-received:
		t.Fatalf("unexpected delivery of %q", e.EventName())
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishRecoversFromPanickingHandler(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	received := make(chan struct{}, 1)
	bus.Subscribe("thing.happened", HandlerFunc(func(context.Context, Event) error {
		panic("handler bug")
	}))
	bus.Subscribe("thing.happened", HandlerFunc(func(context.Context, Event) error {
		received <- struct{}{}
		return nil
	}))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "thing.happened"})

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("panicking sibling must not block other handlers")
	}
}

func TestPublishSyncReturnsFirstHandlerError(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	wantErr := errors.New("handler failed")
	bus.Subscribe("thing.happened", HandlerFunc(func(context.Context, Event) error {
		return wantErr
	}))
	bus.Subscribe("thing.happened", HandlerFunc(func(context.Context, Event) error {
		return errors.New("second failure")
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "thing.happened"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the first handler error, got %v", err)
	}
}
