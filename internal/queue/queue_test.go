package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type recordingProcessor struct {
	mu      sync.Mutex
	handled []InboundMessagePayload
	done    chan struct{}
}

func newRecordingProcessor() *recordingProcessor {
	return &recordingProcessor{done: make(chan struct{}, 1)}
}

func (p *recordingProcessor) HandleInbound(_ context.Context, userID, text string) {
	p.mu.Lock()
	p.handled = append(p.handled, InboundMessagePayload{UserID: userID, Text: text})
	p.mu.Unlock()
	p.done <- struct{}{}
}

func TestInboundMessageTaskRoundTrip(t *testing.T) {
	task, err := NewInboundMessageTask(InboundMessagePayload{UserID: "971501234567", Text: "brake pads"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TaskInboundMessage {
		t.Fatalf("unexpected task type %q", task.Type())
	}

	payload, err := ParseInboundMessagePayload(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.UserID != "971501234567" || payload.Text != "brake pads" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestParseInboundMessagePayloadRejectsGarbage(t *testing.T) {
	task := asynq.NewTask(TaskInboundMessage, []byte("not json"))
	if _, err := ParseInboundMessagePayload(task); err == nil {
		t.Fatal("expected an error for a garbage payload")
	}
}

func TestClientEnqueuesInboundMessage(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if err := client.Dispatch(context.Background(), "971501234567", "brake pads"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks("default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected one pending task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskInboundMessage {
		t.Fatalf("unexpected task type %q", tasks[0].Type)
	}
	if tasks[0].MaxRetry != 0 {
		t.Fatalf("inbound tasks must not be retried, got max retry %d", tasks[0].MaxRetry)
	}
}

func TestNewClientRejectsEmptyAndInvalidURLs(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatal("expected an error for an empty url")
	}
	if _, err := NewClient("not-a-url"); err == nil {
		t.Fatal("expected an error for an invalid url")
	}
}

func TestInlineDispatcherProcessesInBackground(t *testing.T) {
	processor := newRecordingProcessor()
	d := NewInlineDispatcher(processor)

	if err := d.Dispatch(context.Background(), "971501234567", "brake pads"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-processor.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for inline processing")
	}

	processor.mu.Lock()
	defer processor.mu.Unlock()
	if len(processor.handled) != 1 || processor.handled[0].Text != "brake pads" {
		t.Fatalf("unexpected handled payloads %+v", processor.handled)
	}
}
