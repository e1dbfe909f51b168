package queue

import "context"

// InlineDispatcher runs messages through the processor directly, without
// Redis. Used when no queue backend is configured.
type InlineDispatcher struct {
	processor Processor
}

func NewInlineDispatcher(processor Processor) *InlineDispatcher {
	return &InlineDispatcher{processor: processor}
}

// Dispatch processes the message in a new goroutine so the webhook can
// acknowledge immediately, mirroring the queued path.
func (d *InlineDispatcher) Dispatch(ctx context.Context, userID, text string) error {
	go d.processor.HandleInbound(context.WithoutCancel(ctx), userID, text)
	return nil
}
