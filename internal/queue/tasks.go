// Package queue moves inbound messages from the webhook to the pipeline.
// With Redis configured, each message becomes one asynq task consumed by a
// bounded worker pool; without it, messages are processed inline. Tasks are
// enqueued with zero retries: a failed upstream degrades to its fallback
// within the same request instead of being re-run.
package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskInboundMessage = "messages.inbound"

// InboundMessagePayload is the task body for one inbound message.
type InboundMessagePayload struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

// NewInboundMessageTask builds the asynq task for an inbound message.
func NewInboundMessageTask(payload InboundMessagePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInboundMessage, data, asynq.MaxRetry(0)), nil
}

// ParseInboundMessagePayload decodes the task body.
func ParseInboundMessagePayload(task *asynq.Task) (InboundMessagePayload, error) {
	var payload InboundMessagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return InboundMessagePayload{}, err
	}
	return payload, nil
}
