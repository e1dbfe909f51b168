package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"autoparts_backend/platform/logger"
)

// Processor runs the pipeline for one inbound message. Satisfied by
// bot.Orchestrator.
type Processor interface {
	HandleInbound(ctx context.Context, userID, text string)
}

// Worker consumes inbound message tasks with a bounded concurrency pool.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	processor Processor
	log       *logger.Logger
}

// NewWorker creates the asynq worker.
func NewWorker(redisURL string, concurrency int, processor Processor, log *logger.Logger) (*Worker, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
	})

	w := &Worker{
		server:    server,
		mux:       asynq.NewServeMux(),
		processor: processor,
		log:       log,
	}
	w.mux.HandleFunc(TaskInboundMessage, w.handleInboundMessage)

	return w, nil
}

// Run starts the worker and blocks until Shutdown is called.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown stops the worker, waiting for in-flight tasks.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// handleInboundMessage never returns a processing error: the orchestrator
// degrades internally, and a returned error would make asynq re-run a
// pipeline that must not be retried.
func (w *Worker) handleInboundMessage(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseInboundMessagePayload(task)
	if err != nil {
		w.log.Error("inbound task payload unparseable", "error", err)
		return nil
	}

	w.processor.HandleInbound(ctx, payload.UserID, payload.Text)
	return nil
}
