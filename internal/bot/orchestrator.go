package bot

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"autoparts_backend/internal/events"
	"autoparts_backend/platform/logger"
)

// Orchestrator wires the pipeline for one message: classify, resolve,
// synthesize, track. It owns the lead lifecycle and implements no business
// rules of its own. Every inbound message reaches a reply and a responded
// lead, even when a pipeline stage fails.
type Orchestrator struct {
	classifier  *Classifier
	resolver    *Resolver
	synthesizer *Synthesizer
	leadStore   LeadTracker
	agents      AgentSource
	messenger   Messenger
	bus         events.Bus
	log         *logger.Logger
}

// NewOrchestrator creates the orchestrator. messenger and agents may be nil.
func NewOrchestrator(
	classifier *Classifier,
	resolver *Resolver,
	synthesizer *Synthesizer,
	leadStore LeadTracker,
	agents AgentSource,
	messenger Messenger,
	bus events.Bus,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		classifier:  classifier,
		resolver:    resolver,
		synthesizer: synthesizer,
		leadStore:   leadStore,
		agents:      agents,
		messenger:   messenger,
		bus:         bus,
		log:         log,
	}
}

// HandleInbound processes one inbound message end to end. It never returns an
// error: failures degrade to the fixed apology reply, and the lead record is
// still transitioned to responded.
func (o *Orchestrator) HandleInbound(ctx context.Context, userID, text string) {
	log := o.log.WithUserID(userID)
	log.Info("message_received", "length", len(text))

	cls := o.classifier.Classify(ctx, text)

	assignedAgent := ""
	if o.agents != nil {
		assignedAgent = o.agents.Next()
	}

	leadID, err := o.leadStore.CreateLead(ctx, userID, text, string(cls.Intent), cls.Language, assignedAgent)
	if err != nil {
		// The reply path still runs; a lost lead record must not cost the
		// user their answer.
		log.DatabaseError("create lead", err)
	} else {
		o.bus.Publish(ctx, events.LeadCreated{
			BaseEvent:     events.NewBaseEvent(),
			LeadID:        leadID,
			UserID:        userID,
			Intent:        string(cls.Intent),
			QueryText:     text,
			AssignedAgent: assignedAgent,
		})
	}

	reply, resultCount := o.reply(ctx, cls, text)

	if leadID != uuid.Nil {
		if err := o.leadStore.MarkResponded(ctx, leadID); err != nil {
			log.DatabaseError("mark lead responded", err)
		}
	}

	if o.messenger != nil {
		if err := o.messenger.SendText(ctx, userID, reply); err != nil {
			log.Error("outbound send failed", "error", err)
		}
	}

	if leadID != uuid.Nil {
		o.bus.Publish(ctx, events.MessageResponded{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    leadID,
			UserID:    userID,
			Intent:    string(cls.Intent),
			Results:   resultCount,
		})
	}

	log.ReplySent(userID, string(cls.Intent), resultCount)
}

// reply produces the reply text for a classified message. Defects anywhere in
// resolution or synthesis are converted into the fixed apology here, at the
// orchestrator boundary, never surfaced to the user as raw errors.
func (o *Orchestrator) reply(ctx context.Context, cls Classification, text string) (reply string, resultCount int) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("pipeline panic", "panic", r, "intent", string(cls.Intent))
			reply = apologyReply
			resultCount = 0
		}
	}()

	if cls.Intent == IntentGreeting {
		return greetingReply(cls.Language), 0
	}

	results, err := o.resolver.Resolve(ctx, cls, text)
	if errors.Is(err, ErrVehicleNotFound) {
		return chassisNotFoundReply(cls.Language), 0
	}
	if err != nil {
		o.log.Error("resolution failed", "error", err, "intent", string(cls.Intent))
		return apologyReply, 0
	}

	return o.synthesizer.Synthesize(ctx, results, cls.Intent, cls.Language), len(results)
}
