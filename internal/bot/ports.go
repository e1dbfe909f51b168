package bot

import (
	"context"

	"github.com/google/uuid"

	"autoparts_backend/internal/catalog"
	"autoparts_backend/internal/partsapi"
)

// Completer is the model-completion provider. A nil Completer means the
// primary strategy is unavailable and the deterministic fallback is used.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error)
}

// Translator is the language detection and translation provider.
type Translator interface {
	DetectLanguage(ctx context.Context, text string) (string, error)
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// CatalogStore is the read-only local catalog consumed by the resolver.
type CatalogStore interface {
	PartsByPartNumber(ctx context.Context, partNumber string, limit int) ([]catalog.Part, error)
	VehicleByChassis(ctx context.Context, chassisNumber string) (*catalog.Vehicle, error)
	PartsByVehicle(ctx context.Context, vehicleID int64, limit int) ([]catalog.Part, error)
	VehiclesByMakeOrModel(ctx context.Context, tokens []string) ([]catalog.Vehicle, error)
	PartsByNameAndVehicles(ctx context.Context, namePattern string, vehicleIDs []int64, anyVehicle bool, limit int) ([]catalog.Part, error)
}

// PartsProvider is the external part/vehicle lookup provider.
type PartsProvider interface {
	FindPartsByPartNumber(ctx context.Context, partNumber string) ([]partsapi.Part, error)
	LookupVehicleByChassis(ctx context.Context, chassisNumber string) (*partsapi.Vehicle, error)
}

// LeadTracker records one conversation record per inbound message. Lifecycle
// ownership stays with the orchestrator: the resolver and synthesizer never
// touch it.
type LeadTracker interface {
	CreateLead(ctx context.Context, userID, queryText, intent, locale, assignedAgent string) (uuid.UUID, error)
	MarkResponded(ctx context.Context, id uuid.UUID) error
}

// Messenger delivers reply text to a user. Fire-and-forget: delivery failure
// must not propagate into the pipeline result.
type Messenger interface {
	SendText(ctx context.Context, waID, text string) error
}

// AgentSource hands out sales agent names for lead assignment.
type AgentSource interface {
	Next() string
}
