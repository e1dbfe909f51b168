// Package bot implements the conversational message pipeline: intent
// classification, tiered search resolution and response synthesis, each with a
// deterministic fallback so no optional upstream is ever a hard dependency.
package bot

import "strings"

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentPartNumber Intent = "part_number"
	IntentChassis    Intent = "chassis"
	IntentCarPart    Intent = "car_part"
	IntentGreeting   Intent = "greeting"
	IntentUnknown    Intent = "unknown"
)

// ParseIntent maps a raw string to one of the five intents, case-insensitively.
// Anything unrecognized is IntentUnknown.
func ParseIntent(s string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentPartNumber:
		return IntentPartNumber
	case IntentChassis:
		return IntentChassis
	case IntentCarPart:
		return IntentCarPart
	case IntentGreeting:
		return IntentGreeting
	default:
		return IntentUnknown
	}
}

// Entity keys extracted by the classifier.
const (
	EntityPartNumber = "part_number"
	EntityChassis    = "chassis"
	EntityCarMake    = "car_make"
	EntityCarModel   = "car_model"
	EntityPartName   = "part_name"
)

// Classification is the outcome of classifying one message. It is produced
// fresh per message and never persisted directly.
type Classification struct {
	Intent   Intent
	Entities map[string]string
	Language string
}

// Entity returns the named entity or "" when absent.
func (c Classification) Entity(key string) string {
	if c.Entities == nil {
		return ""
	}
	return strings.TrimSpace(c.Entities[key])
}

// ResultVehicle is the vehicle projection embedded in a search result.
type ResultVehicle struct {
	Make          string
	Model         string
	Year          string
	ChassisNumber string
}

// Result is the normalized, source-agnostic projection of a part. Both the
// local catalog and the external provider are adapted into this shape before
// reaching the synthesizer. Price, when set, is non-negative.
type Result struct {
	PartNumber  string
	Name        string
	Brand       string
	Price       *float64
	QuantityMin *int
	Vehicle     *ResultVehicle
}
