package bot

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"autoparts_backend/platform/logger"
)

const classifySystemPrompt = `You are a car parts assistant. Analyze user messages and extract:
1. Intent: one of: 'part_number', 'chassis', 'car_part', 'greeting', 'unknown'
2. Entities:
   - part_number: if user mentions a part number/SKU
   - chassis: if user mentions chassis/VIN number
   - car_make: car manufacturer (Toyota, Nissan, etc.)
   - car_model: car model name
   - part_name: name of the part (alternator, brake pad, etc.)
3. Language: detected language code (en, ar, etc.)

Respond ONLY with valid JSON in this format:
{
  "intent": "...",
  "entities": {...},
  "language": "..."
}`

const (
	classifyTemperature = 0.3
	classifyMaxTokens   = 200
)

// Greeting tokens matched as substrings of the lowercased message.
var greetingTokens = []string{"hello", "hi", "hey", "مرحبا"}

var partNumberPattern = regexp.MustCompile(`\b[A-Z0-9-]{4,}\b`)

// Classifier extracts intent, entities and language from a message. Classify
// never fails outward: any primary-strategy error falls back to the
// deterministic heuristic, which always produces a result.
type Classifier struct {
	ai         Completer
	translator Translator
	log        *logger.Logger
}

// NewClassifier creates a classifier. ai and translator may be nil.
func NewClassifier(ai Completer, translator Translator, log *logger.Logger) *Classifier {
	return &Classifier{ai: ai, translator: translator, log: log}
}

// Classify returns the classification for the given message text.
func (c *Classifier) Classify(ctx context.Context, text string) Classification {
	if c.ai != nil {
		cls, err := c.classifyWithModel(ctx, text)
		if err == nil {
			return cls
		}
		c.log.UpstreamDegraded("openai", "classify", err)
	}
	return c.classifyHeuristic(ctx, text)
}

func (c *Classifier) classifyWithModel(ctx context.Context, text string) (Classification, error) {
	raw, err := c.ai.Complete(ctx, classifySystemPrompt, text, classifyTemperature, classifyMaxTokens)
	if err != nil {
		return Classification{}, err
	}

	var parsed struct {
		Intent   string            `json:"intent"`
		Entities map[string]string `json:"entities"`
		Language string            `json:"language"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		return Classification{}, err
	}

	cls := Classification{
		Intent:   ParseIntent(parsed.Intent),
		Entities: parsed.Entities,
		Language: strings.TrimSpace(parsed.Language),
	}
	if cls.Entities == nil {
		cls.Entities = map[string]string{}
	}
	if cls.Language == "" {
		cls.Language = "en"
	}
	return cls, nil
}

// classifyHeuristic is the deterministic fallback. Order matters: first match
// wins. Entities are left empty; resolvers fall back to the raw text.
func (c *Classifier) classifyHeuristic(ctx context.Context, text string) Classification {
	language := c.detectLanguage(ctx, text)
	lower := strings.ToLower(text)

	cls := Classification{
		Intent:   IntentCarPart,
		Entities: map[string]string{},
		Language: language,
	}

	for _, token := range greetingTokens {
		if strings.Contains(lower, token) {
			cls.Intent = IntentGreeting
			return cls
		}
	}

	if partNumberPattern.MatchString(strings.ToUpper(text)) {
		cls.Intent = IntentPartNumber
		return cls
	}

	if strings.Contains(lower, "chassis") || strings.Contains(lower, "vin") {
		cls.Intent = IntentChassis
		return cls
	}

	return cls
}

func (c *Classifier) detectLanguage(ctx context.Context, text string) string {
	if c.translator == nil || strings.TrimSpace(text) == "" {
		return "en"
	}
	lang, err := c.translator.DetectLanguage(ctx, text)
	if err != nil || lang == "" {
		return "en"
	}
	return lang
}

// stripCodeFence removes a surrounding markdown code fence, which models
// sometimes wrap JSON responses in despite instructions.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
