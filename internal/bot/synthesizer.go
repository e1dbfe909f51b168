package bot

import (
	"context"
	"fmt"
	"strings"

	"autoparts_backend/platform/logger"
)

const synthesizeSystemPrompt = "You are a helpful car parts assistant. Respond naturally and conversationally."

const (
	synthesizeTemperature = 0.7
	synthesizeMaxTokens   = 500
	digestLimit           = 5
)

const notFoundReply = "Sorry, we couldn't find any parts matching your query. Please try again with different keywords."

// Synthesizer turns a result set into reply text. Synthesize never fails
// outward: any primary-strategy error falls back to the deterministic
// template, translated when the target language is not English.
type Synthesizer struct {
	ai         Completer
	translator Translator
	log        *logger.Logger
}

// NewSynthesizer creates a synthesizer. ai and translator may be nil.
func NewSynthesizer(ai Completer, translator Translator, log *logger.Logger) *Synthesizer {
	return &Synthesizer{ai: ai, translator: translator, log: log}
}

// Synthesize produces the reply for the given results and target language.
func (s *Synthesizer) Synthesize(ctx context.Context, results []Result, intent Intent, language string) string {
	if s.ai != nil {
		reply, err := s.synthesizeWithModel(ctx, results, language)
		if err == nil {
			return reply
		}
		s.log.UpstreamDegraded("openai", "synthesize", err)
	}
	return s.synthesizeTemplate(ctx, results, language)
}

// synthesizeWithModel handles language adaptation itself (the instruction
// names the target language) and therefore never uses the translator.
func (s *Synthesizer) synthesizeWithModel(ctx context.Context, results []Result, language string) (string, error) {
	var digest strings.Builder
	if len(results) == 0 {
		digest.WriteString("No parts found matching your query.\n")
	}
	for i, r := range results {
		if i == digestLimit {
			break
		}
		digest.WriteString(fmt.Sprintf("- %s (Part #%s)", r.Name, r.PartNumber))
		if r.Price != nil {
			digest.WriteString(fmt.Sprintf(" - Price: %s AED", formatPrice(*r.Price)))
		}
		if r.Brand != "" {
			digest.WriteString(" - Brand: " + r.Brand)
		}
		digest.WriteString("\n")
	}

	userPrompt := fmt.Sprintf(`Format the following car parts search results into a friendly, conversational message.
The user's language preference is: %s

Results:
%s
Provide a helpful response that:
- Greets the user naturally
- Lists the parts found (or mentions if none found)
- Includes prices when available
- Suggests next steps if needed
- Is appropriate for the detected language
`, language, digest.String())

	return s.ai.Complete(ctx, synthesizeSystemPrompt, userPrompt, synthesizeTemperature, synthesizeMaxTokens)
}

// synthesizeTemplate is the deterministic fallback: a fixed English template,
// translated afterwards when the target language is not English. Translation
// failure returns the untranslated text rather than failing.
func (s *Synthesizer) synthesizeTemplate(ctx context.Context, results []Result, language string) string {
	if len(results) == 0 {
		return s.translateIfNeeded(ctx, notFoundReply, language)
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("Found %d part(s):\n\n", len(results)))
	for i, r := range results {
		if i == digestLimit {
			break
		}
		msg.WriteString(fmt.Sprintf("%s - Part #%s", r.Name, r.PartNumber))
		if r.Price != nil {
			msg.WriteString(fmt.Sprintf(" | Price: %s AED", formatPrice(*r.Price)))
		}
		if r.Brand != "" {
			msg.WriteString(" | Brand: " + r.Brand)
		}
		msg.WriteString("\n")
	}
	if len(results) > digestLimit {
		msg.WriteString(fmt.Sprintf("\n... and %d more. Please contact us for details.", len(results)-digestLimit))
	}

	return s.translateIfNeeded(ctx, msg.String(), language)
}

func (s *Synthesizer) translateIfNeeded(ctx context.Context, text, language string) string {
	if language == "" || strings.HasPrefix(strings.ToLower(language), "en") {
		return text
	}
	if s.translator == nil {
		return text
	}
	translated, err := s.translator.Translate(ctx, text, language)
	if err != nil {
		s.log.UpstreamDegraded("translate", "translate reply", err)
		return text
	}
	return translated
}

func formatPrice(price float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", price), "0"), ".")
}
