package bot

import (
	"context"
	"errors"
	"testing"
)

func TestClassifyUsesModelResultWhenAvailable(t *testing.T) {
	ai := &fakeCompleter{response: `{"intent":"part_number","entities":{"part_number":"ABC-123"},"language":"en"}`}
	c := NewClassifier(ai, nil, testLogger())

	cls := c.Classify(context.Background(), "do you have ABC-123?")

	if cls.Intent != IntentPartNumber {
		t.Fatalf("expected part_number intent, got %q", cls.Intent)
	}
	if got := cls.Entity(EntityPartNumber); got != "ABC-123" {
		t.Fatalf("expected part_number entity ABC-123, got %q", got)
	}
	if cls.Language != "en" {
		t.Fatalf("expected language en, got %q", cls.Language)
	}
}

func TestClassifyStripsCodeFenceFromModelResponse(t *testing.T) {
	ai := &fakeCompleter{response: "```json\n{\"intent\":\"greeting\",\"entities\":{},\"language\":\"ar\"}\n```"}
	c := NewClassifier(ai, nil, testLogger())

	cls := c.Classify(context.Background(), "مرحبا")

	if cls.Intent != IntentGreeting {
		t.Fatalf("expected greeting intent, got %q", cls.Intent)
	}
	if cls.Language != "ar" {
		t.Fatalf("expected language ar, got %q", cls.Language)
	}
}

func TestClassifyDefaultsLanguageAndEntitiesFromModel(t *testing.T) {
	ai := &fakeCompleter{response: `{"intent":"car_part"}`}
	c := NewClassifier(ai, nil, testLogger())

	cls := c.Classify(context.Background(), "brake pads")

	if cls.Language != "en" {
		t.Fatalf("expected default language en, got %q", cls.Language)
	}
	if cls.Entities == nil {
		t.Fatal("expected non-nil entities map")
	}
}

func TestClassifyUnrecognizedModelIntentBecomesUnknown(t *testing.T) {
	ai := &fakeCompleter{response: `{"intent":"order_status","entities":{},"language":"en"}`}
	c := NewClassifier(ai, nil, testLogger())

	if cls := c.Classify(context.Background(), "where is my order"); cls.Intent != IntentUnknown {
		t.Fatalf("expected unknown intent, got %q", cls.Intent)
	}
}

func TestClassifyFallsBackWhenModelFails(t *testing.T) {
	ai := &fakeCompleter{err: errors.New("upstream unreachable")}
	c := NewClassifier(ai, nil, testLogger())

	cls := c.Classify(context.Background(), "hello there")

	if cls.Intent != IntentGreeting {
		t.Fatalf("expected heuristic greeting, got %q", cls.Intent)
	}
	if cls.Language == "" {
		t.Fatal("expected non-empty language from fallback")
	}
}

func TestClassifyFallsBackWhenModelReturnsInvalidJSON(t *testing.T) {
	ai := &fakeCompleter{response: "sorry, I can't help with that"}
	c := NewClassifier(ai, nil, testLogger())

	cls := c.Classify(context.Background(), "hello")

	if cls.Intent != IntentGreeting {
		t.Fatalf("expected heuristic greeting, got %q", cls.Intent)
	}
}

func TestHeuristicDetectsPartNumberToken(t *testing.T) {
	c := NewClassifier(nil, nil, testLogger())

	cls := c.Classify(context.Background(), "ABC-123 pls")

	if cls.Intent != IntentPartNumber {
		t.Fatalf("expected part_number intent, got %q", cls.Intent)
	}
	if len(cls.Entities) != 0 {
		t.Fatalf("heuristic should not extract entities, got %v", cls.Entities)
	}
}

func TestHeuristicDetectsChassisKeyword(t *testing.T) {
	c := NewClassifier(nil, nil, testLogger())

	// No token of four or more characters, so the part number check passes
	// over it and the vin keyword decides.
	if cls := c.Classify(context.Background(), "my vin is 123"); cls.Intent != IntentChassis {
		t.Fatalf("expected chassis intent, got %q", cls.Intent)
	}
}

func TestHeuristicDefaultsToCarPart(t *testing.T) {
	c := NewClassifier(nil, nil, testLogger())

	if cls := c.Classify(context.Background(), "oil cap"); cls.Intent != IntentCarPart {
		t.Fatalf("expected car_part intent, got %q", cls.Intent)
	}
}

func TestHeuristicGreetingWinsOverOtherChecks(t *testing.T) {
	c := NewClassifier(nil, nil, testLogger())

	if cls := c.Classify(context.Background(), "hey, got part ABC-123?"); cls.Intent != IntentGreeting {
		t.Fatalf("expected greeting to take precedence, got %q", cls.Intent)
	}
}

func TestHeuristicUsesDetectedLanguage(t *testing.T) {
	tr := &fakeTranslator{language: "ar"}
	c := NewClassifier(nil, tr, testLogger())

	if cls := c.Classify(context.Background(), "مرحبا"); cls.Language != "ar" {
		t.Fatalf("expected detected language ar, got %q", cls.Language)
	}
}

func TestHeuristicLanguageDefaultsToEnglishOnDetectorFailure(t *testing.T) {
	tr := &fakeTranslator{detectErr: errors.New("detector down")}
	c := NewClassifier(nil, tr, testLogger())

	if cls := c.Classify(context.Background(), "hello"); cls.Language != "en" {
		t.Fatalf("expected language en, got %q", cls.Language)
	}
}

func TestParseIntentIsCaseInsensitive(t *testing.T) {
	if got := ParseIntent(" Part_Number "); got != IntentPartNumber {
		t.Fatalf("expected part_number, got %q", got)
	}
	if got := ParseIntent("nonsense"); got != IntentUnknown {
		t.Fatalf("expected unknown, got %q", got)
	}
}
