package wake

import (
	"testing"

	"github.com/its-pratyushpandey/Intellia/internal/models"
)

func TestPhrases_IncludesGreetingVariants(t *testing.T) {
	phrases := Phrases("Nova")

	want := []string{"nova", "hey nova", "hi nova", "hello nova", "ok nova", "call nova", "assistant"}
	for _, w := range want {
		found := false
		for _, p := range phrases {
			if p == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected phrase %q in %v", w, phrases)
		}
	}
}

func TestPhrases_MultiWordNameAddsFirstToken(t *testing.T) {
	phrases := Phrases("Jarvis Prime")

	found := false
	for _, p := range phrases {
		if p == "jarvis" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected bare first token 'jarvis' in %v", phrases)
	}
}

func TestPhrases_EmptyNameFallsBackToAssistant(t *testing.T) {
	phrases := Phrases("")
	if len(phrases) != 1 || phrases[0] != "assistant" {
		t.Errorf("expected [assistant], got %v", phrases)
	}
}

func TestEvaluate_Policy(t *testing.T) {
	g := NewGate("Nova", 0)

	tests := []struct {
		name       string
		text       string
		confidence float64
		isFinal    bool
		want       Decision
	}{
		{"interim never evaluated", "hey nova what time is it", 0.99, false, Ignore},
		{"no wake phrase", "what time is it", 0.95, true, Ignore},
		{"contains above floor", "could you nova tell me the time", 0.5, true, Accept},
		{"contains at floor", "hey nova what's up", 0.4, true, Accept},
		{"prefix in loose band", "nova open instagram", 0.25, true, Accept},
		{"prefix at loose floor", "hey nova play music", 0.2, true, Accept},
		{"non-prefix in loose band ignored", "could you nova help", 0.3, true, Ignore},
		{"below loose floor clarifies", "nova do something", 0.1, true, Clarify},
		{"non-prefix below loose floor clarifies", "please nova help me", 0.15, true, Clarify},
		{"assistant keyword works", "assistant what's the weather", 0.8, true, Accept},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := g.Evaluate(models.Transcript{Text: tc.text, Confidence: tc.confidence, IsFinal: tc.isFinal})
			if got != tc.want {
				t.Errorf("Evaluate(%q, %.2f) = %v, want %v", tc.text, tc.confidence, got, tc.want)
			}
		})
	}
}

func TestEvaluate_CustomFloor(t *testing.T) {
	g := NewGate("Nova", 0.6)

	if got := g.Evaluate(models.Transcript{Text: "could you nova help", Confidence: 0.5, IsFinal: true}); got != Ignore {
		t.Errorf("expected Ignore below custom floor without prefix, got %v", got)
	}
	if got := g.Evaluate(models.Transcript{Text: "nova help", Confidence: 0.5, IsFinal: true}); got != Accept {
		t.Errorf("expected prefix rule to accept under custom floor, got %v", got)
	}
}

func TestClarificationMessage_FallsBackToEnglish(t *testing.T) {
	if ClarificationMessage("xx-XX") != clarificationMessages["en-US"] {
		t.Error("expected English fallback for unknown language")
	}
	if ClarificationMessage("es-ES") != clarificationMessages["es-ES"] {
		t.Error("expected Spanish clarification for es-ES")
	}
}
