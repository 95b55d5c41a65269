// Package wake decides whether a final transcript is a command attempt.
package wake

import (
	"strings"

	"github.com/its-pratyushpandey/Intellia/internal/models"
)

// Decision is the outcome of evaluating one final transcript.
type Decision int

const (
	// Ignore means the transcript is not a command attempt; nothing happens.
	Ignore Decision = iota
	// Accept means the transcript is forwarded for submission.
	Accept
	// Clarify means a wake phrase was heard but confidence is too low; the
	// session speaks a short "please repeat" and returns to listening.
	Clarify
)

// String returns the string representation of the decision.
func (d Decision) String() string {
	switch d {
	case Ignore:
		return "ignore"
	case Accept:
		return "accept"
	case Clarify:
		return "clarify"
	default:
		return "unknown"
	}
}

// DefaultConfidenceFloor is the primary acceptance threshold.
const DefaultConfidenceFloor = 0.4

// looseFloor is the secondary threshold for phrase-led utterances.
const looseFloor = 0.2

// Gate filters final transcripts for a wake phrase and minimum confidence.
type Gate struct {
	phrases         []string
	confidenceFloor float64
}

// NewGate builds a gate for the given persona name. A non-positive floor
// selects the default of 0.4.
func NewGate(personaName string, confidenceFloor float64) *Gate {
	if confidenceFloor <= 0 {
		confidenceFloor = DefaultConfidenceFloor
	}
	return &Gate{
		phrases:         Phrases(personaName),
		confidenceFloor: confidenceFloor,
	}
}

// Phrases returns the wake phrase set for a persona name: the name itself,
// common greeting prefixes, the bare first token of the name, and the literal
// word "assistant".
func Phrases(personaName string) []string {
	name := strings.ToLower(strings.TrimSpace(personaName))
	if name == "" {
		return []string{"assistant"}
	}

	phrases := []string{
		name,
		"hey " + name,
		"hi " + name,
		"hello " + name,
		"ok " + name,
		"call " + name,
	}
	if first, _, found := strings.Cut(name, " "); found && first != "" {
		phrases = append(phrases, first)
	}
	phrases = append(phrases, "assistant")
	return phrases
}

// Evaluate applies the two-tier confidence policy to one transcript. Interim
// transcripts are never command attempts. The primary contains+floor rule is
// checked first; the looser starts-with rule applies only when the primary
// fails.
func (g *Gate) Evaluate(t models.Transcript) Decision {
	if !t.IsFinal {
		return Ignore
	}

	text := strings.ToLower(strings.TrimSpace(t.Text))
	contains := false
	startsWith := false
	for _, p := range g.phrases {
		if strings.Contains(text, p) {
			contains = true
			if strings.HasPrefix(text, p) {
				startsWith = true
			}
		}
	}
	if !contains {
		return Ignore
	}

	if t.Confidence >= g.confidenceFloor {
		return Accept
	}
	if startsWith && t.Confidence >= looseFloor {
		return Accept
	}
	if t.Confidence < looseFloor {
		return Clarify
	}
	return Ignore
}

// clarificationMessages are the localized "please repeat" replies spoken on a
// Clarify decision.
var clarificationMessages = map[string]string{
	"en-US": "I didn't catch that clearly. Could you please repeat your request?",
	"hi-IN": "मैंने स्पष्ट रूप से नहीं सुना। क्या आप अपना अनुरोध दोहरा सकते हैं?",
	"es-ES": "No escuché claramente. ¿Podrías repetir tu solicitud?",
	"fr-FR": "Je n'ai pas bien entendu. Pourriez-vous répéter votre demande?",
	"de-DE": "Ich habe das nicht klar verstanden. Könnten Sie Ihre Anfrage wiederholen?",
}

// ClarificationMessage returns the "please repeat" reply for a language,
// falling back to English.
func ClarificationMessage(language string) string {
	if msg, ok := clarificationMessages[language]; ok {
		return msg
	}
	return clarificationMessages["en-US"]
}
