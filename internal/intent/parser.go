package intent

import (
	"encoding/json"
	"strings"

	"github.com/its-pratyushpandey/Intellia/internal/observability/metrics"
)

// Parser fallback responses. Every fault downstream of an accepted transcript
// must still produce a speakable reply, so both fallbacks are complete records.
const (
	clarifyResponse = "I understand you're trying to communicate with me. Could you please rephrase your request?"
	garbledResponse = "I'm having trouble understanding that request. Please try again."
)

// Parse recovers a single Record from whatever text the classifier returned.
// It locates the first balanced {...} region in raw and decodes it; malformed
// or absent JSON resolves to a fallback record, never an error.
func Parse(raw, userInput, language string) Record {
	if language == "" {
		language = "en-US"
	}

	region, ok := jsonRegion(raw)
	if !ok {
		metrics.DefaultMetrics.ParseFallbacks.WithLabelValues("no-json").Inc()
		return Record{
			Type:       TypeGeneral,
			UserInput:  userInput,
			Response:   clarifyResponse,
			Emotion:    "helpful",
			Confidence: 0.8,
			Language:   language,
			Intent:     "clarification",
			Sentiment:  "neutral",
		}
	}

	var rec Record
	if err := json.Unmarshal([]byte(region), &rec); err != nil {
		metrics.DefaultMetrics.ParseFallbacks.WithLabelValues("malformed").Inc()
		return Record{
			Type:       TypeGeneral,
			UserInput:  userInput,
			Response:   garbledResponse,
			Emotion:    "apologetic",
			Confidence: 0.7,
			Language:   language,
			Intent:     "error",
			Sentiment:  "neutral",
		}
	}

	if rec.UserInput == "" {
		rec.UserInput = userInput
	}
	fillDefaults(&rec, language)
	return rec
}

// fillDefaults fills the optional fields a sloppy classifier tends to omit.
func fillDefaults(rec *Record, language string) {
	if rec.Emotion == "" {
		rec.Emotion = "neutral"
	}
	if rec.Confidence == 0 {
		if rec.Type.DateTime() {
			rec.Confidence = 0.9
		} else {
			rec.Confidence = 0.8
		}
	}
	if rec.Language == "" {
		rec.Language = language
	}
	if rec.Intent == "" {
		rec.Intent = "general"
	}
	if rec.Sentiment == "" {
		rec.Sentiment = "neutral"
	}
	if rec.Suggestions == nil {
		rec.Suggestions = []string{}
	}
}

// jsonRegion returns the first balanced {...} region of raw. Braces inside
// JSON string literals do not count toward the balance.
func jsonRegion(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}
