package intent

import "encoding/json"

// Record is the structured decision object produced per accepted utterance.
// Its JSON shape is the wire contract the classifier prompt instructs the
// model to emit, embedded anywhere in the model's free-text output.
type Record struct {
	Type        Type     `json:"type"`
	UserInput   string   `json:"userInput"`
	Response    string   `json:"response"`
	Emotion     string   `json:"emotion"`
	Confidence  float64  `json:"confidence"`
	Language    string   `json:"language"`
	Intent      string   `json:"intent"`
	Sentiment   string   `json:"sentiment"`
	ContextUsed bool     `json:"context_used"`
	Suggestions []string `json:"suggestions"`
}

// Encode serializes the record to its wire shape. Synthetic fallback records
// pass through Encode so the parser round-trips them unchanged.
func (r Record) Encode() string {
	b, err := json.Marshal(r)
	if err != nil {
		// Record contains only plain fields; marshal cannot fail.
		return "{}"
	}
	return string(b)
}

// ValidationError builds the record returned for an empty or unusable command.
func ValidationError(command string) Record {
	return Record{
		Type:       TypeValidationError,
		UserInput:  command,
		Response:   "Please provide a valid command.",
		Emotion:    "neutral",
		Confidence: 1.0,
		Language:   "en-US",
		Intent:     "validation-error",
		Sentiment:  "neutral",
	}
}

// AuthError builds the record returned when the user record cannot be loaded.
func AuthError(command string) Record {
	return Record{
		Type:       TypeAuthError,
		UserInput:  command,
		Response:   "User session expired. Please sign in again.",
		Emotion:    "neutral",
		Confidence: 1.0,
		Language:   "en-US",
		Intent:     "auth-error",
		Sentiment:  "neutral",
	}
}
