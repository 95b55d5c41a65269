package classifier

import "github.com/its-pratyushpandey/Intellia/internal/intent"

// FailureCategory is the closed set of classifier failure classes. Every
// failed request maps to exactly one category, and every category maps to a
// canned spoken reply; the taxonomy is exhaustive so a failure can never
// leave the caller without something to say.
type FailureCategory string

const (
	FailureNone        FailureCategory = ""
	FailureTimeout     FailureCategory = "timeout"
	FailureRateLimited FailureCategory = "rate-limited"
	FailureServerError FailureCategory = "server-error"
	FailureOther       FailureCategory = "other"
)

// fallbackResponses maps each failure category to its spoken reply.
var fallbackResponses = map[FailureCategory]string{
	FailureTimeout:     "I'm taking a bit longer to process that. Let me try again with a simpler approach.",
	FailureRateLimited: "I'm handling many requests right now. Please wait a moment and try again.",
	FailureServerError: "The AI service is temporarily unavailable. I'll be back shortly.",
	FailureOther:       "I'm experiencing a technical issue right now. Please try your request again.",
}

// fallbackText builds the synthetic response returned in place of classifier
// output when the remote call fails. It is itself a valid serialized intent
// record of type general, so the reply parser always receives parseable text.
func fallbackText(command string, category FailureCategory) string {
	response, ok := fallbackResponses[category]
	if !ok {
		response = fallbackResponses[FailureOther]
	}
	return intent.Record{
		Type:        intent.TypeGeneral,
		UserInput:   command,
		Response:    response,
		Emotion:     "apologetic",
		Confidence:  0.9,
		Language:    "en-US",
		Intent:      "error",
		Sentiment:   "neutral",
		Suggestions: []string{"Please try again", "Rephrase your question", "Check your connection"},
	}.Encode()
}
