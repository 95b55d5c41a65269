// Package intent recovers structured intent records from classifier output
// and maps them to spoken replies and external actions.
package intent

// Type is the closed set of intent types the classifier may emit, plus a few
// internal fallback types that are produced by the engine itself and never
// advertised in the classifier prompt.
type Type string

const (
	TypeGeneral             Type = "general"
	TypeGoogleSearch        Type = "google-search"
	TypeYouTubeSearch       Type = "youtube-search"
	TypeYouTubePlay         Type = "youtube-play"
	TypeGetTime             Type = "get-time"
	TypeGetDate             Type = "get-date"
	TypeGetDay              Type = "get-day"
	TypeGetMonth            Type = "get-month"
	TypeCalculatorOpen      Type = "calculator-open"
	TypeInstagramOpen       Type = "instagram-open"
	TypeFacebookOpen        Type = "facebook-open"
	TypeWeatherShow         Type = "weather-show"
	TypeMultiStep           Type = "multi-step"
	TypeEmotionalSupport    Type = "emotional-support"
	TypeLanguageSwitch      Type = "language-switch"
	TypeLearningInteraction Type = "learning-interaction"
	TypeProactiveSuggestion Type = "proactive-suggestion"

	// Internal fallback types. Records with these types are synthesized by
	// the engine (validation, auth, transport failures) and always dispatch
	// like TypeGeneral.
	TypeError           Type = "error"
	TypeValidationError Type = "validation-error"
	TypeAuthError       Type = "auth-error"
)

// classifierTypes are the types a well-behaved classifier response may carry.
var classifierTypes = map[Type]struct{}{
	TypeGeneral:             {},
	TypeGoogleSearch:        {},
	TypeYouTubeSearch:       {},
	TypeYouTubePlay:         {},
	TypeGetTime:             {},
	TypeGetDate:             {},
	TypeGetDay:              {},
	TypeGetMonth:            {},
	TypeCalculatorOpen:      {},
	TypeInstagramOpen:       {},
	TypeFacebookOpen:        {},
	TypeWeatherShow:         {},
	TypeMultiStep:           {},
	TypeEmotionalSupport:    {},
	TypeLanguageSwitch:      {},
	TypeLearningInteraction: {},
	TypeProactiveSuggestion: {},
}

// internalTypes are synthesized by the engine, never by the classifier.
var internalTypes = map[Type]struct{}{
	TypeError:           {},
	TypeValidationError: {},
	TypeAuthError:       {},
}

// Known reports whether t is a recognized type, classifier-visible or internal.
func (t Type) Known() bool {
	if _, ok := classifierTypes[t]; ok {
		return true
	}
	_, ok := internalTypes[t]
	return ok
}

// Internal reports whether t belongs to the engine-internal fallback set.
func (t Type) Internal() bool {
	_, ok := internalTypes[t]
	return ok
}

// DateTime reports whether t is one of the four clock-driven types whose
// response text is computed at dispatch time.
func (t Type) DateTime() bool {
	switch t {
	case TypeGetTime, TypeGetDate, TypeGetDay, TypeGetMonth:
		return true
	}
	return false
}
