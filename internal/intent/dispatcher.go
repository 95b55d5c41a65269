package intent

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ErrUnknownType is reported when a decoded record carries a type outside the
// closed set. The caller treats this as a dispatch failure, not a crash: the
// outcome still carries a speakable reply.
var ErrUnknownType = errors.New("unrecognized intent type")

const unknownTypeResponse = "I didn't understand that command."

// Action is a zero-or-one external side effect of a dispatch, expressed
// abstractly as a URL for the client to open.
type Action struct {
	URL string `json:"url"`
}

// Outcome is the result of dispatching one record: the text to vocalize and
// an optional external action.
type Outcome struct {
	Record Record
	Speak  string
	Action *Action
}

// Fixed destinations for the open-style intents.
const (
	calculatorURL = "https://www.google.com/search?q=calculator"
	instagramURL  = "https://www.instagram.com/"
	facebookURL   = "https://www.facebook.com/"
	weatherURL    = "https://www.google.com/search?q=weather"
)

// Dispatch maps one record to its spoken reply and external action using the
// provided clock. The mapping is state-independent and idempotent; the clock
// only matters for the four date/time types, whose classifier-supplied
// response text is ignored and recomputed at dispatch time.
func Dispatch(rec Record, now func() time.Time) (Outcome, error) {
	if now == nil {
		now = time.Now
	}
	out := Outcome{Record: rec}

	switch rec.Type {
	case TypeGetDate:
		out.Speak = fmt.Sprintf("current date is %s", now().Format("2006-01-02"))
	case TypeGetTime:
		out.Speak = fmt.Sprintf("current time is %s", now().Format("03:04 PM"))
	case TypeGetDay:
		out.Speak = fmt.Sprintf("today is %s", now().Format("Monday"))
	case TypeGetMonth:
		out.Speak = fmt.Sprintf("today is %s", now().Format("January"))

	case TypeGoogleSearch:
		out.Speak = rec.Response
		out.Action = &Action{URL: "https://www.google.com/search?q=" + url.QueryEscape(rec.UserInput)}
	case TypeYouTubeSearch, TypeYouTubePlay:
		out.Speak = rec.Response
		out.Action = &Action{URL: "https://www.youtube.com/results?search_query=" + url.QueryEscape(rec.UserInput)}

	case TypeCalculatorOpen:
		out.Speak = rec.Response
		out.Action = &Action{URL: calculatorURL}
	case TypeInstagramOpen:
		out.Speak = rec.Response
		out.Action = &Action{URL: instagramURL}
	case TypeFacebookOpen:
		out.Speak = rec.Response
		out.Action = &Action{URL: facebookURL}
	case TypeWeatherShow:
		out.Speak = rec.Response
		out.Action = &Action{URL: weatherURL}

	case TypeGeneral, TypeMultiStep, TypeEmotionalSupport, TypeLanguageSwitch,
		TypeLearningInteraction, TypeProactiveSuggestion,
		TypeError, TypeValidationError, TypeAuthError:
		out.Speak = rec.Response

	default:
		out.Speak = unknownTypeResponse
		out.Record.Confidence = 0.3
		out.Record.Intent = "unknown"
		return out, fmt.Errorf("%w: %q", ErrUnknownType, rec.Type)
	}

	return out, nil
}
