// Package models defines the data structures shared across the session engine.
package models

import "time"

// Transcript is a single speech-to-text result. Interim results carry
// IsFinal=false and are only surfaced as live-typing feedback; only final
// results are ever evaluated as command attempts.
type Transcript struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	IsFinal    bool    `json:"isFinal"`
}

// VoiceSettings configures speech synthesis for a user.
type VoiceSettings struct {
	Language string  `json:"language"`
	Speed    float64 `json:"speed"`
	Pitch    float64 `json:"pitch"`
	Volume   float64 `json:"volume"`
	Gender   string  `json:"voiceGender"` // "male", "female", "neutral" or empty
}

// LanguageOrDefault returns the configured language, defaulting to en-US.
func (v VoiceSettings) LanguageOrDefault() string {
	if v.Language == "" {
		return "en-US"
	}
	return v.Language
}

// NLPSettings holds the capability toggles forwarded to the classifier prompt.
type NLPSettings struct {
	PersonalityMode          string `json:"personalityMode"`
	ContextMemory            bool   `json:"contextMemory"`
	EmotionalIntelligence    bool   `json:"emotionalIntelligence"`
	SentimentAnalysis        bool   `json:"sentimentAnalysis"`
	IntentRecognition        bool   `json:"intentRecognition"`
	MultiTurnConversation    bool   `json:"multiTurnConversation"`
	ConversationMemoryLength int    `json:"conversationMemoryLength"`
	LanguageDetection        bool   `json:"languageDetection"`
	ContextualUnderstanding  bool   `json:"contextualUnderstanding"`
	ProactiveAssistance      bool   `json:"proactiveAssistance"`
	LearningMode             bool   `json:"learningMode"`
}

// DefaultNLPSettings mirrors the defaults applied when a user has never
// touched the settings page.
func DefaultNLPSettings() NLPSettings {
	return NLPSettings{
		PersonalityMode:          "friendly",
		ContextMemory:            true,
		EmotionalIntelligence:    true,
		SentimentAnalysis:        true,
		IntentRecognition:        true,
		MultiTurnConversation:    true,
		ConversationMemoryLength: 10,
		LanguageDetection:        true,
		ContextualUnderstanding:  true,
	}
}

// User is the per-user profile read from the identity store at session start.
type User struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	AssistantName  string        `json:"assistantName"`
	AssistantImage string        `json:"assistantImage,omitempty"`
	VoiceSettings  VoiceSettings `json:"voiceSettings"`
	NLPSettings    NLPSettings   `json:"nlpSettings"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// HistoryEntry is one accepted command appended to a user's history log.
// The history is append-only; the session engine never mutates past entries.
type HistoryEntry struct {
	Command   string    `json:"command"`
	Timestamp time.Time `json:"timestamp"`
}
