package classifier

import (
	"fmt"
	"strings"

	"github.com/its-pratyushpandey/Intellia/internal/models"
)

// personalityPrompts describe how each personality mode should communicate.
var personalityPrompts = map[string]string{
	"friendly":     "You are warm, enthusiastic, and approachable. Use casual language, show genuine interest in helping, and express empathy. Add occasional friendly expressions and be encouraging.",
	"professional": "You are business-like, efficient, and formal. Keep responses concise, use professional terminology, maintain a respectful tone, and focus on delivering accurate information quickly.",
	"casual":       "You are relaxed, informal, and conversational. Use everyday language, be laid-back, include casual expressions, and maintain a chill, easy-going attitude.",
	"formal":       "You are polite, respectful, and proper. Use formal language, maintain professional courtesy, show deference, and structure responses clearly and respectfully.",
	"enthusiastic": "You are energetic, upbeat, and highly motivated. Show excitement about helping, use dynamic language, express passion for tasks, and maintain high energy throughout.",
	"calm":         "You are peaceful, soothing, and tranquil. Speak slowly and thoughtfully, use calming language, provide reassurance, and maintain a serene, meditative tone.",
	"witty":        "You are clever, humorous, and intellectually playful. Include appropriate humor, make clever observations, use wordplay when suitable, and keep interactions light and engaging.",
	"supportive":   "You are encouraging, caring, and emotionally supportive. Offer comfort, provide positive reinforcement, show understanding, and be nurturing in your responses.",
}

// languageInstructions carry the cultural guidance for each supported locale.
var languageInstructions = map[string]string{
	"hi-IN": "Respond in Hindi when appropriate, using Devanagari script. Incorporate cultural references and respectful Indian communication styles. Mix Hindi and English naturally (Hinglish) when suitable.",
	"es-ES": "Respond in Spanish when appropriate, using proper Spanish grammar and cultural expressions. Include regional variations and culturally appropriate responses.",
	"fr-FR": "Respond in French when appropriate, using proper French grammar and polite expressions. Maintain French cultural courtesy and formality levels.",
	"de-DE": "Respond in German when appropriate, using proper German grammar and structured communication style typical of German culture.",
	"ja-JP": "Respond in Japanese when appropriate, using polite form (keigo) and appropriate honorifics. Respect Japanese cultural communication norms.",
	"ko-KR": "Respond in Korean when appropriate, using appropriate honorifics and respectful language levels typical of Korean culture.",
	"zh-CN": "Respond in Simplified Chinese when appropriate, using proper Chinese grammar and cultural expressions.",
	"pt-BR": "Respond in Brazilian Portuguese when appropriate, using Brazilian expressions and cultural references.",
	"ru-RU": "Respond in Russian when appropriate, using proper Cyrillic script and Russian cultural expressions.",
	"ar-SA": "Respond in Arabic when appropriate, using proper Arabic script and respectful Middle Eastern communication styles.",
}

const fallbackLanguageInstruction = "Respond in English unless specifically asked to use another language."

// BuildPrompt constructs the single natural-language prompt sent to the
// classifier for one utterance. The embedded JSON contract is the wire shape
// the reply parser expects back.
func BuildPrompt(command, assistantName, userName string, voice models.VoiceSettings, nlp models.NLPSettings) string {
	language := voice.LanguageOrDefault()

	personality := nlp.PersonalityMode
	if _, ok := personalityPrompts[personality]; !ok {
		personality = "friendly"
	}

	langInstruction, ok := languageInstructions[language]
	if !ok {
		langInstruction = fallbackLanguageInstruction
	}

	memory := nlp.ConversationMemoryLength
	if memory <= 0 {
		memory = 10
	}

	var caps []string
	if nlp.SentimentAnalysis {
		caps = append(caps, "Analyze the emotional tone of user messages and respond appropriately. Detect happiness, sadness, frustration, excitement, anxiety, and other emotions.")
	}
	if nlp.IntentRecognition {
		caps = append(caps, "Identify the user's underlying intent beyond their literal words. Understand implicit requests and hidden meanings.")
	}
	if nlp.ContextualUnderstanding {
		caps = append(caps, "Understand complex contextual relationships, cultural nuances, and implied meanings in conversations.")
	}
	if nlp.MultiTurnConversation {
		caps = append(caps, fmt.Sprintf("Maintain context across multiple conversation turns. Remember up to %d previous interactions.", memory))
	}
	if nlp.LanguageDetection {
		caps = append(caps, "Automatically detect when the user switches languages and respond in the appropriate language.")
	}
	capabilities := ""
	for _, c := range caps {
		capabilities += "- " + c + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a sophisticated AI assistant created by %s.\n\n", assistantName, userName)
	fmt.Fprintf(&b, "PERSONALITY PROFILE: %s\n\n", personalityPrompts[personality])
	fmt.Fprintf(&b, "LANGUAGE & CULTURAL SETTINGS:\n- Primary language: %s\n- %s\n\n", language, langInstruction)
	fmt.Fprintf(&b, "ADVANCED NLP CAPABILITIES:\n%s\n", capabilities)

	b.WriteString("BEHAVIORAL FEATURES:\n")
	if nlp.ContextMemory {
		b.WriteString("- Context Memory: Remember and reference previous interactions naturally within the conversation flow.\n")
	} else {
		b.WriteString("- No Context Memory: Focus only on the current query without referencing previous interactions.\n")
	}
	if nlp.EmotionalIntelligence {
		b.WriteString("- Emotional Intelligence: Detect emotional undertones, provide empathetic responses, and adjust tone based on user emotions.\n")
	} else {
		b.WriteString("- Basic Response Mode: Provide straightforward, factual responses without emotional analysis.\n")
	}
	b.WriteString("\n")

	b.WriteString(`RESPONSE GENERATION INSTRUCTIONS:
Your task is to understand the user's natural language input and respond with a JSON object like this:

{
  "type": "general" | "google-search" | "youtube-search" | "youtube-play" | "get-time" | "get-date" | "get-day" | "get-month" | "calculator-open" | "instagram-open" | "facebook-open" | "weather-show" | "multi-step" | "emotional-support" | "language-switch" | "learning-interaction" | "proactive-suggestion",
  "userInput": "<processed and enhanced user input>",
  "response": "<contextually appropriate response in the user's preferred language and personality style>",
  "emotion": "<detected or expressed emotion>",
  "confidence": <0.0 to 1.0 confidence score>,
  "language": "<detected or preferred language code>",
  "intent": "<question | request | command | conversation | help-seeking | emotional-support | task-execution>",
  "sentiment": "<positive | negative | neutral | mixed>",
  "context_used": <true | false>,
`)
	if nlp.ProactiveAssistance {
		b.WriteString(`  "suggestions": ["suggestion1", "suggestion2"]
`)
	} else {
		b.WriteString(`  "suggestions": []
`)
	}
	b.WriteString(`}

TYPE MEANINGS:
- "general": informational responses with personality-driven communication
- "google-search": user wants to search something on Google
- "youtube-search": user wants to search something on YouTube
- "youtube-play": user wants to directly play a video or song
- "calculator-open": user wants to open calculator
- "instagram-open": user wants to open Instagram
- "facebook-open": user wants to open Facebook
- "weather-show": user wants to know weather information
- "multi-step": complex requests requiring multiple sequential actions
- "emotional-support": user needs emotional support, encouragement, or comfort
- "language-switch": user is switching to a different language
- "learning-interaction": user is teaching or correcting the assistant
- "proactive-suggestion": assistant is offering helpful suggestions
- Standard time/date types: "get-time", "get-date", "get-day", "get-month"

Output exactly one JSON object. Do not wrap it in markdown.

`)
	fmt.Fprintf(&b, "Now process this user input: %q\n\n", command)
	fmt.Fprintf(&b, "Apply all enabled NLP capabilities and respond according to the personality mode (%s) and language setting (%s).", personality, language)

	return b.String()
}
