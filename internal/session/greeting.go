package session

import (
	"fmt"
	"strings"
)

// greetingTemplates hold the localized initial greeting; %[1]s is the user's
// name, %[2]s the assistant's.
var greetingTemplates = map[string]string{
	"en-US": "Hello %[1]s, I'm %[2]s. What can I help you with today?",
	"hi-IN": "नमस्ते %[1]s, मैं %[2]s हूं। आज मैं आपकी कैसे सहायता कर सकता हूं?",
	"es-ES": "Hola %[1]s, soy %[2]s. ¿En qué puedo ayudarte hoy?",
	"fr-FR": "Bonjour %[1]s, je suis %[2]s. Comment puis-je vous aider aujourd'hui?",
	"de-DE": "Hallo %[1]s, ich bin %[2]s. Womit kann ich Ihnen heute helfen?",
	"ja-JP": "こんにちは%[1]sさん、私は%[2]sです。今日は何をお手伝いしましょうか？",
	"ko-KR": "안녕하세요 %[1]s님, 저는 %[2]s입니다. 오늘 무엇을 도와드릴까요?",
	"zh-CN": "您好%[1]s，我是%[2]s。今天我可以为您做什么？",
	"pt-BR": "Olá %[1]s, eu sou %[2]s. Como posso ajudá-lo hoje?",
	"ru-RU": "Привет %[1]s, я %[2]s. Чем могу помочь сегодня?",
	"ar-SA": "مرحباً %[1]s، أنا %[2]s. كيف يمكنني مساعدتك اليوم؟",
}

// Greeting builds the localized, personality-adjusted initial greeting.
func Greeting(userName, assistantName, language, personalityMode string) string {
	tmpl, ok := greetingTemplates[language]
	if !ok {
		tmpl = greetingTemplates["en-US"]
	}
	text := fmt.Sprintf(tmpl, userName, assistantName)

	switch personalityMode {
	case "professional":
		text = strings.ReplaceAll(text, "Hello", "Good day")
	case "casual":
		text = strings.ReplaceAll(text, "Hello", "Hey")
		text = strings.ReplaceAll(text, "What can I help you with", "What's up? What can I do for you")
	}
	return text
}
