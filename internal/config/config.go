// Package config provides environment-driven application configuration.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServiceConfig holds service identity and network configuration.
type ServiceConfig struct {
	Principal string
	HTTPPort  string
}

// ClassifierConfig holds remote intent classifier configuration.
type ClassifierConfig struct {
	APIURL  string
	Timeout time.Duration
}

// CaptureConfig holds utterance capture configuration.
type CaptureConfig struct {
	ConfidenceFloor float64
	// Restart delays by cause. Permission denial never restarts.
	RestartAfterEnd   time.Duration
	RestartAfterNet   time.Duration
	RestartAfterError time.Duration
	// Google streaming recognizer settings for audio-uploading clients.
	GoogleEnabled bool
	SampleRateHz  int
}

// SpeechConfig holds speech synthesis configuration.
type SpeechConfig struct {
	VoiceCatalogPath string
	MinRestartDelay  time.Duration
	MaxRestartDelay  time.Duration
	GreetingDelay    time.Duration
}

// KafkaConfig holds assistant event publishing configuration.
type KafkaConfig struct {
	Enabled         bool
	Brokers         []string
	TopicAccepted   string
	TopicDispatched string
	Principal       string
}

// StoreConfig holds identity store configuration.
type StoreConfig struct {
	DBPath string
}

// ObservabilityConfig holds logging and metrics configuration.
type ObservabilityConfig struct {
	LogLevel    string
	LogFormat   string
	MetricsPort string
}

// Configuration is the root configuration for the service.
type Configuration struct {
	Service       ServiceConfig
	Classifier    ClassifierConfig
	Capture       CaptureConfig
	Speech        SpeechConfig
	Kafka         KafkaConfig
	Store         StoreConfig
	Observability ObservabilityConfig
}

// Load reads configuration from the environment, falling back to defaults on
// missing or invalid values. A .env file in the working directory is applied
// first if present.
func Load() *Configuration {
	_ = godotenv.Load()

	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-intellia")

	return &Configuration{
		Service: ServiceConfig{
			Principal: principal,
			HTTPPort:  envOrDefault("HTTP_PORT", "8000"),
		},
		Classifier: ClassifierConfig{
			APIURL:  envOrDefault("GEMINI_API_URL", ""),
			Timeout: envOrDefaultDuration("CLASSIFIER_TIMEOUT", 10*time.Second),
		},
		Capture: CaptureConfig{
			ConfidenceFloor:   envOrDefaultFloat("CAPTURE_CONFIDENCE_FLOOR", 0.4),
			RestartAfterEnd:   envOrDefaultDuration("CAPTURE_RESTART_AFTER_END", 300*time.Millisecond),
			RestartAfterNet:   envOrDefaultDuration("CAPTURE_RESTART_AFTER_NETWORK", 1000*time.Millisecond),
			RestartAfterError: envOrDefaultDuration("CAPTURE_RESTART_AFTER_ERROR", 500*time.Millisecond),
			GoogleEnabled:     envOrDefaultBool("CAPTURE_GOOGLE_ENABLED", false),
			SampleRateHz:      envOrDefaultInt("CAPTURE_SAMPLE_RATE_HZ", 16000),
		},
		Speech: SpeechConfig{
			VoiceCatalogPath: envOrDefault("VOICE_CATALOG_PATH", ""),
			MinRestartDelay:  envOrDefaultDuration("SPEECH_MIN_RESTART_DELAY", 200*time.Millisecond),
			MaxRestartDelay:  envOrDefaultDuration("SPEECH_MAX_RESTART_DELAY", 800*time.Millisecond),
			GreetingDelay:    envOrDefaultDuration("SPEECH_GREETING_DELAY", 800*time.Millisecond),
		},
		Kafka: KafkaConfig{
			Enabled:         envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:         envOrDefaultList("KAFKA_BROKERS", nil),
			TopicAccepted:   envOrDefault("KAFKA_TOPIC_ACCEPTED", "assistant.command.accepted"),
			TopicDispatched: envOrDefault("KAFKA_TOPIC_DISPATCHED", "assistant.intent.dispatched"),
			Principal:       envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Store: StoreConfig{
			DBPath: envOrDefault("DB_PATH", "./data/intellia.db"),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			LogFormat:   envOrDefault("LOG_FORMAT", "json"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envOrDefaultFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return def
	}
	return b
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
