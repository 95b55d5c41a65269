// Package events publishes assistant activity events.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/its-pratyushpandey/Intellia/internal/observability/metrics"
)

// CommandAccepted is emitted when the wake gate accepts a final transcript.
type CommandAccepted struct {
	EventType  string  `json:"eventType"`
	SessionID  string  `json:"sessionId"`
	UserID     string  `json:"userId"`
	Command    string  `json:"command"`
	Confidence float64 `json:"confidence"`
	Timestamp  int64   `json:"timestamp"`
}

// IntentDispatched is emitted after one submit/dispatch cycle completes.
type IntentDispatched struct {
	EventType       string `json:"eventType"`
	SessionID       string `json:"sessionId"`
	UserID          string `json:"userId"`
	IntentType      string `json:"intentType"`
	Response        string `json:"response"`
	ActionURL       string `json:"actionUrl,omitempty"`
	FailureCategory string `json:"failureCategory,omitempty"`
	Timestamp       int64  `json:"timestamp"`
}

// Publisher publishes assistant events to separate Kafka topics.
type Publisher struct {
	writerAccepted   *kafka.Writer
	writerDispatched *kafka.Writer
	principal        string
	topicAccepted    string
	topicDispatched  string
	enabled          bool
	metrics          *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers         []string
	TopicAccepted   string
	TopicDispatched string
	Principal       string
	Enabled         bool
}

// New creates a Kafka event publisher. A nil or disabled config yields a
// log-only publisher.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil || !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		p := &Publisher{enabled: false, metrics: m}
		if cfg != nil {
			p.principal = cfg.Principal
			p.topicAccepted = cfg.TopicAccepted
			p.topicDispatched = cfg.TopicDispatched
		}
		return p
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
			RequiredAcks: kafka.RequireOne,
			Transport:    transport,
		}
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicAccepted", cfg.TopicAccepted).
		Str("topicDispatched", cfg.TopicDispatched).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerAccepted:   newWriter(cfg.TopicAccepted),
		writerDispatched: newWriter(cfg.TopicDispatched),
		principal:        cfg.Principal,
		topicAccepted:    cfg.TopicAccepted,
		topicDispatched:  cfg.TopicDispatched,
		enabled:          true,
		metrics:          m,
	}
}

// PublishAccepted publishes a command-accepted event keyed by session ID.
func (p *Publisher) PublishAccepted(ctx context.Context, key string, event CommandAccepted) error {
	return p.publish(ctx, p.writerAccepted, p.topicAccepted, key, event)
}

// PublishDispatched publishes an intent-dispatched event keyed by session ID.
func (p *Publisher) PublishDispatched(ctx context.Context, key string, event IntentDispatched) error {
	return p.publish(ctx, p.writerDispatched, p.topicDispatched, key, event)
}

func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	if !p.enabled || writer == nil {
		p.metrics.RecordEventPublish(topic, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordEventPublish(topic, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordEventPublish(topic, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerAccepted != nil {
		if e := p.writerAccepted.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing accepted writer")
			err = e
		}
	}
	if p.writerDispatched != nil {
		if e := p.writerDispatched.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing dispatched writer")
			err = e
		}
	}
	return err
}
