package speech

import (
	"context"
	"sync"
	"time"

	"github.com/its-pratyushpandey/Intellia/internal/models"
	"github.com/its-pratyushpandey/Intellia/internal/observability/logging"
	"github.com/its-pratyushpandey/Intellia/internal/observability/metrics"
)

// Synthesizer plays one utterance through a concrete output (a connected
// client's synthesis engine, or a no-op for tests). Speak blocks until
// playback completes, fails, or ctx is cancelled.
type Synthesizer interface {
	Speak(ctx context.Context, text string, voice Voice, settings models.VoiceSettings) error
}

// Delays bounds the pause between playback completion and the restart signal.
type Delays struct {
	Min time.Duration
	Max time.Duration
}

// DefaultDelays returns the production restart delay bounds.
func DefaultDelays() Delays {
	return Delays{Min: 200 * time.Millisecond, Max: 800 * time.Millisecond}
}

// RestartDelay computes the pause before listening resumes after speaking
// text: proportional to the text length so longer replies leave a longer
// pause, clamped to the configured bounds.
func RestartDelay(text string, d Delays) time.Duration {
	delay := time.Duration(len(text)) * 5 * time.Millisecond
	if delay < d.Min {
		return d.Min
	}
	if delay > d.Max {
		return d.Max
	}
	return delay
}

// Player speaks reply text through the selected voice. Starting a new
// utterance cancels any in-flight one; on completion or error a restart
// signal is emitted exactly once per surviving utterance.
type Player struct {
	synth    Synthesizer
	voices   []Voice
	settings models.VoiceSettings
	delays   Delays

	// onDone receives the restart signal after the post-playback pause.
	onDone func()

	mu         sync.Mutex
	speaking   bool
	cancel     context.CancelFunc
	generation uint64

	metrics *metrics.Metrics
}

// NewPlayer creates a player over the given synthesizer and voice inventory.
// onDone is invoked, after the computed pause, whenever a non-cancelled
// playback finishes.
func NewPlayer(synth Synthesizer, voices []Voice, settings models.VoiceSettings, delays Delays, onDone func()) *Player {
	return &Player{
		synth:    synth,
		voices:   voices,
		settings: settings,
		delays:   delays,
		onDone:   onDone,
		metrics:  metrics.DefaultMetrics,
	}
}

// Speaking reports whether playback is currently active.
func (p *Player) Speaking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speaking
}

// Speak cancels any in-flight utterance and plays text. It returns as soon as
// playback has started; completion is reported through the restart signal.
func (p *Player) Speak(ctx context.Context, text string) {
	logger := logging.WithComponent("speech")

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.metrics.PlaybacksCancelled.Inc()
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.speaking = true
	p.generation++
	gen := p.generation
	p.mu.Unlock()

	voice, _ := Select(p.voices, p.settings.LanguageOrDefault(), p.settings.Gender)
	p.metrics.PlaybacksStarted.Inc()

	go func() {
		err := p.synth.Speak(ctx, text, voice, p.settings)

		p.mu.Lock()
		if gen != p.generation {
			// A newer utterance superseded this one; its restart signal
			// belongs to the newer playback.
			p.mu.Unlock()
			return
		}
		p.speaking = false
		p.cancel = nil
		p.mu.Unlock()

		if err != nil && ctx.Err() == nil {
			logger.Warn().Err(err).Msg("Playback error")
			p.metrics.PlaybackErrors.Inc()
		}

		delay := RestartDelay(text, p.delays)
		time.AfterFunc(delay, func() {
			p.mu.Lock()
			stale := gen != p.generation
			p.mu.Unlock()
			if !stale && p.onDone != nil {
				p.onDone()
			}
		})
	}()
}

// Cancel stops any in-flight playback without emitting a restart signal.
func (p *Player) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
		p.metrics.PlaybacksCancelled.Inc()
	}
	p.speaking = false
	p.generation++
}
