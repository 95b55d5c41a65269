// Package capture wraps continuous speech-to-text behind a recognizer
// interface and owns the start/stop/restart lifecycle.
package capture

import (
	"context"
	"sync"
	"time"

	"github.com/its-pratyushpandey/Intellia/internal/models"
	"github.com/its-pratyushpandey/Intellia/internal/observability/logging"
	"github.com/its-pratyushpandey/Intellia/internal/observability/metrics"
)

// ErrorCode classifies recognizer failures. The set mirrors what speech
// platforms actually report; only PermissionDenied is terminal.
type ErrorCode string

const (
	ErrNetwork          ErrorCode = "network"
	ErrNoSpeech         ErrorCode = "no-speech"
	ErrAborted          ErrorCode = "aborted"
	ErrPermissionDenied ErrorCode = "not-allowed"
	ErrOther            ErrorCode = "other"
)

// Listener receives recognition results from a Recognizer.
type Listener interface {
	// OnTranscript is called for every interim and final transcript.
	OnTranscript(t models.Transcript)

	// OnEnded is called when capture stops at an ordinary end of utterance.
	OnEnded()

	// OnError is called when capture terminates abnormally.
	OnError(code ErrorCode, err error)
}

// Recognizer is a continuous speech-to-text engine. Implementations exist for
// a remote browser feed, Google Cloud Speech streaming, and a scripted mock.
type Recognizer interface {
	// Start begins continuous recognition, delivering results to l until the
	// engine stops. Implementations must tolerate Start while running.
	Start(ctx context.Context, l Listener) error

	// Stop halts recognition. Safe to call when already stopped.
	Stop() error
}

// RestartPolicy holds the adaptive restart delays by termination cause.
type RestartPolicy struct {
	AfterEnd     time.Duration // ordinary end of utterance
	AfterNetwork time.Duration // transient transport failure
	AfterError   time.Duration // any other recoverable failure
}

// DefaultRestartPolicy returns the production delays.
func DefaultRestartPolicy() RestartPolicy {
	return RestartPolicy{
		AfterEnd:     300 * time.Millisecond,
		AfterNetwork: 1000 * time.Millisecond,
		AfterError:   500 * time.Millisecond,
	}
}

// Handler receives the capturer's outward-facing events. Restart handling is
// internal; the handler only sees transcripts, lifecycle edges, and the one
// terminal failure.
type Handler interface {
	OnTranscript(t models.Transcript)
	OnCaptureStarted()
	OnCaptureStopped()
	// OnPermissionDenied is terminal: capture will not restart and a
	// user-visible notice must be surfaced.
	OnPermissionDenied()
}

// Capturer drives a Recognizer with the session's restart policy. Start and
// Stop are idempotent; a guard callback lets the owner veto restarts while
// synthesis is active.
type Capturer struct {
	recognizer Recognizer
	handler    Handler
	policy     RestartPolicy
	// guard reports whether capture may (re)start right now. Nil means
	// always allowed.
	guard func() bool

	mu       sync.Mutex
	ctx      context.Context
	active   bool
	terminal bool
	stopped  bool
	restart  *time.Timer

	metrics *metrics.Metrics
}

// New creates a capturer around a recognizer.
func New(recognizer Recognizer, handler Handler, policy RestartPolicy, guard func() bool) *Capturer {
	return &Capturer{
		recognizer: recognizer,
		handler:    handler,
		policy:     policy,
		guard:      guard,
		metrics:    metrics.DefaultMetrics,
	}
}

// Start begins continuous capture. It is a no-op when capture is already
// active, when the guard vetoes it, or after a terminal failure.
func (c *Capturer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.active || c.terminal {
		c.mu.Unlock()
		return nil
	}
	if c.guard != nil && !c.guard() {
		c.mu.Unlock()
		return nil
	}
	c.active = true
	c.stopped = false
	c.ctx = ctx
	c.mu.Unlock()

	if err := c.recognizer.Start(ctx, (*recognizerListener)(c)); err != nil {
		c.mu.Lock()
		c.active = false
		c.mu.Unlock()
		return err
	}
	c.handler.OnCaptureStarted()
	return nil
}

// Stop halts capture and cancels any pending restart. Idempotent: stopping an
// already-stopped capturer leaves state unchanged.
func (c *Capturer) Stop() error {
	c.mu.Lock()
	wasActive := c.active
	c.active = false
	c.stopped = true
	if c.restart != nil {
		c.restart.Stop()
		c.restart = nil
	}
	c.mu.Unlock()

	if !wasActive {
		return nil
	}
	if err := c.recognizer.Stop(); err != nil {
		return err
	}
	c.handler.OnCaptureStopped()
	return nil
}

// Active reports whether capture is currently running.
func (c *Capturer) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Terminal reports whether capture hit the permanent permission failure.
func (c *Capturer) Terminal() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.terminal
}

// scheduleRestart arms a restart after delay unless the capturer was stopped
// deliberately or terminally.
func (c *Capturer) scheduleRestart(cause string, delay time.Duration) {
	c.mu.Lock()
	if c.stopped || c.terminal {
		c.mu.Unlock()
		return
	}
	ctx := c.ctx
	if c.restart != nil {
		c.restart.Stop()
	}
	c.restart = time.AfterFunc(delay, func() {
		c.metrics.CaptureRestarts.WithLabelValues(cause).Inc()
		if err := c.Start(ctx); err != nil {
			logger := logging.WithComponent("capture")
			logger.Warn().Err(err).Str("cause", cause).Msg("Capture restart failed")
		}
	})
	c.mu.Unlock()
}

// recognizerListener adapts the capturer into the recognizer's Listener so
// the restart policy stays out of Recognizer implementations.
type recognizerListener Capturer

func (l *recognizerListener) OnTranscript(t models.Transcript) {
	c := (*Capturer)(l)
	if t.IsFinal {
		c.metrics.TranscriptsFinal.Inc()
	} else {
		c.metrics.TranscriptsInterim.Inc()
	}
	c.handler.OnTranscript(t)
}

func (l *recognizerListener) OnEnded() {
	c := (*Capturer)(l)
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
	c.handler.OnCaptureStopped()
	c.scheduleRestart("end", c.policy.AfterEnd)
}

func (l *recognizerListener) OnError(code ErrorCode, err error) {
	c := (*Capturer)(l)
	logger := logging.WithComponent("capture")

	c.mu.Lock()
	c.active = false
	if code == ErrPermissionDenied {
		c.terminal = true
	}
	c.mu.Unlock()
	c.handler.OnCaptureStopped()

	switch code {
	case ErrPermissionDenied:
		logger.Error().Err(err).Msg("Microphone access denied, capture is terminal")
		c.metrics.CaptureTerminal.Inc()
		c.handler.OnPermissionDenied()
	case ErrAborted:
		// Deliberate stop from the platform; no restart.
		logger.Debug().Msg("Capture aborted")
	case ErrNetwork:
		logger.Warn().Err(err).Msg("Capture network error, restarting with backoff")
		c.scheduleRestart(string(code), c.policy.AfterNetwork)
	case ErrNoSpeech:
		logger.Debug().Msg("No speech detected, continuing listening")
		c.scheduleRestart(string(code), c.policy.AfterEnd)
	default:
		logger.Warn().Err(err).Str("code", string(code)).Msg("Capture error, restarting")
		c.scheduleRestart(string(code), c.policy.AfterError)
	}
}
