// Package mock provides a scripted recognizer for tests and credential-less
// demos. It simulates continuous recognition with progressive interim
// transcripts and exactly one final transcript per utterance.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/its-pratyushpandey/Intellia/internal/capture"
	"github.com/its-pratyushpandey/Intellia/internal/models"
)

// ScriptedUtterance is one simulated utterance.
type ScriptedUtterance struct {
	Interims   []string // progressive interim transcripts
	Final      string   // final transcript text
	Confidence float64  // confidence score for the final
}

// DefaultScript provides sample utterances for simulation.
var DefaultScript = []ScriptedUtterance{
	{
		Interims:   []string{"hey", "hey nova what's"},
		Final:      "hey nova what's the date today",
		Confidence: 0.94,
	},
	{
		Interims:   []string{"nova open"},
		Final:      "nova open instagram",
		Confidence: 0.91,
	},
	{
		Interims:   []string{"assistant play", "assistant play some"},
		Final:      "assistant play some lo-fi music",
		Confidence: 0.88,
	},
}

// Recognizer implements capture.Recognizer with scripted responses.
type Recognizer struct {
	script []ScriptedUtterance
	step   time.Duration

	mu      sync.Mutex
	index   int
	running bool
	cancel  context.CancelFunc
}

// New creates a scripted recognizer. A nil script selects DefaultScript.
func New(script []ScriptedUtterance) *Recognizer {
	if len(script) == 0 {
		script = DefaultScript
	}
	return &Recognizer{script: script, step: 50 * time.Millisecond}
}

// SetStep overrides the delay between emitted transcripts. Tests use a very
// short step to keep runs fast.
func (r *Recognizer) SetStep(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.step = d
}

// Start begins emitting the next scripted utterance: each interim in order,
// then the final, then an ordinary end-of-capture.
func (r *Recognizer) Start(ctx context.Context, l capture.Listener) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	utt := r.script[r.index%len(r.script)]
	r.index++
	step := r.step
	ctx, r.cancel = context.WithCancel(ctx)
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			r.running = false
			r.mu.Unlock()
		}()

		for _, text := range utt.Interims {
			if !sleep(ctx, step) {
				return
			}
			l.OnTranscript(models.Transcript{Text: text, Confidence: 0, IsFinal: false})
		}
		if !sleep(ctx, step) {
			return
		}
		l.OnTranscript(models.Transcript{Text: utt.Final, Confidence: utt.Confidence, IsFinal: true})
		l.OnEnded()
	}()

	return nil
}

// Stop halts the current utterance. Safe to call when already stopped.
func (r *Recognizer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
	r.running = false
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
