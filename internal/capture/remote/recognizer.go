// Package remote provides a recognizer backed by a connected client that
// runs platform speech recognition itself and forwards results upward.
package remote

import (
	"context"
	"sync"

	"github.com/its-pratyushpandey/Intellia/internal/capture"
	"github.com/its-pratyushpandey/Intellia/internal/models"
)

// Recognizer implements capture.Recognizer for a client-side recognition
// engine. Start and Stop translate into directives sent to the client; the
// transport layer injects the client's recognition events back in.
type Recognizer struct {
	onStart func() error
	onStop  func() error

	mu       sync.Mutex
	listener capture.Listener
	running  bool
}

// New creates a remote recognizer. onStart and onStop are invoked to direct
// the client to start or stop its recognition engine; either may be nil.
func New(onStart, onStop func() error) *Recognizer {
	return &Recognizer{onStart: onStart, onStop: onStop}
}

// Start directs the client to begin recognition.
func (r *Recognizer) Start(ctx context.Context, l capture.Listener) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.listener = l
	r.running = true
	r.mu.Unlock()

	if r.onStart != nil {
		return r.onStart()
	}
	return nil
}

// Stop directs the client to halt recognition. Safe to call when stopped.
func (r *Recognizer) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	r.mu.Unlock()

	if r.onStop != nil {
		return r.onStop()
	}
	return nil
}

// InjectTranscript feeds one client recognition result in.
func (r *Recognizer) InjectTranscript(t models.Transcript) {
	if l := r.current(); l != nil {
		l.OnTranscript(t)
	}
}

// InjectEnded reports an ordinary client-side end of capture.
func (r *Recognizer) InjectEnded() {
	r.mu.Lock()
	l := r.listener
	r.running = false
	r.mu.Unlock()
	if l != nil {
		l.OnEnded()
	}
}

// InjectError reports a client-side capture failure.
func (r *Recognizer) InjectError(code capture.ErrorCode, err error) {
	r.mu.Lock()
	l := r.listener
	r.running = false
	r.mu.Unlock()
	if l != nil {
		l.OnError(code, err)
	}
}

func (r *Recognizer) current() capture.Listener {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return nil
	}
	return r.listener
}
