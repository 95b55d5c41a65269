package speech

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/its-pratyushpandey/Intellia/internal/models"
)

func TestRestartDelay(t *testing.T) {
	d := Delays{Min: 200 * time.Millisecond, Max: 800 * time.Millisecond}

	tests := []struct {
		name string
		text string
		want time.Duration
	}{
		{"short text clamps to min", "hi", 200 * time.Millisecond},
		{"proportional in range", strings.Repeat("x", 60), 300 * time.Millisecond},
		{"long text clamps to max", strings.Repeat("x", 500), 800 * time.Millisecond},
		{"empty text clamps to min", "", 200 * time.Millisecond},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RestartDelay(tc.text, d); got != tc.want {
				t.Errorf("RestartDelay(%d chars) = %v, want %v", len(tc.text), got, tc.want)
			}
		})
	}
}

// blockingSynth blocks until its context is cancelled or release is closed.
type blockingSynth struct {
	mu      sync.Mutex
	calls   []string
	release chan struct{}
}

func newBlockingSynth() *blockingSynth {
	return &blockingSynth{release: make(chan struct{})}
}

func (s *blockingSynth) Speak(ctx context.Context, text string, voice Voice, _ models.VoiceSettings) error {
	s.mu.Lock()
	s.calls = append(s.calls, text)
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.release:
		return nil
	}
}

func (s *blockingSynth) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func testDelays() Delays {
	return Delays{Min: time.Millisecond, Max: 5 * time.Millisecond}
}

func TestPlayer_SpeakEmitsRestartSignal(t *testing.T) {
	synth := newBlockingSynth()
	done := make(chan struct{}, 1)
	p := NewPlayer(synth, DefaultCatalog, models.VoiceSettings{}, testDelays(), func() {
		done <- struct{}{}
	})

	p.Speak(context.Background(), "hello there")
	close(synth.release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected restart signal after playback")
	}
	if p.Speaking() {
		t.Error("expected not speaking after completion")
	}
}

func TestPlayer_NewUtteranceSupersedesInFlight(t *testing.T) {
	synth := newBlockingSynth()
	var mu sync.Mutex
	signals := 0
	p := NewPlayer(synth, DefaultCatalog, models.VoiceSettings{}, testDelays(), func() {
		mu.Lock()
		signals++
		mu.Unlock()
	})

	p.Speak(context.Background(), "first utterance")
	p.Speak(context.Background(), "second utterance")
	close(synth.release)

	// Only the surviving utterance may signal.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	got := signals
	mu.Unlock()
	if got != 1 {
		t.Errorf("expected exactly 1 restart signal, got %d", got)
	}
	if synth.callCount() != 2 {
		t.Errorf("expected 2 synth calls, got %d", synth.callCount())
	}
}

func TestPlayer_CancelSuppressesRestartSignal(t *testing.T) {
	synth := newBlockingSynth()
	done := make(chan struct{}, 1)
	p := NewPlayer(synth, DefaultCatalog, models.VoiceSettings{}, testDelays(), func() {
		done <- struct{}{}
	})

	p.Speak(context.Background(), "to be cancelled")
	p.Cancel()
	close(synth.release)

	select {
	case <-done:
		t.Fatal("cancelled playback must not emit a restart signal")
	case <-time.After(50 * time.Millisecond):
	}
	if p.Speaking() {
		t.Error("expected not speaking after cancel")
	}
}

func TestPlayer_CancelWithoutPlaybackIsSafe(t *testing.T) {
	p := NewPlayer(newBlockingSynth(), DefaultCatalog, models.VoiceSettings{}, testDelays(), nil)
	p.Cancel()
	if p.Speaking() {
		t.Error("expected not speaking")
	}
}
