package capture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/its-pratyushpandey/Intellia/internal/models"
)

// fakeRecognizer records Start/Stop calls and lets tests drive the listener.
type fakeRecognizer struct {
	mu       sync.Mutex
	starts   int
	stops    int
	listener Listener
	startErr error
}

func (f *fakeRecognizer) Start(ctx context.Context, l Listener) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.starts++
	f.listener = l
	return nil
}

func (f *fakeRecognizer) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return nil
}

func (f *fakeRecognizer) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

// recordingHandler collects capturer events.
type recordingHandler struct {
	mu          sync.Mutex
	transcripts []models.Transcript
	started     int
	stopped     int
	denied      int
}

func (h *recordingHandler) OnTranscript(t models.Transcript) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.transcripts = append(h.transcripts, t)
}

func (h *recordingHandler) OnCaptureStarted() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started++
}

func (h *recordingHandler) OnCaptureStopped() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped++
}

func (h *recordingHandler) OnPermissionDenied() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.denied++
}

func fastPolicy() RestartPolicy {
	return RestartPolicy{
		AfterEnd:     5 * time.Millisecond,
		AfterNetwork: 10 * time.Millisecond,
		AfterError:   5 * time.Millisecond,
	}
}

func TestCapturer_StartIsIdempotent(t *testing.T) {
	rec := &fakeRecognizer{}
	h := &recordingHandler{}
	c := New(rec, h, fastPolicy(), nil)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.startCount() != 1 {
		t.Errorf("expected 1 recognizer start, got %d", rec.startCount())
	}
	if !c.Active() {
		t.Error("expected active after start")
	}
}

func TestCapturer_StopIsIdempotent(t *testing.T) {
	rec := &fakeRecognizer{}
	h := &recordingHandler{}
	c := New(rec, h, fastPolicy(), nil)

	c.Start(context.Background())
	if err := c.Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.stops != 1 {
		t.Errorf("expected 1 recognizer stop, got %d", rec.stops)
	}
	if c.Active() {
		t.Error("expected inactive after stop")
	}
}

func TestCapturer_GuardVetoesStart(t *testing.T) {
	rec := &fakeRecognizer{}
	h := &recordingHandler{}
	allow := false
	c := New(rec, h, fastPolicy(), func() bool { return allow })

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.startCount() != 0 {
		t.Error("expected guard to veto start")
	}

	allow = true
	c.Start(context.Background())
	if rec.startCount() != 1 {
		t.Error("expected start once guard allows")
	}
}

func TestCapturer_RestartsAfterOrdinaryEnd(t *testing.T) {
	rec := &fakeRecognizer{}
	h := &recordingHandler{}
	c := New(rec, h, fastPolicy(), nil)

	c.Start(context.Background())
	rec.listener.OnEnded()

	waitFor(t, func() bool { return rec.startCount() == 2 }, "capture restart after end")
}

func TestCapturer_RestartsAfterNetworkError(t *testing.T) {
	rec := &fakeRecognizer{}
	h := &recordingHandler{}
	c := New(rec, h, fastPolicy(), nil)

	c.Start(context.Background())
	rec.listener.OnError(ErrNetwork, errors.New("link down"))

	waitFor(t, func() bool { return rec.startCount() == 2 }, "capture restart after network error")
}

func TestCapturer_NoRestartAfterAbort(t *testing.T) {
	rec := &fakeRecognizer{}
	h := &recordingHandler{}
	c := New(rec, h, fastPolicy(), nil)

	c.Start(context.Background())
	rec.listener.OnError(ErrAborted, errors.New("aborted"))

	time.Sleep(30 * time.Millisecond)
	if rec.startCount() != 1 {
		t.Errorf("expected no restart after abort, got %d starts", rec.startCount())
	}
}

func TestCapturer_DeliberateStopCancelsRestart(t *testing.T) {
	rec := &fakeRecognizer{}
	h := &recordingHandler{}
	c := New(rec, h, fastPolicy(), nil)

	c.Start(context.Background())
	rec.listener.OnEnded()
	c.Stop()

	time.Sleep(30 * time.Millisecond)
	if rec.startCount() != 1 {
		t.Errorf("expected stop to cancel pending restart, got %d starts", rec.startCount())
	}
}

func TestCapturer_PermissionDeniedIsTerminal(t *testing.T) {
	rec := &fakeRecognizer{}
	h := &recordingHandler{}
	c := New(rec, h, fastPolicy(), nil)

	c.Start(context.Background())
	rec.listener.OnError(ErrPermissionDenied, errors.New("not-allowed"))

	if h.denied != 1 {
		t.Errorf("expected permission-denied callback, got %d", h.denied)
	}
	if !c.Terminal() {
		t.Error("expected terminal state")
	}

	// Neither an automatic restart nor a manual one may succeed.
	time.Sleep(30 * time.Millisecond)
	c.Start(context.Background())
	if rec.startCount() != 1 {
		t.Errorf("expected no further starts, got %d", rec.startCount())
	}
}

func TestCapturer_ForwardsTranscripts(t *testing.T) {
	rec := &fakeRecognizer{}
	h := &recordingHandler{}
	c := New(rec, h, fastPolicy(), nil)

	c.Start(context.Background())
	rec.listener.OnTranscript(models.Transcript{Text: "hey", IsFinal: false})
	rec.listener.OnTranscript(models.Transcript{Text: "hey nova", Confidence: 0.9, IsFinal: true})

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.transcripts) != 2 {
		t.Fatalf("expected 2 transcripts, got %d", len(h.transcripts))
	}
	if h.transcripts[0].IsFinal || !h.transcripts[1].IsFinal {
		t.Error("finality flags not preserved")
	}
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
