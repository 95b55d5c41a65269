package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/its-pratyushpandey/Intellia/internal/capture"
	"github.com/its-pratyushpandey/Intellia/internal/models"
)

type recordListener struct {
	transcripts []models.Transcript
	ended       int
	errs        []capture.ErrorCode
}

func (l *recordListener) OnTranscript(t models.Transcript) {
	l.transcripts = append(l.transcripts, t)
}
func (l *recordListener) OnEnded() { l.ended++ }
func (l *recordListener) OnError(code capture.ErrorCode, _ error) {
	l.errs = append(l.errs, code)
}

func TestRecognizer_StartStopDirectives(t *testing.T) {
	starts, stops := 0, 0
	r := New(
		func() error { starts++; return nil },
		func() error { stops++; return nil },
	)

	r.Start(context.Background(), &recordListener{})
	r.Start(context.Background(), &recordListener{}) // already running, no directive
	if starts != 1 {
		t.Errorf("expected 1 start directive, got %d", starts)
	}

	r.Stop()
	r.Stop() // already stopped, no directive
	if stops != 1 {
		t.Errorf("expected 1 stop directive, got %d", stops)
	}
}

func TestRecognizer_InjectTranscriptReachesListener(t *testing.T) {
	r := New(nil, nil)
	l := &recordListener{}
	r.Start(context.Background(), l)

	r.InjectTranscript(models.Transcript{Text: "nova hello", Confidence: 0.8, IsFinal: true})

	if len(l.transcripts) != 1 || l.transcripts[0].Text != "nova hello" {
		t.Errorf("expected injected transcript, got %+v", l.transcripts)
	}
}

func TestRecognizer_InjectIgnoredWhenStopped(t *testing.T) {
	r := New(nil, nil)
	l := &recordListener{}
	r.Start(context.Background(), l)
	r.Stop()

	r.InjectTranscript(models.Transcript{Text: "late", IsFinal: true})

	if len(l.transcripts) != 0 {
		t.Errorf("expected no delivery after stop, got %+v", l.transcripts)
	}
}

func TestRecognizer_InjectEndedAndError(t *testing.T) {
	r := New(nil, nil)
	l := &recordListener{}

	r.Start(context.Background(), l)
	r.InjectEnded()
	if l.ended != 1 {
		t.Errorf("expected 1 end, got %d", l.ended)
	}

	r.Start(context.Background(), l)
	r.InjectError(capture.ErrNetwork, errors.New("link down"))
	if len(l.errs) != 1 || l.errs[0] != capture.ErrNetwork {
		t.Errorf("expected network error, got %v", l.errs)
	}
}

func TestRecognizer_StartErrorPropagates(t *testing.T) {
	wantErr := errors.New("client unreachable")
	r := New(func() error { return wantErr }, nil)

	if err := r.Start(context.Background(), &recordListener{}); !errors.Is(err, wantErr) {
		t.Errorf("expected start error, got %v", err)
	}
}
