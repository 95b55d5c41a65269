package session

import (
	"errors"
	"testing"
)

func TestMachine_InitialState(t *testing.T) {
	m := NewMachine()
	if m.State() != StateIdle {
		t.Errorf("expected StateIdle, got %v", m.State())
	}
	if m.Terminated() {
		t.Error("expected not terminated")
	}
}

func TestMachine_GreetingCycle(t *testing.T) {
	m := NewMachine()

	if err := m.BeginSpeaking(); err != nil {
		t.Fatalf("greeting from idle: %v", err)
	}
	if err := m.BeginListening(); err != nil {
		t.Fatalf("listening after greeting: %v", err)
	}
	if m.State() != StateListening {
		t.Errorf("expected StateListening, got %v", m.State())
	}
}

func TestMachine_SubmitOnlyFromListening(t *testing.T) {
	m := NewMachine()

	if err := m.BeginSubmitting(); !errors.Is(err, ErrNotListening) {
		t.Errorf("expected ErrNotListening from idle, got %v", err)
	}

	m.BeginListening()
	if err := m.BeginSubmitting(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.State() != StateSubmitting {
		t.Errorf("expected StateSubmitting, got %v", m.State())
	}
}

func TestMachine_SecondSubmissionRefused(t *testing.T) {
	m := NewMachine()
	m.BeginListening()
	m.BeginSubmitting()

	if err := m.BeginSubmitting(); !errors.Is(err, ErrSubmissionInFlight) {
		t.Errorf("expected ErrSubmissionInFlight, got %v", err)
	}
}

func TestMachine_SpeakingFromSubmitting(t *testing.T) {
	m := NewMachine()
	m.BeginListening()
	m.BeginSubmitting()

	if err := m.BeginSpeaking(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.State() != StateSpeaking {
		t.Errorf("expected StateSpeaking, got %v", m.State())
	}
}

func TestMachine_SpeakingIsIdempotent(t *testing.T) {
	m := NewMachine()
	m.BeginSpeaking()

	if err := m.BeginSpeaking(); err != nil {
		t.Errorf("expected speaking-while-speaking to be accepted, got %v", err)
	}
}

func TestMachine_ClarificationPath(t *testing.T) {
	m := NewMachine()
	m.BeginListening()

	// Low-confidence wake: speak a clarification directly from listening.
	if err := m.BeginSpeaking(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.BeginListening(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMachine_TerminateAbsorbsEverything(t *testing.T) {
	m := NewMachine()

	if !m.Terminate() {
		t.Error("expected first terminate to report true")
	}
	if m.Terminate() {
		t.Error("expected second terminate to report false")
	}

	if err := m.BeginListening(); !errors.Is(err, ErrTerminated) {
		t.Errorf("expected ErrTerminated, got %v", err)
	}
	if err := m.BeginSubmitting(); !errors.Is(err, ErrTerminated) {
		t.Errorf("expected ErrTerminated, got %v", err)
	}
	if err := m.BeginSpeaking(); !errors.Is(err, ErrTerminated) {
		t.Errorf("expected ErrTerminated, got %v", err)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "IDLE"},
		{StateListening, "LISTENING"},
		{StateSubmitting, "SUBMITTING"},
		{StateSpeaking, "SPEAKING"},
		{StateTerminated, "TERMINATED"},
		{State(99), "UNKNOWN(99)"},
	}
	for _, tc := range tests {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("State(%d).String() = %s, want %s", tc.state, got, tc.want)
		}
	}
}
