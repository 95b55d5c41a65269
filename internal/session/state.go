// Package session ties capture, wake gating, classification, dispatch and
// speech into one supervised loop per connected user.
package session

import (
	"errors"
	"fmt"
	"sync"
)

// State is the authoritative state of a voice session. Exactly one of
// {capture, remote submission, playback} is active at a time; the mutual
// exclusion between listening and speaking is structural because there is a
// single current state.
type State int

const (
	// StateIdle - session exists but the loop has not started listening.
	StateIdle State = iota
	// StateListening - continuous capture is active.
	StateListening
	// StateSubmitting - a final transcript is at the classifier; capture is
	// stopped for the duration.
	StateSubmitting
	// StateSpeaking - a reply is being vocalized.
	StateSpeaking
	// StateTerminated - permission was denied or the session was closed.
	// This is a terminal state.
	StateTerminated
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateListening:
		return "LISTENING"
	case StateSubmitting:
		return "SUBMITTING"
	case StateSpeaking:
		return "SPEAKING"
	case StateTerminated:
		return "TERMINATED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// Errors for invalid state transitions.
var (
	ErrTerminated         = errors.New("session is terminated")
	ErrNotListening       = errors.New("can only submit from the listening state")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
)

// Machine manages the state transitions for a single session.
// Thread-safe for concurrent access.
//
// State transitions:
//
//	IDLE → SPEAKING (greeting) → LISTENING → SUBMITTING → SPEAKING → LISTENING → …
//
// Rules:
//   - LISTENING is reachable from any non-terminal state (recoverable
//     capture faults re-enter it after backoff).
//   - SUBMITTING is reachable only from LISTENING, and only once per cycle;
//     a second final transcript while submitting is refused.
//   - SPEAKING is reachable from IDLE (greeting), LISTENING (clarification)
//     and SUBMITTING (reply). Every submission ends in exactly one SPEAKING.
//   - TERMINATED is reachable from anywhere and absorbs all transitions.
type Machine struct {
	mu    sync.RWMutex
	state State
}

// NewMachine creates a machine in the IDLE state.
func NewMachine() *Machine {
	return &Machine{state: StateIdle}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// BeginListening transitions to LISTENING from any non-terminal state.
func (m *Machine) BeginListening() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateTerminated {
		return ErrTerminated
	}
	m.state = StateListening
	return nil
}

// BeginSubmitting transitions LISTENING → SUBMITTING. Only one submission is
// in flight per session at a time.
func (m *Machine) BeginSubmitting() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StateListening:
		m.state = StateSubmitting
		return nil
	case StateSubmitting:
		return ErrSubmissionInFlight
	case StateTerminated:
		return ErrTerminated
	default:
		return fmt.Errorf("%w: state is %v", ErrNotListening, m.state)
	}
}

// BeginSpeaking transitions to SPEAKING from IDLE, LISTENING or SUBMITTING.
func (m *Machine) BeginSpeaking() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StateIdle, StateListening, StateSubmitting:
		m.state = StateSpeaking
		return nil
	case StateSpeaking:
		// A new utterance cancelled the previous one; still speaking.
		return nil
	default:
		return ErrTerminated
	}
}

// Terminate moves to TERMINATED from any state. Idempotent. Returns true on
// the first call to reach the terminal state.
func (m *Machine) Terminate() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateTerminated {
		return false
	}
	m.state = StateTerminated
	return true
}

// Terminated reports whether the machine is in its terminal state.
func (m *Machine) Terminated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateTerminated
}
