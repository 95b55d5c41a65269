package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/its-pratyushpandey/Intellia/internal/capture"
	"github.com/its-pratyushpandey/Intellia/internal/classifier"
	"github.com/its-pratyushpandey/Intellia/internal/events"
	"github.com/its-pratyushpandey/Intellia/internal/identity"
	"github.com/its-pratyushpandey/Intellia/internal/intent"
	"github.com/its-pratyushpandey/Intellia/internal/models"
	"github.com/its-pratyushpandey/Intellia/internal/observability/logging"
	"github.com/its-pratyushpandey/Intellia/internal/observability/metrics"
	"github.com/its-pratyushpandey/Intellia/internal/speech"
	"github.com/its-pratyushpandey/Intellia/internal/wake"
)

// micAccessNotice is surfaced when capture permission is permanently denied.
const micAccessNotice = "Microphone access needed for voice commands"

// Classifier is the remote intent classifier boundary. Implementations never
// return an error; failures degrade to fallback text.
type Classifier interface {
	Ask(ctx context.Context, command, assistantName, userName string, voice models.VoiceSettings, nlp models.NLPSettings) (string, classifier.FailureCategory)
}

// Surface is the client-facing side of a session: live-typing feedback,
// user-visible notices, external navigation, and state updates.
type Surface interface {
	ShowInterim(text string)
	ShowNotice(text string)
	OpenURL(url string)
	StateChanged(s State)
}

// Config holds per-session tuning.
type Config struct {
	ConfidenceFloor float64
	GreetingDelay   time.Duration
	SpeechDelays    speech.Delays
	RestartPolicy   capture.RestartPolicy
	Voices          []speech.Voice
	// Now overrides the dispatch clock; nil means time.Now.
	Now func() time.Time
}

// DefaultConfig returns the production session tuning.
func DefaultConfig() Config {
	return Config{
		ConfidenceFloor: wake.DefaultConfidenceFloor,
		GreetingDelay:   800 * time.Millisecond,
		SpeechDelays:    speech.DefaultDelays(),
		RestartPolicy:   capture.DefaultRestartPolicy(),
		Voices:          speech.DefaultCatalog,
	}
}

// Orchestrator supervises one voice session: it decides when to listen, when
// to submit, when to speak, and how to recover from each class of failure.
type Orchestrator struct {
	id      string
	user    models.User
	machine *Machine
	gate    *wake.Gate

	capturer   *capture.Capturer
	player     *speech.Player
	classifier Classifier
	store      identity.Store
	publisher  *events.Publisher
	surface    Surface

	cfg     Config
	now     func() time.Time
	ctx     context.Context
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewOrchestrator wires one session together. The store is consulted only for
// history appends; the caller has already loaded the user (and failed closed
// if it could not).
func NewOrchestrator(
	user models.User,
	recognizer capture.Recognizer,
	synth speech.Synthesizer,
	cls Classifier,
	store identity.Store,
	publisher *events.Publisher,
	surface Surface,
	cfg Config,
) *Orchestrator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	voices := cfg.Voices
	if len(voices) == 0 {
		voices = speech.DefaultCatalog
	}

	o := &Orchestrator{
		id:         uuid.NewString(),
		user:       user,
		machine:    NewMachine(),
		gate:       wake.NewGate(user.AssistantName, cfg.ConfidenceFloor),
		classifier: cls,
		store:      store,
		publisher:  publisher,
		surface:    surface,
		cfg:        cfg,
		now:        now,
		metrics:    metrics.DefaultMetrics,
	}
	o.logger = logging.WithSession(o.id, user.ID)
	o.player = speech.NewPlayer(synth, voices, user.VoiceSettings, cfg.SpeechDelays, o.onPlaybackDone)
	o.capturer = capture.New(recognizer, o, cfg.RestartPolicy, func() bool {
		return o.machine.State() == StateListening
	})
	return o
}

// ID returns the session identifier.
func (o *Orchestrator) ID() string { return o.id }

// User returns the session's user profile snapshot.
func (o *Orchestrator) User() models.User { return o.user }

// State returns the current session state.
func (o *Orchestrator) State() State { return o.machine.State() }

// Listening reports whether capture is supposed to be running.
func (o *Orchestrator) Listening() bool { return o.machine.State() == StateListening }

// Speaking reports whether a reply is being vocalized.
func (o *Orchestrator) Speaking() bool { return o.machine.State() == StateSpeaking }

// Start begins the session: the localized greeting is spoken after a short
// delay, then the loop enters listening.
func (o *Orchestrator) Start(ctx context.Context) {
	o.ctx = ctx
	o.metrics.RecordSessionStart()
	o.logger.Info().
		Str("assistant", o.user.AssistantName).
		Str("language", o.user.VoiceSettings.LanguageOrDefault()).
		Msg("Session started")

	greeting := Greeting(o.user.Name, o.user.AssistantName,
		o.user.VoiceSettings.LanguageOrDefault(), o.user.NLPSettings.PersonalityMode)

	time.AfterFunc(o.cfg.GreetingDelay, func() {
		if err := o.machine.BeginSpeaking(); err != nil {
			return
		}
		o.transitioned(StateIdle, StateSpeaking)
		o.player.Speak(ctx, greeting)
	})
}

// Close tears the session down. Safe to call more than once.
func (o *Orchestrator) Close() {
	_ = o.capturer.Stop()
	o.player.Cancel()
	if o.machine.Terminate() {
		o.metrics.RecordSessionEnd("closed")
		o.surface.StateChanged(StateTerminated)
		o.logger.Info().Msg("Session closed")
	}
}

// onPlaybackDone is the player's restart signal: playback finished, the pause
// elapsed, listening may resume.
func (o *Orchestrator) onPlaybackDone() {
	if o.machine.Terminated() {
		return
	}
	prev := o.machine.State()
	if err := o.machine.BeginListening(); err != nil {
		return
	}
	o.transitioned(prev, StateListening)
	if err := o.capturer.Start(o.ctx); err != nil {
		o.logger.Warn().Err(err).Msg("Failed to resume capture after playback")
	}
}

// --- capture.Handler implementation ---

// OnTranscript routes recognition results: interim results are live-typing
// feedback only, final results go through the wake gate.
func (o *Orchestrator) OnTranscript(t models.Transcript) {
	if !t.IsFinal {
		o.surface.ShowInterim(t.Text + "...")
		return
	}
	o.handleFinal(t)
}

// OnCaptureStarted implements capture.Handler.
func (o *Orchestrator) OnCaptureStarted() {
	o.logger.Debug().Msg("Capture started")
}

// OnCaptureStopped implements capture.Handler.
func (o *Orchestrator) OnCaptureStopped() {
	o.logger.Debug().Msg("Capture stopped")
}

// OnPermissionDenied is terminal: the machine leaves the loop and a
// user-visible notice is surfaced. No restart is ever attempted.
func (o *Orchestrator) OnPermissionDenied() {
	if !o.machine.Terminate() {
		return
	}
	o.logger.Error().Msg("Microphone permission denied, session terminated")
	o.surface.ShowNotice(micAccessNotice)
	o.surface.StateChanged(StateTerminated)
	o.metrics.RecordSessionEnd("permission-denied")
}

func (o *Orchestrator) handleFinal(t models.Transcript) {
	if o.machine.State() != StateListening {
		// A submission or playback is in progress; late finals are dropped
		// until the cycle completes.
		o.logger.Debug().Str("text", t.Text).Msg("Final transcript ignored outside listening")
		return
	}

	decision := o.gate.Evaluate(t)
	o.metrics.WakeDecisions.WithLabelValues(decision.String()).Inc()

	switch decision {
	case wake.Accept:
		o.accept(t)
	case wake.Clarify:
		o.clarify()
	case wake.Ignore:
		// Not a command attempt.
	}
}

// accept runs one submit/dispatch/speak cycle for an accepted transcript.
func (o *Orchestrator) accept(t models.Transcript) {
	if err := o.machine.BeginSubmitting(); err != nil {
		o.logger.Debug().Err(err).Msg("Submission refused")
		return
	}
	o.transitioned(StateListening, StateSubmitting)
	_ = o.capturer.Stop()
	o.surface.ShowInterim(t.Text)

	logger := logging.WithUtterance(o.id, o.user.ID, t.Text)
	logger.Info().Float64("confidence", t.Confidence).Msg("Command accepted")

	if err := o.store.AppendHistory(o.ctx, o.user.ID, t.Text); err != nil {
		logger.Warn().Err(err).Msg("Failed to append command history")
	}
	if err := o.publisher.PublishAccepted(o.ctx, o.id, events.CommandAccepted{
		EventType:  "assistant.command.accepted",
		SessionID:  o.id,
		UserID:     o.user.ID,
		Command:    t.Text,
		Confidence: t.Confidence,
		Timestamp:  o.now().UnixMilli(),
	}); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish accepted event")
	}

	go o.submit(t)
}

// submit completes one Submitting cycle. It always ends in exactly one
// Speaking cycle: classifier failures degrade to fallback text, parse faults
// to clarification records, dispatch faults to a fixed reply.
func (o *Orchestrator) submit(t models.Transcript) {
	language := o.user.VoiceSettings.LanguageOrDefault()

	raw, category := o.classifier.Ask(o.ctx, t.Text, o.user.AssistantName, o.user.Name,
		o.user.VoiceSettings, o.user.NLPSettings)

	rec := intent.Parse(raw, t.Text, language)
	out, err := intent.Dispatch(rec, o.now)
	if err != nil {
		o.metrics.DispatchFailures.Inc()
		o.logger.Warn().Err(err).Msg("Dispatch failure")
	}
	o.metrics.IntentDispatched.WithLabelValues(string(out.Record.Type)).Inc()

	ev := events.IntentDispatched{
		EventType:       "assistant.intent.dispatched",
		SessionID:       o.id,
		UserID:          o.user.ID,
		IntentType:      string(out.Record.Type),
		Response:        out.Speak,
		FailureCategory: string(category),
		Timestamp:       o.now().UnixMilli(),
	}
	if out.Action != nil {
		ev.ActionURL = out.Action.URL
	}
	if err := o.publisher.PublishDispatched(o.ctx, o.id, ev); err != nil {
		o.logger.Warn().Err(err).Msg("Failed to publish dispatched event")
	}

	if err := o.machine.BeginSpeaking(); err != nil {
		return
	}
	o.transitioned(StateSubmitting, StateSpeaking)

	if out.Action != nil {
		o.surface.OpenURL(out.Action.URL)
	}
	o.player.Speak(o.ctx, out.Speak)
}

// clarify speaks a short localized "please repeat" and returns to listening
// through the normal playback path. Nothing is submitted.
func (o *Orchestrator) clarify() {
	if err := o.machine.BeginSpeaking(); err != nil {
		return
	}
	o.transitioned(StateListening, StateSpeaking)
	_ = o.capturer.Stop()
	o.player.Speak(o.ctx, wake.ClarificationMessage(o.user.VoiceSettings.LanguageOrDefault()))
}

func (o *Orchestrator) transitioned(from, to State) {
	o.metrics.RecordTransition(from.String(), to.String())
	o.surface.StateChanged(to)
}
