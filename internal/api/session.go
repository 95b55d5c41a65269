package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/its-pratyushpandey/Intellia/internal/capture"
	"github.com/its-pratyushpandey/Intellia/internal/capture/remote"
	"github.com/its-pratyushpandey/Intellia/internal/identity"
	"github.com/its-pratyushpandey/Intellia/internal/intent"
	"github.com/its-pratyushpandey/Intellia/internal/models"
	"github.com/its-pratyushpandey/Intellia/internal/session"
	"github.com/its-pratyushpandey/Intellia/internal/speech"
)

// clientMessage is anything the connected client sends upward: recognition
// results, capture lifecycle events, and playback acknowledgements.
type clientMessage struct {
	Type        string  `json:"type"`
	Text        string  `json:"text,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
	IsFinal     bool    `json:"isFinal,omitempty"`
	Code        string  `json:"code,omitempty"`
	UtteranceID string  `json:"utteranceId,omitempty"`
}

// serverMessage is any directive sent down to the client.
type serverMessage struct {
	Type        string        `json:"type"`
	Text        string        `json:"text,omitempty"`
	URL         string        `json:"url,omitempty"`
	State       string        `json:"state,omitempty"`
	UtteranceID string        `json:"utteranceId,omitempty"`
	Voice       *speech.Voice `json:"voice,omitempty"`
	Settings    *voicePayload `json:"settings,omitempty"`
}

type voicePayload struct {
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

// audioSink accepts raw audio frames from an audio-uploading client.
type audioSink interface {
	Feed(frame []byte)
}

// wsSession bridges one WebSocket connection to a session orchestrator. It is
// the client-facing half of the session: recognition directives, synthesis
// requests, and surface updates all travel over the one connection.
type wsSession struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu   sync.Mutex
	acks map[string]chan struct{}
}

func newWSSession(conn *websocket.Conn) *wsSession {
	return &wsSession{conn: conn, acks: make(map[string]chan struct{})}
}

func (ws *wsSession) send(msg serverMessage) error {
	ws.writeMu.Lock()
	defer ws.writeMu.Unlock()
	return ws.conn.WriteJSON(msg)
}

// --- session.Surface implementation ---

func (ws *wsSession) ShowInterim(text string) {
	_ = ws.send(serverMessage{Type: "interim", Text: text})
}

func (ws *wsSession) ShowNotice(text string) {
	_ = ws.send(serverMessage{Type: "notice", Text: text})
}

func (ws *wsSession) OpenURL(url string) {
	_ = ws.send(serverMessage{Type: "openUrl", URL: url})
}

func (ws *wsSession) StateChanged(s session.State) {
	_ = ws.send(serverMessage{Type: "state", State: s.String()})
}

// --- speech.Synthesizer implementation ---

// Speak directs the client to vocalize text and blocks until the client
// acknowledges completion or ctx is cancelled whichever comes first.
func (ws *wsSession) Speak(ctx context.Context, text string, voice speech.Voice, settings models.VoiceSettings) error {
	id := uuid.NewString()
	done := make(chan struct{})

	ws.mu.Lock()
	ws.acks[id] = done
	ws.mu.Unlock()
	defer func() {
		ws.mu.Lock()
		delete(ws.acks, id)
		ws.mu.Unlock()
	}()

	err := ws.send(serverMessage{
		Type:        "speak",
		Text:        text,
		UtteranceID: id,
		Voice:       &voice,
		Settings: &voicePayload{
			Rate:   settings.Speed,
			Pitch:  settings.Pitch,
			Volume: settings.Volume,
		},
	})
	if err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		_ = ws.send(serverMessage{Type: "cancelSpeech", UtteranceID: id})
		return ctx.Err()
	}
}

func (ws *wsSession) ackSpeech(id string) {
	ws.mu.Lock()
	done, ok := ws.acks[id]
	if ok {
		delete(ws.acks, id)
	}
	ws.mu.Unlock()
	if ok {
		close(done)
	}
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleSession upgrades the connection and runs one voice session over it.
// The session fails closed: without a stored user profile no orchestrator is
// started and the client receives an auth record instead.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), userID(r))
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			writeJSON(w, http.StatusOK, intent.AuthError(""))
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ws := newWSSession(conn)
	remoteRec := remote.New(
		func() error { return ws.send(serverMessage{Type: "listen"}) },
		func() error { return ws.send(serverMessage{Type: "stopListening"}) },
	)

	// Default mode trusts the client's recognizer. When server-side
	// recognition is enabled the client streams raw audio as binary frames
	// instead, and its transcript messages are ignored.
	var recognizer capture.Recognizer = remoteRec
	var audio audioSink
	if s.cfg.Capture.GoogleEnabled {
		rec, err := s.newAudioRecognizer(ctx, user.VoiceSettings.Language)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Audio recognizer unavailable, falling back to client recognition")
		} else {
			recognizer = rec
			audio, _ = rec.(audioSink)
			if closer, ok := rec.(io.Closer); ok {
				defer closer.Close()
			}
		}
	}

	cfg := session.DefaultConfig()
	cfg.ConfidenceFloor = s.cfg.Capture.ConfidenceFloor
	cfg.GreetingDelay = s.cfg.Speech.GreetingDelay
	cfg.SpeechDelays = speech.Delays{Min: s.cfg.Speech.MinRestartDelay, Max: s.cfg.Speech.MaxRestartDelay}
	cfg.RestartPolicy = capture.RestartPolicy{
		AfterEnd:     s.cfg.Capture.RestartAfterEnd,
		AfterNetwork: s.cfg.Capture.RestartAfterNet,
		AfterError:   s.cfg.Capture.RestartAfterError,
	}
	if s.cfg.Speech.VoiceCatalogPath != "" {
		if voices, err := speech.LoadCatalog(s.cfg.Speech.VoiceCatalogPath); err == nil {
			cfg.Voices = voices
		}
	}

	orch := session.NewOrchestrator(*user, recognizer, ws, s.classifier, s.store, s.publisher, ws, cfg)
	defer orch.Close()

	s.logger.Info().Str("session_id", orch.ID()).Str("user_id", user.ID).Msg("Session connected")
	orch.Start(ctx)

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			s.logger.Info().Str("session_id", orch.ID()).Msg("Session disconnected")
			return
		}
		if mt == websocket.BinaryMessage {
			if audio != nil {
				audio.Feed(data)
			}
			continue
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Debug().Err(err).Msg("Malformed client message")
			continue
		}

		switch msg.Type {
		case "transcript":
			remoteRec.InjectTranscript(models.Transcript{
				Text:       msg.Text,
				Confidence: msg.Confidence,
				IsFinal:    msg.IsFinal,
			})
		case "captureEnded":
			remoteRec.InjectEnded()
		case "captureError":
			remoteRec.InjectError(captureCode(msg.Code), errors.New("client capture error: "+msg.Code))
		case "speechDone":
			ws.ackSpeech(msg.UtteranceID)
		default:
			s.logger.Debug().Str("type", msg.Type).Msg("Unknown client message")
		}
	}
}

func captureCode(code string) capture.ErrorCode {
	switch capture.ErrorCode(code) {
	case capture.ErrNetwork, capture.ErrNoSpeech, capture.ErrAborted, capture.ErrPermissionDenied:
		return capture.ErrorCode(code)
	default:
		return capture.ErrOther
	}
}
