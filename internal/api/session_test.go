package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/its-pratyushpandey/Intellia/internal/capture"
	"github.com/its-pratyushpandey/Intellia/internal/models"
)

// wsClient drives one test connection: it acks every speak directive so the
// server's session loop keeps moving, and records everything received.
type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dialSession(t *testing.T, store *memStore, raw string) *wsClient {
	t.Helper()

	srv := httptest.NewServer(newTestServer(store, raw).Router())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/session/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &wsClient{t: t, conn: conn}
}

// expect reads directives until one of the wanted type arrives, acking speak
// directives along the way.
func (c *wsClient) expect(wantType string) serverMessage {
	c.t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		c.conn.SetReadDeadline(deadline)
		var msg serverMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.t.Fatalf("waiting for %q: %v", wantType, err)
		}
		if msg.Type == "speak" {
			ack := clientMessage{Type: "speechDone", UtteranceID: msg.UtteranceID}
			if err := c.conn.WriteJSON(ack); err != nil {
				c.t.Fatalf("ack speak: %v", err)
			}
		}
		if msg.Type == wantType {
			return msg
		}
	}
}

func (c *wsClient) send(msg clientMessage) {
	c.t.Helper()
	if err := c.conn.WriteJSON(msg); err != nil {
		c.t.Fatalf("send %q: %v", msg.Type, err)
	}
}

func TestSessionWS_GreetsThenListens(t *testing.T) {
	store := newMemStore()
	seedUser(store)
	client := dialSession(t, store, `{"type":"general","response":"hi"}`)

	greeting := client.expect("speak")
	if !strings.Contains(greeting.Text, "Nova") {
		t.Errorf("expected greeting naming the assistant, got %q", greeting.Text)
	}
	client.expect("listen")
}

func TestSessionWS_AcceptedCommandOpensURLAndSpeaks(t *testing.T) {
	store := newMemStore()
	seedUser(store)
	raw := `{"type":"instagram-open","userInput":"nova open instagram","response":"Opening Instagram"}`
	client := dialSession(t, store, raw)

	client.expect("listen")
	client.send(clientMessage{
		Type:       "transcript",
		Text:       "nova open instagram",
		Confidence: 0.91,
		IsFinal:    true,
	})

	opened := client.expect("openUrl")
	if opened.URL != "https://www.instagram.com/" {
		t.Errorf("unexpected URL: %s", opened.URL)
	}

	// The reply is spoken and listening resumes.
	client.expect("listen")
}

func TestSessionWS_InterimTranscriptEchoedAsFeedback(t *testing.T) {
	store := newMemStore()
	seedUser(store)
	client := dialSession(t, store, `{"type":"general","response":"hi"}`)

	client.expect("listen")
	client.send(clientMessage{Type: "transcript", Text: "nova op", IsFinal: false})

	msg := client.expect("interim")
	if !strings.HasPrefix(msg.Text, "nova op") {
		t.Errorf("unexpected interim feedback: %q", msg.Text)
	}
}

// frameRecognizer stands in for the server-side streaming recognizer: each
// fed frame is decoded as a spoken command and emitted as a final transcript.
type frameRecognizer struct {
	mu       sync.Mutex
	listener capture.Listener
	frames   int
}

func (f *frameRecognizer) Start(_ context.Context, l capture.Listener) error {
	f.mu.Lock()
	f.listener = l
	f.mu.Unlock()
	return nil
}

func (f *frameRecognizer) Stop() error { return nil }

func (f *frameRecognizer) Feed(frame []byte) {
	f.mu.Lock()
	f.frames++
	l := f.listener
	f.mu.Unlock()
	if l != nil {
		l.OnTranscript(models.Transcript{Text: string(frame), Confidence: 0.95, IsFinal: true})
	}
}

func (f *frameRecognizer) fed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

func TestSessionWS_BinaryFramesDriveServerRecognition(t *testing.T) {
	store := newMemStore()
	seedUser(store)
	rec := &frameRecognizer{}

	raw := `{"type":"instagram-open","userInput":"nova open instagram","response":"Opening Instagram"}`
	srv := newTestServer(store, raw)
	srv.cfg.Capture.GoogleEnabled = true
	srv.newAudioRecognizer = func(_ context.Context, _ string) (capture.Recognizer, error) {
		return rec, nil
	}

	hs := httptest.NewServer(srv.Router())
	t.Cleanup(hs.Close)
	url := "ws" + strings.TrimPrefix(hs.URL, "http") + "/api/session/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	client := &wsClient{t: t, conn: conn}

	// No listen directive in audio mode; wait for the engine to start
	// listening before streaming.
	for st := client.expect("state"); st.State != "LISTENING"; st = client.expect("state") {
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, []byte("nova open instagram")); err != nil {
		t.Fatalf("send audio frame: %v", err)
	}

	opened := client.expect("openUrl")
	if opened.URL != "https://www.instagram.com/" {
		t.Errorf("unexpected URL: %s", opened.URL)
	}
	if rec.fed() == 0 {
		t.Error("expected the audio frame to reach the recognizer")
	}
}

func TestSessionWS_PermissionDeniedTerminates(t *testing.T) {
	store := newMemStore()
	seedUser(store)
	client := dialSession(t, store, `{"type":"general","response":"hi"}`)

	client.expect("listen")
	client.send(clientMessage{Type: "captureError", Code: "not-allowed"})

	notice := client.expect("notice")
	if !strings.Contains(notice.Text, "Microphone access") {
		t.Errorf("unexpected notice: %q", notice.Text)
	}

	state := client.expect("state")
	for state.State != "TERMINATED" {
		state = client.expect("state")
	}
}
