// Package classifier talks to the remote language-model classifier and
// degrades every failure into a speakable fallback reply.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/its-pratyushpandey/Intellia/internal/models"
	"github.com/its-pratyushpandey/Intellia/internal/observability/logging"
	"github.com/its-pratyushpandey/Intellia/internal/observability/metrics"
)

const defaultTimeout = 10 * time.Second

// request and response follow the Gemini generateContent wire shape.
type request struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type response struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Client sends utterances to the remote classifier. The remote endpoint is
// treated as unreliable, rate-limited, and latency-variable; Client never
// propagates its failures to callers.
type Client struct {
	apiURL  string
	http    *http.Client
	metrics *metrics.Metrics
}

// New creates a classifier client. A zero timeout selects the 10 s default.
func New(apiURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiURL:  apiURL,
		http:    &http.Client{Timeout: timeout},
		metrics: metrics.DefaultMetrics,
	}
}

// Ask submits one utterance with its session context and returns the raw
// classifier text. On any failure it returns a synthetic fallback that is a
// valid serialized intent record, together with the failure category; the
// reply parser downstream always receives parseable text. Ask never returns
// an error.
func (c *Client) Ask(ctx context.Context, command, assistantName, userName string, voice models.VoiceSettings, nlp models.NLPSettings) (string, FailureCategory) {
	logger := logging.WithComponent("classifier")
	start := time.Now()

	text, err := c.generate(ctx, BuildPrompt(command, assistantName, userName, voice, nlp))
	category := categorize(err)
	c.metrics.RecordClassifier(string(category), time.Since(start).Seconds())

	if err != nil {
		logger.Warn().
			Err(err).
			Str("category", string(category)).
			Dur("elapsed", time.Since(start)).
			Msg("Classifier request failed, substituting fallback reply")
		return fallbackText(command, category), category
	}

	logger.Debug().
		Dur("elapsed", time.Since(start)).
		Int("responseBytes", len(text)).
		Msg("Classifier response received")
	return text, FailureNone
}

// statusError carries a non-2xx HTTP status through categorize.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("classifier returned status %d", e.code)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(request{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{code: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no candidates in response")
	}
	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", errors.New("empty response text")
	}
	return text, nil
}

// categorize maps an error to its failure category. nil maps to FailureNone.
func categorize(err error) FailureCategory {
	if err == nil {
		return FailureNone
	}

	var status *statusError
	if errors.As(err, &status) {
		switch {
		case status.code == http.StatusTooManyRequests:
			return FailureRateLimited
		case status.code >= 500:
			return FailureServerError
		default:
			return FailureOther
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}

	return FailureOther
}
