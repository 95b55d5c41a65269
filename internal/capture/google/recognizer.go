// Package google provides a streaming Google Cloud Speech recognizer for
// clients that upload raw audio instead of running recognition locally.
package google

import (
	"context"
	"errors"
	"io"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/its-pratyushpandey/Intellia/internal/capture"
	"github.com/its-pratyushpandey/Intellia/internal/models"
)

// Config holds streaming recognition settings.
type Config struct {
	LanguageCode string
	SampleRateHz int
}

// Recognizer implements capture.Recognizer using Google Cloud Speech
// streaming recognition. Audio frames arrive through Feed.
// Requires GOOGLE_APPLICATION_CREDENTIALS to be set.
type Recognizer struct {
	client *speech.Client
	cfg    Config
	audio  chan []byte

	mu     sync.Mutex
	stream speechpb.Speech_StreamingRecognizeClient
	cancel context.CancelFunc
}

// New creates a Google streaming recognizer.
func New(ctx context.Context, cfg Config) (*Recognizer, error) {
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	if cfg.SampleRateHz == 0 {
		cfg.SampleRateHz = 16000
	}
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Recognizer{
		client: c,
		cfg:    cfg,
		audio:  make(chan []byte, 64),
	}, nil
}

// Feed queues one audio frame for recognition. Frames are dropped when
// recognition is not running.
func (r *Recognizer) Feed(frame []byte) {
	select {
	case r.audio <- frame:
	default:
	}
}

// Start opens a streaming recognition session, sends the initial config, and
// pumps queued audio until Stop or a stream error.
func (r *Recognizer) Start(ctx context.Context, l capture.Listener) error {
	r.mu.Lock()
	if r.stream != nil {
		r.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	stream, err := r.client.StreamingRecognize(ctx)
	if err != nil {
		cancel()
		r.mu.Unlock()
		return err
	}
	r.stream = stream
	r.cancel = cancel
	r.mu.Unlock()

	err = stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        speechpb.RecognitionConfig_LINEAR16,
					SampleRateHertz: int32(r.cfg.SampleRateHz),
					LanguageCode:    r.cfg.LanguageCode,
				},
				InterimResults: true,
			},
		},
	})
	if err != nil {
		r.teardown()
		return err
	}

	go r.send(ctx, stream)
	go r.receive(stream, l)
	return nil
}

// Stop closes the streaming session. Safe to call when already stopped.
func (r *Recognizer) Stop() error {
	r.teardown()
	return nil
}

// Close releases the underlying client.
func (r *Recognizer) Close() error {
	r.teardown()
	return r.client.Close()
}

func (r *Recognizer) teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.stream != nil {
		_ = r.stream.CloseSend()
		r.stream = nil
	}
}

func (r *Recognizer) send(ctx context.Context, stream speechpb.Speech_StreamingRecognizeClient) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-r.audio:
			err := stream.Send(&speechpb.StreamingRecognizeRequest{
				StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
					AudioContent: frame,
				},
			})
			if err != nil {
				return
			}
		}
	}
}

// receive pumps transcript responses into the listener until the stream ends.
func (r *Recognizer) receive(stream speechpb.Speech_StreamingRecognizeClient, l capture.Listener) {
	for {
		resp, err := stream.Recv()
		if err != nil {
			r.teardown()
			if errors.Is(err, io.EOF) {
				l.OnEnded()
			} else {
				l.OnError(classify(err), err)
			}
			return
		}

		for _, result := range resp.Results {
			if len(result.Alternatives) == 0 {
				continue
			}
			alt := result.Alternatives[0]
			l.OnTranscript(models.Transcript{
				Text:       alt.Transcript,
				Confidence: float64(alt.Confidence),
				IsFinal:    result.IsFinal,
			})
		}
	}
}

// classify maps gRPC stream errors onto the capture error taxonomy.
func classify(err error) capture.ErrorCode {
	switch status.Code(err) {
	case codes.PermissionDenied, codes.Unauthenticated:
		return capture.ErrPermissionDenied
	case codes.Unavailable, codes.DeadlineExceeded:
		return capture.ErrNetwork
	case codes.Canceled:
		return capture.ErrAborted
	default:
		return capture.ErrOther
	}
}
