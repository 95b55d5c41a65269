package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/its-pratyushpandey/Intellia/internal/capture/mock"
	"github.com/its-pratyushpandey/Intellia/internal/classifier"
	"github.com/its-pratyushpandey/Intellia/internal/events"
	"github.com/its-pratyushpandey/Intellia/internal/identity"
	"github.com/its-pratyushpandey/Intellia/internal/models"
	"github.com/its-pratyushpandey/Intellia/internal/session"
	"github.com/its-pratyushpandey/Intellia/internal/speech"
)

var demoDuration time.Duration

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted session against the real classifier, printing replies",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := identity.NewSQLite(cfg.Store.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := store.GetUser(cmd.Context(), "default")
		if err != nil {
			user = &models.User{
				ID:            "default",
				Name:          "there",
				AssistantName: "Nova",
				NLPSettings:   models.DefaultNLPSettings(),
			}
		}

		cls := classifier.New(cfg.Classifier.APIURL, cfg.Classifier.Timeout)
		publisher := events.New(nil)
		defer publisher.Close()

		orch := session.NewOrchestrator(*user, mock.New(nil), consoleSynth{}, cls,
			store, publisher, consoleSurface{}, session.DefaultConfig())
		defer orch.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), demoDuration)
		defer cancel()

		orch.Start(ctx)
		<-ctx.Done()
		return nil
	},
}

// consoleSynth prints replies instead of vocalizing them, pacing playback by
// text length so the session loop behaves as it would with real audio.
type consoleSynth struct{}

func (consoleSynth) Speak(ctx context.Context, text string, voice speech.Voice, _ models.VoiceSettings) error {
	fmt.Printf("[%s] %s\n", voice.Name, text)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(len(text)) * 10 * time.Millisecond):
		return nil
	}
}

type consoleSurface struct{}

func (consoleSurface) ShowInterim(text string)      { fmt.Println("  ...", text) }
func (consoleSurface) ShowNotice(text string)       { fmt.Println("  !", text) }
func (consoleSurface) OpenURL(url string)           { fmt.Println("  open:", url) }
func (consoleSurface) StateChanged(s session.State) { fmt.Println("  state:", s) }

func init() {
	demoCmd.Flags().DurationVar(&demoDuration, "duration", 20*time.Second, "how long to run the scripted session")
	rootCmd.AddCommand(demoCmd)
}
