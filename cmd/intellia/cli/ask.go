package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/its-pratyushpandey/Intellia/internal/classifier"
	"github.com/its-pratyushpandey/Intellia/internal/identity"
	"github.com/its-pratyushpandey/Intellia/internal/intent"
	"github.com/its-pratyushpandey/Intellia/internal/models"
)

var askUserID string

var askCmd = &cobra.Command{
	Use:   "ask [command text]",
	Short: "Classify and dispatch a single command without a live session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		command := strings.Join(args, " ")

		user := models.User{
			ID:            askUserID,
			Name:          "there",
			AssistantName: "Assistant",
			NLPSettings:   models.DefaultNLPSettings(),
		}
		if store, err := identity.NewSQLite(cfg.Store.DBPath); err == nil {
			if stored, err := store.GetUser(cmd.Context(), askUserID); err == nil {
				user = *stored
			}
			_ = store.Close()
		}

		cls := classifier.New(cfg.Classifier.APIURL, cfg.Classifier.Timeout)
		raw, category := cls.Ask(cmd.Context(), command, user.AssistantName, user.Name,
			user.VoiceSettings, user.NLPSettings)
		if category != "" {
			fmt.Fprintf(os.Stderr, "classifier degraded: %s\n", category)
		}

		rec := intent.Parse(raw, command, user.VoiceSettings.LanguageOrDefault())
		out, err := intent.Dispatch(rec, time.Now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dispatch: %v\n", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out.Record); err != nil {
			return err
		}
		fmt.Println("speak:", out.Speak)
		if out.Action != nil {
			fmt.Println("open:", out.Action.URL)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askUserID, "user", "default", "user profile to ask as")
	rootCmd.AddCommand(askCmd)
}
