package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/floatchat-ai/floatchat/internal/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session over the loaded profile dataset.

Inside the session:
  /upload <file.json>   add an uploaded profile and make it the active file
  /file                 clear the active file filter
  /export <format>      export the last result set (ascii, csv, json, xlsx)
  /stats                show dataset and pipeline statistics
  /reset                clear the transcript
  /quit                 leave`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	session := chat.NewSession(profileStore, newDispatcher(), newConverter(), cfg.ExportDir)

	if _, err := chat.NewProgram(session).Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}
