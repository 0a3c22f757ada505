package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/floatchat-ai/floatchat/internal/chat"
	"github.com/floatchat-ai/floatchat/internal/export"
)

var askExport string

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Ask a single question about the profile dataset",
	Long: `Ask one question and print the streamed answer.

The query is matched against the loaded profiles; the best matches are
summarized into a context block and sent to the configured LLM.

Examples:
  floatchat ask "temperature in Bay of Bengal August 2023"
  floatchat ask "compare salinity between 2022 and 2023"
  floatchat ask "show me profiles for 15 August 2023" --export csv`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askExport, "export", "", "also export matched profiles (ascii, csv, json, xlsx)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := args[0]

	session := chat.NewSession(profileStore, newDispatcher(), newConverter(), cfg.ExportDir)
	session.OnNotice = func(notice string) {
		fmt.Fprintln(os.Stderr, notice)
	}

	_, err := session.Ask(context.Background(), query, func(delta string) {
		fmt.Print(delta)
	})
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}
	fmt.Println()

	if askExport != "" {
		format, err := export.ParseFormat(askExport)
		if err != nil {
			return err
		}
		path, err := session.Export(format)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Exported matched profiles to %s\n", path)
	}

	return nil
}
