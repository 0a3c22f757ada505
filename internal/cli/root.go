// Package cli provides the command-line interface for floatchat.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/floatchat-ai/floatchat/internal/config"
	"github.com/floatchat-ai/floatchat/internal/ingest"
	"github.com/floatchat-ai/floatchat/internal/llm"
	"github.com/floatchat-ai/floatchat/internal/store"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	dataDir string
	verbose bool

	// Shared state wired by the persistent pre-run
	cfg          config.Config
	profileStore *store.Store
	logCleanup   func() error
)

var rootCmd = &cobra.Command{
	Use:   "floatchat",
	Short: "Conversational interface over ARGO float profile data",
	Long: `Floatchat is a conversational interface over a local collection of
ARGO float profile records. Queries are matched against stored profiles
by date, region, and measured parameters; the best matches are condensed
into a context block and answered by an LLM, falling back from Mistral
to Groq when the primary provider is unavailable.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)
		logCleanup = cleanup

		profileStore = store.New()
		n, err := profileStore.LoadDir(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("load profile data: %w", err)
		}
		if n == 0 {
			fmt.Fprintf(os.Stderr, "Warning: no profiles found under %s\n", cfg.DataDir)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// newDispatcher builds the provider chain from the loaded config.
// Providers whose keys are missing are left nil; the dispatcher turns
// full exhaustion into a diagnostic reply rather than an error.
func newDispatcher() *llm.Dispatcher {
	var primary, secondary llm.Provider

	if cfg.HasMistral() {
		p, err := llm.NewMistral(cfg.MistralAPIKey)
		if err != nil {
			slog.Warn("mistral unavailable", "error", err)
		} else {
			primary = p
		}
	}
	if cfg.HasGroq() {
		p, err := llm.NewGroq(cfg.GroqAPIKey)
		if err != nil {
			slog.Warn("groq unavailable", "error", err)
		} else {
			secondary = p
		}
	}

	return llm.NewDispatcher(primary, secondary)
}

func newConverter() ingest.Converter {
	return ingest.JSONConverter{}
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "profile data directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
}
