package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/floatchat-ai/floatchat/internal/export"
	"github.com/floatchat-ai/floatchat/internal/search"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <format> <query>",
	Short: "Search profiles and export the matches to disk",
	Long: `Run a relevance search for the query and write the matched profiles
in the given format without involving the LLM.

Formats: ascii, csv, json, xlsx.

Examples:
  floatchat export csv "temperature in Arabian Sea 2023"
  floatchat export xlsx "Bay of Bengal August 2023" -o ./reports`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output directory (defaults to configured export dir)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(args[0])
	if err != nil {
		return err
	}
	query := args[1]

	result := search.Search(query, profileStore.All())
	if result.Notice != "" {
		fmt.Fprintln(os.Stderr, result.Notice)
	}
	if len(result.Profiles) == 0 {
		fmt.Println("No matching profiles to export.")
		return nil
	}

	dir := cfg.ExportDir
	if exportOut != "" {
		dir = exportOut
	}

	path, err := export.Write(dir, format, result.Profiles, query)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	fmt.Printf("Exported %d profiles to %s\n", len(result.Profiles), path)
	return nil
}
