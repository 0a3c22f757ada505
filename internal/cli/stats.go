package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dataset statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := profileStore.Stats()
		fmt.Printf("Profiles: %d\n", st.Profiles)
		fmt.Printf("Uploaded: %d\n", st.Uploaded)
		fmt.Printf("Years:    %d\n", st.Years)
		fmt.Printf("Regions:  %d\n", st.Regions)
		return nil
	},
}
