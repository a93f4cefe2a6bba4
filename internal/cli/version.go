package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print version information
`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jillion v%s\n", VERSION)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
