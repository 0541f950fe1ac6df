// Command codexray indexes a source tree into a persistent code graph and
// answers structured questions about it, either on the command line or
// over the MCP stdio protocol (serve).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "codexray",
		Short:         "Local code-intelligence engine",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newInitCmd(),
		newIndexCmd(),
		newSyncCmd(),
		newWatchCmd(),
		newStatusCmd(),
		newQueryCmd(),
		newSemanticCmd(),
		newContextCmd(),
		newOverviewCmd(),
		newHooksCmd(),
		newServeCmd(),
		newResetCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
