package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jgrover/DroidWatch/pkg/cmd/agent"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run the development collector (upload spool endpoint)",
	Run:   agent.RunCollector(c),
}

func init() {
	RootCmd.AddCommand(collectCmd)
}
