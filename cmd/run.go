package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jgrover/DroidWatch/pkg/cmd/agent"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the telemetry agent (detectors and transfer pipeline)",
	Run:   agent.Run(c),
}

func init() {
	RootCmd.AddCommand(runCmd)
}
