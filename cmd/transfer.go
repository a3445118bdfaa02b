package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jgrover/DroidWatch/pkg/cmd/agent"
)

// transferCmd represents the transfer command
var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Run one transfer pipeline cycle and exit",
	Run:   agent.TransferOnce(c),
}

func init() {
	RootCmd.AddCommand(transferCmd)
}
