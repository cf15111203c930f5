package pipeline

import (
	"github.com/spf13/cobra"
)

func init() {
	Cmd.AddCommand(runCmd)
}

var Cmd = &cobra.Command{
	Use:   "pipeline",
	Short: "submit and follow fine-tune pipelines",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}
