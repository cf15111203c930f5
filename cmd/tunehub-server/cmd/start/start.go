package start

import (
	"fmt"

	"github.com/spf13/cobra"
	"tunehub.io/tunehub-server/builder/event"
	"tunehub.io/tunehub-server/common/config"
)

func init() {
	Cmd.AddCommand(serverCmd)
	Cmd.AddCommand(runnerCmd)
	Cmd.AddCommand(workerCmd)
}

var Cmd = &cobra.Command{
	Use:   "start",
	Short: "Start a service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := config.LoadConfig()
		if err != nil {
			return err
		}

		err = event.InitEventPublisher(config)
		if err != nil {
			return fmt.Errorf("fail to initialize message queue, %w", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
