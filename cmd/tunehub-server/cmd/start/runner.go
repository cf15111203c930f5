package start

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"tunehub.io/tunehub-server/api/httpbase"
	"tunehub.io/tunehub-server/builder/instrumentation"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/runner/router"
)

var runnerCmd = &cobra.Command{
	Use:     "runner",
	Short:   "Start the kubernetes runner service",
	Example: runnerExample(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		stopOtel, err := instrumentation.SetupOTelSDK(context.Background(), cfg, instrumentation.Runner)
		if err != nil {
			return err
		}
		defer func() {
			_ = stopOtel(context.Background())
		}()

		r, err := router.NewHttpServer(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to build runner server: %w", err)
		}
		server := httpbase.NewGracefulServer(
			httpbase.GraceServerOpt{
				Port: cfg.Runner.Port,
			},
			r,
		)
		server.Run()

		return nil
	},
}

func runnerExample() string {
	return `
# requires kubeconfig access to the compute clusters
tunehub-server start runner
`
}
