package start

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"tunehub.io/tunehub-server/builder/instrumentation"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/builder/temporal"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/pipeline"
)

var workerCmd = &cobra.Command{
	Use:     "worker",
	Short:   "Start the temporal pipeline worker",
	Example: workerExample(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		stopOtel, err := instrumentation.SetupOTelSDK(context.Background(), cfg, instrumentation.PipelineWorker)
		if err != nil {
			return err
		}

		dbConfig := database.DBConfig{
			Dialect: database.DatabaseDialect(cfg.Database.Driver),
			DSN:     cfg.Database.DSN,
		}
		if err := database.InitDB(dbConfig); err != nil {
			return fmt.Errorf("failed to init database, error: %w", err)
		}

		slog.Info("starting temporal client", slog.String("endpoint", cfg.WorkFlow.Endpoint))
		temporalClient, err := temporal.NewClientByHostPort(cfg.WorkFlow.Endpoint)
		if err != nil {
			return fmt.Errorf("unable to create temporal client, error: %w", err)
		}

		pipeline.RegisterWorker(cfg, temporalClient)

		err = temporalClient.Start()
		if err != nil {
			return fmt.Errorf("failed to start worker, error: %w", err)
		}
		slog.Info("pipeline worker started")

		<-cmd.Context().Done()

		slog.Info("worker shutting down")
		_ = stopOtel(context.Background())
		temporalClient.Stop()
		return nil
	},
}

func workerExample() string {
	return `
# needs a reachable temporal frontend, see TUNEHUB_WORKFLOW_SERVER_ENDPOINT
tunehub-server start worker
`
}
