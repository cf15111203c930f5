package start

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"tunehub.io/tunehub-server/api/httpbase"
	"tunehub.io/tunehub-server/api/router"
	"tunehub.io/tunehub-server/builder/instrumentation"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/docs"
)

var enableSwagger bool

func init() {
	serverCmd.Flags().BoolVar(&enableSwagger, "swagger", false, "Start swagger help docs")
}

var serverCmd = &cobra.Command{
	Use:     "server",
	Short:   "Start the API server",
	Example: serverExample(),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		stopOtel, err := instrumentation.SetupOTelSDK(context.Background(), cfg, instrumentation.APIServer)
		if err != nil {
			return err
		}
		defer func() {
			_ = stopOtel(context.Background())
		}()

		enableSwagger = enableSwagger || cfg.EnableSwagger

		if enableSwagger {
			//	@securityDefinitions.apikey ApiKey
			//	@in                         header
			//	@name                       Authorization
			//	@description                Bearer token
			docs.SwaggerInfo.Title = "TuneHub Server API"
			docs.SwaggerInfo.Description = "Fine-tuning orchestration API."
			docs.SwaggerInfo.Version = "1.0"
			docs.SwaggerInfo.Host = cfg.DocsHost
			docs.SwaggerInfo.BasePath = "/api/v1"
			docs.SwaggerInfo.Schemes = []string{"http", "https"}
		}

		// Check APIToken length
		if len(cfg.APIToken) < 128 {
			return fmt.Errorf("API token length is less than 128, please check")
		}
		dbConfig := database.DBConfig{
			Dialect: database.DatabaseDialect(cfg.Database.Driver),
			DSN:     cfg.Database.DSN,
		}
		if err := database.InitDB(dbConfig); err != nil {
			return fmt.Errorf("failed to init database, error: %w", err)
		}
		r, err := router.NewRouter(cfg, enableSwagger)
		if err != nil {
			return err
		}
		server := httpbase.NewGracefulServer(
			httpbase.GraceServerOpt{
				Port: cfg.APIServer.Port,
			},
			r,
		)
		server.Run()

		return nil
	},
}

func serverExample() string {
	return `
# for development
tunehub-server start server
`
}
