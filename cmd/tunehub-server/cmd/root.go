package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"tunehub.io/tunehub-server/cmd/tunehub-server/cmd/migration"
	"tunehub.io/tunehub-server/cmd/tunehub-server/cmd/pipeline"
	"tunehub.io/tunehub-server/cmd/tunehub-server/cmd/start"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/log"
)

var (
	logLevel   string
	logFormat  string
	configFile string
)

var RootCmd = &cobra.Command{
	Use:          "tunehub-server",
	Short:        "Back-end services for the TuneHub fine-tuning platform.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "set log level to debug, info, warn, error or fatal (case-insensitive). default is INFO")
	RootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "f", "json", "set log format to json or text. default is json")
	RootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a toml config file, environment variables take priority over it")
	RootCmd.DisableAutoGenTag = true

	cobra.OnInitialize(func() {
		setupLog(logLevel, logFormat)
		if configFile != "" {
			config.SetConfigFile(configFile)
		}
	})

	RootCmd.AddCommand(
		start.Cmd,
		migration.Cmd,
		pipeline.Cmd,
	)
}

func setupLog(lvl, format string) {
	logLevel := slog.LevelInfo.Level()
	if len(lvl) > 0 {
		err := logLevel.UnmarshalText([]byte(lvl))
		// logLevel not change if unmarshall failed
		if err != nil {
			fmt.Println("input invalid log level, use default log level INFO")
		}
	}
	opt := &slog.HandlerOptions{AddSource: false, Level: logLevel}
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opt)
	default:
		handler = slog.NewTextHandler(os.Stdout, opt)
	}
	slog.SetDefault(slog.New(&log.ContextHandler{Handler: handler}))
}
