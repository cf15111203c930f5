package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
	"tunehub.io/tunehub-server/builder/rpc"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	"tunehub.io/tunehub-server/pkg/utils/console"
)

var (
	settingsFile    string
	acceleratorFile string
	deployAfter     bool
	endpoint        string
	pollInterval    time.Duration
	noWait          bool
)

func init() {
	runCmd.Flags().StringVar(&settingsFile, "settings", "", "path to the json settings document for this run")
	runCmd.Flags().StringVar(&acceleratorFile, "accelerator", "", "path to an accelerator config json file, defaults apply when omitted")
	runCmd.Flags().BoolVar(&deployAfter, "deploy", false, "deploy the registered model and smoke test it after training")
	runCmd.Flags().StringVar(&endpoint, "endpoint", "", "api server base url, defaults to the configured public domain")
	runCmd.Flags().DurationVar(&pollInterval, "poll-interval", 10*time.Second, "how often to poll the run while waiting")
	runCmd.Flags().BoolVar(&noWait, "no-wait", false, "submit the run and exit without waiting for it to finish")
	_ = runCmd.MarkFlagRequired("settings")
}

type runEnvelope struct {
	Msg  string               `json:"msg"`
	Data types.PipelineRunRes `json:"data"`
}

var runCmd = &cobra.Command{
	Use:     "run",
	Short:   "Submit a fine-tune pipeline and follow it to completion",
	Example: runExample(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(settingsFile)
		if err != nil {
			return fmt.Errorf("reading settings file: %w", err)
		}
		settings, err := types.ParsePipelineSettings(raw)
		if err != nil {
			return fmt.Errorf("invalid settings document: %w", err)
		}

		accelerator := types.DefaultAcceleratorConfig()
		if acceleratorFile != "" {
			accRaw, err := os.ReadFile(acceleratorFile)
			if err != nil {
				return fmt.Errorf("reading accelerator file: %w", err)
			}
			accelerator = types.AcceleratorConfig(accRaw)
			if err := accelerator.Validate(); err != nil {
				return fmt.Errorf("invalid accelerator config: %w", err)
			}
		}

		base := endpoint
		if base == "" {
			base = cfg.APIServer.PublicDomain
		}
		client := rpc.NewHttpClient(base, rpc.AuthWithApiKey(cfg.APIToken)).WithRetry(3)

		req := types.SubmitPipelineReq{
			Settings:         settings,
			Accelerator:      accelerator,
			DeployAfterTrain: deployAfter,
		}
		var submitted runEnvelope
		if err := client.Post(cmd.Context(), "/api/v1/pipelines", req, &submitted); err != nil {
			return fmt.Errorf("submitting pipeline: %w", err)
		}
		run := submitted.Data
		console.RenderSuccess(fmt.Sprintf("submitted pipeline %s (experiment %q)", run.WorkflowID, run.Experiment)).Println()

		if noWait {
			return nil
		}
		return followRun(cmd.Context(), client, run.WorkflowID)
	},
}

// followRun polls the run until it reaches a terminal status, printing each
// stage transition once.
func followRun(ctx context.Context, client *rpc.HttpClient, workflowID string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var lastStage types.PipelineStage
	path := fmt.Sprintf("/api/v1/pipelines/%s", url.PathEscape(workflowID))
	for {
		var envelope runEnvelope
		if err := client.Get(ctx, path, &envelope); err != nil {
			return fmt.Errorf("polling pipeline run: %w", err)
		}
		run := envelope.Data

		if run.Stage != lastStage && run.Stage != "" {
			console.RenderMuted(fmt.Sprintf("stage: %s", run.Stage)).Println()
			lastStage = run.Stage
		}

		if run.Status.IsTerminal() {
			switch run.Status {
			case types.PipelineRunStatusSucceeded:
				console.RenderSuccess(fmt.Sprintf("pipeline succeeded, model %s v%d", run.ModelName, run.ModelVersion)).Println()
				return nil
			case types.PipelineRunStatusCanceled:
				console.RenderWarning("pipeline was canceled").Println()
				return fmt.Errorf("pipeline was canceled: %s", run.Message)
			default:
				console.RenderError(fmt.Sprintf("pipeline failed at stage %s", run.Stage)).Println()
				return fmt.Errorf("pipeline failed at stage %s: %s", run.Stage, run.Message)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func runExample() string {
	return `
tunehub-server pipeline run --settings settings.json --accelerator ds_config.json --deploy
`
}
