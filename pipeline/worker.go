package pipeline

import (
	"go.temporal.io/sdk/worker"
	"tunehub.io/tunehub-server/builder/temporal"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/pipeline/activity"
	"tunehub.io/tunehub-server/pipeline/common"
	"tunehub.io/tunehub-server/pipeline/workflows"
)

// RegisterWorker wires the fine-tune pipeline workflow and its activities
// onto the shared temporal client. Sessions are enabled because the
// dataset and source-bundle activities stage files on local disk and must
// stay on one worker for the whole run.
func RegisterWorker(config *config.Config, wfClient temporal.Client) {
	wfWorker := wfClient.NewWorker(common.FineTuneQueue, worker.Options{
		EnableSessionWorker:                     true,
		MaxConcurrentActivityExecutionSize:      config.Pipeline.MaxConcurrentActivityExecutionSize,
		MaxConcurrentLocalActivityExecutionSize: config.Pipeline.MaxConcurrentLocalActivityExecutionSize,
		MaxConcurrentWorkflowTaskExecutionSize:  config.Pipeline.MaxConcurrentWorkflowTaskExecutionSize,
		MaxConcurrentSessionExecutionSize:       config.Pipeline.MaxConcurrentSessionExecutionSize,
	})
	wfWorker.RegisterWorkflow(workflows.FineTunePipelineWorkflow)
	wfWorker.RegisterActivity(activity.MarkRunStarted)
	wfWorker.RegisterActivity(activity.SetRunStage)
	wfWorker.RegisterActivity(activity.FinishRun)
	wfWorker.RegisterActivity(activity.EnsureComputeTarget)
	wfWorker.RegisterActivity(activity.EnsureEnvironment)
	wfWorker.RegisterActivity(activity.EnsureDataset)
	wfWorker.RegisterActivity(activity.PackageSourceBundle)
	wfWorker.RegisterActivity(activity.SubmitTrainJob)
	wfWorker.RegisterActivity(activity.AwaitJobTerminal)
	wfWorker.RegisterActivity(activity.RegisterModel)
	wfWorker.RegisterActivity(activity.DeployAndSmokeTest)
}
