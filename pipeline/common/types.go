package common

import "tunehub.io/tunehub-server/common/types"

const (
	// FineTuneQueue is the task queue the pipeline worker listens on.
	FineTuneQueue = "fine_tune_pipeline_queue"
	// FineTuneWorkflowName is the registered name of the pipeline
	// workflow, used by the api server to start runs without importing
	// the workflow package.
	FineTuneWorkflowName = "FineTunePipelineWorkflow"
)

// PipelineParams is the workflow input: the settings snapshot taken at
// submit time plus the run's workflow id so activities can record stage
// progress on the run row.
type PipelineParams struct {
	WorkflowID       string                  `json:"workflow_id"`
	Settings         *types.PipelineSettings `json:"settings"`
	Accelerator      types.AcceleratorConfig `json:"accelerator,omitempty"`
	DeployAfterTrain bool                    `json:"deploy_after_train"`
}

// SubmitJobArgs carries the outputs of the earlier stages into the
// training submission activity.
type SubmitJobArgs struct {
	Params         PipelineParams `json:"params"`
	DatasetName    string         `json:"dataset_name"`
	DatasetVersion int            `json:"dataset_version"`
	SourcePrefix   string         `json:"source_prefix"`
}

type RegisterModelArgs struct {
	Params  PipelineParams `json:"params"`
	JobName string         `json:"job_name"`
}

type DeployArgs struct {
	Params       PipelineParams `json:"params"`
	ModelName    string         `json:"model_name"`
	ModelVersion int            `json:"model_version"`
}

type FinishRunArgs struct {
	WorkflowID string                  `json:"workflow_id"`
	Status     types.PipelineRunStatus `json:"status"`
	Message    string                  `json:"message"`
}
