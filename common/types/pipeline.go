package types

import "time"

type PipelineRunStatus string

const (
	PipelineRunStatusPending   PipelineRunStatus = "Pending"
	PipelineRunStatusRunning   PipelineRunStatus = "Running"
	PipelineRunStatusSucceeded PipelineRunStatus = "Succeeded"
	PipelineRunStatusFailed    PipelineRunStatus = "Failed"
	PipelineRunStatusCanceled  PipelineRunStatus = "Canceled"
)

func (s PipelineRunStatus) IsTerminal() bool {
	return s == PipelineRunStatusSucceeded || s == PipelineRunStatusFailed || s == PipelineRunStatusCanceled
}

type PipelineStage string

// Stage names recorded on a pipeline run as it progresses.
const (
	PipelineStageCompute      PipelineStage = "compute"
	PipelineStageEnvironment  PipelineStage = "environment"
	PipelineStageDataset      PipelineStage = "dataset"
	PipelineStageTraining     PipelineStage = "training"
	PipelineStageRegistration PipelineStage = "registration"
	PipelineStageInference    PipelineStage = "inference"
)

type SubmitPipelineReq struct {
	Settings    *PipelineSettings `json:"settings" binding:"required"`
	Accelerator AcceleratorConfig `json:"accelerator,omitempty"`
	// deploy the registered model after training finishes
	DeployAfterTrain bool `json:"deploy_after_train"`
}

type PipelineRunRes struct {
	ID             int64             `json:"id"`
	WorkflowID     string            `json:"workflow_id"`
	Experiment     string            `json:"experiment"`
	Status         PipelineRunStatus `json:"status"`
	Stage          PipelineStage     `json:"stage,omitempty"`
	TrainJobName   string            `json:"train_job_name,omitempty"`
	ModelName      string            `json:"model_name,omitempty"`
	ModelVersion   int               `json:"model_version,omitempty"`
	DatasetName    string            `json:"dataset_name,omitempty"`
	DatasetVersion int               `json:"dataset_version,omitempty"`
	Message        string            `json:"message,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type WorkFlowInfo interface {
	GetID() string
	GetRunID() string
}
