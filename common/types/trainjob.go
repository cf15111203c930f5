package types

type TrainJobStatus string

const (
	TrainJobPending    TrainJobStatus = "Pending"
	TrainJobScheduling TrainJobStatus = "Scheduling"
	TrainJobRunning    TrainJobStatus = "Running"
	TrainJobSucceeded  TrainJobStatus = "Succeeded"
	TrainJobFailed     TrainJobStatus = "Failed"
	TrainJobStopped    TrainJobStatus = "Stopped"
)

// IsTerminal reports whether no further transitions can happen.
func (s TrainJobStatus) IsTerminal() bool {
	switch s {
	case TrainJobSucceeded, TrainJobFailed, TrainJobStopped:
		return true
	}
	return false
}

type SubmitTrainJobReq struct {
	Experiment     string            `json:"experiment" binding:"required"`
	ComputeTarget  string            `json:"compute_target" binding:"required"`
	Environment    string            `json:"environment" binding:"required"`
	DatasetName    string            `json:"dataset_name"`
	DatasetVersion int               `json:"dataset_version"`
	Command        string            `json:"command" binding:"required"`
	Settings       *PipelineSettings `json:"settings,omitempty"`
	Accelerator    AcceleratorConfig `json:"accelerator,omitempty"`
	// object storage prefix of the packaged source_directory
	SourcePrefix string `json:"source_prefix,omitempty"`
}

type TrainJobRes struct {
	ID             int64              `json:"id"`
	Name           string             `json:"name"`
	Experiment     string             `json:"experiment"`
	ComputeTarget  string             `json:"compute_target"`
	Environment    string             `json:"environment"`
	Image          string             `json:"image"`
	DatasetName    string             `json:"dataset_name"`
	DatasetVersion int                `json:"dataset_version"`
	Command        string             `json:"command"`
	NodeCount      int                `json:"node_count"`
	ProcessCount   int                `json:"process_count"`
	Status         TrainJobStatus     `json:"status"`
	Message        string             `json:"message,omitempty"`
	ArtifactPrefix string             `json:"artifact_prefix,omitempty"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
	CreatedAt      string             `json:"created_at"`
	StartedAt      string             `json:"started_at,omitempty"`
	FinishedAt     string             `json:"finished_at,omitempty"`
}

// RunJobReq is what the api server sends the runner.
type RunJobReq struct {
	JobName        string            `json:"job_name" binding:"required"`
	Image          string            `json:"image" binding:"required"`
	Command        string            `json:"command" binding:"required"`
	NodeCount      int               `json:"node_count" binding:"required,min=1"`
	ProcessCount   int               `json:"process_count" binding:"required,min=1"`
	Hardware       HardWare          `json:"hardware,omitempty"`
	Env            map[string]string `json:"env,omitempty"`
	Accelerator    AcceleratorConfig `json:"accelerator,omitempty"`
	DatasetPrefix  string            `json:"dataset_prefix,omitempty"`
	SourcePrefix   string            `json:"source_prefix,omitempty"`
	ArtifactPrefix string            `json:"artifact_prefix,omitempty"`
	PoolID         string            `json:"pool_id"`
}

type RunJobResponse struct {
	JobName string `json:"job_name"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type StopJobReq struct {
	JobName string `json:"job_name"`
	PoolID  string `json:"pool_id"`
}

// TrainJobEvent is pushed back from the runner on status changes.
type TrainJobEvent struct {
	JobName string         `json:"job_name"`
	Status  TrainJobStatus `json:"status"`
	Message string         `json:"message,omitempty"`
	Reason  string         `json:"reason,omitempty"`
}

type JobStatusRes struct {
	JobName string         `json:"job_name"`
	Status  TrainJobStatus `json:"status"`
	Message string         `json:"message,omitempty"`
}
