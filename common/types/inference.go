package types

import "time"

type InferenceStatus string

const (
	InferenceStatusPending    InferenceStatus = "Pending"
	InferenceStatusDeploying  InferenceStatus = "Deploying"
	InferenceStatusRunning    InferenceStatus = "Running"
	InferenceStatusFailed     InferenceStatus = "Failed"
	InferenceStatusStopped    InferenceStatus = "Stopped"
	InferenceStatusNoInstance InferenceStatus = "NoInstance"
)

type DeployInferenceReq struct {
	ModelName    string `json:"model_name" binding:"required"`
	ModelVersion int    `json:"model_version"`
	Cluster      string `json:"cluster" binding:"required"`
	Environment  string `json:"environment" binding:"required"`
	Command      string `json:"command"`
	// replicas per node group, 1 means a plain knative service
	NodeCount    int               `json:"node_count"`
	ProcessCount int               `json:"process_count"`
	ComputeSize  string            `json:"compute_size"`
	Env          map[string]string `json:"env,omitempty"`
}

type InferenceServiceRes struct {
	Name         string          `json:"name"`
	ModelName    string          `json:"model_name"`
	ModelVersion int             `json:"model_version"`
	Status       InferenceStatus `json:"status"`
	Endpoint     string          `json:"endpoint,omitempty"`
	NodeCount    int             `json:"node_count"`
	Message      string          `json:"message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// RunServiceReq is what the api server sends the runner.
type RunServiceReq struct {
	ServiceName  string            `json:"service_name" binding:"required"`
	Image        string            `json:"image" binding:"required"`
	Command      string            `json:"command"`
	ModelPrefix  string            `json:"model_prefix"`
	NodeCount    int               `json:"node_count"`
	ProcessCount int               `json:"process_count"`
	Hardware     HardWare          `json:"hardware,omitempty"`
	Env          map[string]string `json:"env,omitempty"`
	PoolID       string            `json:"pool_id"`
}

type RunServiceResponse struct {
	ServiceName string `json:"service_name"`
	Code        int    `json:"code"`
	Message     string `json:"message"`
}

type StopServiceReq struct {
	ServiceName string `json:"service_name"`
	PoolID      string `json:"pool_id"`
}

type ServiceStatusRes struct {
	ServiceName string          `json:"service_name"`
	Status      InferenceStatus `json:"status"`
	Endpoint    string          `json:"endpoint,omitempty"`
	Replicas    int             `json:"replicas"`
	Message     string          `json:"message,omitempty"`
}

type InferenceEvent struct {
	ServiceName string          `json:"service_name"`
	Status      InferenceStatus `json:"status"`
	Endpoint    string          `json:"endpoint,omitempty"`
	Message     string          `json:"message,omitempty"`
	Reason      string          `json:"reason,omitempty"`
}

type PredictReq struct {
	ServiceName string `json:"-"`
	Input       string `json:"input" binding:"required"`
	Parameters  any    `json:"parameters,omitempty"`
}

type PredictRes struct {
	Output    string  `json:"output"`
	LatencyMs float64 `json:"latency_ms"`
}
