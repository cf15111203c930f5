package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// evaluation strategies the training arguments accept, forwarded to the
// training container as-is
const (
	EvalStrategyNo    = "no"
	EvalStrategySteps = "steps"
	EvalStrategyEpoch = "epoch"
)

const (
	DefaultProcessCount = 1
	DefaultEpochs       = 3
	DefaultBatchSize    = 16
	DefaultMetric       = "accuracy"
)

type (
	// PipelineSettings is the flat settings document that drives a fine-tune
	// run. The recognized keys are fixed; unknown keys fail parsing so a
	// typo surfaces before anything is submitted.
	PipelineSettings struct {
		Model                 string               `json:"model"`
		Task                  string               `json:"task"`
		Experiment            string               `json:"experiment"`
		Metric                string               `json:"metric"`
		DataDir               string               `json:"data_dir"`
		SourceDirectory       string               `json:"source_directory"`
		Environment           string               `json:"environment"`
		EnvironmentDockerfile string               `json:"environment_dockerfile"`
		TrainingCommand       string               `json:"training_command"`
		ComputeTarget         string               `json:"compute_target"`
		ComputeSize           string               `json:"compute_size"`
		ComputeNodeCount      int                  `json:"compute_node_count"`
		RegisteredModelName   string               `json:"registered_model_name"`
		PyTorchConfiguration  PyTorchConfiguration `json:"pytorch_configuration"`
		TrainingArgs          TrainingArgs         `json:"training_args"`
	}

	PyTorchConfiguration struct {
		NodeCount    int `json:"node_count"`
		ProcessCount int `json:"process_count"`
	}

	TrainingArgs struct {
		Epochs             int    `json:"epochs"`
		BatchSize          int    `json:"batch_size"`
		EvaluationStrategy string `json:"evaluation_strategy"`
	}
)

// ParsePipelineSettings decodes a settings document, rejecting keys that are
// not part of the settings surface.
func ParsePipelineSettings(data []byte) (*PipelineSettings, error) {
	var settings PipelineSettings
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&settings); err != nil {
		return nil, fmt.Errorf("invalid settings document: %w", err)
	}
	settings.ApplyDefaults()
	return &settings, nil
}

func (s *PipelineSettings) ApplyDefaults() {
	if s.PyTorchConfiguration.ProcessCount == 0 {
		s.PyTorchConfiguration.ProcessCount = DefaultProcessCount
	}
	if s.PyTorchConfiguration.NodeCount == 0 {
		s.PyTorchConfiguration.NodeCount = s.ComputeNodeCount
	}
	if s.TrainingArgs.Epochs == 0 {
		s.TrainingArgs.Epochs = DefaultEpochs
	}
	if s.TrainingArgs.BatchSize == 0 {
		s.TrainingArgs.BatchSize = DefaultBatchSize
	}
	if s.TrainingArgs.EvaluationStrategy == "" {
		s.TrainingArgs.EvaluationStrategy = EvalStrategyEpoch
	}
	if s.Metric == "" {
		s.Metric = DefaultMetric
	}
}

func (s *PipelineSettings) Validate() error {
	if s.Model == "" {
		return fmt.Errorf("settings key model is required")
	}
	if s.Task == "" {
		return fmt.Errorf("settings key task is required")
	}
	if s.ComputeTarget == "" {
		return fmt.Errorf("settings key compute_target is required")
	}
	if s.Environment == "" {
		return fmt.Errorf("settings key environment is required")
	}
	if s.TrainingCommand == "" {
		return fmt.Errorf("settings key training_command is required")
	}
	if s.ComputeNodeCount < 1 {
		return fmt.Errorf("compute_node_count must be at least 1, got %d", s.ComputeNodeCount)
	}
	if s.PyTorchConfiguration.NodeCount < 1 || s.PyTorchConfiguration.ProcessCount < 1 {
		return fmt.Errorf("pytorch_configuration counts must be at least 1")
	}
	if s.PyTorchConfiguration.NodeCount > s.ComputeNodeCount {
		return fmt.Errorf("pytorch_configuration.node_count %d exceeds compute_node_count %d",
			s.PyTorchConfiguration.NodeCount, s.ComputeNodeCount)
	}
	switch s.TrainingArgs.EvaluationStrategy {
	case EvalStrategyNo, EvalStrategySteps, EvalStrategyEpoch:
	default:
		return fmt.Errorf("evaluation_strategy must be one of no|steps|epoch, got %q",
			s.TrainingArgs.EvaluationStrategy)
	}
	if s.TrainingArgs.Epochs < 1 {
		return fmt.Errorf("training_args.epochs must be at least 1, got %d", s.TrainingArgs.Epochs)
	}
	if s.TrainingArgs.BatchSize < 1 {
		return fmt.Errorf("training_args.batch_size must be at least 1, got %d", s.TrainingArgs.BatchSize)
	}
	return nil
}

// WorldSize is the total process count across all nodes.
func (p PyTorchConfiguration) WorldSize() int {
	return p.NodeCount * p.ProcessCount
}
