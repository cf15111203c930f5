package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePipelineSettings(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		doc := `{
			"model": "bert-base-uncased",
			"task": "mrpc",
			"experiment": "glue-mrpc-ft",
			"metric": "f1",
			"data_dir": "data",
			"source_directory": "src",
			"environment": "transformers-gpu",
			"environment_dockerfile": "dockerfiles/train.Dockerfile",
			"training_command": "python train.py --output_dir outputs",
			"compute_target": "gpu-cluster",
			"compute_size": "gpu.a100.4xlarge",
			"compute_node_count": 2,
			"registered_model_name": "bert-mrpc",
			"pytorch_configuration": {"node_count": 2, "process_count": 4},
			"training_args": {"num_train_epochs": 5, "per_device_train_batch_size": 32, "evaluation_strategy": "steps"}
		}`
		s, err := ParsePipelineSettings([]byte(doc))
		require.NoError(t, err)
		require.Equal(t, "bert-base-uncased", s.Model)
		require.Equal(t, "gpu-cluster", s.ComputeTarget)
		require.Equal(t, 2, s.PyTorchConfiguration.NodeCount)
		require.Equal(t, 4, s.PyTorchConfiguration.ProcessCount)
		require.Equal(t, 8, s.PyTorchConfiguration.WorldSize())
		require.Equal(t, 5, s.TrainingArgs.Epochs)
		require.Equal(t, EvalStrategySteps, s.TrainingArgs.EvaluationStrategy)
	})

	t.Run("defaults fill the gaps", func(t *testing.T) {
		doc := `{
			"model": "bert-base-uncased",
			"task": "mrpc",
			"environment": "transformers-gpu",
			"training_command": "python train.py",
			"compute_target": "gpu-cluster",
			"compute_node_count": 4
		}`
		s, err := ParsePipelineSettings([]byte(doc))
		require.NoError(t, err)
		require.Equal(t, DefaultMetric, s.Metric)
		// node count follows the cluster when the torch block is absent
		require.Equal(t, 4, s.PyTorchConfiguration.NodeCount)
		require.Equal(t, DefaultProcessCount, s.PyTorchConfiguration.ProcessCount)
		require.Equal(t, DefaultEpochs, s.TrainingArgs.Epochs)
		require.Equal(t, DefaultBatchSize, s.TrainingArgs.BatchSize)
		require.Equal(t, EvalStrategyEpoch, s.TrainingArgs.EvaluationStrategy)
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		doc := `{"model": "bert", "task": "mrpc", "compute_targe": "oops"}`
		_, err := ParsePipelineSettings([]byte(doc))
		require.Error(t, err)
	})

	t.Run("malformed json rejected", func(t *testing.T) {
		_, err := ParsePipelineSettings([]byte(`{"model": `))
		require.Error(t, err)
	})
}

func TestPipelineSettingsValidate(t *testing.T) {
	valid := func() *PipelineSettings {
		return &PipelineSettings{
			Model:            "bert-base-uncased",
			Task:             "mrpc",
			Environment:      "transformers-gpu",
			TrainingCommand:  "python train.py",
			ComputeTarget:    "gpu-cluster",
			ComputeNodeCount: 2,
			PyTorchConfiguration: PyTorchConfiguration{
				NodeCount:    2,
				ProcessCount: 4,
			},
			TrainingArgs: TrainingArgs{
				Epochs:             3,
				BatchSize:          16,
				EvaluationStrategy: EvalStrategyEpoch,
			},
		}
	}

	t.Run("ok", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("missing model", func(t *testing.T) {
		s := valid()
		s.Model = ""
		require.Error(t, s.Validate())
	})

	t.Run("missing training command", func(t *testing.T) {
		s := valid()
		s.TrainingCommand = ""
		require.Error(t, s.Validate())
	})

	t.Run("node count exceeds cluster", func(t *testing.T) {
		s := valid()
		s.PyTorchConfiguration.NodeCount = 3
		err := s.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "node_count")
	})

	t.Run("zero process count", func(t *testing.T) {
		s := valid()
		s.PyTorchConfiguration.ProcessCount = 0
		require.Error(t, s.Validate())
	})

	t.Run("bad evaluation strategy", func(t *testing.T) {
		s := valid()
		s.TrainingArgs.EvaluationStrategy = "hourly"
		require.Error(t, s.Validate())
	})
}
