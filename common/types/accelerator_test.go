package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultAcceleratorConfig(t *testing.T) {
	cfg := DefaultAcceleratorConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "AdamW", cfg.OptimizerType())
	require.Equal(t, 3e-05, cfg.LearningRate())
	require.Equal(t, int64(2), cfg.ZeroStage())
	require.Equal(t, "fp16", cfg.Precision())
}

func TestAcceleratorConfigValidate(t *testing.T) {
	t.Run("stage out of range", func(t *testing.T) {
		cfg := AcceleratorConfig(`{
			"optimizer": {"type": "AdamW", "params": {"lr": 1e-4}},
			"zero_optimization": {"stage": 4}
		}`)
		err := cfg.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "stage")
	})

	t.Run("fp16 and bf16 both enabled", func(t *testing.T) {
		cfg := AcceleratorConfig(`{
			"optimizer": {"type": "AdamW", "params": {"lr": 1e-4}},
			"fp16": {"enabled": true},
			"bf16": {"enabled": true}
		}`)
		require.Error(t, cfg.Validate())
	})

	t.Run("missing optimizer type", func(t *testing.T) {
		cfg := AcceleratorConfig(`{"optimizer": {"params": {"lr": 1e-4}}}`)
		require.Error(t, cfg.Validate())
	})

	t.Run("not json", func(t *testing.T) {
		cfg := AcceleratorConfig(`stage: 2`)
		require.Error(t, cfg.Validate())
	})
}

func TestAcceleratorConfigWithOverrides(t *testing.T) {
	cfg := DefaultAcceleratorConfig()
	out, err := cfg.WithOverrides(5e-05, 8)
	require.NoError(t, err)
	require.Equal(t, 5e-05, out.LearningRate())

	// original untouched
	require.Equal(t, 3e-05, cfg.LearningRate())
}

func TestAcceleratorConfigPrecision(t *testing.T) {
	cfg := AcceleratorConfig(`{
		"optimizer": {"type": "Adam", "params": {"lr": 1e-4}},
		"bf16": {"enabled": true}
	}`)
	require.NoError(t, cfg.Validate())
	require.Equal(t, "bf16", cfg.Precision())

	cfg = AcceleratorConfig(`{"optimizer": {"type": "Adam", "params": {"lr": 1e-4}}}`)
	require.Equal(t, "fp32", cfg.Precision())
}

func TestAcceleratorConfigRoundTrip(t *testing.T) {
	type payload struct {
		Accelerator AcceleratorConfig `json:"accelerator,omitempty"`
	}
	in := payload{Accelerator: DefaultAcceleratorConfig()}
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out payload
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NoError(t, out.Accelerator.Validate())
	require.Equal(t, in.Accelerator.ZeroStage(), out.Accelerator.ZeroStage())
}
