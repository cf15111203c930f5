package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// AcceleratorConfig holds the distributed-training accelerator JSON document
// (optimizer, gradient partitioning stage, precision). The document belongs to
// the training container; it is validated structurally, patched by path, and
// otherwise passed through byte-for-byte so vendor keys survive untouched.
type AcceleratorConfig []byte

func (c AcceleratorConfig) MarshalJSON() ([]byte, error) {
	if len(c) == 0 {
		return []byte("null"), nil
	}
	return c, nil
}

func (c *AcceleratorConfig) UnmarshalJSON(data []byte) error {
	if c == nil {
		return fmt.Errorf("accelerator config: unmarshal into nil pointer")
	}
	*c = append((*c)[0:0], data...)
	return nil
}

func (c AcceleratorConfig) String() string {
	return string(c)
}

// DefaultAcceleratorConfig is the stock configuration submitted when a run
// does not carry its own: AdamW, ZeRO stage 2, fp16.
func DefaultAcceleratorConfig() AcceleratorConfig {
	return AcceleratorConfig(`{
  "train_micro_batch_size_per_gpu": "auto",
  "gradient_accumulation_steps": 1,
  "optimizer": {
    "type": "AdamW",
    "params": {
      "lr": 3e-05
    }
  },
  "zero_optimization": {
    "stage": 2
  },
  "fp16": {
    "enabled": true
  }
}`)
}

func (c AcceleratorConfig) Validate() error {
	if len(c) == 0 {
		return nil
	}
	if !gjson.ValidBytes(c) {
		return fmt.Errorf("accelerator config is not valid JSON")
	}
	if stage := gjson.GetBytes(c, "zero_optimization.stage"); stage.Exists() {
		if stage.Int() < 0 || stage.Int() > 3 {
			return fmt.Errorf("zero_optimization.stage must be within 0-3, got %d", stage.Int())
		}
	}
	fp16 := gjson.GetBytes(c, "fp16.enabled").Bool()
	bf16 := gjson.GetBytes(c, "bf16.enabled").Bool()
	if fp16 && bf16 {
		return fmt.Errorf("fp16 and bf16 cannot both be enabled")
	}
	if opt := gjson.GetBytes(c, "optimizer"); opt.Exists() {
		if gjson.GetBytes(c, "optimizer.type").String() == "" {
			return fmt.Errorf("optimizer.type is required when optimizer is set")
		}
	}
	return nil
}

func (c AcceleratorConfig) OptimizerType() string {
	return gjson.GetBytes(c, "optimizer.type").String()
}

func (c AcceleratorConfig) LearningRate() float64 {
	return gjson.GetBytes(c, "optimizer.params.lr").Float()
}

func (c AcceleratorConfig) ZeroStage() int64 {
	return gjson.GetBytes(c, "zero_optimization.stage").Int()
}

// Precision reports the configured precision mode: fp16, bf16 or fp32.
func (c AcceleratorConfig) Precision() string {
	if gjson.GetBytes(c, "fp16.enabled").Bool() {
		return "fp16"
	}
	if gjson.GetBytes(c, "bf16.enabled").Bool() {
		return "bf16"
	}
	return "fp32"
}

// WithOverrides patches run-derived values into the document by JSON path,
// leaving everything else intact.
func (c AcceleratorConfig) WithOverrides(learningRate float64, microBatchSize int) (AcceleratorConfig, error) {
	if len(c) == 0 {
		c = DefaultAcceleratorConfig()
	}
	patched := []byte(c)
	var err error
	if learningRate > 0 {
		patched, err = sjson.SetBytes(patched, "optimizer.params.lr", learningRate)
		if err != nil {
			return nil, fmt.Errorf("patch learning rate: %w", err)
		}
	}
	if microBatchSize > 0 {
		patched, err = sjson.SetBytes(patched, "train_micro_batch_size_per_gpu", microBatchSize)
		if err != nil {
			return nil, fmt.Errorf("patch micro batch size: %w", err)
		}
	}
	out := AcceleratorConfig(patched)
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Compact returns the document with insignificant whitespace removed, for
// storage and env injection.
func (c AcceleratorConfig) Compact() (AcceleratorConfig, error) {
	if len(c) == 0 {
		return c, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, c); err != nil {
		return nil, err
	}
	return AcceleratorConfig(buf.Bytes()), nil
}
