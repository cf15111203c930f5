package types

type (
	Processor struct {
		Type         string            `json:"type,omitempty"`
		Num          string            `json:"num,omitempty"`
		ResourceName string            `json:"resource_name,omitempty"`
		Labels       map[string]string `json:"labels,omitempty"`
	}

	CPU struct {
		Type   string            `json:"type,omitempty"`
		Num    string            `json:"num,omitempty"`
		Labels map[string]string `json:"labels,omitempty"`
	}

	HardWare struct {
		Gpu              Processor `json:"gpu,omitempty"` // nvidia
		Npu              Processor `json:"npu,omitempty"` // ascend
		Cpu              CPU       `json:"cpu,omitempty"`
		Memory           string    `json:"memory,omitempty"`
		EphemeralStorage string    `json:"ephemeral_storage,omitempty"`
	}
)

// GPUResourceName picks the extended resource to request, preferring the
// vendor that is actually populated.
func (h HardWare) GPUResourceName() string {
	if h.Gpu.Num != "" {
		if h.Gpu.ResourceName != "" {
			return h.Gpu.ResourceName
		}
		return "nvidia.com/gpu"
	}
	if h.Npu.Num != "" {
		if h.Npu.ResourceName != "" {
			return h.Npu.ResourceName
		}
		return "huawei.com/ascend-1980"
	}
	return ""
}

// GPUNum returns the requested accelerator count regardless of vendor.
func (h HardWare) GPUNum() string {
	if h.Gpu.Num != "" {
		return h.Gpu.Num
	}
	return h.Npu.Num
}
