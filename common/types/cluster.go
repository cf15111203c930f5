package types

type ComputeClusterStatus string

const (
	ClusterStatusProvisioning ComputeClusterStatus = "Provisioning"
	ClusterStatusReady        ComputeClusterStatus = "Ready"
	ClusterStatusUnavailable  ComputeClusterStatus = "Unavailable"
)

type ComputeClusterReq struct {
	Name         string `json:"name" binding:"required"`
	DisplayName  string `json:"display_name"`
	InstanceSize string `json:"instance_size" binding:"required"`
	NodeCount    int    `json:"node_count" binding:"required,min=1"`
	// which runner connection the cluster is backed by; empty means the
	// runner's default connection
	PoolID string `json:"pool_id"`
}

type ComputeClusterRes struct {
	ID           int64                `json:"id"`
	Name         string               `json:"name"`
	DisplayName  string               `json:"display_name"`
	InstanceSize string               `json:"instance_size"`
	NodeCount    int                  `json:"node_count"`
	PoolID       string               `json:"pool_id"`
	Status       ComputeClusterStatus `json:"status"`
	CreatedAt    string               `json:"created_at"`
	UpdatedAt    string               `json:"updated_at"`
}

// ClusterRes is the runner's live view of one backing connection.
type ClusterRes struct {
	PoolID        string             `json:"pool_id"`
	ServerVersion string             `json:"server_version"`
	Resources     []NodeResourceInfo `json:"resources"`
}

type NodeResourceInfo struct {
	NodeName     string  `json:"node_name"`
	GPUModel     string  `json:"gpu_model"`
	GPUVendor    string  `json:"gpu_vendor"`
	TotalGPU     int64   `json:"total_gpu"`
	AvailableGPU int64   `json:"available_gpu"`
	TotalCPU     float64 `json:"total_cpu"`
	AvailableCPU float64 `json:"available_cpu"`
	TotalMem     float32 `json:"total_mem"`     //in GB
	AvailableMem float32 `json:"available_mem"` //in GB
}

// GPUModelLabel maps a vendor specific model label to the extended
// resource it advertises, for clusters outside the built-in label table.
type GPUModelLabel struct {
	CapacityLabel string `json:"capacity_label"`
	ModelLabel    string `json:"model_label"`
}

// InstanceSize is one entry of the compute size catalog.
type InstanceSize struct {
	Name      string  `json:"name"`
	CPU       float64 `json:"cpu"`
	MemoryGB  float32 `json:"memory_gb"`
	GPU       int64   `json:"gpu"`
	GPUVendor string  `json:"gpu_vendor"`
}
