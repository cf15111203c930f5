package cluster

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strings"

	v1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
)

// GetResourcesInCluster gathers per node totals and what remains after
// subtracting the requests of running pods. Nodes that are not Ready are
// left out, so a node count check against the result only sees usable
// capacity.
func (c *Cluster) GetResourcesInCluster(ctx context.Context, config *config.Config) (map[string]types.NodeResourceInfo, error) {
	nodes, err := c.Client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}

	pods, err := c.Client.CoreV1().Pods("").List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}

	resources := make(map[string]types.NodeResourceInfo)
	// the extended resource name differs per vendor, remember it per node
	// for the pod subtraction pass
	capacityLabels := make(map[string]string)

	for _, node := range nodes.Items {
		if !nodeReady(node) {
			continue
		}

		capacityLabel, modelLabel := gpuLabels(node, config)
		vendor, model := gpuVendorAndModel(node.Labels[modelLabel], capacityLabel)

		totalGPU := resource.Quantity{}
		availableGPU := resource.Quantity{}
		if capacityLabel != "" {
			totalGPU = node.Status.Capacity[v1.ResourceName(capacityLabel)]
			availableGPU = node.Status.Allocatable[v1.ResourceName(capacityLabel)]
		}

		resources[node.Name] = types.NodeResourceInfo{
			NodeName:     node.Name,
			GPUModel:     model,
			GPUVendor:    vendor,
			TotalGPU:     quantityToInt64(totalGPU),
			AvailableGPU: quantityToInt64(availableGPU),
			TotalCPU:     millicoresToCores(node.Status.Capacity.Cpu().MilliValue()),
			AvailableCPU: millicoresToCores(node.Status.Allocatable.Cpu().MilliValue()),
			TotalMem:     bytesToGiB(quantityToInt64(node.Status.Capacity[v1.ResourceMemory])),
			AvailableMem: bytesToGiB(quantityToInt64(node.Status.Allocatable[v1.ResourceMemory])),
		}
		capacityLabels[node.Name] = capacityLabel
	}

	for _, pod := range pods.Items {
		if pod.Spec.NodeName == "" || pod.Status.Phase == v1.PodSucceeded || pod.Status.Phase == v1.PodFailed {
			continue
		}
		node, ok := resources[pod.Spec.NodeName]
		if !ok {
			continue
		}

		for _, container := range pod.Spec.Containers {
			if gpuRequest, hasGPU := container.Resources.Requests[v1.ResourceName(capacityLabels[pod.Spec.NodeName])]; hasGPU {
				node.AvailableGPU -= quantityToInt64(gpuRequest)
			}
			if memoryRequest, hasMemory := container.Resources.Requests[v1.ResourceMemory]; hasMemory {
				node.AvailableMem -= bytesToGiB(quantityToInt64(memoryRequest))
			}
			if cpuRequest, hasCPU := container.Resources.Requests[v1.ResourceCPU]; hasCPU {
				node.AvailableCPU -= millicoresToCores(cpuRequest.MilliValue())
			}
		}

		resources[pod.Spec.NodeName] = node
	}

	return resources, nil
}

// gpuLabels returns the extended resource name and the node label carrying
// the accelerator model, probing the well known labels of the supported
// platforms before any custom mapping from the config.
func gpuLabels(node v1.Node, config *config.Config) (string, string) {
	if _, found := node.Labels["nvidia.com/gpu.product"]; found {
		// gpu feature discovery
		return "nvidia.com/gpu", "nvidia.com/gpu.product"
	}
	if _, found := node.Labels["nvidia.com/nvidia_name"]; found {
		// k3s
		return "nvidia.com/gpu", "nvidia.com/nvidia_name"
	}
	if _, found := node.Labels["cloud.google.com/gke-accelerator"]; found {
		// gke
		return "nvidia.com/gpu", "cloud.google.com/gke-accelerator"
	}
	if _, found := node.Labels["karpenter.k8s.aws/instance-gpu-name"]; found {
		// eks with karpenter
		return "nvidia.com/gpu", "karpenter.k8s.aws/instance-gpu-name"
	}
	if _, found := node.Labels["accelerator/huawei-npu"]; found {
		// ascend npu
		return "huawei.com/Ascend910", "accelerator/huawei-npu"
	}
	if config.TrainJob.GPUModelLabel != "" {
		var gpuLabels []types.GPUModelLabel
		err := json.Unmarshal([]byte(config.TrainJob.GPUModelLabel), &gpuLabels)
		if err != nil {
			slog.Error("failed to parse gpu model label config", "error", err)
			return "", ""
		}
		for _, l := range gpuLabels {
			if _, found := node.Labels[l.ModelLabel]; found {
				return l.CapacityLabel, l.ModelLabel
			}
		}
	}
	return "", ""
}

// gpuVendorAndModel derives the vendor and model from the model label
// value, falling back to the resource name prefix for plain values like T4.
func gpuVendorAndModel(modelValue string, capacityLabel string) (string, string) {
	if strings.Contains(modelValue, "-") {
		parts := strings.SplitN(modelValue, "-", 2)
		return parts[0], parts[1]
	}
	if strings.Contains(capacityLabel, ".") {
		return strings.SplitN(capacityLabel, ".", 2)[0], modelValue
	}
	return capacityLabel, modelValue
}

func nodeReady(node v1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == v1.NodeReady {
			return cond.Status == v1.ConditionTrue
		}
	}
	return false
}

func bytesToGiB(memBytes int64) float32 {
	return float32(memBytes) / (1024 * 1024 * 1024)
}

func millicoresToCores(millicores int64) float64 {
	cores := float64(millicores) / 1000.0
	return math.Round(cores*10) / 10
}

func quantityToInt64(q resource.Quantity) int64 {
	if q.IsZero() {
		return 0
	}
	value, _ := q.AsInt64()
	return value
}
