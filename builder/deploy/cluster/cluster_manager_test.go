package cluster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	apiversion "k8s.io/apimachinery/pkg/version"
	fakediscovery "k8s.io/client-go/discovery/fake"
	"k8s.io/client-go/kubernetes/fake"

	"tunehub.io/tunehub-server/common/config"
)

func TestGetResourcesInCluster(t *testing.T) {
	node1 := &v1.Node{
		ObjectMeta: metav1.ObjectMeta{
			Name: "node1",
			Labels: map[string]string{
				"nvidia.com/gpu.product": "NVIDIA-A10",
			},
		},
		Status: v1.NodeStatus{
			Conditions: []v1.NodeCondition{
				{Type: v1.NodeReady, Status: v1.ConditionTrue},
			},
			Capacity: v1.ResourceList{
				v1.ResourceCPU:    resource.MustParse("4"),
				v1.ResourceMemory: resource.MustParse("16Gi"),
				"nvidia.com/gpu":  resource.MustParse("2"),
			},
			Allocatable: v1.ResourceList{
				v1.ResourceCPU:    resource.MustParse("3"),
				v1.ResourceMemory: resource.MustParse("14Gi"),
				"nvidia.com/gpu":  resource.MustParse("2"),
			},
		},
	}

	node2 := &v1.Node{
		ObjectMeta: metav1.ObjectMeta{
			Name: "node2",
		},
		Status: v1.NodeStatus{
			Conditions: []v1.NodeCondition{
				{Type: v1.NodeReady, Status: v1.ConditionFalse},
			},
		},
	}

	pod1 := &v1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name: "pod1",
		},
		Spec: v1.PodSpec{
			NodeName: "node1",
			Containers: []v1.Container{
				{
					Resources: v1.ResourceRequirements{
						Requests: v1.ResourceList{
							v1.ResourceCPU:    resource.MustParse("1"),
							v1.ResourceMemory: resource.MustParse("2Gi"),
							"nvidia.com/gpu":  resource.MustParse("1"),
						},
					},
				},
			},
		},
		Status: v1.PodStatus{
			Phase: v1.PodRunning,
		},
	}

	pod2 := &v1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name: "pod2",
		},
		Spec: v1.PodSpec{
			NodeName: "node1",
		},
		Status: v1.PodStatus{
			Phase: v1.PodSucceeded,
		},
	}

	clientset := fake.NewSimpleClientset(node1, node2, pod1, pod2)

	cluster := &Cluster{
		Client: clientset,
	}

	config := &config.Config{}

	resources, err := cluster.GetResourcesInCluster(context.TODO(), config)
	assert.NoError(t, err)
	assert.Len(t, resources, 1)
	assert.Contains(t, resources, "node1")
	assert.NotContains(t, resources, "node2")

	node1Resources := resources["node1"]
	assert.Equal(t, 4.0, node1Resources.TotalCPU)
	assert.Equal(t, 2.0, node1Resources.AvailableCPU)
	assert.InDelta(t, 16.0, node1Resources.TotalMem, 0.1)
	assert.InDelta(t, 12.0, node1Resources.AvailableMem, 0.1)
	assert.Equal(t, int64(2), node1Resources.TotalGPU)
	assert.Equal(t, int64(1), node1Resources.AvailableGPU)
	assert.Equal(t, "A10", node1Resources.GPUModel)
	assert.Equal(t, "NVIDIA", node1Resources.GPUVendor)
}

func TestGetResourcesInClusterCustomLabel(t *testing.T) {
	node := &v1.Node{
		ObjectMeta: metav1.ObjectMeta{
			Name: "node1",
			Labels: map[string]string{
				"example.com/accel-model": "L40S",
			},
		},
		Status: v1.NodeStatus{
			Conditions: []v1.NodeCondition{
				{Type: v1.NodeReady, Status: v1.ConditionTrue},
			},
			Capacity: v1.ResourceList{
				v1.ResourceCPU:      resource.MustParse("8"),
				v1.ResourceMemory:   resource.MustParse("32Gi"),
				"example.com/accel": resource.MustParse("4"),
			},
			Allocatable: v1.ResourceList{
				v1.ResourceCPU:      resource.MustParse("8"),
				v1.ResourceMemory:   resource.MustParse("32Gi"),
				"example.com/accel": resource.MustParse("4"),
			},
		},
	}

	clientset := fake.NewSimpleClientset(node)
	cluster := &Cluster{Client: clientset}

	config := &config.Config{}
	config.TrainJob.GPUModelLabel = `[{"capacity_label":"example.com/accel","model_label":"example.com/accel-model"}]`

	resources, err := cluster.GetResourcesInCluster(context.TODO(), config)
	assert.NoError(t, err)
	require.Contains(t, resources, "node1")
	assert.Equal(t, int64(4), resources["node1"].TotalGPU)
	assert.Equal(t, "L40S", resources["node1"].GPUModel)
	assert.Equal(t, "example", resources["node1"].GPUVendor)
}

func TestByPoolID(t *testing.T) {
	pool := &ClusterPool{
		Clusters: []Cluster{
			{PoolID: "config"},
			{PoolID: "config-backup"},
		},
	}

	got, err := pool.ByPoolID("")
	require.NoError(t, err)
	assert.Equal(t, "config", got.PoolID)

	got, err = pool.ByPoolID("config-backup")
	require.NoError(t, err)
	assert.Equal(t, "config-backup", got.PoolID)

	_, err = pool.ByPoolID("missing")
	assert.Error(t, err)

	empty := &ClusterPool{}
	_, err = empty.ByPoolID("")
	assert.Error(t, err)
}

func TestVerifyMinVersion(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	fd, ok := clientset.Discovery().(*fakediscovery.FakeDiscovery)
	require.True(t, ok)
	fd.FakedServerVersion = &apiversion.Info{GitVersion: "v1.28.3+k3s1"}

	cluster := &Cluster{Client: clientset}

	got, err := cluster.ServerVersion()
	require.NoError(t, err)
	assert.Equal(t, "v1.28.3+k3s1", got)

	assert.NoError(t, cluster.VerifyMinVersion("1.24.0"))
	err = cluster.VerifyMinVersion("1.30.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below the required")
}
