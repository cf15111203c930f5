package component

import (
	"context"
	"testing"

	"github.com/argoproj/argo-workflows/v3/pkg/apis/workflow/v1alpha1"
	argofake "github.com/argoproj/argo-workflows/v3/pkg/client/clientset/versioned/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"tunehub.io/tunehub-server/builder/deploy/cluster"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
)

func newEnvBuilderTestComponent(t *testing.T) (*envBuilderComponentImpl, *fake.Clientset, *argofake.Clientset) {
	t.Helper()
	clientset := fake.NewSimpleClientset()
	argoClient := argofake.NewSimpleClientset()

	cfg := &config.Config{}
	cfg.Build.Namespace = "tunehub-builds"
	cfg.Build.Registry = "registry.tunehub.local/environments"
	cfg.Build.KanikoImage = "gcr.io/kaniko-project/executor:v1.23.2"
	cfg.Build.RegistrySecretName = "tunehub-registry-secret"
	cfg.Build.ServiceAccountName = "builder"
	cfg.Build.JobTTL = 120

	comp := &envBuilderComponentImpl{
		config: cfg,
		clusterPool: &cluster.ClusterPool{
			Clusters: []cluster.Cluster{{
				PoolID:     "pool-a",
				Client:     clientset,
				ArgoClient: argoClient,
			}},
		},
	}
	return comp, clientset, argoClient
}

func TestEnvBuilderComponentBuild(t *testing.T) {
	comp, clientset, argoClient := newEnvBuilderTestComponent(t)

	res, err := comp.Build(context.Background(), types.EnvironmentBuildReq{
		BuildID:         "bld-42",
		EnvironmentName: "pytorch-cu121",
		Version:         3,
		Dockerfile:      "FROM pytorch/pytorch:2.3.0",
		BuildArgs:       map[string]string{"TORCH_CUDA_ARCH_LIST": "8.0"},
		PoolID:          "pool-a",
	})
	require.NoError(t, err)
	assert.Contains(t, res.Message, "registry.tunehub.local/environments/pytorch-cu121:v3-")

	cm, err := clientset.CoreV1().ConfigMaps("tunehub-builds").Get(context.Background(), "build-bld-42-dockerfile", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "FROM pytorch/pytorch:2.3.0", cm.Data["Dockerfile"])

	wf, err := argoClient.ArgoprojV1alpha1().Workflows("tunehub-builds").Get(context.Background(), "envbuild-bld-42", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "bld-42", wf.Labels[buildIDLabel])
	require.Len(t, wf.Spec.Templates, 1)
	assert.Contains(t, wf.Spec.Templates[0].Container.Args, "--build-arg=TORCH_CUDA_ARCH_LIST=8.0")
}

func TestEnvBuilderComponentStop(t *testing.T) {
	comp, clientset, argoClient := newEnvBuilderTestComponent(t)

	_, err := comp.Build(context.Background(), types.EnvironmentBuildReq{
		BuildID:         "bld-43",
		EnvironmentName: "pytorch-cu121",
		Version:         1,
		Dockerfile:      "FROM python:3.11-slim",
		PoolID:          "pool-a",
	})
	require.NoError(t, err)

	err = comp.Stop(context.Background(), types.EnvironmentBuildStopReq{BuildID: "bld-43", PoolID: "pool-a"})
	require.NoError(t, err)

	_, err = argoClient.ArgoprojV1alpha1().Workflows("tunehub-builds").Get(context.Background(), "envbuild-bld-43", metav1.GetOptions{})
	assert.Error(t, err)
	_, err = clientset.CoreV1().ConfigMaps("tunehub-builds").Get(context.Background(), "build-bld-43-dockerfile", metav1.GetOptions{})
	assert.Error(t, err)

	// stopping an unknown build is a no-op
	err = comp.Stop(context.Background(), types.EnvironmentBuildStopReq{BuildID: "bld-missing", PoolID: "pool-a"})
	assert.NoError(t, err)
}

func TestBuildStatusForPhase(t *testing.T) {
	wf := func(phase v1alpha1.WorkflowPhase) *v1alpha1.Workflow {
		return &v1alpha1.Workflow{
			ObjectMeta: metav1.ObjectMeta{
				Annotations: map[string]string{"tunehub.io/image": "registry.tunehub.local/environments/pytorch-cu121:v3-1"},
			},
			Status: v1alpha1.WorkflowStatus{Phase: phase},
		}
	}

	status, image := buildStatusForPhase(wf(v1alpha1.WorkflowSucceeded))
	assert.Equal(t, types.BuildStatusSucceeded, status)
	assert.Equal(t, "registry.tunehub.local/environments/pytorch-cu121:v3-1", image)

	status, image = buildStatusForPhase(wf(v1alpha1.WorkflowFailed))
	assert.Equal(t, types.BuildStatusFailed, status)
	assert.Empty(t, image)

	status, _ = buildStatusForPhase(wf(v1alpha1.WorkflowError))
	assert.Equal(t, types.BuildStatusFailed, status)

	status, _ = buildStatusForPhase(wf(v1alpha1.WorkflowRunning))
	assert.Equal(t, types.BuildStatusBuilding, status)

	status, _ = buildStatusForPhase(wf(v1alpha1.WorkflowPending))
	assert.Equal(t, types.BuildStatusPending, status)
}
