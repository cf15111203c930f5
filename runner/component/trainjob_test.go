package component

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	kruntime "k8s.io/apimachinery/pkg/runtime"
	apiversion "k8s.io/apimachinery/pkg/version"
	fakediscovery "k8s.io/client-go/discovery/fake"
	"k8s.io/client-go/kubernetes/fake"

	"tunehub.io/tunehub-server/builder/deploy/cluster"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	rcommon "tunehub.io/tunehub-server/runner/common"
)

func newTrainJobTestComponent(t *testing.T, serverVersion string, objects ...kruntime.Object) (*trainJobComponentImpl, *fake.Clientset) {
	t.Helper()
	clientset := fake.NewSimpleClientset(objects...)
	clientset.Discovery().(*fakediscovery.FakeDiscovery).FakedServerVersion = &apiversion.Info{
		GitVersion: serverVersion,
	}

	cfg := &config.Config{}
	cfg.TrainJob.Namespace = "tunehub-jobs"
	cfg.TrainJob.MasterPort = 29500
	cfg.TrainJob.SharedMemoryGB = 16
	cfg.TrainJob.TimeoutInMin = 720
	cfg.TrainJob.JobTTL = 300
	cfg.TrainJob.ImagePullSecret = "tunehub-pull-secret"
	cfg.TrainJob.MinClusterVersion = "1.24.0"

	comp := &trainJobComponentImpl{
		config: cfg,
		clusterPool: &cluster.ClusterPool{
			Clusters: []cluster.Cluster{{
				PoolID: "pool-a",
				Client: clientset,
			}},
		},
	}
	return comp, clientset
}

func TestTrainJobComponentRun(t *testing.T) {
	comp, clientset := newTrainJobTestComponent(t, "v1.24.0")

	req := types.RunJobReq{
		JobName:      "ft-sentiment-01-1",
		Image:        "registry.tunehub.local/environments/pytorch:v1-99",
		Command:      "torchrun train.py",
		NodeCount:    2,
		ProcessCount: 4,
		Hardware: types.HardWare{
			Cpu:    types.CPU{Num: "8"},
			Memory: "32Gi",
			Gpu:    types.Processor{Num: "1"},
		},
		Accelerator: types.AcceleratorConfig(`{"zero_optimization":{"stage":2}}`),
		PoolID:      "pool-a",
	}
	res, err := comp.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "ft-sentiment-01-1", res.JobName)

	job, err := clientset.BatchV1().Jobs("tunehub-jobs").Get(context.Background(), "ft-sentiment-01-1", metav1.GetOptions{})
	require.NoError(t, err)
	require.NotNil(t, job.Spec.CompletionMode)
	assert.Equal(t, batchv1.IndexedCompletion, *job.Spec.CompletionMode)
	assert.Equal(t, int32(2), *job.Spec.Parallelism)
	assert.Equal(t, int32(2), *job.Spec.Completions)

	// the rank env comes from the completion index annotation so it
	// resolves on every supported cluster version
	var nodeRank *corev1.EnvVar
	for i, env := range job.Spec.Template.Spec.Containers[0].Env {
		if env.Name == "NODE_RANK" {
			nodeRank = &job.Spec.Template.Spec.Containers[0].Env[i]
		}
	}
	require.NotNil(t, nodeRank)
	require.NotNil(t, nodeRank.ValueFrom)
	assert.Contains(t, nodeRank.ValueFrom.FieldRef.FieldPath, rcommon.CompletionIndexAnnotation)

	_, err = clientset.CoreV1().Services("tunehub-jobs").Get(context.Background(), "ft-sentiment-01-1", metav1.GetOptions{})
	assert.NoError(t, err)
	_, err = clientset.CoreV1().ConfigMaps("tunehub-jobs").Get(context.Background(), "ft-sentiment-01-1-accelerator", metav1.GetOptions{})
	assert.NoError(t, err)
}

func TestTrainJobComponentRunRejectsOldCluster(t *testing.T) {
	comp, _ := newTrainJobTestComponent(t, "v1.23.5")

	_, err := comp.Run(context.Background(), types.RunJobReq{
		JobName:      "ft-sentiment-01-1",
		Image:        "img",
		Command:      "train",
		NodeCount:    1,
		ProcessCount: 1,
		PoolID:       "pool-a",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot run indexed jobs")
}

func TestTrainJobComponentStop(t *testing.T) {
	comp, clientset := newTrainJobTestComponent(t, "v1.24.0",
		&batchv1.Job{ObjectMeta: metav1.ObjectMeta{Name: "ft-sentiment-01-1", Namespace: "tunehub-jobs"}},
		&corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: "ft-sentiment-01-1", Namespace: "tunehub-jobs"}},
		&corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "ft-sentiment-01-1-accelerator", Namespace: "tunehub-jobs"}},
	)

	err := comp.Stop(context.Background(), types.StopJobReq{JobName: "ft-sentiment-01-1", PoolID: "pool-a"})
	require.NoError(t, err)

	_, err = clientset.BatchV1().Jobs("tunehub-jobs").Get(context.Background(), "ft-sentiment-01-1", metav1.GetOptions{})
	assert.Error(t, err)
	_, err = clientset.CoreV1().Services("tunehub-jobs").Get(context.Background(), "ft-sentiment-01-1", metav1.GetOptions{})
	assert.Error(t, err)

	// stopping again is a no-op
	err = comp.Stop(context.Background(), types.StopJobReq{JobName: "ft-sentiment-01-1", PoolID: "pool-a"})
	assert.NoError(t, err)
}

func TestTrainJobComponentStatus(t *testing.T) {
	t.Run("missing job reads as stopped", func(t *testing.T) {
		comp, _ := newTrainJobTestComponent(t, "v1.24.0")
		res, err := comp.Status(context.Background(), "ft-gone-09-9")
		require.NoError(t, err)
		assert.Equal(t, types.TrainJobStopped, res.Status)
	})

	t.Run("active job reads as running", func(t *testing.T) {
		comp, _ := newTrainJobTestComponent(t, "v1.24.0", &batchv1.Job{
			ObjectMeta: metav1.ObjectMeta{Name: "ft-sentiment-01-1", Namespace: "tunehub-jobs"},
			Status:     batchv1.JobStatus{Active: 2},
		})
		res, err := comp.Status(context.Background(), "ft-sentiment-01-1")
		require.NoError(t, err)
		assert.Equal(t, types.TrainJobRunning, res.Status)
	})
}

func TestJobStatus(t *testing.T) {
	tests := []struct {
		name       string
		conditions []batchv1.JobCondition
		active     int32
		want       types.TrainJobStatus
	}{
		{
			name:       "complete condition wins",
			conditions: []batchv1.JobCondition{{Type: batchv1.JobComplete, Status: corev1.ConditionTrue}},
			want:       types.TrainJobSucceeded,
		},
		{
			name: "failed condition wins",
			conditions: []batchv1.JobCondition{
				{Type: batchv1.JobFailed, Status: corev1.ConditionTrue, Reason: "BackoffLimitExceeded", Message: "rank 1 exited 1"},
			},
			want: types.TrainJobFailed,
		},
		{
			name:       "false conditions are ignored",
			conditions: []batchv1.JobCondition{{Type: batchv1.JobFailed, Status: corev1.ConditionFalse}},
			active:     1,
			want:       types.TrainJobRunning,
		},
		{
			name:   "active pods without conditions",
			active: 2,
			want:   types.TrainJobRunning,
		},
		{
			name: "nothing scheduled yet",
			want: types.TrainJobScheduling,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &batchv1.Job{
				Status: batchv1.JobStatus{Conditions: tt.conditions, Active: tt.active},
			}
			got, _ := jobStatus(job)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrainJobComponentLogs(t *testing.T) {
	rankPod := func(name, index string) *corev1.Pod {
		return &corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{
				Name:        name,
				Namespace:   "tunehub-jobs",
				Labels:      map[string]string{"job-name": "ft-sentiment-01-1"},
				Annotations: map[string]string{rcommon.CompletionIndexAnnotation: index},
			},
		}
	}
	comp, _ := newTrainJobTestComponent(t, "v1.24.0",
		rankPod("ft-sentiment-01-1-0", "0"),
		rankPod("ft-sentiment-01-1-1", "1"),
	)

	t.Run("resolves the rank pod by annotation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ch, err := comp.Logs(ctx, "ft-sentiment-01-1", 1)
		require.NoError(t, err)
		line, ok := <-ch
		assert.True(t, ok)
		assert.NotEmpty(t, line)
	})

	t.Run("unknown rank", func(t *testing.T) {
		_, err := comp.Logs(context.Background(), "ft-sentiment-01-1", 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no pod found")
	})
}
