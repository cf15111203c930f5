package component

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/client-go/informers"
	"k8s.io/client-go/tools/cache"
	"k8s.io/utils/ptr"

	"tunehub.io/tunehub-server/builder/deploy/cluster"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	rcommon "tunehub.io/tunehub-server/runner/common"
)

const (
	jobScopeValue       = "trainjob"
	jobNameLabel        = "tunehub.io/job-name"
	jobPoolIDLabel      = "tunehub.io/pool-id"
	acceleratorFileName = "ds_config.json"
	acceleratorMount    = "/etc/tunehub"
	trainContainer      = "train"
)

type TrainJobComponent interface {
	Run(ctx context.Context, req types.RunJobReq) (*types.RunJobResponse, error)
	Stop(ctx context.Context, req types.StopJobReq) error
	Status(ctx context.Context, jobName string) (*types.JobStatusRes, error)
	Logs(ctx context.Context, jobName string, rank int) (<-chan []byte, error)
	RunInformer(ctx context.Context)
}

type trainJobComponentImpl struct {
	config      *config.Config
	clusterPool *cluster.ClusterPool
}

func NewTrainJobComponent(config *config.Config, clusterPool *cluster.ClusterPool) TrainJobComponent {
	return &trainJobComponentImpl{
		config:      config,
		clusterPool: clusterPool,
	}
}

// Run creates the three Kubernetes resources a distributed train job needs:
// a ConfigMap holding the accelerator JSON, a headless Service giving the
// indexed pods stable hostnames, and the indexed batch Job itself. Rank 0 is
// the rendezvous master; every pod gets the torchrun-style env injected.
func (t *trainJobComponentImpl) Run(ctx context.Context, req types.RunJobReq) (*types.RunJobResponse, error) {
	cls, err := t.clusterPool.ByPoolID(req.PoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to pick cluster for job %s: %w", req.JobName, err)
	}
	if err := cls.VerifyMinVersion(t.config.TrainJob.MinClusterVersion); err != nil {
		return nil, fmt.Errorf("cluster cannot run indexed jobs: %w", err)
	}

	namespace := t.config.TrainJob.Namespace

	if len(req.Accelerator) > 0 {
		cm := &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Name:      acceleratorConfigMapName(req.JobName),
				Namespace: namespace,
				Labels:    jobLabels(req.JobName, req.PoolID),
			},
			Data: map[string]string{acceleratorFileName: string(req.Accelerator)},
		}
		_, err = cls.Client.CoreV1().ConfigMaps(namespace).Create(ctx, cm, metav1.CreateOptions{})
		if err != nil && !apierrors.IsAlreadyExists(err) {
			return nil, fmt.Errorf("failed to create accelerator configmap for job %s: %w", req.JobName, err)
		}
	}

	svc := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      req.JobName,
			Namespace: namespace,
			Labels:    jobLabels(req.JobName, req.PoolID),
		},
		Spec: corev1.ServiceSpec{
			ClusterIP: corev1.ClusterIPNone,
			Selector:  map[string]string{"job-name": req.JobName},
			Ports: []corev1.ServicePort{{
				Name:       "rendezvous",
				Port:       int32(t.config.TrainJob.MasterPort),
				TargetPort: intstr.FromInt(t.config.TrainJob.MasterPort),
			}},
		},
	}
	_, err = cls.Client.CoreV1().Services(namespace).Create(ctx, svc, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return nil, fmt.Errorf("failed to create headless service for job %s: %w", req.JobName, err)
	}

	job := t.jobForRequest(req)
	_, err = cls.Client.BatchV1().Jobs(namespace).Create(ctx, job, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create batch job %s: %w", req.JobName, err)
	}
	rcommon.JobsStarted.Inc()

	return &types.RunJobResponse{JobName: req.JobName, Code: 0, Message: "scheduled"}, nil
}

func (t *trainJobComponentImpl) jobForRequest(req types.RunJobReq) *batchv1.Job {
	namespace := t.config.TrainJob.Namespace
	masterAddr := fmt.Sprintf("%s-0.%s.%s.svc.cluster.local", req.JobName, req.JobName, namespace)

	env := []corev1.EnvVar{
		{Name: "MASTER_ADDR", Value: masterAddr},
		{Name: "MASTER_PORT", Value: strconv.Itoa(t.config.TrainJob.MasterPort)},
		{Name: "WORLD_SIZE", Value: strconv.Itoa(req.NodeCount * req.ProcessCount)},
		{Name: "NNODES", Value: strconv.Itoa(req.NodeCount)},
		{Name: "NPROC_PER_NODE", Value: strconv.Itoa(req.ProcessCount)},
		{
			Name: "NODE_RANK",
			ValueFrom: &corev1.EnvVarSource{
				FieldRef: &corev1.ObjectFieldSelector{
					FieldPath: fmt.Sprintf("metadata.annotations['%s']", rcommon.CompletionIndexAnnotation),
				},
			},
		},
	}
	if req.DatasetPrefix != "" {
		env = append(env, corev1.EnvVar{Name: "DATASET_PREFIX", Value: req.DatasetPrefix})
	}
	if req.SourcePrefix != "" {
		env = append(env, corev1.EnvVar{Name: "SOURCE_PREFIX", Value: req.SourcePrefix})
	}
	if req.ArtifactPrefix != "" {
		env = append(env, corev1.EnvVar{Name: "ARTIFACT_PREFIX", Value: req.ArtifactPrefix})
	}
	if len(req.Accelerator) > 0 {
		env = append(env, corev1.EnvVar{Name: "DEEPSPEED_CONFIG", Value: acceleratorMount + "/" + acceleratorFileName})
	}
	for key, val := range req.Env {
		env = append(env, corev1.EnvVar{Name: key, Value: val})
	}

	resources := corev1.ResourceList{}
	if req.Hardware.Cpu.Num != "" {
		resources[corev1.ResourceCPU] = resource.MustParse(req.Hardware.Cpu.Num)
	}
	if req.Hardware.Memory != "" {
		resources[corev1.ResourceMemory] = resource.MustParse(req.Hardware.Memory)
	}
	if name := req.Hardware.GPUResourceName(); name != "" {
		resources[corev1.ResourceName(name)] = resource.MustParse(req.Hardware.GPUNum())
	}

	shmSize := resource.MustParse(fmt.Sprintf("%dGi", t.config.TrainJob.SharedMemoryGB))
	volumes := []corev1.Volume{
		{
			Name: "shm",
			VolumeSource: corev1.VolumeSource{
				EmptyDir: &corev1.EmptyDirVolumeSource{
					Medium:    corev1.StorageMediumMemory,
					SizeLimit: &shmSize,
				},
			},
		},
	}
	volumeMounts := []corev1.VolumeMount{
		{Name: "shm", MountPath: "/dev/shm"},
	}
	if len(req.Accelerator) > 0 {
		volumes = append(volumes, corev1.Volume{
			Name: "accelerator",
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{
						Name: acceleratorConfigMapName(req.JobName),
					},
				},
			},
		})
		volumeMounts = append(volumeMounts, corev1.VolumeMount{
			Name: "accelerator", MountPath: acceleratorMount,
		})
	}

	nodeCount := int32(req.NodeCount)
	return &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      req.JobName,
			Namespace: namespace,
			Labels:    jobLabels(req.JobName, req.PoolID),
		},
		Spec: batchv1.JobSpec{
			Completions:           &nodeCount,
			Parallelism:           &nodeCount,
			CompletionMode:        ptr.To(batchv1.IndexedCompletion),
			BackoffLimit:          ptr.To(int32(0)),
			ActiveDeadlineSeconds: ptr.To(int64(t.config.TrainJob.TimeoutInMin) * 60),
			TTLSecondsAfterFinished: ptr.To(
				int32(t.config.TrainJob.JobTTL)),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: jobLabels(req.JobName, req.PoolID),
				},
				Spec: corev1.PodSpec{
					Subdomain:     req.JobName,
					RestartPolicy: corev1.RestartPolicyNever,
					ImagePullSecrets: []corev1.LocalObjectReference{
						{Name: t.config.TrainJob.ImagePullSecret},
					},
					Containers: []corev1.Container{{
						Name:    trainContainer,
						Image:   req.Image,
						Command: []string{"/bin/sh", "-c"},
						Args:    []string{req.Command},
						Env:     env,
						Resources: corev1.ResourceRequirements{
							Limits:   resources,
							Requests: resources,
						},
						VolumeMounts: volumeMounts,
					}},
					Volumes: volumes,
				},
			},
		},
	}
}

// Stop deletes the job with foreground propagation so its pods go first,
// then the satellite service and configmap.
func (t *trainJobComponentImpl) Stop(ctx context.Context, req types.StopJobReq) error {
	cls, err := t.clusterPool.ByPoolID(req.PoolID)
	if err != nil {
		return fmt.Errorf("failed to pick cluster for job %s: %w", req.JobName, err)
	}
	namespace := t.config.TrainJob.Namespace

	propagation := metav1.DeletePropagationForeground
	err = cls.Client.BatchV1().Jobs(namespace).Delete(ctx, req.JobName, metav1.DeleteOptions{
		PropagationPolicy: &propagation,
	})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete batch job %s: %w", req.JobName, err)
	}
	if err := cls.Client.CoreV1().Services(namespace).Delete(ctx, req.JobName, metav1.DeleteOptions{}); err != nil && !apierrors.IsNotFound(err) {
		slog.Warn("failed to delete job service", slog.String("job", req.JobName), slog.Any("error", err))
	}
	err = cls.Client.CoreV1().ConfigMaps(namespace).Delete(ctx, acceleratorConfigMapName(req.JobName), metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		slog.Warn("failed to delete accelerator configmap", slog.String("job", req.JobName), slog.Any("error", err))
	}
	return nil
}

func (t *trainJobComponentImpl) Status(ctx context.Context, jobName string) (*types.JobStatusRes, error) {
	cls, err := t.clusterPool.ByPoolID("")
	if err != nil {
		return nil, err
	}
	job, err := cls.Client.BatchV1().Jobs(t.config.TrainJob.Namespace).Get(ctx, jobName, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return &types.JobStatusRes{JobName: jobName, Status: types.TrainJobStopped, Message: "job not found in cluster"}, nil
		}
		return nil, fmt.Errorf("failed to get batch job %s: %w", jobName, err)
	}
	status, message := jobStatus(job)
	return &types.JobStatusRes{JobName: jobName, Status: status, Message: message}, nil
}

// Logs follows the given rank's pod. The rank is resolved through the
// completion index annotation rather than a label selector so the
// lookup works on every cluster version the runner accepts.
func (t *trainJobComponentImpl) Logs(ctx context.Context, jobName string, rank int) (<-chan []byte, error) {
	cls, err := t.clusterPool.ByPoolID("")
	if err != nil {
		return nil, err
	}
	namespace := t.config.TrainJob.Namespace
	pod, err := rcommon.PodByCompletionIndex(ctx, cls.Client, namespace, jobName, rank)
	if err != nil {
		return nil, err
	}
	if pod == nil {
		return nil, fmt.Errorf("no pod found for job %s rank %d", jobName, rank)
	}
	return rcommon.GetPodLogStream(ctx, cls.Client, pod.Name, namespace, trainContainer)
}

// RunInformer watches labeled batch jobs on every pooled cluster and pushes
// a webhook on every status change. Blocks until ctx is done.
func (t *trainJobComponentImpl) RunInformer(ctx context.Context) {
	for i := range t.clusterPool.Clusters {
		go t.runClusterInformer(ctx, &t.clusterPool.Clusters[i])
	}
	<-ctx.Done()
}

func (t *trainJobComponentImpl) runClusterInformer(ctx context.Context, cls *cluster.Cluster) {
	defer runtime.HandleCrash()

	syncPeriod := time.Duration(t.config.Runner.InformerSyncPeriodInMin) * time.Minute
	f := informers.NewSharedInformerFactoryWithOptions(cls.Client, syncPeriod,
		informers.WithNamespace(t.config.TrainJob.Namespace),
		informers.WithTweakListOptions(func(list *metav1.ListOptions) {
			list.LabelSelector = fmt.Sprintf("%s=%s", buildScopeLabel, jobScopeValue)
		}))

	informer := f.Batch().V1().Jobs().Informer()
	_, _ = informer.AddEventHandler(cache.ResourceEventHandlerFuncs{
		AddFunc: func(obj interface{}) {
			t.reportJob(obj.(*batchv1.Job))
		},
		UpdateFunc: func(oldObj, newObj interface{}) {
			oldJob := oldObj.(*batchv1.Job)
			newJob := newObj.(*batchv1.Job)
			oldStatus, _ := jobStatus(oldJob)
			newStatus, _ := jobStatus(newJob)
			if oldStatus == newStatus {
				return
			}
			t.reportJob(newJob)
		},
	})

	informer.Run(ctx.Done())
	if !cache.WaitForCacheSync(ctx.Done(), informer.HasSynced) {
		runtime.HandleError(fmt.Errorf("timed out waiting for batch job cache to sync"))
	}
}

func (t *trainJobComponentImpl) reportJob(job *batchv1.Job) {
	jobName := job.Labels[jobNameLabel]
	if jobName == "" {
		return
	}
	status, message := jobStatus(job)
	event := &types.WebHookEvent{
		EventType: types.WebHookEventTrainJob,
		EventTime: time.Now().Unix(),
		PoolID:    job.Labels[jobPoolIDLabel],
		Job: &types.TrainJobEvent{
			JobName: jobName,
			Status:  status,
			Message: message,
		},
	}
	err := rcommon.Push(t.config.Runner.CallbackEndpoint, t.config.APIToken, event)
	if err != nil {
		slog.Error("failed to push job status event",
			slog.String("job", jobName), slog.Any("error", err))
		return
	}
	rcommon.WebhooksPushed.Inc()
	rcommon.PushCachedFailedEvents(t.config.Runner.CallbackEndpoint, t.config.APIToken)
}

// jobStatus maps batch job conditions onto the train job status machine.
// Success requires every index to finish; any failure condition is final
// because backoffLimit is zero.
func jobStatus(job *batchv1.Job) (types.TrainJobStatus, string) {
	for _, cond := range job.Status.Conditions {
		if cond.Status != corev1.ConditionTrue {
			continue
		}
		switch cond.Type {
		case batchv1.JobComplete:
			return types.TrainJobSucceeded, cond.Message
		case batchv1.JobFailed:
			return types.TrainJobFailed, fmt.Sprintf("%s: %s", cond.Reason, cond.Message)
		}
	}
	if job.Status.Active > 0 {
		return types.TrainJobRunning, ""
	}
	return types.TrainJobScheduling, ""
}

func jobLabels(jobName, poolID string) map[string]string {
	labels := map[string]string{
		buildScopeLabel: jobScopeValue,
		jobNameLabel:    jobName,
	}
	if poolID != "" {
		labels[jobPoolIDLabel] = poolID
	}
	return labels
}

func acceleratorConfigMapName(jobName string) string {
	return jobName + "-accelerator"
}
