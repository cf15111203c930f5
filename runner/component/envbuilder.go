package component

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/argoproj/argo-workflows/v3/pkg/apis/workflow/v1alpha1"
	"github.com/argoproj/argo-workflows/v3/pkg/client/informers/externalversions"
	internalinterfaces "github.com/argoproj/argo-workflows/v3/pkg/client/informers/externalversions/internalinterfaces"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/client-go/tools/cache"
	"k8s.io/utils/ptr"

	"tunehub.io/tunehub-server/builder/deploy/cluster"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	rcommon "tunehub.io/tunehub-server/runner/common"
)

const (
	buildScopeLabel   = "tunehub.io/scope"
	buildScopeValue   = "envbuilder"
	buildIDLabel      = "tunehub.io/build-id"
	buildPoolIDLabel  = "tunehub.io/pool-id"
	kanikoContainer   = "kaniko"
	dockerfileVolName = "dockerfile"
	dockerConfigVol   = "docker-config"
)

type EnvBuilderComponent interface {
	Build(ctx context.Context, req types.EnvironmentBuildReq) (*types.EnvironmentBuildResponse, error)
	Stop(ctx context.Context, req types.EnvironmentBuildStopReq) error
	Logs(ctx context.Context, buildID string) (<-chan []byte, error)
	RunInformer(ctx context.Context)
}

type envBuilderComponentImpl struct {
	config      *config.Config
	clusterPool *cluster.ClusterPool
}

func NewEnvBuilderComponent(config *config.Config, clusterPool *cluster.ClusterPool) EnvBuilderComponent {
	return &envBuilderComponentImpl{
		config:      config,
		clusterPool: clusterPool,
	}
}

// Build materializes the Dockerfile as a ConfigMap and submits an argo
// workflow running kaniko to build and push the environment image.
func (c *envBuilderComponentImpl) Build(ctx context.Context, req types.EnvironmentBuildReq) (*types.EnvironmentBuildResponse, error) {
	cls, err := c.clusterPool.ByPoolID(req.PoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to pick cluster for build %s: %w", req.BuildID, err)
	}

	namespace := c.config.Build.Namespace
	image := buildImageRef(c.config.Build.Registry, req.EnvironmentName, req.Version)

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      dockerfileConfigMapName(req.BuildID),
			Namespace: namespace,
			Labels: map[string]string{
				buildScopeLabel: buildScopeValue,
				buildIDLabel:    req.BuildID,
			},
		},
		Data: map[string]string{"Dockerfile": req.Dockerfile},
	}
	_, err = cls.Client.CoreV1().ConfigMaps(namespace).Create(ctx, cm, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return nil, fmt.Errorf("failed to create dockerfile configmap for build %s: %w", req.BuildID, err)
	}

	wf := c.workflowForBuild(req, image)
	_, err = cls.ArgoClient.ArgoprojV1alpha1().Workflows(namespace).Create(ctx, wf, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create build workflow for build %s: %w", req.BuildID, err)
	}
	rcommon.BuildsStarted.Inc()

	return &types.EnvironmentBuildResponse{Code: 0, Message: image}, nil
}

func (c *envBuilderComponentImpl) workflowForBuild(req types.EnvironmentBuildReq, image string) *v1alpha1.Workflow {
	kanikoArgs := []string{
		"--dockerfile=/workspace/Dockerfile",
		"--context=dir:///workspace",
		"--destination=" + image,
	}
	for key, val := range req.BuildArgs {
		kanikoArgs = append(kanikoArgs, fmt.Sprintf("--build-arg=%s=%s", key, val))
	}
	for _, arg := range c.config.Build.KanikoArgs {
		if arg == "" {
			continue
		}
		kanikoArgs = append(kanikoArgs, arg)
	}

	return &v1alpha1.Workflow{
		ObjectMeta: metav1.ObjectMeta{
			Name:      workflowName(req.BuildID),
			Namespace: c.config.Build.Namespace,
			Labels: map[string]string{
				buildScopeLabel:  buildScopeValue,
				buildIDLabel:     req.BuildID,
				buildPoolIDLabel: req.PoolID,
			},
			Annotations: map[string]string{
				"tunehub.io/environment": req.EnvironmentName,
				"tunehub.io/image":       image,
			},
		},
		Spec: v1alpha1.WorkflowSpec{
			Entrypoint:         "build",
			ServiceAccountName: c.config.Build.ServiceAccountName,
			TTLStrategy: &v1alpha1.TTLStrategy{
				SecondsAfterSuccess:    ptr.To(int32(c.config.Build.JobTTL)),
				SecondsAfterFailure:    ptr.To(int32(c.config.Build.JobTTL)),
				SecondsAfterCompletion: ptr.To(int32(c.config.Build.JobTTL)),
			},
			Volumes: []corev1.Volume{
				{
					Name: dockerfileVolName,
					VolumeSource: corev1.VolumeSource{
						ConfigMap: &corev1.ConfigMapVolumeSource{
							LocalObjectReference: corev1.LocalObjectReference{
								Name: dockerfileConfigMapName(req.BuildID),
							},
						},
					},
				},
				{
					Name: dockerConfigVol,
					VolumeSource: corev1.VolumeSource{
						Secret: &corev1.SecretVolumeSource{
							SecretName: c.config.Build.RegistrySecretName,
							Items: []corev1.KeyToPath{
								{Key: ".dockerconfigjson", Path: "config.json"},
							},
						},
					},
				},
			},
			Templates: []v1alpha1.Template{
				{
					Name: "build",
					Container: &corev1.Container{
						Name:  kanikoContainer,
						Image: c.config.Build.KanikoImage,
						Args:  kanikoArgs,
						VolumeMounts: []corev1.VolumeMount{
							{Name: dockerfileVolName, MountPath: "/workspace"},
							{Name: dockerConfigVol, MountPath: "/kaniko/.docker"},
						},
					},
				},
			},
		},
	}
}

// Stop terminates a running build by deleting its workflow. The dockerfile
// configmap goes with it.
func (c *envBuilderComponentImpl) Stop(ctx context.Context, req types.EnvironmentBuildStopReq) error {
	cls, err := c.clusterPool.ByPoolID(req.PoolID)
	if err != nil {
		return fmt.Errorf("failed to pick cluster for build %s: %w", req.BuildID, err)
	}
	namespace := c.config.Build.Namespace
	err = cls.ArgoClient.ArgoprojV1alpha1().Workflows(namespace).Delete(ctx, workflowName(req.BuildID), metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete build workflow %s: %w", req.BuildID, err)
	}
	err = cls.Client.CoreV1().ConfigMaps(namespace).Delete(ctx, dockerfileConfigMapName(req.BuildID), metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		slog.Warn("failed to delete dockerfile configmap", slog.String("build_id", req.BuildID), slog.Any("error", err))
	}
	return nil
}

// Logs follows the kaniko container of the build pod.
func (c *envBuilderComponentImpl) Logs(ctx context.Context, buildID string) (<-chan []byte, error) {
	cls, err := c.clusterPool.ByPoolID("")
	if err != nil {
		return nil, err
	}
	namespace := c.config.Build.Namespace
	selector := fmt.Sprintf("workflows.argoproj.io/workflow=%s", workflowName(buildID))
	pod, err := rcommon.FirstPodBySelector(ctx, cls.Client, namespace, selector)
	if err != nil {
		return nil, err
	}
	if pod == nil {
		return nil, fmt.Errorf("no build pod found for build %s", buildID)
	}
	return rcommon.GetPodLogStream(ctx, cls.Client, pod.Name, namespace, "main")
}

// RunInformer watches build workflows on every pooled cluster and pushes a
// webhook whenever a build changes phase. Blocks until ctx is done.
func (c *envBuilderComponentImpl) RunInformer(ctx context.Context) {
	for i := range c.clusterPool.Clusters {
		go c.runClusterInformer(ctx, &c.clusterPool.Clusters[i])
	}
	<-ctx.Done()
}

func (c *envBuilderComponentImpl) runClusterInformer(ctx context.Context, cls *cluster.Cluster) {
	defer runtime.HandleCrash()

	syncPeriod := time.Duration(c.config.Runner.InformerSyncPeriodInMin) * time.Minute
	f := externalversions.NewFilteredSharedInformerFactory(cls.ArgoClient, syncPeriod, c.config.Build.Namespace,
		internalinterfaces.TweakListOptionsFunc(func(list *metav1.ListOptions) {
			list.LabelSelector = fmt.Sprintf("%s=%s", buildScopeLabel, buildScopeValue)
		}))

	informer := f.Argoproj().V1alpha1().Workflows().Informer()
	_, _ = informer.AddEventHandler(cache.ResourceEventHandlerFuncs{
		AddFunc: func(obj interface{}) {
			c.reportWorkflow(obj.(*v1alpha1.Workflow))
		},
		UpdateFunc: func(oldObj, newObj interface{}) {
			oldWF := oldObj.(*v1alpha1.Workflow)
			newWF := newObj.(*v1alpha1.Workflow)
			if oldWF.Status.Phase == newWF.Status.Phase {
				return
			}
			c.reportWorkflow(newWF)
		},
	})

	informer.Run(ctx.Done())
	if !cache.WaitForCacheSync(ctx.Done(), informer.HasSynced) {
		runtime.HandleError(fmt.Errorf("timed out waiting for build workflow cache to sync"))
	}
}

func (c *envBuilderComponentImpl) reportWorkflow(wf *v1alpha1.Workflow) {
	buildID := wf.Labels[buildIDLabel]
	if buildID == "" {
		return
	}
	status, image := buildStatusForPhase(wf)
	event := &types.WebHookEvent{
		EventType: types.WebHookEventEnvironmentBuild,
		EventTime: time.Now().Unix(),
		PoolID:    wf.Labels[buildPoolIDLabel],
		Build: &types.EnvironmentBuildEvent{
			BuildID: buildID,
			Status:  status,
			Message: wf.Status.Message,
			Image:   image,
		},
	}
	err := rcommon.Push(c.config.Runner.CallbackEndpoint, c.config.APIToken, event)
	if err != nil {
		slog.Error("failed to push build status event",
			slog.String("build_id", buildID), slog.Any("error", err))
		return
	}
	rcommon.WebhooksPushed.Inc()
	rcommon.PushCachedFailedEvents(c.config.Runner.CallbackEndpoint, c.config.APIToken)
}

func buildStatusForPhase(wf *v1alpha1.Workflow) (types.EnvironmentBuildStatus, string) {
	switch wf.Status.Phase {
	case v1alpha1.WorkflowSucceeded:
		return types.BuildStatusSucceeded, wf.Annotations["tunehub.io/image"]
	case v1alpha1.WorkflowFailed, v1alpha1.WorkflowError:
		return types.BuildStatusFailed, ""
	case v1alpha1.WorkflowRunning:
		return types.BuildStatusBuilding, ""
	default:
		return types.BuildStatusPending, ""
	}
}

func dockerfileConfigMapName(buildID string) string {
	return fmt.Sprintf("build-%s-dockerfile", buildID)
}

func workflowName(buildID string) string {
	return fmt.Sprintf("envbuild-%s", buildID)
}

// buildImageRef names the pushed image; the unix suffix keeps retried
// builds of the same version from overwriting each other in the registry.
func buildImageRef(registry, envName string, version int) string {
	return fmt.Sprintf("%s:v%d-%d", path.Join(registry, envName), version, time.Now().Unix())
}
