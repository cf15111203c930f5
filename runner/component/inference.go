package component

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/client-go/tools/cache"
	"k8s.io/utils/ptr"
	servingv1 "knative.dev/serving/pkg/apis/serving/v1"
	"knative.dev/serving/pkg/client/informers/externalversions"
	lwsv1 "sigs.k8s.io/lws/api/leaderworkerset/v1"

	"tunehub.io/tunehub-server/builder/deploy/cluster"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	rcommon "tunehub.io/tunehub-server/runner/common"
)

const (
	serviceScopeValue  = "inference"
	serviceNameLabel   = "tunehub.io/service-name"
	servicePoolIDLabel = "tunehub.io/pool-id"
	lwsSuffix          = "-lws"
	servePort          = 8000
)

type InferenceComponent interface {
	Deploy(ctx context.Context, req types.RunServiceReq) (*types.RunServiceResponse, error)
	Stop(ctx context.Context, req types.StopServiceReq) error
	Status(ctx context.Context, serviceName string) (*types.ServiceStatusRes, error)
	RunInformer(ctx context.Context)
}

type inferenceComponentImpl struct {
	config      *config.Config
	clusterPool *cluster.ClusterPool
}

func NewInferenceComponent(config *config.Config, clusterPool *cluster.ClusterPool) InferenceComponent {
	return &inferenceComponentImpl{
		config:      config,
		clusterPool: clusterPool,
	}
}

// Deploy creates the serving resources for a model version. Single-node
// models become a plain knative service. Multi-node models become a
// LeaderWorkerSet plus a knative service running a proxy to the leader, so
// every deployment exposes the same knative URL surface.
func (c *inferenceComponentImpl) Deploy(ctx context.Context, req types.RunServiceReq) (*types.RunServiceResponse, error) {
	cls, err := c.clusterPool.ByPoolID(req.PoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to pick cluster for service %s: %w", req.ServiceName, err)
	}
	namespace := c.config.Inference.Namespace

	if req.NodeCount > 1 {
		lws := c.leaderWorkerSetForRequest(req)
		_, err = cls.LWSClient.LeaderworkersetV1().LeaderWorkerSets(namespace).Create(ctx, lws, metav1.CreateOptions{})
		if err != nil && !apierrors.IsAlreadyExists(err) {
			return nil, fmt.Errorf("failed to create leaderworkerset for service %s: %w", req.ServiceName, err)
		}
	}

	ksvc := c.knativeServiceForRequest(req)
	_, err = cls.KnativeClient.ServingV1().Services(namespace).Create(ctx, ksvc, metav1.CreateOptions{})
	if err != nil {
		if req.NodeCount > 1 {
			// don't leave the workerset orphaned
			delErr := cls.LWSClient.LeaderworkersetV1().LeaderWorkerSets(namespace).Delete(ctx, req.ServiceName+lwsSuffix, metav1.DeleteOptions{})
			if delErr != nil && !apierrors.IsNotFound(delErr) {
				slog.Warn("failed to clean up leaderworkerset after ksvc failure",
					slog.String("service", req.ServiceName), slog.Any("error", delErr))
			}
		}
		return nil, fmt.Errorf("failed to create knative service %s: %w", req.ServiceName, err)
	}
	rcommon.ServicesDeployed.Inc()

	return &types.RunServiceResponse{ServiceName: req.ServiceName, Code: 0, Message: "deploying"}, nil
}

func (c *inferenceComponentImpl) knativeServiceForRequest(req types.RunServiceReq) *servingv1.Service {
	env := []corev1.EnvVar{}
	for key, val := range req.Env {
		env = append(env, corev1.EnvVar{Name: key, Value: val})
	}
	if req.ModelPrefix != "" {
		env = append(env, corev1.EnvVar{Name: "MODEL_PREFIX", Value: req.ModelPrefix})
	}

	image := req.Image
	resources := corev1.ResourceList{}
	var command []string
	var args []string
	if req.NodeCount > 1 {
		// the ksvc is only a stable front for the leader service
		image = c.config.Inference.ProxyImage
		env = append(env, corev1.EnvVar{
			Name:  "UPSTREAM",
			Value: fmt.Sprintf("%s%s-0:%d", req.ServiceName, lwsSuffix, servePort),
		})
	} else {
		if req.Hardware.Cpu.Num != "" {
			resources[corev1.ResourceCPU] = resource.MustParse(req.Hardware.Cpu.Num)
		}
		if req.Hardware.Memory != "" {
			resources[corev1.ResourceMemory] = resource.MustParse(req.Hardware.Memory)
		}
		if name := req.Hardware.GPUResourceName(); name != "" {
			resources[corev1.ResourceName(name)] = resource.MustParse(req.Hardware.GPUNum())
		}
		if req.Command != "" {
			command = []string{"/bin/sh", "-c"}
			args = []string{req.Command}
		}
	}

	templateAnnotations := map[string]string{
		"autoscaling.knative.dev/class":     "kpa.autoscaling.knative.dev",
		"autoscaling.knative.dev/metric":    "concurrency",
		"autoscaling.knative.dev/min-scale": "1",
		"autoscaling.knative.dev/max-scale": "1",
		"serving.knative.dev/progress-deadline": fmt.Sprintf("%dm",
			c.config.Inference.DeployTimeoutInMin),
	}

	return &servingv1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      req.ServiceName,
			Namespace: c.config.Inference.Namespace,
			Labels:    serviceLabels(req.ServiceName, req.PoolID),
		},
		Spec: servingv1.ServiceSpec{
			ConfigurationSpec: servingv1.ConfigurationSpec{
				Template: servingv1.RevisionTemplateSpec{
					ObjectMeta: metav1.ObjectMeta{
						Annotations: templateAnnotations,
						Labels:      serviceLabels(req.ServiceName, req.PoolID),
					},
					Spec: servingv1.RevisionSpec{
						PodSpec: corev1.PodSpec{
							ImagePullSecrets: []corev1.LocalObjectReference{
								{Name: c.config.TrainJob.ImagePullSecret},
							},
							Containers: []corev1.Container{{
								Image:   image,
								Command: command,
								Args:    args,
								Env:     env,
								Ports: []corev1.ContainerPort{{
									ContainerPort: servePort,
								}},
								Resources: corev1.ResourceRequirements{
									Limits:   resources,
									Requests: resources,
								},
								ReadinessProbe: &corev1.Probe{
									InitialDelaySeconds: int32(c.config.Inference.ReadinessDelaySeconds),
									PeriodSeconds:       int32(c.config.Inference.ReadinessPeriodSeconds),
									FailureThreshold:    int32(c.config.Inference.ReadinessFailureThreshold),
								},
							}},
						},
					},
				},
			},
		},
	}
}

func (c *inferenceComponentImpl) leaderWorkerSetForRequest(req types.RunServiceReq) *lwsv1.LeaderWorkerSet {
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

	env := []corev1.EnvVar{
		{Name: "WORLD_SIZE", Value: strconv.Itoa(req.NodeCount * req.ProcessCount)},
		{Name: "NPROC_PER_NODE", Value: strconv.Itoa(req.ProcessCount)},
	}
	if req.ModelPrefix != "" {
		env = append(env, corev1.EnvVar{Name: "MODEL_PREFIX", Value: req.ModelPrefix})
	}
	for key, val := range req.Env {
		env = append(env, corev1.EnvVar{Name: key, Value: val})
	}

	var command []string
	var args []string
	if req.Command != "" {
		command = []string{"/bin/sh", "-c"}
		args = []string{req.Command}
	}

	podSpec := func(role string) corev1.PodSpec {
		return corev1.PodSpec{
			ImagePullSecrets: []corev1.LocalObjectReference{
				{Name: c.config.TrainJob.ImagePullSecret},
			},
			Containers: []corev1.Container{{
				Name:    role,
				Image:   req.Image,
				Command: command,
				Args:    args,
				Env:     env,
				Resources: corev1.ResourceRequirements{
					Limits:   resources,
					Requests: resources,
				},
				Ports: []corev1.ContainerPort{{
					ContainerPort: servePort,
				}},
			}},
		}
	}

	leaderTemplate := &corev1.PodTemplateSpec{
		ObjectMeta: metav1.ObjectMeta{
			Labels: map[string]string{
				"app":  req.ServiceName,
				"role": "leader",
			},
		},
		Spec: podSpec("leader"),
	}

	return &lwsv1.LeaderWorkerSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      req.ServiceName + lwsSuffix,
			Namespace: c.config.Inference.Namespace,
			Labels:    serviceLabels(req.ServiceName, req.PoolID),
		},
		Spec: lwsv1.LeaderWorkerSetSpec{
			Replicas:      ptr.To(int32(1)),
			StartupPolicy: lwsv1.LeaderReadyStartupPolicy,
			LeaderWorkerTemplate: lwsv1.LeaderWorkerTemplate{
				RestartPolicy: lwsv1.NoneRestartPolicy,
				Size:          ptr.To(int32(req.NodeCount)),
				LeaderTemplate: leaderTemplate,
				WorkerTemplate: corev1.PodTemplateSpec{
					ObjectMeta: metav1.ObjectMeta{
						Labels: map[string]string{"app": req.ServiceName},
					},
					Spec: podSpec("worker"),
				},
			},
		},
	}
}

// Stop removes the knative service and, when present, the workerset.
func (c *inferenceComponentImpl) Stop(ctx context.Context, req types.StopServiceReq) error {
	cls, err := c.clusterPool.ByPoolID(req.PoolID)
	if err != nil {
		return fmt.Errorf("failed to pick cluster for service %s: %w", req.ServiceName, err)
	}
	namespace := c.config.Inference.Namespace

	err = cls.KnativeClient.ServingV1().Services(namespace).Delete(ctx, req.ServiceName, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete knative service %s: %w", req.ServiceName, err)
	}
	err = cls.LWSClient.LeaderworkersetV1().LeaderWorkerSets(namespace).Delete(ctx, req.ServiceName+lwsSuffix, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete leaderworkerset for service %s: %w", req.ServiceName, err)
	}
	return nil
}

func (c *inferenceComponentImpl) Status(ctx context.Context, serviceName string) (*types.ServiceStatusRes, error) {
	cls, err := c.clusterPool.ByPoolID("")
	if err != nil {
		return nil, err
	}
	ksvc, err := cls.KnativeClient.ServingV1().Services(c.config.Inference.Namespace).Get(ctx, serviceName, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return &types.ServiceStatusRes{ServiceName: serviceName, Status: types.InferenceStatusStopped}, nil
		}
		return nil, fmt.Errorf("failed to get knative service %s: %w", serviceName, err)
	}
	status, endpoint, message := serviceStatus(ksvc)
	return &types.ServiceStatusRes{
		ServiceName: serviceName,
		Status:      status,
		Endpoint:    endpoint,
		Message:     message,
	}, nil
}

// RunInformer watches labeled knative services on every pooled cluster and
// pushes a webhook on readiness transitions. Blocks until ctx is done.
func (c *inferenceComponentImpl) RunInformer(ctx context.Context) {
	for i := range c.clusterPool.Clusters {
		go c.runClusterInformer(ctx, &c.clusterPool.Clusters[i])
	}
	<-ctx.Done()
}

func (c *inferenceComponentImpl) runClusterInformer(ctx context.Context, cls *cluster.Cluster) {
	defer runtime.HandleCrash()

	syncPeriod := time.Duration(c.config.Runner.InformerSyncPeriodInMin) * time.Minute
	f := externalversions.NewSharedInformerFactoryWithOptions(cls.KnativeClient, syncPeriod,
		externalversions.WithNamespace(c.config.Inference.Namespace),
		externalversions.WithTweakListOptions(func(list *metav1.ListOptions) {
			list.LabelSelector = fmt.Sprintf("%s=%s", buildScopeLabel, serviceScopeValue)
		}))

	informer := f.Serving().V1().Services().Informer()
	_, _ = informer.AddEventHandler(cache.ResourceEventHandlerFuncs{
		AddFunc: func(obj interface{}) {
			c.reportService(obj.(*servingv1.Service))
		},
		UpdateFunc: func(oldObj, newObj interface{}) {
			oldSvc := oldObj.(*servingv1.Service)
			newSvc := newObj.(*servingv1.Service)
			oldStatus, _, _ := serviceStatus(oldSvc)
			newStatus, _, _ := serviceStatus(newSvc)
			if oldStatus == newStatus {
				return
			}
			c.reportService(newSvc)
		},
		DeleteFunc: func(obj interface{}) {
			ksvc, ok := obj.(*servingv1.Service)
			if !ok {
				return
			}
			c.report(ksvc.Labels[serviceNameLabel], ksvc.Labels[servicePoolIDLabel],
				types.InferenceStatusStopped, "", "service deleted")
		},
	})

	informer.Run(ctx.Done())
	if !cache.WaitForCacheSync(ctx.Done(), informer.HasSynced) {
		runtime.HandleError(fmt.Errorf("timed out waiting for knative service cache to sync"))
	}
}

func (c *inferenceComponentImpl) reportService(ksvc *servingv1.Service) {
	status, endpoint, message := serviceStatus(ksvc)
	c.report(ksvc.Labels[serviceNameLabel], ksvc.Labels[servicePoolIDLabel], status, endpoint, message)
}

func (c *inferenceComponentImpl) report(serviceName, poolID string, status types.InferenceStatus, endpoint, message string) {
	if serviceName == "" {
		return
	}
	event := &types.WebHookEvent{
		EventType: types.WebHookEventInferenceService,
		EventTime: time.Now().Unix(),
		PoolID:    poolID,
		Service: &types.InferenceEvent{
			ServiceName: serviceName,
			Status:      status,
			Endpoint:    endpoint,
			Message:     message,
		},
	}
	err := rcommon.Push(c.config.Runner.CallbackEndpoint, c.config.APIToken, event)
	if err != nil {
		slog.Error("failed to push service status event",
			slog.String("service", serviceName), slog.Any("error", err))
		return
	}
	rcommon.WebhooksPushed.Inc()
	rcommon.PushCachedFailedEvents(c.config.Runner.CallbackEndpoint, c.config.APIToken)
}

func serviceStatus(ksvc *servingv1.Service) (types.InferenceStatus, string, string) {
	endpoint := ""
	if ksvc.Status.URL != nil {
		endpoint = ksvc.Status.URL.String()
	}
	for _, cond := range ksvc.Status.Conditions {
		if cond.Type != servingv1.ServiceConditionReady {
			continue
		}
		switch cond.Status {
		case corev1.ConditionTrue:
			return types.InferenceStatusRunning, endpoint, ""
		case corev1.ConditionFalse:
			return types.InferenceStatusFailed, endpoint, fmt.Sprintf("%s: %s", cond.Reason, cond.Message)
		default:
			return types.InferenceStatusDeploying, endpoint, cond.Message
		}
	}
	return types.InferenceStatusDeploying, endpoint, ""
}

func serviceLabels(serviceName, poolID string) map[string]string {
	labels := map[string]string{
		buildScopeLabel:  serviceScopeValue,
		serviceNameLabel: serviceName,
	}
	if poolID != "" {
		labels[servicePoolIDLabel] = poolID
	}
	return labels
}
