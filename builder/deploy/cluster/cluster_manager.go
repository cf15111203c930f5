package cluster

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/argoproj/argo-workflows/v3/pkg/client/clientset/versioned"
	goversion "github.com/hashicorp/go-version"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
	knative "knative.dev/serving/pkg/client/clientset/versioned"
	lwscli "sigs.k8s.io/lws/client-go/clientset/versioned"
)

// InClusterPoolID names the connection built from the service account
// mounted into the runner pod, used when no kubeconfig files exist.
const InClusterPoolID = "in-cluster"

// Cluster bundles the clientsets for one backing Kubernetes connection.
type Cluster struct {
	PoolID        string // compute clusters reference their connection by this id
	ConfigPath    string // path to the kubeconfig file, empty for in-cluster
	Client        kubernetes.Interface
	KnativeClient knative.Interface
	LWSClient     lwscli.Interface
	ArgoClient    versioned.Interface
}

// ClusterPool holds every Kubernetes connection the runner can schedule onto.
type ClusterPool struct {
	Clusters []Cluster
}

// NewClusterPool builds a pool from the kubeconfig files under $HOME/.kube
// (every file named config*), falling back to the in-cluster config when
// none exist. The pool id of a kubeconfig connection is the file name.
func NewClusterPool() (*ClusterPool, error) {
	pool := &ClusterPool{}

	home := homedir.HomeDir()
	kubeconfigFolderPath := filepath.Join(home, ".kube")
	kubeconfigFiles, err := filepath.Glob(filepath.Join(kubeconfigFolderPath, "config*"))
	if err != nil {
		return nil, err
	}

	for _, kubeconfig := range kubeconfigFiles {
		restConfig, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, err
		}
		cluster, err := newCluster(filepath.Base(kubeconfig), kubeconfig, restConfig)
		if err != nil {
			return nil, err
		}
		pool.Clusters = append(pool.Clusters, *cluster)
	}

	if len(pool.Clusters) == 0 {
		slog.Info("no kubeconfig files, trying the in-cluster config", slog.Any("path", kubeconfigFolderPath))
		restConfig, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("no kubeconfig under %s and no in-cluster config: %w", kubeconfigFolderPath, err)
		}
		cluster, err := newCluster(InClusterPoolID, "", restConfig)
		if err != nil {
			return nil, err
		}
		pool.Clusters = append(pool.Clusters, *cluster)
	}

	return pool, nil
}

func newCluster(poolID, configPath string, restConfig *rest.Config) (*Cluster, error) {
	client, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, err
	}
	argoClient, err := versioned.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create argo client,%w", err)
	}
	knativeClient, err := knative.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create knative client,%w", err)
	}
	lwsClient, err := lwscli.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create lws client,%w", err)
	}
	return &Cluster{
		PoolID:        poolID,
		ConfigPath:    configPath,
		Client:        client,
		KnativeClient: knativeClient,
		LWSClient:     lwsClient,
		ArgoClient:    argoClient,
	}, nil
}

// ByPoolID returns the connection a compute cluster is backed by. An empty
// pool id selects the first connection.
func (p *ClusterPool) ByPoolID(poolID string) (*Cluster, error) {
	if len(p.Clusters) == 0 {
		return nil, fmt.Errorf("no available clusters")
	}
	if poolID == "" {
		return &p.Clusters[0], nil
	}
	for i := range p.Clusters {
		if p.Clusters[i].PoolID == poolID {
			return &p.Clusters[i], nil
		}
	}
	return nil, fmt.Errorf("cluster pool %s does not exist", poolID)
}

// ServerVersion reports the Kubernetes version of the backing cluster.
func (c *Cluster) ServerVersion() (string, error) {
	info, err := c.Client.Discovery().ServerVersion()
	if err != nil {
		return "", fmt.Errorf("failed to read cluster version: %w", err)
	}
	return info.GitVersion, nil
}

// VerifyMinVersion checks the backing cluster runs at least minVersion.
// Vendor suffixes like v1.28.3+k3s1 are tolerated.
func (c *Cluster) VerifyMinVersion(minVersion string) error {
	gitVersion, err := c.ServerVersion()
	if err != nil {
		return err
	}
	want, err := goversion.NewVersion(minVersion)
	if err != nil {
		return fmt.Errorf("invalid minimum cluster version %s: %w", minVersion, err)
	}
	got, err := goversion.NewVersion(strings.TrimPrefix(gitVersion, "v"))
	if err != nil {
		return fmt.Errorf("cannot parse cluster version %s: %w", gitVersion, err)
	}
	if got.Core().LessThan(want) {
		return fmt.Errorf("cluster version %s is below the required %s", gitVersion, minVersion)
	}
	return nil
}
