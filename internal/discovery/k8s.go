// Package discovery contains the provider adapters that populate the
// resource graph, plus the snapshot holder the API serves from. Adapters
// only produce node/edge lists; all analysis happens in the core packages.
package discovery

import (
	"context"
	"fmt"

	"github.com/drcompass/backend-go/internal/domain"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// K8sDiscoverer lists Kubernetes workloads and maps them into the
// canonical resource model
type K8sDiscoverer struct {
	clientset kubernetes.Interface
	namespace string
	region    string
}

// NewK8sDiscoverer creates a K8sDiscoverer with in-cluster or kubeconfig
// auth. region is stamped on every discovered node since the cluster
// itself knows its placement, not the API objects.
func NewK8sDiscoverer(kubeconfig, namespace, region string) (*K8sDiscoverer, error) {
	var cfg *rest.Config
	var err error

	if kubeconfig != "" {
		cfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	} else {
		cfg, err = rest.InClusterConfig()
		if err != nil {
			cfg, err = clientcmd.BuildConfigFromFlags("", clientcmd.RecommendedHomeFile)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("k8s config: %w", err)
	}

	cs, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("k8s clientset: %w", err)
	}

	if namespace == "" {
		namespace = "default"
	}
	return &K8sDiscoverer{clientset: cs, namespace: namespace, region: region}, nil
}

// NewK8sDiscovererWithClient wires an existing clientset; used by tests
// and by callers that manage auth themselves
func NewK8sDiscovererWithClient(cs kubernetes.Interface, namespace, region string) *K8sDiscoverer {
	if namespace == "" {
		namespace = "default"
	}
	return &K8sDiscoverer{clientset: cs, namespace: namespace, region: region}
}

// Name identifies the adapter in logs and errors
func (d *K8sDiscoverer) Name() string { return "kubernetes" }

// Clientset exposes the underlying client for the event ingest source
func (d *K8sDiscoverer) Clientset() kubernetes.Interface { return d.clientset }

// Discover lists deployments, pods, services and persistent volume
// claims in the configured namespace and returns canonical nodes and
// edges
func (d *K8sDiscoverer) Discover(ctx context.Context) ([]domain.ResourceNode, []domain.ResourceEdge, error) {
	nodes := make([]domain.ResourceNode, 0)
	edges := make([]domain.ResourceEdge, 0)

	deployments, err := d.clientset.AppsV1().Deployments(d.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("list deployments: %w", err)
	}
	for _, dep := range deployments.Items {
		status := domain.StatusDegraded
		if dep.Status.ReadyReplicas == dep.Status.Replicas {
			status = domain.StatusRunning
		}
		nodes = append(nodes, domain.ResourceNode{
			ID:           "deploy/" + dep.Name,
			Name:         dep.Name,
			Provider:     domain.ProviderKubernetes,
			ResourceType: "deployment",
			Region:       d.region,
			Status:       status,
			Tags:         dep.Labels,
			Metadata: map[string]any{
				"namespace":      d.namespace,
				"replicas":       dep.Status.Replicas,
				"ready_replicas": dep.Status.ReadyReplicas,
			},
		})
	}

	pods, err := d.clientset.CoreV1().Pods(d.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("list pods: %w", err)
	}
	for _, pod := range pods.Items {
		podID := "pod/" + pod.Name
		status := domain.StatusUnknown
		switch pod.Status.Phase {
		case corev1.PodRunning:
			status = domain.StatusRunning
		case corev1.PodFailed:
			status = domain.StatusStopped
		case corev1.PodPending:
			status = domain.StatusDegraded
		}

		created := pod.CreationTimestamp.Time
		nodes = append(nodes, domain.ResourceNode{
			ID:           podID,
			Name:         pod.Name,
			Provider:     domain.ProviderKubernetes,
			ResourceType: "pod",
			Region:       d.region,
			Status:       status,
			Tags:         pod.Labels,
			Metadata:     map[string]any{"namespace": d.namespace, "phase": string(pod.Status.Phase)},
			CreatedAt:    &created,
		})

		for _, owner := range pod.OwnerReferences {
			if owner.Kind == "ReplicaSet" {
				for _, dep := range deployments.Items {
					if matchesSelector(pod.Labels, dep.Spec.Selector) {
						edges = append(edges, domain.ResourceEdge{
							Source:   "deploy/" + dep.Name,
							Target:   podID,
							Relation: domain.RelationContains,
						})
					}
				}
			}
		}
	}

	services, err := d.clientset.CoreV1().Services(d.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("list services: %w", err)
	}
	for _, svc := range services.Items {
		svcID := "svc/" + svc.Name
		nodes = append(nodes, domain.ResourceNode{
			ID:           svcID,
			Name:         svc.Name,
			Provider:     domain.ProviderKubernetes,
			ResourceType: "service",
			Region:       d.region,
			Status:       domain.StatusRunning,
			Tags:         svc.Labels,
			Metadata:     map[string]any{"namespace": d.namespace, "cluster_ip": svc.Spec.ClusterIP},
		})

		for _, pod := range pods.Items {
			if len(svc.Spec.Selector) > 0 && labelsMatch(pod.Labels, svc.Spec.Selector) {
				edges = append(edges, domain.ResourceEdge{
					Source:   svcID,
					Target:   "pod/" + pod.Name,
					Relation: domain.RelationRoutesTo,
				})
			}
		}
	}

	pvcs, err := d.clientset.CoreV1().PersistentVolumeClaims(d.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("list pvcs: %w", err)
	}
	for _, pvc := range pvcs.Items {
		pvcID := "pvc/" + pvc.Name
		status := domain.StatusRunning
		if pvc.Status.Phase != corev1.ClaimBound {
			status = domain.StatusDegraded
		}
		nodes = append(nodes, domain.ResourceNode{
			ID:           pvcID,
			Name:         pvc.Name,
			Provider:     domain.ProviderKubernetes,
			ResourceType: "pvc",
			Region:       d.region,
			Status:       status,
			Tags:         pvc.Labels,
			Metadata: map[string]any{
				"namespace": d.namespace,
				"phase":     string(pvc.Status.Phase),
				"volume":    pvc.Spec.VolumeName,
			},
		})
	}

	// Pods depend on the claims they mount
	for _, pod := range pods.Items {
		for _, vol := range pod.Spec.Volumes {
			if vol.PersistentVolumeClaim != nil {
				edges = append(edges, domain.ResourceEdge{
					Source:   "pod/" + pod.Name,
					Target:   "pvc/" + vol.PersistentVolumeClaim.ClaimName,
					Relation: domain.RelationDependsOn,
				})
			}
		}
	}

	return nodes, edges, nil
}

func matchesSelector(labels map[string]string, selector *metav1.LabelSelector) bool {
	if selector == nil {
		return false
	}
	return labelsMatch(labels, selector.MatchLabels)
}

func labelsMatch(labels, selector map[string]string) bool {
	if len(selector) == 0 {
		return false
	}
	for k, v := range selector {
		if labels[k] != v {
			return false
		}
	}
	return true
}
