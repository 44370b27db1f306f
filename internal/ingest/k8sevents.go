package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/drcompass/backend-go/internal/domain"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// K8sEventSource turns Kubernetes warning events into raw payloads for the
// (kubernetes, events) mapping
type K8sEventSource struct {
	name      string
	clientset kubernetes.Interface
	namespace string
}

// NewK8sEventSource creates an event source over an existing clientset
func NewK8sEventSource(name string, clientset kubernetes.Interface, namespace string) *K8sEventSource {
	if namespace == "" {
		namespace = "default"
	}
	return &K8sEventSource{name: name, clientset: clientset, namespace: namespace}
}

func (s *K8sEventSource) Name() string              { return s.name }
func (s *K8sEventSource) Provider() domain.Provider { return domain.ProviderKubernetes }
func (s *K8sEventSource) Source() string            { return "events" }

// Fetch lists warning events in the namespace
func (s *K8sEventSource) Fetch(ctx context.Context) ([]map[string]any, error) {
	events, err := s.clientset.CoreV1().Events(s.namespace).List(ctx, metav1.ListOptions{
		FieldSelector: "type=Warning",
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	items := make([]map[string]any, 0, len(events.Items))
	for _, ev := range events.Items {
		item := map[string]any{
			"type":    ev.Type,
			"reason":  ev.Reason,
			"message": ev.Message,
			"count":   ev.Count,
		}
		if ev.InvolvedObject.Name != "" {
			kind := "obj"
			switch ev.InvolvedObject.Kind {
			case "Pod":
				kind = "pod"
			case "Deployment":
				kind = "deploy"
			case "Service":
				kind = "svc"
			}
			item["involvedObject"] = kind + "/" + ev.InvolvedObject.Name
		}
		if !ev.FirstTimestamp.IsZero() {
			item["firstTimestamp"] = ev.FirstTimestamp.UTC().Format(time.RFC3339)
		}
		items = append(items, item)
	}
	return items, nil
}
