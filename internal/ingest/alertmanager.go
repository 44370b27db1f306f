package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/drcompass/backend-go/internal/domain"
)

// AlertmanagerSource polls an Alertmanager-compatible endpoint for active
// alerts and flattens them into normalizer-ready payloads
type AlertmanagerSource struct {
	name    string
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// NewAlertmanagerSource creates a source polling baseURL/api/v2/alerts
func NewAlertmanagerSource(name, baseURL string, timeout time.Duration) *AlertmanagerSource {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &AlertmanagerSource{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *AlertmanagerSource) Name() string              { return s.name }
func (s *AlertmanagerSource) Provider() domain.Provider { return domain.ProviderOnPrem }
func (s *AlertmanagerSource) Source() string            { return "alertmanager" }

// alert mirrors the Alertmanager v2 wire shape we consume
type alert struct {
	Labels   map[string]string `json:"labels"`
	StartsAt string            `json:"startsAt"`
	EndsAt   string            `json:"endsAt"`
	Status   struct {
		State string `json:"state"`
	} `json:"status"`
}

// Fetch lists active alerts. Label fields are lifted to the top level so
// the (onprem, alertmanager) mapping can address them directly.
func (s *AlertmanagerSource) Fetch(ctx context.Context) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/v2/alerts", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alertmanager request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("alertmanager returned %d: %s", resp.StatusCode, string(body))
	}

	var alerts []alert
	if err := json.Unmarshal(body, &alerts); err != nil {
		return nil, fmt.Errorf("parse alerts: %w", err)
	}

	items := make([]map[string]any, 0, len(alerts))
	for _, a := range alerts {
		item := map[string]any{
			"startsAt": a.StartsAt,
			"state":    a.Status.State,
		}
		// EndsAt is a far-future placeholder while the alert is firing
		if a.Status.State == "resolved" && a.EndsAt != "" {
			item["endsAt"] = a.EndsAt
		}
		for k, v := range a.Labels {
			item[k] = v
		}
		items = append(items, item)
	}
	return items, nil
}
