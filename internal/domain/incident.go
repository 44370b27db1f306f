package domain

import "time"

// IncidentSeverity classifies incident impact
type IncidentSeverity string

const (
	SeverityCritical IncidentSeverity = "critical"
	SeverityHigh     IncidentSeverity = "high"
	SeverityMedium   IncidentSeverity = "medium"
	SeverityLow      IncidentSeverity = "low"
	SeverityInfo     IncidentSeverity = "info"
)

// Incident is the canonical, provider-independent incident record.
// ResourceID is nil when the source payload did not resolve to a known
// resource. Raw retains the original payload for traceability.
type Incident struct {
	ID         string           `json:"id"`
	Provider   Provider         `json:"provider"`
	Source     string           `json:"source"`
	Severity   IncidentSeverity `json:"severity"`
	Title      string           `json:"title,omitempty"`
	ResourceID *string          `json:"resource_id,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	EndedAt    *time.Time       `json:"ended_at,omitempty"`
	Raw        map[string]any   `json:"raw,omitempty"`
}

// Open reports whether the incident is still ongoing
func (i Incident) Open() bool {
	return i.EndedAt == nil
}

// CorrelationGroup clusters incidents believed to share a root cause,
// together with the evidence that justified grouping them.
type CorrelationGroup struct {
	ID              string     `json:"id"`
	IncidentIDs     []string   `json:"incident_ids"`
	SharedResources []string   `json:"shared_resources,omitempty"`
	WindowStart     time.Time  `json:"window_start"`
	WindowEnd       *time.Time `json:"window_end,omitempty"`
}

// IncidentSummary aggregates counts over a set of incidents
type IncidentSummary struct {
	Total          int            `json:"total"`
	Open           int            `json:"open"`
	BySeverity     map[string]int `json:"by_severity"`
	ByProvider     map[string]int `json:"by_provider"`
	ByResourceType map[string]int `json:"by_resource_type"`
}
