// Package incident normalizes heterogeneous provider event payloads into
// canonical incident records and correlates related incidents into groups.
package incident

import (
	"fmt"
	"strings"
	"time"

	"github.com/drcompass/backend-go/internal/domain"
	"github.com/google/uuid"
)

// IDGenerator produces identifiers for incidents and correlation groups.
// Injecting it keeps analysis deterministic and testable.
type IDGenerator interface {
	NewID() string
}

// ShortUUIDGenerator generates 8-char uuid-derived ids
type ShortUUIDGenerator struct{}

// NewID returns a new short id
func (ShortUUIDGenerator) NewID() string {
	return uuid.New().String()[:8]
}

// RecordError describes a single payload that failed to normalize
type RecordError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// mappingKey discriminates the per-(provider, source) field mapping
type mappingKey struct {
	provider domain.Provider
	source   string
}

// fieldMapping translates one payload shape into the canonical incident
type fieldMapping struct {
	severityField string
	resourceField string
	startField    string
	endField      string
	titleField    string
	timeLayout    string
	severityMap   map[string]domain.IncidentSeverity
}

// mappings is the explicit per-(provider, source) table. Unknown pairs are
// rejected up front rather than guessed at via shape inspection.
var mappings = map[mappingKey]fieldMapping{
	{domain.ProviderAWS, "cloudwatch"}: {
		severityField: "Severity",
		resourceField: "ResourceId",
		startField:    "StateChangeTime",
		endField:      "ResolvedTime",
		titleField:    "AlarmName",
		timeLayout:    time.RFC3339,
		severityMap: map[string]domain.IncidentSeverity{
			"CRITICAL": domain.SeverityCritical,
			"HIGH":     domain.SeverityHigh,
			"MEDIUM":   domain.SeverityMedium,
			"LOW":      domain.SeverityLow,
		},
	},
	{domain.ProviderAzure, "monitor"}: {
		severityField: "severity",
		resourceField: "resourceId",
		startField:    "firedDateTime",
		endField:      "resolvedDateTime",
		titleField:    "alertRule",
		timeLayout:    time.RFC3339,
		severityMap: map[string]domain.IncidentSeverity{
			"Sev0": domain.SeverityCritical,
			"Sev1": domain.SeverityHigh,
			"Sev2": domain.SeverityMedium,
			"Sev3": domain.SeverityLow,
			"Sev4": domain.SeverityInfo,
		},
	},
	{domain.ProviderGCP, "monitoring"}: {
		severityField: "severity",
		resourceField: "resource_name",
		startField:    "started_at",
		endField:      "ended_at",
		titleField:    "policy_name",
		timeLayout:    time.RFC3339,
		severityMap: map[string]domain.IncidentSeverity{
			"CRITICAL": domain.SeverityCritical,
			"ERROR":    domain.SeverityHigh,
			"WARNING":  domain.SeverityMedium,
		},
	},
	{domain.ProviderKubernetes, "events"}: {
		severityField: "type",
		resourceField: "involvedObject",
		startField:    "firstTimestamp",
		endField:      "",
		titleField:    "reason",
		timeLayout:    time.RFC3339,
		severityMap: map[string]domain.IncidentSeverity{
			"Warning": domain.SeverityMedium,
			"Normal":  domain.SeverityInfo,
		},
	},
	{domain.ProviderOnPrem, "alertmanager"}: {
		severityField: "severity",
		resourceField: "instance",
		startField:    "startsAt",
		endField:      "endsAt",
		titleField:    "alertname",
		timeLayout:    time.RFC3339,
		severityMap: map[string]domain.IncidentSeverity{
			"critical": domain.SeverityCritical,
			"warning":  domain.SeverityMedium,
			"info":     domain.SeverityInfo,
		},
	},
}

// Normalizer maps raw provider payloads into canonical incidents
type Normalizer struct {
	idgen IDGenerator
}

// NewNormalizer creates a Normalizer; a nil generator defaults to short
// uuids
func NewNormalizer(idgen IDGenerator) *Normalizer {
	if idgen == nil {
		idgen = ShortUUIDGenerator{}
	}
	return &Normalizer{idgen: idgen}
}

// Normalize converts a batch of raw payloads. A record that fails to map
// produces one RecordError and does not abort the rest of the batch. An
// unknown (provider, source) pair fails the whole call.
func (n *Normalizer) Normalize(provider domain.Provider, source string, items []map[string]any) ([]domain.Incident, []RecordError, error) {
	m, ok := mappings[mappingKey{provider, strings.ToLower(source)}]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s/%s", domain.ErrUnknownMapping, provider, source)
	}

	incidents := make([]domain.Incident, 0, len(items))
	errs := make([]RecordError, 0)

	for i, raw := range items {
		inc, err := n.normalizeOne(provider, source, m, raw)
		if err != nil {
			errs = append(errs, RecordError{Index: i, Error: err.Error()})
			continue
		}
		incidents = append(incidents, inc)
	}

	return incidents, errs, nil
}

func (n *Normalizer) normalizeOne(provider domain.Provider, source string, m fieldMapping, raw map[string]any) (domain.Incident, error) {
	sevRaw, err := stringField(raw, m.severityField)
	if err != nil {
		return domain.Incident{}, err
	}
	severity, ok := m.severityMap[sevRaw]
	if !ok {
		return domain.Incident{}, fmt.Errorf("unrecognised severity %q in field %q", sevRaw, m.severityField)
	}

	startRaw, err := stringField(raw, m.startField)
	if err != nil {
		return domain.Incident{}, err
	}
	started, err := time.Parse(m.timeLayout, startRaw)
	if err != nil {
		return domain.Incident{}, fmt.Errorf("field %q: %w", m.startField, err)
	}

	inc := domain.Incident{
		ID:        n.idgen.NewID(),
		Provider:  provider,
		Source:    strings.ToLower(source),
		Severity:  severity,
		StartedAt: started.UTC(),
		Raw:       raw,
	}

	if title, ok := raw[m.titleField].(string); ok {
		inc.Title = title
	}

	// Resource and end time are optional; an unresolved resource id stays nil
	if res, ok := raw[m.resourceField].(string); ok && res != "" {
		inc.ResourceID = &res
	}
	if m.endField != "" {
		if endRaw, ok := raw[m.endField].(string); ok && endRaw != "" {
			if ended, err := time.Parse(m.timeLayout, endRaw); err == nil {
				utc := ended.UTC()
				inc.EndedAt = &utc
			}
		}
	}

	return inc, nil
}

func stringField(raw map[string]any, field string) (string, error) {
	v, ok := raw[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrMissingField, field)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("field %q is not a non-empty string", field)
	}
	return s, nil
}
