package domain

import "time"

// Provider identifies the cloud platform a resource belongs to
type Provider string

const (
	ProviderAWS        Provider = "aws"
	ProviderAzure      Provider = "azure"
	ProviderGCP        Provider = "gcp"
	ProviderKubernetes Provider = "kubernetes"
	ProviderOnPrem     Provider = "onprem"
)

// ResourceStatus describes the lifecycle state of a resource
type ResourceStatus string

const (
	StatusRunning     ResourceStatus = "running"
	StatusStopped     ResourceStatus = "stopped"
	StatusDegraded    ResourceStatus = "degraded"
	StatusTerminating ResourceStatus = "terminating"
	StatusUnknown     ResourceStatus = "unknown"
)

// Relationship types used on edges
const (
	RelationDependsOn    = "depends-on"
	RelationBacksUp      = "backs-up"
	RelationReplicatesTo = "replicates-to"
	RelationContains     = "contains"
	RelationRoutesTo     = "routes-to"
)

// Well-known tag and metadata keys consulted by the analysis core
const (
	TagCriticality      = "criticality"
	MetadataBackup      = "backup"
	MetadataReplication = "replication"
)

// Backup strategy values recognised in node metadata
const (
	BackupNone       = "none"
	BackupSnapshot   = "snapshot"
	BackupHourly     = "hourly"
	BackupDaily      = "daily"
	BackupContinuous = "continuous"
)

// Replication values recognised in node metadata
const (
	ReplicationNone         = "none"
	ReplicationInRegion     = "in-region"
	ReplicationCrossRegion  = "cross-region"
	ReplicationActiveActive = "active-active"
)

// ResourceNode represents a single infrastructure resource in the graph.
// Only ID is required to be well-formed; every other field is best-effort
// data from discovery.
type ResourceNode struct {
	ID           string            `json:"id" binding:"required"`
	Name         string            `json:"name"`
	Provider     Provider          `json:"provider"`
	ResourceType string            `json:"resource_type"`
	Region       string            `json:"region,omitempty"`
	Status       ResourceStatus    `json:"status,omitempty"`
	Tags         map[string]string `json:"tags,omitempty"`
	Metadata     map[string]any    `json:"metadata,omitempty"`
	MonthlyCost  *float64          `json:"monthly_cost,omitempty"`
	Owner        *string           `json:"owner,omitempty"`
	CreatedAt    *time.Time        `json:"created_at,omitempty"`
}

// ResourceEdge represents a relationship between two resources.
// Edges may reference unknown nodes; such edges are kept but excluded
// from traversal-based analyses.
type ResourceEdge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

// BackupStrategy returns the backup strategy recorded on the node,
// defaulting to "none" when absent
func (n ResourceNode) BackupStrategy() string {
	if v, ok := n.Metadata[MetadataBackup].(string); ok && v != "" {
		return v
	}
	if v, ok := n.Tags[MetadataBackup]; ok && v != "" {
		return v
	}
	return BackupNone
}

// ReplicationMode returns the replication mode recorded on the node,
// defaulting to "none" when absent
func (n ResourceNode) ReplicationMode() string {
	if v, ok := n.Metadata[MetadataReplication].(string); ok && v != "" {
		return v
	}
	if v, ok := n.Tags[MetadataReplication]; ok && v != "" {
		return v
	}
	return ReplicationNone
}

// TaggedCritical reports whether the resource is explicitly marked critical
// via tags or metadata
func (n ResourceNode) TaggedCritical() bool {
	if v, ok := n.Tags[TagCriticality]; ok && (v == "critical" || v == "high") {
		return true
	}
	if v, ok := n.Tags["critical"]; ok && v == "true" {
		return true
	}
	if v, ok := n.Metadata[TagCriticality].(string); ok && (v == "critical" || v == "high") {
		return true
	}
	if v, ok := n.Metadata["critical"].(bool); ok && v {
		return true
	}
	return false
}
