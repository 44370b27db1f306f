package discovery

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/drcompass/backend-go/internal/domain"
)

// AwsDiscoverer lists EC2 and RDS resources and maps them into the
// canonical resource model
type AwsDiscoverer struct {
	ec2Client *ec2.Client
	rdsClient *rds.Client
	region    string
}

// NewAwsDiscoverer creates an AwsDiscoverer for the given region using the
// default credential chain
func NewAwsDiscoverer(ctx context.Context, region string) (*AwsDiscoverer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	return &AwsDiscoverer{
		ec2Client: ec2.NewFromConfig(cfg),
		rdsClient: rds.NewFromConfig(cfg),
		region:    region,
	}, nil
}

// Name identifies the adapter in logs and errors
func (d *AwsDiscoverer) Name() string { return "aws" }

// Discover lists EC2 instances and RDS clusters. An RDS listing failure is
// non-fatal: EC2 nodes already discovered are still returned.
func (d *AwsDiscoverer) Discover(ctx context.Context) ([]domain.ResourceNode, []domain.ResourceEdge, error) {
	nodes := make([]domain.ResourceNode, 0)
	edges := make([]domain.ResourceEdge, 0)

	reservations, err := d.ec2Client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{})
	if err != nil {
		return nil, nil, fmt.Errorf("describe EC2 instances: %w", err)
	}

	for _, res := range reservations.Reservations {
		for _, inst := range res.Instances {
			instID := aws.ToString(inst.InstanceId)
			tags := make(map[string]string)
			instName := instID
			for _, t := range inst.Tags {
				tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
				if aws.ToString(t.Key) == "Name" {
					instName = aws.ToString(t.Value)
				}
			}

			status := domain.StatusUnknown
			if inst.State != nil {
				switch inst.State.Name {
				case ec2types.InstanceStateNameRunning:
					status = domain.StatusRunning
				case ec2types.InstanceStateNameStopped:
					status = domain.StatusStopped
				case ec2types.InstanceStateNameShuttingDown, ec2types.InstanceStateNameTerminated:
					status = domain.StatusTerminating
				}
			}

			metadata := map[string]any{"instance_type": string(inst.InstanceType)}
			if inst.Placement != nil {
				metadata["availability_zone"] = aws.ToString(inst.Placement.AvailabilityZone)
			}

			node := domain.ResourceNode{
				ID:           instID,
				Name:         instName,
				Provider:     domain.ProviderAWS,
				ResourceType: "ec2",
				Region:       d.region,
				Status:       status,
				Tags:         tags,
				Metadata:     metadata,
			}
			if inst.LaunchTime != nil {
				t := *inst.LaunchTime
				node.CreatedAt = &t
			}
			nodes = append(nodes, node)

			if inst.VpcId != nil {
				edges = append(edges, domain.ResourceEdge{
					Source:   aws.ToString(inst.VpcId),
					Target:   instID,
					Relation: domain.RelationContains,
				})
			}
		}
	}

	clusters, err := d.rdsClient.DescribeDBClusters(ctx, &rds.DescribeDBClustersInput{})
	if err != nil {
		log.Printf("RDS describe failed (non-fatal): %v", err)
		return nodes, edges, nil
	}

	for _, cluster := range clusters.DBClusters {
		clusterID := aws.ToString(cluster.DBClusterIdentifier)
		status := domain.StatusDegraded
		if aws.ToString(cluster.Status) == "available" {
			status = domain.StatusRunning
		}

		metadata := map[string]any{
			"engine": aws.ToString(cluster.Engine),
		}
		if aws.ToInt32(cluster.BackupRetentionPeriod) > 0 {
			metadata[domain.MetadataBackup] = domain.BackupDaily
		}
		if aws.ToBool(cluster.MultiAZ) {
			metadata[domain.MetadataReplication] = domain.ReplicationInRegion
		}
		if len(cluster.ReadReplicaIdentifiers) > 0 {
			metadata[domain.MetadataReplication] = domain.ReplicationCrossRegion
		}

		nodes = append(nodes, domain.ResourceNode{
			ID:           clusterID,
			Name:         clusterID,
			Provider:     domain.ProviderAWS,
			ResourceType: "rds",
			Region:       d.region,
			Status:       status,
			Metadata:     metadata,
		})

		for _, replica := range cluster.ReadReplicaIdentifiers {
			edges = append(edges, domain.ResourceEdge{
				Source:   clusterID,
				Target:   replica,
				Relation: domain.RelationReplicatesTo,
			})
		}
	}

	return nodes, edges, nil
}
