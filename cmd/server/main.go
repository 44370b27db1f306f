package main

import (
	"context"
	"log"
	"time"

	"github.com/drcompass/backend-go/internal/config"
	"github.com/drcompass/backend-go/internal/discovery"
	"github.com/drcompass/backend-go/internal/handler"
	"github.com/drcompass/backend-go/internal/incident"
	"github.com/drcompass/backend-go/internal/ingest"
	"github.com/drcompass/backend-go/internal/observability"
	"github.com/drcompass/backend-go/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Persistence: Postgres when configured, in-memory otherwise
	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("Postgres unavailable, falling back to in-memory history: %v", err)
			st = store.NewMemoryStore()
		} else {
			st = pg
		}
	} else {
		st = store.NewMemoryStore()
	}
	defer st.Close()

	// Discovery adapters are optional; a provider that fails to initialize
	// is skipped, not fatal
	var discoverers []discovery.Discoverer
	var sources []ingest.Source

	k8s, err := discovery.NewK8sDiscoverer(cfg.KubeConfig, "", cfg.AWSRegion)
	if err != nil {
		log.Printf("Kubernetes discovery disabled: %v", err)
	} else {
		discoverers = append(discoverers, k8s)
		sources = append(sources, ingest.NewK8sEventSource("k8s-events", k8s.Clientset(), ""))
	}

	aws, err := discovery.NewAwsDiscoverer(ctx, cfg.AWSRegion)
	if err != nil {
		log.Printf("AWS discovery disabled: %v", err)
	} else {
		discoverers = append(discoverers, aws)
	}

	if cfg.AlertmanagerURL != "" {
		sources = append(sources, ingest.NewAlertmanagerSource("alertmanager", cfg.AlertmanagerURL, 10*time.Second))
	}

	registry := discovery.NewRegistry(
		time.Duration(cfg.DiscoveryTimeoutSeconds)*time.Second,
		discoverers...,
	)
	snapshots := discovery.NewSnapshotManager(registry)
	if len(discoverers) > 0 {
		snap := snapshots.Refresh(ctx)
		log.Printf("Initial discovery: %d resources, %d provider errors", snap.Graph.Len(), len(snap.Errors))
	}

	metrics := observability.NewMetrics()
	idgen := incident.ShortUUIDGenerator{}

	analysisHandler := handler.NewAnalysisHandler(st, metrics, idgen)
	incidentHandler := handler.NewIncidentHandler(
		incident.NewNormalizer(idgen),
		incident.NewCorrelator(idgen, time.Duration(cfg.CorrelationWindowMinutes)*time.Minute, cfg.CorrelationMaxHops),
		snapshots,
		sources,
		metrics,
	)
	topologyHandler := handler.NewTopologyHandler(snapshots, metrics)

	r := handler.SetupRouter(analysisHandler, incidentHandler, topologyHandler, metrics, cfg.CORSAllowOrigin)

	log.Printf("DRCompass backend-go starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
