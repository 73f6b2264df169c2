// Kestrel - Vendor insurance compliance that deploys in 60 seconds.
// Copyright (c) 2025 vendorsafe
// Licensed under the Apache License 2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vendorsafe/kestrel/internal/api"
	"github.com/vendorsafe/kestrel/internal/bus"
	"github.com/vendorsafe/kestrel/internal/cache"
	"github.com/vendorsafe/kestrel/internal/domain"
	"github.com/vendorsafe/kestrel/internal/intel"
	"github.com/vendorsafe/kestrel/internal/renewal"
	"github.com/vendorsafe/kestrel/internal/repository"
	"github.com/vendorsafe/kestrel/internal/rules"
	"github.com/vendorsafe/kestrel/internal/worker"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// Initialize structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("KESTREL_DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Log startup
	slog.Info("starting kestrel",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	// Load configuration
	cfg := domain.DefaultConfig()

	// Check for Pro tier via environment
	if os.Getenv("KESTREL_TIER") == "pro" {
		cfg = domain.ProConfig()
		slog.Info("running in Pro tier mode")
	}

	slog.Info("configuration loaded",
		"tier", cfg.Tier,
		"repository", cfg.Repository.Driver,
		"cache", cfg.Cache.Type,
		"eventbus", cfg.EventBus.Type,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Initialize Repository
	repo, err := repository.New(cfg.Repository)
	if err != nil {
		slog.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("repository initialized", "driver", cfg.Repository.Driver)

	// Initialize Cache
	cacheImpl, err := cache.New(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer cacheImpl.Close()
	slog.Info("cache initialized", "type", cfg.Cache.Type)

	// Initialize EventBus
	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		slog.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer busImpl.Close()
	slog.Info("event bus initialized", "type", cfg.EventBus.Type)

	// Initialize Rule Group Engine
	engine := rules.NewGroupEngine()

	// Preload rule groups for known orgs; everyone else is loaded
	// lazily on their first evaluation.
	orgIDs := parseOrgList(os.Getenv("KESTREL_ORGS"))
	for _, orgID := range orgIDs {
		if err := loadGroupsForOrg(ctx, repo, engine, orgID); err != nil {
			slog.Error("failed to load rule groups", "org_id", orgID, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("rule engine initialized", "preloaded_orgs", len(orgIDs))

	// Initialize forecast and intelligence services
	forecastSvc := renewal.NewService(repo, cacheImpl)
	intelSvc := intel.NewService(repo, cacheImpl)
	slog.Info("forecast and intelligence services initialized")

	// Initialize async Worker (Pro tier)
	var asyncWorker *worker.Worker
	if cfg.Tier == domain.TierPro || os.Getenv("KESTREL_ASYNC_WORKER") == "true" {
		asyncWorker = worker.NewWorker(busImpl, repo, cacheImpl, forecastSvc)

		workerCfg := worker.Config{
			OrgIDs:      orgIDs,
			WorkerCount: 5,
		}

		if err := asyncWorker.Start(workerCfg); err != nil {
			slog.Error("failed to start async worker", "error", err)
		} else {
			slog.Info("async worker started", "org_count", len(orgIDs))
		}
	}

	// Initialize Server
	srv := api.NewServer(cfg.Server, repo, cacheImpl, busImpl, engine, forecastSvc, intelSvc, Version)

	// Start Server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("kestrel is ready",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	printBanner(cfg, Version)

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	// Stop async worker first
	if asyncWorker != nil {
		if err := asyncWorker.Stop(); err != nil {
			slog.Error("failed to stop async worker", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("kestrel shutdown complete")
}

// parseOrgList splits a comma-separated org list from the environment.
func parseOrgList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	orgs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			orgs = append(orgs, p)
		}
	}
	return orgs
}

// loadGroupsForOrg loads an org's rule groups from the database into the
// engine. Orgs with nothing stored get the standard COI starter groups.
func loadGroupsForOrg(ctx context.Context, repo domain.Repository, engine *rules.GroupEngine, orgID string) error {
	groups, err := repo.ListRuleGroups(ctx, orgID)
	if err != nil {
		return err
	}

	if len(groups) == 0 {
		slog.Info("no rule groups stored, seeding standard COI groups", "org_id", orgID)
		groups = rules.StandardCOIGroups()
		for _, g := range groups {
			g.OrgID = orgID
			if err := repo.SaveRuleGroup(ctx, orgID, g); err != nil {
				return err
			}
		}
	}

	engine.LoadGroups(orgID, groups)
	slog.Info("rule groups loaded", "org_id", orgID, "count", engine.GroupCount(orgID))
	return nil
}

func printBanner(cfg *domain.Config, version string) {
	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════╗")
	fmt.Println("  ║               🦅 KESTREL                  ║")
	fmt.Println("  ║    Vendor Insurance Compliance Engine     ║")
	fmt.Println("  ║      Eyes on every certificate.           ║")
	fmt.Println("  ╚═══════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  Tier:     %s\n", cfg.Tier)
	fmt.Printf("  Server:   http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()
	fmt.Println("  Endpoints:")
	fmt.Println("    POST /vendors                    - Create a vendor")
	fmt.Println("    POST /vendors/{id}/policies      - Attach an extracted policy")
	fmt.Println("    POST /vendors/{id}/compliance    - Evaluate vendor compliance")
	fmt.Println("    GET  /vendors/{id}/intelligence  - Fused vendor trust profile")
	fmt.Println("    GET  /forecast                   - Renewal risk forecast")
	fmt.Println("    GET  /rule-groups                - List rule groups")
	fmt.Println("    POST /rule-groups                - Create a rule group")
	fmt.Println("    POST /rule-groups/reload         - Hot-reload rule groups")
	fmt.Println("    POST /alerts/{id}/resolve        - Resolve an open alert")
	fmt.Println("    GET  /health                     - Health check")
	fmt.Println()
}
