// Package worker provides async renewal processing for the Pro tier.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vendorsafe/kestrel/internal/domain"
	"github.com/vendorsafe/kestrel/internal/renewal"
)

// alertThrottleWindow bounds how often a repeat risk alert fires for the
// same schedule.
const alertThrottleWindow = 6 * time.Hour

// Worker processes renewal-due events from the EventBus. Each event names
// a schedule row; the worker scores it and raises a vendor alert when the
// risk bucket crosses into at_risk or worse.
type Worker struct {
	bus      domain.EventBus
	repo     domain.Repository
	cache    domain.Cache
	forecast *renewal.Service

	subscriptions []domain.Subscription
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
}

// Config holds worker configuration.
type Config struct {
	// OrgIDs is the list of orgs to process (empty = global subscription)
	OrgIDs []string

	// WorkerCount is the number of concurrent workers per org
	WorkerCount int
}

// NewWorker creates a new async worker.
func NewWorker(bus domain.EventBus, repo domain.Repository, cache domain.Cache, forecast *renewal.Service) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		bus:      bus,
		repo:     repo,
		cache:    cache,
		forecast: forecast,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins processing renewal events for the given orgs.
func (w *Worker) Start(cfg Config) error {
	if len(cfg.OrgIDs) == 0 {
		return w.startGlobalWorker()
	}

	for _, orgID := range cfg.OrgIDs {
		if err := w.startOrgWorker(orgID); err != nil {
			slog.Error("failed to start worker for org",
				"org_id", orgID,
				"error", err,
			)
			continue
		}
	}

	slog.Info("workers started",
		"org_count", len(cfg.OrgIDs),
	)

	return nil
}

// startGlobalWorker starts a worker that processes all orgs (for testing/dev).
func (w *Worker) startGlobalWorker() error {
	// Subscribe using a special "global" org ID
	// In production, you'd want to subscribe with wildcards or JetStream
	sub, err := w.bus.Subscribe(w.ctx, "_global", domain.TopicRenewalDue, w.handleMessage)
	if err != nil {
		return err
	}
	w.subscriptions = append(w.subscriptions, sub)

	slog.Info("global worker started")
	return nil
}

// startOrgWorker starts workers for a specific org.
func (w *Worker) startOrgWorker(orgID string) error {
	sub, err := w.bus.Subscribe(w.ctx, orgID, domain.TopicRenewalDue, func(ctx context.Context, msg *domain.Message) error {
		return w.processRenewalDue(ctx, orgID, msg)
	})
	if err != nil {
		return err
	}
	w.subscriptions = append(w.subscriptions, sub)

	slog.Info("org worker started",
		"org_id", orgID,
		"topic", domain.TopicRenewalDue,
	)

	return nil
}

// handleMessage handles messages from global subscription.
func (w *Worker) handleMessage(ctx context.Context, msg *domain.Message) error {
	return w.processRenewalDue(ctx, msg.OrgID, msg)
}

// RenewalDueMessage is the message payload for a renewal checkpoint.
type RenewalDueMessage struct {
	ScheduleID     string `json:"scheduleId"`
	OrgID          string `json:"orgId"`
	VendorID       string `json:"vendorId"`
	VendorName     string `json:"vendorName,omitempty"`
	PolicyID       string `json:"policyId"`
	CoverageType   string `json:"coverageType,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
	Stage          *int   `json:"stage,omitempty"`
	TraceID        string `json:"traceId,omitempty"`
}

// RiskAlertMessage is published to the vendor alert topic for risky renewals.
type RiskAlertMessage struct {
	AlertID    string `json:"alertId"`
	ScheduleID string `json:"scheduleId"`
	VendorID   string `json:"vendorId"`
	PolicyID   string `json:"policyId"`
	RiskScore  int    `json:"riskScore"`
	RiskBucket string `json:"riskBucket"`
	TraceID    string `json:"traceId,omitempty"`
}

// processRenewalDue scores one renewal checkpoint through the risk model.
func (w *Worker) processRenewalDue(ctx context.Context, orgID string, msg *domain.Message) error {
	start := time.Now()

	var due RenewalDueMessage
	if err := json.Unmarshal(msg.Payload, &due); err != nil {
		slog.Error("failed to parse renewal message",
			"message_id", msg.ID,
			"error", err,
		)
		return err
	}

	// Use message org if provided
	if due.OrgID != "" {
		orgID = due.OrgID
	}

	traceID := due.TraceID
	if traceID == "" {
		traceID = msg.ID
	}

	slog.Debug("processing renewal checkpoint",
		"schedule_id", due.ScheduleID,
		"org_id", orgID,
		"trace_id", traceID,
	)

	row := domain.ScheduleRow{
		ScheduleID:     due.ScheduleID,
		VendorID:       due.VendorID,
		VendorName:     due.VendorName,
		PolicyID:       due.PolicyID,
		CoverageType:   due.CoverageType,
		ExpirationDate: due.ExpirationDate,
		Stage:          due.Stage,
	}

	scored, err := w.forecast.ScoreScheduleRow(ctx, orgID, &row)
	if err != nil {
		slog.Error("risk scoring failed",
			"schedule_id", due.ScheduleID,
			"error", err,
		)
		return err
	}

	if riskyBucket(scored.RiskBucket) {
		w.raiseRiskAlert(ctx, orgID, scored, traceID)
	}

	slog.Info("renewal checkpoint processed",
		"schedule_id", due.ScheduleID,
		"org_id", orgID,
		"risk_score", scored.RiskScore,
		"risk_bucket", scored.RiskBucket,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

// riskyBucket reports whether a bucket warrants an alert.
func riskyBucket(bucket string) bool {
	return bucket == domain.BucketAtRisk || bucket == domain.BucketHighRiskFail
}

// raiseRiskAlert records an alert and publishes it, throttled per schedule
// so repeat checkpoints inside the window stay quiet.
func (w *Worker) raiseRiskAlert(ctx context.Context, orgID string, row *domain.ForecastRow, traceID string) {
	if w.cache != nil {
		count, err := w.cache.IncrementCounter(ctx, orgID, "risk-alert:"+row.ScheduleID, alertThrottleWindow)
		if err == nil && count > 1 {
			slog.Debug("risk alert throttled",
				"schedule_id", row.ScheduleID,
				"window_count", count,
			)
			return
		}
	}

	severity := domain.AlertSeverityHigh
	if row.RiskBucket == domain.BucketHighRiskFail {
		severity = domain.AlertSeverityCritical
	}

	alert := &domain.Alert{
		ID:       uuid.New().String(),
		OrgID:    orgID,
		VendorID: row.VendorID,
		Severity: severity,
		Category: "renewal_risk",
		Message:  "renewal at risk: " + row.RiskBucket,
	}

	if w.repo != nil {
		if err := w.repo.SaveAlert(ctx, orgID, alert); err != nil {
			slog.Error("failed to save risk alert",
				"schedule_id", row.ScheduleID,
				"error", err,
			)
		}
	}

	payload, _ := json.Marshal(RiskAlertMessage{
		AlertID:    alert.ID,
		ScheduleID: row.ScheduleID,
		VendorID:   row.VendorID,
		PolicyID:   row.PolicyID,
		RiskScore:  row.RiskScore,
		RiskBucket: row.RiskBucket,
		TraceID:    traceID,
	})
	if err := w.bus.Publish(ctx, orgID, domain.TopicVendorAlert, payload); err != nil {
		slog.Error("failed to publish risk alert",
			"schedule_id", row.ScheduleID,
			"error", err,
		)
	}
}

// Stop gracefully stops all workers.
func (w *Worker) Stop() error {
	w.cancel()

	// Unsubscribe all
	for _, sub := range w.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			slog.Error("failed to unsubscribe",
				"topic", sub.Topic(),
				"error", err,
			)
		}
	}
	w.subscriptions = nil

	w.wg.Wait()

	slog.Info("workers stopped")
	return nil
}

// Stats returns worker statistics.
type Stats struct {
	SubscriptionCount int      `json:"subscriptionCount"`
	Topics            []string `json:"topics"`
}

// GetStats returns current worker statistics.
func (w *Worker) GetStats() Stats {
	topics := make([]string, len(w.subscriptions))
	for i, sub := range w.subscriptions {
		topics[i] = sub.Topic()
	}
	return Stats{
		SubscriptionCount: len(w.subscriptions),
		Topics:            topics,
	}
}
