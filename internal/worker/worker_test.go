package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vendorsafe/kestrel/internal/bus"
	"github.com/vendorsafe/kestrel/internal/cache"
	"github.com/vendorsafe/kestrel/internal/domain"
	"github.com/vendorsafe/kestrel/internal/renewal"
)

// stubRepo implements the repository surface the risk model reads, plus
// alert capture. The embedded interface panics on anything else.
type stubRepo struct {
	domain.Repository

	mu     sync.Mutex
	alerts []*domain.Alert

	openAlerts int
	snapshot   *domain.ComplianceSnapshot
}

func (s *stubRepo) ListOutreachHistory(ctx context.Context, orgID, vendorID string, limit int) ([]*domain.OutreachRecord, error) {
	return nil, nil
}

func (s *stubRepo) CountOpenAlerts(ctx context.Context, orgID, vendorID string) (int, error) {
	return s.openAlerts, nil
}

func (s *stubRepo) GetComplianceSnapshot(ctx context.Context, orgID, vendorID string) (*domain.ComplianceSnapshot, error) {
	if s.snapshot == nil {
		return nil, errors.New("record not found")
	}
	return s.snapshot, nil
}

func (s *stubRepo) SaveAlert(ctx context.Context, orgID string, alert *domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
	return nil
}

func (s *stubRepo) savedAlerts() []*domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Alert(nil), s.alerts...)
}

func intPtr(v int) *int { return &v }

func expDate(daysFromNow int) string {
	return time.Now().AddDate(0, 0, daysFromNow).Format("01/02/2006")
}

func TestWorker(t *testing.T) {
	eventBus := bus.NewChannelBus(100)
	defer eventBus.Close()

	t.Run("StartAndStop", func(t *testing.T) {
		repo := &stubRepo{}
		w := NewWorker(eventBus, repo, nil, renewal.NewService(repo, nil))

		cfg := Config{
			OrgIDs:      []string{"org-001"},
			WorkerCount: 1,
		}

		if err := w.Start(cfg); err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		stats := w.GetStats()
		if stats.SubscriptionCount != 1 {
			t.Errorf("expected 1 subscription, got %d", stats.SubscriptionCount)
		}

		if err := w.Stop(); err != nil {
			t.Errorf("Stop failed: %v", err)
		}

		stats = w.GetStats()
		if stats.SubscriptionCount != 0 {
			t.Errorf("expected 0 subscriptions after stop, got %d", stats.SubscriptionCount)
		}
	})

	t.Run("RiskyRenewalRaisesAlert", func(t *testing.T) {
		repo := &stubRepo{
			openAlerts: 3,
			snapshot:   &domain.ComplianceSnapshot{Score: 55, FailingRules: 2, MissingRules: 1},
		}
		w := NewWorker(eventBus, repo, nil, renewal.NewService(repo, nil))

		cfg := Config{OrgIDs: []string{"org-risky"}}
		w.Start(cfg)
		defer w.Stop()

		var alertReceived atomic.Bool
		var alertPayload []byte

		eventBus.Subscribe(context.Background(), "org-risky", domain.TopicVendorAlert, func(ctx context.Context, msg *domain.Message) error {
			alertPayload = msg.Payload
			alertReceived.Store(true)
			return nil
		})

		// Allow subscriptions to be active
		time.Sleep(50 * time.Millisecond)

		// expired policy, day-of stage: saturates the risk model
		due := RenewalDueMessage{
			ScheduleID:     "sched-001",
			VendorID:       "vendor-001",
			PolicyID:       "pol-001",
			ExpirationDate: expDate(-5),
			Stage:          intPtr(0),
			TraceID:        "trace-001",
		}

		payload, _ := json.Marshal(due)
		if err := eventBus.Publish(context.Background(), "org-risky", domain.TopicRenewalDue, payload); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}

		time.Sleep(100 * time.Millisecond)

		if !alertReceived.Load() {
			t.Fatal("expected vendor alert to be published")
		}

		var alert RiskAlertMessage
		if err := json.Unmarshal(alertPayload, &alert); err != nil {
			t.Fatalf("failed to parse alert: %v", err)
		}
		if alert.ScheduleID != "sched-001" {
			t.Errorf("expected scheduleID 'sched-001', got '%s'", alert.ScheduleID)
		}
		if alert.RiskBucket != domain.BucketHighRiskFail {
			t.Errorf("expected bucket high_risk_fail, got '%s'", alert.RiskBucket)
		}
		if alert.TraceID != "trace-001" {
			t.Errorf("expected traceID 'trace-001', got '%s'", alert.TraceID)
		}

		saved := repo.savedAlerts()
		if len(saved) != 1 {
			t.Fatalf("expected 1 saved alert, got %d", len(saved))
		}
		if saved[0].Severity != domain.AlertSeverityCritical {
			t.Errorf("expected critical severity for high_risk_fail, got '%s'", saved[0].Severity)
		}
	})

	t.Run("CalmRenewalStaysQuiet", func(t *testing.T) {
		repo := &stubRepo{}
		w := NewWorker(eventBus, repo, nil, renewal.NewService(repo, nil))

		cfg := Config{OrgIDs: []string{"org-calm"}}
		w.Start(cfg)
		defer w.Stop()

		var alertReceived atomic.Bool
		eventBus.Subscribe(context.Background(), "org-calm", domain.TopicVendorAlert, func(ctx context.Context, msg *domain.Message) error {
			alertReceived.Store(true)
			return nil
		})

		time.Sleep(50 * time.Millisecond)

		due := RenewalDueMessage{
			ScheduleID:     "sched-002",
			VendorID:       "vendor-002",
			PolicyID:       "pol-002",
			ExpirationDate: expDate(120),
		}

		payload, _ := json.Marshal(due)
		eventBus.Publish(context.Background(), "org-calm", domain.TopicRenewalDue, payload)

		time.Sleep(100 * time.Millisecond)

		if alertReceived.Load() {
			t.Error("far-out renewal must not raise an alert")
		}
		if len(repo.savedAlerts()) != 0 {
			t.Error("expected no saved alerts for calm renewal")
		}
	})

	t.Run("RepeatAlertsThrottled", func(t *testing.T) {
		repo := &stubRepo{}
		throttle := cache.NewLRUCache(100)
		w := NewWorker(eventBus, repo, throttle, renewal.NewService(repo, nil))

		cfg := Config{OrgIDs: []string{"org-throttle"}}
		w.Start(cfg)
		defer w.Stop()

		var alertCount atomic.Int32
		eventBus.Subscribe(context.Background(), "org-throttle", domain.TopicVendorAlert, func(ctx context.Context, msg *domain.Message) error {
			alertCount.Add(1)
			return nil
		})

		time.Sleep(50 * time.Millisecond)

		due := RenewalDueMessage{
			ScheduleID:     "sched-003",
			VendorID:       "vendor-003",
			PolicyID:       "pol-003",
			ExpirationDate: expDate(-1),
			Stage:          intPtr(0),
		}
		payload, _ := json.Marshal(due)

		for i := 0; i < 3; i++ {
			eventBus.Publish(context.Background(), "org-throttle", domain.TopicRenewalDue, payload)
		}

		time.Sleep(150 * time.Millisecond)

		if alertCount.Load() != 1 {
			t.Errorf("expected 1 alert inside throttle window, got %d", alertCount.Load())
		}
	})

	t.Run("MultiOrg", func(t *testing.T) {
		repo := &stubRepo{}
		w := NewWorker(eventBus, repo, nil, renewal.NewService(repo, nil))

		cfg := Config{OrgIDs: []string{"org-a", "org-b"}}
		w.Start(cfg)
		defer w.Stop()

		stats := w.GetStats()
		if stats.SubscriptionCount != 2 {
			t.Errorf("expected 2 subscriptions for 2 orgs, got %d", stats.SubscriptionCount)
		}
	})
}

func TestRenewalDueMessageParsing(t *testing.T) {
	msg := RenewalDueMessage{
		ScheduleID:     "sched-123",
		OrgID:          "org-001",
		VendorID:       "vendor-001",
		PolicyID:       "pol-001",
		CoverageType:   "general_liability",
		ExpirationDate: "12/31/2026",
		Stage:          intPtr(7),
		TraceID:        "trace-456",
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var parsed RenewalDueMessage
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if parsed.ScheduleID != msg.ScheduleID {
		t.Errorf("expected ScheduleID '%s', got '%s'", msg.ScheduleID, parsed.ScheduleID)
	}
	if parsed.Stage == nil || *parsed.Stage != 7 {
		t.Errorf("expected Stage 7, got %v", parsed.Stage)
	}
}
