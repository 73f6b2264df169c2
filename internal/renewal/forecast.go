package renewal

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/vendorsafe/kestrel/internal/domain"
)

// Service assembles renewal forecasts from the repository, with the
// compliance snapshot cache consulted before the persistent copy.
type Service struct {
	repo  domain.Repository
	cache domain.Cache
}

// NewService creates a forecast service. The cache is optional.
func NewService(repo domain.Repository, cache domain.Cache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// BuildRenewalForecastForOrg computes a risk-scored forecast row for every
// active renewal schedule in the org. Returns an empty list when nothing is
// scheduled. Per-vendor data failures degrade to neutral values rather than
// dropping the row; only the schedule listing itself can fail the call.
func (s *Service) BuildRenewalForecastForOrg(ctx context.Context, orgID string) ([]domain.ForecastRow, error) {
	schedules, err := s.repo.ListActiveSchedules(ctx, orgID)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.ForecastRow, 0, len(schedules))

	for _, sched := range schedules {
		row, err := s.ScoreScheduleRow(ctx, orgID, sched)
		if err != nil {
			return nil, err
		}
		rows = append(rows, *row)
	}

	return rows, nil
}

// ScoreScheduleRow runs one schedule row through the risk model, pulling
// alert counts, the compliance snapshot, and outreach history for its
// vendor. Per-vendor data failures degrade to neutral values.
func (s *Service) ScoreScheduleRow(ctx context.Context, orgID string, sched *domain.ScheduleRow) (*domain.ForecastRow, error) {
	row := domain.ForecastRow{
		ScheduleID:     sched.ScheduleID,
		VendorID:       sched.VendorID,
		VendorName:     sched.VendorName,
		PolicyID:       sched.PolicyID,
		CoverageType:   sched.CoverageType,
		ExpirationDate: sched.ExpirationDate,
		Stage:          sched.Stage,
	}
	row.DaysLeft = DaysUntilExpiration(sched.ExpirationDate)

	if count, err := s.repo.CountOpenAlerts(ctx, orgID, sched.VendorID); err == nil {
		row.AlertsCount = count
	}

	if snap := s.snapshotFor(ctx, orgID, sched.VendorID); snap != nil {
		row.FailingRules = snap.FailingRules
		row.MissingRules = snap.MissingRules
	}

	history := HistoryOrNeutral(LoadVendorHistory(ctx, s.repo, orgID, sched.VendorID))

	row.RiskScore = ComputeRenewalRiskScore(domain.RiskFactors{
		DaysLeft:          row.DaysLeft,
		Stage:             row.Stage,
		AlertsCount:       row.AlertsCount,
		FailingRulesCount: row.FailingRules,
		MissingRulesCount: row.MissingRules,
		History:           &history,
	})
	row.RiskBucket = RiskBucket(row.RiskScore)

	return &row, nil
}

// snapshotFor reads the compliance snapshot, cache first. Misses and read
// errors both yield nil; the forecast then scores with zero rule counts.
func (s *Service) snapshotFor(ctx context.Context, orgID, vendorID string) *domain.ComplianceSnapshot {
	if s.cache != nil {
		if snap, err := s.cache.GetSnapshot(ctx, orgID, vendorID); err == nil && snap != nil {
			return snap
		}
	}
	snap, err := s.repo.GetComplianceSnapshot(ctx, orgID, vendorID)
	if err != nil {
		return nil
	}
	return snap
}

// DaysUntilExpiration parses an MM/DD/YYYY expiration date and returns the
// whole days from now until it, or nil for unparseable input.
func DaysUntilExpiration(expiration string) *int {
	d, err := time.ParseInLocation(outreachDateLayout, strings.TrimSpace(expiration), time.Local)
	if err != nil {
		return nil
	}
	days := int(math.Ceil(d.Sub(time.Now()).Hours() / 24))
	return &days
}
