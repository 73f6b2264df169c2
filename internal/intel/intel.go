// Package intel fuses rule compliance, alert load, and document
// completeness into a single vendor trust score and tier.
package intel

import (
	"context"
	"math"

	"github.com/vendorsafe/kestrel/internal/domain"
)

// neutralRuleScore is assumed when a vendor has never been evaluated:
// unknown compliance is treated as middling, not as perfect or failing.
const neutralRuleScore = 70

// alertPenalties is the per-open-alert deduction by severity. Severities
// outside the table cost the default.
var alertPenalties = map[string]int{
	domain.AlertSeverityCritical: 12,
	domain.AlertSeverityHigh:     8,
	domain.AlertSeverityMedium:   4,
}

const alertPenaltyDefault = 1

// docPenalties is the deduction for each expected document category absent
// from the vendor's file. The categories double as the keys of the
// document-presence summary returned for dashboards.
var docPenalties = map[string]int{
	domain.DocCategoryW9:          10,
	domain.DocCategoryLicense:     8,
	domain.DocCategoryContract:    6,
	domain.DocCategoryEndorsement: 4,
	domain.DocCategoryEntityCert:  3,
}

// Fusion weights: compliance dominates, alerts matter, paperwork rounds
// it out.
const (
	ruleScoreWeight  = 0.6
	alertScoreWeight = 0.25
	docScoreWeight   = 0.15
)

// tierBands maps fused-score floors to tier names, checked top-down.
var tierBands = []struct {
	min  int
	tier string
}{
	{85, domain.TierEliteSafe},
	{70, domain.TierPreferred},
	{55, domain.TierWatch},
	{35, domain.TierHighRisk},
}

// Service computes vendor intelligence from the repository, consulting the
// compliance snapshot cache before the persistent copy.
type Service struct {
	repo  domain.Repository
	cache domain.Cache
}

// NewService creates an intelligence service. The cache is optional.
func NewService(repo domain.Repository, cache domain.Cache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// ComputeVendorIntelligence blends the vendor's cached compliance score,
// open-alert load, and document completeness into a fused trust score and
// tier. The three reads are independent; each degrades to its neutral value
// on a miss rather than failing the call.
func (s *Service) ComputeVendorIntelligence(ctx context.Context, orgID, vendorID string) (*domain.VendorIntelligence, error) {
	intel := &domain.VendorIntelligence{
		VendorID:         vendorID,
		AlertsBySeverity: map[string]int{},
		AlertsByCategory: map[string]int{},
		Documents:        map[string]bool{},
	}

	intel.Scores.RuleScore = s.ruleScore(ctx, orgID, vendorID)

	alerts, err := s.repo.ListOpenAlerts(ctx, orgID, vendorID)
	if err != nil {
		return nil, err
	}
	intel.Scores.AlertScore = alertScore(alerts)
	for _, a := range alerts {
		intel.AlertsBySeverity[a.Severity]++
		if a.Category != "" {
			intel.AlertsByCategory[a.Category]++
		}
	}

	docTypes, err := s.repo.ListDocumentTypes(ctx, orgID, vendorID)
	if err != nil {
		return nil, err
	}
	onFile := make(map[string]bool, len(docTypes))
	for _, dt := range docTypes {
		onFile[dt] = true
	}
	intel.Scores.DocScore = docScore(onFile)
	for category := range docPenalties {
		intel.Documents[category] = onFile[category]
	}

	intel.Scores.FusedScore = fuse(intel.Scores.RuleScore, intel.Scores.AlertScore, intel.Scores.DocScore)
	intel.Tier = Tier(intel.Scores.FusedScore)

	return intel, nil
}

// ruleScore reads the cached compliance score, cache first, then the
// persistent snapshot. Absent either way, the neutral prior applies.
func (s *Service) ruleScore(ctx context.Context, orgID, vendorID string) int {
	var snap *domain.ComplianceSnapshot

	if s.cache != nil {
		if cached, err := s.cache.GetSnapshot(ctx, orgID, vendorID); err == nil && cached != nil {
			snap = cached
		}
	}
	if snap == nil {
		stored, err := s.repo.GetComplianceSnapshot(ctx, orgID, vendorID)
		if err != nil || stored == nil {
			return neutralRuleScore
		}
		snap = stored
	}

	return int(math.Round(clampFloat(float64(snap.Score), 0, 100)))
}

// alertScore starts at 100 and deducts per unresolved alert by severity.
func alertScore(alerts []*domain.Alert) int {
	score := 100
	for _, a := range alerts {
		penalty, ok := alertPenalties[a.Severity]
		if !ok {
			penalty = alertPenaltyDefault
		}
		score -= penalty
	}
	return clampInt(score, 0, 100)
}

// docScore starts at 100 and deducts a fixed penalty for every expected
// document category not on file.
func docScore(onFile map[string]bool) int {
	score := 100
	for category, penalty := range docPenalties {
		if !onFile[category] {
			score -= penalty
		}
	}
	return clampInt(score, 0, 100)
}

// fuse blends the three component scores into the trust score.
func fuse(ruleScore, alertScore, docScore int) int {
	blended := ruleScoreWeight*float64(ruleScore) +
		alertScoreWeight*float64(alertScore) +
		docScoreWeight*float64(docScore)
	return int(math.Round(clampFloat(blended, 0, 100)))
}

// Tier names the trust tier for a fused score.
func Tier(fusedScore int) string {
	for _, band := range tierBands {
		if fusedScore >= band.min {
			return band.tier
		}
	}
	return domain.TierSevere
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
