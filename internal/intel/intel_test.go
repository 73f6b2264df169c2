package intel

import (
	"context"
	"errors"
	"testing"

	"github.com/vendorsafe/kestrel/internal/domain"
)

// stubRepo implements only the repository surface the fusion reads.
// The embedded interface panics on anything else.
type stubRepo struct {
	domain.Repository

	alerts    []*domain.Alert
	alertsErr error

	docTypes []string
	docsErr  error

	snapshot    *domain.ComplianceSnapshot
	snapshotErr error
}

func (s *stubRepo) ListOpenAlerts(ctx context.Context, orgID, vendorID string) ([]*domain.Alert, error) {
	return s.alerts, s.alertsErr
}

func (s *stubRepo) ListDocumentTypes(ctx context.Context, orgID, vendorID string) ([]string, error) {
	return s.docTypes, s.docsErr
}

func (s *stubRepo) GetComplianceSnapshot(ctx context.Context, orgID, vendorID string) (*domain.ComplianceSnapshot, error) {
	if s.snapshotErr != nil {
		return nil, s.snapshotErr
	}
	return s.snapshot, nil
}

func alert(severity, category string) *domain.Alert {
	return &domain.Alert{Severity: severity, Category: category}
}

func TestComputeVendorIntelligence_UnknownVendorDefaults(t *testing.T) {
	// never evaluated, zero alerts, nothing on file
	repo := &stubRepo{snapshotErr: errors.New("record not found")}

	svc := NewService(repo, nil)
	got, err := svc.ComputeVendorIntelligence(context.Background(), "org-1", "vendor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Scores.RuleScore != 70 {
		t.Errorf("ruleScore = %d, want neutral 70", got.Scores.RuleScore)
	}
	if got.Scores.AlertScore != 100 {
		t.Errorf("alertScore = %d, want 100", got.Scores.AlertScore)
	}
	// 100 - (10 + 8 + 6 + 4 + 3) = 69
	if got.Scores.DocScore != 69 {
		t.Errorf("docScore = %d, want 69", got.Scores.DocScore)
	}
	// round(0.6*70 + 0.25*100 + 0.15*69) = round(77.35) = 77
	if got.Scores.FusedScore != 77 {
		t.Errorf("fusedScore = %d, want 77", got.Scores.FusedScore)
	}
	if got.Tier != domain.TierPreferred {
		t.Errorf("tier = %q, want Preferred", got.Tier)
	}

	for _, category := range []string{
		domain.DocCategoryW9,
		domain.DocCategoryLicense,
		domain.DocCategoryContract,
		domain.DocCategoryEndorsement,
		domain.DocCategoryEntityCert,
	} {
		present, listed := got.Documents[category]
		if !listed {
			t.Errorf("document summary missing category %q", category)
		}
		if present {
			t.Errorf("document %q reported present, want absent", category)
		}
	}
}

func TestComputeVendorIntelligence_AlertPenalties(t *testing.T) {
	repo := &stubRepo{
		snapshot: &domain.ComplianceSnapshot{Score: 100},
		alerts: []*domain.Alert{
			alert(domain.AlertSeverityCritical, "coverage"),
			alert(domain.AlertSeverityHigh, "coverage"),
			alert(domain.AlertSeverityMedium, "expiration"),
			alert("informational", ""), // unknown severity costs the default
		},
		docTypes: []string{
			domain.DocCategoryW9,
			domain.DocCategoryLicense,
			domain.DocCategoryContract,
			domain.DocCategoryEndorsement,
			domain.DocCategoryEntityCert,
		},
	}

	svc := NewService(repo, nil)
	got, err := svc.ComputeVendorIntelligence(context.Background(), "org-1", "vendor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 100 - 12 - 8 - 4 - 1 = 75
	if got.Scores.AlertScore != 75 {
		t.Errorf("alertScore = %d, want 75", got.Scores.AlertScore)
	}
	if got.Scores.DocScore != 100 {
		t.Errorf("docScore = %d, want 100 with a complete file", got.Scores.DocScore)
	}
	// round(0.6*100 + 0.25*75 + 0.15*100) = round(93.75) = 94
	if got.Scores.FusedScore != 94 {
		t.Errorf("fusedScore = %d, want 94", got.Scores.FusedScore)
	}
	if got.Tier != domain.TierEliteSafe {
		t.Errorf("tier = %q, want Elite Safe", got.Tier)
	}

	if got.AlertsBySeverity[domain.AlertSeverityCritical] != 1 {
		t.Errorf("critical count = %d, want 1", got.AlertsBySeverity[domain.AlertSeverityCritical])
	}
	if got.AlertsByCategory["coverage"] != 2 {
		t.Errorf("coverage count = %d, want 2", got.AlertsByCategory["coverage"])
	}
	if _, ok := got.AlertsByCategory[""]; ok {
		t.Error("empty category must not appear in the breakdown")
	}
}

func TestComputeVendorIntelligence_AlertScoreFloorsAtZero(t *testing.T) {
	repo := &stubRepo{snapshotErr: errors.New("record not found")}
	for i := 0; i < 12; i++ {
		repo.alerts = append(repo.alerts, alert(domain.AlertSeverityCritical, "fraud"))
	}

	svc := NewService(repo, nil)
	got, err := svc.ComputeVendorIntelligence(context.Background(), "org-1", "vendor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 12 criticals would deduct 144; the component clamps at 0
	if got.Scores.AlertScore != 0 {
		t.Errorf("alertScore = %d, want 0", got.Scores.AlertScore)
	}
	// round(0.6*70 + 0 + 0.15*69) = round(52.35) = 52
	if got.Scores.FusedScore != 52 {
		t.Errorf("fusedScore = %d, want 52", got.Scores.FusedScore)
	}
	if got.Tier != domain.TierHighRisk {
		t.Errorf("tier = %q, want High Risk", got.Tier)
	}
}

func TestComputeVendorIntelligence_UnknownDocTypesIgnored(t *testing.T) {
	repo := &stubRepo{
		snapshotErr: errors.New("record not found"),
		docTypes:    []string{domain.DocCategoryW9, "coi_pdf", "misc_upload"},
	}

	svc := NewService(repo, nil)
	got, err := svc.ComputeVendorIntelligence(context.Background(), "org-1", "vendor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// only w9 counts; 100 - (8 + 6 + 4 + 3) = 79
	if got.Scores.DocScore != 79 {
		t.Errorf("docScore = %d, want 79", got.Scores.DocScore)
	}
	if !got.Documents[domain.DocCategoryW9] {
		t.Error("w9 must report present")
	}
	if _, ok := got.Documents["coi_pdf"]; ok {
		t.Error("unexpected categories must not appear in the summary")
	}
}

func TestComputeVendorIntelligence_RepositoryErrorsPropagate(t *testing.T) {
	svc := NewService(&stubRepo{alertsErr: errors.New("db down")}, nil)
	if _, err := svc.ComputeVendorIntelligence(context.Background(), "org-1", "vendor-1"); err == nil {
		t.Fatal("expected alert listing failure to propagate")
	}

	svc = NewService(&stubRepo{docsErr: errors.New("db down")}, nil)
	if _, err := svc.ComputeVendorIntelligence(context.Background(), "org-1", "vendor-1"); err == nil {
		t.Fatal("expected document listing failure to propagate")
	}
}

func TestTierBands(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, domain.TierEliteSafe},
		{85, domain.TierEliteSafe},
		{84, domain.TierPreferred},
		{70, domain.TierPreferred},
		{69, domain.TierWatch},
		{55, domain.TierWatch},
		{54, domain.TierHighRisk},
		{35, domain.TierHighRisk},
		{34, domain.TierSevere},
		{0, domain.TierSevere},
	}

	for _, tt := range tests {
		if got := Tier(tt.score); got != tt.want {
			t.Errorf("Tier(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
