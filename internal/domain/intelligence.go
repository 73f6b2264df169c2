package domain

// Vendor trust tiers, keyed off the fused score.
const (
	TierEliteSafe = "Elite Safe"
	TierPreferred = "Preferred"
	TierWatch     = "Watch"
	TierHighRisk  = "High Risk"
	TierSevere    = "Severe"
)

// IntelligenceScores holds the component and fused trust scores,
// all integers in [0,100].
type IntelligenceScores struct {
	RuleScore  int `json:"ruleScore"`
	AlertScore int `json:"alertScore"`
	DocScore   int `json:"docScore"`
	FusedScore int `json:"fusedScore"`
}

// VendorIntelligence is the fused trust profile for a single vendor.
// The raw alert counts and document-presence map are reporting byproducts
// for dashboards, not inputs to further scoring.
type VendorIntelligence struct {
	VendorID string             `json:"vendorId"`
	Scores   IntelligenceScores `json:"scores"`
	Tier     string             `json:"tier"`

	AlertsBySeverity map[string]int  `json:"alertsBySeverity"`
	AlertsByCategory map[string]int  `json:"alertsByCategory"`
	Documents        map[string]bool `json:"documents"`
}
