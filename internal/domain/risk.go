package domain

// Renewal history outcomes.
const (
	OutcomeExpired = "expired"
	OutcomeOnTime  = "on_time"
)

// VendorHistory summarizes a vendor's historical renewal behavior, derived
// from the outreach queue. LastOutcome reflects only the most recent
// countable record; empty means no usable history.
type VendorHistory struct {
	LateRenewals   int    `json:"lateRenewals"`
	OnTimeRenewals int    `json:"onTimeRenewals"`
	LastOutcome    string `json:"lastOutcome,omitempty"`
}

// RiskFactors are the inputs to the renewal risk model. Nil pointers mean
// the signal is unknown and score as their own band.
type RiskFactors struct {
	DaysLeft          *int           `json:"daysLeft,omitempty"`
	Stage             *int           `json:"stage,omitempty"`
	AlertsCount       int            `json:"alertsCount"`
	FailingRulesCount int            `json:"failingRulesCount"`
	MissingRulesCount int            `json:"missingRulesCount"`
	History           *VendorHistory `json:"history,omitempty"`
}

// Risk buckets, from most to least urgent. Bands are inclusive on their
// lower bound and evaluated top-down.
const (
	BucketHighRiskFail     = "high_risk_fail"
	BucketAtRisk           = "at_risk"
	BucketWatch            = "watch"
	BucketLikelyOnTime     = "likely_on_time"
	BucketVeryLikelyOnTime = "very_likely_on_time"
)

// ForecastRow is one vendor/policy renewal in the org-wide forecast,
// ordered by the caller however the UI needs.
type ForecastRow struct {
	ScheduleID     string `json:"scheduleId"`
	VendorID       string `json:"vendorId"`
	VendorName     string `json:"vendorName"`
	PolicyID       string `json:"policyId"`
	CoverageType   string `json:"coverageType"`
	ExpirationDate string `json:"expirationDate"`
	DaysLeft       *int   `json:"daysLeft,omitempty"`
	Stage          *int   `json:"stage,omitempty"`
	AlertsCount    int    `json:"alertsCount"`
	FailingRules   int    `json:"failingRules"`
	MissingRules   int    `json:"missingRules"`
	RiskScore      int    `json:"riskScore"`
	RiskBucket     string `json:"riskBucket"`
}
