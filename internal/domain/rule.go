package domain

import "time"

// Supported rule operators. Unknown operators fail closed to a non-match.
const (
	OpMissing    = "missing"
	OpPresent    = "present"
	OpEq         = "eq"
	OpNe         = "ne"
	OpIn         = "in"
	OpLt         = "lt"
	OpLte        = "lte"
	OpGt         = "gt"
	OpGte        = "gte"
	OpBeforeDays = "beforeDays"
	OpAfterDays  = "afterDays"

	// OpExpression marks a CEL-backed custom check. The expression lives in
	// Rule.Expression; Field/Value are ignored.
	OpExpression = "expression"
)

// Rule targets determine which record the field path is resolved against.
const (
	TargetPolicy = "policy"
	TargetVendor = "vendor"
	TargetOrg    = "org"
)

// Rule severities, feeding the penalty magnitude of a failure.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Rule is a single field-level compliance check. Rules are authored
// externally (admin UI or AI-assisted generation) and consumed read-only
// by the engine.
type Rule struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Field    string `json:"field"`
	Target   string `json:"target"`
	Operator string `json:"operator"`

	// Value is operator-dependent: a scalar for comparisons, a list for "in",
	// a day count for the date-window operators.
	Value any `json:"value,omitempty"`

	// Expression is a CEL expression for operator "expression".
	Expression string `json:"expression,omitempty"`

	Severity string  `json:"severity,omitempty"` // defaults to medium
	Weight   float64 `json:"weight,omitempty"`   // defaults to 1

	// AIHint is free text guiding AI-assisted extraction; ignored by the engine.
	AIHint string `json:"aiHint,omitempty"`
}

// Group combination logic.
const (
	LogicAll = "ALL"
	LogicAny = "ANY"
)

// Group scopes. perVendor evaluates rules once against vendor/org fields;
// the policy scopes evaluate rules once per policy in the vendor's
// policy collection.
const (
	ScopeAnyPolicy   = "anyPolicy"
	ScopeAllPolicies = "allPolicies"
	ScopePerVendor   = "perVendor"
)

// RuleGroup is a named, weighted collection of rules sharing a combination
// policy and an evaluation scope.
type RuleGroup struct {
	ID      string  `json:"id"`
	OrgID   string  `json:"orgId,omitempty"`
	Label   string  `json:"label"`
	Logic   string  `json:"logic"` // ALL | ANY
	Scope   string  `json:"scope"` // anyPolicy | allPolicies | perVendor
	Rules   []Rule  `json:"rules"`
	Weight  float64 `json:"weight,omitempty"` // defaults to 1
	Enabled bool    `json:"enabled"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// EvaluationContext carries the in-memory data a compliance evaluation
// runs against. Assembled per call; never persisted by the engine.
type EvaluationContext struct {
	Vendor   Record   `json:"vendor"`
	Org      Record   `json:"org"`
	Policies []Policy `json:"policies"`
}

// RuleVerdict is the structured outcome of one rule against one record.
type RuleVerdict struct {
	RuleID   string  `json:"ruleId"`
	Field    string  `json:"field"`
	Operator string  `json:"operator"`
	Expected any     `json:"expected,omitempty"`
	Actual   any     `json:"actual,omitempty"`
	Severity string  `json:"severity"`
	Weight   float64 `json:"weight"`
	Matched  bool    `json:"matched"`
	Failing  bool    `json:"failing"`

	// Missing is set only for presence-style operators when the actual
	// value is empty or absent.
	Missing bool `json:"missing"`

	// PolicyID tags verdicts produced under a per-policy scope.
	PolicyID string `json:"policyId,omitempty"`
}

// GroupResult is the aggregate outcome of a rule group.
type GroupResult struct {
	GroupID           string        `json:"groupId"`
	Label             string        `json:"label,omitempty"`
	Scope             string        `json:"scope"`
	Logic             string        `json:"logic"`
	Passed            bool          `json:"passed"`
	Score             int           `json:"score"` // 0-100
	FailingRules      []RuleVerdict `json:"failingRules"`
	MissingData       []RuleVerdict `json:"missingData"`
	PoliciesEvaluated int           `json:"policiesEvaluated"`
}

// EngineResult is the top-level compliance evaluation outcome.
// GlobalScore is the weight-averaged mean of group scores; with no groups
// it is 100 (nothing to fail).
type EngineResult struct {
	GlobalScore   int           `json:"globalScore"`
	GroupResults  []GroupResult `json:"groupResults"`
	FailingGroups []GroupResult `json:"failingGroups"`
}

// ComplianceSnapshot is the persisted/cached summary of the most recent
// compliance evaluation for a vendor. The forecast and intelligence layers
// read it instead of re-running the engine.
type ComplianceSnapshot struct {
	OrgID         string    `json:"orgId"`
	VendorID      string    `json:"vendorId"`
	Score         int       `json:"score"`
	FailingRules  int       `json:"failingRules"`
	MissingRules  int       `json:"missingRules"`
	FailingGroups []string  `json:"failingGroups,omitempty"`
	EvaluatedAt   time.Time `json:"evaluatedAt"`
}
