package rules

import (
	"testing"

	"github.com/vendorsafe/kestrel/internal/domain"
)

func testContext() domain.EvaluationContext {
	return domain.EvaluationContext{
		Vendor: domain.Record{
			"name":  "Acme Roofing",
			"email": "ops@acmeroofing.example",
			"insurance": map[string]any{
				"broker": "Marsh",
			},
		},
		Org: domain.Record{
			"name":          "BuildCo",
			"required_tier": "gold",
		},
	}
}

func TestLookupPath(t *testing.T) {
	rec := domain.Record{
		"coverage_type": "general_liability",
		"limits": map[string]any{
			"each_occurrence": 1000000.0,
			"aggregate":       2000000.0,
		},
	}

	tests := []struct {
		path string
		want any
	}{
		{"coverage_type", "general_liability"},
		{"limits.each_occurrence", 1000000.0},
		{"limits.missing_key", nil},
		{"limits.each_occurrence.deeper", nil},
		{"nope", nil},
		{"nope.deeper.still", nil},
		{"", nil},
	}

	for _, tt := range tests {
		if got := lookupPath(rec, tt.path); got != tt.want {
			t.Errorf("lookupPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if got := lookupPath(nil, "anything"); got != nil {
		t.Errorf("lookupPath on nil record = %v, want nil", got)
	}
}

func TestEvaluateRule_TargetResolution(t *testing.T) {
	ectx := testContext()
	policy := domain.Record{"coverage_type": "auto"}

	tests := []struct {
		name        string
		rule        domain.Rule
		wantMatched bool
		wantActual  any
	}{
		{
			name: "policy target",
			rule: domain.Rule{
				ID: "r1", Field: "coverage_type", Target: domain.TargetPolicy,
				Operator: domain.OpEq, Value: "auto",
			},
			wantMatched: true,
			wantActual:  "auto",
		},
		{
			name: "vendor target nested path",
			rule: domain.Rule{
				ID: "r2", Field: "insurance.broker", Target: domain.TargetVendor,
				Operator: domain.OpEq, Value: "Marsh",
			},
			wantMatched: true,
			wantActual:  "Marsh",
		},
		{
			name: "org target",
			rule: domain.Rule{
				ID: "r3", Field: "required_tier", Target: domain.TargetOrg,
				Operator: domain.OpEq, Value: "gold",
			},
			wantMatched: true,
			wantActual:  "gold",
		},
		{
			name: "unrecognized target defaults to policy",
			rule: domain.Rule{
				ID: "r4", Field: "coverage_type", Target: "warehouse",
				Operator: domain.OpEq, Value: "auto",
			},
			wantMatched: true,
			wantActual:  "auto",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := EvaluateRule(tt.rule, ectx, policy)
			if v.Matched != tt.wantMatched {
				t.Errorf("matched = %v, want %v", v.Matched, tt.wantMatched)
			}
			if v.Failing == tt.wantMatched {
				t.Error("failing must be the negation of matched")
			}
			if v.Actual != tt.wantActual {
				t.Errorf("actual = %v, want %v", v.Actual, tt.wantActual)
			}
		})
	}
}

func TestEvaluateRule_Defaults(t *testing.T) {
	v := EvaluateRule(domain.Rule{
		ID: "r1", Field: "x", Operator: domain.OpPresent,
	}, domain.EvaluationContext{}, nil)

	if v.Severity != domain.SeverityMedium {
		t.Errorf("severity = %q, want medium default", v.Severity)
	}
	if v.Weight != 1 {
		t.Errorf("weight = %v, want 1 default", v.Weight)
	}
}

func TestEvaluateRule_MissingFlag(t *testing.T) {
	ectx := testContext()
	policy := domain.Record{"coverage_type": "auto"}

	// missing flag set for presence operators on absent values
	v := EvaluateRule(domain.Rule{
		ID: "r1", Field: "carrier", Operator: domain.OpPresent,
	}, ectx, policy)
	if !v.Missing {
		t.Error("present on absent field must set missing")
	}
	if v.Matched {
		t.Error("present on absent field must not match")
	}

	v = EvaluateRule(domain.Rule{
		ID: "r2", Field: "carrier", Operator: domain.OpMissing,
	}, ectx, policy)
	if !v.Missing || !v.Matched {
		t.Errorf("missing on absent field: missing=%v matched=%v, want both true", v.Missing, v.Matched)
	}

	// never set for non-presence operators, even on absent values
	v = EvaluateRule(domain.Rule{
		ID: "r3", Field: "carrier", Operator: domain.OpEq, Value: "",
	}, ectx, policy)
	if v.Missing {
		t.Error("eq must never set the missing flag")
	}
}

func TestEvaluateRule_ExpressionOperator(t *testing.T) {
	ectx := testContext()
	policy := domain.Record{
		"limits": map[string]any{
			"each_occurrence": 1000000.0,
			"aggregate":       2000000.0,
		},
	}

	v := EvaluateRule(domain.Rule{
		ID:         "expr1",
		Operator:   domain.OpExpression,
		Expression: `policy.limits.aggregate >= 2.0 * policy.limits.each_occurrence`,
	}, ectx, policy)
	if !v.Matched {
		t.Error("expected expression to match")
	}

	// compile failure fails closed
	v = EvaluateRule(domain.Rule{
		ID:         "expr2",
		Operator:   domain.OpExpression,
		Expression: `not valid cel !!!`,
	}, ectx, policy)
	if v.Matched {
		t.Error("invalid expression must not match")
	}

	// eval failure (absent key) fails closed
	v = EvaluateRule(domain.Rule{
		ID:         "expr3",
		Operator:   domain.OpExpression,
		Expression: `policy.limits.umbrella > 0.0`,
	}, ectx, policy)
	if v.Matched {
		t.Error("expression over absent key must not match")
	}
}
