package rules

import (
	"github.com/vendorsafe/kestrel/internal/domain"
)

// EvaluateRule evaluates one rule against one target record and returns a
// structured verdict. The policy argument is the record of the policy under
// evaluation; nil for vendor-scoped runs.
func EvaluateRule(rule domain.Rule, ectx domain.EvaluationContext, policy domain.Record) domain.RuleVerdict {
	target := resolveTarget(rule.Target, ectx, policy)
	actual := lookupPath(target, rule.Field)

	var matched bool
	if rule.Operator == domain.OpExpression {
		matched = evalExpression(rule.Expression, activationFor(ectx, policy))
	} else {
		matched = EvaluateOperator(rule.Operator, actual, rule.Value)
	}

	severity := rule.Severity
	if severity == "" {
		severity = domain.SeverityMedium
	}
	weight := rule.Weight
	if weight == 0 {
		weight = 1
	}

	verdict := domain.RuleVerdict{
		RuleID:   rule.ID,
		Field:    rule.Field,
		Operator: rule.Operator,
		Expected: rule.Value,
		Actual:   actual,
		Severity: severity,
		Weight:   weight,
		Matched:  matched,
		Failing:  !matched,
	}

	// Missing is meaningful only for presence-style checks.
	if rule.Operator == domain.OpMissing || rule.Operator == domain.OpPresent {
		verdict.Missing = isEmpty(actual)
	}

	return verdict
}

// resolveTarget picks the record a rule's field path resolves against.
// Unrecognized targets default to the policy record.
func resolveTarget(target string, ectx domain.EvaluationContext, policy domain.Record) domain.Record {
	switch target {
	case domain.TargetVendor:
		return ectx.Vendor
	case domain.TargetOrg:
		return ectx.Org
	default:
		return policy
	}
}
