package rules

import (
	"math"

	"github.com/vendorsafe/kestrel/internal/domain"
)

// severityScores maps a rule severity to the 0-100 magnitude used when
// computing failure penalties. Unknown severities fall back to
// severityScoreDefault.
var severityScores = map[string]float64{
	domain.SeverityCritical: 100,
	domain.SeverityHigh:     80,
	domain.SeverityMedium:   55,
	domain.SeverityLow:      30,
}

const (
	severityScoreDefault = 40

	// failurePenaltyUnit caps the per-rule penalty: a single failing rule at
	// full severity and weight 1 costs at most 15 points.
	failurePenaltyUnit = 15
)

// EvaluateGroup evaluates every rule in a group against the context under the
// group's scope and combination logic, and aggregates to a 0-100 score.
func EvaluateGroup(group domain.RuleGroup, ectx domain.EvaluationContext) domain.GroupResult {
	result := domain.GroupResult{
		GroupID:      group.ID,
		Label:        group.Label,
		Scope:        group.Scope,
		Logic:        group.Logic,
		FailingRules: []domain.RuleVerdict{},
		MissingData:  []domain.RuleVerdict{},
	}

	if group.Scope == domain.ScopePerVendor {
		verdicts := make([]domain.RuleVerdict, 0, len(group.Rules))
		for _, rule := range group.Rules {
			verdicts = append(verdicts, EvaluateRule(rule, ectx, nil))
		}

		result.Passed = combineLogic(group.Logic, verdicts)
		result.FailingRules = collectFailing(verdicts, "")
		result.MissingData = collectMissing(verdicts, "")
		result.Score = computeGroupScore(verdicts, group.Weight)
		return result
	}

	// Policy scopes: each rule set runs once per policy in the context.
	var all []domain.RuleVerdict
	passedPolicies := 0

	for i := range ectx.Policies {
		policy := &ectx.Policies[i]
		rec := policy.AsRecord()

		verdicts := make([]domain.RuleVerdict, 0, len(group.Rules))
		for _, rule := range group.Rules {
			verdicts = append(verdicts, EvaluateRule(rule, ectx, rec))
		}

		if combineLogic(group.Logic, verdicts) {
			passedPolicies++
		}

		result.FailingRules = append(result.FailingRules, collectFailing(verdicts, policy.ID)...)
		result.MissingData = append(result.MissingData, collectMissing(verdicts, policy.ID)...)
		all = append(all, verdicts...)
	}

	result.PoliciesEvaluated = len(ectx.Policies)

	if group.Scope == domain.ScopeAnyPolicy {
		result.Passed = passedPolicies > 0
	} else {
		result.Passed = passedPolicies == len(ectx.Policies)
	}

	// Score from the failing set when nonempty, else from the flattened
	// per-policy verdicts. With no policies the list is empty and the score
	// is 100: no data, no penalty.
	if len(result.FailingRules) > 0 {
		result.Score = computeGroupScore(result.FailingRules, group.Weight)
	} else {
		result.Score = computeGroupScore(all, group.Weight)
	}

	return result
}

// combineLogic folds verdicts under the group's combination logic:
// ANY passes when at least one rule matched, anything else behaves as ALL
// (every rule matched, vacuously true for zero rules).
func combineLogic(logic string, verdicts []domain.RuleVerdict) bool {
	if logic == domain.LogicAny {
		for _, v := range verdicts {
			if v.Matched {
				return true
			}
		}
		return false
	}
	for _, v := range verdicts {
		if !v.Matched {
			return false
		}
	}
	return true
}

func collectFailing(verdicts []domain.RuleVerdict, policyID string) []domain.RuleVerdict {
	out := make([]domain.RuleVerdict, 0)
	for _, v := range verdicts {
		if v.Failing {
			v.PolicyID = policyID
			out = append(out, v)
		}
	}
	return out
}

func collectMissing(verdicts []domain.RuleVerdict, policyID string) []domain.RuleVerdict {
	out := make([]domain.RuleVerdict, 0)
	for _, v := range verdicts {
		if v.Missing {
			v.PolicyID = policyID
			out = append(out, v)
		}
	}
	return out
}

// computeGroupScore starts at 100 and subtracts a penalty for every failing
// verdict: (severity/100) * failurePenaltyUnit * rule weight, with the
// accumulated total scaled by the group weight. Clamped to [0,100] and
// rounded to the nearest integer. Zero failing verdicts returns exactly 100.
func computeGroupScore(verdicts []domain.RuleVerdict, groupWeight float64) int {
	var penalty float64
	for _, v := range verdicts {
		if !v.Failing {
			continue
		}
		severity, ok := severityScores[v.Severity]
		if !ok {
			severity = severityScoreDefault
		}
		weight := v.Weight
		if weight == 0 {
			weight = 1
		}
		penalty += (severity / 100) * failurePenaltyUnit * weight
	}

	if groupWeight == 0 {
		groupWeight = 1
	}

	score := 100 - penalty*groupWeight
	return int(math.Round(clamp(score, 0, 100)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
