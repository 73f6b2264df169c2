package rules

import (
	"fmt"
	"math"
	"sync"

	"github.com/vendorsafe/kestrel/internal/domain"
)

// EvaluateComplianceRules runs every rule group against the context and
// produces the global weighted score plus the list of failing groups.
// It is a total function: nil groups and empty contexts score 100.
func EvaluateComplianceRules(groups []*domain.RuleGroup, ectx domain.EvaluationContext) domain.EngineResult {
	result := domain.EngineResult{
		GroupResults:  []domain.GroupResult{},
		FailingGroups: []domain.GroupResult{},
	}

	var weightedSum, totalWeight float64

	for _, group := range groups {
		if group == nil {
			continue
		}

		gr := EvaluateGroup(*group, ectx)
		result.GroupResults = append(result.GroupResults, gr)

		weight := group.Weight
		if weight == 0 {
			weight = 1
		}
		weightedSum += float64(gr.Score) * weight
		totalWeight += weight

		if !gr.Passed {
			result.FailingGroups = append(result.FailingGroups, gr)
		}
	}

	// No groups, or degenerate weights: nothing to fail.
	result.GlobalScore = 100
	if totalWeight > 0 {
		result.GlobalScore = int(math.Round(clamp(weightedSum/totalWeight, 0, 100)))
	}

	return result
}

// SnapshotFromResult condenses an engine result into the persisted summary
// read by the forecast and intelligence layers.
func SnapshotFromResult(orgID, vendorID string, res domain.EngineResult) *domain.ComplianceSnapshot {
	snap := &domain.ComplianceSnapshot{
		OrgID:    orgID,
		VendorID: vendorID,
		Score:    res.GlobalScore,
	}
	for _, gr := range res.GroupResults {
		snap.FailingRules += len(gr.FailingRules)
		snap.MissingRules += len(gr.MissingData)
	}
	for _, gr := range res.FailingGroups {
		snap.FailingGroups = append(snap.FailingGroups, gr.GroupID)
	}
	return snap
}

// GroupEngine is a per-org registry of loaded rule groups. Evaluation itself
// is pure; the registry only provides hot-reloadable storage for the API and
// worker paths.
type GroupEngine struct {
	mu     sync.RWMutex
	groups map[string][]*domain.RuleGroup // key: orgID
}

// NewGroupEngine creates an empty rule group registry.
func NewGroupEngine() *GroupEngine {
	return &GroupEngine{
		groups: make(map[string][]*domain.RuleGroup),
	}
}

// ValidateGroup checks a group's shape and compiles any expression rules
// without mutating loaded state.
func (e *GroupEngine) ValidateGroup(group *domain.RuleGroup) error {
	if group == nil {
		return fmt.Errorf("rule group is required")
	}
	switch group.Logic {
	case domain.LogicAll, domain.LogicAny:
	default:
		return fmt.Errorf("group %s: unknown logic %q", group.ID, group.Logic)
	}
	switch group.Scope {
	case domain.ScopeAnyPolicy, domain.ScopeAllPolicies, domain.ScopePerVendor:
	default:
		return fmt.Errorf("group %s: unknown scope %q", group.ID, group.Scope)
	}
	for _, rule := range group.Rules {
		if rule.Operator != domain.OpExpression {
			continue
		}
		if _, err := compileExpression(rule.Expression); err != nil {
			return fmt.Errorf("group %s rule %s: %w", group.ID, rule.ID, err)
		}
	}
	return nil
}

// LoadGroups replaces the loaded groups for an org with the enabled subset
// of the given groups. Enables hot-reloading from the database.
func (e *GroupEngine) LoadGroups(orgID string, groups []*domain.RuleGroup) {
	enabled := make([]*domain.RuleGroup, 0, len(groups))
	for _, g := range groups {
		if g != nil && g.Enabled {
			enabled = append(enabled, g)
		}
	}

	e.mu.Lock()
	e.groups[orgID] = enabled
	e.mu.Unlock()
}

// GroupsFor returns the loaded groups for an org.
func (e *GroupEngine) GroupsFor(orgID string) []*domain.RuleGroup {
	e.mu.RLock()
	defer e.mu.RUnlock()

	loaded := e.groups[orgID]
	out := make([]*domain.RuleGroup, len(loaded))
	copy(out, loaded)
	return out
}

// GroupCount returns the number of loaded groups for an org.
func (e *GroupEngine) GroupCount(orgID string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.groups[orgID])
}

// Evaluate runs the loaded groups for an org against the context.
func (e *GroupEngine) Evaluate(orgID string, ectx domain.EvaluationContext) domain.EngineResult {
	return EvaluateComplianceRules(e.GroupsFor(orgID), ectx)
}

// Close clears the registry.
func (e *GroupEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.groups = make(map[string][]*domain.RuleGroup)
	return nil
}
