package rules

import "github.com/vendorsafe/kestrel/internal/domain"

// StandardCOIGroups returns the starter rule groups seeded for new orgs:
// the checks nearly every org runs against incoming certificates. Orgs
// customize or replace them via the rule group API.
func StandardCOIGroups() []*domain.RuleGroup {
	return []*domain.RuleGroup{
		{
			ID:      "std-gl-coverage",
			Label:   "General Liability Coverage",
			Logic:   domain.LogicAll,
			Scope:   domain.ScopeAnyPolicy,
			Weight:  2,
			Enabled: true,
			Rules: []domain.Rule{
				{
					ID:       "std-gl-present",
					Label:    "General liability policy on file",
					Field:    "coverage_type",
					Target:   domain.TargetPolicy,
					Operator: domain.OpEq,
					Value:    "general_liability",
					Severity: domain.SeverityCritical,
				},
				{
					ID:       "std-gl-limit",
					Label:    "Per-occurrence limit at least $1M",
					Field:    "limits.each_occurrence",
					Target:   domain.TargetPolicy,
					Operator: domain.OpGte,
					Value:    1000000,
					Severity: domain.SeverityHigh,
				},
			},
		},
		{
			ID:      "std-expiration",
			Label:   "Policy Expiration",
			Logic:   domain.LogicAll,
			Scope:   domain.ScopeAllPolicies,
			Weight:  1,
			Enabled: true,
			Rules: []domain.Rule{
				{
					ID:       "std-not-expiring",
					Label:    "Not expiring within 30 days",
					Field:    "expiration_date",
					Target:   domain.TargetPolicy,
					Operator: domain.OpAfterDays,
					Value:    30,
					Severity: domain.SeverityHigh,
					AIHint:   "Expiration date as printed in the POLICY EXP column",
				},
			},
		},
		{
			ID:      "std-endorsements",
			Label:   "Required Endorsements",
			Logic:   domain.LogicAll,
			Scope:   domain.ScopeAnyPolicy,
			Weight:  1,
			Enabled: true,
			Rules: []domain.Rule{
				{
					ID:       "std-additional-insured",
					Label:    "Org named as additional insured",
					Field:    "endorsements.additional_insured",
					Target:   domain.TargetPolicy,
					Operator: domain.OpEq,
					Value:    true,
					Severity: domain.SeverityMedium,
				},
				{
					ID:       "std-waiver",
					Label:    "Waiver of subrogation",
					Field:    "endorsements.waiver_of_subrogation",
					Target:   domain.TargetPolicy,
					Operator: domain.OpPresent,
					Severity: domain.SeverityLow,
				},
			},
		},
		{
			ID:      "std-vendor-contact",
			Label:   "Vendor Contact Info",
			Logic:   domain.LogicAll,
			Scope:   domain.ScopePerVendor,
			Weight:  1,
			Enabled: true,
			Rules: []domain.Rule{
				{
					ID:       "std-vendor-email",
					Label:    "Renewal contact email on file",
					Field:    "email",
					Target:   domain.TargetVendor,
					Operator: domain.OpPresent,
					Severity: domain.SeverityMedium,
				},
			},
		},
	}
}
