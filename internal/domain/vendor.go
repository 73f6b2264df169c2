package domain

import "time"

// Record is a generic key-value view of a vendor, org, or policy.
// Rule fields address records by dotted path (e.g. "limits.general"),
// so nested values are plain map[string]any.
type Record = map[string]any

// Vendor represents a vendor being tracked for insurance compliance.
type Vendor struct {
	ID       string `json:"id"`
	OrgID    string `json:"orgId"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Email    string `json:"email,omitempty"`

	// Fields holds additional attributes referenced by vendor-targeted rules.
	Fields map[string]any `json:"fields,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// AsRecord returns the vendor as a flat record for rule evaluation.
// Named attributes are merged over Fields so they always win.
func (v *Vendor) AsRecord() Record {
	rec := make(Record, len(v.Fields)+4)
	for k, val := range v.Fields {
		rec[k] = val
	}
	rec["id"] = v.ID
	rec["name"] = v.Name
	rec["category"] = v.Category
	rec["email"] = v.Email
	return rec
}

// Org represents the organization whose requirements vendors must satisfy.
type Org struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Fields map[string]any `json:"fields,omitempty"`
}

// AsRecord returns the org as a record for rule evaluation.
func (o *Org) AsRecord() Record {
	rec := make(Record, len(o.Fields)+2)
	for k, val := range o.Fields {
		rec[k] = val
	}
	rec["id"] = o.ID
	rec["name"] = o.Name
	return rec
}

// Policy represents a single insurance policy extracted from a COI.
// Expiration dates are stored in MM/DD/YYYY form as they appear on
// certificates.
type Policy struct {
	ID           string `json:"id"`
	OrgID        string `json:"orgId"`
	VendorID     string `json:"vendorId"`
	CoverageType string `json:"coverageType"`

	// ExpirationDate is MM/DD/YYYY as printed on the certificate.
	ExpirationDate string `json:"expirationDate"`

	// Fields holds coverage limits, endorsement flags and any other
	// extracted policy attributes (e.g. "limits.general", "additional_insured").
	Fields map[string]any `json:"fields,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// AsRecord returns the policy as a record for rule evaluation.
func (p *Policy) AsRecord() Record {
	rec := make(Record, len(p.Fields)+4)
	for k, val := range p.Fields {
		rec[k] = val
	}
	rec["id"] = p.ID
	rec["vendor_id"] = p.VendorID
	rec["coverage_type"] = p.CoverageType
	rec["expiration_date"] = p.ExpirationDate
	return rec
}

// Alert severities, ordered by urgency.
const (
	AlertSeverityCritical = "critical"
	AlertSeverityHigh     = "high"
	AlertSeverityMedium   = "medium"
	AlertSeverityLow      = "low"
)

// Alert is an open compliance or renewal issue attached to a vendor.
type Alert struct {
	ID       string `json:"id"`
	OrgID    string `json:"orgId"`
	VendorID string `json:"vendorId"`
	Severity string `json:"severity"`
	Category string `json:"category"`
	Message  string `json:"message,omitempty"`
	Resolved bool   `json:"resolved"`

	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

// Document categories an org expects on file for every vendor.
const (
	DocCategoryW9          = "w9"
	DocCategoryLicense     = "license"
	DocCategoryContract    = "contract"
	DocCategoryEndorsement = "endorsement"
	DocCategoryEntityCert  = "entity_certificate"
)

// Document is a vendor document on file (W-9, license, signed contract, ...).
type Document struct {
	ID       string `json:"id"`
	OrgID    string `json:"orgId"`
	VendorID string `json:"vendorId"`
	Category string `json:"category"`
	FileName string `json:"fileName,omitempty"`

	UploadedAt time.Time `json:"uploadedAt"`
}

// RenewalSchedule tracks an upcoming policy renewal for escalation.
// Stage is the last countdown checkpoint reached (90, 30, 7, 3, 1 or 0
// days before expiration); nil means no checkpoint has fired yet.
type RenewalSchedule struct {
	ID       string `json:"id"`
	OrgID    string `json:"orgId"`
	VendorID string `json:"vendorId"`
	PolicyID string `json:"policyId"`
	Stage    *int   `json:"stage,omitempty"`
	Active   bool   `json:"active"`

	CreatedAt time.Time `json:"createdAt"`
}

// ScheduleRow is a renewal schedule joined with its vendor and policy,
// as consumed by the forecast builder.
type ScheduleRow struct {
	ScheduleID     string `json:"scheduleId"`
	VendorID       string `json:"vendorId"`
	VendorName     string `json:"vendorName"`
	PolicyID       string `json:"policyId"`
	CoverageType   string `json:"coverageType"`
	ExpirationDate string `json:"expirationDate"`
	Stage          *int   `json:"stage,omitempty"`
}

// OutreachRecord is a row from the renewal outreach queue (emails sent to
// vendors asking for updated certificates). Meta carries the policy
// expiration date the outreach was about, under "expDate".
type OutreachRecord struct {
	ID       string         `json:"id"`
	OrgID    string         `json:"orgId"`
	VendorID string         `json:"vendorId"`
	Kind     string         `json:"kind"`
	Meta     map[string]any `json:"meta,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
