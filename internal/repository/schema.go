package repository

// Schema definitions for the Kestrel database.
// Compatible with both SQLite and PostgreSQL.

const schemaVendors = `
CREATE TABLE IF NOT EXISTS vendors (
    id TEXT NOT NULL,
    org_id TEXT NOT NULL,
    name TEXT NOT NULL,
    category TEXT,
    email TEXT,
    fields TEXT,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (id, org_id)
);

CREATE INDEX IF NOT EXISTS idx_vendors_org ON vendors(org_id);
CREATE INDEX IF NOT EXISTS idx_vendors_name ON vendors(org_id, name);
`

const schemaPolicies = `
CREATE TABLE IF NOT EXISTS policies (
    id TEXT NOT NULL,
    org_id TEXT NOT NULL,
    vendor_id TEXT NOT NULL,
    coverage_type TEXT NOT NULL,
    expiration_date TEXT,
    fields TEXT,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (id, org_id)
);

CREATE INDEX IF NOT EXISTS idx_policies_org ON policies(org_id);
CREATE INDEX IF NOT EXISTS idx_policies_vendor ON policies(org_id, vendor_id);
`

const schemaRuleGroups = `
CREATE TABLE IF NOT EXISTS rule_groups (
    id TEXT NOT NULL,
    org_id TEXT NOT NULL,
    label TEXT NOT NULL,
    logic TEXT NOT NULL,
    scope TEXT NOT NULL,
    rules TEXT NOT NULL,
    weight REAL NOT NULL DEFAULT 1.0,
    enabled INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (id, org_id)
);

CREATE INDEX IF NOT EXISTS idx_rule_groups_org ON rule_groups(org_id);
CREATE INDEX IF NOT EXISTS idx_rule_groups_enabled ON rule_groups(org_id, enabled);
`

const schemaAlerts = `
CREATE TABLE IF NOT EXISTS alerts (
    id TEXT NOT NULL,
    org_id TEXT NOT NULL,
    vendor_id TEXT NOT NULL,
    severity TEXT NOT NULL,
    category TEXT,
    message TEXT,
    resolved INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    resolved_at TIMESTAMP,
    PRIMARY KEY (id, org_id)
);

CREATE INDEX IF NOT EXISTS idx_alerts_org ON alerts(org_id);
CREATE INDEX IF NOT EXISTS idx_alerts_vendor ON alerts(org_id, vendor_id, resolved);
`

const schemaVendorDocuments = `
CREATE TABLE IF NOT EXISTS vendor_documents (
    id TEXT NOT NULL,
    org_id TEXT NOT NULL,
    vendor_id TEXT NOT NULL,
    category TEXT NOT NULL,
    file_name TEXT,
    uploaded_at TIMESTAMP NOT NULL,
    PRIMARY KEY (id, org_id)
);

CREATE INDEX IF NOT EXISTS idx_vendor_documents_vendor ON vendor_documents(org_id, vendor_id);
`

const schemaRenewalSchedules = `
CREATE TABLE IF NOT EXISTS renewal_schedules (
    id TEXT NOT NULL,
    org_id TEXT NOT NULL,
    vendor_id TEXT NOT NULL,
    policy_id TEXT NOT NULL,
    stage INTEGER,
    active INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (id, org_id)
);

CREATE INDEX IF NOT EXISTS idx_renewal_schedules_org ON renewal_schedules(org_id, active);
CREATE INDEX IF NOT EXISTS idx_renewal_schedules_vendor ON renewal_schedules(org_id, vendor_id);
`

const schemaOutreachQueue = `
CREATE TABLE IF NOT EXISTS outreach_queue (
    id TEXT NOT NULL,
    org_id TEXT NOT NULL,
    vendor_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    meta TEXT,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (id, org_id)
);

CREATE INDEX IF NOT EXISTS idx_outreach_queue_vendor ON outreach_queue(org_id, vendor_id, created_at);
`

// schemaComplianceCache holds the latest evaluation summary per vendor.
// One row per (org, vendor); evaluations overwrite in place.
const schemaComplianceCache = `
CREATE TABLE IF NOT EXISTS vendor_compliance_cache (
    org_id TEXT NOT NULL,
    vendor_id TEXT NOT NULL,
    score INTEGER NOT NULL,
    failing_rules INTEGER NOT NULL DEFAULT 0,
    missing_rules INTEGER NOT NULL DEFAULT 0,
    failing_groups TEXT,
    evaluated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (org_id, vendor_id)
);
`

// AllSchemas returns all schema statements in order.
func AllSchemas() []string {
	return []string{
		schemaVendors,
		schemaPolicies,
		schemaRuleGroups,
		schemaAlerts,
		schemaVendorDocuments,
		schemaRenewalSchedules,
		schemaOutreachQueue,
		schemaComplianceCache,
	}
}
