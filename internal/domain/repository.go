// Package domain defines the core interfaces and types for Kestrel.
package domain

import (
	"context"
	"time"
)

// Repository defines the interface for data persistence.
// All methods require orgID for strict multi-org isolation.
type Repository interface {
	// Vendor operations
	SaveVendor(ctx context.Context, orgID string, vendor *Vendor) error
	GetVendor(ctx context.Context, orgID string, vendorID string) (*Vendor, error)
	ListVendors(ctx context.Context, orgID string) ([]*Vendor, error)

	// Policy operations
	SavePolicy(ctx context.Context, orgID string, policy *Policy) error
	GetPolicy(ctx context.Context, orgID string, policyID string) (*Policy, error)
	ListPoliciesByVendor(ctx context.Context, orgID string, vendorID string) ([]*Policy, error)

	// Rule group operations
	SaveRuleGroup(ctx context.Context, orgID string, group *RuleGroup) error
	GetRuleGroup(ctx context.Context, orgID string, groupID string) (*RuleGroup, error)
	ListRuleGroups(ctx context.Context, orgID string) ([]*RuleGroup, error)
	DeleteRuleGroup(ctx context.Context, orgID string, groupID string) error

	// Alert operations
	SaveAlert(ctx context.Context, orgID string, alert *Alert) error
	ResolveAlert(ctx context.Context, orgID string, alertID string) error
	ListOpenAlerts(ctx context.Context, orgID string, vendorID string) ([]*Alert, error)
	CountOpenAlerts(ctx context.Context, orgID string, vendorID string) (int, error)

	// Document operations
	SaveDocument(ctx context.Context, orgID string, doc *Document) error
	ListDocumentTypes(ctx context.Context, orgID string, vendorID string) ([]string, error)

	// Renewal schedule operations
	SaveRenewalSchedule(ctx context.Context, orgID string, sched *RenewalSchedule) error
	ListActiveSchedules(ctx context.Context, orgID string) ([]*ScheduleRow, error)

	// Outreach history (most recent first)
	SaveOutreachRecord(ctx context.Context, orgID string, rec *OutreachRecord) error
	ListOutreachHistory(ctx context.Context, orgID string, vendorID string, limit int) ([]*OutreachRecord, error)

	// Compliance snapshots
	SaveComplianceSnapshot(ctx context.Context, orgID string, snap *ComplianceSnapshot) error
	GetComplianceSnapshot(ctx context.Context, orgID string, vendorID string) (*ComplianceSnapshot, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string

	// SQLite specific
	SQLitePath string

	// PostgreSQL specific
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
