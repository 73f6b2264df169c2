// Package repository provides data persistence implementations.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vendorsafe/kestrel/internal/domain"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

// SQLRepository implements domain.Repository using database/sql.
// Works with both SQLite and PostgreSQL drivers.
type SQLRepository struct {
	db     *sql.DB
	driver string
}

// New creates a new repository based on configuration.
func New(cfg domain.RepositoryConfig) (domain.Repository, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLite(cfg)
	case "postgres":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	repo := &SQLRepository{
		db:     db,
		driver: cfg.Driver,
	}

	// Run migrations
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

func (r *SQLRepository) migrate() error {
	for _, schema := range AllSchemas() {
		if _, err := r.db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

func requireOrg(orgID string) error {
	if orgID == "" {
		return fmt.Errorf("%w: orgID is required", ErrInvalidInput)
	}
	return nil
}

// SaveVendor upserts a vendor with org isolation.
func (r *SQLRepository) SaveVendor(ctx context.Context, orgID string, vendor *domain.Vendor) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	fields, _ := json.Marshal(vendor.Fields)

	createdAt := vendor.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO vendors (id, org_id, name, category, email, fields, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id, org_id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			email = excluded.email,
			fields = excluded.fields
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		vendor.ID, orgID, vendor.Name, vendor.Category, vendor.Email,
		string(fields), createdAt,
	)
	return err
}

// GetVendor retrieves a vendor by ID with org isolation.
func (r *SQLRepository) GetVendor(ctx context.Context, orgID string, vendorID string) (*domain.Vendor, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, org_id, name, category, email, fields, created_at
		FROM vendors
		WHERE org_id = ? AND id = ?
	`

	var v domain.Vendor
	var fields sql.NullString

	err := r.db.QueryRowContext(ctx, r.rebind(query), orgID, vendorID).Scan(
		&v.ID, &v.OrgID, &v.Name, &v.Category, &v.Email, &fields, &v.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if fields.String != "" {
		json.Unmarshal([]byte(fields.String), &v.Fields)
	}

	return &v, nil
}

// ListVendors retrieves all vendors for an org, ordered by name.
func (r *SQLRepository) ListVendors(ctx context.Context, orgID string) ([]*domain.Vendor, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, org_id, name, category, email, fields, created_at
		FROM vendors
		WHERE org_id = ?
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []*domain.Vendor
	for rows.Next() {
		var v domain.Vendor
		var fields sql.NullString

		if err := rows.Scan(
			&v.ID, &v.OrgID, &v.Name, &v.Category, &v.Email, &fields, &v.CreatedAt,
		); err != nil {
			return nil, err
		}

		if fields.String != "" {
			json.Unmarshal([]byte(fields.String), &v.Fields)
		}
		vendors = append(vendors, &v)
	}

	return vendors, rows.Err()
}

// SavePolicy upserts a policy with org isolation.
func (r *SQLRepository) SavePolicy(ctx context.Context, orgID string, policy *domain.Policy) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	fields, _ := json.Marshal(policy.Fields)

	createdAt := policy.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO policies (id, org_id, vendor_id, coverage_type, expiration_date, fields, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id, org_id) DO UPDATE SET
			vendor_id = excluded.vendor_id,
			coverage_type = excluded.coverage_type,
			expiration_date = excluded.expiration_date,
			fields = excluded.fields
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		policy.ID, orgID, policy.VendorID, policy.CoverageType,
		policy.ExpirationDate, string(fields), createdAt,
	)
	return err
}

// GetPolicy retrieves a policy by ID with org isolation.
func (r *SQLRepository) GetPolicy(ctx context.Context, orgID string, policyID string) (*domain.Policy, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, org_id, vendor_id, coverage_type, expiration_date, fields, created_at
		FROM policies
		WHERE org_id = ? AND id = ?
	`

	var p domain.Policy
	var fields sql.NullString

	err := r.db.QueryRowContext(ctx, r.rebind(query), orgID, policyID).Scan(
		&p.ID, &p.OrgID, &p.VendorID, &p.CoverageType, &p.ExpirationDate,
		&fields, &p.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if fields.String != "" {
		json.Unmarshal([]byte(fields.String), &p.Fields)
	}

	return &p, nil
}

// ListPoliciesByVendor retrieves all policies for a vendor with org isolation.
func (r *SQLRepository) ListPoliciesByVendor(ctx context.Context, orgID string, vendorID string) ([]*domain.Policy, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, org_id, vendor_id, coverage_type, expiration_date, fields, created_at
		FROM policies
		WHERE org_id = ? AND vendor_id = ?
		ORDER BY coverage_type, id
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), orgID, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []*domain.Policy
	for rows.Next() {
		var p domain.Policy
		var fields sql.NullString

		if err := rows.Scan(
			&p.ID, &p.OrgID, &p.VendorID, &p.CoverageType, &p.ExpirationDate,
			&fields, &p.CreatedAt,
		); err != nil {
			return nil, err
		}

		if fields.String != "" {
			json.Unmarshal([]byte(fields.String), &p.Fields)
		}
		policies = append(policies, &p)
	}

	return policies, rows.Err()
}

// SaveRuleGroup upserts a rule group with org isolation.
func (r *SQLRepository) SaveRuleGroup(ctx context.Context, orgID string, group *domain.RuleGroup) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	rules, _ := json.Marshal(group.Rules)

	enabled := 0
	if group.Enabled {
		enabled = 1
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO rule_groups (
			id, org_id, label, logic, scope, rules, weight, enabled, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id, org_id) DO UPDATE SET
			label = excluded.label,
			logic = excluded.logic,
			scope = excluded.scope,
			rules = excluded.rules,
			weight = excluded.weight,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		group.ID, orgID, group.Label, group.Logic, group.Scope,
		string(rules), group.Weight, enabled,
		now, now,
	)
	return err
}

// GetRuleGroup retrieves an enabled rule group with org isolation.
func (r *SQLRepository) GetRuleGroup(ctx context.Context, orgID string, groupID string) (*domain.RuleGroup, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, org_id, label, logic, scope, rules, weight, enabled, created_at, updated_at
		FROM rule_groups
		WHERE org_id = ? AND id = ? AND enabled = 1
	`

	var g domain.RuleGroup
	var rules string
	var enabled int

	err := r.db.QueryRowContext(ctx, r.rebind(query), orgID, groupID).Scan(
		&g.ID, &g.OrgID, &g.Label, &g.Logic, &g.Scope,
		&rules, &g.Weight, &enabled,
		&g.CreatedAt, &g.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	g.Enabled = enabled == 1
	if err := json.Unmarshal([]byte(rules), &g.Rules); err != nil {
		return nil, fmt.Errorf("failed to parse group rules: %w", err)
	}

	return &g, nil
}

// ListRuleGroups retrieves all enabled rule groups for an org.
func (r *SQLRepository) ListRuleGroups(ctx context.Context, orgID string) ([]*domain.RuleGroup, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, org_id, label, logic, scope, rules, weight, enabled, created_at, updated_at
		FROM rule_groups
		WHERE org_id = ? AND enabled = 1
		ORDER BY label
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*domain.RuleGroup
	for rows.Next() {
		var g domain.RuleGroup
		var rules string
		var enabled int

		if err := rows.Scan(
			&g.ID, &g.OrgID, &g.Label, &g.Logic, &g.Scope,
			&rules, &g.Weight, &enabled,
			&g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}

		g.Enabled = enabled == 1
		if err := json.Unmarshal([]byte(rules), &g.Rules); err != nil {
			return nil, fmt.Errorf("failed to parse group rules for %s: %w", g.ID, err)
		}
		groups = append(groups, &g)
	}

	return groups, rows.Err()
}

// DeleteRuleGroup soft-deletes a rule group by setting enabled = 0.
func (r *SQLRepository) DeleteRuleGroup(ctx context.Context, orgID string, groupID string) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	query := `
		UPDATE rule_groups
		SET enabled = 0, updated_at = ?
		WHERE org_id = ? AND id = ?
	`

	result, err := r.db.ExecContext(ctx, r.rebind(query), time.Now().UTC(), orgID, groupID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// SaveAlert stores an alert with org isolation.
func (r *SQLRepository) SaveAlert(ctx context.Context, orgID string, alert *domain.Alert) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	resolved := 0
	if alert.Resolved {
		resolved = 1
	}

	createdAt := alert.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO alerts (id, org_id, vendor_id, severity, category, message, resolved, created_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		alert.ID, orgID, alert.VendorID, alert.Severity, alert.Category,
		alert.Message, resolved, createdAt, alert.ResolvedAt,
	)
	return err
}

// ResolveAlert marks an open alert as resolved.
func (r *SQLRepository) ResolveAlert(ctx context.Context, orgID string, alertID string) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	query := `
		UPDATE alerts
		SET resolved = 1, resolved_at = ?
		WHERE org_id = ? AND id = ? AND resolved = 0
	`

	result, err := r.db.ExecContext(ctx, r.rebind(query), time.Now().UTC(), orgID, alertID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListOpenAlerts retrieves unresolved alerts for a vendor, newest first.
func (r *SQLRepository) ListOpenAlerts(ctx context.Context, orgID string, vendorID string) ([]*domain.Alert, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, org_id, vendor_id, severity, category, message, resolved, created_at, resolved_at
		FROM alerts
		WHERE org_id = ? AND vendor_id = ? AND resolved = 0
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), orgID, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []*domain.Alert
	for rows.Next() {
		var a domain.Alert
		var category, message sql.NullString
		var resolved int
		var resolvedAt sql.NullTime

		if err := rows.Scan(
			&a.ID, &a.OrgID, &a.VendorID, &a.Severity, &category,
			&message, &resolved, &a.CreatedAt, &resolvedAt,
		); err != nil {
			return nil, err
		}

		a.Category = category.String
		a.Message = message.String
		a.Resolved = resolved == 1
		if resolvedAt.Valid {
			t := resolvedAt.Time
			a.ResolvedAt = &t
		}
		alerts = append(alerts, &a)
	}

	return alerts, rows.Err()
}

// CountOpenAlerts counts unresolved alerts for a vendor.
func (r *SQLRepository) CountOpenAlerts(ctx context.Context, orgID string, vendorID string) (int, error) {
	if err := requireOrg(orgID); err != nil {
		return 0, err
	}

	query := `
		SELECT COUNT(*)
		FROM alerts
		WHERE org_id = ? AND vendor_id = ? AND resolved = 0
	`

	var count int
	err := r.db.QueryRowContext(ctx, r.rebind(query), orgID, vendorID).Scan(&count)
	return count, err
}

// SaveDocument stores a vendor document record with org isolation.
func (r *SQLRepository) SaveDocument(ctx context.Context, orgID string, doc *domain.Document) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	uploadedAt := doc.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO vendor_documents (id, org_id, vendor_id, category, file_name, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		doc.ID, orgID, doc.VendorID, doc.Category, doc.FileName, uploadedAt,
	)
	return err
}

// ListDocumentTypes retrieves the distinct document categories on file
// for a vendor.
func (r *SQLRepository) ListDocumentTypes(ctx context.Context, orgID string, vendorID string) ([]string, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	query := `
		SELECT DISTINCT category
		FROM vendor_documents
		WHERE org_id = ? AND vendor_id = ?
		ORDER BY category
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), orgID, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// SaveRenewalSchedule upserts a renewal schedule with org isolation.
func (r *SQLRepository) SaveRenewalSchedule(ctx context.Context, orgID string, sched *domain.RenewalSchedule) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	active := 0
	if sched.Active {
		active = 1
	}

	var stage sql.NullInt64
	if sched.Stage != nil {
		stage = sql.NullInt64{Int64: int64(*sched.Stage), Valid: true}
	}

	createdAt := sched.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO renewal_schedules (id, org_id, vendor_id, policy_id, stage, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id, org_id) DO UPDATE SET
			stage = excluded.stage,
			active = excluded.active
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		sched.ID, orgID, sched.VendorID, sched.PolicyID, stage, active, createdAt,
	)
	return err
}

// ListActiveSchedules retrieves active renewal schedules joined with vendor
// and policy data, as consumed by the forecast builder.
func (r *SQLRepository) ListActiveSchedules(ctx context.Context, orgID string) ([]*domain.ScheduleRow, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	query := `
		SELECT s.id, s.vendor_id, v.name, s.policy_id, p.coverage_type, p.expiration_date, s.stage
		FROM renewal_schedules s
		JOIN vendors v ON v.org_id = s.org_id AND v.id = s.vendor_id
		JOIN policies p ON p.org_id = s.org_id AND p.id = s.policy_id
		WHERE s.org_id = ? AND s.active = 1
		ORDER BY s.created_at, s.id
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*domain.ScheduleRow
	for rows.Next() {
		var row domain.ScheduleRow
		var expiration sql.NullString
		var stage sql.NullInt64

		if err := rows.Scan(
			&row.ScheduleID, &row.VendorID, &row.VendorName,
			&row.PolicyID, &row.CoverageType, &expiration, &stage,
		); err != nil {
			return nil, err
		}

		row.ExpirationDate = expiration.String
		if stage.Valid {
			s := int(stage.Int64)
			row.Stage = &s
		}
		schedules = append(schedules, &row)
	}

	return schedules, rows.Err()
}

// SaveOutreachRecord stores an outreach record with org isolation.
func (r *SQLRepository) SaveOutreachRecord(ctx context.Context, orgID string, rec *domain.OutreachRecord) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	meta, _ := json.Marshal(rec.Meta)

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO outreach_queue (id, org_id, vendor_id, kind, meta, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		rec.ID, orgID, rec.VendorID, rec.Kind, string(meta), createdAt,
	)
	return err
}

// ListOutreachHistory retrieves a vendor's outreach records, most recent
// first, up to limit.
func (r *SQLRepository) ListOutreachHistory(ctx context.Context, orgID string, vendorID string, limit int) ([]*domain.OutreachRecord, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, org_id, vendor_id, kind, meta, created_at
		FROM outreach_queue
		WHERE org_id = ? AND vendor_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), orgID, vendorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.OutreachRecord
	for rows.Next() {
		var rec domain.OutreachRecord
		var meta sql.NullString

		if err := rows.Scan(
			&rec.ID, &rec.OrgID, &rec.VendorID, &rec.Kind, &meta, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}

		if meta.String != "" {
			json.Unmarshal([]byte(meta.String), &rec.Meta)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// SaveComplianceSnapshot upserts the latest compliance summary for a vendor.
func (r *SQLRepository) SaveComplianceSnapshot(ctx context.Context, orgID string, snap *domain.ComplianceSnapshot) error {
	if err := requireOrg(orgID); err != nil {
		return err
	}

	failingGroups, _ := json.Marshal(snap.FailingGroups)

	evaluatedAt := snap.EvaluatedAt
	if evaluatedAt.IsZero() {
		evaluatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO vendor_compliance_cache (
			org_id, vendor_id, score, failing_rules, missing_rules, failing_groups, evaluated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(org_id, vendor_id) DO UPDATE SET
			score = excluded.score,
			failing_rules = excluded.failing_rules,
			missing_rules = excluded.missing_rules,
			failing_groups = excluded.failing_groups,
			evaluated_at = excluded.evaluated_at
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		orgID, snap.VendorID, snap.Score, snap.FailingRules, snap.MissingRules,
		string(failingGroups), evaluatedAt,
	)
	return err
}

// GetComplianceSnapshot retrieves the latest compliance summary for a vendor.
func (r *SQLRepository) GetComplianceSnapshot(ctx context.Context, orgID string, vendorID string) (*domain.ComplianceSnapshot, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}

	query := `
		SELECT org_id, vendor_id, score, failing_rules, missing_rules, failing_groups, evaluated_at
		FROM vendor_compliance_cache
		WHERE org_id = ? AND vendor_id = ?
	`

	var snap domain.ComplianceSnapshot
	var failingGroups sql.NullString

	err := r.db.QueryRowContext(ctx, r.rebind(query), orgID, vendorID).Scan(
		&snap.OrgID, &snap.VendorID, &snap.Score,
		&snap.FailingRules, &snap.MissingRules,
		&failingGroups, &snap.EvaluatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if failingGroups.String != "" {
		json.Unmarshal([]byte(failingGroups.String), &snap.FailingGroups)
	}

	return &snap, nil
}

// Ping checks database connectivity.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL.
func (r *SQLRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}

	// Convert ? to $1, $2, etc.
	var result []byte
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, fmt.Sprintf("%d", n)...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}
