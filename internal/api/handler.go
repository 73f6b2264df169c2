package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vendorsafe/kestrel/internal/domain"
	"github.com/vendorsafe/kestrel/internal/intel"
	"github.com/vendorsafe/kestrel/internal/renewal"
	"github.com/vendorsafe/kestrel/internal/rules"
)

// snapshotTTL bounds how long a cached compliance snapshot is served
// before falling back to the persistent copy.
const snapshotTTL = 15 * time.Minute

// Handler holds dependencies for API handlers.
type Handler struct {
	repo     domain.Repository
	cache    domain.Cache
	bus      domain.EventBus
	engine   *rules.GroupEngine
	forecast *renewal.Service
	intel    *intel.Service
	version  string
}

// NewHandler creates a new API handler.
func NewHandler(repo domain.Repository, cache domain.Cache, bus domain.EventBus, engine *rules.GroupEngine, forecast *renewal.Service, intelSvc *intel.Service, version string) *Handler {
	return &Handler{
		repo:     repo,
		cache:    cache,
		bus:      bus,
		engine:   engine,
		forecast: forecast,
		intel:    intelSvc,
		version:  version,
	}
}

// EvaluateRequest is the optional request body for POST /vendors/{id}/compliance.
// Org carries the organization's own attributes for org-targeted rules.
type EvaluateRequest struct {
	Org map[string]any `json:"org,omitempty"`
}

// EvaluateResponse is the response for POST /vendors/{id}/compliance.
type EvaluateResponse struct {
	VendorID   string                     `json:"vendorId"`
	Evaluation domain.EngineResult        `json:"evaluation"`
	Snapshot   *domain.ComplianceSnapshot `json:"snapshot"`
	Metadata   struct {
		TraceID string `json:"traceId"`
		TotalMs int64  `json:"totalMs"`
		Version string `json:"version"`
	} `json:"metadata"`
}

// EvaluateCompliance handles POST /vendors/{id}/compliance. It assembles the
// evaluation context from stored data, runs the loaded rule groups, persists
// the resulting snapshot, and publishes a compliance event.
func (h *Handler) EvaluateCompliance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	orgID := GetOrgID(ctx)
	traceID := GetTraceID(ctx)
	vendorID := chi.URLParam(r, "id")

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	vendor, err := h.repo.GetVendor(ctx, orgID, vendorID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "vendor not found",
		})
		return
	}

	policies, err := h.repo.ListPoliciesByVendor(ctx, orgID, vendorID)
	if err != nil {
		slog.Error("failed to list policies", "vendor_id", vendorID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load vendor policies",
		})
		return
	}

	// Lazily load rule groups for orgs the engine has not seen yet.
	if h.engine.GroupCount(orgID) == 0 {
		if groups, err := h.repo.ListRuleGroups(ctx, orgID); err == nil && len(groups) > 0 {
			h.engine.LoadGroups(orgID, groups)
		}
	}

	ectx := domain.EvaluationContext{
		Vendor:   vendor.AsRecord(),
		Org:      req.Org,
		Policies: make([]domain.Policy, 0, len(policies)),
	}
	for _, p := range policies {
		ectx.Policies = append(ectx.Policies, *p)
	}

	result := h.engine.Evaluate(orgID, ectx)

	snap := rules.SnapshotFromResult(orgID, vendorID, result)
	snap.EvaluatedAt = time.Now().UTC()

	if err := h.repo.SaveComplianceSnapshot(ctx, orgID, snap); err != nil {
		slog.Error("failed to save compliance snapshot", "vendor_id", vendorID, "error", err)
	}
	if h.cache != nil {
		if err := h.cache.SetSnapshot(ctx, orgID, vendorID, snap, snapshotTTL); err != nil {
			slog.Error("failed to cache compliance snapshot", "vendor_id", vendorID, "error", err)
		}
	}

	if h.bus != nil {
		payload, _ := json.Marshal(snap)
		if err := h.bus.Publish(ctx, orgID, domain.TopicComplianceEvaluated, payload); err != nil {
			slog.Error("failed to publish compliance event", "vendor_id", vendorID, "error", err)
		}
	}

	resp := EvaluateResponse{
		VendorID:   vendorID,
		Evaluation: result,
		Snapshot:   snap,
	}
	resp.Metadata.TraceID = traceID
	resp.Metadata.TotalMs = time.Since(start).Milliseconds()
	resp.Metadata.Version = h.version

	writeJSON(w, http.StatusOK, resp)
}

// GetVendorIntelligence handles GET /vendors/{id}/intelligence.
func (h *Handler) GetVendorIntelligence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)
	vendorID := chi.URLParam(r, "id")

	if _, err := h.repo.GetVendor(ctx, orgID, vendorID); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "vendor not found",
		})
		return
	}

	profile, err := h.intel.ComputeVendorIntelligence(ctx, orgID, vendorID)
	if err != nil {
		slog.Error("intelligence computation failed", "vendor_id", vendorID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to compute vendor intelligence",
		})
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// GetRenewalForecast handles GET /forecast: the risk-scored renewal outlook
// for every active schedule in the org.
func (h *Handler) GetRenewalForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)

	rows, err := h.forecast.BuildRenewalForecastForOrg(ctx, orgID)
	if err != nil {
		slog.Error("forecast build failed", "org_id", orgID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to build renewal forecast",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"forecast": rows,
		"count":    len(rows),
	})
}

// Health returns server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	if h.repo != nil {
		if err := h.repo.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": h.version,
	})
}

// Ready returns whether the server is ready to accept traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"ready": "true",
	})
}

// ============================================================================
// VENDOR HANDLERS
// ============================================================================

// CreateVendorRequest is the request body for creating a vendor.
type CreateVendorRequest struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Category string         `json:"category,omitempty"`
	Email    string         `json:"email,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
}

// CreateVendor creates or updates a vendor.
func (h *Handler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)

	var req CreateVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "name is required",
		})
		return
	}

	vendor := &domain.Vendor{
		ID:        req.ID,
		OrgID:     orgID,
		Name:      req.Name,
		Category:  req.Category,
		Email:     req.Email,
		Fields:    req.Fields,
		CreatedAt: time.Now().UTC(),
	}
	if vendor.ID == "" {
		vendor.ID = uuid.New().String()
	}

	if err := h.repo.SaveVendor(ctx, orgID, vendor); err != nil {
		slog.Error("failed to save vendor", "vendor_id", vendor.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to save vendor",
		})
		return
	}

	slog.Info("vendor created", "vendor_id", vendor.ID, "org_id", orgID)
	writeJSON(w, http.StatusCreated, vendor)
}

// GetVendor retrieves a vendor by ID.
func (h *Handler) GetVendor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)
	vendorID := chi.URLParam(r, "id")

	vendor, err := h.repo.GetVendor(ctx, orgID, vendorID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "vendor not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, vendor)
}

// ListVendors returns all vendors for the org.
func (h *Handler) ListVendors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)

	vendors, err := h.repo.ListVendors(ctx, orgID)
	if err != nil {
		slog.Error("failed to list vendors", "org_id", orgID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list vendors",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vendors": vendors,
		"count":   len(vendors),
	})
}

// ============================================================================
// POLICY HANDLERS
// ============================================================================

// CreatePolicyRequest is the request body for attaching a policy to a vendor.
type CreatePolicyRequest struct {
	ID             string         `json:"id,omitempty"`
	CoverageType   string         `json:"coverageType"`
	ExpirationDate string         `json:"expirationDate"`
	Fields         map[string]any `json:"fields,omitempty"`
}

// CreatePolicy attaches an extracted policy to a vendor.
func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)
	vendorID := chi.URLParam(r, "id")

	var req CreatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if req.CoverageType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "coverageType is required",
		})
		return
	}

	if _, err := h.repo.GetVendor(ctx, orgID, vendorID); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "vendor not found",
		})
		return
	}

	policy := &domain.Policy{
		ID:             req.ID,
		OrgID:          orgID,
		VendorID:       vendorID,
		CoverageType:   req.CoverageType,
		ExpirationDate: req.ExpirationDate,
		Fields:         req.Fields,
		CreatedAt:      time.Now().UTC(),
	}
	if policy.ID == "" {
		policy.ID = uuid.New().String()
	}

	if err := h.repo.SavePolicy(ctx, orgID, policy); err != nil {
		slog.Error("failed to save policy", "policy_id", policy.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to save policy",
		})
		return
	}

	slog.Info("policy created", "policy_id", policy.ID, "vendor_id", vendorID)
	writeJSON(w, http.StatusCreated, policy)
}

// ListVendorPolicies returns all policies on file for a vendor.
func (h *Handler) ListVendorPolicies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)
	vendorID := chi.URLParam(r, "id")

	policies, err := h.repo.ListPoliciesByVendor(ctx, orgID, vendorID)
	if err != nil {
		slog.Error("failed to list policies", "vendor_id", vendorID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list policies",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"policies": policies,
		"count":    len(policies),
	})
}

// ============================================================================
// RULE GROUP HANDLERS
// ============================================================================

// RuleGroupRequest is the request body for creating or updating a rule group.
type RuleGroupRequest struct {
	ID      string        `json:"id"`
	Label   string        `json:"label"`
	Logic   string        `json:"logic"`
	Scope   string        `json:"scope"`
	Rules   []domain.Rule `json:"rules"`
	Weight  float64       `json:"weight,omitempty"`
	Enabled bool          `json:"enabled"`
}

// ListRuleGroups returns all rule groups loaded for the org.
func (h *Handler) ListRuleGroups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)

	groups, err := h.repo.ListRuleGroups(ctx, orgID)
	if err != nil {
		slog.Error("failed to list rule groups", "org_id", orgID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list rule groups",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"groups": groups,
		"count":  len(groups),
		"loaded": h.engine.GroupCount(orgID),
	})
}

// GetRuleGroup retrieves a rule group by ID.
func (h *Handler) GetRuleGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)
	groupID := chi.URLParam(r, "id")

	group, err := h.repo.GetRuleGroup(ctx, orgID, groupID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "rule group not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, group)
}

// CreateRuleGroup validates and persists a rule group.
// Call POST /rule-groups/reload afterwards to load it into the engine.
func (h *Handler) CreateRuleGroup(w http.ResponseWriter, r *http.Request) {
	h.saveRuleGroup(w, r, "")
}

// UpdateRuleGroup replaces an existing rule group.
func (h *Handler) UpdateRuleGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "rule group id is required",
		})
		return
	}
	h.saveRuleGroup(w, r, groupID)
}

func (h *Handler) saveRuleGroup(w http.ResponseWriter, r *http.Request, groupID string) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)

	var req RuleGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if groupID != "" {
		req.ID = groupID
	}
	if req.ID == "" || req.Label == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "id and label are required",
		})
		return
	}
	if len(req.Rules) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "at least one rule is required",
		})
		return
	}

	group := &domain.RuleGroup{
		ID:      req.ID,
		OrgID:   orgID,
		Label:   req.Label,
		Logic:   req.Logic,
		Scope:   req.Scope,
		Rules:   req.Rules,
		Weight:  req.Weight,
		Enabled: req.Enabled,
	}

	// Shape check plus expression compilation; rejects before persisting.
	if err := h.engine.ValidateGroup(group); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid rule group: " + err.Error(),
		})
		return
	}

	if err := h.repo.SaveRuleGroup(ctx, orgID, group); err != nil {
		slog.Error("failed to save rule group", "group_id", group.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to save rule group",
		})
		return
	}

	status := http.StatusCreated
	if groupID != "" {
		status = http.StatusOK
	}

	slog.Info("rule group saved", "group_id", group.ID, "org_id", orgID)
	writeJSON(w, status, map[string]interface{}{
		"group":   group,
		"message": "Rule group saved. Call POST /rule-groups/reload to apply changes.",
	})
}

// DeleteRuleGroup soft-deletes a rule group and auto-reloads the engine.
func (h *Handler) DeleteRuleGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)
	groupID := chi.URLParam(r, "id")

	if err := h.repo.DeleteRuleGroup(ctx, orgID, groupID); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "rule group not found",
		})
		return
	}

	// Auto-reload after delete so the engine never evaluates a removed group.
	groups, err := h.repo.ListRuleGroups(ctx, orgID)
	if err != nil {
		slog.Error("failed to reload rule groups after delete", "error", err)
	} else {
		h.engine.LoadGroups(orgID, groups)
	}

	slog.Info("rule group deleted", "group_id", groupID, "org_id", orgID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Rule group deleted and engine reloaded.",
	})
}

// ReloadRuleGroups reloads the org's rule groups from the database into the
// engine. Enables hot-reloading without server restart.
func (h *Handler) ReloadRuleGroups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)

	groups, err := h.repo.ListRuleGroups(ctx, orgID)
	if err != nil {
		slog.Error("failed to list rule groups", "org_id", orgID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load rule groups from database",
		})
		return
	}

	h.engine.LoadGroups(orgID, groups)

	slog.Info("rule groups reloaded", "org_id", orgID, "count", h.engine.GroupCount(orgID))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "rule groups reloaded successfully",
		"count":   h.engine.GroupCount(orgID),
	})
}

// ============================================================================
// ALERT HANDLERS
// ============================================================================

// ListVendorAlerts returns the open alerts for a vendor.
func (h *Handler) ListVendorAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)
	vendorID := chi.URLParam(r, "id")

	alerts, err := h.repo.ListOpenAlerts(ctx, orgID, vendorID)
	if err != nil {
		slog.Error("failed to list alerts", "vendor_id", vendorID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list alerts",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// ResolveAlert marks an open alert as resolved.
func (h *Handler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)
	alertID := chi.URLParam(r, "id")

	if err := h.repo.ResolveAlert(ctx, orgID, alertID); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "open alert not found",
		})
		return
	}

	slog.Info("alert resolved", "alert_id", alertID, "org_id", orgID)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "alert resolved",
	})
}

// ============================================================================
// DOCUMENT AND SCHEDULE HANDLERS
// ============================================================================

// CreateDocumentRequest is the request body for registering a vendor document.
type CreateDocumentRequest struct {
	ID       string `json:"id,omitempty"`
	Category string `json:"category"`
	FileName string `json:"fileName,omitempty"`
}

// CreateDocument registers a document on a vendor's file.
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)
	vendorID := chi.URLParam(r, "id")

	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if req.Category == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "category is required",
		})
		return
	}

	doc := &domain.Document{
		ID:         req.ID,
		OrgID:      orgID,
		VendorID:   vendorID,
		Category:   req.Category,
		FileName:   req.FileName,
		UploadedAt: time.Now().UTC(),
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}

	if err := h.repo.SaveDocument(ctx, orgID, doc); err != nil {
		slog.Error("failed to save document", "doc_id", doc.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to save document",
		})
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// CreateScheduleRequest is the request body for opening a renewal schedule.
type CreateScheduleRequest struct {
	ID       string `json:"id,omitempty"`
	PolicyID string `json:"policyId"`
	Stage    *int   `json:"stage,omitempty"`
}

// CreateSchedule opens a renewal schedule for a vendor policy.
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)
	vendorID := chi.URLParam(r, "id")

	var req CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if req.PolicyID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "policyId is required",
		})
		return
	}

	sched := &domain.RenewalSchedule{
		ID:        req.ID,
		OrgID:     orgID,
		VendorID:  vendorID,
		PolicyID:  req.PolicyID,
		Stage:     req.Stage,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if sched.ID == "" {
		sched.ID = uuid.New().String()
	}

	if err := h.repo.SaveRenewalSchedule(ctx, orgID, sched); err != nil {
		slog.Error("failed to save schedule", "schedule_id", sched.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to save renewal schedule",
		})
		return
	}

	writeJSON(w, http.StatusCreated, sched)
}

// CreateOutreachRequest is the request body for logging vendor outreach.
type CreateOutreachRequest struct {
	ID   string         `json:"id,omitempty"`
	Kind string         `json:"kind"`
	Meta map[string]any `json:"meta,omitempty"`
}

// CreateOutreach logs an outreach touch (renewal request email, response,
// new certificate received) for history-based risk scoring.
func (h *Handler) CreateOutreach(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := GetOrgID(ctx)
	vendorID := chi.URLParam(r, "id")

	var req CreateOutreachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if req.Kind == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "kind is required",
		})
		return
	}

	rec := &domain.OutreachRecord{
		ID:        req.ID,
		OrgID:     orgID,
		VendorID:  vendorID,
		Kind:      req.Kind,
		Meta:      req.Meta,
		CreatedAt: time.Now().UTC(),
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	if err := h.repo.SaveOutreachRecord(ctx, orgID, rec); err != nil {
		slog.Error("failed to save outreach record", "record_id", rec.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to save outreach record",
		})
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
