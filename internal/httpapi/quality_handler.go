package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trialsage/internal/ports"
	"trialsage/internal/usecase/quality"
)

type QualityHandler struct {
	svc *quality.Service
}

func NewQualityHandler(svc *quality.Service) *QualityHandler {
	return &QualityHandler{svc: svc}
}

func uint64Param(r *http.Request, name string) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, name), 10, 64)
}

type planRequest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

type planResponse struct {
	QMPID     uint64 `json:"qmpId"`
	Name      string `json:"name"`
	Version   string `json:"version,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func planJSON(plan ports.QualityManagementPlan) planResponse {
	return planResponse{
		QMPID:     plan.QMPID,
		Name:      plan.Name,
		Version:   plan.Version,
		Status:    plan.Status,
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
	}
}

func (h *QualityHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.svc.CreatePlan(r.Context(), quality.PlanInput{
		TenantID: TenantFromContext(r.Context()),
		Name:     req.Name,
		Version:  req.Version,
		Status:   req.Status,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, planJSON(plan))
}

func (h *QualityHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.svc.ListPlans(r.Context(), TenantFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]planResponse, 0, len(plans))
	for _, plan := range plans {
		out = append(out, planJSON(plan))
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": out})
}

func (h *QualityHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	qmpID, err := uint64Param(r, "qmpId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid qmp id")
		return
	}

	plan, err := h.svc.GetPlan(r.Context(), TenantFromContext(r.Context()), qmpID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, planJSON(plan))
}

func (h *QualityHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	qmpID, err := uint64Param(r, "qmpId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid qmp id")
		return
	}

	var req planRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.svc.UpdatePlan(r.Context(), TenantFromContext(r.Context()), qmpID, quality.PlanInput{
		Name:    req.Name,
		Version: req.Version,
		Status:  req.Status,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, planJSON(plan))
}

func (h *QualityHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	qmpID, err := uint64Param(r, "qmpId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid qmp id")
		return
	}

	if err := h.svc.DeletePlan(r.Context(), TenantFromContext(r.Context()), qmpID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type factorRequest struct {
	Name           string `json:"name" validate:"required"`
	RiskLevel      string `json:"riskLevel" validate:"required"`
	ValidationRule string `json:"validationRule"`
	Active         bool   `json:"active"`
	Required       bool   `json:"required"`
}

type factorResponse struct {
	FactorID       uint64 `json:"factorId"`
	Name           string `json:"name"`
	RiskLevel      string `json:"riskLevel"`
	ValidationRule string `json:"validationRule,omitempty"`
	Active         bool   `json:"active"`
	Required       bool   `json:"required"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

func factorJSON(factor ports.CtqFactor) factorResponse {
	return factorResponse{
		FactorID:       factor.FactorID,
		Name:           factor.Name,
		RiskLevel:      factor.RiskLevel,
		ValidationRule: factor.ValidationRule,
		Active:         factor.Active,
		Required:       factor.Required,
		CreatedAt:      factor.CreatedAt,
		UpdatedAt:      factor.UpdatedAt,
	}
}

func (h *QualityHandler) CreateFactor(w http.ResponseWriter, r *http.Request) {
	var req factorRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	factor, err := h.svc.CreateFactor(r.Context(), quality.FactorInput{
		TenantID:       TenantFromContext(r.Context()),
		Name:           req.Name,
		RiskLevel:      req.RiskLevel,
		ValidationRule: req.ValidationRule,
		Active:         req.Active,
		Required:       req.Required,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, factorJSON(factor))
}

func (h *QualityHandler) ListFactors(w http.ResponseWriter, r *http.Request) {
	factors, err := h.svc.ListFactors(r.Context(), TenantFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]factorResponse, 0, len(factors))
	for _, factor := range factors {
		out = append(out, factorJSON(factor))
	}
	writeJSON(w, http.StatusOK, map[string]any{"factors": out})
}

func (h *QualityHandler) GetFactor(w http.ResponseWriter, r *http.Request) {
	factorID, err := uint64Param(r, "factorId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid factor id")
		return
	}

	factor, err := h.svc.GetFactor(r.Context(), TenantFromContext(r.Context()), factorID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, factorJSON(factor))
}

func (h *QualityHandler) UpdateFactor(w http.ResponseWriter, r *http.Request) {
	factorID, err := uint64Param(r, "factorId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid factor id")
		return
	}

	var req factorRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	factor, err := h.svc.UpdateFactor(r.Context(), TenantFromContext(r.Context()), factorID, quality.FactorInput{
		Name:           req.Name,
		RiskLevel:      req.RiskLevel,
		ValidationRule: req.ValidationRule,
		Active:         req.Active,
		Required:       req.Required,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, factorJSON(factor))
}

type ruleRequest struct {
	SectionKey                 string   `json:"sectionKey" validate:"required"`
	CtqFactorIDs               []uint64 `json:"ctqFactorIds"`
	MinimumMandatoryCompletion int      `json:"minimumMandatoryCompletion" validate:"gte=0,lte=100"`
	Active                     bool     `json:"active"`
	OverrideAllowed            bool     `json:"overrideAllowed"`
}

type ruleResponse struct {
	RuleID                     uint64   `json:"ruleId"`
	QMPID                      uint64   `json:"qmpId"`
	SectionKey                 string   `json:"sectionKey"`
	CtqFactorIDs               []uint64 `json:"ctqFactorIds"`
	MinimumMandatoryCompletion int      `json:"minimumMandatoryCompletion"`
	Active                     bool     `json:"active"`
	OverrideAllowed            bool     `json:"overrideAllowed"`
}

func ruleJSON(rule ports.SectionGatingRule) ruleResponse {
	return ruleResponse{
		RuleID:                     rule.RuleID,
		QMPID:                      rule.QMPID,
		SectionKey:                 rule.SectionKey,
		CtqFactorIDs:               rule.CtqFactorIDs,
		MinimumMandatoryCompletion: rule.MinimumMandatoryCompletion,
		Active:                     rule.Active,
		OverrideAllowed:            rule.OverrideAllowed,
	}
}

func (h *QualityHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	qmpID, err := uint64Param(r, "qmpId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid qmp id")
		return
	}

	var req ruleRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rule, err := h.svc.CreateRule(r.Context(), quality.RuleInput{
		TenantID:                   TenantFromContext(r.Context()),
		QMPID:                      qmpID,
		SectionKey:                 req.SectionKey,
		CtqFactorIDs:               req.CtqFactorIDs,
		MinimumMandatoryCompletion: req.MinimumMandatoryCompletion,
		Active:                     req.Active,
		OverrideAllowed:            req.OverrideAllowed,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ruleJSON(rule))
}

func (h *QualityHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	qmpID, err := uint64Param(r, "qmpId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid qmp id")
		return
	}

	rules, err := h.svc.ListRules(r.Context(), TenantFromContext(r.Context()), qmpID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, ruleJSON(rule))
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": out})
}

func (h *QualityHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	ruleID, err := uint64Param(r, "ruleId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rule id")
		return
	}

	var req ruleRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rule, err := h.svc.UpdateRule(r.Context(), TenantFromContext(r.Context()), ruleID, quality.RuleInput{
		SectionKey:                 req.SectionKey,
		CtqFactorIDs:               req.CtqFactorIDs,
		MinimumMandatoryCompletion: req.MinimumMandatoryCompletion,
		Active:                     req.Active,
		OverrideAllowed:            req.OverrideAllowed,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ruleJSON(rule))
}

type evaluateRequest struct {
	SectionKey string `json:"sectionKey" validate:"required"`
	Text       string `json:"text" validate:"required"`
}

func (h *QualityHandler) EvaluateSection(w http.ResponseWriter, r *http.Request) {
	qmpID, err := uint64Param(r, "qmpId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid qmp id")
		return
	}

	var req evaluateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	evaluation, err := h.svc.EvaluateSection(r.Context(), quality.EvaluateInput{
		TenantID:   TenantFromContext(r.Context()),
		QMPID:      qmpID,
		SectionKey: req.SectionKey,
		Text:       req.Text,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluation)
}

func (h *QualityHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.svc.BuildDashboard(r.Context(), TenantFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
