package quality

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	domain "trialsage/internal/domain/quality"
	"trialsage/internal/infrastructure/cache"
	"trialsage/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "trialsage/internal/infrastructure/persistence/sqlite/repository"
	"trialsage/internal/ports"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.QualityManagementPlan{},
		&model.CtqFactor{},
		&model.SectionGatingRule{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	return NewService(sqliterepo.NewQualityRepository(db), cache.NewLRUCache(64, time.Minute), time.Minute)
}

func createPlan(t *testing.T, svc *Service, tenantID string) ports.QualityManagementPlan {
	t.Helper()

	plan, err := svc.CreatePlan(context.Background(), PlanInput{
		TenantID: tenantID,
		Name:     "CER quality plan",
		Version:  "1.0",
		Status:   "active",
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	return plan
}

func createFactor(t *testing.T, svc *Service, tenantID string, risk string, rule string) ports.CtqFactor {
	t.Helper()

	factor, err := svc.CreateFactor(context.Background(), FactorInput{
		TenantID:       tenantID,
		Name:           risk + " risk factor",
		RiskLevel:      risk,
		ValidationRule: rule,
		Active:         true,
		Required:       true,
	})
	if err != nil {
		t.Fatalf("create factor: %v", err)
	}
	return factor
}

func createRule(t *testing.T, svc *Service, tenantID string, qmpID uint64, section string, threshold int, factorIDs ...uint64) ports.SectionGatingRule {
	t.Helper()

	rule, err := svc.CreateRule(context.Background(), RuleInput{
		TenantID:                   tenantID,
		QMPID:                      qmpID,
		SectionKey:                 section,
		CtqFactorIDs:               factorIDs,
		MinimumMandatoryCompletion: threshold,
		Active:                     true,
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}
	return rule
}

func TestPlanLifecycle(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, PlanInput{TenantID: "acme", Name: "plan"})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if plan.Status != "draft" {
		t.Fatalf("expected default draft status, got %q", plan.Status)
	}

	updated, err := svc.UpdatePlan(ctx, "acme", plan.QMPID, PlanInput{Status: "Active"})
	if err != nil {
		t.Fatalf("update plan: %v", err)
	}
	if updated.Status != "active" {
		t.Fatalf("expected normalized active status, got %q", updated.Status)
	}

	plans, err := svc.ListPlans(ctx, "acme")
	if err != nil {
		t.Fatalf("list plans: %v", err)
	}
	if len(plans) != 1 || plans[0].QMPID != plan.QMPID {
		t.Fatalf("unexpected plan listing: %+v", plans)
	}
}

func TestCreatePlanRejectsInvalidStatus(t *testing.T) {
	svc := setupService(t)

	_, err := svc.CreatePlan(context.Background(), PlanInput{TenantID: "acme", Name: "plan", Status: "published"})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestDeletePlanBlockedWhileRuleActive(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	plan := createPlan(t, svc, "acme")
	factor := createFactor(t, svc, "acme", "high", "adverse events")
	rule := createRule(t, svc, "acme", plan.QMPID, "safety", 90, factor.FactorID)

	if err := svc.DeletePlan(ctx, "acme", plan.QMPID); !errors.Is(err, domain.ErrQMPReferenced) {
		t.Fatalf("expected ErrQMPReferenced, got %v", err)
	}
	if _, err := svc.GetPlan(ctx, "acme", plan.QMPID); err != nil {
		t.Fatalf("blocked delete must keep the row: %v", err)
	}

	if _, err := svc.UpdateRule(ctx, "acme", rule.RuleID, RuleInput{
		SectionKey:                 rule.SectionKey,
		CtqFactorIDs:               rule.CtqFactorIDs,
		MinimumMandatoryCompletion: rule.MinimumMandatoryCompletion,
		Active:                     false,
	}); err != nil {
		t.Fatalf("deactivate rule: %v", err)
	}

	if err := svc.DeletePlan(ctx, "acme", plan.QMPID); err != nil {
		t.Fatalf("delete after deactivation: %v", err)
	}
	if _, err := svc.GetPlan(ctx, "acme", plan.QMPID); !errors.Is(err, ports.ErrQMPNotFound) {
		t.Fatalf("expected ErrQMPNotFound after delete, got %v", err)
	}
}

func TestCreateFactorValidatesRiskLevel(t *testing.T) {
	svc := setupService(t)

	factor := createFactor(t, svc, "acme", "High", "sample size")
	if factor.RiskLevel != domain.RiskHigh {
		t.Fatalf("expected normalized risk level, got %q", factor.RiskLevel)
	}

	_, err := svc.CreateFactor(context.Background(), FactorInput{TenantID: "acme", Name: "x", RiskLevel: "severe"})
	if !errors.Is(err, domain.ErrInvalidRiskLevel) {
		t.Fatalf("expected ErrInvalidRiskLevel, got %v", err)
	}
}

func TestEvaluateSectionScoresAndGates(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	plan := createPlan(t, svc, "acme")
	factor := createFactor(t, svc, "acme", "high", "adverse events, sample size")
	createRule(t, svc, "acme", plan.QMPID, "clinical-evaluation", 90, factor.FactorID)

	passing, err := svc.EvaluateSection(ctx, EvaluateInput{
		TenantID:   "acme",
		QMPID:      plan.QMPID,
		SectionKey: "clinical-evaluation",
		Text:       "Adverse events were tabulated and the sample size was justified.",
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if passing.Score != 100 || !passing.Passes || passing.GatingLevel != domain.GateHard {
		t.Fatalf("unexpected passing evaluation: %+v", passing)
	}

	failing, err := svc.EvaluateSection(ctx, EvaluateInput{
		TenantID:   "acme",
		QMPID:      plan.QMPID,
		SectionKey: "clinical-evaluation",
		Text:       "Adverse events were tabulated.",
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if failing.Score != 85 || failing.Passes || len(failing.MissingTerms) != 1 {
		t.Fatalf("unexpected failing evaluation: %+v", failing)
	}
	if failing.MissingTerms[0].Term != "sample size" {
		t.Fatalf("unexpected missing term: %+v", failing.MissingTerms[0])
	}
}

func TestEvaluateSectionCachesUntilWrite(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	plan := createPlan(t, svc, "acme")
	factor := createFactor(t, svc, "acme", "medium", "risk management")
	createRule(t, svc, "acme", plan.QMPID, "risk", 70, factor.FactorID)

	input := EvaluateInput{
		TenantID:   "acme",
		QMPID:      plan.QMPID,
		SectionKey: "risk",
		Text:       "The risk management file follows ISO 14971.",
	}

	first, err := svc.EvaluateSection(ctx, input)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if first.Cached {
		t.Fatal("first evaluation must be computed")
	}

	second, err := svc.EvaluateSection(ctx, input)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !second.Cached {
		t.Fatal("second evaluation must come from cache")
	}

	if _, err := svc.UpdateFactor(ctx, "acme", factor.FactorID, FactorInput{
		RiskLevel:      "medium",
		ValidationRule: "risk management, benefit-risk",
		Active:         true,
		Required:       true,
	}); err != nil {
		t.Fatalf("update factor: %v", err)
	}

	third, err := svc.EvaluateSection(ctx, input)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if third.Cached {
		t.Fatal("factor write must invalidate cached evaluations")
	}
	if third.Score != 92 {
		t.Fatalf("expected recomputed score 92, got %d", third.Score)
	}
}

func TestEvaluateSectionWithoutRule(t *testing.T) {
	svc := setupService(t)
	plan := createPlan(t, svc, "acme")

	_, err := svc.EvaluateSection(context.Background(), EvaluateInput{
		TenantID:   "acme",
		QMPID:      plan.QMPID,
		SectionKey: "unknown-section",
		Text:       "anything",
	})
	if !errors.Is(err, ports.ErrGatingRuleNotFound) {
		t.Fatalf("expected ErrGatingRuleNotFound, got %v", err)
	}
}

func TestBuildDashboard(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	plan := createPlan(t, svc, "acme")
	referenced := createFactor(t, svc, "acme", "high", "adverse events")
	createFactor(t, svc, "acme", "low", "labeling")
	createRule(t, svc, "acme", plan.QMPID, "safety", 95, referenced.FactorID)

	dashboard, err := svc.BuildDashboard(ctx, "acme")
	if err != nil {
		t.Fatalf("build dashboard: %v", err)
	}

	if dashboard.TotalPlans != 1 || dashboard.ActivePlans != 1 {
		t.Fatalf("unexpected plan counts: %+v", dashboard)
	}
	if dashboard.RulesByGate[domain.GateHard] != 1 {
		t.Fatalf("expected one hard gate, got %+v", dashboard.RulesByGate)
	}
	if dashboard.AverageThreshold != 95 {
		t.Fatalf("unexpected average threshold: %v", dashboard.AverageThreshold)
	}
	if dashboard.FactorCoverage != 0.5 {
		t.Fatalf("expected half the active factors referenced, got %v", dashboard.FactorCoverage)
	}
}
