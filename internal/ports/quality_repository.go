package ports

import (
	"context"
	"errors"
)

var (
	ErrQMPNotFound        = errors.New("quality management plan not found")
	ErrCtqFactorNotFound  = errors.New("ctq factor not found")
	ErrGatingRuleNotFound = errors.New("section gating rule not found")
)

type QualityManagementPlan struct {
	QMPID     uint64
	TenantID  string
	Name      string
	Version   string
	Status    string
	CreatedAt string
	UpdatedAt string
}

type CtqFactor struct {
	FactorID       uint64
	TenantID       string
	Name           string
	RiskLevel      string
	ValidationRule string
	Active         bool
	Required       bool
	CreatedAt      string
	UpdatedAt      string
}

type SectionGatingRule struct {
	RuleID                     uint64
	QMPID                      uint64
	TenantID                   string
	SectionKey                 string
	CtqFactorIDs               []uint64
	MinimumMandatoryCompletion int
	Active                     bool
	OverrideAllowed            bool
	CreatedAt                  string
	UpdatedAt                  string
}

type QualityRepository interface {
	CreateQMP(ctx context.Context, qmp QualityManagementPlan) (QualityManagementPlan, error)
	GetQMP(ctx context.Context, tenantID string, qmpID uint64) (QualityManagementPlan, error)
	ListQMPs(ctx context.Context, tenantID string) ([]QualityManagementPlan, error)
	UpdateQMP(ctx context.Context, qmp QualityManagementPlan) error
	DeleteQMP(ctx context.Context, tenantID string, qmpID uint64) error
	CountActiveRules(ctx context.Context, qmpID uint64) (int64, error)

	CreateCtqFactor(ctx context.Context, factor CtqFactor) (CtqFactor, error)
	GetCtqFactor(ctx context.Context, tenantID string, factorID uint64) (CtqFactor, error)
	ListCtqFactors(ctx context.Context, tenantID string, ids []uint64) ([]CtqFactor, error)
	UpdateCtqFactor(ctx context.Context, factor CtqFactor) error

	CreateGatingRule(ctx context.Context, rule SectionGatingRule) (SectionGatingRule, error)
	ListGatingRules(ctx context.Context, tenantID string, qmpID uint64) ([]SectionGatingRule, error)
	GetGatingRuleForSection(ctx context.Context, tenantID string, qmpID uint64, sectionKey string) (SectionGatingRule, error)
	UpdateGatingRule(ctx context.Context, rule SectionGatingRule) error
}
