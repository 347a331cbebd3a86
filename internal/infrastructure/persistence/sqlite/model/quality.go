package model

import "gorm.io/datatypes"

type QualityManagementPlan struct {
	QMPID     uint64 `gorm:"column:qmp_id;primaryKey;autoIncrement"`
	TenantID  string `gorm:"column:tenant_id;type:text;not null;index"`
	Name      string `gorm:"column:name;type:text;not null"`
	Version   string `gorm:"column:version;type:text;not null"`
	Status    string `gorm:"column:status;type:text;not null;default:draft"`
	CreatedAt string `gorm:"column:created_at;type:text;not null"`
	UpdatedAt string `gorm:"column:updated_at;type:text;not null"`
}

func (QualityManagementPlan) TableName() string {
	return "quality_management_plans"
}

type CtqFactor struct {
	FactorID       uint64 `gorm:"column:factor_id;primaryKey;autoIncrement"`
	TenantID       string `gorm:"column:tenant_id;type:text;not null;index"`
	Name           string `gorm:"column:name;type:text;not null"`
	RiskLevel      string `gorm:"column:risk_level;type:text;not null"`
	ValidationRule string `gorm:"column:validation_rule;type:text;not null"`
	Active         bool   `gorm:"column:active;not null;default:1"`
	Required       bool   `gorm:"column:required;not null;default:0"`
	CreatedAt      string `gorm:"column:created_at;type:text;not null"`
	UpdatedAt      string `gorm:"column:updated_at;type:text;not null"`
}

func (CtqFactor) TableName() string {
	return "ctq_factors"
}

type SectionGatingRule struct {
	RuleID                     uint64         `gorm:"column:rule_id;primaryKey;autoIncrement"`
	QMPID                      uint64         `gorm:"column:qmp_id;not null;index"`
	TenantID                   string         `gorm:"column:tenant_id;type:text;not null;index"`
	SectionKey                 string         `gorm:"column:section_key;type:text;not null;index"`
	CtqFactorIDs               datatypes.JSON `gorm:"column:ctq_factor_ids;not null"`
	MinimumMandatoryCompletion int            `gorm:"column:minimum_mandatory_completion;not null;default:0"`
	Active                     bool           `gorm:"column:active;not null;default:1"`
	OverrideAllowed            bool           `gorm:"column:override_allowed;not null;default:0"`
	CreatedAt                  string         `gorm:"column:created_at;type:text;not null"`
	UpdatedAt                  string         `gorm:"column:updated_at;type:text;not null"`
}

func (SectionGatingRule) TableName() string {
	return "qmp_section_gating"
}
