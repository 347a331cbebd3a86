package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trialsage/internal/errs"
	"trialsage/internal/infrastructure/persistence/sqlite/model"
	"trialsage/internal/ports"
)

type QualityRepository struct {
	db *gorm.DB
}

var _ ports.QualityRepository = (*QualityRepository)(nil)

func NewQualityRepository(db *gorm.DB) *QualityRepository {
	return &QualityRepository{db: db}
}

func mapQMP(row model.QualityManagementPlan) ports.QualityManagementPlan {
	return ports.QualityManagementPlan{
		QMPID:     row.QMPID,
		TenantID:  row.TenantID,
		Name:      row.Name,
		Version:   row.Version,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func mapFactor(row model.CtqFactor) ports.CtqFactor {
	return ports.CtqFactor{
		FactorID:       row.FactorID,
		TenantID:       row.TenantID,
		Name:           row.Name,
		RiskLevel:      row.RiskLevel,
		ValidationRule: row.ValidationRule,
		Active:         row.Active,
		Required:       row.Required,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func mapRule(row model.SectionGatingRule) ports.SectionGatingRule {
	return ports.SectionGatingRule{
		RuleID:                     row.RuleID,
		QMPID:                      row.QMPID,
		TenantID:                   row.TenantID,
		SectionKey:                 row.SectionKey,
		CtqFactorIDs:               decodeUint64s(row.CtqFactorIDs),
		MinimumMandatoryCompletion: row.MinimumMandatoryCompletion,
		Active:                     row.Active,
		OverrideAllowed:            row.OverrideAllowed,
		CreatedAt:                  row.CreatedAt,
		UpdatedAt:                  row.UpdatedAt,
	}
}

func (r *QualityRepository) CreateQMP(ctx context.Context, qmp ports.QualityManagementPlan) (ports.QualityManagementPlan, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.QualityManagementPlan{}, err
	}

	row := model.QualityManagementPlan{
		TenantID:  qmp.TenantID,
		Name:      qmp.Name,
		Version:   qmp.Version,
		Status:    qmp.Status,
		CreatedAt: qmp.CreatedAt,
		UpdatedAt: qmp.UpdatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.QualityManagementPlan{}, errs.Wrap(err, "insert quality management plan")
	}
	return mapQMP(row), nil
}

func (r *QualityRepository) GetQMP(ctx context.Context, tenantID string, qmpID uint64) (ports.QualityManagementPlan, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.QualityManagementPlan{}, err
	}

	var row model.QualityManagementPlan
	if err := db.Where("tenant_id = ? AND qmp_id = ?", tenantID, qmpID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.QualityManagementPlan{}, ports.ErrQMPNotFound
		}
		return ports.QualityManagementPlan{}, errs.Wrap(err, "query quality management plan")
	}
	return mapQMP(row), nil
}

func (r *QualityRepository) ListQMPs(ctx context.Context, tenantID string) ([]ports.QualityManagementPlan, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.QualityManagementPlan
	if err := db.Where("tenant_id = ?", tenantID).Order("qmp_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query quality management plans")
	}

	items := make([]ports.QualityManagementPlan, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapQMP(row))
	}
	return items, nil
}

func (r *QualityRepository) UpdateQMP(ctx context.Context, qmp ports.QualityManagementPlan) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.QualityManagementPlan{}).
		Where("tenant_id = ? AND qmp_id = ?", qmp.TenantID, qmp.QMPID).
		Updates(map[string]any{
			"name":       qmp.Name,
			"version":    qmp.Version,
			"status":     qmp.Status,
			"updated_at": qmp.UpdatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update quality management plan")
	}
	if result.RowsAffected == 0 {
		return ports.ErrQMPNotFound
	}
	return nil
}

func (r *QualityRepository) DeleteQMP(ctx context.Context, tenantID string, qmpID uint64) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Where("tenant_id = ? AND qmp_id = ?", tenantID, qmpID).Delete(&model.QualityManagementPlan{})
	if result.Error != nil {
		return errs.Wrap(result.Error, "delete quality management plan")
	}
	if result.RowsAffected == 0 {
		return ports.ErrQMPNotFound
	}
	return nil
}

func (r *QualityRepository) CountActiveRules(ctx context.Context, qmpID uint64) (int64, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&model.SectionGatingRule{}).
		Where("qmp_id = ? AND active = ?", qmpID, true).
		Count(&count).Error; err != nil {
		return 0, errs.Wrap(err, "count active gating rules")
	}
	return count, nil
}

func (r *QualityRepository) CreateCtqFactor(ctx context.Context, factor ports.CtqFactor) (ports.CtqFactor, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.CtqFactor{}, err
	}

	row := model.CtqFactor{
		TenantID:       factor.TenantID,
		Name:           factor.Name,
		RiskLevel:      factor.RiskLevel,
		ValidationRule: factor.ValidationRule,
		Active:         factor.Active,
		Required:       factor.Required,
		CreatedAt:      factor.CreatedAt,
		UpdatedAt:      factor.UpdatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.CtqFactor{}, errs.Wrap(err, "insert ctq factor")
	}
	return mapFactor(row), nil
}

func (r *QualityRepository) GetCtqFactor(ctx context.Context, tenantID string, factorID uint64) (ports.CtqFactor, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.CtqFactor{}, err
	}

	var row model.CtqFactor
	if err := db.Where("tenant_id = ? AND factor_id = ?", tenantID, factorID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CtqFactor{}, ports.ErrCtqFactorNotFound
		}
		return ports.CtqFactor{}, errs.Wrap(err, "query ctq factor")
	}
	return mapFactor(row), nil
}

func (r *QualityRepository) ListCtqFactors(ctx context.Context, tenantID string, ids []uint64) ([]ports.CtqFactor, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Where("tenant_id = ?", tenantID)
	if len(ids) > 0 {
		query = query.Where("factor_id IN ?", ids)
	}

	var rows []model.CtqFactor
	if err := query.Order("factor_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query ctq factors")
	}

	items := make([]ports.CtqFactor, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapFactor(row))
	}
	return items, nil
}

func (r *QualityRepository) UpdateCtqFactor(ctx context.Context, factor ports.CtqFactor) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.CtqFactor{}).
		Where("tenant_id = ? AND factor_id = ?", factor.TenantID, factor.FactorID).
		Updates(map[string]any{
			"name":            factor.Name,
			"risk_level":      factor.RiskLevel,
			"validation_rule": factor.ValidationRule,
			"active":          factor.Active,
			"required":        factor.Required,
			"updated_at":      factor.UpdatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update ctq factor")
	}
	if result.RowsAffected == 0 {
		return ports.ErrCtqFactorNotFound
	}
	return nil
}

func (r *QualityRepository) CreateGatingRule(ctx context.Context, rule ports.SectionGatingRule) (ports.SectionGatingRule, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.SectionGatingRule{}, err
	}

	row := model.SectionGatingRule{
		QMPID:                      rule.QMPID,
		TenantID:                   rule.TenantID,
		SectionKey:                 rule.SectionKey,
		CtqFactorIDs:               encodeJSON(rule.CtqFactorIDs),
		MinimumMandatoryCompletion: rule.MinimumMandatoryCompletion,
		Active:                     rule.Active,
		OverrideAllowed:            rule.OverrideAllowed,
		CreatedAt:                  rule.CreatedAt,
		UpdatedAt:                  rule.UpdatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.SectionGatingRule{}, errs.Wrap(err, "insert section gating rule")
	}
	return mapRule(row), nil
}

func (r *QualityRepository) ListGatingRules(ctx context.Context, tenantID string, qmpID uint64) ([]ports.SectionGatingRule, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.SectionGatingRule
	if err := db.
		Where("tenant_id = ? AND qmp_id = ?", tenantID, qmpID).
		Order("rule_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query section gating rules")
	}

	items := make([]ports.SectionGatingRule, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapRule(row))
	}
	return items, nil
}

func (r *QualityRepository) GetGatingRuleForSection(ctx context.Context, tenantID string, qmpID uint64, sectionKey string) (ports.SectionGatingRule, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.SectionGatingRule{}, err
	}

	var row model.SectionGatingRule
	if err := db.
		Where("tenant_id = ? AND qmp_id = ? AND section_key = ? AND active = ?", tenantID, qmpID, sectionKey, true).
		Order("rule_id desc").
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SectionGatingRule{}, ports.ErrGatingRuleNotFound
		}
		return ports.SectionGatingRule{}, errs.Wrap(err, "query section gating rule")
	}
	return mapRule(row), nil
}

func (r *QualityRepository) UpdateGatingRule(ctx context.Context, rule ports.SectionGatingRule) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.SectionGatingRule{}).
		Where("tenant_id = ? AND rule_id = ?", rule.TenantID, rule.RuleID).
		Updates(map[string]any{
			"section_key":                  rule.SectionKey,
			"ctq_factor_ids":               encodeJSON(rule.CtqFactorIDs),
			"minimum_mandatory_completion": rule.MinimumMandatoryCompletion,
			"active":                       rule.Active,
			"override_allowed":             rule.OverrideAllowed,
			"updated_at":                   rule.UpdatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update section gating rule")
	}
	if result.RowsAffected == 0 {
		return ports.ErrGatingRuleNotFound
	}
	return nil
}
