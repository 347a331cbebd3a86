package quality

import (
	"context"
	"errors"
	"strings"

	domain "trialsage/internal/domain/quality"
	"trialsage/internal/errs"
	"trialsage/internal/ports"
)

type RuleInput struct {
	TenantID                   string
	QMPID                      uint64
	SectionKey                 string
	CtqFactorIDs               []uint64
	MinimumMandatoryCompletion int
	Active                     bool
	OverrideAllowed            bool
}

func (s *Service) CreateRule(ctx context.Context, input RuleInput) (ports.SectionGatingRule, error) {
	if ctx == nil {
		return ports.SectionGatingRule{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.SectionGatingRule{}, errs.Wrap(err, "check context")
	}

	sectionKey := strings.TrimSpace(input.SectionKey)
	if sectionKey == "" {
		return ports.SectionGatingRule{}, domain.ErrSectionRequired
	}
	if input.MinimumMandatoryCompletion < 0 || input.MinimumMandatoryCompletion > 100 {
		return ports.SectionGatingRule{}, errors.New("minimum mandatory completion must be within [0,100]")
	}

	if _, err := s.repo.GetQMP(ctx, input.TenantID, input.QMPID); err != nil {
		return ports.SectionGatingRule{}, err
	}

	now := nowUTCString()
	rule, err := s.repo.CreateGatingRule(ctx, ports.SectionGatingRule{
		QMPID:                      input.QMPID,
		TenantID:                   input.TenantID,
		SectionKey:                 sectionKey,
		CtqFactorIDs:               input.CtqFactorIDs,
		MinimumMandatoryCompletion: input.MinimumMandatoryCompletion,
		Active:                     input.Active,
		OverrideAllowed:            input.OverrideAllowed,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	})
	if err != nil {
		return ports.SectionGatingRule{}, err
	}

	s.invalidateEvaluations(ctx, input.TenantID)
	return rule, nil
}

func (s *Service) ListRules(ctx context.Context, tenantID string, qmpID uint64) ([]ports.SectionGatingRule, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	return s.repo.ListGatingRules(ctx, tenantID, qmpID)
}

func (s *Service) UpdateRule(ctx context.Context, tenantID string, ruleID uint64, input RuleInput) (ports.SectionGatingRule, error) {
	if ctx == nil {
		return ports.SectionGatingRule{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.SectionGatingRule{}, errs.Wrap(err, "check context")
	}

	sectionKey := strings.TrimSpace(input.SectionKey)
	if sectionKey == "" {
		return ports.SectionGatingRule{}, domain.ErrSectionRequired
	}
	if input.MinimumMandatoryCompletion < 0 || input.MinimumMandatoryCompletion > 100 {
		return ports.SectionGatingRule{}, errors.New("minimum mandatory completion must be within [0,100]")
	}

	rule := ports.SectionGatingRule{
		RuleID:                     ruleID,
		TenantID:                   tenantID,
		SectionKey:                 sectionKey,
		CtqFactorIDs:               input.CtqFactorIDs,
		MinimumMandatoryCompletion: input.MinimumMandatoryCompletion,
		Active:                     input.Active,
		OverrideAllowed:            input.OverrideAllowed,
		UpdatedAt:                  nowUTCString(),
	}
	if err := s.repo.UpdateGatingRule(ctx, rule); err != nil {
		return ports.SectionGatingRule{}, err
	}

	s.invalidateEvaluations(ctx, tenantID)
	return rule, nil
}
