package quality

import (
	"context"
	"errors"
	"strings"

	domain "trialsage/internal/domain/quality"
	"trialsage/internal/errs"
	"trialsage/internal/ports"
)

type FactorInput struct {
	TenantID       string
	Name           string
	RiskLevel      string
	ValidationRule string
	Active         bool
	Required       bool
}

func (s *Service) CreateFactor(ctx context.Context, input FactorInput) (ports.CtqFactor, error) {
	if ctx == nil {
		return ports.CtqFactor{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.CtqFactor{}, errs.Wrap(err, "check context")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ports.CtqFactor{}, errors.New("factor name is required")
	}

	riskLevel, err := domain.NormalizeRiskLevel(input.RiskLevel)
	if err != nil {
		return ports.CtqFactor{}, err
	}

	now := nowUTCString()
	factor, err := s.repo.CreateCtqFactor(ctx, ports.CtqFactor{
		TenantID:       input.TenantID,
		Name:           name,
		RiskLevel:      riskLevel,
		ValidationRule: strings.TrimSpace(input.ValidationRule),
		Active:         input.Active,
		Required:       input.Required,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return ports.CtqFactor{}, err
	}

	s.invalidateEvaluations(ctx, input.TenantID)
	return factor, nil
}

func (s *Service) GetFactor(ctx context.Context, tenantID string, factorID uint64) (ports.CtqFactor, error) {
	if ctx == nil {
		return ports.CtqFactor{}, errors.New("context is required")
	}
	return s.repo.GetCtqFactor(ctx, tenantID, factorID)
}

func (s *Service) ListFactors(ctx context.Context, tenantID string) ([]ports.CtqFactor, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	return s.repo.ListCtqFactors(ctx, tenantID, nil)
}

func (s *Service) UpdateFactor(ctx context.Context, tenantID string, factorID uint64, input FactorInput) (ports.CtqFactor, error) {
	if ctx == nil {
		return ports.CtqFactor{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.CtqFactor{}, errs.Wrap(err, "check context")
	}

	current, err := s.repo.GetCtqFactor(ctx, tenantID, factorID)
	if err != nil {
		return ports.CtqFactor{}, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		current.Name = name
	}
	if strings.TrimSpace(input.RiskLevel) != "" {
		riskLevel, err := domain.NormalizeRiskLevel(input.RiskLevel)
		if err != nil {
			return ports.CtqFactor{}, err
		}
		current.RiskLevel = riskLevel
	}
	current.ValidationRule = strings.TrimSpace(input.ValidationRule)
	current.Active = input.Active
	current.Required = input.Required
	current.UpdatedAt = nowUTCString()

	if err := s.repo.UpdateCtqFactor(ctx, current); err != nil {
		return ports.CtqFactor{}, err
	}

	s.invalidateEvaluations(ctx, tenantID)
	return current, nil
}
