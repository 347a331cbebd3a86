package quality

import (
	"context"
	"errors"
	"strings"

	domain "trialsage/internal/domain/quality"
	"trialsage/internal/errs"
	"trialsage/internal/ports"
)

type PlanInput struct {
	TenantID string
	Name     string
	Version  string
	Status   string
}

func (s *Service) CreatePlan(ctx context.Context, input PlanInput) (ports.QualityManagementPlan, error) {
	if ctx == nil {
		return ports.QualityManagementPlan{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.QualityManagementPlan{}, errs.Wrap(err, "check context")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ports.QualityManagementPlan{}, errors.New("plan name is required")
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = "draft"
	}
	if !domain.ValidQMPStatus(status) {
		return ports.QualityManagementPlan{}, domain.ErrInvalidStatus
	}

	now := nowUTCString()
	plan, err := s.repo.CreateQMP(ctx, ports.QualityManagementPlan{
		TenantID:  input.TenantID,
		Name:      name,
		Version:   strings.TrimSpace(input.Version),
		Status:    strings.ToLower(status),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return ports.QualityManagementPlan{}, err
	}

	s.invalidateEvaluations(ctx, input.TenantID)
	return plan, nil
}

func (s *Service) GetPlan(ctx context.Context, tenantID string, qmpID uint64) (ports.QualityManagementPlan, error) {
	if ctx == nil {
		return ports.QualityManagementPlan{}, errors.New("context is required")
	}
	return s.repo.GetQMP(ctx, tenantID, qmpID)
}

func (s *Service) ListPlans(ctx context.Context, tenantID string) ([]ports.QualityManagementPlan, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	return s.repo.ListQMPs(ctx, tenantID)
}

func (s *Service) UpdatePlan(ctx context.Context, tenantID string, qmpID uint64, input PlanInput) (ports.QualityManagementPlan, error) {
	if ctx == nil {
		return ports.QualityManagementPlan{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.QualityManagementPlan{}, errs.Wrap(err, "check context")
	}

	current, err := s.repo.GetQMP(ctx, tenantID, qmpID)
	if err != nil {
		return ports.QualityManagementPlan{}, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		current.Name = name
	}
	if version := strings.TrimSpace(input.Version); version != "" {
		current.Version = version
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		if !domain.ValidQMPStatus(status) {
			return ports.QualityManagementPlan{}, domain.ErrInvalidStatus
		}
		current.Status = strings.ToLower(status)
	}
	current.UpdatedAt = nowUTCString()

	if err := s.repo.UpdateQMP(ctx, current); err != nil {
		return ports.QualityManagementPlan{}, err
	}

	s.invalidateEvaluations(ctx, tenantID)
	return current, nil
}

// DeletePlan removes a plan unless any active gating rule still references
// it. A referenced plan stays untouched and the caller gets
// ErrQMPReferenced.
func (s *Service) DeletePlan(ctx context.Context, tenantID string, qmpID uint64) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	if _, err := s.repo.GetQMP(ctx, tenantID, qmpID); err != nil {
		return err
	}

	active, err := s.repo.CountActiveRules(ctx, qmpID)
	if err != nil {
		return errs.Wrap(err, "count active gating rules")
	}
	if active > 0 {
		return domain.ErrQMPReferenced
	}

	if err := s.repo.DeleteQMP(ctx, tenantID, qmpID); err != nil {
		return err
	}

	s.invalidateEvaluations(ctx, tenantID)
	return nil
}
