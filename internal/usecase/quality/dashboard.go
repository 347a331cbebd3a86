package quality

import (
	"context"
	"errors"

	domain "trialsage/internal/domain/quality"
	"trialsage/internal/errs"
)

// Dashboard aggregates a tenant's quality posture: plan and factor counts,
// gating severity distribution and how much of the factor catalog active
// rules actually reference.
type Dashboard struct {
	TotalPlans       int            `json:"totalPlans"`
	ActivePlans      int            `json:"activePlans"`
	FactorsByRisk    map[string]int `json:"factorsByRisk"`
	RulesByGate      map[string]int `json:"rulesByGate"`
	AverageThreshold float64        `json:"averageThreshold"`
	FactorCoverage   float64        `json:"factorCoverage"`
}

func (s *Service) BuildDashboard(ctx context.Context, tenantID string) (Dashboard, error) {
	if ctx == nil {
		return Dashboard{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Dashboard{}, errs.Wrap(err, "check context")
	}

	plans, err := s.repo.ListQMPs(ctx, tenantID)
	if err != nil {
		return Dashboard{}, errs.Wrap(err, "list plans")
	}

	factors, err := s.repo.ListCtqFactors(ctx, tenantID, nil)
	if err != nil {
		return Dashboard{}, errs.Wrap(err, "list ctq factors")
	}

	dashboard := Dashboard{
		TotalPlans:    len(plans),
		FactorsByRisk: make(map[string]int, 3),
		RulesByGate:   make(map[string]int, 3),
	}

	activeFactors := 0
	for _, factor := range factors {
		if !factor.Active {
			continue
		}
		activeFactors++
		dashboard.FactorsByRisk[factor.RiskLevel]++
	}

	referenced := make(map[uint64]struct{})
	thresholdSum := 0
	ruleCount := 0

	for _, plan := range plans {
		if plan.Status == "active" {
			dashboard.ActivePlans++
		}

		rules, err := s.repo.ListGatingRules(ctx, tenantID, plan.QMPID)
		if err != nil {
			return Dashboard{}, errs.Wrap(err, "list gating rules")
		}
		for _, rule := range rules {
			if !rule.Active {
				continue
			}
			ruleCount++
			thresholdSum += rule.MinimumMandatoryCompletion
			dashboard.RulesByGate[domain.GatingLevel(rule.MinimumMandatoryCompletion)]++
			for _, factorID := range rule.CtqFactorIDs {
				referenced[factorID] = struct{}{}
			}
		}
	}

	if ruleCount > 0 {
		dashboard.AverageThreshold = float64(thresholdSum) / float64(ruleCount)
	}
	if activeFactors > 0 {
		coveredActive := 0
		for _, factor := range factors {
			if !factor.Active {
				continue
			}
			if _, ok := referenced[factor.FactorID]; ok {
				coveredActive++
			}
		}
		dashboard.FactorCoverage = float64(coveredActive) / float64(activeFactors)
	}
	return dashboard, nil
}
