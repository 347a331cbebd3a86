package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "trialsage/internal/domain/workflow"
	"trialsage/internal/errs"
	"trialsage/internal/ports"
)

type DecisionInput struct {
	TenantID   string
	WorkflowID uint64
	StepOrder  int
	Decision   string
	Comment    string
	Actor      string
}

// SubmitDecision applies an approve or reject to the current pending step.
// Step update, workflow status and the audit event are written in one
// transaction.
func (s *Service) SubmitDecision(ctx context.Context, input DecisionInput) (Detail, error) {
	if ctx == nil {
		return Detail{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Detail{}, errs.Wrap(err, "check context")
	}

	decision := strings.ToLower(strings.TrimSpace(input.Decision))

	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetWorkflow(txCtx, input.TenantID, input.WorkflowID); err != nil {
			return err
		}

		steps, err := s.repo.ListSteps(txCtx, input.WorkflowID)
		if err != nil {
			return errs.Wrap(err, "list approval steps")
		}

		chain := make([]domain.Step, 0, len(steps))
		var target *ports.ApprovalStep
		for i := range steps {
			chain = append(chain, domain.Step{StepOrder: steps[i].StepOrder, Status: steps[i].Status})
			if steps[i].StepOrder == input.StepOrder {
				target = &steps[i]
			}
		}

		outcome, err := domain.ApplyDecision(chain, input.StepOrder, decision)
		if err != nil {
			return err
		}

		now := nowUTCString()
		if err := s.repo.SetStepDecision(txCtx, target.StepID, outcome.StepStatus, strings.TrimSpace(input.Comment), now); err != nil {
			return err
		}
		if err := s.repo.SetWorkflowStatus(txCtx, input.WorkflowID, outcome.WorkflowStatus, now); err != nil {
			return err
		}
		return s.repo.AppendEvent(txCtx, ports.WorkflowEvent{
			WorkflowID: input.WorkflowID,
			Actor:      strings.TrimSpace(input.Actor),
			Body:       fmt.Sprintf("step %d %s, workflow %s", input.StepOrder, outcome.StepStatus, outcome.WorkflowStatus),
			CreatedAt:  now,
		})
	})
	if err != nil {
		return Detail{}, err
	}

	return s.Get(ctx, input.TenantID, input.WorkflowID)
}
