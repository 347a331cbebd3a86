package workflow

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	domain "trialsage/internal/domain/workflow"
	"trialsage/internal/errs"
	"trialsage/internal/ports"
)

// Service runs linear approval workflows over documents: creation, detail
// retrieval and step decisions with an audit event per decision.
type Service struct {
	repo ports.WorkflowRepository
	uow  ports.UnitOfWork
}

func NewService(repo ports.WorkflowRepository, uow ports.UnitOfWork) *Service {
	return &Service{
		repo: repo,
		uow:  uow,
	}
}

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339)
}

type StepInput struct {
	AssignedTo string
}

type CreateInput struct {
	TenantID   string
	Name       string
	DocumentID *string
	Steps      []StepInput
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Detail, error) {
	if ctx == nil {
		return Detail{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Detail{}, errs.Wrap(err, "check context")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Detail{}, errors.New("workflow name is required")
	}
	if len(input.Steps) == 0 {
		return Detail{}, domain.ErrStepsRequired
	}

	now := nowUTCString()
	steps := make([]ports.ApprovalStep, 0, len(input.Steps))
	for i, step := range input.Steps {
		steps = append(steps, ports.ApprovalStep{
			StepOrder:  i + 1,
			AssignedTo: strings.TrimSpace(step.AssignedTo),
			Status:     domain.StatusPending,
		})
	}

	var created ports.Workflow
	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.CreateWorkflow(txCtx, ports.Workflow{
			TenantID:   input.TenantID,
			Name:       name,
			DocumentID: input.DocumentID,
			Status:     domain.StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}, steps)
		if err != nil {
			return errs.Wrap(err, "insert workflow")
		}
		return s.repo.AppendEvent(txCtx, ports.WorkflowEvent{
			WorkflowID: created.WorkflowID,
			Actor:      "system",
			Body:       fmt.Sprintf("workflow created with %d approval steps", len(steps)),
			CreatedAt:  now,
		})
	})
	if err != nil {
		return Detail{}, err
	}

	return s.Get(ctx, input.TenantID, created.WorkflowID)
}

// Detail is a workflow with its ordered steps and audit trail.
type Detail struct {
	Workflow ports.Workflow
	Steps    []ports.ApprovalStep
	Events   []ports.WorkflowEvent
}

func (s *Service) Get(ctx context.Context, tenantID string, workflowID uint64) (Detail, error) {
	if ctx == nil {
		return Detail{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Detail{}, errs.Wrap(err, "check context")
	}

	workflow, err := s.repo.GetWorkflow(ctx, tenantID, workflowID)
	if err != nil {
		return Detail{}, err
	}

	steps, err := s.repo.ListSteps(ctx, workflowID)
	if err != nil {
		return Detail{}, errs.Wrap(err, "list approval steps")
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].StepOrder < steps[j].StepOrder })

	events, err := s.repo.ListEvents(ctx, workflowID)
	if err != nil {
		return Detail{}, errs.Wrap(err, "list workflow events")
	}

	return Detail{Workflow: workflow, Steps: steps, Events: events}, nil
}
