package ports

import (
	"context"
	"errors"
)

var (
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrStepNotFound     = errors.New("approval step not found")
)

type Workflow struct {
	WorkflowID uint64
	TenantID   string
	Name       string
	DocumentID *string
	Status     string
	CreatedAt  string
	UpdatedAt  string
}

type ApprovalStep struct {
	StepID     uint64
	WorkflowID uint64
	StepOrder  int
	AssignedTo string
	Status     string
	Comment    string
	DecidedAt  *string
}

type WorkflowEvent struct {
	EventID    uint64
	WorkflowID uint64
	Actor      string
	Body       string
	CreatedAt  string
}

type WorkflowRepository interface {
	CreateWorkflow(ctx context.Context, workflow Workflow, steps []ApprovalStep) (Workflow, error)
	GetWorkflow(ctx context.Context, tenantID string, workflowID uint64) (Workflow, error)
	ListSteps(ctx context.Context, workflowID uint64) ([]ApprovalStep, error)
	SetStepDecision(ctx context.Context, stepID uint64, status string, comment string, decidedAt string) error
	SetWorkflowStatus(ctx context.Context, workflowID uint64, status string, updatedAt string) error
	AppendEvent(ctx context.Context, event WorkflowEvent) error
	ListEvents(ctx context.Context, workflowID uint64) ([]WorkflowEvent, error)
}
