package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	domain "trialsage/internal/domain/workflow"
	"trialsage/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "trialsage/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "trialsage/internal/infrastructure/persistence/sqlite/uow"
	"trialsage/internal/ports"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Workflow{},
		&model.ApprovalStep{},
		&model.WorkflowEvent{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	return NewService(sqliterepo.NewWorkflowRepository(db), sqliteuow.NewUnitOfWork(db))
}

func createTwoStepWorkflow(t *testing.T, svc *Service) Detail {
	t.Helper()

	detail, err := svc.Create(context.Background(), CreateInput{
		TenantID: "acme",
		Name:     "CER approval",
		Steps: []StepInput{
			{AssignedTo: "alice"},
			{AssignedTo: "bob"},
		},
	})
	if err != nil {
		t.Fatalf("create workflow: %v", err)
	}
	return detail
}

func TestCreateOrdersStepsAndLogsEvent(t *testing.T) {
	svc := setupService(t)

	detail := createTwoStepWorkflow(t, svc)

	if detail.Workflow.Status != domain.StatusPending {
		t.Fatalf("expected pending workflow, got %q", detail.Workflow.Status)
	}
	if len(detail.Steps) != 2 || detail.Steps[0].StepOrder != 1 || detail.Steps[1].StepOrder != 2 {
		t.Fatalf("unexpected steps: %+v", detail.Steps)
	}
	if len(detail.Events) != 1 {
		t.Fatalf("expected creation event, got %+v", detail.Events)
	}
}

func TestCreateRequiresSteps(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Create(context.Background(), CreateInput{TenantID: "acme", Name: "empty"})
	if !errors.Is(err, domain.ErrStepsRequired) {
		t.Fatalf("expected ErrStepsRequired, got %v", err)
	}
}

func TestApproveChainToTerminal(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created := createTwoStepWorkflow(t, svc)
	workflowID := created.Workflow.WorkflowID

	afterFirst, err := svc.SubmitDecision(ctx, DecisionInput{
		TenantID:   "acme",
		WorkflowID: workflowID,
		StepOrder:  1,
		Decision:   "approve",
		Actor:      "alice",
	})
	if err != nil {
		t.Fatalf("first decision: %v", err)
	}
	if afterFirst.Workflow.Status != domain.StatusPending {
		t.Fatalf("workflow must stay pending after first approval, got %q", afterFirst.Workflow.Status)
	}
	if afterFirst.Steps[0].Status != domain.StatusApproved || afterFirst.Steps[0].DecidedAt == nil {
		t.Fatalf("unexpected first step: %+v", afterFirst.Steps[0])
	}

	afterLast, err := svc.SubmitDecision(ctx, DecisionInput{
		TenantID:   "acme",
		WorkflowID: workflowID,
		StepOrder:  2,
		Decision:   "Approve",
		Comment:    "looks complete",
		Actor:      "bob",
	})
	if err != nil {
		t.Fatalf("last decision: %v", err)
	}
	if afterLast.Workflow.Status != domain.StatusApproved {
		t.Fatalf("expected approved workflow, got %q", afterLast.Workflow.Status)
	}
	if len(afterLast.Events) != 3 {
		t.Fatalf("expected one event per decision plus creation, got %+v", afterLast.Events)
	}

	_, err = svc.SubmitDecision(ctx, DecisionInput{
		TenantID:   "acme",
		WorkflowID: workflowID,
		StepOrder:  2,
		Decision:   "reject",
		Actor:      "bob",
	})
	if !errors.Is(err, domain.ErrTerminal) {
		t.Fatalf("expected ErrTerminal, got %v", err)
	}
}

func TestRejectIsTerminal(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created := createTwoStepWorkflow(t, svc)

	detail, err := svc.SubmitDecision(ctx, DecisionInput{
		TenantID:   "acme",
		WorkflowID: created.Workflow.WorkflowID,
		StepOrder:  1,
		Decision:   "reject",
		Comment:    "missing safety data",
		Actor:      "alice",
	})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if detail.Workflow.Status != domain.StatusRejected {
		t.Fatalf("expected rejected workflow, got %q", detail.Workflow.Status)
	}
	if detail.Steps[1].Status != domain.StatusPending {
		t.Fatalf("later steps must stay untouched, got %+v", detail.Steps[1])
	}

	_, err = svc.SubmitDecision(ctx, DecisionInput{
		TenantID:   "acme",
		WorkflowID: created.Workflow.WorkflowID,
		StepOrder:  2,
		Decision:   "approve",
		Actor:      "bob",
	})
	if !errors.Is(err, domain.ErrTerminal) {
		t.Fatalf("expected ErrTerminal, got %v", err)
	}
}

func TestDecisionGuards(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created := createTwoStepWorkflow(t, svc)
	workflowID := created.Workflow.WorkflowID

	_, err := svc.SubmitDecision(ctx, DecisionInput{
		TenantID:   "acme",
		WorkflowID: workflowID,
		StepOrder:  2,
		Decision:   "approve",
		Actor:      "bob",
	})
	if !errors.Is(err, domain.ErrStepNotCurrent) {
		t.Fatalf("expected ErrStepNotCurrent, got %v", err)
	}

	_, err = svc.SubmitDecision(ctx, DecisionInput{
		TenantID:   "acme",
		WorkflowID: workflowID,
		StepOrder:  7,
		Decision:   "approve",
		Actor:      "alice",
	})
	if !errors.Is(err, domain.ErrStepMissing) {
		t.Fatalf("expected ErrStepMissing, got %v", err)
	}

	_, err = svc.SubmitDecision(ctx, DecisionInput{
		TenantID:   "acme",
		WorkflowID: workflowID,
		StepOrder:  1,
		Decision:   "defer",
		Actor:      "alice",
	})
	if !errors.Is(err, domain.ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}

	_, err = svc.SubmitDecision(ctx, DecisionInput{
		TenantID:   "other-tenant",
		WorkflowID: workflowID,
		StepOrder:  1,
		Decision:   "approve",
		Actor:      "mallory",
	})
	if !errors.Is(err, ports.ErrWorkflowNotFound) {
		t.Fatalf("expected ErrWorkflowNotFound, got %v", err)
	}
}
