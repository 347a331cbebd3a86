package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trialsage/internal/errs"
	"trialsage/internal/infrastructure/persistence/sqlite/model"
	"trialsage/internal/ports"
)

type WorkflowRepository struct {
	db *gorm.DB
}

var _ ports.WorkflowRepository = (*WorkflowRepository)(nil)

func NewWorkflowRepository(db *gorm.DB) *WorkflowRepository {
	return &WorkflowRepository{db: db}
}

func mapWorkflow(row model.Workflow) ports.Workflow {
	return ports.Workflow{
		WorkflowID: row.WorkflowID,
		TenantID:   row.TenantID,
		Name:       row.Name,
		DocumentID: row.DocumentID,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func (r *WorkflowRepository) CreateWorkflow(ctx context.Context, workflow ports.Workflow, steps []ports.ApprovalStep) (ports.Workflow, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Workflow{}, err
	}

	row := model.Workflow{
		TenantID:   workflow.TenantID,
		Name:       workflow.Name,
		DocumentID: workflow.DocumentID,
		Status:     workflow.Status,
		CreatedAt:  workflow.CreatedAt,
		UpdatedAt:  workflow.UpdatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Workflow{}, errs.Wrap(err, "insert workflow")
	}

	for _, step := range steps {
		stepRow := model.ApprovalStep{
			WorkflowID: row.WorkflowID,
			StepOrder:  step.StepOrder,
			AssignedTo: step.AssignedTo,
			Status:     step.Status,
			Comment:    step.Comment,
		}
		if err := db.Create(&stepRow).Error; err != nil {
			return ports.Workflow{}, errs.Wrap(err, "insert approval step")
		}
	}

	return mapWorkflow(row), nil
}

func (r *WorkflowRepository) GetWorkflow(ctx context.Context, tenantID string, workflowID uint64) (ports.Workflow, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Workflow{}, err
	}

	var row model.Workflow
	if err := db.Where("tenant_id = ? AND workflow_id = ?", tenantID, workflowID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Workflow{}, ports.ErrWorkflowNotFound
		}
		return ports.Workflow{}, errs.Wrap(err, "query workflow")
	}
	return mapWorkflow(row), nil
}

func (r *WorkflowRepository) ListSteps(ctx context.Context, workflowID uint64) ([]ports.ApprovalStep, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.ApprovalStep
	if err := db.
		Where("workflow_id = ?", workflowID).
		Order("step_order asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query approval steps")
	}

	items := make([]ports.ApprovalStep, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.ApprovalStep{
			StepID:     row.StepID,
			WorkflowID: row.WorkflowID,
			StepOrder:  row.StepOrder,
			AssignedTo: row.AssignedTo,
			Status:     row.Status,
			Comment:    row.Comment,
			DecidedAt:  row.DecidedAt,
		})
	}
	return items, nil
}

func (r *WorkflowRepository) SetStepDecision(ctx context.Context, stepID uint64, status string, comment string, decidedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.ApprovalStep{}).
		Where("step_id = ?", stepID).
		Updates(map[string]any{
			"status":     status,
			"comment":    comment,
			"decided_at": decidedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update approval step")
	}
	if result.RowsAffected == 0 {
		return ports.ErrStepNotFound
	}
	return nil
}

func (r *WorkflowRepository) SetWorkflowStatus(ctx context.Context, workflowID uint64, status string, updatedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.Workflow{}).
		Where("workflow_id = ?", workflowID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update workflow status")
	}
	if result.RowsAffected == 0 {
		return ports.ErrWorkflowNotFound
	}
	return nil
}

func (r *WorkflowRepository) AppendEvent(ctx context.Context, event ports.WorkflowEvent) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := model.WorkflowEvent{
		WorkflowID: event.WorkflowID,
		Actor:      event.Actor,
		Body:       event.Body,
		CreatedAt:  event.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert workflow event")
	}
	return nil
}

func (r *WorkflowRepository) ListEvents(ctx context.Context, workflowID uint64) ([]ports.WorkflowEvent, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.WorkflowEvent
	if err := db.
		Where("workflow_id = ?", workflowID).
		Order("event_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query workflow events")
	}

	items := make([]ports.WorkflowEvent, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.WorkflowEvent{
			EventID:    row.EventID,
			WorkflowID: row.WorkflowID,
			Actor:      row.Actor,
			Body:       row.Body,
			CreatedAt:  row.CreatedAt,
		})
	}
	return items, nil
}
