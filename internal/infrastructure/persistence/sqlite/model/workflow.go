package model

type Workflow struct {
	WorkflowID uint64  `gorm:"column:workflow_id;primaryKey;autoIncrement"`
	TenantID   string  `gorm:"column:tenant_id;type:text;not null;index"`
	Name       string  `gorm:"column:name;type:text;not null"`
	DocumentID *string `gorm:"column:document_id;type:text"`
	Status     string  `gorm:"column:status;type:text;not null;default:pending"`
	CreatedAt  string  `gorm:"column:created_at;type:text;not null"`
	UpdatedAt  string  `gorm:"column:updated_at;type:text;not null"`
}

func (Workflow) TableName() string {
	return "workflows"
}

type ApprovalStep struct {
	StepID     uint64  `gorm:"column:step_id;primaryKey;autoIncrement"`
	WorkflowID uint64  `gorm:"column:workflow_id;not null;index"`
	StepOrder  int     `gorm:"column:step_order;not null"`
	AssignedTo string  `gorm:"column:assigned_to;type:text;not null"`
	Status     string  `gorm:"column:status;type:text;not null;default:pending"`
	Comment    string  `gorm:"column:comment;type:text"`
	DecidedAt  *string `gorm:"column:decided_at;type:text"`
}

func (ApprovalStep) TableName() string {
	return "approval_steps"
}

type WorkflowEvent struct {
	EventID    uint64 `gorm:"column:event_id;primaryKey;autoIncrement"`
	WorkflowID uint64 `gorm:"column:workflow_id;not null;index"`
	Actor      string `gorm:"column:actor;type:text;not null"`
	Body       string `gorm:"column:body;type:text;not null"`
	CreatedAt  string `gorm:"column:created_at;type:text;not null"`
}

func (WorkflowEvent) TableName() string {
	return "workflow_events"
}
