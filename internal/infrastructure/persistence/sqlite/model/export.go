package model

import "gorm.io/datatypes"

type ExportJob struct {
	JobID        string         `gorm:"column:job_id;primaryKey"`
	TenantID     string         `gorm:"column:tenant_id;type:text;not null;index"`
	Kind         string         `gorm:"column:kind;type:text;not null"`
	Status       string         `gorm:"column:status;type:text;not null;index"`
	DocumentIDs  datatypes.JSON `gorm:"column:document_ids;not null"`
	ManifestPath string         `gorm:"column:manifest_path;type:text"`
	FailureCause string         `gorm:"column:failure_cause;type:text"`
	CreatedAt    string         `gorm:"column:created_at;type:text;not null;index"`
	StartedAt    *string        `gorm:"column:started_at;type:text"`
	CompletedAt  *string        `gorm:"column:completed_at;type:text"`
}

func (ExportJob) TableName() string {
	return "export_jobs"
}
