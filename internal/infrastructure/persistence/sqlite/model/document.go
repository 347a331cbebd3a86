package model

type Folder struct {
	FolderID  uint64  `gorm:"column:folder_id;primaryKey;autoIncrement"`
	TenantID  string  `gorm:"column:tenant_id;type:text;not null;index"`
	ParentID  *uint64 `gorm:"column:parent_id;index"`
	Name      string  `gorm:"column:name;type:text;not null"`
	CreatedAt string  `gorm:"column:created_at;type:text;not null"`
}

func (Folder) TableName() string {
	return "document_folders"
}

type Document struct {
	DocumentID  string  `gorm:"column:document_id;primaryKey"`
	TenantID    string  `gorm:"column:tenant_id;type:text;not null;index"`
	FolderID    *uint64 `gorm:"column:folder_id;index"`
	Name        string  `gorm:"column:name;type:text;not null"`
	ContentType string  `gorm:"column:content_type;type:text;not null"`
	SizeBytes   int64   `gorm:"column:size_bytes;not null;default:0"`
	StoragePath string  `gorm:"column:storage_path;type:text;not null"`
	LockedBy    *string `gorm:"column:locked_by;type:text"`
	LockedAt    *string `gorm:"column:locked_at;type:text"`
	CreatedAt   string  `gorm:"column:created_at;type:text;not null"`
	UpdatedAt   string  `gorm:"column:updated_at;type:text;not null"`
}

func (Document) TableName() string {
	return "unified_documents"
}

type DocumentVersion struct {
	VersionID     uint64 `gorm:"column:version_id;primaryKey;autoIncrement"`
	DocumentID    string `gorm:"column:document_id;type:text;not null;index"`
	VersionNumber int    `gorm:"column:version_number;not null"`
	StoragePath   string `gorm:"column:storage_path;type:text;not null"`
	SizeBytes     int64  `gorm:"column:size_bytes;not null;default:0"`
	CreatedBy     string `gorm:"column:created_by;type:text;not null"`
	CreatedAt     string `gorm:"column:created_at;type:text;not null"`
}

func (DocumentVersion) TableName() string {
	return "document_versions"
}

type ModuleDocument struct {
	MappingID        uint64  `gorm:"column:mapping_id;primaryKey;autoIncrement"`
	TenantID         string  `gorm:"column:tenant_id;type:text;not null;index"`
	Module           string  `gorm:"column:module;type:text;not null;index"`
	ModuleDocumentID string  `gorm:"column:module_document_id;type:text;not null"`
	DocumentID       string  `gorm:"column:document_id;type:text;not null;index"`
	WorkflowID       *uint64 `gorm:"column:workflow_id"`
	CreatedAt        string  `gorm:"column:created_at;type:text;not null"`
}

func (ModuleDocument) TableName() string {
	return "module_documents"
}
