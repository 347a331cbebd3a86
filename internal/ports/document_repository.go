package ports

import (
	"context"
	"errors"
)

var (
	ErrFolderNotFound   = errors.New("folder not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrFolderNotEmpty   = errors.New("folder is not empty")
)

type Folder struct {
	FolderID  uint64
	TenantID  string
	ParentID  *uint64
	Name      string
	CreatedAt string
}

type Document struct {
	DocumentID  string
	TenantID    string
	FolderID    *uint64
	Name        string
	ContentType string
	SizeBytes   int64
	StoragePath string
	LockedBy    *string
	LockedAt    *string
	CreatedAt   string
	UpdatedAt   string
}

type DocumentVersion struct {
	VersionID     uint64
	DocumentID    string
	VersionNumber int
	StoragePath   string
	SizeBytes     int64
	CreatedBy     string
	CreatedAt     string
}

// ModuleDocument maps a document originating in one of the product modules
// to a canonical document id, optionally attached to an approval workflow.
type ModuleDocument struct {
	MappingID        uint64
	TenantID         string
	Module           string
	ModuleDocumentID string
	DocumentID       string
	WorkflowID       *uint64
	CreatedAt        string
}

type DocumentRepository interface {
	CreateFolder(ctx context.Context, folder Folder) (Folder, error)
	GetFolder(ctx context.Context, tenantID string, folderID uint64) (Folder, error)
	ListChildFolders(ctx context.Context, tenantID string, parentID *uint64) ([]Folder, error)
	CountFolderEntries(ctx context.Context, tenantID string, folderID uint64) (int64, error)
	DeleteFolder(ctx context.Context, tenantID string, folderID uint64) error

	CreateDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, tenantID string, documentID string) (Document, error)
	ListDocumentsInFolder(ctx context.Context, tenantID string, folderID *uint64) ([]Document, error)
	SetDocumentFolder(ctx context.Context, tenantID string, documentID string, folderID *uint64, updatedAt string) error
	SetDocumentLock(ctx context.Context, tenantID string, documentID string, lockedBy *string, lockedAt *string) error
	UpdateDocumentContent(ctx context.Context, tenantID string, documentID string, storagePath string, sizeBytes int64, updatedAt string) error
	DeleteDocument(ctx context.Context, tenantID string, documentID string) error

	AddVersion(ctx context.Context, version DocumentVersion) (DocumentVersion, error)
	ListVersions(ctx context.Context, documentID string) ([]DocumentVersion, error)

	CreateModuleMapping(ctx context.Context, mapping ModuleDocument) (ModuleDocument, error)
	GetModuleMapping(ctx context.Context, tenantID string, module string, moduleDocumentID string) (ModuleDocument, error)
}
