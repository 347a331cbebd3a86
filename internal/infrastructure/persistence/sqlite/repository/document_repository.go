package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trialsage/internal/errs"
	"trialsage/internal/infrastructure/persistence/sqlite/model"
	"trialsage/internal/ports"
)

type DocumentRepository struct {
	db *gorm.DB
}

var _ ports.DocumentRepository = (*DocumentRepository)(nil)

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func mapFolder(row model.Folder) ports.Folder {
	return ports.Folder{
		FolderID:  row.FolderID,
		TenantID:  row.TenantID,
		ParentID:  row.ParentID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
	}
}

func mapDocument(row model.Document) ports.Document {
	return ports.Document{
		DocumentID:  row.DocumentID,
		TenantID:    row.TenantID,
		FolderID:    row.FolderID,
		Name:        row.Name,
		ContentType: row.ContentType,
		SizeBytes:   row.SizeBytes,
		StoragePath: row.StoragePath,
		LockedBy:    row.LockedBy,
		LockedAt:    row.LockedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func (r *DocumentRepository) CreateFolder(ctx context.Context, folder ports.Folder) (ports.Folder, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Folder{}, err
	}

	row := model.Folder{
		TenantID:  folder.TenantID,
		ParentID:  folder.ParentID,
		Name:      folder.Name,
		CreatedAt: folder.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Folder{}, errs.Wrap(err, "insert folder")
	}
	return mapFolder(row), nil
}

func (r *DocumentRepository) GetFolder(ctx context.Context, tenantID string, folderID uint64) (ports.Folder, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Folder{}, err
	}

	var row model.Folder
	if err := db.Where("tenant_id = ? AND folder_id = ?", tenantID, folderID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Folder{}, ports.ErrFolderNotFound
		}
		return ports.Folder{}, errs.Wrap(err, "query folder")
	}
	return mapFolder(row), nil
}

func (r *DocumentRepository) ListChildFolders(ctx context.Context, tenantID string, parentID *uint64) ([]ports.Folder, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Where("tenant_id = ?", tenantID)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var rows []model.Folder
	if err := query.Order("name asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query child folders")
	}

	items := make([]ports.Folder, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapFolder(row))
	}
	return items, nil
}

func (r *DocumentRepository) CountFolderEntries(ctx context.Context, tenantID string, folderID uint64) (int64, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return 0, err
	}

	var folders int64
	if err := db.Model(&model.Folder{}).
		Where("tenant_id = ? AND parent_id = ?", tenantID, folderID).
		Count(&folders).Error; err != nil {
		return 0, errs.Wrap(err, "count child folders")
	}

	var docs int64
	if err := db.Model(&model.Document{}).
		Where("tenant_id = ? AND folder_id = ?", tenantID, folderID).
		Count(&docs).Error; err != nil {
		return 0, errs.Wrap(err, "count folder documents")
	}

	return folders + docs, nil
}

func (r *DocumentRepository) DeleteFolder(ctx context.Context, tenantID string, folderID uint64) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Where("tenant_id = ? AND folder_id = ?", tenantID, folderID).Delete(&model.Folder{})
	if result.Error != nil {
		return errs.Wrap(result.Error, "delete folder")
	}
	if result.RowsAffected == 0 {
		return ports.ErrFolderNotFound
	}
	return nil
}

func (r *DocumentRepository) CreateDocument(ctx context.Context, doc ports.Document) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := model.Document{
		DocumentID:  doc.DocumentID,
		TenantID:    doc.TenantID,
		FolderID:    doc.FolderID,
		Name:        doc.Name,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		StoragePath: doc.StoragePath,
		LockedBy:    doc.LockedBy,
		LockedAt:    doc.LockedAt,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert document")
	}
	return nil
}

func (r *DocumentRepository) GetDocument(ctx context.Context, tenantID string, documentID string) (ports.Document, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Document{}, err
	}

	var row model.Document
	if err := db.Where("tenant_id = ? AND document_id = ?", tenantID, documentID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Document{}, ports.ErrDocumentNotFound
		}
		return ports.Document{}, errs.Wrap(err, "query document")
	}
	return mapDocument(row), nil
}

func (r *DocumentRepository) ListDocumentsInFolder(ctx context.Context, tenantID string, folderID *uint64) ([]ports.Document, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Where("tenant_id = ?", tenantID)
	if folderID == nil {
		query = query.Where("folder_id IS NULL")
	} else {
		query = query.Where("folder_id = ?", *folderID)
	}

	var rows []model.Document
	if err := query.Order("name asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query folder documents")
	}

	items := make([]ports.Document, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapDocument(row))
	}
	return items, nil
}

func (r *DocumentRepository) SetDocumentFolder(ctx context.Context, tenantID string, documentID string, folderID *uint64, updatedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.Document{}).
		Where("tenant_id = ? AND document_id = ?", tenantID, documentID).
		Updates(map[string]any{
			"folder_id":  folderID,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "move document")
	}
	if result.RowsAffected == 0 {
		return ports.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepository) SetDocumentLock(ctx context.Context, tenantID string, documentID string, lockedBy *string, lockedAt *string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.Document{}).
		Where("tenant_id = ? AND document_id = ?", tenantID, documentID).
		Updates(map[string]any{
			"locked_by": lockedBy,
			"locked_at": lockedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "set document lock")
	}
	if result.RowsAffected == 0 {
		return ports.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepository) UpdateDocumentContent(ctx context.Context, tenantID string, documentID string, storagePath string, sizeBytes int64, updatedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.Document{}).
		Where("tenant_id = ? AND document_id = ?", tenantID, documentID).
		Updates(map[string]any{
			"storage_path": storagePath,
			"size_bytes":   sizeBytes,
			"updated_at":   updatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update document content")
	}
	if result.RowsAffected == 0 {
		return ports.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepository) DeleteDocument(ctx context.Context, tenantID string, documentID string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Where("tenant_id = ? AND document_id = ?", tenantID, documentID).Delete(&model.Document{})
	if result.Error != nil {
		return errs.Wrap(result.Error, "delete document")
	}
	if result.RowsAffected == 0 {
		return ports.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepository) AddVersion(ctx context.Context, version ports.DocumentVersion) (ports.DocumentVersion, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.DocumentVersion{}, err
	}

	row := model.DocumentVersion{
		DocumentID:    version.DocumentID,
		VersionNumber: version.VersionNumber,
		StoragePath:   version.StoragePath,
		SizeBytes:     version.SizeBytes,
		CreatedBy:     version.CreatedBy,
		CreatedAt:     version.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.DocumentVersion{}, errs.Wrap(err, "insert document version")
	}

	version.VersionID = row.VersionID
	return version, nil
}

func (r *DocumentRepository) ListVersions(ctx context.Context, documentID string) ([]ports.DocumentVersion, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.DocumentVersion
	if err := db.
		Where("document_id = ?", documentID).
		Order("version_number desc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query document versions")
	}

	items := make([]ports.DocumentVersion, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.DocumentVersion{
			VersionID:     row.VersionID,
			DocumentID:    row.DocumentID,
			VersionNumber: row.VersionNumber,
			StoragePath:   row.StoragePath,
			SizeBytes:     row.SizeBytes,
			CreatedBy:     row.CreatedBy,
			CreatedAt:     row.CreatedAt,
		})
	}
	return items, nil
}

func (r *DocumentRepository) CreateModuleMapping(ctx context.Context, mapping ports.ModuleDocument) (ports.ModuleDocument, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.ModuleDocument{}, err
	}

	row := model.ModuleDocument{
		TenantID:         mapping.TenantID,
		Module:           mapping.Module,
		ModuleDocumentID: mapping.ModuleDocumentID,
		DocumentID:       mapping.DocumentID,
		WorkflowID:       mapping.WorkflowID,
		CreatedAt:        mapping.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.ModuleDocument{}, errs.Wrap(err, "insert module document mapping")
	}

	mapping.MappingID = row.MappingID
	return mapping, nil
}

func (r *DocumentRepository) GetModuleMapping(ctx context.Context, tenantID string, module string, moduleDocumentID string) (ports.ModuleDocument, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.ModuleDocument{}, err
	}

	var row model.ModuleDocument
	if err := db.
		Where("tenant_id = ? AND module = ? AND module_document_id = ?", tenantID, module, moduleDocumentID).
		Order("mapping_id desc").
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ModuleDocument{}, ports.ErrDocumentNotFound
		}
		return ports.ModuleDocument{}, errs.Wrap(err, "query module document mapping")
	}

	return ports.ModuleDocument{
		MappingID:        row.MappingID,
		TenantID:         row.TenantID,
		Module:           row.Module,
		ModuleDocumentID: row.ModuleDocumentID,
		DocumentID:       row.DocumentID,
		WorkflowID:       row.WorkflowID,
		CreatedAt:        row.CreatedAt,
	}, nil
}
