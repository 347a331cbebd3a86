package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"trialsage/internal/bootstrap/logging"
	"trialsage/internal/errs"
	"trialsage/internal/ports"
)

type UploadInput struct {
	TenantID    string
	FolderID    *uint64
	Name        string
	ContentType string
	Data        []byte
	UploadedBy  string
}

// Upload stores a new document: the file goes to the blob store, the row and
// its first version are written in one transaction.
func (s *Service) Upload(ctx context.Context, input UploadInput) (ports.Document, error) {
	if ctx == nil {
		return ports.Document{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.Document{}, errs.Wrap(err, "check context")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ports.Document{}, errors.New("document name is required")
	}
	if len(input.Data) == 0 {
		return ports.Document{}, errors.New("document content is required")
	}

	if input.FolderID != nil {
		if _, err := s.repo.GetFolder(ctx, input.TenantID, *input.FolderID); err != nil {
			return ports.Document{}, err
		}
	}

	documentID := uuid.NewString()
	path, err := s.store.Save(input.TenantID, versionedFileName(documentID, 1, name), input.Data)
	if err != nil {
		return ports.Document{}, errs.Wrap(err, "store document content")
	}

	now := nowUTCString()
	doc := ports.Document{
		DocumentID:  documentID,
		TenantID:    input.TenantID,
		FolderID:    input.FolderID,
		Name:        name,
		ContentType: input.ContentType,
		SizeBytes:   int64(len(input.Data)),
		StoragePath: path,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateDocument(txCtx, doc); err != nil {
			return errs.Wrap(err, "insert document")
		}
		_, err := s.repo.AddVersion(txCtx, ports.DocumentVersion{
			DocumentID:    documentID,
			VersionNumber: 1,
			StoragePath:   path,
			SizeBytes:     doc.SizeBytes,
			CreatedBy:     input.UploadedBy,
			CreatedAt:     now,
		})
		return err
	})
	if err != nil {
		if removeErr := s.store.Remove(path); removeErr != nil {
			logging.Warn(ctx, "orphaned upload cleanup failed", slog.Any("err", errs.Loggable(removeErr)))
		}
		return ports.Document{}, err
	}
	return doc, nil
}

// UploadVersion replaces a document's content and appends the next version
// row. Documents locked by someone else reject the write.
func (s *Service) UploadVersion(ctx context.Context, tenantID string, documentID string, data []byte, uploadedBy string) (ports.DocumentVersion, error) {
	if ctx == nil {
		return ports.DocumentVersion{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.DocumentVersion{}, errs.Wrap(err, "check context")
	}
	if len(data) == 0 {
		return ports.DocumentVersion{}, errors.New("document content is required")
	}

	doc, err := s.repo.GetDocument(ctx, tenantID, documentID)
	if err != nil {
		return ports.DocumentVersion{}, err
	}
	if heldByAnother(doc, uploadedBy) {
		return ports.DocumentVersion{}, ErrLockedByAnother
	}

	versions, err := s.repo.ListVersions(ctx, documentID)
	if err != nil {
		return ports.DocumentVersion{}, errs.Wrap(err, "list document versions")
	}
	nextVersion := len(versions) + 1

	path, err := s.store.Save(tenantID, versionedFileName(documentID, nextVersion, doc.Name), data)
	if err != nil {
		return ports.DocumentVersion{}, errs.Wrap(err, "store document content")
	}

	now := nowUTCString()
	var version ports.DocumentVersion
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.UpdateDocumentContent(txCtx, tenantID, documentID, path, int64(len(data)), now); err != nil {
			return err
		}
		version, err = s.repo.AddVersion(txCtx, ports.DocumentVersion{
			DocumentID:    documentID,
			VersionNumber: nextVersion,
			StoragePath:   path,
			SizeBytes:     int64(len(data)),
			CreatedBy:     uploadedBy,
			CreatedAt:     now,
		})
		return err
	})
	if err != nil {
		return ports.DocumentVersion{}, err
	}
	return version, nil
}

func (s *Service) GetDocument(ctx context.Context, tenantID string, documentID string) (ports.Document, error) {
	if ctx == nil {
		return ports.Document{}, errors.New("context is required")
	}
	return s.repo.GetDocument(ctx, tenantID, documentID)
}

// Download returns the document row and its current content bytes.
func (s *Service) Download(ctx context.Context, tenantID string, documentID string) (ports.Document, []byte, error) {
	if ctx == nil {
		return ports.Document{}, nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.Document{}, nil, errs.Wrap(err, "check context")
	}

	doc, err := s.repo.GetDocument(ctx, tenantID, documentID)
	if err != nil {
		return ports.Document{}, nil, err
	}

	data, err := s.store.Load(doc.StoragePath)
	if err != nil {
		return ports.Document{}, nil, errs.Wrap(err, "load document content")
	}
	return doc, data, nil
}

// Move reparents a document. A nil target moves it to the root.
func (s *Service) Move(ctx context.Context, tenantID string, documentID string, targetFolderID *uint64, actor string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	doc, err := s.repo.GetDocument(ctx, tenantID, documentID)
	if err != nil {
		return err
	}
	if heldByAnother(doc, actor) {
		return ErrLockedByAnother
	}

	if targetFolderID != nil {
		if _, err := s.repo.GetFolder(ctx, tenantID, *targetFolderID); err != nil {
			return err
		}
	}

	return s.repo.SetDocumentFolder(ctx, tenantID, documentID, targetFolderID, nowUTCString())
}

// Lock marks the document as held by the actor. Re-locking by the current
// holder refreshes the timestamp.
func (s *Service) Lock(ctx context.Context, tenantID string, documentID string, actor string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	actor = strings.TrimSpace(actor)
	if actor == "" {
		return errors.New("lock holder is required")
	}

	doc, err := s.repo.GetDocument(ctx, tenantID, documentID)
	if err != nil {
		return err
	}
	if heldByAnother(doc, actor) {
		return ErrLockedByAnother
	}

	now := nowUTCString()
	return s.repo.SetDocumentLock(ctx, tenantID, documentID, &actor, &now)
}

// Unlock releases the lock. Only the current holder may release it.
func (s *Service) Unlock(ctx context.Context, tenantID string, documentID string, actor string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	doc, err := s.repo.GetDocument(ctx, tenantID, documentID)
	if err != nil {
		return err
	}
	if doc.LockedBy == nil {
		return nil
	}
	if *doc.LockedBy != strings.TrimSpace(actor) {
		return ErrLockedByAnother
	}

	return s.repo.SetDocumentLock(ctx, tenantID, documentID, nil, nil)
}

// Delete removes the document row and best-effort removes its stored
// content. Documents locked by someone else reject deletion.
func (s *Service) Delete(ctx context.Context, tenantID string, documentID string, actor string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	doc, err := s.repo.GetDocument(ctx, tenantID, documentID)
	if err != nil {
		return err
	}
	if heldByAnother(doc, actor) {
		return ErrLockedByAnother
	}

	if err := s.repo.DeleteDocument(ctx, tenantID, documentID); err != nil {
		return err
	}

	if err := s.store.Remove(doc.StoragePath); err != nil {
		logging.Warn(ctx, "stored content removal failed",
			slog.String("document_id", documentID),
			slog.Any("err", errs.Loggable(err)),
		)
	}
	return nil
}

func (s *Service) ListVersions(ctx context.Context, tenantID string, documentID string) ([]ports.DocumentVersion, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	if _, err := s.repo.GetDocument(ctx, tenantID, documentID); err != nil {
		return nil, err
	}
	return s.repo.ListVersions(ctx, documentID)
}

func versionedFileName(documentID string, version int, name string) string {
	return fmt.Sprintf("%s_v%d_%s", documentID, version, name)
}

func heldByAnother(doc ports.Document, actor string) bool {
	return doc.LockedBy != nil && *doc.LockedBy != strings.TrimSpace(actor)
}
