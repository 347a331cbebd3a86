package document

import (
	"context"
	"errors"
	"strings"

	"trialsage/internal/errs"
	"trialsage/internal/ports"
)

type FolderInput struct {
	TenantID string
	ParentID *uint64
	Name     string
}

// Children is one level of the virtual tree: the subfolders and documents
// directly under a folder. A nil folder id addresses the root.
type Children struct {
	Folders   []ports.Folder
	Documents []ports.Document
}

func (s *Service) CreateFolder(ctx context.Context, input FolderInput) (ports.Folder, error) {
	if ctx == nil {
		return ports.Folder{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.Folder{}, errs.Wrap(err, "check context")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ports.Folder{}, errors.New("folder name is required")
	}

	if input.ParentID != nil {
		if _, err := s.repo.GetFolder(ctx, input.TenantID, *input.ParentID); err != nil {
			return ports.Folder{}, err
		}
	}

	return s.repo.CreateFolder(ctx, ports.Folder{
		TenantID:  input.TenantID,
		ParentID:  input.ParentID,
		Name:      name,
		CreatedAt: nowUTCString(),
	})
}

func (s *Service) ListChildren(ctx context.Context, tenantID string, folderID *uint64) (Children, error) {
	if ctx == nil {
		return Children{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Children{}, errs.Wrap(err, "check context")
	}

	if folderID != nil {
		if _, err := s.repo.GetFolder(ctx, tenantID, *folderID); err != nil {
			return Children{}, err
		}
	}

	folders, err := s.repo.ListChildFolders(ctx, tenantID, folderID)
	if err != nil {
		return Children{}, errs.Wrap(err, "list child folders")
	}
	documents, err := s.repo.ListDocumentsInFolder(ctx, tenantID, folderID)
	if err != nil {
		return Children{}, errs.Wrap(err, "list folder documents")
	}

	return Children{Folders: folders, Documents: documents}, nil
}

// DeleteFolder removes an empty folder. Folders still holding subfolders or
// documents are kept and the caller gets ErrFolderNotEmpty.
func (s *Service) DeleteFolder(ctx context.Context, tenantID string, folderID uint64) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	if _, err := s.repo.GetFolder(ctx, tenantID, folderID); err != nil {
		return err
	}

	entries, err := s.repo.CountFolderEntries(ctx, tenantID, folderID)
	if err != nil {
		return errs.Wrap(err, "count folder entries")
	}
	if entries > 0 {
		return ports.ErrFolderNotEmpty
	}

	return s.repo.DeleteFolder(ctx, tenantID, folderID)
}
