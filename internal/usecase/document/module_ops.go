package document

import (
	"context"
	"errors"
	"strings"

	"trialsage/internal/errs"
	"trialsage/internal/ports"
)

type ModuleMappingInput struct {
	TenantID         string
	Module           string
	ModuleDocumentID string
	DocumentID       string
	WorkflowID       *uint64
}

// RegisterModuleDocument maps a module-local document id to a canonical
// document, so product modules can reference managed content without
// duplicating it.
func (s *Service) RegisterModuleDocument(ctx context.Context, input ModuleMappingInput) (ports.ModuleDocument, error) {
	if ctx == nil {
		return ports.ModuleDocument{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.ModuleDocument{}, errs.Wrap(err, "check context")
	}

	module := strings.TrimSpace(input.Module)
	moduleDocID := strings.TrimSpace(input.ModuleDocumentID)
	if module == "" || moduleDocID == "" {
		return ports.ModuleDocument{}, errors.New("module and module document id are required")
	}

	if _, err := s.repo.GetDocument(ctx, input.TenantID, input.DocumentID); err != nil {
		return ports.ModuleDocument{}, err
	}

	return s.repo.CreateModuleMapping(ctx, ports.ModuleDocument{
		TenantID:         input.TenantID,
		Module:           module,
		ModuleDocumentID: moduleDocID,
		DocumentID:       input.DocumentID,
		WorkflowID:       input.WorkflowID,
		CreatedAt:        nowUTCString(),
	})
}

func (s *Service) GetModuleDocument(ctx context.Context, tenantID string, module string, moduleDocumentID string) (ports.ModuleDocument, error) {
	if ctx == nil {
		return ports.ModuleDocument{}, errors.New("context is required")
	}
	return s.repo.GetModuleMapping(ctx, tenantID, module, moduleDocumentID)
}
