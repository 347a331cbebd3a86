package export

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"trialsage/internal/errs"
	"trialsage/internal/ports"
)

const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Service accepts batch export jobs and reports their actual lifecycle
// state. Processing happens in the Worker.
type Service struct {
	repo ports.ExportRepository
	docs ports.DocumentRepository
}

func NewService(repo ports.ExportRepository, docs ports.DocumentRepository) *Service {
	return &Service{
		repo: repo,
		docs: docs,
	}
}

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339)
}

type CreateInput struct {
	TenantID    string
	Kind        string
	DocumentIDs []string
}

// CreateJob validates the referenced documents and queues the job. The
// returned job is queued, not completed; poll GetJob for progress.
func (s *Service) CreateJob(ctx context.Context, input CreateInput) (ports.ExportJob, error) {
	if ctx == nil {
		return ports.ExportJob{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.ExportJob{}, errs.Wrap(err, "check context")
	}

	if len(input.DocumentIDs) == 0 {
		return ports.ExportJob{}, errors.New("at least one document id is required")
	}

	for _, documentID := range input.DocumentIDs {
		if _, err := s.docs.GetDocument(ctx, input.TenantID, documentID); err != nil {
			return ports.ExportJob{}, err
		}
	}

	kind := strings.TrimSpace(input.Kind)
	if kind == "" {
		kind = "document-bundle"
	}

	job := ports.ExportJob{
		JobID:       uuid.NewString(),
		TenantID:    input.TenantID,
		Kind:        kind,
		Status:      StatusQueued,
		DocumentIDs: input.DocumentIDs,
		CreatedAt:   nowUTCString(),
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return ports.ExportJob{}, errs.Wrap(err, "queue export job")
	}
	return job, nil
}

func (s *Service) GetJob(ctx context.Context, tenantID string, jobID string) (ports.ExportJob, error) {
	if ctx == nil {
		return ports.ExportJob{}, errors.New("context is required")
	}
	return s.repo.GetJob(ctx, tenantID, jobID)
}

func (s *Service) ListJobs(ctx context.Context, tenantID string, limit int) ([]ports.ExportJob, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListJobs(ctx, tenantID, limit)
}
