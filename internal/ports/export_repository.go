package ports

import (
	"context"
	"errors"
)

var ErrExportJobNotFound = errors.New("export job not found")

type ExportJob struct {
	JobID        string
	TenantID     string
	Kind         string
	Status       string
	DocumentIDs  []string
	ManifestPath string
	FailureCause string
	CreatedAt    string
	StartedAt    *string
	CompletedAt  *string
}

type ExportRepository interface {
	CreateJob(ctx context.Context, job ExportJob) error
	GetJob(ctx context.Context, tenantID string, jobID string) (ExportJob, error)
	// ClaimNextQueued atomically moves the oldest queued job to running and
	// returns it. found is false when the queue is empty.
	ClaimNextQueued(ctx context.Context, startedAt string) (job ExportJob, found bool, err error)
	MarkCompleted(ctx context.Context, jobID string, manifestPath string, completedAt string) error
	MarkFailed(ctx context.Context, jobID string, cause string, completedAt string) error
	ListJobs(ctx context.Context, tenantID string, limit int) ([]ExportJob, error)
}
