package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trialsage/internal/errs"
	"trialsage/internal/infrastructure/persistence/sqlite/model"
	"trialsage/internal/ports"
)

type ExportRepository struct {
	db *gorm.DB
}

var _ ports.ExportRepository = (*ExportRepository)(nil)

func NewExportRepository(db *gorm.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

func mapJob(row model.ExportJob) ports.ExportJob {
	return ports.ExportJob{
		JobID:        row.JobID,
		TenantID:     row.TenantID,
		Kind:         row.Kind,
		Status:       row.Status,
		DocumentIDs:  decodeStrings(row.DocumentIDs),
		ManifestPath: row.ManifestPath,
		FailureCause: row.FailureCause,
		CreatedAt:    row.CreatedAt,
		StartedAt:    row.StartedAt,
		CompletedAt:  row.CompletedAt,
	}
}

func (r *ExportRepository) CreateJob(ctx context.Context, job ports.ExportJob) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := model.ExportJob{
		JobID:       job.JobID,
		TenantID:    job.TenantID,
		Kind:        job.Kind,
		Status:      job.Status,
		DocumentIDs: encodeJSON(job.DocumentIDs),
		CreatedAt:   job.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert export job")
	}
	return nil
}

func (r *ExportRepository) GetJob(ctx context.Context, tenantID string, jobID string) (ports.ExportJob, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.ExportJob{}, err
	}

	var row model.ExportJob
	if err := db.Where("tenant_id = ? AND job_id = ?", tenantID, jobID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ExportJob{}, ports.ErrExportJobNotFound
		}
		return ports.ExportJob{}, errs.Wrap(err, "query export job")
	}
	return mapJob(row), nil
}

func (r *ExportRepository) ClaimNextQueued(ctx context.Context, startedAt string) (ports.ExportJob, bool, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.ExportJob{}, false, err
	}

	for {
		var candidate model.ExportJob
		if err := db.
			Where("status = ?", "queued").
			Order("created_at asc").
			Take(&candidate).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ExportJob{}, false, nil
			}
			return ports.ExportJob{}, false, errs.Wrap(err, "query queued export job")
		}

		result := db.Model(&model.ExportJob{}).
			Where("job_id = ? AND status = ?", candidate.JobID, "queued").
			Updates(map[string]any{
				"status":     "running",
				"started_at": startedAt,
			})
		if result.Error != nil {
			return ports.ExportJob{}, false, errs.Wrap(result.Error, "claim queued export job")
		}
		if result.RowsAffected == 0 {
			// Another worker claimed this job between the select and the
			// guarded update; try the next queued job.
			continue
		}

		candidate.Status = "running"
		candidate.StartedAt = &startedAt
		return mapJob(candidate), true, nil
	}
}

func (r *ExportRepository) MarkCompleted(ctx context.Context, jobID string, manifestPath string, completedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.ExportJob{}).
		Where("job_id = ?", jobID).
		Updates(map[string]any{
			"status":        "completed",
			"manifest_path": manifestPath,
			"completed_at":  completedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "mark export job completed")
	}
	if result.RowsAffected == 0 {
		return ports.ErrExportJobNotFound
	}
	return nil
}

func (r *ExportRepository) MarkFailed(ctx context.Context, jobID string, cause string, completedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.ExportJob{}).
		Where("job_id = ?", jobID).
		Updates(map[string]any{
			"status":        "failed",
			"failure_cause": cause,
			"completed_at":  completedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "mark export job failed")
	}
	if result.RowsAffected == 0 {
		return ports.ErrExportJobNotFound
	}
	return nil
}

func (r *ExportRepository) ListJobs(ctx context.Context, tenantID string, limit int) ([]ports.ExportJob, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.ExportJob{}).
		Where("tenant_id = ?", tenantID).
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.ExportJob
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query export jobs")
	}

	items := make([]ports.ExportJob, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapJob(row))
	}
	return items, nil
}
