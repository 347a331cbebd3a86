package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trialsage/internal/bootstrap/logging"
	"trialsage/internal/errs"
	"trialsage/internal/ports"
)

// ManifestStore receives the export manifest file of a completed job.
type ManifestStore interface {
	Save(tenantID string, name string, data []byte) (string, error)
}

// Worker drains the export queue: claim the oldest queued job, collect its
// documents, write a manifest file and mark the job completed or failed.
type Worker struct {
	repo     ports.ExportRepository
	docs     ports.DocumentRepository
	store    ManifestStore
	interval time.Duration
}

func NewWorker(repo ports.ExportRepository, docs ports.DocumentRepository, store ManifestStore, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Worker{
		repo:     repo,
		docs:     docs,
		store:    store,
		interval: interval,
	}
}

// Run polls the queue until the context is cancelled. Intended to be started
// as a goroutine from the server command.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Drain(ctx)
		}
	}
}

// Drain processes queued jobs until the queue is empty.
func (w *Worker) Drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		job, found, err := w.repo.ClaimNextQueued(ctx, nowUTCString())
		if err != nil {
			logging.Error(ctx, "export job claim failed", slog.Any("err", errs.Loggable(err)))
			return
		}
		if !found {
			return
		}

		w.process(ctx, job)
	}
}

type manifestEntry struct {
	DocumentID  string `json:"documentId"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
	StoragePath string `json:"storagePath"`
}

type manifest struct {
	JobID       string          `json:"jobId"`
	Kind        string          `json:"kind"`
	GeneratedAt string          `json:"generatedAt"`
	Documents   []manifestEntry `json:"documents"`
}

func (w *Worker) process(ctx context.Context, job ports.ExportJob) {
	jobCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.export"),
		slog.String("job_id", job.JobID),
	)

	path, err := w.buildManifest(jobCtx, job)
	now := nowUTCString()
	if err != nil {
		logging.Warn(jobCtx, "export job failed", slog.Any("err", errs.Loggable(err)))
		if markErr := w.repo.MarkFailed(jobCtx, job.JobID, err.Error(), now); markErr != nil {
			logging.Error(jobCtx, "export job failure not recorded", slog.Any("err", errs.Loggable(markErr)))
		}
		return
	}

	if err := w.repo.MarkCompleted(jobCtx, job.JobID, path, now); err != nil {
		logging.Error(jobCtx, "export job completion not recorded", slog.Any("err", errs.Loggable(err)))
		return
	}
	logging.Info(jobCtx, "export job completed", slog.String("manifest", path))
}

func (w *Worker) buildManifest(ctx context.Context, job ports.ExportJob) (string, error) {
	if len(job.DocumentIDs) == 0 {
		return "", errors.New("export job has no documents")
	}

	entries := make([]manifestEntry, 0, len(job.DocumentIDs))
	for _, documentID := range job.DocumentIDs {
		doc, err := w.docs.GetDocument(ctx, job.TenantID, documentID)
		if err != nil {
			return "", errs.Wrapf(err, "collect document %q", documentID)
		}
		entries = append(entries, manifestEntry{
			DocumentID:  doc.DocumentID,
			Name:        doc.Name,
			ContentType: doc.ContentType,
			SizeBytes:   doc.SizeBytes,
			StoragePath: doc.StoragePath,
		})
	}

	data, err := json.MarshalIndent(manifest{
		JobID:       job.JobID,
		Kind:        job.Kind,
		GeneratedAt: nowUTCString(),
		Documents:   entries,
	}, "", "  ")
	if err != nil {
		return "", errs.Wrap(err, "encode export manifest")
	}

	path, err := w.store.Save(job.TenantID, fmt.Sprintf("export-%s.json", job.JobID), data)
	if err != nil {
		return "", errs.Wrap(err, "write export manifest")
	}
	return path, nil
}
