package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"trialsage/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "trialsage/internal/infrastructure/persistence/sqlite/repository"
	"trialsage/internal/infrastructure/storage"
	"trialsage/internal/ports"
)

func setup(t *testing.T) (*Service, *Worker, ports.DocumentRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.ExportJob{},
		&model.Document{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	exportRepo := sqliterepo.NewExportRepository(db)
	docRepo := sqliterepo.NewDocumentRepository(db)
	store := storage.NewDiskStore(t.TempDir())

	return NewService(exportRepo, docRepo),
		NewWorker(exportRepo, docRepo, store, time.Second),
		docRepo
}

func seedDocument(t *testing.T, docs ports.DocumentRepository, documentID string) {
	t.Helper()

	now := time.Now().UTC().Format(time.RFC3339)
	err := docs.CreateDocument(context.Background(), ports.Document{
		DocumentID:  documentID,
		TenantID:    "acme",
		Name:        documentID + ".txt",
		ContentType: "text/plain",
		SizeBytes:   42,
		StoragePath: "/uploads/acme/" + documentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("seed document: %v", err)
	}
}

func TestJobLifecycleToCompleted(t *testing.T) {
	svc, worker, docs := setup(t)
	ctx := context.Background()

	seedDocument(t, docs, "doc-1")
	seedDocument(t, docs, "doc-2")

	job, err := svc.CreateJob(ctx, CreateInput{
		TenantID:    "acme",
		Kind:        "document-bundle",
		DocumentIDs: []string{"doc-1", "doc-2"},
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	if job.Status != StatusQueued {
		t.Fatalf("new jobs must be queued, got %q", job.Status)
	}

	worker.Drain(ctx)

	done, err := svc.GetJob(ctx, "acme", job.JobID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Fatalf("expected completed job, got %+v", done)
	}
	if done.StartedAt == nil || done.CompletedAt == nil {
		t.Fatalf("expected lifecycle timestamps, got %+v", done)
	}

	raw, err := os.ReadFile(done.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m struct {
		JobID     string `json:"jobId"`
		Documents []struct {
			DocumentID string `json:"documentId"`
		} `json:"documents"`
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if m.JobID != job.JobID || len(m.Documents) != 2 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
}

func TestJobFailsWhenDocumentDisappears(t *testing.T) {
	svc, worker, docs := setup(t)
	ctx := context.Background()

	seedDocument(t, docs, "doc-gone")

	job, err := svc.CreateJob(ctx, CreateInput{
		TenantID:    "acme",
		DocumentIDs: []string{"doc-gone"},
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	if err := docs.DeleteDocument(ctx, "acme", "doc-gone"); err != nil {
		t.Fatalf("delete document: %v", err)
	}

	worker.Drain(ctx)

	failed, err := svc.GetJob(ctx, "acme", job.JobID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if failed.Status != StatusFailed || failed.FailureCause == "" {
		t.Fatalf("expected failed job with cause, got %+v", failed)
	}
}

func TestCreateJobValidatesDocuments(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.CreateJob(context.Background(), CreateInput{
		TenantID:    "acme",
		DocumentIDs: []string{"missing"},
	})
	if !errors.Is(err, ports.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}

	_, err = svc.CreateJob(context.Background(), CreateInput{TenantID: "acme"})
	if err == nil {
		t.Fatal("expected error for empty document list")
	}
}

func TestGetJobUnknownID(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.GetJob(context.Background(), "acme", "missing-job")
	if !errors.Is(err, ports.ErrExportJobNotFound) {
		t.Fatalf("expected ErrExportJobNotFound, got %v", err)
	}
}
