package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"trialsage/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "trialsage/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "trialsage/internal/infrastructure/persistence/sqlite/uow"
	"trialsage/internal/infrastructure/storage"
	"trialsage/internal/ports"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Folder{},
		&model.Document{},
		&model.DocumentVersion{},
		&model.ModuleDocument{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	return NewService(
		sqliterepo.NewDocumentRepository(db),
		storage.NewDiskStore(t.TempDir()),
		sqliteuow.NewUnitOfWork(db),
	)
}

func uploadDocument(t *testing.T, svc *Service, folderID *uint64, name string, content string) ports.Document {
	t.Helper()

	doc, err := svc.Upload(context.Background(), UploadInput{
		TenantID:    "acme",
		FolderID:    folderID,
		Name:        name,
		ContentType: "text/plain",
		Data:        []byte(content),
		UploadedBy:  "alice",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return doc
}

func TestUploadAndDownloadRoundTrip(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, FolderInput{TenantID: "acme", Name: "Clinical"})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}

	doc := uploadDocument(t, svc, &folder.FolderID, "protocol.txt", "study protocol v1")

	got, data, err := svc.Download(ctx, "acme", doc.DocumentID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if !bytes.Equal(data, []byte("study protocol v1")) {
		t.Fatalf("unexpected content %q", data)
	}
	if got.Name != "protocol.txt" || got.SizeBytes != int64(len("study protocol v1")) {
		t.Fatalf("unexpected document row: %+v", got)
	}

	versions, err := svc.ListVersions(ctx, "acme", doc.DocumentID)
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}
	if len(versions) != 1 || versions[0].VersionNumber != 1 {
		t.Fatalf("expected single initial version, got %+v", versions)
	}
}

func TestUploadVersionAppendsHistory(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	doc := uploadDocument(t, svc, nil, "report.txt", "draft")

	version, err := svc.UploadVersion(ctx, "acme", doc.DocumentID, []byte("final report"), "alice")
	if err != nil {
		t.Fatalf("upload version: %v", err)
	}
	if version.VersionNumber != 2 {
		t.Fatalf("expected version 2, got %d", version.VersionNumber)
	}

	got, data, err := svc.Download(ctx, "acme", doc.DocumentID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if string(data) != "final report" {
		t.Fatalf("download must serve latest content, got %q", data)
	}
	if got.SizeBytes != int64(len("final report")) {
		t.Fatalf("document size not updated: %+v", got)
	}

	versions, err := svc.ListVersions(ctx, "acme", doc.DocumentID)
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("expected two versions, got %+v", versions)
	}
}

func TestDeleteFolderBlockedWhenNotEmpty(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, FolderInput{TenantID: "acme", Name: "Submissions"})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	doc := uploadDocument(t, svc, &folder.FolderID, "ind.txt", "content")

	if err := svc.DeleteFolder(ctx, "acme", folder.FolderID); !errors.Is(err, ports.ErrFolderNotEmpty) {
		t.Fatalf("expected ErrFolderNotEmpty, got %v", err)
	}

	if err := svc.Delete(ctx, "acme", doc.DocumentID, "alice"); err != nil {
		t.Fatalf("delete document: %v", err)
	}
	if err := svc.DeleteFolder(ctx, "acme", folder.FolderID); err != nil {
		t.Fatalf("delete emptied folder: %v", err)
	}
}

func TestListChildrenWalksOneLevel(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	parent, err := svc.CreateFolder(ctx, FolderInput{TenantID: "acme", Name: "Root"})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if _, err := svc.CreateFolder(ctx, FolderInput{TenantID: "acme", ParentID: &parent.FolderID, Name: "Sub"}); err != nil {
		t.Fatalf("create subfolder: %v", err)
	}
	uploadDocument(t, svc, &parent.FolderID, "a.txt", "a")

	children, err := svc.ListChildren(ctx, "acme", &parent.FolderID)
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children.Folders) != 1 || len(children.Documents) != 1 {
		t.Fatalf("unexpected children: %+v", children)
	}
}

func TestLockGuardsWrites(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	doc := uploadDocument(t, svc, nil, "cer.txt", "v1")

	if err := svc.Lock(ctx, "acme", doc.DocumentID, "alice"); err != nil {
		t.Fatalf("lock: %v", err)
	}

	if _, err := svc.UploadVersion(ctx, "acme", doc.DocumentID, []byte("v2"), "bob"); !errors.Is(err, ErrLockedByAnother) {
		t.Fatalf("expected ErrLockedByAnother on upload, got %v", err)
	}
	if err := svc.Delete(ctx, "acme", doc.DocumentID, "bob"); !errors.Is(err, ErrLockedByAnother) {
		t.Fatalf("expected ErrLockedByAnother on delete, got %v", err)
	}
	if err := svc.Unlock(ctx, "acme", doc.DocumentID, "bob"); !errors.Is(err, ErrLockedByAnother) {
		t.Fatalf("expected ErrLockedByAnother on unlock, got %v", err)
	}

	if _, err := svc.UploadVersion(ctx, "acme", doc.DocumentID, []byte("v2"), "alice"); err != nil {
		t.Fatalf("holder upload: %v", err)
	}

	if err := svc.Unlock(ctx, "acme", doc.DocumentID, "alice"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if _, err := svc.UploadVersion(ctx, "acme", doc.DocumentID, []byte("v3"), "bob"); err != nil {
		t.Fatalf("upload after unlock: %v", err)
	}
}

func TestMoveBetweenFoldersAndRoot(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, FolderInput{TenantID: "acme", Name: "Inbox"})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	doc := uploadDocument(t, svc, nil, "memo.txt", "memo")

	if err := svc.Move(ctx, "acme", doc.DocumentID, &folder.FolderID, "alice"); err != nil {
		t.Fatalf("move into folder: %v", err)
	}
	moved, err := svc.GetDocument(ctx, "acme", doc.DocumentID)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if moved.FolderID == nil || *moved.FolderID != folder.FolderID {
		t.Fatalf("document not reparented: %+v", moved)
	}

	if err := svc.Move(ctx, "acme", doc.DocumentID, nil, "alice"); err != nil {
		t.Fatalf("move to root: %v", err)
	}

	missing := uint64(9999)
	if err := svc.Move(ctx, "acme", doc.DocumentID, &missing, "alice"); !errors.Is(err, ports.ErrFolderNotFound) {
		t.Fatalf("expected ErrFolderNotFound, got %v", err)
	}
}

func TestModuleMappingRequiresDocument(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	doc := uploadDocument(t, svc, nil, "cer-section.txt", "section")

	mapping, err := svc.RegisterModuleDocument(ctx, ModuleMappingInput{
		TenantID:         "acme",
		Module:           "cer",
		ModuleDocumentID: "cer-123",
		DocumentID:       doc.DocumentID,
	})
	if err != nil {
		t.Fatalf("register mapping: %v", err)
	}

	got, err := svc.GetModuleDocument(ctx, "acme", "cer", "cer-123")
	if err != nil {
		t.Fatalf("get mapping: %v", err)
	}
	if got.MappingID != mapping.MappingID || got.DocumentID != doc.DocumentID {
		t.Fatalf("unexpected mapping: %+v", got)
	}

	_, err = svc.RegisterModuleDocument(ctx, ModuleMappingInput{
		TenantID:         "acme",
		Module:           "cer",
		ModuleDocumentID: "cer-999",
		DocumentID:       "missing",
	})
	if !errors.Is(err, ports.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
