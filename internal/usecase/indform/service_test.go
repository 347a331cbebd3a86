package indform

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"trialsage/internal/infrastructure/storage"
)

func TestGenerateWritesPDFAndExportCopy(t *testing.T) {
	svc := NewService(storage.NewDiskStore(t.TempDir()))

	form, err := svc.Generate(context.Background(), GenerateInput{
		TenantID:   "acme",
		FormNumber: "1571",
		Data: map[string]string{
			"sponsor_name": "Acme Biotech",
			"drug_name":    "ACM-101",
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !bytes.HasPrefix(form.PDF, []byte("%PDF")) {
		t.Fatalf("expected pdf output, got prefix %q", form.PDF[:8])
	}
	if form.StoredPath == "" {
		t.Fatal("expected stored export copy")
	}

	stored, err := os.ReadFile(form.StoredPath)
	if err != nil {
		t.Fatalf("read export copy: %v", err)
	}
	if !bytes.Equal(stored, form.PDF) {
		t.Fatal("export copy must match returned pdf")
	}
}

func TestGenerateRejectsUnknownForm(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Generate(context.Background(), GenerateInput{TenantID: "acme", FormNumber: "9999"})
	if !errors.Is(err, ErrUnsupportedForm) {
		t.Fatalf("expected ErrUnsupportedForm, got %v", err)
	}
}

func TestGenerateWithoutStoreStillReturnsPDF(t *testing.T) {
	svc := NewService(nil)

	form, err := svc.Generate(context.Background(), GenerateInput{TenantID: "acme", FormNumber: "1572", Data: nil})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(form.PDF) == 0 || form.StoredPath != "" {
		t.Fatalf("unexpected form result: path=%q len=%d", form.StoredPath, len(form.PDF))
	}
}
