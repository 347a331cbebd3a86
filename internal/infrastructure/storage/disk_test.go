package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := NewDiskStore(t.TempDir())

	path, err := store.Save("acme", "report.pdf", []byte("content"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := store.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != "content" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestSaveRejectsTraversalTenant(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	store := NewDiskStore(root)

	for _, tenant := range []string{"../escaped", "..", ".", "a/b", `a\b`, "   "} {
		if _, err := store.Save(tenant, "evil.txt", []byte("owned")); err == nil {
			t.Fatalf("expected error for tenant %q", tenant)
		}
	}

	outside := filepath.Join(filepath.Dir(root), "escaped", "evil.txt")
	if _, err := os.Stat(outside); !os.IsNotExist(err) {
		t.Fatalf("file written outside the storage root: %s", outside)
	}
}

func TestSaveStripsNameToBase(t *testing.T) {
	root := t.TempDir()
	store := NewDiskStore(root)

	path, err := store.Save("acme", "../../passwd", []byte("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if path != filepath.Join(root, "acme", "passwd") {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestLoadAndRemoveRejectEscapingPaths(t *testing.T) {
	store := NewDiskStore(filepath.Join(t.TempDir(), "uploads"))

	if _, err := store.Load("/etc/hostname"); err == nil {
		t.Fatal("expected load of outside path to fail")
	}
	if err := store.Remove("../elsewhere/file"); err == nil {
		t.Fatal("expected remove of outside path to fail")
	}
}
