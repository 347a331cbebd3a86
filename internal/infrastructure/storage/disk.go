package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"trialsage/internal/errs"
)

// DiskStore writes uploaded files and generated exports under a fixed root
// directory, one subdirectory per tenant.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

// Save writes data under <root>/<tenant>/<name> and returns the stored path.
// Both segments are validated so writes cannot leave the root.
func (s *DiskStore) Save(tenantID string, name string, data []byte) (string, error) {
	if s.root == "" {
		return "", errors.New("storage root is not configured")
	}

	tenant := strings.TrimSpace(tenantID)
	if tenant == "" {
		return "", errors.New("tenant id is required")
	}
	if tenant != filepath.Base(tenant) || tenant == "." || tenant == ".." || strings.ContainsAny(tenant, `/\`) {
		return "", fmt.Errorf("invalid tenant id %q", tenantID)
	}

	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	dir := filepath.Join(s.root, tenant)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrapf(err, "create storage directory %q", dir)
	}

	path := filepath.Join(dir, base)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errs.Wrapf(err, "write file %q", path)
	}
	return path, nil
}

func (s *DiskStore) Load(path string) ([]byte, error) {
	cleaned := filepath.Clean(path)
	if !strings.HasPrefix(cleaned, filepath.Clean(s.root)+string(filepath.Separator)) {
		return nil, fmt.Errorf("path %q escapes storage root", path)
	}

	data, err := os.ReadFile(cleaned)
	if err != nil {
		return nil, errs.Wrapf(err, "read file %q", cleaned)
	}
	return data, nil
}

func (s *DiskStore) Remove(path string) error {
	cleaned := filepath.Clean(path)
	if !strings.HasPrefix(cleaned, filepath.Clean(s.root)+string(filepath.Separator)) {
		return fmt.Errorf("path %q escapes storage root", path)
	}

	if err := os.Remove(cleaned); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errs.Wrapf(err, "remove file %q", cleaned)
	}
	return nil
}
