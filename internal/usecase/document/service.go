package document

import (
	"errors"
	"time"

	"trialsage/internal/ports"
)

var ErrLockedByAnother = errors.New("document is locked by another user")

// BlobStore abstracts the file backend holding uploaded document content.
type BlobStore interface {
	Save(tenantID string, name string, data []byte) (string, error)
	Load(path string) ([]byte, error)
	Remove(path string) error
}

// Service implements the virtual folder tree, document storage with version
// history, locking and module-document mapping.
type Service struct {
	repo  ports.DocumentRepository
	store BlobStore
	uow   ports.UnitOfWork
}

func NewService(repo ports.DocumentRepository, store BlobStore, uow ports.UnitOfWork) *Service {
	return &Service{
		repo:  repo,
		store: store,
		uow:   uow,
	}
}

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339)
}
