package validation

import (
	"context"
	"time"

	"trialsage/internal/infrastructure/maudclient"
	"trialsage/internal/ports"
)

// Validator abstracts the remote MAUD validation API.
type Validator interface {
	Validate(ctx context.Context, tenantID string, req maudclient.ValidationRequest) (maudclient.ValidationResponse, error)
}

// Service proxies algorithm validation through the MAUD API with a cache of
// prior outcomes, and keeps the 510(k) device profile catalog. Cached
// outcomes older than maxRecordAge are not served during degradation;
// maxRecordAge <= 0 disables the bound.
type Service struct {
	repo         ports.ValidationRepository
	validator    Validator
	maxRecordAge time.Duration
}

func NewService(repo ports.ValidationRepository, validator Validator, maxRecordAge time.Duration) *Service {
	return &Service{
		repo:         repo,
		validator:    validator,
		maxRecordAge: maxRecordAge,
	}
}

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339)
}
