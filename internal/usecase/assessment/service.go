package assessment

import (
	"time"

	"trialsage/internal/ports"
)

// Service implements protocol assessment generation, retrieval and feedback.
type Service struct {
	repo      ports.AssessmentRepository
	refs      ports.ReferenceRepository
	uow       ports.UnitOfWork
	generator ports.TextGenerator
}

// NewService wires the assessment usecases. generator may be nil; narrative
// generation then falls back to template text.
func NewService(repo ports.AssessmentRepository, refs ports.ReferenceRepository, uow ports.UnitOfWork, generator ports.TextGenerator) *Service {
	return &Service{
		repo:      repo,
		refs:      refs,
		uow:       uow,
		generator: generator,
	}
}

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339)
}
