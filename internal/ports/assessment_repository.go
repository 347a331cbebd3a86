package ports

import (
	"context"
	"errors"
)

var ErrAssessmentNotFound = errors.New("protocol assessment not found")

type ProtocolAssessment struct {
	AssessmentID   string
	TenantID       string
	Indication     string
	Phase          string
	Endpoints      []string
	PopulationSize int
	ResultJSON     string
	CreatedAt      string
}

type AssessmentFeedback struct {
	FeedbackID   uint64
	AssessmentID string
	TenantID     string
	Comment      string
	Rating       int
	Tags         []string
	CreatedAt    string
}

// SampleSizeStats summarizes enrolled population sizes across prior reports
// matching an indication and phase.
type SampleSizeStats struct {
	Count  int
	Median float64
	P25    float64
	P75    float64
}

type AssessmentRepository interface {
	CreateAssessment(ctx context.Context, assessment ProtocolAssessment) error
	GetAssessment(ctx context.Context, tenantID string, assessmentID string) (ProtocolAssessment, error)
	CreateFeedback(ctx context.Context, feedback AssessmentFeedback) (AssessmentFeedback, error)
	ListFeedback(ctx context.Context, tenantID string, assessmentID string) ([]AssessmentFeedback, error)
}

// ReferenceRepository reads the shared clinical-study reference corpus
// (csr_reports) used to benchmark incoming protocol designs. The corpus is
// not tenant-scoped.
type ReferenceRepository interface {
	CountSimilarProtocols(ctx context.Context, indication string, phase string) (int, error)
	EndpointFrequency(ctx context.Context, indication string, endpoint string) (int, error)
	SampleSizeStats(ctx context.Context, indication string, phase string) (SampleSizeStats, error)
	TopStatisticalMethods(ctx context.Context, indication string, limit int) ([]string, error)
}
