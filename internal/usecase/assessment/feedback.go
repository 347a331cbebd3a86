package assessment

import (
	"context"
	"errors"
	"strings"

	domain "trialsage/internal/domain/assessment"
	"trialsage/internal/errs"
	"trialsage/internal/ports"
)

type FeedbackInput struct {
	TenantID     string
	AssessmentID string
	Comment      string
	Rating       int
	Tags         []string
}

// SubmitFeedback records one immutable feedback row against an existing
// assessment. Ratings outside [1,5] are rejected.
func (s *Service) SubmitFeedback(ctx context.Context, input FeedbackInput) (ports.AssessmentFeedback, error) {
	if ctx == nil {
		return ports.AssessmentFeedback{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.AssessmentFeedback{}, errs.Wrap(err, "check context")
	}

	if !domain.ValidRating(input.Rating) {
		return ports.AssessmentFeedback{}, domain.ErrInvalidRating
	}

	if _, err := s.repo.GetAssessment(ctx, input.TenantID, input.AssessmentID); err != nil {
		return ports.AssessmentFeedback{}, err
	}

	tags := make([]string, 0, len(input.Tags))
	for _, tag := range input.Tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}

	return s.repo.CreateFeedback(ctx, ports.AssessmentFeedback{
		AssessmentID: input.AssessmentID,
		TenantID:     input.TenantID,
		Comment:      strings.TrimSpace(input.Comment),
		Rating:       input.Rating,
		Tags:         tags,
		CreatedAt:    nowUTCString(),
	})
}

func (s *Service) ListFeedback(ctx context.Context, tenantID string, assessmentID string) ([]ports.AssessmentFeedback, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	return s.repo.ListFeedback(ctx, tenantID, assessmentID)
}
