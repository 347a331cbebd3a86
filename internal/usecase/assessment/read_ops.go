package assessment

import (
	"context"
	"encoding/json"
	"errors"

	"trialsage/internal/errs"
)

type Detail struct {
	AssessmentID   string
	Indication     string
	Phase          string
	Endpoints      []string
	PopulationSize int
	CreatedAt      string
	Document       Document
}

func (s *Service) GetAssessment(ctx context.Context, tenantID string, assessmentID string) (Detail, error) {
	if ctx == nil {
		return Detail{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Detail{}, errs.Wrap(err, "check context")
	}

	row, err := s.repo.GetAssessment(ctx, tenantID, assessmentID)
	if err != nil {
		return Detail{}, err
	}

	var doc Document
	if err := json.Unmarshal([]byte(row.ResultJSON), &doc); err != nil {
		return Detail{}, errs.Wrap(err, "decode stored assessment")
	}

	return Detail{
		AssessmentID:   row.AssessmentID,
		Indication:     row.Indication,
		Phase:          row.Phase,
		Endpoints:      row.Endpoints,
		PopulationSize: row.PopulationSize,
		CreatedAt:      row.CreatedAt,
		Document:       doc,
	}, nil
}
