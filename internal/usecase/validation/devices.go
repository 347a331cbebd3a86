package validation

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"trialsage/internal/domain/device"
	"trialsage/internal/errs"
	"trialsage/internal/ports"
)

type DeviceInput struct {
	TenantID      string
	Name          string
	DeviceClass   string
	IntendedUse   string
	FeatureVector []float64
}

func (s *Service) CreateDevice(ctx context.Context, input DeviceInput) (ports.DeviceProfile, error) {
	if ctx == nil {
		return ports.DeviceProfile{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.DeviceProfile{}, errs.Wrap(err, "check context")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ports.DeviceProfile{}, errors.New("device name is required")
	}

	now := nowUTCString()
	profile := ports.DeviceProfile{
		DeviceID:      uuid.NewString(),
		TenantID:      input.TenantID,
		Name:          name,
		DeviceClass:   strings.TrimSpace(input.DeviceClass),
		IntendedUse:   strings.TrimSpace(input.IntendedUse),
		FeatureVector: input.FeatureVector,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateDevice(ctx, profile); err != nil {
		return ports.DeviceProfile{}, err
	}
	return profile, nil
}

func (s *Service) GetDevice(ctx context.Context, tenantID string, deviceID string) (ports.DeviceProfile, error) {
	if ctx == nil {
		return ports.DeviceProfile{}, errors.New("context is required")
	}
	return s.repo.GetDevice(ctx, tenantID, deviceID)
}

func (s *Service) ListDevices(ctx context.Context, tenantID string) ([]ports.DeviceProfile, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	return s.repo.ListDevices(ctx, tenantID)
}

func (s *Service) UpdateDevice(ctx context.Context, tenantID string, deviceID string, input DeviceInput) (ports.DeviceProfile, error) {
	if ctx == nil {
		return ports.DeviceProfile{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.DeviceProfile{}, errs.Wrap(err, "check context")
	}

	current, err := s.repo.GetDevice(ctx, tenantID, deviceID)
	if err != nil {
		return ports.DeviceProfile{}, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		current.Name = name
	}
	if class := strings.TrimSpace(input.DeviceClass); class != "" {
		current.DeviceClass = class
	}
	if use := strings.TrimSpace(input.IntendedUse); use != "" {
		current.IntendedUse = use
	}
	if input.FeatureVector != nil {
		current.FeatureVector = input.FeatureVector
	}
	current.UpdatedAt = nowUTCString()

	if err := s.repo.UpdateDevice(ctx, current); err != nil {
		return ports.DeviceProfile{}, err
	}
	return current, nil
}

func (s *Service) DeleteDevice(ctx context.Context, tenantID string, deviceID string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	return s.repo.DeleteDevice(ctx, tenantID, deviceID)
}

// PredicateMatch is one candidate predicate device ranked by feature vector
// similarity to the subject device.
type PredicateMatch struct {
	DeviceID    string  `json:"deviceId"`
	Name        string  `json:"name"`
	DeviceClass string  `json:"deviceClass"`
	Similarity  float64 `json:"similarity"`
}

// ComparePredicates ranks every other device of the tenant against the
// subject by cosine similarity. Devices whose vectors cannot be compared are
// skipped.
func (s *Service) ComparePredicates(ctx context.Context, tenantID string, deviceID string) ([]PredicateMatch, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	subject, err := s.repo.GetDevice(ctx, tenantID, deviceID)
	if err != nil {
		return nil, err
	}
	if len(subject.FeatureVector) == 0 {
		return nil, device.ErrZeroVector
	}

	candidates, err := s.repo.ListDevices(ctx, tenantID)
	if err != nil {
		return nil, errs.Wrap(err, "list devices")
	}

	matches := make([]PredicateMatch, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.DeviceID == subject.DeviceID {
			continue
		}
		similarity, err := device.CosineSimilarity(subject.FeatureVector, candidate.FeatureVector)
		if err != nil {
			continue
		}
		matches = append(matches, PredicateMatch{
			DeviceID:    candidate.DeviceID,
			Name:        candidate.Name,
			DeviceClass: candidate.DeviceClass,
			Similarity:  similarity,
		})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Similarity > matches[j].Similarity })
	return matches, nil
}
