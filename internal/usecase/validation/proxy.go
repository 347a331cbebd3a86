package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trialsage/internal/bootstrap/logging"
	"trialsage/internal/errs"
	"trialsage/internal/infrastructure/maudclient"
	"trialsage/internal/ports"
)

const (
	SourceLive   = "live"
	SourceCached = "cached"
)

type ValidateInput struct {
	TenantID    string
	Service     string
	AlgorithmID string
	Payload     map[string]any
}

// Result reports the validation outcome and where it came from. Cached
// results carry the reason the upstream call was not used.
type Result struct {
	Service     string          `json:"service"`
	AlgorithmID string          `json:"algorithmId"`
	Outcome     string          `json:"outcome"`
	Details     json.RawMessage `json:"details,omitempty"`
	Source      string          `json:"source"`
	Reason      string          `json:"reason,omitempty"`
	ValidatedAt string          `json:"validatedAt"`
}

// Validate proxies the request to the MAUD API. A successful call is
// persisted for later degradation; on upstream failure the last persisted
// outcome is served with source "cached". With no prior record the upstream
// error propagates.
func (s *Service) Validate(ctx context.Context, input ValidateInput) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, errs.Wrap(err, "check context")
	}

	service := strings.TrimSpace(input.Service)
	algorithmID := strings.TrimSpace(input.AlgorithmID)
	if service == "" || algorithmID == "" {
		return Result{}, errors.New("service and algorithm id are required")
	}

	requested := nowUTCString()
	request := maudclient.ValidationRequest{
		Service:   service,
		TargetID:  algorithmID,
		Payload:   input.Payload,
		Requested: requested,
	}

	response, err := s.validator.Validate(ctx, input.TenantID, request)
	if err != nil {
		if !errors.Is(err, maudclient.ErrUpstream) {
			return Result{}, err
		}
		return s.degradeToCached(ctx, input.TenantID, service, algorithmID, err)
	}

	result := Result{
		Service:     service,
		AlgorithmID: algorithmID,
		Outcome:     response.Outcome,
		Details:     response.Details,
		Source:      SourceLive,
		ValidatedAt: requested,
	}

	s.persistRecord(ctx, input.TenantID, request, response, requested)
	return result, nil
}

// LatestResult returns the most recent persisted outcome without calling the
// upstream.
func (s *Service) LatestResult(ctx context.Context, tenantID string, service string, algorithmID string) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, errs.Wrap(err, "check context")
	}

	record, err := s.repo.LatestRecord(ctx, tenantID, strings.TrimSpace(service), strings.TrimSpace(algorithmID))
	if err != nil {
		return Result{}, err
	}
	return resultFromRecord(record, "requested from record store"), nil
}

func (s *Service) degradeToCached(ctx context.Context, tenantID string, service string, algorithmID string, upstreamErr error) (Result, error) {
	record, err := s.repo.LatestRecord(ctx, tenantID, service, algorithmID)
	if err != nil {
		if errors.Is(err, ports.ErrValidationRecordNotFound) {
			return Result{}, upstreamErr
		}
		return Result{}, errs.Wrap(err, "load cached validation record")
	}

	if s.recordExpired(record) {
		logging.Warn(ctx, "cached validation outcome too stale to serve",
			slog.String("service", service),
			slog.String("target_id", algorithmID),
			slog.String("validated_at", record.ValidatedAt),
		)
		return Result{}, upstreamErr
	}

	logging.Warn(ctx, "serving cached validation outcome",
		slog.String("service", service),
		slog.String("target_id", algorithmID),
		slog.Any("err", errs.Loggable(upstreamErr)),
	)
	return resultFromRecord(record, fmt.Sprintf("upstream unavailable: %v", upstreamErr)), nil
}

func (s *Service) recordExpired(record ports.ValidationRecord) bool {
	if s.maxRecordAge <= 0 {
		return false
	}
	validatedAt, err := time.Parse(time.RFC3339, record.ValidatedAt)
	if err != nil {
		return true
	}
	return time.Since(validatedAt) > s.maxRecordAge
}

func (s *Service) persistRecord(ctx context.Context, tenantID string, request maudclient.ValidationRequest, response maudclient.ValidationResponse, requested string) {
	requestJSON, err := json.Marshal(request)
	if err != nil {
		return
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return
	}

	_, err = s.repo.CreateRecord(ctx, ports.ValidationRecord{
		TenantID:     tenantID,
		Service:      request.Service,
		TargetID:     request.TargetID,
		RequestJSON:  string(requestJSON),
		ResponseJSON: string(responseJSON),
		Outcome:      response.Outcome,
		ValidatedAt:  requested,
	})
	if err != nil {
		logging.Warn(ctx, "validation record persistence failed", slog.Any("err", errs.Loggable(err)))
	}
}

func resultFromRecord(record ports.ValidationRecord, reason string) Result {
	result := Result{
		Service:     record.Service,
		AlgorithmID: record.TargetID,
		Outcome:     record.Outcome,
		Source:      SourceCached,
		Reason:      reason,
		ValidatedAt: record.ValidatedAt,
	}

	var response maudclient.ValidationResponse
	if err := json.Unmarshal([]byte(record.ResponseJSON), &response); err == nil {
		result.Details = response.Details
	}
	return result
}
