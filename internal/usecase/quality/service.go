package quality

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trialsage/internal/bootstrap/logging"
	"trialsage/internal/errs"
	"trialsage/internal/ports"
)

// Service implements quality management plan administration, CTQ factor and
// gating rule maintenance, and section readiness evaluation.
type Service struct {
	repo     ports.QualityRepository
	cache    ports.Cache
	cacheTTL time.Duration
}

// NewService wires the quality usecases. cache may be nil; evaluations are
// then computed on every call.
func NewService(repo ports.QualityRepository, cache ports.Cache, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func tenantCachePrefix(tenantID string) string {
	return fmt.Sprintf("quality/%s/", tenantID)
}

func evaluationCacheKey(tenantID string, qmpID uint64, sectionKey string, textDigest string) string {
	return fmt.Sprintf("quality/%s/%d/%s/%s", tenantID, qmpID, sectionKey, textDigest)
}

// invalidateEvaluations drops every cached evaluation of the tenant. Plan,
// factor and rule writes all change scoring inputs, so the whole tenant
// prefix goes.
func (s *Service) invalidateEvaluations(ctx context.Context, tenantID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, tenantCachePrefix(tenantID)); err != nil {
		logging.Warn(ctx, "evaluation cache invalidation failed",
			slog.String("tenant_id", tenantID),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}
