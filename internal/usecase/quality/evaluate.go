package quality

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"trialsage/internal/bootstrap/logging"
	domain "trialsage/internal/domain/quality"
	"trialsage/internal/errs"
)

type EvaluateInput struct {
	TenantID   string
	QMPID      uint64
	SectionKey string
	Text       string
}

// Evaluation is the readiness verdict for one document section under one
// plan's gating rule.
type Evaluation struct {
	QMPID        uint64               `json:"qmpId"`
	SectionKey   string               `json:"sectionKey"`
	Score        int                  `json:"score"`
	GatingLevel  string               `json:"gatingLevel"`
	Passes       bool                 `json:"passes"`
	MissingTerms []domain.MissingTerm `json:"missingTerms"`
	TermsChecked int                  `json:"termsChecked"`
	Cached       bool                 `json:"cached"`
}

// EvaluateSection scores a section text against the plan's active gating
// rule and its CTQ factors. Results are cached per tenant, plan, section and
// text digest; any plan, factor or rule write drops the tenant's cached
// evaluations.
func (s *Service) EvaluateSection(ctx context.Context, input EvaluateInput) (Evaluation, error) {
	if ctx == nil {
		return Evaluation{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Evaluation{}, errs.Wrap(err, "check context")
	}

	sectionKey := strings.TrimSpace(input.SectionKey)
	if sectionKey == "" {
		return Evaluation{}, domain.ErrSectionRequired
	}

	cacheKey := evaluationCacheKey(input.TenantID, input.QMPID, sectionKey, textDigest(input.Text))
	if cached, ok := s.cachedEvaluation(ctx, cacheKey); ok {
		return cached, nil
	}

	rule, err := s.repo.GetGatingRuleForSection(ctx, input.TenantID, input.QMPID, sectionKey)
	if err != nil {
		return Evaluation{}, err
	}

	factors, err := s.repo.ListCtqFactors(ctx, input.TenantID, rule.CtqFactorIDs)
	if err != nil {
		return Evaluation{}, errs.Wrap(err, "load ctq factors")
	}

	scoring := make([]domain.Factor, 0, len(factors))
	for _, factor := range factors {
		if !factor.Active {
			continue
		}
		scoring = append(scoring, domain.Factor{
			FactorID:      factor.FactorID,
			Name:          factor.Name,
			RiskLevel:     factor.RiskLevel,
			RequiredTerms: domain.ParseRequiredTerms(factor.ValidationRule),
		})
	}

	result := domain.ScoreSection(input.Text, scoring)
	evaluation := Evaluation{
		QMPID:        input.QMPID,
		SectionKey:   sectionKey,
		Score:        result.Score,
		GatingLevel:  domain.GatingLevel(rule.MinimumMandatoryCompletion),
		Passes:       domain.SectionPasses(result.Score, rule.MinimumMandatoryCompletion),
		MissingTerms: result.MissingTerms,
		TermsChecked: result.TermsChecked,
	}

	s.storeEvaluation(ctx, cacheKey, evaluation)
	return evaluation, nil
}

func textDigest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}

func (s *Service) cachedEvaluation(ctx context.Context, key string) (Evaluation, bool) {
	if s.cache == nil {
		return Evaluation{}, false
	}

	raw, found, err := s.cache.Get(ctx, key)
	if err != nil || !found {
		return Evaluation{}, false
	}

	var evaluation Evaluation
	if err := json.Unmarshal([]byte(raw), &evaluation); err != nil {
		logging.Warn(ctx, "discarding undecodable cached evaluation", slog.String("key", key))
		return Evaluation{}, false
	}
	evaluation.Cached = true
	return evaluation, true
}

func (s *Service) storeEvaluation(ctx context.Context, key string, evaluation Evaluation) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(evaluation)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		logging.Warn(ctx, "evaluation cache store failed", slog.Any("err", errs.Loggable(err)))
	}
}
