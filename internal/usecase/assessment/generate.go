package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"trialsage/internal/bootstrap/logging"
	domain "trialsage/internal/domain/assessment"
	"trialsage/internal/errs"
	"trialsage/internal/ports"
)

const StatusCompleted = "completed"

type GenerateInput struct {
	TenantID       string
	Indication     string
	Phase          string
	Endpoints      []string
	PopulationSize int
}

// Document is the generated assessment payload, serialized as the stored
// result and returned to callers.
type Document struct {
	Status          string         `json:"status"`
	Strengths       []string       `json:"strengths"`
	Weaknesses      []string       `json:"weaknesses"`
	Recommendations []string       `json:"recommendations"`
	Narrative       string         `json:"narrative"`
	Benchmarks      Benchmarks     `json:"benchmarks"`
	Input           map[string]any `json:"input"`
}

type Benchmarks struct {
	SimilarProtocols int               `json:"similarProtocols"`
	SampleSizeMedian float64           `json:"sampleSizeMedian"`
	SampleSizeP25    float64           `json:"sampleSizeP25"`
	SampleSizeP75    float64           `json:"sampleSizeP75"`
	EndpointCounts   map[string]int    `json:"endpointCounts"`
	CommonMethods    []string          `json:"commonMethods"`
	Source           domain.DataSource `json:"source"`
}

// GenerateResult distinguishes "generated and saved" from "generated but not
// saved": persistence is best-effort and its failure is reported, not hidden.
type GenerateResult struct {
	AssessmentID string
	CreatedAt    string
	Document     Document
	Stored       bool
	StoreError   string
}

func (s *Service) Generate(ctx context.Context, input GenerateInput) (GenerateResult, error) {
	if ctx == nil {
		return GenerateResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return GenerateResult{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return GenerateResult{}, errors.New("assessment repository is required")
	}

	design := domain.DesignInput{
		Indication:     strings.TrimSpace(input.Indication),
		Phase:          strings.TrimSpace(input.Phase),
		Endpoints:      normalizeEndpoints(input.Endpoints),
		PopulationSize: input.PopulationSize,
	}
	if err := design.Validate(); err != nil {
		return GenerateResult{}, err
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.assessment"),
		slog.String("indication", design.Indication),
	)

	stats := s.collectReferenceStats(logCtx, design)
	findings := domain.ComposeFindings(design, stats)
	narrative := s.generateNarrative(logCtx, design, findings)

	doc := Document{
		Status:          StatusCompleted,
		Strengths:       findings.Strengths,
		Weaknesses:      findings.Weaknesses,
		Recommendations: findings.Recommendations,
		Narrative:       narrative,
		Benchmarks: Benchmarks{
			SimilarProtocols: stats.SimilarProtocols,
			SampleSizeMedian: stats.SampleSize.Median,
			SampleSizeP25:    stats.SampleSize.P25,
			SampleSizeP75:    stats.SampleSize.P75,
			EndpointCounts:   stats.EndpointCounts,
			CommonMethods:    stats.CommonMethods,
			Source:           stats.Source,
		},
		Input: map[string]any{
			"indication":       design.Indication,
			"phase":            design.Phase,
			"primaryEndpoints": design.Endpoints,
			"populationSize":   design.PopulationSize,
		},
	}

	result := GenerateResult{
		AssessmentID: uuid.NewString(),
		CreatedAt:    nowUTCString(),
		Document:     doc,
		Stored:       true,
	}

	resultJSON, err := json.Marshal(doc)
	if err != nil {
		return GenerateResult{}, errs.Wrap(err, "marshal assessment document")
	}

	storeErr := s.repo.CreateAssessment(ctx, assessmentRow(input.TenantID, result, design, string(resultJSON)))
	if storeErr != nil {
		// Best-effort persistence: the caller still receives the generated
		// assessment, with the storage failure surfaced explicitly.
		logging.Error(logCtx, "assessment persistence failed", slog.Any("err", errs.Loggable(storeErr)))
		result.Stored = false
		result.StoreError = storeErr.Error()
	}

	return result, nil
}

func (s *Service) collectReferenceStats(ctx context.Context, design domain.DesignInput) domain.ReferenceStats {
	if s.refs == nil {
		return fallbackStats(design.Indication, "reference corpus not configured")
	}

	similar, err := s.refs.CountSimilarProtocols(ctx, design.Indication, design.Phase)
	if err != nil {
		logging.Warn(ctx, "similar-protocol query failed, using curated data", slog.Any("err", errs.Loggable(err)))
		return fallbackStats(design.Indication, "similar-protocol query failed")
	}
	if similar == 0 {
		return fallbackStats(design.Indication, "no comparable studies in corpus")
	}

	sizes, err := s.refs.SampleSizeStats(ctx, design.Indication, design.Phase)
	if err != nil {
		logging.Warn(ctx, "sample-size query failed, using curated data", slog.Any("err", errs.Loggable(err)))
		return fallbackStats(design.Indication, "sample-size query failed")
	}

	endpointCounts := make(map[string]int, len(design.Endpoints))
	for _, endpoint := range design.Endpoints {
		count, err := s.refs.EndpointFrequency(ctx, design.Indication, endpoint)
		if err != nil {
			logging.Warn(ctx, "endpoint-frequency query failed", slog.Any("err", errs.Loggable(err)))
			continue
		}
		endpointCounts[strings.ToUpper(endpoint)] = count
	}

	methods, err := s.refs.TopStatisticalMethods(ctx, design.Indication, 3)
	if err != nil {
		logging.Warn(ctx, "statistical-method query failed", slog.Any("err", errs.Loggable(err)))
		methods = nil
	}

	return domain.ReferenceStats{
		SimilarProtocols: similar,
		SampleSize: domain.SampleStats{
			Count:  sizes.Count,
			Median: sizes.Median,
			P25:    sizes.P25,
			P75:    sizes.P75,
		},
		EndpointCounts: endpointCounts,
		CommonMethods:  methods,
		Source:         domain.Live(),
	}
}

func (s *Service) generateNarrative(ctx context.Context, design domain.DesignInput, findings domain.Findings) string {
	template := fmt.Sprintf(
		"Assessment of a %s protocol for %s: %d strengths and %d weaknesses identified against comparable-study benchmarks.",
		valueOr(design.Phase, "clinical"), design.Indication, len(findings.Strengths), len(findings.Weaknesses),
	)

	if s.generator == nil {
		return template
	}

	prompt := fmt.Sprintf(
		"Summarize this protocol assessment in two paragraphs for a regulatory affairs audience.\nIndication: %s\nPhase: %s\nStrengths: %s\nWeaknesses: %s",
		design.Indication, design.Phase,
		strings.Join(findings.Strengths, "; "),
		strings.Join(findings.Weaknesses, "; "),
	)

	narrative, err := s.generator.GenerateText(ctx, generateTextInput(prompt))
	if err != nil {
		// LLM failure never fails the request.
		logging.Warn(ctx, "narrative generation failed, using template", slog.Any("err", errs.Loggable(err)))
		return template
	}
	if strings.TrimSpace(narrative) == "" {
		return template
	}
	return narrative
}

func assessmentRow(tenantID string, result GenerateResult, design domain.DesignInput, resultJSON string) ports.ProtocolAssessment {
	return ports.ProtocolAssessment{
		AssessmentID:   result.AssessmentID,
		TenantID:       tenantID,
		Indication:     design.Indication,
		Phase:          design.Phase,
		Endpoints:      design.Endpoints,
		PopulationSize: design.PopulationSize,
		ResultJSON:     resultJSON,
		CreatedAt:      result.CreatedAt,
	}
}

func generateTextInput(prompt string) ports.GenerateTextInput {
	return ports.GenerateTextInput{
		System: "You are a clinical-regulatory writing assistant. Be factual and concise.",
		Prompt: prompt,
	}
}

func normalizeEndpoints(endpoints []string) []string {
	out := make([]string, 0, len(endpoints))
	for _, endpoint := range endpoints {
		trimmed := strings.TrimSpace(endpoint)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func valueOr(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
