package assessment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIndicationRequired = errors.New("indication is required")
	ErrEndpointsRequired  = errors.New("at least one primary endpoint is required")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
)

// Weakness text checked by downstream consumers; keep stable.
const WeaknessSampleSizeJustification = "Sample size determination requires additional justification"

// Enrollment below this fraction of the reference median is flagged.
const smallSampleRatio = 0.7

const (
	MinRating = 1
	MaxRating = 5
)

func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

type DesignInput struct {
	Indication     string
	Phase          string
	Endpoints      []string
	PopulationSize int
}

func (in DesignInput) Validate() error {
	if strings.TrimSpace(in.Indication) == "" {
		return ErrIndicationRequired
	}
	if len(in.Endpoints) == 0 {
		return ErrEndpointsRequired
	}
	return nil
}

type SampleStats struct {
	Count  int
	Median float64
	P25    float64
	P75    float64
}

// ReferenceStats is the benchmark context a design is assessed against,
// tagged with where each figure came from.
type ReferenceStats struct {
	SimilarProtocols int
	SampleSize       SampleStats
	EndpointCounts   map[string]int
	CommonMethods    []string
	Source           DataSource
}

type Findings struct {
	Strengths       []string
	Weaknesses      []string
	Recommendations []string
}

// ComposeFindings derives strengths, weaknesses and recommendations from a
// validated design and its reference benchmarks. For any valid input both
// the strengths and weaknesses lists are non-empty.
func ComposeFindings(input DesignInput, stats ReferenceStats) Findings {
	var f Findings

	f.Strengths = append(f.Strengths, fmt.Sprintf(
		"Defined indication (%s) with %d comparable reference studies available for benchmarking",
		input.Indication, stats.SimilarProtocols,
	))

	if strings.TrimSpace(input.Phase) != "" {
		f.Strengths = append(f.Strengths, fmt.Sprintf(
			"Declared development phase (%s) enables phase-appropriate regulatory benchmarks",
			input.Phase,
		))
	}

	for _, endpoint := range input.Endpoints {
		count := stats.EndpointCounts[strings.ToUpper(strings.TrimSpace(endpoint))]
		if count > 0 {
			f.Strengths = append(f.Strengths, fmt.Sprintf(
				"Primary endpoint %s is established in %d comparable studies", endpoint, count,
			))
		} else {
			f.Weaknesses = append(f.Weaknesses, fmt.Sprintf(
				"Primary endpoint %s is uncommon for this indication; regulatory precedent is limited", endpoint,
			))
			f.Recommendations = append(f.Recommendations, fmt.Sprintf(
				"Provide justification and validation evidence for endpoint %s", endpoint,
			))
		}
	}

	switch {
	case input.PopulationSize <= 0:
		f.Weaknesses = append(f.Weaknesses, WeaknessSampleSizeJustification)
		f.Recommendations = append(f.Recommendations,
			"Include a statistical power calculation supporting the planned enrollment")
	case stats.SampleSize.Median > 0 && float64(input.PopulationSize) < smallSampleRatio*stats.SampleSize.Median:
		f.Weaknesses = append(f.Weaknesses, fmt.Sprintf(
			"Planned enrollment (%d) is below %.0f%% of the median for comparable studies (%.0f)",
			input.PopulationSize, smallSampleRatio*100, stats.SampleSize.Median,
		))
		f.Recommendations = append(f.Recommendations, fmt.Sprintf(
			"Reassess enrollment target against the comparable-study interquartile range (%.0f-%.0f)",
			stats.SampleSize.P25, stats.SampleSize.P75,
		))
	default:
		f.Strengths = append(f.Strengths, fmt.Sprintf(
			"Planned enrollment (%d) is consistent with comparable studies (median %.0f)",
			input.PopulationSize, stats.SampleSize.Median,
		))
	}

	if len(stats.CommonMethods) > 0 {
		f.Recommendations = append(f.Recommendations, fmt.Sprintf(
			"Consider statistical methods frequently used for this indication: %s",
			strings.Join(stats.CommonMethods, ", "),
		))
	}

	if stats.Source.IsFallback() {
		f.Weaknesses = append(f.Weaknesses,
			"Benchmark figures are drawn from curated reference data, not a live corpus query")
	}

	if len(f.Weaknesses) == 0 {
		f.Weaknesses = append(f.Weaknesses,
			"Operational risks (site activation, retention, protocol deviations) are not addressed by design inputs")
	}
	if len(f.Recommendations) == 0 {
		f.Recommendations = append(f.Recommendations,
			"Document the protocol's risk-of-bias mitigation plan before submission")
	}

	return f
}
