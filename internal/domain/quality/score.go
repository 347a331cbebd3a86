package quality

import "strings"

const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// Point penalty per missing required term, weighted by factor risk level.
const (
	penaltyHigh   = 15
	penaltyMedium = 8
	penaltyLow    = 3
)

const maxScore = 100

var qmpStatuses = map[string]struct{}{
	"draft":    {},
	"active":   {},
	"archived": {},
}

func ValidQMPStatus(status string) bool {
	_, ok := qmpStatuses[strings.ToLower(strings.TrimSpace(status))]
	return ok
}

func NormalizeRiskLevel(level string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case RiskHigh:
		return RiskHigh, nil
	case RiskMedium:
		return RiskMedium, nil
	case RiskLow:
		return RiskLow, nil
	default:
		return "", ErrInvalidRiskLevel
	}
}

func PenaltyForRisk(level string) int {
	switch level {
	case RiskHigh:
		return penaltyHigh
	case RiskMedium:
		return penaltyMedium
	default:
		return penaltyLow
	}
}

// Factor is the scoring view of a CTQ factor: its risk level and the terms
// the section text must contain.
type Factor struct {
	FactorID      uint64
	Name          string
	RiskLevel     string
	RequiredTerms []string
}

type MissingTerm struct {
	FactorID   uint64
	FactorName string
	RiskLevel  string
	Term       string
}

type SectionEvaluation struct {
	Score        int
	MissingTerms []MissingTerm
	TermsChecked int
}

// ParseRequiredTerms splits a comma-separated validation rule into
// normalized, de-duplicated terms.
func ParseRequiredTerms(rule string) []string {
	parts := strings.Split(rule, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for _, part := range parts {
		term := strings.ToLower(strings.TrimSpace(part))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}

// ScoreSection computes the 0-100 compliance score for a section text by
// checking the presence of every required term of every factor. Each missing
// term subtracts the risk-weighted penalty; the score never goes below zero.
// Term matching is case-insensitive substring presence, not semantic
// analysis.
func ScoreSection(text string, factors []Factor) SectionEvaluation {
	lowerText := strings.ToLower(text)

	eval := SectionEvaluation{Score: maxScore}
	for _, factor := range factors {
		for _, term := range factor.RequiredTerms {
			eval.TermsChecked++
			if strings.Contains(lowerText, term) {
				continue
			}
			eval.Score -= PenaltyForRisk(factor.RiskLevel)
			eval.MissingTerms = append(eval.MissingTerms, MissingTerm{
				FactorID:   factor.FactorID,
				FactorName: factor.Name,
				RiskLevel:  factor.RiskLevel,
				Term:       term,
			})
		}
	}

	if eval.Score < 0 {
		eval.Score = 0
	}
	return eval
}
