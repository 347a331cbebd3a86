package quality

const (
	GateHard = "hard"
	GateSoft = "soft"
	GateInfo = "info"
)

// GatingLevel maps a rule's minimum mandatory completion onto the gate
// severity applied to the section. The thresholds are static product policy.
func GatingLevel(minimumMandatoryCompletion int) string {
	switch {
	case minimumMandatoryCompletion >= 90:
		return GateHard
	case minimumMandatoryCompletion >= 70:
		return GateSoft
	default:
		return GateInfo
	}
}

// SectionPasses reports whether a scored section satisfies a rule. Hard and
// soft gates compare the score against the rule threshold; info gates never
// block.
func SectionPasses(score int, minimumMandatoryCompletion int) bool {
	if GatingLevel(minimumMandatoryCompletion) == GateInfo {
		return true
	}
	return score >= minimumMandatoryCompletion
}
