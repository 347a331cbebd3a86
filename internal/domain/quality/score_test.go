package quality

import "testing"

func factor(id uint64, risk string, terms ...string) Factor {
	return Factor{FactorID: id, Name: "factor", RiskLevel: risk, RequiredTerms: terms}
}

func TestParseRequiredTermsNormalizes(t *testing.T) {
	terms := ParseRequiredTerms(" Adverse Events,  sample size , adverse events,,")
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %v", terms)
	}
	if terms[0] != "adverse events" || terms[1] != "sample size" {
		t.Fatalf("unexpected terms: %v", terms)
	}
}

func TestScoreSectionAllTermsPresent(t *testing.T) {
	text := "The Adverse Events table covers the full sample size rationale."
	eval := ScoreSection(text, []Factor{factor(1, RiskHigh, "adverse events", "sample size")})

	if eval.Score != 100 {
		t.Fatalf("expected full score, got %d", eval.Score)
	}
	if len(eval.MissingTerms) != 0 {
		t.Fatalf("expected no missing terms, got %v", eval.MissingTerms)
	}
	if eval.TermsChecked != 2 {
		t.Fatalf("expected 2 terms checked, got %d", eval.TermsChecked)
	}
}

func TestScoreSectionRiskWeightedPenalties(t *testing.T) {
	baseline := ScoreSection("complete text", nil).Score

	highMiss := ScoreSection("complete text", []Factor{factor(1, RiskHigh, "missing term")})
	lowMiss := ScoreSection("complete text", []Factor{factor(2, RiskLow, "missing term")})

	if highMiss.Score >= baseline || lowMiss.Score >= baseline {
		t.Fatalf("missing term must strictly lower score: high=%d low=%d baseline=%d", highMiss.Score, lowMiss.Score, baseline)
	}
	if highMiss.Score >= lowMiss.Score {
		t.Fatalf("high-risk miss must cost more than low-risk miss: high=%d low=%d", highMiss.Score, lowMiss.Score)
	}
}

func TestScoreSectionMonotonicInMissingTerms(t *testing.T) {
	one := ScoreSection("", []Factor{factor(1, RiskMedium, "alpha")})
	two := ScoreSection("", []Factor{factor(1, RiskMedium, "alpha", "beta")})

	if two.Score >= one.Score {
		t.Fatalf("additional missing term must strictly lower score: one=%d two=%d", one.Score, two.Score)
	}
}

func TestScoreSectionFloorsAtZero(t *testing.T) {
	factors := make([]Factor, 0, 10)
	for i := uint64(0); i < 10; i++ {
		factors = append(factors, factor(i, RiskHigh, "never-present-term"))
	}

	eval := ScoreSection("", factors)
	if eval.Score != 0 {
		t.Fatalf("expected floor of 0, got %d", eval.Score)
	}
	if len(eval.MissingTerms) != 10 {
		t.Fatalf("expected 10 missing terms, got %d", len(eval.MissingTerms))
	}
}

func TestGatingLevelThresholds(t *testing.T) {
	cases := []struct {
		min  int
		want string
	}{
		{100, GateHard},
		{90, GateHard},
		{89, GateSoft},
		{70, GateSoft},
		{69, GateInfo},
		{0, GateInfo},
	}

	for _, tc := range cases {
		if got := GatingLevel(tc.min); got != tc.want {
			t.Errorf("GatingLevel(%d) = %q, want %q", tc.min, got, tc.want)
		}
	}
}

func TestSectionPassesInfoNeverBlocks(t *testing.T) {
	if !SectionPasses(0, 50) {
		t.Fatal("info gate must never block")
	}
	if SectionPasses(80, 90) {
		t.Fatal("hard gate must block below threshold")
	}
	if !SectionPasses(95, 90) {
		t.Fatal("hard gate must pass at or above threshold")
	}
}

func TestNormalizeRiskLevel(t *testing.T) {
	if lvl, err := NormalizeRiskLevel(" High "); err != nil || lvl != RiskHigh {
		t.Fatalf("expected high, got %q err=%v", lvl, err)
	}
	if _, err := NormalizeRiskLevel("critical"); err == nil {
		t.Fatal("expected error for unknown risk level")
	}
}
