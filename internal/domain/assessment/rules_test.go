package assessment

import (
	"strings"
	"testing"
)

func liveStats() ReferenceStats {
	return ReferenceStats{
		SimilarProtocols: 12,
		SampleSize:       SampleStats{Count: 12, Median: 400, P25: 250, P75: 520},
		EndpointCounts:   map[string]int{"OS": 9, "PFS": 7},
		CommonMethods:    []string{"log-rank test", "Cox proportional hazards"},
		Source:           Live(),
	}
}

func TestValidateRequiresIndicationAndEndpoints(t *testing.T) {
	if err := (DesignInput{Endpoints: []string{"OS"}}).Validate(); err != ErrIndicationRequired {
		t.Fatalf("expected ErrIndicationRequired, got %v", err)
	}
	if err := (DesignInput{Indication: "NSCLC"}).Validate(); err != ErrEndpointsRequired {
		t.Fatalf("expected ErrEndpointsRequired, got %v", err)
	}
	if err := (DesignInput{Indication: "NSCLC", Endpoints: []string{"OS"}}).Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestMissingPopulationYieldsSampleSizeWeakness(t *testing.T) {
	f := ComposeFindings(DesignInput{Indication: "NSCLC", Endpoints: []string{"OS"}}, liveStats())

	found := false
	for _, w := range f.Weaknesses {
		if strings.Contains(w, WeaknessSampleSizeJustification) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected sample-size weakness, got %v", f.Weaknesses)
	}
}

func TestSmallEnrollmentFlagged(t *testing.T) {
	f := ComposeFindings(DesignInput{
		Indication:     "NSCLC",
		Endpoints:      []string{"OS"},
		PopulationSize: 100, // below 0.7 * median(400)
	}, liveStats())

	found := false
	for _, w := range f.Weaknesses {
		if strings.Contains(w, "below") && strings.Contains(w, "median") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected small-enrollment weakness, got %v", f.Weaknesses)
	}
}

func TestAdequateEnrollmentIsStrength(t *testing.T) {
	f := ComposeFindings(DesignInput{
		Indication:     "NSCLC",
		Endpoints:      []string{"OS"},
		PopulationSize: 450,
	}, liveStats())

	for _, w := range f.Weaknesses {
		if strings.Contains(w, WeaknessSampleSizeJustification) {
			t.Fatalf("unexpected sample-size weakness: %v", f.Weaknesses)
		}
	}

	found := false
	for _, s := range f.Strengths {
		if strings.Contains(s, "consistent with comparable studies") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected enrollment strength, got %v", f.Strengths)
	}
}

func TestFindingsNeverEmptyForValidInput(t *testing.T) {
	inputs := []DesignInput{
		{Indication: "NSCLC", Endpoints: []string{"OS"}},
		{Indication: "NSCLC", Phase: "Phase 3", Endpoints: []string{"OS", "PFS"}, PopulationSize: 500},
		{Indication: "Rare disease", Endpoints: []string{"custom-score"}, PopulationSize: 40},
	}

	for _, in := range inputs {
		f := ComposeFindings(in, liveStats())
		if len(f.Strengths) == 0 || len(f.Weaknesses) == 0 {
			t.Fatalf("findings must be non-empty for %+v: %+v", in, f)
		}
	}
}

func TestFallbackSourceSurfacedAsWeakness(t *testing.T) {
	stats := liveStats()
	stats.Source = Fallback("corpus query failed")

	f := ComposeFindings(DesignInput{Indication: "NSCLC", Endpoints: []string{"OS"}, PopulationSize: 450}, stats)

	found := false
	for _, w := range f.Weaknesses {
		if strings.Contains(w, "curated reference data") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected fallback weakness, got %v", f.Weaknesses)
	}
}

func TestValidRating(t *testing.T) {
	for _, rating := range []int{1, 3, 5} {
		if !ValidRating(rating) {
			t.Errorf("rating %d should be valid", rating)
		}
	}
	for _, rating := range []int{0, -1, 6, 100} {
		if ValidRating(rating) {
			t.Errorf("rating %d should be invalid", rating)
		}
	}
}
