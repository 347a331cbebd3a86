package pdfform

import (
	"bytes"
	"testing"
)

func TestSupportedForms(t *testing.T) {
	forms := SupportedForms()
	want := []string{"1571", "1572", "3454", "3674"}

	if len(forms) != len(want) {
		t.Fatalf("expected %v, got %v", want, forms)
	}
	for i, number := range want {
		if forms[i] != number {
			t.Fatalf("expected %v, got %v", want, forms)
		}
	}
}

func TestBuildProducesPDF(t *testing.T) {
	for _, number := range SupportedForms() {
		data, err := Build(number, map[string]string{"sponsor_name": "Acme Therapeutics"})
		if err != nil {
			t.Fatalf("build form %s: %v", number, err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF")) {
			t.Fatalf("form %s output is not a PDF", number)
		}
	}
}

func TestBuildAppliesDefaults(t *testing.T) {
	withValue, err := Build("1571", map[string]string{"sponsor_name": "Acme Therapeutics"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	withDefault, err := Build("1571", nil)
	if err != nil {
		t.Fatalf("build with defaults: %v", err)
	}
	if len(withValue) == 0 || len(withDefault) == 0 {
		t.Fatal("expected non-empty PDFs")
	}
}

func TestBuildUnknownFormRejected(t *testing.T) {
	if _, err := Build("9999", nil); err == nil {
		t.Fatal("expected error for unsupported form")
	}
	if Supported("9999") {
		t.Fatal("9999 must not be supported")
	}
}
