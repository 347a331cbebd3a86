package device

import (
	"errors"
	"math"
	"testing"
)

func TestCosineSimilarityIdenticalVectors(t *testing.T) {
	got, err := CosineSimilarity([]float64{1, 2, 3}, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected 1.0, got %f", got)
	}
}

func TestCosineSimilarityOrthogonalVectors(t *testing.T) {
	got, err := CosineSimilarity([]float64{1, 0}, []float64{0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got) > 1e-9 {
		t.Fatalf("expected 0.0, got %f", got)
	}
}

func TestCosineSimilarityLengthMismatch(t *testing.T) {
	if _, err := CosineSimilarity([]float64{1}, []float64{1, 2}); !errors.Is(err, ErrVectorLengthMismatch) {
		t.Fatalf("expected ErrVectorLengthMismatch, got %v", err)
	}
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	if _, err := CosineSimilarity([]float64{0, 0}, []float64{1, 2}); !errors.Is(err, ErrZeroVector) {
		t.Fatalf("expected ErrZeroVector, got %v", err)
	}
	if _, err := CosineSimilarity(nil, nil); !errors.Is(err, ErrZeroVector) {
		t.Fatalf("expected ErrZeroVector for empty vectors, got %v", err)
	}
}
