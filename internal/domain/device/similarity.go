package device

import (
	"errors"
	"math"
)

var (
	ErrVectorLengthMismatch = errors.New("feature vectors must have the same length")
	ErrZeroVector           = errors.New("feature vector has zero magnitude")
)

// CosineSimilarity compares two device feature vectors on [-1, 1].
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrVectorLengthMismatch
	}
	if len(a) == 0 {
		return 0, ErrZeroVector
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, ErrZeroVector
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
