package classifier

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrZeroNorm is returned when an embedding cannot be normalized.
	ErrZeroNorm = errors.New("zero-norm embedding")

	// ErrDimensionMismatch is returned when two vectors of different
	// lengths are compared.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Normalize scales vec to unit Euclidean length in place and returns it.
// A vector with exactly zero norm has no direction and is rejected.
func Normalize(vec []float64) ([]float64, error) {
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrZeroNorm)
	}

	norm := floats.Norm(vec, 2)
	if norm == 0 {
		return nil, ErrZeroNorm
	}

	floats.Scale(1/norm, vec)
	return vec, nil
}

// Dot returns the dot product of two equal-length vectors. For unit vectors
// this is the cosine of the angle between them.
func Dot(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	return floats.Dot(a, b), nil
}
