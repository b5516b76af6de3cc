package classifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestNormalizeProducesUnitNorm(t *testing.T) {
	vec := []float64{3, 4}

	out, err := Normalize(vec)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, floats.Norm(out, 2), 1e-5)
	assert.InDelta(t, 0.6, out[0], 1e-9)
	assert.InDelta(t, 0.8, out[1], 1e-9)
}

func TestNormalizeLargeVector(t *testing.T) {
	vec := make([]float64, 512)
	for i := range vec {
		vec[i] = float64(i%7) - 3
	}

	out, err := Normalize(vec)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, floats.Norm(out, 2), 1e-5)
}

func TestNormalizeZeroNorm(t *testing.T) {
	_, err := Normalize([]float64{0, 0, 0})
	assert.ErrorIs(t, err, ErrZeroNorm)
}

func TestNormalizeEmptyVector(t *testing.T) {
	_, err := Normalize(nil)
	assert.ErrorIs(t, err, ErrZeroNorm)
}

func TestDotRange(t *testing.T) {
	a, err := Normalize([]float64{1, 2, -3})
	require.NoError(t, err)
	b, err := Normalize([]float64{-2, 0.5, 7})
	require.NoError(t, err)

	score, err := Dot(a, b)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, -1.0-1e-9)
	assert.LessOrEqual(t, score, 1.0+1e-9)
}

func TestDotDimensionMismatch(t *testing.T) {
	_, err := Dot([]float64{1, 0}, []float64{1, 0, 0})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDotIsCosineForUnitVectors(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{math.Sqrt2 / 2, math.Sqrt2 / 2}

	score, err := Dot(a, b)
	require.NoError(t, err)
	assert.InDelta(t, math.Cos(math.Pi/4), score, 1e-9)
}
