package v3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(t *testing.T) {
	m, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 2, m.NVecs())
	assert.Equal(t, 5.0, m.At(1, 1))
	_, err = NewMatrix([]float64{1, 2, 3, 4})
	assert.Error(t, err)
}

func TestCentroid(t *testing.T) {
	m, err := NewMatrix([]float64{
		0, 0, 0,
		2, 0, 0,
		0, 4, 0,
		0, 0, 6,
	})
	require.NoError(t, err)
	c := Zeros(1)
	c.Centroid(m)
	assert.InDelta(t, 0.5, c.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0, c.At(0, 1), 1e-12)
	assert.InDelta(t, 1.5, c.At(0, 2), 1e-12)
}

func TestCenterAtOrigin(t *testing.T) {
	m, err := NewMatrix([]float64{
		1, 2, 3,
		5, 6, 7,
		-3, 1, 2,
	})
	require.NoError(t, err)
	m.CenterAtOrigin()
	c := Zeros(1)
	c.Centroid(m)
	for j := 0; j < 3; j++ {
		assert.InDelta(t, 0, c.At(0, j), 1e-12)
	}
}

func TestSomeVecs(t *testing.T) {
	m, err := NewMatrix([]float64{
		1, 1, 1,
		2, 2, 2,
		3, 3, 3,
	})
	require.NoError(t, err)
	sub := Zeros(2)
	sub.SomeVecs(m, []int{2, 0}) //order given, not sorted
	assert.Equal(t, 3.0, sub.At(0, 0))
	assert.Equal(t, 1.0, sub.At(1, 0))
}

func TestAddSubVec(t *testing.T) {
	m, err := NewMatrix([]float64{
		1, 2, 3,
		4, 5, 6,
	})
	require.NoError(t, err)
	v, err := NewMatrix([]float64{1, 1, 1})
	require.NoError(t, err)
	out := Zeros(2)
	out.AddVec(m, v)
	assert.Equal(t, 2.0, out.At(0, 0))
	assert.Equal(t, 7.0, out.At(1, 2))
	out.SubVec(out, v)
	assert.Equal(t, 1.0, out.At(0, 0))
	assert.Equal(t, 6.0, out.At(1, 2))
}

func TestSqNorm(t *testing.T) {
	m, err := NewMatrix([]float64{
		3, 4, 0,
		0, 0, 2,
	})
	require.NoError(t, err)
	assert.InDelta(t, 29.0, m.SqNorm(), 1e-12)
}

func TestVecViewShares(t *testing.T) {
	m := Zeros(3)
	v := m.VecView(1)
	v.Set(0, 2, 9)
	assert.Equal(t, 9.0, m.At(1, 2))
}
