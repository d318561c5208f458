package rmsds

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistMatrixSymmetry(t *testing.T) {
	m := newDistMatrix(3)
	m.set(1, 0, 1.5)
	m.set(2, 0, 2.25)
	m.set(2, 1, 0.75)
	assert.Equal(t, 3, m.Len())
	for i := 0; i < 3; i++ {
		assert.Zero(t, m.At(i, i))
		for j := 0; j < 3; j++ {
			assert.Equal(t, m.At(i, j), m.At(j, i))
		}
	}
	assert.Equal(t, 1.5, m.At(0, 1))
}

func TestDistMatrixWrite(t *testing.T) {
	m := newDistMatrix(3)
	m.set(1, 0, 1.234)
	m.set(2, 0, 2.5)
	m.set(2, 1, 0.75)
	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf, "rmsds traj.dcd", 2))
	want := "# rmsds traj.dcd\n" +
		"0.00 1.23 2.50\n" +
		"1.23 0.00 0.75\n" +
		"2.50 0.75 0.00\n"
	assert.Equal(t, want, buf.String())
}

func TestDistMatrixWriteNoHeader(t *testing.T) {
	m := newDistMatrix(2)
	m.set(1, 0, 1)
	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf, "", 3))
	assert.Equal(t, "0.000 1.000\n1.000 0.000\n", buf.String())
}
