package dcd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v3 "github.com/dbarriga/rmsds/v3"
)

func testFrames(t *testing.T, nframes, natoms int) []*v3.Matrix {
	t.Helper()
	fr := make([]*v3.Matrix, nframes)
	for k := range fr {
		m := v3.Zeros(natoms)
		for i := 0; i < natoms; i++ {
			//multiples of 0.25 survive the float32 round trip exactly
			m.Set(i, 0, float64(k)+0.25*float64(i))
			m.Set(i, 1, -float64(i)+0.5)
			m.Set(i, 2, 0.75*float64(k*natoms+i))
		}
		fr[k] = m
	}
	return fr
}

func writeTraj(t *testing.T, name string, frames []*v3.Matrix) {
	t.Helper()
	w, err := NewWriter(name, frames[0].NVecs())
	require.NoError(t, err)
	for _, f := range frames {
		require.NoError(t, w.WNext(f))
	}
	require.NoError(t, w.Close())
}

func TestRoundTrip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "tr.dcd")
	frames := testFrames(t, 3, 4)
	writeTraj(t, name, frames)
	r, err := New(name)
	require.NoError(t, err)
	defer r.Close()
	assert.True(t, r.Readable())
	assert.Equal(t, 4, r.Len())
	assert.Equal(t, 3, r.Frames())
	out := v3.Zeros(4)
	for k, want := range frames {
		require.NoError(t, r.Next(out), "frame %d", k)
		for i := 0; i < 4; i++ {
			for j := 0; j < 3; j++ {
				assert.Equal(t, want.At(i, j), out.At(i, j))
			}
		}
	}
	err = r.Next(out)
	require.Error(t, err)
	_, ok := err.(interface{ NormalLastFrameTermination() })
	assert.True(t, ok, "reading past the end must be the harmless EOF signal")
}

func TestSeekFrame(t *testing.T) {
	name := filepath.Join(t.TempDir(), "tr.dcd")
	frames := testFrames(t, 5, 3)
	writeTraj(t, name, frames)
	r, err := New(name)
	require.NoError(t, err)
	defer r.Close()
	out := v3.Zeros(3)
	//jump forward, then back
	require.NoError(t, r.SeekFrame(3))
	require.NoError(t, r.Next(out))
	assert.Equal(t, frames[3].At(0, 0), out.At(0, 0))
	require.NoError(t, r.SeekFrame(0))
	require.NoError(t, r.Next(out))
	assert.Equal(t, frames[0].At(2, 2), out.At(2, 2))
	assert.Error(t, r.SeekFrame(5))
	assert.Error(t, r.SeekFrame(-1))
}

func TestNextDiscardsAndChecksSpace(t *testing.T) {
	name := filepath.Join(t.TempDir(), "tr.dcd")
	frames := testFrames(t, 2, 3)
	writeTraj(t, name, frames)
	r, err := New(name)
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Next(nil)) //skip frame 0
	small := v3.Zeros(2)
	assert.Error(t, r.Next(small))
}

func TestWriterRejectsBadFrames(t *testing.T) {
	name := filepath.Join(t.TempDir(), "tr.dcd")
	w, err := NewWriter(name, 3)
	require.NoError(t, err)
	assert.Error(t, w.WNext(nil))
	assert.Error(t, w.WNext(v3.Zeros(2)))
	require.NoError(t, w.Close())
	_, err = NewWriter(name, 0)
	assert.Error(t, err)
}
