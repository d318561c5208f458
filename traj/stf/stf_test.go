package stf

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
			m.Set(i, 0, float64(k)+0.125*float64(i))
			m.Set(i, 1, -2.5*float64(i))
			m.Set(i, 2, float64(k*natoms+i)/8)
		}
		fr[k] = m
	}
	return fr
}

func writeTraj(t *testing.T, name string, frames []*v3.Matrix, header map[string]string) {
	t.Helper()
	w, err := NewWriter(name, frames[0].NVecs(), header)
	require.NoError(t, err)
	for _, f := range frames {
		require.NoError(t, w.WNext(f))
	}
	require.NoError(t, w.Close())
}

// The last letter of the name picks the compressor, so the same frames
// must round-trip through every variant.
func TestRoundTripCompressions(t *testing.T) {
	for _, name := range []string{"tr.stf", "tr.stfz", "tr.stft"} {
		t.Run(name, func(t *testing.T) {
			full := filepath.Join(t.TempDir(), name)
			frames := testFrames(t, 3, 4)
			writeTraj(t, full, frames, map[string]string{"prec": "3"})
			r, h, err := New(full)
			require.NoError(t, err)
			defer r.Close()
			assert.Equal(t, "3", h["prec"])
			assert.True(t, r.Readable())
			assert.Equal(t, 4, r.Len())
			out := v3.Zeros(4)
			for k, want := range frames {
				require.NoError(t, r.Next(out), "frame %d", k)
				for i := 0; i < 4; i++ {
					for j := 0; j < 3; j++ {
						assert.InDelta(t, want.At(i, j), out.At(i, j), 5e-4)
					}
				}
			}
			err = r.Next(out)
			require.Error(t, err)
			_, ok := err.(interface{ NormalLastFrameTermination() })
			assert.True(t, ok, "reading past the end must be the harmless EOF signal")
		})
	}
}

func TestSeekFrame(t *testing.T) {
	full := filepath.Join(t.TempDir(), "tr.stf")
	frames := testFrames(t, 5, 2)
	writeTraj(t, full, frames, nil)
	r, _, err := New(full)
	require.NoError(t, err)
	defer r.Close()
	out := v3.Zeros(2)
	//forward seeks skip, backward seeks reopen the file
	require.NoError(t, r.SeekFrame(3))
	require.NoError(t, r.Next(out))
	assert.InDelta(t, frames[3].At(1, 0), out.At(1, 0), 6e-3)
	require.NoError(t, r.SeekFrame(1))
	require.NoError(t, r.Next(out))
	assert.InDelta(t, frames[1].At(1, 2), out.At(1, 2), 6e-3)
	assert.Error(t, r.SeekFrame(-1))
}

func TestNextChecksSpace(t *testing.T) {
	full := filepath.Join(t.TempDir(), "tr.stf")
	writeTraj(t, full, testFrames(t, 1, 3), nil)
	r, _, err := New(full)
	require.NoError(t, err)
	defer r.Close()
	assert.Error(t, r.Next(v3.Zeros(2)))
}

func TestWriterRejectsBadFrames(t *testing.T) {
	full := filepath.Join(t.TempDir(), "tr.stf")
	w, err := NewWriter(full, 3, nil)
	require.NoError(t, err)
	assert.Error(t, w.WNext(nil))
	assert.Error(t, w.WNext(v3.Zeros(2)))
	require.NoError(t, w.WNext(v3.Zeros(3)))
	require.NoError(t, w.Close())
}

func TestHeaderRoundTrip(t *testing.T) {
	full := filepath.Join(t.TempDir(), "tr.stf")
	writeTraj(t, full, testFrames(t, 1, 2), map[string]string{"title": "test run", "prec": "2"})
	r, h, err := New(full)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, "test run", h["title"])
	assert.Equal(t, "2", h["prec"])
}
