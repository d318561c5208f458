package rmsds

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v3 "github.com/dbarriga/rmsds/v3"
)

// memTraj is an in-memory SeekTraj for testing.
type memTraj struct {
	frames []*v3.Matrix
	pos    int
}

func (mt *memTraj) Readable() bool { return true }

func (mt *memTraj) Len() int { return mt.frames[0].NVecs() }

func (mt *memTraj) SeekFrame(i int) error {
	if i < 0 || i >= len(mt.frames) {
		return fmt.Errorf("frame %d outside the %d-frame trajectory", i, len(mt.frames))
	}
	mt.pos = i
	return nil
}

func (mt *memTraj) Next(c *v3.Matrix) error {
	if mt.pos >= len(mt.frames) {
		return memEOF{}
	}
	if c != nil {
		c.Copy(mt.frames[mt.pos].Dense)
	}
	mt.pos++
	return nil
}

// memEOF implements LastFrameError.
type memEOF struct{}

func (memEOF) Error() string            { return "EOF" }
func (memEOF) Critical() bool           { return false }
func (memEOF) FileName() string         { return "memory" }
func (memEOF) Format() string           { return "mem" }
func (memEOF) Decorate(string) []string { return nil }

func (memEOF) NormalLastFrameTermination() {}

func allOf(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}

// syntheticFrames builds deterministic, non-degenerate frames.
func syntheticFrames(t *testing.T, nframes, natoms int) []*v3.Matrix {
	t.Helper()
	fr := make([]*v3.Matrix, nframes)
	for k := range fr {
		m := v3.Zeros(natoms)
		for i := 0; i < natoms; i++ {
			m.Set(i, 0, math.Sin(float64(k*natoms+i)))
			m.Set(i, 1, math.Cos(float64(k+2*i)))
			m.Set(i, 2, float64((7*k+3*i)%11)/3)
		}
		fr[k] = m
	}
	return fr
}

func TestPairwiseScenario(t *testing.T) {
	//four two-atom frames: b is a rotated by 180 degrees about z, c is a
	//translated, d is a stretched to twice the length.
	a := coords(t, 0, 0, 0, 1, 0, 0)
	b := coords(t, 0, 0, 0, -1, 0, 0)
	c := coords(t, 5, 5, 5, 6, 5, 5)
	d := coords(t, 0, 0, 0, 2, 0, 0)
	mt := &memTraj{frames: []*v3.Matrix{a, b, c, d}}
	cache, err := NewCoordCache(mt, allOf(4), allOf(2), nil)
	require.NoError(t, err)
	m, err := Pairwise(context.Background(), cache, nil)
	require.NoError(t, err)
	require.Equal(t, 4, m.Len())
	for i := 0; i < 4; i++ {
		assert.Zero(t, m.At(i, i))
		for j := 0; j < 4; j++ {
			assert.Equal(t, m.At(i, j), m.At(j, i))
			assert.False(t, math.IsNaN(m.At(i, j)))
		}
	}
	assert.InDelta(t, 0, m.At(0, 1), 1e-9)   //a rotation is not a difference
	assert.InDelta(t, 0, m.At(0, 2), 1e-9)   //neither is a translation
	assert.InDelta(t, 0.5, m.At(0, 3), 1e-9) //the stretch is
}

func TestPairwiseProgress(t *testing.T) {
	mt := &memTraj{frames: syntheticFrames(t, 4, 3)}
	cache, err := NewCoordCache(mt, allOf(4), allOf(3), nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	o := DefaultOptions()
	o.Progress = &buf
	_, err = Pairwise(context.Background(), cache, o)
	require.NoError(t, err)
	//4 frames make 6 pairs, all of which must be accounted for
	assert.Contains(t, buf.String(), "Completed 6 pairs")
	assert.Contains(t, buf.String(), "100.0%")
}

func TestPairwiseCancellation(t *testing.T) {
	mt := &memTraj{frames: syntheticFrames(t, 5, 3)}
	cache, err := NewCoordCache(mt, allOf(5), allOf(3), nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m, err := Pairwise(ctx, cache, nil)
	assert.Nil(t, m) //never a partial matrix
	require.ErrorIs(t, err, context.Canceled)
}

func TestPairwiseParallelMatchesSequential(t *testing.T) {
	frames := syntheticFrames(t, 8, 5)
	seq, err := NewCoordCache(&memTraj{frames: frames}, allOf(8), allOf(5), nil)
	require.NoError(t, err)
	want, err := Pairwise(context.Background(), seq, nil)
	require.NoError(t, err)
	o := DefaultOptions()
	o.Cpus = 3
	par, err := NewCoordCache(&memTraj{frames: frames}, allOf(8), allOf(5), o)
	require.NoError(t, err)
	got, err := Pairwise(context.Background(), par, o)
	require.NoError(t, err)
	require.Equal(t, want.Len(), got.Len())
	for i := 0; i < want.Len(); i++ {
		for j := 0; j < want.Len(); j++ {
			assert.InDelta(t, want.At(i, j), got.At(i, j), 1e-12)
		}
	}
}

func TestPairwiseStreamingMatchesMaterialized(t *testing.T) {
	frames := syntheticFrames(t, 6, 4)
	matc, err := NewCoordCache(&memTraj{frames: frames}, allOf(6), allOf(4), nil)
	require.NoError(t, err)
	want, err := Pairwise(context.Background(), matc, nil)
	require.NoError(t, err)
	o := DefaultOptions()
	o.Streaming = true
	o.Cpus = 2
	strc, err := NewCoordCache(&memTraj{frames: frames}, allOf(6), allOf(4), o)
	require.NoError(t, err)
	require.True(t, strc.Streaming())
	got, err := Pairwise(context.Background(), strc, o)
	require.NoError(t, err)
	for i := 0; i < want.Len(); i++ {
		for j := 0; j < want.Len(); j++ {
			assert.InDelta(t, want.At(i, j), got.At(i, j), 1e-12)
		}
	}
}
