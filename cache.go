/*
 * cache.go, part of rmsds.
 *
 * Copyright 2026 Daniel Barriga
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package rmsds

import (
	"sync"

	"github.com/dbarriga/rmsds/sysmem"
	v3 "github.com/dbarriga/rmsds/v3"
)

// CacheBytes returns the estimated memory footprint, in bytes, of a
// materialized cache holding the given number of frames and selected atoms
// per frame: frames * atoms * 3 coordinates * 8 bytes each.
func CacheBytes(frames, atoms int) uint64 {
	return uint64(frames) * uint64(atoms) * 3 * 8
}

// A CoordCache holds, for each requested frame index, the coordinates of
// the selected atoms, already centered at the origin. In the default,
// materialized mode every frame is read once and kept in memory; in
// streaming mode frames are re-read from the trajectory on every access,
// trading CPU (or I/O) for memory.
//
// A materialized cache is immutable after construction and can be shared
// freely between goroutines. A streaming cache serializes trajectory
// access internally, so it is safe, if slower, under concurrency.
type CoordCache struct {
	traj      SeekTraj
	frames    []int
	sel       []int
	streaming bool
	warn      *ResourceWarning
	data      []*v3.Matrix //materialized mode only
	mu        sync.Mutex   //guards traj and full in streaming mode
	full      *v3.Matrix   //whole-frame read buffer
}

// NewCoordCache builds a cache over the given trajectory for the frames in
// frames (zero-based trajectory indexes, in order) and the atoms in sel (a
// pre-resolved, ordered selection of zero-based atom indexes within a
// frame). A zero-length selection or frame list, a selection index outside
// the frame, or a frame that cannot be read are all InputErrors.
//
// In materialized mode the estimated footprint is checked against
// o.MemoryWarnFraction of the detected physical memory; exceeding it logs
// a ResourceWarning, retrievable through Warning, and the run continues.
func NewCoordCache(traj SeekTraj, frames, sel []int, o *Options) (*CoordCache, error) {
	if o == nil {
		o = DefaultOptions()
	}
	if len(sel) == 0 {
		return nil, NewInputError("empty atom selection")
	}
	if len(frames) == 0 {
		return nil, NewInputError("no frames requested")
	}
	for _, a := range sel {
		if a < 0 || a >= traj.Len() {
			return nil, NewInputError("selection index %d outside the %d atoms of a frame", a, traj.Len())
		}
	}
	c := &CoordCache{
		traj:      traj,
		frames:    frames,
		sel:       sel,
		streaming: o.Streaming,
		full:      v3.Zeros(traj.Len()),
	}
	if c.streaming {
		return c, nil
	}
	est := CacheBytes(len(frames), len(sel))
	if phys, err := sysmem.Physical(); err == nil && phys > 0 {
		if float64(est) > o.MemoryWarnFraction*float64(phys) {
			c.warn = &ResourceWarning{Estimated: est, Physical: phys, Fraction: o.MemoryWarnFraction}
			o.logger().Printf("Warning: %s", c.warn.Error())
		}
	}
	c.data = make([]*v3.Matrix, len(frames))
	for i, idx := range frames {
		m := v3.Zeros(len(sel))
		if err := c.readFrame(idx, m); err != nil {
			return nil, errDecorate(err, "NewCoordCache")
		}
		c.data[i] = m
	}
	return c, nil
}

// readFrame seeks the trajectory to frame idx and leaves the centered
// selection coordinates in dst. Callers hold c.mu when needed.
func (c *CoordCache) readFrame(idx int, dst *v3.Matrix) error {
	if err := c.traj.SeekFrame(idx); err != nil {
		return NewInputError("can't seek to frame %d: %v", idx, err)
	}
	if err := c.traj.Next(c.full); err != nil {
		if _, ok := err.(LastFrameError); ok {
			return NewInputError("frame %d is beyond the end of the trajectory", idx)
		}
		return NewInputError("can't read frame %d: %v", idx, err)
	}
	if c.traj.Len() != c.full.NVecs() {
		return NewInputError("frame %d has %d atoms, expected %d", idx, c.traj.Len(), c.full.NVecs())
	}
	dst.SomeVecs(c.full, c.sel)
	dst.CenterAtOrigin()
	return nil
}

// Len returns the number of frames in the cache.
func (c *CoordCache) Len() int { return len(c.frames) }

// NAtoms returns the number of selected atoms per frame.
func (c *CoordCache) NAtoms() int { return len(c.sel) }

// Streaming reports whether the cache re-reads frames on every access.
func (c *CoordCache) Streaming() bool { return c.streaming }

// Warning returns the ResourceWarning raised during construction, or nil.
func (c *CoordCache) Warning() *ResourceWarning { return c.warn }

// Frame returns the centered coordinates of the ith cached frame. In
// materialized mode buf is ignored and the returned matrix is shared and
// must not be modified. In streaming mode the frame is re-read from the
// trajectory into buf (allocated when nil), which is returned; concurrent
// callers must pass distinct buffers.
func (c *CoordCache) Frame(i int, buf *v3.Matrix) (*v3.Matrix, error) {
	if i < 0 || i >= len(c.frames) {
		return nil, NewInputError("frame %d out of cache range [0, %d)", i, len(c.frames))
	}
	if !c.streaming {
		return c.data[i], nil
	}
	if buf == nil {
		buf = v3.Zeros(len(c.sel))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.readFrame(c.frames[i], buf); err != nil {
		return nil, errDecorate(err, "Frame")
	}
	return buf, nil
}
