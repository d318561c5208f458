/*
 * progress.go, part of rmsds.
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
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// A Reporter tracks completed work units against a total known in advance
// and writes a status line whenever completion crosses a percentage step.
// Updates are a single atomic add plus a load, so they do not perturb the
// loop being measured, and they are safe from any number of goroutines.
type Reporter struct {
	total uint64
	step  uint64 //work units between status lines
	done  atomic.Uint64
	next  atomic.Uint64 //count at which the next line is due
	start time.Time
	w     io.Writer
}

// NewReporter returns a Reporter for the given total that writes to w every
// stepFraction of completed work (0.1 = every 10%). A nil w disables
// output while still counting.
func NewReporter(total uint64, stepFraction float64, w io.Writer) *Reporter {
	if stepFraction <= 0 || stepFraction > 1 {
		stepFraction = 0.1
	}
	step := uint64(stepFraction * float64(total))
	if step == 0 {
		step = 1
	}
	return &Reporter{total: total, step: step, w: w}
}

// Start records the starting timestamp used for the time projections.
func (r *Reporter) Start() {
	r.start = time.Now()
	r.next.Store(r.step)
}

// Add advances the completed count by n and emits a status line if a
// percentage step was crossed. The compare-and-swap makes sure a crossing
// is reported once even when several workers race past it.
func (r *Reporter) Add(n uint64) {
	cur := r.done.Add(n)
	for {
		next := r.next.Load()
		if cur < next || next > r.total {
			return
		}
		if r.next.CompareAndSwap(next, next+r.step) {
			r.emit(cur)
			return
		}
	}
}

// Done returns the number of completed work units so far.
func (r *Reporter) Done() uint64 { return r.done.Load() }

// Total returns the number of work units expected.
func (r *Reporter) Total() uint64 { return r.total }

func (r *Reporter) emit(cur uint64) {
	if r.w == nil {
		return
	}
	elapsed := time.Since(r.start)
	pct := 100 * float64(cur) / float64(r.total)
	var remaining time.Duration
	if cur > 0 {
		remaining = time.Duration(float64(elapsed) * float64(r.total-cur) / float64(cur))
	}
	fmt.Fprintf(r.w, "Completed %.1f%% (%d/%d) - elapsed %s, estimated %s remaining\n",
		pct, cur, r.total, elapsed.Round(time.Millisecond), remaining.Round(time.Millisecond))
}

// Finish writes the closing line with the total elapsed time.
func (r *Reporter) Finish() {
	if r.w == nil {
		return
	}
	fmt.Fprintf(r.w, "Completed %d pairs in %s\n",
		r.done.Load(), time.Since(r.start).Round(time.Millisecond))
}
