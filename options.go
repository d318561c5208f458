/*
 * options.go, part of rmsds.
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
	"io"
	"log"
)

// Options collects the run-level configuration for the engine. All the
// values are resolved by the caller (flags, config files); nothing in this
// package reads process-wide state.
type Options struct {
	//Cpus is the number of workers evaluating pairs. 1 reproduces the
	//reference sequential behavior.
	Cpus int
	//Streaming disables frame materialization: the cache re-reads each
	//frame from the trajectory on every access, trading CPU for memory.
	Streaming bool
	//MemoryWarnFraction is the fraction of physical memory the estimated
	//cache footprint may reach before a ResourceWarning is issued. Note
	//that the total process size may be 20-30% larger than the cache
	//estimate.
	MemoryWarnFraction float64
	//ProgressStep is the completed-work fraction between status lines.
	ProgressStep float64
	//Progress receives the status lines. nil silences them.
	Progress io.Writer
	//Precision is the number of decimals in the serialized matrix.
	Precision int
	//NoReflections enables the determinant-sign correction of the standard
	//optimal-superposition algorithm, so that improper rotations
	//(reflections) are excluded. The default matches the historical
	//behavior of summing the singular values unconditionally.
	NoReflections bool
	//Logger receives warnings. nil means the default logger.
	Logger *log.Logger
}

// DefaultOptions returns the reasonable defaults: one worker, materialized
// cache, warning at 2/3 of physical memory, a status line every 10% and
// 2 decimals in the output.
func DefaultOptions() *Options {
	o := new(Options)
	o.Cpus = 1
	o.MemoryWarnFraction = 0.66
	o.ProgressStep = 0.1
	o.Precision = 2
	return o
}

func (o *Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

// FrameRange returns the list of frame indexes {begin, begin+1+skip, ...}
// up to, and excluding, end. It is a convenience to build the frame list
// consumed by NewCoordCache from the usual begin/end/skip run parameters.
func FrameRange(begin, end, skip int) []int {
	if begin < 0 {
		begin = 0
	}
	var r []int
	for i := begin; i < end; i += 1 + skip {
		r = append(r, i)
	}
	return r
}
