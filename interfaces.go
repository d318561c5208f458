/*
 * interfaces.go, part of rmsds.
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

import v3 "github.com/dbarriga/rmsds/v3"

// Traj is the interface for any readable trajectory object.
type Traj interface {

	//Readable returns whether the trajectory is ready to be read.
	Readable() bool

	//Next reads the next frame into out, or discards it if out is nil.
	Next(out *v3.Matrix) error

	//Len returns the number of atoms per frame.
	Len() int
}

// SeekTraj is a trajectory that can be positioned on an arbitrary
// zero-based frame index. A call to Next after SeekFrame(k) reads frame k.
// Formats with fixed-size records (DCD) seek in O(1); sequential formats
// may implement it by skipping forward or reopening the file.
type SeekTraj interface {
	Traj

	SeekFrame(i int) error
}

// Error is the interface implemented by all errors produced in this module.
// Decorate adds information to the error as it travels up the call stack,
// without wrapping it in another type, and returns the accumulated
// decorations. Critical distinguishes fatal conditions from warnings.
type Error interface {
	error
	Decorate(string) []string
	Critical() bool
}

// TrajError is the interface for errors produced while reading trajectories.
type TrajError interface {
	Error
	FileName() string
	Format() string
}

// LastFrameError is implemented by the harmless error that signals the
// normal end of a trajectory, so it can be filtered in a type switch.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, only separates this interface from other TrajErrors
}
