/*
 * dcd_write.go, part of rmsds.
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

package dcd

import (
	"encoding/binary"
	"io"
	"os"

	v3 "github.com/dbarriga/rmsds/v3"
)

// nset (the frame count) lives at this offset within the header: the
// leading 84 marker, the CORD magic, then the first icntrl slot.
const nsetOffset int64 = 8

// A Writer produces a little-endian CHARMM-flavored DCD without unit-cell
// or fourth-dimension blocks. The header frame count is patched on Close,
// so a Writer must be closed for the output to be well-formed.
type Writer struct {
	natoms   int32
	written  int32
	writable bool
	filename string
	f        *os.File
	endian   binary.ByteOrder
	x, y, z  []float32
}

// NewWriter creates filename and writes the DCD header for trajectories
// of natoms atoms per frame.
func NewWriter(filename string, natoms int) (*Writer, error) {
	if natoms <= 0 {
		return nil, Error{"the number of atoms must be positive", filename, []string{"NewWriter"}, true}
	}
	w := &Writer{natoms: int32(natoms), filename: filename, endian: binary.LittleEndian}
	if err := w.writeHeader(); err != nil {
		return nil, err
	}
	w.x = make([]float32, natoms)
	w.y = make([]float32, natoms)
	w.z = make([]float32, natoms)
	w.writable = true
	return w, nil
}

func (w *Writer) writeHeader() error {
	var err error
	w.f, err = os.Create(w.filename)
	if err != nil {
		return Error{err.Error(), w.filename, []string{"writeHeader"}, true}
	}
	wr := func(v interface{}) error {
		if err := binary.Write(w.f, w.endian, v); err != nil {
			return Error{err.Error(), w.filename, []string{"binary.Write", "writeHeader"}, true}
		}
		return nil
	}
	if err := wr(int32(84)); err != nil {
		return err
	}
	if err := wr([]byte("CORD")); err != nil {
		return err
	}
	//icntrl: nset is patched on Close, the CHARMM version marks the
	//flavor, everything else stays zero (no cell block, no 4th dim,
	//no fixed atoms).
	icntrl := make([]byte, 80)
	w.endian.PutUint32(icntrl[76:], 24) //CHARMM version
	if err := wr(icntrl); err != nil {
		return err
	}
	if err := wr(int32(84)); err != nil {
		return err
	}
	//a single empty title unit
	if err := wr(int32(4 + maxTitle)); err != nil {
		return err
	}
	if err := wr(int32(1)); err != nil {
		return err
	}
	if err := wr(make([]byte, maxTitle)); err != nil {
		return err
	}
	if err := wr(int32(4 + maxTitle)); err != nil {
		return err
	}
	if err := wr(int32(4)); err != nil {
		return err
	}
	if err := wr(w.natoms); err != nil {
		return err
	}
	return wr(int32(4))
}

// Len returns the number of atoms per frame.
func (w *Writer) Len() int {
	return int(w.natoms)
}

// WNext appends one frame to the trajectory.
func (w *Writer) WNext(coord *v3.Matrix) error {
	if !w.writable {
		return Error{TrajUnIni, w.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, w.filename, []string{"WNext"}, true}
	}
	if int32(coord.NVecs()) != w.natoms {
		return Error{"coordinates don't match the trajectory size", w.filename, []string{"WNext"}, true}
	}
	for i := 0; i < int(w.natoms); i++ {
		w.x[i] = float32(coord.At(i, 0))
		w.y[i] = float32(coord.At(i, 1))
		w.z[i] = float32(coord.At(i, 2))
	}
	marker := w.natoms * 4
	for _, block := range [][]float32{w.x, w.y, w.z} {
		if err := binary.Write(w.f, w.endian, marker); err != nil {
			return Error{err.Error(), w.filename, []string{"binary.Write", "WNext"}, true}
		}
		if err := binary.Write(w.f, w.endian, block); err != nil {
			return Error{err.Error(), w.filename, []string{"binary.Write", "WNext"}, true}
		}
		if err := binary.Write(w.f, w.endian, marker); err != nil {
			return Error{err.Error(), w.filename, []string{"binary.Write", "WNext"}, true}
		}
	}
	w.written++
	return nil
}

// Close patches the frame count into the header and closes the file.
func (w *Writer) Close() error {
	if !w.writable {
		return nil
	}
	w.writable = false
	if _, err := w.f.Seek(nsetOffset, io.SeekStart); err != nil {
		w.f.Close()
		return Error{err.Error(), w.filename, []string{"Close"}, true}
	}
	if err := binary.Write(w.f, w.endian, w.written); err != nil {
		w.f.Close()
		return Error{err.Error(), w.filename, []string{"Close"}, true}
	}
	if err := w.f.Close(); err != nil {
		return Error{err.Error(), w.filename, []string{"Close"}, true}
	}
	return nil
}
