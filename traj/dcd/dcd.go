/*
 * dcd.go, part of rmsds.
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

// Package dcd reads and writes CHARMM/NAMD binary DCD trajectories. Both
// endiannesses are supported for reading; fixed atoms and X-plor variants
// are not. Frames are fixed-size records, so the reader can seek to any
// frame index in O(1).
package dcd

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	v3 "github.com/dbarriga/rmsds/v3"
)

const maxTitle int32 = 80

// cell block: leading marker, 6 float64, trailing marker.
const cellBlockSize int64 = 4 + 48 + 4

// A Reader decodes a DCD file frame by frame.
type Reader struct {
	natoms     int32
	nframes    int32 //from the header; 0 when the writer didn't fill it in
	fixed      int32
	extrablock bool
	fourdim    bool
	readable   bool
	filename   string
	f          *os.File
	endian     binary.ByteOrder
	dataStart  int64 //file offset of the first frame
	frameSize  int64
	fileSize   int64
	x, y, z    []float32
}

// New opens a DCD file and parses its header, leaving the Reader
// positioned on frame 0.
func New(name string) (*Reader, error) {
	r := &Reader{filename: name, endian: binary.LittleEndian}
	if err := r.readHeader(); err != nil {
		r.Close()
		return nil, err
	}
	r.x = make([]float32, r.natoms)
	r.y = make([]float32, r.natoms)
	r.z = make([]float32, r.natoms)
	r.readable = true
	return r, nil
}

func (r *Reader) readHeader() error {
	var err error
	r.f, err = os.Open(r.filename)
	if err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	st, err := r.f.Stat()
	if err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	r.fileSize = st.Size()
	var check int32
	if err := binary.Read(r.f, r.endian, &check); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	//the first record marker is always 84; if it doesn't match, the file
	//was written on a machine of the other endianness.
	if check != 84 {
		r.endian = binary.BigEndian
	}
	magic := make([]byte, 4)
	if err := binary.Read(r.f, r.endian, magic); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	if string(magic) != "CORD" {
		return Error{"wrong magic number", r.filename, []string{"New"}, true}
	}
	//the icntrl array, read as one chunk for random access.
	buf := make([]byte, 80)
	if err := binary.Read(r.f, r.endian, buf); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	readAt := func(off int, v interface{}) error {
		return binary.Read(bytes.NewBuffer(buf[off:]), r.endian, v)
	}
	if err := readAt(76, &check); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	//X-plor sets the last int to zero, CHARMM to its version number.
	if check == 0 {
		return Error{"X-plor DCD not supported", r.filename, []string{"New"}, true}
	}
	if err := readAt(0, &r.nframes); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	if err := readAt(40, &check); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	r.extrablock = check != 0
	if err := readAt(44, &check); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	r.fourdim = check == 1
	if err := readAt(32, &r.fixed); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	if r.fixed != 0 {
		return Error{"fixed atoms not supported", r.filename, []string{"New"}, true}
	}
	if err := binary.Read(r.f, r.endian, &check); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	if check != 84 {
		return Error{WrongFormat, r.filename, []string{"New"}, true}
	}
	//title block: leading marker, unit count, the titles, trailing marker.
	var titleMark, ntitle int32
	if err := binary.Read(r.f, r.endian, &titleMark); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	if err := binary.Read(r.f, r.endian, &ntitle); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	title := make([]byte, maxTitle*ntitle)
	if err := binary.Read(r.f, r.endian, title); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	if err := binary.Read(r.f, r.endian, &titleMark); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	if err := binary.Read(r.f, r.endian, &check); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	if check != 4 { //a 4 must precede the atom count
		return Error{WrongFormat, r.filename, []string{"New"}, true}
	}
	if err := binary.Read(r.f, r.endian, &r.natoms); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	if err := binary.Read(r.f, r.endian, &check); err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	if check != 4 {
		return Error{WrongFormat, r.filename, []string{"New"}, true}
	}
	r.dataStart, err = r.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return Error{err.Error(), r.filename, []string{"New"}, true}
	}
	//Frames are uniform records, which holds for well-formed files: a
	//coordinate block is marker+natoms floats+marker, three per frame,
	//plus the optional unit-cell and fourth-dimension blocks.
	coordBlock := int64(4 + 4*r.natoms + 4)
	r.frameSize = 3 * coordBlock
	if r.extrablock {
		r.frameSize += cellBlockSize
	}
	if r.fourdim {
		r.frameSize += coordBlock
	}
	return nil
}

// Readable returns whether the Reader is ready to deliver frames.
func (r *Reader) Readable() bool {
	return r.readable
}

// Len returns the number of atoms per frame.
func (r *Reader) Len() int {
	return int(r.natoms)
}

// Frames returns the frame count declared in the header, or the count
// derived from the file size when the header leaves it at zero.
func (r *Reader) Frames() int {
	if r.nframes > 0 {
		return int(r.nframes)
	}
	return int((r.fileSize - r.dataStart) / r.frameSize)
}

// SeekFrame positions the reader so the following Next call delivers the
// zero-based frame i. Seeking past the end of the file is an error.
func (r *Reader) SeekFrame(i int) error {
	if !r.readable {
		return Error{TrajUnIni, r.filename, []string{"SeekFrame"}, true}
	}
	off := r.dataStart + int64(i)*r.frameSize
	if i < 0 || off+r.frameSize > r.fileSize {
		return Error{ErrFrameOutOfRange, r.filename, []string{"SeekFrame"}, true}
	}
	if _, err := r.f.Seek(off, io.SeekStart); err != nil {
		return Error{err.Error(), r.filename, []string{"SeekFrame"}, true}
	}
	return nil
}

// Next reads the next frame into out, or discards it if out is nil. At the
// end of the trajectory the returned error implements
// rmsds.LastFrameError.
func (r *Reader) Next(out *v3.Matrix) error {
	if !r.readable {
		return Error{TrajUnIni, r.filename, []string{"Next"}, true}
	}
	var blocksize int32
	if r.extrablock {
		if err := binary.Read(r.f, r.endian, &blocksize); err != nil {
			return r.wrapRead(err, "Next")
		}
		//Some trajectories drop the cell block in some frames; when the
		//size matches the X coordinates, the block already is the X block.
		if blocksize != r.natoms*4 {
			if err := r.skipBlock(blocksize); err != nil {
				return errDecorate(err, "Next")
			}
			blocksize = 0
		}
	}
	if blocksize == 0 {
		if err := binary.Read(r.f, r.endian, &blocksize); err != nil {
			return r.wrapRead(err, "Next")
		}
	}
	for bi, block := range [][]float32{r.x, r.y, r.z} {
		if blocksize != r.natoms*4 {
			return Error{WrongFormat, r.filename, []string{"Next"}, true}
		}
		if err := binary.Read(r.f, r.endian, block); err != nil {
			return r.wrapRead(err, "Next")
		}
		var trailing int32
		if err := binary.Read(r.f, r.endian, &trailing); err != nil {
			return r.wrapRead(err, "Next")
		}
		if trailing != blocksize {
			return Error{WrongFormat, r.filename, []string{"Next"}, true}
		}
		if bi < 2 { //the next leading marker
			if err := binary.Read(r.f, r.endian, &blocksize); err != nil {
				return r.wrapRead(err, "Next")
			}
		}
	}
	if r.fourdim {
		if err := binary.Read(r.f, r.endian, &blocksize); err != nil {
			return r.wrapRead(err, "Next")
		}
		if err := r.skipBlock(blocksize); err != nil {
			return errDecorate(err, "Next")
		}
	}
	if out == nil {
		return nil
	}
	if out.NVecs() < int(r.natoms) {
		return Error{NotEnoughSpace, r.filename, []string{"Next"}, true}
	}
	for i := 0; i < int(r.natoms); i++ {
		out.Set(i, 0, float64(r.x[i]))
		out.Set(i, 1, float64(r.y[i]))
		out.Set(i, 2, float64(r.z[i]))
	}
	return nil
}

func (r *Reader) skipBlock(size int32) error {
	block := make([]byte, size)
	if err := binary.Read(r.f, r.endian, block); err != nil {
		return r.wrapRead(err, "skipBlock")
	}
	var trailing int32
	if err := binary.Read(r.f, r.endian, &trailing); err != nil {
		return r.wrapRead(err, "skipBlock")
	}
	if trailing != size {
		return Error{WrongFormat, r.filename, []string{"skipBlock"}, true}
	}
	return nil
}

// wrapRead turns an EOF into the harmless last-frame signal.
func (r *Reader) wrapRead(err error, caller string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return newLastFrameError(r.filename, caller)
	}
	return Error{err.Error(), r.filename, []string{caller}, true}
}

// Close closes the underlying file and marks the reader unreadable.
func (r *Reader) Close() {
	if r.f != nil {
		r.f.Close()
	}
	r.readable = false
}
