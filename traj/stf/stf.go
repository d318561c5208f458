// Package stf reads and writes the simple trajectory format: a text
// trajectory, one "x y z" line per atom in fixed-point notation, each
// frame closed by a "*" line, with a small key=value header ending in
// "** natoms". Files are compressed according to the extension's last
// letter: 'z' means gzip, 't' means no compression, anything else
// z-standard. The format is sequential; SeekFrame skips forward, or
// reopens the file to go back.
package stf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	v3 "github.com/dbarriga/rmsds/v3"
)

const defaultPrec = 2

// A Reader decodes an stf trajectory sequentially.
type Reader struct {
	f        *os.File
	z        io.ReadCloser //decompressor; nil when the file is plain text
	h        *bufio.Reader
	natoms   int
	prec     int
	header   map[string]string
	filename string
	pos      int //index of the frame the next Next call returns
	readable bool
}

// New opens an stf trajectory for reading and returns the handle and the
// key=value metadata found in the header (nil when there is none).
func New(name string) (*Reader, map[string]string, error) {
	r := &Reader{filename: name, prec: defaultPrec}
	if err := r.open(); err != nil {
		return nil, nil, err
	}
	return r, r.header, nil
}

func (r *Reader) open() error {
	var err error
	r.f, err = os.Open(r.filename)
	if err != nil {
		return Error{err.Error(), r.filename, []string{"open"}, true}
	}
	br := bufio.NewReader(r.f)
	switch lastLetter(r.filename) {
	case 'z':
		gz, err := gzip.NewReader(br)
		if err != nil {
			return Error{"can't read header: " + err.Error(), r.filename, []string{"open"}, true}
		}
		r.z = gz
	case 't':
		r.z = nil
	default:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return Error{"can't read header: " + err.Error(), r.filename, []string{"open"}, true}
		}
		r.z = zr.IOReadCloser()
	}
	if r.z != nil {
		r.h = bufio.NewReader(r.z)
	} else {
		r.h = br
	}
	if err := r.readHeader(); err != nil {
		return err
	}
	r.pos = 0
	r.readable = true
	return nil
}

func (r *Reader) readHeader() error {
	for {
		str, err := r.h.ReadString('\n')
		if err != nil {
			return Error{"can't read header: " + err.Error(), r.filename, []string{"readHeader"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			fields := strings.Fields(str)
			if len(fields) < 2 {
				return Error{fmt.Sprintf("can't read atom count from %q", str), r.filename, []string{"readHeader"}, true}
			}
			r.natoms, err = strconv.Atoi(fields[1])
			if err != nil {
				return Error{fmt.Sprintf("can't read atom count from %q: %s", fields[1], err.Error()), r.filename, []string{"readHeader"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			return Error{fmt.Sprintf("malformed header line %q", str), r.filename, []string{"readHeader"}, true}
		}
		if r.header == nil {
			r.header = make(map[string]string)
		}
		r.header[kv[0]] = kv[1]
	}
	if p, ok := r.header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil {
			return Error{fmt.Sprintf("invalid precision %q", p), r.filename, []string{"readHeader"}, true}
		}
		r.prec = prec
	}
	return nil
}

// Readable returns whether it is possible to call Next on the Reader.
func (r *Reader) Readable() bool {
	return r.readable
}

// Len returns the number of atoms in each frame of the trajectory.
func (r *Reader) Len() int {
	return r.natoms
}

// Next puts the coordinates of the next frame in c, or reads and discards
// the frame if c is nil. At the end of the trajectory the returned error
// implements rmsds.LastFrameError.
func (r *Reader) Next(c *v3.Matrix) error {
	if !r.readable {
		return Error{TrajUnIni, r.filename, []string{"Next"}, true}
	}
	if c != nil && c.NVecs() < r.natoms {
		return Error{NotEnoughSpace, r.filename, []string{"Next"}, true}
	}
	var temp [3]float64
	for i := 0; i < r.natoms; i++ {
		line, err := r.h.ReadString('\n')
		if err != nil {
			//an EOF on the first atom is the normal end of the trajectory
			if err == io.EOF && i == 0 && line == "" {
				return newLastFrameError(r.filename, "Next")
			}
			return Error{err.Error(), r.filename, []string{"Next"}, true}
		}
		if err := decodeCoords(strings.TrimSuffix(line, "\n"), &temp, r.prec); err != nil {
			return Error{err.Error(), r.filename, []string{"Next"}, true}
		}
		if c == nil {
			continue //the frame is checked but not kept
		}
		c.Set(i, 0, temp[0])
		c.Set(i, 1, temp[1])
		c.Set(i, 2, temp[2])
	}
	mark, err := r.h.ReadString('\n')
	if err != nil && err != io.EOF {
		return Error{"can't read the frame termination mark: " + err.Error(), r.filename, []string{"Next"}, true}
	}
	if len(mark) == 0 || mark[0] != '*' {
		return Error{WrongFormat, r.filename, []string{"Next"}, true}
	}
	r.pos++
	return nil
}

// SeekFrame positions the reader on the zero-based frame i. Forward seeks
// skip frames; backward seeks reopen the file and skip from the start.
func (r *Reader) SeekFrame(i int) error {
	if i < 0 {
		return Error{fmt.Sprintf("negative frame index %d", i), r.filename, []string{"SeekFrame"}, true}
	}
	if !r.readable || i < r.pos {
		r.Close()
		if err := r.open(); err != nil {
			return errDecorate(err, "SeekFrame")
		}
	}
	for r.pos < i {
		if err := r.Next(nil); err != nil {
			return errDecorate(err, "SeekFrame")
		}
	}
	return nil
}

// Close closes the handle and marks it as unreadable.
func (r *Reader) Close() {
	if !r.readable && r.f == nil {
		return
	}
	if r.z != nil {
		r.z.Close()
		r.z = nil
	}
	if r.f != nil {
		r.f.Close()
		r.f = nil
	}
	r.readable = false
}

func decodeCoords(str string, temp *[3]float64, prec int) error {
	p := math.Pow(10, float64(prec))
	s := strings.Fields(str)
	if len(s) != 3 {
		return fmt.Errorf("ill-formed coordinate line %q: want 3 fields, have %d", str, len(s))
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("can't parse coordinate %d (%q): %s", i, v, err.Error())
		}
		temp[i] = float64(f) / p
	}
	return nil
}

func lastLetter(name string) byte {
	if name == "" {
		return 0
	}
	return strings.ToLower(name)[len(name)-1]
}

// A Writer appends frames to an stf trajectory. Compression is chosen from
// the file name the same way as for reading.
type Writer struct {
	f        *os.File
	h        io.WriteCloser
	natoms   int
	prec     int
	filename string
	writable bool
}

// NewWriter creates name and writes the stf header. Keys in header land as
// key=value lines before the atom count; a "prec" key overrides the
// default 2-decimal fixed-point precision.
func NewWriter(name string, natoms int, header map[string]string) (*Writer, error) {
	w := &Writer{natoms: natoms, prec: defaultPrec, filename: name}
	var err error
	w.f, err = os.Create(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	switch lastLetter(name) {
	case 'z':
		w.h = gzip.NewWriter(w.f)
	case 't':
		w.h = nopWriteCloser{w.f}
	default:
		zw, err := zstd.NewWriter(w.f)
		if err != nil {
			return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
		}
		w.h = zw
	}
	if p, ok := header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil {
			return nil, Error{fmt.Sprintf("invalid precision %q", p), name, []string{"NewWriter"}, true}
		}
		w.prec = prec
	}
	for k, v := range header {
		if _, err := fmt.Fprintf(w.h, "%s=%s\n", k, v); err != nil {
			return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
		}
	}
	if _, err := fmt.Fprintf(w.h, "** %d\n", natoms); err != nil {
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	w.writable = true
	return w, nil
}

// Len returns the number of atoms per frame.
func (w *Writer) Len() int {
	return w.natoms
}

// WNext appends one frame.
func (w *Writer) WNext(coord *v3.Matrix) error {
	if !w.writable {
		return Error{TrajUnIni, w.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, w.filename, []string{"WNext"}, true}
	}
	if coord.NVecs() != w.natoms {
		return Error{fmt.Sprintf("%d coordinates given, %d expected", coord.NVecs(), w.natoms), w.filename, []string{"WNext"}, true}
	}
	p := math.Pow(10, float64(w.prec))
	for i := 0; i < w.natoms; i++ {
		x := int(math.RoundToEven(coord.At(i, 0) * p))
		y := int(math.RoundToEven(coord.At(i, 1) * p))
		z := int(math.RoundToEven(coord.At(i, 2) * p))
		if _, err := fmt.Fprintf(w.h, "%d %d %d\n", x, y, z); err != nil {
			return Error{err.Error(), w.filename, []string{"WNext"}, true}
		}
	}
	if _, err := io.WriteString(w.h, "*\n"); err != nil {
		return Error{err.Error(), w.filename, []string{"WNext"}, true}
	}
	return nil
}

// Close flushes the compressor and closes the file.
func (w *Writer) Close() error {
	if !w.writable {
		return nil
	}
	w.writable = false
	if err := w.h.Close(); err != nil {
		w.f.Close()
		return Error{err.Error(), w.filename, []string{"Close"}, true}
	}
	if err := w.f.Close(); err != nil {
		return Error{err.Error(), w.filename, []string{"Close"}, true}
	}
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
