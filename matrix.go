/*
 * matrix.go, part of rmsds.
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
	"bufio"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

// A DistMatrix is the symmetric all-pairs RMSD matrix of a run. Cell (i,j)
// holds the superposition RMSD between frames i and j, so the diagonal is
// zero and At(i,j) == At(j,i) always. It is filled once by the pairwise
// builder, each off-diagonal cell written exactly once, and never mutated
// afterwards.
type DistMatrix struct {
	sym *mat.SymDense
}

func newDistMatrix(n int) *DistMatrix {
	return &DistMatrix{sym: mat.NewSymDense(n, nil)}
}

// Len returns the number of frames N of the NxN matrix.
func (m *DistMatrix) Len() int {
	n, _ := m.sym.Dims()
	return n
}

// At returns the RMSD between frames i and j.
func (m *DistMatrix) At(i, j int) float64 { return m.sym.At(i, j) }

// set stores v in both (i,j) and (j,i), which share storage.
func (m *DistMatrix) set(i, j int, v float64) { m.sym.SetSym(i, j, v) }

// Sym returns the matrix as a gonum symmetric matrix, for further analysis
// or plotting. The returned value shares storage with m and must be
// treated as read-only.
func (m *DistMatrix) Sym() mat.Symmetric { return m.sym }

// Write serializes the matrix as text: a "# "-prefixed header line with
// the run provenance (skipped when header is empty), then N rows of N
// values formatted with the given number of decimals and separated by
// single spaces. The layout is consumed by downstream analysis tools and
// is bit-reproducible for identical inputs and precision.
func (m *DistMatrix) Write(w io.Writer, header string, precision int) error {
	if precision < 0 {
		precision = 2
	}
	bw := bufio.NewWriter(w)
	if header != "" {
		if _, err := fmt.Fprintf(bw, "# %s\n", header); err != nil {
			return err
		}
	}
	n := m.Len()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(bw, "%.*f", precision, m.sym.At(i, j)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
