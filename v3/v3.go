/*
 * v3.go, part of rmsds.
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

// Package v3 implements matrices of 3D coordinates. A Matrix is a set of
// row vectors, one per atom, with exactly 3 columns. It embeds a gonum
// Dense matrix, so the whole gonum API is available on it.
package v3

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a set of vectors in 3D space. Within the package it is
// understood that a "vector" is a row vector, i.e. the cartesian
// coordinates of a point in 3D space.
type Matrix struct {
	*mat.Dense
}

// Zeros returns a zero-filled Matrix with vecs vectors.
func Zeros(vecs int) *Matrix {
	return &Matrix{mat.NewDense(vecs, 3, nil)}
}

// NewMatrix builds a Matrix with 3 columns from data, which is kept as the
// backing slice. It fails if len(data) is not divisible by 3.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	if l%cols != 0 {
		return nil, fmt.Errorf("v3: input slice length %d not divisible by %d", l, cols)
	}
	return &Matrix{mat.NewDense(l/cols, cols, data)}, nil
}

// Dense2Matrix wraps a gonum Dense into a Matrix. The Dense must have 3
// columns or the function panics.
func Dense2Matrix(A *mat.Dense) *Matrix {
	if _, c := A.Dims(); c != 3 {
		panic("v3: a Matrix must have 3 columns")
	}
	return &Matrix{A}
}

// NVecs returns the number of vectors in the matrix.
func (F *Matrix) NVecs() int {
	r, _ := F.Dims()
	return r
}

// VecView returns a view of the ith vector of F. Changes in the view are
// reflected in F and vice versa.
func (F *Matrix) VecView(i int) *Matrix {
	return &Matrix{F.Slice(i, i+1, 0, 3).(*mat.Dense)}
}

// SomeVecs puts in F the vectors of A with the indexes in clist, in the
// order given. F must have len(clist) vectors.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	if F.NVecs() != len(clist) {
		panic("v3: SomeVecs: receiver must have as many vectors as indexes given")
	}
	for i, v := range clist {
		F.SetRow(i, A.RawRowView(v))
	}
}

// AddVec adds the row vector vec to each vector of A, putting the result
// in the receiver.
func (F *Matrix) AddVec(A, vec *Matrix) {
	broadcastVec(F, A, vec, 1)
}

// SubVec subtracts the row vector vec from each vector of A, putting the
// result in the receiver.
func (F *Matrix) SubVec(A, vec *Matrix) {
	broadcastVec(F, A, vec, -1)
}

func broadcastVec(F, A, vec *Matrix, sign float64) {
	if vec.NVecs() != 1 {
		panic("v3: a single row vector is required")
	}
	n := A.NVecs()
	if F.NVecs() != n {
		panic("v3: dimension mismatch")
	}
	v := vec.RawRowView(0)
	for i := 0; i < n; i++ {
		a := A.RawRowView(i)
		f := F.RawRowView(i)
		f[0] = a[0] + sign*v[0]
		f[1] = a[1] + sign*v[1]
		f[2] = a[2] + sign*v[2]
	}
}

// Centroid puts the geometric center of A in the receiver, which must be a
// single vector.
func (F *Matrix) Centroid(A *Matrix) {
	if F.NVecs() != 1 {
		panic("v3: a single row vector is required")
	}
	n := A.NVecs()
	var cx, cy, cz float64
	for i := 0; i < n; i++ {
		a := A.RawRowView(i)
		cx += a[0]
		cy += a[1]
		cz += a[2]
	}
	fn := float64(n)
	F.Set(0, 0, cx/fn)
	F.Set(0, 1, cy/fn)
	F.Set(0, 2, cz/fn)
}

// CenterAtOrigin translates F, in place, so its centroid sits at the
// origin. After the call the coordinate sum along each axis is zero within
// floating point tolerance.
func (F *Matrix) CenterAtOrigin() {
	c := Zeros(1)
	c.Centroid(F)
	F.SubVec(F, c)
}

// SqNorm returns the sum of the squared norms of all vectors in F, i.e.
// the squared Frobenius norm of the matrix.
func (F *Matrix) SqNorm() float64 {
	var s float64
	n := F.NVecs()
	for i := 0; i < n; i++ {
		a := F.RawRowView(i)
		s += a[0]*a[0] + a[1]*a[1] + a[2]*a[2]
	}
	return s
}
