/*
 * superpose.go, part of rmsds.
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
	"math"

	"gonum.org/v1/gonum/mat"

	v3 "github.com/dbarriga/rmsds/v3"
)

// SVD3 is the single capability the superposition kernel needs from a
// linear-algebra backend: the singular value decomposition of a 3x3
// matrix. Factorize leaves the singular values, in descending order, in s,
// and the orthogonal factors in u and v when these are non-nil. A non-nil
// error means the decomposition did not converge and the whole run must be
// aborted.
type SVD3 interface {
	Factorize(a *mat.Dense, s []float64, u, v *mat.Dense) error
}

// gonumSVD3 backs SVD3 with gonum's dense SVD. The mat.SVD value is reused
// across calls, so a gonumSVD3 must not be shared between goroutines.
type gonumSVD3 struct {
	svd mat.SVD
}

func (g *gonumSVD3) Factorize(a *mat.Dense, s []float64, u, v *mat.Dense) error {
	kind := mat.SVDNone
	if u != nil || v != nil {
		kind = mat.SVDThin
	}
	if ok := g.svd.Factorize(a, kind); !ok {
		return NewNumericalError(1, "SVD of the cross-covariance matrix did not converge")
	}
	g.svd.Values(s)
	if u != nil {
		g.svd.UTo(u)
	}
	if v != nil {
		g.svd.VTo(v)
	}
	return nil
}

// A Superposer computes optimal-superposition RMSDs between centered
// coordinate sets. It owns a few fixed-size scratch buffers, so it is cheap
// to build but must not be shared between goroutines; the pairwise builder
// creates one per worker.
type Superposer struct {
	svd           SVD3
	noReflections bool
	r             *mat.Dense //3x3 cross-covariance
	s             []float64
	uf, vf        *mat.Dense //orthogonal factors, only when correcting reflections
}

// NewSuperposer returns a Superposer configured from o, backed by the
// gonum SVD.
func NewSuperposer(o *Options) *Superposer {
	sp := &Superposer{
		svd:           &gonumSVD3{},
		noReflections: o.NoReflections,
		r:             mat.NewDense(3, 3, nil),
		s:             make([]float64, 3),
	}
	if sp.noReflections {
		sp.uf = mat.NewDense(3, 3, nil)
		sp.vf = mat.NewDense(3, 3, nil)
	}
	return sp
}

// RMSD returns the minimal RMSD achievable by rigidly rotating v onto u
// about the common centroid. Both coordinate sets must already be centered
// at the origin and have the same, non-zero number of atoms. Neither input
// is mutated, and RMSD(u,v) == RMSD(v,u).
//
// The closed form is the usual one: with E0 the sum of the squared norms
// of both sets and s0 >= s1 >= s2 the singular values of the 3x3
// cross-covariance matrix R[a][b] = sum_k u_k[a]*v_k[b],
//
//	rmsd = sqrt(max(0, E0 - 2*(s0+s1+s2)) / n)
//
// The clamp guards against small negative values from round-off. With
// NoReflections set, the sign of s2 is flipped whenever the optimal
// rotation would be improper (det(U)*det(V) < 0).
func (sp *Superposer) RMSD(u, v *v3.Matrix) (float64, error) {
	n := u.NVecs()
	if n == 0 {
		return 0, NewInputError("empty coordinate set")
	}
	if v.NVecs() != n {
		return 0, NewInputError("coordinate sets differ in size: %d vs %d atoms", n, v.NVecs())
	}
	e0 := u.SqNorm() + v.SqNorm()
	sp.r.Mul(u.T(), v.Dense)
	if err := sp.svd.Factorize(sp.r, sp.s, sp.uf, sp.vf); err != nil {
		return 0, errDecorate(err, "RMSD")
	}
	sum := sp.s[0] + sp.s[1] + sp.s[2]
	if sp.noReflections && det3(sp.uf)*det3(sp.vf) < 0 {
		sum -= 2 * sp.s[2]
	}
	d := e0 - 2*sum
	if d < 0 {
		d = 0
	}
	return math.Sqrt(d / float64(n)), nil
}

// det3 returns the determinant of a 3x3 matrix.
func det3(A *mat.Dense) float64 {
	return A.At(0, 0)*(A.At(1, 1)*A.At(2, 2)-A.At(2, 1)*A.At(1, 2)) -
		A.At(1, 0)*(A.At(0, 1)*A.At(2, 2)-A.At(2, 1)*A.At(0, 2)) +
		A.At(2, 0)*(A.At(0, 1)*A.At(1, 2)-A.At(1, 1)*A.At(0, 2))
}

// SuperpositionRMSD is a convenience wrapper that builds a throwaway
// Superposer with the given options (nil means DefaultOptions) and returns
// the optimal-superposition RMSD between the centered sets u and v.
func SuperpositionRMSD(u, v *v3.Matrix, o *Options) (float64, error) {
	if o == nil {
		o = DefaultOptions()
	}
	return NewSuperposer(o).RMSD(u, v)
}
