/*
 * pairwise.go, part of rmsds.
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
	"context"

	"golang.org/x/sync/errgroup"

	v3 "github.com/dbarriga/rmsds/v3"
)

// Pairwise computes the all-pairs superposition RMSD matrix over the
// frames of cache. Only the N(N-1)/2 pairs with i<j are evaluated; each
// result lands in both mirrored cells and the diagonal stays at zero.
//
// With o.Cpus > 1 the pair space is partitioned by row across that many
// workers. Every pair writes to cells no other pair touches and the cache
// is read-only, so the only shared state is the progress counter, which is
// atomic. Cancelling ctx stops the computation between pair evaluations;
// a cancelled or failed run returns a nil matrix, so a matrix is either
// complete or absent, never partial.
func Pairwise(ctx context.Context, cache *CoordCache, o *Options) (*DistMatrix, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if o == nil {
		o = DefaultOptions()
	}
	n := cache.Len()
	m := newDistMatrix(n)
	total := uint64(n) * uint64(n-1) / 2
	rep := NewReporter(total, o.ProgressStep, o.Progress)
	rep.Start()
	var err error
	if o.Cpus <= 1 {
		err = pairwiseSeq(ctx, cache, m, rep, o)
	} else {
		err = pairwisePar(ctx, cache, m, rep, o)
	}
	if err != nil {
		return nil, err
	}
	rep.Finish()
	return m, nil
}

// rowPairs evaluates all pairs (i, j) with i<j for one row j. The row
// frame u is fetched once; in streaming mode the inner frames reuse vbuf.
func rowPairs(ctx context.Context, cache *CoordCache, m *DistMatrix, rep *Reporter, sp *Superposer, j int, ubuf, vbuf *v3.Matrix) error {
	u, err := cache.Frame(j, ubuf)
	if err != nil {
		return err
	}
	for i := 0; i < j; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, err := cache.Frame(i, vbuf)
		if err != nil {
			return err
		}
		d, err := sp.RMSD(u, v)
		if err != nil {
			return errDecorate(err, "Pairwise")
		}
		m.set(j, i, d)
		rep.Add(1)
	}
	return nil
}

func pairwiseSeq(ctx context.Context, cache *CoordCache, m *DistMatrix, rep *Reporter, o *Options) error {
	sp := NewSuperposer(o)
	var ubuf, vbuf *v3.Matrix
	if cache.Streaming() {
		ubuf = v3.Zeros(cache.NAtoms())
		vbuf = v3.Zeros(cache.NAtoms())
	}
	for j := 1; j < cache.Len(); j++ {
		if err := rowPairs(ctx, cache, m, rep, sp, j, ubuf, vbuf); err != nil {
			return err
		}
	}
	return nil
}

func pairwisePar(ctx context.Context, cache *CoordCache, m *DistMatrix, rep *Reporter, o *Options) error {
	g, ctx := errgroup.WithContext(ctx)
	rows := make(chan int)
	g.Go(func() error {
		defer close(rows)
		for j := 1; j < cache.Len(); j++ {
			select {
			case rows <- j:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < o.Cpus; w++ {
		g.Go(func() error {
			sp := NewSuperposer(o)
			var ubuf, vbuf *v3.Matrix
			if cache.Streaming() {
				ubuf = v3.Zeros(cache.NAtoms())
				vbuf = v3.Zeros(cache.NAtoms())
			}
			for j := range rows {
				if err := rowPairs(ctx, cache, m, rep, sp, j, ubuf, vbuf); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
