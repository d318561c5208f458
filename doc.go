/*
 * doc.go, part of rmsds.
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

/*
Package rmsds computes all-pairs superposition RMSD matrices for molecular
dynamics trajectories.

Given an ordered list of frames (each a fixed set of 3D atom coordinates,
restricted to a pre-resolved atom selection), the package caches the selected
coordinates, centers every frame at its centroid once, and then evaluates,
for each unordered pair of frames, the minimal RMSD achievable by rigid
rotation about the common centroid. The N(N-1)/2 results fill a symmetric
NxN matrix that can be serialized as whitespace-separated text or rendered
as a heat map (see the rmsdplot sub-package).

The per-pair kernel follows the classic closed form: with both coordinate
sets centered, the optimal-superposition RMSD is obtained from the sum of
squared norms of both sets and the singular values of their 3x3
cross-covariance matrix, so each pair costs O(n) in the number of selected
atoms plus a fixed-size decomposition.

Trajectory decoding lives in the traj sub-packages (traj/dcd for CHARMM/NAMD
binary trajectories, traj/stf for the compressed text format); anything that
implements SeekTraj can feed the coordinate cache. The cache works either
fully materialized in memory or in streaming mode, where frames are re-read
from the trajectory on every access.
*/
package rmsds
