// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdtd

// absorbing boundary bands
const (
	BoundaryWidth   = 3    // band width at each global face [voxels]
	BoundaryDamping = 0.90 // velocity multiplier inside the bands
)

// ApplyBoundary damps all three velocity components inside the absorbing
// bands of chunk c. The x and y bands appear in every chunk; the z bands
// only in chunks touching the top or bottom of the global domain, so the
// chunk-local k is translated through StartZ before the band test.
func ApplyBoundary(c *Chunk, globalNz int) {
	nx, ny := c.Nx, c.Ny
	npl := nx * ny
	d := float32(BoundaryDamping)
	vx, vy, vz := c.Vx.X, c.Vy.X, c.Vz.X

	lo := BoundaryWidth
	if lo > nx {
		lo = nx
	}
	hi := nx - BoundaryWidth
	if hi < lo {
		hi = lo
	}

	for k := 0; k < c.Depth; k++ {
		gz := c.StartZ + k
		zband := gz < BoundaryWidth || gz >= globalNz-BoundaryWidth
		for j := 0; j < ny; j++ {
			base := j*nx + k*npl
			if zband || j < BoundaryWidth || j >= ny-BoundaryWidth {
				for p := base; p < base+nx; p++ {
					vx[p] *= d
					vy[p] *= d
					vz[p] *= d
				}
				continue
			}
			for i := 0; i < lo; i++ {
				p := base + i
				vx[p] *= d
				vy[p] *= d
				vz[p] *= d
			}
			for i := hi; i < nx; i++ {
				p := base + i
				vx[p] *= d
				vy[p] *= d
				vz[p] *= d
			}
		}
	}
}
