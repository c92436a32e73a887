// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdtd

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/mattemangia/gowave/mdl/solid"
	"github.com/mattemangia/gowave/vol"
)

// sqrt32 is the float32 square root
func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// ApplyPlasticity runs the stress correction over every voxel of chunk c
// after the kernel update. Work is split over z bands; each worker carries
// its own scratch stress vector so the hot loop does not allocate.
func ApplyPlasticity(c *Chunk, mdl solid.StressCorrector, nw int) {
	nx, ny := c.Nx, c.Ny
	npl := nx * ny
	sxx, syy, szz := c.Sxx.X, c.Syy.X, c.Szz.X
	sxy, sxz, syz := c.Sxy.X, c.Sxz.X, c.Syz.X

	var g errgroup.Group
	for w := 0; w < nw; w++ {
		k0, k1 := band(w, nw, 0, c.Depth)
		if k0 >= k1 {
			continue
		}
		g.Go(func() error {
			σ := make([]float64, 6)
			for k := k0; k < k1; k++ {
				for j := 0; j < ny; j++ {
					base := j*nx + k*npl
					for p := base; p < base+nx; p++ {
						σ[0] = float64(sxx[p])
						σ[1] = float64(syy[p])
						σ[2] = float64(szz[p])
						σ[3] = float64(sxy[p])
						σ[4] = float64(sxz[p])
						σ[5] = float64(syz[p])
						if mdl.Correct(σ) {
							sxx[p] = float32(σ[0])
							syy[p] = float32(σ[1])
							szz[p] = float32(σ[2])
							sxy[p] = float32(σ[3])
							sxz[p] = float32(σ[4])
							syz[p] = float32(σ[5])
						}
					}
				}
			}
			return nil
		})
	}
	g.Wait()
}

// ApplyDamage accumulates brittle damage for every voxel of chunk c into the
// global damage volume. dmg spans the whole grid so the chunk window is
// shifted by StartZ.
func ApplyDamage(c *Chunk, dmg *vol.F32, mdl solid.DamageUpdater, nw int) {
	nx, ny := c.Nx, c.Ny
	npl := nx * ny
	sxx, syy, szz := c.Sxx.X, c.Syy.X, c.Szz.X
	sxy, sxz, syz := c.Sxy.X, c.Sxz.X, c.Syz.X

	var g errgroup.Group
	for w := 0; w < nw; w++ {
		k0, k1 := band(w, nw, 0, c.Depth)
		if k0 >= k1 {
			continue
		}
		g.Go(func() error {
			σ := make([]float64, 6)
			zshift := c.StartZ * npl
			for k := k0; k < k1; k++ {
				for j := 0; j < ny; j++ {
					base := j*nx + k*npl
					for p := base; p < base+nx; p++ {
						σ[0] = float64(sxx[p])
						σ[1] = float64(syy[p])
						σ[2] = float64(szz[p])
						σ[3] = float64(sxy[p])
						σ[4] = float64(sxz[p])
						σ[5] = float64(syz[p])
						d := float64(dmg.X[zshift+p])
						dmg.X[zshift+p] = float32(mdl.Update(d, σ))
					}
				}
			}
			return nil
		})
	}
	g.Wait()
}

// TrackMaxVelocity folds chunk c's velocity magnitudes into the running
// global maximum field
func TrackMaxVelocity(c *Chunk, maxvel *vol.F32, nw int) {
	nx, ny := c.Nx, c.Ny
	npl := nx * ny
	vx, vy, vz := c.Vx.X, c.Vy.X, c.Vz.X
	zshift := c.StartZ * npl

	var g errgroup.Group
	for w := 0; w < nw; w++ {
		k0, k1 := band(w, nw, 0, c.Depth)
		if k0 >= k1 {
			continue
		}
		g.Go(func() error {
			for k := k0; k < k1; k++ {
				for j := 0; j < ny; j++ {
					base := j*nx + k*npl
					for p := base; p < base+nx; p++ {
						v := sqrt32(vx[p]*vx[p] + vy[p]*vy[p] + vz[p]*vz[p])
						if v > maxvel.X[zshift+p] {
							maxvel.X[zshift+p] = v
						}
					}
				}
			}
			return nil
		})
	}
	g.Wait()
}

// FillMagnitude writes chunk c's combined velocity magnitude into its window
// of the global field
func FillMagnitude(c *Chunk, gmag *vol.F32, nw int) {
	nx, ny := c.Nx, c.Ny
	npl := nx * ny
	vx, vy, vz := c.Vx.X, c.Vy.X, c.Vz.X
	zshift := c.StartZ * npl

	var g errgroup.Group
	for w := 0; w < nw; w++ {
		k0, k1 := band(w, nw, 0, c.Depth)
		if k0 >= k1 {
			continue
		}
		g.Go(func() error {
			for k := k0; k < k1; k++ {
				for j := 0; j < ny; j++ {
					base := j*nx + k*npl
					for p := base; p < base+nx; p++ {
						gmag.X[zshift+p] = sqrt32(vx[p]*vx[p] + vy[p]*vy[p] + vz[p]*vz[p])
					}
				}
			}
			return nil
		})
	}
	g.Wait()
}

// CopyVelocity copies chunk c's velocity components into the global output
// volumes and fills the combined magnitude
func CopyVelocity(c *Chunk, gvx, gvy, gvz, gmag *vol.F32, nw int) {
	nx, ny := c.Nx, c.Ny
	npl := nx * ny
	vx, vy, vz := c.Vx.X, c.Vy.X, c.Vz.X
	zshift := c.StartZ * npl

	var g errgroup.Group
	for w := 0; w < nw; w++ {
		k0, k1 := band(w, nw, 0, c.Depth)
		if k0 >= k1 {
			continue
		}
		g.Go(func() error {
			for k := k0; k < k1; k++ {
				for j := 0; j < ny; j++ {
					base := j*nx + k*npl
					for p := base; p < base+nx; p++ {
						q := zshift + p
						gvx.X[q] = vx[p]
						gvy.X[q] = vy[p]
						gvz.X[q] = vz[p]
						gmag.X[q] = sqrt32(vx[p]*vx[p] + vy[p]*vy[p] + vz[p]*vz[p])
					}
				}
			}
			return nil
		})
	}
	g.Wait()
}
