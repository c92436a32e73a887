// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdtd

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// CPUKernel advances the wave field on the host processor. The two update
// phases (velocities from the stress divergence, stresses from the velocity
// gradients) are each parallelised over bands of z slices; the barrier
// between the phases keeps reads and writes disjoint.
type CPUKernel struct {
	nw int // number of workers
}

// add backend to factory
func init() {
	kernels["cpu"] = func() Kernel { return new(CPUKernel) }
}

// Init sets the worker count
func (o *CPUKernel) Init(nx, ny, depth int) error {
	o.nw = runtime.NumCPU()
	if o.nw > depth {
		o.nw = depth
	}
	if o.nw < 1 {
		o.nw = 1
	}
	return nil
}

// Name returns the backend name
func (o *CPUKernel) Name() string { return "cpu" }

// Free releases backend resources
func (o *CPUKernel) Free() {}

// Step advances one chunk by one explicit time step. Velocities integrate
// the true divergence of the stress tensor, one component per axis; stresses
// integrate the velocity gradients through Hooke's law with the local Lamé
// constants.
func (o *CPUKernel) Step(c *Chunk, m *MatView, dt, h, damping float64) error {

	nx, ny, nz := c.Nx, c.Ny, c.Depth
	npl := nx * ny
	dtf := float32(dt)
	hf := float32(h)
	dmp := float32(1 - damping)

	vx, vy, vz := c.Vx.X, c.Vy.X, c.Vz.X
	sxx, syy, szz := c.Sxx.X, c.Syy.X, c.Szz.X
	sxy, sxz, syz := c.Sxy.X, c.Sxz.X, c.Syz.X

	// velocities from the stress divergence (backward differences)
	o.parallel(1, nz, func(k0, k1 int) {
		for k := k0; k < k1; k++ {
			for j := 1; j < ny; j++ {
				base := j*nx + k*npl
				for i := 1; i < nx; i++ {
					p := base + i
					_, _, ρ := m.At(i, j, k)
					a := dtf / (ρ * hf)
					divx := sxx[p] - sxx[p-1] + sxy[p] - sxy[p-nx] + sxz[p] - sxz[p-npl]
					divy := sxy[p] - sxy[p-1] + syy[p] - syy[p-nx] + syz[p] - syz[p-npl]
					divz := sxz[p] - sxz[p-1] + syz[p] - syz[p-nx] + szz[p] - szz[p-npl]
					vx[p] = (vx[p] + a*divx) * dmp
					vy[p] = (vy[p] + a*divy) * dmp
					vz[p] = (vz[p] + a*divz) * dmp
				}
			}
		}
	})

	// stresses from the velocity gradients (forward differences)
	o.parallel(0, nz-1, func(k0, k1 int) {
		for k := k0; k < k1; k++ {
			for j := 0; j < ny-1; j++ {
				base := j*nx + k*npl
				for i := 0; i < nx-1; i++ {
					p := base + i
					E, ν, _ := m.At(i, j, k)
					lam := E * ν / ((1 + ν) * (1 - 2*ν))
					mu := E / (2 * (1 + ν))
					b := dtf / hf
					dvxdx := vx[p+1] - vx[p]
					dvydy := vy[p+nx] - vy[p]
					dvzdz := vz[p+npl] - vz[p]
					trace := dvxdx + dvydy + dvzdz
					sxx[p] += b * (lam*trace + 2*mu*dvxdx)
					syy[p] += b * (lam*trace + 2*mu*dvydy)
					szz[p] += b * (lam*trace + 2*mu*dvzdz)
					sxy[p] += b * mu * (vx[p+nx] - vx[p] + vy[p+1] - vy[p])
					sxz[p] += b * mu * (vx[p+npl] - vx[p] + vz[p+1] - vz[p])
					syz[p] += b * mu * (vy[p+npl] - vy[p] + vz[p+nx] - vz[p])
				}
			}
		}
	})
	return nil
}

// parallel runs fn over bands of the half-open z range [lo,hi)
func (o *CPUKernel) parallel(lo, hi int, fn func(k0, k1 int)) {
	var g errgroup.Group
	for w := 0; w < o.nw; w++ {
		k0, k1 := band(w, o.nw, lo, hi)
		if k0 >= k1 {
			continue
		}
		g.Go(func() error {
			fn(k0, k1)
			return nil
		})
	}
	g.Wait()
}

// band splits the half-open range [lo,hi) into nw nearly equal parts and
// returns the w-th one
func band(w, nw, lo, hi int) (int, int) {
	n := hi - lo
	if n < 0 {
		n = 0
	}
	return lo + w*n/nw, lo + (w+1)*n/nw
}
