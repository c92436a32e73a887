// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdtd

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/mattemangia/gowave/vol"
)

// Kernel is the contract every compute backend satisfies. A kernel advances
// one chunk's stress and velocity fields by one explicit time step. Init
// allocates backend state for chunks up to depth slices; Step is called once
// per chunk per time step by the driving task. Implementations may
// parallelise internally but must not retain the chunk after Step returns.
type Kernel interface {
	Init(nx, ny, depth int) error
	Step(c *Chunk, m *MatView, dt, h, damping float64) error
	Free()
	Name() string
}

// kernels holds all available compute backends; name => allocator
var kernels = map[string]func() Kernel{}

// NewKernel returns an initialised kernel by name. When the GPU backend
// cannot be constructed, the CPU implementation is returned instead with a
// warning; GPU failure is never fatal.
func NewKernel(name string, nx, ny, depth int, verbose bool) (k Kernel) {
	alloc, ok := kernels[name]
	if !ok {
		chk.Panic("kernel %q is not available", name)
	}
	k = alloc()
	err := k.Init(nx, ny, depth)
	if err != nil {
		if name != "cpu" {
			io.Pfyel("warning: %s kernel unavailable (%v); falling back to cpu\n", name, err)
			k = kernels["cpu"]()
			k.Init(nx, ny, depth)
			return
		}
		chk.Panic("cannot initialise %q kernel:\n%v", name, err)
	}
	if verbose {
		io.Pf("> %s kernel initialised\n", k.Name())
	}
	return
}

// MatView exposes per-voxel material properties for one chunk's z window.
// The volumes are optional; absent ones fall back to the scalar defaults.
// The damage field, when present, reduces the local stiffness to (1-d)·E.
type MatView struct {

	// global volumes; may be nil
	Rho     *vol.F32 // density [kg/m³]
	Young   *vol.F32 // Young's modulus [MPa]
	Poisson *vol.F32 // Poisson's ratio
	Dmg     *vol.F32 // damage in [0,1]

	// scalar defaults
	RhoDef   float32 // density [kg/m³]
	YoungDef float32 // Young's modulus [Pa]
	PoisDef  float32 // Poisson's ratio

	// chunk window
	Nx     int // global x dimension
	Ny     int // global y dimension
	StartZ int // chunk z offset into the global volumes
}

// At returns E [Pa], ν and ρ [kg/m³] at the chunk-local voxel (i,j,k)
func (o *MatView) At(i, j, k int) (E, ν, ρ float32) {
	E, ν, ρ = o.YoungDef, o.PoisDef, o.RhoDef
	idx := i + j*o.Nx + (o.StartZ+k)*o.Nx*o.Ny
	if o.Young != nil {
		E = o.Young.X[idx] * 1e6
	}
	if o.Poisson != nil {
		ν = o.Poisson.X[idx]
	}
	if o.Rho != nil {
		ρ = o.Rho.X[idx]
	}
	if o.Dmg != nil {
		E *= 1 - o.Dmg.X[idx]
	}
	return
}
