// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdtd

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/mattemangia/gowave/mdl/solid"
)

// testMatView returns a homogeneous material window for an n³ chunk
func testMatView(n int) *MatView {
	return &MatView{
		RhoDef:   2700,
		YoungDef: 1e10,
		PoisDef:  0.25,
		Nx:       n,
		Ny:       n,
	}
}

func Test_kernel01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kernel01. stability inside and outside the CFL bound")

	n := 12
	h := 1e-3
	vp := solid.PWave(1e10, 0.25, 2700)
	dt := 0.5 * h / (math.Sqrt(3) * vp)
	io.Pf("vp = %g m/s, dt = %g s\n", vp, dt)

	k := NewKernel("cpu", n, n, n, chk.Verbose)
	defer k.Free()
	mv := testMatView(n)

	// impulse at the centre; a compliant dt keeps the response bounded
	c := NewChunk(n, n, 0, n)
	c.Alloc()
	mid := n/2 + (n/2)*n + (n/2)*n*n
	c.Vz.X[mid] = 1
	for step := 0; step < 100; step++ {
		err := k.Step(c, mv, dt, h, 0.001)
		if err != nil {
			tst.Errorf("step failed: %v\n", err)
			return
		}
	}
	m := c.Vz.MaxAbs()
	io.Pf("max |vz| after 100 stable steps = %g\n", m)
	if m > 10 {
		tst.Errorf("a compliant time step must stay bounded: max=%g\n", m)
	}
	if c.Vx.MaxAbs() == 0 && c.Vy.MaxAbs() == 0 {
		tst.Errorf("the impulse must spread into the other components\n")
	}

	// the same impulse diverges once dt violates the bound
	c2 := NewChunk(n, n, 0, n)
	c2.Alloc()
	c2.Vz.X[mid] = 1
	for step := 0; step < 12; step++ {
		err := k.Step(c2, mv, 25*dt, h, 0.001)
		if err != nil {
			tst.Errorf("step failed: %v\n", err)
			return
		}
	}
	m = c2.Vz.MaxAbs()
	io.Pf("max |vz| after 12 non-compliant steps = %g\n", m)
	if m < 1e3 {
		tst.Errorf("a non-compliant time step must diverge: max=%g\n", m)
	}
}

func Test_kernel02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kernel02. each velocity component has its own divergence")

	n := 8
	h := 1e-3
	dt := 1e-8

	k := NewKernel("cpu", n, n, n, chk.Verbose)
	defer k.Free()
	mv := testMatView(n)

	// a pure sxy state drives vx and vy but leaves vz untouched
	c := NewChunk(n, n, 0, n)
	c.Alloc()
	mid := n/2 + (n/2)*n + (n/2)*n*n
	c.Sxy.X[mid] = 1000
	err := k.Step(c, mv, dt, h, 0)
	if err != nil {
		tst.Errorf("step failed: %v\n", err)
		return
	}
	if c.Vx.MaxAbs() == 0 {
		tst.Errorf("shear stress must accelerate vx\n")
	}
	if c.Vy.MaxAbs() == 0 {
		tst.Errorf("shear stress must accelerate vy\n")
	}
	chk.Float64(tst, "max |vz|", 1e-17, c.Vz.MaxAbs(), 0)
}
