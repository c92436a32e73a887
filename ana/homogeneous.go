// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements closed-form reference solutions to verify simulations
package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/mattemangia/gowave/mdl/solid"
)

// HomogeneousWave computes reference quantities for a plane wave travelling
// through a homogeneous isotropic elastic block: body wave velocities and the
// time steps at which P and S arrivals are expected at the receiver. Arrival
// steps derived by the detector can be converted back to velocities with
// VelocityFromStep and compared against Vp and Vs.
type HomogeneousWave struct {

	// input
	E    float64 // Young's modulus [Pa]
	Nu   float64 // Poisson's ratio
	Rho  float64 // density [kg/m³]
	Dt   float64 // time step [s]
	Dist float64 // transmitter-receiver distance [m]

	// derived
	Vp float64 // P-wave velocity [m/s]
	Vs float64 // S-wave velocity [m/s]
}

// Init initialises this structure. E is given in MPa.
func (o *HomogeneousWave) Init(Empa, ν, ρ, dt, dist float64) {
	if dt < 1e-20 || dist < 1e-20 {
		chk.Panic("dt and dist must be positive. dt=%g dist=%g", dt, dist)
	}
	o.E = Empa * 1e6
	o.Nu = ν
	o.Rho = ρ
	o.Dt = dt
	o.Dist = dist
	o.Vp = solid.PWave(o.E, o.Nu, o.Rho)
	o.Vs = solid.SWave(o.E, o.Nu, o.Rho)
}

// Ratio returns Vp/Vs. For an isotropic solid this equals √(2(1-ν)/(1-2ν))
// and depends on the Poisson's ratio only.
func (o *HomogeneousWave) Ratio() float64 {
	return o.Vp / o.Vs
}

// PArrivalStep returns the first time step at which the P wave reaches the
// receiver
func (o *HomogeneousWave) PArrivalStep() int {
	return int(math.Ceil(o.Dist / (o.Vp * o.Dt)))
}

// SArrivalStep returns the first time step at which the S wave reaches the
// receiver
func (o *HomogeneousWave) SArrivalStep() int {
	return int(math.Ceil(o.Dist / (o.Vs * o.Dt)))
}

// VelocityFromStep converts a detected arrival step into an apparent
// propagation velocity [m/s]
func (o *HomogeneousWave) VelocityFromStep(step int) float64 {
	if step < 1 {
		return 0
	}
	return o.Dist / (float64(step) * o.Dt)
}
