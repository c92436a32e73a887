// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Lame converts Young's modulus E [Pa] and Poisson's ratio ν into the Lamé
// constants λ and μ [Pa]
func Lame(E, ν float64) (λ, μ float64) {
	λ = E * ν / ((1 + ν) * (1 - 2*ν))
	μ = E / (2 * (1 + ν))
	return
}

// PWave returns the P-wave velocity [m/s] for E [Pa], ν and density ρ [kg/m³]
func PWave(E, ν, ρ float64) float64 {
	return math.Sqrt(E * (1 - ν) / (ρ * (1 + ν) * (1 - 2*ν)))
}

// SWave returns the S-wave velocity [m/s] for E [Pa], ν and density ρ [kg/m³]
func SWave(E, ν, ρ float64) float64 {
	return math.Sqrt(E / (2 * ρ * (1 + ν)))
}

// Elastic implements linear isotropic elasticity
type Elastic struct {

	// parameters
	E   float64 // Young's modulus [Pa]
	Nu  float64 // Poisson's ratio
	Rho float64 // density [kg/m³]

	// derived
	Lam float64 // λ [Pa]
	G   float64 // μ (shear modulus) [Pa]
}

// add model to factory
func init() {
	allocators["elastic"] = func() Model { return new(Elastic) }
}

// Init initialises model. E is given in MPa.
func (o *Elastic) Init(prms dbf.Params) (err error) {
	o.Nu = 0.25
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E = p.V * 1e6
		case "nu":
			o.Nu = p.V
		case "rho":
			o.Rho = p.V
		}
	}
	if o.E < 1e-7 || o.Rho < 1e-7 {
		return chk.Err("invalid parameters: {E=%g, rho=%g} must be positive", o.E, o.Rho)
	}
	if o.Nu <= -1 || o.Nu >= 0.5 {
		return chk.Err("invalid parameter: nu=%g must be in (-1,0.5)", o.Nu)
	}
	o.Lam, o.G = Lame(o.E, o.Nu)
	return
}

// GetPrms gets (an example) of parameters
func (o *Elastic) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "E", V: 10000},
		&dbf.P{N: "nu", V: 0.25},
		&dbf.P{N: "rho", V: 2700},
	}
}

// PWave returns the P-wave velocity [m/s] of this material
func (o *Elastic) PWave() float64 {
	return PWave(o.E, o.Nu, o.Rho)
}

// SWave returns the S-wave velocity [m/s] of this material
func (o *Elastic) SWave() float64 {
	return SWave(o.E, o.Nu, o.Rho)
}
