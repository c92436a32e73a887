// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// MohrCoulomb implements a Mohr-Coulomb yield check with a radial return in
// the deviatoric plane: the yield function is F = q - (c + p·sinφ) with
// q = √(3·J2) and p the mean pressure including the confinement
type MohrCoulomb struct {

	// parameters
	C     float64 // cohesion [Pa]
	Phi   float64 // friction angle [rad]
	Pconf float64 // confining pressure [Pa]

	// derived
	sφ float64 // sin(φ)
}

// add model to factory
func init() {
	allocators["mohrcoulomb"] = func() Model { return new(MohrCoulomb) }
}

// Init initialises model. c and pconf are given in MPa, phi in degrees.
func (o *MohrCoulomb) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		switch p.N {
		case "c":
			o.C = p.V * 1e6
		case "phi":
			o.Phi = p.V * math.Pi / 180.0
		case "pconf":
			o.Pconf = p.V * 1e6
		}
	}
	if o.C < 1e-7 {
		return chk.Err("invalid parameter: c=%g must be positive", o.C)
	}
	if o.Phi < 0 || o.Phi > math.Pi/2 {
		return chk.Err("invalid parameter: phi=%g must be in [0,90] degrees", o.Phi*180.0/math.Pi)
	}
	o.sφ = math.Sin(o.Phi)
	return
}

// GetPrms gets (an example) of parameters
func (o *MohrCoulomb) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "c", V: 5},
		&dbf.P{N: "phi", V: 30},
		&dbf.P{N: "pconf", V: 1},
	}
}

// Correct pulls the trial stress back onto the yield surface by scaling the
// deviatoric part, keeping the mean stress. The apex region (no deviatoric
// stress to scale) is left to the damage model.
func (o *MohrCoulomb) Correct(σ []float64) bool {
	mean := (σ[0] + σ[1] + σ[2]) / 3.0
	p := o.Pconf - mean // pressure, positive in compression
	sxx := σ[0] - mean
	syy := σ[1] - mean
	szz := σ[2] - mean
	J2 := 0.5*(sxx*sxx+syy*syy+szz*szz) + σ[3]*σ[3] + σ[4]*σ[4] + σ[5]*σ[5]
	q := math.Sqrt(3.0 * J2)
	fy := q - (o.C + p*o.sφ)
	if fy <= 0 || q < 1e-20 {
		return false
	}
	m := (o.C + p*o.sφ) / q
	if m < 0 {
		m = 0
	}
	σ[0] = mean + sxx*m
	σ[1] = mean + syy*m
	σ[2] = mean + szz*m
	σ[3] *= m
	σ[4] *= m
	σ[5] *= m
	return true
}
