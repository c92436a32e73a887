// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/la"
)

// Brittle implements tensile damage accumulation. Damage grows whenever the
// maximum principal stress exceeds the tensile strength and never heals. The
// caller feeds the damage value back as a stiffness reduction (1-d)·E.
type Brittle struct {

	// parameters
	St   float64 // tensile strength [Pa]
	Rate float64 // damage accumulated per unit of relative overstress

	// auxiliary
	a *la.Matrix // full stress tensor
	q *la.Matrix // eigenvectors
	v la.Vector  // eigenvalues
}

// add model to factory
func init() {
	allocators["brittle"] = func() Model { return new(Brittle) }
}

// Init initialises model. st is given in MPa.
func (o *Brittle) Init(prms dbf.Params) (err error) {
	o.Rate = 0.1
	for _, p := range prms {
		switch p.N {
		case "st":
			o.St = p.V * 1e6
		case "rate":
			o.Rate = p.V
		}
	}
	if o.St < 1e-7 {
		return chk.Err("invalid parameter: st=%g must be positive", o.St)
	}
	if o.Rate < 1e-7 || o.Rate > 1 {
		return chk.Err("invalid parameter: rate=%g must be in (0,1]", o.Rate)
	}
	o.a = la.NewMatrix(3, 3)
	o.q = la.NewMatrix(3, 3)
	o.v = la.NewVector(3)
	return
}

// GetPrms gets (an example) of parameters
func (o *Brittle) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "st", V: 2},
		&dbf.P{N: "rate", V: 0.1},
	}
}

// Update returns the new damage value given the current one and the stress
// state. The result never decreases and is clipped to [0,1].
func (o *Brittle) Update(d float64, σ []float64) float64 {
	if d >= 1 {
		return 1
	}
	σ1 := MaxPrincipal(σ)
	if σ1 <= o.St {
		return d
	}
	d += o.Rate * (σ1/o.St - 1)
	if d > 1 {
		d = 1
	}
	return d
}

// Principal returns the three principal stresses sorted in decreasing order,
// computed with Jacobi rotations on the full tensor
func (o *Brittle) Principal(σ []float64) (σ1, σ2, σ3 float64) {
	o.a.Set(0, 0, σ[0])
	o.a.Set(1, 1, σ[1])
	o.a.Set(2, 2, σ[2])
	o.a.Set(0, 1, σ[3])
	o.a.Set(1, 0, σ[3])
	o.a.Set(0, 2, σ[4])
	o.a.Set(2, 0, σ[4])
	o.a.Set(1, 2, σ[5])
	o.a.Set(2, 1, σ[5])
	la.Jacobi(o.q, o.v, o.a)
	σ1, σ2, σ3 = o.v[0], o.v[1], o.v[2]
	if σ1 < σ2 {
		σ1, σ2 = σ2, σ1
	}
	if σ2 < σ3 {
		σ2, σ3 = σ3, σ2
	}
	if σ1 < σ2 {
		σ1, σ2 = σ2, σ1
	}
	return
}

// MaxPrincipal returns the maximum principal stress from the closed-form
// solution of the characteristic equation. This is the fast path used per
// voxel; it matches Principal up to round-off.
func MaxPrincipal(σ []float64) float64 {
	mean := (σ[0] + σ[1] + σ[2]) / 3.0
	sxx := σ[0] - mean
	syy := σ[1] - mean
	szz := σ[2] - mean
	J2 := 0.5*(sxx*sxx+syy*syy+szz*szz) + σ[3]*σ[3] + σ[4]*σ[4] + σ[5]*σ[5]
	if J2 < 1e-30 {
		return mean
	}
	J3 := sxx*(syy*szz-σ[5]*σ[5]) - σ[3]*(σ[3]*szz-σ[5]*σ[4]) + σ[4]*(σ[3]*σ[5]-syy*σ[4])
	r := 1.5 * math.Sqrt(3.0) * J3 / math.Pow(J2, 1.5)
	if r > 1 {
		r = 1
	}
	if r < -1 {
		r = -1
	}
	θ := math.Acos(r) / 3.0
	return mean + 2.0*math.Sqrt(J2/3.0)*math.Cos(θ)
}
