// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/rnd"

	"github.com/mattemangia/gowave/mdl/solid"
	"github.com/mattemangia/gowave/vol"
)

// Material holds the properties of one labelled material. Voxels carrying
// Label in the segmented volume receive these properties.
type Material struct {

	// input
	Name  string     `json:"name"`  // name of material
	Label int        `json:"label"` // voxel label bound to this material
	Desc  string     `json:"desc"`  // description
	Prms  dbf.Params `json:"prms"`  // parameters: E [MPa], nu, rho [kg/m³], c [MPa], phi [°], st [MPa], jitter

	// derived
	YoungMPa     float64 // Young's modulus [MPa]
	Poisson      float64 // Poisson's ratio
	Rho          float64 // density [kg/m³]
	CohesionMPa  float64 // cohesion [MPa]
	FailAngleDeg float64 // failure angle [°]
	TensileMPa   float64 // tensile strength [MPa]
	Jitter       float64 // relative uniform perturbation of E and rho per voxel
}

// Init derives the scalar properties from the parameters, starting from the
// simulation defaults so materials may override only what they need
func (o *Material) Init(dflt MatData) (err error) {
	o.YoungMPa = dflt.YoungMPa
	o.Poisson = dflt.Poisson
	o.Rho = dflt.Rho
	o.CohesionMPa = dflt.CohesionMPa
	o.FailAngleDeg = dflt.FailAngleDeg
	o.TensileMPa = dflt.TensileMPa
	for _, p := range o.Prms {
		switch p.N {
		case "E":
			o.YoungMPa = p.V
		case "nu":
			o.Poisson = p.V
		case "rho":
			o.Rho = p.V
		case "c":
			o.CohesionMPa = p.V
		case "phi":
			o.FailAngleDeg = p.V
		case "st":
			o.TensileMPa = p.V
		case "jitter":
			o.Jitter = p.V
		default:
			return chk.Err("material %q: parameter %q is unknown", o.Name, p.N)
		}
	}
	if o.YoungMPa < 1e-14 || o.Rho < 1e-14 {
		return chk.Err("material %q: E and rho must be positive. E=%g rho=%g", o.Name, o.YoungMPa, o.Rho)
	}
	if o.Poisson <= -1 || o.Poisson >= 0.5 {
		return chk.Err("material %q: nu must be in (-1,0.5). nu=%g", o.Name, o.Poisson)
	}
	if o.Jitter < 0 || o.Jitter > 0.5 {
		return chk.Err("material %q: jitter must be in [0,0.5]. jitter=%g", o.Name, o.Jitter)
	}
	return
}

// PWave returns the P-wave velocity [m/s] of this material
func (o *Material) PWave() float64 {
	return solid.PWave(o.YoungMPa*1e6, o.Poisson, o.Rho)
}

// MatsData holds materials
type MatsData []*Material

// MatDb implements a database of materials indexed by voxel label
type MatDb struct {

	// input
	Materials MatsData `json:"materials"` // all materials

	// derived
	byLabel map[int]*Material
}

// ReadMat reads all materials from a .mat JSON file and derives their scalar
// properties using dflt for parameters the file omits
func ReadMat(fn string, dflt MatData) (mdb *MatDb, err error) {

	// new database
	mdb = new(MatDb)

	// read file
	b, err := io.ReadFile(fn)
	if err != nil {
		return nil, err
	}

	// decode
	err = json.Unmarshal(b, mdb)
	if err != nil {
		return nil, err
	}

	// derive and index by label
	mdb.byLabel = make(map[int]*Material)
	for _, m := range mdb.Materials {
		err = m.Init(dflt)
		if err != nil {
			return nil, err
		}
		if _, ok := mdb.byLabel[m.Label]; ok {
			return nil, chk.Err("duplicate material label %d (%q)", m.Label, m.Name)
		}
		mdb.byLabel[m.Label] = m
	}
	return
}

// Get returns the material bound to a voxel label
//  Note: returns nil if not found
func (o *MatDb) Get(label int) *Material {
	return o.byLabel[label]
}

// MaxPWave returns the largest P-wave velocity [m/s] among all materials
func (o *MatDb) MaxPWave() (vp float64) {
	for _, m := range o.Materials {
		if v := m.PWave(); v > vp {
			vp = v
		}
	}
	return
}

// BuildVolumes synthesises per-voxel density, Young's modulus and Poisson's
// ratio volumes from a segmented label volume. Voxels whose label has no
// material take the simulation defaults. Materials with jitter > 0 get their
// density and stiffness perturbed uniformly per voxel; call rnd.Init first
// for a reproducible sequence.
func (o *MatDb) BuildVolumes(labels *vol.U8, dflt MatData) (rho, young, poisson *vol.F32) {
	rho = vol.NewF32(labels.Nx, labels.Ny, labels.Nz)
	young = vol.NewF32(labels.Nx, labels.Ny, labels.Nz)
	poisson = vol.NewF32(labels.Nx, labels.Ny, labels.Nz)
	for i, l := range labels.X {
		m := o.Get(int(l))
		if m == nil {
			rho.X[i] = float32(dflt.Rho)
			young.X[i] = float32(dflt.YoungMPa)
			poisson.X[i] = float32(dflt.Poisson)
			continue
		}
		f := 1.0
		if m.Jitter > 0 {
			f = 1 + rnd.Float64(-m.Jitter, m.Jitter)
		}
		rho.X[i] = float32(m.Rho * f)
		young.X[i] = float32(m.YoungMPa * f)
		poisson.X[i] = float32(m.Poisson)
	}
	return
}

// String prints one material
func (o *Material) String() string {
	return io.Sf("    {\"name\":%q, \"label\":%d, \"E\":%g, \"nu\":%g, \"rho\":%g, \"c\":%g, \"phi\":%g, \"st\":%g}",
		o.Name, o.Label, o.YoungMPa, o.Poisson, o.Rho, o.CohesionMPa, o.FailAngleDeg, o.TensileMPa)
}

// String prints materials
func (o MatsData) String() string {
	l := "  \"materials\" : [\n"
	for i, m := range o {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("%v", m)
	}
	l += "\n  ]"
	return l
}

// String outputs all materials
func (o *MatDb) String() string {
	return io.Sf("{\n%v\n}", o.Materials)
}
