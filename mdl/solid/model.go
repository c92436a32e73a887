// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solid implements pointwise material response models for voxels.
// Models operate on one voxel's stress state at a time; the wave kernel owns
// the field arrays and calls these corrections after each explicit update.
package solid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Model defines the interface for voxel material models
type Model interface {
	Init(prms dbf.Params) error // initialises model
	GetPrms() dbf.Params        // gets (an example) of parameters
}

// StressCorrector defines models that pull an inadmissible trial stress back
// to an admissible state. σ holds 6 components: xx, yy, zz, xy, xz, yz [Pa].
// Correct modifies σ in place and reports whether a correction occurred.
type StressCorrector interface {
	Correct(σ []float64) bool
}

// DamageUpdater defines models that accumulate a scalar damage value in [0,1]
// from a stress state. Damage never decreases.
type DamageUpdater interface {
	Update(d float64, σ []float64) float64
}

// New returns a new solid model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'solid' database", name)
	}
	return allocator(), nil
}

// allocators holds all available solid models; modelname => allocator
var allocators = map[string]func() Model{}
