// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ignore

// StressPathDriver loads one material and drives its pointwise response
// along a proportional stress path: the trial stress ramps linearly to a
// target, the Mohr-Coulomb correction pulls it back to the yield surface and
// the brittle model accumulates tensile damage along the way.
package main

import (
	"encoding/json"
	"math"

	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"

	"github.com/mattemangia/gowave/inp"
	"github.com/mattemangia/gowave/mdl/solid"
)

// Input holds the driver options read from an .inp JSON file
type Input struct {
	SimFn    string    // .sim file with the material defaults and database
	MatLabel int       // voxel label in the materials database; -1 => defaults
	Nsteps   int       // number of loading increments
	SigMax   []float64 // [6] target stress [MPa]: xx, yy, zz, xy, xz, yz
	DirOut   string    // directory for the figure
	DoPlot   bool      // save the p-q path and damage figure

	// derived
	inpfn string
}

func (o *Input) PostProcess() {
	if o.Nsteps < 1 {
		o.Nsteps = 100
	}
	if len(o.SigMax) != 6 {
		// tension along z with shear: yields and damages
		o.SigMax = []float64{0, 0, 8, 4, 0, 0}
	}
	if o.DirOut == "" {
		o.DirOut = "/tmp/gowave"
	}
}

func (o Input) String() (l string) {
	l = io.ArgsTable("INPUT ARGUMENTS",
		"input filename", "inpfn", o.inpfn,
		"simulation filename", "SimFn", o.SimFn,
		"material label", "MatLabel", o.MatLabel,
		"number of increments", "Nsteps", o.Nsteps,
		"target stress [MPa]", "SigMax", io.Sf("%v", o.SigMax),
		"directory for figure", "DirOut", o.DirOut,
		"save figure", "DoPlot", o.DoPlot,
	)
	return
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// input data file
	var in Input
	in.inpfn, _ = io.ArgToFilename(0, "data/pathdrv", ".inp", true)

	// read and parse input data
	b, err := io.ReadFile(in.inpfn)
	if err != nil {
		io.PfRed("cannot read %s\n", in.inpfn)
		return
	}
	err = json.Unmarshal(b, &in)
	if err != nil {
		io.PfRed("cannot parse %s\n", in.inpfn)
		return
	}
	in.PostProcess()

	// print input table
	io.Pf("%v\n", in)

	// material properties from the simulation
	sim := inp.ReadSim(in.SimFn)
	mat := sim.Mat
	if in.MatLabel >= 0 && sim.MatModels != nil {
		m := sim.MatModels.Get(in.MatLabel)
		if m == nil {
			io.PfRed("cannot get material with label %d\n", in.MatLabel)
			return
		}
		mat.CohesionMPa = m.CohesionMPa
		mat.FailAngleDeg = m.FailAngleDeg
		mat.TensileMPa = m.TensileMPa
	}

	// models
	mc, err := solid.New("mohrcoulomb")
	if err != nil {
		io.PfRed("cannot allocate model: %v\n", err)
		return
	}
	err = mc.Init(dbf.Params{
		&dbf.P{N: "c", V: mat.CohesionMPa},
		&dbf.P{N: "phi", V: mat.FailAngleDeg},
		&dbf.P{N: "pconf", V: mat.ConfiningMPa},
	})
	if err != nil {
		io.PfRed("cannot initialise model: %v\n", err)
		return
	}
	br, err := solid.New("brittle")
	if err != nil {
		io.PfRed("cannot allocate model: %v\n", err)
		return
	}
	err = br.Init(dbf.Params{&dbf.P{N: "st", V: mat.TensileMPa}})
	if err != nil {
		io.PfRed("cannot initialise model: %v\n", err)
		return
	}
	corrector := mc.(solid.StressCorrector)
	updater := br.(solid.DamageUpdater)

	// drive the path
	pconf := mat.ConfiningMPa * 1e6
	n := in.Nsteps
	ptri := make([]float64, n)
	qtri := make([]float64, n)
	pcor := make([]float64, n)
	qcor := make([]float64, n)
	dmg := make([]float64, n)
	sig1 := make([]float64, n)
	steps := make([]float64, n)
	σ := make([]float64, 6)
	d := 0.0
	for s := 0; s < n; s++ {
		f := float64(s+1) / float64(n)
		for i := 0; i < 6; i++ {
			σ[i] = in.SigMax[i] * 1e6 * f
		}
		ptri[s], qtri[s] = pq(σ, pconf)
		corrector.Correct(σ)
		d = updater.Update(d, σ)
		pcor[s], qcor[s] = pq(σ, pconf)
		dmg[s] = d
		sig1[s] = solid.MaxPrincipal(σ)
		steps[s] = float64(s + 1)
	}

	// results table [MPa]
	io.PfWhite("%6s%12s%12s%12s%12s%10s\n", "step", "p", "qtrial", "q", "sig1", "damage")
	inc := n / 10
	if inc < 1 {
		inc = 1
	}
	for s := inc - 1; s < n; s += inc {
		io.Pf("%6d%12.4f%12.4f%12.4f%12.4f%10.5f\n",
			s+1, pcor[s]*1e-6, qtri[s]*1e-6, qcor[s]*1e-6, sig1[s]*1e-6, dmg[s])
	}

	// figure
	if in.DoPlot {
		plt.Reset(true, nil)

		// p-q plane with the yield line
		plt.Subplot(2, 1, 1)
		sφ := math.Sin(mat.FailAngleDeg * math.Pi / 180.0)
		c := mat.CohesionMPa
		pline := []float64{pcor[0] * 1e-6, pcor[n-1] * 1e-6}
		qline := []float64{c + pline[0]*sφ, c + pline[1]*sφ}
		toMPa(ptri)
		toMPa(qtri)
		toMPa(pcor)
		toMPa(qcor)
		plt.Plot(pline, qline, &plt.A{C: "k", Ls: "--", L: "yield"})
		plt.Plot(ptri, qtri, &plt.A{C: "b", Ls: ":", L: "trial"})
		plt.Plot(pcor, qcor, &plt.A{C: "r", M: ".", L: "corrected"})
		plt.Gll("$p\\;[MPa]$", "$q\\;[MPa]$", nil)

		// damage growth
		plt.Subplot(2, 1, 2)
		plt.Plot(steps, dmg, &plt.A{C: "m", Lw: 1.5, L: "$D$"})
		plt.Gll("step", "$D$", nil)
		err = plt.Save(in.DirOut, "pathdriver")
		if err != nil {
			io.PfRed("cannot save figure: %v\n", err)
		}
	}
}

// pq returns the mean pressure (confined, compression positive) and the
// deviatoric invariant q = √(3·J2) of σ [Pa]
func pq(σ []float64, pconf float64) (p, q float64) {
	mean := (σ[0] + σ[1] + σ[2]) / 3.0
	p = pconf - mean
	sxx := σ[0] - mean
	syy := σ[1] - mean
	szz := σ[2] - mean
	J2 := 0.5*(sxx*sxx+syy*syy+szz*szz) + σ[3]*σ[3] + σ[4]*σ[4] + σ[5]*σ[5]
	q = math.Sqrt(3.0 * J2)
	return
}

// toMPa converts values in place
func toMPa(v []float64) {
	for i := range v {
		v[i] *= 1e-6
	}
}
