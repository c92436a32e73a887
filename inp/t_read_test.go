// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/mattemangia/gowave/vol"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_mat01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mat01. materials database")

	var dflt Simulation
	dflt.SetDefault()

	mdb, err := ReadMat("data/rocks.mat", dflt.Mat)
	if err != nil {
		tst.Errorf("cannot read rocks.mat:\n%v", err)
		return
	}
	io.Pforan("rocks.mat just read:\n%v\n", mdb)

	chk.IntAssert(len(mdb.Materials), 3)

	calcite := mdb.Get(0)
	quartz := mdb.Get(1)
	pore := mdb.Get(2)
	if calcite == nil || quartz == nil || pore == nil {
		tst.Errorf("labels 0,1,2 must resolve to materials\n")
		return
	}

	chk.String(tst, calcite.Name, "calcite")
	chk.Float64(tst, "calcite: E  ", 1e-15, calcite.YoungMPa, 10000)
	chk.Float64(tst, "calcite: Vp ", 1e-2, calcite.PWave(), 2108.185)
	chk.Float64(tst, "quartz: E   ", 1e-15, quartz.YoungMPa, 95000)
	chk.Float64(tst, "quartz: nu  ", 1e-15, quartz.Poisson, 0.08)
	chk.Float64(tst, "quartz: st  ", 1e-15, quartz.TensileMPa, 50)
	chk.Float64(tst, "pore: rho   ", 1e-15, pore.Rho, 1.2)
	chk.Float64(tst, "pore: jitter", 1e-15, pore.Jitter, 0.05)

	// defaults fill parameters the file omits
	chk.Float64(tst, "quartz: c (default)", 1e-15, quartz.CohesionMPa, dflt.Mat.CohesionMPa)

	// the fastest material governs the CFL bound
	chk.Float64(tst, "max Vp", 1e-10, mdb.MaxPWave(), quartz.PWave())
	if mdb.MaxPWave() < calcite.PWave() {
		tst.Errorf("max Vp smaller than matrix Vp\n")
	}
}

func Test_mat02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mat02. invalid materials")

	var dflt Simulation
	dflt.SetDefault()

	io.WriteStringToFileD("/tmp/gowave/inp", "bad.mat",
		`{"materials":[{"name":"x","label":0,"prms":[{"n":"kappa","v":1}]}]}`)
	if _, err := ReadMat("/tmp/gowave/inp/bad.mat", dflt.Mat); err == nil {
		tst.Errorf("unknown parameter must be an error\n")
	}

	io.WriteStringToFileD("/tmp/gowave/inp", "dup.mat",
		`{"materials":[{"name":"a","label":3,"prms":[]},{"name":"b","label":3,"prms":[]}]}`)
	if _, err := ReadMat("/tmp/gowave/inp/dup.mat", dflt.Mat); err == nil {
		tst.Errorf("duplicate label must be an error\n")
	}
}

func Test_mat03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mat03. property volumes from labels")

	var dflt Simulation
	dflt.SetDefault()

	mdb, err := ReadMat("data/rocks.mat", dflt.Mat)
	if err != nil {
		tst.Errorf("cannot read rocks.mat:\n%v", err)
		return
	}

	labels := vol.NewU8(4, 4, 4)
	labels.Set(1, 2, 3, 1) // one quartz voxel
	labels.Set(2, 2, 2, 9) // label without material => defaults

	rho, young, poisson := mdb.BuildVolumes(labels, dflt.Mat)
	chk.Float64(tst, "rho (calcite)   ", 1e-7, float64(rho.At(0, 0, 0)), 2700)
	chk.Float64(tst, "E (quartz)      ", 1e-7, float64(young.At(1, 2, 3)), 95000)
	chk.Float64(tst, "nu (quartz)     ", 1e-7, float64(poisson.At(1, 2, 3)), 0.08)
	chk.Float64(tst, "rho (no material)", 1e-7, float64(rho.At(2, 2, 2)), dflt.Mat.Rho)
}

func Test_lab01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lab01. label volume from raw file")

	nx, ny, nz := 3, 2, 2
	b := make([]byte, nx*ny*nz)
	for p := range b {
		b[p] = byte(p % 5)
	}
	io.WriteBytesToFileD("/tmp/gowave/inp", "labels.raw", b)

	labels, err := ReadLabels("/tmp/gowave/inp/labels.raw", nx, ny, nz)
	if err != nil {
		tst.Errorf("cannot read labels:\n%v", err)
		return
	}

	// x-fastest: voxel (i,j,k) holds byte i+j*nx+k*nx*ny of the file
	chk.IntAssert(int(labels.At(0, 0, 0)), 0)
	chk.IntAssert(int(labels.At(1, 0, 1)), 2)
	chk.IntAssert(int(labels.At(2, 1, 1)), 1)

	if _, err := ReadLabels("/tmp/gowave/inp/labels.raw", nx, ny, nz+1); err == nil {
		tst.Errorf("size mismatch must be an error\n")
	}
	if _, err := ReadLabels("/tmp/gowave/inp/nosuch.raw", nx, ny, nz); err == nil {
		tst.Errorf("missing file must be an error\n")
	}
}

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim01. read simulation file")

	sim := ReadSim("data/spheretest.sim")
	if sim == nil {
		tst.Errorf("test failed\n")
		return
	}
	io.Pfyel("key    = %v\n", sim.Key)
	io.Pfyel("dirout = %v\n", sim.DirOut)
	io.Pfyel("dt     = %v\n", sim.Dt)

	chk.String(tst, sim.Key, "spheretest")
	chk.IntAssert(sim.Grid.Nx, 24)
	chk.IntAssert(sim.Grid.Nvoxels(), 24*24*24)
	chk.Float64(tst, "pixelsize", 1e-15, sim.Grid.PixelSize, 0.001)
	chk.IntAssert(sim.Control.Nsteps, 500)
	if !sim.Flags.Elastic || !sim.Flags.Plastic || !sim.Flags.Brittle {
		tst.Errorf("physics toggles not read correctly\n")
	}

	// tx at the z=0 face centre, rx at the far face centre
	chk.Ints(tst, "txvox", []int{sim.TxVox[0], sim.TxVox[1], sim.TxVox[2]}, []int{11, 11, 0})
	chk.Ints(tst, "rxvox", []int{sim.RxVox[0], sim.RxVox[1], sim.RxVox[2]}, []int{11, 11, 23})
	chk.Float64(tst, "tx-rx distance", 1e-15, sim.TxRxDistance(), 23*0.001)

	// materials loaded and the fastest one bounds dt
	if sim.MatModels == nil {
		tst.Errorf("materials database must be loaded\n")
		return
	}
	dtmax := 0.5 * sim.Grid.PixelSize / (math.Sqrt(3) * sim.MatModels.MaxPWave())
	chk.Float64(tst, "dt (CFL, fastest material)", 1e-18, sim.Dt, dtmax)
	if sim.Dt > 0.5*sim.Grid.PixelSize/(math.Sqrt(3)*sim.PWaveVelocity()) {
		tst.Errorf("dt must not exceed the bound from the scalar defaults\n")
	}
}

func Test_sim02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim02. defaults and derived quantities")

	var sim Simulation
	sim.SetDefault()
	sim.Grid = GridData{Nx: 10, Ny: 10, Nz: 10, PixelSize: 0.001}
	sim.Control.Nsteps = 100
	sim.Derive()

	io.Pforan("Vp = %v\n", sim.PWaveVelocity())
	io.Pforan("Vs = %v\n", sim.SWaveVelocity())
	io.Pforan("dt = %v\n", sim.Dt)

	// E=1e10 Pa, nu=0.25, rho=2700 => Vp=2108.185, Vs=1217.161
	chk.Float64(tst, "Vp", 1e-2, sim.PWaveVelocity(), 2108.185)
	chk.Float64(tst, "Vs", 1e-2, sim.SWaveVelocity(), 1217.161)
	chk.Float64(tst, "dt", 1e-12, sim.Dt, 0.5*0.001/(math.Sqrt(3)*sim.PWaveVelocity()))

	// stability never loosens: dtfactor above one is ignored
	sim.Control.DtFactor = 4
	sim.Derive()
	chk.Float64(tst, "dt (factor clamped)", 1e-12, sim.Dt, 0.5*0.001/(math.Sqrt(3)*sim.PWaveVelocity()))

	// half factor tightens
	sim.Control.DtFactor = 0.5
	sim.Derive()
	chk.Float64(tst, "dt (half)", 1e-12, sim.Dt, 0.25*0.001/(math.Sqrt(3)*sim.PWaveVelocity()))
}
