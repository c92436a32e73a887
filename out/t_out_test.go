// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"context"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/mattemangia/gowave/fdtd"
	"github.com/mattemangia/gowave/inp"
	"github.com/mattemangia/gowave/vol"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_out01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out01. labels, styles and profiles")

	// labels
	chk.String(tst, GetTexLabel("vx", ""), "$v_x$")
	chk.String(tst, GetTexLabel("time", "[\\mu s]"), "$t\\;[\\mu s]$")
	chk.String(tst, GetTexLabel("q", ""), "$q$")

	// receiver styles
	sty := ReceiverStyles()
	chk.IntAssert(len(sty), 3)
	chk.String(tst, sty[2].L, "$v_z$")

	// profile styles cycle through the palette
	psty := ProfileStyles([]float64{1e-6, 2e-6})
	chk.IntAssert(len(psty), 2)
	chk.String(tst, psty[0].C, "b")
	chk.String(tst, psty[0].L, "t=1 us")
	chk.String(tst, psty[1].C, "g")

	// profile extraction picks the right column
	v := vol.NewF32(4, 3, 5)
	for k := 0; k < 5; k++ {
		v.Set(1, 2, k, float32(k)*0.5)
	}
	v.Set(0, 0, 3, 99)
	chk.Array(tst, "profile", 1e-15, zProfile(v, 1, 2), []float64{0, 0.5, 1, 1.5, 2})
}

func Test_out02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out02. report and plots from a small run")

	// small homogeneous run
	var sim inp.Simulation
	sim.SetDefault()
	sim.Key = "out02test"
	sim.Grid = inp.GridData{Nx: 10, Ny: 10, Nz: 10, PixelSize: 1e-3}
	sim.Source.Tx = []float64{0.56, 0.56, 0.12}
	sim.Source.Rx = []float64{0.56, 0.56, 0.89}
	sim.Control.Nsteps = 300
	sim.Out.SaveSeries = true
	sim.Out.SnapInterval = 100
	sim.Mem.AssumedRAM = 16 << 30
	sim.Derive()

	m := fdtd.NewMain(&sim, nil, chk.Verbose)
	res, err := m.Run(context.Background())
	if err != nil {
		tst.Errorf("run failed: %v\n", err)
		return
	}

	// the receiver series covers every completed step
	chk.IntAssert(len(res.RxVx), res.TotalTimeSteps)
	chk.IntAssert(len(res.RxVz), res.TotalTimeSteps)
	vmax := 0.0
	for _, v := range res.RxVz {
		if v > vmax {
			vmax = v
		}
		if -v > vmax {
			vmax = -v
		}
	}
	if vmax == 0 {
		tst.Errorf("the wave must reach the receiver\n")
	}

	// report
	Report(&sim, &m.Plan, res)

	// figures
	if chk.Verbose {
		err = PlotReceiver(res, sim.DirOut, "receiver")
		if err != nil {
			tst.Errorf("PlotReceiver failed: %v\n", err)
		}
		err = PlotProfiles(&sim, res, sim.DirOut, "profiles")
		if err != nil {
			tst.Errorf("PlotProfiles failed: %v\n", err)
		}
	}
}
