// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Gowave simulates elastic wave propagation through voxel volumes with an
// explicit finite-difference time-domain method.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/mattemangia/gowave/fdtd"
	"github.com/mattemangia/gowave/inp"
	"github.com/mattemangia/gowave/out"
	"github.com/mattemangia/gowave/vol"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v\n", err)
			io.Pf("See location of error below:\n")
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
			os.Exit(1)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".sim", true)
	verbose := io.ArgToBool(1, true)
	doplot := io.ArgToBool(2, false)
	doprof := io.ArgToInt(3, 0)

	// message
	if verbose {
		io.PfWhite("\nGowave Version 1.0 -- 3D Elastic Wave Propagation\n")
		io.Pf("Copyright 2026 The Gowave Authors. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n")

		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
			"save figures", "doplot", doplot,
			"profiling: 0=none 1=CPU 2=MEM", "doprof", doprof,
		))
	}

	// profiling?
	if doprof > 0 {
		defer utl.DoProf(false, doprof)()
	}

	// simulation data
	sim := inp.ReadSim(fnamepath)

	// segmented label volume, when the grid names one
	var labels *vol.U8
	if sim.LabelsPath != "" {
		var err error
		labels, err = inp.ReadLabels(sim.LabelsPath, sim.Grid.Nx, sim.Grid.Ny, sim.Grid.Nz)
		if err != nil {
			chk.Panic("cannot read labels volume:\n%v", err)
		}
	}
	m := fdtd.NewMain(sim, labels, verbose)

	// interrupts cancel the run; partial results are still assembled
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// run simulation
	res, err := m.Run(ctx)
	if err != nil {
		chk.Panic("Run failed:\n%v", err)
	}

	// report
	out.Report(sim, &m.Plan, res)

	// figures
	if doplot {
		err = out.PlotReceiver(res, sim.DirOut, sim.Key+"-receiver")
		if err == nil {
			err = out.PlotProfiles(sim, res, sim.DirOut, sim.Key+"-profiles")
		}
		if err != nil {
			io.PfRed("plotting failed: %v\n", err)
		} else if verbose {
			io.Pf("figures saved in %s\n", sim.DirOut)
		}
	}
}
