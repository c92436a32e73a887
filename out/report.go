// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements simulation output handling: text reports of a run
// and plots of the receiver series and wave field profiles
package out

import (
	"github.com/cpmech/gosl/io"

	"github.com/mattemangia/gowave/fdtd"
	"github.com/mattemangia/gowave/inp"
)

// Report prints a summary of a finished (or cancelled) run: the governing
// input, the memory strategy, and the measured arrivals against the
// analytical wave velocities of the default material
func Report(sim *inp.Simulation, plan *fdtd.ExecutionPlan, res *fdtd.Results) {

	// input
	io.PfWhite("\nInput\n")
	io.Pf("%-12s = %d x %d x %d voxels, h = %g m\n", "grid", sim.Grid.Nx, sim.Grid.Ny, sim.Grid.Nz, sim.Grid.PixelSize)
	io.Pf("%-12s = %s wavelet, %g kHz, %g J along %q\n", "source", sim.Source.Wavelet, sim.Source.FreqKHz, sim.Source.EnergyJ, sim.Source.Axis)
	io.Pf("%-12s = tx%v => rx%v, distance = %g m\n", "path", sim.TxVox, sim.RxVox, sim.TxRxDistance())
	io.Pf("%-12s = elastic=%v plastic=%v brittle=%v gpu=%v\n", "physics", sim.Flags.Elastic, sim.Flags.Plastic, sim.Flags.Brittle, sim.Flags.GPU)
	if plan != nil {
		io.Pf("%-12s = %v\n", "memory", plan)
	}

	// run record
	io.PfWhite("\nRun\n")
	io.Pf("%-12s = %d of %d (dt = %g s)\n", "steps", res.TotalTimeSteps, sim.Control.Nsteps, res.Dt)
	io.Pf("%-12s = %v\n", "elapsed", res.Elapsed)
	if res.Cancelled {
		io.Pfyel("%-12s = run was cancelled before completion\n", "note")
	}
	if n := len(res.Snapshots); n > 0 {
		io.Pf("%-12s = %d (every %d steps)\n", "snapshots", n, sim.Out.SnapInterval)
	}
	if res.Damage != nil {
		io.Pf("%-12s = %g (max)\n", "damage", res.Damage.MaxAbs())
	}

	// arrivals against the analytical velocities
	io.PfWhite("\nArrivals\n")
	vp, vs := sim.PWaveVelocity(), sim.SWaveVelocity()
	reportArrival("P arrival", res.PArrivalStep, res.Dt, res.PWaveVelocity, vp)
	reportArrival("S arrival", res.SArrivalStep, res.Dt, res.SWaveVelocity, vs)
	if res.VpVsRatio > 0 {
		io.Pf("%-12s = %.4f (analytical = %.4f)\n", "Vp/Vs", res.VpVsRatio, vp/vs)
	}
	io.Pf("\n")
}

// reportArrival prints one arrival line with the deviation from the
// analytical velocity
func reportArrival(name string, step int, dt, v, ana float64) {
	if step < 0 {
		io.Pf("%-12s = not detected\n", name)
		return
	}
	io.Pf("%-12s = step %d (t = %.4g s) => %.1f m/s (analytical = %.1f, dev = %+.1f%%)\n",
		name, step, float64(step)*dt, v, ana, 100*(v-ana)/ana)
}
