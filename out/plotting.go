// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/plt"
	"github.com/cpmech/gosl/utl"

	"github.com/mattemangia/gowave/fdtd"
	"github.com/mattemangia/gowave/inp"
	"github.com/mattemangia/gowave/vol"
)

// MaxProfileCurves bounds the number of snapshot profiles in one figure
const MaxProfileCurves = 8

// PlotReceiver plots the receiver velocity components and their magnitude
// over time, with the detected arrivals marked. The figure is saved as
// dirout/fnkey.png
func PlotReceiver(res *fdtd.Results, dirout, fnkey string) (err error) {

	// time axis [us]
	n := len(res.RxVx)
	if n < 1 {
		return chk.Err("there is no receiver series to plot")
	}
	t := utl.LinSpace(0, float64(n-1)*res.Dt*1e6, n)

	// components
	plt.Reset(true, nil)
	plt.Subplot(2, 1, 1)
	sty := ReceiverStyles()
	plt.Plot(t, res.RxVx, &sty[0])
	plt.Plot(t, res.RxVy, &sty[1])
	plt.Plot(t, res.RxVz, &sty[2])
	drawArrivals(res)
	plt.Gll(GetTexLabel("time", "[\\mu s]"), GetTexLabel("v", "[m/s]"), nil)

	// magnitude
	plt.Subplot(2, 1, 2)
	mag := make([]float64, n)
	for i := 0; i < n; i++ {
		mag[i] = math.Sqrt(res.RxVx[i]*res.RxVx[i] + res.RxVy[i]*res.RxVy[i] + res.RxVz[i]*res.RxVz[i])
	}
	plt.Plot(t, mag, &plt.A{C: "k", Lw: 1, L: GetTexLabel("vmag", "")})
	drawArrivals(res)
	plt.Gll(GetTexLabel("time", "[\\mu s]"), GetTexLabel("vmag", "[m/s]"), nil)
	return plt.Save(dirout, fnkey)
}

// PlotProfiles plots the velocity magnitude along the z column through the
// receiver, one curve per snapshot plus the final field. The figure is saved
// as dirout/fnkey.png
func PlotProfiles(sim *inp.Simulation, res *fdtd.Results, dirout, fnkey string) (err error) {

	// z axis [mm]
	if res.VelMag == nil {
		return chk.Err("there is no velocity field to plot")
	}
	nz := sim.Grid.Nz
	z := utl.LinSpace(0, float64(nz-1)*sim.Grid.PixelSize*1e3, nz)

	// column through the receiver
	i, j := sim.RxVox[0], sim.RxVox[1]

	// snapshot subset; long series are thinned to MaxProfileCurves
	stride := 1
	if len(res.Snapshots) > MaxProfileCurves {
		stride = (len(res.Snapshots) + MaxProfileCurves - 1) / MaxProfileCurves
	}
	var times []float64
	var curves [][]float64
	for s := 0; s < len(res.Snapshots); s += stride {
		times = append(times, res.Snapshots[s].SimTime)
		curves = append(curves, zProfile(res.Snapshots[s].Field, i, j))
	}

	// draw
	plt.Reset(true, nil)
	sty := ProfileStyles(times)
	for c := range curves {
		plt.Plot(z, curves[c], &sty[c])
	}
	plt.Plot(z, zProfile(res.VelMag, i, j), &plt.A{C: "k", Lw: 2, L: "final"})
	plt.Gll(GetTexLabel("z", "[mm]"), GetTexLabel("vmag", "[m/s]"), nil)
	return plt.Save(dirout, fnkey)
}

// drawArrivals marks the P and S arrival times [us] on the current axes
func drawArrivals(res *fdtd.Results) {
	if res.PArrivalStep >= 0 {
		plt.AxVline(float64(res.PArrivalStep)*res.Dt*1e6, &plt.A{C: "r", Ls: "--", L: "P"})
	}
	if res.SArrivalStep >= 0 {
		plt.AxVline(float64(res.SArrivalStep)*res.Dt*1e6, &plt.A{C: "m", Ls: ":", L: "S"})
	}
}

// zProfile extracts f along z at column (i,j)
func zProfile(f *vol.F32, i, j int) (p []float64) {
	p = make([]float64, f.Nz)
	for k := 0; k < f.Nz; k++ {
		p[k] = float64(f.At(i, j, k))
	}
	return
}
