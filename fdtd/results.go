// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdtd

import (
	"time"

	"github.com/cpmech/gosl/io"

	"github.com/mattemangia/gowave/vol"
)

// Snapshot captures the wave field at one time step. For huge runs the field
// is the running max-velocity magnitude instead of the instantaneous one.
type Snapshot struct {
	TimeStep int      // absolute step index
	SimTime  float64  // step · dt [s]
	Field    *vol.F32 // combined velocity magnitude over the whole grid
}

// Results holds everything a finished (or cancelled) run produced. The
// structure is assembled once and not modified afterwards.
type Results struct {

	// final fields
	Vx, Vy, Vz *vol.F32 // assembled velocity components; nil when assembly was skipped
	VelMag     *vol.F32 // combined velocity magnitude, or the max-velocity stand-in
	MaxVel     *vol.F32 // running maximum velocity magnitude over the run
	Damage     *vol.F32 // accumulated damage; all zeros when the brittle model is off
	Labels     *vol.U8  // material labels passed in by the caller; may be nil

	// arrivals
	PArrivalStep  int     // absolute step of the P arrival; -1 if none detected
	SArrivalStep  int     // absolute step of the S arrival; -1 if none detected
	PWaveVelocity float64 // apparent P velocity from the arrival step [m/s]
	SWaveVelocity float64 // apparent S velocity from the arrival step [m/s]
	VpVsRatio     float64 // Vp/Vs; 0 unless both arrivals were detected

	// run record
	TotalTimeSteps int           // time steps actually completed
	Dt             float64       // time step [s]
	Cancelled      bool          // run ended early through the context
	Elapsed        time.Duration // wall-clock duration of the run

	// time series
	Snapshots        []*Snapshot // captured every SnapInterval steps when enabled
	RxVx, RxVy, RxVz []float64   // receiver velocity components, one sample per step
}

// arrivalVelocity converts an arrival step into an apparent velocity over
// the transmitter-receiver distance
func arrivalVelocity(dist float64, step int, dt float64) float64 {
	if step <= 0 || dt <= 0 {
		return 0
	}
	return dist / (float64(step) * dt)
}

// String returns a summary of the run for reports
func (o *Results) String() string {
	l := io.Sf("steps     = %d (dt = %g s, elapsed = %v)\n", o.TotalTimeSteps, o.Dt, o.Elapsed)
	if o.Cancelled {
		l += "cancelled = true\n"
	}
	l += io.Sf("P arrival = step %d => Vp = %.1f m/s\n", o.PArrivalStep, o.PWaveVelocity)
	l += io.Sf("S arrival = step %d => Vs = %.1f m/s\n", o.SArrivalStep, o.SWaveVelocity)
	if o.VpVsRatio > 0 {
		l += io.Sf("Vp/Vs     = %.4f\n", o.VpVsRatio)
	}
	l += io.Sf("snapshots = %d\n", len(o.Snapshots))
	return l
}
