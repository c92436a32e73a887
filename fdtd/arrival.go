// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdtd

import "math"

// arrival detection constants
const (
	PThreshold = 0.05 // amplitude above baseline marking the P arrival [m/s]
	SGateSteps = 50   // steps after P before S detection is armed
)

// arrival states
const (
	NoArrival    = iota // nothing detected yet
	PArrived            // compressional arrival recorded
	PAndSArrived        // shear arrival recorded as well
)

// Receiver senses the velocity at the receiver voxel
type Receiver struct {
	Vox  [3]int // receiver voxel
	Axis int    // propagation axis component index
}

// Sample returns the velocity components at the receiver. ok is false when
// the receiver voxel lies outside chunk c's window.
func (o *Receiver) Sample(c *Chunk) (vx, vy, vz float64, ok bool) {
	z := o.Vox[2]
	if z < c.StartZ || z >= c.StartZ+c.Depth {
		return
	}
	p := o.Vox[0] + o.Vox[1]*c.Nx + (z-c.StartZ)*c.Nx*c.Ny
	return float64(c.Vx.X[p]), float64(c.Vy.X[p]), float64(c.Vz.X[p]), true
}

// Detector is the one-way arrival state machine. The P arrival fires when
// the receiver amplitude first exceeds baseline plus threshold; the S
// arrival fires on the transverse amplitude exceeding half the threshold,
// armed only SGateSteps after P. Recorded steps are absolute and never
// re-evaluated.
type Detector struct {
	State    int     // one of NoArrival, PArrived, PAndSArrived
	Baseline float64 // receiver amplitude captured before stepping begins
	PStep    int     // absolute time step of the P arrival; -1 until set
	SStep    int     // absolute time step of the S arrival; -1 until set
	axis     int     // propagation axis component index
}

// NewDetector returns a detector in the NoArrival state
func NewDetector(axis int, baseline float64) *Detector {
	return &Detector{Baseline: baseline, PStep: -1, SStep: -1, axis: axis}
}

// Observe feeds one receiver sample taken at the given absolute step
func (o *Detector) Observe(step int, vx, vy, vz float64) {
	switch o.State {
	case NoArrival:
		if math.Sqrt(vx*vx+vy*vy+vz*vz) > o.Baseline+PThreshold {
			o.State = PArrived
			o.PStep = step
		}
	case PArrived:
		if step >= o.PStep+SGateSteps && o.Transverse(vx, vy, vz) > PThreshold/2 {
			o.State = PAndSArrived
			o.SStep = step
		}
	}
}

// Transverse returns the magnitude of the velocity components perpendicular
// to the propagation axis
func (o *Detector) Transverse(vx, vy, vz float64) float64 {
	switch o.axis {
	case 0:
		return math.Sqrt(vy*vy + vz*vz)
	case 1:
		return math.Sqrt(vx*vx + vz*vz)
	}
	return math.Sqrt(vx*vx + vy*vy)
}

// StateName returns a human readable state label
func (o *Detector) StateName() string {
	switch o.State {
	case PArrived:
		return "P"
	case PAndSArrived:
		return "P+S"
	}
	return "none"
}
