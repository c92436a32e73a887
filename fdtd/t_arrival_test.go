// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdtd

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_arrival01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("arrival01. P and S transitions on a synthetic signal")

	det := NewDetector(2, 0)
	chk.String(tst, det.StateName(), "none")

	// the amplitude jumps above baseline+threshold at step 120; a transverse
	// pulse at 150 falls inside the post-P gate and must be ignored, the one
	// at 200 must be recorded
	for step := 0; step < 300; step++ {
		var vx, vz float64
		if step >= 120 {
			vz = 0.06
		}
		if step == 150 || step >= 200 {
			vx = 0.03
		}
		det.Observe(step, vx, 0, vz)
	}
	io.Pf("P at %d, S at %d\n", det.PStep, det.SStep)
	chk.IntAssert(det.PStep, 120)
	chk.IntAssert(det.SStep, 200)
	chk.IntAssert(det.State, PAndSArrived)
	chk.String(tst, det.StateName(), "P+S")

	// both transitions are one-way
	det.Observe(400, 9, 9, 9)
	chk.IntAssert(det.PStep, 120)
	chk.IntAssert(det.SStep, 200)
}

func Test_arrival02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("arrival02. baseline shifts the P threshold")

	det := NewDetector(2, 0.5)
	det.Observe(10, 0, 0, 0.52) // 0.52 < 0.5+0.05
	chk.IntAssert(det.State, NoArrival)
	det.Observe(11, 0, 0, 0.56)
	chk.IntAssert(det.State, PArrived)
	chk.IntAssert(det.PStep, 11)

	// transverse magnitude ignores the propagation axis component
	tr := det.Transverse(0.003, 0.004, 123.0)
	chk.Float64(tst, "transverse", 1e-15, tr, 0.005)
}
