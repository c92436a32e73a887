// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdtd

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/mattemangia/gowave/inp"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_plan01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("plan01. small grids run on a single chunk")

	var sim inp.Simulation
	sim.SetDefault()
	sim.Grid = inp.GridData{Nx: 100, Ny: 100, Nz: 100, PixelSize: 1e-3}
	sim.Mem.AssumedRAM = 16 << 30
	sim.Derive()

	plan := SelectPlan(&sim)
	io.Pforan("plan = %v\n", &plan)
	chk.String(tst, plan.Mode, ModeFast)
	chk.IntAssert(plan.Nchunks, 1)
	chk.IntAssert(plan.ChunkDepth, 100)
	chk.IntAssert(plan.MaxLoadedChunks, 0)
	if plan.Chunked() {
		tst.Errorf("fast path must not be chunked\n")
	}
	if plan.Offload {
		tst.Errorf("fast path must not offload\n")
	}
	if plan.Huge {
		tst.Errorf("36 MB of fields is not huge\n")
	}

	// the decision must not touch the input
	if !sim.Mem.Offload {
		tst.Errorf("plan selection must not modify the simulation input\n")
	}
}

func Test_plan02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("plan02. grids over budget get bounded residency")

	var sim inp.Simulation
	sim.SetDefault()
	sim.Grid = inp.GridData{Nx: 256, Ny: 256, Nz: 256, PixelSize: 1e-3}
	sim.Mem.AssumedRAM = 256 << 20 // fields (604 MB) exceed the 192 MB budget
	sim.Derive()

	plan := SelectPlan(&sim)
	io.Pforan("plan = %v\n", &plan)
	chk.String(tst, plan.Mode, ModeSlow)
	chk.IntAssert(plan.ChunkDepth, 16)
	chk.IntAssert(plan.Nchunks, 16)
	chk.IntAssert(plan.MaxLoadedChunks, 5)
	if plan.MaxLoadedChunks < MinLoadedChunks {
		tst.Errorf("the resident-chunk cap must never drop below %d\n", MinLoadedChunks)
	}
	if !plan.Offload {
		tst.Errorf("over-budget runs with permission must offload\n")
	}

	// the cap must let at least MinLoadedChunks chunks coexist
	if plan.ChunkBytes*MinLoadedChunks > plan.Budget {
		tst.Errorf("%d chunks of %d bytes do not fit the budget %d\n", MinLoadedChunks, plan.ChunkBytes, plan.Budget)
	}
}

func Test_plan03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("plan03. forced chunking splits small grids")

	var sim inp.Simulation
	sim.SetDefault()
	sim.Grid = inp.GridData{Nx: 24, Ny: 24, Nz: 24, PixelSize: 1e-3}
	sim.Mem.AssumedRAM = 16 << 30
	sim.Mem.ForceChunked = true
	sim.Derive()

	plan := SelectPlan(&sim)
	io.Pforan("plan = %v\n", &plan)
	chk.String(tst, plan.Mode, ModeMedium)
	chk.IntAssert(plan.ChunkDepth, 6)
	chk.IntAssert(plan.Nchunks, 4)
	chk.IntAssert(plan.MaxLoadedChunks, 0)
	if plan.Offload {
		tst.Errorf("chunking for locality must not offload\n")
	}
}

func Test_plan04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("plan04. huge grids within budget chunk for locality")

	var sim inp.Simulation
	sim.SetDefault()
	sim.Grid = inp.GridData{Nx: 640, Ny: 640, Nz: 640, PixelSize: 1e-3}
	sim.Mem.AssumedRAM = 16 << 30 // fields (8.8 GB) fit the 12 GB budget
	sim.Derive()

	plan := SelectPlan(&sim)
	io.Pforan("plan = %v\n", &plan)
	chk.String(tst, plan.Mode, ModeMedium)
	chk.IntAssert(plan.ChunkDepth, MediumChunkDepth)
	chk.IntAssert(plan.Nchunks, 10)
	if !plan.Huge {
		tst.Errorf("8.8 GB of fields is huge\n")
	}
	if plan.Offload {
		tst.Errorf("runs within budget must not offload\n")
	}
}
