// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdtd

import (
	"github.com/cpmech/gosl/io"
	"github.com/pbnjay/memory"

	"github.com/mattemangia/gowave/inp"
)

// memory policy constants
const (
	BytesPerVoxel    = 36       // 9 float32 field components
	HugeBytes        = 8 << 30  // fields at/above this size count as huge
	AssumedRAMBytes  = 16 << 30 // fallback when the system RAM cannot be detected
	RAMBudgetRatio   = 0.75     // fraction of system RAM available to field data
	MediumChunkDepth = 64       // slab depth for chunked runs that still fit in RAM
	SlowChunkDepth   = 32       // slab depth cap once offloading is needed
	MinLoadedChunks  = 3        // floor for the resident-chunk cap
)

// run modes
const (
	ModeFast   = "fast"   // single chunk, everything resident
	ModeMedium = "medium" // chunked for locality, no offloading
	ModeSlow   = "slow"   // chunked with LRU-bounded residency and disk offload
)

// ExecutionPlan holds the memory strategy decided once at run start
type ExecutionPlan struct {
	Mode            string // one of "fast", "medium", "slow"
	SystemRAM       int64  // detected or assumed system RAM [bytes]
	Budget          int64  // RAM available to field data [bytes]
	FieldBytes      int64  // estimated size of the 9 field components
	Huge            bool   // field at/above the huge threshold
	ChunkDepth      int    // depth (z extent) of each chunk
	Nchunks         int    // number of chunks
	ChunkBytes      int64  // memory of one full-depth chunk
	MaxLoadedChunks int    // resident-chunk cap; 0 => unlimited
	Offload         bool   // spill evicted chunks to disk
}

// Chunked tells whether the domain is split into more than one chunk
func (o *ExecutionPlan) Chunked() bool {
	return o.Nchunks > 1
}

// SelectPlan decides the memory strategy for a run. The decision is a pure
// function of the grid size and the available RAM; the simulation parameters
// are never modified.
func SelectPlan(sim *inp.Simulation) (plan ExecutionPlan) {

	// system RAM; AssumedRAM overrides detection
	plan.SystemRAM = sim.Mem.AssumedRAM
	if plan.SystemRAM == 0 {
		plan.SystemRAM = int64(memory.TotalMemory())
		if plan.SystemRAM == 0 {
			plan.SystemRAM = AssumedRAMBytes
			io.Pfyel("warning: cannot detect system RAM; assuming %d GB\n", AssumedRAMBytes>>30)
		}
	}
	plan.Budget = int64(float64(plan.SystemRAM) * RAMBudgetRatio)
	plan.FieldBytes = int64(sim.Grid.Nvoxels()) * BytesPerVoxel
	plan.Huge = plan.FieldBytes >= HugeBytes

	nz := sim.Grid.Nz
	sliceBytes := int64(sim.Grid.Nx) * int64(sim.Grid.Ny) * BytesPerVoxel

	switch {

	// everything resident in one slab
	case plan.FieldBytes <= plan.Budget && !plan.Huge && !sim.Mem.ForceChunked:
		plan.Mode = ModeFast
		plan.ChunkDepth = nz

	// chunked for locality; still no need to offload
	case plan.FieldBytes <= plan.Budget:
		plan.Mode = ModeMedium
		plan.ChunkDepth = MediumChunkDepth
		if sim.Mem.ForceChunked && nz < MediumChunkDepth {
			// small grids are split into four slabs
			plan.ChunkDepth = (nz + 3) / 4
		}

	// over budget: bounded residency with disk offload
	default:
		plan.Mode = ModeSlow
		plan.ChunkDepth = SlowChunkDepth
		if plan.ChunkDepth > nz {
			plan.ChunkDepth = nz
		}
		// the cap must let MinLoadedChunks chunks share the budget
		for plan.ChunkDepth > 1 && sliceBytes*int64(plan.ChunkDepth) > plan.Budget/MinLoadedChunks {
			plan.ChunkDepth /= 2
		}
		plan.Offload = sim.Mem.Offload
	}

	if plan.ChunkDepth > nz {
		plan.ChunkDepth = nz
	}
	if plan.ChunkDepth < 1 {
		plan.ChunkDepth = 1
	}
	plan.Nchunks = (nz + plan.ChunkDepth - 1) / plan.ChunkDepth
	plan.ChunkBytes = sliceBytes * int64(plan.ChunkDepth)

	if plan.Mode == ModeSlow {
		plan.MaxLoadedChunks = int(plan.Budget / plan.ChunkBytes)
		if plan.MaxLoadedChunks < MinLoadedChunks {
			plan.MaxLoadedChunks = MinLoadedChunks
		}
	}
	return
}

// String returns a one-line description of the plan
func (o *ExecutionPlan) String() string {
	nres := "unlimited"
	if o.MaxLoadedChunks > 0 {
		nres = io.Sf("%d", o.MaxLoadedChunks)
	}
	return io.Sf("mode=%s field=%.2f MB budget=%.2f MB chunks=%d depth=%d resident=%s offload=%v",
		o.Mode, float64(o.FieldBytes)/1024.0/1024.0, float64(o.Budget)/1024.0/1024.0,
		o.Nchunks, o.ChunkDepth, nres, o.Offload)
}
