// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdtd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_cache01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cache01. least-recently-used eviction order")

	dir := filepath.Join(os.TempDir(), "gowave", "cache01")
	defer os.RemoveAll(dir)
	plan := ExecutionPlan{
		Mode:            ModeSlow,
		ChunkDepth:      4,
		Nchunks:         4,
		MaxLoadedChunks: 2,
		Offload:         true,
	}
	s := NewStore(&plan, 4, 4, 16, dir, chk.Verbose)
	chk.IntAssert(s.N(), 4)

	// first touches allocate zeroed chunks
	s.EnsureResident(0)
	s.Chunk(0).Vx.X[5] = 1.25 // marker to verify the reload
	s.EnsureResident(1)
	chk.IntAssert(s.ResidentCount(), 2)

	// chunk 2 forces an eviction; 0 is the oldest
	s.EnsureResident(2)
	chk.IntAssert(s.ResidentCount(), 2)
	if !s.Chunk(0).Offloaded {
		tst.Errorf("chunk 0 must be evicted first\n")
	}
	if !s.Chunk(1).Resident() {
		tst.Errorf("chunk 1 must still be resident\n")
	}

	// reusing chunk 0 reloads it and evicts 1
	s.EnsureResident(0)
	if !s.Chunk(1).Offloaded {
		tst.Errorf("chunk 1 must be evicted before chunk 2\n")
	}
	chk.Float64(tst, "reloaded marker", 1e-17, float64(s.Chunk(0).Vx.X[5]), 1.25)

	// chunk 3 evicts 2, since 0 was reused more recently
	s.EnsureResident(3)
	if !s.Chunk(2).Offloaded {
		tst.Errorf("chunk 2 must be evicted when chunk 3 loads\n")
	}
	if !s.Chunk(0).Resident() || !s.Chunk(3).Resident() {
		tst.Errorf("chunks 0 and 3 must end up resident\n")
	}
	chk.IntAssert(s.ResidentCount(), 2)

	// evicted chunks left side-files behind
	for _, i := range []int{1, 2} {
		fn := s.Chunk(i).FileName(dir)
		if _, err := os.Stat(fn); err != nil {
			tst.Errorf("side-file %q must exist: %v\n", fn, err)
		}
	}
}

func Test_cache02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cache02. clearing the cache and the running guard")

	dir := filepath.Join(os.TempDir(), "gowave", "cache02")
	defer os.RemoveAll(dir)
	plan := ExecutionPlan{
		Mode:            ModeSlow,
		ChunkDepth:      2,
		Nchunks:         3,
		MaxLoadedChunks: 2,
		Offload:         true,
	}
	s := NewStore(&plan, 4, 4, 6, dir, chk.Verbose)
	s.EnsureResident(0)
	s.EnsureResident(1)
	s.EnsureResident(2) // offloads chunk 0

	// refused while a simulation is running
	s.SetRunning(true)
	if s.ClearCache() {
		tst.Errorf("clearing must be refused while running\n")
	}
	if !s.Chunk(1).Resident() {
		tst.Errorf("a refused clear must not touch the chunks\n")
	}

	// allowed once stopped
	s.SetRunning(false)
	if !s.ClearCache() {
		tst.Errorf("clearing must succeed when no simulation is running\n")
	}
	chk.IntAssert(s.ResidentCount(), 0)
	io.Pf("resident bytes after clear = %d\n", s.ResidentBytes())
	chk.IntAssert(int(s.ResidentBytes()), 0)
	for i := 0; i < s.N(); i++ {
		c := s.Chunk(i)
		if c.Resident() || c.Offloaded {
			tst.Errorf("chunk %d must be empty after a clear\n", i)
		}
		if _, err := os.Stat(c.FileName(dir)); !os.IsNotExist(err) {
			tst.Errorf("side-file of chunk %d must be deleted\n", i)
		}
	}
}
