// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdtd

import (
	"container/list"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Store owns all chunks of a run and tracks their residency. Eviction
// follows strict least-recently-used order with ties broken by insertion
// order. All methods must be called from the single driving task; the Store
// is not safe for concurrent use.
type Store struct {

	// configuration
	chunks    []*Chunk
	dir       string // offload directory for side-files
	offload   bool   // spill evicted chunks to disk
	maxLoaded int    // resident-chunk cap; 0 => unlimited
	budget    int64  // resident-bytes cap; 0 => unlimited
	verbose   bool

	// state
	access        *list.List      // resident chunk indices, front = least recently used
	elems         []*list.Element // chunk index => list element; nil when not resident
	residentBytes int64
	running       bool // a simulation is using this store
}

// NewStore builds the chunks prescribed by the plan and prepares the offload
// directory when spilling is enabled
func NewStore(plan *ExecutionPlan, nx, ny, nz int, dir string, verbose bool) (o *Store) {
	o = new(Store)
	o.dir = dir
	o.offload = plan.Offload
	o.maxLoaded = plan.MaxLoadedChunks
	if plan.Mode == ModeSlow {
		o.budget = plan.Budget
	}
	o.verbose = verbose
	o.chunks = make([]*Chunk, plan.Nchunks)
	for i := 0; i < plan.Nchunks; i++ {
		startZ := i * plan.ChunkDepth
		depth := plan.ChunkDepth
		if startZ+depth > nz {
			depth = nz - startZ
		}
		o.chunks[i] = NewChunk(nx, ny, startZ, depth)
	}
	o.access = list.New()
	o.elems = make([]*list.Element, plan.Nchunks)
	if o.offload {
		err := os.MkdirAll(o.dir, 0777)
		if err != nil {
			chk.Panic("cannot create offload directory %q:\n%v", o.dir, err)
		}
	}
	return
}

// N returns the number of chunks
func (o *Store) N() int {
	return len(o.chunks)
}

// Chunk returns the i-th chunk
func (o *Store) Chunk(i int) *Chunk {
	return o.chunks[i]
}

// ResidentBytes returns the memory held by resident chunks
func (o *Store) ResidentBytes() int64 {
	return o.residentBytes
}

// ResidentCount returns the number of resident chunks
func (o *Store) ResidentCount() int {
	return o.access.Len()
}

// SetRunning marks the store as in use by a simulation; ClearCache refuses
// to work while set
func (o *Store) SetRunning(running bool) {
	o.running = running
}

// EnsureResident makes chunk i resident, evicting least-recently-used chunks
// first so the resident count stays within the cap. A chunk touched for the
// first time is zero-initialised; an offloaded chunk is read back from its
// side-file. A missing or unreadable side-file falls back to a zeroed chunk
// with a warning instead of failing the run.
func (o *Store) EnsureResident(i int) (err error) {
	c := o.chunks[i]
	if !c.Resident() {

		// make room first
		if o.maxLoaded > 0 {
			for o.ResidentCount() >= o.maxLoaded {
				if !o.evictOldest(i) {
					break
				}
			}
		}

		// load or initialise
		if c.Offloaded {
			err = c.Load(o.dir)
			if err != nil {
				io.Pfyel("warning: cannot reload chunk at z=%d (%v); reinitialising empty\n", c.StartZ, err)
				c.Alloc()
			}
			c.Offloaded = false
		} else {
			c.Alloc()
		}
		o.residentBytes += c.MemSize
	}
	o.TrackAccess(i)

	// memory threshold double-check
	if o.budget > 0 {
		for o.residentBytes > o.budget {
			if !o.evictOldest(i) {
				break
			}
		}
	}
	return nil
}

// TrackAccess moves chunk i to the most-recently-used end of the queue
func (o *Store) TrackAccess(i int) {
	if o.elems[i] == nil {
		o.elems[i] = o.access.PushBack(i)
		return
	}
	o.access.MoveToBack(o.elems[i])
}

// Evict spills chunk i to its side-file and releases its arrays. Without
// offloading the chunk stays resident and the call is a no-op.
func (o *Store) Evict(i int) (err error) {
	c := o.chunks[i]
	if !o.offload || c.Offloaded || !c.Resident() {
		return
	}
	err = c.Save(o.dir)
	if err != nil {
		return chk.Err("cannot offload chunk at z=%d:\n%v", c.StartZ, err)
	}
	c.Release()
	c.Offloaded = true
	o.residentBytes -= c.MemSize
	if o.elems[i] != nil {
		o.access.Remove(o.elems[i])
		o.elems[i] = nil
	}
	if o.verbose {
		io.Pf("> chunk at z=%d offloaded\n", c.StartZ)
	}
	return
}

// evictOldest evicts the least-recently-used resident chunk, skipping the
// chunk at the except index. Returns false when nothing can be evicted.
func (o *Store) evictOldest(except int) bool {
	if !o.offload {
		return false
	}
	for e := o.access.Front(); e != nil; e = e.Next() {
		i := e.Value.(int)
		if i == except {
			continue
		}
		if err := o.Evict(i); err != nil {
			io.Pfred("eviction failed: %v\n", err)
			return false
		}
		return true
	}
	return false
}

// ClearCache resets the store to its initial state: side-files are deleted,
// arrays released and the access queue emptied. Refused while a simulation
// is running.
func (o *Store) ClearCache() bool {
	if o.running {
		io.Pfred("cannot clear the chunk cache while a simulation is running\n")
		return false
	}
	for i, c := range o.chunks {
		if c.Resident() {
			c.Release()
		}
		if o.offload {
			c.RemoveFile(o.dir)
		}
		c.Offloaded = false
		o.elems[i] = nil
	}
	o.access.Init()
	o.residentBytes = 0
	return true
}

// RemoveDir deletes the offload directory and every side-file in it
func (o *Store) RemoveDir() {
	if o.offload {
		os.RemoveAll(o.dir)
	}
}
