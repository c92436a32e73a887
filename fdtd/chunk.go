// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdtd

import (
	"bufio"
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/mattemangia/gowave/vol"
)

// chunk side-file format
var chunkMagic = [4]byte{'G', 'W', 'C', 'H'}

// chunkHeader is the fixed-size prefix of a chunk side-file
type chunkHeader struct {
	Magic  [4]byte
	Nx     int32
	Ny     int32
	Depth  int32
	StartZ int32
}

// Chunk is a depth-wise slab of the simulation grid holding its own set of
// field arrays. Chunks are the unit of memory residency and eviction: arrays
// are nil until the first touch, released again when the chunk is evicted.
type Chunk struct {

	// geometry
	Nx     int // in-plane x dimension
	Ny     int // in-plane y dimension
	StartZ int // global z offset of the first local slice
	Depth  int // number of local z slices

	// velocity components; nil while not resident
	Vx, Vy, Vz *vol.F32

	// stress components; nil while not resident
	Sxx, Syy, Szz, Sxy, Sxz, Syz *vol.F32

	// residency
	MemSize   int64 // bytes of the 9 arrays when resident
	Offloaded bool  // values live in the side-file, arrays released
}

// NewChunk returns a chunk descriptor without allocating field arrays
func NewChunk(nx, ny, startZ, depth int) (o *Chunk) {
	if nx < 1 || ny < 1 || depth < 1 || startZ < 0 {
		chk.Panic("invalid chunk geometry. nx=%d ny=%d startz=%d depth=%d", nx, ny, startZ, depth)
	}
	o = new(Chunk)
	o.Nx, o.Ny = nx, ny
	o.StartZ, o.Depth = startZ, depth
	o.MemSize = int64(nx) * int64(ny) * int64(depth) * BytesPerVoxel
	return
}

// Resident tells whether the field arrays are allocated
func (o *Chunk) Resident() bool {
	return o.Vx != nil
}

// Alloc allocates zeroed field arrays
func (o *Chunk) Alloc() {
	o.Vx = vol.NewF32(o.Nx, o.Ny, o.Depth)
	o.Vy = vol.NewF32(o.Nx, o.Ny, o.Depth)
	o.Vz = vol.NewF32(o.Nx, o.Ny, o.Depth)
	o.Sxx = vol.NewF32(o.Nx, o.Ny, o.Depth)
	o.Syy = vol.NewF32(o.Nx, o.Ny, o.Depth)
	o.Szz = vol.NewF32(o.Nx, o.Ny, o.Depth)
	o.Sxy = vol.NewF32(o.Nx, o.Ny, o.Depth)
	o.Sxz = vol.NewF32(o.Nx, o.Ny, o.Depth)
	o.Syz = vol.NewF32(o.Nx, o.Ny, o.Depth)
}

// Release drops the field arrays. Values not saved beforehand are lost.
func (o *Chunk) Release() {
	o.Vx, o.Vy, o.Vz = nil, nil, nil
	o.Sxx, o.Syy, o.Szz = nil, nil, nil
	o.Sxy, o.Sxz, o.Syz = nil, nil, nil
}

// Fields returns the 9 component arrays in side-file order
func (o *Chunk) Fields() []*vol.F32 {
	return []*vol.F32{o.Vx, o.Vy, o.Vz, o.Sxx, o.Syy, o.Szz, o.Sxy, o.Sxz, o.Syz}
}

// FileName returns the side-file path for this chunk, keyed by its z offset
func (o *Chunk) FileName(dir string) string {
	return filepath.Join(dir, io.Sf("chunk_%d.bin", o.StartZ))
}

// Save serialises the 9 arrays to the side-file as little-endian float32
func (o *Chunk) Save(dir string) (err error) {
	if !o.Resident() {
		return chk.Err("cannot save chunk at z=%d: not resident", o.StartZ)
	}
	f, err := os.Create(o.FileName(dir))
	if err != nil {
		return
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	h := chunkHeader{Magic: chunkMagic, Nx: int32(o.Nx), Ny: int32(o.Ny), Depth: int32(o.Depth), StartZ: int32(o.StartZ)}
	err = binary.Write(w, binary.LittleEndian, &h)
	if err != nil {
		return
	}
	for _, fld := range o.Fields() {
		err = binary.Write(w, binary.LittleEndian, fld.X)
		if err != nil {
			return
		}
	}
	return w.Flush()
}

// Load allocates the arrays and fills them from the side-file. The values
// are reproduced bit for bit.
func (o *Chunk) Load(dir string) (err error) {
	f, err := os.Open(o.FileName(dir))
	if err != nil {
		return
	}
	defer f.Close()
	r := bufio.NewReader(f)
	var h chunkHeader
	err = binary.Read(r, binary.LittleEndian, &h)
	if err != nil {
		return
	}
	if h.Magic != chunkMagic {
		return chk.Err("chunk side-file %q is not a chunk dump", o.FileName(dir))
	}
	if int(h.Nx) != o.Nx || int(h.Ny) != o.Ny || int(h.Depth) != o.Depth || int(h.StartZ) != o.StartZ {
		return chk.Err("chunk side-file %q does not match chunk geometry", o.FileName(dir))
	}
	o.Alloc()
	for _, fld := range o.Fields() {
		err = binary.Read(r, binary.LittleEndian, fld.X)
		if err != nil {
			o.Release()
			return
		}
	}
	return
}

// RemoveFile deletes the side-file if present
func (o *Chunk) RemoveFile(dir string) {
	os.Remove(o.FileName(dir))
}
