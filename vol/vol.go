// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package vol implements dense 3D volumes stored as flat contiguous buffers
package vol

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// F32 is a dense 3D float32 volume. Values are stored flat, x-fastest:
//  idx = i + j*Nx + k*Nx*Ny
type F32 struct {
	Nx, Ny, Nz int       // dimensions
	X          []float32 // flat data; len = Nx*Ny*Nz
}

// NewF32 returns a new zeroed volume
func NewF32(nx, ny, nz int) *F32 {
	if nx < 1 || ny < 1 || nz < 1 {
		chk.Panic("volume dimensions must be positive. nx=%d ny=%d nz=%d", nx, ny, nz)
	}
	return &F32{Nx: nx, Ny: ny, Nz: nz, X: make([]float32, nx*ny*nz)}
}

// Idx returns the flat index of voxel (i,j,k)
func (o *F32) Idx(i, j, k int) int {
	return i + j*o.Nx + k*o.Nx*o.Ny
}

// At returns the value at voxel (i,j,k)
func (o *F32) At(i, j, k int) float32 {
	return o.X[i+j*o.Nx+k*o.Nx*o.Ny]
}

// Set sets the value at voxel (i,j,k)
func (o *F32) Set(i, j, k int, v float32) {
	o.X[i+j*o.Nx+k*o.Nx*o.Ny] = v
}

// Fill sets all voxels to v
func (o *F32) Fill(v float32) {
	for i := range o.X {
		o.X[i] = v
	}
}

// Clone returns a deep copy
func (o *F32) Clone() *F32 {
	c := &F32{Nx: o.Nx, Ny: o.Ny, Nz: o.Nz, X: make([]float32, len(o.X))}
	copy(c.X, o.X)
	return c
}

// MaxAbs returns the largest absolute value in the volume
func (o *F32) MaxAbs() float64 {
	var m float64
	for _, v := range o.X {
		a := math.Abs(float64(v))
		if a > m {
			m = a
		}
	}
	return m
}

// Bytes returns the memory taken by the flat buffer
func (o *F32) Bytes() int64 {
	return int64(len(o.X)) * 4
}

// U8 is a dense 3D uint8 volume (e.g. material labels), same layout as F32
type U8 struct {
	Nx, Ny, Nz int
	X          []uint8
}

// NewU8 returns a new zeroed label volume
func NewU8(nx, ny, nz int) *U8 {
	if nx < 1 || ny < 1 || nz < 1 {
		chk.Panic("volume dimensions must be positive. nx=%d ny=%d nz=%d", nx, ny, nz)
	}
	return &U8{Nx: nx, Ny: ny, Nz: nz, X: make([]uint8, nx*ny*nz)}
}

// At returns the label at voxel (i,j,k)
func (o *U8) At(i, j, k int) uint8 {
	return o.X[i+j*o.Nx+k*o.Nx*o.Ny]
}

// Set sets the label at voxel (i,j,k)
func (o *U8) Set(i, j, k int, v uint8) {
	o.X[i+j*o.Nx+k*o.Nx*o.Ny] = v
}

// Fill sets all labels to v
func (o *U8) Fill(v uint8) {
	for i := range o.X {
		o.X[i] = v
	}
}
