// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !opencl

package fdtd

import "github.com/cpmech/gosl/chk"

// GPUKernel is only functional when building with the opencl tag. This stub
// fails Init so that NewKernel falls back to the CPU backend.
type GPUKernel struct{}

func init() {
	kernels["gpu"] = func() Kernel { return new(GPUKernel) }
}

// Init always fails in builds without OpenCL support
func (o *GPUKernel) Init(nx, ny, depth int) error {
	return chk.Err("binary built without OpenCL support (use -tags opencl)")
}

// Step is never reached because Init fails
func (o *GPUKernel) Step(c *Chunk, m *MatView, dt, h, damping float64) error {
	return chk.Err("gpu kernel not initialised")
}

// Free has nothing to release
func (o *GPUKernel) Free() {}

// Name returns the backend name
func (o *GPUKernel) Name() string { return "gpu" }
