// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build opencl

package fdtd

import (
	"unsafe"

	"github.com/cpmech/gosl/chk"
	"github.com/jgillich/go-opencl/cl"
)

// gpuProgram implements the same two update phases as the CPU kernel in
// OpenCL C. Each phase runs as one ND-range pass over the chunk.
const gpuProgram = `__kernel void update_velocity(
    const int nx, const int ny, const int nz,
    const float dt, const float h, const float damp,
    __global float* vx, __global float* vy, __global float* vz,
    __global const float* sxx, __global const float* syy, __global const float* szz,
    __global const float* sxy, __global const float* sxz, __global const float* syz,
    __global const float* rho)
{
    int gid = get_global_id(0);
    int npl = nx * ny;
    if (gid >= npl * nz) {
        return;
    }
    int k = gid / npl;
    int r = gid - k * npl;
    int j = r / nx;
    int i = r - j * nx;
    if (i < 1 || j < 1 || k < 1) {
        return;
    }
    float a = dt / (rho[gid] * h);
    float divx = sxx[gid] - sxx[gid-1] + sxy[gid] - sxy[gid-nx] + sxz[gid] - sxz[gid-npl];
    float divy = sxy[gid] - sxy[gid-1] + syy[gid] - syy[gid-nx] + syz[gid] - syz[gid-npl];
    float divz = sxz[gid] - sxz[gid-1] + syz[gid] - syz[gid-nx] + szz[gid] - szz[gid-npl];
    vx[gid] = (vx[gid] + a * divx) * damp;
    vy[gid] = (vy[gid] + a * divy) * damp;
    vz[gid] = (vz[gid] + a * divz) * damp;
}

__kernel void update_stress(
    const int nx, const int ny, const int nz,
    const float dt, const float h,
    __global const float* vx, __global const float* vy, __global const float* vz,
    __global float* sxx, __global float* syy, __global float* szz,
    __global float* sxy, __global float* sxz, __global float* syz,
    __global const float* young, __global const float* poisson)
{
    int gid = get_global_id(0);
    int npl = nx * ny;
    if (gid >= npl * nz) {
        return;
    }
    int k = gid / npl;
    int r = gid - k * npl;
    int j = r / nx;
    int i = r - j * nx;
    if (i >= nx - 1 || j >= ny - 1 || k >= nz - 1) {
        return;
    }
    float E = young[gid];
    float nu = poisson[gid];
    float lam = E * nu / ((1.0f + nu) * (1.0f - 2.0f * nu));
    float mu = E / (2.0f * (1.0f + nu));
    float b = dt / h;
    float dvxdx = vx[gid+1] - vx[gid];
    float dvydy = vy[gid+nx] - vy[gid];
    float dvzdz = vz[gid+npl] - vz[gid];
    float tr = dvxdx + dvydy + dvzdz;
    sxx[gid] += b * (lam * tr + 2.0f * mu * dvxdx);
    syy[gid] += b * (lam * tr + 2.0f * mu * dvydy);
    szz[gid] += b * (lam * tr + 2.0f * mu * dvzdz);
    sxy[gid] += b * mu * (vx[gid+nx] - vx[gid] + vy[gid+1] - vy[gid]);
    sxz[gid] += b * mu * (vx[gid+npl] - vx[gid] + vz[gid+1] - vz[gid]);
    syz[gid] += b * mu * (vy[gid+npl] - vy[gid] + vz[gid+nx] - vz[gid]);
}`

// GPUKernel advances the wave field on an OpenCL device. Per step it uploads
// the chunk's 9 field arrays and the extracted material properties, runs the
// two update passes and reads the fields back.
type GPUKernel struct {
	context *cl.Context
	queue   *cl.CommandQueue
	program *cl.Program
	kvel    *cl.Kernel
	kstr    *cl.Kernel

	fieldBufs [9]*cl.MemObject
	rhoBuf    *cl.MemObject
	youngBuf  *cl.MemObject
	poisBuf   *cl.MemObject

	scratchE, scratchNu, scratchRho []float32

	nx, ny, depth int
	device        string
}

// add backend to factory
func init() {
	kernels["gpu"] = func() Kernel { return new(GPUKernel) }
}

// Init discovers an OpenCL device, builds the program and allocates device
// buffers sized for chunks up to depth slices
func (o *GPUKernel) Init(nx, ny, depth int) (err error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		return chk.Err("querying OpenCL platforms: %v", err)
	}
	if len(platforms) == 0 {
		return chk.Err("no OpenCL platforms available")
	}
	var device *cl.Device
	for _, p := range platforms {
		devices, derr := p.GetDevices(cl.DeviceTypeGPU)
		if derr != nil && derr != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			device = devices[0]
			break
		}
	}
	if device == nil {
		return chk.Err("no OpenCL GPU devices found")
	}
	o.device = device.Name()
	o.context, err = cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return chk.Err("creating OpenCL context: %v", err)
	}
	o.queue, err = o.context.CreateCommandQueue(device, 0)
	if err != nil {
		o.Free()
		return chk.Err("creating OpenCL command queue: %v", err)
	}
	o.program, err = o.context.CreateProgramWithSource([]string{gpuProgram})
	if err != nil {
		o.Free()
		return chk.Err("creating OpenCL program: %v", err)
	}
	err = o.program.BuildProgram([]*cl.Device{device}, "")
	if err != nil {
		o.Free()
		if buildErr, ok := err.(cl.BuildError); ok {
			return chk.Err("building OpenCL program: %s", string(buildErr))
		}
		return chk.Err("building OpenCL program: %v", err)
	}
	o.kvel, err = o.program.CreateKernel("update_velocity")
	if err != nil {
		o.Free()
		return chk.Err("creating velocity kernel: %v", err)
	}
	o.kstr, err = o.program.CreateKernel("update_stress")
	if err != nil {
		o.Free()
		return chk.Err("creating stress kernel: %v", err)
	}

	o.nx, o.ny, o.depth = nx, ny, depth
	n := nx * ny * depth
	byteSize := n * int(unsafe.Sizeof(float32(0)))
	for i := range o.fieldBufs {
		o.fieldBufs[i], err = o.context.CreateEmptyBuffer(cl.MemReadWrite, byteSize)
		if err != nil {
			o.Free()
			return chk.Err("allocating field buffer: %v", err)
		}
	}
	o.rhoBuf, err = o.context.CreateEmptyBuffer(cl.MemReadOnly, byteSize)
	if err != nil {
		o.Free()
		return chk.Err("allocating density buffer: %v", err)
	}
	o.youngBuf, err = o.context.CreateEmptyBuffer(cl.MemReadOnly, byteSize)
	if err != nil {
		o.Free()
		return chk.Err("allocating stiffness buffer: %v", err)
	}
	o.poisBuf, err = o.context.CreateEmptyBuffer(cl.MemReadOnly, byteSize)
	if err != nil {
		o.Free()
		return chk.Err("allocating Poisson buffer: %v", err)
	}
	o.scratchE = make([]float32, n)
	o.scratchNu = make([]float32, n)
	o.scratchRho = make([]float32, n)
	return
}

// Name returns the backend name with the device
func (o *GPUKernel) Name() string {
	return "gpu (" + o.device + ")"
}

// Step advances one chunk by one time step on the device
func (o *GPUKernel) Step(c *Chunk, m *MatView, dt, h, damping float64) (err error) {
	if c.Nx != o.nx || c.Ny != o.ny || c.Depth > o.depth {
		return chk.Err("chunk %dx%dx%d does not fit the device buffers", c.Nx, c.Ny, c.Depth)
	}
	n := c.Nx * c.Ny * c.Depth

	// extract material properties for this chunk's window
	for k := 0; k < c.Depth; k++ {
		for j := 0; j < c.Ny; j++ {
			base := j*c.Nx + k*c.Nx*c.Ny
			for i := 0; i < c.Nx; i++ {
				E, ν, ρ := m.At(i, j, k)
				o.scratchE[base+i] = E
				o.scratchNu[base+i] = ν
				o.scratchRho[base+i] = ρ
			}
		}
	}

	// upload fields and materials
	for i, fld := range c.Fields() {
		if _, err = o.queue.EnqueueWriteBufferFloat32(o.fieldBufs[i], false, 0, fld.X, nil); err != nil {
			return chk.Err("writing field buffer: %v", err)
		}
	}
	if _, err = o.queue.EnqueueWriteBufferFloat32(o.rhoBuf, false, 0, o.scratchRho[:n], nil); err != nil {
		return chk.Err("writing density buffer: %v", err)
	}
	if _, err = o.queue.EnqueueWriteBufferFloat32(o.youngBuf, false, 0, o.scratchE[:n], nil); err != nil {
		return chk.Err("writing stiffness buffer: %v", err)
	}
	if _, err = o.queue.EnqueueWriteBufferFloat32(o.poisBuf, false, 0, o.scratchNu[:n], nil); err != nil {
		return chk.Err("writing Poisson buffer: %v", err)
	}

	// run the two passes; the in-order queue separates them
	dtf, hf, dmp := float32(dt), float32(h), float32(1-damping)
	err = o.kvel.SetArgs(int32(c.Nx), int32(c.Ny), int32(c.Depth), dtf, hf, dmp,
		o.fieldBufs[0], o.fieldBufs[1], o.fieldBufs[2],
		o.fieldBufs[3], o.fieldBufs[4], o.fieldBufs[5],
		o.fieldBufs[6], o.fieldBufs[7], o.fieldBufs[8],
		o.rhoBuf)
	if err != nil {
		return chk.Err("setting velocity kernel arguments: %v", err)
	}
	if _, err = o.queue.EnqueueNDRangeKernel(o.kvel, nil, []int{n}, nil, nil); err != nil {
		return chk.Err("enqueueing velocity kernel: %v", err)
	}
	err = o.kstr.SetArgs(int32(c.Nx), int32(c.Ny), int32(c.Depth), dtf, hf,
		o.fieldBufs[0], o.fieldBufs[1], o.fieldBufs[2],
		o.fieldBufs[3], o.fieldBufs[4], o.fieldBufs[5],
		o.fieldBufs[6], o.fieldBufs[7], o.fieldBufs[8],
		o.youngBuf, o.poisBuf)
	if err != nil {
		return chk.Err("setting stress kernel arguments: %v", err)
	}
	if _, err = o.queue.EnqueueNDRangeKernel(o.kstr, nil, []int{n}, nil, nil); err != nil {
		return chk.Err("enqueueing stress kernel: %v", err)
	}

	// read the fields back; the final blocking read flushes the queue
	for i, fld := range c.Fields() {
		blocking := i == len(o.fieldBufs)-1
		if _, err = o.queue.EnqueueReadBufferFloat32(o.fieldBufs[i], blocking, 0, fld.X, nil); err != nil {
			return chk.Err("reading field buffer: %v", err)
		}
	}
	return
}

// Free releases all device resources
func (o *GPUKernel) Free() {
	for i, b := range o.fieldBufs {
		if b != nil {
			b.Release()
			o.fieldBufs[i] = nil
		}
	}
	for _, b := range []**cl.MemObject{&o.rhoBuf, &o.youngBuf, &o.poisBuf} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
	if o.kvel != nil {
		o.kvel.Release()
		o.kvel = nil
	}
	if o.kstr != nil {
		o.kstr.Release()
		o.kstr = nil
	}
	if o.program != nil {
		o.program.Release()
		o.program = nil
	}
	if o.queue != nil {
		o.queue.Release()
		o.queue = nil
	}
	if o.context != nil {
		o.context.Release()
		o.context = nil
	}
}
