// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdtd

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/mattemangia/gowave/inp"
	"github.com/mattemangia/gowave/vol"
)

// SourceActiveSteps is the number of steps during which the transmitter
// keeps injecting energy
const SourceActiveSteps = 100

// WaveletFn evaluates a source time function at time t [s] for the centre
// frequency freq [Hz]
type WaveletFn func(t, freq float64) float64

// wavelets holds all available source time functions; name => function
var wavelets = map[string]WaveletFn{
	"ricker": Ricker,
	"sine":   Sine,
}

// Ricker returns the Ricker wavelet (1-2a²)·exp(-a²) with a = π·f·(t-tp)
// where the peak time tp is one period
func Ricker(t, freq float64) float64 {
	a := math.Pi * freq * (t - 1.0/freq)
	return (1 - 2*a*a) * math.Exp(-a*a)
}

// Sine returns a sinusoid at the centre frequency
func Sine(t, freq float64) float64 {
	return math.Sin(2 * math.Pi * freq * t)
}

// axisIndex maps an axis label to its component index
func axisIndex(axis string) int {
	switch axis {
	case inp.AxisX:
		return 0
	case inp.AxisY:
		return 1
	case inp.AxisZ:
		return 2
	}
	chk.Panic("unknown axis %q", axis)
	return -1
}

// Source drives the transmitter. The peak amplitude comes from inverting the
// energy density of the source pulse, v = √(2E/(ρ·h³)), scaled by the user
// percentage. A full-face source divides this amplitude across every voxel
// of the face perpendicular to the propagation axis.
type Source struct {

	// definition
	Vox      [3]int  // transmitter voxel
	Axis     int     // velocity component index driven by the source
	FullFace bool    // excite the whole face instead of a point
	Amp      float64 // per-voxel peak velocity amplitude [m/s]
	Freq     float64 // centre frequency [Hz]

	// grid geometry
	nx, ny, nz int

	wavelet WaveletFn
}

// NewSource builds the transmitter from the simulation input. Panics on an
// unknown wavelet name since that is a configuration error.
func NewSource(sim *inp.Simulation) (o *Source) {
	fn, ok := wavelets[sim.Source.Wavelet]
	if !ok {
		chk.Panic("unknown wavelet %q", sim.Source.Wavelet)
	}
	o = new(Source)
	o.Vox = sim.TxVox
	o.Axis = axisIndex(sim.Source.Axis)
	o.FullFace = sim.Source.FullFace
	o.Freq = sim.FreqHz
	o.nx, o.ny, o.nz = sim.Grid.Nx, sim.Grid.Ny, sim.Grid.Nz
	o.wavelet = fn

	// energy-density inversion for the peak particle velocity
	h := sim.Grid.PixelSize
	o.Amp = math.Sqrt(2*sim.Source.EnergyJ/(sim.Mat.Rho*h*h*h)) * sim.Source.Amplitude / 100.0
	if o.FullFace {
		o.Amp /= float64(o.faceVoxels())
	}
	return
}

// faceVoxels returns the number of voxels on the face perpendicular to the
// propagation axis
func (o *Source) faceVoxels() int {
	switch o.Axis {
	case 0:
		return o.ny * o.nz
	case 1:
		return o.nx * o.nz
	}
	return o.nx * o.ny
}

// Inject adds the wavelet to the driven velocity component within chunk c.
// The excitation is added rather than assigned so reflected energy passing
// through the transmitter superposes with the source. Inactive after
// SourceActiveSteps steps.
func (o *Source) Inject(c *Chunk, step int, dt float64) {
	if step >= SourceActiveSteps {
		return
	}
	w := float32(o.Amp * o.wavelet(float64(step)*dt, o.Freq))
	if w == 0 {
		return
	}
	fld := [3]*vol.F32{c.Vx, c.Vy, c.Vz}[o.Axis]
	if !o.FullFace {
		z := o.Vox[2]
		if z < c.StartZ || z >= c.StartZ+c.Depth {
			return
		}
		fld.X[o.Vox[0]+o.Vox[1]*c.Nx+(z-c.StartZ)*c.Nx*c.Ny] += w
		return
	}
	o.injectFace(c, fld, w)
}

// injectFace adds w to every face voxel that falls within the chunk's window
func (o *Source) injectFace(c *Chunk, fld *vol.F32, w float32) {
	npl := c.Nx * c.Ny
	switch o.Axis {

	// face x = Vox[0] spans all chunks
	case 0:
		for k := 0; k < c.Depth; k++ {
			for j := 0; j < c.Ny; j++ {
				fld.X[o.Vox[0]+j*c.Nx+k*npl] += w
			}
		}

	// face y = Vox[1] spans all chunks
	case 1:
		for k := 0; k < c.Depth; k++ {
			base := o.Vox[1]*c.Nx + k*npl
			for i := 0; i < c.Nx; i++ {
				fld.X[base+i] += w
			}
		}

	// face z = Vox[2] lives in one chunk
	default:
		z := o.Vox[2]
		if z < c.StartZ || z >= c.StartZ+c.Depth {
			return
		}
		base := (z - c.StartZ) * npl
		for p := base; p < base+npl; p++ {
			fld.X[p] += w
		}
	}
}
