// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON file
package inp

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/mattemangia/gowave/mdl/solid"
)

// axis labels
const (
	AxisX = "x"
	AxisY = "y"
	AxisZ = "z"
)

// Data holds global data for simulations
type Data struct {
	Desc    string `json:"desc"`    // description of simulation
	Matfile string `json:"matfile"` // materials file path; "" => scalar defaults only
	DirOut  string `json:"dirout"`  // directory for output; e.g. /tmp/gowave
}

// GridData holds the regular voxel grid geometry
type GridData struct {
	Nx         int     `json:"nx"`         // number of voxels along x (width)
	Ny         int     `json:"ny"`         // number of voxels along y (height)
	Nz         int     `json:"nz"`         // number of voxels along z (depth)
	PixelSize  float64 `json:"pixelsize"`  // voxel edge length [m]
	LabelsFile string  `json:"labelsfile"` // raw uint8 label volume; "" => homogeneous
}

// Nvoxels returns the total number of voxels
func (o *GridData) Nvoxels() int {
	return o.Nx * o.Ny * o.Nz
}

// MatData holds scalar material defaults; per-voxel volumes, when given,
// override these values voxel by voxel
type MatData struct {
	YoungMPa     float64 `json:"young"`     // Young's modulus [MPa]
	Poisson      float64 `json:"poisson"`   // Poisson's ratio
	Rho          float64 `json:"rho"`       // density [kg/m³]
	ConfiningMPa float64 `json:"confining"` // confining pressure [MPa]
	CohesionMPa  float64 `json:"cohesion"`  // cohesion [MPa]
	FailAngleDeg float64 `json:"failangle"` // failure (friction) angle [°]
	TensileMPa   float64 `json:"tensile"`   // tensile strength [MPa]
}

// SourceData holds transmitter/receiver definitions
type SourceData struct {
	Tx        []float64 `json:"tx"`        // [3] transmitter position, normalised [0,1]³
	Rx        []float64 `json:"rx"`        // [3] receiver position, normalised [0,1]³
	Axis      string    `json:"axis"`      // propagation axis: "x", "y" or "z"
	EnergyJ   float64   `json:"energy"`    // source energy [J]
	FreqKHz   float64   `json:"freq"`      // source centre frequency [kHz]
	Amplitude float64   `json:"amplitude"` // amplitude scaling [%]
	Wavelet   string    `json:"wavelet"`   // source time function: "ricker" or "sine"
	FullFace  bool      `json:"fullface"`  // excite the whole face ⊥ Axis instead of a point
}

// FlagsData holds the physics toggles
type FlagsData struct {
	Elastic bool `json:"elastic"` // run the elastic wave kernel
	Plastic bool `json:"plastic"` // apply Mohr-Coulomb plastic correction per step
	Brittle bool `json:"brittle"` // accumulate brittle tensile damage per step
	GPU     bool `json:"gpu"`     // prefer the GPU kernel (falls back to CPU)
}

// MemData holds the memory policy
type MemData struct {
	OffloadDir   string `json:"offloaddir"`   // directory for chunk side-files; "" => under DirOut
	Offload      bool   `json:"offload"`      // permit spilling chunks to disk when over budget
	ForceChunked bool   `json:"forcechunked"` // force multi-chunk processing regardless of size
	AssumedRAM   int64  `json:"assumedram"`   // system RAM override [bytes]; 0 => detect
}

// OutData holds the output policy
type OutData struct {
	SaveSeries   bool `json:"saveseries"`   // keep periodic snapshots of the wave field
	SnapInterval int  `json:"snapinterval"` // steps between snapshots
}

// ControlData holds the time stepping control
type ControlData struct {
	Nsteps   int     `json:"nsteps"`   // total number of time steps
	DtFactor float64 `json:"dtfactor"` // (0,1] multiplier on the CFL-bound time step
	Damping  float64 `json:"damping"`  // velocity damping factor per step; [0,0.1)
}

// Simulation holds all simulation input data. The time step Dt is always
// derived from the CFL condition; it is never read from the input file.
type Simulation struct {

	// input
	Data    Data        `json:"data"`    // global data
	Grid    GridData    `json:"grid"`    // voxel grid
	Mat     MatData     `json:"mat"`     // scalar material defaults
	Source  SourceData  `json:"source"`  // transmitter/receiver
	Flags   FlagsData   `json:"flags"`   // physics toggles
	Mem     MemData     `json:"mem"`     // memory policy
	Out     OutData     `json:"out"`     // output policy
	Control ControlData `json:"control"` // time stepping

	// derived
	Key        string  // simulation key; e.g. mysim01.sim => mysim01
	DirOut     string  // directory to save results
	LabelsPath string  // resolved label volume path; "" => none
	Dt         float64 // time step [s] satisfying the CFL bound
	FreqHz     float64 // source frequency [Hz]
	TxVox      [3]int  // transmitter voxel indices
	RxVox      [3]int  // receiver voxel indices

	// derived: materials database (may be nil)
	MatModels *MatDb
}

// SetDefault sets default values
func (o *Simulation) SetDefault() {
	o.Grid = GridData{Nx: 100, Ny: 100, Nz: 100, PixelSize: 1e-3}
	o.Mat = MatData{
		YoungMPa:     10000,
		Poisson:      0.25,
		Rho:          2700,
		ConfiningMPa: 1,
		CohesionMPa:  5,
		FailAngleDeg: 30,
		TensileMPa:   2,
	}
	o.Source = SourceData{
		Tx:        []float64{0.5, 0.5, 0.1},
		Rx:        []float64{0.5, 0.5, 0.9},
		Axis:      AxisZ,
		EnergyJ:   1,
		FreqKHz:   500,
		Amplitude: 100,
		Wavelet:   "ricker",
	}
	o.Flags = FlagsData{Elastic: true}
	o.Mem = MemData{Offload: true}
	o.Out = OutData{SnapInterval: 50}
	o.Control = ControlData{Nsteps: 1000, DtFactor: 1, Damping: 0.001}
}

// Derive computes derived quantities and validates the input. It panics on
// configuration errors since these are not recoverable.
func (o *Simulation) Derive() {

	// grid
	if o.Grid.Nx < 1 || o.Grid.Ny < 1 || o.Grid.Nz < 1 {
		chk.Panic("grid dimensions must be positive. nx=%d ny=%d nz=%d", o.Grid.Nx, o.Grid.Ny, o.Grid.Nz)
	}
	if o.Grid.PixelSize < 1e-14 {
		chk.Panic("pixel size must be positive. pixelsize=%g", o.Grid.PixelSize)
	}

	// material defaults
	if o.Mat.YoungMPa < 1e-14 || o.Mat.Rho < 1e-14 {
		chk.Panic("Young's modulus and density must be positive. young=%g rho=%g", o.Mat.YoungMPa, o.Mat.Rho)
	}
	if o.Mat.Poisson <= -1 || o.Mat.Poisson >= 0.5 {
		chk.Panic("Poisson's ratio must be in (-1,0.5). poisson=%g", o.Mat.Poisson)
	}

	// source
	if o.Source.Axis != AxisX && o.Source.Axis != AxisY && o.Source.Axis != AxisZ {
		chk.Panic("source axis must be %q, %q or %q. axis=%q", AxisX, AxisY, AxisZ, o.Source.Axis)
	}
	if len(o.Source.Tx) != 3 || len(o.Source.Rx) != 3 {
		chk.Panic("tx and rx positions must have 3 normalised components")
	}
	if o.Source.EnergyJ < 1e-14 {
		chk.Panic("source energy must be positive. energy=%g", o.Source.EnergyJ)
	}
	if o.Source.FreqKHz < 1e-14 {
		chk.Panic("source frequency must be positive. freq=%g", o.Source.FreqKHz)
	}
	if o.Source.Wavelet == "" {
		o.Source.Wavelet = "ricker"
	}
	o.FreqHz = o.Source.FreqKHz * 1e3
	o.TxVox = o.normToVoxel(o.Source.Tx)
	o.RxVox = o.normToVoxel(o.Source.Rx)

	// control
	if o.Control.Nsteps < 1 {
		chk.Panic("number of time steps must be positive. nsteps=%d", o.Control.Nsteps)
	}
	if o.Control.DtFactor < 1e-14 || o.Control.DtFactor > 1 {
		o.Control.DtFactor = 1
	}
	if o.Control.Damping < 0 || o.Control.Damping >= 0.1 {
		chk.Panic("damping must be in [0,0.1). damping=%g", o.Control.Damping)
	}

	// time step from the CFL condition: dt ≤ 0.5·h/(√3·Vp). An explicit
	// update with a larger dt diverges, so DtFactor may only tighten the
	// bound. The fastest material governs.
	vp := o.PWaveVelocity()
	if o.MatModels != nil {
		if v := o.MatModels.MaxPWave(); v > vp {
			vp = v
		}
	}
	o.Dt = o.Control.DtFactor * 0.5 * o.Grid.PixelSize / (math.Sqrt(3) * vp)

	// output
	if o.Out.SnapInterval < 1 {
		o.Out.SnapInterval = 50
	}

	// key and output directory for simulations built in code rather than read
	// from a file
	if o.Key == "" {
		o.Key = "gowave"
	}
	if o.DirOut == "" {
		o.DirOut = o.Data.DirOut
		if o.DirOut == "" {
			o.DirOut = filepath.Join(os.TempDir(), "gowave", o.Key)
		}
	}
}

// PWaveVelocity returns the P-wave velocity [m/s] from the scalar defaults
func (o *Simulation) PWaveVelocity() float64 {
	return solid.PWave(o.Mat.YoungMPa*1e6, o.Mat.Poisson, o.Mat.Rho)
}

// SWaveVelocity returns the S-wave velocity [m/s] from the scalar defaults
func (o *Simulation) SWaveVelocity() float64 {
	return solid.SWave(o.Mat.YoungMPa*1e6, o.Mat.Poisson, o.Mat.Rho)
}

// TxRxDistance returns the transmitter-receiver distance [m]
func (o *Simulation) TxRxDistance() float64 {
	var s float64
	for i := 0; i < 3; i++ {
		d := float64(o.RxVox[i]-o.TxVox[i]) * o.Grid.PixelSize
		s += d * d
	}
	return math.Sqrt(s)
}

// normToVoxel maps a normalised [0,1]³ position to voxel indices
func (o *Simulation) normToVoxel(p []float64) (v [3]int) {
	dims := []int{o.Grid.Nx, o.Grid.Ny, o.Grid.Nz}
	for i := 0; i < 3; i++ {
		x := p[i]
		if x < 0 {
			x = 0
		}
		if x > 1 {
			x = 1
		}
		v[i] = int(x * float64(dims[i]-1))
	}
	return
}

// ReadSim reads all simulation parameters from a .sim JSON file
func ReadSim(simfilepath string) *Simulation {

	// new sim with defaults
	var o Simulation
	o.SetDefault()

	// read file
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		chk.Panic("ReadSim: cannot read simulation file %q", simfilepath)
	}

	// decode
	err = json.Unmarshal(b, &o)
	if err != nil {
		chk.Panic("ReadSim: cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}

	// filename key and output directory
	dir := os.ExpandEnv(filepath.Dir(simfilepath))
	o.Key = io.FnKey(filepath.Base(simfilepath))
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = filepath.Join(os.TempDir(), "gowave", o.Key)
	}

	// materials database; loaded before Derive so the CFL bound sees the
	// fastest material
	if o.Data.Matfile != "" {
		matpath := o.Data.Matfile
		if !filepath.IsAbs(matpath) {
			matpath = filepath.Join(dir, matpath)
		}
		o.MatModels, err = ReadMat(matpath, o.Mat)
		if err != nil {
			chk.Panic("ReadSim: loading materials database failed:\n%v", err)
		}
	}

	// label volume path, relative to the .sim file
	if o.Grid.LabelsFile != "" {
		o.LabelsPath = o.Grid.LabelsFile
		if !filepath.IsAbs(o.LabelsPath) {
			o.LabelsPath = filepath.Join(dir, o.LabelsPath)
		}
	}

	// derived quantities
	o.Derive()
	return &o
}
