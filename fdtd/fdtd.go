// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fdtd implements an explicit finite-difference time-domain solver
// for elastic waves in voxel volumes. The grid is split into depth-wise
// chunks whose residency a least-recently-used store manages, with optional
// spilling to disk when the fields exceed the memory budget. Interchangeable
// compute backends (CPU, OpenCL) advance one chunk at a time; plasticity,
// brittle damage, absorbing boundaries and the source are applied per chunk
// after each kernel update.
package fdtd

import (
	"context"
	"math"
	"path/filepath"
	"runtime"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"

	"github.com/mattemangia/gowave/inp"
	"github.com/mattemangia/gowave/mdl/solid"
	"github.com/mattemangia/gowave/vol"
)

// observer constants
const (
	ProgressInterval = 10 // steps between progress notifications
	LiveChunkStride  = 8  // huge runs emit every n-th chunk to observers
)

// ProgressFn receives progress notifications during a run
type ProgressFn func(fraction float64, step int, message string)

// FieldFn receives a live view of one processed chunk. The chunk's arrays
// are borrowed; they must not be retained after the call returns.
type FieldFn func(step int, c *Chunk)

// Main holds all data for one wave propagation run
type Main struct {

	// configuration
	Sim     *inp.Simulation // simulation data
	Plan    ExecutionPlan   // memory strategy decided at construction
	Store   *Store          // chunk store
	ShowMsg bool            // show messages

	// observers
	Progress    ProgressFn // called roughly every ProgressInterval steps; may be nil
	FieldUpdate FieldFn    // called per processed chunk; may be nil

	// material volumes; nil entries fall back to scalar defaults
	labels  *vol.U8
	rho     *vol.F32
	young   *vol.F32
	poisson *vol.F32

	// physics
	kernel  Kernel
	plastic solid.StressCorrector
	brittle solid.DamageUpdater
	dmg     *vol.F32 // damage over the whole grid; all zeros when brittle is off

	// source and receiver
	source *Source
	recv   *Receiver
	det    *Detector

	// tracking
	maxvel           *vol.F32 // running maximum velocity magnitude
	snaps            []*Snapshot
	rxVx, rxVy, rxVz []float64 // receiver samples, one per completed step
	completed        int       // time steps fully completed
	cancelled        bool      // run ended through the context
	nw               int       // workers for per-voxel parallel passes
}

// NewMain returns a new Main structure ready to run. Panics on invalid
// configuration. A non-nil labels volume together with the simulation's
// materials database yields per-voxel material volumes; otherwise the
// scalar defaults apply everywhere.
func NewMain(sim *inp.Simulation, labels *vol.U8, verbose bool) (o *Main) {

	// check configuration
	if sim == nil {
		chk.Panic("simulation input data must not be nil")
	}
	if sim.Dt <= 0 {
		chk.Panic("time step has not been derived; call Derive first")
	}

	// new Main object
	o = new(Main)
	o.Sim = sim
	o.ShowMsg = verbose
	o.nw = runtime.NumCPU()

	// memory strategy and chunk store
	o.Plan = SelectPlan(sim)
	dir := sim.Mem.OffloadDir
	if dir == "" {
		dir = filepath.Join(sim.DirOut, "offload")
	}
	nx, ny, nz := sim.Grid.Nx, sim.Grid.Ny, sim.Grid.Nz
	o.Store = NewStore(&o.Plan, nx, ny, nz, dir, verbose)
	if o.ShowMsg {
		io.Pf("> Memory strategy: %v\n", &o.Plan)
	}

	// material volumes from the labels and the materials database
	o.labels = labels
	if labels != nil && sim.MatModels != nil {
		o.rho, o.young, o.poisson = sim.MatModels.BuildVolumes(labels, sim.Mat)
		if o.ShowMsg {
			io.Pf("> Material volumes built from %d materials\n", len(sim.MatModels.Materials))
		}
	}

	// plasticity
	if sim.Flags.Plastic {
		mdl, err := solid.New("mohrcoulomb")
		if err != nil {
			chk.Panic("cannot allocate plasticity model:\n%v", err)
		}
		err = mdl.Init(dbf.Params{
			&dbf.P{N: "c", V: sim.Mat.CohesionMPa},
			&dbf.P{N: "phi", V: sim.Mat.FailAngleDeg},
			&dbf.P{N: "pconf", V: sim.Mat.ConfiningMPa},
		})
		if err != nil {
			chk.Panic("cannot initialise plasticity model:\n%v", err)
		}
		o.plastic = mdl.(solid.StressCorrector)
	}

	// brittle damage; the damage volume exists either way so results always
	// carry a (possibly all-zero) damage field
	o.dmg = vol.NewF32(nx, ny, nz)
	if sim.Flags.Brittle {
		mdl, err := solid.New("brittle")
		if err != nil {
			chk.Panic("cannot allocate damage model:\n%v", err)
		}
		err = mdl.Init(dbf.Params{
			&dbf.P{N: "st", V: sim.Mat.TensileMPa},
		})
		if err != nil {
			chk.Panic("cannot initialise damage model:\n%v", err)
		}
		o.brittle = mdl.(solid.DamageUpdater)
	}

	// source and receiver
	o.source = NewSource(sim)
	o.recv = &Receiver{Vox: sim.RxVox, Axis: axisIndex(sim.Source.Axis)}

	// tracking
	o.maxvel = vol.NewF32(nx, ny, nz)
	if o.ShowMsg {
		io.Pf("> Initialisation step completed\n")
	}
	return
}

// SetVolumes installs caller-provided per-voxel material volumes, overriding
// any built from the materials database. Nil entries keep the fallback to
// scalar defaults. Dimensions must match the grid.
func (o *Main) SetVolumes(rho, young, poisson *vol.F32) {
	n := o.Sim.Grid.Nvoxels()
	for _, v := range []*vol.F32{rho, young, poisson} {
		if v != nil && len(v.X) != n {
			chk.Panic("material volume does not match the grid: %d != %d voxels", len(v.X), n)
		}
	}
	if rho != nil {
		o.rho = rho
	}
	if young != nil {
		o.young = young
	}
	if poisson != nil {
		o.poisson = poisson
	}
}

// Run executes the time loop until all steps complete or ctx is cancelled.
// Cancellation is checked at the top of each chunk's processing; a cancelled
// run still assembles partial results and cleans up. Errors propagate after
// cleanup.
func (o *Main) Run(ctx context.Context) (res *Results, err error) {

	// exit commands
	cputime := time.Now()
	o.Store.SetRunning(true)
	defer func() { res, err = o.onexit(cputime, err) }()

	// compute backend; GPU failure falls back to CPU inside NewKernel
	name := "cpu"
	if o.Sim.Flags.GPU {
		name = "gpu"
	}
	o.kernel = NewKernel(name, o.Sim.Grid.Nx, o.Sim.Grid.Ny, o.Plan.ChunkDepth, o.ShowMsg)

	// receiver baseline before stepping begins
	rci := o.chunkOf(o.recv.Vox[2])
	err = o.Store.EnsureResident(rci)
	if err != nil {
		return
	}
	bvx, bvy, bvz, _ := o.recv.Sample(o.Store.Chunk(rci))
	o.det = NewDetector(o.recv.Axis, math.Sqrt(bvx*bvx+bvy*bvy+bvz*bvz))

	// message
	if o.ShowMsg {
		io.Pf("> Running %d time steps with dt = %g s\n", o.Sim.Control.Nsteps, o.Sim.Dt)
	}

	// time loop
	dt := o.Sim.Dt
	h := o.Sim.Grid.PixelSize
	damping := o.Sim.Control.Damping
	nsteps := o.Sim.Control.Nsteps
	o.rxVx = make([]float64, 0, nsteps)
	o.rxVy = make([]float64, 0, nsteps)
	o.rxVz = make([]float64, 0, nsteps)
	for step := 0; step < nsteps; step++ {

		// chunk loop; chunks advance independently within one step
		for ci := 0; ci < o.Store.N(); ci++ {

			// cooperative cancellation
			select {
			case <-ctx.Done():
				o.cancelled = true
				return
			default:
			}

			// residency
			err = o.Store.EnsureResident(ci)
			if err != nil {
				return
			}
			c := o.Store.Chunk(ci)

			// explicit update
			err = o.kernel.Step(c, o.matView(c), dt, h, damping)
			if err != nil {
				return
			}

			// physics post-processing
			if o.plastic != nil {
				ApplyPlasticity(c, o.plastic, o.nw)
			}
			if o.brittle != nil {
				ApplyDamage(c, o.dmg, o.brittle, o.nw)
			}
			ApplyBoundary(c, o.Sim.Grid.Nz)
			o.source.Inject(c, step, dt)
			TrackMaxVelocity(c, o.maxvel, o.nw)

			// live field observers
			o.emitField(step, ci, c)
		}

		// receiver and arrival detection
		err = o.Store.EnsureResident(rci)
		if err != nil {
			return
		}
		vx, vy, vz, _ := o.recv.Sample(o.Store.Chunk(rci))
		o.det.Observe(step, vx, vy, vz)
		o.rxVx = append(o.rxVx, vx)
		o.rxVy = append(o.rxVy, vy)
		o.rxVz = append(o.rxVz, vz)
		o.completed = step + 1

		// progress
		if o.Progress != nil && o.completed%ProgressInterval == 0 {
			o.Progress(float64(o.completed)/float64(nsteps), o.completed,
				io.Sf("step %d of %d (%s)", o.completed, nsteps, o.det.StateName()))
		}

		// snapshots
		if o.Sim.Out.SaveSeries && o.completed%o.Sim.Out.SnapInterval == 0 {
			o.takeSnapshot(o.completed)
		}
	}
	return
}

// Damage returns the damage volume
func (o *Main) Damage() *vol.F32 {
	return o.dmg
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// chunkOf returns the index of the chunk holding global slice z
func (o *Main) chunkOf(z int) int {
	return z / o.Plan.ChunkDepth
}

// matView builds the material window for chunk c
func (o *Main) matView(c *Chunk) *MatView {
	mv := &MatView{
		Rho:      o.rho,
		Young:    o.young,
		Poisson:  o.poisson,
		RhoDef:   float32(o.Sim.Mat.Rho),
		YoungDef: float32(o.Sim.Mat.YoungMPa * 1e6),
		PoisDef:  float32(o.Sim.Mat.Poisson),
		Nx:       c.Nx,
		Ny:       c.Ny,
		StartZ:   c.StartZ,
	}
	if o.brittle != nil {
		mv.Dmg = o.dmg
	}
	return mv
}

// emitField notifies the field observer after a chunk was processed. Huge
// runs only emit every LiveChunkStride-th chunk.
func (o *Main) emitField(step, ci int, c *Chunk) {
	if o.FieldUpdate == nil {
		return
	}
	if o.Plan.Huge && ci%LiveChunkStride != 0 {
		return
	}
	o.FieldUpdate(step, c)
}

// takeSnapshot appends one snapshot. Failures are logged and skipped; a bad
// snapshot never aborts the run.
func (o *Main) takeSnapshot(step int) {
	snap := &Snapshot{TimeStep: step, SimTime: float64(step) * o.Sim.Dt}
	if o.Plan.Huge {
		snap.Field = o.maxvel.Clone()
	} else {
		gmag := vol.NewF32(o.Sim.Grid.Nx, o.Sim.Grid.Ny, o.Sim.Grid.Nz)
		for ci := 0; ci < o.Store.N(); ci++ {
			if err := o.Store.EnsureResident(ci); err != nil {
				io.Pfred("snapshot at step %d failed: %v\n", step, err)
				return
			}
			FillMagnitude(o.Store.Chunk(ci), gmag, o.nw)
		}
		snap.Field = gmag
	}
	o.snaps = append(o.snaps, snap)
}

// assemble builds the results from whatever progress exists. Huge runs still
// holding more than half the memory budget keep their chunks on disk and
// report the max-velocity field instead of the final one.
func (o *Main) assemble(cputime time.Time) (res *Results) {
	res = new(Results)
	res.MaxVel = o.maxvel
	res.Damage = o.dmg
	res.Labels = o.labels
	res.Snapshots = o.snaps
	res.RxVx = o.rxVx
	res.RxVy = o.rxVy
	res.RxVz = o.rxVz
	res.TotalTimeSteps = o.completed
	res.Dt = o.Sim.Dt
	res.Cancelled = o.cancelled
	res.Elapsed = time.Now().Sub(cputime)
	res.PArrivalStep = -1
	res.SArrivalStep = -1
	if o.det != nil {
		res.PArrivalStep = o.det.PStep
		res.SArrivalStep = o.det.SStep
	}

	// apparent velocities from the arrivals
	dist := o.Sim.TxRxDistance()
	res.PWaveVelocity = arrivalVelocity(dist, res.PArrivalStep, o.Sim.Dt)
	res.SWaveVelocity = arrivalVelocity(dist, res.SArrivalStep, o.Sim.Dt)
	if res.PWaveVelocity > 0 && res.SWaveVelocity > 0 {
		res.VpVsRatio = res.PWaveVelocity / res.SWaveVelocity
	}

	// final fields
	if o.Plan.Huge && o.Plan.FieldBytes > o.Plan.Budget/2 {
		res.VelMag = o.maxvel
		return
	}
	nx, ny, nz := o.Sim.Grid.Nx, o.Sim.Grid.Ny, o.Sim.Grid.Nz
	res.Vx = vol.NewF32(nx, ny, nz)
	res.Vy = vol.NewF32(nx, ny, nz)
	res.Vz = vol.NewF32(nx, ny, nz)
	res.VelMag = vol.NewF32(nx, ny, nz)
	for ci := 0; ci < o.Store.N(); ci++ {
		if err := o.Store.EnsureResident(ci); err != nil {
			io.Pfred("cannot reload chunk %d for assembly: %v\n", ci, err)
			continue
		}
		CopyVelocity(o.Store.Chunk(ci), res.Vx, res.Vy, res.Vz, res.VelMag, o.nw)
	}
	return
}

// onexit assembles results, cleans resources and prints the final message
func (o *Main) onexit(cputime time.Time, prevErr error) (res *Results, err error) {

	// assemble results with whatever progress was made; skipped when the run
	// failed since the fields may be inconsistent
	if prevErr == nil {
		res = o.assemble(cputime)
	}

	// clean resources
	if o.kernel != nil {
		o.kernel.Free()
		o.kernel = nil
	}
	o.Store.SetRunning(false)
	o.Store.ClearCache()
	o.Store.RemoveDir()

	// show final message
	if o.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> Success\n")
			io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
		} else {
			io.PfRed("> Failed\n")
		}
	}
	err = prevErr
	return
}
