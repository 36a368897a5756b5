package engine

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/katalvlaran/nbody/field"
	"github.com/katalvlaran/nbody/integrate"
	"github.com/katalvlaran/nbody/interaction"
	"github.com/katalvlaran/nbody/kernel"
	"github.com/katalvlaran/nbody/moment"
	"github.com/katalvlaran/nbody/orthtree"
	"github.com/katalvlaran/nbody/vec3"
)

// Engine is the step driver: it owns a tree of charged bodies, a shared
// set of typed kernel executors (one per distinct scratch-buffer element
// type, per kernel.Executor's own doc comment), and the scratch buffers
// those executors allocate -- reused across steps with geometric-growth
// resizing.
//
// Engine is not safe for concurrent use: Step mutates the tree and the
// scratch buffers in place.
type Engine struct {
	cfg      Config
	treeCfg  orthtree.Config
	fieldCfg field.Config

	tree *orthtree.Tree[Body, moment.Node]

	exInt   kernel.Executor[int]
	exVec   kernel.Executor[vec3.Vec3]
	exFloat kernel.Executor[float64]

	nearBuf  *kernel.Buffer[vec3.Vec3]
	farBuf   *kernel.Buffer[vec3.Vec3]
	forceBuf *kernel.Buffer[vec3.Vec3]
	posBuf   *kernel.Buffer[vec3.Vec3]
	velBuf   *kernel.Buffer[vec3.Vec3]
	massBuf  *kernel.Buffer[float64]

	time         float64
	cancel       atomic.Bool
	overCapacity bool
}

// New constructs an Engine from cfg, with an empty tree ready for Insert.
func New(cfg Config) (*Engine, error) {
	treeCfg, err := orthtree.NewConfig(orthtree.Config{
		Dim:          cfg.Dim,
		LowerCorner:  cfg.LowerCorner,
		Dimensions:   cfg.Dimensions,
		NodeCapacity: cfg.NodeCapacity,
		MaxDepth:     cfg.MaxDepth,
		Adjust:       cfg.Adjust,
	})
	if err != nil {
		return nil, fmt.Errorf("engine.New: %w", ErrInvalidConfig)
	}
	fieldCfg, err := field.NewConfig(field.Config{ForceConstant: cfg.ForceConstant, Epsilon: cfg.Epsilon})
	if err != nil {
		return nil, fmt.Errorf("engine.New: %w", ErrInvalidConfig)
	}
	tree, err := orthtree.New[Body, moment.Node](treeCfg)
	if err != nil {
		return nil, fmt.Errorf("engine.New: %w", ErrInvalidConfig)
	}

	cpuInt := kernel.NewCPUExecutor[int](cfg.Workers)
	cpuVec := kernel.NewCPUExecutor[vec3.Vec3](cfg.Workers)
	cpuFloat := kernel.NewCPUExecutor[float64](cfg.Workers)
	cpuVec.MaxAllocBytes = cfg.MaxSingleAllocBytes
	cpuFloat.MaxAllocBytes = cfg.MaxSingleAllocBytes

	nearBuf, err := cpuVec.Alloc(0, kernel.AccessReadWrite)
	if err != nil {
		return nil, fmt.Errorf("engine.New: %w", err)
	}
	farBuf, err := cpuVec.Alloc(0, kernel.AccessReadWrite)
	if err != nil {
		return nil, fmt.Errorf("engine.New: %w", err)
	}
	forceBuf, err := cpuVec.Alloc(0, kernel.AccessReadWrite)
	if err != nil {
		return nil, fmt.Errorf("engine.New: %w", err)
	}
	posBuf, err := cpuVec.Alloc(0, kernel.AccessReadWrite)
	if err != nil {
		return nil, fmt.Errorf("engine.New: %w", err)
	}
	velBuf, err := cpuVec.Alloc(0, kernel.AccessReadWrite)
	if err != nil {
		return nil, fmt.Errorf("engine.New: %w", err)
	}
	massBuf, err := cpuFloat.Alloc(0, kernel.AccessReadWrite)
	if err != nil {
		return nil, fmt.Errorf("engine.New: %w", err)
	}

	return &Engine{
		cfg:      cfg,
		treeCfg:  treeCfg,
		fieldCfg: fieldCfg,
		tree:     tree,
		exInt:    cpuInt,
		exVec:    cpuVec,
		exFloat:  cpuFloat,
		nearBuf:  nearBuf,
		farBuf:   farBuf,
		forceBuf: forceBuf,
		posBuf:   posBuf,
		velBuf:   velBuf,
		massBuf:  massBuf,
	}, nil
}

// Insert adds a particle to the engine's tree -- convenience for
// batch-load at construction.
func (e *Engine) Insert(p Particle) error {
	body := Body{Velocity: p.Velocity, Mass: p.Mass, Charge: p.Charge}
	_, nodeIdx, err := e.tree.Insert(p.Position, body)
	if err != nil {
		if errors.Is(err, orthtree.ErrOutOfBounds) {
			return fmt.Errorf("engine.Insert: %w", ErrOutOfBounds)
		}
		return fmt.Errorf("engine.Insert: %w", err)
	}
	if e.tree.IsOverCapacity(nodeIdx) {
		e.overCapacity = true
	}
	return nil
}

// Particles returns a finite, restartable snapshot of every tracked body
// in current leaf order; positions and velocities reflect the last
// completed Step.
func (e *Engine) Particles() []Particle {
	n := e.tree.NumLeaves()
	out := make([]Particle, n)
	for i := 0; i < n; i++ {
		leaf := e.tree.LeafAt(uint32(i))
		out[i] = Particle{
			Position: leaf.Position,
			Velocity: leaf.Value.Velocity,
			Mass:     leaf.Value.Mass,
			Charge:   leaf.Value.Charge,
		}
	}
	return out
}

// Time returns the simulation's current time, advanced by TimeStep on
// every completed Step.
func (e *Engine) Time() float64 { return e.time }

// Cancel requests that the in-flight or next Step abort at its next
// phase boundary. The flag is consumed (cleared) by the Step that honors
// it, so it never cancels more than one step.
func (e *Engine) Cancel() { e.cancel.Store(true) }

// CapacityExceeded reports whether any leaf-node produced by the most
// recent Insert or Step holds more leaves than NodeCapacity at max depth
// -- a non-fatal condition the caller may inspect.
func (e *Engine) CapacityExceeded() bool { return e.overCapacity }

func (e *Engine) checkCancelled() bool {
	return e.cancel.CompareAndSwap(true, false)
}

// Step advances the simulation by one Δt through the full pipeline:
// moment aggregation, interaction refinement and slot layout, near/far
// field evaluation, leapfrog integration, and tree rebuild. Any failure,
// or an observed cancellation, restores the tree to its state at the
// start of this call and returns without advancing time.
func (e *Engine) Step() (float64, error) {
	n := e.tree.NumLeaves()
	if n == 0 {
		e.time += e.cfg.TimeStep
		return e.time, nil
	}

	leaves := e.tree.CloneLeaves()
	nodes := e.tree.CloneNodes()
	rollback := func() { e.tree.Restore(leaves, nodes) }

	if e.checkCancelled() {
		rollback()
		return e.time, ErrCancelled
	}

	// Aggregating
	if _, err := moment.Aggregate(e.tree); err != nil {
		rollback()
		return e.time, newExecutorError("Aggregating", err)
	}
	if e.checkCancelled() {
		rollback()
		return e.time, ErrCancelled
	}

	// Interacting
	near, far, err := interaction.Refine(e.tree, e.cfg.Theta, e.cfg.DeviceMaxBufferBytes)
	if err != nil {
		rollback()
		return e.time, newExecutorError("Interacting", err)
	}
	layout := interaction.ComputeSlots(e.tree, near, far)
	if e.checkCancelled() {
		rollback()
		return e.time, ErrCancelled
	}

	// FieldEval
	nearSlots, err := e.growVec(e.nearBuf, int(layout.NearBase[n]), true)
	if err != nil {
		rollback()
		return e.time, err
	}
	farSlots, err := e.growVec(e.farBuf, int(layout.FarBase[n]), true)
	if err != nil {
		rollback()
		return e.time, err
	}
	if err := field.ComputeNear(e.exInt, e.tree, near, layout, e.fieldCfg, nearSlots); err != nil {
		rollback()
		return e.time, newExecutorError("FieldEval", err)
	}
	if err := field.ComputeFar(e.exInt, e.tree, far, layout, e.fieldCfg, farSlots); err != nil {
		rollback()
		return e.time, newExecutorError("FieldEval", err)
	}
	forces, err := e.growVec(e.forceBuf, n, false)
	if err != nil {
		rollback()
		return e.time, err
	}
	if err := field.ExtractForces(e.exInt, layout, nearSlots, farSlots, forces); err != nil {
		rollback()
		return e.time, newExecutorError("FieldEval", err)
	}
	if e.checkCancelled() {
		rollback()
		return e.time, ErrCancelled
	}

	// Integrating
	positions, err := e.growVec(e.posBuf, n, false)
	if err != nil {
		rollback()
		return e.time, err
	}
	velocities, err := e.growVec(e.velBuf, n, false)
	if err != nil {
		rollback()
		return e.time, err
	}
	masses, err := e.growFloat(e.massBuf, n)
	if err != nil {
		rollback()
		return e.time, err
	}

	bodies := make([]Body, n)
	for i := 0; i < n; i++ {
		leaf := e.tree.LeafAt(uint32(i))
		positions[i] = leaf.Position
		velocities[i] = leaf.Value.Velocity
		masses[i] = leaf.Value.Mass
		bodies[i] = leaf.Value
	}

	if err := integrate.Step(e.exInt, positions, velocities, masses, forces, e.cfg.TimeStep); err != nil {
		rollback()
		return e.time, newExecutorError("Integrating", err)
	}
	if e.checkCancelled() {
		rollback()
		return e.time, ErrCancelled
	}

	// Rebuilding: a fresh tree is built from the integrated positions
	// rather than relocating leaves in place, because Move's leaf-index
	// renumbering on structural change would require re-deriving every
	// remaining leaf's current index after each call -- a full rebuild
	// is the same asymptotic cost as the split/merge work Move would
	// have triggered anyway, and every leaf is assigned exactly once.
	newTree, err := orthtree.New[Body, moment.Node](e.treeCfg)
	if err != nil {
		rollback()
		return e.time, newExecutorError("Rebuilding", err)
	}
	e.overCapacity = false
	for i := 0; i < n; i++ {
		b := bodies[i]
		b.Velocity = velocities[i]
		_, nodeIdx, ierr := newTree.Insert(positions[i], b)
		if ierr != nil {
			rollback()
			return e.time, fmt.Errorf("engine.Step: %w", ErrOutOfBounds)
		}
		if newTree.IsOverCapacity(nodeIdx) {
			e.overCapacity = true
		}
	}

	e.tree = newTree
	e.time += e.cfg.TimeStep
	return e.time, nil
}

func (e *Engine) growVec(buf *kernel.Buffer[vec3.Vec3], n int, zero bool) ([]vec3.Vec3, error) {
	var probe vec3.Vec3
	if uint64(n)*uint64(unsafe.Sizeof(probe)) > e.exVec.MaxSingleAllocBytes() {
		return nil, ErrOutOfMemory
	}
	buf.Resize(n)
	if zero {
		if err := e.exVec.FillZero(buf); err != nil {
			return nil, newExecutorError("FieldEval", err)
		}
	}
	return e.exVec.Map(buf, kernel.AccessReadWrite)
}

func (e *Engine) growFloat(buf *kernel.Buffer[float64], n int) ([]float64, error) {
	if uint64(n)*uint64(unsafe.Sizeof(float64(0))) > e.exFloat.MaxSingleAllocBytes() {
		return nil, ErrOutOfMemory
	}
	buf.Resize(n)
	return e.exFloat.Map(buf, kernel.AccessReadWrite)
}
