package engine

import (
	"math"

	"github.com/katalvlaran/nbody/vec3"
)

// DefaultTheta is the admissibility threshold used when WithTheta is not
// supplied -- a common middle-ground value in Barnes-Hut literature
// (accuracy/cost tradeoff).
const DefaultTheta = 0.5

// DefaultWorkers, left at zero, tells kernel.CPUExecutor to size its
// goroutine pool from runtime.GOMAXPROCS(0).
const DefaultWorkers = 0

// DefaultDeviceMaxBufferBytes bounds how many refinable pairs
// interaction.Refine drains from its queue per round; see batchSize in
// interaction/refine.go for the derivation. 1<<20 is generous for the tree sizes
// this engine targets.
const DefaultDeviceMaxBufferBytes = uint64(1) << 20

// Config configures an Engine's geometry, physics, and execution policy.
// Construct with NewConfig, never as a bare literal, so defaults and
// validation both run.
type Config struct {
	Dim         int
	LowerCorner vec3.Vec3
	Dimensions  vec3.Vec3

	NodeCapacity uint32
	MaxDepth     uint32
	Adjust       bool

	Theta         float64
	ForceConstant float64
	Epsilon       float64
	TimeStep      float64

	Workers              int
	DeviceMaxBufferBytes uint64
	MaxSingleAllocBytes  uint64
}

// Option customizes a Config before NewConfig validates it. As a rule,
// option constructors never panic at runtime.
type Option func(cfg *Config)

// WithBounds sets the root box's lower corner and extent. Required: the
// zero Config has a zero-size box, which NewConfig rejects.
func WithBounds(lowerCorner, dimensions vec3.Vec3) Option {
	return func(cfg *Config) {
		cfg.LowerCorner = lowerCorner
		cfg.Dimensions = dimensions
	}
}

// WithDim sets the number of axes that participate in splitting (1 to 3).
func WithDim(dim int) Option {
	return func(cfg *Config) { cfg.Dim = dim }
}

// WithNodeCapacity sets the maximum leaves a leaf-node holds before
// splitting. Zero behaves as 1 (orthtree's documented minimum).
func WithNodeCapacity(n uint32) Option {
	return func(cfg *Config) { cfg.NodeCapacity = n }
}

// WithMaxDepth bounds tree depth. Zero defaults to orthtree.DefaultMaxDepth.
func WithMaxDepth(depth uint32) Option {
	return func(cfg *Config) { cfg.MaxDepth = depth }
}

// WithAdjust enables or disables automatic split/merge on Insert/Rebuild.
func WithAdjust(adjust bool) Option {
	return func(cfg *Config) { cfg.Adjust = adjust }
}

// WithTheta sets the admissibility threshold s/r <= theta. Negative values
// are rejected by NewConfig.
func WithTheta(theta float64) Option {
	return func(cfg *Config) { cfg.Theta = theta }
}

// WithForceConstant sets the coupling constant every pairwise and
// multipole field term is scaled by.
func WithForceConstant(k float64) Option {
	return func(cfg *Config) { cfg.ForceConstant = k }
}

// WithEpsilon sets the near-field softening length. Negative values are
// rejected by NewConfig.
func WithEpsilon(eps float64) Option {
	return func(cfg *Config) { cfg.Epsilon = eps }
}

// WithTimeStep sets Δt. Non-positive values are rejected by NewConfig.
func WithTimeStep(dt float64) Option {
	return func(cfg *Config) { cfg.TimeStep = dt }
}

// WithWorkers caps the goroutine pool every phase's kernel.CPUExecutor
// uses. Zero (the default) means runtime.GOMAXPROCS(0).
func WithWorkers(workers int) Option {
	return func(cfg *Config) { cfg.Workers = workers }
}

// WithDeviceMaxBufferBytes bounds interaction.Refine's per-round batch
// size -- see batchSize in interaction/refine.go for the derivation from
// the tree's branching factor.
func WithDeviceMaxBufferBytes(n uint64) Option {
	return func(cfg *Config) { cfg.DeviceMaxBufferBytes = n }
}

// WithMaxSingleAllocBytes caps any single scratch-buffer growth; zero
// means unbounded. Exceeding it at grow time surfaces ErrOutOfMemory.
func WithMaxSingleAllocBytes(n uint64) Option {
	return func(cfg *Config) { cfg.MaxSingleAllocBytes = n }
}

// NewConfig returns a Config initialized with defaults, applies each
// Option in order (later options override earlier ones), then validates
// the result.
func NewConfig(opts ...Option) (Config, error) {
	cfg := Config{
		Dim:                  3,
		Theta:                DefaultTheta,
		ForceConstant:        1,
		Workers:              DefaultWorkers,
		DeviceMaxBufferBytes: DefaultDeviceMaxBufferBytes,
	}

	var opt Option
	for _, opt = range opts {
		opt(&cfg)
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Dim < 1 || cfg.Dim > 3 {
		return ErrInvalidConfig
	}
	for d := 0; d < cfg.Dim; d++ {
		if cfg.Dimensions.At(d) <= 0 {
			return ErrInvalidConfig
		}
	}
	if cfg.Theta < 0 || math.IsNaN(cfg.Theta) {
		return ErrInvalidConfig
	}
	if cfg.TimeStep <= 0 || math.IsNaN(cfg.TimeStep) {
		return ErrInvalidConfig
	}
	if cfg.Epsilon < 0 || math.IsNaN(cfg.Epsilon) {
		return ErrInvalidConfig
	}
	return nil
}
