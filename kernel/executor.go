package kernel

import "errors"

// ErrOutOfMemory is returned by Alloc when count*sizeof(T) would exceed
// MaxSingleAllocBytes.
var ErrOutOfMemory = errors.New("kernel: allocation exceeds max_single_alloc_bytes")

// Executor is the dispatch interface the step driver targets. T is the
// element type of every buffer a given Executor
// instance manages; the driver holds one Executor[T] per distinct buffer
// element type it needs in a step (positions, moments, interactions,
// field slots, ...).
type Executor[T any] interface {
	Alloc(count int, access Access) (*Buffer[T], error)
	Write(buf *Buffer[T], data []T) error
	Read(buf *Buffer[T], out []T) error
	Copy(src, dst *Buffer[T], count int) error
	FillZero(buf *Buffer[T]) error
	Map(buf *Buffer[T], access Access) ([]T, error)
	Unmap(buf *Buffer[T], data []T) error
	// Launch runs fn once per point in globalShape's iteration space,
	// synchronously from the caller's perspective. localShape groups work
	// items for executors that care about work-group locality; the CPU
	// reference executor ignores it.
	Launch(globalShape, localShape []int, fn KernelFunc) error
	MaxSingleAllocBytes() uint64
}
