package kernel

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sync/errgroup"
)

// CPUExecutor is the reference Executor: buffers are plain host slices,
// and Launch fans its work items out across goroutines, bounded by
// Workers (0 means runtime.GOMAXPROCS(0)) via errgroup -- the same
// fan-out-with-first-error shape the rest of this module uses for
// concurrent work.
type CPUExecutor[T any] struct {
	// Workers caps how many goroutines a single Launch call uses. Zero
	// means runtime.GOMAXPROCS(0).
	Workers int
	// MaxAllocBytes caps a single Alloc's size; zero means unbounded.
	MaxAllocBytes uint64
}

// NewCPUExecutor constructs a CPUExecutor with the given worker cap.
func NewCPUExecutor[T any](workers int) *CPUExecutor[T] {
	return &CPUExecutor[T]{Workers: workers}
}

func (e *CPUExecutor[T]) workerCount() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Alloc implements Executor.
func (e *CPUExecutor[T]) Alloc(count int, access Access) (*Buffer[T], error) {
	if count < 0 {
		return nil, fmt.Errorf("kernel: negative buffer count %d", count)
	}
	if e.MaxAllocBytes > 0 {
		var zero T
		if uint64(count)*uint64(unsafe.Sizeof(zero)) > e.MaxAllocBytes {
			return nil, ErrOutOfMemory
		}
	}
	return newBuffer[T](count, access), nil
}

// Write implements Executor.
func (e *CPUExecutor[T]) Write(buf *Buffer[T], data []T) error {
	if len(data) != buf.Len() {
		return fmt.Errorf("kernel: write length %d does not match buffer length %d", len(data), buf.Len())
	}
	copy(buf.Slice(), data)
	return nil
}

// Read implements Executor.
func (e *CPUExecutor[T]) Read(buf *Buffer[T], out []T) error {
	if len(out) != buf.Len() {
		return fmt.Errorf("kernel: read length %d does not match buffer length %d", len(out), buf.Len())
	}
	copy(out, buf.Slice())
	return nil
}

// Copy implements Executor.
func (e *CPUExecutor[T]) Copy(src, dst *Buffer[T], count int) error {
	if count > src.Len() || count > dst.Len() {
		return fmt.Errorf("kernel: copy count %d exceeds a buffer's length", count)
	}
	copy(dst.Slice()[:count], src.Slice()[:count])
	return nil
}

// FillZero implements Executor.
func (e *CPUExecutor[T]) FillZero(buf *Buffer[T]) error {
	var zero T
	s := buf.Slice()
	for i := range s {
		s[i] = zero
	}
	return nil
}

// Map implements Executor: host buffers are already host-addressable, so
// Map is a zero-cost view of the backing slice.
func (e *CPUExecutor[T]) Map(buf *Buffer[T], access Access) ([]T, error) {
	return buf.Slice(), nil
}

// Unmap implements Executor: nothing to flush back for host memory.
func (e *CPUExecutor[T]) Unmap(buf *Buffer[T], data []T) error { return nil }

// MaxSingleAllocBytes implements Executor.
func (e *CPUExecutor[T]) MaxSingleAllocBytes() uint64 {
	if e.MaxAllocBytes > 0 {
		return e.MaxAllocBytes
	}
	return ^uint64(0)
}

// Launch implements Executor by flattening globalShape's iteration space
// and fanning it out across goroutines, each computing its own
// multi-dimensional coordinate. The first error from any work item is
// returned once every in-flight item has completed.
func (e *CPUExecutor[T]) Launch(globalShape, localShape []int, fn KernelFunc) error {
	total := 1
	for _, g := range globalShape {
		total *= g
	}
	if total == 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(e.workerCount())
	for flat := 0; flat < total; flat++ {
		flat := flat
		g.Go(func() error {
			return fn(unflatten(flat, globalShape))
		})
	}
	return g.Wait()
}

func unflatten(flat int, shape []int) []int {
	id := make([]int, len(shape))
	for d := len(shape) - 1; d >= 0; d-- {
		id[d] = flat % shape[d]
		flat /= shape[d]
	}
	return id
}
