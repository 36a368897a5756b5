package kernel

// minBufferCapacity is the floor a Buffer never shrinks below (spec
// section 6.2: "minimum capacity is 1 element").
const minBufferCapacity = 1

// Buffer is the concrete growable, typed scratch buffer Alloc returns.
// Its backing array grows by doubling and shrinks by halving (spec
// section 6.2), independent of the executor that allocated it.
type Buffer[T any] struct {
	data   []T
	length int
	access Access
}

func newBuffer[T any](count int, access Access) *Buffer[T] {
	capacity := minBufferCapacity
	for capacity < count {
		capacity *= 2
	}
	return &Buffer[T]{data: make([]T, capacity), length: count, access: access}
}

// Len returns the buffer's current logical element count.
func (b *Buffer[T]) Len() int { return b.length }

// Cap returns the buffer's current backing capacity (>= Len()).
func (b *Buffer[T]) Cap() int { return len(b.data) }

// Access returns the access mode Alloc was called with.
func (b *Buffer[T]) Access() Access { return b.access }

// Slice returns the live [0:Len()) view of the buffer's backing array.
// The returned slice is invalidated by the next Resize call.
func (b *Buffer[T]) Slice() []T { return b.data[:b.length] }

// Resize changes the buffer's logical length to n. If n exceeds the
// current capacity, the backing array is grown by repeated doubling
// (never by exactly n, to amortize future growth). If utilisation would
// drop below 25%, the backing array is halved instead, down to
// minBufferCapacity.
func (b *Buffer[T]) Resize(n int) {
	switch {
	case n > len(b.data):
		newCap := len(b.data)
		if newCap < minBufferCapacity {
			newCap = minBufferCapacity
		}
		for newCap < n {
			newCap *= 2
		}
		grown := make([]T, newCap)
		copy(grown, b.data[:b.length])
		b.data = grown
	case len(b.data) > minBufferCapacity && n*4 < len(b.data):
		// Utilisation has dropped below 25%: halve the backing array.
		// A single halving per Resize call is enough -- further shrinks
		// (if still under-utilised) happen on the next call, the same
		// way growth only ever doubles enough to fit the current n.
		newCap := len(b.data) / 2
		if newCap < minBufferCapacity {
			newCap = minBufferCapacity
		}
		shrunk := make([]T, newCap)
		copy(shrunk, b.data[:min(n, len(b.data))])
		b.data = shrunk
	}
	b.length = n
}
