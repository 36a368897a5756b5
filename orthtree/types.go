package orthtree

import "github.com/katalvlaran/nbody/vec3"

// DefaultNodeCapacity is a conventional leaf-node capacity for callers
// that have no better choice. NewConfig does not apply it: a zero
// Config.NodeCapacity is treated as 1.
const DefaultNodeCapacity = 8

// DefaultMaxDepth bounds tree depth when Config.MaxDepth is left at zero.
// A depth of 32 is generous for float64 coordinates: each level halves the
// box, so 32 levels resolve a 2^-32 fraction of the root extent.
const DefaultMaxDepth = 32

// Config configures a Tree's geometry and mutation policy.
type Config struct {
	// Dim is the number of axes that participate in splitting: 2 for a
	// quadtree, 3 for an octree. Branching factor is 2^Dim. Axes beyond
	// Dim (if any) are carried in leaf/node positions but never split on.
	Dim int

	// LowerCorner is the root box's lower corner.
	LowerCorner vec3.Vec3

	// Dimensions is the root box's size along each axis; every component
	// must be strictly positive.
	Dimensions vec3.Vec3

	// NodeCapacity is the maximum number of leaves a leaf-node holds
	// before splitting. Zero is treated as 1 (the documented minimum),
	// per spec: "node_capacity = 0 behaves as 1".
	NodeCapacity uint32

	// MaxDepth bounds how deep Insert/Adjust will split. Zero is treated
	// as DefaultMaxDepth unless the caller explicitly wants MaxDepth==0
	// (all leaves forced into the root) -- see NewConfigWithZeroDepth.
	MaxDepth uint32

	// Adjust enables automatic splitting on over-capacity Insert and
	// merging on under-capacity Erase/Move. When false, the tree's shape
	// is only ever changed by explicit calls to Adjust.
	Adjust bool

	// allowZeroDepth distinguishes "MaxDepth left unset" from "MaxDepth
	// explicitly set to 0" across the two constructors below.
	allowZeroDepth bool
}

// NewConfig returns cfg unchanged except for documented zero-value
// defaulting (NodeCapacity 0 -> 1, MaxDepth 0 -> DefaultMaxDepth), then
// validates it.
func NewConfig(cfg Config) (Config, error) {
	if cfg.NodeCapacity == 0 {
		cfg.NodeCapacity = 1
	}
	if cfg.MaxDepth == 0 && !cfg.allowZeroDepth {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewConfigWithZeroDepth is identical to NewConfig except a MaxDepth of 0
// is honored literally (forcing every leaf into the root, regardless of
// NodeCapacity) instead of being defaulted.
func NewConfigWithZeroDepth(cfg Config) (Config, error) {
	cfg.allowZeroDepth = true
	return NewConfig(cfg)
}

func validateConfig(cfg Config) error {
	if cfg.Dim < 1 || cfg.Dim > 3 {
		return wrapf("NewConfig", ErrInvalidConfig)
	}
	for d := 0; d < cfg.Dim; d++ {
		if cfg.Dimensions.At(d) <= 0 {
			return wrapf("NewConfig", ErrInvalidConfig)
		}
	}
	return nil
}

// Leaf is a single point payload owned exclusively by a Tree's internal
// leaf buffer. LV is the caller-supplied leaf value type (in the engine,
// velocity/mass/charge).
type Leaf[LV any] struct {
	Position vec3.Vec3
	Value    LV
}

// Node is a tree node: geometry, relative tree links, and an aggregate
// payload NV (in the engine, a moment.Node).
type Node[NV any] struct {
	Depth uint32

	HasChildren bool
	// ChildOffsets holds 2^Dim+1 entries, relative to this node's own
	// index: ChildOffsets[c] is the offset to child c, and
	// ChildOffsets[2^Dim] is the offset to this node's next sibling
	// (equivalently, the size of this node's subtree). Empty when
	// HasChildren is false.
	ChildOffsets []uint32

	HasParent bool
	// ParentOffset is relative (negative: the parent is ParentOffset
	// slots before this node; it is never positive).
	ParentOffset int32
	// SiblingIndex is which child of its parent this node is (0..2^Dim-1).
	SiblingIndex uint32

	LeafCount uint32
	LeafStart uint32

	Position   vec3.Vec3 // lower corner
	Dimensions vec3.Vec3 // box size

	Value NV
}

// contains reports whether p lies in this node's half-open box, tested
// over the tree's Dim active axes only.
func (n *Node[NV]) contains(p vec3.Vec3, dim int) bool {
	for d := 0; d < dim; d++ {
		lo := n.Position.At(d)
		hi := lo + n.Dimensions.At(d)
		x := p.At(d)
		if x < lo || x >= hi {
			return false
		}
	}
	return true
}

// Tree is a dimension-generic, flat-array orthtree. LV is the leaf value
// type; NV is the node aggregate type. Zero value is not usable; construct
// with New.
type Tree[LV any, NV any] struct {
	dim      int
	children int // 1 << dim

	nodeCapacity uint32
	maxDepth     uint32
	adjust       bool

	leaves []Leaf[LV]
	nodes  []Node[NV]
}

// Dim returns the tree's configured dimension (2 or 3, typically).
func (t *Tree[LV, NV]) Dim() int { return t.dim }

// Children returns the branching factor, 2^Dim.
func (t *Tree[LV, NV]) Children() int { return t.children }

// NumLeaves returns the number of live leaves.
func (t *Tree[LV, NV]) NumLeaves() int { return len(t.leaves) }

// NumNodes returns the number of live nodes (always >= 1: the root).
func (t *Tree[LV, NV]) NumNodes() int { return len(t.nodes) }

// LeafAt returns a pointer into the tree's internal leaf buffer. The
// pointer is invalidated by any mutating call (Insert/Erase/Move/Adjust).
func (t *Tree[LV, NV]) LeafAt(idx uint32) *Leaf[LV] { return &t.leaves[idx] }

// NodeAt returns a pointer into the tree's internal node buffer. The
// pointer is invalidated by any mutating call.
func (t *Tree[LV, NV]) NodeAt(idx uint32) *Node[NV] { return &t.nodes[idx] }

// Root returns a handle to the root node (always index 0).
func (t *Tree[LV, NV]) Root() NodeHandle[LV, NV] {
	return NodeHandle[LV, NV]{tree: t, idx: 0}
}
