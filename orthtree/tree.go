package orthtree

import "github.com/katalvlaran/nbody/vec3"

// New constructs an empty Tree from cfg (validated by NewConfig /
// NewConfigWithZeroDepth before being passed in here).
func New[LV any, NV any](cfg Config) (*Tree[LV, NV], error) {
	if err := validateConfig(cfg); err != nil {
		return nil, wrapf("New", err)
	}
	nodeCapacity := cfg.NodeCapacity
	if nodeCapacity == 0 {
		nodeCapacity = 1
	}

	t := &Tree[LV, NV]{
		dim:          cfg.Dim,
		children:     1 << uint(cfg.Dim),
		nodeCapacity: nodeCapacity,
		maxDepth:     cfg.MaxDepth,
		adjust:       cfg.Adjust,
		leaves:       make([]Leaf[LV], 0),
		nodes: []Node[NV]{{
			Depth:      0,
			Position:   cfg.LowerCorner,
			Dimensions: cfg.Dimensions,
		}},
	}
	return t, nil
}

// root returns a pointer to the root node (index 0).
func (t *Tree[LV, NV]) root() *Node[NV] { return &t.nodes[0] }

// Center returns the geometric center of a node, used both for the
// admissibility criterion (interaction package) and for splitting.
func Center[NV any](n *Node[NV]) vec3.Vec3 {
	return n.Position.Add(n.Dimensions.Scale(0.5))
}

// childIndexFor returns which of a node's 2^dim children contains p, given
// the node's geometric center.
func (t *Tree[LV, NV]) childIndexFor(c vec3.Vec3, p vec3.Vec3) int {
	idx := 0
	for d := 0; d < t.dim; d++ {
		if p.At(d) >= c.At(d) {
			idx |= 1 << uint(d)
		}
	}
	return idx
}
