package orthtree

import "github.com/katalvlaran/nbody/vec3"

// find descends from the root to the leaf-node containing pos, returning
// that node's index along with the full ancestor path (path[0] == 0 is the
// root, path[len(path)-1] is the returned leaf-node). Returns
// ErrOutOfBounds, with path nil, if pos does not lie in the root's box.
func (t *Tree[LV, NV]) find(pos vec3.Vec3) (uint32, []uint32, error) {
	root := t.root()
	if !root.contains(pos, t.dim) {
		return 0, nil, wrapf("find", ErrOutOfBounds)
	}

	path := []uint32{0}
	cur := uint32(0)
	for {
		n := &t.nodes[cur]
		if !n.HasChildren {
			return cur, path, nil
		}
		c := Center(n)
		childRel := n.ChildOffsets[t.childIndexFor(c, pos)]
		cur = cur + childRel
		path = append(path, cur)
	}
}

// Find descends from the tree's root to the leaf-node containing position,
// returning a handle to it. Unlike the internal find helper used by the
// mutating operations, this is the public read-only query.
func (t *Tree[LV, NV]) Find(pos vec3.Vec3) (NodeHandle[LV, NV], error) {
	idx, _, err := t.find(pos)
	if err != nil {
		return NodeHandle[LV, NV]{}, wrapf("Find", ErrOutOfBounds)
	}
	return NodeHandle[LV, NV]{tree: t, idx: idx}, nil
}

// FindFromHint behaves like Find, but begins the search by climbing from
// hint to the first ancestor whose box contains pos, then descending back
// down -- the cheap way to re-locate a leaf after a small move, instead
// of searching from the root. When hint's whole tree doesn't contain pos
// (i.e. climbing reaches the root and it still doesn't contain pos),
// returns ErrOutOfBounds.
func (t *Tree[LV, NV]) FindFromHint(hint uint32, pos vec3.Vec3) (uint32, []uint32, error) {
	cur := hint
	for !t.nodes[cur].contains(pos, t.dim) {
		n := &t.nodes[cur]
		if !n.HasParent {
			return 0, nil, wrapf("FindFromHint", ErrOutOfBounds)
		}
		cur = uint32(int64(cur) + int64(n.ParentOffset))
	}
	// cur's box contains pos; the path starts with cur's ancestors from
	// the root down to cur, then descends from cur.
	var descendPath []uint32
	for a := cur; ; {
		descendPath = append([]uint32{a}, descendPath...)
		an := &t.nodes[a]
		if !an.HasParent {
			break
		}
		a = uint32(int64(a) + int64(an.ParentOffset))
	}
	for {
		n := &t.nodes[cur]
		if !n.HasChildren {
			return cur, descendPath, nil
		}
		c := Center(n)
		childRel := n.ChildOffsets[t.childIndexFor(c, pos)]
		cur = cur + childRel
		descendPath = append(descendPath, cur)
	}
}
