package orthtree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nbody/vec3"
)

func newQuadtree(t *testing.T, capacity, maxDepth uint32, adjust bool) *Tree[int, int] {
	t.Helper()
	cfg, err := NewConfig(Config{
		Dim:          2,
		LowerCorner:  vec3.Vec3{},
		Dimensions:   vec3.Vec3{X: 16, Y: 16},
		NodeCapacity: capacity,
		MaxDepth:     maxDepth,
		Adjust:       adjust,
	})
	require.NoError(t, err)
	tr, err := New[int, int](cfg)
	require.NoError(t, err)
	return tr
}

// checkInvariants walks the whole tree and re-derives what relink and the
// leaf-shift bookkeeping maintain: pre-order layout, child offsets, parent
// links, sibling indices, depths, per-node leaf counts, and leaf-node leaf
// ranges covering the leaf buffer in pre-order. It does not check leaf
// positions against node boxes, the capacity bound, or merging.
func checkInvariants[LV any, NV any](t *testing.T, tr *Tree[LV, NV]) {
	t.Helper()
	n := tr.NumNodes()
	require.GreaterOrEqual(t, n, 1)

	seenLeafStart := uint32(0)
	var walk func(idx uint32) uint32
	walk = func(idx uint32) uint32 {
		node := tr.NodeAt(idx)
		if !node.HasChildren {
			require.Equal(t, seenLeafStart, node.LeafStart, "leaf-node %d out of pre-order leaf range", idx)
			seenLeafStart += node.LeafCount
			return idx + 1
		}
		require.Len(t, node.ChildOffsets, tr.children+1)
		cursor := idx + 1
		var total uint32
		for c := 0; c < tr.children; c++ {
			require.Equal(t, cursor-idx, node.ChildOffsets[c], "child %d offset mismatch at node %d", c, idx)
			child := tr.NodeAt(cursor)
			require.True(t, child.HasParent)
			require.Equal(t, int32(idx)-int32(cursor), child.ParentOffset)
			require.Equal(t, uint32(c), child.SiblingIndex)
			require.Equal(t, node.Depth+1, child.Depth)
			next := walk(cursor)
			total += child.LeafCount
			cursor = next
		}
		require.Equal(t, cursor-idx, node.ChildOffsets[tr.children], "subtree size mismatch at node %d", idx)
		require.Equal(t, total, node.LeafCount, "aggregate leaf count mismatch at node %d", idx)
		return cursor
	}
	end := walk(0)
	require.Equal(t, uint32(n), end, "pre-order walk did not cover every node")
	require.Equal(t, uint32(tr.NumLeaves()), seenLeafStart, "leaf buffer not fully covered by leaf-nodes")
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig(Config{Dim: 2, Dimensions: vec3.Vec3{X: 1, Y: 1}})
	require.NoError(t, err)
	require.EqualValues(t, 1, cfg.NodeCapacity)
	require.EqualValues(t, DefaultMaxDepth, cfg.MaxDepth)
}

func TestNewConfigZeroDepthHonored(t *testing.T) {
	cfg, err := NewConfigWithZeroDepth(Config{Dim: 2, Dimensions: vec3.Vec3{X: 1, Y: 1}})
	require.NoError(t, err)
	require.EqualValues(t, 0, cfg.MaxDepth)
}

func TestNewConfigRejectsBadDim(t *testing.T) {
	_, err := NewConfig(Config{Dim: 0, Dimensions: vec3.Vec3{X: 1, Y: 1}})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewConfig(Config{Dim: 4, Dimensions: vec3.Vec3{X: 1, Y: 1, Z: 1}})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewConfigRejectsNonPositiveDimensions(t *testing.T) {
	_, err := NewConfig(Config{Dim: 2, Dimensions: vec3.Vec3{X: 0, Y: 1}})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestInsertFindRoundTrip(t *testing.T) {
	tr := newQuadtree(t, 4, 8, true)
	leafIdx, _, err := tr.Insert(vec3.Vec3{X: 1, Y: 1}, 42)
	require.NoError(t, err)
	require.Equal(t, 42, tr.LeafAt(leafIdx).Value)

	h, err := tr.Find(vec3.Vec3{X: 1, Y: 1})
	require.NoError(t, err)
	require.Equal(t, uint32(1), h.Node().LeafCount)
	checkInvariants(t, tr)
}

func TestInsertOutOfBoundsLeavesTreeUnchanged(t *testing.T) {
	tr := newQuadtree(t, 4, 8, true)
	_, _, err := tr.Insert(vec3.Vec3{X: 1, Y: 1}, 1)
	require.NoError(t, err)

	_, _, err = tr.Insert(vec3.Vec3{X: 100, Y: 100}, 2)
	require.ErrorIs(t, err, ErrOutOfBounds)
	require.Equal(t, 1, tr.NumLeaves())
}

func TestHalfOpenUpperBoundary(t *testing.T) {
	tr := newQuadtree(t, 4, 8, true)
	_, _, err := tr.Insert(vec3.Vec3{X: 16, Y: 1}, 1)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, _, err = tr.Insert(vec3.Vec3{X: 15.9999, Y: 1}, 1)
	require.NoError(t, err)
}

func TestAutoSplitOnOverCapacity(t *testing.T) {
	tr := newQuadtree(t, 2, 8, true)
	pts := []vec3.Vec3{
		{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2},
	}
	for i, p := range pts {
		_, _, err := tr.Insert(p, i)
		require.NoError(t, err)
	}
	require.True(t, tr.Root().Node().HasChildren)
	require.Equal(t, 4, tr.Children())
	checkInvariants(t, tr)
}

func TestMaxDepthZeroForcesEverythingIntoRoot(t *testing.T) {
	cfg, err := NewConfigWithZeroDepth(Config{
		Dim: 2, Dimensions: vec3.Vec3{X: 16, Y: 16}, NodeCapacity: 1, Adjust: true,
	})
	require.NoError(t, err)
	tr, err := New[int, int](cfg)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, _, err := tr.Insert(vec3.Vec3{X: float64(i), Y: 0}, i)
		require.NoError(t, err)
	}
	require.False(t, tr.Root().Node().HasChildren)
	require.True(t, tr.IsOverCapacity(0))
	checkInvariants(t, tr)
}

func TestNodeCapacityZeroBehavesAsOne(t *testing.T) {
	cfg, err := NewConfig(Config{Dim: 2, Dimensions: vec3.Vec3{X: 16, Y: 16}, Adjust: true})
	require.NoError(t, err)
	tr, err := New[int, int](cfg)
	require.NoError(t, err)

	_, _, err = tr.Insert(vec3.Vec3{X: 1, Y: 1}, 1)
	require.NoError(t, err)
	require.False(t, tr.Root().Node().HasChildren)

	_, _, err = tr.Insert(vec3.Vec3{X: 1, Y: 2}, 2)
	require.NoError(t, err)
	require.True(t, tr.Root().Node().HasChildren)
	checkInvariants(t, tr)
}

func TestEraseMergesBackDown(t *testing.T) {
	tr := newQuadtree(t, 2, 8, true)
	var ids []uint32
	pts := []vec3.Vec3{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}}
	for i, p := range pts {
		id, _, err := tr.Insert(p, i)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.True(t, tr.Root().Node().HasChildren)

	_, err := tr.Erase(ids[0])
	require.NoError(t, err)
	checkInvariants(t, tr)

	_, err = tr.Erase(ids[1])
	require.NoError(t, err)
	require.False(t, tr.Root().Node().HasChildren)
	require.Equal(t, 1, tr.NumLeaves())
	checkInvariants(t, tr)
}

func TestEraseInvalidLeafIndex(t *testing.T) {
	tr := newQuadtree(t, 4, 8, true)
	_, err := tr.Erase(0)
	require.ErrorIs(t, err, ErrInvalidLeaf)
}

func TestMoveWithinSameNodeIsInPlace(t *testing.T) {
	tr := newQuadtree(t, 8, 8, true)
	id, _, err := tr.Insert(vec3.Vec3{X: 1, Y: 1}, 1)
	require.NoError(t, err)

	require.NoError(t, tr.Move(id, vec3.Vec3{X: 1.5, Y: 1.5}))
	require.Equal(t, vec3.Vec3{X: 1.5, Y: 1.5}, tr.LeafAt(id).Position)
	checkInvariants(t, tr)
}

func TestMoveAcrossNodesSplitsDestination(t *testing.T) {
	tr := newQuadtree(t, 1, 8, true)
	idA, _, err := tr.Insert(vec3.Vec3{X: 1, Y: 1}, 1)
	require.NoError(t, err)
	idB, _, err := tr.Insert(vec3.Vec3{X: 2, Y: 1}, 2)
	require.NoError(t, err)
	require.True(t, tr.Root().Node().HasChildren)

	// Moving idB onto idA's position leaves its old leaf-node empty (its
	// ancestors still hold both leaves, so nothing merges) and splits the
	// destination leaf-node, which now holds 2 leaves.
	require.NoError(t, tr.Move(idB, vec3.Vec3{X: 1, Y: 1}))
	checkInvariants(t, tr)
	require.Equal(t, vec3.Vec3{X: 1, Y: 1}, tr.LeafAt(idB).Position)
	_ = idA
}

func TestMoveOutOfBoundsLeavesTreeUnchanged(t *testing.T) {
	tr := newQuadtree(t, 4, 8, true)
	id, _, err := tr.Insert(vec3.Vec3{X: 1, Y: 1}, 1)
	require.NoError(t, err)

	err = tr.Move(id, vec3.Vec3{X: 100, Y: 100})
	require.ErrorIs(t, err, ErrOutOfBounds)
	require.Equal(t, vec3.Vec3{X: 1, Y: 1}, tr.LeafAt(id).Position)
}

func TestAdjustIsIdempotent(t *testing.T) {
	tr := newQuadtree(t, 1, 8, false)
	for i := 0; i < 6; i++ {
		_, _, err := tr.Insert(vec3.Vec3{X: float64(i % 4), Y: float64(i / 4)}, i)
		require.NoError(t, err)
	}
	require.False(t, tr.Root().Node().HasChildren)

	tr.Adjust(0)
	checkInvariants(t, tr)
	nodesAfterFirst := tr.NumNodes()

	tr.Adjust(0)
	checkInvariants(t, tr)
	require.Equal(t, nodesAfterFirst, tr.NumNodes(), "Adjust must be idempotent")
}

func TestPreOrderVisitsRootFirst(t *testing.T) {
	tr := newQuadtree(t, 1, 8, true)
	for i := 0; i < 3; i++ {
		_, _, err := tr.Insert(vec3.Vec3{X: float64(i), Y: float64(i)}, i)
		require.NoError(t, err)
	}
	var seen []uint32
	tr.PreOrder(func(idx uint32, _ *Node[int]) bool {
		seen = append(seen, idx)
		return true
	})
	require.Equal(t, uint32(0), seen[0])
	require.Len(t, seen, tr.NumNodes())
}

func TestLeafNodesSkipsInternalNodes(t *testing.T) {
	tr := newQuadtree(t, 1, 8, true)
	for i := 0; i < 3; i++ {
		_, _, err := tr.Insert(vec3.Vec3{X: float64(i), Y: float64(i)}, i)
		require.NoError(t, err)
	}
	var total uint32
	tr.LeafNodes(func(_ uint32, n *Node[int]) bool {
		require.False(t, n.HasChildren)
		total += n.LeafCount
		return true
	})
	require.Equal(t, uint32(tr.NumLeaves()), total)
}

func TestOverlappingFindsContainingLeafNode(t *testing.T) {
	tr := newQuadtree(t, 4, 8, true)
	_, _, err := tr.Insert(vec3.Vec3{X: 1, Y: 1}, 1)
	require.NoError(t, err)

	var hits int
	tr.Overlapping(vec3.Vec3{X: 0.5, Y: 0.5}, vec3.Vec3{X: 1, Y: 1}, func(idx uint32, n *Node[int]) bool {
		hits++
		return true
	})
	require.GreaterOrEqual(t, hits, 1)
}

func TestCloneAndRestoreRoundTrip(t *testing.T) {
	tr := newQuadtree(t, 2, 8, true)
	for i := 0; i < 5; i++ {
		_, _, err := tr.Insert(vec3.Vec3{X: float64(i % 4), Y: float64(i / 4)}, i)
		require.NoError(t, err)
	}
	leavesBefore := tr.CloneLeaves()
	nodesBefore := tr.CloneNodes()

	_, _, err := tr.Insert(vec3.Vec3{X: 3, Y: 3}, 99)
	require.NoError(t, err)
	require.NotEqual(t, len(leavesBefore), tr.NumLeaves())

	tr.Restore(leavesBefore, nodesBefore)
	require.Equal(t, len(leavesBefore), tr.NumLeaves())
	checkInvariants(t, tr)
}

func TestInsertEraseFuzzPreservesInvariants(t *testing.T) {
	tr := newQuadtree(t, 3, 6, true)
	// Deterministic pseudo-random walk: no math/rand dependence on seed
	// semantics, just a fixed recognizable sequence of positions. Every
	// other point is inserted then immediately erased, exercising the
	// split/merge bookkeeping repeatedly without needing to track how
	// leaf indices shift under concurrent live insertions.
	seq := []vec3.Vec3{
		{X: 1, Y: 1}, {X: 5, Y: 9}, {X: 12, Y: 3}, {X: 7, Y: 7}, {X: 2, Y: 14},
		{X: 15, Y: 15}, {X: 0, Y: 0}, {X: 9, Y: 1}, {X: 4, Y: 4}, {X: 11, Y: 11},
	}
	for i, p := range seq {
		id, _, err := tr.Insert(p, i)
		require.NoError(t, err)
		checkInvariants(t, tr)

		if i%2 == 1 {
			_, err := tr.Erase(id)
			require.NoError(t, err)
			checkInvariants(t, tr)
		}
	}
}
