// Package orthtree implements a dimension-generic orthtree: the
// generalization of a quadtree (D=2) or octree (D=3) to a branching
// factor 2^D set per tree by Config.Dim (1 to 3). It is a flat-array spatial
// index, not a pointer tree: all leaves live in one contiguous slice and
// all nodes in another, with tree structure expressed as relative offsets
// between array slots (NodeHandle.Child / NodeHandle.Parent) rather than
// pointers.
//
// Invariants maintained under every mutating operation (Insert, Erase,
// Move, Adjust):
//
//  1. nodes[] is in pre-order (depth-first) order; the root is node 0.
//  2. For every node n, leaves[n.LeafStart : n.LeafStart+n.LeafCount] is
//     exactly the set of leaves whose positions lie in n's box.
//  3. A node with children has ChildOffsets[i+1]-ChildOffsets[i] >= 1 for
//     every i < 2^D, ChildOffsets[0] == 1, and ChildOffsets[2^D] equals the
//     size of the node's subtree (offset to its next sibling).
//  4. When Adjust is enabled, every leaf-node (HasChildren == false) has
//     LeafCount <= NodeCapacity, unless Depth == MaxDepth.
//  5. When Adjust is enabled, no internal node's subtree has total
//     LeafCount <= NodeCapacity (over-merged subtrees are folded back into
//     a single leaf-node).
//
// Because links are relative, splitting or merging a subtree only needs to
// renumber the spans that actually moved; nodes whose position in the
// array shifts but whose logical parent/child/sibling relationships do not
// change require no link updates at all.
package orthtree
