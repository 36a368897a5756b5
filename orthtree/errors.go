package orthtree

import (
	"errors"
	"fmt"
)

// Sentinel errors for orthtree operations.
var (
	// ErrOutOfBounds indicates a position lies outside the root's box.
	// Insert/Move leave the tree unchanged when this is returned.
	ErrOutOfBounds = errors.New("orthtree: position out of bounds")

	// ErrInvalidConfig indicates a non-positive Dimensions component on one
	// of the first Dim axes, or a Dim outside [1,3].
	ErrInvalidConfig = errors.New("orthtree: invalid configuration")

	// ErrInvalidLeaf indicates a leaf index that does not refer to a live
	// leaf (already erased, or never allocated).
	ErrInvalidLeaf = errors.New("orthtree: invalid leaf index")

	// ErrInvalidNode indicates a node index outside [0, len(nodes)).
	ErrInvalidNode = errors.New("orthtree: invalid node index")

	// ErrNoSuchChild indicates a child index outside [0, 2^D).
	ErrNoSuchChild = errors.New("orthtree: no such child")

	// ErrNoParent indicates Parent() was called on the root node.
	ErrNoParent = errors.New("orthtree: node has no parent")

	// ErrNoSibling indicates Sibling() was called on a node with no next
	// sibling (the root, or the last child of its parent).
	ErrNoSibling = errors.New("orthtree: node has no next sibling")
)

func wrapf(op string, err error) error {
	return fmt.Errorf("orthtree.%s: %w", op, err)
}
