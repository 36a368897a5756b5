// Package interaction builds the symmetric near/far cell-pair interaction
// lists a Barnes-Hut force pass needs: starting from the root self-pair, it
// breadth-first refines pairs of tree nodes into child-pairs until every
// surviving pair is either admissible for a multipole (far-field)
// approximation or must be evaluated directly (near-field), then computes
// the dense per-leaf slot layout the field kernels write into.
package interaction
