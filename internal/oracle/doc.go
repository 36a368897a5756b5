// Package oracle is a direct O(N^2) reference force sum used only by
// other packages' tests, never by the shipped engine. It exists to check
// the tree-based multipole engine against ground truth for
// cluster-collapse and theta=0 scenarios.
package oracle
