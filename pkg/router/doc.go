// Package router builds the immutable route tree and resolves request
// paths to root-to-leaf chains.
//
// The tree is an arena of nodes indexed by NodeID; parent links are
// indexes, never owning references. Registration happens once at
// startup and validates sibling pattern uniqueness; matching is pure
// and safe for unlimited concurrent use.
package router
