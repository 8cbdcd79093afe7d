// Package codegen lowers a parsed template into two behaviorally
// equivalent renderers: a server renderer producing an HTML string and
// a client renderer producing an ordered DOM-instruction sequence.
//
// Lowering happens once, ahead of any request: each AST node compiles
// into an emit closure, so rendering is a pure traversal with no
// per-request compilation work. For any tree and props value the two
// targets describe the same element, attribute, text, and branch
// structure (hydration consistency).
package codegen
