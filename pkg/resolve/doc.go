// Package resolve stitches a matched route chain into one response.
//
// Loaders for the whole chain run concurrently; any non-Ok loader
// outcome short-circuits the request before a single renderer runs.
// Rendering is leaf-first: the leaf's output becomes the pending
// outlet content for its parent, and so on up to the root. Output is
// cached per node in the request's Context, so a node renders at most
// once per request.
package resolve
