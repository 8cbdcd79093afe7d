// Package reactive provides the minimal signal container consumed by the
// template pipeline. A Signal carries a mutable value; renderers only use
// the read side (via the Readable capability), and subscriptions exist for
// future live-update wiring. Rendering itself re-reads on each invocation
// rather than reacting to mutation.
package reactive
