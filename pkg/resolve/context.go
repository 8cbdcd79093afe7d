package resolve

import (
	"github.com/apexframe/apex/pkg/codegen"
	"github.com/apexframe/apex/pkg/router"
)

// Context is the per-request resolution state: the request path, the
// matched chain, and a cache of already-produced render output so a
// node renders at most once per request. It is created per request,
// never shared, and discarded when the response is finalized.
type Context struct {
	Path  string
	Match *router.Match

	htmlByNode  map[router.NodeID]string
	instrByNode map[router.NodeID][]codegen.Instruction

	// pending* hold the most recently produced descendant output,
	// consumed by the next ancestor's outlet site.
	pendingHTML  string
	pendingInstr []codegen.Instruction
	hasPending   bool
}

// NewContext creates the resolution context for one request.
func NewContext(path string, m *router.Match) *Context {
	return &Context{
		Path:        path,
		Match:       m,
		htmlByNode:  make(map[router.NodeID]string),
		instrByNode: make(map[router.NodeID][]codegen.Instruction),
	}
}

// OutletHTML implements codegen.OutletSource. Without a pending
// descendant render the outlet site degrades to empty content.
func (c *Context) OutletHTML() string {
	if !c.hasPending {
		return ""
	}
	return c.pendingHTML
}

// OutletInstructions implements codegen.OutletSource.
func (c *Context) OutletInstructions() []codegen.Instruction {
	if !c.hasPending {
		return nil
	}
	return c.pendingInstr
}

// setPendingHTML records a node's server output as the next ancestor's
// outlet content.
func (c *Context) setPendingHTML(id router.NodeID, html string) {
	c.htmlByNode[id] = html
	c.pendingHTML = html
	c.hasPending = true
}

// setPendingInstructions records a node's client output likewise.
func (c *Context) setPendingInstructions(id router.NodeID, instrs []codegen.Instruction) {
	c.instrByNode[id] = instrs
	c.pendingInstr = instrs
	c.hasPending = true
}

// cachedHTML returns a node's prior server output, if it rendered
// already this request.
func (c *Context) cachedHTML(id router.NodeID) (string, bool) {
	html, ok := c.htmlByNode[id]
	return html, ok
}

// cachedInstructions returns a node's prior client output likewise.
func (c *Context) cachedInstructions(id router.NodeID) ([]codegen.Instruction, bool) {
	instrs, ok := c.instrByNode[id]
	return instrs, ok
}
