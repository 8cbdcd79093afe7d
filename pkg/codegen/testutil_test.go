package codegen

import "strings"

// domNode is a minimal DOM reconstruction used to verify that the
// client instruction stream describes the same structure as the server
// string.
type domNode struct {
	isText   bool
	text     string
	tag      string
	attrs    []instrAttr
	children []*domNode
}

type instrAttr struct {
	name, value string
}

// applyInstructions replays an instruction sequence into a tree and
// serializes it with the same rules the server renderer uses.
func applyInstructions(instrs []Instruction) string {
	nodes := map[int]*domNode{0: {}}

	for _, in := range instrs {
		switch in.Op {
		case OpCreateElement:
			nodes[in.Ref] = &domNode{tag: in.Tag}
		case OpCreateText:
			nodes[in.Ref] = &domNode{isText: true, text: in.Value}
		case OpSetAttr:
			n := nodes[in.Ref]
			n.attrs = append(n.attrs, instrAttr{name: in.Key, value: in.Value})
		case OpAppendChild:
			parent := nodes[in.Parent]
			parent.children = append(parent.children, nodes[in.Ref])
		case OpCondSubtree, OpOutlet:
			// Structural markers carry no DOM content.
		}
	}

	var b strings.Builder
	for _, child := range nodes[0].children {
		serializeDOM(&b, child)
	}
	return b.String()
}

func serializeDOM(b *strings.Builder, n *domNode) {
	if n.isText {
		b.WriteString(escapeHTML(n.text))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.tag)
	for _, a := range n.attrs {
		b.WriteByte(' ')
		b.WriteString(a.name)
		if a.value != "" {
			b.WriteString(`="`)
			b.WriteString(escapeAttr(a.value))
			b.WriteByte('"')
		}
	}
	b.WriteByte('>')

	if isVoidElement(n.tag) {
		return
	}

	for _, child := range n.children {
		serializeDOM(b, child)
	}

	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteByte('>')
}
