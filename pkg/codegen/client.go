package codegen

import "github.com/apexframe/apex/pkg/template"

// clientState carries the per-render instruction buffer and node
// reference counter.
type clientState struct {
	out  []Instruction
	next int
}

func (st *clientState) ref() int {
	st.next++
	return st.next
}

// clientEmit lowers one node under the given parent reference.
type clientEmit func(st *clientState, parent int, props Props, outlet OutletSource)

// compileClient lowers the tree to an instruction renderer that is
// structurally equivalent to the server renderer for the same inputs.
func compileClient(roots []*template.Node) ClientFunc {
	emits := lowerClientNodes(roots)
	return func(props Props, outlet OutletSource) []Instruction {
		st := &clientState{}
		for _, emit := range emits {
			emit(st, 0, props, outlet)
		}
		return st.out
	}
}

func lowerClientNodes(nodes []*template.Node) []clientEmit {
	emits := make([]clientEmit, 0, len(nodes))
	for _, n := range nodes {
		emits = append(emits, lowerClientNode(n))
	}
	return emits
}

func lowerClientNode(n *template.Node) clientEmit {
	switch n.Kind {
	case template.KindText:
		text := n.Text
		return func(st *clientState, parent int, _ Props, _ OutletSource) {
			ref := st.ref()
			st.out = append(st.out,
				Instruction{Op: OpCreateText, Ref: ref, Value: text},
				Instruction{Op: OpAppendChild, Ref: ref, Parent: parent},
			)
		}

	case template.KindExpr:
		read := compileAccessor(n.Expr, n.Reactive)
		return func(st *clientState, parent int, props Props, _ OutletSource) {
			ref := st.ref()
			st.out = append(st.out,
				Instruction{Op: OpCreateText, Ref: ref, Value: stringify(read(props))},
				Instruction{Op: OpAppendChild, Ref: ref, Parent: parent},
			)
		}

	case template.KindIf:
		cond := compileAccessor(n.Cond, n.CondReactive)
		thenEmits := lowerClientNodes(n.Then)
		elseEmits := lowerClientNodes(n.Else)
		return func(st *clientState, parent int, props Props, outlet OutletSource) {
			branch, label := elseEmits, "else"
			if truthy(cond(props)) {
				branch, label = thenEmits, "then"
			}
			st.out = append(st.out, Instruction{Op: OpCondSubtree, Parent: parent, Value: label})
			for _, emit := range branch {
				emit(st, parent, props, outlet)
			}
		}

	case template.KindOutlet:
		return func(st *clientState, parent int, _ Props, outlet OutletSource) {
			st.out = append(st.out, Instruction{Op: OpOutlet, Parent: parent})
			if outlet == nil {
				return
			}
			spliceInstructions(st, parent, outlet.OutletInstructions())
		}

	case template.KindElement:
		return lowerClientElement(n)

	default:
		return func(*clientState, int, Props, OutletSource) {}
	}
}

func lowerClientElement(n *template.Node) clientEmit {
	tag := n.Tag
	attrs := lowerAttrs(n.Attrs)

	// Children of a void element are dropped on both targets.
	var childEmits []clientEmit
	if !isVoidElement(tag) {
		childEmits = lowerClientNodes(n.Children)
	}

	return func(st *clientState, parent int, props Props, outlet OutletSource) {
		ref := st.ref()
		st.out = append(st.out, Instruction{Op: OpCreateElement, Ref: ref, Tag: tag})
		for _, attr := range attrs {
			name, value := attr(props)
			st.out = append(st.out, Instruction{Op: OpSetAttr, Ref: ref, Key: name, Value: value})
		}
		st.out = append(st.out, Instruction{Op: OpAppendChild, Ref: ref, Parent: parent})
		for _, emit := range childEmits {
			emit(st, ref, props, outlet)
		}
	}
}

// spliceInstructions substitutes a descendant's instruction sequence at
// an outlet site. References are shifted past the current counter and
// mount-root parents are rebased onto the outlet's parent.
func spliceInstructions(st *clientState, parent int, instrs []Instruction) {
	if len(instrs) == 0 {
		return
	}

	offset := st.next
	maxRef := 0
	for _, in := range instrs {
		if in.Ref > maxRef {
			maxRef = in.Ref
		}
		if in.Ref != 0 {
			in.Ref += offset
		}
		switch in.Op {
		case OpAppendChild, OpCondSubtree, OpOutlet:
			if in.Parent == 0 {
				in.Parent = parent
			} else {
				in.Parent += offset
			}
		}
		st.out = append(st.out, in)
	}
	st.next = offset + maxRef
}
