package template

// Analyze walks the tree and annotates every expression with its
// reactivity classification. The classification is lexical: an
// expression reads a reactive container iff it names one with the '$'
// sigil (e.g. {$count}). The renderer uses the flag to pick the
// read-through access path at compile time; no runtime type probing is
// involved.
func Analyze(t *Template) {
	analyzeNodes(t.Roots)
}

func analyzeNodes(nodes []*Node) {
	for _, n := range nodes {
		switch n.Kind {
		case KindExpr:
			n.Reactive = len(SignalRefs(n.Expr)) > 0
		case KindIf:
			n.CondReactive = len(SignalRefs(n.Cond)) > 0
			analyzeNodes(n.Then)
			analyzeNodes(n.Else)
		case KindElement:
			for i := range n.Attrs {
				if n.Attrs[i].IsExpr {
					n.Attrs[i].Reactive = len(SignalRefs(n.Attrs[i].Value)) > 0
				}
			}
			analyzeNodes(n.Children)
		}
	}
}

// SignalRefs returns the names of the signals an expression reads,
// in source order. A signal read is a '$' sigil followed by an
// identifier.
func SignalRefs(expr string) []string {
	var refs []string
	for i := 0; i < len(expr); i++ {
		if expr[i] != '$' {
			continue
		}
		j := i + 1
		for j < len(expr) && isIdentByte(expr[j]) {
			j++
		}
		if j > i+1 {
			refs = append(refs, expr[i+1:j])
		}
		i = j - 1
	}
	return refs
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
