package codegen

import (
	"strings"

	"github.com/apexframe/apex/pkg/template"
)

// serverEmit writes one lowered node into the output buffer.
type serverEmit func(b *strings.Builder, props Props, outlet OutletSource)

// compileServer lowers the tree to a string renderer. Each node is
// compiled once into an emit closure; rendering is a pure depth-first
// concatenation.
func compileServer(roots []*template.Node) ServerFunc {
	emits := lowerServerNodes(roots)
	return func(props Props, outlet OutletSource) string {
		var b strings.Builder
		for _, emit := range emits {
			emit(&b, props, outlet)
		}
		return b.String()
	}
}

func lowerServerNodes(nodes []*template.Node) []serverEmit {
	emits := make([]serverEmit, 0, len(nodes))
	for _, n := range nodes {
		emits = append(emits, lowerServerNode(n))
	}
	return emits
}

func lowerServerNode(n *template.Node) serverEmit {
	switch n.Kind {
	case template.KindText:
		text := escapeHTML(n.Text)
		return func(b *strings.Builder, _ Props, _ OutletSource) {
			b.WriteString(text)
		}

	case template.KindExpr:
		read := compileAccessor(n.Expr, n.Reactive)
		return func(b *strings.Builder, props Props, _ OutletSource) {
			b.WriteString(escapeHTML(stringify(read(props))))
		}

	case template.KindIf:
		cond := compileAccessor(n.Cond, n.CondReactive)
		thenEmits := lowerServerNodes(n.Then)
		elseEmits := lowerServerNodes(n.Else)
		return func(b *strings.Builder, props Props, outlet OutletSource) {
			branch := elseEmits
			if truthy(cond(props)) {
				branch = thenEmits
			}
			for _, emit := range branch {
				emit(b, props, outlet)
			}
		}

	case template.KindOutlet:
		return func(b *strings.Builder, _ Props, outlet OutletSource) {
			if outlet != nil {
				b.WriteString(outlet.OutletHTML())
			}
		}

	case template.KindElement:
		return lowerServerElement(n)

	default:
		return func(*strings.Builder, Props, OutletSource) {}
	}
}

func lowerServerElement(n *template.Node) serverEmit {
	tag := n.Tag
	attrs := lowerAttrs(n.Attrs)
	void := isVoidElement(tag)

	// Children of a void element are dropped on both targets.
	var childEmits []serverEmit
	if !void {
		childEmits = lowerServerNodes(n.Children)
	}

	return func(b *strings.Builder, props Props, outlet OutletSource) {
		b.WriteByte('<')
		b.WriteString(tag)
		for _, attr := range attrs {
			name, value := attr(props)
			b.WriteByte(' ')
			b.WriteString(name)
			if value != "" {
				b.WriteString(`="`)
				b.WriteString(escapeAttr(value))
				b.WriteByte('"')
			}
		}
		b.WriteByte('>')

		if void {
			return
		}

		for _, emit := range childEmits {
			emit(b, props, outlet)
		}

		b.WriteString("</")
		b.WriteString(tag)
		b.WriteByte('>')
	}
}

// attrEval produces an attribute's name and rendered value. An empty
// value renders as a bare attribute on both targets.
type attrEval func(props Props) (name, value string)

func lowerAttrs(attrs []template.Attr) []attrEval {
	out := make([]attrEval, 0, len(attrs))
	for _, a := range attrs {
		a := a
		if !a.IsExpr {
			out = append(out, func(Props) (string, string) {
				return a.Name, a.Value
			})
			continue
		}
		read := compileAccessor(a.Value, a.Reactive)
		out = append(out, func(props Props) (string, string) {
			return a.Name, stringify(read(props))
		})
	}
	return out
}
