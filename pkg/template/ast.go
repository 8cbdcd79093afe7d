package template

// NodeKind is the AST node type discriminator.
type NodeKind uint8

const (
	KindElement NodeKind = iota // <div>, <button>, etc.
	KindText                    // Plain text run
	KindExpr                    // {expr} interpolation
	KindIf                      // {#if expr} ... {/if}
	KindOutlet                  // {#outlet}
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindExpr:
		return "Expr"
	case KindIf:
		return "If"
	case KindOutlet:
		return "Outlet"
	default:
		return "Unknown"
	}
}

// Node is a template AST node. The tree is built once by Parse and is
// immutable afterwards, except for the Reactive annotations written by
// Analyze before code generation.
type Node struct {
	Kind   NodeKind
	Offset int // Byte offset of the node's first character in the source

	// KindElement
	Tag      string
	Attrs    []Attr
	Children []*Node

	// KindText
	Text string

	// KindExpr
	Expr     string
	Reactive bool

	// KindIf
	Cond         string
	CondReactive bool
	Then         []*Node
	Else         []*Node
}

// Attr is a single element attribute in declaration order.
type Attr struct {
	Name     string
	Value    string // Literal text, or raw expression source when IsExpr
	IsExpr   bool
	Reactive bool
}

// Template is the parse product for one template source.
type Template struct {
	Source    string
	Roots     []*Node
	HasOutlet bool
}
