package codegen

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/apexframe/apex/pkg/reactive"
	"github.com/apexframe/apex/pkg/template"
)

// Target selects which renderer a caller wants.
type Target uint8

const (
	TargetServer Target = iota // HTML string output
	TargetClient               // DOM instruction output
)

// String returns the string representation of the Target.
func (t Target) String() string {
	switch t {
	case TargetServer:
		return "server"
	case TargetClient:
		return "client"
	default:
		return "unknown"
	}
}

// Props is the value bag a renderer reads expressions from. Loader data
// lives under "data", bound route parameters under "params".
type Props map[string]any

// OutletSource supplies outlet content for the active resolution
// context. A nil source renders the outlet site as empty content.
type OutletSource interface {
	// OutletHTML returns the descendant's server render, or "".
	OutletHTML() string

	// OutletInstructions returns the descendant's client render, or nil.
	OutletInstructions() []Instruction
}

// ServerFunc renders to an HTML string. Rendering is total: any
// well-formed tree and props value produces output.
type ServerFunc func(props Props, outlet OutletSource) string

// ClientFunc renders to an ordered DOM instruction sequence.
type ClientFunc func(props Props, outlet OutletSource) []Instruction

// Program is the compilation product for one template: two renderers
// lowered from the same tree, behaviorally equivalent by construction.
type Program struct {
	Server    ServerFunc
	Client    ClientFunc
	HasOutlet bool
}

// Render invokes the renderer for the given target. For TargetServer
// the string return is set; for TargetClient the instruction slice is.
func (p *Program) Render(target Target, props Props, outlet OutletSource) (string, []Instruction) {
	if target == TargetClient {
		return "", p.Client(props, outlet)
	}
	return p.Server(props, outlet), nil
}

// Compile lowers an analyzed template into a Program. The template is
// annotated in place if the caller has not already run Analyze.
func Compile(tmpl *template.Template) *Program {
	template.Analyze(tmpl)
	return &Program{
		Server:    compileServer(tmpl.Roots),
		Client:    compileClient(tmpl.Roots),
		HasOutlet: tmpl.HasOutlet,
	}
}

// MustCompile parses and compiles source, panicking on a parse error.
// Intended for startup-time template registration.
func MustCompile(src string) *Program {
	tmpl, err := template.Parse(src)
	if err != nil {
		panic(err)
	}
	return Compile(tmpl)
}

// accessor is a compiled expression read. The access path (plain value
// vs. read-through-signal) is chosen here, at compile time, from the
// analyzer's classification.
type accessor func(props Props) any

// compileAccessor compiles an identifier-or-path expression. A leading
// '$' marks a reactive read: the head identifier must resolve to a
// reactive.Readable and the value is read through it before any path
// descent.
func compileAccessor(expr string, isReactive bool) accessor {
	expr = strings.TrimSpace(expr)
	reactiveRead := strings.HasPrefix(expr, "$")
	expr = strings.TrimPrefix(expr, "$")
	path := strings.Split(expr, ".")
	head := path[0]
	rest := path[1:]

	if isReactive && reactiveRead {
		return func(props Props) any {
			src, ok := props[head].(reactive.Readable)
			if !ok {
				return nil
			}
			return descend(src.ReadAny(), rest)
		}
	}

	return func(props Props) any {
		return descend(props[head], rest)
	}
}

// descend walks a dotted path through maps and exported struct fields.
func descend(v any, path []string) any {
	for _, seg := range path {
		if v == nil {
			return nil
		}
		switch m := v.(type) {
		case Props:
			v = m[seg]
		case map[string]any:
			v = m[seg]
		case map[string]string:
			v = m[seg]
		default:
			rv := reflect.ValueOf(v)
			for rv.Kind() == reflect.Pointer {
				if rv.IsNil() {
					return nil
				}
				rv = rv.Elem()
			}
			if rv.Kind() != reflect.Struct {
				return nil
			}
			field := rv.FieldByName(seg)
			if !field.IsValid() || !field.CanInterface() {
				return nil
			}
			v = field.Interface()
		}
	}
	return v
}

// truthy implements the conditional directive's truth rule: nil and
// zero values are false, everything else is true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case uint:
		return t != 0
	case uint64:
		return t != 0
	case float64:
		return t != 0
	case float32:
		return t != 0
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Map, reflect.Array:
			return rv.Len() > 0
		case reflect.Pointer, reflect.Interface:
			return !rv.IsNil()
		}
		return true
	}
}

// stringify converts an expression value to its display form.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int:
		return fmt.Sprintf("%d", t)
	case int64:
		return fmt.Sprintf("%d", t)
	case float64:
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
