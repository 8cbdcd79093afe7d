package router

import (
	"strings"

	"github.com/apexframe/apex/pkg/codegen"
)

// segment is one pattern segment: a literal, or a named parameter.
type segment struct {
	literal string
	param   string // Non-empty for ':name' segments
}

func (s segment) isParam() bool { return s.param != "" }

// node is one route in the arena.
type node struct {
	pattern  string
	segments []segment
	program  *codegen.Program
	loader   Loader
	parent   NodeID
	children []NodeID
}

// Registry holds the immutable route tree. It is built once at startup
// and shared read-only across all request handling; Match performs no
// mutation.
type Registry struct {
	nodes []node
	roots []NodeID
}

// NewRegistry builds the route tree eagerly from the declarations.
// Registration fails with a *RegistrationError when sibling literal
// patterns collide or an outlet appears in a route with no children.
func NewRegistry(routes ...Route) (*Registry, error) {
	r := &Registry{}
	roots, err := r.mount(routes, invalidNode)
	if err != nil {
		return nil, err
	}
	r.roots = roots
	return r, nil
}

// MustRegistry is NewRegistry panicking on error, for startup wiring.
func MustRegistry(routes ...Route) *Registry {
	r, err := NewRegistry(routes...)
	if err != nil {
		panic(err)
	}
	return r
}

// mount adds one declaration level to the arena.
func (r *Registry) mount(routes []Route, parent NodeID) ([]NodeID, error) {
	seen := make(map[string]bool, len(routes))
	ids := make([]NodeID, 0, len(routes))

	for _, route := range routes {
		pattern := canonicalPattern(route.Path)
		if seen[pattern] {
			return nil, &RegistrationError{Path: route.Path, Msg: "duplicate sibling pattern"}
		}
		seen[pattern] = true

		if route.Program != nil && route.Program.HasOutlet && len(route.Children) == 0 {
			return nil, &RegistrationError{Path: route.Path, Msg: "outlet in a route with no children"}
		}

		id := NodeID(len(r.nodes))
		r.nodes = append(r.nodes, node{
			pattern:  pattern,
			segments: parsePattern(pattern),
			program:  route.Program,
			loader:   route.Loader,
			parent:   parent,
		})
		ids = append(ids, id)

		children, err := r.mount(route.Children, id)
		if err != nil {
			return nil, err
		}
		r.nodes[id].children = children
	}

	return ids, nil
}

// Pattern returns the node's canonical path pattern.
func (r *Registry) Pattern(id NodeID) string {
	return r.nodes[id].pattern
}

// Program returns the node's compiled renderers, or nil.
func (r *Registry) Program(id NodeID) *codegen.Program {
	return r.nodes[id].program
}

// Loader returns the node's loader, or nil.
func (r *Registry) Loader(id NodeID) Loader {
	return r.nodes[id].loader
}

// Parent returns the parent index, or -1 for a root node.
func (r *Registry) Parent(id NodeID) NodeID {
	return r.nodes[id].parent
}

// Len returns the number of registered route nodes.
func (r *Registry) Len() int {
	return len(r.nodes)
}

// canonicalPattern normalizes a declared path to "/"-joined trimmed
// segments; the root pattern is "/".
func canonicalPattern(path string) string {
	segs := splitPath(path)
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

// parsePattern splits a canonical pattern into matcher segments.
func parsePattern(pattern string) []segment {
	segs := splitPath(pattern)
	out := make([]segment, 0, len(segs))
	for _, s := range segs {
		if strings.HasPrefix(s, ":") {
			out = append(out, segment{param: s[1:]})
		} else {
			out = append(out, segment{literal: s})
		}
	}
	return out
}

// splitPath splits a request path or pattern into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
