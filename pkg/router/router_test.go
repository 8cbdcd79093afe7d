package router

import (
	"errors"
	"reflect"
	"testing"

	"github.com/apexframe/apex/pkg/codegen"
)

// patterns maps a match chain back to its canonical patterns.
func patterns(r *Registry, m *Match) []string {
	out := make([]string, len(m.Chain))
	for i, id := range m.Chain {
		out[i] = r.Pattern(id)
	}
	return out
}

func TestRegistryArenaParents(t *testing.T) {
	r := MustRegistry(Route{
		Path: "/",
		Children: []Route{
			{Path: "/about"},
			{Path: "/users", Children: []Route{
				{Path: "/:id"},
			}},
		},
	})

	if r.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", r.Len())
	}

	m, ok := r.Match("/users/42")
	if !ok {
		t.Fatal("no match for /users/42")
	}
	leaf := m.Leaf()
	if r.Pattern(leaf) != "/:id" {
		t.Errorf("leaf pattern = %q", r.Pattern(leaf))
	}
	parent := r.Parent(leaf)
	if r.Pattern(parent) != "/users" {
		t.Errorf("parent pattern = %q", r.Pattern(parent))
	}
	if root := r.Parent(parent); r.Parent(root) != invalidNode {
		t.Errorf("root parent = %d, want %d", r.Parent(root), invalidNode)
	}
}

func TestMatchChains(t *testing.T) {
	r := MustRegistry(Route{
		Path: "/",
		Children: []Route{
			{Path: "/users", Children: []Route{
				{Path: "/:id"},
				{Path: "/me"},
			}},
			{Path: "/docs/:section/:page"},
		},
	})

	tests := []struct {
		name       string
		path       string
		wantChain  []string
		wantParams Params
	}{
		{
			name:       "root",
			path:       "/",
			wantChain:  []string{"/"},
			wantParams: Params{},
		},
		{
			name:       "layout_descent",
			path:       "/users/42",
			wantChain:  []string{"/", "/users", "/:id"},
			wantParams: Params{"id": "42"},
		},
		{
			name:       "literal_over_parameter",
			path:       "/users/me",
			wantChain:  []string{"/", "/users", "/me"},
			wantParams: Params{},
		},
		{
			name:       "multi_param",
			path:       "/docs/router/match",
			wantChain:  []string{"/", "/docs/:section/:page"},
			wantParams: Params{"section": "router", "page": "match"},
		},
		{
			name:       "trailing_slash",
			path:       "/users/7/",
			wantChain:  []string{"/", "/users", "/:id"},
			wantParams: Params{"id": "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := r.Match(tt.path)
			if !ok {
				t.Fatalf("Match(%q) = no match", tt.path)
			}
			if got := patterns(r, m); !reflect.DeepEqual(got, tt.wantChain) {
				t.Errorf("chain = %v, want %v", got, tt.wantChain)
			}
			if !reflect.DeepEqual(m.Params, tt.wantParams) {
				t.Errorf("params = %v, want %v", m.Params, tt.wantParams)
			}
		})
	}
}

func TestMatchNone(t *testing.T) {
	r := MustRegistry(Route{Path: "/", Children: []Route{
		{Path: "/users", Children: []Route{{Path: "/:id"}}},
	}})

	for _, path := range []string{"/nope", "/users/1/extra", "/users/1/extra/deep"} {
		if m, ok := r.Match(path); ok {
			t.Errorf("Match(%q) = %v, want no match", path, patterns(r, m))
		}
	}
}

func TestMatchBacktracksAcrossSiblings(t *testing.T) {
	// "/files/recent" must not be captured by the parameter sibling
	// when the literal sibling's subtree is the only full consumer.
	r := MustRegistry(
		Route{Path: "/files/:name"},
		Route{Path: "/files/recent", Children: []Route{{Path: "/today"}}},
	)

	m, ok := r.Match("/files/recent/today")
	if !ok {
		t.Fatal("no match for /files/recent/today")
	}
	want := []string{"/files/recent", "/today"}
	if got := patterns(r, m); !reflect.DeepEqual(got, want) {
		t.Errorf("chain = %v, want %v", got, want)
	}
	if len(m.Params) != 0 {
		t.Errorf("params leaked from backtracked candidate: %v", m.Params)
	}
}

func TestMatchBacktracksToParameterSibling(t *testing.T) {
	// The literal candidate consumes a prefix but cannot finish the
	// path; the matcher must back out and let the parameter sibling
	// consume the whole path.
	r := MustRegistry(
		Route{Path: "/a/b"},
		Route{Path: "/:x/b/c"},
	)

	m, ok := r.Match("/a/b/c")
	if !ok {
		t.Fatal("no match for /a/b/c")
	}
	if got := r.Pattern(m.Leaf()); got != "/:x/b/c" {
		t.Errorf("leaf = %q, want /:x/b/c", got)
	}
	if m.Params["x"] != "a" {
		t.Errorf("params = %v, want x=a", m.Params)
	}
}

func TestMatchBacktrackRestoresShadowedParam(t *testing.T) {
	// The failing child candidate reuses the ancestor's parameter name;
	// backing out of it must restore the ancestor's binding, not erase
	// it.
	r := MustRegistry(Route{Path: "/:id", Children: []Route{
		{Path: "/:id"},
		{Path: "/:a/:b"},
	}})

	m, ok := r.Match("/1/2/3")
	if !ok {
		t.Fatal("no match for /1/2/3")
	}
	want := Params{"id": "1", "a": "2", "b": "3"}
	if !reflect.DeepEqual(m.Params, want) {
		t.Errorf("params = %v, want %v", m.Params, want)
	}
}

func TestMatchLiteralFirstDeclarationOrderIndependent(t *testing.T) {
	// Parameter sibling declared first must still lose to the literal.
	r := MustRegistry(Route{Path: "/users", Children: []Route{
		{Path: "/:id"},
		{Path: "/me"},
	}})

	m, ok := r.Match("/users/me")
	if !ok {
		t.Fatal("no match")
	}
	if got := r.Pattern(m.Leaf()); got != "/me" {
		t.Errorf("leaf = %q, want /me", got)
	}
}

func TestRegistrationDuplicateSiblings(t *testing.T) {
	_, err := NewRegistry(Route{Path: "/", Children: []Route{
		{Path: "/users"},
		{Path: "users/"},
	}})
	if err == nil {
		t.Fatal("duplicate sibling literals accepted")
	}
	var rerr *RegistrationError
	if !errors.As(err, &rerr) {
		t.Fatalf("error type = %T, want *RegistrationError", err)
	}
}

func TestRegistrationOutletNeedsChildren(t *testing.T) {
	layout := codegen.MustCompile(`<main>{#outlet}</main>`)

	if _, err := NewRegistry(Route{Path: "/", Program: layout}); err == nil {
		t.Fatal("outlet program with no children accepted")
	}

	if _, err := NewRegistry(Route{
		Path:     "/",
		Program:  layout,
		Children: []Route{{Path: "/home"}},
	}); err != nil {
		t.Fatalf("layout with children rejected: %v", err)
	}
}
