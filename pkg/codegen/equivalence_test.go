package codegen

import (
	"testing"

	"github.com/apexframe/apex/pkg/reactive"
)

// staticOutlet is a fixed OutletSource for tests.
type staticOutlet struct {
	html   string
	instrs []Instruction
}

func (s *staticOutlet) OutletHTML() string               { return s.html }
func (s *staticOutlet) OutletInstructions() []Instruction { return s.instrs }

// checkEquivalence renders both targets and verifies they describe the
// same structure.
func checkEquivalence(t *testing.T, src string, props Props, outlet OutletSource) string {
	t.Helper()
	prog := MustCompile(src)
	html := prog.Server(props, outlet)
	rebuilt := applyInstructions(prog.Client(props, outlet))
	if html != rebuilt {
		t.Errorf("hydration divergence for %q:\n server: %q\n client: %q", src, html, rebuilt)
	}
	return html
}

func TestStructuralEquivalence(t *testing.T) {
	sig := reactive.NewSignal("live")

	tests := []struct {
		name  string
		src   string
		props Props
	}{
		{"plain_element", `<div class="a"><p>one</p><p>two</p></div>`, nil},
		{"interpolation", `<h1>Hi {name}!</h1>`, Props{"name": "ada"}},
		{"escaped_text", `<p>{raw}</p>`, Props{"raw": `<script>"x"</script>`}},
		{"conditional_true", `{#if on}<b>yes</b>{/if}`, Props{"on": true}},
		{"conditional_false", `{#if on}<b>yes</b>{/if}`, Props{"on": false}},
		{"conditional_else", `{#if on}A{:else}<i>B</i>{/if}`, Props{"on": false}},
		{"void_and_bare", `<form><input type="text" required/><br/></form>`, nil},
		{"reactive", `<span id={$s}>{$s}</span>`, Props{"s": sig}},
		{"dynamic_attr", `<a href={link} title="t">go</a>`, Props{"link": "/docs?a=1&b=2"}},
		{"nested_mix", `<div>{#if n}<ul><li>{n}</li></ul>{:else}empty{/if}</div>`, Props{"n": 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkEquivalence(t, tt.src, tt.props, nil)
		})
	}
}

func TestVoidElementChildrenDroppedOnBothTargets(t *testing.T) {
	// The DOM-replay serializer applies the void rule itself, so this
	// must be checked at the instruction level: a void element's
	// children may not appear in the client stream at all.
	prog := MustCompile(`<input>leak</input>`)

	if got := prog.Server(nil, nil); got != `<input>` {
		t.Errorf("server = %q, want <input>", got)
	}

	for _, in := range prog.Client(nil, nil) {
		if in.Op == OpCreateText {
			t.Errorf("client stream carries text %q under a void element", in.Value)
		}
	}
	checkEquivalence(t, `<input>leak</input>`, nil, nil)
}

func TestOutletSubstitution(t *testing.T) {
	child := MustCompile(`<p>hi</p>`)
	outlet := &staticOutlet{
		html:   child.Server(nil, nil),
		instrs: child.Client(nil, nil),
	}

	got := checkEquivalence(t, `<main>{#outlet}</main>`, nil, outlet)
	if got != `<main><p>hi</p></main>` {
		t.Errorf("outlet substitution = %q, want <main><p>hi</p></main>", got)
	}
}

func TestOutletGracefulDegradation(t *testing.T) {
	// No descendant content: the outlet site renders empty on both targets.
	got := checkEquivalence(t, `<main>{#outlet}</main>`, nil, nil)
	if got != `<main></main>` {
		t.Errorf("empty outlet = %q, want <main></main>", got)
	}
}

func TestOutletSpliceRefsStayCoherent(t *testing.T) {
	child := MustCompile(`<p>a</p><p>b</p>`)
	outlet := &staticOutlet{instrs: child.Client(nil, nil)}

	parent := MustCompile(`<main><h1>t</h1>{#outlet}<footer>f</footer></main>`)
	instrs := parent.Client(nil, outlet)

	// Every ref must be created exactly once.
	seen := map[int]bool{}
	for _, in := range instrs {
		if in.Op == OpCreateElement || in.Op == OpCreateText {
			if seen[in.Ref] {
				t.Fatalf("ref %d created twice", in.Ref)
			}
			seen[in.Ref] = true
		}
	}

	want := `<main><h1>t</h1><p>a</p><p>b</p><footer>f</footer></main>`
	if got := applyInstructions(instrs); got != want {
		t.Errorf("spliced render = %q, want %q", got, want)
	}
}
