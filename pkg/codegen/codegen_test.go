package codegen

import (
	"testing"

	"github.com/apexframe/apex/pkg/reactive"
)

func TestServerRenderBasics(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		props Props
		want  string
	}{
		{
			name: "element_with_attrs",
			src:  `<div class="box" id={id}>hi</div>`,
			props: Props{
				"id": "main",
			},
			want: `<div class="box" id="main">hi</div>`,
		},
		{
			name:  "text_escaping",
			src:   `<p>{msg}</p>`,
			props: Props{"msg": `<b>&"bold"</b>`},
			want:  `<p>&lt;b&gt;&amp;&quot;bold&quot;&lt;/b&gt;</p>`,
		},
		{
			name:  "void_element",
			src:   `<div><br/><img src="/x.png"/></div>`,
			props: nil,
			want:  `<div><br><img src="/x.png"></div>`,
		},
		{
			name:  "bare_attribute",
			src:   `<input disabled/>`,
			props: nil,
			want:  `<input disabled>`,
		},
		{
			name:  "dotted_path",
			src:   `<span>{user.name}</span>`,
			props: Props{"user": map[string]any{"name": "ada"}},
			want:  `<span>ada</span>`,
		},
		{
			name:  "struct_field_path",
			src:   `<span>{data.Title}</span>`,
			props: Props{"data": struct{ Title string }{Title: "Home"}},
			want:  `<span>Home</span>`,
		},
		{
			name:  "missing_value_renders_empty",
			src:   `<span>{ghost}</span>`,
			props: nil,
			want:  `<span></span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := MustCompile(tt.src)
			got := prog.Server(tt.props, nil)
			if got != tt.want {
				t.Errorf("Server() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConditionalBranches(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		props Props
		want  string
	}{
		{"if_true", `{#if yes}X{/if}`, Props{"yes": true}, "X"},
		{"if_false", `{#if no}X{/if}`, Props{"no": false}, ""},
		{"if_absent", `{#if ghost}X{/if}`, nil, ""},
		{"else_taken", `{#if no}X{:else}Y{/if}`, Props{"no": false}, "Y"},
		{"else_if_taken", `{#if a}A{:else if b}B{:else}C{/if}`, Props{"a": false, "b": true}, "B"},
		{"else_fallthrough", `{#if a}A{:else if b}B{:else}C{/if}`, Props{}, "C"},
		{"nonempty_string_truthy", `{#if name}hi{/if}`, Props{"name": "x"}, "hi"},
		{"zero_falsy", `{#if n}hi{/if}`, Props{"n": 0}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := MustCompile(tt.src)
			if got := prog.Server(tt.props, nil); got != tt.want {
				t.Errorf("Server() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReactiveReadThrough(t *testing.T) {
	count := reactive.NewSignal(3)
	prog := MustCompile(`<span data-n={$count}>{$count}</span>`)
	props := Props{"count": count}

	if got := prog.Server(props, nil); got != `<span data-n="3">3</span>` {
		t.Errorf("Server() = %q", got)
	}

	// A fresh render observes the mutated value; no subscription fires.
	count.Set(7)
	if got := prog.Server(props, nil); got != `<span data-n="7">7</span>` {
		t.Errorf("Server() after Set = %q", got)
	}
}

func TestReactiveConditional(t *testing.T) {
	on := reactive.NewSignal(false)
	prog := MustCompile(`{#if $on}lit{:else}dark{/if}`)
	props := Props{"on": on}

	if got := prog.Server(props, nil); got != "dark" {
		t.Errorf("Server() = %q, want dark", got)
	}
	on.Set(true)
	if got := prog.Server(props, nil); got != "lit" {
		t.Errorf("Server() = %q, want lit", got)
	}
}

func TestRenderPurity(t *testing.T) {
	prog := MustCompile(`<ul><li>{a}</li>{#if b}<li>two</li>{/if}</ul>`)
	props := Props{"a": "one", "b": true}

	first := prog.Server(props, nil)
	second := prog.Server(props, nil)
	if first != second {
		t.Errorf("server render not idempotent: %q vs %q", first, second)
	}

	ci1 := prog.Client(props, nil)
	ci2 := prog.Client(props, nil)
	if applyInstructions(ci1) != applyInstructions(ci2) {
		t.Error("client render not idempotent")
	}
}

func TestRenderTargetSelector(t *testing.T) {
	prog := MustCompile(`<p>x</p>`)

	html, instrs := prog.Render(TargetServer, nil, nil)
	if html != "<p>x</p>" || instrs != nil {
		t.Errorf("TargetServer = (%q, %v)", html, instrs)
	}

	html, instrs = prog.Render(TargetClient, nil, nil)
	if html != "" || len(instrs) == 0 {
		t.Errorf("TargetClient = (%q, %v)", html, instrs)
	}
}
