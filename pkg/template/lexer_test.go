package template

import (
	"errors"
	"testing"
)

// lexAll drains the lexer into a token slice, stopping at EOF.
func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	lex := newLexer(src)
	var toks []Token
	for {
		tok, err := lex.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		if tok.Kind == TokenEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerElementWithAttributes(t *testing.T) {
	toks := lexAll(t, `<div class="box" hidden count={n}>hi</div>`)

	want := []TokenKind{
		TokenTagOpen, TokenAttrName, TokenAttrValue, TokenAttrName,
		TokenAttrName, TokenExprStart, TokenExpr, TokenExprEnd,
		TokenTagEnd, TokenText, TokenTagClose,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}

	if toks[0].Value != "div" {
		t.Errorf("tag name = %q, want div", toks[0].Value)
	}
	if toks[2].Value != "box" {
		t.Errorf("attr value = %q, want box", toks[2].Value)
	}
	if toks[6].Value != "n" {
		t.Errorf("attr expr = %q, want n", toks[6].Value)
	}
}

func TestLexerSelfClose(t *testing.T) {
	toks := lexAll(t, `<br/>`)
	got := kinds(toks)
	want := []TokenKind{TokenTagOpen, TokenSelfClose}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
}

func TestLexerDirectives(t *testing.T) {
	toks := lexAll(t, `{#if logged_in}yes{:else}no{/if}{#outlet}`)
	got := kinds(toks)
	want := []TokenKind{
		TokenDirectiveName, TokenExpr, TokenExprEnd, TokenText,
		TokenElse, TokenText, TokenDirectiveClose,
		TokenDirectiveName, TokenExprEnd,
	}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
	if toks[0].Value != "if" || toks[1].Value != "logged_in" {
		t.Errorf("directive = %q %q, want if logged_in", toks[0].Value, toks[1].Value)
	}
	if toks[7].Value != "outlet" {
		t.Errorf("directive = %q, want outlet", toks[7].Value)
	}
}

func TestLexerElseIf(t *testing.T) {
	toks := lexAll(t, `{#if a}1{:else if b}2{/if}`)
	var marker *Token
	for i := range toks {
		if toks[i].Kind == TokenElseIf {
			marker = &toks[i]
		}
	}
	if marker == nil {
		t.Fatal("no ElseIf token produced")
	}
	if marker.Value != "b" {
		t.Errorf("else-if condition = %q, want b", marker.Value)
	}
}

func TestLexerSpans(t *testing.T) {
	src := `ab{x}`
	toks := lexAll(t, src)
	// Text "ab" spans [0,2), expr "x" spans [3,4).
	if toks[0].Start != 0 || toks[0].End != 2 {
		t.Errorf("text span = [%d,%d), want [0,2)", toks[0].Start, toks[0].End)
	}
	if toks[2].Kind != TokenExpr || toks[2].Start != 3 || toks[2].End != 4 {
		t.Errorf("expr span = [%d,%d), want [3,4)", toks[2].Start, toks[2].End)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantOffset int
	}{
		{"unterminated_tag", `<div`, 0},
		{"unterminated_expression", `{foo`, 0},
		{"unterminated_attr_value", `<a href="x`, 8},
		{"missing_tag_name", `< div>`, 0},
		{"malformed_directive_close", `{/if`, 0},
		{"unknown_block_marker", `{:eles}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := newLexer(tt.src)
			var lexErr error
			for {
				tok, err := lex.Next()
				if err != nil {
					lexErr = err
					break
				}
				if tok.Kind == TokenEOF {
					break
				}
			}
			if lexErr == nil {
				t.Fatalf("lexing %q succeeded, want error", tt.src)
			}
			var perr *ParseError
			if !errors.As(lexErr, &perr) {
				t.Fatalf("error type = %T, want *ParseError", lexErr)
			}
			if perr.Offset != tt.wantOffset {
				t.Errorf("offset = %d, want %d (%v)", perr.Offset, tt.wantOffset, perr)
			}
		})
	}
}
