package template

import "strings"

// Parse compiles template source into a Template. It fails fast on the
// first syntax error; the returned error is always a *ParseError and no
// partial tree is produced.
func Parse(src string) (*Template, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	roots, term, err := p.parseNodes()
	if err != nil {
		return nil, err
	}

	switch term.Kind {
	case TokenEOF:
		// Done.
	case TokenTagClose:
		return nil, parseErrorf(term.Start, "unexpected closing tag </%s>", term.Value)
	case TokenDirectiveClose:
		return nil, parseErrorf(term.Start, "unexpected {/%s}", term.Value)
	default:
		return nil, parseErrorf(term.Start, "unexpected %s marker", term.Kind)
	}

	return &Template{Source: src, Roots: roots, HasOutlet: p.outlets > 0}, nil
}

type parser struct {
	lex     *lexer
	tok     Token
	outlets int
}

// advance moves to the next token.
func (p *parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// parseNodes consumes sibling nodes until it reaches a terminator the
// caller must interpret: EOF, a closing tag, a directive close, or an
// else / else-if marker.
func (p *parser) parseNodes() ([]*Node, Token, error) {
	var nodes []*Node

	for {
		switch p.tok.Kind {
		case TokenEOF, TokenTagClose, TokenDirectiveClose, TokenElse, TokenElseIf:
			return nodes, p.tok, nil

		case TokenText:
			if text, keep := collapseWhitespace(p.tok.Value); keep {
				nodes = append(nodes, &Node{Kind: KindText, Text: text, Offset: p.tok.Start})
			}
			if err := p.advance(); err != nil {
				return nil, Token{}, err
			}

		case TokenTagOpen:
			node, err := p.parseElement()
			if err != nil {
				return nil, Token{}, err
			}
			nodes = append(nodes, node)

		case TokenExprStart:
			node, err := p.parseExpression()
			if err != nil {
				return nil, Token{}, err
			}
			nodes = append(nodes, node)

		case TokenDirectiveName:
			node, err := p.parseDirective()
			if err != nil {
				return nil, Token{}, err
			}
			nodes = append(nodes, node)

		default:
			return nil, Token{}, parseErrorf(p.tok.Start, "unexpected %s token", p.tok.Kind)
		}
	}
}

// parseElement consumes an element from its TagOpen token through its
// matching close (or self-close).
func (p *parser) parseElement() (*Node, error) {
	node := &Node{Kind: KindElement, Tag: p.tok.Value, Offset: p.tok.Start}
	if err := p.advance(); err != nil {
		return nil, err
	}

	for p.tok.Kind == TokenAttrName {
		attr := Attr{Name: p.tok.Value}
		if err := p.advance(); err != nil {
			return nil, err
		}

		switch p.tok.Kind {
		case TokenAttrValue:
			attr.Value = p.tok.Value
			if err := p.advance(); err != nil {
				return nil, err
			}
		case TokenExprStart:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.Kind != TokenExpr {
				return nil, parseErrorf(p.tok.Start, "missing expression for attribute %q", attr.Name)
			}
			attr.Value = p.tok.Value
			attr.IsExpr = true
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.Kind != TokenExprEnd {
				return nil, parseErrorf(p.tok.Start, "unterminated expression for attribute %q", attr.Name)
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		// A bare name is a boolean attribute; nothing more to consume.

		node.Attrs = append(node.Attrs, attr)
	}

	switch p.tok.Kind {
	case TokenSelfClose:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return node, nil

	case TokenTagEnd:
		if err := p.advance(); err != nil {
			return nil, err
		}

		children, term, err := p.parseNodes()
		if err != nil {
			return nil, err
		}
		switch term.Kind {
		case TokenTagClose:
			if term.Value != node.Tag {
				return nil, parseErrorf(term.Start, "mismatched closing tag: got </%s>, want </%s>", term.Value, node.Tag)
			}
		case TokenEOF:
			return nil, parseErrorf(node.Offset, "unterminated element <%s>", node.Tag)
		default:
			return nil, parseErrorf(term.Start, "unterminated element <%s>", node.Tag)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}

		node.Children = children
		return node, nil

	default:
		return nil, parseErrorf(p.tok.Start, "malformed opening tag <%s>", node.Tag)
	}
}

// parseExpression consumes an {expr} interpolation.
func (p *parser) parseExpression() (*Node, error) {
	offset := p.tok.Start
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.Kind != TokenExpr {
		return nil, parseErrorf(offset, "empty expression")
	}
	node := &Node{Kind: KindExpr, Expr: p.tok.Value, Offset: offset}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.Kind != TokenExprEnd {
		return nil, parseErrorf(offset, "unterminated expression")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return node, nil
}

// parseDirective consumes a {#name ...} directive. The directive set is
// closed: #if and #outlet. Anything else is a parse error.
func (p *parser) parseDirective() (*Node, error) {
	name := p.tok.Value
	offset := p.tok.Start

	switch name {
	case "if":
		return p.parseIf(offset)

	case "outlet":
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.Kind == TokenExpr {
			return nil, parseErrorf(offset, "#outlet takes no parameters")
		}
		if p.tok.Kind != TokenExprEnd {
			return nil, parseErrorf(offset, "unterminated #outlet directive")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		p.outlets++
		if p.outlets > 1 {
			return nil, parseErrorf(offset, "duplicate #outlet directive")
		}
		return &Node{Kind: KindOutlet, Offset: offset}, nil

	default:
		return nil, parseErrorf(offset, "unknown directive #%s", name)
	}
}

// parseIf consumes an {#if} block including any {:else if} / {:else}
// continuations. Else-if chains desugar into nested If nodes in the
// Else branch.
func (p *parser) parseIf(offset int) (*Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.Kind != TokenExpr {
		return nil, parseErrorf(offset, "missing #if condition")
	}
	cond := p.tok.Value
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.Kind != TokenExprEnd {
		return nil, parseErrorf(offset, "unterminated #if directive")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	return p.parseIfBranches(offset, cond)
}

// parseIfBranches parses the then-branch for cond, then dispatches on
// the terminator to build the else branch.
func (p *parser) parseIfBranches(offset int, cond string) (*Node, error) {
	node := &Node{Kind: KindIf, Cond: cond, Offset: offset}

	then, term, err := p.parseNodes()
	if err != nil {
		return nil, err
	}
	node.Then = then

	switch term.Kind {
	case TokenDirectiveClose:
		if term.Value != "if" {
			return nil, parseErrorf(term.Start, "mismatched directive close {/%s}", term.Value)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return node, nil

	case TokenElse:
		if err := p.advance(); err != nil {
			return nil, err
		}
		elseNodes, elseTerm, err := p.parseNodes()
		if err != nil {
			return nil, err
		}
		if elseTerm.Kind != TokenDirectiveClose || elseTerm.Value != "if" {
			return nil, parseErrorf(offset, "unterminated #if directive")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		node.Else = elseNodes
		return node, nil

	case TokenElseIf:
		nested, err := p.parseIfBranchesAfterElseIf(term)
		if err != nil {
			return nil, err
		}
		node.Else = []*Node{nested}
		return node, nil

	case TokenEOF:
		return nil, parseErrorf(offset, "unterminated #if directive")

	default:
		return nil, parseErrorf(term.Start, "unterminated #if directive")
	}
}

// parseIfBranchesAfterElseIf continues a chain from an else-if marker.
func (p *parser) parseIfBranchesAfterElseIf(marker Token) (*Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseIfBranches(marker.Start, marker.Value)
}

// collapseWhitespace applies the documented whitespace policy: runs of
// whitespace collapse to a single space, and runs that are entirely
// whitespace are dropped. A collapsed run at either edge of the text is
// kept as one space so interpolation boundaries keep their separators.
func collapseWhitespace(s string) (string, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", false
	}

	var b strings.Builder
	if isSpace(s[0]) {
		b.WriteByte(' ')
	}
	b.WriteString(strings.Join(fields, " "))
	if isSpace(s[len(s)-1]) {
		b.WriteByte(' ')
	}
	return b.String(), true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
