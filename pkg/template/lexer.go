package template

import "strings"

// lexer walks template source and produces tokens with byte spans.
// Tokenization is modal: inside an opening tag it produces attribute
// tokens, outside it produces text, tag, and brace tokens.
type lexer struct {
	src      string
	pos      int
	inTag    bool
	tagStart int     // Offset of the '<' of the tag being lexed
	pending  []Token // Tokens queued behind the one about to be returned
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// Next returns the next token. After an error the lexer must not be
// used again.
func (l *lexer) Next() (Token, error) {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok, nil
	}

	if l.inTag {
		return l.lexInTag()
	}

	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, Start: l.pos, End: l.pos}, nil
	}

	switch l.src[l.pos] {
	case '<':
		return l.lexTag()
	case '{':
		return l.lexBrace()
	default:
		return l.lexText()
	}
}

// lexText consumes a character run up to the next tag or brace.
func (l *lexer) lexText() (Token, error) {
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '<' && l.src[l.pos] != '{' {
		l.pos++
	}
	return Token{Kind: TokenText, Value: l.src[start:l.pos], Start: start, End: l.pos}, nil
}

// lexTag consumes "<name" or "</name>".
func (l *lexer) lexTag() (Token, error) {
	start := l.pos
	l.pos++ // consume '<'

	if l.pos < len(l.src) && l.src[l.pos] == '/' {
		l.pos++
		name := l.lexName()
		if name == "" {
			return Token{}, parseErrorf(start, "expected tag name in closing tag")
		}
		l.skipSpace()
		if l.pos >= len(l.src) || l.src[l.pos] != '>' {
			return Token{}, parseErrorf(start, "unterminated closing tag </%s", name)
		}
		l.pos++
		return Token{Kind: TokenTagClose, Value: name, Start: start, End: l.pos}, nil
	}

	name := l.lexName()
	if name == "" {
		return Token{}, parseErrorf(start, "expected tag name after '<'")
	}

	l.inTag = true
	l.tagStart = start
	return Token{Kind: TokenTagOpen, Value: name, Start: start, End: l.pos}, nil
}

// lexInTag consumes attribute tokens and the tag terminator.
func (l *lexer) lexInTag() (Token, error) {
	l.skipSpace()

	if l.pos >= len(l.src) {
		return Token{}, parseErrorf(l.tagStart, "unterminated tag")
	}

	switch l.src[l.pos] {
	case '>':
		start := l.pos
		l.pos++
		l.inTag = false
		return Token{Kind: TokenTagEnd, Start: start, End: l.pos}, nil
	case '/':
		start := l.pos
		if l.pos+1 >= len(l.src) || l.src[l.pos+1] != '>' {
			return Token{}, parseErrorf(l.pos, "expected '>' after '/'")
		}
		l.pos += 2
		l.inTag = false
		return Token{Kind: TokenSelfClose, Start: start, End: l.pos}, nil
	}

	return l.lexAttr()
}

// lexAttr consumes one attribute: a name followed by an optional
// ="literal" or ={expression} value. Value tokens are queued behind
// the name token.
func (l *lexer) lexAttr() (Token, error) {
	start := l.pos
	name := l.lexName()
	if name == "" {
		return Token{}, parseErrorf(start, "malformed attribute")
	}
	nameTok := Token{Kind: TokenAttrName, Value: name, Start: start, End: l.pos}

	if l.pos >= len(l.src) || l.src[l.pos] != '=' {
		// Bare (boolean) attribute.
		return nameTok, nil
	}
	l.pos++ // consume '='

	if l.pos >= len(l.src) {
		return Token{}, parseErrorf(start, "unterminated attribute %q", name)
	}

	switch l.src[l.pos] {
	case '"':
		quoteStart := l.pos
		l.pos++
		valStart := l.pos
		for l.pos < len(l.src) && l.src[l.pos] != '"' {
			l.pos++
		}
		if l.pos >= len(l.src) {
			return Token{}, parseErrorf(quoteStart, "unterminated attribute value for %q", name)
		}
		l.pending = append(l.pending, Token{
			Kind: TokenAttrValue, Value: l.src[valStart:l.pos], Start: valStart, End: l.pos,
		})
		l.pos++ // consume closing '"'
		return nameTok, nil
	case '{':
		toks, err := l.lexExprTokens(l.pos)
		if err != nil {
			return Token{}, err
		}
		l.pending = append(l.pending, toks...)
		return nameTok, nil
	default:
		return Token{}, parseErrorf(l.pos, "malformed value for attribute %q", name)
	}
}

// lexBrace consumes "{expr}", a "{#name ...}" directive, a "{/name}"
// directive close, or a "{:else}" / "{:else if ...}" marker.
func (l *lexer) lexBrace() (Token, error) {
	start := l.pos

	if l.pos+1 >= len(l.src) {
		return Token{}, parseErrorf(start, "unterminated expression")
	}

	switch l.src[l.pos+1] {
	case '#':
		l.pos += 2
		name := l.lexName()
		if name == "" {
			return Token{}, parseErrorf(start, "missing directive name")
		}
		nameTok := Token{Kind: TokenDirectiveName, Value: name, Start: start, End: l.pos}

		l.skipSpace()
		paramStart := l.pos
		for l.pos < len(l.src) && l.src[l.pos] != '}' {
			l.pos++
		}
		if l.pos >= len(l.src) {
			return Token{}, parseErrorf(start, "unterminated #%s directive", name)
		}
		if params := strings.TrimSpace(l.src[paramStart:l.pos]); params != "" {
			l.pending = append(l.pending, Token{
				Kind: TokenExpr, Value: params, Start: paramStart, End: l.pos,
			})
		}
		l.pending = append(l.pending, Token{Kind: TokenExprEnd, Start: l.pos, End: l.pos + 1})
		l.pos++
		return nameTok, nil

	case '/':
		l.pos += 2
		name := l.lexName()
		if name == "" || l.pos >= len(l.src) || l.src[l.pos] != '}' {
			return Token{}, parseErrorf(start, "malformed directive close")
		}
		l.pos++
		return Token{Kind: TokenDirectiveClose, Value: name, Start: start, End: l.pos}, nil

	case ':':
		l.pos += 2
		word := l.lexName()
		if word != "else" {
			return Token{}, parseErrorf(start, "unknown block marker %q", word)
		}
		l.skipSpace()
		if l.pos < len(l.src) && l.src[l.pos] == '}' {
			l.pos++
			return Token{Kind: TokenElse, Start: start, End: l.pos}, nil
		}
		kw := l.lexName()
		if kw != "if" {
			return Token{}, parseErrorf(start, "expected 'if' or '}' after else")
		}
		l.skipSpace()
		condStart := l.pos
		for l.pos < len(l.src) && l.src[l.pos] != '}' {
			l.pos++
		}
		if l.pos >= len(l.src) {
			return Token{}, parseErrorf(start, "unterminated else-if marker")
		}
		cond := strings.TrimSpace(l.src[condStart:l.pos])
		l.pos++
		if cond == "" {
			return Token{}, parseErrorf(start, "missing else-if condition")
		}
		return Token{Kind: TokenElseIf, Value: cond, Start: start, End: l.pos}, nil

	default:
		toks, err := l.lexExprTokens(start)
		if err != nil {
			return Token{}, err
		}
		first := toks[0]
		l.pending = append(l.pending, toks[1:]...)
		return first, nil
	}
}

// lexExprTokens consumes "{raw}" starting at the current position and
// returns the ExprStart/Expr/ExprEnd token triple.
func (l *lexer) lexExprTokens(reportAt int) ([]Token, error) {
	open := l.pos
	l.pos++ // consume '{'
	exprStart := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '}' {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return nil, parseErrorf(reportAt, "unterminated expression")
	}
	raw := strings.TrimSpace(l.src[exprStart:l.pos])
	if raw == "" {
		return nil, parseErrorf(reportAt, "empty expression")
	}
	toks := []Token{
		{Kind: TokenExprStart, Start: open, End: open + 1},
		{Kind: TokenExpr, Value: raw, Start: exprStart, End: l.pos},
		{Kind: TokenExprEnd, Start: l.pos, End: l.pos + 1},
	}
	l.pos++ // consume '}'
	return toks, nil
}

// lexName consumes an identifier run (letters, digits, '-', '_').
func (l *lexer) lexName() string {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_' {
			l.pos++
			continue
		}
		break
	}
	return l.src[start:l.pos]
}

// skipSpace advances past whitespace.
func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}
