package template

// TokenKind is the token type discriminator.
type TokenKind uint8

const (
	TokenEOF            TokenKind = iota
	TokenText                     // Character run outside tags and braces
	TokenTagOpen                  // "<div" (value is the tag name)
	TokenTagEnd                   // ">" terminating an opening tag
	TokenSelfClose                // "/>"
	TokenTagClose                 // "</div>" (value is the tag name)
	TokenAttrName                 // Attribute name inside an opening tag
	TokenAttrValue                // Quoted literal attribute value
	TokenExprStart                // "{"
	TokenExpr                     // Raw expression source between braces
	TokenExprEnd                  // "}"
	TokenDirectiveName            // "#if" or "#outlet" (value is the bare name)
	TokenDirectiveClose           // "{/if}" (value is the bare name)
	TokenElse                     // "{:else}"
	TokenElseIf                   // "{:else if ...}" (value is the condition)
)

// String returns the string representation of the TokenKind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenText:
		return "Text"
	case TokenTagOpen:
		return "TagOpen"
	case TokenTagEnd:
		return "TagEnd"
	case TokenSelfClose:
		return "SelfClose"
	case TokenTagClose:
		return "TagClose"
	case TokenAttrName:
		return "AttrName"
	case TokenAttrValue:
		return "AttrValue"
	case TokenExprStart:
		return "ExprStart"
	case TokenExpr:
		return "Expr"
	case TokenExprEnd:
		return "ExprEnd"
	case TokenDirectiveName:
		return "DirectiveName"
	case TokenDirectiveClose:
		return "DirectiveClose"
	case TokenElse:
		return "Else"
	case TokenElseIf:
		return "ElseIf"
	default:
		return "Unknown"
	}
}

// Token is a lexed token with its source span in byte offsets.
type Token struct {
	Kind  TokenKind
	Value string
	Start int // Byte offset of the first byte
	End   int // Byte offset one past the last byte
}
