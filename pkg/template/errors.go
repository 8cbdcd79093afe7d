package template

import "fmt"

// ParseError is a fatal template compilation error. No partial AST is
// produced when parsing fails.
type ParseError struct {
	Offset int    // Byte offset into the source where the error was detected
	Msg    string // Human-readable description
}

// Error returns the error message with the source offset.
func (e *ParseError) Error() string {
	return fmt.Sprintf("template: parse error at offset %d: %s", e.Offset, e.Msg)
}

// parseErrorf builds a ParseError at the given offset.
func parseErrorf(offset int, format string, args ...any) *ParseError {
	return &ParseError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
