// Package template contains the compiler front end for Apex templates:
// a modal lexer, a fail-fast recursive-descent parser, and the
// expression analyzer that classifies reactive reads.
//
// The grammar is HTML-like. Elements nest arbitrarily, attributes take
// quoted literals or brace-delimited expressions, and braces introduce
// interpolations and the closed directive set #if (with optional
// {:else} / {:else if}) and #outlet.
//
// Whitespace policy: inside a text run, whitespace runs collapse to a
// single space; a run that is entirely whitespace produces no Text
// node. A collapsed run touching either edge of a text run is kept as
// a single space.
package template
