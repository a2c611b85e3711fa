package odata

import "fmt"

// Kind identifies the lexical class of a Token. The set is closed: every
// switch over Kind in this package is exhaustive and panics on an unknown
// value so that adding a kind forces each consumer to be revisited.
type Kind uint8

const (
	// KindOperator is a comparison or function operator ("eq", ">=", "contains").
	KindOperator Kind = iota + 1
	// KindLiteral is a quoted string, number, boolean or null.
	KindLiteral
	// KindLogical is one of "and", "or", "not".
	KindLogical
	// KindParen is structural punctuation: "(", ")" and the argument separator ",".
	KindParen
	// KindProperty is any other bare word: a property reference or a function name.
	KindProperty
)

var kindNames = [...]string{
	KindOperator: "operator",
	KindLiteral:  "literal",
	KindLogical:  "logical",
	KindParen:    "paren",
	KindProperty: "property",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k == 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", k)
	}
	return kindNames[k]
}

// Token is a single lexical unit of a filter expression.
// Tokens are values; the lexer is the only producer.
type Token struct {
	Kind Kind
	Text string
}

// String renders the token for diagnostics.
func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}

func unknownKind(k Kind) string {
	return fmt.Sprintf("odata: unhandled token kind %d", k)
}
