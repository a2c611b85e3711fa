package odata

import "strings"

// Convert rewrites named comparison operators to their symbolic spelling and
// joins all tokens with single spaces. It does not restructure the stream:
// callers must run Validator.CheckTokens first.
func Convert(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		switch tok.Kind {
		case KindOperator:
			if sym, ok := comparisonSymbols[tok.Text]; ok {
				parts[i] = sym
				continue
			}
			parts[i] = tok.Text
		case KindLiteral, KindLogical, KindParen, KindProperty:
			parts[i] = tok.Text
		default:
			panic(unknownKind(tok.Kind))
		}
	}
	return strings.Join(parts, " ")
}

// QuoteProperties re-tokenizes a converted fragment and passes every
// property reference through quote. Function names are left bare. The
// fragment must come from Convert on validated tokens.
func QuoteProperties(fragment string, quote func(string) string) (string, error) {
	tokens, err := Tokenize(fragment)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		if tok.Kind == KindProperty && !isCall(tokens, i) {
			parts[i] = quote(tok.Text)
			continue
		}
		parts[i] = tok.Text
	}
	return strings.Join(parts, " "), nil
}
