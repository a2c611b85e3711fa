package odata

import (
	"fmt"
	"strings"
)

// SyntaxError reports input the lexer cannot turn into tokens. It carries the
// byte offset only; the offending text is never copied into the message.
type SyntaxError struct {
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Reason, e.Offset)
}

// Lexer tokenizes a decoded filter expression in a single left-to-right pass.
// Every byte is examined a bounded number of times, so the cost is linear in
// the input length.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize returns all tokens of input, or the first SyntaxError.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, ok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token. ok is false at end of input.
//
// Recognition order matters: literals come before words so a quoted value can
// never be read as a property, and keywords are classified before the
// property fallback so "eq" is never taken for a column name.
func (l *Lexer) Next() (tok Token, ok bool, err error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{}, false, nil
	}

	ch := l.input[l.pos]
	switch {
	case ch == '\'':
		text, err := l.readString()
		if err != nil {
			return Token{}, false, err
		}
		return Token{Kind: KindLiteral, Text: text}, true, nil
	case ch == '"':
		return Token{}, false, &SyntaxError{Offset: l.pos, Reason: "double-quoted strings are not allowed"}
	case isDigit(ch) || (ch == '-' && isDigit(l.peek(1))):
		text, err := l.readNumber()
		if err != nil {
			return Token{}, false, err
		}
		return Token{Kind: KindLiteral, Text: text}, true, nil
	case isIdentStart(ch):
		return l.classifyWord(l.readWord()), true, nil
	case ch == '=':
		l.pos++
		return Token{Kind: KindOperator, Text: "="}, true, nil
	case ch == '!':
		if l.peek(1) != '=' {
			return Token{}, false, &SyntaxError{Offset: l.pos, Reason: "unexpected character"}
		}
		l.pos += 2
		return Token{Kind: KindOperator, Text: "!="}, true, nil
	case ch == '<' || ch == '>':
		text := string(ch)
		if l.peek(1) == '=' {
			text += "="
		}
		l.pos += len(text)
		return Token{Kind: KindOperator, Text: text}, true, nil
	case ch == '(' || ch == ')' || ch == ',':
		l.pos++
		return Token{Kind: KindParen, Text: string(ch)}, true, nil
	default:
		return Token{}, false, &SyntaxError{Offset: l.pos, Reason: "unexpected character"}
	}
}

// classifyWord maps a bare word to its token. Keywords are matched
// case-insensitively and emitted in lowercase; anything else is a property.
func (l *Lexer) classifyWord(word string) Token {
	lower := strings.ToLower(word)
	switch {
	case literalWords[lower]:
		return Token{Kind: KindLiteral, Text: lower}
	case isNamedOperator(lower):
		return Token{Kind: KindOperator, Text: lower}
	case logicalKeywords[lower]:
		return Token{Kind: KindLogical, Text: lower}
	default:
		return Token{Kind: KindProperty, Text: word}
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *Lexer) peek(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

// readString reads a single-quoted literal. A doubled quote ('') is an
// escaped quote. The returned text keeps its surrounding quotes.
func (l *Lexer) readString() (string, error) {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.input) {
		if l.input[l.pos] == '\'' {
			if l.peek(1) == '\'' {
				l.pos += 2
				continue
			}
			l.pos++
			return l.input[start:l.pos], nil
		}
		l.pos++
	}
	return "", &SyntaxError{Offset: start, Reason: "unterminated string literal"}
}

// readNumber reads -?digits(.digits)? and rejects a number glued to a word.
func (l *Lexer) readNumber() (string, error) {
	start := l.pos
	if l.input[l.pos] == '-' {
		l.pos++
	}
	l.readDigits()
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		if !isDigit(l.peek(1)) {
			return "", &SyntaxError{Offset: start, Reason: "invalid numeric literal"}
		}
		l.pos++
		l.readDigits()
	}
	if l.pos < len(l.input) && (isIdentStart(l.input[l.pos]) || l.input[l.pos] == '.') {
		return "", &SyntaxError{Offset: start, Reason: "invalid numeric literal"}
	}
	return l.input[start:l.pos], nil
}

func (l *Lexer) readDigits() {
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) readWord() string {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	return l.input[start:l.pos]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// IsIdentifier reports whether s is a non-empty ASCII identifier
// ([A-Za-z_][A-Za-z0-9_]*).
func IsIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}
