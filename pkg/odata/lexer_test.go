package odata

import (
	"errors"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "simple comparison",
			input: "price gt 10",
			want: []Token{
				{KindProperty, "price"},
				{KindOperator, "gt"},
				{KindLiteral, "10"},
			},
		},
		{
			name:  "quoted string with escaped quote",
			input: "title eq 'it''s'",
			want: []Token{
				{KindProperty, "title"},
				{KindOperator, "eq"},
				{KindLiteral, "'it''s'"},
			},
		},
		{
			name:  "keyword inside quotes stays a literal",
			input: "'eq'",
			want:  []Token{{KindLiteral, "'eq'"}},
		},
		{
			name:  "function call",
			input: "contains(title,'x')",
			want: []Token{
				{KindOperator, "contains"},
				{KindParen, "("},
				{KindProperty, "title"},
				{KindParen, ","},
				{KindLiteral, "'x'"},
				{KindParen, ")"},
			},
		},
		{
			name:  "signed decimal",
			input: "a ge -1.5",
			want: []Token{
				{KindProperty, "a"},
				{KindOperator, "ge"},
				{KindLiteral, "-1.5"},
			},
		},
		{
			name:  "keywords are case-insensitive and lowered",
			input: "x EQ TRUE AND NOT y",
			want: []Token{
				{KindProperty, "x"},
				{KindOperator, "eq"},
				{KindLiteral, "true"},
				{KindLogical, "and"},
				{KindLogical, "not"},
				{KindProperty, "y"},
			},
		},
		{
			name:  "keyword prefix is not a keyword",
			input: "equipment eq 1",
			want: []Token{
				{KindProperty, "equipment"},
				{KindOperator, "eq"},
				{KindLiteral, "1"},
			},
		},
		{
			name:  "symbolic operators",
			input: "a <= 3 and b != 4 or c>5",
			want: []Token{
				{KindProperty, "a"},
				{KindOperator, "<="},
				{KindLiteral, "3"},
				{KindLogical, "and"},
				{KindProperty, "b"},
				{KindOperator, "!="},
				{KindLiteral, "4"},
				{KindLogical, "or"},
				{KindProperty, "c"},
				{KindOperator, ">"},
				{KindLiteral, "5"},
			},
		},
		{
			name:  "empty input",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{"double quoted string", `title eq "x"`, 9},
		{"unterminated string", "title eq 'x", 9},
		{"lone bang", "a ! b", 2},
		{"number glued to word", "a eq 10abc", 5},
		{"trailing dot", "a eq 1.", 5},
		{"unknown character", "a @ b", 2},
		{"non-ascii identifier", "prîce eq 1", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Tokenize(%q) error = %v, want *SyntaxError", tt.input, err)
			}
			if se.Offset != tt.offset {
				t.Errorf("Tokenize(%q) offset = %d, want %d", tt.input, se.Offset, tt.offset)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	if got := KindProperty.String(); got != "property" {
		t.Errorf("KindProperty.String() = %q, want %q", got, "property")
	}
	if got := Kind(0).String(); got != "kind(0)" {
		t.Errorf("Kind(0).String() = %q, want %q", got, "kind(0)")
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"title", true},
		{"_private", true},
		{"col2", true},
		{"", false},
		{"2col", false},
		{"a-b", false},
		{"a b", false},
	}
	for _, tt := range tests {
		if got := IsIdentifier(tt.in); got != tt.want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
