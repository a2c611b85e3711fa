package odata

import "errors"

// PropertySet is the whitelist of property names a filter may reference.
// Implementations must not change while a Validator built on them is in use.
type PropertySet interface {
	Has(name string) bool
	Names() []string
}

// Validator checks filter expressions against a fixed vocabulary and a
// caller-supplied property whitelist. It holds no mutable state, so one
// Validator may be used from many goroutines.
type Validator struct {
	props PropertySet
}

// NewValidator creates a Validator for props.
func NewValidator(props PropertySet) *Validator {
	return &Validator{props: props}
}

// Compile runs the whole filter pipeline on a decoded expression:
// denylist scan, tokenization, whitelist and structure checks, conversion.
// The result is either the converted fragment or a typed error, never both.
func (v *Validator) Compile(expr string) (string, error) {
	if err := v.CheckRaw(expr); err != nil {
		return "", err
	}

	tokens, err := Tokenize(expr)
	if err != nil {
		fe := NewFormatError(ParamFilter, expr, "malformed expression")
		var se *SyntaxError
		if errors.As(err, &se) {
			fe.Reason = "malformed expression: " + se.Error()
		}
		fe.Err = err
		return "", fe
	}

	if err := v.CheckTokens(expr, tokens); err != nil {
		return "", err
	}
	return Convert(tokens), nil
}

// CheckRaw scans the decoded text for injection patterns. It runs before
// tokenization because some attacks are only visible in the raw string.
func (v *Validator) CheckRaw(expr string) error {
	if category := ScanDenylist(expr); category != "" {
		return &InjectionPatternDetected{Param: ParamFilter, Category: category}
	}
	return nil
}

// frame is an open parenthesis: either a grouping or a call argument list.
type frame uint8

const (
	frameGroup frame = iota
	frameCall
)

// CheckTokens enforces the per-token whitelist and a balanced operand/operator
// structure. expr is only used to populate FormatError.Value.
func (v *Validator) CheckTokens(expr string, tokens []Token) error {
	var (
		stack         []frame
		expectOperand = true
		pendingCall   = false
	)

	malformed := func(reason string) error {
		return NewFormatError(ParamFilter, expr, reason)
	}

	for i, tok := range tokens {
		if pendingCall {
			if tok.Kind != KindParen || tok.Text != "(" {
				return malformed("function name must be followed by '('")
			}
			stack = append(stack, frameCall)
			pendingCall = false
			continue
		}

		switch tok.Kind {
		case KindProperty:
			if builtinFunctions[tok.Text] && nextIsOpenParen(tokens, i) {
				if !expectOperand {
					return malformed("unexpected function call")
				}
				pendingCall = true
				continue
			}
			if !v.props.Has(tok.Text) {
				return NewWhitelistViolation(ParamFilter, "property", tok.Text, v.allowedProperties())
			}
			if !expectOperand {
				return malformed("unexpected property reference")
			}
			expectOperand = false

		case KindLiteral:
			if !expectOperand {
				return malformed("unexpected literal")
			}
			expectOperand = false

		case KindOperator:
			switch {
			case functionOperators[tok.Text]:
				if !expectOperand {
					return malformed("unexpected function call")
				}
				pendingCall = true
			case symbolicOperators[tok.Text] || comparisonSymbols[tok.Text] != "":
				if expectOperand {
					return malformed("comparison operator without left operand")
				}
				expectOperand = true
			default:
				return NewWhitelistViolation(ParamFilter, "operator", tok.Text, AllowedOperators())
			}

		case KindLogical:
			if !logicalKeywords[tok.Text] {
				return NewWhitelistViolation(ParamFilter, "logical", tok.Text, AllowedLogical())
			}
			if tok.Text == "not" {
				if !expectOperand {
					return malformed("unexpected 'not'")
				}
				continue
			}
			if expectOperand {
				return malformed("logical operator without left operand")
			}
			expectOperand = true

		case KindParen:
			switch tok.Text {
			case "(":
				if !expectOperand {
					return malformed("unexpected '('")
				}
				stack = append(stack, frameGroup)
			case ")":
				if expectOperand || len(stack) == 0 {
					return malformed("unbalanced parentheses")
				}
				stack = stack[:len(stack)-1]
			case ",":
				if expectOperand || len(stack) == 0 || stack[len(stack)-1] != frameCall {
					return malformed("unexpected ','")
				}
				expectOperand = true
			default:
				return malformed("unexpected punctuation")
			}

		default:
			panic(unknownKind(tok.Kind))
		}
	}

	switch {
	case pendingCall:
		return malformed("function name must be followed by '('")
	case len(stack) > 0:
		return malformed("unbalanced parentheses")
	case expectOperand:
		return malformed("incomplete expression")
	}
	if constantComparison(tokens) {
		return &InjectionPatternDetected{Param: ParamFilter, Category: CategoryTautology}
	}
	return nil
}

// constantComparison reports whether some comparison references no property
// on either side, e.g. "1 eq 1" or "(2) eq (2)". tokens must already be
// structurally valid.
func constantComparison(tokens []Token) bool {
	for i, tok := range tokens {
		if tok.Kind != KindOperator || !isComparison(tok.Text) {
			continue
		}
		lo := operandStart(tokens, i-1)
		hi := operandEnd(tokens, i+1)
		if !referencesProperty(tokens, lo, i) && !referencesProperty(tokens, i+1, hi+1) {
			return true
		}
	}
	return false
}

func isComparison(op string) bool {
	return symbolicOperators[op] || comparisonSymbols[op] != ""
}

// isCall reports whether tokens[i] names a function applied to the
// argument list that follows it.
func isCall(tokens []Token, i int) bool {
	tok := tokens[i]
	switch tok.Kind {
	case KindOperator:
		return functionOperators[tok.Text]
	case KindProperty:
		return builtinFunctions[tok.Text] && nextIsOpenParen(tokens, i)
	}
	return false
}

// operandStart returns the index of the first token of the operand ending
// at end.
func operandStart(tokens []Token, end int) int {
	if tokens[end].Kind != KindParen || tokens[end].Text != ")" {
		return end
	}
	depth := 0
	for j := end; j >= 0; j-- {
		if tokens[j].Kind != KindParen {
			continue
		}
		switch tokens[j].Text {
		case ")":
			depth++
		case "(":
			depth--
		}
		if depth == 0 {
			if j > 0 && isCall(tokens, j-1) {
				return j - 1
			}
			return j
		}
	}
	return 0
}

// operandEnd returns the index of the last token of the operand starting
// at start.
func operandEnd(tokens []Token, start int) int {
	j := start
	for j < len(tokens)-1 && tokens[j].Kind == KindLogical && tokens[j].Text == "not" {
		j++
	}
	if isCall(tokens, j) {
		j++
	}
	if tokens[j].Kind != KindParen || tokens[j].Text != "(" {
		return j
	}
	depth := 0
	for ; j < len(tokens); j++ {
		if tokens[j].Kind != KindParen {
			continue
		}
		switch tokens[j].Text {
		case "(":
			depth++
		case ")":
			depth--
		}
		if depth == 0 {
			return j
		}
	}
	return len(tokens) - 1
}

// referencesProperty reports whether tokens[lo:hi] contains a property
// reference other than a function name.
func referencesProperty(tokens []Token, lo, hi int) bool {
	for j := lo; j < hi; j++ {
		if tokens[j].Kind == KindProperty && !isCall(tokens, j) {
			return true
		}
	}
	return false
}

// allowedProperties lists declared properties followed by built-in functions.
func (v *Validator) allowedProperties() []string {
	names := v.props.Names()
	allowed := make([]string, 0, len(names)+len(builtinFunctions))
	allowed = append(allowed, names...)
	return append(allowed, BuiltinFunctions()...)
}

func nextIsOpenParen(tokens []Token, i int) bool {
	return i+1 < len(tokens) && tokens[i+1].Kind == KindParen && tokens[i+1].Text == "("
}
