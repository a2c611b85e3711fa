package odata

import "sort"

// Vocabulary tables. They are built once at package init and never written
// afterwards; every Validator shares them read-only.
var (
	// comparisonSymbols maps named comparison operators to the spelling the
	// converter emits.
	comparisonSymbols = map[string]string{
		"eq": "=",
		"ne": "!=",
		"gt": ">",
		"ge": ">=",
		"lt": "<",
		"le": "<=",
	}

	// functionOperators are named operators that take an argument list.
	functionOperators = map[string]bool{
		"contains":   true,
		"startswith": true,
		"endswith":   true,
	}

	symbolicOperators = map[string]bool{
		"=":  true,
		"!=": true,
		"<":  true,
		"<=": true,
		">":  true,
		">=": true,
	}

	logicalKeywords = map[string]bool{
		"and": true,
		"or":  true,
		"not": true,
	}

	// builtinFunctions may appear where a property is expected.
	builtinFunctions = map[string]bool{
		"tolower": true,
		"toupper": true,
		"length":  true,
		"trim":    true,
	}

	literalWords = map[string]bool{
		"true":  true,
		"false": true,
		"null":  true,
	}
)

func isNamedOperator(word string) bool {
	_, cmp := comparisonSymbols[word]
	return cmp || functionOperators[word]
}

// AllowedOperators returns every operator spelling a filter may use, sorted.
func AllowedOperators() []string {
	ops := make([]string, 0, len(comparisonSymbols)+len(functionOperators)+len(symbolicOperators))
	for op := range comparisonSymbols {
		ops = append(ops, op)
	}
	for op := range functionOperators {
		ops = append(ops, op)
	}
	for op := range symbolicOperators {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// AllowedLogical returns the logical keywords, sorted.
func AllowedLogical() []string {
	return sortedKeys(logicalKeywords)
}

// BuiltinFunctions returns the function names accepted in property position, sorted.
func BuiltinFunctions() []string {
	return sortedKeys(builtinFunctions)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
