// Package odata compiles OData-style filter expressions into a whitelisted
// predicate fragment.
//
// # Pipeline
//
// A decoded $filter value passes through three stages, each of which may
// reject the whole expression:
//
//  1. Denylist scan (ScanDenylist) over the raw decoded text: statement
//     terminators, comment delimiters, DDL/DML keywords, stored procedures,
//     script markers and "OR 1=1" tautologies.
//  2. Lexing (Tokenize) into Operator, Literal, Logical, Paren and Property
//     tokens, followed by the per-token whitelist and structure check
//     (Validator.CheckTokens).
//  3. Conversion (Convert) of eq/ne/gt/ge/lt/le into =, !=, >, >=, <, <=.
//
// # Basic Usage
//
//	v := odata.NewValidator(schema)
//	fragment, err := v.Compile("price gt 10 and title eq 'x'")
//	// fragment == "price > 10 and title = 'x'"
//
// # Errors
//
// Rejections are one of *FormatError, *WhitelistViolation or
// *InjectionPatternDetected. The last one always renders as
// "forbidden patterns detected" and never carries the input.
package odata
