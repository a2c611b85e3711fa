package odata

import "regexp"

// Denylist categories, reported in logs and metrics but never to clients.
const (
	CategoryStatementTerminator = "statement_terminator"
	CategoryComment             = "comment"
	CategoryStatementKeyword    = "statement_keyword"
	CategoryProcedure           = "procedure_call"
	CategoryScript              = "script"
	CategoryTautology           = "tautology"
)

type denyPattern struct {
	category string
	regex    *regexp.Regexp
}

// denylist is scanned against the whole decoded expression before it is
// tokenized. Go's regexp is RE2: matching is linear in the input and never
// backtracks, and callers cap the input length before scanning.
var denylist = []denyPattern{
	{CategoryStatementTerminator, regexp.MustCompile(`;`)},
	{CategoryComment, regexp.MustCompile(`--|/\*|\*/`)},
	{CategoryStatementKeyword, regexp.MustCompile(`(?i)\b(?:union|drop|insert|delete|truncate|alter|exec|execute)\b`)},
	{CategoryProcedure, regexp.MustCompile(`(?i)\b(?:xp|sp)_\w+`)},
	{CategoryScript, regexp.MustCompile(`(?i)<\s*/?\s*script|\b(?:java|vb)script\s*:|\beval\s*\(`)},
	{CategoryTautology, regexp.MustCompile(`(?i)\b(?:or|and)\b[\s(]*(?:-?\d+(?:\.\d+)?|'[^']*')\s*(?:=|\beq\b)\s*[\s(]*(?:-?\d+(?:\.\d+)?|'[^']*')`)},
}

// ScanDenylist reports the category of the first denylist pattern found in
// s, or "" when s is clean.
func ScanDenylist(s string) string {
	for _, p := range denylist {
		if p.regex.MatchString(s) {
			return p.category
		}
	}
	return ""
}
