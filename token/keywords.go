package token

import "strings"

// keywords is the fixed set of C keywords recognized by the scanner.
// Membership is checked case-insensitively; a match emits the upper-cased
// keyword itself rather than a generic symbol, since keywords carry
// structural meaning that plagiarism comparison should not discard.
var keywords = map[string]struct{}{
	"auto": {}, "break": {}, "case": {}, "char": {}, "const": {}, "continue": {},
	"default": {}, "do": {}, "double": {}, "else": {}, "enum": {}, "extern": {},
	"float": {}, "for": {}, "goto": {}, "if": {}, "int": {}, "long": {},
	"register": {}, "return": {}, "short": {}, "signed": {}, "sizeof": {},
	"static": {}, "struct": {}, "switch": {}, "typedef": {}, "union": {},
	"unsigned": {}, "void": {}, "volatile": {}, "while": {},
}

func isKeyword(word string) bool {
	_, ok := keywords[strings.ToLower(word)]
	return ok
}

// typeContextKeywords are the words that, when seen among the two preceding
// whitespace-separated tokens of an identifier, mark that identifier as
// type-like (spec.md §4.A.5).
var typeContextKeywords = map[string]struct{}{
	"struct": {}, "typedef": {}, "enum": {}, "union": {},
}

// operators is the C operator table, longest-match ordered. Index 0 holds
// the longest operators; ties within a length are ordered for determinism
// only (the scanner already tries by length, not by table order within a
// length class).
var operators = buildOperatorTable()

func buildOperatorTable() []string {
	ops := []string{
		"+", "-", "*", "/", "%", "=", "==", "!=", "<", ">", "<=", ">=",
		"&&", "||", "!", "&", "|", "^", "~", "<<", ">>", "++", "--",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=",
		"->", ".", "?", ":", ",", ";", "(", ")", "[", "]", "{", "}",
	}
	// Sort longest-first so the scanner's linear scan implements the
	// longest-match rule (spec.md §4.A.4) without extra bookkeeping.
	for i := 1; i < len(ops); i++ {
		v := ops[i]
		j := i - 1
		for j >= 0 && len(ops[j]) < len(v) {
			ops[j+1] = ops[j]
			j--
		}
		ops[j+1] = v
	}
	return ops
}
