package token

import "strings"

// identRole is the role classify assigns an identifier lexeme, deciding
// which Ignore* flag of the profile governs it, based on how the identifier
// is used at the point it was scanned (spec.md §4.A.5):
//
//   - immediately followed by '(' (ignoring blanks)       -> function-like
//   - one of the preceding two tokens is a type-context
//     keyword                                             -> type-like
//   - otherwise                                           -> variable-like
type identRole int

const (
	roleVariable identRole = iota
	roleFunction
	roleType
)

func classify(lexemes []lexeme, i int) identRole {
	if i+1 < len(lexemes) && lexemes[i+1].kind == KindOperator && lexemes[i+1].text == "(" {
		return roleFunction
	}
	for back := 1; back <= 2; back++ {
		j := i - back
		if j < 0 {
			break
		}
		if lexemes[j].kind != KindKeyword {
			continue
		}
		if _, ok := typeContextKeywords[strings.ToLower(lexemes[j].text)]; ok {
			return roleType
		}
	}
	return roleVariable
}

// Tokenize reduces C source text to its canonical token Stream under the
// given sensitivity profile. The pipeline is: replace invalid UTF-8 byte
// sequences with U+FFFD, strip comments, strip preprocessor directives,
// normalize whitespace, scan into lexemes, classify identifiers, then
// substitute generic symbols per profile.
func Tokenize(source []byte, profile SensitivityProfile) Stream {
	src := strings.ToValidUTF8(string(source), "�")

	if profile.RemoveComments {
		src = stripComments(src)
	}
	if profile.RemovePreprocessor {
		src = stripPreprocessor(src)
	}
	if profile.NormalizeWhitespace {
		src = normalizeWhitespace(src)
	}

	sc := newScanner(src)
	var lexemes []lexeme
	for {
		lx, ok := sc.scan()
		if !ok {
			break
		}
		lexemes = append(lexemes, lx)
	}

	stream := make(Stream, 0, len(lexemes))
	for i, lx := range lexemes {
		stream = append(stream, renderLexeme(lx, i, lexemes, profile))
	}
	return stream
}

func renderLexeme(lx lexeme, i int, lexemes []lexeme, profile SensitivityProfile) string {
	switch lx.kind {
	case KindKeyword:
		return strings.ToUpper(lx.text)
	case KindOperator:
		return lx.text
	case KindGenericNum:
		if profile.IgnoreNumericLiterals {
			return "NUM"
		}
		return lx.text
	case KindGenericStr:
		if profile.IgnoreStringLiterals {
			return "STR"
		}
		return lx.text
	case KindIdentifier:
		role := classify(lexemes, i)
		switch role {
		case roleFunction:
			if profile.IgnoreFunctionNames {
				return "ID"
			}
		case roleType:
			if profile.IgnoreTypeNames {
				return "ID"
			}
		default:
			if profile.IgnoreVariableNames {
				return "ID"
			}
		}
		return lx.text
	default:
		return lx.text
	}
}

// SubtractTemplate removes the first contiguous occurrence of the full
// template token run from student, if the whole template appears verbatim
// as a subsequence. It operates directly on the token lists rather than
// joined strings, per the list-first contract of Stream (spec.md's Open
// Questions), but otherwise keeps the original's exact-whole-template
// match: a partial overlap does not count, and at most one occurrence is
// removed.
func SubtractTemplate(student, template Stream) Stream {
	if len(template) == 0 || len(student) == 0 {
		return student
	}

	start := indexOfRun(student, template)
	if start < 0 {
		return student
	}

	out := make(Stream, 0, len(student)-len(template))
	out = append(out, student[:start]...)
	out = append(out, student[start+len(template):]...)
	return out
}

// indexOfRun returns the start index of the first occurrence of needle as
// a contiguous run within haystack, or -1 if it does not occur.
func indexOfRun(haystack, needle Stream) int {
	if len(needle) > len(haystack) {
		return -1
	}
	for start := 0; start <= len(haystack)-len(needle); start++ {
		match := true
		for i, tok := range needle {
			if haystack[start+i] != tok {
				match = false
				break
			}
		}
		if match {
			return start
		}
	}
	return -1
}
