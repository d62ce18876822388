package token

import "strings"

// stripComments removes C comments from src in a single forward scan.
// String and character literals are recognized ahead of comment markers so
// that a "//" or "/*" appearing inside a string literal is never mistaken
// for a comment (spec.md §4.A.1) — this is why the pass is a hand-written
// scan rather than two independent regex substitutions run back to back.
func stripComments(src string) string {
	var out strings.Builder
	out.Grow(len(src))

	i, n := 0, len(src)
	for i < n {
		c := src[i]

		switch {
		case c == '"' || c == '\'':
			start := i
			i = skipQuoted(src, i, c)
			out.WriteString(src[start:i])

		case c == '/' && i+1 < n && src[i+1] == '/':
			i += 2
			for i < n && src[i] != '\n' {
				i++
			}
			out.WriteByte(' ')

		case c == '/' && i+1 < n && src[i+1] == '*':
			i += 2
			for i+1 < n && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			if i+1 < n {
				i += 2
			} else {
				i = n
			}
			out.WriteByte(' ')

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// skipQuoted returns the index just past the closing quote of the literal
// starting at src[start], handling backslash escapes. If the literal is
// unterminated, it returns len(src).
func skipQuoted(src string, start int, quote byte) int {
	i := start + 1
	n := len(src)
	for i < n {
		if src[i] == '\\' && i+1 < n {
			i += 2
			continue
		}
		if src[i] == quote {
			return i + 1
		}
		i++
	}
	return n
}

// preprocessorDirectives is the set of directive keywords whose lines are
// dropped wholesale when RemovePreprocessor is set (spec.md §4.A.2).
var preprocessorDirectives = []string{
	"include", "define", "ifdef", "ifndef", "endif", "undef", "if", "else", "elif", "pragma",
}

// stripPreprocessor removes entire lines that begin with '#' (whitespace
// tolerant) followed by a recognized directive keyword, case-insensitively.
func stripPreprocessor(src string) string {
	lines := strings.Split(src, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if isPreprocessorLine(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isPreprocessorLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) == 0 || trimmed[0] != '#' {
		return false
	}
	rest := strings.TrimLeft(trimmed[1:], " \t")
	lowerRest := strings.ToLower(rest)
	for _, directive := range preprocessorDirectives {
		if strings.HasPrefix(lowerRest, directive) {
			return true
		}
	}
	return false
}

// normalizeWhitespace collapses every run of whitespace to a single space.
// Line boundaries carry no meaning after this pass (spec.md §4.A.3).
func normalizeWhitespace(src string) string {
	var out strings.Builder
	out.Grow(len(src))

	inRun := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f' {
			if !inRun {
				out.WriteByte(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		out.WriteByte(c)
	}
	return out.String()
}
