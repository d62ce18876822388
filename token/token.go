// Package token implements the C tokenizer: a forward single-pass scanner
// that reduces C source text to a canonical, comparison-friendly symbol
// stream, plus template subtraction over that stream.
package token

// Kind classifies a single lexeme before it is collapsed to its final
// symbol text. It never crosses the package boundary; the external
// contract is the flat Stream of strings.
type Kind int

const (
	KindKeyword Kind = iota
	KindOperator
	KindIdentifier
	KindGenericID
	KindGenericNum
	KindGenericStr
)

// Stream is the ordered, canonical token sequence produced by Tokenize.
// Its elements are drawn from three alphabets: upper-cased C keywords,
// literal C operators, and the generic classes ID/NUM/STR.
type Stream []string

// Len reports the number of tokens in the stream.
func (s Stream) Len() int { return len(s) }

// Joined renders the stream as a single space-separated string. The
// sequence matcher (similarity/match.go) does not use it; it compares the
// token slices directly. Nothing in this package derives tokens FROM a
// joined string, only the reverse (spec.md's Open Questions:
// token-list-first semantics are normative).
func (s Stream) Joined() string {
	total := 0
	for i, t := range s {
		total += len(t)
		if i > 0 {
			total++
		}
	}
	b := make([]byte, 0, total)
	for i, t := range s {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, t...)
	}
	return string(b)
}
