// Package mapper assigns each student's source files to the assignment
// question it answers. Filenames are rarely consistent across a class —
// "q1.c", "Question_1/main.c", "ex1.c", "1.c" all mean the same thing — so
// the mapper scores each file against a per-question pattern table at
// several confidence tiers and keeps only the best, unambiguous match.
package mapper

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// questionPattern holds the compiled regular expressions used to recognize
// one question number, grouped by confidence tier. Built once per mapper
// for num_questions questions, the same "build the regex table once"
// shape the teacher uses for its DDL statement splitter.
type questionPattern struct {
	question int

	filenamePatterns []*regexp.Regexp // confidence 0.9
	pathPatterns     []*regexp.Regexp // confidence 0.7
	dirPatterns      []*regexp.Regexp // confidence 0.5
}

const (
	confidenceFilename  = 0.9
	confidencePath      = 0.7
	confidenceDirectory = 0.5
	confidenceBareNum   = 0.4
)

// Mapper maps student source files to question numbers.
type Mapper struct {
	patterns           []questionPattern
	acceptedExtensions map[string]bool
	ignorePatterns     []string
	numQuestions       int
}

// New builds a Mapper for numQuestions questions, recognizing files with
// one of acceptedExtensions, and skipping any path containing one of
// ignorePatterns.
func New(numQuestions int, acceptedExtensions, ignorePatterns []string) *Mapper {
	m := &Mapper{
		acceptedExtensions: make(map[string]bool, len(acceptedExtensions)),
		ignorePatterns:     ignorePatterns,
		numQuestions:       numQuestions,
	}
	for _, ext := range acceptedExtensions {
		m.acceptedExtensions[strings.ToLower(ext)] = true
	}
	for q := 1; q <= numQuestions; q++ {
		m.patterns = append(m.patterns, buildQuestionPattern(q))
	}
	return m
}

func buildQuestionPattern(q int) questionPattern {
	qs := strconv.Itoa(q)
	compile := func(pattern string) *regexp.Regexp {
		return regexp.MustCompile("(?i)" + pattern)
	}

	return questionPattern{
		question: q,
		filenamePatterns: []*regexp.Regexp{
			compile(`\bq` + qs + `\b`),
			compile(`\bquestion` + qs + `\b`),
			compile(`\bsoal` + qs + `\b`),
			compile(`\bproblem` + qs + `\b`),
			compile(`\bex` + qs + `\b`),
			compile(`\bexercise` + qs + `\b`),
			compile(`(^|[^0-9])0*` + qs + `\.[a-z]+$`),
			compile(`\(` + qs + `\)`),
			compile(`\[` + qs + `\]`),
			compile(`_` + qs + `_`),
		},
		pathPatterns: []*regexp.Regexp{
			compile(`[/\\]q` + qs + `[/\\._]`),
			compile(`[/\\]question` + qs + `[/\\._]`),
		},
		dirPatterns: []*regexp.Regexp{
			compile(`[^0-9]` + qs + `[^0-9]`),
		},
	}
}

// candidate is one question-number guess for a file, carrying the
// confidence that produced it; MapStudent keeps the single best candidate
// per file and refuses the file outright if two distinct questions tie at
// the top confidence.
type candidate struct {
	question   int
	confidence float64
}

// fileCandidate is one file that classified unambiguously to a question,
// carrying the confidence that won, so MapStudent can pick the single best
// file when several files land in the same question slot.
type fileCandidate struct {
	path       string
	confidence float64
}

// Assignment is the outcome of mapping one student's directory. Each
// question slot holds at most one file — the highest-confidence match,
// shortest path on ties — matching the original's "one canonical submission
// per question" invariant.
type Assignment struct {
	StudentID  string
	ByQuestion map[int]string
	Unmapped   []string
	Ambiguous  []string
}

// MapStudent walks studentDir, classifies every accepted-extension file it
// finds by its path relative to studentDir, and copies the single best-matching file per question to
// outputDir/Q{n}/{studentID}{ext}. Files matched to more than one question
// at the same top confidence are refused rather than guessed at — a
// deliberate departure from picking the first pattern that matches. When
// several files classify to the same question, only the highest-confidence
// one (shortest path on ties) is kept; the rest are dropped from that
// question's slot entirely.
func (m *Mapper) MapStudent(studentDir, studentID, outputDir string) (Assignment, error) {
	assignment := Assignment{StudentID: studentID, ByQuestion: make(map[int]string)}
	perQuestion := make(map[int][]fileCandidate)

	err := filepath.WalkDir(studentDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if m.shouldIgnore(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if m.shouldIgnore(path) {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !m.acceptedExtensions[ext] {
			return nil
		}

		classifyPath := path
		if rel, rerr := filepath.Rel(studentDir, path); rerr == nil {
			classifyPath = string(filepath.Separator) + rel
		}
		question, confidence, ambiguous := m.classify(classifyPath)
		switch {
		case ambiguous:
			assignment.Ambiguous = append(assignment.Ambiguous, path)
		case question == 0:
			assignment.Unmapped = append(assignment.Unmapped, path)
		default:
			perQuestion[question] = append(perQuestion[question], fileCandidate{path: path, confidence: confidence})
		}
		return nil
	})
	if err != nil {
		return Assignment{}, err
	}

	for question, candidates := range perQuestion {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.confidence > best.confidence || (c.confidence == best.confidence && len(c.path) < len(best.path)) {
				best = c
			}
		}
		ext := strings.ToLower(filepath.Ext(best.path))
		dest := filepath.Join(outputDir, fmt.Sprintf("Q%d", question), studentID+ext)
		if err := copyFile(best.path, dest); err != nil {
			return Assignment{}, fmt.Errorf("copy %s to %s: %w", best.path, dest, err)
		}
		assignment.ByQuestion[question] = best.path
	}

	sort.Strings(assignment.Unmapped)
	sort.Strings(assignment.Ambiguous)
	return assignment, nil
}

// classify scores path against every question's pattern table and returns
// the winning question number and the confidence it won at, or
// ambiguous=true if two or more distinct questions tied for the top
// confidence.
func (m *Mapper) classify(path string) (question int, confidence float64, ambiguous bool) {
	name := filepath.Base(path)

	var candidates []candidate
	for _, qp := range m.patterns {
		conf := m.scoreAgainst(qp, path, name)
		if conf > 0 {
			candidates = append(candidates, candidate{question: qp.question, confidence: conf})
		}
	}

	if len(candidates) == 0 {
		if num, ok := extractBareNumber(path, m.numQuestions); ok {
			return num, confidenceBareNum, false
		}
		return 0, 0, false
	}

	best := candidates[0].confidence
	for _, c := range candidates[1:] {
		if c.confidence > best {
			best = c.confidence
		}
	}

	var tied []int
	for _, c := range candidates {
		if c.confidence == best {
			tied = append(tied, c.question)
		}
	}
	distinct := distinctInts(tied)
	if len(distinct) > 1 {
		return 0, 0, true
	}
	return distinct[0], best, false
}

func (m *Mapper) scoreAgainst(qp questionPattern, path, name string) float64 {
	for _, re := range qp.filenamePatterns {
		if re.MatchString(name) {
			return confidenceFilename
		}
	}
	for _, re := range qp.pathPatterns {
		if re.MatchString(path) {
			return confidencePath
		}
	}
	for _, re := range qp.dirPatterns {
		if re.MatchString(filepath.Dir(path)) {
			return confidenceDirectory
		}
	}
	return 0
}

// extractBareNumber is the fallback strategy: a path containing exactly one
// standalone number within [1, numQuestions] is accepted at confidence 0.4;
// a path containing several such numbers is refused as ambiguous rather than
// guessed at from whichever happens to appear first.
func extractBareNumber(path string, numQuestions int) (int, bool) {
	var digits strings.Builder
	var found []int
	flush := func() {
		if digits.Len() == 0 {
			return
		}
		n, err := strconv.Atoi(digits.String())
		digits.Reset()
		if err != nil {
			return
		}
		if n >= 1 && n <= numQuestions {
			found = append(found, n)
		}
	}

	for _, r := range path {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	distinct := distinctInts(found)
	if len(distinct) != 1 {
		return 0, false
	}
	return distinct[0], true
}

func distinctInts(in []int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func (m *Mapper) shouldIgnore(path string) bool {
	lower := strings.ToLower(path)
	for _, pattern := range m.ignorePatterns {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
