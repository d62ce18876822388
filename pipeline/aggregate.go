package pipeline

import (
	"os"
	"sort"

	"github.com/codewatch-io/mastergrader/similarity"
	"github.com/codewatch-io/mastergrader/token"
)

// mappingLog turns each student's unmapped/ambiguous files into LogEntry
// records, sorted by StudentID for deterministic output.
func mappingLog(mappedStudents []mappedSubmission) []LogEntry {
	var entries []LogEntry
	for _, ms := range mappedStudents {
		for _, file := range ms.assignment.Unmapped {
			entries = append(entries, LogEntry{
				Student: ms.student, Stage: "map", Kind: "unmapped",
				Message: file,
			})
		}
		for _, file := range ms.assignment.Ambiguous {
			entries = append(entries, LogEntry{
				Student: ms.student, Stage: "map", Kind: "ambiguous",
				Message: (&MappingAmbiguityError{Student: ms.student, File: file}).Error(),
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Student != entries[j].Student {
			return entries[i].Student < entries[j].Student
		}
		return entries[i].Kind < entries[j].Kind
	})
	return entries
}

// buildSubmissions tokenizes each student's single mapped file for question
// q, applies template subtraction when a template was supplied, and drops
// any file below minTokenCount (logging a TooFewTokensError in its place).
// Students with no file mapped to q are simply absent from the returned
// slice.
func buildSubmissions(
	mappedStudents []mappedSubmission,
	question int,
	profile token.SensitivityProfile,
	template token.Stream,
	minTokenCount int,
) ([]similarity.Submission, []LogEntry) {
	var submissions []similarity.Submission
	var log []LogEntry

	for _, ms := range mappedStudents {
		file := ms.assignment.ByQuestion[question]
		if file == "" {
			continue
		}

		src, err := os.ReadFile(file)
		if err != nil {
			log = append(log, LogEntry{
				Student: ms.student, Stage: "tokenize", Kind: "io_error",
				Message: (&IOError{Student: ms.student, Path: file, Err: err}).Error(),
			})
			continue
		}
		stream := token.Tokenize(src, profile)
		if len(template) > 0 {
			stream = token.SubtractTemplate(stream, template)
		}

		if stream.Len() < minTokenCount {
			log = append(log, LogEntry{
				Student: ms.student, Stage: "tokenize", Kind: "too_few_tokens",
				Message: (&TooFewTokensError{
					Student: ms.student, File: file, Count: stream.Len(), Min: minTokenCount,
				}).Error(),
			})
			continue
		}

		submissions = append(submissions, similarity.Submission{
			StudentID: string(ms.student),
			FilePath:  file,
			Tokens:    stream,
		})
	}

	sort.Slice(log, func(i, j int) bool { return log[i].Student < log[j].Student })
	return submissions, log
}
