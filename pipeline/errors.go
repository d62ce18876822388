package pipeline

import "fmt"

// StudentID identifies a submission's owner throughout the pipeline.
type StudentID string

// ConfigError aborts Driver.Run before any work starts — the configuration
// itself is unusable, so there is nothing to recover locally.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config error: %s", e.Reason) }

// InvalidSubmissionError marks one student's submission as unusable (not a
// directory, not an archive, missing entirely). Logged and swallowed: the
// rest of the run proceeds without this student.
type InvalidSubmissionError struct {
	Student StudentID
	Reason  string
}

func (e *InvalidSubmissionError) Error() string {
	return fmt.Sprintf("invalid submission for %s: %s", e.Student, e.Reason)
}

// ExtractionFailureError marks one archive within one student's submission
// as unextractable (corrupt, password-protected, depth exceeded).
type ExtractionFailureError struct {
	Student StudentID
	Archive string
	Reason  string
}

func (e *ExtractionFailureError) Error() string {
	return fmt.Sprintf("failed to extract %s for %s: %s", e.Archive, e.Student, e.Reason)
}

// MappingAmbiguityError marks one file that matched more than one question
// at the same top confidence, and so was left unassigned.
type MappingAmbiguityError struct {
	Student StudentID
	File    string
}

func (e *MappingAmbiguityError) Error() string {
	return fmt.Sprintf("ambiguous question mapping for %s (%s)", e.File, e.Student)
}

// TooFewTokensError marks one file whose token count fell below the
// configured floor, excluding it from similarity comparison.
type TooFewTokensError struct {
	Student StudentID
	File    string
	Count   int
	Min     int
}

func (e *TooFewTokensError) Error() string {
	return fmt.Sprintf("%s (%s) has %d tokens, below the minimum of %d", e.File, e.Student, e.Count, e.Min)
}

// IOError wraps an unexpected filesystem failure scoped to one student and
// path.
type IOError struct {
	Student StudentID
	Path    string
	Err     error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error for %s at %s: %v", e.Student, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// InternalError wraps a recovered panic or other unexpected failure that
// is not scoped to a single student; it is returned to the caller with an
// empty Result, never a partially assembled one.
type InternalError struct {
	Reason string
	Err    error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("internal error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("internal error: %s", e.Reason)
}

func (e *InternalError) Unwrap() error { return e.Err }
