// Package pipeline orchestrates a full grading run: validate configuration,
// extract every student's submission, map files to questions, run
// similarity detection per question, and aggregate the results. It is the
// one package that sequences the other four components together.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codewatch-io/mastergrader/config"
	"github.com/codewatch-io/mastergrader/mapper"
	"github.com/codewatch-io/mastergrader/sandbox"
	"github.com/codewatch-io/mastergrader/similarity"
	"github.com/codewatch-io/mastergrader/token"
)

// Options is the public entry-point parameter set for a single grading run.
type Options struct {
	config.Config
	RootDir      string
	OutputDir    string
	TemplatePath string
}

// LogEntry is one noteworthy event recorded during a run: an extraction
// failure, an ambiguous mapping, a too-short submission, or similar.
// Driver.Run builds its LogEntry sequence deterministically — sorted by
// StudentID, then by stage — so identical input always produces a
// byte-identical log.
type LogEntry struct {
	Student StudentID
	Stage   string
	Kind    string
	Message string
}

// Result is everything a grading run produced.
type Result struct {
	Pairs      []similarity.Pair
	Statistics similarity.Statistics
	Log        []LogEntry
}

// Driver runs one grading pass end to end.
type Driver struct {
	Logger *slog.Logger
}

// NewDriver builds a Driver. A nil logger falls back to slog.Default().
func NewDriver(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{Logger: logger}
}

type studentSubmission struct {
	id   StudentID
	path string
}

type extractedSubmission struct {
	student StudentID
	rootDir string
}

type mappedSubmission struct {
	student    StudentID
	assignment mapper.Assignment
}

// Run executes validate -> extract -> map -> detect -> aggregate.
// Every scratch directory created during extraction is destroyed before
// Run returns, on every exit path: success, a returned error, or a
// recovered panic.
func (d *Driver) Run(ctx context.Context, opts Options) (result Result, err error) {
	if verr := opts.Config.Validate(); verr != nil {
		return Result{}, &ConfigError{Reason: verr.Error()}
	}

	scratchRoot, mkErr := os.MkdirTemp("", "mastergrader-run-*")
	if mkErr != nil {
		return Result{}, &ConfigError{Reason: fmt.Sprintf("create scratch root: %v", mkErr)}
	}

	var scratchDirs []string
	defer func() {
		for _, dir := range scratchDirs {
			_ = os.RemoveAll(dir)
		}
		_ = os.RemoveAll(scratchRoot)

		if r := recover(); r != nil {
			err = &InternalError{Reason: "recovered panic in pipeline run", Err: fmt.Errorf("%v", r)}
		}
	}()

	students, err := discoverStudents(opts.RootDir)
	if err != nil {
		return Result{}, &ConfigError{Reason: fmt.Sprintf("discover students: %v", err)}
	}

	sb, err := sandbox.New(scratchRoot, opts.MaxExtractionDepth, opts.IgnorePatterns)
	if err != nil {
		return Result{}, &ConfigError{Reason: fmt.Sprintf("create sandbox: %v", err)}
	}

	var log []LogEntry

	extractedStudents, err := concurrentMapStudents(students, opts.Concurrency, func(s studentSubmission) (extractedSubmission, error) {
		res, merr := sb.Materialize(string(s.id), s.path)
		if merr != nil {
			d.Logger.Warn("invalid submission", "error", (&InvalidSubmissionError{Student: s.id, Reason: merr.Error()}).Error())
			return extractedSubmission{student: s.id}, nil
		}
		for _, e := range res.Entries {
			d.Logger.Debug("sandbox event", "student", s.id, "kind", e.Kind, "path", e.Path)
		}
		return extractedSubmission{student: s.id, rootDir: res.RootDir}, nil
	})
	if err != nil {
		return Result{}, err
	}

	for _, ex := range extractedStudents {
		if ex.rootDir != "" {
			scratchDirs = append(scratchDirs, ex.rootDir)
		}
	}
	log = append(log, extractionLog(extractedStudents)...)

	m := mapper.New(opts.NumQuestions, opts.AcceptedExtensions, opts.IgnorePatterns)

	mappedStudents, err := concurrentMapStudents(extractedStudents, opts.Concurrency, func(ex extractedSubmission) (mappedSubmission, error) {
		if ex.rootDir == "" {
			return mappedSubmission{student: ex.student}, nil
		}
		assignment, merr := m.MapStudent(ex.rootDir, string(ex.student), opts.OutputDir)
		if merr != nil {
			return mappedSubmission{student: ex.student}, &IOError{Student: ex.student, Path: ex.rootDir, Err: merr}
		}
		// Point each slot at the canonical copy MapStudent wrote under
		// OutputDir, and keep unmapped/ambiguous paths relative to the
		// student's scratch root so log messages carry no scratch name.
		for q, src := range assignment.ByQuestion {
			ext := strings.ToLower(filepath.Ext(src))
			assignment.ByQuestion[q] = filepath.Join(opts.OutputDir, fmt.Sprintf("Q%d", q), string(ex.student)+ext)
		}
		for _, paths := range [][]string{assignment.Unmapped, assignment.Ambiguous} {
			for i, p := range paths {
				if rel, rerr := filepath.Rel(ex.rootDir, p); rerr == nil {
					paths[i] = rel
				}
			}
		}
		return mappedSubmission{student: ex.student, assignment: assignment}, nil
	})
	if err != nil {
		return Result{}, err
	}

	log = append(log, mappingLog(mappedStudents)...)

	profile, perr := opts.SensitivityProfile()
	if perr != nil {
		return Result{}, &ConfigError{Reason: perr.Error()}
	}

	var template token.Stream
	if opts.TemplatePath != "" {
		src, rerr := os.ReadFile(opts.TemplatePath)
		if rerr != nil {
			return Result{}, &ConfigError{Reason: fmt.Sprintf("read template: %v", rerr)}
		}
		template = token.Tokenize(src, profile)
	}

	engine := similarity.New(opts.SimilarityThreshold, opts.Concurrency)

	var allPairs []similarity.Pair
	for q := 1; q <= opts.NumQuestions; q++ {
		submissions, qlog := buildSubmissions(mappedStudents, q, profile, template, opts.MinTokenCount)
		log = append(log, qlog...)

		pairs, derr := engine.Detect(ctx, q, submissions)
		if derr != nil {
			return Result{}, &InternalError{Reason: "similarity detection failed", Err: derr}
		}
		allPairs = append(allPairs, pairs...)
	}

	sort.Slice(log, func(i, j int) bool {
		if log[i].Student != log[j].Student {
			return log[i].Student < log[j].Student
		}
		return log[i].Stage < log[j].Stage
	})

	return Result{
		Pairs:      allPairs,
		Statistics: similarity.Summarize(allPairs),
		Log:        log,
	}, nil
}

// discoverStudents enumerates the immediate children of rootDir, treating
// each as one student's submission (a directory or a single archive file),
// sorted by name for deterministic downstream ordering.
func discoverStudents(rootDir string) ([]studentSubmission, error) {
	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	students := make([]studentSubmission, 0, len(names))
	for _, name := range names {
		students = append(students, studentSubmission{
			id:   studentIDFromName(name),
			path: filepath.Join(rootDir, name),
		})
	}
	return students, nil
}

func studentIDFromName(name string) StudentID {
	ext := filepath.Ext(name)
	return StudentID(name[:len(name)-len(ext)])
}

func extractionLog(extractedStudents []extractedSubmission) []LogEntry {
	var entries []LogEntry
	for _, ex := range extractedStudents {
		if ex.rootDir == "" {
			entries = append(entries, LogEntry{
				Student: ex.student, Stage: "extract", Kind: "invalid_submission",
				Message: "submission could not be materialized",
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Student < entries[j].Student })
	return entries
}
