// Package sandbox implements recursive, depth-bounded extraction of student
// submission archives into isolated per-student scratch directories. It is
// the Go reworking of the original's ZipExtractor: the same depth counter,
// extracted-path idempotence cache, and "delete the archive once its
// contents are safely extracted" rule, generalized here to zip/rar/7z and
// hardened against path traversal.
package sandbox

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/uuid"
)

// LogEntry records one noteworthy event from a Materialize call: an
// extracted archive, a password-protected or corrupt one, or a depth
// ceiling hit. Ignored system files are skipped without an entry. These feed directly into pipeline.LogEntry
// aggregation; sandbox never logs on its own.
type LogEntry struct {
	StudentID string
	Path      string
	Kind      string
	Message   string
}

const (
	KindExtracted            = "extracted"
	KindPasswordProtected    = "password_protected"
	KindCorruptArchive       = "corrupt_archive"
	KindDepthExceeded        = "depth_exceeded"
	KindPathTraversalBlocked = "path_traversal_blocked"
)

// Result is the outcome of materializing one student's submission.
type Result struct {
	StudentID string
	RootDir   string
	Entries   []LogEntry
}

// Sandbox extracts student submissions under a single scratch root,
// guaranteeing each archive is extracted at most once even if several
// students' trees reference files with the same absolute path (e.g. a
// shared network mount).
type Sandbox struct {
	baseDir        string
	maxDepth       int
	ignorePatterns []string

	mu        sync.Mutex
	extracted map[string]bool
}

// New creates a Sandbox rooted at baseDir, creating it if necessary.
func New(baseDir string, maxDepth int, ignorePatterns []string) (*Sandbox, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create sandbox root %s: %w", baseDir, err)
	}
	return &Sandbox{
		baseDir:        baseDir,
		maxDepth:       maxDepth,
		ignorePatterns: ignorePatterns,
		extracted:      make(map[string]bool),
	}, nil
}

// Materialize copies submissionPath (a directory or a single archive file)
// into a fresh scratch directory scoped to studentID, then recursively
// extracts every nested archive it finds, up to the configured depth.
func (s *Sandbox) Materialize(studentID, submissionPath string) (Result, error) {
	scratchID, err := uuid.NewV4()
	if err != nil {
		return Result{}, fmt.Errorf("generate scratch id: %w", err)
	}
	root := filepath.Join(s.baseDir, fmt.Sprintf("%s-%s", sanitizeID(studentID), scratchID.String()))
	if err := os.MkdirAll(root, 0o755); err != nil {
		return Result{}, fmt.Errorf("create scratch dir: %w", err)
	}

	info, err := os.Stat(submissionPath)
	if err != nil {
		return Result{}, fmt.Errorf("stat submission %s: %w", submissionPath, err)
	}

	var entries []LogEntry
	if info.IsDir() {
		if err := copyTree(submissionPath, root); err != nil {
			return Result{}, fmt.Errorf("copy submission tree: %w", err)
		}
	} else {
		dest := filepath.Join(root, filepath.Base(submissionPath))
		if err := copyFile(submissionPath, dest); err != nil {
			return Result{}, fmt.Errorf("copy submission archive: %w", err)
		}
	}

	s.extractTree(root, studentID, 0, &entries)

	return Result{StudentID: studentID, RootDir: root, Entries: entries}, nil
}

// extractTree walks dir, extracting every archive it finds in place and
// recursing into what comes out, until maxDepth is exceeded.
func (s *Sandbox) extractTree(dir, studentID string, depth int, entries *[]LogEntry) {
	if depth > s.maxDepth {
		*entries = append(*entries, LogEntry{
			StudentID: studentID, Path: dir, Kind: KindDepthExceeded,
			Message: fmt.Sprintf("maximum extraction depth (%d) reached", s.maxDepth),
		})
		return
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		*entries = append(*entries, LogEntry{
			StudentID: studentID, Path: dir, Kind: KindCorruptArchive,
			Message: fmt.Sprintf("cannot read directory: %v", err),
		})
		return
	}

	for _, de := range dirEntries {
		path := filepath.Join(dir, de.Name())
		if s.shouldIgnore(path) {
			continue
		}

		if de.IsDir() {
			s.extractTree(path, studentID, depth, entries)
			continue
		}

		ext := strings.ToLower(filepath.Ext(de.Name()))
		if !isArchiveExt(ext) {
			continue
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}
		s.mu.Lock()
		already := s.extracted[absPath]
		if !already {
			s.extracted[absPath] = true
		}
		s.mu.Unlock()
		if already {
			continue
		}

		destDir := strings.TrimSuffix(path, filepath.Ext(path)) + "_extracted"
		if err := extractArchive(path, destDir, ext, s.ignorePatterns); err != nil {
			kind := KindCorruptArchive
			if isPasswordError(err) {
				kind = KindPasswordProtected
			}
			*entries = append(*entries, LogEntry{
				StudentID: studentID, Path: path, Kind: kind, Message: err.Error(),
			})
			continue
		}

		*entries = append(*entries, LogEntry{
			StudentID: studentID, Path: path, Kind: KindExtracted,
		})

		if err := os.Remove(path); err != nil {
			*entries = append(*entries, LogEntry{
				StudentID: studentID, Path: path, Kind: KindCorruptArchive,
				Message: fmt.Sprintf("failed to remove archive after extraction: %v", err),
			})
		}

		s.extractTree(destDir, studentID, depth+1, entries)

		// Move the extracted contents up beside where the archive was and
		// drop the extraction directory. A name that already exists there
		// stays in the extraction directory rather than being overwritten.
		if moved, err := os.ReadDir(destDir); err == nil {
			for _, m := range moved {
				dst := filepath.Join(dir, m.Name())
				if _, err := os.Lstat(dst); err == nil {
					continue
				}
				_ = os.Rename(filepath.Join(destDir, m.Name()), dst)
			}
			_ = os.Remove(destDir)
		}
	}
}

func (s *Sandbox) shouldIgnore(path string) bool {
	lower := strings.ToLower(path)
	for _, pattern := range s.ignorePatterns {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

func isArchiveExt(ext string) bool {
	switch ext {
	case ".zip", ".rar", ".7z":
		return true
	}
	return false
}

func sanitizeID(id string) string {
	var b strings.Builder
	safe := false
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
			safe = true
		default:
			b.WriteRune('_')
		}
	}
	if !safe {
		return "student"
	}
	return b.String()
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

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}
