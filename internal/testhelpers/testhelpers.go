// Package testhelpers builds throwaway submission trees and archives for
// exercising the pipeline in tests, playing the role the teacher's
// cmd/testutils package plays for SQL fixtures: a single place other
// packages' _test.go files reach for instead of re-deriving fixture
// plumbing per package.
package testhelpers

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content at rootDir/relPath, creating parent directories
// as needed.
func WriteFile(t *testing.T, rootDir, relPath, content string) string {
	t.Helper()
	path := filepath.Join(rootDir, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ZipEntry is one file to place inside a zip built by WriteZip.
type ZipEntry struct {
	Name    string
	Content string
}

// WriteZip builds a zip archive at rootDir/relPath containing entries, and
// returns its path.
func WriteZip(t *testing.T, rootDir, relPath string, entries []ZipEntry) string {
	t.Helper()
	path := filepath.Join(rootDir, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", e.Name, err)
		}
		if _, err := w.Write([]byte(e.Content)); err != nil {
			t.Fatalf("write zip entry %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip %s: %v", path, err)
	}
	return path
}

// ClassRoster describes one student's submission for BuildClass: either
// Files (materialized as a plain directory) or ZipFiles (materialized as
// a single zip archive named Student+".zip").
type ClassRoster struct {
	Student  string
	Files    map[string]string
	ZipFiles []ZipEntry
}

// BuildClass materializes a roster of students under a fresh root directory,
// one subdirectory or archive per student, in the shape pipeline.Driver.Run
// expects as RootDir.
func BuildClass(t *testing.T, roster []ClassRoster) string {
	t.Helper()
	root := t.TempDir()
	for _, r := range roster {
		if len(r.ZipFiles) > 0 {
			WriteZip(t, root, r.Student+".zip", r.ZipFiles)
			continue
		}
		for rel, content := range r.Files {
			WriteFile(t, root, filepath.Join(r.Student, rel), content)
		}
	}
	return root
}
