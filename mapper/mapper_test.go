package mapper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestMapStudentRecognizesFilenamePattern(t *testing.T) {
	studentDir := t.TempDir()
	writeFile(t, filepath.Join(studentDir, "q1.c"), "int main(){return 0;}")

	outputDir := t.TempDir()
	m := New(3, []string{".c"}, nil)
	assignment, err := m.MapStudent(studentDir, "student1", outputDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(studentDir, "q1.c"), assignment.ByQuestion[1])
	data, err := os.ReadFile(filepath.Join(outputDir, "Q1", "student1.c"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "int main")
}

func TestMapStudentRecognizesDirectoryPattern(t *testing.T) {
	studentDir := t.TempDir()
	writeFile(t, filepath.Join(studentDir, "Question2", "main.c"), "void f(){}")

	outputDir := t.TempDir()
	m := New(3, []string{".c"}, nil)
	assignment, err := m.MapStudent(studentDir, "student2", outputDir)
	require.NoError(t, err)

	assert.NotEmpty(t, assignment.ByQuestion[2])
}

func TestMapStudentRecognizesNumberedFilename(t *testing.T) {
	studentDir := t.TempDir()
	writeFile(t, filepath.Join(studentDir, "submission_3.c"), "void g(){}")

	outputDir := t.TempDir()
	m := New(5, []string{".c"}, nil)
	assignment, err := m.MapStudent(studentDir, "student3", outputDir)
	require.NoError(t, err)

	assert.NotEmpty(t, assignment.ByQuestion[3])
}

func TestMapStudentUnmappedWhenNoSignal(t *testing.T) {
	studentDir := t.TempDir()
	writeFile(t, filepath.Join(studentDir, "source.c"), "void h(){}")

	outputDir := t.TempDir()
	m := New(5, []string{".c"}, nil)
	assignment, err := m.MapStudent(studentDir, "student4", outputDir)
	require.NoError(t, err)

	assert.Contains(t, assignment.Unmapped, filepath.Join(studentDir, "source.c"))
}

func TestMapStudentSkipsIgnoredDirectories(t *testing.T) {
	studentDir := t.TempDir()
	writeFile(t, filepath.Join(studentDir, "__MACOSX", "q1.c"), "int x;")
	writeFile(t, filepath.Join(studentDir, "q1.c"), "int main(){return 0;}")

	outputDir := t.TempDir()
	m := New(3, []string{".c"}, []string{"__MACOSX"})
	assignment, err := m.MapStudent(studentDir, "student5", outputDir)
	require.NoError(t, err)

	assert.NotEmpty(t, assignment.ByQuestion[1])
}

func TestMapStudentKeepsHighestConfidenceFileWhenTwoMatchSameQuestion(t *testing.T) {
	studentDir := t.TempDir()
	// "q1.c" matches the filename tier (0.9); "q1/extra.c" only matches the
	// path tier (0.7). The filename-tier file must win.
	writeFile(t, filepath.Join(studentDir, "q1.c"), "int best(){return 1;}")
	writeFile(t, filepath.Join(studentDir, "q1", "extra.c"), "int worst(){return 0;}")

	outputDir := t.TempDir()
	m := New(3, []string{".c"}, nil)
	assignment, err := m.MapStudent(studentDir, "student6", outputDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(studentDir, "q1.c"), assignment.ByQuestion[1])
	data, err := os.ReadFile(filepath.Join(outputDir, "Q1", "student6.c"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "best")
}

func TestClassifyRefusesAmbiguousMatch(t *testing.T) {
	m := New(3, []string{".c"}, nil)
	q, confidence, ambiguous := m.classify("/home/student/sol(1)(2).c")
	assert.True(t, ambiguous)
	assert.Equal(t, 0, q)
	assert.Zero(t, confidence)
}

func TestExtractBareNumberIgnoresOutOfRange(t *testing.T) {
	n, ok := extractBareNumber("/home/student99/file.c", 5)
	assert.False(t, ok)
	assert.Equal(t, 0, n)
}

func TestExtractBareNumberWithinRange(t *testing.T) {
	n, ok := extractBareNumber("/home/students/2.c", 5)
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}

func TestExtractBareNumberRefusesMultipleDistinctNumbers(t *testing.T) {
	n, ok := extractBareNumber("/home/student1/2.c", 5)
	assert.False(t, ok)
	assert.Equal(t, 0, n)
}
