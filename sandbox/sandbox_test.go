package sandbox

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestMaterializeExtractsZip(t *testing.T) {
	submissionDir := t.TempDir()
	writeZip(t, filepath.Join(submissionDir, "hw.zip"), map[string]string{
		"q1.c": "int main() { return 0; }",
	})

	sb, err := New(t.TempDir(), 10, []string{"__MACOSX", ".DS_Store"})
	require.NoError(t, err)

	result, err := sb.Materialize("student1", submissionDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(result.RootDir, "q1.c"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "int main")

	_, err = os.Stat(filepath.Join(result.RootDir, "hw.zip"))
	assert.True(t, os.IsNotExist(err), "archive should be removed after extraction")
}

func TestMaterializeHandlesNestedZip(t *testing.T) {
	submissionDir := t.TempDir()
	inner := filepath.Join(submissionDir, "inner.zip")
	writeZip(t, inner, map[string]string{"q2.c": "void f() {}"})

	outer := filepath.Join(submissionDir, "outer.zip")
	f, err := os.Create(outer)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	innerBytes, err := os.ReadFile(inner)
	require.NoError(t, err)
	w, err := zw.Create("inner.zip")
	require.NoError(t, err)
	_, err = w.Write(innerBytes)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	f.Close()
	require.NoError(t, os.Remove(inner))

	sb, err := New(t.TempDir(), 10, nil)
	require.NoError(t, err)
	result, err := sb.Materialize("student2", submissionDir)
	require.NoError(t, err)

	found := false
	_ = filepath.WalkDir(result.RootDir, func(path string, d os.DirEntry, err error) error {
		if !d.IsDir() && filepath.Base(path) == "q2.c" {
			found = true
		}
		return nil
	})
	assert.True(t, found, "nested archive contents should surface under the scratch root")
}

func TestMaterializeDepthBoundStopsRunawayNesting(t *testing.T) {
	submissionDir := t.TempDir()
	writeZip(t, filepath.Join(submissionDir, "a.zip"), map[string]string{"x.c": "int x;"})

	sb, err := New(t.TempDir(), 0, nil)
	require.NoError(t, err)
	result, err := sb.Materialize("student3", submissionDir)
	require.NoError(t, err)

	foundDepthLog := false
	for _, e := range result.Entries {
		if e.Kind == KindDepthExceeded {
			foundDepthLog = true
		}
	}
	assert.True(t, foundDepthLog, "exceeding max depth should be logged, not silently dropped")
}

func TestWithinRootBlocksTraversal(t *testing.T) {
	root := t.TempDir()
	_, ok := withinRoot(root, "../../etc/passwd")
	assert.False(t, ok)

	target, ok := withinRoot(root, "a/b.c")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, "a", "b.c"), target)
}

func TestSanitizeIDReplacesUnsafeCharacters(t *testing.T) {
	assert.Equal(t, "student_1", sanitizeID("student 1"))
	assert.Equal(t, "student", sanitizeID("///"))
}
