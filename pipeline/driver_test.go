package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewatch-io/mastergrader/config"
	"github.com/codewatch-io/mastergrader/internal/testhelpers"
)

func baseOptions(rootDir, outputDir string) Options {
	cfg := config.Default()
	cfg.NumQuestions = 1
	cfg.MinTokenCount = 1
	cfg.SimilarityThreshold = 90
	cfg.Concurrency = 0
	return Options{Config: cfg, RootDir: rootDir, OutputDir: outputDir}
}

func TestRunFindsMatchingSubmissions(t *testing.T) {
	identical := "int main() { return 0; }"
	rootDir := testhelpers.BuildClass(t, []testhelpers.ClassRoster{
		{Student: "alice", Files: map[string]string{"q1.c": identical}},
		{Student: "bob", Files: map[string]string{"q1.c": identical}},
		{Student: "carol", Files: map[string]string{"q1.c": "void setup() { init(); }"}},
	})

	outputDir := t.TempDir()
	d := NewDriver(nil)
	result, err := d.Run(context.Background(), baseOptions(rootDir, outputDir))
	require.NoError(t, err)

	require.Len(t, result.Pairs, 1)
	assert.Equal(t, "alice", result.Pairs[0].StudentA)
	assert.Equal(t, "bob", result.Pairs[0].StudentB)
	assert.Equal(t, 1, result.Statistics.TotalCases)

	_, err = os.Stat(filepath.Join(outputDir, "Q1", "alice.c"))
	assert.NoError(t, err)
}

func TestRunExtractsZippedSubmission(t *testing.T) {
	identical := "int main() { return 0; }"
	rootDir := testhelpers.BuildClass(t, []testhelpers.ClassRoster{
		{Student: "alice", ZipFiles: []testhelpers.ZipEntry{{Name: "q1.c", Content: identical}}},
		{Student: "bob", ZipFiles: []testhelpers.ZipEntry{{Name: "q1.c", Content: identical}}},
	})

	outputDir := t.TempDir()
	d := NewDriver(nil)
	result, err := d.Run(context.Background(), baseOptions(rootDir, outputDir))
	require.NoError(t, err)

	require.Len(t, result.Pairs, 1)
	assert.Equal(t, "alice", result.Pairs[0].StudentA)
	assert.Equal(t, "bob", result.Pairs[0].StudentB)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	rootDir := t.TempDir()
	outputDir := t.TempDir()
	opts := baseOptions(rootDir, outputDir)
	opts.NumQuestions = 0

	d := NewDriver(nil)
	_, err := d.Run(context.Background(), opts)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRunCleansUpScratchDirsOnSuccess(t *testing.T) {
	rootDir := testhelpers.BuildClass(t, []testhelpers.ClassRoster{
		{Student: "alice", Files: map[string]string{"q1.c": "int main(){return 0;}"}},
	})
	outputDir := t.TempDir()

	tmpBefore, _ := os.ReadDir(os.TempDir())
	d := NewDriver(nil)
	_, err := d.Run(context.Background(), baseOptions(rootDir, outputDir))
	require.NoError(t, err)
	tmpAfter, _ := os.ReadDir(os.TempDir())

	assert.LessOrEqual(t, len(tmpAfter), len(tmpBefore)+1, "no leaked mastergrader scratch directories")
}

func TestRunDeterministicLogOrdering(t *testing.T) {
	rootDir := testhelpers.BuildClass(t, []testhelpers.ClassRoster{
		{Student: "alice", Files: map[string]string{"other.c": "int x;"}},
		{Student: "bob", Files: map[string]string{"other.c": "int y;"}},
	})

	d := NewDriver(nil)
	first, err := d.Run(context.Background(), baseOptions(rootDir, t.TempDir()))
	require.NoError(t, err)

	second, err := d.Run(context.Background(), baseOptions(rootDir, t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, first.Log, second.Log)
}
