package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateCatchesEveryProblem(t *testing.T) {
	cfg := Config{
		NumQuestions:        0,
		SimilarityThreshold: 150,
		MinTokenCount:       0,
		MaxExtractionDepth:  0,
		Sensitivity:         "nonsense",
	}
	err := cfg.Validate()
	require.Error(t, err)
	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Len(t, ve.Problems, 6)
}

func TestLoadMergesOverDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_questions: 3\nsensitivity: strict\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.NumQuestions)
	assert.Equal(t, "strict", cfg.Sensitivity)
	assert.Equal(t, 95.0, cfg.SimilarityThreshold) // inherited from Default
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSensitivityProfileResolution(t *testing.T) {
	cfg := Default()
	cfg.Sensitivity = "strict"
	profile, err := cfg.SensitivityProfile()
	require.NoError(t, err)
	assert.False(t, profile.IgnoreVariableNames)

	cfg.Sensitivity = "smart"
	profile, err = cfg.SensitivityProfile()
	require.NoError(t, err)
	assert.True(t, profile.IgnoreVariableNames)

	cfg.Sensitivity = "bogus"
	_, err = cfg.SensitivityProfile()
	assert.Error(t, err)
}
