// Package config defines the immutable run configuration for a grading
// pass: question count, similarity threshold, extraction limits, accepted
// file formats, and the tokenizer sensitivity profile. Unlike the Python
// original's class-level mutable configuration (set once at import time and
// occasionally restored via a snapshot), Config here is a plain value built
// once by the caller and never mutated afterward — the same "validated
// struct, no package-level state" shape the teacher uses for its database
// connection configs.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/codewatch-io/mastergrader/token"
)

// Config holds every tunable parameter of a grading run.
type Config struct {
	NumQuestions        int      `yaml:"num_questions"`
	SimilarityThreshold float64  `yaml:"similarity_threshold"`
	MinTokenCount       int      `yaml:"min_token_count"`
	MaxExtractionDepth  int      `yaml:"max_extraction_depth"`
	AcceptedExtensions  []string `yaml:"accepted_extensions"`
	ArchiveExtensions   []string `yaml:"archive_extensions"`
	IgnorePatterns      []string `yaml:"ignore_patterns"`
	Concurrency         int      `yaml:"concurrency"`
	Sensitivity         string   `yaml:"sensitivity"`
	TemplatePath        string   `yaml:"template_path"`
}

// Default returns the baseline configuration: six questions, a 95%
// similarity threshold, a 50-token floor, extraction bounded to depth 10,
// and the balanced sensitivity profile — the same defaults the original
// carried as class constants (NUM_QUESTIONS, SIMILARITY_THRESHOLD,
// MIN_TOKEN_COUNT, MAX_EXTRACTION_DEPTH).
func Default() Config {
	return Config{
		NumQuestions:        6,
		SimilarityThreshold: 95.0,
		MinTokenCount:       50,
		MaxExtractionDepth:  10,
		AcceptedExtensions:  []string{".c", ".cpp", ".h"},
		ArchiveExtensions:   []string{".zip", ".rar", ".7z"},
		IgnorePatterns:      []string{"__MACOSX", ".DS_Store", "Thumbs.db", ".git"},
		Concurrency:         0,
		Sensitivity:         "balanced",
	}
}

// Load reads and merges a YAML configuration file over Default(). Absent
// fields keep their default value; an empty path is a no-op.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every field is within its legal range and that the
// sensitivity profile name resolves. It is called exactly once, before a
// pipeline run starts — the validated Config is never touched again.
func (c Config) Validate() error {
	var problems []string

	if c.NumQuestions < 1 {
		problems = append(problems, "num_questions must be at least 1")
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 100 {
		problems = append(problems, "similarity_threshold must be between 0 and 100")
	}
	if c.MinTokenCount < 1 {
		problems = append(problems, "min_token_count must be positive")
	}
	if c.MaxExtractionDepth < 1 {
		problems = append(problems, "max_extraction_depth must be at least 1")
	}
	if len(c.AcceptedExtensions) == 0 {
		problems = append(problems, "accepted_extensions must not be empty")
	}
	if _, err := c.SensitivityProfile(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// ValidationError reports every rule a Config violated at once, rather than
// failing on the first, so a caller fixing a config file gets the full list
// in one pass.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	msg := "invalid config:"
	for _, p := range e.Problems {
		msg += "\n  - " + p
	}
	return msg
}

// SensitivityProfile resolves the configured profile name to a
// token.SensitivityProfile. "custom" is accepted but yields the zero
// profile; callers wanting fine-grained control should build
// token.SensitivityProfile directly rather than going through Config.
func (c Config) SensitivityProfile() (token.SensitivityProfile, error) {
	switch c.Sensitivity {
	case "", "smart":
		return token.Smart(), nil
	case "balanced":
		return token.Balanced(), nil
	case "strict":
		return token.Strict(), nil
	case "custom":
		return token.SensitivityProfile{}, nil
	default:
		return token.SensitivityProfile{}, fmt.Errorf("unknown sensitivity profile %q", c.Sensitivity)
	}
}
