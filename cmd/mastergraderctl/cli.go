package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"

	"github.com/codewatch-io/mastergrader/config"
	"github.com/codewatch-io/mastergrader/pipeline"
	"github.com/codewatch-io/mastergrader/util"
)

var version string

// runOptions and the pipeline.Options it builds, parsed from the command
// line the same way mysqldef's parseOptions turns flags into a
// database.Config — one struct of go-flags tags, one translation step.
func parseOptions(args []string) (pipeline.Options, bool) {
	var opts struct {
		RootDir             string  `short:"r" long:"root" description:"Directory containing one subdirectory or archive per student" required:"true"`
		OutputDir           string  `short:"o" long:"output" description:"Directory to receive per-question canonicalized submissions" required:"true"`
		ConfigFile          string  `long:"config" description:"YAML configuration file" value-name:"config.yaml"`
		TemplatePath        string  `long:"template" description:"Starter-code file to subtract from every submission before comparison"`
		NumQuestions        int     `long:"num-questions" description:"Number of questions in the assignment"`
		SimilarityThreshold float64 `long:"threshold" description:"Similarity percentage (0-100) at or above which a pair is flagged"`
		MinTokenCount       int     `long:"min-tokens" description:"Submissions with fewer tokens than this are excluded from comparison"`
		Sensitivity         string  `long:"sensitivity" description:"Tokenizer sensitivity profile: smart, balanced, strict, or custom"`
		Concurrency         int     `long:"concurrency" description:"Comparison concurrency: 0 disables it, negative is unbounded"`
		Debug               bool    `long:"debug" description:"Pretty-print the full result with k0kubun/pp instead of a summary"`
		Version             bool    `long:"version" description:"Show this version"`
		Help                bool    `long:"help" description:"Show this help"`
	}

	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[options]"
	_, err := parser.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	cfg := config.Default()
	if opts.ConfigFile != "" {
		cfg, err = config.Load(opts.ConfigFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
	}
	if opts.NumQuestions != 0 {
		cfg.NumQuestions = opts.NumQuestions
	}
	if opts.SimilarityThreshold != 0 {
		cfg.SimilarityThreshold = opts.SimilarityThreshold
	}
	if opts.MinTokenCount != 0 {
		cfg.MinTokenCount = opts.MinTokenCount
	}
	if opts.Sensitivity != "" {
		cfg.Sensitivity = opts.Sensitivity
	}
	if opts.Concurrency != 0 {
		cfg.Concurrency = opts.Concurrency
	}
	if opts.TemplatePath != "" {
		cfg.TemplatePath = opts.TemplatePath
	}

	return pipeline.Options{
		Config:       cfg,
		RootDir:      opts.RootDir,
		OutputDir:    opts.OutputDir,
		TemplatePath: cfg.TemplatePath,
	}, opts.Debug
}

func main() {
	util.InitSlog()

	runOpts, debug := parseOptions(os.Args[1:])

	driver := pipeline.NewDriver(slog.Default())
	result, err := driver.Run(context.Background(), runOpts)
	if err != nil {
		slog.Error("grading run failed", "error", err)
		os.Exit(1)
	}

	if debug {
		pp.Println(result)
		return
	}

	slog.Info("grading run complete",
		"flagged_pairs", len(result.Pairs),
		"total_cases", result.Statistics.TotalCases,
		"clusters", len(result.Statistics.Clusters),
		"log_entries", len(result.Log),
	)
	for _, pair := range result.Pairs {
		slog.Info("flagged pair",
			"question", pair.Question,
			"student_a", pair.StudentA,
			"student_b", pair.StudentB,
			"similarity", pair.Similarity,
		)
	}
}
