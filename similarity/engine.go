// Package similarity runs all-pairs token-stream comparison within a
// single question, clusters students whose submissions cross the
// configured threshold, and reports summary statistics. The comparison
// loop is modeled on the teacher's bounded-concurrency map helper
// (originally used to fan out DDL generation across independent inputs,
// generalized here to fan out over independent student pairs).
package similarity

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/codewatch-io/mastergrader/token"
)

// Submission is one student's token stream for a single question, along
// with the canonical file path it was tokenized from (under
// output_dir/Q{question}/, per the mapper's per-question selection).
type Submission struct {
	StudentID string
	FilePath  string
	Tokens    token.Stream
}

// Pair is one above-threshold match between two students, carrying the
// canonical file each side's comparison was run against.
type Pair struct {
	Question   int
	StudentA   string
	StudentB   string
	FileA      string
	FileB      string
	Similarity float64
}

// Engine compares submissions for a single question at a time; one Engine
// can serve every question of a run, and each Detect call gets a fresh pair
// cache, since questions never compare against each other and so never
// need to share state.
type Engine struct {
	threshold   float64
	concurrency int
}

// New builds an Engine that flags pairs at or above threshold (0-100),
// running comparisons with the given concurrency (0 = serial, <0 =
// unbounded, matching ConcurrentMapFuncWithError's contract).
func New(threshold float64, concurrency int) *Engine {
	return &Engine{threshold: threshold, concurrency: concurrency}
}

type comparisonJob struct {
	i, j int
}

// Detect runs every pairwise comparison among submissions for one question
// and returns the pairs that met or exceeded the threshold, sorted by
// descending similarity and then by StudentA/StudentB for determinism.
func (e *Engine) Detect(ctx context.Context, question int, submissions []Submission) ([]Pair, error) {
	ordered := make([]Submission, len(submissions))
	copy(ordered, submissions)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].StudentID < ordered[j].StudentID })

	cache := newPairCache()

	var jobs []comparisonJob
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			jobs = append(jobs, comparisonJob{i, j})
		}
	}

	results, err := concurrentMap(ctx, jobs, e.concurrency, func(job comparisonJob) (*Pair, error) {
		a, b := ordered[job.i], ordered[job.j]
		sim := cache.getOrCompute(a.StudentID, b.StudentID, func() float64 {
			return Ratio(a.Tokens, b.Tokens)
		})
		if sim < e.threshold {
			return nil, nil
		}
		return &Pair{
			Question:   question,
			StudentA:   a.StudentID,
			StudentB:   b.StudentID,
			FileA:      a.FilePath,
			FileB:      b.FilePath,
			Similarity: sim,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	var pairs []Pair
	for _, p := range results {
		if p != nil {
			pairs = append(pairs, *p)
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Similarity != pairs[j].Similarity {
			return pairs[i].Similarity > pairs[j].Similarity
		}
		if pairs[i].StudentA != pairs[j].StudentA {
			return pairs[i].StudentA < pairs[j].StudentA
		}
		return pairs[i].StudentB < pairs[j].StudentB
	})
	return pairs, nil
}

// concurrentMap maps f over inputs with errgroup.SetLimit, preserving the
// 0/positive/negative concurrency contract the teacher's
// ConcurrentMapFuncWithError established for bounding fan-out work.
func concurrentMap[Tin any, Tout any](ctx context.Context, inputs []Tin, concurrency int, f func(Tin) (Tout, error)) ([]Tout, error) {
	eg, egCtx := errgroup.WithContext(ctx)
	if concurrency == 0 {
		eg.SetLimit(1)
	} else if concurrency > 0 {
		eg.SetLimit(concurrency)
	}

	outputs := make([]Tout, len(inputs))
	for i := range inputs {
		i := i
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}
			out, err := f(inputs[i])
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}
