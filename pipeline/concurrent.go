package pipeline

import (
	"cmp"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/codewatch-io/mastergrader/util"
)

type concurrentOutputWithOrdering struct {
	order  int
	output any
}

// concurrentMapStudents applies f across inputs with bounded concurrency,
// preserving input order in the result regardless of completion order.
// Adapted from the teacher's DDL-generation fan-out helper: there it mapped
// independent SQL inputs to generated statements, here it maps independent
// students through extraction/mapping/detection stages. concurrency == 0
// disables concurrency (serial), > 0 bounds it, < 0 leaves it unbounded.
func concurrentMapStudents[Tin any, Tout any](inputs []Tin, concurrency int, f func(Tin) (Tout, error)) ([]Tout, error) {
	eg := errgroup.Group{}
	if concurrency == 0 {
		eg.SetLimit(1)
	} else if concurrency > 0 {
		eg.SetLimit(concurrency)
	}

	ch := make(chan concurrentOutputWithOrdering, len(inputs))
	chClosed := false
	defer func() {
		if !chClosed {
			close(ch)
		}
	}()

	for i := range inputs {
		order := i
		in := inputs[i]
		eg.Go(func() error {
			out, err := f(in)
			if err != nil {
				return err
			}
			ch <- concurrentOutputWithOrdering{order, out}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	close(ch)
	chClosed = true

	tmp := make([]concurrentOutputWithOrdering, 0, len(inputs))
	for t := range ch {
		tmp = append(tmp, t)
	}

	slices.SortFunc(tmp, func(a, b concurrentOutputWithOrdering) int {
		return cmp.Compare(a.order, b.order)
	})

	return util.TransformSlice(tmp, func(t concurrentOutputWithOrdering) Tout {
		return t.output.(Tout)
	}), nil
}
