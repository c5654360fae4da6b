// pipeline.go
package pipeline

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"
)

// Stage is one table-in/table-out step. Stages must not mutate their input
// frame; each returns a new snapshot so intermediates stay reusable.
type Stage interface {
	Name() string
	Apply(ctx context.Context, df dataframe.DataFrame) (dataframe.DataFrame, error)
}

// Pipeline composes stages in a fixed order. Each stage checks its own
// preconditions instead of trusting the caller to run them in sequence.
type Pipeline struct {
	stages []Stage
}

func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

func (p *Pipeline) Add(s Stage) *Pipeline {
	p.stages = append(p.stages, s)
	return p
}

// Run feeds each stage's output to the next. The first stage error aborts
// the run; there is no partial recovery since every stage assumes its
// predecessor's invariants hold.
func (p *Pipeline) Run(ctx context.Context, df dataframe.DataFrame) (dataframe.DataFrame, error) {
	cur := df
	for _, s := range p.stages {
		select {
		case <-ctx.Done():
			return cur, ctx.Err()
		default:
		}

		next, err := s.Apply(ctx, cur)
		if err != nil {
			return cur, fmt.Errorf("stage %s: %w", s.Name(), err)
		}
		if next.Err != nil {
			return cur, fmt.Errorf("stage %s: %w", s.Name(), next.Err)
		}
		cur = next
	}
	return cur, nil
}
